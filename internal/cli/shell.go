package cli

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
)

func newShellCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive registry session",
		Long: `Read commands from a prompt and run them against one registry session.
Failed commands are reported and the session continues. Global flags given to
'creg shell' apply to every command in the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.NonInteractive {
				return errors.New("shell is not available in non-interactive mode")
			}

			prompt := promptui.Prompt{
				Label: "creg",
				Templates: &promptui.PromptTemplates{
					Prompt:  "{{ . | cyan }}> ",
					Valid:   "{{ . | cyan }}> ",
					Invalid: "{{ . | cyan }}> ",
					Success: "{{ . | faint }}> ",
				},
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Type a command, 'help' for the command list or 'exit' to leave.")
			for cmd.Context().Err() == nil {
				line, err := prompt.Run()
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if runShellLine(cmd, state, line) {
					return nil
				}
			}
			return nil
		},
	}
}

// runShellLine executes one line against a fresh command tree sharing the
// session's app. It reports true when the user asked to leave.
func runShellLine(cmd *cobra.Command, state *appState, line string) bool {
	args, err := splitCommandLine(line)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render.FormatError(err.Error()))
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "exit", "quit":
		return true
	case "shell":
		fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning("already in a shell"))
		return false
	}

	lineCmd := newRootCmd(state)
	lineCmd.SetArgs(args)
	lineCmd.SetOut(cmd.OutOrStdout())
	lineCmd.SetErr(cmd.ErrOrStderr())

	err = lineCmd.ExecuteContext(cmd.Context())
	state.releaseTimeout()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render.FormatError(err.Error()))
	}
	return false
}

// splitCommandLine splits a line into arguments with shell quoting rules.
// Pipes, redirects and command separators are rejected.
func splitCommandLine(line string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("unsupported shell operator %q", line[parser.Position:parser.Position+1])
	}
	return args, nil
}
