package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	var (
		wait        bool
		waitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "resolve <name>",
		Short: "Look up the address of a deployed contract",
		Long: `Return the recorded address of <name>, or read it from the deployment
receipt and record it. An unmined transaction is reported as not yet
confirmed; pass --wait to keep polling until it is mined.`,
		Example: `  creg resolve Counter

  # Poll for up to five minutes
  creg resolve Counter --wait --wait-timeout 5m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var result *usecase.ResolveAddressResult
			if wait {
				result, err = app.WaitForAddress.Run(cmd.Context(), usecase.WaitForAddressParams{
					Name:    args[0],
					Timeout: waitTimeout,
				})
			} else {
				result, err = app.ResolveAddress.Run(cmd.Context(), usecase.ResolveAddressParams{Name: args[0]})
			}
			if err != nil {
				return withSuggestions(cmd.Context(), app, args[0], err)
			}

			return writeResult(cmd, app, result, func() render.Renderer[*usecase.ResolveAddressResult] {
				return render.NewResolveRenderer(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the transaction is mined")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 2*time.Minute, "Give up waiting after this long")

	return cmd
}
