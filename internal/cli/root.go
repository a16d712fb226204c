package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/adapters/progress"
	"github.com/trebuchet-org/creg/internal/app"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/config"
	domainconfig "github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// appState owns the app across one process, including every line of a shell session
type appState struct {
	app     *app.App
	cleanup func()
	cancel  context.CancelFunc
}

// releaseTimeout cancels the per-command timeout
func (s *appState) releaseTimeout() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// close writes the metrics file and releases store and ledger connections
func (s *appState) close() error {
	s.releaseTimeout()
	if s.app == nil {
		return nil
	}
	err := s.app.Metrics.WriteTextfile(s.app.Config.MetricsFile)
	if s.cleanup != nil {
		s.cleanup()
	}
	s.app = nil
	return err
}

// Execute runs the CLI and reports the error on stderr
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := &appState{}
	rootCmd := newRootCmd(state)
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := state.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
	}
	return err
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&appState{})
}

func newRootCmd(state *appState) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "creg",
		Short: "Registry of named smart contract deployments",
		Long: `creg deploys contracts under a unique name, records the deployment
transaction, and resolves the contract address once the transaction is mined.
Resolved contracts can be invoked by name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			if state.app == nil {
				if err := state.init(cmd); err != nil {
					return err
				}
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, state.app)

			if timeout := state.app.Config.Timeout; timeout > 0 && cmd.Name() != "shell" {
				state.releaseTimeout()
				ctx, state.cancel = context.WithTimeout(ctx, timeout)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the project file (default: creg.toml in the project root)")
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.StringP("output", "o", "", "Output format (text, json, yaml)")
	flags.Duration("timeout", 0, "Timeout for each command (default 5m)")
	flags.String("metrics-file", "", "Write operation metrics to this file when the command finishes")
	flags.StringP("network", "n", "", "Network name")
	flags.String("rpc-url", "", "Node RPC URL (default http://localhost:8545)")
	flags.Uint64("chain-id", 0, "Expected chain ID (0 asks the node)")
	flags.String("signer", "", "Signer mode (node, keystore)")
	flags.String("account", "", "Deploying account address")
	flags.String("keystore", "", "Keystore directory for the keystore signer")
	flags.String("store", "", "Record store backend (file, badger, redis, postgres)")
	flags.String("store-path", "", "Directory for the file and badger stores")
	flags.Bool("cache", false, "Cache resolved records in memory")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "registry",
		Title: "Registry Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "chain",
		Title: "Chain Commands",
	})

	for _, cmd := range []*cobra.Command{
		NewDeployCmd(),
		NewResolveCmd(),
		NewListCmd(),
		NewShowCmd(),
	} {
		cmd.GroupID = "registry"
		rootCmd.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		NewInvokeCmd(),
		NewBalanceCmd(),
	} {
		cmd.GroupID = "chain"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(newShellCmd(state))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// init loads configuration and wires the app
func (s *appState) init(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	projectRoot, err := config.FindProjectRoot(cwd)
	if err != nil {
		projectRoot = cwd
	}

	v := config.SetupViper(projectRoot, cmd)

	var sink usecase.ProgressSink = progress.NewNopSink()
	if !v.GetBool("non_interactive") && v.GetString("output") == string(domainconfig.OutputText) {
		sink = progress.NewSpinnerSink()
	}

	appInstance, cleanup, err := app.InitApp(cmd.Context(), v, sink)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	s.app = appInstance
	s.cleanup = cleanup
	return nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, errors.New("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, errors.New("invalid app instance")
	}

	return a, nil
}
