package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		state  string
		prefix string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered contracts",
		Long: `List every registered contract with its state. Submitted contracts
have a deployment transaction but no recorded address yet.`,
		Example: `  creg list
  creg list --state submitted
  creg list --prefix Token -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var filter models.ContractState
			switch strings.ToLower(state) {
			case "":
			case "submitted":
				filter = models.StateSubmitted
			case "resolved":
				filter = models.StateResolved
			default:
				return fmt.Errorf("invalid state: %s (valid: submitted, resolved)", state)
			}

			result, err := app.ListContracts.Run(cmd.Context(), usecase.ListContractsParams{
				State:  filter,
				Prefix: prefix,
			})
			if err != nil {
				return err
			}

			return writeResult(cmd, app, result, func() render.Renderer[*usecase.ContractListResult] {
				return render.NewContractsRenderer(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Filter by state (submitted, resolved)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Filter by name prefix")

	return cmd
}
