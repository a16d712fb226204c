package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var showABI bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show the record of a registered contract",
		Long: `Show the stored record of [name]. Without a name an interactive
picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.ShowContractParams
			if len(args) == 1 {
				params.Name = args[0]
			}

			record, err := app.ShowContract.Run(cmd.Context(), params)
			if err != nil {
				return withSuggestions(cmd.Context(), app, params.Name, err)
			}

			return writeResult(cmd, app, record, func() render.Renderer[*models.ContractRecord] {
				return render.NewContractRenderer(cmd.OutOrStdout(), showABI)
			})
		},
	}

	cmd.Flags().BoolVar(&showABI, "abi", false, "Include the full ABI")

	return cmd
}
