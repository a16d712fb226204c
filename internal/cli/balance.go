package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// balanceOutput is the machine-readable balance; wei is a decimal string to keep precision
type balanceOutput struct {
	Address string `json:"address" yaml:"address"`
	Wei     string `json:"wei" yaml:"wei"`
	Ether   string `json:"ether" yaml:"ether"`
}

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the balance of an account",
		Long:  `Show the balance of [address], or of the signer account when omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.GetBalanceParams
			if len(args) == 1 {
				params.Address = args[0]
			}

			result, err := app.GetBalance.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.Output != config.OutputText {
				return render.WriteStructured(cmd.OutOrStdout(), app.Config.Output, &balanceOutput{
					Address: result.Address,
					Wei:     result.Wei.String(),
					Ether:   usecase.FormatEther(result.Wei),
				})
			}
			return render.NewBalanceRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
