package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// NewInvokeCmd creates the invoke command
func NewInvokeCmd() *cobra.Command {
	var (
		send bool
		call bool
	)

	cmd := &cobra.Command{
		Use:   "invoke <name> <method> [args...]",
		Short: "Call or send a transaction to a resolved contract",
		Long: `Bind the recorded ABI to the recorded address of <name> and invoke
<method>. View and pure methods are called without a transaction; everything
else is sent as a transaction from the signer account. The method may be
given by name or by full signature, e.g. "transfer(address,uint256)".

Arrays are passed as JSON lists, e.g. '[1,2,3]'.`,
		Example: `  creg invoke Counter number
  creg invoke Token transfer 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 1000
  creg invoke Token balanceOf 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --call`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			mode := usecase.InvokeModeAuto
			switch {
			case send && call:
				return errors.New("--send and --call are mutually exclusive")
			case send:
				mode = usecase.InvokeModeSend
			case call:
				mode = usecase.InvokeModeCall
			}

			result, err := app.InvokeContract.Run(cmd.Context(), usecase.InvokeContractParams{
				Name:   args[0],
				Method: args[1],
				Args:   args[2:],
				Mode:   mode,
			})
			if err != nil {
				return withSuggestions(cmd.Context(), app, args[0], err)
			}

			return writeResult(cmd, app, result, func() render.Renderer[*usecase.InvokeContractResult] {
				return render.NewInvokeRenderer(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "Always send a transaction")
	cmd.Flags().BoolVar(&call, "call", false, "Always call without a transaction")

	return cmd
}
