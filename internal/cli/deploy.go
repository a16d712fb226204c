package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/usecase"
)

const defaultGasLimit = 3_000_000

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		abi          string
		abiFile      string
		bytecode     string
		bytecodeFile string
		artifact     string
		gas          uint64
		ctorArgs     []string
	)

	cmd := &cobra.Command{
		Use:   "deploy <name>",
		Short: "Deploy a contract under a unique name",
		Long: `Submit a contract creation transaction and record it under <name>.

The name must not be registered yet. The contract address is not known until
the transaction is mined; use 'creg resolve <name>' to look it up.`,
		Example: `  # Deploy from a Foundry artifact
  creg deploy Counter --artifact out/Counter.sol/Counter.json

  # Deploy with explicit ABI and bytecode files and a constructor argument
  creg deploy Token --abi-file Token.abi --bytecode-file Token.bin --arg 1000000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			source, err := resolveSource(abi, abiFile, bytecode, bytecodeFile, artifact)
			if err != nil {
				return err
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Name:            args[0],
				ABI:             source.ABI,
				Bytecode:        source.Bytecode,
				GasLimit:        gas,
				ConstructorArgs: ctorArgs,
			})
			if err != nil {
				return err
			}

			return writeResult(cmd, app, result, func() render.Renderer[*usecase.DeployContractResult] {
				return render.NewDeployRenderer(cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&abi, "abi", "", "Contract ABI as JSON")
	cmd.Flags().StringVar(&abiFile, "abi-file", "", "File containing the contract ABI")
	cmd.Flags().StringVar(&bytecode, "bytecode", "", "Contract init code as hex")
	cmd.Flags().StringVar(&bytecodeFile, "bytecode-file", "", "File containing the contract init code")
	cmd.Flags().StringVar(&artifact, "artifact", "", "Foundry or Hardhat build artifact")
	cmd.Flags().Uint64Var(&gas, "gas", defaultGasLimit, "Gas limit for the deployment transaction")
	cmd.Flags().StringArrayVar(&ctorArgs, "arg", nil, "Constructor argument (repeatable, in order)")

	return cmd
}
