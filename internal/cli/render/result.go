package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/creg/internal/usecase"
)

// DeployRenderer renders a submitted deployment
type DeployRenderer struct {
	out io.Writer
}

func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

func (r *DeployRenderer) Render(result *usecase.DeployContractResult) error {
	record := result.Record
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Submitted %s", record.Name)))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Transaction:"), record.TransactionHash)
	fmt.Fprintf(r.out, "  Run %s once the transaction is mined\n", nameStyle.Sprintf("creg resolve %s", record.Name))
	return nil
}

// ResolveRenderer renders the outcome of an address lookup
type ResolveRenderer struct {
	out io.Writer
}

func NewResolveRenderer(out io.Writer) *ResolveRenderer {
	return &ResolveRenderer{out: out}
}

func (r *ResolveRenderer) Render(result *usecase.ResolveAddressResult) error {
	switch result.Outcome {
	case usecase.ResolveOutcomeNotYetConfirmed:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is not yet confirmed (tx %s)", result.Name, result.TransactionHash)))
	case usecase.ResolveOutcomeResolved:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed at %s", result.Name, result.Address)))
	default:
		fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(result.Name), addressStyle.Sprint(result.Address))
	}
	return nil
}

// InvokeRenderer renders a transaction hash or decoded call outputs
type InvokeRenderer struct {
	out io.Writer
}

func NewInvokeRenderer(out io.Writer) *InvokeRenderer {
	return &InvokeRenderer{out: out}
}

func (r *InvokeRenderer) Render(result *usecase.InvokeContractResult) error {
	if result.Sent {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Sent %s.%s", result.Name, result.Signature)))
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Transaction:"), result.TransactionHash)
		return nil
	}

	if len(result.Outputs) == 0 {
		fmt.Fprintf(r.out, "%s.%s returned nothing\n", result.Name, result.Signature)
		return nil
	}
	for i, output := range result.Outputs {
		label := output.Name
		if label == "" {
			label = fmt.Sprintf("[%d]", i)
		}
		fmt.Fprintf(r.out, "%s %s = %s\n", labelStyle.Sprint(label), hashStyle.Sprintf("(%s)", output.Type), FormatValue(output.Value))
	}
	return nil
}

// BalanceRenderer renders an account balance in ether and wei
type BalanceRenderer struct {
	out io.Writer
}

func NewBalanceRenderer(out io.Writer) *BalanceRenderer {
	return &BalanceRenderer{out: out}
}

func (r *BalanceRenderer) Render(result *usecase.GetBalanceResult) error {
	fmt.Fprintf(r.out, "%s %s ETH %s\n",
		addressStyle.Sprint(result.Address),
		nameStyle.Sprint(usecase.FormatEther(result.Wei)),
		hashStyle.Sprintf("(%s wei)", result.Wei.String()),
	)
	return nil
}

var (
	_ Renderer[*usecase.DeployContractResult] = (*DeployRenderer)(nil)
	_ Renderer[*usecase.ResolveAddressResult] = (*ResolveRenderer)(nil)
	_ Renderer[*usecase.InvokeContractResult] = (*InvokeRenderer)(nil)
	_ Renderer[*usecase.GetBalanceResult]     = (*BalanceRenderer)(nil)
)
