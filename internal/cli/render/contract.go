package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/creg/internal/domain/models"
)

// ContractRenderer renders detailed information about a single record
type ContractRenderer struct {
	out     io.Writer
	showABI bool
}

// NewContractRenderer creates a new contract renderer
func NewContractRenderer(out io.Writer, showABI bool) *ContractRenderer {
	return &ContractRenderer{out: out, showABI: showABI}
}

func (r *ContractRenderer) Render(record *models.ContractRecord) error {
	sectionHeaderStyle.Fprintf(r.out, "Contract: %s\n", record.Name)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("State:"), StyledState(record.State()))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Transaction:"), hashStyle.Sprint(record.TransactionHash))
	if record.IsResolved() {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Address:"), addressStyle.Sprint(record.ContractAddress))
	} else {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprint("Address:"), pendingStyle.Sprint("not yet confirmed"))
	}
	fmt.Fprintf(r.out, "  %s %d bytes\n", labelStyle.Sprint("Bytecode:"), bytecodeSize(record.Bytecode))

	if r.showABI {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "ABI:")
		fmt.Fprintln(r.out, record.ABI)
	}
	return nil
}

func bytecodeSize(code string) int {
	return len(strings.TrimPrefix(strings.TrimPrefix(code, "0x"), "0X")) / 2
}

var _ Renderer[*models.ContractRecord] = (*ContractRenderer)(nil)
