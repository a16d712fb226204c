package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// ContractsRenderer renders the registry listing as a table
type ContractsRenderer struct {
	out io.Writer
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer) *ContractsRenderer {
	return &ContractsRenderer{out: out}
}

func (r *ContractsRenderer) Render(result *usecase.ContractListResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintln(r.out, "No contracts found")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
	})

	for _, record := range result.Records {
		t.AppendRow(table.Row{
			nameStyle.Sprint(record.Name),
			StyledState(record.State()),
			locationOf(record),
		})
	}

	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d contracts: %d %s, %d %s\n",
		result.Summary.Total,
		result.Summary.Resolved, StateTitle(models.StateResolved),
		result.Summary.Submitted, StateTitle(models.StateSubmitted),
	)
	return nil
}

// locationOf shows the address once known, otherwise the pending transaction
func locationOf(record *models.ContractRecord) string {
	if record.IsResolved() {
		return addressStyle.Sprint(record.ContractAddress)
	}
	return hashStyle.Sprintf("tx %s", record.TransactionHash)
}

var _ Renderer[*usecase.ContractListResult] = (*ContractsRenderer)(nil)
