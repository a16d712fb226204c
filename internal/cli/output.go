package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/creg/internal/app"
	"github.com/trebuchet-org/creg/internal/cli/render"
	"github.com/trebuchet-org/creg/internal/domain/config"
)

// writeResult prints result in the configured output format
func writeResult[T any](cmd *cobra.Command, a *app.App, result T, text func() render.Renderer[T]) error {
	if a.Config.Output != config.OutputText {
		return render.WriteStructured(cmd.OutOrStdout(), a.Config.Output, result)
	}
	return text().Render(result)
}
