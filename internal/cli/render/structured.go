package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/trebuchet-org/creg/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// WriteStructured encodes v in the requested machine-readable format
func WriteStructured(out io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
