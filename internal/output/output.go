package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
}

// Printer writes results in one format. The zero value prints YAML to
// stdout.
type Printer struct {
	W      io.Writer
	Format Format
	// Pretty indents JSON output.
	Pretty bool
}

// Print serializes v in the printer's format.
func (p Printer) Print(v any) error {
	w := p.W
	if w == nil {
		w = os.Stdout
	}
	switch p.Format {
	case FormatJSON:
		return WriteJSON(w, v, p.Pretty)
	case FormatYAML, "":
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

// WriteJSON serializes v as JSON, single-line unless pretty.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
