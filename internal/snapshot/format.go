package snapshot

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/textblob/internal/blob"
)

// Format selects how a chain is rendered.
type Format string

// Supported formats.
const (
	// FormatText writes every blob with no separator.
	FormatText Format = "text"
	// FormatLines writes one blob per line.
	FormatLines Format = "lines"
	// FormatBoth writes FormatText, three newlines, then FormatLines.
	FormatBoth Format = "both"
	// FormatJSON writes the snapshot as a JSON document.
	FormatJSON Format = "json"
	// FormatYAML writes the snapshot as a YAML document.
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatLines, FormatBoth, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render writes c in the given format. Text formats start at head.
func Render(w io.Writer, c *blob.Chain, f Format) error {
	switch f {
	case FormatText:
		return c.Print(w, c.Head())
	case FormatLines:
		return c.PrintLines(w, c.Head())
	case FormatBoth:
		if err := c.Print(w, c.Head()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n\n\n"); err != nil {
			return err
		}
		return c.PrintLines(w, c.Head())
	case FormatJSON:
		doc, err := EncodeJSON(Take(c))
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	case FormatYAML:
		return EncodeYAML(w, Take(c))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// EncodeYAML writes s as a YAML document.
func EncodeYAML(w io.Writer, s Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
