// Package render encodes the assembled settings for the host (python) or
// for operators (json, yaml).
package render

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

// Supported output formats.
const (
	FormatPython = "python"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// RedactedValue replaces non-empty secret values in redacted output.
const RedactedValue = "********"

var (
	// ErrUnknownFormat is returned for an output format with no encoder.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnsupportedValue is returned when a setting holds a value kind the encoder cannot express.
	ErrUnsupportedValue = errors.New("unsupported setting value")
)

// Encoder writes settings entries in one output format.
type Encoder interface {
	Encode(w io.Writer, entries []settings.Setting) error
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatPython, FormatJSON, FormatYAML}
}

// New returns the encoder for format.
func New(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPython:
		return pythonEncoder{}, nil
	case FormatJSON:
		return jsonEncoder{}, nil
	case FormatYAML:
		return yamlEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// Redact returns a copy of entries with every non-empty secret value masked.
func Redact(entries []settings.Setting) []settings.Setting {
	out := slices.Clone(entries)
	for i := range out {
		if !out[i].Secret {
			continue
		}
		if v, ok := out[i].Value.(string); ok && v != "" {
			out[i].Value = RedactedValue
		}
	}
	return out
}
