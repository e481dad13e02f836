package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

const pythonHeader = `# -*- coding: utf-8 -*-
# Seahub extra settings, generated by seahub-overlay. Do not edit by hand;
# re-render after changing the environment or the mounted secrets.
`

type pythonEncoder struct{}

func (pythonEncoder) Encode(w io.Writer, entries []settings.Setting) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(pythonHeader + "\n"); err != nil {
		return err
	}
	for _, entry := range entries {
		literal, err := pythonLiteral(entry.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", entry.Name, err)
		}
		if _, err := fmt.Fprintf(bw, "%s = %s\n", entry.Name, literal); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// pythonLiteral renders v as a Python expression. Go quoted strings use an
// escape set that Python string literals share, so strconv.Quote is used as is.
func pythonLiteral(v any) (string, error) {
	switch value := v.(type) {
	case string:
		return strconv.Quote(value), nil
	case bool:
		if value {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(value), nil
	case []string:
		parts := make([]string, len(value))
		for i, s := range value {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case []settings.AttributeMapping:
		parts := make([]string, len(value))
		for i, m := range value {
			required, _ := pythonLiteral(m.Required)
			parts[i] = fmt.Sprintf("%s: (%s, %s)", strconv.Quote(m.Claim), required, strconv.Quote(m.Field))
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
