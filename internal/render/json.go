package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

type jsonEncoder struct{}

type attributeRecord struct {
	Claim    string `json:"claim" yaml:"claim"`
	Required bool   `json:"required" yaml:"required"`
	Field    string `json:"field" yaml:"field"`
}

func (jsonEncoder) Encode(w io.Writer, entries []settings.Setting) error {
	data, err := MarshalJSON(entries)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

// MarshalJSON encodes entries as a single JSON object whose keys keep the entry order.
func MarshalJSON(entries []settings.Setting) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := MarshalValueJSON(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", entry.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalValueJSON encodes a single setting value.
func MarshalValueJSON(v any) ([]byte, error) {
	plain, err := plainValue(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}

// plainValue converts a setting value into types both encoding/json and yaml.v3 handle.
func plainValue(v any) (any, error) {
	switch value := v.(type) {
	case string, bool, int:
		return value, nil
	case []string:
		if value == nil {
			return []string{}, nil
		}
		return value, nil
	case []settings.AttributeMapping:
		records := make([]attributeRecord, len(value))
		for i, m := range value {
			records[i] = attributeRecord{Claim: m.Claim, Required: m.Required, Field: m.Field}
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
