package render

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/seahub-overlay/internal/settings"
)

type yamlEncoder struct{}

func (yamlEncoder) Encode(w io.Writer, entries []settings.Setting) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range entries {
		plain, err := plainValue(entry.Value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", entry.Name, err)
		}
		var value yaml.Node
		if err := value.Encode(plain); err != nil {
			return fmt.Errorf("encode %s: %w", entry.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name}
		doc.Content = append(doc.Content, key, &value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
