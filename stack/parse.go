package stack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse reads a YAML or JSON stack file.
func Parse(path string, opts ...Option) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack file: %w", err)
	}

	in, err := ParseBytes(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.source = path
	return in, nil
}

// ParseBytes parses a YAML or JSON stack document. Top-level keys are sorted
// into the manifest, catalogued collections (see WithCatalog) and Extra.
// Mapping order and source line numbers are preserved for later stages.
func ParseBytes(data []byte, opts ...Option) (*Input, error) {
	o := newOptions(opts)

	var root yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse stack document: %w", err)
	}

	in := NewInput()
	in.lines = make(map[string]int)

	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return in, nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind == 0 || isNull(doc) {
		return in, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: stack document must be a mapping", doc.Line)
	}

	extractLineNumbers(doc, "", in.lines)

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		value := doc.Content[i+1]

		switch {
		case key == manifestKey:
			if isNull(value) {
				continue
			}
			var manifest map[string]any
			if err := value.Decode(&manifest); err != nil {
				return nil, fmt.Errorf("manifest (line %d): %w", value.Line, err)
			}
			in.Manifest = manifest

		case o.catalog.Has(key):
			c := &Collection{}
			if err := c.UnmarshalYAML(value); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			in.Collections[key] = c

		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return nil, fmt.Errorf("%s (line %d): %w", key, value.Line, err)
			}
			if in.Extra == nil {
				in.Extra = make(map[string]any)
			}
			in.Extra[key] = v
		}
	}

	return in, nil
}

// UnmarshalYAML decodes a collection from a sequence of entities or a mapping
// of name to body. A null value decodes to an empty list.
func (c *Collection) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case isNull(node):
		*c = Collection{form: FormList, items: []Entity{}}

	case node.Kind == yaml.SequenceNode:
		items := make([]Entity, 0, len(node.Content))
		for i, item := range node.Content {
			var e Entity
			if err := item.Decode(&e); err != nil {
				return fmt.Errorf("item %d (line %d): %w", i, item.Line, err)
			}
			items = append(items, e)
		}
		*c = Collection{form: FormList, items: items}

	case node.Kind == yaml.MappingNode:
		m := Mapping()
		seen := make(map[string]int, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if first, dup := seen[key]; dup {
				return fmt.Errorf("line %d: entry '%s' already defined at line %d", node.Content[i].Line, key, first)
			}
			seen[key] = node.Content[i].Line
			var body Entity
			if err := node.Content[i+1].Decode(&body); err != nil {
				return fmt.Errorf("entry '%s' (line %d): %w", key, node.Content[i].Line, err)
			}
			m.Set(key, body)
		}
		*c = *m

	default:
		return fmt.Errorf("line %d: collection must be a list or a mapping", node.Line)
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// extractLineNumbers walks the YAML node tree and builds a map of dotted
// paths to line numbers, e.g. "objects.lead.fields.status" or "workflows.0".
func extractLineNumbers(node *yaml.Node, path string, lineMap map[string]int) {
	if node == nil {
		return
	}

	if path != "" {
		lineMap[path] = node.Line
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) > 0 {
			extractLineNumbers(node.Content[0], path, lineMap)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			newPath := key.Value
			if path != "" {
				newPath = path + "." + key.Value
			}
			extractLineNumbers(node.Content[i+1], newPath, lineMap)
			// Point at the key so that entries spanning several lines report
			// where they start.
			lineMap[newPath] = key.Line
		}
	case yaml.SequenceNode:
		for i, child := range node.Content {
			extractLineNumbers(child, fmt.Sprintf("%s.%d", path, i), lineMap)
		}
	}
}
