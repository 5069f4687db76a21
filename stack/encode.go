package stack

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the definition in canonical key order: manifest, the
// collections in catalog order, then any extra keys sorted by name. Entity
// names come first within each entity.
func (d *Definition) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	if d.Manifest != nil {
		value, err := valueNode(d.Manifest)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		root.Content = append(root.Content, keyNode(manifestKey), value)
	}

	for _, name := range d.collectionNames() {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for i, e := range d.Collections[name] {
			node, err := entityNode(e)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			seq.Content = append(seq.Content, node)
		}
		root.Content = append(root.Content, keyNode(name), seq)
	}

	for _, key := range sortedKeys(d.Extra) {
		value, err := valueNode(d.Extra[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		root.Content = append(root.Content, keyNode(key), value)
	}

	return root, nil
}

// MarshalJSON renders the definition with the same top-level key order as
// MarshalYAML.
func (d *Definition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	write := func(key string, value any) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	if d.Manifest != nil {
		if err := write(manifestKey, d.Manifest); err != nil {
			return nil, err
		}
	}
	for _, name := range d.collectionNames() {
		entities := d.Collections[name]
		if entities == nil {
			entities = []Entity{}
		}
		if err := write(name, entities); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(d.Extra) {
		if err := write(key, d.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// YAML encodes the definition as a YAML document with two-space indentation.
func (d *Definition) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode stack: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode stack: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON encodes the definition as indented JSON.
func (d *Definition) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode stack: %w", err)
	}
	return append(data, '\n'), nil
}

func entityNode(e Entity) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	keys := sortedKeys(e)
	if _, ok := e[nameKey]; ok {
		keys = append([]string{nameKey}, removeKey(keys, nameKey)...)
	}
	for _, key := range keys {
		value, err := valueNode(e[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		node.Content = append(node.Content, keyNode(key), value)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func removeKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
