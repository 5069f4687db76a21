package stack

import "fmt"

// Normalize converts every supplied collection of in into its canonical list
// form. Mapping entries take their name from the body's own non-empty name,
// falling back to the mapping key. Absent collections stay absent and an
// empty mapping becomes an empty list. The input is never modified.
//
// A nil catalog means DefaultCatalog.
func Normalize(in *Input, catalog *Catalog) *Definition {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	def := &Definition{
		Collections: make(map[string][]Entity),
		catalog:     catalog,
		origins:     make(map[string][]string),
	}
	if in == nil {
		return def
	}

	def.lines = in.lines
	if in.Manifest != nil {
		def.Manifest = cloneMap(in.Manifest)
	}
	if in.Extra != nil {
		def.Extra = cloneMap(in.Extra)
	}

	for _, name := range order(catalog, in.Collections) {
		c := in.Collections[name]
		if c == nil {
			continue
		}
		def.Collections[name], def.origins[name] = normalizeCollection(name, c)
	}

	return def
}

// normalizeCollection returns the canonical entities of one collection along
// with the source path each entity came from.
func normalizeCollection(name string, c *Collection) ([]Entity, []string) {
	entities := make([]Entity, 0, c.Len())
	origins := make([]string, 0, c.Len())

	if c.form == FormMap {
		for _, key := range c.keys {
			e := c.bodies[key].Clone()
			if e == nil {
				e = Entity{}
			}
			if !e.hasExplicitName() {
				e[nameKey] = key
			}
			entities = append(entities, e)
			origins = append(origins, name+"."+key)
		}
		return entities, origins
	}

	for i, item := range c.items {
		e := item.Clone()
		if e == nil {
			e = Entity{}
		}
		entities = append(entities, e)
		origins = append(origins, fmt.Sprintf("%s.%d", name, i))
	}
	return entities, origins
}
