package stack

import (
	"fmt"
	"sort"
	"strings"
)

// CollectionSpec describes one top-level collection of a stack document.
type CollectionSpec struct {
	Name      string   // Collection key, e.g. "workflows"
	Kind      string   // Entity kind, e.g. "workflow"
	Reference string   // Field naming a declared object, "" if none
	KeyMaps   []string // Dotted paths of nested identifier maps, "*" matches every key
	Anonymous bool     // Entities carry no identity; names are not checked
}

// defaultSpecs is the built-in collection table. Its order is the canonical
// output order.
var defaultSpecs = []CollectionSpec{
	{Name: "objects", Kind: "object", KeyMaps: []string{"fields"}},
	{Name: "apps", Kind: "app"},
	{Name: "pages", Kind: "page"},
	{Name: "dashboards", Kind: "dashboard"},
	{Name: "reports", Kind: "report"},
	{Name: "actions", Kind: "action"},
	{Name: "roles", Kind: "role"},
	{Name: "permissions", Kind: "permission_set", KeyMaps: []string{"objects", "objects.*.fields"}},
	{Name: "datasources", Kind: "datasource"},
	{Name: "workflows", Kind: "workflow", Reference: "objectName"},
	{Name: "hooks", Kind: "hook", Reference: "object"},
	{Name: "approvals", Kind: "approval", Reference: "object"},
}

// Catalog is an ordered, read-only table of collection specs.
type Catalog struct {
	specs []CollectionSpec
	index map[string]int
}

// DefaultCatalog returns the built-in collection table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultSpecs...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog. Names must be unique snake_case identifiers
// and must not collide with the manifest key.
func NewCatalog(specs ...CollectionSpec) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(specs))}
	for _, spec := range specs {
		if err := c.add(spec); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(spec CollectionSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("collection name is required")
	}
	if !IsSnakeCase(spec.Name) {
		return fmt.Errorf("collection name '%s' must be snake_case", spec.Name)
	}
	if spec.Name == manifestKey {
		return fmt.Errorf("'%s' is reserved and cannot be a collection", manifestKey)
	}
	if _, exists := c.index[spec.Name]; exists {
		return fmt.Errorf("duplicate collection '%s'", spec.Name)
	}
	for _, path := range spec.KeyMaps {
		if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
			return fmt.Errorf("collection '%s': invalid key map path '%s'", spec.Name, path)
		}
	}
	if spec.Kind == "" {
		spec.Kind = spec.Name
	}
	spec.KeyMaps = append([]string(nil), spec.KeyMaps...)
	c.index[spec.Name] = len(c.specs)
	c.specs = append(c.specs, spec)
	return nil
}

// With returns a new catalog extended with specs. A spec whose name already
// exists replaces the existing entry in place.
func (c *Catalog) With(specs ...CollectionSpec) (*Catalog, error) {
	out := &Catalog{index: make(map[string]int, len(c.specs)+len(specs))}
	replaced := make(map[string]CollectionSpec, len(specs))
	var added []CollectionSpec
	for _, spec := range specs {
		if _, exists := c.index[spec.Name]; exists {
			replaced[spec.Name] = spec
			continue
		}
		added = append(added, spec)
	}
	for _, spec := range c.specs {
		if r, ok := replaced[spec.Name]; ok {
			spec = r
		}
		if err := out.add(spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range added {
		if err := out.add(spec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Lookup returns the spec for a collection name.
func (c *Catalog) Lookup(name string) (CollectionSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return CollectionSpec{}, false
	}
	return c.specs[i], true
}

// Has reports whether name is a catalogued collection.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Specs returns a copy of the catalog entries in order.
func (c *Catalog) Specs() []CollectionSpec {
	return append([]CollectionSpec(nil), c.specs...)
}

// References returns the reference-bearing specs in order.
func (c *Catalog) References() []CollectionSpec {
	var refs []CollectionSpec
	for _, spec := range c.specs {
		if spec.Reference != "" {
			refs = append(refs, spec)
		}
	}
	return refs
}

// specFor returns the catalog entry for name, or a bare spec for
// uncatalogued collections.
func (c *Catalog) specFor(name string) CollectionSpec {
	if spec, ok := c.Lookup(name); ok {
		return spec
	}
	return CollectionSpec{Name: name, Kind: name}
}

// order lists the keys of present in catalog order, then the remaining keys
// sorted by name.
func order[V any](c *Catalog, present map[string]V) []string {
	names := make([]string, 0, len(present))
	for _, spec := range c.specs {
		if _, ok := present[spec.Name]; ok {
			names = append(names, spec.Name)
		}
	}
	var rest []string
	for name := range present {
		if !c.Has(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
