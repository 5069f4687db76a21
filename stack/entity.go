package stack

import (
	"fmt"
	"slices"
)

const (
	// ObjectsCollection is the collection every reference points into.
	ObjectsCollection = "objects"

	manifestKey = "manifest"
	nameKey     = "name"
)

// Entity is a single member of a collection, keyed by the raw document keys.
type Entity map[string]any

// Name returns the entity's name, or "" when it has none.
func (e Entity) Name() string {
	return e.String(nameKey)
}

// String returns the string stored under key, or "" when the key is missing
// or holds a non-string value.
func (e Entity) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	return Entity(cloneMap(e))
}

// hasExplicitName reports whether the body sets its own name.
func (e Entity) hasExplicitName() bool {
	v, ok := e[nameKey]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}

// Form is the authoring shape of a collection.
type Form int

const (
	// FormList is an ordered sequence of entities that carry their own names.
	FormList Form = iota
	// FormMap is an ordered mapping from name to entity body.
	FormMap
)

func (f Form) String() string {
	if f == FormMap {
		return "map"
	}
	return "list"
}

// Collection is an author-supplied collection in either list or mapping form.
// Mapping iteration follows insertion order.
type Collection struct {
	form   Form
	items  []Entity
	keys   []string
	bodies map[string]Entity
}

// List creates a list-form collection.
func List(items ...Entity) *Collection {
	return &Collection{form: FormList, items: items}
}

// Mapping creates an empty mapping-form collection. Populate it with Set.
func Mapping() *Collection {
	return &Collection{form: FormMap, bodies: make(map[string]Entity)}
}

// Set stores body under key. Re-setting a key keeps its original position.
// Set panics on a list-form collection.
func (c *Collection) Set(key string, body Entity) *Collection {
	if c.form != FormMap {
		panic("stack: Set called on a list-form collection")
	}
	if _, exists := c.bodies[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.bodies[key] = body
	return c
}

// Append adds entities to a list-form collection. Append panics on a
// mapping-form collection.
func (c *Collection) Append(items ...Entity) *Collection {
	if c.form != FormList {
		panic("stack: Append called on a mapping-form collection")
	}
	c.items = append(c.items, items...)
	return c
}

// Form returns the collection's authoring shape.
func (c *Collection) Form() Form {
	return c.form
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	if c.form == FormMap {
		return len(c.keys)
	}
	return len(c.items)
}

// Keys returns the mapping keys in insertion order (nil for list form).
func (c *Collection) Keys() []string {
	return slices.Clone(c.keys)
}

// Input is the raw, author-supplied stack document.
//
// Collections holds only the collections the author supplied; a missing key
// means "not defined", which downstream stages treat differently from an
// empty collection.
type Input struct {
	Manifest    map[string]any
	Collections map[string]*Collection
	Extra       map[string]any

	source string
	lines  map[string]int
}

// NewInput creates an empty input document.
func NewInput() *Input {
	return &Input{Collections: make(map[string]*Collection)}
}

// With sets a collection and returns the input for chaining.
func (in *Input) With(name string, c *Collection) *Input {
	if in.Collections == nil {
		in.Collections = make(map[string]*Collection)
	}
	in.Collections[name] = c
	return in
}

// Source returns the file the input was parsed from, if any.
func (in *Input) Source() string {
	return in.source
}

// Definition is the canonical stack document: every supplied collection is a
// list of entities with resolved names.
type Definition struct {
	Manifest    map[string]any
	Collections map[string][]Entity
	Extra       map[string]any

	catalog *Catalog
	origins map[string][]string
	lines   map[string]int
}

// Has reports whether the collection was supplied.
func (d *Definition) Has(name string) bool {
	_, ok := d.Collections[name]
	return ok
}

// Collection returns the entities of a collection (nil when absent).
func (d *Definition) Collection(name string) []Entity {
	return d.Collections[name]
}

// Objects returns the objects collection.
func (d *Definition) Objects() []Entity {
	return d.Collections[ObjectsCollection]
}

// Names returns the entity names of a collection in order.
func (d *Definition) Names(name string) []string {
	entities := d.Collections[name]
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name())
	}
	return names
}

// Input converts the definition back into a list-form input document.
func (d *Definition) Input() *Input {
	in := NewInput()
	if d.Manifest != nil {
		in.Manifest = cloneMap(d.Manifest)
	}
	if d.Extra != nil {
		in.Extra = cloneMap(d.Extra)
	}
	for name, entities := range d.Collections {
		items := make([]Entity, 0, len(entities))
		for _, e := range entities {
			items = append(items, e.Clone())
		}
		in.Collections[name] = List(items...)
	}
	return in
}

// collectionNames returns the supplied collections in catalog order,
// followed by uncatalogued ones sorted by name.
func (d *Definition) collectionNames() []string {
	return order(d.catalogOrDefault(), d.Collections)
}

func (d *Definition) catalogOrDefault() *Catalog {
	if d.catalog == nil {
		return DefaultCatalog()
	}
	return d.catalog
}

// entityPath names an entity for messages: objects.lead, or objects[2] when
// it has no usable name.
func entityPath(collection string, index int, name string) string {
	if name != "" {
		return collection + "." + name
	}
	return fmt.Sprintf("%s[%d]", collection, index)
}

// origin returns the source path an entity was normalized from.
func (d *Definition) origin(collection string, index int) string {
	origins := d.origins[collection]
	if index < len(origins) {
		return origins[index]
	}
	return fmt.Sprintf("%s.%d", collection, index)
}

// line returns the source line for a path relative to an entity's origin,
// or 0 when the document was not parsed from text.
func (d *Definition) line(collection string, index int, rel string) int {
	if d.lines == nil {
		return 0
	}
	path := d.origin(collection, index)
	if rel != "" {
		path += "." + rel
	}
	return d.lines[path]
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Entity:
		return t.Clone()
	case map[any]any:
		return stringKeyed(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

// stringKeyed converts a mapping decoded with non-string keys (yaml "1:",
// "true:", "~:") into a string-keyed one, so every later stage sees the key
// as the identifier it was written as.
func stringKeyed(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := ""
		if k != nil {
			key = fmt.Sprint(k)
		}
		out[key] = cloneValue(v)
	}
	return out
}
