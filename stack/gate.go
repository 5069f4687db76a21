package stack

import "maps"

// ManifestValidator is the Validators key consulted for the manifest.
const ManifestValidator = manifestKey

// EntityValidator validates one entity body. It returns the validated (and
// possibly normalized) entity, or an error describing why the body is
// rejected.
type EntityValidator func(Entity) (Entity, error)

// Validators maps a collection name to the validator for its entities.
// Collections without an entry pass through unchecked.
type Validators map[string]EntityValidator

// Clone returns a shallow copy of the table.
func (v Validators) Clone() Validators {
	return maps.Clone(v)
}

// Gate runs every entity of def through its collection's validator and
// returns a new definition holding the validated entities. Every rejection
// is collected into a single *StackError.
func Gate(def *Definition, validators Validators) (*Definition, error) {
	out := &Definition{
		Manifest:    def.Manifest,
		Collections: make(map[string][]Entity, len(def.Collections)),
		Extra:       def.Extra,
		catalog:     def.catalog,
		origins:     def.origins,
		lines:       def.lines,
	}
	var issues []error

	if validate, ok := validators[ManifestValidator]; ok && def.Manifest != nil {
		manifest, err := validate(Entity(def.Manifest).Clone())
		if err != nil {
			issues = append(issues, &SchemaError{
				Collection: manifestKey,
				Err:        err,
				Line:       lineOf(def.lines, manifestKey),
			})
		} else if manifest != nil {
			out.Manifest = manifest
		}
	}

	for _, collection := range def.collectionNames() {
		entities := def.Collections[collection]
		validate, ok := validators[collection]
		if !ok {
			out.Collections[collection] = entities
			continue
		}

		validated := make([]Entity, 0, len(entities))
		for i, e := range entities {
			result, err := validate(e.Clone())
			if err != nil {
				issues = append(issues, &SchemaError{
					Collection: collection,
					Index:      i,
					Entity:     e.Name(),
					Err:        err,
					Line:       def.line(collection, i, ""),
				})
				continue
			}
			if result == nil {
				result = e
			}
			validated = append(validated, result)
		}
		out.Collections[collection] = validated
	}

	if len(issues) > 0 {
		return nil, &StackError{Stage: StageSchema, Issues: issues}
	}
	return out, nil
}

func lineOf(lines map[string]int, path string) int {
	if lines == nil {
		return 0
	}
	return lines[path]
}
