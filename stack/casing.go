package stack

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var snakeCasePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsSnakeCase reports whether s is a lowercase snake_case identifier. A
// leading underscore is allowed.
func IsSnakeCase(s string) bool {
	return snakeCasePattern.MatchString(s)
}

// CheckCasing enforces the naming convention on a normalized definition:
// every entity of a non-anonymous collection needs a unique snake_case name,
// and every key of each registered nested key map must be snake_case. All
// findings are returned together as a *StackError.
func CheckCasing(def *Definition) error {
	catalog := def.catalogOrDefault()
	var issues []error

	for _, collection := range def.collectionNames() {
		spec := catalog.specFor(collection)
		seen := make(map[string]int)

		for i, e := range def.Collections[collection] {
			if !spec.Anonymous {
				if issue := checkEntityName(def, collection, i, e, seen); issue != nil {
					issues = append(issues, issue)
				}
			}
			for _, keyMap := range spec.KeyMaps {
				issues = append(issues, checkKeyMap(def, collection, i, e, keyMap)...)
			}
		}
	}

	if len(issues) > 0 {
		return &StackError{Stage: StageFormat, Issues: issues}
	}
	return nil
}

func checkEntityName(def *Definition, collection string, index int, e Entity, seen map[string]int) error {
	raw, present := e[nameKey]
	name, isString := raw.(string)

	issue := &FormatError{
		Collection: collection,
		Entity:     name,
		Path:       entityPath(collection, index, name),
		Key:        name,
		Line:       def.line(collection, index, ""),
	}

	switch {
	case present && raw != nil && !isString:
		issue.Message = fmt.Sprintf("name must be a string, got %T", raw)
	case name == "":
		issue.Message = "name is required"
		issue.Suggestion = "set 'name' or use the mapping form so the key supplies it"
	case !IsSnakeCase(name):
		issue.Message = fmt.Sprintf("name '%s' must be snake_case", name)
		issue.Suggestion = fmt.Sprintf("use '%s'", suggestSnakeCase(name))
	default:
		if first, dup := seen[name]; dup {
			issue.Path = fmt.Sprintf("%s[%d]", collection, index)
			issue.Message = fmt.Sprintf("duplicate name '%s' (first defined at %s[%d])", name, collection, first)
			issue.Suggestion = "each entity in a collection must have a unique name"
			return issue
		}
		seen[name] = index
		return nil
	}
	return issue
}

// checkKeyMap validates the identifier keys found at a dotted path inside one
// entity. A "*" segment descends into every value of the map at that level.
func checkKeyMap(def *Definition, collection string, index int, e Entity, keyMap string) []error {
	var issues []error
	name := e.Name()
	base := entityPath(collection, index, name)

	walkKeyMap(map[string]any(e), strings.Split(keyMap, "."), "", func(rel, key string) {
		if IsSnakeCase(key) {
			return
		}
		issues = append(issues, &FormatError{
			Collection: collection,
			Entity:     name,
			Path:       base + "." + rel,
			Key:        key,
			Message:    fmt.Sprintf("key '%s' must be snake_case", key),
			Suggestion: fmt.Sprintf("use '%s'", suggestSnakeCase(key)),
			Line:       def.line(collection, index, rel+"."+key),
		})
	})
	return issues
}

// walkKeyMap follows segments from v and calls visit for every key of the map
// reached at the end. rel is the path walked so far, relative to the entity.
func walkKeyMap(v any, segments []string, rel string, visit func(rel, key string)) {
	m, ok := asMap(v)
	if !ok {
		return
	}

	if len(segments) == 0 {
		for _, key := range sortedKeys(m) {
			visit(rel, key)
		}
		return
	}

	seg := segments[0]
	if seg == "*" {
		for _, key := range sortedKeys(m) {
			walkKeyMap(m[key], segments[1:], join(rel, key), visit)
		}
		return
	}
	walkKeyMap(m[seg], segments[1:], join(rel, seg), visit)
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Entity:
		return t, true
	case map[any]any:
		return stringKeyed(t), true
	default:
		return nil, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func join(rel, seg string) string {
	if rel == "" {
		return seg
	}
	return rel + "." + seg
}

// suggestSnakeCase converts an identifier to snake_case.
// Example: "FirstName" -> "first_name", "HTTPServer" -> "http_server"
func suggestSnakeCase(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '.':
			result.WriteRune('_')
		case unicode.IsUpper(r):
			// Break before an uppercase letter that follows a lowercase letter
			// or digit, or that starts a new word after an acronym.
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			result.WriteRune(r)
		}
	}

	out := result.String()
	if out != "" && out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}
