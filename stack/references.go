package stack

// CheckReferences verifies that every reference-bearing entity names an
// object declared in the same definition.
//
// The check is skipped when the definition declares no objects: partial or
// plugin-style stacks may contribute automation for objects declared in
// another stack. Entities whose reference field is missing are left to the
// schema gate.
func CheckReferences(def *Definition) error {
	declared := make(map[string]struct{})
	for _, obj := range def.Objects() {
		if name := obj.Name(); name != "" {
			declared[name] = struct{}{}
		}
	}
	if len(declared) == 0 {
		return nil
	}

	var issues []error
	for _, spec := range def.catalogOrDefault().References() {
		for i, e := range def.Collections[spec.Name] {
			target := e.String(spec.Reference)
			if target == "" {
				continue
			}
			if _, ok := declared[target]; ok {
				continue
			}
			issues = append(issues, &ReferenceError{
				Collection: spec.Name,
				Index:      i,
				Entity:     e.Name(),
				Field:      spec.Reference,
				Target:     target,
				Line:       def.line(spec.Name, i, spec.Reference),
			})
		}
	}

	if len(issues) > 0 {
		return &StackError{Stage: StageReference, Issues: issues}
	}
	return nil
}
