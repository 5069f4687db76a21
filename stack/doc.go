// Package stack normalizes and validates stack definition documents.
//
// A stack definition is the declarative document describing a deployable
// unit: its business objects, automation (workflows, hooks, approvals) and
// UI artifacts (apps, pages, dashboards). Authors may write each collection
// either as a list of named entities or as a mapping from name to body.
//
// # Pipeline
//
// DefineStack runs four stages in a fixed order:
//
//  1. Normalize turns every collection into a list of named entities.
//  2. CheckCasing enforces snake_case names and nested identifier keys.
//  3. Gate hands every entity to its collection's EntityValidator.
//  4. CheckReferences verifies that workflows, hooks and approvals name
//     objects declared in the same document.
//
// In non-strict mode only the first stage runs.
//
// # Example Usage
//
//	in, err := stack.Parse("stack.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	def, err := stack.DefineStack(in)
//	if err != nil {
//	    // errors.Is(err, stack.ErrCrossReference) for dangling references
//	    log.Fatal(err)
//	}
//
//	for _, obj := range def.Objects() {
//	    fmt.Println(obj.Name())
//	}
package stack
