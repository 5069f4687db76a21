// Package writer validates and performs the file writes of the stackdef CLI.
//
// Every write is described by an Operation. Execute validates all operations
// before running any of them, so a conflict on the last file leaves the first
// untouched.
//
// Example:
//
//	ops := []writer.Operation{
//		&writer.WriteFileOp{Path: "crm.stack.yml", Content: data, Mode: 0644},
//	}
//	err := writer.Execute(ctx, ops, writer.Options{DryRun: dryRun, Writer: out})
package writer
