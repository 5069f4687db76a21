package writer

import (
	"context"
	"fmt"
	"io"

	"github.com/objectstack-ai/stackdef/internal/output"
)

// Options configures a run of Execute.
type Options struct {
	DryRun bool
	Force  bool
	Out    *output.Printer // progress lines; nil discards them
}

// unchanger is implemented by operations that can detect a no-op write.
type unchanger interface {
	Unchanged() bool
}

// Execute checks every operation before running any of them, so one
// conflicting file leaves every file untouched. In a dry run nothing is
// executed and each operation is reported as it would run.
func Execute(ctx context.Context, ops []Operation, opts Options) error {
	out := opts.Out
	if out == nil {
		out = output.New(io.Discard)
	}

	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if opts.DryRun {
		for _, op := range ops {
			out.Info("[dry run] " + op.Description())
		}
		return nil
	}

	for _, op := range ops {
		if u, ok := op.(unchanger); ok && u.Unchanged() {
			out.Step(op.Description())
			continue
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		out.Success(op.Description())
	}
	return nil
}
