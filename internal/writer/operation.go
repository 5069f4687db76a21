package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrConflict is returned when an operation would overwrite an existing file
// and Force is not set.
var ErrConflict = errors.New("file already exists")

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it and
// has no side effects. force=true skips conflict checks.
//
// Execute performs the operation. It should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create crm.stack.yml (234 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes content to a file.
//
// Writing identical content over an existing file is not a conflict; the
// operation reports the file as unchanged and leaves it alone.
type WriteFileOp struct {
	Path    string      // File path to write
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)

	exists    bool
	unchanged bool
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	existing, err := os.ReadFile(op.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.exists, op.unchanged = false, false
		return nil
	case err != nil:
		return fmt.Errorf("cannot read %s: %w", op.Path, err)
	}

	op.exists = true
	op.unchanged = bytes.Equal(existing, op.Content)
	if !op.unchanged && !force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConflict, op.Path)
	}
	return nil
}

// Execute writes the file through a temporary sibling and a rename, so a
// failed write never leaves a truncated file behind.
func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.unchanged {
		return nil
	}

	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(op.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(op.Content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), op.Path)
}

// Unchanged reports whether the last Validate found identical content on disk.
func (op *WriteFileOp) Unchanged() bool {
	return op.unchanged
}

func (op *WriteFileOp) Description() string {
	switch {
	case op.unchanged:
		return fmt.Sprintf("Unchanged %s", op.Path)
	case op.exists:
		return fmt.Sprintf("Overwrite %s (%d bytes)", op.Path, len(op.Content))
	default:
		return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
	}
}
