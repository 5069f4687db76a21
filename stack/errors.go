package stack

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks naming and schema failures.
	ErrValidation = errors.New("defineStack validation failed")
	// ErrCrossReference marks references to undeclared objects.
	ErrCrossReference = errors.New("defineStack cross-reference validation failed")
)

// Stage identifies the pipeline stage that produced a StackError.
type Stage int

const (
	StageFormat Stage = iota + 1
	StageSchema
	StageReference
)

func (s Stage) String() string {
	switch s {
	case StageFormat:
		return "format"
	case StageSchema:
		return "schema"
	case StageReference:
		return "reference"
	default:
		return "unknown"
	}
}

// StackError aggregates every issue found by one stage.
type StackError struct {
	Stage  Stage
	Issues []error
}

func (e *StackError) sentinel() error {
	if e.Stage == StageReference {
		return ErrCrossReference
	}
	return ErrValidation
}

// Error renders the stage marker followed by every issue.
func (e *StackError) Error() string {
	var buf bytes.Buffer
	buf.WriteString(e.sentinel().Error())

	switch len(e.Issues) {
	case 0:
	case 1:
		buf.WriteString(": ")
		buf.WriteString(e.Issues[0].Error())
	default:
		buf.WriteString(fmt.Sprintf(": found %d %s errors:\n", len(e.Issues), e.Stage))
		for i, issue := range e.Issues {
			buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, issue.Error()))
		}
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Unwrap exposes the stage sentinel and every issue to errors.Is and errors.As.
func (e *StackError) Unwrap() []error {
	return append([]error{e.sentinel()}, e.Issues...)
}

// FormatError reports a name or identifier key that breaks the snake_case
// convention, or a missing or duplicate entity name.
type FormatError struct {
	Collection string
	Entity     string
	Path       string // Location of the offending key, e.g. "objects.lead.fields"
	Key        string
	Message    string
	Suggestion string
	Line       int
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %s", location(e.Path, e.Line), e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// SchemaError reports an entity rejected by its collection's validator.
type SchemaError struct {
	Collection string
	Index      int
	Entity     string
	Err        error
	Line       int
}

func (e *SchemaError) Error() string {
	path := e.Collection
	if e.Collection != manifestKey {
		path = fmt.Sprintf("%s[%d]", e.Collection, e.Index)
	}
	if e.Entity != "" {
		path += fmt.Sprintf(" (%s)", e.Entity)
	}
	return fmt.Sprintf("%s: %v", location(path, e.Line), e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ReferenceError reports an entity naming an object that the document does
// not declare.
type ReferenceError struct {
	Collection string
	Index      int
	Entity     string
	Field      string
	Target     string
	Line       int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s '%s' does not name a declared object",
		location(e.Path(), e.Line), e.Field, e.Target)
}

// Path returns the referencing entity's path, e.g. "workflows.qualify_lead".
func (e *ReferenceError) Path() string {
	return entityPath(e.Collection, e.Index, e.Entity)
}

func location(path string, line int) string {
	if line > 0 {
		return fmt.Sprintf("%s (line %d)", path, line)
	}
	return path
}
