// Package output provides styled terminal output for the stackdef CLI.
//
// Messages are styled with lipgloss when written to a terminal and printed
// plain otherwise, so piped output and test buffers stay free of escape codes.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes styled messages to one destination.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	styled  bool
	verbose bool
}

// New creates a printer for out. Styling is enabled only when out is a
// terminal.
func New(out io.Writer) *Printer {
	return &Printer{out: out, styled: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetVerbose enables or disables Verbose messages.
func (p *Printer) SetVerbose(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verbose = v
}

// Success prints a success message with a check mark in green.
// Use this for completed operations.
//
// Example:
//
//	p.Success("crm.stack.yml is valid")
func (p *Printer) Success(msg string) {
	p.println(successStyle, "✔ "+msg)
}

// Error prints an error message with a cross in red.
//
// Example:
//
//	p.Error("crm.stack.yml: defineStack validation failed: ...")
func (p *Printer) Error(msg string) {
	p.println(errorStyle, "✖ "+msg)
}

// Info prints an informational message in cyan.
func (p *Printer) Info(msg string) {
	p.println(infoStyle, "ℹ "+msg)
}

// Step prints an indented sub-item in gray.
func (p *Printer) Step(msg string) {
	p.println(stepStyle, "   "+msg)
}

// Verbose prints a debug message only if verbose mode is enabled.
func (p *Printer) Verbose(msg string) {
	p.mu.Lock()
	verbose := p.verbose
	p.mu.Unlock()
	if verbose {
		p.println(stepStyle, "🔍 "+msg)
	}
}

// Raw writes s unstyled, exactly as given.
func (p *Printer) Raw(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}

func (p *Printer) println(style lipgloss.Style, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.styled {
		msg = style.Render(msg)
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
