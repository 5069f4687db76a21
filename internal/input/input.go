// Package input provides interactive terminal prompts for the stackdef CLI.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	styled bool
}

// New creates a prompter. Questions are styled only when out is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	f, ok := out.(*os.File)
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
		styled: ok && term.IsTerminal(int(f.Fd())),
	}
}

// Prompt asks for text input with an optional default value.
// If the user presses Enter without typing anything, the default is returned.
//
// Example:
//
//	id := p.Prompt("Stack id", "crm")
//	// Displays: Stack id (crm): _
func (p *Prompter) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		p.ask(message, fmt.Sprintf("(%s)", defaultValue))
	} else {
		p.ask(message, "")
	}

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultValue
	}
	return answer
}

// Confirm asks a yes/no question.
// Returns true if the user answers yes (y/Y/yes/YES), false otherwise.
// If defaultYes is true, pressing Enter returns true.
func (p *Prompter) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	p.ask(message, hint)

	answer, ok := p.readLine()
	if !ok || answer == "" {
		return defaultYes
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (p *Prompter) ask(message, hint string) {
	if p.styled {
		message = promptStyle.Render(message)
		if hint != "" {
			hint = hintStyle.Render(hint)
		}
	}
	if hint != "" {
		message += " " + hint
	}
	_, _ = fmt.Fprint(p.out, message+": ")
}

// readLine returns the trimmed next line. A final line without a newline
// still counts as an answer.
func (p *Prompter) readLine() (string, bool) {
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
