// Package prompt provides the human-confirmation capability the
// orchestrator invokes at its decision points.
//
// Confirmation is synchronous and cooperative: declining halts remaining
// steps without rolling back completed ones. Tests substitute the Auto
// implementation for deterministic answers.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirmer answers yes/no questions at the orchestrator's checkpoints.
type Confirmer interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Terminal asks on an interactive terminal, reading one line per question.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Confirmer = (*Terminal)(nil)

// NewTerminal returns a Confirmer on stdin/stderr. Questions go to stderr
// so piped stdout stays clean.
func NewTerminal() *Terminal {
	return NewTerminalWith(os.Stdin, os.Stderr)
}

// NewTerminalWith returns a Terminal on explicit streams, for tests.
func NewTerminalWith(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(t.out, "%s %s ", questionStyle.Render(question), hintStyle.Render(hint))

	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	case "":
		return defaultYes, nil
	default:
		return false, nil
	}
}

// Auto answers every question with a fixed response. It backs the
// non-interactive --yes flag and is the test double.
type Auto struct {
	Answer bool

	// Asked records the questions in order, for assertions.
	Asked []string
}

var _ Confirmer = (*Auto)(nil)

func (a *Auto) Confirm(question string, defaultYes bool) (bool, error) {
	a.Asked = append(a.Asked, question)
	return a.Answer, nil
}
