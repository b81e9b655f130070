// Package operator asks the person running a release to choose between
// options and to confirm a plan.
package operator

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ErrAborted is returned when the operator cancels a question (Ctrl+C, Esc).
	ErrAborted = errors.New("aborted by operator")

	// ErrNoInput is returned when input ends before a question is answered.
	ErrNoInput = errors.New("no operator input available")
)

// Operator is the interaction surface between the release pipeline and a person.
type Operator interface {
	// Select presents a single-choice question and returns the chosen option.
	Select(ctx context.Context, question string, options []string) (string, error)

	// Confirm presents a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
}

// New returns a terminal UI operator when in is an interactive terminal and a
// line-based prompter otherwise.
func New(in io.Reader, out io.Writer) Operator {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return NewTUI(f, out)
	}
	return NewPrompter(in, out)
}
