package operator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxAttempts = 3

// Prompter asks questions line by line. It serves piped input and scripted runs.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a line-based prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Select accepts either the option number or the option text.
func (p *Prompter) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprintln(p.out, question)
		for i, opt := range options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(p.out, "> ")

		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, opt := range options {
			if strings.EqualFold(answer, opt) {
				return opt, nil
			}
		}
		fmt.Fprintf(p.out, "%q is not one of the options\n", answer)
	}
	return "", fmt.Errorf("no valid answer to %q after %d attempts", question, maxAttempts)
}

// Confirm accepts y/yes and n/no. An empty answer means no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s [y/N] ", question)

		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintf(p.out, "please answer yes or no\n")
	}
	return false, fmt.Errorf("no valid answer to %q after %d attempts", question, maxAttempts)
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
