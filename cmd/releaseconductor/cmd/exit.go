package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/grokify/releaseconductor/internal/releaser"
)

// handleError prints err as a single line and returns the exit code.
func handleError(w io.Writer, err error) int {
	slog.Debug("command failed", "error", err, "kind", releaser.KindOf(err))

	fmt.Fprintln(w, color.New(color.FgRed, color.Bold).Sprint("error: ")+errorLine(err))
	return 1
}

// errorLine flattens err and its remediation hint onto one line. Git output
// embedded in the error often spans several lines.
func errorLine(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if hint := releaser.HintOf(err); hint != "" {
		msg += " (hint: " + strings.Join(strings.Fields(hint), " ") + ")"
	}
	return msg
}
