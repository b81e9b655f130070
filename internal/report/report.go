// Package report renders plans, release results and inspection results.
package report

import (
	"fmt"
	"strings"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatPlan formats a release plan, as shown at the confirmation gate.
	FormatPlan(plan *model.ReleasePlan) (string, error)

	// FormatReleaseResult formats the outcome of a release run.
	FormatReleaseResult(result *model.ReleaseResult) (string, error)

	// FormatInspectResult formats an inspection of the repository.
	FormatInspectResult(result *model.InspectResult) (string, error)

	// FormatProfiles formats the available release profiles.
	FormatProfiles(profiles []model.ReleaseProfile) (string, error)
}

// Formats lists the supported output format names.
func Formats() []string {
	return []string{"table", "json", "markdown", "csv"}
}

// New returns the formatter for the named format.
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "markdown", "md":
		return NewMarkdownFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
}

func incrementList(p model.ReleaseProfile) string {
	kinds := p.AllowedIncrements()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
