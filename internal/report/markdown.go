package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/grokify/releaseconductor/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatPlan formats a release plan as Markdown.
func (f *MarkdownFormatter) FormatPlan(plan *model.ReleasePlan) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Release Plan: %s\n\n", plan.TagName()))
	writePlanTable(&sb, plan)

	return sb.String(), nil
}

// FormatReleaseResult formats a release result as Markdown.
func (f *MarkdownFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Release Result\n\n")
	sb.WriteString(fmt.Sprintf("**Time:** %s\n\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", result.Status))

	if result.Plan != nil {
		sb.WriteString("## Plan\n\n")
		writePlanTable(&sb, result.Plan)
		sb.WriteString("\n")
	}

	if result.ReleaseURL != "" {
		sb.WriteString(fmt.Sprintf("**GitHub Release:** [%s](%s)\n\n", result.Plan.TagName(), result.ReleaseURL))
	}

	if result.Error != "" {
		sb.WriteString("## Error\n\n")
		if result.FailedStep != "" {
			sb.WriteString(fmt.Sprintf("- **Step:** %s\n", result.FailedStep))
		}
		sb.WriteString(fmt.Sprintf("- **Message:** %s\n", result.Error))
	}

	return sb.String(), nil
}

// FormatInspectResult formats an inspect result as Markdown.
func (f *MarkdownFormatter) FormatInspectResult(result *model.InspectResult) (string, error) {
	var sb strings.Builder
	st := result.State

	sb.WriteString("# Repository Inspection\n\n")
	sb.WriteString(fmt.Sprintf("**Time:** %s\n\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Remote | %s |\n", result.Remote))
	sb.WriteString(fmt.Sprintf("| Remote branches | %s |\n", strings.Join(result.Branches, ", ")))
	sb.WriteString(fmt.Sprintf("| Latest release | %s |\n", orNone(result.LatestTag)))
	sb.WriteString(fmt.Sprintf("| Current branch | %s |\n", orNone(st.CurrentBranch)))
	if st.Branch != "" {
		sb.WriteString(fmt.Sprintf("| Release branch | %s (ahead %d, behind %d) |\n", st.Branch, st.Ahead, st.Behind))
	}
	sb.WriteString(fmt.Sprintf("| Clean | %s |\n", yesNo(st.Clean)))
	sb.WriteString(fmt.Sprintf("| Tags at HEAD | %s |\n", orNone(strings.Join(st.HeadTags, ", "))))

	if len(st.Dirty) > 0 {
		sb.WriteString("\n## Uncommitted Changes\n\n")
		for _, d := range st.Dirty {
			sb.WriteString(fmt.Sprintf("- `%s`\n", d))
		}
	}

	return sb.String(), nil
}

// FormatProfiles formats release profiles as Markdown.
func (f *MarkdownFormatter) FormatProfiles(profiles []model.ReleaseProfile) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Release Profiles\n\n")
	sb.WriteString("| Profile | Increments | Auto Checkout | Description |\n")
	sb.WriteString("|---------|------------|---------------|-------------|\n")
	for _, p := range profiles {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			p.Name, incrementList(p), yesNo(p.AutoCheckout), p.Description))
	}

	return sb.String(), nil
}

func writePlanTable(sb *strings.Builder, plan *model.ReleasePlan) {
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Branch | %s |\n", plan.Branch.Name))
	sb.WriteString(fmt.Sprintf("| Increment | %s |\n", plan.Increment))
	sb.WriteString(fmt.Sprintf("| Previous | `%s` |\n", plan.Previous.TagName()))
	sb.WriteString(fmt.Sprintf("| Next | `%s` |\n", plan.Next.TagName()))
	sb.WriteString(fmt.Sprintf("| Tag message | `%s` |\n", plan.Next.Message()))
	sb.WriteString(fmt.Sprintf("| Manifest | %s |\n", plan.Manifest))
	sb.WriteString(fmt.Sprintf("| Remote | %s |\n", plan.Remote))
}

func orNone(s string) string {
	if s == "" {
		return "_none_"
	}
	return s
}
