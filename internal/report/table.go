package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/grokify/releaseconductor/pkg/model"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	boldColor = color.New(color.Bold)
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatPlan formats a release plan as aligned key/value rows.
func (f *TableFormatter) FormatPlan(plan *model.ReleasePlan) (string, error) {
	var sb strings.Builder

	sb.WriteString(boldColor.Sprint("Release Plan") + "\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %s/%s\n", "Branch:", plan.Remote, plan.Branch.Name))
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Increment:", plan.Increment))
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Previous release:", plan.Previous.TagName()))
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Next release:", okColor.Sprint(plan.Next.TagName())))
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Tag message:", plan.Next.Message()))
	sb.WriteString(fmt.Sprintf("%-18s %s -> %s\n", "Manifest:", plan.Manifest, plan.Next.Version()))
	sb.WriteString(fmt.Sprintf("%-18s git push --atomic %s %s\n", "Push:", plan.Remote, strings.Join(plan.Refs(), " ")))

	return sb.String(), nil
}

// FormatReleaseResult formats a release result as a text table.
func (f *TableFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Release %s (%s)\n", statusText(result.Status), result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	if result.Plan != nil {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Branch:", result.Plan.Branch.Name))
		sb.WriteString(fmt.Sprintf("%-18s %s -> %s\n", "Version:", result.Plan.Previous.Version(), result.Plan.Next.Version()))
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Tag:", result.Plan.TagName()))
	}
	if result.ReleaseURL != "" {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "GitHub release:", result.ReleaseURL))
	}
	if result.FailedStep != "" {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Failed step:", result.FailedStep))
	}
	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Error:", truncate(result.Error, 200)))
	}

	return sb.String(), nil
}

// FormatInspectResult formats an inspect result as a text table.
func (f *TableFormatter) FormatInspectResult(result *model.InspectResult) (string, error) {
	var sb strings.Builder
	st := result.State

	sb.WriteString(fmt.Sprintf("Repository Inspection (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Remote:", result.Remote))
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Remote branches:", strings.Join(result.Branches, ", ")))

	latest := result.LatestTag
	if latest == "" {
		latest = warnColor.Sprint("none")
	}
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Latest release:", latest))

	current := st.CurrentBranch
	if current == "" {
		current = "(detached HEAD)"
	}
	sb.WriteString(fmt.Sprintf("%-18s %s\n", "Current branch:", current))

	if st.Branch != "" {
		sb.WriteString(fmt.Sprintf("%-18s %s (ahead %d, behind %d)\n", "Release branch:", st.Branch, st.Ahead, st.Behind))
	}

	if st.Clean {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Working tree:", okColor.Sprint("clean")))
	} else {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Working tree:", failColor.Sprintf("%d uncommitted change(s)", len(st.Dirty))))
		for _, d := range st.Dirty {
			sb.WriteString("    " + d + "\n")
		}
	}

	if st.HasTagOnHead() {
		sb.WriteString(fmt.Sprintf("%-18s %s\n", "Tags at HEAD:", strings.Join(st.HeadTags, ", ")))
	}

	return sb.String(), nil
}

// FormatProfiles formats release profiles as a text table.
func (f *TableFormatter) FormatProfiles(profiles []model.ReleaseProfile) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-14s %-20s %-9s %s\n", "PROFILE", "INCREMENTS", "CHECKOUT", "DESCRIPTION"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, p := range profiles {
		sb.WriteString(fmt.Sprintf("%-14s %-20s %-9s %s\n",
			truncate(p.Name, 14),
			incrementList(p),
			yesNo(p.AutoCheckout),
			truncate(p.Description, 60),
		))
	}

	return sb.String(), nil
}

func statusText(s model.ReleaseStatus) string {
	switch s {
	case model.ReleaseStatusPublished:
		return okColor.Sprint(s.String())
	case model.ReleaseStatusAborted, model.ReleaseStatusPlanned:
		return warnColor.Sprint(s.String())
	default:
		return failColor.Sprint(s.String())
	}
}
