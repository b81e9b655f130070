package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/grokify/releaseconductor/pkg/model"
)

// CSVFormatter formats results as CSV, one header row plus data rows.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

var planHeader = []string{"Branch", "Remote", "Increment", "Previous", "Next", "Tag", "Message", "Manifest"}

func planRow(plan *model.ReleasePlan) []string {
	if plan == nil {
		return make([]string, len(planHeader))
	}
	return []string{
		plan.Branch.Name,
		plan.Remote,
		plan.Increment.String(),
		plan.Previous.Version(),
		plan.Next.Version(),
		plan.TagName(),
		plan.Next.Message(),
		plan.Manifest,
	}
}

// FormatPlan formats a release plan as CSV.
func (f *CSVFormatter) FormatPlan(plan *model.ReleasePlan) (string, error) {
	return writeCSV(planHeader, [][]string{planRow(plan)})
}

// FormatReleaseResult formats a release result as CSV.
func (f *CSVFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	header := append([]string{"Status"}, planHeader...)
	header = append(header, "Failed Step", "Error", "Release URL")

	row := append([]string{result.Status.String()}, planRow(result.Plan)...)
	row = append(row, result.FailedStep, result.Error, result.ReleaseURL)

	return writeCSV(header, [][]string{row})
}

// FormatInspectResult formats an inspect result as CSV.
func (f *CSVFormatter) FormatInspectResult(result *model.InspectResult) (string, error) {
	st := result.State
	header := []string{"Remote", "Branches", "Latest Tag", "Current Branch", "Release Branch", "Clean", "Ahead", "Behind", "Tags At HEAD"}
	row := []string{
		result.Remote,
		strings.Join(result.Branches, " "),
		result.LatestTag,
		st.CurrentBranch,
		st.Branch,
		strconv.FormatBool(st.Clean),
		strconv.Itoa(st.Ahead),
		strconv.Itoa(st.Behind),
		strings.Join(st.HeadTags, " "),
	}
	return writeCSV(header, [][]string{row})
}

// FormatProfiles formats release profiles as CSV.
func (f *CSVFormatter) FormatProfiles(profiles []model.ReleaseProfile) (string, error) {
	header := []string{"Name", "Description", "Release Branch", "Patch", "Minor", "Major", "Auto Checkout", "GitHub Release"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Name,
			p.Description,
			p.ReleaseBranch,
			strconv.FormatBool(p.AllowPatch),
			strconv.FormatBool(p.AllowMinor),
			strconv.FormatBool(p.AllowMajor),
			strconv.FormatBool(p.AutoCheckout),
			strconv.FormatBool(p.GitHubRelease),
		})
	}
	return writeCSV(header, rows)
}

func writeCSV(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}
