package report

import (
	"encoding/json"

	"github.com/grokify/releaseconductor/pkg/model"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: true}
}

// FormatPlan formats a release plan as JSON.
func (f *JSONFormatter) FormatPlan(plan *model.ReleasePlan) (string, error) {
	return f.marshal(planView(plan))
}

// FormatReleaseResult formats a release result as JSON.
func (f *JSONFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	v := resultJSON{ReleaseResult: result}
	if result.Plan != nil {
		pv := planView(result.Plan)
		v.Plan = &pv
	}
	return f.marshal(v)
}

// FormatInspectResult formats an inspect result as JSON.
func (f *JSONFormatter) FormatInspectResult(result *model.InspectResult) (string, error) {
	return f.marshal(result)
}

// FormatProfiles formats release profiles as JSON.
func (f *JSONFormatter) FormatProfiles(profiles []model.ReleaseProfile) (string, error) {
	return f.marshal(profiles)
}

// planJSON adds the derived tag strings to the plan.
type planJSON struct {
	*model.ReleasePlan
	PreviousTag string `json:"previousTag"`
	TagName     string `json:"tagName"`
	TagMessage  string `json:"tagMessage"`
}

// resultJSON replaces the plan with its derived view.
type resultJSON struct {
	*model.ReleaseResult
	Plan *planJSON `json:"plan,omitempty"`
}

func planView(plan *model.ReleasePlan) planJSON {
	return planJSON{
		ReleasePlan: plan,
		PreviousTag: plan.Previous.TagName(),
		TagName:     plan.TagName(),
		TagMessage:  plan.Next.Message(),
	}
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data) + "\n", nil
}
