package policy

import (
	"context"
	"fmt"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Engine evaluates release decisions against a release profile.
type Engine struct {
	profile *model.ReleaseProfile
}

// NewEngine creates a new policy engine with the given profile name.
// An empty name selects DefaultProfile.
func NewEngine(profileName string) (*Engine, error) {
	if profileName == "" {
		profileName = DefaultProfile
	}
	profile := GetProfile(profileName)
	if profile == nil {
		return nil, fmt.Errorf("unknown profile %q (available: %v)", profileName, ListProfiles())
	}
	return &Engine{profile: profile}, nil
}

// NewEngineWithProfile creates a new policy engine with the given profile.
func NewEngineWithProfile(profile *model.ReleaseProfile) *Engine {
	return &Engine{profile: profile}
}

// Profile returns the profile the engine evaluates against.
func (e *Engine) Profile() *model.ReleaseProfile {
	return e.profile
}

// AllowedIncrements returns the increment kinds the profile permits.
func (e *Engine) AllowedIncrements() []model.IncrementKind {
	return e.profile.AllowedIncrements()
}

// Evaluate evaluates the policy for the given action and context.
func (e *Engine) Evaluate(_ context.Context, action model.PolicyAction, pctx *model.PolicyContext) (*model.PolicyDecision, error) {
	result := &model.PolicyDecision{
		Action: string(action),
	}

	switch action {
	case model.PolicyActionPlan, model.PolicyActionRelease:
		result.Allowed, result.Violations = EvaluateProfile(e.profile, pctx)
	default:
		result.Allowed = false
		result.Violations = []model.PolicyViolation{{Rule: model.PolicyRuleAction, Reason: "unknown action"}}
	}
	for _, v := range result.Violations {
		result.Reasons = append(result.Reasons, v.Reason)
	}

	return result, nil
}
