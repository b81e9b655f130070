package policy

import (
	"fmt"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Predefined release profiles.
var (
	// ProfileAggressive allows every increment and switches to the release
	// branch automatically.
	ProfileAggressive = model.ReleaseProfile{
		Name:        "aggressive",
		Description: "Allow patch, minor and major releases; switch to the release branch automatically",

		AllowPatch: true,
		AllowMinor: true,
		AllowMajor: true,

		AutoCheckout: true,
	}

	// ProfileBalanced allows patch and minor releases.
	ProfileBalanced = model.ReleaseProfile{
		Name:        "balanced",
		Description: "Allow patch and minor releases from the release branch",

		AllowPatch: true,
		AllowMinor: true,
		AllowMajor: false,
	}

	// ProfileConservative allows patch releases only.
	ProfileConservative = model.ReleaseProfile{
		Name:        "conservative",
		Description: "Allow patch releases only",

		AllowPatch: true,
		AllowMinor: false,
		AllowMajor: false,
	}
)

// DefaultProfile is the profile used when none is configured.
const DefaultProfile = "balanced"

// GetProfile returns a copy of a release profile by name.
func GetProfile(name string) *model.ReleaseProfile {
	var p model.ReleaseProfile
	switch name {
	case "aggressive":
		p = ProfileAggressive
	case "balanced":
		p = ProfileBalanced
	case "conservative":
		p = ProfileConservative
	default:
		return nil
	}
	return &p
}

// ListProfiles returns all available profile names.
func ListProfiles() []string {
	return []string{"aggressive", "balanced", "conservative"}
}

// EvaluateProfile evaluates a release against a profile.
// Returns true if the profile permits the release, or false with the violated rules.
func EvaluateProfile(profile *model.ReleaseProfile, pctx *model.PolicyContext) (bool, []model.PolicyViolation) {
	var violations []model.PolicyViolation
	deny := func(rule model.PolicyRule, format string, args ...any) {
		violations = append(violations, model.PolicyViolation{Rule: rule, Reason: fmt.Sprintf(format, args...)})
	}

	switch pctx.Increment {
	case model.IncrementMajor, model.IncrementMinor, model.IncrementPatch:
		if !profile.Allows(pctx.Increment) {
			deny(model.PolicyRuleIncrement, "profile %q does not allow %s releases (allowed: %s)",
				profile.Name, pctx.Increment, joinKinds(profile.AllowedIncrements()))
		}
	default:
		deny(model.PolicyRuleIncrement, "unknown increment kind %q", pctx.Increment)
	}

	if profile.ReleaseBranch != "" && pctx.Branch != "" && pctx.Branch != profile.ReleaseBranch {
		deny(model.PolicyRuleReleaseBranch, "profile %q releases only from %q, not %q",
			profile.Name, profile.ReleaseBranch, pctx.Branch)
	}

	return len(violations) == 0, violations
}

func joinKinds(kinds []model.IncrementKind) string {
	if len(kinds) == 0 {
		return "none"
	}
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += ", "
		}
		s += k.String()
	}
	return s
}
