package model

// PolicyAction represents an action that can be evaluated against a release profile.
type PolicyAction string

const (
	PolicyActionPlan    PolicyAction = "plan"
	PolicyActionRelease PolicyAction = "release"
)

// PolicyRule names a profile rule a release can violate.
type PolicyRule string

const (
	PolicyRuleIncrement     PolicyRule = "increment"
	PolicyRuleReleaseBranch PolicyRule = "releaseBranch"
	PolicyRuleAction        PolicyRule = "action"
)

// PolicyViolation is one broken rule with a human-readable reason.
type PolicyViolation struct {
	Rule   PolicyRule `json:"rule"`
	Reason string     `json:"reason"`
}

// PolicyDecision represents the result of policy evaluation.
type PolicyDecision struct {
	Allowed    bool              `json:"allowed"`
	Action     string            `json:"action"`
	Reasons    []string          `json:"reasons,omitempty"`
	Violations []PolicyViolation `json:"violations,omitempty"`
}

// Violates reports whether the decision broke the given rule.
func (d *PolicyDecision) Violates(rule PolicyRule) bool {
	for _, v := range d.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// PolicyContext is the release information a profile is evaluated against.
type PolicyContext struct {
	Branch    string        `json:"branch"`
	Increment IncrementKind `json:"increment"`
	IsMajor   bool          `json:"isMajor"`
	IsMinor   bool          `json:"isMinor"`
	IsPatch   bool          `json:"isPatch"`
	Previous  string        `json:"previous,omitempty"`
	Next      string        `json:"next,omitempty"`
}

// ReleaseProfile defines which releases are allowed and how the workflow
// behaves around them.
type ReleaseProfile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Branch defaults
	ReleaseBranch string `json:"releaseBranch,omitempty" yaml:"releaseBranch,omitempty"`
	Remote        string `json:"remote,omitempty" yaml:"remote,omitempty"`

	// Increment controls
	AllowPatch bool `json:"allowPatch" yaml:"allowPatch"`
	AllowMinor bool `json:"allowMinor" yaml:"allowMinor"`
	AllowMajor bool `json:"allowMajor" yaml:"allowMajor"`

	// Workflow
	AutoCheckout  bool `json:"autoCheckout" yaml:"autoCheckout"`
	GitHubRelease bool `json:"githubRelease" yaml:"githubRelease"`
}

// AllowedIncrements returns the increment kinds the profile permits, in prompt order.
func (p *ReleaseProfile) AllowedIncrements() []IncrementKind {
	var kinds []IncrementKind
	for _, k := range IncrementKinds() {
		if p.Allows(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Allows reports whether the profile permits the given increment kind.
func (p *ReleaseProfile) Allows(kind IncrementKind) bool {
	switch kind {
	case IncrementPatch:
		return p.AllowPatch
	case IncrementMinor:
		return p.AllowMinor
	case IncrementMajor:
		return p.AllowMajor
	default:
		return false
	}
}
