package policy

import (
	"github.com/grokify/releaseconductor/pkg/model"
)

// ContextBuilder builds PolicyContext from a release plan and repository state.
type ContextBuilder struct{}

// NewContextBuilder creates a new context builder.
func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Build creates a PolicyContext for releasing branch with the given increment.
// The plan is optional; it is nil before the version has been computed.
func (b *ContextBuilder) Build(branch string, kind model.IncrementKind, plan *model.ReleasePlan) *model.PolicyContext {
	ctx := &model.PolicyContext{
		Branch:    branch,
		Increment: kind,
		IsMajor:   kind == model.IncrementMajor,
		IsMinor:   kind == model.IncrementMinor,
		IsPatch:   kind == model.IncrementPatch,
	}

	if plan != nil {
		ctx.Previous = plan.Previous.Version()
		ctx.Next = plan.Next.Version()
	}

	return ctx
}
