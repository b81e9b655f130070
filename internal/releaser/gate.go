package releaser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/internal/operator"
	"github.com/grokify/releaseconductor/pkg/model"
)

// PlanRenderer renders a plan for the operator to review.
type PlanRenderer interface {
	FormatPlan(plan *model.ReleasePlan) (string, error)
}

// Gate shows the plan and requires an explicit yes before publishing.
type Gate struct {
	operator  operator.Operator
	renderer  PlanRenderer
	out       io.Writer
	assumeYes bool
}

// NewGate creates a confirmation gate. With assumeYes the plan is still shown
// and the acknowledgement is taken from the caller instead of the operator.
func NewGate(op operator.Operator, renderer PlanRenderer, out io.Writer, assumeYes bool) *Gate {
	return &Gate{operator: op, renderer: renderer, out: out, assumeYes: assumeYes}
}

// Confirm returns true only when the operator affirmed the plan. A declined
// or cancelled prompt returns false with no error.
func (g *Gate) Confirm(ctx context.Context, plan model.ReleasePlan) (bool, error) {
	logger := ctxlog.From(ctx)

	text, err := g.renderer.FormatPlan(&plan)
	if err != nil {
		return false, fmt.Errorf("failed to render plan: %w", err)
	}
	fmt.Fprintln(g.out, text)

	if g.assumeYes {
		logger.Info("plan acknowledged by --yes", "tag", plan.TagName())
		return true, nil
	}

	ok, err := g.operator.Confirm(ctx, fmt.Sprintf("Publish %s to %s/%s?", plan.TagName(), plan.Remote, plan.Branch.Name))
	switch {
	case errors.Is(err, operator.ErrAborted):
		logger.Info("confirmation cancelled", "tag", plan.TagName())
		return false, nil
	case errors.Is(err, operator.ErrNoInput):
		return false, newError(KindMissingInput,
			goerr.Wrap(err, "no confirmation received"),
			"answer the prompt or pass --yes for unattended runs")
	case err != nil:
		return false, err
	}

	logger.Info("confirmation answered", "tag", plan.TagName(), "confirmed", ok)
	return ok, nil
}
