package mission

import (
	"context"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/search"
)

// Objective adapts the simulator to the velocity search: the residual of a
// launch velocity is the signed radial miss at the target angle.
func (s *Simulator) Objective(h float64, n int) search.EvaluatorFunc {
	return func(ctx context.Context, v float64) (search.Probe, error) {
		final, err := s.FinalState(ctx, v, h, n)
		if err != nil {
			return search.Probe{}, err
		}
		return search.Probe{
			Residual: final[orbit.R] - s.target.Radius,
			Final:    final,
		}, nil
	}
}

// Encounter is the outcome of a launch-velocity search and its impact check.
type Encounter struct {
	Search *search.Result
	Final  dynamo.State
	Impact Impact
}

// Intercept searches for the launch velocity that meets the target and
// evaluates the resulting encounter state.
func (s *Simulator) Intercept(ctx context.Context, b *search.Bisection, h float64, n int, eval ImpactEvaluator) (*Encounter, error) {
	res, err := b.Search(ctx, s.Objective(h, n))
	if err != nil {
		return nil, err
	}
	return &Encounter{
		Search: res,
		Final:  res.Final,
		Impact: eval.Evaluate(res.Final),
	}, nil
}
