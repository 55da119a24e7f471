package mission

import (
	"math"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
)

// Impact is the verdict for one final state.
type Impact struct {
	Hit bool
	// Residual is r_final − r_target in metres; positive means overshoot.
	Residual   float64
	DistanceKm float64
}

// ImpactEvaluator compares a final radius against the target radius.
type ImpactEvaluator struct {
	Target    Target
	Tolerance float64
}

func NewImpactEvaluator(target Target, tolerance float64) ImpactEvaluator {
	return ImpactEvaluator{Target: target, Tolerance: tolerance}
}

// Evaluate reports a hit when |r_final − r_target| is strictly below the tolerance.
func (e ImpactEvaluator) Evaluate(final dynamo.State) Impact {
	residual := final[orbit.R] - e.Target.Radius
	diff := math.Abs(residual)
	return Impact{
		Hit:        diff < e.Tolerance,
		Residual:   residual,
		DistanceKm: diff / 1000,
	}
}
