package metrics

import (
	"math"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
)

// MinRadius records the closest approach to the attracting body.
type MinRadius struct {
	min     float64
	samples int
}

func NewMinRadius() *MinRadius {
	return &MinRadius{min: math.Inf(1)}
}

func (m *MinRadius) Name() string { return "min_radius" }

func (m *MinRadius) Observe(x dynamo.State, t float64) {
	m.samples++
	m.min = math.Min(m.min, x[orbit.R])
}

func (m *MinRadius) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinRadius) Reset() {
	m.min = math.Inf(1)
	m.samples = 0
}

// Standard returns a fresh set of metrics for one two-body run.
func Standard(tb *orbit.TwoBody) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(tb),
		NewMomentumDrift(),
		NewMinRadius(),
	}
}
