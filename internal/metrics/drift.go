package metrics

import (
	"math"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
)

// Drift tracks the largest deviation of a conserved quantity from its
// value at the first observed state. The deviation is relative unless the
// initial value is zero.
type Drift struct {
	name     string
	quantity func(dynamo.State) float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewDrift(name string, quantity func(dynamo.State) float64) *Drift {
	return &Drift{name: name, quantity: quantity}
}

func NewEnergyDrift(h dynamo.Hamiltonian) *Drift {
	return NewDrift("energy_drift", h.Energy)
}

func NewMomentumDrift() *Drift {
	return NewDrift("momentum_drift", orbit.AngularMomentum)
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(x dynamo.State, t float64) {
	q := d.quantity(x)
	if d.samples == 0 {
		d.initial = q
	}
	d.samples++

	drift := math.Abs(q - d.initial)
	if d.initial != 0 {
		drift /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *Drift) Value() float64 {
	return d.maxDrift
}

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
