package integrators

import "github.com/san-kum/intercept/internal/dynamo"

// RK4 is the classical fixed-step fourth-order Runge-Kutta stepper.
//
// Each slope sample is scaled by the step before use:
//
//	k1 = h·f(t, y)
//	k2 = h·f(t+h/2, y+k1/2)
//	k3 = h·f(t+h/2, y+k2/2)
//	k4 = h·f(t+h, y+k3)
//	y' = y + (k1 + 2k2 + 2k3 + k4)/6
//
// The evaluation order is fixed so repeated runs are bit-identical.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, h float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)
	half := h / 2

	for i, d := range dyn.Derive(x, t) {
		r.k1[i] = h * d
		r.scratch[i] = x[i] + r.k1[i]/2
	}

	for i, d := range dyn.Derive(r.scratch, t+half) {
		r.k2[i] = h * d
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k2[i]/2
	}

	for i, d := range dyn.Derive(r.scratch, t+half) {
		r.k3[i] = h * d
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k3[i]
	}

	for i, d := range dyn.Derive(r.scratch, t+h) {
		r.k4[i] = h * d
	}

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + (r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}

	return result
}
