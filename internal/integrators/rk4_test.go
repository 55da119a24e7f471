package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/intercept/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int { return 2 }

type growth struct{}

func (g *growth) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[0]}
}

func (g *growth) StateDim() int { return 1 }

// clock has dx/dt = t, so RK4 integrates it exactly.
type clock struct{}

func (c *clock) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{t}
}

func (c *clock) StateDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-9 {
		t.Errorf("position error too large: got %.12f, expected %.12f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-9 {
		t.Errorf("velocity error too large: got %.12f, expected %.12f", x[1], expectedV)
	}
}

func TestRK4SingleStepWeights(t *testing.T) {
	// For y' = y one step is the degree-4 Taylor polynomial of e^h.
	tests := []float64{0.5, 0.1, 1.0, 2.0}

	for _, h := range tests {
		got := NewRK4().Step(&growth{}, dynamo.State{1}, 0, h)[0]
		expected := 1 + h + h*h/2 + h*h*h/6 + h*h*h*h/24
		if math.Abs(got-expected) > 1e-14*expected {
			t.Errorf("h=%g: expected %.16f, got %.16f", h, expected, got)
		}
	}
}

func TestRK4SamplePoints(t *testing.T) {
	// Sample times t, t+h/2, t+h/2, t+h weighted 1,2,2,1 integrate t exactly.
	got := NewRK4().Step(&clock{}, dynamo.State{0}, 2, 4)[0]
	expected := (6.0*6.0 - 2.0*2.0) / 2
	if got != expected {
		t.Errorf("expected %f, got %f", expected, got)
	}
}

func TestRK4Deterministic(t *testing.T) {
	run := func() dynamo.State {
		integ := NewRK4()
		x := dynamo.State{0.3, -1.7}
		for i := 0; i < 1000; i++ {
			x = integ.Step(&oscillator{}, x, float64(i)*0.05, 0.05)
		}
		return x
	}

	a, b := run(), run()
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Errorf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	NewRK4().Step(&oscillator{}, x, 0, 0.1)
	if x[0] != 1.0 || x[1] != 0.0 {
		t.Errorf("input state modified: %v", x)
	}
}

func TestEulerStep(t *testing.T) {
	x := NewEuler().Step(&oscillator{}, dynamo.State{1, 0}, 0, 0.1)
	if x[0] != 1 || math.Abs(x[1]+0.1) > 1e-15 {
		t.Errorf("expected [1 -0.1], got %v", x)
	}
}

func TestRK4BeatsEuler(t *testing.T) {
	rk, eu := NewRK4(), NewEuler()
	xr := dynamo.State{1, 0}
	xe := dynamo.State{1, 0}
	for i := 0; i < 100; i++ {
		tt := float64(i) * 0.01
		xr = rk.Step(&oscillator{}, xr, tt, 0.01)
		xe = eu.Step(&oscillator{}, xe, tt, 0.01)
	}
	exact := dynamo.State{math.Cos(1), -math.Sin(1)}
	if xr.Distance(exact) >= xe.Distance(exact) {
		t.Errorf("expected rk4 error %g below euler error %g", xr.Distance(exact), xe.Distance(exact))
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"rk4", "euler"} {
		integ, err := Get(name)
		if err != nil {
			t.Fatalf("get %s: %v", name, err)
		}
		if integ == nil {
			t.Errorf("expected integrator for %s", name)
		}
	}

	if _, err := Get("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	a, _ := Get("rk4")
	b, _ := Get("rk4")
	if a == b {
		t.Error("expected fresh rk4 instances")
	}

	names := Names()
	if len(names) != 2 || names[0] != "euler" || names[1] != "rk4" {
		t.Errorf("expected [euler rk4], got %v", names)
	}
}
