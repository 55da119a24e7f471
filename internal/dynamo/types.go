package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Distance returns the euclidean distance between two states of equal length.
func (s State) Distance(other State) float64 {
	return floats.Distance(s, other, 2)
}

// System is a time-invariant or time-varying ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Checker is implemented by systems whose equations are only defined on
// part of the state space. Check returns a non-nil error for states
// outside that domain.
type Checker interface {
	Check(x State) error
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// StopFunc reports whether a run should end at the state just produced.
type StopFunc func(x State, t float64) bool

type Config struct {
	T0    float64
	Dt    float64
	Steps int

	// StopWhen is evaluated after every step; nil runs all Steps.
	StopWhen StopFunc

	// Record keeps every state (initial included) in Result.States.
	Record bool

	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            50,
		Steps:         10000,
		ValidateState: true,
	}
}

type Result struct {
	Final       State
	FinalTime   float64
	States      []State
	Times       []float64
	StepsTaken  int
	Stopped     bool
	EnergyDrift float64
	Metrics     map[string]float64
}
