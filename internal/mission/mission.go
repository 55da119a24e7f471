// Package mission wires launch conditions and the asteroid target into
// trajectory simulations and impact checks.
package mission

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/orbit"
)

const (
	DefaultLaunchRadius    = 415000000.0
	DefaultTargetRadius    = 850750000.0
	DefaultTargetAngle     = 1.884955592
	DefaultAngleTolerance  = 0.001
	DefaultImpactTolerance = 10000.0
	DefaultStep            = 50.0
	DefaultSteps           = 10000
)

// Target is the asteroid's fixed position at encounter.
type Target struct {
	Radius float64
	Angle  float64
}

func DefaultTarget() Target {
	return Target{Radius: DefaultTargetRadius, Angle: DefaultTargetAngle}
}

// Position returns the target's Cartesian coordinates.
func (t Target) Position() (float64, float64) {
	return orbit.ToCartesian(t.Radius, t.Angle)
}

// Launch holds the satellite's state at launch, except for the radial
// velocity that is the search variable.
type Launch struct {
	Radius          float64
	Angle           float64
	AngularVelocity float64
}

func DefaultLaunch() Launch {
	return Launch{Radius: DefaultLaunchRadius}
}

// SimulationConfig is the immutable input to one simulation call.
type SimulationConfig struct {
	Launch   Launch
	Velocity float64
	Step     float64
	Steps    int

	// StopAtTarget ends the run once θ is within the angle tolerance of the target.
	StopAtTarget bool
	Record       bool
	Metrics      []dynamo.Metric
}

func (c SimulationConfig) InitialState() dynamo.State {
	return dynamo.State{c.Launch.Radius, c.Launch.Angle, c.Velocity, c.Launch.AngularVelocity}
}

// Simulator is the trajectory simulator. It holds no state between calls.
type Simulator struct {
	dyn            *orbit.TwoBody
	newIntegrator  func() dynamo.Integrator
	launch         Launch
	target         Target
	angleTolerance float64
}

// NewSimulator builds a simulator. newIntegrator is called once per run so
// concurrent callers never share stepper scratch space.
func NewSimulator(dyn *orbit.TwoBody, newIntegrator func() dynamo.Integrator, launch Launch, target Target, angleTolerance float64) *Simulator {
	return &Simulator{
		dyn:            dyn,
		newIntegrator:  newIntegrator,
		launch:         launch,
		target:         target,
		angleTolerance: angleTolerance,
	}
}

func (s *Simulator) Target() Target { return s.target }

func (s *Simulator) Dynamics() *orbit.TwoBody { return s.dyn }

// LaunchSpeeds returns the circular and escape speeds at the launch radius.
// A radial launch below the escape speed falls back toward the central body.
func (s *Simulator) LaunchSpeeds() (circular, escape float64) {
	r := s.launch.Radius
	return s.dyn.CircularVelocity(r), s.dyn.EscapeVelocity(r)
}

// Config returns the simulation config for a launch velocity.
func (s *Simulator) Config(v0, h float64, n int) SimulationConfig {
	return SimulationConfig{Launch: s.launch, Velocity: v0, Step: h, Steps: n}
}

// Simulate runs one trajectory.
func (s *Simulator) Simulate(ctx context.Context, cfg SimulationConfig) (*dynamo.Result, error) {
	sim := dynamo.New(s.dyn, s.newIntegrator())
	for _, m := range cfg.Metrics {
		sim.AddMetric(m)
	}

	runCfg := dynamo.Config{
		Dt:            cfg.Step,
		Steps:         cfg.Steps,
		Record:        cfg.Record,
		ValidateState: true,
	}
	if cfg.StopAtTarget {
		runCfg.StopWhen = s.atTargetAngle
	}

	result, err := sim.Run(ctx, cfg.InitialState(), runCfg)
	if err != nil {
		return result, fmt.Errorf("simulate v0=%.4f m/s h=%g: %w", cfg.Velocity, cfg.Step, err)
	}
	return result, nil
}

// FinalState integrates toward the target angle and returns the state at
// encounter, or after n steps if the angle is never reached.
func (s *Simulator) FinalState(ctx context.Context, v0, h float64, n int) (dynamo.State, error) {
	cfg := s.Config(v0, h, n)
	cfg.StopAtTarget = true
	result, err := s.Simulate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return result.Final, nil
}

// Trajectory returns all n+1 states of a full-length run.
func (s *Simulator) Trajectory(ctx context.Context, v0, h float64, n int) ([]dynamo.State, error) {
	cfg := s.Config(v0, h, n)
	cfg.Record = true
	result, err := s.Simulate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return result.States, nil
}

func (s *Simulator) atTargetAngle(x dynamo.State, t float64) bool {
	return math.Abs(x[orbit.Theta]-s.target.Angle) < s.angleTolerance
}
