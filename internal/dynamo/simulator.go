package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run advances x0 by at most cfg.Steps steps of size cfg.Dt. The run ends
// early when cfg.StopWhen holds for the newest state. The returned Result
// always carries the last accepted state, even alongside an error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.Record {
		result.States = make([]State, 0, cfg.Steps+1)
		result.Times = make([]float64, 0, cfg.Steps+1)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := cfg.T0
	dt := cfg.Dt

	if cfg.Record {
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}
	s.observe(x, t)

	initialEnergy := s.computeEnergy(x)

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		newX := s.integrator.Step(s.dyn, x, t, dt)

		if err := s.check(newX, cfg); err != nil {
			runErr = &SimulationError{Step: i + 1, Time: t + dt, State: newX, Wrapped: err}
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		if cfg.Record {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
		s.observe(x, t)

		if cfg.StopWhen != nil && cfg.StopWhen(x, t) {
			result.Stopped = true
			break
		}
	}

	result.Final = x
	result.FinalTime = t

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

func (s *Simulator) validateConfig(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if c, ok := s.dyn.(Checker); ok {
		if err := c.Check(x0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) check(x State, cfg Config) error {
	if cfg.ValidateState && !x.IsValid() {
		return ErrInvalidState
	}
	if c, ok := s.dyn.(Checker); ok {
		return c.Check(x)
	}
	return nil
}

func (s *Simulator) observe(x State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Simulator) computeEnergy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
