package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/intercept/internal/dynamo"
)

var (
	ErrInvalidOptions = errors.New("search: invalid options")
	ErrInvalidBracket = errors.New("search: bracket does not contain a root")
)

// InvalidBracketError reports endpoint residuals of the same sign.
type InvalidBracketError struct {
	VMin, VMax  float64
	ResidualMin float64
	ResidualMax float64
}

func (e *InvalidBracketError) Error() string {
	return fmt.Sprintf("search: bracket [%.4f, %.4f] does not contain a root (residuals %.4g, %.4g)",
		e.VMin, e.VMax, e.ResidualMin, e.ResidualMax)
}

func (e *InvalidBracketError) Unwrap() error {
	return ErrInvalidBracket
}

// Probe is one evaluation of the objective.
type Probe struct {
	Residual float64
	Final    dynamo.State
}

type Evaluator interface {
	Evaluate(ctx context.Context, v float64) (Probe, error)
}

type EvaluatorFunc func(ctx context.Context, v float64) (Probe, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, v float64) (Probe, error) {
	return f(ctx, v)
}

type Status int

const (
	Converged Status = iota
	BracketExhausted
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case BracketExhausted:
		return "bracket exhausted"
	case IterationLimit:
		return "iteration limit"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type Options struct {
	VMin          float64 `yaml:"v_min"`
	VMax          float64 `yaml:"v_max"`
	Tolerance     float64 `yaml:"tolerance"`
	MinWidth      float64 `yaml:"min_width"`
	MaxIterations int     `yaml:"max_iterations"`
	CheckBracket  bool    `yaml:"check_bracket"`
}

func DefaultOptions() Options {
	return Options{
		VMin:          0,
		VMax:          15000,
		Tolerance:     1000,
		MinWidth:      0.1,
		MaxIterations: 200,
	}
}

func (o Options) Validate() error {
	if !(o.VMin < o.VMax) {
		return fmt.Errorf("%w: v_min %g must be below v_max %g", ErrInvalidOptions, o.VMin, o.VMax)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidOptions, o.Tolerance)
	}
	if o.MinWidth <= 0 {
		return fmt.Errorf("%w: min width must be positive, got %g", ErrInvalidOptions, o.MinWidth)
	}
	if o.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidOptions, o.MaxIterations)
	}
	return nil
}

// Iteration records one bisection step. VMin and VMax are the bracket
// after the step's update.
type Iteration struct {
	N        int
	Velocity float64
	Residual float64
	VMin     float64
	VMax     float64
	Final    dynamo.State
}

func (it Iteration) Width() float64 { return it.VMax - it.VMin }

type Result struct {
	Velocity   float64
	Residual   float64
	Final      dynamo.State
	Iterations int
	Status     Status
	History    []Iteration
}

func (r *Result) Converged() bool { return r.Status == Converged }
