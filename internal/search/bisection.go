package search

import (
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Bisection struct {
	opts      Options
	logger    log.Logger
	observers []func(Iteration)
}

func NewBisection(opts Options) *Bisection {
	return &Bisection{
		opts:   opts,
		logger: log.NewNopLogger(),
	}
}

func (b *Bisection) WithLogger(logger log.Logger) *Bisection {
	b.logger = log.With(logger, "subsys", "search")
	return b
}

// OnIteration registers fn to be called after every evaluation.
func (b *Bisection) OnIteration(fn func(Iteration)) {
	b.observers = append(b.observers, fn)
}

// Search narrows the bracket until the residual is within tolerance, the
// bracket is narrower than MinWidth, or MaxIterations is reached. The
// latter two are reported through Result.Status, not as errors.
func (b *Bisection) Search(ctx context.Context, eval Evaluator) (*Result, error) {
	if err := b.opts.Validate(); err != nil {
		return nil, err
	}

	lo, hi := b.opts.VMin, b.opts.VMax

	if b.opts.CheckBracket {
		if err := b.checkBracket(ctx, eval, lo, hi); err != nil {
			return nil, err
		}
	}

	result := &Result{History: make([]Iteration, 0, 64)}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		mid := (lo + hi) / 2
		probe, err := eval.Evaluate(ctx, mid)
		if err != nil {
			return result, fmt.Errorf("iteration %d (v=%.4f): %w", n, mid, err)
		}

		result.Velocity = mid
		result.Residual = probe.Residual
		result.Final = probe.Final
		result.Iterations = n

		done := math.Abs(probe.Residual) < b.opts.Tolerance
		if !done {
			if probe.Residual > 0 {
				hi = mid
			} else {
				lo = mid
			}
		}

		it := Iteration{
			N:        n,
			Velocity: mid,
			Residual: probe.Residual,
			VMin:     lo,
			VMax:     hi,
			Final:    probe.Final,
		}
		result.History = append(result.History, it)
		b.notify(it)

		level.Debug(b.logger).Log("iter", n, "v", mid, "residual", probe.Residual, "width", hi-lo)

		switch {
		case done:
			result.Status = Converged
		case hi-lo < b.opts.MinWidth:
			result.Status = BracketExhausted
		case n >= b.opts.MaxIterations:
			result.Status = IterationLimit
		default:
			continue
		}
		break
	}

	if result.Status == Converged {
		level.Info(b.logger).Log("msg", "search converged", "v", result.Velocity, "residual", result.Residual, "iterations", result.Iterations)
	} else {
		level.Warn(b.logger).Log("msg", "search stopped before tolerance", "status", result.Status, "v", result.Velocity, "residual", result.Residual, "iterations", result.Iterations)
	}

	return result, nil
}

func (b *Bisection) checkBracket(ctx context.Context, eval Evaluator, lo, hi float64) error {
	pLo, err := eval.Evaluate(ctx, lo)
	if err != nil {
		return fmt.Errorf("bracket endpoint v=%.4f: %w", lo, err)
	}
	pHi, err := eval.Evaluate(ctx, hi)
	if err != nil {
		return fmt.Errorf("bracket endpoint v=%.4f: %w", hi, err)
	}
	if pLo.Residual*pHi.Residual > 0 {
		return &InvalidBracketError{VMin: lo, VMax: hi, ResidualMin: pLo.Residual, ResidualMax: pHi.Residual}
	}
	return nil
}

func (b *Bisection) notify(it Iteration) {
	for _, fn := range b.observers {
		fn(it)
	}
}
