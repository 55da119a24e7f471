// Package study runs the trajectory simulator over a list of step sizes
// to show how the final state depends on the integration step.
package study

import (
	"context"
	"errors"
	"math"
	"runtime"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/metrics"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
)

// DefaultStepSizes lists the step sizes of the standard convergence study, in seconds.
func DefaultStepSizes() []float64 {
	return []float64{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100, 50, 40, 30, 20, 10, 1, 0.1, 0.01, 0.001}
}

type Sweep struct {
	Sim      *mission.Simulator
	Impact   mission.ImpactEvaluator
	Velocity float64
	Steps    []float64

	// Count is the step count used for every row unless HoldDuration is set,
	// in which case each row uses Duration/h steps.
	Count        int
	HoldDuration bool
	Duration     float64

	Workers int
	Logger  log.Logger
}

type Row struct {
	Step    float64
	Count   int
	Final   dynamo.State
	Impact  mission.Impact
	Metrics map[string]float64
	// Err holds a per-row simulation failure such as a degenerate state.
	Err error
}

func (r Row) OK() bool { return r.Err == nil }

// Run simulates every step size and returns rows in input order. Rows whose
// simulation fails keep the failure in Row.Err; only cancellation aborts
// the sweep.
func (s *Sweep) Run(ctx context.Context) ([]Row, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "subsys", "study")

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([]Row, len(s.Steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, h := range s.Steps {
		g.Go(func() error {
			row := s.runOne(gctx, h)
			if row.Err != nil && (errors.Is(row.Err, context.Canceled) || errors.Is(row.Err, context.DeadlineExceeded)) {
				return row.Err
			}
			if row.Err != nil {
				level.Warn(logger).Log("msg", "step size failed", "h", h, "err", row.Err)
			} else {
				level.Debug(logger).Log("h", h, "n", row.Count, "r", row.Final[orbit.R], "hit", row.Impact.Hit)
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Sweep) count(h float64) int {
	if s.HoldDuration {
		return int(math.Round(s.Duration / h))
	}
	return s.Count
}

func (s *Sweep) runOne(ctx context.Context, h float64) Row {
	n := s.count(h)
	cfg := s.Sim.Config(s.Velocity, h, n)
	cfg.Metrics = metrics.Standard(s.Sim.Dynamics())

	row := Row{Step: h, Count: n}
	result, err := s.Sim.Simulate(ctx, cfg)
	if err != nil {
		row.Err = err
		return row
	}

	row.Final = result.Final
	row.Impact = s.Impact.Evaluate(result.Final)
	row.Metrics = result.Metrics
	return row
}

// Differences returns the distance between the final states of successive
// rows. Entry i compares rows i and i+1; it is NaN when either failed.
func Differences(rows []Row, component int) []float64 {
	if len(rows) < 2 {
		return nil
	}
	diffs := make([]float64, len(rows)-1)
	for i := range diffs {
		a, b := rows[i], rows[i+1]
		if !a.OK() || !b.OK() {
			diffs[i] = math.NaN()
			continue
		}
		if component < 0 {
			diffs[i] = a.Final.Distance(b.Final)
		} else {
			diffs[i] = math.Abs(a.Final[component] - b.Final[component])
		}
	}
	return diffs
}
