package search

import (
	"context"
	"fmt"
	"math"
)

// ScanResult summarises a uniform velocity scan.
type ScanResult struct {
	// Found reports whether two successive successful probes changed sign;
	// Lo and Hi are then the endpoints of the first such interval.
	Found bool
	Lo    float64
	Hi    float64

	// Best is the velocity with the smallest |residual| among successful probes.
	Best         float64
	BestResidual float64
	Evaluated    int
	Failed       int
}

// Scan evaluates n+1 evenly spaced velocities over [lo, hi] and reports the
// first sub-interval whose endpoint residuals change sign. Failed
// evaluations are skipped and counted; cancellation aborts the scan.
func Scan(ctx context.Context, eval Evaluator, lo, hi float64, n int) (*ScanResult, error) {
	if n < 1 || !(hi > lo) {
		return nil, fmt.Errorf("%w: scan over [%g, %g] with %d intervals", ErrInvalidOptions, lo, hi, n)
	}

	res := &ScanResult{BestResidual: math.Inf(1)}
	var (
		prevV    float64
		prevRes  float64
		havePrev bool
	)

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		v := lo + (hi-lo)*float64(i)/float64(n)
		probe, err := eval.Evaluate(ctx, v)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			continue
		}
		res.Evaluated++

		if math.Abs(probe.Residual) < math.Abs(res.BestResidual) {
			res.Best, res.BestResidual = v, probe.Residual
		}
		if havePrev && !res.Found && prevRes*probe.Residual <= 0 {
			res.Found, res.Lo, res.Hi = true, prevV, v
		}
		prevV, prevRes, havePrev = v, probe.Residual, true
	}
	return res, nil
}

// Narrow returns opts with the bracket replaced by the scan's sign-change
// interval. It fails with ErrInvalidBracket when the scan found none.
func (r *ScanResult) Narrow(opts Options) (Options, error) {
	if !r.Found {
		return opts, fmt.Errorf("%w: no sign change in %d successful probes", ErrInvalidBracket, r.Evaluated)
	}
	opts.VMin, opts.VMax = r.Lo, r.Hi
	return opts, nil
}
