// Package search finds the launch velocity whose trajectory meets the
// target, by bisection over a velocity bracket.
//
// The evaluator is a black box returning a signed residual. A positive
// residual means overshoot and moves the upper bound down; anything else
// moves the lower bound up. The residual is assumed monotonic in velocity
// over the bracket. That assumption is only verified when
// [Options.CheckBracket] is set; otherwise a non-bracketing input silently
// converges toward one of the bounds.
//
// A search ends in one of three ways, reported as a [Status]:
//
//   - [Converged]: |residual| < Tolerance
//   - [BracketExhausted]: the bracket narrowed below MinWidth first
//   - [IterationLimit]: MaxIterations evaluations were spent
//
// Only the first is a hit; the others return the best estimate so far.
package search
