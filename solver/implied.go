package solver

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence is matched by every *ConvergenceError.
var ErrNoConvergence = errors.New("solver did not converge")

// ConvergenceError reports a solve that could not reproduce its target.
type ConvergenceError struct {
	Reason     string
	Rate       float64 // best rate found
	Residual   float64 // |price(Rate) - target|
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: %s (rate=%.10f residual=%.6g iterations=%d)",
		ErrNoConvergence, e.Reason, e.Rate, e.Residual, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}

// Options bounds the implied-rate search.
type Options struct {
	// Lower and Upper delimit the admissible annual rate. A fair rate outside
	// the interval is a failure, never clamped.
	Lower float64
	Upper float64
	// Tolerance is the fractional bracket width at which Brent stops.
	Tolerance float64
	// PriceTolerance is the largest |model - observed| price accepted.
	PriceTolerance float64
	// MaxIterations is the iteration budget per solve.
	MaxIterations int
}

// DefaultOptions searches [0%, 100%] to well below a cent on face 1000.
var DefaultOptions = Options{
	Lower:          0.0,
	Upper:          1.0,
	Tolerance:      1e-10,
	PriceTolerance: 1e-6,
	MaxIterations:  200,
}

// PriceFunc maps a trial annual rate to a model price.
type PriceFunc func(rate float64) (float64, error)

// Result is a converged implied rate.
type Result struct {
	Rate       float64
	Price      float64 // model price at Rate
	Residual   float64 // |Price - target|
	Iterations int
}

// ImpliedRate finds r in [opts.Lower, opts.Upper] minimising |price(r) - target|.
//
// Errors returned by price abort the solve and are passed through unchanged.
func ImpliedRate(target float64, price PriceFunc, opts Options) (Result, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return Result{}, fmt.Errorf("ImpliedRate: invalid target price %v", target)
	}
	if !(opts.Lower < opts.Upper) {
		return Result{}, fmt.Errorf("ImpliedRate: invalid bounds [%v, %v]", opts.Lower, opts.Upper)
	}

	// Structural failures (missing curve segments, bad dates) do not depend on
	// the trial rate, so probe once before handing the objective to Brent.
	if _, err := price(opts.Lower); err != nil {
		return Result{}, err
	}

	var priceErr error
	objective := func(r float64) float64 {
		p, err := price(r)
		if err != nil {
			if priceErr == nil {
				priceErr = err
			}
			return math.Inf(1)
		}
		return math.Abs(p - target)
	}

	rate, residual, iters, err := Minimize(objective, opts.Lower, opts.Upper, opts.Tolerance, opts.MaxIterations)
	if priceErr != nil {
		return Result{}, priceErr
	}
	if err != nil {
		return Result{}, err
	}
	if residual > opts.PriceTolerance {
		return Result{}, &ConvergenceError{
			Reason:     fmt.Sprintf("no rate in [%v, %v] reproduces price %.6f", opts.Lower, opts.Upper, target),
			Rate:       rate,
			Residual:   residual,
			Iterations: iters,
		}
	}

	model, err := price(rate)
	if err != nil {
		return Result{}, err
	}
	return Result{Rate: rate, Price: model, Residual: residual, Iterations: iters}, nil
}
