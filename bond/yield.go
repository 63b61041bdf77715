package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/solver"
)

// YieldInput holds the parameters needed to imply the flat yield of a quote.
type YieldInput struct {
	Quote         Quote
	ValuationDate time.Time
	Calendar      calendar.CalendarID
	// DayCountBase is business days per year (252).
	DayCountBase float64
	Terms        Terms
	Solver       solver.Options
}

// YieldResult is the output of ImpliedYield.
type YieldResult struct {
	// Yield is the annual rate as a decimal (e.g. 0.1052).
	Yield      float64
	ModelPrice float64
	Residual   float64
	Iterations int
	Cashflows  []Cashflow
}

// ImpliedYield solves for the single flat rate y such that discounting the
// quote's schedule at (1+y)^(-days/base) reproduces its price.
//
// For a bullet bond this is the zero rate at its maturity; for a coupon bond it
// is the yield to maturity.
func ImpliedYield(in YieldInput) (YieldResult, error) {
	if in.ValuationDate.IsZero() {
		return YieldResult{}, fmt.Errorf("ImpliedYield: %w: ValuationDate is required", calendar.ErrInvalidDate)
	}
	if in.Quote.CleanPrice <= 0 {
		return YieldResult{}, fmt.Errorf("ImpliedYield %s: price must be positive, got %v", in.Quote, in.Quote.CleanPrice)
	}

	cfs, err := Schedule(in.Quote, in.ValuationDate, in.Terms)
	if err != nil {
		return YieldResult{}, fmt.Errorf("ImpliedYield %s: %w", in.Quote, err)
	}

	price := func(r float64) (float64, error) {
		return PresentValue(cfs, FlatRate{
			Valuation: in.ValuationDate,
			Rate:      r,
			Calendar:  in.Calendar,
			Base:      in.DayCountBase,
		})
	}
	res, err := solver.ImpliedRate(in.Quote.CleanPrice, price, in.Solver)
	if err != nil {
		return YieldResult{}, fmt.Errorf("ImpliedYield %s: %w", in.Quote, err)
	}

	return YieldResult{
		Yield:      res.Rate,
		ModelPrice: res.Price,
		Residual:   res.Residual,
		Iterations: res.Iterations,
		Cashflows:  cfs,
	}, nil
}
