// Package bootstrap turns a set of Brazilian government bond quotes into a
// zero-coupon curve sampled on every business day.
//
// Bullet bonds (LTN) pin knots directly; coupon-bearing bonds (NTN-F) are then
// added one at a time in maturity order, each solving only its own maturity
// knot against the knots already in place.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/config"
	"github.com/meenmo/brcurve/curve"
	"github.com/meenmo/brcurve/logger"
)

// Result is a finished bootstrap run.
type Result struct {
	Curve  *curve.Curve
	Series curve.DailySeries
	// Bullets follow input order; Coupons follow maturity order.
	Bullets []Fit
	Coupons []Fit

	terms bond.Terms
}

// Build bootstraps the curve for valuation from quotes.
//
// Any failure (bad date, schedule, convergence, out-of-range query) aborts the
// run and no partial curve is returned.
func Build(quotes []bond.Quote, valuation time.Time, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if valuation.IsZero() {
		return nil, fmt.Errorf("Build: %w: valuation date is required", calendar.ErrInvalidDate)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("Build: no quotes")
	}

	log := logger.GetLogger().WithComponent("bootstrap").WithFields(logger.Fields{
		"valuation": valuation.Format("2006-01-02"),
		"quotes":    len(quotes),
	})
	start := time.Now()

	bullets, coupons := SplitQuotes(quotes)
	b := curve.NewBuilder(valuation, cfg.Calendar, cfg.DayCountBase)

	bulletFits, err := BootstrapZeroCoupon(b, bullets, cfg)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	couponFits, err := Refine(b, coupons, cfg)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	c, err := b.Finalize()
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	series, err := curve.Sample(c)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	log.WithFields(logger.Fields{
		"knots":       c.Len(),
		"days":        len(series),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("curve built")

	return &Result{
		Curve:   c,
		Series:  series,
		Bullets: bulletFits,
		Coupons: couponFits,
		terms:   cfg.Terms(),
	}, nil
}

// Reprice returns the model price of q discounted on the built curve.
// Cash flows past the curve's last knot fail with curve.ErrOutOfRange.
func (r *Result) Reprice(q bond.Quote) (float64, error) {
	cfs, err := bond.Schedule(q, r.Curve.ValuationDate(), r.terms)
	if err != nil {
		return 0, fmt.Errorf("Reprice %s: %w", q, err)
	}
	pv, err := bond.PresentValue(cfs, r.Curve)
	if err != nil {
		return 0, fmt.Errorf("Reprice %s: %w", q, err)
	}
	return pv, nil
}

// Fits returns bullet fits followed by coupon fits.
func (r *Result) Fits() []Fit {
	out := make([]Fit, 0, len(r.Bullets)+len(r.Coupons))
	out = append(out, r.Bullets...)
	return append(out, r.Coupons...)
}
