package bootstrap

import (
	"fmt"
	"sort"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/config"
	"github.com/meenmo/brcurve/curve"
	"github.com/meenmo/brcurve/logger"
	"github.com/meenmo/brcurve/solver"
)

// Refine extends the curve in b with one knot per coupon-bearing bond.
//
// Bonds are processed in ascending maturity order whatever the input order.
// For each bond the knot at its maturity is the only free parameter; every
// other knot is fixed at its current value. A solved knot is written back
// before the next bond, so later bonds price their early coupons off knots
// already solved. The first failure aborts the whole refinement.
func Refine(b *curve.Builder, coupons []bond.Quote, cfg config.Config) ([]Fit, error) {
	log := logger.GetLogger().WithComponent("bootstrap.refine")

	sorted := make([]bond.Quote, len(coupons))
	copy(sorted, coupons)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Maturity.Before(sorted[j].Maturity) })

	terms := cfg.Terms()
	opts := cfg.SolverOptions()
	fits := make([]Fit, 0, len(sorted))

	for _, q := range sorted {
		if !q.HasCoupon {
			return nil, fmt.Errorf("Refine %s: quote has no coupon", q)
		}
		cfs, err := bond.Schedule(q, b.ValuationDate(), terms)
		if err != nil {
			return nil, fmt.Errorf("Refine %s: %w", q, err)
		}

		var fixed *curve.Curve
		if b.Len() > 0 {
			if fixed, err = b.Snapshot(); err != nil {
				return nil, fmt.Errorf("Refine %s: %w", q, err)
			}
		}

		res, err := solver.ImpliedRate(q.CleanPrice, couponObjective(b, fixed, cfg, q, cfs), opts)
		if err != nil {
			return nil, fmt.Errorf("Refine %s: %w", q, err)
		}
		if err := b.Set(curve.Knot{Date: q.Maturity, ZeroRate: res.Rate}); err != nil {
			return nil, fmt.Errorf("Refine %s: %w", q, err)
		}

		fits = append(fits, Fit{
			Quote:      q,
			ZeroRate:   res.Rate,
			ModelPrice: res.Price,
			Residual:   res.Residual,
			Iterations: res.Iterations,
		})
		log.WithFields(logger.Fields{
			"instrument": q.InstrumentType,
			"maturity":   q.Maturity.Format("2006-01-02"),
			"zero_rate":  res.Rate,
			"cashflows":  len(cfs),
			"iterations": res.Iterations,
		}).Debug("coupon knot solved")
	}
	log.WithField("coupons", len(fits)).Info("curve refinement complete")
	return fits, nil
}

// couponObjective prices cfs on fixed with the maturity knot set to the trial
// rate. fixed is nil when no knot has been written yet.
func couponObjective(b *curve.Builder, fixed *curve.Curve, cfg config.Config, q bond.Quote, cfs []bond.Cashflow) solver.PriceFunc {
	return func(rate float64) (float64, error) {
		k := curve.Knot{Date: q.Maturity, ZeroRate: rate}

		var (
			trial *curve.Curve
			err   error
		)
		if fixed == nil {
			trial, err = curve.New(b.ValuationDate(), cfg.Calendar, cfg.DayCountBase, []curve.Knot{k})
		} else {
			trial, err = fixed.With(k)
		}
		if err != nil {
			return 0, err
		}
		return bond.PresentValue(cfs, trial)
	}
}
