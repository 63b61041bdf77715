package bootstrap

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/config"
	"github.com/meenmo/brcurve/curve"
	"github.com/meenmo/brcurve/logger"
)

// BootstrapZeroCoupon solves the zero rate at each bullet maturity and writes
// it into b.
//
// Bullets are independent, so they are solved concurrently (at most
// cfg.Workers at a time). Knots are written only after every solve succeeded
// and in input order, so when two bullets share a maturity the later one wins.
// On error b is left untouched.
func BootstrapZeroCoupon(b *curve.Builder, bullets []bond.Quote, cfg config.Config) ([]Fit, error) {
	log := logger.GetLogger().WithComponent("bootstrap.zero")

	fits := make([]Fit, len(bullets))
	errs := make([]error, len(bullets))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, q := range bullets {
		i, q := i, q
		g.Go(func() error {
			if q.HasCoupon {
				errs[i] = fmt.Errorf("BootstrapZeroCoupon %s: coupon-bearing quote", q)
				return nil
			}
			res, err := bond.ImpliedYield(bond.YieldInput{
				Quote:         q,
				ValuationDate: b.ValuationDate(),
				Calendar:      cfg.Calendar,
				DayCountBase:  cfg.DayCountBase,
				Terms:         cfg.Terms(),
				Solver:        cfg.SolverOptions(),
			})
			if err != nil {
				errs[i] = fmt.Errorf("BootstrapZeroCoupon: %w", err)
				return nil
			}
			fits[i] = Fit{
				Quote:      q,
				ZeroRate:   res.Yield,
				ModelPrice: res.ModelPrice,
				Residual:   res.Residual,
				Iterations: res.Iterations,
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for _, f := range fits {
		if err := b.Set(curve.Knot{Date: f.Quote.Maturity, ZeroRate: f.ZeroRate}); err != nil {
			return nil, fmt.Errorf("BootstrapZeroCoupon %s: %w", f.Quote, err)
		}
		log.WithFields(logger.Fields{
			"instrument": f.Quote.InstrumentType,
			"maturity":   f.Quote.Maturity.Format("2006-01-02"),
			"zero_rate":  f.ZeroRate,
			"iterations": f.Iterations,
		}).Debug("bullet knot solved")
	}
	log.WithField("bullets", len(fits)).Info("zero-coupon bootstrap complete")
	return fits, nil
}
