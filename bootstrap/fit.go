package bootstrap

import "github.com/meenmo/brcurve/bond"

// Fit records how one quote was turned into a curve knot.
type Fit struct {
	Quote      bond.Quote
	ZeroRate   float64 // knot rate at Quote.Maturity
	ModelPrice float64
	Residual   float64 // |ModelPrice - Quote.CleanPrice|
	Iterations int
}

// SplitQuotes separates bullet (zero-coupon) quotes from coupon-bearing ones,
// preserving input order within each group.
func SplitQuotes(quotes []bond.Quote) (bullets, coupons []bond.Quote) {
	for _, q := range quotes {
		if q.HasCoupon {
			coupons = append(coupons, q)
		} else {
			bullets = append(bullets, q)
		}
	}
	return bullets, coupons
}
