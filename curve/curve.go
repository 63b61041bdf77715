package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/utils"
)

// ErrOutOfRange is returned for dates before the valuation date or after the
// last knot. The curve never extrapolates.
var ErrOutOfRange = errors.New("date outside curve range")

// Knot is a point of the zero curve.
//
// ZeroRate is an annual decimal rate under exponential compounding over
// business days: DF = (1 + ZeroRate)^(-days/base).
type Knot struct {
	Date     time.Time
	ZeroRate float64
}

// Curve is an immutable zero-coupon curve anchored at the valuation date.
//
// Between the anchor and the knots, ln DF is linear in business-day time
// (flat instantaneous forward), so discount factors are continuous and
// compose multiplicatively.
type Curve struct {
	valuation time.Time
	cal       calendar.CalendarID
	base      float64
	knots     []Knot    // ascending, unique dates
	times     []float64 // business-day year fraction of each knot
	logDFs    []float64 // ln DF of each knot
}

// New builds a curve from knots. Knots may come in any order; when two share a
// date the later one in the slice wins.
func New(valuation time.Time, cal calendar.CalendarID, base float64, knots []Knot) (*Curve, error) {
	if valuation.IsZero() {
		return nil, fmt.Errorf("curve.New: %w: valuation date is required", calendar.ErrInvalidDate)
	}
	if base <= 0 {
		return nil, fmt.Errorf("curve.New: day count base must be positive, got %v", base)
	}
	if len(knots) == 0 {
		return nil, fmt.Errorf("curve.New: no knots")
	}

	sorted := make([]Knot, len(knots))
	for i, k := range knots {
		if k.Date.IsZero() {
			return nil, fmt.Errorf("curve.New: %w: knot %d has no date", calendar.ErrInvalidDate, i)
		}
		if math.IsNaN(k.ZeroRate) || math.IsInf(k.ZeroRate, 0) || k.ZeroRate <= -1 {
			return nil, fmt.Errorf("curve.New: knot %s has invalid rate %v", k.Date.Format(utils.DateLayout), k.ZeroRate)
		}
		sorted[i] = Knot{Date: dateOnly(k.Date), ZeroRate: k.ZeroRate}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	unique := sorted[:0]
	for _, k := range sorted {
		if n := len(unique); n > 0 && unique[n-1].Date.Equal(k.Date) {
			unique[n-1] = k
			continue
		}
		unique = append(unique, k)
	}

	c := &Curve{
		valuation: dateOnly(valuation),
		cal:       cal,
		base:      base,
		knots:     unique,
		times:     make([]float64, len(unique)),
		logDFs:    make([]float64, len(unique)),
	}
	for i, k := range unique {
		t, err := utils.BusinessYearFraction(cal, c.valuation, k.Date, base)
		if err != nil {
			return nil, fmt.Errorf("curve.New: %w", err)
		}
		if t <= 0 {
			return nil, fmt.Errorf("curve.New: %w: knot %s is not after valuation %s",
				calendar.ErrInvalidDate, k.Date.Format(utils.DateLayout), c.valuation.Format(utils.DateLayout))
		}
		c.times[i] = t
		c.logDFs[i] = -t * math.Log1p(k.ZeroRate)
	}
	return c, nil
}

// With returns a copy of c with k inserted, replacing any knot on the same date.
func (c *Curve) With(k Knot) (*Curve, error) {
	knots := make([]Knot, len(c.knots), len(c.knots)+1)
	copy(knots, c.knots)
	return New(c.valuation, c.cal, c.base, append(knots, k))
}

// DiscountFactor returns DF(t); DF(valuation) is exactly 1.
func (c *Curve) DiscountFactor(t time.Time) (float64, error) {
	if t.IsZero() {
		return 0, fmt.Errorf("DiscountFactor: %w: zero date", calendar.ErrInvalidDate)
	}
	d := dateOnly(t)
	if d.Equal(c.valuation) {
		return 1.0, nil
	}
	lnDF, _, err := c.logDF(d)
	if err != nil {
		return 0, fmt.Errorf("DiscountFactor: %w", err)
	}
	return math.Exp(lnDF), nil
}

// ZeroRate returns the annual zero rate at t. At a knot date it is exactly the
// knot's rate; at the valuation date it is the short end (first knot) rate.
func (c *Curve) ZeroRate(t time.Time) (float64, error) {
	if t.IsZero() {
		return 0, fmt.Errorf("ZeroRate: %w: zero date", calendar.ErrInvalidDate)
	}
	d := dateOnly(t)
	if i, ok := c.knotIndex(d); ok {
		return c.knots[i].ZeroRate, nil
	}
	if d.Equal(c.valuation) {
		return c.knots[0].ZeroRate, nil
	}
	lnDF, yf, err := c.logDF(d)
	if err != nil {
		return 0, fmt.Errorf("ZeroRate: %w", err)
	}
	if yf == 0 {
		return c.knots[0].ZeroRate, nil
	}
	return math.Expm1(-lnDF / yf), nil
}

// logDF interpolates ln DF linearly in business-day time and also returns the
// year fraction of d.
func (c *Curve) logDF(d time.Time) (float64, float64, error) {
	last := c.knots[len(c.knots)-1].Date
	if d.Before(c.valuation) || d.After(last) {
		return 0, 0, fmt.Errorf("%w: %s not in [%s, %s]", ErrOutOfRange,
			d.Format(utils.DateLayout), c.valuation.Format(utils.DateLayout), last.Format(utils.DateLayout))
	}

	idx := searchDate(c.knots, d)
	if c.knots[idx].Date.Equal(d) {
		return c.logDFs[idx], c.times[idx], nil
	}

	t, err := utils.BusinessYearFraction(c.cal, c.valuation, d, c.base)
	if err != nil {
		return 0, 0, err
	}

	// The valuation date is an implicit knot with ln DF = 0.
	t1, l1 := 0.0, 0.0
	if idx > 0 {
		t1, l1 = c.times[idx-1], c.logDFs[idx-1]
	}
	t2, l2 := c.times[idx], c.logDFs[idx]
	if t2 == t1 {
		return l1, t, nil
	}
	return l1 + (l2-l1)*(t-t1)/(t2-t1), t, nil
}

func (c *Curve) knotIndex(d time.Time) (int, bool) {
	idx := searchDate(c.knots, d)
	if idx < len(c.knots) && c.knots[idx].Date.Equal(d) {
		return idx, true
	}
	return 0, false
}

// ValuationDate returns the curve's anchor date.
func (c *Curve) ValuationDate() time.Time {
	return c.valuation
}

// Calendar returns the business-day calendar of the time axis.
func (c *Curve) Calendar() calendar.CalendarID {
	return c.cal
}

// Start returns the first knot date.
func (c *Curve) Start() time.Time {
	return c.knots[0].Date
}

// End returns the last knot date; queries after it fail with ErrOutOfRange.
func (c *Curve) End() time.Time {
	return c.knots[len(c.knots)-1].Date
}

// Knots returns a copy of the curve's knots in ascending date order.
func (c *Curve) Knots() []Knot {
	out := make([]Knot, len(c.knots))
	copy(out, c.knots)
	return out
}

// Len returns the number of knots.
func (c *Curve) Len() int {
	return len(c.knots)
}
