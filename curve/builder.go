package curve

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/brcurve/calendar"
)

// ErrFinalized is returned when a finalized Builder is written to.
var ErrFinalized = errors.New("curve builder already finalized")

// Builder accumulates knots while a curve is being bootstrapped. It is owned
// by a single bootstrap run and is not safe for concurrent use.
type Builder struct {
	valuation time.Time
	cal       calendar.CalendarID
	base      float64
	knots     map[time.Time]float64
	finalized bool
}

// NewBuilder starts an empty accumulator anchored at valuation.
func NewBuilder(valuation time.Time, cal calendar.CalendarID, base float64) *Builder {
	return &Builder{
		valuation: dateOnly(valuation),
		cal:       cal,
		base:      base,
		knots:     make(map[time.Time]float64),
	}
}

// Set writes a knot, overwriting any knot on the same date.
func (b *Builder) Set(k Knot) error {
	if b.finalized {
		return ErrFinalized
	}
	if k.Date.IsZero() {
		return fmt.Errorf("Builder.Set: %w: zero date", calendar.ErrInvalidDate)
	}
	b.knots[dateOnly(k.Date)] = k.ZeroRate
	return nil
}

// Len returns the number of distinct knot dates.
func (b *Builder) Len() int {
	return len(b.knots)
}

// ValuationDate returns the anchor date.
func (b *Builder) ValuationDate() time.Time {
	return b.valuation
}

// Snapshot returns an immutable curve of the knots written so far.
func (b *Builder) Snapshot() (*Curve, error) {
	knots := make([]Knot, 0, len(b.knots))
	for d, r := range b.knots {
		knots = append(knots, Knot{Date: d, ZeroRate: r})
	}
	return New(b.valuation, b.cal, b.base, knots)
}

// Finalize returns the finished curve and seals the builder.
func (b *Builder) Finalize() (*Curve, error) {
	c, err := b.Snapshot()
	if err != nil {
		return nil, err
	}
	b.finalized = true
	return c, nil
}
