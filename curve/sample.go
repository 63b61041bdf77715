package curve

import (
	"fmt"
	"sort"
	"time"

	"github.com/meenmo/brcurve/calendar"
)

// DailyRate is one business day of the sampled curve.
type DailyRate struct {
	Date     time.Time
	ZeroRate float64
}

// DailySeries is a date-ordered projection of a curve on business days.
type DailySeries []DailyRate

// At looks up the rate sampled on d.
func (s DailySeries) At(d time.Time) (float64, bool) {
	d = dateOnly(d)
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(d) })
	if i < len(s) && s[i].Date.Equal(d) {
		return s[i].ZeroRate, true
	}
	return 0, false
}

// Sample evaluates the zero rate on every business day from the first knot
// (moved to the following business day if needed) through the last knot.
func Sample(c *Curve) (DailySeries, error) {
	start := calendar.AdjustFollowing(c.cal, c.Start())
	end := c.End()

	var out DailySeries
	for d := start; !d.After(end); d = calendar.AddBusinessDays(c.cal, d, 1) {
		z, err := c.ZeroRate(d)
		if err != nil {
			return nil, fmt.Errorf("Sample: %w", err)
		}
		out = append(out, DailyRate{Date: d, ZeroRate: z})
	}
	return out, nil
}
