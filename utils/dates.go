package utils

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/meenmo/brcurve/calendar"
)

// DateLayout is the only date format accepted on input and produced on output.
const DateLayout = "2006-01-02"

// SortDates sorts a slice of time.Time in ascending order.
func SortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}

// ParseDate converts YYYY-MM-DD to a UTC midnight time.Time.
func ParseDate(strDate string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(strDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate %q: %w", strDate, calendar.ErrInvalidDate)
	}
	return t, nil
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization surprises.
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := d.Month()
	for d.Month() == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// RoundTo rounds a float to the specified decimal places.
func RoundTo(val float64, decimals uint32) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
