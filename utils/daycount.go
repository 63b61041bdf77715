package utils

import (
	"fmt"
	"time"

	"github.com/meenmo/brcurve/calendar"
)

// DefaultBusinessDayBase is the number of business days in a Brazilian market year.
const DefaultBusinessDayBase = 252.0

// BusinessYearFraction computes the BUS/base year fraction between two dates:
// business days in [start, end) divided by base. It is signed like
// calendar.BusinessDaysBetween.
func BusinessYearFraction(cal calendar.CalendarID, start, end time.Time, base float64) (float64, error) {
	if base <= 0 {
		return 0, fmt.Errorf("BusinessYearFraction: base must be positive, got %v", base)
	}
	days, err := calendar.BusinessDaysBetween(cal, start, end)
	if err != nil {
		return 0, fmt.Errorf("BusinessYearFraction: %w", err)
	}
	return float64(days) / base, nil
}
