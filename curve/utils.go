package curve

import (
	"sort"
	"time"
)

// searchDate returns the index of the first knot dated on or after target,
// or len(knots) if every knot is before it.
func searchDate(knots []Knot, target time.Time) int {
	return sort.Search(len(knots), func(i int) bool {
		return !knots[i].Date.Before(target)
	})
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
