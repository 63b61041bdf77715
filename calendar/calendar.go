package calendar

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// BRA is the ANBIMA national settlement calendar.
	BRA CalendarID = "BRA"
	// WEEKENDS has no holidays besides Saturdays and Sundays.
	WEEKENDS CalendarID = "WEEKENDS"
)

// ErrInvalidDate is returned when a date argument is missing or inconsistent.
var ErrInvalidDate = errors.New("invalid date")

type holidaySet struct {
	keys map[string]struct{}
	// weekdays holds the holidays falling Monday-Friday, sorted, for range counting.
	weekdays []time.Time
}

var (
	mu        sync.RWMutex
	calendars = map[CalendarID]*holidaySet{}
)

func init() {
	if err := Register(BRA, brazilHolidayList(2001, 2099)); err != nil {
		panic(err)
	}
	if err := Register(WEEKENDS, nil); err != nil {
		panic(err)
	}
}

// Register installs or replaces a calendar built from YYYY-MM-DD holiday strings.
func Register(cal CalendarID, holidays []string) error {
	if cal == "" {
		return fmt.Errorf("Register: empty calendar id")
	}
	set := &holidaySet{keys: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		t, err := time.Parse("2006-01-02", h)
		if err != nil {
			return fmt.Errorf("Register %s: holiday %q: %w", cal, h, ErrInvalidDate)
		}
		key := t.Format("2006-01-02")
		if _, dup := set.keys[key]; dup {
			continue
		}
		set.keys[key] = struct{}{}
		if !isWeekend(t) {
			set.weekdays = append(set.weekdays, t)
		}
	}
	sort.Slice(set.weekdays, func(i, j int) bool {
		return set.weekdays[i].Before(set.weekdays[j])
	})

	mu.Lock()
	calendars[cal] = set
	mu.Unlock()
	return nil
}

// Known reports whether cal has been registered.
func Known(cal CalendarID) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := calendars[cal]
	return ok
}

func lookup(cal CalendarID) *holidaySet {
	mu.RLock()
	defer mu.RUnlock()
	return calendars[cal]
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func isHoliday(cal CalendarID, t time.Time) bool {
	set := lookup(cal)
	if set == nil {
		return false
	}
	_, ok := set.keys[t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if isWeekend(t) {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// BusinessDaysBetween counts the business days d with start <= d < end.
//
// The count is negative when end is before start, so swapping the arguments
// flips the sign. Both dates are truncated to their calendar day.
func BusinessDaysBetween(cal CalendarID, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("BusinessDaysBetween: %w: zero date", ErrInvalidDate)
	}
	s, e := dateOnly(start), dateOnly(end)
	sign := 1
	if e.Before(s) {
		s, e = e, s
		sign = -1
	}

	n := weekdaysBetween(s, e)
	if set := lookup(cal); set != nil {
		lo := sort.Search(len(set.weekdays), func(i int) bool { return !set.weekdays[i].Before(s) })
		hi := sort.Search(len(set.weekdays), func(i int) bool { return !set.weekdays[i].Before(e) })
		n -= hi - lo
	}
	return sign * n, nil
}

// weekdaysBetween counts Monday-Friday dates in [s, e); s must not be after e.
func weekdaysBetween(s, e time.Time) int {
	days := int(e.Sub(s).Hours()/24 + 0.5)
	n := (days / 7) * 5
	d := s.AddDate(0, 0, (days/7)*7)
	for i := 0; i < days%7; i++ {
		if !isWeekend(d) {
			n++
		}
		d = d.AddDate(0, 0, 1)
	}
	return n
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
