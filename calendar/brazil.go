package calendar

import "time"

// brazilHolidayList returns the ANBIMA national holidays for the years [from, to].
func brazilHolidayList(from, to int) []string {
	out := make([]string, 0, (to-from+1)*13)
	for y := from; y <= to; y++ {
		easter := easterSunday(y)
		days := []time.Time{
			ymd(y, time.January, 1),
			easter.AddDate(0, 0, -48), // carnival monday
			easter.AddDate(0, 0, -47), // carnival tuesday
			easter.AddDate(0, 0, -2),  // good friday
			ymd(y, time.April, 21),
			ymd(y, time.May, 1),
			easter.AddDate(0, 0, 60), // corpus christi
			ymd(y, time.September, 7),
			ymd(y, time.October, 12),
			ymd(y, time.November, 2),
			ymd(y, time.November, 15),
			ymd(y, time.December, 25),
		}
		if y >= 2024 {
			days = append(days, ymd(y, time.November, 20))
		}
		for _, d := range days {
			out = append(out, d.Format("2006-01-02"))
		}
	}
	return out
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return ymd(y, time.Month(month), day)
}

func ymd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
