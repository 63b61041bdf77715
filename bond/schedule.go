package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/utils"
)

// ErrInvalidSchedule is returned when a coupon schedule cannot be generated
// under the configured conventions.
var ErrInvalidSchedule = errors.New("invalid coupon schedule")

// PeriodCoupon is the coupon paid each period per bond.
func (t Terms) PeriodCoupon() float64 {
	return t.FaceValue * (math.Pow(1+t.CouponRate, 1/float64(t.CouponFrequency)) - 1)
}

// Schedule builds the cash flows of q that are paid after valuation.
func Schedule(q Quote, valuation time.Time, terms Terms) ([]Cashflow, error) {
	if q.HasCoupon {
		return CouponSchedule(valuation, q.Maturity, terms)
	}
	if valuation.IsZero() || q.Maturity.IsZero() {
		return nil, fmt.Errorf("Schedule %s: %w: zero date", q, calendar.ErrInvalidDate)
	}
	if !q.Maturity.After(valuation) {
		return nil, fmt.Errorf("Schedule %s: %w: maturity not after valuation %s",
			q, calendar.ErrInvalidDate, valuation.Format("2006-01-02"))
	}
	return BulletSchedule(q.Maturity, terms.FaceValue), nil
}

// BulletSchedule is the single redemption of a zero-coupon bond.
func BulletSchedule(maturity time.Time, face float64) []Cashflow {
	return []Cashflow{{Date: maturity, Principal: face}}
}

// CouponSchedule generates coupon dates backward from maturity in steps of
// 12/CouponFrequency months while they fall after valuation, then returns
// them in chronological order. The last flow also redeems the face value.
func CouponSchedule(valuation, maturity time.Time, terms Terms) ([]Cashflow, error) {
	if valuation.IsZero() || maturity.IsZero() {
		return nil, fmt.Errorf("CouponSchedule: %w: zero date", calendar.ErrInvalidDate)
	}
	if !maturity.After(valuation) {
		return nil, fmt.Errorf("CouponSchedule: %w: maturity %s not after valuation %s",
			calendar.ErrInvalidDate, maturity.Format("2006-01-02"), valuation.Format("2006-01-02"))
	}
	if terms.CouponFrequency <= 0 || 12%terms.CouponFrequency != 0 {
		return nil, fmt.Errorf("CouponSchedule: %w: unsupported frequency %d", ErrInvalidSchedule, terms.CouponFrequency)
	}
	if !validCouponDay(maturity.Day(), terms.CouponDays) {
		return nil, fmt.Errorf("CouponSchedule: %w: maturity %s day %d not in %v",
			ErrInvalidSchedule, maturity.Format("2006-01-02"), maturity.Day(), terms.CouponDays)
	}

	months := 12 / terms.CouponFrequency
	var dates []time.Time
	for d := maturity; d.After(valuation); d = utils.AddMonth(d, -months) {
		dates = append(dates, d)
	}

	coupon := terms.PeriodCoupon()
	cfs := make([]Cashflow, len(dates))
	for i, d := range dates {
		cfs[len(dates)-1-i] = Cashflow{Date: d, Coupon: coupon}
	}
	cfs[len(cfs)-1].Principal = terms.FaceValue
	return cfs, nil
}

func validCouponDay(day int, allowed []int) bool {
	for _, d := range allowed {
		if d == day {
			return true
		}
	}
	return false
}
