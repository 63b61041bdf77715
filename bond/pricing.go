package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/utils"
)

// Discounter supplies discount factors from a fixed valuation date.
type Discounter interface {
	DiscountFactor(t time.Time) (float64, error)
}

// PresentValue sums the discounted amounts of cfs.
func PresentValue(cfs []Cashflow, d Discounter) (float64, error) {
	pv := 0.0
	for _, cf := range cfs {
		df, err := d.DiscountFactor(cf.Date)
		if err != nil {
			return 0, fmt.Errorf("PresentValue: %w", err)
		}
		pv += cf.Amount() * df
	}
	return pv, nil
}

// FlatRate discounts every date at one annual rate with exponential
// compounding over business days:
//
//	DF(t) = (1 + Rate)^(-days(Valuation, t) / Base)
type FlatRate struct {
	Valuation time.Time
	Rate      float64
	Calendar  calendar.CalendarID
	Base      float64
}

func (f FlatRate) DiscountFactor(t time.Time) (float64, error) {
	yf, err := utils.BusinessYearFraction(f.Calendar, f.Valuation, t, f.Base)
	if err != nil {
		return 0, err
	}
	return math.Pow(1+f.Rate, -yf), nil
}
