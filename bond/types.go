package bond

import (
	"fmt"
	"time"
)

// Quote is a normalized government bond quote.
//
// CleanPrice is the observed price for one bond of Terms.FaceValue (1000 by
// default), not a percentage of par.
type Quote struct {
	InstrumentType string // e.g. LTN, NTN-F
	Maturity       time.Time
	CleanPrice     float64
	HasCoupon      bool
}

func (q Quote) String() string {
	return fmt.Sprintf("%s %s", q.InstrumentType, q.Maturity.Format("2006-01-02"))
}

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in currency units for one bond of face value Terms.FaceValue.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Terms are the market conventions used to generate cash-flow schedules.
type Terms struct {
	// FaceValue is the redemption amount paid at maturity.
	FaceValue float64
	// CouponRate is the annual coupon rate, compounded CouponFrequency times a year
	// (0.10 pays (1.10)^0.5 - 1 per semester).
	CouponRate float64
	// CouponFrequency is coupons per year; 12 must be a multiple of it.
	CouponFrequency int
	// CouponDays lists the admissible day-of-month for coupon bond maturities.
	CouponDays []int
}

// DefaultTerms are the NTN-F conventions.
var DefaultTerms = Terms{
	FaceValue:       1000,
	CouponRate:      0.10,
	CouponFrequency: 2,
	CouponDays:      []int{1, 15},
}
