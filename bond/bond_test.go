package bond_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/solver"
	"github.com/meenmo/brcurve/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCouponSchedule_NTNF(t *testing.T) {
	t.Parallel()

	valuation := date(2024, 5, 10)
	cfs, err := bond.CouponSchedule(valuation, date(2027, 1, 1), bond.DefaultTerms)
	if err != nil {
		t.Fatalf("CouponSchedule error: %v", err)
	}

	wantDates := []time.Time{
		date(2024, 7, 1), date(2025, 1, 1), date(2025, 7, 1),
		date(2026, 1, 1), date(2026, 7, 1), date(2027, 1, 1),
	}
	if len(cfs) != len(wantDates) {
		t.Fatalf("expected %d cashflows, got %d", len(wantDates), len(cfs))
	}
	wantCoupon := 1000 * (math.Sqrt(1.10) - 1)
	for i, cf := range cfs {
		if !cf.Date.Equal(wantDates[i]) {
			t.Fatalf("cashflow %d date mismatch: got %s want %s", i, cf.Date.Format(utils.DateLayout), wantDates[i].Format(utils.DateLayout))
		}
		if math.Abs(cf.Coupon-wantCoupon) > 1e-12 {
			t.Fatalf("cashflow %d coupon mismatch: got %.12f want %.12f", i, cf.Coupon, wantCoupon)
		}
	}
	for _, cf := range cfs[:len(cfs)-1] {
		if cf.Principal != 0 {
			t.Fatalf("unexpected principal before maturity on %s", cf.Date.Format(utils.DateLayout))
		}
	}
	last := cfs[len(cfs)-1]
	if math.Abs(last.Amount()-(1000+wantCoupon)) > 1e-9 {
		t.Fatalf("final amount mismatch: got %.9f", last.Amount())
	}
}

func TestCouponSchedule_ValuationOnCouponDate(t *testing.T) {
	t.Parallel()

	cfs, err := bond.CouponSchedule(date(2025, 7, 1), date(2026, 7, 1), bond.DefaultTerms)
	if err != nil {
		t.Fatalf("CouponSchedule error: %v", err)
	}
	if len(cfs) != 2 || !cfs[0].Date.Equal(date(2026, 1, 1)) {
		t.Fatalf("coupon on the valuation date must be excluded, got %+v", cfs)
	}
}

func TestCouponSchedule_RejectsDay10(t *testing.T) {
	t.Parallel()

	_, err := bond.CouponSchedule(date(2024, 5, 10), date(2029, 1, 10), bond.DefaultTerms)
	if !errors.Is(err, bond.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}

	terms := bond.DefaultTerms
	terms.CouponDays = []int{10}
	if _, err := bond.CouponSchedule(date(2024, 5, 10), date(2029, 1, 10), terms); err != nil {
		t.Fatalf("configured coupon day should be accepted: %v", err)
	}
}

func TestSchedule_Bullet(t *testing.T) {
	t.Parallel()

	q := bond.Quote{InstrumentType: "LTN", Maturity: date(2026, 4, 1), CleanPrice: 800}
	cfs, err := bond.Schedule(q, date(2024, 5, 10), bond.DefaultTerms)
	if err != nil {
		t.Fatalf("Schedule error: %v", err)
	}
	if len(cfs) != 1 || cfs[0].Principal != 1000 || cfs[0].Coupon != 0 || !cfs[0].Date.Equal(q.Maturity) {
		t.Fatalf("unexpected bullet schedule: %+v", cfs)
	}

	_, err = bond.Schedule(q, date(2026, 4, 1), bond.DefaultTerms)
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for matured bond, got %v", err)
	}
	_, err = bond.Schedule(bond.Quote{InstrumentType: "LTN", CleanPrice: 800}, date(2024, 5, 10), bond.DefaultTerms)
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for missing maturity, got %v", err)
	}
}

func TestImpliedYield_ClosedFormBullet(t *testing.T) {
	t.Parallel()

	valuation := date(2024, 1, 2)
	maturity := calendar.AddBusinessDays(calendar.BRA, valuation, 252)

	res, err := bond.ImpliedYield(bond.YieldInput{
		Quote:         bond.Quote{InstrumentType: "LTN", Maturity: maturity, CleanPrice: 950},
		ValuationDate: valuation,
		Calendar:      calendar.BRA,
		DayCountBase:  utils.DefaultBusinessDayBase,
		Terms:         bond.DefaultTerms,
		Solver:        solver.DefaultOptions,
	})
	if err != nil {
		t.Fatalf("ImpliedYield error: %v", err)
	}
	want := 1000.0/950.0 - 1
	if math.Abs(res.Yield-want) > 1e-9 {
		t.Fatalf("yield mismatch: got %.12f want %.12f", res.Yield, want)
	}
}

func TestImpliedYield_CouponRoundTrip(t *testing.T) {
	t.Parallel()

	valuation := date(2024, 5, 10)
	q := bond.Quote{InstrumentType: "NTN-F", Maturity: date(2031, 1, 1), HasCoupon: true}
	cfs, err := bond.Schedule(q, valuation, bond.DefaultTerms)
	if err != nil {
		t.Fatalf("Schedule error: %v", err)
	}
	pv, err := bond.PresentValue(cfs, bond.FlatRate{Valuation: valuation, Rate: 0.1175, Calendar: calendar.BRA, Base: 252})
	if err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}
	q.CleanPrice = pv

	res, err := bond.ImpliedYield(bond.YieldInput{
		Quote:         q,
		ValuationDate: valuation,
		Calendar:      calendar.BRA,
		DayCountBase:  252,
		Terms:         bond.DefaultTerms,
		Solver:        solver.DefaultOptions,
	})
	if err != nil {
		t.Fatalf("ImpliedYield error: %v", err)
	}
	if math.Abs(res.Yield-0.1175) > 1e-9 {
		t.Fatalf("yield mismatch: got %.12f want 0.1175", res.Yield)
	}
	if len(res.Cashflows) != len(cfs) {
		t.Fatalf("cashflow count mismatch: got %d want %d", len(res.Cashflows), len(cfs))
	}
}

func TestImpliedYield_PriceAboveFaceFails(t *testing.T) {
	t.Parallel()

	valuation := date(2024, 5, 10)
	_, err := bond.ImpliedYield(bond.YieldInput{
		Quote:         bond.Quote{InstrumentType: "LTN", Maturity: date(2025, 1, 1), CleanPrice: 1001},
		ValuationDate: valuation,
		Calendar:      calendar.BRA,
		DayCountBase:  252,
		Terms:         bond.DefaultTerms,
		Solver:        solver.DefaultOptions,
	})
	if !errors.Is(err, solver.ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
}
