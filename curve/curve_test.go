package curve_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/curve"
)

var valuation = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func bd(n int) time.Time {
	return calendar.AddBusinessDays(calendar.BRA, valuation, n)
}

func mustCurve(t *testing.T, knots ...curve.Knot) *curve.Curve {
	t.Helper()
	c, err := curve.New(valuation, calendar.BRA, 252, knots)
	if err != nil {
		t.Fatalf("curve.New error: %v", err)
	}
	return c
}

func TestDiscountFactor_ValuationIsOne(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(126), ZeroRate: 0.05}, curve.Knot{Date: bd(378), ZeroRate: 0.06})
	df, err := c.DiscountFactor(valuation)
	if err != nil {
		t.Fatalf("DiscountFactor error: %v", err)
	}
	if df != 1.0 {
		t.Fatalf("DF(valuation) mismatch: got %.17f want 1", df)
	}
}

func TestZeroRate_KnotRoundTrip(t *testing.T) {
	t.Parallel()

	knots := []curve.Knot{
		{Date: bd(21), ZeroRate: 0.1043},
		{Date: bd(126), ZeroRate: 0.1012},
		{Date: bd(252), ZeroRate: 0.0987},
		{Date: bd(800), ZeroRate: 0.1101},
		{Date: bd(1500), ZeroRate: 0.1156},
	}
	c := mustCurve(t, knots...)
	for _, k := range knots {
		z, err := c.ZeroRate(k.Date)
		if err != nil {
			t.Fatalf("ZeroRate error: %v", err)
		}
		if z != k.ZeroRate {
			t.Fatalf("knot %s: got %.17f want %.17f", k.Date.Format("2006-01-02"), z, k.ZeroRate)
		}

		df, err := c.DiscountFactor(k.Date)
		if err != nil {
			t.Fatalf("DiscountFactor error: %v", err)
		}
		days, _ := calendar.BusinessDaysBetween(calendar.BRA, valuation, k.Date)
		want := math.Pow(1+k.ZeroRate, -float64(days)/252)
		if math.Abs(df-want) > 1e-14 {
			t.Fatalf("DF at knot %s: got %.15f want %.15f", k.Date.Format("2006-01-02"), df, want)
		}
	}
}

func TestZeroRate_FlatForwardBetweenKnots(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(126), ZeroRate: 0.05}, curve.Knot{Date: bd(378), ZeroRate: 0.06})
	z, err := c.ZeroRate(bd(252))
	if err != nil {
		t.Fatalf("ZeroRate error: %v", err)
	}
	if !(z > 0.05 && z < 0.06) {
		t.Fatalf("interpolated rate %.10f not strictly between 5%% and 6%%", z)
	}

	// ln DF is linear in business-day time: the 126->378 forward is constant.
	df126, _ := c.DiscountFactor(bd(126))
	df252, _ := c.DiscountFactor(bd(252))
	df378, _ := c.DiscountFactor(bd(378))
	f1 := math.Log(df126/df252) / 0.5
	f2 := math.Log(df252/df378) / 0.5
	if math.Abs(f1-f2) > 1e-12 {
		t.Fatalf("forward not flat: %.14f vs %.14f", f1, f2)
	}
}

func TestZeroRate_ShortEndIsFlat(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(252), ZeroRate: 0.10})
	for _, n := range []int{1, 50, 251} {
		z, err := c.ZeroRate(bd(n))
		if err != nil {
			t.Fatalf("ZeroRate error: %v", err)
		}
		if math.Abs(z-0.10) > 1e-13 {
			t.Fatalf("day %d: got %.15f want 0.10", n, z)
		}
	}
	z, err := c.ZeroRate(valuation)
	if err != nil {
		t.Fatalf("ZeroRate(valuation) error: %v", err)
	}
	if z != 0.10 {
		t.Fatalf("ZeroRate(valuation) mismatch: got %.15f", z)
	}
}

func TestOutOfRange(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(126), ZeroRate: 0.05}, curve.Knot{Date: bd(378), ZeroRate: 0.06})
	if _, err := c.ZeroRate(bd(379)); !errors.Is(err, curve.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange after last knot, got %v", err)
	}
	if _, err := c.DiscountFactor(valuation.AddDate(0, 0, -1)); !errors.Is(err, curve.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange before valuation, got %v", err)
	}
	if _, err := c.DiscountFactor(time.Time{}); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for zero date, got %v", err)
	}
}

func TestNew_DuplicateDateLaterWins(t *testing.T) {
	t.Parallel()

	c := mustCurve(t,
		curve.Knot{Date: bd(126), ZeroRate: 0.05},
		curve.Knot{Date: bd(252), ZeroRate: 0.07},
		curve.Knot{Date: bd(126), ZeroRate: 0.055},
	)
	if c.Len() != 2 {
		t.Fatalf("expected 2 knots, got %d", c.Len())
	}
	z, _ := c.ZeroRate(bd(126))
	if z != 0.055 {
		t.Fatalf("later duplicate should win: got %.6f", z)
	}
}

func TestNew_RejectsKnotOnValuation(t *testing.T) {
	t.Parallel()

	_, err := curve.New(valuation, calendar.BRA, 252, []curve.Knot{{Date: valuation, ZeroRate: 0.1}})
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := curve.New(valuation, calendar.BRA, 252, nil); err == nil {
		t.Fatalf("expected error for empty curve")
	}
}

func TestWith_DoesNotMutate(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(126), ZeroRate: 0.05})
	c2, err := c.With(curve.Knot{Date: bd(378), ZeroRate: 0.06})
	if err != nil {
		t.Fatalf("With error: %v", err)
	}
	if c.Len() != 1 || c2.Len() != 2 {
		t.Fatalf("knot counts: original %d, copy %d", c.Len(), c2.Len())
	}
	if !c2.End().Equal(bd(378)) {
		t.Fatalf("End mismatch: got %s", c2.End().Format("2006-01-02"))
	}
}

func TestBuilder_Finalize(t *testing.T) {
	t.Parallel()

	b := curve.NewBuilder(valuation, calendar.BRA, 252)
	if err := b.Set(curve.Knot{Date: bd(252), ZeroRate: 0.1}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := b.Set(curve.Knot{Date: bd(252), ZeroRate: 0.11}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 knot, got %d", b.Len())
	}
	c, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if z, _ := c.ZeroRate(bd(252)); z != 0.11 {
		t.Fatalf("overwrite lost: got %.4f", z)
	}
	if err := b.Set(curve.Knot{Date: bd(300), ZeroRate: 0.1}); !errors.Is(err, curve.ErrFinalized) {
		t.Fatalf("expected ErrFinalized, got %v", err)
	}
}

func TestSample(t *testing.T) {
	t.Parallel()

	c := mustCurve(t, curve.Knot{Date: bd(126), ZeroRate: 0.05}, curve.Knot{Date: bd(378), ZeroRate: 0.06})
	series, err := curve.Sample(c)
	if err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(series) != 253 {
		t.Fatalf("expected 253 business days, got %d", len(series))
	}
	if !series[0].Date.Equal(bd(126)) || !series[len(series)-1].Date.Equal(bd(378)) {
		t.Fatalf("series span mismatch: %s..%s", series[0].Date.Format("2006-01-02"), series[len(series)-1].Date.Format("2006-01-02"))
	}
	for i, p := range series {
		if !calendar.IsBusinessDay(calendar.BRA, p.Date) {
			t.Fatalf("non business day %s in series", p.Date.Format("2006-01-02"))
		}
		if i > 0 && !p.Date.After(series[i-1].Date) {
			t.Fatalf("series not ascending at %d", i)
		}
		if p.ZeroRate < 0.05-1e-15 || p.ZeroRate > 0.06+1e-15 {
			t.Fatalf("rate %.10f on %s outside knot range", p.ZeroRate, p.Date.Format("2006-01-02"))
		}
	}
	if z, ok := series.At(bd(252)); !ok || !(z > 0.05 && z < 0.06) {
		t.Fatalf("At(252) = %.10f, %v", z, ok)
	}
	if _, ok := series.At(valuation); ok {
		t.Fatalf("valuation date should not be sampled")
	}
}
