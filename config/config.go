package config

import (
	"fmt"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/calendar"
	"github.com/meenmo/brcurve/solver"
)

// Config holds market conventions, solver and curve construction parameters.
// Every bootstrap stage receives it explicitly.
type Config struct {
	// Calendar is the business-day calendar of the curve's time axis.
	Calendar calendar.CalendarID `mapstructure:"calendar"`

	// DayCountBase is the number of business days in a year.
	DayCountBase float64 `mapstructure:"day_count_base"`

	// FaceValue is the redemption amount quoted prices refer to.
	FaceValue float64 `mapstructure:"face_value"`

	// CouponRate is the fixed annual coupon of coupon-bearing bonds. It is a
	// market convention, not an observed quantity.
	CouponRate float64 `mapstructure:"coupon_rate"`

	// CouponFrequency is coupon payments per year.
	CouponFrequency int `mapstructure:"coupon_frequency"`

	// CouponDays are the admissible maturity day-of-month values for coupon bonds.
	CouponDays []int `mapstructure:"coupon_days"`

	Solver SolverConfig `mapstructure:"solver"`

	// Workers bounds concurrent bullet-bond solves. Zero or less means one per CPU.
	Workers int `mapstructure:"workers"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// SolverConfig bounds the implied-rate search.
type SolverConfig struct {
	// LowerBound and UpperBound delimit admissible annual rates.
	LowerBound float64 `mapstructure:"lower_bound"`
	UpperBound float64 `mapstructure:"upper_bound"`

	// Tolerance is the fractional bracket width at which the minimizer stops.
	Tolerance float64 `mapstructure:"tolerance"`

	// PriceTolerance is the largest accepted |model - observed| price.
	PriceTolerance float64 `mapstructure:"price_tolerance"`

	// MaxIterations is the iteration budget of a single solve.
	MaxIterations int `mapstructure:"max_iterations"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json or text
	Output     string `mapstructure:"output"` // stdout, stderr or a file path
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig provides the Brazilian government bond conventions.
var DefaultConfig = Config{
	Calendar:        calendar.BRA,
	DayCountBase:    252,
	FaceValue:       1000,
	CouponRate:      0.10,
	CouponFrequency: 2,
	CouponDays:      []int{1, 15},
	Solver: SolverConfig{
		LowerBound:     0.0,
		UpperBound:     1.0,
		Tolerance:      1e-10,
		PriceTolerance: 1e-6,
		MaxIterations:  200,
	},
	Workers: 0,
	Logging: LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	},
}

// Default returns a copy of DefaultConfig that callers may modify freely.
func Default() Config {
	cfg := DefaultConfig
	cfg.CouponDays = append([]int(nil), DefaultConfig.CouponDays...)
	return cfg
}

// Validate rejects configurations no bootstrap could run with.
func (c Config) Validate() error {
	if !calendar.Known(c.Calendar) {
		return fmt.Errorf("config: unknown calendar %q", c.Calendar)
	}
	if c.DayCountBase <= 0 {
		return fmt.Errorf("config: day_count_base must be positive, got %v", c.DayCountBase)
	}
	if c.FaceValue <= 0 {
		return fmt.Errorf("config: face_value must be positive, got %v", c.FaceValue)
	}
	if c.CouponFrequency <= 0 || 12%c.CouponFrequency != 0 {
		return fmt.Errorf("config: coupon_frequency must divide 12, got %d", c.CouponFrequency)
	}
	if len(c.CouponDays) == 0 {
		return fmt.Errorf("config: coupon_days must not be empty")
	}
	for _, d := range c.CouponDays {
		if d < 1 || d > 28 {
			return fmt.Errorf("config: coupon day %d outside 1..28", d)
		}
	}
	if !(c.Solver.LowerBound < c.Solver.UpperBound) {
		return fmt.Errorf("config: solver bounds [%v, %v] are empty", c.Solver.LowerBound, c.Solver.UpperBound)
	}
	if c.Solver.LowerBound <= -1 {
		return fmt.Errorf("config: solver lower_bound must be above -1, got %v", c.Solver.LowerBound)
	}
	if c.Solver.Tolerance <= 0 || c.Solver.PriceTolerance <= 0 {
		return fmt.Errorf("config: solver tolerances must be positive")
	}
	if c.Solver.MaxIterations <= 0 {
		return fmt.Errorf("config: solver max_iterations must be positive, got %d", c.Solver.MaxIterations)
	}
	return nil
}

// Terms returns the cash-flow conventions for schedule generation.
func (c Config) Terms() bond.Terms {
	return bond.Terms{
		FaceValue:       c.FaceValue,
		CouponRate:      c.CouponRate,
		CouponFrequency: c.CouponFrequency,
		CouponDays:      append([]int(nil), c.CouponDays...),
	}
}

// SolverOptions returns the implied-rate search options.
func (c Config) SolverOptions() solver.Options {
	return solver.Options{
		Lower:          c.Solver.LowerBound,
		Upper:          c.Solver.UpperBound,
		Tolerance:      c.Solver.Tolerance,
		PriceTolerance: c.Solver.PriceTolerance,
		MaxIterations:  c.Solver.MaxIterations,
	}
}
