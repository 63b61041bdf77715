package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BRCURVE_SOLVER_MAX_ITERATIONS.
const EnvPrefix = "BRCURVE"

// Load resolves the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
//
// With an empty path, brcurve.yaml is looked up in ./ and ./config; a missing
// file is not an error. An explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("brcurve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: reading brcurve.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig

	v.SetDefault("calendar", string(d.Calendar))
	v.SetDefault("day_count_base", d.DayCountBase)
	v.SetDefault("face_value", d.FaceValue)
	v.SetDefault("coupon_rate", d.CouponRate)
	v.SetDefault("coupon_frequency", d.CouponFrequency)
	v.SetDefault("coupon_days", d.CouponDays)
	v.SetDefault("workers", d.Workers)

	v.SetDefault("solver.lower_bound", d.Solver.LowerBound)
	v.SetDefault("solver.upper_bound", d.Solver.UpperBound)
	v.SetDefault("solver.tolerance", d.Solver.Tolerance)
	v.SetDefault("solver.price_tolerance", d.Solver.PriceTolerance)
	v.SetDefault("solver.max_iterations", d.Solver.MaxIterations)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
}
