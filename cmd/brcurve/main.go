// brcurve bootstraps the Brazilian government bond zero curve from LTN and
// NTN-F quotes and prices bonds against it.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/config"
	"github.com/meenmo/brcurve/logger"
	"github.com/meenmo/brcurve/marketdata"
	"github.com/meenmo/brcurve/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by subcommands once the root pre-run has resolved
// configuration and logging.
type app struct {
	cfg   config.Config
	runID string
	log   *logger.Entry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "brcurve",
		Short:         "Brazilian government bond zero curve bootstrapper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}

			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				cfg.Logging.Level = lvl
			}

			log := logger.GetLogger()
			if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAgeDays); err != nil {
				return fmt.Errorf("failed to configure logger: %w", err)
			}

			a.cfg = cfg
			a.runID = uuid.NewString()
			a.log = log.WithFields(logger.Fields{"run_id": a.runID, "command": cmd.Name()})
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: ./brcurve.yaml or ./config/brcurve.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newPriceCmd(a))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config and logging setup.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "brcurve %s (commit %s)\n", version, commit)
		},
	}
}

// loadQuotes reads every quote file and returns the quotes for valuation, or
// for the only valuation date present when valuation is empty.
func loadQuotes(paths []string, valuation string) (time.Time, []bond.Quote, error) {
	if len(paths) == 0 {
		return time.Time{}, nil, fmt.Errorf("at least one --quotes file is required")
	}

	src := marketdata.NewMapQuoteSource()
	for _, p := range paths {
		set, err := marketdata.LoadQuotes(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, nil, err
		}
		src.Add(set)
	}

	var date time.Time
	if strings.TrimSpace(valuation) == "" {
		dates := src.Dates()
		if len(dates) != 1 {
			return time.Time{}, nil, fmt.Errorf("quote files hold %d valuation dates; pick one with --valuation", len(dates))
		}
		date = dates[0]
	} else {
		d, err := utils.ParseDate(valuation)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("--valuation: %w", err)
		}
		date = d
	}

	quotes, ok := src.QuotesOn(date)
	if !ok {
		return time.Time{}, nil, fmt.Errorf("no quotes for valuation date %s", date.Format(utils.DateLayout))
	}
	return date, quotes, nil
}
