package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meenmo/brcurve/bootstrap"
	"github.com/meenmo/brcurve/logger"
	"github.com/meenmo/brcurve/utils"
)

type ratePoint struct {
	Date     string  `json:"date"`
	ZeroRate float64 `json:"zero_rate"`
}

type fitJSON struct {
	Type       string  `json:"type"`
	Maturity   string  `json:"maturity"`
	Price      float64 `json:"price"`
	ZeroRate   float64 `json:"zero_rate"`
	ModelPrice float64 `json:"model_price"`
	Residual   float64 `json:"residual"`
	Iterations int     `json:"iterations"`
}

type buildOutput struct {
	RunID         string      `json:"run_id"`
	ValuationDate string      `json:"valuation_date"`
	Knots         []ratePoint `json:"knots"`
	Series        []ratePoint `json:"series,omitempty"`
	Fits          []fitJSON   `json:"fits"`
}

func newBuildCmd(a *app) *cobra.Command {
	var (
		quotePaths []string
		valuation  string
		format     string
		knotsOnly  bool
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bootstrap the zero curve and print its daily series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "csv" {
				return fmt.Errorf("unsupported --format %q (json or csv)", format)
			}

			date, quotes, err := loadQuotes(quotePaths, valuation)
			if err != nil {
				return err
			}
			a.log.WithFields(logger.Fields{
				"valuation": date.Format(utils.DateLayout),
				"quotes":    len(quotes),
			}).Info("building curve")

			res, err := bootstrap.Build(quotes, date, a.cfg)
			if err != nil {
				a.log.WithError(err).Error("curve build failed")
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			if format == "csv" {
				return writeCSV(w, res, knotsOnly)
			}
			return writeJSON(w, a.runID, res, knotsOnly)
		},
	}

	cmd.Flags().StringSliceVar(&quotePaths, "quotes", nil, "quote file(s), YAML or JSON (repeatable)")
	cmd.Flags().StringVar(&valuation, "valuation", "", "valuation date YYYY-MM-DD (default: the only date in the quote files)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	cmd.Flags().BoolVar(&knotsOnly, "knots", false, "print knots only instead of the daily series")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write to file instead of stdout")
	_ = cmd.MarkFlagRequired("quotes")
	return cmd
}

func writeJSON(w io.Writer, runID string, res *bootstrap.Result, knotsOnly bool) error {
	out := buildOutput{
		RunID:         runID,
		ValuationDate: res.Curve.ValuationDate().Format(utils.DateLayout),
	}
	for _, k := range res.Curve.Knots() {
		out.Knots = append(out.Knots, ratePoint{Date: k.Date.Format(utils.DateLayout), ZeroRate: k.ZeroRate})
	}
	if !knotsOnly {
		out.Series = make([]ratePoint, 0, len(res.Series))
		for _, p := range res.Series {
			out.Series = append(out.Series, ratePoint{Date: p.Date.Format(utils.DateLayout), ZeroRate: p.ZeroRate})
		}
	}
	for _, f := range res.Fits() {
		out.Fits = append(out.Fits, fitJSON{
			Type:       f.Quote.InstrumentType,
			Maturity:   f.Quote.Maturity.Format(utils.DateLayout),
			Price:      f.Quote.CleanPrice,
			ZeroRate:   f.ZeroRate,
			ModelPrice: f.ModelPrice,
			Residual:   f.Residual,
			Iterations: f.Iterations,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCSV(w io.Writer, res *bootstrap.Result, knotsOnly bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "zero_rate"}); err != nil {
		return err
	}

	row := func(date string, rate float64) error {
		return cw.Write([]string{date, strconv.FormatFloat(utils.RoundTo(rate, 10), 'f', 10, 64)})
	}
	if knotsOnly {
		for _, k := range res.Curve.Knots() {
			if err := row(k.Date.Format(utils.DateLayout), k.ZeroRate); err != nil {
				return err
			}
		}
	} else {
		for _, p := range res.Series {
			if err := row(p.Date.Format(utils.DateLayout), p.ZeroRate); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
