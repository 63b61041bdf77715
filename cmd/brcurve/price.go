package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/bootstrap"
	"github.com/meenmo/brcurve/logger"
	"github.com/meenmo/brcurve/utils"
)

type priceOutput struct {
	RunID         string   `json:"run_id"`
	ValuationDate string   `json:"valuation_date"`
	Type          string   `json:"type"`
	Maturity      string   `json:"maturity"`
	ModelPrice    float64  `json:"model_price"`
	ModelYield    float64  `json:"model_yield"`
	MarketPrice   *float64 `json:"market_price,omitempty"`
	MarketYield   *float64 `json:"market_yield,omitempty"`
}

func newPriceCmd(a *app) *cobra.Command {
	var (
		quotePaths []string
		valuation  string
		typ        string
		maturity   string
		coupon     bool
		price      float64
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a bond on the bootstrapped curve",
		Long: `Bootstraps the curve from the quote files, then discounts the given bond on it.
The output carries the model price and its flat business-day yield; with --price,
the yield implied by that market price is reported alongside.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, quotes, err := loadQuotes(quotePaths, valuation)
			if err != nil {
				return err
			}
			mat, err := utils.ParseDate(maturity)
			if err != nil {
				return fmt.Errorf("--maturity: %w", err)
			}

			res, err := bootstrap.Build(quotes, date, a.cfg)
			if err != nil {
				a.log.WithError(err).Error("curve build failed")
				return err
			}

			q := bond.Quote{InstrumentType: strings.ToUpper(typ), Maturity: mat, HasCoupon: coupon}
			model, err := res.Reprice(q)
			if err != nil {
				return err
			}

			out := priceOutput{
				RunID:         a.runID,
				ValuationDate: date.Format(utils.DateLayout),
				Type:          q.InstrumentType,
				Maturity:      mat.Format(utils.DateLayout),
				ModelPrice:    model,
			}
			if out.ModelYield, err = a.flatYield(q, date, model); err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				y, err := a.flatYield(q, date, price)
				if err != nil {
					return err
				}
				out.MarketPrice = &price
				out.MarketYield = &y
			}

			a.log.WithFields(logger.Fields{
				"instrument":  q.String(),
				"model_price": model,
			}).Info("bond priced")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringSliceVar(&quotePaths, "quotes", nil, "quote file(s), YAML or JSON (repeatable)")
	cmd.Flags().StringVar(&valuation, "valuation", "", "valuation date YYYY-MM-DD (default: the only date in the quote files)")
	cmd.Flags().StringVar(&typ, "type", "NTN-F", "instrument type label")
	cmd.Flags().StringVar(&maturity, "maturity", "", "maturity date YYYY-MM-DD")
	cmd.Flags().BoolVar(&coupon, "coupon", true, "bond pays the configured semiannual coupon")
	cmd.Flags().Float64Var(&price, "price", 0, "market price per 1000 face (optional)")
	_ = cmd.MarkFlagRequired("quotes")
	_ = cmd.MarkFlagRequired("maturity")
	return cmd
}

// flatYield is the single business-day rate that discounts q's schedule to price.
func (a *app) flatYield(q bond.Quote, valuation time.Time, price float64) (float64, error) {
	q.CleanPrice = price
	res, err := bond.ImpliedYield(bond.YieldInput{
		Quote:         q,
		ValuationDate: valuation,
		Calendar:      a.cfg.Calendar,
		DayCountBase:  a.cfg.DayCountBase,
		Terms:         a.cfg.Terms(),
		Solver:        a.cfg.SolverOptions(),
	})
	if err != nil {
		return 0, err
	}
	return res.Yield, nil
}
