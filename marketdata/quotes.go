// Package marketdata loads normalized government bond quote sets.
package marketdata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/utils"
)

// ErrInvalidQuote is returned for rows that cannot become a bond.Quote.
var ErrInvalidQuote = errors.New("invalid quote")

// couponByType holds the coupon flag of known instrument types, used when a
// row does not state it.
var couponByType = map[string]bool{
	"LTN":   false,
	"NTN-F": true,
}

// QuoteSet is the quotes observed on one valuation date.
type QuoteSet struct {
	ValuationDate time.Time
	Quotes        []bond.Quote
}

type quoteFile struct {
	ValuationDate string     `yaml:"valuation_date"`
	Bonds         []quoteRow `yaml:"bonds"`
}

type quoteRow struct {
	Type     string `yaml:"type"`
	Maturity string `yaml:"maturity"`
	// Price is kept as text so that quoted and bare numbers parse identically.
	Price  string `yaml:"price"`
	Coupon *bool  `yaml:"coupon"`
}

// LoadQuotes reads a quote set from a YAML or JSON file.
func LoadQuotes(path string) (QuoteSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return QuoteSet{}, fmt.Errorf("LoadQuotes: %w", err)
	}
	defer f.Close()

	set, err := ParseQuotes(f)
	if err != nil {
		return QuoteSet{}, fmt.Errorf("LoadQuotes %s: %w", path, err)
	}
	return set, nil
}

// ParseQuotes decodes a quote set. JSON input is accepted since it is valid YAML.
//
//	valuation_date: 2024-05-10
//	bonds:
//	  - {type: LTN, maturity: 2025-01-01, price: 934.518211}
//	  - {type: NTN-F, maturity: 2029-01-01, price: "978.25", coupon: true}
func ParseQuotes(r io.Reader) (QuoteSet, error) {
	var raw quoteFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return QuoteSet{}, fmt.Errorf("ParseQuotes: empty document")
		}
		return QuoteSet{}, fmt.Errorf("ParseQuotes: %w", err)
	}

	valuation, err := utils.ParseDate(raw.ValuationDate)
	if err != nil {
		return QuoteSet{}, fmt.Errorf("ParseQuotes: valuation_date: %w", err)
	}
	if len(raw.Bonds) == 0 {
		return QuoteSet{}, fmt.Errorf("ParseQuotes: no bonds")
	}

	set := QuoteSet{ValuationDate: valuation, Quotes: make([]bond.Quote, 0, len(raw.Bonds))}
	for i, row := range raw.Bonds {
		q, err := row.quote()
		if err != nil {
			return QuoteSet{}, fmt.Errorf("ParseQuotes: bond %d: %w", i, err)
		}
		set.Quotes = append(set.Quotes, q)
	}
	return set, nil
}

func (row quoteRow) quote() (bond.Quote, error) {
	typ := strings.ToUpper(strings.TrimSpace(row.Type))
	if typ == "" {
		return bond.Quote{}, fmt.Errorf("%w: missing type", ErrInvalidQuote)
	}

	maturity, err := utils.ParseDate(row.Maturity)
	if err != nil {
		return bond.Quote{}, fmt.Errorf("%s maturity: %w", typ, err)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
	if err != nil {
		return bond.Quote{}, fmt.Errorf("%w: %s %s price %q", ErrInvalidQuote, typ, row.Maturity, row.Price)
	}
	if !price.IsPositive() {
		return bond.Quote{}, fmt.Errorf("%w: %s %s price must be positive, got %s", ErrInvalidQuote, typ, row.Maturity, price)
	}

	hasCoupon, known := couponByType[typ]
	if row.Coupon != nil {
		hasCoupon = *row.Coupon
	} else if !known {
		return bond.Quote{}, fmt.Errorf("%w: %s needs an explicit coupon flag", ErrInvalidQuote, typ)
	}

	return bond.Quote{
		InstrumentType: typ,
		Maturity:       maturity,
		CleanPrice:     price.InexactFloat64(),
		HasCoupon:      hasCoupon,
	}, nil
}
