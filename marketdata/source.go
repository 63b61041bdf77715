package marketdata

import (
	"time"

	"github.com/meenmo/brcurve/bond"
	"github.com/meenmo/brcurve/utils"
)

// QuoteSource supplies the bond quotes observed on a valuation date.
type QuoteSource interface {
	QuotesOn(date time.Time) ([]bond.Quote, bool)
}

// MapQuoteSource is a static map-backed implementation, keyed by YYYY-MM-DD.
type MapQuoteSource struct {
	sets map[string][]bond.Quote
}

func NewMapQuoteSource(sets ...QuoteSet) *MapQuoteSource {
	m := &MapQuoteSource{sets: make(map[string][]bond.Quote, len(sets))}
	for _, s := range sets {
		m.Add(s)
	}
	return m
}

// Add stores s, appending to any quotes already held for its date.
func (m *MapQuoteSource) Add(s QuoteSet) {
	key := s.ValuationDate.Format(utils.DateLayout)
	m.sets[key] = append(m.sets[key], s.Quotes...)
}

func (m *MapQuoteSource) QuotesOn(date time.Time) ([]bond.Quote, bool) {
	qs, ok := m.sets[date.Format(utils.DateLayout)]
	if !ok {
		return nil, false
	}
	out := make([]bond.Quote, len(qs))
	copy(out, qs)
	return out, true
}

// Dates returns the valuation dates held, ascending.
func (m *MapQuoteSource) Dates() []time.Time {
	out := make([]time.Time, 0, len(m.sets))
	for k := range m.sets {
		d, err := utils.ParseDate(k)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	utils.SortDates(out)
	return out
}
