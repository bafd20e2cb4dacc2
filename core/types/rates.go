package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateTable maps a currency to its units per one EUR.
// A table is immutable once built; share it freely.
type RateTable struct {
	// Base is the reference currency, always EUR
	Base Currency `json:"base"`

	// Source names where the table came from
	Source string `json:"source,omitempty"`

	rates map[Currency]decimal.Decimal
}

// NewRateTable copies rates into a new table quoted against EUR.
// Currency codes are normalized.
func NewRateTable(source string, rates map[Currency]decimal.Decimal) *RateTable {
	copied := make(map[Currency]decimal.Decimal, len(rates))
	for code, rate := range rates {
		copied[code.Normalize()] = rate
	}
	return &RateTable{Base: CurrencyEUR, Source: source, rates: copied}
}

// RateOf returns the rate for code. A missing key and a zero or
// negative rate both report false.
func (t *RateTable) RateOf(code Currency) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	rate, ok := t.rates[code.Normalize()]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

// Len returns the number of currencies in the table
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}

// IsEmpty reports whether the table holds no rates
func (t *RateTable) IsEmpty() bool {
	return t.Len() == 0
}

// Currencies returns the table's currencies in sorted order
func (t *RateTable) Currencies() []Currency {
	if t == nil {
		return nil
	}
	out := make([]Currency, 0, len(t.rates))
	for code := range t.rates {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Map returns a copy of the underlying rates
func (t *RateTable) Map() map[Currency]decimal.Decimal {
	out := make(map[Currency]decimal.Decimal, t.Len())
	if t == nil {
		return out
	}
	for code, rate := range t.rates {
		out[code] = rate
	}
	return out
}
