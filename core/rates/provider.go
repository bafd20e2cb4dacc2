// Package rates supplies the EUR-based exchange-rate table used to price
// foreign transactions.
package rates

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
)

// Provider fetches the latest rate table
type Provider interface {
	// Name returns the provider name for logging
	Name() string

	// FetchRates retrieves the current table
	FetchRates(ctx context.Context) (*types.RateTable, error)
}

// Payload is the wire shape shared by the rates API and rate files:
// {"base":"EUR","rates":{"USD":1.08,...}}
type Payload struct {
	Base    string                     `json:"base,omitempty"`
	Success *bool                      `json:"success,omitempty"`
	Rates   map[string]decimal.Decimal `json:"rates"`
}

// Decode reads a Payload from r and turns it into a table.
// A body without a "rates" object is a parsing error.
func Decode(r io.Reader, source string) (*types.RateTable, error) {
	var payload Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, errors.Parsing("invalid rates payload", err).WithContext("source", source)
	}
	if payload.Success != nil && !*payload.Success {
		return nil, errors.Lookup("rates service reported failure", nil).WithContext("source", source)
	}
	if payload.Base != "" && types.Currency(payload.Base).Normalize() != types.CurrencyEUR {
		return nil, errors.Newf(errors.TypeLookup, "rates are quoted against %s, want EUR", payload.Base).WithContext("source", source)
	}
	if payload.Rates == nil {
		return nil, errors.Parsing("rates payload has no rates object", nil).WithContext("source", source)
	}

	table := make(map[types.Currency]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		table[types.Currency(code)] = rate
	}
	return types.NewRateTable(source, table), nil
}

// Static serves a fixed table
type Static struct {
	table *types.RateTable
}

// NewStatic creates a provider that always returns rates
func NewStatic(rates map[types.Currency]decimal.Decimal) *Static {
	return &Static{table: types.NewRateTable("static", rates)}
}

// LoadFile reads a rate file in Payload format
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Config("cannot open rates file", err).WithContext("path", path)
	}
	defer f.Close()

	table, err := Decode(f, "file:"+path)
	if err != nil {
		return nil, err
	}
	return &Static{table: table}, nil
}

// Name returns the provider name
func (s *Static) Name() string {
	return s.table.Source
}

// FetchRates returns the fixed table
func (s *Static) FetchRates(ctx context.Context) (*types.RateTable, error) {
	return s.table, nil
}
