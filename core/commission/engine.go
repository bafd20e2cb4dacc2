// Package commission prices card transactions.
//
// A transaction is domestic when it is invoiced in EUR or the card was issued
// in an EU country; domestic transactions pay the domestic rate on the raw
// amount. Any other transaction pays the foreign rate on its EUR equivalent,
// provided the rate table knows its currency. Records neither rule covers
// get a zero fee and a notice.
package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"commission-calc/core/types"
)

var (
	// DefaultDomesticRate is charged on domestic transactions
	DefaultDomesticRate = decimal.RequireFromString("0.01")

	// DefaultForeignRate is charged on converted foreign transactions
	DefaultForeignRate = decimal.RequireFromString("0.02")
)

// DefaultPlaces is the number of fraction digits fees are rounded to
const DefaultPlaces int32 = 2

// Config configures an Engine
type Config struct {
	// EUCountries is the set of issuer countries treated as domestic
	EUCountries CountrySet

	// DomesticRate is the fraction charged on domestic transactions
	DomesticRate decimal.Decimal

	// ForeignRate is the fraction charged on foreign transactions
	ForeignRate decimal.Decimal

	// Places is the rounding precision of the fee
	Places int32
}

// DefaultConfig returns the 1%/2% schedule with the shipped EU list
func DefaultConfig() Config {
	return Config{
		EUCountries:  DefaultEUSet(),
		DomesticRate: DefaultDomesticRate,
		ForeignRate:  DefaultForeignRate,
		Places:       DefaultPlaces,
	}
}

// Engine computes commissions. It holds no mutable state.
type Engine struct {
	eu       CountrySet
	domestic decimal.Decimal
	foreign  decimal.Decimal
	places   int32
}

// NewEngine creates an engine from cfg
func NewEngine(cfg Config) *Engine {
	eu := cfg.EUCountries
	if eu == nil {
		eu = DefaultEUSet()
	}
	return &Engine{
		eu:       eu,
		domestic: cfg.DomesticRate,
		foreign:  cfg.ForeignRate,
		places:   cfg.Places,
	}
}

// NewDefaultEngine creates an engine with DefaultConfig
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultConfig())
}

// EUCountries returns the engine's EU set
func (e *Engine) EUCountries() CountrySet {
	return e.eu
}

// Classify returns the branch that would price tx
func (e *Engine) Classify(tx types.Transaction, country types.CountryCode, rates *types.RateTable) types.Branch {
	euIssuer := e.eu.Contains(country)
	currency := tx.Currency.Normalize()

	if currency == types.CurrencyEUR || euIssuer {
		return types.BranchDomestic
	}
	if _, ok := rates.RateOf(currency); ok && !euIssuer {
		return types.BranchForeign
	}
	return types.BranchUnpriced
}

// Compute prices a single transaction. It never fails: records that cannot
// be priced come back with a zero fee and a notice.
func (e *Engine) Compute(tx types.Transaction, country types.CountryCode, rates *types.RateTable) types.Commission {
	switch e.Classify(tx, country, rates) {
	case types.BranchDomestic:
		return types.Commission{
			Fee:    e.round(tx.Amount.Mul(e.domestic)),
			Branch: types.BranchDomestic,
		}

	case types.BranchForeign:
		rate, _ := rates.RateOf(tx.Currency)
		return types.Commission{
			Fee:    e.round(tx.Amount.Div(rate).Mul(e.foreign)),
			Branch: types.BranchForeign,
		}

	default:
		return types.Commission{
			Fee:    decimal.Zero,
			Branch: types.BranchUnpriced,
			Notice: &types.Notice{
				Transaction: tx,
				Country:     country,
				Reason:      fmt.Sprintf("no exchange rate for %s and issuer %q is outside the EU", tx.Currency, country),
			},
		}
	}
}

// round uses half away from zero
func (e *Engine) round(v decimal.Decimal) decimal.Decimal {
	return v.Round(e.places)
}
