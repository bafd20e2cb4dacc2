// Package types defines core domain types shared across all layers.
// This package contains NO business logic beyond small accessors.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 three-letter currency code
type Currency string

// CurrencyEUR is the reference currency every rate is quoted against
const CurrencyEUR Currency = "EUR"

// String returns the string representation of the currency
func (c Currency) String() string {
	return string(c)
}

// Normalize upper-cases and trims the code
func (c Currency) Normalize() Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(string(c))))
}

// CountryCode is an ISO 3166-1 alpha-2 country code
type CountryCode string

// String returns the string representation of the country code
func (c CountryCode) String() string {
	return string(c)
}

// Normalize upper-cases and trims the code
func (c CountryCode) Normalize() CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(string(c))))
}

// Transaction is one card-payment record from the input batch
type Transaction struct {
	// BIN is the card's bank identification number
	BIN string `json:"bin"`

	// Amount is the non-negative transaction amount
	Amount decimal.Decimal `json:"amount"`

	// Currency is the transaction currency
	Currency Currency `json:"currency"`
}
