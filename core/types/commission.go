package types

import "github.com/shopspring/decimal"

// Branch identifies which pricing rule produced a commission
type Branch string

const (
	// BranchDomestic is EUR currency or an EU issuer, priced on the raw amount
	BranchDomestic Branch = "domestic"

	// BranchForeign is a non-EU issuer with a known rate, priced after conversion
	BranchForeign Branch = "foreign"

	// BranchUnpriced is a record no rule could price
	BranchUnpriced Branch = "unpriced"
)

// Commission is the rounded fee for a single transaction
type Commission struct {
	// Fee is the commission in EUR, already rounded
	Fee decimal.Decimal `json:"fee"`

	// Branch is the rule that produced Fee
	Branch Branch `json:"branch"`

	// Notice is set when Branch is BranchUnpriced
	Notice *Notice `json:"notice,omitempty"`
}

// Priced reports whether a pricing rule applied
func (c Commission) Priced() bool {
	return c.Branch != BranchUnpriced
}

// Notice is a non-fatal diagnostic for a record that could not be priced
type Notice struct {
	// Line is the 1-based input line, zero when computed outside a batch
	Line int `json:"line,omitempty"`

	// Transaction is the offending record
	Transaction Transaction `json:"transaction"`

	// Country is the resolved issuing country
	Country CountryCode `json:"country"`

	// Reason explains why no rule applied
	Reason string `json:"reason"`
}
