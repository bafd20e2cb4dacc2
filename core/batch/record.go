package batch

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
)

// rawRecord keeps field presence observable. The amount is decoded later
// so an empty string can be told apart from a malformed number.
type rawRecord struct {
	BIN      *string         `json:"bin"`
	Amount   json.RawMessage `json:"amount"`
	Currency *string         `json:"currency"`
}

// ParseRecord decodes one input line. Malformed JSON yields a parsing
// error; missing, blank or negative fields yield a validation error.
func ParseRecord(line []byte) (types.Transaction, error) {
	var raw rawRecord
	dec := json.NewDecoder(bytes.NewReader(line))
	if err := dec.Decode(&raw); err != nil {
		return types.Transaction{}, errors.Parsing("malformed transaction record", err)
	}
	if dec.More() {
		return types.Transaction{}, errors.Parsing("trailing data after transaction record", nil)
	}

	bin := trimmed(raw.BIN)
	currency := types.Currency(trimmed(raw.Currency)).Normalize()

	if bin == "" {
		return types.Transaction{}, missingField("bin")
	}
	if blankAmount(raw.Amount) {
		return types.Transaction{}, missingField("amount")
	}
	if currency == "" {
		return types.Transaction{}, missingField("currency")
	}

	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw.Amount); err != nil {
		return types.Transaction{}, errors.Parsing("malformed transaction amount", err).WithContext("amount", string(raw.Amount))
	}
	if amount.IsNegative() {
		return types.Transaction{}, errors.Validation("transaction amount is negative").WithContext("amount", amount.String())
	}

	return types.Transaction{
		BIN:      bin,
		Amount:   amount,
		Currency: currency,
	}, nil
}

func missingField(field string) *errors.Error {
	return errors.Newf(errors.TypeValidation, "transaction record missing %s", field).WithContext("field", field)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// blankAmount reports an absent, null or whitespace-only string amount.
func blankAmount(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 || string(v) == "null" {
		return true
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}
