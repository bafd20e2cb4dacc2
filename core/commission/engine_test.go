package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-calc/core/types"
)

func referenceRates() *types.RateTable {
	return types.NewRateTable("test", map[types.Currency]decimal.Decimal{
		"USD": decimal.RequireFromString("0.8"),
		"EUR": decimal.RequireFromString("1"),
		"GBP": decimal.RequireFromString("1.2"),
		"JPY": decimal.RequireFromString("10"),
	})
}

func tx(bin, amount string, currency types.Currency) types.Transaction {
	return types.Transaction{BIN: bin, Amount: decimal.RequireFromString(amount), Currency: currency}
}

func TestComputeBranches(t *testing.T) {
	engine := NewDefaultEngine()
	rates := referenceRates()

	tests := []struct {
		name       string
		tx         types.Transaction
		country    types.CountryCode
		wantBranch types.Branch
		wantFee    string
	}{
		{
			name:       "EUR currency with EU issuer",
			tx:         tx("45717360", "100.00", "EUR"),
			country:    "DK",
			wantBranch: types.BranchDomestic,
			wantFee:    "1",
		},
		{
			name:       "EUR currency with non-EU issuer stays domestic",
			tx:         tx("45717360", "100.00", "EUR"),
			country:    "US",
			wantBranch: types.BranchDomestic,
			wantFee:    "1",
		},
		{
			name:       "EU issuer ignores non-EUR currency",
			tx:         tx("516793", "50.00", "USD"),
			country:    "LT",
			wantBranch: types.BranchDomestic,
			wantFee:    "0.5",
		},
		{
			name:       "EU issuer does not convert JPY",
			tx:         tx("45417360", "10000.00", "JPY"),
			country:    "DE",
			wantBranch: types.BranchDomestic,
			wantFee:    "100",
		},
		{
			name:       "foreign JPY converted then charged 2%",
			tx:         tx("45417360", "10000.00", "JPY"),
			country:    "JP",
			wantBranch: types.BranchForeign,
			wantFee:    "20",
		},
		{
			name:       "foreign USD",
			tx:         tx("41417360", "130.00", "USD"),
			country:    "US",
			wantBranch: types.BranchForeign,
			wantFee:    "3.25",
		},
		{
			name:       "foreign GBP rounds",
			tx:         tx("4745030", "2000.00", "GBP"),
			country:    "GB",
			wantBranch: types.BranchForeign,
			wantFee:    "33.33",
		},
		{
			name:       "unknown currency with non-EU issuer is unpriced",
			tx:         tx("4745030", "20.00", "CHF"),
			country:    "CH",
			wantBranch: types.BranchUnpriced,
			wantFee:    "0",
		},
		{
			name:       "unknown currency with EU issuer is still domestic",
			tx:         tx("4745030", "20.00", "CHF"),
			country:    "FR",
			wantBranch: types.BranchDomestic,
			wantFee:    "0.2",
		},
		{
			name:       "lower-case codes are normalized",
			tx:         tx("4745030", "20.00", "eur"),
			country:    "ch",
			wantBranch: types.BranchDomestic,
			wantFee:    "0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Compute(tt.tx, tt.country, rates)
			assert.Equal(t, tt.wantBranch, got.Branch)
			assert.Equal(t, tt.wantFee, got.Fee.String())
			assert.Equal(t, tt.wantBranch != types.BranchUnpriced, got.Priced())
		})
	}
}

func TestComputeUnpricedCarriesNotice(t *testing.T) {
	engine := NewDefaultEngine()
	record := tx("123456", "15.00", "SEK")

	got := engine.Compute(record, "NO", referenceRates())

	require.NotNil(t, got.Notice)
	assert.True(t, got.Fee.IsZero())
	assert.Equal(t, record, got.Notice.Transaction)
	assert.Equal(t, types.CountryCode("NO"), got.Notice.Country)
	assert.Contains(t, got.Notice.Reason, "SEK")
}

func TestComputeZeroRateIsUnpriced(t *testing.T) {
	engine := NewDefaultEngine()
	rates := types.NewRateTable("test", map[types.Currency]decimal.Decimal{"USD": decimal.Zero})

	got := engine.Compute(tx("1", "10.00", "USD"), "US", rates)
	assert.Equal(t, types.BranchUnpriced, got.Branch)

	got = engine.Compute(tx("1", "10.00", "USD"), "US", nil)
	assert.Equal(t, types.BranchUnpriced, got.Branch)
}

func TestRoundingIsHalfAwayFromZero(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		amount string
		want   string
	}{
		{amount: "0.50", want: "0.01"},  // 0.005
		{amount: "0.49", want: "0"},     // 0.0049
		{amount: "12.50", want: "0.13"}, // 0.125
		{amount: "12.34", want: "0.12"}, // 0.1234
		{amount: "0.00", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := engine.Compute(tx("1", tt.amount, "EUR"), "DE", nil)
			assert.Equal(t, tt.want, got.Fee.String())
		})
	}
}

// The five-record reference batch. Its expected figures follow from the
// rules when the last three cards are non-EU and priced against this table.
func TestReferenceBatchFigures(t *testing.T) {
	engine := NewDefaultEngine()
	rates := types.NewRateTable("reference", map[types.Currency]decimal.Decimal{
		"USD": decimal.RequireFromString("1.0878"),
		"JPY": decimal.RequireFromString("139"),
		"GBP": decimal.RequireFromString("0.8851"),
	})

	records := []struct {
		tx      types.Transaction
		country types.CountryCode
	}{
		{tx("45717360", "100.00", "EUR"), "DK"},
		{tx("516793", "50.00", "USD"), "LT"},
		{tx("45417360", "10000.00", "JPY"), "JP"},
		{tx("41417360", "130.00", "USD"), "US"},
		{tx("4745030", "2000.00", "GBP"), "GB"},
	}
	want := []string{"1", "0.5", "1.44", "2.39", "45.19"}

	for i, r := range records {
		assert.Equal(t, want[i], engine.Compute(r.tx, r.country, rates).Fee.String(), "record %d", i+1)
	}
}

func TestCustomScheduleAndEUSet(t *testing.T) {
	engine := NewEngine(Config{
		EUCountries:  NewCountrySet("pl", "de", ""),
		DomesticRate: decimal.RequireFromString("0.005"),
		ForeignRate:  decimal.RequireFromString("0.03"),
		Places:       3,
	})

	got := engine.Compute(tx("1", "100.10", "PLN"), "PL", referenceRates())
	assert.Equal(t, types.BranchDomestic, got.Branch)
	assert.Equal(t, "0.501", got.Fee.String())

	got = engine.Compute(tx("1", "100.00", "USD"), "DK", referenceRates())
	assert.Equal(t, types.BranchForeign, got.Branch)
	assert.Equal(t, "3.75", got.Fee.String())
}

func TestDefaultEUSetKeepsShippedCodes(t *testing.T) {
	set := DefaultEUSet()

	assert.Len(t, set, 27)
	assert.True(t, set.Contains("PO"))
	assert.False(t, set.Contains("PL"))
	assert.True(t, set.Contains("de"))
	assert.Equal(t, "AT", set.Codes()[0])
}
