package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-calc/core/batch"
	"commission-calc/core/types"
)

func sampleReport() *batch.Report {
	notice := &types.Notice{
		Line:        2,
		Transaction: types.Transaction{BIN: "2", Amount: decimal.RequireFromString("10"), Currency: "CHF"},
		Country:     "CH",
		Reason:      "no exchange rate",
	}
	return &batch.Report{
		RunID: "run-1",
		Results: []batch.Result{
			{
				Line:        1,
				Transaction: types.Transaction{BIN: "1", Amount: decimal.RequireFromString("100.00"), Currency: "EUR"},
				Country:     "DK",
				Commission:  types.Commission{Fee: decimal.RequireFromString("1.00"), Branch: types.BranchDomestic},
			},
			{
				Line:        2,
				Transaction: notice.Transaction,
				Country:     "CH",
				Commission:  types.Commission{Fee: decimal.Zero, Branch: types.BranchUnpriced, Notice: notice},
			},
			{
				Line:        3,
				Transaction: types.Transaction{BIN: "3", Amount: decimal.RequireFromString("2000"), Currency: "GBP"},
				Country:     "GB",
				Commission:  types.Commission{Fee: decimal.RequireFromString("45.19"), Branch: types.BranchForeign},
			},
		},
		Notices: []types.Notice{*notice},
	}
}

func TestTextRender(t *testing.T) {
	f, err := New(FormatText)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf, sampleReport()))
	assert.Equal(t, "1\n0\n45.19\n", buf.String())

	_, streams := f.(Streamer)
	assert.True(t, streams)
}

func TestJSONRender(t *testing.T) {
	f, err := New(FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf, sampleReport()))

	var doc struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Line   int    `json:"line"`
			Amount string `json:"amount"`
			Branch string `json:"branch"`
			Fee    string `json:"fee"`
		} `json:"results"`
		Notices []struct {
			Line int `json:"line"`
		} `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, "100.00", doc.Results[0].Amount)
	assert.Equal(t, "unpriced", doc.Results[1].Branch)
	assert.Equal(t, "45.19", doc.Results[2].Fee)
	require.Len(t, doc.Notices, 1)
	assert.Equal(t, 2, doc.Notices[0].Line)
}

func TestUnknownFormat(t *testing.T) {
	_, err := New("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: text, json")
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, []Format{FormatText, FormatJSON}, Formats())
	assert.Equal(t, "text, json", FormatList())
}
