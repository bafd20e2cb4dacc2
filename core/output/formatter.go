// Package output renders batch reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"commission-calc/core/batch"
	"commission-calc/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatText is one fee per line, the classic output
	FormatText Format = "text"

	// FormatJSON is the full report as JSON
	FormatJSON Format = "json"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatText, FormatJSON}
}

// FormatList joins the supported formats for help and error text
func FormatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the whole report
	Render(w io.Writer, report *batch.Report) error
}

// Streamer is a Formatter that can also write results one at a time.
// Callers that stream must not call Render afterwards.
type Streamer interface {
	Formatter
	Emit(w io.Writer, result batch.Result) error
}

// New returns the formatter for format
func New(format Format) (Formatter, error) {
	switch format {
	case FormatText, "":
		return TextFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, FormatList())
	}
}

// TextFormatter writes each fee on its own line
type TextFormatter struct{}

// Format implements Formatter
func (TextFormatter) Format() Format { return FormatText }

// Emit writes a single fee line
func (TextFormatter) Emit(w io.Writer, result batch.Result) error {
	_, err := fmt.Fprintln(w, result.Commission.Fee.String())
	return err
}

// Render implements Formatter
func (f TextFormatter) Render(w io.Writer, report *batch.Report) error {
	for _, r := range report.Results {
		if err := f.Emit(w, r); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter writes the report as a single JSON document
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

type jsonLine struct {
	Line     int               `json:"line"`
	BIN      string            `json:"bin"`
	Amount   string            `json:"amount"`
	Currency types.Currency    `json:"currency"`
	Country  types.CountryCode `json:"country"`
	Branch   types.Branch      `json:"branch"`
	Fee      string            `json:"fee"`
}

type jsonReport struct {
	RunID    string         `json:"run_id"`
	Results  []jsonLine     `json:"results"`
	Notices  []types.Notice `json:"notices"`
	Duration string         `json:"duration"`
}

// Render implements Formatter
func (f JSONFormatter) Render(w io.Writer, report *batch.Report) error {
	doc := jsonReport{
		RunID:    report.RunID,
		Results:  make([]jsonLine, 0, len(report.Results)),
		Notices:  report.Notices,
		Duration: report.Duration.String(),
	}
	if doc.Notices == nil {
		doc.Notices = []types.Notice{}
	}
	for _, r := range report.Results {
		doc.Results = append(doc.Results, jsonLine{
			Line:     r.Line,
			BIN:      r.Transaction.BIN,
			Amount:   r.Transaction.Amount.StringFixed(2),
			Currency: r.Transaction.Currency,
			Country:  r.Country,
			Branch:   r.Commission.Branch,
			Fee:      r.Commission.Fee.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(doc)
}
