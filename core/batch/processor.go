// Package batch runs the commission engine over a file of transactions.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"commission-calc/core/commission"
	"commission-calc/core/country"
	"commission-calc/core/rates"
	"commission-calc/core/types"
	"commission-calc/internal/errors"
	"commission-calc/internal/logging"
)

// maxLineSize bounds a single input record
const maxLineSize = 1 << 20

// Result is the outcome for one input line
type Result struct {
	// Line is the 1-based line number in the input
	Line int `json:"line"`

	// Transaction is the parsed record
	Transaction types.Transaction `json:"transaction"`

	// Country is the resolved issuing country
	Country types.CountryCode `json:"country"`

	// Commission is the engine's output
	Commission types.Commission `json:"commission"`
}

// Report collects the results of a batch run in input order
type Report struct {
	// RunID identifies the run in logs
	RunID string `json:"run_id"`

	// Results has one entry per non-blank input line
	Results []Result `json:"results"`

	// Notices lists the unpriced records
	Notices []types.Notice `json:"notices,omitempty"`

	// Duration is the wall time of the run
	Duration time.Duration `json:"duration"`
}

// EmitFunc receives each result as soon as it is computed
type EmitFunc func(Result) error

// Processor wires the lookup, rate cache and engine together
type Processor struct {
	engine *commission.Engine
	lookup country.Lookup
	rates  *rates.Cache
	log    *zap.Logger
}

// NewProcessor creates a processor
func NewProcessor(engine *commission.Engine, lookup country.Lookup, rateCache *rates.Cache) *Processor {
	return &Processor{
		engine: engine,
		lookup: lookup,
		rates:  rateCache,
		log:    logging.Named("batch"),
	}
}

// ProcessFile runs the batch stored in input
func (p *Processor) ProcessFile(ctx context.Context, input *FileInput, emit EmitFunc) (*Report, error) {
	rc, err := input.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return p.Process(ctx, rc, emit)
}

// Process reads one JSON record per line from r. The rate table is
// fetched before the first line. Any parse, lookup or emit error aborts
// the run; results already emitted stay emitted.
func (p *Processor) Process(ctx context.Context, r io.Reader, emit EmitFunc) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := p.log.With(zap.String("run_id", report.RunID))

	table, err := p.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tx, err := ParseRecord(raw)
		if err != nil {
			return nil, withLine(err, line)
		}

		issuer, err := p.lookup.Country(ctx, tx.BIN)
		if err != nil {
			if _, ok := errors.As(err); !ok {
				err = errors.Lookup("issuing country lookup failed", err)
			}
			return nil, withLine(err, line).WithContext("bin", tx.BIN)
		}

		result := Result{
			Line:        line,
			Transaction: tx,
			Country:     issuer,
			Commission:  p.engine.Compute(tx, issuer, table),
		}
		if n := result.Commission.Notice; n != nil {
			n.Line = line
			report.Notices = append(report.Notices, *n)
		}
		report.Results = append(report.Results, result)

		log.Debug("record priced",
			zap.Int("line", line),
			zap.String("country", issuer.String()),
			zap.String("branch", string(result.Commission.Branch)),
			zap.String("fee", result.Commission.Fee.String()),
		)

		if emit != nil {
			if err := emit(result); err != nil {
				return nil, errors.Internal("writing result failed", err).WithContext("line", line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Parsing("reading input failed", err).WithContext("line", line+1)
	}

	report.Duration = time.Since(start)
	return report, nil
}

func withLine(err error, line int) *errors.Error {
	e, ok := errors.As(err)
	if !ok {
		e = errors.Internal("batch failed", err)
	}
	return e.WithContext("line", line)
}
