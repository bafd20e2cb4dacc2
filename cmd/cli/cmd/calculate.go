package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"commission-calc/core/batch"
	"commission-calc/core/output"
	"commission-calc/core/rates"
	"commission-calc/internal/config"
	"commission-calc/internal/logging"
)

var (
	outputFormat string
	ratesFile    string
	euCountries  []string
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate <file>",
	Short: "Calculate the commission for every transaction in a file",
	Long: `Read one JSON transaction per line and print one commission per line.

Records that cannot be priced print 0 and are reported as warnings.
A malformed record or a failed BIN or rate lookup stops the run.

Examples:
  commission calculate input.txt
  commission calculate --format json input.txt
  commission calculate --eu-countries AT,BE,PL input.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format ("+output.FormatList()+")")
	calculateCmd.Flags().StringVar(&ratesFile, "rates-file", "", "read exchange rates from a JSON file instead of the rates service")
	calculateCmd.Flags().StringSliceVar(&euCountries, "eu-countries", nil, "override the EU issuer country list")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	input, err := batch.OpenFile(args[0])
	if err != nil {
		return err
	}

	cfg := *config.Get()
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if ratesFile != "" {
		cfg.Rates.File = ratesFile
	}
	if len(euCountries) > 0 {
		cfg.Commission.EUCountries = euCountries
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := newEngine(&cfg)
	if err != nil {
		return err
	}
	provider, err := newRateProvider(&cfg)
	if err != nil {
		return err
	}
	formatter, err := output.New(output.Format(cfg.Output.Format))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var emit batch.EmitFunc
	if s, ok := formatter.(output.Streamer); ok {
		emit = func(r batch.Result) error { return s.Emit(out, r) }
	}

	logging.Info("starting commission run", zap.String("input", input.Path), zap.String("rates", provider.Name()))

	processor := batch.NewProcessor(engine, newLookup(&cfg), rates.NewCache(provider))
	report, err := processor.ProcessFile(cmd.Context(), input, emit)
	if err != nil {
		return err
	}

	for _, n := range report.Notices {
		logging.Warn("record could not be priced",
			zap.String("run_id", report.RunID),
			zap.Int("line", n.Line),
			zap.String("bin", n.Transaction.BIN),
			zap.String("currency", n.Transaction.Currency.String()),
			zap.String("country", n.Country.String()),
			zap.String("reason", n.Reason),
		)
	}

	if emit == nil {
		if err := formatter.Render(out, report); err != nil {
			return err
		}
	}

	logging.Info("commission run complete",
		zap.String("run_id", report.RunID),
		zap.Int("records", len(report.Results)),
		zap.Int("notices", len(report.Notices)),
		zap.Duration("duration", report.Duration),
	)
	return nil
}
