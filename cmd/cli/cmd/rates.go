package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"commission-calc/core/output"
	"commission-calc/core/rates"
	"commission-calc/internal/config"
)

// ratesCmd prints the rate table the calculator would use
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch and print the current EUR exchange rates",
	Args:  cobra.NoArgs,
	RunE:  runRates,
}

func init() {
	ratesCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format ("+output.FormatList()+")")
	ratesCmd.Flags().StringVar(&ratesFile, "rates-file", "", "read exchange rates from a JSON file instead of the rates service")
}

func runRates(cmd *cobra.Command, args []string) error {
	cfg := *config.Get()
	if ratesFile != "" {
		cfg.Rates.File = ratesFile
	}

	provider, err := newRateProvider(&cfg)
	if err != nil {
		return err
	}
	table, err := rates.NewCache(provider).Rates(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output.Format(outputFormat) == output.FormatJSON {
		payload := rates.Payload{Base: table.Base.String(), Rates: map[string]decimal.Decimal{}}
		for code, rate := range table.Map() {
			payload.Rates[code.String()] = rate
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	for _, code := range table.Currencies() {
		rate, _ := table.RateOf(code)
		fmt.Fprintf(out, "%s\t%s\n", code, rate.String())
	}
	return nil
}
