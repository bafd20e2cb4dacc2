package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"commission-calc/internal/config"
)

// lookupCmd resolves BINs without pricing anything
var lookupCmd = &cobra.Command{
	Use:   "lookup <bin>...",
	Short: "Print the issuing country and EU status of each BIN",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		lookup := newLookup(cfg)

		for _, bin := range args {
			code, err := lookup.Country(cmd.Context(), bin)
			if err != nil {
				return err
			}
			region := "non-EU"
			if engine.EUCountries().Contains(code) {
				region = "EU"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", bin, code, region)
		}
		return nil
	},
}
