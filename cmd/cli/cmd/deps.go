package cmd

import (
	"commission-calc/adapters/binlist"
	"commission-calc/adapters/exchangerate"
	"commission-calc/core/commission"
	"commission-calc/core/country"
	"commission-calc/core/rates"
	"commission-calc/internal/config"
)

// newRateProvider prefers a rate file over the HTTP service
func newRateProvider(cfg *config.Config) (rates.Provider, error) {
	if cfg.Rates.File != "" {
		return rates.LoadFile(cfg.Rates.File)
	}
	return exchangerate.New(cfg.ExchangeRateConfig()), nil
}

func newLookup(cfg *config.Config) country.Lookup {
	return binlist.New(cfg.BinlistConfig())
}

func newEngine(cfg *config.Config) (*commission.Engine, error) {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return commission.NewEngine(engineCfg), nil
}
