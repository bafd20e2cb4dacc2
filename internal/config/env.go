package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"commission-calc/internal/errors"
)

// Environment variables read by ApplyEnv
const (
	EnvBinListURL     = "COMMISSION_BINLIST_URL"
	EnvRatesURL       = "COMMISSION_RATES_URL"
	EnvRatesAccessKey = "COMMISSION_RATES_ACCESS_KEY"
	EnvRatesFile      = "COMMISSION_RATES_FILE"
	EnvEUCountries    = "COMMISSION_EU_COUNTRIES"
	EnvOutputFormat   = "COMMISSION_OUTPUT_FORMAT"
	EnvLogLevel       = "COMMISSION_LOG_LEVEL"
)

// LoadDotEnv loads .env files into the process environment. Variables
// already set are left alone and missing files are ignored; a file that
// exists but cannot be parsed is a config error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Config("loading env file", err).WithContext("path", f)
		}
	}
	return nil
}

// ApplyEnv overrides c with any COMMISSION_* variables that are set
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		EnvBinListURL:     &c.Lookup.BinListURL,
		EnvRatesURL:       &c.Rates.URL,
		EnvRatesAccessKey: &c.Rates.AccessKey,
		EnvRatesFile:      &c.Rates.File,
		EnvOutputFormat:   &c.Output.Format,
		EnvLogLevel:       &c.Logging.Level,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvEUCountries); ok && v != "" {
		var codes []string
		for _, code := range strings.Split(v, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
		c.Commission.EUCountries = codes
	}
}
