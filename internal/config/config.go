// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"commission-calc/adapters/binlist"
	"commission-calc/adapters/exchangerate"
	"commission-calc/core/commission"
	"commission-calc/core/output"
	"commission-calc/internal/errors"
	"commission-calc/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Commission contains the fee schedule
	Commission CommissionConfig `json:"commission"`

	// Lookup contains BIN lookup settings
	Lookup LookupConfig `json:"lookup"`

	// Rates contains exchange-rate settings
	Rates RatesConfig `json:"rates"`

	// Output contains output settings
	Output OutputConfig `json:"output"`

	// Server contains HTTP API settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CommissionConfig contains the fee schedule
type CommissionConfig struct {
	// DomesticRate is charged on EUR or EU-issued transactions
	DomesticRate string `json:"domestic_rate"`

	// ForeignRate is charged on converted foreign transactions
	ForeignRate string `json:"foreign_rate"`

	// Places is the rounding precision
	Places int32 `json:"places"`

	// EUCountries is the issuer set treated as domestic
	EUCountries []string `json:"eu_countries"`
}

// LookupConfig contains BIN lookup settings
type LookupConfig struct {
	// BinListURL is the lookup endpoint, the BIN is appended
	BinListURL string `json:"binlist_url"`

	// TimeoutSeconds bounds each request
	TimeoutSeconds int `json:"timeout_seconds"`

	// RequestsPerMinute throttles requests, zero disables throttling
	RequestsPerMinute float64 `json:"requests_per_minute"`

	// Burst is the throttle burst
	Burst int `json:"burst"`

	// CacheTTLSeconds is how long a resolved BIN is reused
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// RatesConfig contains exchange-rate settings
type RatesConfig struct {
	// URL is the latest-rates endpoint
	URL string `json:"url"`

	// AccessKey is passed to the rates service when set
	AccessKey string `json:"access_key,omitempty"`

	// TimeoutSeconds bounds the request
	TimeoutSeconds int `json:"timeout_seconds"`

	// File replaces the HTTP provider with a static rate file
	File string `json:"file,omitempty"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	// Format is the default output format
	Format string `json:"format"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// MaxBodyBytes limits the batch size accepted by the API
	MaxBodyBytes int64 `json:"max_body_bytes"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Commission: CommissionConfig{
			DomesticRate: commission.DefaultDomesticRate.String(),
			ForeignRate:  commission.DefaultForeignRate.String(),
			Places:       commission.DefaultPlaces,
			EUCountries:  append([]string(nil), commission.DefaultEUCountries...),
		},
		Lookup: LookupConfig{
			BinListURL:        binlist.DefaultBaseURL,
			TimeoutSeconds:    10,
			RequestsPerMinute: 10,
			Burst:             5,
			CacheTTLSeconds:   86400, // 24 hours
		},
		Rates: RatesConfig{
			URL:            exchangerate.DefaultURL,
			TimeoutSeconds: 15,
		},
		Output: OutputConfig{
			Format: string(output.FormatText),
		},
		Server: ServerConfig{
			Address:            ":8080",
			ReadTimeoutSeconds: 30,
			MaxBodyBytes:       10 * 1024 * 1024, // 10MB
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. Files ending in .hcl are read as
// HCL, anything else as JSON. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}
		return loadHCL(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("reading config file", err).WithContext("path", path)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Parsing("invalid config file", err).WithContext("path", path)
	}
	return cfg, nil
}

// Save saves configuration to a file as JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	if _, err := output.New(output.Format(c.Output.Format)); err != nil {
		return errors.Config("invalid output format", err)
	}
	if c.Rates.File == "" && c.Rates.URL == "" {
		return errors.New(errors.TypeConfig, "either rates.url or rates.file must be set")
	}
	return nil
}

// EngineConfig converts the commission section into an engine config
func (c *Config) EngineConfig() (commission.Config, error) {
	domestic, err := parseRate("commission.domestic_rate", c.Commission.DomesticRate)
	if err != nil {
		return commission.Config{}, err
	}
	foreign, err := parseRate("commission.foreign_rate", c.Commission.ForeignRate)
	if err != nil {
		return commission.Config{}, err
	}
	if c.Commission.Places < 0 || c.Commission.Places > 8 {
		return commission.Config{}, errors.Newf(errors.TypeConfig, "commission.places must be between 0 and 8, got %d", c.Commission.Places)
	}

	eu := commission.NewCountrySet(c.Commission.EUCountries...)
	if len(c.Commission.EUCountries) == 0 {
		eu = commission.DefaultEUSet()
	}

	return commission.Config{
		EUCountries:  eu,
		DomesticRate: domestic,
		ForeignRate:  foreign,
		Places:       c.Commission.Places,
	}, nil
}

// BinlistConfig converts the lookup section into a client config
func (c *Config) BinlistConfig() binlist.Config {
	return binlist.Config{
		BaseURL:           c.Lookup.BinListURL,
		Timeout:           seconds(c.Lookup.TimeoutSeconds),
		RequestsPerMinute: c.Lookup.RequestsPerMinute,
		Burst:             c.Lookup.Burst,
		CacheTTL:          seconds(c.Lookup.CacheTTLSeconds),
	}
}

// ExchangeRateConfig converts the rates section into a client config
func (c *Config) ExchangeRateConfig() exchangerate.Config {
	return exchangerate.Config{
		URL:       c.Rates.URL,
		AccessKey: c.Rates.AccessKey,
		Timeout:   seconds(c.Rates.TimeoutSeconds),
	}
}

func parseRate(field, value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, errors.Config(fmt.Sprintf("%s is not a decimal", field), err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, errors.Newf(errors.TypeConfig, "%s must be positive, got %s", field, value)
	}
	return rate, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
