package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"

	"commission-calc/internal/errors"
)

// The HCL file mirrors Config with optional pointer fields so that only
// the attributes present in the file override the defaults.
type hclFile struct {
	Version    *string        `hcl:"version,optional"`
	Commission *hclCommission `hcl:"commission,block"`
	Lookup     *hclLookup     `hcl:"lookup,block"`
	Rates      *hclRates      `hcl:"rates,block"`
	Output     *hclOutput     `hcl:"output,block"`
	Server     *hclServer     `hcl:"server,block"`
	Logging    *hclLogging    `hcl:"logging,block"`
}

type hclCommission struct {
	DomesticRate *string  `hcl:"domestic_rate,optional"`
	ForeignRate  *string  `hcl:"foreign_rate,optional"`
	Places       *int     `hcl:"places,optional"`
	EUCountries  []string `hcl:"eu_countries,optional"`
}

type hclLookup struct {
	BinListURL        *string  `hcl:"binlist_url,optional"`
	TimeoutSeconds    *int     `hcl:"timeout_seconds,optional"`
	RequestsPerMinute *float64 `hcl:"requests_per_minute,optional"`
	Burst             *int     `hcl:"burst,optional"`
	CacheTTLSeconds   *int     `hcl:"cache_ttl_seconds,optional"`
}

type hclRates struct {
	URL            *string `hcl:"url,optional"`
	AccessKey      *string `hcl:"access_key,optional"`
	TimeoutSeconds *int    `hcl:"timeout_seconds,optional"`
	File           *string `hcl:"file,optional"`
}

type hclOutput struct {
	Format *string `hcl:"format,optional"`
}

type hclServer struct {
	Address            *string `hcl:"address,optional"`
	ReadTimeoutSeconds *int    `hcl:"read_timeout_seconds,optional"`
	MaxBodyBytes       *int64  `hcl:"max_body_bytes,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func loadHCL(path string) (*Config, error) {
	var file hclFile
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, errors.Parsing("invalid HCL config file", err).WithContext("path", path)
	}

	cfg := Default()
	file.apply(cfg)
	return cfg, nil
}

func (f *hclFile) apply(cfg *Config) {
	set(&cfg.Version, f.Version)

	if c := f.Commission; c != nil {
		set(&cfg.Commission.DomesticRate, c.DomesticRate)
		set(&cfg.Commission.ForeignRate, c.ForeignRate)
		if c.Places != nil {
			cfg.Commission.Places = int32(*c.Places)
		}
		if c.EUCountries != nil {
			cfg.Commission.EUCountries = c.EUCountries
		}
	}
	if l := f.Lookup; l != nil {
		set(&cfg.Lookup.BinListURL, l.BinListURL)
		set(&cfg.Lookup.TimeoutSeconds, l.TimeoutSeconds)
		set(&cfg.Lookup.RequestsPerMinute, l.RequestsPerMinute)
		set(&cfg.Lookup.Burst, l.Burst)
		set(&cfg.Lookup.CacheTTLSeconds, l.CacheTTLSeconds)
	}
	if r := f.Rates; r != nil {
		set(&cfg.Rates.URL, r.URL)
		set(&cfg.Rates.AccessKey, r.AccessKey)
		set(&cfg.Rates.TimeoutSeconds, r.TimeoutSeconds)
		set(&cfg.Rates.File, r.File)
	}
	if o := f.Output; o != nil {
		set(&cfg.Output.Format, o.Format)
	}
	if s := f.Server; s != nil {
		set(&cfg.Server.Address, s.Address)
		set(&cfg.Server.ReadTimeoutSeconds, s.ReadTimeoutSeconds)
		set(&cfg.Server.MaxBodyBytes, s.MaxBodyBytes)
	}
	if l := f.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
		set(&cfg.Logging.Output, l.Output)
		set(&cfg.Logging.Development, l.Development)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
