// Package binlist resolves card BINs through the binlist.net lookup service.
package binlist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
	"commission-calc/internal/logging"
)

// DefaultBaseURL is the public binlist endpoint
const DefaultBaseURL = "https://lookup.binlist.net/"

// Config configures the binlist client
type Config struct {
	// BaseURL is prefixed to the BIN
	BaseURL string `json:"base_url"`

	// Timeout bounds a single HTTP request
	Timeout time.Duration `json:"timeout"`

	// RequestsPerMinute throttles outgoing requests; zero disables throttling
	RequestsPerMinute float64 `json:"requests_per_minute"`

	// Burst is the limiter burst size
	Burst int `json:"burst"`

	// CacheTTL is how long a resolved BIN is remembered; zero disables caching
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           10 * time.Second,
		RequestsPerMinute: 10,
		Burst:             5,
		CacheTTL:          24 * time.Hour,
	}
}

// response is the subset of the binlist payload we use
type response struct {
	Country *struct {
		Alpha2 string `json:"alpha2"`
		Name   string `json:"name"`
	} `json:"country"`
}

// Client implements country.Lookup against binlist
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cache      *cache.Cache
	log        *zap.Logger
}

// New creates a client from cfg
func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client that sends requests through httpClient
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    base,
		log:        logging.Named("binlist"),
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), burst)
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Country implements country.Lookup
func (c *Client) Country(ctx context.Context, bin string) (types.CountryCode, error) {
	if !validBIN(bin) {
		return "", errors.Newf(errors.TypeValidation, "BIN %q must contain only digits", bin).WithContext("bin", bin)
	}

	key := "bin-" + bin
	if c.cache != nil {
		if code, found := c.cache.Get(key); found {
			c.log.Debug("BIN cache hit", zap.String("bin", bin))
			return code.(types.CountryCode), nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Lookup("waiting for binlist rate limiter", err).WithContext("bin", bin)
		}
	}

	code, err := c.fetch(ctx, bin)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.Set(key, code, cache.DefaultExpiration)
	}
	return code, nil
}

func (c *Client) fetch(ctx context.Context, bin string) (types.CountryCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(bin), nil)
	if err != nil {
		return "", errors.Internal("building binlist request", err)
	}
	req.Header.Set("Accept-Version", "3")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Lookup("binlist request failed", err).WithContext("bin", bin)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", errors.Newf(errors.TypeLookup, "binlist has no record for BIN %s", bin).WithContext("bin", bin)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errors.New(errors.TypeLookup, "binlist rate limit exceeded").WithContext("bin", bin)
	case resp.StatusCode != http.StatusOK:
		return "", errors.Wrapf(errors.TypeLookup, fmt.Errorf("status %s", resp.Status), "binlist request for BIN %s failed", bin).WithContext("bin", bin)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Parsing("invalid binlist response", err).WithContext("bin", bin)
	}
	if body.Country == nil || strings.TrimSpace(body.Country.Alpha2) == "" {
		return "", errors.New(errors.TypeLookup, "binlist response has no country.alpha2").WithContext("bin", bin)
	}

	code := types.CountryCode(body.Country.Alpha2).Normalize()
	c.log.Debug("BIN resolved", zap.String("bin", bin), zap.String("country", code.String()))
	return code, nil
}

func validBIN(bin string) bool {
	if bin == "" {
		return false
	}
	for _, r := range bin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
