// Package exchangerate fetches the latest EUR rate table over HTTP.
package exchangerate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"commission-calc/core/rates"
	"commission-calc/core/types"
	"commission-calc/internal/errors"
)

// DefaultURL is the public latest-rates endpoint
const DefaultURL = "https://api.exchangerate.host/latest"

// Config configures the client
type Config struct {
	// URL is the latest-rates endpoint
	URL string `json:"url"`

	// AccessKey is sent as the access_key query parameter when set
	AccessKey string `json:"access_key,omitempty"`

	// Timeout bounds the HTTP request
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		URL:     DefaultURL,
		Timeout: 15 * time.Second,
	}
}

// Client implements rates.Provider
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// New creates a client from cfg
func New(cfg Config) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client that sends requests through httpClient
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	return &Client{httpClient: httpClient, cfg: cfg}
}

// Name implements rates.Provider
func (c *Client) Name() string {
	if u, err := url.Parse(c.cfg.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return "exchangerate"
}

// FetchRates implements rates.Provider
func (c *Client) FetchRates(ctx context.Context) (*types.RateTable, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Internal("building rates request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Lookup("rates request failed", err).WithContext("provider", c.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Lookup("rates request failed", fmt.Errorf("status %s", resp.Status)).WithContext("provider", c.Name())
	}

	return rates.Decode(resp.Body, c.Name())
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", errors.Config("invalid rates URL", err).WithContext("url", c.cfg.URL)
	}
	if c.cfg.AccessKey != "" {
		q := u.Query()
		q.Set("access_key", c.cfg.AccessKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
