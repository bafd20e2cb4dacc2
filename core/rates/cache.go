package rates

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
	"commission-calc/internal/logging"
)

// Cache memoizes the first non-empty table a Provider returns.
// Every later call returns that same table until Reset.
type Cache struct {
	provider Provider

	mu     sync.Mutex
	table  *types.RateTable
	fetchN int
}

// NewCache wraps provider
func NewCache(provider Provider) *Cache {
	return &Cache{provider: provider}
}

// Rates returns the cached table, fetching it on first use.
// An empty table is returned but not cached; a provider returning no
// table yields an empty one, never nil.
func (c *Cache) Rates(ctx context.Context) (*types.RateTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.table.IsEmpty() {
		return c.table, nil
	}

	table, err := c.provider.FetchRates(ctx)
	c.fetchN++
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.Lookup("rates fetch failed", err).WithContext("provider", c.provider.Name())
	}
	if table == nil {
		table = types.NewRateTable(c.provider.Name(), nil)
	}

	logging.Debug("rate table fetched",
		zap.String("provider", c.provider.Name()),
		zap.Int("currencies", table.Len()),
	)
	if !table.IsEmpty() {
		c.table = table
	}
	return table, nil
}

// Reset drops the cached table so the next Rates call refetches
func (c *Cache) Reset() {
	c.mu.Lock()
	c.table = nil
	c.mu.Unlock()
}

// Refresh drops the cached table and fetches a new one
func (c *Cache) Refresh(ctx context.Context) (*types.RateTable, error) {
	c.Reset()
	return c.Rates(ctx)
}

// Fetches returns how many times the provider has been called
func (c *Cache) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchN
}
