// Package country resolves card BINs to issuing countries.
package country

import (
	"context"
	"strings"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
)

// Lookup maps a BIN to its issuing country
type Lookup interface {
	// Country returns the alpha-2 issuing country for bin
	Country(ctx context.Context, bin string) (types.CountryCode, error)
}

// Static resolves BINs from a fixed map, longest prefix first
type Static struct {
	prefixes map[string]types.CountryCode
}

// NewStatic creates a Static lookup. Keys are BIN prefixes.
func NewStatic(prefixes map[string]string) *Static {
	m := make(map[string]types.CountryCode, len(prefixes))
	for prefix, code := range prefixes {
		m[strings.TrimSpace(prefix)] = types.CountryCode(code).Normalize()
	}
	return &Static{prefixes: m}
}

// Country implements Lookup
func (s *Static) Country(ctx context.Context, bin string) (types.CountryCode, error) {
	for n := len(bin); n > 0; n-- {
		if code, ok := s.prefixes[bin[:n]]; ok {
			return code, nil
		}
	}
	return "", errors.Newf(errors.TypeLookup, "no issuing country for BIN %s", bin)
}
