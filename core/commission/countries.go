package commission

import (
	"sort"

	"commission-calc/core/types"
)

// DefaultEUCountries is the shipped EU membership list. It carries "PO"
// rather than "PL" for Poland; override through configuration to correct it.
var DefaultEUCountries = []string{
	"AT", "BE", "BG", "CY", "CZ", "DE", "DK", "EE", "ES", "FI", "FR", "GR", "HR", "HU",
	"IE", "IT", "LT", "LU", "LV", "MT", "NL", "PO", "PT", "RO", "SE", "SI", "SK",
}

// CountrySet is a set of alpha-2 country codes
type CountrySet map[types.CountryCode]struct{}

// NewCountrySet builds a set from codes, normalizing each one.
// Empty codes are ignored.
func NewCountrySet(codes ...string) CountrySet {
	set := make(CountrySet, len(codes))
	for _, code := range codes {
		c := types.CountryCode(code).Normalize()
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}

// DefaultEUSet returns a fresh set built from DefaultEUCountries
func DefaultEUSet() CountrySet {
	return NewCountrySet(DefaultEUCountries...)
}

// Contains reports whether code is in the set
func (s CountrySet) Contains(code types.CountryCode) bool {
	_, ok := s[code.Normalize()]
	return ok
}

// Codes returns the members in sorted order
func (s CountrySet) Codes() []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, string(code))
	}
	sort.Strings(out)
	return out
}
