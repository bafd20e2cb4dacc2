package country

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-calc/core/types"
	"commission-calc/internal/errors"
)

func TestStaticLongestPrefix(t *testing.T) {
	lookup := NewStatic(map[string]string{
		"4":        "us",
		"4571":     "DK",
		"45717360": "FI",
	})

	tests := []struct {
		bin  string
		want types.CountryCode
	}{
		{bin: "45717360", want: "FI"},
		{bin: "45719999", want: "DK"},
		{bin: "41417360", want: "US"},
	}
	for _, tt := range tests {
		t.Run(tt.bin, func(t *testing.T) {
			got, err := lookup.Country(context.Background(), tt.bin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := lookup.Country(context.Background(), "516793")
	assert.True(t, errors.IsType(err, errors.TypeLookup))
}
