package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-calc/internal/errors"
)

const input = `{"bin":"45717360","amount":"100.00","currency":"EUR"}
{"bin":"516793","amount":"50.00","currency":"USD"}
{"bin":"45417360","amount":"10000.00","currency":"JPY"}
{"bin":"41417360","amount":"130.00","currency":"USD"}
{"bin":"4745030","amount":"2000.00","currency":"GBP"}
{"bin":"4745031","amount":"20.00","currency":"CHF"}
`

func binlistServer(t *testing.T) *httptest.Server {
	t.Helper()
	countries := map[string]string{
		"/45717360": "DK",
		"/516793":   "LT",
		"/45417360": "JP",
		"/41417360": "US",
		"/4745030":  "GB",
		"/4745031":  "CH",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, ok := countries[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"country":{"alpha2":"` + code + `"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setup writes a config pointing at the fake binlist and a rate file
func setup(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	srv := binlistServer(t)

	ratesPath := filepath.Join(dir, "rates.json")
	require.NoError(t, os.WriteFile(ratesPath, []byte(`{"base":"EUR","rates":{"USD":1.0878,"GBP":0.8851,"JPY":139}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "input.txt"), []byte(input), 0644))

	configPath = filepath.Join(dir, "commission.hcl")
	cfg := `
lookup {
  binlist_url         = "` + srv.URL + `"
  requests_per_minute = 0
}
rates {
  file = "` + ratesPath + `"
}
logging {
  level = "error"
}
`
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0644))
	return dir, configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		outputFormat, ratesFile, euCountries = "", "", nil
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCalculateText(t *testing.T) {
	dir, configPath := setup(t)

	out, err := run(t, "--config", configPath, "calculate", filepath.Join(dir, "input.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n0.5\n1.44\n2.39\n45.19\n0\n", out)
}

func TestCalculateJSON(t *testing.T) {
	dir, configPath := setup(t)

	out, err := run(t, "--config", configPath, "calculate", "--format", "json", filepath.Join(dir, "input.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, `"run_id"`)
	assert.Contains(t, out, `"branch": "unpriced"`)
	assert.Equal(t, 1, strings.Count(out, `"reason"`))
}

func TestCalculateEUOverride(t *testing.T) {
	dir, configPath := setup(t)

	out, err := run(t, "--config", configPath, "calculate", "--eu-countries", "JP,US,GB,CH,DK,LT", filepath.Join(dir, "input.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n0.5\n100\n1.3\n20\n0.2\n", out)
}

func TestCalculateMissingInput(t *testing.T) {
	_, configPath := setup(t)

	_, err := run(t, "--config", configPath, "calculate", "invalidFile.json")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLookup(t *testing.T) {
	_, configPath := setup(t)

	out, err := run(t, "--config", configPath, "lookup", "45717360", "41417360")
	require.NoError(t, err)
	assert.Equal(t, "45717360\tDK\tEU\n41417360\tUS\tnon-EU\n", out)
}

func TestRates(t *testing.T) {
	_, configPath := setup(t)

	out, err := run(t, "--config", configPath, "rates")
	require.NoError(t, err)
	assert.Equal(t, "GBP\t0.8851\nJPY\t139\nUSD\t1.0878\n", out)
}
