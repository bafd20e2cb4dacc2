package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")

	logger, err := Build(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("rate table cached", zap.Int("currencies", 4))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"rate table cached"`)
	assert.Contains(t, string(data), `"currencies":4`)
}

func TestBuildFallsBackToInfoOnBadLevel(t *testing.T) {
	logger, err := Build(Config{Level: "chatty", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestSetReplacesGlobals(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Set(previous) })

	core, logs := observer.New(zapcore.WarnLevel)
	Set(zap.New(core))

	Warn("unpriced record", zap.Int("line", 2))
	Info("ignored")
	Error("listener failed")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "unpriced record", logs.All()[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
