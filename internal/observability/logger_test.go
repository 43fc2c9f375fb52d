// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/touchforge/internal/config"
)

func baseConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "touchforge-test",
	}
}

func TestInitializeWritesToConsoleCore(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(baseConfig(), zapcore.AddSync(&buf))

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("engine ready", zap.Int("profiles", 2))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "engine ready")
	assert.Contains(t, out, `"profiles":2`)
	assert.Contains(t, out, "touchforge-test")
}

func TestInitializeRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := baseConfig()
	cfg.Level = "warn"

	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))

	logger := GetLogger()
	logger.Debug("invisible")
	logger.Info("also invisible")
	logger.Warn("visible")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "invisible")
	assert.Contains(t, out, "visible")
}

func TestInitializeInvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := baseConfig()
	cfg.Level = "shouting"

	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))

	logger := GetLogger()
	logger.Debug("filtered at info")
	logger.Info("passes at info")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "filtered at info")
	assert.Contains(t, out, "passes at info")
}

func TestInitializeIsIdempotent(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(baseConfig(), zapcore.AddSync(&first))
	Initialize(baseConfig(), zapcore.AddSync(&second))

	GetLogger().Info("only once")
	_ = GetLogger().Sync()

	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String(), "second Initialize must be a no-op")
}

func TestGetLoggerBeforeInitializeReturnsFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger, "callers must never receive a nil logger")
}
