package utilities

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFromString("debug"))
	assert.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("nonsense"))
}

func TestConfigFromEnv_DevDefaultsToDebug(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	cfg := ConfigFromEnv()
	assert.True(t, cfg.Dev)
	assert.Equal(t, "debug", cfg.Level)
}

func TestInit_WithRotatingFile(t *testing.T) {
	dir := t.TempDir()
	lg, err := Init(Config{Level: "info", File: filepath.Join(dir, "app.log")})
	require.NoError(t, err)
	lg.Sugar().Info("hello")
	_ = lg.Sync() // stdout sync can fail on some platforms; file sink is what matters here
}
