package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/ppguess/internal/apperr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogFormat, EnvPlotDir, EnvHue, EnvMaxDimension, EnvRegion} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.PlotDir)
	assert.False(t, cfg.HueProfile)
	assert.Zero(t, cfg.MaxDimension)
	assert.Empty(t, cfg.Region)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvPlotDir, "/tmp/plots")
	t.Setenv(EnvHue, "true")
	t.Setenv(EnvMaxDimension, "1024")
	t.Setenv(EnvRegion, "center")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/plots", cfg.PlotDir)
	assert.True(t, cfg.HueProfile)
	assert.Equal(t, 1024, cfg.MaxDimension)
	assert.Equal(t, "center", cfg.Region)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that exist, even when empty
	os.Unsetenv(EnvPlotDir)
	defer os.Unsetenv(EnvPlotDir)

	path := filepath.Join(t.TempDir(), "ppguess.env")
	require.NoError(t, os.WriteFile(path, []byte("PPGUESS_PLOT_DIR=out\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.PlotDir)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfig))
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad level", EnvLogLevel, "chatty"},
		{"bad format", EnvLogFormat, "xml"},
		{"bad bool", EnvHue, "maybe"},
		{"bad int", EnvMaxDimension, "big"},
		{"negative dimension", EnvMaxDimension, "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindConfig))
		})
	}
}
