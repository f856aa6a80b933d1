package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderDefaults(t *testing.T) {
	cfg, loader := Loader()
	require.NoError(t, loader.Load())

	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Humanize)
	assert.False(t, cfg.All)
	assert.False(t, cfg.Long)
	assert.False(t, cfg.SizeSort)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel())
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("LSS_COLOR", "never")
	t.Setenv("LSS_HUMANIZE", "true")

	cfg, loader := Loader()
	require.NoError(t, loader.Load())

	assert.Equal(t, "never", cfg.Color)
	assert.True(t, cfg.Humanize)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{Color: "sometimes"}
	cfg.Log.Level = "warn"
	require.Error(t, cfg.Validate())

	cfg.Color = "auto"
	cfg.Log.Level = "loud"
	require.Error(t, cfg.Validate())
}

func TestColorEnabled(t *testing.T) {
	cfg := Config{Color: "always"}
	assert.True(t, cfg.ColorEnabled(false))

	cfg.Color = "never"
	assert.False(t, cfg.ColorEnabled(true))

	cfg.Color = "auto"
	assert.True(t, cfg.ColorEnabled(true))
	assert.False(t, cfg.ColorEnabled(false))
}
