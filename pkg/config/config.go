// Package config holds the user-facing defaults for lss, loaded from
// lss.toml and LSS_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config describes all configuration options
type Config struct {
	Color string `default:"auto" usage:"Colorize output (auto, always or never)"`
	Log   struct {
		Level string `default:"warn"`
	}
	Humanize bool `default:"false" usage:"Show human readable sizes by default"`
	All      bool `default:"false" usage:"Show hidden entries by default"`
	Long     bool `default:"false" usage:"Use the long format by default"`
	SizeSort bool `default:"false" usage:"Sort by size by default"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object
func Loader() (*Config, *aconfig.Loader) {
	files := []string{"lss.toml"}
	if configDir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(configDir, "lss", "lss.toml"))
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "LSS",
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return eris.Errorf("invalid value for color: %s (must be one of auto, always or never)", cfg.Color)
	}

	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf("invalid value for log.level: %s", cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// ColorEnabled resolves the color setting against the given terminal state
func (cfg *Config) ColorEnabled(tty bool) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}
