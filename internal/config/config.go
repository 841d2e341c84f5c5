// Package config loads ppguess settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ppguess/internal/apperr"
	"github.com/ironsheep/ppguess/internal/logger"
)

// Environment variable names.
const (
	EnvLogLevel     = "PPGUESS_LOG_LEVEL"
	EnvLogFormat    = "PPGUESS_LOG_FORMAT"
	EnvPlotDir      = "PPGUESS_PLOT_DIR"
	EnvHue          = "PPGUESS_HUE"
	EnvMaxDimension = "PPGUESS_MAX_DIMENSION"
	EnvRegion       = "PPGUESS_REGION"
)

type Config struct {
	LogLevel     string
	LogFormat    string
	PlotDir      string
	HueProfile   bool
	MaxDimension int
	Region       string
}

// Load reads an optional dotenv file and then the PPGUESS_* variables.
//
// With envFile empty, a ".env" in the working directory is used if present and
// silently skipped otherwise. A named envFile that cannot be read is an error.
// Variables already set in the process environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, apperr.NewConfigError("failed to read env file "+envFile, err)
	}

	cfg := &Config{
		LogLevel:  getEnvOrDefault(EnvLogLevel, "info"),
		LogFormat: getEnvOrDefault(EnvLogFormat, "text"),
		PlotDir:   os.Getenv(EnvPlotDir),
		Region:    os.Getenv(EnvRegion),
	}

	var err error
	if cfg.HueProfile, err = parseBoolOrDefault(EnvHue, false); err != nil {
		return nil, err
	}
	if cfg.MaxDimension, err = parseIntOrDefault(EnvMaxDimension, 0); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that the individual parsers cannot.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return apperr.NewConfigError("invalid "+EnvLogLevel, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return apperr.NewConfigError("invalid "+EnvLogFormat+": "+strconv.Quote(c.LogFormat), nil)
	}
	if c.MaxDimension < 0 {
		return apperr.NewConfigError(EnvMaxDimension+" must be >= 0 (got "+strconv.Itoa(c.MaxDimension)+")", nil)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperr.NewConfigError("invalid "+key, err)
	}
	return n, nil
}

func parseBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, apperr.NewConfigError("invalid "+key, err)
	}
	return b, nil
}
