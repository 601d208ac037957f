// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/lostfound/internal/match"
	"github.com/erazemk/lostfound/internal/notify"
)

// Environment variables.
const (
	EnvDB                 = "LOSTFOUND_DB"
	EnvLog                = "LOSTFOUND_LOG"
	EnvMinScore           = "LOSTFOUND_MIN_SCORE"
	EnvHighMatchThreshold = "LOSTFOUND_HIGH_MATCH_THRESHOLD"
	EnvReminderDays       = "LOSTFOUND_REMINDER_DAYS"
	EnvUrgentReminderDays = "LOSTFOUND_URGENT_REMINDER_DAYS"
)

// DefaultDBPath is used when no database path is configured.
const DefaultDBPath = "lostfound.sqlite3"

// Config holds everything needed to run the lost-and-found service.
type Config struct {
	DBPath  string
	LogPath string
	Match   match.Config
	Notify  notify.Config
}

// Load reads envFile if it exists, then builds a Config from the environment.
// Variables already set in the environment take precedence over the file.
// An empty envFile means ".env".
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables alone. Unset variables
// fall back to the defaults; malformed numbers are errors.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:  GetEnv(EnvDB, DefaultDBPath),
		LogPath: GetEnv(EnvLog, ""),
		Match:   match.DefaultConfig(),
		Notify:  notify.DefaultConfig(),
	}

	var err error
	if cfg.Match.MinScore, err = GetEnvFloat(EnvMinScore, cfg.Match.MinScore); err != nil {
		return Config{}, err
	}
	if cfg.Notify.HighMatchThreshold, err = GetEnvFloat(EnvHighMatchThreshold, cfg.Notify.HighMatchThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Notify.ReminderDays, err = GetEnvInt(EnvReminderDays, cfg.Notify.ReminderDays); err != nil {
		return Config{}, err
	}
	if cfg.Notify.UrgentReminderDays, err = GetEnvInt(EnvUrgentReminderDays, cfg.Notify.UrgentReminderDays); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if math.IsNaN(c.Match.MinScore) || c.Match.MinScore < 0 || c.Match.MinScore > match.MaxAggregateScore {
		return fmt.Errorf("min score must be within [0, %v], got %v", match.MaxAggregateScore, c.Match.MinScore)
	}
	return c.Notify.Validate()
}

// GetEnv returns the value of key, or defaultValue when it is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns the integer value of key, or defaultValue when it is unset.
func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

// GetEnvFloat returns the float value of key, or defaultValue when it is unset.
func GetEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}
