// Package config loads application configuration from a JSON config file at
// $XDG_CONFIG_HOME/ninja/config.json, with NINJA_* environment variables
// overriding file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dillpickleschmidt/nihongo-ninja-tanstack-sub005/internal/srs"
)

type Config struct {
	Storage StorageConfig
	Content ContentConfig
	SRS     SRSConfig
	Import  ImportConfig
	Log     LogConfig
}

type StorageConfig struct {
	DataDir string
}

type ContentConfig struct {
	// Dir holds the catalog files (vocabulary.json, kanji.json, radicals.json).
	Dir string
}

type SRSConfig struct {
	// MasteredIntervalDays is the import-flow threshold: Review cards whose
	// scheduled interval reaches this many days classify as mastered.
	MasteredIntervalDays int
	// WellKnownStability is the hierarchy-flow threshold on card stability.
	// Configured separately from MasteredIntervalDays even though both
	// default to 21; they bucket different quantities.
	WellKnownStability float64
	// DefaultMode is the practice mode bulk operations apply to.
	DefaultMode string
}

type ImportConfig struct {
	// PollInterval is the worker's queue poll interval (Go duration string).
	PollInterval string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Storage: StorageConfig{DataDir: dataDir},
		Content: ContentConfig{Dir: filepath.Join(dataDir, "content")},
		SRS: SRSConfig{
			MasteredIntervalDays: srs.DefaultMasteredIntervalDays,
			WellKnownStability:   srs.DefaultWellKnownStability,
			DefaultMode:          string(srs.ModeMeanings),
		},
		Import: ImportConfig{PollInterval: "500ms"},
		Log:    LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "ninja-data"
		}
	}
	return filepath.Join(dir, "ninja")
}

// Load reads configuration from the config file and environment.
// Environment variables (NINJA_*) override file values.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.SRS.MasteredIntervalDays <= 0 {
		return fmt.Errorf("config: srs.mastered_interval_days must be positive, got %d", cfg.SRS.MasteredIntervalDays)
	}
	if cfg.SRS.WellKnownStability <= 0 {
		return fmt.Errorf("config: srs.well_known_stability must be positive, got %v", cfg.SRS.WellKnownStability)
	}
	switch srs.PracticeMode(cfg.SRS.DefaultMode) {
	case srs.ModeMeanings, srs.ModeSpellings:
	default:
		return fmt.Errorf("config: srs.default_mode must be %q or %q, got %q", srs.ModeMeanings, srs.ModeSpellings, cfg.SRS.DefaultMode)
	}
	return nil
}
