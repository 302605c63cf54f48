package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "storage.data_dir", typ: kString, env: "NINJA_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "content.dir", typ: kString, env: "NINJA_CONTENT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Content.Dir = v.(string) },
		extract: func(cfg Config) any { return cfg.Content.Dir },
	},
	{
		key: "srs.mastered_interval_days", typ: kInt, env: "NINJA_SRS_MASTERED_INTERVAL_DAYS",
		apply:   func(cfg *Config, v any) { cfg.SRS.MasteredIntervalDays = v.(int) },
		extract: func(cfg Config) any { return cfg.SRS.MasteredIntervalDays },
	},
	{
		key: "srs.well_known_stability", typ: kFloat, env: "NINJA_SRS_WELL_KNOWN_STABILITY",
		apply:   func(cfg *Config, v any) { cfg.SRS.WellKnownStability = v.(float64) },
		extract: func(cfg Config) any { return cfg.SRS.WellKnownStability },
	},
	{
		key: "srs.default_mode", typ: kString, env: "NINJA_SRS_DEFAULT_MODE",
		apply:   func(cfg *Config, v any) { cfg.SRS.DefaultMode = v.(string) },
		extract: func(cfg Config) any { return cfg.SRS.DefaultMode },
	},
	{
		key: "import.poll_interval", typ: kString, env: "NINJA_IMPORT_POLL_INTERVAL",
		apply:   func(cfg *Config, v any) { cfg.Import.PollInterval = v.(string) },
		extract: func(cfg Config) any { return cfg.Import.PollInterval },
	},
	{
		key: "log.level", typ: kString, env: "NINJA_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kFloat:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					s.apply(cfg, f)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse float from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
