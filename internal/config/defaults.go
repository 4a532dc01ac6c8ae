package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cronconv/internal/cronexpr"
)

const (
	DefaultNextCount    = cronexpr.DefaultCount
	DefaultHistoryLimit = 20
	DefaultRatePerSec   = 1.0
	DefaultBurst        = 5
)

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{Logging: LoggingConfig{Level: "info", Console: true}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills omitted fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Engine.TimeLayout == "" {
		cfg.Engine.TimeLayout = cronexpr.DefaultLayout
	}
	if cfg.Engine.NextCount <= 0 {
		cfg.Engine.NextCount = DefaultNextCount
	}
	if strings.TrimSpace(cfg.Engine.DefaultFrom) == "" {
		cfg.Engine.DefaultFrom = string(cronexpr.Unix5)
	}
	if strings.TrimSpace(cfg.Engine.DefaultTo) == "" {
		cfg.Engine.DefaultTo = string(cronexpr.Quartz)
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		cfg.Storage.Driver = "none"
	}
	if cfg.Storage.HistoryLimit <= 0 {
		cfg.Storage.HistoryLimit = DefaultHistoryLimit
	}
	if tg := cfg.Telegram; tg != nil {
		if tg.RatePerSec <= 0 {
			tg.RatePerSec = DefaultRatePerSec
		}
		if tg.Burst <= 0 {
			tg.Burst = DefaultBurst
		}
	}
}

// Validate reports every problem found in cfg, joined.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	var errs []error
	if _, err := LoadLocation(cfg.Engine.Timezone); err != nil {
		errs = append(errs, err)
	}
	if _, err := cronexpr.ParseDialect(cfg.Engine.DefaultFrom); err != nil {
		errs = append(errs, fmt.Errorf("engine.default_from: %w", err))
	}
	if _, err := cronexpr.ParseDialect(cfg.Engine.DefaultTo); err != nil {
		errs = append(errs, fmt.Errorf("engine.default_to: %w", err))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "none":
	case "file", "sqlite", "sqlite3", "bolt", "bbolt":
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			errs = append(errs, errors.New("storage.path is required when storage.driver is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", cfg.Storage.Driver))
	}
	if _, err := ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
		errs = append(errs, err)
	}
	if tg := cfg.Telegram; tg != nil && tg.Enabled {
		if strings.TrimSpace(tg.Token) == "" {
			errs = append(errs, errors.New("telegram.token is required when telegram.enabled is true"))
		}
		if _, err := ParseDurationField("telegram.poll_timeout", tg.PollTimeout); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadLocation resolves engine.timezone; empty means time.Local.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("engine.timezone: %w", err)
	}
	return loc, nil
}
