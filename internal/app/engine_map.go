package app

import (
	"fmt"
	"strings"

	"cronconv/internal/config"
	"cronconv/internal/cronexpr"
)

// settings is everything App derives from config that can change on reload.
type settings struct {
	engine       *cronexpr.Engine
	defaultFrom  cronexpr.Dialect
	defaultTo    cronexpr.Dialect
	historyLimit int
}

func mapSettings(cfg *Config, clock cronexpr.Clock) (settings, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	loc, err := config.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return settings{}, err
	}
	from, err := dialectOrDefault(cfg.Engine.DefaultFrom, cronexpr.Unix5)
	if err != nil {
		return settings{}, fmt.Errorf("engine.default_from: %w", err)
	}
	to, err := dialectOrDefault(cfg.Engine.DefaultTo, cronexpr.Quartz)
	if err != nil {
		return settings{}, fmt.Errorf("engine.default_to: %w", err)
	}
	limit := cfg.Storage.HistoryLimit
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	eng := cronexpr.NewEngine(
		cronexpr.WithClock(clock),
		cronexpr.WithLocation(loc),
		cronexpr.WithLayout(cfg.Engine.TimeLayout),
		cronexpr.WithDefaultCount(cfg.Engine.NextCount),
	)
	return settings{engine: eng, defaultFrom: from, defaultTo: to, historyLimit: limit}, nil
}

func dialectOrDefault(raw string, def cronexpr.Dialect) (cronexpr.Dialect, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return cronexpr.ParseDialect(raw)
}
