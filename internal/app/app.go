package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"cronconv/internal/cronexpr"
	"cronconv/internal/storage"
	logx "cronconv/pkg/logx"
)

// Channels recorded in history.
const (
	ChannelCLI      = "cli"
	ChannelTelegram = "telegram"
)

// ErrHistoryDisabled is returned by History when no store is configured.
var ErrHistoryDisabled = errors.New("conversion history is disabled (storage.driver is none)")

// Origin identifies who asked for a conversion.
type Origin struct {
	Channel string
	Actor   string
}

// App is the front-end independent service: conversions, explanations and
// history. It is safe for concurrent use.
type App struct {
	log   logx.Logger
	store storage.Store
	clock cronexpr.Clock

	mu  sync.RWMutex
	set settings
}

type Option func(*App)

// WithClock pins "now" for fire-time projection.
func WithClock(c cronexpr.Clock) Option {
	return func(a *App) { a.clock = c }
}

// New builds an App from cfg. store may be nil (history disabled).
func New(cfg *Config, log logx.Logger, store storage.Store, opts ...Option) (*App, error) {
	a := &App{log: log.With(logx.String("comp", "app")), store: store}
	for _, o := range opts {
		o(a)
	}
	set, err := mapSettings(cfg, a.clock)
	if err != nil {
		return nil, err
	}
	a.set = set
	return a, nil
}

func (a *App) settings() settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.set
}

// ApplyConfig swaps engine settings and defaults. Storage is not reopened.
func (a *App) ApplyConfig(cfg *Config) error {
	set, err := mapSettings(cfg, a.clock)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.set = set
	a.mu.Unlock()
	a.log.Debug("engine settings applied",
		logx.String("tz", set.engine.Location().String()),
		logx.String("default_from", set.defaultFrom.String()),
		logx.String("default_to", set.defaultTo.String()),
	)
	return nil
}

// Defaults returns the configured default source and target dialects.
func (a *App) Defaults() (from, to cronexpr.Dialect) {
	s := a.settings()
	return s.defaultFrom, s.defaultTo
}

// Engine returns the current fire-time engine.
func (a *App) Engine() *cronexpr.Engine { return a.settings().engine }

// HistoryEnabled reports whether conversions are persisted.
func (a *App) HistoryEnabled() bool { return a.store != nil }

// ResolveDialect maps user input to a dialect. Blank input yields def.
// Unknown names are passed through lowercased so conversion reports them
// as unsupported instead of failing here.
func ResolveDialect(raw string, def cronexpr.Dialect) cronexpr.Dialect {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	if d, err := cronexpr.ParseDialect(raw); err == nil {
		return d
	}
	return cronexpr.Dialect(strings.ToLower(strings.TrimSpace(raw)))
}

// Convert rewrites expr and records the attempt. A failing history write is
// logged and does not change the result.
func (a *App) Convert(ctx context.Context, origin Origin, expr, from, to string) cronexpr.ConversionResult {
	s := a.settings()
	fd := ResolveDialect(from, s.defaultFrom)
	td := ResolveDialect(to, s.defaultTo)

	start := time.Now()
	res := cronexpr.ConvertResult(expr, fd, td)
	fields := []logx.Field{
		logx.String("channel", origin.Channel),
		logx.String("from", fd.String()),
		logx.String("to", td.String()),
		logx.Bool("ok", res.OK),
		logx.Duration("took", time.Since(start)),
	}
	if res.OK {
		a.log.Debug("conversion", fields...)
	} else {
		a.log.Info("conversion rejected", append(fields, logx.String("reason", res.Reason))...)
	}

	if a.store != nil {
		_, err := a.store.Append(ctx, storage.Record{
			Channel:    origin.Channel,
			Actor:      origin.Actor,
			Expression: expr,
			From:       fd.String(),
			To:         td.String(),
			OK:         res.OK,
			Result:     res.Expression,
			Reason:     res.Reason,
		})
		if err != nil {
			a.log.Warn("history append failed", logx.Err(err))
		}
	}
	return res
}

// Explain validates, describes and projects fire times for expr.
func (a *App) Explain(expr, dialect string) cronexpr.ParseResult {
	s := a.settings()
	return s.engine.Parse(expr, ResolveDialect(dialect, s.defaultFrom))
}

// Validate returns nil when expr is valid in dialect.
func (a *App) Validate(expr, dialect string) error {
	s := a.settings()
	return cronexpr.Check(expr, ResolveDialect(dialect, s.defaultFrom))
}

// Next projects n fire times and renders them with the configured layout.
// Times found before ErrNoOccurrence are still returned.
func (a *App) Next(expr, dialect string, n int) ([]string, error) {
	s := a.settings()
	if n <= 0 {
		n = cronexpr.DefaultCount
	}
	times, err := s.engine.Next(expr, ResolveDialect(dialect, s.defaultFrom), n)
	return s.engine.Format(times), err
}

// Templates returns the common templates for dialect (blank means every dialect).
func (a *App) Templates(dialect string) map[cronexpr.Dialect][]cronexpr.Template {
	out := map[cronexpr.Dialect][]cronexpr.Template{}
	if strings.TrimSpace(dialect) != "" {
		d := ResolveDialect(dialect, "")
		if t := cronexpr.Templates(d); t != nil {
			out[d] = t
		}
		return out
	}
	for _, d := range cronexpr.Dialects() {
		out[d] = cronexpr.Templates(d)
	}
	return out
}

// History returns up to n recorded conversions, newest first. n <= 0 uses
// storage.history_limit.
func (a *App) History(ctx context.Context, n int) ([]storage.Record, error) {
	if a.store == nil {
		return nil, ErrHistoryDisabled
	}
	if n <= 0 {
		n = a.settings().historyLimit
	}
	return a.store.Recent(ctx, n)
}

// Close releases the history store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
