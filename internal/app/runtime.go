package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cronconv/internal/runtime/supervisor"
	logx "cronconv/pkg/logx"
)

// Frontend is a long-running user surface (the Telegram bot).
type Frontend interface {
	Name() string
	Run(ctx context.Context) error
}

// Reconfigurable frontends receive every reloaded config.
type Reconfigurable interface {
	ApplyConfig(cfg *Config) error
}

// Runtime hosts the frontends and the config hot-reload loop for `serve`.
type Runtime struct {
	app    *App
	cfgm   *ConfigManager
	logs   *logx.Service
	log    logx.Logger
	fronts []Frontend

	sup *Supervisor
}

// NewRuntime wires a. cfgm may be nil when no config file is used; logs may
// be nil when logging is not reconfigurable.
func NewRuntime(a *App, cfgm *ConfigManager, logs *logx.Service, log logx.Logger, fronts ...Frontend) *Runtime {
	return &Runtime{
		app:    a,
		cfgm:   cfgm,
		logs:   logs,
		log:    log.With(logx.String("comp", "runtime")),
		fronts: fronts,
	}
}

// Done is closed when the runtime context is canceled (fatal error or Stop).
func (r *Runtime) Done() <-chan struct{} {
	if r.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor.
func (r *Runtime) Err() error {
	if r.sup == nil {
		return nil
	}
	return r.sup.Err()
}

func (r *Runtime) Start(ctx context.Context) error {
	r.sup = NewSupervisor(ctx, WithLogger(r.log), WithCancelOnError(true))

	for _, f := range r.fronts {
		r.sup.GoRestart(f.Name(), f.Run,
			supervisor.WithRestartBackoff(time.Second, 30*time.Second),
			supervisor.WithMaxRestarts(10),
		)
	}

	if r.cfgm != nil && strings.TrimSpace(r.cfgm.Path()) != "" {
		r.cfgm.SetLogger(r.log.With(logx.String("comp", "config")))
		sub := r.cfgm.Subscribe(8)
		r.sup.Go0("config.reload", func(c context.Context) {
			defer r.cfgm.Unsubscribe(sub)
			last := r.cfgm.Get()
			for {
				select {
				case <-c.Done():
					return
				case next, ok := <-sub:
					if !ok {
						return
					}
					r.apply(last, next)
					last = next
				}
			}
		})
		r.sup.Go("config.watch", r.cfgm.Watch)
	}

	r.log.Info("runtime started", logx.Int("frontends", len(r.fronts)))
	return nil
}

// apply pushes a reloaded config to logging, the app and every
// reconfigurable frontend.
func (r *Runtime) apply(prev, next *Config) {
	if next == nil {
		return
	}
	sections, attrs := SummarizeConfigChange(prev, next)
	if len(sections) == 0 {
		r.log.Info("config reloaded (no changes)")
		return
	}
	if slices.Contains(sections, "storage") {
		r.log.Warn("storage config changed; restart required for changes to take effect")
	}
	if r.logs != nil && slices.Contains(sections, "logging") {
		r.logs.Apply(LogConfig(next))
	}
	if err := r.app.ApplyConfig(next); err != nil {
		r.log.Warn("invalid engine config; keeping previous", logx.Err(err))
	}
	for _, f := range r.fronts {
		rc, ok := f.(Reconfigurable)
		if !ok {
			continue
		}
		if err := rc.ApplyConfig(next); err != nil {
			r.log.Warn("frontend rejected config", logx.String("name", f.Name()), logx.Err(err))
		}
	}
	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	r.log.Info("config reloaded", fields...)
}

// Stop cancels every goroutine, waits within ctx and closes the store.
func (r *Runtime) Stop(ctx context.Context, reason StopReason) error {
	if reason == "" {
		reason = StopUnknown
	}
	r.log.Info("stopping", logx.String("reason", string(reason)))
	var firstErr error
	if r.sup != nil {
		r.sup.Cancel()
		waitCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := r.sup.Wait(waitCtx); err != nil {
			r.log.Warn("supervisor wait", logx.Err(err))
			firstErr = err
		}
		cancel()
	}
	if err := r.app.Close(); err != nil {
		r.log.Warn("close storage", logx.Err(err))
		if firstErr == nil {
			firstErr = fmt.Errorf("close storage: %w", err)
		}
	}
	r.log.Info("stopped")
	return firstErr
}
