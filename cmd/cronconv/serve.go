package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cronconv/internal/app"
	"cronconv/internal/transport/telegram"
	logx "cronconv/pkg/logx"
	"cronconv/pkg/systemd"
)

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat frontends until SIGINT/SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, cfgm, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logCfg := app.LogConfig(cfg)
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	logs, log := logx.NewService(logCfg)
	defer func() { _ = logs.Close() }()

	store, err := app.OpenStore(cfg, log)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, log, store)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return err
	}

	var fronts []app.Frontend
	if cfg.Telegram != nil && cfg.Telegram.Enabled {
		bot, err := telegram.New(cfg.Telegram, a, log)
		if err != nil {
			_ = a.Close()
			return err
		}
		fronts = append(fronts, bot)
	}
	if len(fronts) == 0 {
		_ = a.Close()
		return errors.New("nothing to serve: enable telegram in the config")
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	rt := app.NewRuntime(a, cfgm, logs, log, fronts...)
	if err := rt.Start(ctx); err != nil {
		_ = a.Close()
		return err
	}

	sd := systemd.Notifier{}
	if _, err := sd.Ready(); err != nil {
		log.Warn("sd_notify ready failed", logx.Err(err))
	}
	_, _ = sd.Status("serving")
	go func() {
		if err := sd.Watchdog(ctx); err != nil {
			log.Warn("systemd watchdog stopped", logx.Err(err))
		}
	}()

	var reason app.StopReason
	select {
	case sig := <-sigCh:
		reason = app.StopSIGINT
		if sig == syscall.SIGTERM {
			reason = app.StopSIGTERM
		}
	case <-rt.Done():
		reason = app.StopFatalError
	case <-parent.Done():
		reason = app.StopAppStop
	}
	log.Info("shutdown requested", logx.String("reason", string(reason)))
	_, _ = sd.Stopping()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	stopErr := rt.Stop(stopCtx, reason)
	cancel()

	if err := rt.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return stopErr
}
