// Package telegram runs the cron converter as a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"time"

	"cronconv/internal/app"
	"cronconv/internal/config"
	kit "cronconv/internal/transport"
	"cronconv/internal/transport/telegram/adapter"
	"cronconv/internal/transport/telegram/router"
	logx "cronconv/pkg/logx"
)

// Bot is an app.Frontend serving chat commands.
type Bot struct {
	log     logx.Logger
	adapter *adapter.Adapter
	router  *router.Router
}

// New builds the bot from cfg. The poll timeout is fixed at construction;
// allowed chats and rate limits follow config reloads.
func New(cfg *config.TelegramConfig, svc router.Service, log logx.Logger) (*Bot, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("telegram is not enabled")
	}
	log = log.With(logx.String("comp", "telegram"))
	poll, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := adapter.New(adapter.Config{Token: cfg.Token, PollTimeout: poll}, log.With(logx.String("comp", "telegram.adapter")))
	if err != nil {
		return nil, err
	}
	rt := router.New(log.With(logx.String("comp", "telegram.router")), ad, router.Options{
		AllowedChatIDs: cfg.AllowedChatIDs,
		RatePerSec:     cfg.RatePerSec,
		Burst:          cfg.Burst,
	})
	rt.SetRegistry(router.Commands(svc))
	return &Bot{log: log, adapter: ad, router: rt}, nil
}

func (b *Bot) Name() string { return "telegram" }

// Run polls and dispatches until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	updates := make(chan kit.Update, 256)
	if err := b.adapter.Start(ctx, updates); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = b.adapter.Stop(stopCtx)
		cancel()
	}()

	menuCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := b.adapter.UpdateMenuCommands(menuCtx, b.router.Menu()); err != nil {
		b.log.Warn("menu update failed", logx.Err(err))
	}
	cancel()

	return b.router.DispatchLoop(ctx, updates)
}

// ApplyConfig updates the allow-list and rate limits. Token and poll timeout
// changes need a restart.
func (b *Bot) ApplyConfig(cfg *app.Config) error {
	tg := cfg.Telegram
	if tg == nil {
		return nil
	}
	b.router.SetAllowedChats(tg.AllowedChatIDs)
	b.router.SetRate(tg.RatePerSec, tg.Burst)
	return nil
}
