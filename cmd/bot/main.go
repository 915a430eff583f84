package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hray3182/LedgerLine/internal/app"
	"github.com/hray3182/LedgerLine/internal/bot"
	"github.com/hray3182/LedgerLine/internal/bot/handlers"
	"github.com/hray3182/LedgerLine/internal/config"
	"github.com/hray3182/LedgerLine/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	repos := &handlers.Repositories{
		User:        a.Users,
		Config:      a.Configs,
		Transaction: a.Transactions,
	}
	b, err := bot.New(cfg.TelegramToken, repos, a.Pipeline, cfg.IsUserAllowed, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	log.Info().Msg("starting bot")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped")
	}
	log.Info().Msg("bot exited")
}
