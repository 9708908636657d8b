// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"amath-info-bot/internal/config"
	"amath-info-bot/internal/domain/ports/adapter"
	tele "amath-info-bot/internal/infra/adapters/telegram"
	httpapi "amath-info-bot/internal/infra/http"
	"amath-info-bot/internal/infra/logging"
	"amath-info-bot/internal/infra/menu"
	"amath-info-bot/internal/infra/metrics"
	"amath-info-bot/internal/usecase"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, replies are logged instead of sent")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Bool("dev", cfg.Runtime.Dev).
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).
		Msg("starting")

	// ---- Metrics ----
	if cfg.Metrics.Enabled {
		metrics.MustRegister()
		metrics.SetBuildInfo(version, commit)
	}

	// ---- Reply table ----
	table, err := menu.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("reply table")
	}
	logger.Info().Strs("commands", table.Commands()).Msg("reply table loaded")

	// ---- Telegram ----
	var bot adapter.TelegramBotAdapter
	if cfg.Runtime.Dev {
		bot = tele.NewNoopBotAdapter(logger)
	} else {
		bot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, nil, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
	}

	// ---- Use cases ----
	dispatchUC := usecase.NewDispatchUseCase(table, bot, cfg.Bot.AnswerCallbacks, logger)
	webhookUC := usecase.NewWebhookUseCase(bot, logger)

	// ---- HTTP server ----
	srv := httpapi.NewServer(cfg, dispatchUC, logger)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	// Registration must not block serving; a failure leaves the previous webhook in place.
	go registerWebhook(ctx, webhookUC, cfg.Bot.WebhookURL, logger)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		logger.Info().Str("signal", sig.String()).Msg("shutdown requested")
	case err := <-errc:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	logger.Info().Msg("bye")
}

func registerWebhook(ctx context.Context, uc usecase.WebhookUseCase, url string, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := uc.Register(ctx, url); err != nil {
		logger.Error().Err(err).Str("url", url).Msg("webhook registration failed")
	}
}
