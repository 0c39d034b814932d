package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cropguard/backend/internal/assessment"
	"github.com/cropguard/backend/internal/config"
	httpapi "github.com/cropguard/backend/internal/http"
	"github.com/cropguard/backend/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "cropguard").Logger()

	client, mode := webhook.FromURL(cfg.WebhookURL, cfg.RequestTimeout)
	if mode == webhook.ModeMock {
		logger.Info().Msg("WEBHOOK_URL not set, using mock analysis client")
	}

	sessions := assessment.NewRegistry(client, logger, cfg.SessionTTL, cfg.DebugBodyLimit)
	router := httpapi.Router(cfg, sessions, mode, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("webhook", mode).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
