// Command mockapi serves the reference finance service the gateway talks to.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dompet/finance-gateway/internal/api"
	"github.com/dompet/finance-gateway/internal/api/ledger"
	"github.com/dompet/finance-gateway/internal/infrastructure/config"
	"github.com/dompet/finance-gateway/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "finance-mockapi",
	})

	secret := cfg.Server.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SECRET is required in production")
		}
		// Tokens do not survive a restart; neither does the ledger.
		secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret")
	}

	router := api.NewRouter(api.Deps{
		Ledger:      ledger.New(),
		Tokens:      ledger.NewTokenIssuer(secret, cfg.Server.TokenTTL),
		Log:         logger.Component("http"),
		RecentLimit: cfg.API.RecentLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting finance service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("stopped")
}
