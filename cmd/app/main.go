// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"line-relay/internal/config"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/domain/ports/repository"
	"line-relay/internal/infra/adapters/line"
	"line-relay/internal/infra/api"
	pg "line-relay/internal/infra/db/postgres"
	"line-relay/internal/infra/i18n"
	"line-relay/internal/infra/logging"
	"line-relay/internal/infra/memory"
	"line-relay/internal/infra/metrics"
	red "line-relay/internal/infra/redis"
	"line-relay/internal/usecase"
)

// Set at build time via -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, dry-run LINE client)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit, cfg.Registry.Backend)

	// ---- Registry ----
	registry, closeRegistry, err := buildRegistry(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Registry.Backend).Msg("registry")
	}
	defer closeRegistry()

	// ---- LINE ----
	var messenger adapter.Messenger
	if cfg.Line.DryRun || cfg.Runtime.Dev {
		logger.Warn().Msg("LINE dry-run: replies and pushes are logged, not sent")
		messenger = line.NewNoopClient(logger, cfg.Runtime.Dev)
	} else {
		messenger, err = line.NewClient(cfg.Line, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("line client")
		}
	}

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Reply.Lang)
	if err != nil {
		logger.Fatal().Err(err).Str("lang", cfg.Reply.Lang).Msg("translations")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(registry, logger, cfg.Runtime.Dev)
	webhookUC := usecase.NewWebhookUseCase(userUC, messenger, tr, logger)
	pushUC := usecase.NewPushUseCase(messenger, logger, cfg.Runtime.Dev)

	// ---- HTTP ----
	srv := api.NewServer(webhookUC, pushUC, userUC, cfg.Line.ChannelSecret, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Str("registry", cfg.Registry.Backend).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// ---- Graceful shutdown ----
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		logger.Error().Err(err).Msg("http server error")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

// buildRegistry opens the configured backend. The returned func releases
// its connections.
func buildRegistry(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.UserRegistry, func(), error) {
	switch cfg.Registry.Backend {
	case config.BackendRedis:
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return red.NewUserRegistry(client, cfg.Registry.RedisKey), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		reg := pg.NewUserRegistry(pool)
		if err := reg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return reg, pool.Close, nil
	default:
		logger.Warn().Msg("memory registry: user ids are lost on restart")
		return memory.NewUserRegistry(), func() {}, nil
	}
}
