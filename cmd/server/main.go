package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/config"
	"github.com/bodegita/backend/internal/logging"
	"github.com/bodegita/backend/internal/server"
	"github.com/bodegita/backend/internal/storage/backends"
	"github.com/bodegita/backend/internal/storage/revocation"
	"github.com/joho/godotenv"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger := logging.Setup("bodegita-backend", cfg.LogFormat, level, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backends.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()
	logger.Info("storage ready", "driver", cfg.Storage.Driver, "database", store.Name())

	var revocations auth.RevocationList
	if cfg.RevocationEnabled() {
		denylist, err := revocation.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("init revocation list: %w", err)
		}
		defer denylist.Close()
		revocations = denylist
		logger.Info("token revocation enabled")
	}

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("init password hasher: %w", err)
	}

	srv := server.New(cfg, server.Deps{
		Store:       store,
		Tokens:      auth.NewTokenManager(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.TTL),
		Verifier:    auth.NewCredentialVerifier(store, hasher),
		Registrar:   auth.NewRegistrar(store, hasher),
		Revocations: revocations,
		Logger:      logger,
		Version:     version,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bodegita backend listening", "addr", cfg.HTTPAddress(), "version", version)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
