// Command createsuper seeds a super-admin account from SUPER_* variables.
// Running it again for an existing cedula leaves the account untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/config"
	"github.com/bodegita/backend/internal/logging"
	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage/backends"
	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// settings is the subset of server configuration this command needs; it
// does not require JWT_SECRET.
type settings struct {
	Storage    config.StorageConfig
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
	LogFormat  string `env:"LOG_FORMAT"  envDefault:"text"`

	Super superAccount
}

type superAccount struct {
	Identifier string `env:"SUPER_IDENTIFIER,required"`
	Email      string `env:"SUPER_EMAIL,required"`
	Name       string `env:"SUPER_NAME"  envDefault:"Super Admin"`
	Phone      string `env:"SUPER_PHONE,required"`
	Password   string `env:"SUPER_PASSWORD,required,unset"`
}

func main() {
	_ = godotenv.Load()

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse env", "error", err)
		os.Exit(1)
	}
	cfg.Storage.Normalize()
	logger := logging.Setup("bodegita-createsuper", cfg.LogFormat, slog.LevelInfo, os.Stderr)
	if err := cfg.Storage.Validate(); err != nil {
		logger.Error("invalid storage config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("create super-admin", "error", err)
		os.Exit(1)
	}
}

func run(cfg settings, logger *slog.Logger) error {
	super := cfg.Super
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := backends.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close(context.WithoutCancel(ctx))

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	account, created, err := auth.NewRegistrar(store, hasher).EnsureAccount(ctx, auth.RegisterInput{
		Identifier: super.Identifier,
		Email:      super.Email,
		Name:       super.Name,
		Phone:      super.Phone,
		Password:   super.Password,
		Level:      models.LevelSuperAdmin,
	})
	if errors.Is(err, auth.ErrMalformedInput) {
		return fmt.Errorf("invalid super-admin data: %w", err)
	}
	if err != nil {
		return err
	}

	if !created {
		logger.Info("account already exists; nothing to do", "cedula", account.Identifier, "nivel", int(account.Level))
		return nil
	}
	logger.Info("super-admin created", "cedula", account.Identifier, "correo", account.Email)
	return nil
}
