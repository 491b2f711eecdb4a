package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Supported storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string   `env:"PORT"                 envDefault:"3000"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogFormat   string   `env:"LOG_FORMAT"           envDefault:"json"`
	LogLevel    string   `env:"LOG_LEVEL"            envDefault:"info"`
	BcryptCost  int      `env:"BCRYPT_COST"          envDefault:"10"`

	Storage StorageConfig
	Token   TokenConfig
	Upload  UploadConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
}

// StorageConfig selects and configures the account store.
type StorageConfig struct {
	Driver         string        `env:"STORAGE_DRIVER"     envDefault:"mongo"`
	MongoURI       string        `env:"MONGODB_URI"`
	MongoDatabase  string        `env:"MONGODB_DATABASE"   envDefault:"bodegita"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// TokenConfig configures session token signing.
type TokenConfig struct {
	Secret string        `env:"JWT_SECRET"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"bodegita"`
	TTL    time.Duration `env:"JWT_TTL"    envDefault:"1h"`
}

// UploadConfig configures image uploads.
type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR"       envDefault:"uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

// RedisConfig enables the token revocation list when URL is set.
type RedisConfig struct {
	URL string `env:"URL"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Storage.Normalize()
	c.Token.Secret = strings.TrimSpace(c.Token.Secret)
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	origins := c.CORSOrigins[:0]
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSOrigins = origins
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Token.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Token.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Normalize trims connection strings and lowercases the driver name.
func (s *StorageConfig) Normalize() {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	s.MongoURI = strings.TrimSpace(s.MongoURI)
	s.DatabaseURL = strings.TrimSpace(s.DatabaseURL)
}

// Validate checks the selected driver has what it needs to connect.
func (s StorageConfig) Validate() error {
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" {
			return errors.New("MONGODB_URI is required when STORAGE_DRIVER=mongo")
		}
		if strings.TrimSpace(s.MongoDatabase) == "" {
			return errors.New("MONGODB_DATABASE must not be empty")
		}
	case DriverPostgres:
		if s.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (valid options: %s, %s)", s.Driver, DriverMongo, DriverPostgres)
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// RevocationEnabled reports whether a Redis denylist is configured.
func (c Config) RevocationEnabled() bool {
	return strings.TrimSpace(c.Redis.URL) != ""
}
