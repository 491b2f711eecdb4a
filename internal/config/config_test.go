package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.HTTPAddress())
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "bodegita", cfg.Storage.MongoDatabase)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
	assert.Equal(t, "bodegita", cfg.Token.Issuer)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.RevocationEnabled())

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/bodegita")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Token.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.RevocationEnabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}, want: "JWT_SECRET"},
		{name: "missing mongo uri", env: map[string]string{"MONGODB_URI": ""}, want: "MONGODB_URI"},
		{name: "postgres without url", env: map[string]string{"STORAGE_DRIVER": "postgres", "DATABASE_URL": ""}, want: "DATABASE_URL"},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "sqlite"}, want: "STORAGE_DRIVER"},
		{name: "non-positive ttl", env: map[string]string{"JWT_TTL": "0s"}, want: "JWT_TTL"},
		{name: "bad ttl", env: map[string]string{"JWT_TTL": "soon"}, want: "TTL"},
		{name: "bcrypt cost", env: map[string]string{"BCRYPT_COST": "2"}, want: "BCRYPT_COST"},
		{name: "log format", env: map[string]string{"LOG_FORMAT": "xml"}, want: "LOG_FORMAT"},
		{name: "log level", env: map[string]string{"LOG_LEVEL": "chatty"}, want: "LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStorageConfig_Validate(t *testing.T) {
	cfg := StorageConfig{Driver: " Mongo ", MongoURI: "  ", MongoDatabase: "bodegita"}
	cfg.Normalize()
	assert.Equal(t, DriverMongo, cfg.Driver)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")

	cfg.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())

	assert.NoError(t, StorageConfig{Driver: DriverPostgres, DatabaseURL: "postgres://localhost/db"}.Validate())
}
