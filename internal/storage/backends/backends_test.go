package backends

import (
	"context"
	"testing"

	"github.com/bodegita/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnknownDriver(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Driver: "sqlite"})
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestOpen_PostgresBadURL(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{
		Driver:      config.DriverPostgres,
		DatabaseURL: "not a url ::",
	})
	require.Error(t, err)
	assert.Nil(t, store)
}
