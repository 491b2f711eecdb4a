package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAccountIndexesAreUnique(t *testing.T) {
	indexes := accountIndexes()
	require.Len(t, indexes, 3)

	var fields []string
	for _, idx := range indexes {
		keys, ok := idx.Keys.(bson.D)
		require.True(t, ok)
		require.Len(t, keys, 1)
		fields = append(fields, keys[0].Key)
	}
	assert.ElementsMatch(t, []string{"cedula", "correo", "telefono"}, fields)
}

// TestStoreIntegration runs against a live server when MONGODB_TEST_URI is set.
func TestStoreIntegration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("set MONGODB_TEST_URI to run the mongo integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("bodegita_test_%d", time.Now().UnixNano())
	s, err := NewAccountStore(ctx, uri, Options{Database: dbName, ServerSelectionTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close(context.Background())
	}()

	account := models.Account{
		Identifier:   "U1",
		Email:        "u1@example.com",
		Name:         "User One",
		Phone:        "5550001",
		PasswordHash: "hash",
		Level:        models.LevelStandard,
	}
	created, err := s.CreateAccount(ctx, account)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	dup := account
	dup.Identifier = "U2"
	_, err = s.CreateAccount(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindByIdentifier(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)
	assert.Equal(t, models.LevelStandard, found.Level)

	_, err = s.FindByIdentifier(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, dbName, s.Name())
}
