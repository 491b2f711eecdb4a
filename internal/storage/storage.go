package storage

import (
	"context"
	"errors"

	"github.com/bodegita/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// AccountStore captures persistence operations needed by the auth layer and handlers.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	Ping(ctx context.Context) error
	// Name identifies the backing database, e.g. for diagnostics.
	Name() string
	Close(ctx context.Context) error
}
