// Package mongo persists accounts in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var _ storage.AccountStore = (*Store)(nil)

// CollectionName is the collection holding account documents.
const CollectionName = "usuarios"

// Options tunes the client connection.
type Options struct {
	Database               string
	ServerSelectionTimeout time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
}

// Store provides MongoDB-backed persistence for accounts.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	accounts *mongo.Collection
}

// NewAccountStore connects, verifies the deployment is reachable and ensures
// the unique indexes exist.
func NewAccountStore(ctx context.Context, uri string, opts Options) (*Store, error) {
	if opts.Database == "" {
		return nil, errors.New("mongo database name is required")
	}
	clientOpts := options.Client().ApplyURI(uri)
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	db := client.Database(opts.Database)
	s := &Store{client: client, db: db, accounts: db.Collection(CollectionName)}

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if _, err := s.accounts.Indexes().CreateMany(ctx, accountIndexes()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("create account indexes: %w", err)
	}
	return s, nil
}

func accountIndexes() []mongo.IndexModel {
	fields := []string{"cedula", "correo", "telefono"}
	out := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		out = append(out, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		})
	}
	return out
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Name returns the database name.
func (s *Store) Name() string {
	return s.db.Name()
}

// CreateAccount inserts a new account document.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	// BSON dates carry millisecond precision.
	account.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.accounts.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Account{}, storage.ErrAlreadyExists
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return account, nil
}

// FindByIdentifier fetches exactly one account by login identifier.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (models.Account, error) {
	var account models.Account
	err := s.accounts.FindOne(ctx, bson.D{{Key: "cedula", Value: identifier}}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts ordered by creation time.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "cedula", Value: 1}})
	cursor, err := s.accounts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]models.Account, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}
