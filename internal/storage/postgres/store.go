package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.AccountStore interface at compile time.
var _ storage.AccountStore = (*Store)(nil)

// pool is the subset of *pgxpool.Pool the store relies on.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store provides Postgres-backed persistence for accounts.
type Store struct {
	pool   pool
	dbName string
}

// NewAccountStore connects to Postgres and ensures the schema exists.
func NewAccountStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := newStore(p, cfg.ConnConfig.Database)
	if err := s.migrate(ctx); err != nil {
		p.Close()
		return nil, err
	}

	return s, nil
}

func newStore(p pool, dbName string) *Store {
	return &Store{pool: p, dbName: dbName}
}

// Close releases database resources.
func (s *Store) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping checks connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Name returns the configured database name.
func (s *Store) Name() string {
	return s.dbName
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		cedula TEXT PRIMARY KEY,
		correo TEXT NOT NULL,
		nombre TEXT NOT NULL,
		telefono TEXT NOT NULL,
		contrasena TEXT NOT NULL,
		nivel INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_correo_unique_idx ON accounts (correo);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_telefono_unique_idx ON accounts (telefono);`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
	INSERT INTO accounts (cedula, correo, nombre, telefono, contrasena, nivel)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING cedula, correo, nombre, telefono, contrasena, nivel, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		account.Identifier, account.Email, account.Name, account.Phone, account.PasswordHash, int(account.Level))
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.Account{}, storage.ErrAlreadyExists
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

// FindByIdentifier fetches an account by its login identifier.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (models.Account, error) {
	const query = `
	SELECT cedula, correo, nombre, telefono, contrasena, nivel, created_at
	FROM accounts
	WHERE cedula = $1;
	`
	return scanAccount(s.pool.QueryRow(ctx, query, identifier))
}

// ListAccounts returns every account ordered by creation time.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `
	SELECT cedula, correo, nombre, telefono, contrasena, nivel, created_at
	FROM accounts
	ORDER BY created_at, cedula;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	var level int
	if err := row.Scan(&account.Identifier, &account.Email, &account.Name, &account.Phone,
		&account.PasswordHash, &level, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	account.Level = models.RoleLevel(level)
	return account, nil
}
