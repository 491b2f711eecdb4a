package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordBytes = 72
)

// AccountWriter is the storage capability registration needs.
type AccountWriter interface {
	AccountLookup
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
}

// RegisterInput is the data required to create an account.
type RegisterInput struct {
	Identifier string
	Email      string
	Name       string
	Phone      string
	Password   string
	Level      models.RoleLevel
}

// Registrar validates, hashes and persists new accounts.
type Registrar struct {
	accounts AccountWriter
	hasher   *PasswordHasher
}

// NewRegistrar builds a Registrar.
func NewRegistrar(accounts AccountWriter, hasher *PasswordHasher) *Registrar {
	return &Registrar{accounts: accounts, hasher: hasher}
}

// Register creates a new account. A zero Level means LevelStandard.
// Uniqueness violations surface as storage.ErrAlreadyExists.
func (r *Registrar) Register(ctx context.Context, in RegisterInput) (models.Account, error) {
	in = normalize(in)
	if err := validateRegistration(in); err != nil {
		return models.Account{}, err
	}

	hash, err := r.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	return r.accounts.CreateAccount(ctx, models.Account{
		Identifier:   in.Identifier,
		Email:        in.Email,
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: hash,
		Level:        in.Level,
	})
}

// EnsureAccount returns the existing account for in.Identifier, creating it
// when absent. The boolean reports whether a new account was created.
func (r *Registrar) EnsureAccount(ctx context.Context, in RegisterInput) (models.Account, bool, error) {
	existing, err := r.accounts.FindByIdentifier(ctx, strings.TrimSpace(in.Identifier))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Account{}, false, fmt.Errorf("lookup account: %w", err)
	}
	created, err := r.Register(ctx, in)
	if err != nil {
		return models.Account{}, false, err
	}
	return created, true, nil
}

func normalize(in RegisterInput) RegisterInput {
	in.Identifier = strings.TrimSpace(in.Identifier)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Level == 0 {
		in.Level = models.LevelStandard
	}
	return in
}

func validateRegistration(in RegisterInput) error {
	if in.Identifier == "" || in.Email == "" || in.Name == "" || in.Phone == "" {
		return fmt.Errorf("%w: cedula, correo, nombre and telefono are required", ErrMalformedInput)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: correo is not a valid address", ErrMalformedInput)
	}
	if !in.Level.Valid() {
		return fmt.Errorf("%w: nivel must be between %d and %d", ErrMalformedInput, models.LevelStandard, models.LevelSuperAdmin)
	}
	if !utf8.ValidString(in.Password) || len(strings.TrimSpace(in.Password)) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrMalformedInput, minPasswordLength)
	}
	if len(in.Password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrMalformedInput, maxPasswordBytes)
	}
	return nil
}
