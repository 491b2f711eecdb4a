package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
)

// AccountLookup is the read capability the verifier needs from storage.
type AccountLookup interface {
	FindByIdentifier(ctx context.Context, identifier string) (models.Account, error)
}

// CredentialVerifier checks submitted secrets against stored bcrypt hashes.
type CredentialVerifier struct {
	accounts AccountLookup
	hasher   *PasswordHasher
}

// NewCredentialVerifier wires a verifier over the given lookup.
func NewCredentialVerifier(accounts AccountLookup, hasher *PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{accounts: accounts, hasher: hasher}
}

// Verify returns the account's identity when secret matches. It returns
// ErrMalformedInput, ErrAccountNotFound or ErrInvalidCredential otherwise;
// storage failures are wrapped and returned as is.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, secret string) (Identity, error) {
	account, err := v.Authenticate(ctx, identifier, secret)
	if err != nil {
		return Identity{}, err
	}
	return Identity{AccountRef: account.Identifier, Level: account.Level}, nil
}

// Authenticate is Verify returning the full account record.
func (v *CredentialVerifier) Authenticate(ctx context.Context, identifier, secret string) (models.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || strings.TrimSpace(secret) == "" {
		return models.Account{}, fmt.Errorf("%w: identifier and password are required", ErrMalformedInput)
	}

	account, err := v.accounts.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			v.hasher.burn(secret)
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := v.hasher.Matches(account.PasswordHash, secret)
	if err != nil {
		return models.Account{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return models.Account{}, ErrInvalidCredential
	}
	return account, nil
}
