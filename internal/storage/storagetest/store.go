// Package storagetest provides an in-process AccountStore for tests.
package storagetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/storage"
)

var _ storage.AccountStore = (*AccountStore)(nil)

// AccountStore keeps accounts in memory and enforces the same uniqueness
// rules as the real backends. Setting Err makes every call fail with it.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	Err      error
	PingErr  error
}

// NewAccountStore returns an empty store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]models.Account)}
}

func (s *AccountStore) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Account{}, s.Err
	}
	for _, existing := range s.accounts {
		if existing.Identifier == account.Identifier ||
			existing.Email == account.Email ||
			existing.Phone == account.Phone {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}
	account.CreatedAt = time.Now().UTC()
	s.accounts[account.Identifier] = account
	return account, nil
}

func (s *AccountStore) FindByIdentifier(_ context.Context, identifier string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Account{}, s.Err
	}
	account, ok := s.accounts[identifier]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return account, nil
}

func (s *AccountStore) ListAccounts(context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

func (s *AccountStore) Ping(context.Context) error { return s.PingErr }

func (s *AccountStore) Name() string { return "memory" }

func (s *AccountStore) Close(context.Context) error { return nil }

// Put stores account as is, bypassing uniqueness checks.
func (s *AccountStore) Put(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Identifier] = account
}
