package storagetest

import (
	"context"
	"sync"
	"time"
)

// Revocations is an in-memory revocation list.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	Err     error
}

// NewRevocations returns an empty list.
func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time)}
}

func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}
