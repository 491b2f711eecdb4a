package auth

import (
	"context"
	"time"
)

// RevocationList records tokens invalidated before their expiry.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NoRevocation is used when no denylist is configured; nothing is ever revoked.
type NoRevocation struct{}

func (NoRevocation) Revoke(context.Context, string, time.Time) error { return nil }

func (NoRevocation) IsRevoked(context.Context, string) (bool, error) { return false, nil }
