package auth

import (
	"context"
	"time"

	"github.com/bodegita/backend/internal/models"
)

// Identity is the authenticated caller resolved from credentials or a token.
type Identity struct {
	AccountRef string
	Level      models.RoleLevel
	// TokenID and ExpiresAt are only set when the identity came from a token.
	TokenID   string
	ExpiresAt time.Time
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity attached by the access gate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
