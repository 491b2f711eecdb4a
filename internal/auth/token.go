package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bodegita/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload carried by session tokens.
type Claims struct {
	Level models.RoleLevel `json:"nivel"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed token plus the metadata callers need to
// hand it out or revoke it later.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenManager issues and validates signed JWTs for authenticated accounts.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for iat/exp and validation.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenManager) { t.now = now }
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	t := &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TTL returns the validity window applied to new tokens.
func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for accountRef at the given role level.
func (t *TokenManager) Issue(accountRef string, level models.RoleLevel) (IssuedToken, error) {
	if strings.TrimSpace(accountRef) == "" {
		return IssuedToken{}, fmt.Errorf("%w: account reference is required", ErrMalformedInput)
	}
	if !level.Active() {
		return IssuedToken{}, fmt.Errorf("%w: role level %d grants no access", ErrMalformedInput, level)
	}
	now := t.now()
	claims := Claims{
		Level: level,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   accountRef,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	return IssuedToken{
		Token:     signed,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Validate checks the signature first and the expiry second, returning the
// identity embedded in the token.
func (t *TokenManager) Validate(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrTokenMissing
	}
	if !wellFormed(token) {
		return Identity{}, ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, t.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenTampered, err)
	}

	if claims.Subject == "" || !claims.Level.Active() {
		return Identity{}, fmt.Errorf("%w: incomplete claims", ErrTokenTampered)
	}

	return Identity{
		AccountRef: claims.Subject,
		Level:      claims.Level,
		TokenID:    claims.ID,
		ExpiresAt:  claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (t *TokenManager) keyFunc(*jwt.Token) (any, error) {
	return t.secret, nil
}

// wellFormed reports whether token has the header.payload.signature shape.
func wellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}
