package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/http/respond"
	"github.com/bodegita/backend/internal/models"
)

// TokenValidator resolves a raw token into an identity.
type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// Gate authenticates requests from the Authorization header and optionally
// enforces a minimum role level.
type Gate struct {
	tokens      TokenValidator
	revocations auth.RevocationList
	logger      *slog.Logger
}

// NewGate builds a Gate. A nil revocation list disables revocation checks.
func NewGate(tokens TokenValidator, revocations auth.RevocationList, logger *slog.Logger) *Gate {
	if revocations == nil {
		revocations = auth.NoRevocation{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{tokens: tokens, revocations: revocations, logger: logger}
}

// Authenticate resolves the caller of r or returns one of the auth token errors.
func (g *Gate) Authenticate(r *http.Request) (auth.Identity, error) {
	raw, err := BearerToken(r)
	if err != nil {
		return auth.Identity{}, err
	}
	id, err := g.tokens.Validate(raw)
	if err != nil {
		return auth.Identity{}, err
	}
	revoked, err := g.revocations.IsRevoked(r.Context(), id.TokenID)
	if err != nil {
		return auth.Identity{}, err
	}
	if revoked {
		return auth.Identity{}, auth.ErrTokenRevoked
	}
	return id, nil
}

// RequireAuth rejects unauthenticated requests and stores the identity in
// the request context otherwise.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Authenticate(r)
		if err != nil {
			g.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// RequireRole authenticates like RequireAuth and additionally demands a
// role level of at least min.
func (g *Gate) RequireRole(min models.RoleLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := auth.IdentityFromContext(r.Context())
			if !id.Level.AtLeast(min) {
				g.reject(w, r, auth.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	status, reason, message := Classify(err)
	if status == http.StatusInternalServerError {
		g.logger.ErrorContext(r.Context(), "authenticate request", "path", r.URL.Path, "error", err)
	} else {
		g.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "reason", reason)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="bodegita"`)
	}
	respond.Fail(w, status, reason, message)
}

// BearerToken extracts the token from the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || strings.EqualFold(header, "Bearer") {
		return "", auth.ErrTokenMissing
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !found {
		return header, nil
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrTokenMalformed
	}
	token := strings.TrimSpace(rest)
	if token == "" {
		return "", auth.ErrTokenMissing
	}
	return token, nil
}

// Classify maps auth errors to an HTTP status, a reason code and a message.
func Classify(err error) (status int, reason, message string) {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, "token_missing", "authentication token required"
	case errors.Is(err, auth.ErrTokenMalformed):
		return http.StatusUnauthorized, "token_malformed", "malformed authentication token"
	case errors.Is(err, auth.ErrTokenTampered):
		return http.StatusUnauthorized, "token_invalid", "invalid authentication token"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "authentication token expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		return http.StatusUnauthorized, "token_revoked", "authentication token revoked"
	case errors.Is(err, auth.ErrInsufficientRole):
		return http.StatusForbidden, "insufficient_role", "insufficient privileges"
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}
