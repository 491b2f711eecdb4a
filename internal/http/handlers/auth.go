package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/http/respond"
	"github.com/bodegita/backend/internal/middleware"
	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/models/dto"
	"github.com/bodegita/backend/internal/storage"
)

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (models.Account, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountRef string, level models.RoleLevel) (auth.IssuedToken, error)
}

// AuthHandler owns the register, login, logout and identity endpoints.
type AuthHandler struct {
	registrar   *auth.Registrar
	verifier    Authenticator
	tokens      TokenIssuer
	accounts    auth.AccountLookup
	revocations auth.RevocationList
	logger      *slog.Logger
}

// NewAuthHandler constructs the handler. A nil revocation list leaves
// /logout unmounted since tokens could not actually be invalidated.
func NewAuthHandler(registrar *auth.Registrar, verifier Authenticator, tokens TokenIssuer,
	accounts auth.AccountLookup, revocations auth.RevocationList, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		registrar:   registrar,
		verifier:    verifier,
		tokens:      tokens,
		accounts:    accounts,
		revocations: revocations,
		logger:      logger,
	}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	mux.HandleFunc("POST /users/register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.Handle("GET /me", gate.RequireAuth(http.HandlerFunc(h.handleMe)))
	mux.Handle("GET /ruta-protegida", gate.RequireAuth(http.HandlerFunc(h.handleMe)))
	if h.revocations != nil {
		mux.Handle("POST /logout", gate.RequireAuth(http.HandlerFunc(h.handleLogout)))
	}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.registrar.Register(r.Context(), auth.RegisterInput{
		Identifier: req.Identifier,
		Email:      req.Email,
		Name:       req.Name,
		Phone:      req.Phone,
		Password:   req.Password,
		Level:      models.LevelStandard,
	})
	if err != nil {
		writeRegistrationError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "account registered", "cedula", created.Identifier)
	respond.JSON(w, http.StatusCreated, "user created successfully", created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.verifier.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMalformedInput):
			respond.Fail(w, http.StatusBadRequest, "malformed_input", "cedula and contrasena are required")
		case errors.Is(err, auth.ErrAccountNotFound), errors.Is(err, auth.ErrInvalidCredential):
			// Not-found and wrong-secret are indistinguishable to the caller.
			h.logger.InfoContext(r.Context(), "login rejected", "reason", err.Error())
			respond.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		default:
			h.logger.ErrorContext(r.Context(), "login failed", "error", err)
			respond.Fail(w, http.StatusInternalServerError, "internal", "failed to verify credentials")
		}
		return
	}

	if !account.Level.Active() {
		h.logger.InfoContext(r.Context(), "login refused", "cedula", account.Identifier, "nivel", int(account.Level))
		respond.Fail(w, http.StatusForbidden, "no_access_level", "account has no access level assigned")
		return
	}

	issued, err := h.tokens.Issue(account.Identifier, account.Level)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue token", "cedula", account.Identifier, "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      account,
	})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	out := dto.MeResponse{Identifier: id.AccountRef, Level: id.Level, ExpiresAt: id.ExpiresAt}

	account, err := h.accounts.FindByIdentifier(r.Context(), id.AccountRef)
	switch {
	case err == nil:
		out.User = &account
	case errors.Is(err, storage.ErrNotFound):
		// The token outlives a deleted account; the identity alone is still reported.
	default:
		h.logger.ErrorContext(r.Context(), "load account", "cedula", id.AccountRef, "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to load account")
		return
	}
	respond.JSON(w, http.StatusOK, "access granted", out)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	if err := h.revocations.Revoke(r.Context(), id.TokenID, id.ExpiresAt); err != nil {
		h.logger.ErrorContext(r.Context(), "revoke token", "cedula", id.AccountRef, "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to revoke token")
		return
	}
	respond.JSON(w, http.StatusOK, "logged out", nil)
}
