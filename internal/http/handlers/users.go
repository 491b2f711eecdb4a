package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/http/respond"
	"github.com/bodegita/backend/internal/middleware"
	"github.com/bodegita/backend/internal/models"
	"github.com/bodegita/backend/internal/models/dto"
)

// AccountLister lists stored accounts.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// UsersHandler serves the administrative account endpoints.
type UsersHandler struct {
	accounts  AccountLister
	registrar *auth.Registrar
	logger    *slog.Logger
}

// NewUsersHandler creates the account administration handler.
func NewUsersHandler(accounts AccountLister, registrar *auth.Registrar, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{accounts: accounts, registrar: registrar, logger: logger}
}

// Register mounts listing for admins and creation for super-admins.
func (h *UsersHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	mux.Handle("GET /users", gate.RequireRole(models.LevelAdmin)(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /users", gate.RequireRole(models.LevelSuperAdmin)(http.HandlerFunc(h.handleCreate)))
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list accounts", "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, "users", accounts)
}

func (h *UsersHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.registrar.Register(r.Context(), auth.RegisterInput{
		Identifier: req.Identifier,
		Email:      req.Email,
		Name:       req.Name,
		Phone:      req.Phone,
		Password:   req.Password,
		Level:      req.Level,
	})
	if err != nil {
		writeRegistrationError(w, r, h.logger, err)
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())
	h.logger.InfoContext(r.Context(), "account created by admin",
		"cedula", created.Identifier, "nivel", int(created.Level), "by", id.AccountRef)
	respond.JSON(w, http.StatusCreated, "user created successfully", created)
}
