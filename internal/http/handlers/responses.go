package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/http/respond"
	"github.com/bodegita/backend/internal/storage"
)

const maxJSONBody = 1 << 20

// decodeJSON reads r's body into dst, writing a 400 and returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Fail(w, http.StatusBadRequest, "malformed_input", "invalid JSON payload")
		return false
	}
	return true
}

func writeRegistrationError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, auth.ErrMalformedInput):
		respond.Fail(w, http.StatusBadRequest, "malformed_input", err.Error())
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Fail(w, http.StatusConflict, "already_exists", "an account with that cedula, correo or telefono already exists")
	default:
		logger.ErrorContext(r.Context(), "create account", "error", err)
		respond.Fail(w, http.StatusInternalServerError, "internal", "failed to create user")
	}
}
