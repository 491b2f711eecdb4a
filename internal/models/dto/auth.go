package dto

import (
	"time"

	"github.com/bodegita/backend/internal/models"
)

// RegisterRequest is the public self-registration body.
type RegisterRequest struct {
	Identifier string `json:"cedula"`
	Email      string `json:"correo"`
	Name       string `json:"nombre"`
	Phone      string `json:"telefono"`
	Password   string `json:"contrasena"`
}

// CreateAccountRequest is the administrative variant that may set a level.
type CreateAccountRequest struct {
	RegisterRequest
	Level models.RoleLevel `json:"nivel"`
}

// LoginRequest carries the cedula and password to verify.
type LoginRequest struct {
	Identifier string `json:"cedula"`
	Password   string `json:"contrasena"`
}

// LoginResponse returns the session token and the authenticated account.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      models.Account `json:"user"`
}

// MeResponse describes the caller; User is omitted when the account is gone.
type MeResponse struct {
	Identifier string           `json:"cedula"`
	Level      models.RoleLevel `json:"nivel"`
	ExpiresAt  time.Time        `json:"expires_at"`
	User       *models.Account  `json:"user,omitempty"`
}

// UploadResponse holds the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}
