package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bodegita/backend/internal/auth"
	"github.com/bodegita/backend/internal/config"
	"github.com/bodegita/backend/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testRoutes(t *testing.T, revocations auth.RevocationList) http.Handler {
	t.Helper()
	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	store := storagetest.NewAccountStore()
	cfg := config.Config{
		Port:        "0",
		CORSOrigins: []string{"https://app.example"},
		Upload:      config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20},
	}
	return Routes(cfg, Deps{
		Store:       store,
		Tokens:      auth.NewTokenManager("server-secret", "bodegita", time.Hour),
		Verifier:    auth.NewCredentialVerifier(store, hasher),
		Registrar:   auth.NewRegistrar(store, hasher),
		Revocations: revocations,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:     "test",
	})
}

func TestRoutes_HealthWithCORS(t *testing.T) {
	h := testRoutes(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_UnknownPath(t *testing.T) {
	h := testRoutes(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventario", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "route_not_found")
}

func TestRoutes_LogoutDependsOnRevocation(t *testing.T) {
	rec := httptest.NewRecorder()
	testRoutes(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	testRoutes(t, storagetest.NewRevocations()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_ProtectedRequiresToken(t *testing.T) {
	h := testRoutes(t, nil)
	for _, path := range []string{"/me", "/ruta-protegida", "/users"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"), path)
	}
}

func TestNew_UsesConfiguredAddress(t *testing.T) {
	cfg := config.Config{Port: "8099"}
	srv := New(cfg, Deps{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Store: storagetest.NewAccountStore()})
	assert.Equal(t, ":8099", srv.inner.Addr)
}

func TestWrap_LogsPanickingRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	wrap(boom, config.Config{CORSOrigins: []string{"*"}}, logger).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic serving request")
	assert.Contains(t, buf.String(), `msg="http request"`)
	assert.Contains(t, buf.String(), "status=500")
	assert.Contains(t, buf.String(), "path=/explode")
}
