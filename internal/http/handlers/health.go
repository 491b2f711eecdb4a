package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bodegita/backend/internal/http/respond"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
	Name() string
}

// HealthHandler serves liveness and diagnostic endpoints.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
	version   string
	timeout   time.Duration
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, db Pinger, version string) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db, version: version, timeout: 2 * time.Second}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /ping", h.handlePing)
}

func (h *HealthHandler) dbConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.db.Ping(ctx) == nil
}

type healthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	out := healthStatus{
		Status:    "healthy",
		Database:  "connected",
		Uptime:    time.Since(h.startedAt).Truncate(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	if !h.dbConnected(r.Context()) {
		out.Status, out.Database = "unhealthy", "disconnected"
		status = http.StatusServiceUnavailable
	}
	respond.JSON(w, status, out.Status, out)
}

type pingDatabase struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

type pingResponse struct {
	IP        string       `json:"ip"`
	Database  pingDatabase `json:"database"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
}

func (h *HealthHandler) handlePing(w http.ResponseWriter, r *http.Request) {
	connected := h.dbConnected(r.Context())
	db := pingDatabase{Status: "disconnected", Name: h.db.Name(), Connected: connected}
	if connected {
		db.Status = "connected"
	}
	respond.JSON(w, http.StatusOK, "bodegita backend is running", pingResponse{
		IP:        clientIP(r),
		Database:  db,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
