package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Reason is a stable machine-readable failure code, e.g. "token_expired".
	Reason string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Fail writes an error response carrying a machine-readable reason.
func Fail(w http.ResponseWriter, status int, reason, message string) {
	write(w, status, Envelope{Code: status, Message: message, Reason: reason})
}

// FailWith is Fail with an additional data payload describing the failure.
func FailWith(w http.ResponseWriter, status int, reason, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Reason: reason, Data: data})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
