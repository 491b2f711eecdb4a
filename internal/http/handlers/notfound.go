package handlers

import (
	"net/http"

	"github.com/bodegita/backend/internal/http/respond"
)

// NotFound answers unmatched routes with a JSON body naming the path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.FailWith(w, http.StatusNotFound, "route_not_found", "route not found",
		map[string]string{"path": r.URL.Path})
}
