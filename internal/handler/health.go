package handler

import (
	"context"
	"net/http"
	"time"

	"casedesk/internal/httputil"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	store   Pinger
	backend string
}

// NewHealthHandler creates a health handler. store may be nil.
func NewHealthHandler(store Pinger, backend string) *HealthHandler {
	return &HealthHandler{store: store, backend: backend}
}

// HealthCheck reports service and store status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			httputil.RespondUnavailable(w, "store unreachable", 5*time.Second, map[string]interface{}{
				"store": h.backend,
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"store":  h.backend,
	})
}
