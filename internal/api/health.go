package api

import (
	"net/http"
	"time"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/localstate"
	"github.com/dragonsword-map/server/internal/pins"
)

// HealthHandler reports service liveness and the state store's reachability.
type HealthHandler struct {
	store *pins.Store
	state *localstate.Store
}

func NewHealthHandler(store *pins.Store, state *localstate.Store) *HealthHandler {
	return &HealthHandler{store: store, state: state}
}

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := h.state.HealthCheck(r.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	respond.WriteJSON(w, code, map[string]interface{}{
		"status": status,
		"pins":   len(h.store.Snapshot()),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
