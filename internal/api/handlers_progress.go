package api

import (
	"net/http"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/progress"
)

// ProgressHandler provides HTTP transport for the progress tracker.
type ProgressHandler struct {
	tracker *progress.Tracker
}

func NewProgressHandler(tracker *progress.Tracker) *ProgressHandler {
	return &ProgressHandler{tracker: tracker}
}

// TogglePin POST /api/pins/{handle}/progress
func (h *ProgressHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	handle, err := parseHandle(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	p, err := h.tracker.Toggle(r.Context(), handle)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// Summary GET /api/progress
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	stats := h.tracker.Summarize()
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"progress": stats, "count": len(stats)})
}

// ResetAll DELETE /api/progress
func (h *ProgressHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.ResetAll(r.Context()); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
