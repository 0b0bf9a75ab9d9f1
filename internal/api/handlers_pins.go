package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/model"
	"github.com/dragonsword-map/server/internal/pins"
	"github.com/dragonsword-map/server/internal/session"
)

// PinHandler provides HTTP transport for pin store operations.
type PinHandler struct {
	store   *pins.Store
	session *session.Session
}

func NewPinHandler(store *pins.Store, sess *session.Session) *PinHandler {
	return &PinHandler{store: store, session: sess}
}

// ListPins GET /api/pins
func (h *PinHandler) ListPins(w http.ResponseWriter, r *http.Request) {
	list := h.store.Snapshot()
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"pins": list, "count": len(list)})
}

// ListChanges GET /api/pins/changes
func (h *PinHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	cs := h.store.Changes()
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"changes": cs,
		"pending": h.store.PendingDeletions(),
		"total":   cs.Total(),
	})
}

// CreatePin POST /api/pins (admin)
func (h *PinHandler) CreatePin(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	// New pins start as treasure chests until the edit popup saves.
	p := h.store.CreateNew(category.Treasure, model.Position{X: req.X, Y: req.Y})
	respond.WriteJSON(w, http.StatusCreated, p)
}

// RelocatePin POST /api/pins/{handle}/position (admin)
func (h *PinHandler) RelocatePin(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	handle, err := parseHandle(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	p, err := h.store.Relocate(handle, model.Position{X: req.X, Y: req.Y})
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// ToggleDeleteSelection POST /api/pins/{handle}/delete-selection (admin)
func (h *PinHandler) ToggleDeleteSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	handle, err := parseHandle(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	p, selected, err := h.store.ToggleDeleteSelection(handle)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"pin": p, "selectedCount": selected})
}

// ConfirmDeletions POST /api/pins/deletions/confirm (admin)
func (h *PinHandler) ConfirmDeletions(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	newCount, existingCount, err := h.store.ConfirmDeletions()
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":  newCount + existingCount,
		"new":      newCount,
		"existing": existingCount,
	})
}

// ResetSession POST /api/session/reset (admin)
func (h *PinHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	if err := h.store.ResetSession(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseHandle(r *http.Request) (uuid.UUID, error) {
	handle, err := uuid.Parse(mux.Vars(r)["handle"])
	if err != nil {
		return uuid.Nil, model.NewValidationError("handle", "invalid pin handle")
	}
	return handle, nil
}
