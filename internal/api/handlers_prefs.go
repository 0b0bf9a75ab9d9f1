package api

import (
	"encoding/json"
	"net/http"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/localstate"
)

// PrefsHandler persists the view layer's panel collapse states and the
// overall UI-hidden flag.
type PrefsHandler struct {
	state *localstate.Store
}

func NewPrefsHandler(state *localstate.Store) *PrefsHandler {
	return &PrefsHandler{state: state}
}

// GetPanels GET /api/prefs/panels
func (h *PrefsHandler) GetPanels(w http.ResponseWriter, r *http.Request) {
	states, err := h.state.PanelStates(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"panels": states})
}

// PutPanels PUT /api/prefs/panels
func (h *PrefsHandler) PutPanels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Panels map[string]bool `json:"panels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.state.SetPanelStates(r.Context(), req.Panels); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUIHidden GET /api/prefs/ui-hidden
func (h *PrefsHandler) GetUIHidden(w http.ResponseWriter, r *http.Request) {
	hidden, err := h.state.UIHidden(r.Context())
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"hidden": hidden})
}

// PutUIHidden PUT /api/prefs/ui-hidden
func (h *PrefsHandler) PutUIHidden(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hidden bool `json:"hidden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.state.SetUIHidden(r.Context(), req.Hidden); err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
