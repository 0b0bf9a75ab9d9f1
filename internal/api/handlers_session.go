package api

import (
	"encoding/json"
	"net/http"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/session"
)

// SessionHandler provides HTTP transport for mode switching and pin editing.
type SessionHandler struct {
	session *session.Session
}

func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{session: sess}
}

// GetMode GET /api/session/mode
func (h *SessionHandler) GetMode(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"mode": string(h.session.Mode())})
}

// SwitchMode POST /api/session/mode
func (h *SessionHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode       string `json:"mode"`
		Passphrase string `json:"passphrase,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.session.SwitchMode(session.Mode(req.Mode), req.Passphrase); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"mode": string(h.session.Mode())})
}

// BeginEdit POST /api/pins/{handle}/edit (admin)
func (h *SessionHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	handle, err := parseHandle(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	p, err := h.session.BeginEdit(handle)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// CommitEdit PUT /api/session/edit (admin)
func (h *SessionHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string `json:"type"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	cat, err := category.Parse(req.Type)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	p, err := h.session.CommitEdit(cat, req.Comment)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// CloseEdit DELETE /api/session/edit
// The view layer acknowledges its edit popup closed without saving.
func (h *SessionHandler) CloseEdit(w http.ResponseWriter, r *http.Request) {
	h.session.CloseEdit()
	w.WriteHeader(http.StatusNoContent)
}
