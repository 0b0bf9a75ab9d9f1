package api

import (
	"net/http"
	"time"

	"github.com/dragonsword-map/server/internal/api/respond"
	"github.com/dragonsword-map/server/internal/export"
	"github.com/dragonsword-map/server/internal/pins"
	"github.com/dragonsword-map/server/internal/session"
)

// ExportHandler provides HTTP transport for the diff/export engine.
type ExportHandler struct {
	store   *pins.Store
	session *session.Session
	now     func() time.Time
}

func NewExportHandler(store *pins.Store, sess *session.Session) *ExportHandler {
	return &ExportHandler{store: store, session: sess, now: time.Now}
}

// Snapshot GET /api/export/snapshot (admin)
// ?format=files returns one JSON payload per non-empty category; the default
// is the concatenated pasteable report.
func (h *ExportHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	list := h.store.Snapshot()
	if r.URL.Query().Get("format") == "files" {
		files, err := export.SnapshotFiles(list)
		if err != nil {
			respond.WriteDomainError(w, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"files": files, "count": len(files)})
		return
	}
	text, err := export.SnapshotReport(list)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteText(w, http.StatusOK, text)
}

// Changes GET /api/export/changes (admin)
func (h *ExportHandler) Changes(w http.ResponseWriter, r *http.Request) {
	if err := h.session.RequireAdmin(); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	text, err := export.ChangeReport(h.store.Changes(), h.store.MaxIDByCategory(), h.now())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteText(w, http.StatusOK, text)
}
