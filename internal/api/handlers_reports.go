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
	"github.com/dragonsword-map/server/internal/report"
)

// ReportHandler provides HTTP transport for the report queue.
type ReportHandler struct {
	queue *report.Queue
	store *pins.Store
}

func NewReportHandler(queue *report.Queue, store *pins.Store) *ReportHandler {
	return &ReportHandler{queue: queue, store: store}
}

// Create POST /api/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type    string   `json:"type"`
		Comment string   `json:"comment"`
		X       *float64 `json:"x,omitempty"`
		Y       *float64 `json:"y,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, err := h.queue.Add(category.Category(req.Type), req.Comment, req.X, req.Y)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, item)
}

// List GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.queue.Items()
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"reports": items, "count": len(items)})
}

// Delete DELETE /api/reports/{itemId}
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		respond.WriteBadRequest(w, "invalid report id")
		return
	}
	if err := h.queue.Remove(id); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear DELETE /api/reports
func (h *ReportHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared := h.queue.Clear()
	respond.WriteJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

// Export GET /api/reports/export
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	text, err := h.queue.Export(h.store.MaxIDByCategory())
	if err != nil {
		if model.IsValidationError(err) {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteText(w, http.StatusOK, text)
}
