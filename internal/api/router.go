package api

import (
	"github.com/gorilla/mux"

	"github.com/dragonsword-map/server/internal/api/recovery"
	"github.com/dragonsword-map/server/internal/localstate"
	"github.com/dragonsword-map/server/internal/pins"
	"github.com/dragonsword-map/server/internal/progress"
	"github.com/dragonsword-map/server/internal/report"
	"github.com/dragonsword-map/server/internal/session"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(store *pins.Store, sess *session.Session, tracker *progress.Tracker, queue *report.Queue, state *localstate.Store) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(store, state)
	pinHandler := NewPinHandler(store, sess)
	sessionHandler := NewSessionHandler(sess)
	progressHandler := NewProgressHandler(tracker)
	exportHandler := NewExportHandler(store, sess)
	reportHandler := NewReportHandler(queue, store)
	prefsHandler := NewPrefsHandler(state)

	// Health
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Pins
	router.HandleFunc("/api/pins", pinHandler.ListPins).Methods("GET")
	router.HandleFunc("/api/pins", pinHandler.CreatePin).Methods("POST")
	router.HandleFunc("/api/pins/changes", pinHandler.ListChanges).Methods("GET")
	router.HandleFunc("/api/pins/deletions/confirm", pinHandler.ConfirmDeletions).Methods("POST")
	router.HandleFunc("/api/pins/{handle:[0-9a-fA-F-]{36}}/position", pinHandler.RelocatePin).Methods("POST")
	router.HandleFunc("/api/pins/{handle:[0-9a-fA-F-]{36}}/delete-selection", pinHandler.ToggleDeleteSelection).Methods("POST")
	router.HandleFunc("/api/pins/{handle:[0-9a-fA-F-]{36}}/edit", sessionHandler.BeginEdit).Methods("POST")
	router.HandleFunc("/api/pins/{handle:[0-9a-fA-F-]{36}}/progress", progressHandler.TogglePin).Methods("POST")

	// Session
	router.HandleFunc("/api/session/mode", sessionHandler.GetMode).Methods("GET")
	router.HandleFunc("/api/session/mode", sessionHandler.SwitchMode).Methods("POST")
	router.HandleFunc("/api/session/edit", sessionHandler.CommitEdit).Methods("PUT")
	router.HandleFunc("/api/session/edit", sessionHandler.CloseEdit).Methods("DELETE")
	router.HandleFunc("/api/session/reset", pinHandler.ResetSession).Methods("POST")

	// Progress
	router.HandleFunc("/api/progress", progressHandler.Summary).Methods("GET")
	router.HandleFunc("/api/progress", progressHandler.ResetAll).Methods("DELETE")

	// Exports
	router.HandleFunc("/api/export/snapshot", exportHandler.Snapshot).Methods("GET")
	router.HandleFunc("/api/export/changes", exportHandler.Changes).Methods("GET")

	// Report queue
	router.HandleFunc("/api/reports", reportHandler.Create).Methods("POST")
	router.HandleFunc("/api/reports", reportHandler.List).Methods("GET")
	router.HandleFunc("/api/reports", reportHandler.Clear).Methods("DELETE")
	router.HandleFunc("/api/reports/export", reportHandler.Export).Methods("GET")
	router.HandleFunc("/api/reports/{itemId:[0-9a-fA-F-]{36}}", reportHandler.Delete).Methods("DELETE")

	// Preferences
	router.HandleFunc("/api/prefs/panels", prefsHandler.GetPanels).Methods("GET")
	router.HandleFunc("/api/prefs/panels", prefsHandler.PutPanels).Methods("PUT")
	router.HandleFunc("/api/prefs/ui-hidden", prefsHandler.GetUIHidden).Methods("GET")
	router.HandleFunc("/api/prefs/ui-hidden", prefsHandler.PutUIHidden).Methods("PUT")

	return router
}
