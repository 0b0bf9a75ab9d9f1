package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/config"
	"github.com/dragonsword-map/server/internal/localstate"
	"github.com/dragonsword-map/server/internal/pins"
	"github.com/dragonsword-map/server/internal/progress"
	"github.com/dragonsword-map/server/internal/report"
	"github.com/dragonsword-map/server/internal/session"
)

const testPassphrase = "1338"

type testServer struct {
	router *mux.Router
	store  *pins.Store
	sess   *session.Session
}

func newTestServer(t *testing.T, records ...pins.Record) *testServer {
	t.Helper()
	state, err := localstate.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open localstate: %v", err)
	}
	t.Cleanup(func() { _ = state.Close() })

	store := pins.NewStore(config.DeletePolicyAll)
	store.LoadAll(records)
	sess := session.New(store, testPassphrase)
	tracker := progress.NewTracker(store, state)
	queue := report.NewQueue()

	return &testServer{
		router: NewRouter(store, sess, tracker, queue, state),
		store:  store,
		sess:   sess,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func (ts *testServer) unlockAdmin(t *testing.T) {
	t.Helper()
	rr := ts.do(t, "POST", "/api/session/mode", map[string]string{
		"mode": "admin", "passphrase": testPassphrase,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin unlock: status %d: %s", rr.Code, rr.Body.String())
	}
}

func treasureRecord(id int, x, y float64, comment string) pins.Record {
	return pins.Record{ID: id, Type: string(category.Treasure), X: x, Y: y, Comment: comment}
}

func TestModeSwitch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "GET", "/api/session/mode", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var mode struct {
		Mode string `json:"mode"`
	}
	decode(t, rr, &mode)
	if mode.Mode != "user" {
		t.Fatalf("initial mode %q", mode.Mode)
	}

	rr = ts.do(t, "POST", "/api/session/mode", map[string]string{"mode": "admin", "passphrase": "wrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong passphrase: status %d", rr.Code)
	}

	ts.unlockAdmin(t)
	rr = ts.do(t, "GET", "/api/session/mode", nil)
	decode(t, rr, &mode)
	if mode.Mode != "admin" {
		t.Fatalf("mode after unlock %q", mode.Mode)
	}
}

func TestAdminGuard(t *testing.T) {
	ts := newTestServer(t, treasureRecord(1, 10, 20, "chest"))

	adminOnly := []struct {
		method, path string
		body         interface{}
	}{
		{"POST", "/api/pins", map[string]float64{"x": 1, "y": 2}},
		{"POST", "/api/pins/deletions/confirm", nil},
		{"POST", "/api/session/reset", nil},
		{"GET", "/api/export/snapshot", nil},
		{"GET", "/api/export/changes", nil},
	}
	for _, tc := range adminOnly {
		rr := ts.do(t, tc.method, tc.path, tc.body)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s %s in user mode: status %d, want 403", tc.method, tc.path, rr.Code)
		}
	}
}

func TestCreateRelocateConfirmFlow(t *testing.T) {
	ts := newTestServer(t, treasureRecord(1, 10, 20, "chest"))
	ts.unlockAdmin(t)

	rr := ts.do(t, "POST", "/api/pins", map[string]float64{"x": 100, "y": 200})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Handle string `json:"handle"`
		IsNew  bool   `json:"isNew"`
	}
	decode(t, rr, &created)
	if !created.IsNew {
		t.Fatal("created pin not flagged new")
	}

	rr = ts.do(t, "POST", "/api/pins/"+created.Handle+"/position", map[string]float64{"x": 110, "y": 210})
	if rr.Code != http.StatusOK {
		t.Fatalf("relocate: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "POST", "/api/pins/"+created.Handle+"/delete-selection", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("select: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "POST", "/api/pins/deletions/confirm", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirm: status %d: %s", rr.Code, rr.Body.String())
	}
	var confirmed struct {
		Deleted  int `json:"deleted"`
		New      int `json:"new"`
		Existing int `json:"existing"`
	}
	decode(t, rr, &confirmed)
	if confirmed.Deleted != 1 || confirmed.New != 1 || confirmed.Existing != 0 {
		t.Fatalf("confirm counts: %+v", confirmed)
	}

	rr = ts.do(t, "GET", "/api/pins", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rr, &list)
	if list.Count != 1 {
		t.Fatalf("pin count after delete: %d", list.Count)
	}
}

func TestConfirmWithoutSelection(t *testing.T) {
	ts := newTestServer(t, treasureRecord(1, 10, 20, "chest"))
	ts.unlockAdmin(t)

	rr := ts.do(t, "POST", "/api/pins/deletions/confirm", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}

func TestEditFlow(t *testing.T) {
	ts := newTestServer(t, treasureRecord(1, 10, 20, "chest"))
	ts.unlockAdmin(t)

	rr := ts.do(t, "GET", "/api/pins", nil)
	var list struct {
		Pins []struct {
			Handle string `json:"handle"`
		} `json:"pins"`
	}
	decode(t, rr, &list)
	handle := list.Pins[0].Handle

	rr = ts.do(t, "POST", "/api/pins/"+handle+"/edit", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("begin edit: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "PUT", "/api/session/edit", map[string]string{"type": "퀘", "comment": "now a quest"})
	if rr.Code != http.StatusOK {
		t.Fatalf("commit edit: status %d: %s", rr.Code, rr.Body.String())
	}
	var edited struct {
		Type    string `json:"type"`
		Comment string `json:"comment"`
	}
	decode(t, rr, &edited)
	if edited.Type != string(category.Quest) || edited.Comment != "now a quest" {
		t.Fatalf("edited pin: %+v", edited)
	}

	// Commit with no open target fails validation.
	rr = ts.do(t, "PUT", "/api/session/edit", map[string]string{"type": "퀘", "comment": "again"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("commit without target: status %d", rr.Code)
	}

	rr = ts.do(t, "DELETE", "/api/session/edit", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("close edit: status %d", rr.Code)
	}
}

func TestProgressToggleAndSummary(t *testing.T) {
	ts := newTestServer(t,
		treasureRecord(1, 10, 20, "a"),
		treasureRecord(2, 30, 40, "b"),
	)

	rr := ts.do(t, "GET", "/api/pins", nil)
	var list struct {
		Pins []struct {
			Handle string `json:"handle"`
		} `json:"pins"`
	}
	decode(t, rr, &list)

	// Progress is a user-mode operation, no admin needed.
	rr = ts.do(t, "POST", "/api/pins/"+list.Pins[0].Handle+"/progress", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle: status %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "GET", "/api/progress", nil)
	var summary struct {
		Progress []struct {
			Total   int     `json:"total"`
			Done    int     `json:"done"`
			Percent float64 `json:"percent"`
		} `json:"progress"`
	}
	decode(t, rr, &summary)
	if len(summary.Progress) != 1 {
		t.Fatalf("summary categories: %d", len(summary.Progress))
	}
	st := summary.Progress[0]
	if st.Total != 2 || st.Done != 1 || st.Percent != 50 {
		t.Fatalf("summary: %+v", st)
	}

	rr = ts.do(t, "DELETE", "/api/progress", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("reset: status %d", rr.Code)
	}
	rr = ts.do(t, "GET", "/api/progress", nil)
	decode(t, rr, &summary)
	if summary.Progress[0].Done != 0 {
		t.Fatalf("done after reset: %d", summary.Progress[0].Done)
	}
}

func TestExportChanges(t *testing.T) {
	ts := newTestServer(t, treasureRecord(5, 10, 20, "chest"))
	ts.unlockAdmin(t)

	rr := ts.do(t, "GET", "/api/export/changes", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty change set: status %d", rr.Code)
	}

	rr = ts.do(t, "POST", "/api/pins", map[string]float64{"x": 1, "y": 2})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rr.Code)
	}

	rr = ts.do(t, "GET", "/api/export/changes", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("changes: status %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Added: 1 | Moved: 0 | Deleted: 0") {
		t.Fatalf("report body: %s", rr.Body.String())
	}
	// The new pin continues the treasure sequence past the loaded max id.
	if !strings.Contains(rr.Body.String(), `"id": 6`) {
		t.Fatalf("expected id 6 in report: %s", rr.Body.String())
	}
}

func TestExportSnapshotFiles(t *testing.T) {
	ts := newTestServer(t, treasureRecord(1, 10, 20, "chest"))
	ts.unlockAdmin(t)

	rr := ts.do(t, "GET", "/api/export/snapshot?format=files", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Files []struct {
			Name string `json:"name"`
			Data string `json:"data"`
		} `json:"files"`
		Count int `json:"count"`
	}
	decode(t, rr, &out)
	if out.Count != 1 || out.Files[0].Name != "treasure.json" {
		t.Fatalf("snapshot files: %+v", out)
	}
}

func TestReportQueueEndpoints(t *testing.T) {
	ts := newTestServer(t, treasureRecord(3, 10, 20, "chest"))

	rr := ts.do(t, "POST", "/api/reports", map[string]interface{}{
		"type": "아", "comment": "missed chest", "x": 55.0, "y": 66.0,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create report: status %d: %s", rr.Code, rr.Body.String())
	}
	var item struct {
		ItemID string `json:"itemId"`
	}
	decode(t, rr, &item)

	rr = ts.do(t, "POST", "/api/reports", map[string]interface{}{
		"type": "아", "comment": "no coords",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing coords: status %d", rr.Code)
	}

	rr = ts.do(t, "GET", "/api/reports/export", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("export: status %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"id": 4`) {
		t.Fatalf("report export continues category sequence: %s", rr.Body.String())
	}

	rr = ts.do(t, "DELETE", "/api/reports/"+item.ItemID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete report: status %d", rr.Code)
	}
	rr = ts.do(t, "DELETE", "/api/reports/"+item.ItemID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("delete absent report: status %d", rr.Code)
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "PUT", "/api/prefs/panels", map[string]interface{}{
		"panels": map[string]bool{"legend": true},
	})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("put panels: status %d: %s", rr.Code, rr.Body.String())
	}
	rr = ts.do(t, "GET", "/api/prefs/panels", nil)
	var panels struct {
		Panels map[string]bool `json:"panels"`
	}
	decode(t, rr, &panels)
	if !panels.Panels["legend"] {
		t.Fatalf("panels: %+v", panels)
	}

	rr = ts.do(t, "PUT", "/api/prefs/ui-hidden", map[string]bool{"hidden": true})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("put ui-hidden: status %d: %s", rr.Code, rr.Body.String())
	}
	rr = ts.do(t, "GET", "/api/prefs/ui-hidden", nil)
	var hidden struct {
		Hidden bool `json:"hidden"`
	}
	decode(t, rr, &hidden)
	if !hidden.Hidden {
		t.Fatal("ui-hidden not persisted")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, "GET", "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
}

func TestInvalidHandle(t *testing.T) {
	ts := newTestServer(t)
	ts.unlockAdmin(t)
	rr := ts.do(t, "POST", "/api/pins/not-a-uuid/position", map[string]float64{"x": 1, "y": 2})
	if rr.Code != http.StatusNotFound {
		// The route pattern rejects non-uuid handles before the handler runs.
		t.Fatalf("status %d, want 404 from route mismatch", rr.Code)
	}
}
