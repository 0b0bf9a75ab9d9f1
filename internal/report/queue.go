// Package report collects user-submitted candidate pins for manual review.
// The queue is independent of the pin store.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/model"
)

// Queue is the pending-review list of reported coordinates.
type Queue struct {
	mu    sync.Mutex
	items []model.ReportItem
}

// NewQueue creates an empty report queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add validates and appends a report. The comment must be non-empty after
// trimming and both coordinates must be present.
func (q *Queue) Add(cat category.Category, comment string, x, y *float64) (model.ReportItem, error) {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return model.ReportItem{}, model.NewValidationError("comment", "comment must not be empty")
	}
	if x == nil || y == nil {
		return model.ReportItem{}, model.NewValidationError("position", "click the map to pick coordinates first")
	}
	if !cat.Valid() {
		return model.ReportItem{}, model.NewValidationError("type", fmt.Sprintf("unknown category %q", cat))
	}

	item := model.ReportItem{
		ItemID:   uuid.New(),
		Category: cat,
		Comment:  trimmed,
		X:        *x,
		Y:        *y,
	}

	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	return item, nil
}

// Items returns a copy of the queue in submission order.
func (q *Queue) Items() []model.ReportItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.ReportItem, len(q.items))
	copy(out, q.items)
	return out
}

// Remove deletes one report by id.
func (q *Queue) Remove(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if item.ItemID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return nil
		}
	}
	return model.NewNotFoundError("itemId", "report not found")
}

// Clear empties the queue and returns how many items were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

// Export renders the queue as the pasteable report text followed by a JSON
// block. Candidate ids continue each category's existing sequence, the same
// way the change-set export assigns them. Reports a validation error when the
// queue is empty.
func (q *Queue) Export(maxIDs map[category.Category]int) (string, error) {
	items := q.Items()
	if len(items) == 0 {
		return "", model.NewValidationError("reports", "no reported coordinates")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[New coordinate reports (%d total)]\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, item.Category.Name(), item.Comment)
		fmt.Fprintf(&b, "   at (%g, %g)\n\n", item.X, item.Y)
	}

	b.WriteString("\n" + strings.Repeat("━", 20) + "\n[JSON]\n\n")

	counters := make(map[category.Category]int)
	records := make([]reportRecord, 0, len(items))
	for _, item := range items {
		counters[item.Category]++
		records = append(records, reportRecord{
			ID:      maxIDs[item.Category] + counters[item.Category],
			Type:    string(item.Category),
			X:       item.X,
			Y:       item.Y,
			Comment: item.Comment,
			Faded:   false,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	b.Write(data)
	return b.String(), nil
}

type reportRecord struct {
	ID      int     `json:"id"`
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Comment string  `json:"comment"`
	Faded   bool    `json:"faded"`
}
