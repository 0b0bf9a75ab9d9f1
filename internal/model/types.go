package model

import (
	"github.com/google/uuid"

	"github.com/dragonsword-map/server/internal/category"
)

// Position is a point in the map's native pixel coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pin is a single point-of-interest marker on the map.
//
// Handle is an opaque identifier correlating the pin with its view-layer
// marker; it never leaves the process. ID is the per-category sequence number
// from the marker data files and stays 0 for pins created in this session
// until an export assigns one.
type Pin struct {
	Handle              uuid.UUID         `json:"handle"`
	ID                  int               `json:"id"`
	Category            category.Category `json:"type"`
	Position            Position          `json:"position"`
	InitialPosition     Position          `json:"initialPosition"`
	Comment             string            `json:"comment"`
	Description         string            `json:"description"`
	Done                bool              `json:"done"`
	IsNew               bool              `json:"isNew"`
	SelectedForDeletion bool              `json:"selectedForDeletion"`
}

// DeletedPin is a value snapshot of a pre-existing pin at deletion time.
// Removing such a pin only takes effect once a human edits its source file,
// so the snapshot records which file that is.
type DeletedPin struct {
	ID         int               `json:"id"`
	Category   category.Category `json:"type"`
	Position   Position          `json:"position"`
	Comment    string            `json:"comment"`
	SourceFile string            `json:"sourceFile"`
}

// ChangeSet is a read-only view of everything that changed since load.
type ChangeSet struct {
	Added   []Pin        `json:"added"`
	Moved   []Pin        `json:"moved"`
	Deleted []DeletedPin `json:"deleted"`
}

// Total returns the number of changes in the set.
func (c ChangeSet) Total() int {
	return len(c.Added) + len(c.Moved) + len(c.Deleted)
}

// ReportItem is a user-submitted candidate pin awaiting manual review.
// It has no relation to the pin store.
type ReportItem struct {
	ItemID   uuid.UUID         `json:"itemId"`
	Category category.Category `json:"type"`
	Comment  string            `json:"comment"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
}

// ProgressStat summarises completion for one category.
type ProgressStat struct {
	Category category.Category `json:"type"`
	Name     string            `json:"name"`
	Total    int               `json:"total"`
	Done     int               `json:"done"`
	Percent  float64           `json:"percent"`
}
