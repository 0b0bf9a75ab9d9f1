// Package export turns the pin store's state into the two export surfaces:
// full per-category snapshot files and the change-set report an admin pastes
// into the version-controlled marker files.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/model"
)

// Record is a marker data file entry, matching the shipped JSON field names.
type Record struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	Comment     string  `json:"comment"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Faded       bool    `json:"faded"`
}

// MovedRecord extends Record with the pre-move coordinates so a human can
// locate the entry to edit in the source file.
type MovedRecord struct {
	Record
	OldX float64 `json:"oldX"`
	OldY float64 `json:"oldY"`
}

// File is one named export payload.
type File struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// SnapshotFiles groups all active pins by category and serialises one JSON
// file per non-empty category, named by the category's export file. Pins keep
// active-collection order. Reports a validation error when there are no pins.
func SnapshotFiles(pinList []model.Pin) ([]File, error) {
	if len(pinList) == 0 {
		return nil, model.NewValidationError("pins", "nothing to export")
	}

	groups := groupByCategory(pinList)
	var out []File
	for _, c := range category.All() {
		records := groups[c]
		if len(records) == 0 {
			continue
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: c.FileName(), Data: string(data)})
	}
	return out, nil
}

// SnapshotReport renders the full snapshot as a single pasteable text with a
// header per category file.
func SnapshotReport(pinList []model.Pin) (string, error) {
	files, err := SnapshotFiles(pinList)
	if err != nil {
		return "", err
	}
	groups := groupByCategory(pinList)

	var b strings.Builder
	for _, f := range files {
		c := categoryByFileName(f.Name)
		fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", 50))
		fmt.Fprintf(&b, "%s (%s) - %d items\n", f.Name, c.Name(), len(groups[c]))
		fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
		b.WriteString(f.Data)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ChangeReport serialises the change set grouped by category: deletions to
// remove from their source files, additions with freshly assigned ids, and
// moves with before/after coordinates. Ids for added pins are computed at
// export time as max existing id in the category plus the 1-based position
// within that category's added group. Reports a validation error when the
// change set is empty.
func ChangeReport(cs model.ChangeSet, maxIDs map[category.Category]int, now time.Time) (string, error) {
	if cs.Total() == 0 {
		return "", model.NewValidationError("changes", "no changes to export")
	}

	addedByCat := make(map[category.Category][]Record)
	for _, p := range cs.Added {
		n := len(addedByCat[p.Category]) + 1
		addedByCat[p.Category] = append(addedByCat[p.Category], Record{
			ID:      maxIDs[p.Category] + n,
			Type:    string(p.Category),
			X:       p.Position.X,
			Y:       p.Position.Y,
			Comment: p.Comment,
			Faded:   false,
		})
	}

	movedByCat := make(map[category.Category][]MovedRecord)
	for _, p := range cs.Moved {
		movedByCat[p.Category] = append(movedByCat[p.Category], MovedRecord{
			Record: Record{
				ID:      p.ID,
				Type:    string(p.Category),
				X:       p.Position.X,
				Y:       p.Position.Y,
				Comment: p.Comment,
				Faded:   p.Done,
			},
			OldX: p.InitialPosition.X,
			OldY: p.InitialPosition.Y,
		})
	}

	deletedByCat := make(map[category.Category][]model.DeletedPin)
	for _, d := range cs.Deleted {
		deletedByCat[d.Category] = append(deletedByCat[d.Category], d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Change summary - %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Added: %d | Moved: %d | Deleted: %d\n", len(cs.Added), len(cs.Moved), len(cs.Deleted))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("━", 50))

	if len(cs.Deleted) > 0 {
		fmt.Fprintf(&b, "\n[Deleted markers (%d)]\n", len(cs.Deleted))
		fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 50))
		for _, c := range category.All() {
			items := deletedByCat[c]
			if len(items) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\nRemove from %s (%s - %d items)\n", c.FileName(), c.Name(), len(items))
			fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 30))
			for i, d := range items {
				fmt.Fprintf(&b, "\n%d. id: %d - %q\n", i+1, d.ID, d.Comment)
				fmt.Fprintf(&b, "   at (%.0f, %.0f)\n", d.Position.X, d.Position.Y)
			}
		}
	}

	if len(cs.Added) > 0 {
		fmt.Fprintf(&b, "\n\n[Added markers (%d)]\n", len(cs.Added))
		fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 50))
		for _, c := range category.All() {
			records := addedByCat[c]
			if len(records) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\nAdd to %s (%s - %d items)\n", c.FileName(), c.Name(), len(records))
			fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 30))
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return "", err
			}
			b.Write(data)
			b.WriteString("\n")
		}
	}

	if len(cs.Moved) > 0 {
		fmt.Fprintf(&b, "\n\n[Moved markers (%d)]\n", len(cs.Moved))
		fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 50))
		for _, c := range category.All() {
			records := movedByCat[c]
			if len(records) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\nEdit in %s (%s - %d items)\n", c.FileName(), c.Name(), len(records))
			fmt.Fprintf(&b, "%s\n", strings.Repeat("─", 30))
			for i, r := range records {
				fmt.Fprintf(&b, "\n%d. %q\n", i+1, r.Comment)
				fmt.Fprintf(&b, "   from: (%.0f, %.0f)\n", r.OldX, r.OldY)
				fmt.Fprintf(&b, "   to:   (%.0f, %.0f)\n", r.X, r.Y)
				data, err := json.Marshal(r.Record)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "   updated JSON:\n   %s\n", data)
			}
		}
	}

	return b.String(), nil
}

func groupByCategory(pinList []model.Pin) map[category.Category][]Record {
	groups := make(map[category.Category][]Record)
	for _, p := range pinList {
		if !p.Category.Valid() {
			continue
		}
		groups[p.Category] = append(groups[p.Category], Record{
			ID:          p.ID,
			Type:        string(p.Category),
			Comment:     p.Comment,
			Description: p.Description,
			X:           p.Position.X,
			Y:           p.Position.Y,
			Faded:       p.Done,
		})
	}
	return groups
}

func categoryByFileName(name string) category.Category {
	for _, c := range category.All() {
		if c.FileName() == name {
			return c
		}
	}
	return ""
}
