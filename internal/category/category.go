// Package category defines the closed set of marker categories and their
// display/export metadata.
package category

import "fmt"

// Category is a one-character marker category code as used in the shipped
// marker data files.
type Category string

const (
	Treasure Category = "아" // treasure chest
	Marmot   Category = "도" // marmot king
	Quest    Category = "퀘" // region quest
	Sealed   Category = "달" // sealed chest
	Puzzle   Category = "퍼" // puzzle
	Egg      Category = "새" // bird egg
	Sudden   Category = "토" // sudden mission
)

// Info holds the display and export metadata for a category.
type Info struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	File  string `json:"file"`
}

var registry = map[Category]Info{
	Treasure: {Name: "Treasure Chest", Color: "#2196f3", File: "treasure"},
	Marmot:   {Name: "Marmot King", Color: "#757575", File: "marmot"},
	Quest:    {Name: "Region Quest", Color: "#4caf50", File: "quest"},
	Sealed:   {Name: "Sealed Chest", Color: "#f44336", File: "sealed"},
	Puzzle:   {Name: "Puzzle", Color: "#9c27b0", File: "puzzle"},
	Egg:      {Name: "Bird Egg", Color: "#ff9800", File: "egg"},
	Sudden:   {Name: "Sudden Mission", Color: "#212121", File: "sudden"},
}

// all fixes the iteration order for loading, progress summaries and exports.
var all = []Category{Treasure, Marmot, Quest, Sealed, Puzzle, Egg, Sudden}

// All returns every category in registry order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Parse validates a category code.
func Parse(code string) (Category, error) {
	c := Category(code)
	if _, ok := registry[c]; !ok {
		return "", fmt.Errorf("unknown category %q", code)
	}
	return c, nil
}

// Valid reports whether c is a registered category.
func (c Category) Valid() bool {
	_, ok := registry[c]
	return ok
}

// Info returns the metadata for c. Unknown categories return a zero Info.
func (c Category) Info() Info {
	return registry[c]
}

// Name returns the display name for c.
func (c Category) Name() string {
	return registry[c].Name
}

// FileName returns the marker data file name for c, e.g. "treasure.json".
func (c Category) FileName() string {
	return registry[c].File + ".json"
}
