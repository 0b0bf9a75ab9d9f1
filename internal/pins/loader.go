package pins

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/dragonsword-map/server/internal/category"
)

// Record is one entry of a per-category marker data file.
// Field names match the shipped JSON: id, type, x, y, comment, description,
// faded. Missing id defaults to 0, missing description to the comment, and
// missing faded to false.
type Record struct {
	ID          int     `json:"id"`
	Type        string  `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Comment     string  `json:"comment"`
	Description string  `json:"description,omitempty"`
	Faded       bool    `json:"faded"`
}

// LoadMarkerFiles reads every category's marker file from dir and returns the
// combined records. The load is all-or-nothing: a read or parse failure on
// any one file fails the whole load and no records are returned.
func LoadMarkerFiles(dir string) ([]Record, error) {
	var out []Record
	for _, c := range category.All() {
		path := filepath.Join(dir, c.FileName())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c.FileName(), err)
		}
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse %s: %w", c.FileName(), err)
		}
		for i, r := range records {
			if r.Type == "" {
				records[i].Type = string(c)
				continue
			}
			if _, err := category.Parse(r.Type); err != nil {
				return nil, fmt.Errorf("parse %s: record %d: %w", c.FileName(), i, err)
			}
		}
		out = append(out, records...)
	}
	log.Info().Int("count", len(out)).Str("dir", dir).Msg("marker data loaded")
	return out, nil
}
