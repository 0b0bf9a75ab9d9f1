// Package pins owns the in-memory pin collection and the change-tracking
// sets read by the export engine.
package pins

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/config"
	"github.com/dragonsword-map/server/internal/model"
)

// DefaultComment is assigned to pins created by an admin map click until the
// edit popup saves a real description.
const DefaultComment = "New marker"

// Store is the authoritative in-memory pin collection plus the four tracking
// sets: added, moved, pending-delete and the deleted-pins ledger.
//
// The browser original mutates everything from a single event loop; here the
// HTTP handlers run concurrently, so a mutex serialises access instead.
type Store struct {
	mu sync.Mutex

	active   []*model.Pin
	byHandle map[uuid.UUID]*model.Pin

	added  []*model.Pin
	moved  []*model.Pin
	ledger []model.DeletedPin

	deletePolicy string
}

// NewStore creates an empty store with the given delete-selection policy
// (config.DeletePolicyAll or config.DeletePolicyNewOnly).
func NewStore(deletePolicy string) *Store {
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyAll
	}
	return &Store{
		byHandle:     make(map[uuid.UUID]*model.Pin),
		deletePolicy: deletePolicy,
	}
}

// LoadAll replaces the active collection wholesale from loaded records.
// Every loaded pin starts its lifecycle at "loaded": isNew=false and
// initialPosition equal to position. Tracking sets are reset.
func (s *Store) LoadAll(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = s.active[:0]
	s.byHandle = make(map[uuid.UUID]*model.Pin, len(records))
	s.added = nil
	s.moved = nil
	s.ledger = nil

	for _, r := range records {
		desc := r.Description
		if desc == "" {
			desc = r.Comment
		}
		pos := model.Position{X: r.X, Y: r.Y}
		p := &model.Pin{
			Handle:          uuid.New(),
			ID:              r.ID,
			Category:        category.Category(r.Type),
			Position:        pos,
			InitialPosition: pos,
			Comment:         r.Comment,
			Description:     desc,
			Done:            r.Faded,
			IsNew:           false,
		}
		s.active = append(s.active, p)
		s.byHandle[p.Handle] = p
	}
}

// CreateNew allocates a session-local pin with id 0 and tracks it as added.
func (s *Store) CreateNew(cat category.Category, pos model.Position) model.Pin {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &model.Pin{
		Handle:          uuid.New(),
		ID:              0,
		Category:        cat,
		Position:        pos,
		InitialPosition: pos,
		Comment:         DefaultComment,
		Description:     DefaultComment,
		IsNew:           true,
	}
	s.active = append(s.active, p)
	s.byHandle[p.Handle] = p
	s.added = append(s.added, p)
	return *p
}

// Get returns a copy of the pin with the given handle.
func (s *Store) Get(handle uuid.UUID) (model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, model.NewNotFoundError("handle", "pin not found")
	}
	return *p, nil
}

// Relocate moves a pin to a new position. A pre-existing pin enters the moved
// set the first time it moves and stays there on later moves; new pins are
// never tracked as moved. initialPosition is never touched.
func (s *Store) Relocate(handle uuid.UUID, pos model.Position) (model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, model.NewNotFoundError("handle", "pin not found")
	}
	p.Position = pos
	if !p.IsNew && !contains(s.moved, p) {
		s.moved = append(s.moved, p)
	}
	return *p, nil
}

// Retype changes a pin's category. Icon and export file follow from the
// category; added/moved tracking is unaffected.
func (s *Store) Retype(handle uuid.UUID, cat category.Category) (model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, model.NewNotFoundError("handle", "pin not found")
	}
	p.Category = cat
	return *p, nil
}

// SetComment updates comment and description together. The comment must be
// non-empty after trimming.
func (s *Store) SetComment(handle uuid.UUID, text string) (model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, model.NewNotFoundError("handle", "pin not found")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Pin{}, model.NewValidationError("comment", "comment must not be empty")
	}
	p.Comment = trimmed
	p.Description = trimmed
	return *p, nil
}

// ToggleDeleteSelection flips the pin's pending-delete flag, subject to the
// configured policy. Returns the updated pin and how many pins are selected.
func (s *Store) ToggleDeleteSelection(handle uuid.UUID) (model.Pin, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, 0, model.NewNotFoundError("handle", "pin not found")
	}
	if s.deletePolicy == config.DeletePolicyNewOnly && !p.IsNew {
		return model.Pin{}, 0, model.NewValidationError("handle", "only new markers can be selected for deletion")
	}
	p.SelectedForDeletion = !p.SelectedForDeletion
	return *p, s.pendingCountLocked(), nil
}

// ConfirmDeletions removes every selected pin from the active collection.
// Pre-existing pins are snapshotted into the deleted-pins ledger; new pins
// are simply dropped. Reports a validation error when nothing is selected.
// Returns the number of new and pre-existing pins removed.
func (s *Store) ConfirmDeletions() (newCount, existingCount int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingCountLocked() == 0 {
		return 0, 0, model.NewValidationError("selection", "nothing selected for deletion")
	}

	kept := s.active[:0]
	for _, p := range s.active {
		if !p.SelectedForDeletion {
			kept = append(kept, p)
			continue
		}
		if p.IsNew {
			newCount++
		} else {
			existingCount++
			s.ledger = append(s.ledger, model.DeletedPin{
				ID:         p.ID,
				Category:   p.Category,
				Position:   p.Position,
				Comment:    p.Comment,
				SourceFile: p.Category.FileName(),
			})
		}
		s.added = remove(s.added, p)
		s.moved = remove(s.moved, p)
		delete(s.byHandle, p.Handle)
	}
	s.active = kept
	for _, p := range s.active {
		p.SelectedForDeletion = false
	}
	return newCount, existingCount, nil
}

// ClearDeleteSelections drops all pending-delete flags without removing
// anything. Used when leaving admin mode.
func (s *Store) ClearDeleteSelections() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.active {
		if p.SelectedForDeletion {
			p.SelectedForDeletion = false
			n++
		}
	}
	return n
}

// ResetSession discards all session changes: added pins are removed, moved
// pins return to their initial positions, delete selections and the ledger
// are cleared. Pins already confirmed-deleted are not resurrected; that takes
// a fresh load. Reports a validation error when there is nothing to reset.
func (s *Store) ResetSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.added) == 0 && len(s.moved) == 0 && len(s.ledger) == 0 && s.pendingCountLocked() == 0 {
		return model.NewValidationError("changes", "nothing to reset")
	}

	for _, p := range s.added {
		kept := s.active[:0]
		for _, q := range s.active {
			if q != p {
				kept = append(kept, q)
			}
		}
		s.active = kept
		delete(s.byHandle, p.Handle)
	}
	for _, p := range s.moved {
		p.Position = p.InitialPosition
	}
	for _, p := range s.active {
		p.SelectedForDeletion = false
	}
	s.added = nil
	s.moved = nil
	s.ledger = nil
	return nil
}

// Snapshot returns copies of every active pin in collection order.
func (s *Store) Snapshot() []model.Pin {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Pin, 0, len(s.active))
	for _, p := range s.active {
		out = append(out, *p)
	}
	return out
}

// Changes returns value copies of the three exported tracking sets.
func (s *Store) Changes() model.ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := model.ChangeSet{}
	for _, p := range s.added {
		cs.Added = append(cs.Added, *p)
	}
	for _, p := range s.moved {
		cs.Moved = append(cs.Moved, *p)
	}
	cs.Deleted = append(cs.Deleted, s.ledger...)
	return cs
}

// PendingDeletions returns copies of the pins currently selected for deletion.
func (s *Store) PendingDeletions() []model.Pin {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Pin
	for _, p := range s.active {
		if p.SelectedForDeletion {
			out = append(out, *p)
		}
	}
	return out
}

// MaxIDByCategory returns, per category, the highest id among pre-existing
// pins. The export engine assigns new ids above these.
func (s *Store) MaxIDByCategory() map[category.Category]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[category.Category]int, len(category.All()))
	for _, c := range category.All() {
		out[c] = 0
	}
	for _, p := range s.active {
		if p.IsNew {
			continue
		}
		if p.ID > out[p.Category] {
			out[p.Category] = p.ID
		}
	}
	return out
}

// SetDone flips a pin's cached done flag and returns the updated pin along
// with the new state. Persistence is the progress tracker's concern.
func (s *Store) SetDone(handle uuid.UUID, done bool) (model.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byHandle[handle]
	if !ok {
		return model.Pin{}, model.NewNotFoundError("handle", "pin not found")
	}
	p.Done = done
	return *p, nil
}

// HydrateDone sets each pin's done flag from the given predicate. Called once
// after load with a lookup into the persisted fingerprint set.
func (s *Store) HydrateDone(isDone func(model.Pin) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.active {
		p.Done = isDone(*p)
	}
}

// ClearDone resets every pin's done flag.
func (s *Store) ClearDone() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.active {
		p.Done = false
	}
}

func (s *Store) pendingCountLocked() int {
	n := 0
	for _, p := range s.active {
		if p.SelectedForDeletion {
			n++
		}
	}
	return n
}

func contains(set []*model.Pin, p *model.Pin) bool {
	for _, q := range set {
		if q == p {
			return true
		}
	}
	return false
}

func remove(set []*model.Pin, p *model.Pin) []*model.Pin {
	for i, q := range set {
		if q == p {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}
