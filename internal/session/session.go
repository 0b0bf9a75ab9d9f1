// Package session holds the per-process edit state: the current mode, the
// admin unlock, and the single pin open for editing.
package session

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/model"
	"github.com/dragonsword-map/server/internal/pins"
)

// Mode is the interaction mode of the map.
type Mode string

const (
	ModeUser  Mode = "user"
	ModeAdmin Mode = "admin"
)

// Session enforces the admin gate and the one-pin-being-edited-at-a-time
// rule. A successful unlock lasts for the process lifetime only.
type Session struct {
	store      *pins.Store
	passphrase string

	mu       sync.Mutex
	mode     Mode
	unlocked bool
	editing  uuid.UUID // uuid.Nil when no pin is open for edit
}

// New creates a session in user mode.
func New(store *pins.Store, passphrase string) *Session {
	return &Session{
		store:      store,
		passphrase: passphrase,
		mode:       ModeUser,
	}
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SwitchMode changes between user and admin mode. Entering admin mode
// requires the passphrase unless a prior unlock succeeded this process.
// Leaving admin mode clears all delete selections and dismisses any open
// edit, so no pin is left half-deleted or half-edited in user mode.
func (s *Session) SwitchMode(mode Mode, passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ModeAdmin:
		if !s.unlocked {
			if subtle.ConstantTimeCompare([]byte(passphrase), []byte(s.passphrase)) != 1 {
				return model.ErrBadPassphrase
			}
			s.unlocked = true
		}
		s.mode = ModeAdmin
		log.Info().Msg("admin mode enabled")
	case ModeUser:
		s.mode = ModeUser
		s.editing = uuid.Nil
		if n := s.store.ClearDeleteSelections(); n > 0 {
			log.Info().Int("cleared", n).Msg("delete selections cleared on leaving admin mode")
		}
	default:
		return model.NewValidationError("mode", fmt.Sprintf("unknown mode %q", mode))
	}
	return nil
}

// RequireAdmin reports a precondition error unless the session is in admin mode.
func (s *Session) RequireAdmin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeAdmin {
		return model.NewPreconditionError("admin mode required")
	}
	return nil
}

// BeginEdit opens a pin for editing, implicitly closing any prior target.
func (s *Session) BeginEdit(handle uuid.UUID) (model.Pin, error) {
	if err := s.RequireAdmin(); err != nil {
		return model.Pin{}, err
	}
	p, err := s.store.Get(handle)
	if err != nil {
		return model.Pin{}, err
	}

	s.mu.Lock()
	s.editing = handle
	s.mu.Unlock()
	return p, nil
}

// EditTarget returns the pin currently open for editing, if any.
func (s *Session) EditTarget() (model.Pin, bool) {
	s.mu.Lock()
	handle := s.editing
	s.mu.Unlock()
	if handle == uuid.Nil {
		return model.Pin{}, false
	}
	p, err := s.store.Get(handle)
	if err != nil {
		return model.Pin{}, false
	}
	return p, true
}

// CommitEdit applies category and comment to the open edit target and closes
// it. An empty comment fails validation and leaves the target open.
func (s *Session) CommitEdit(cat category.Category, comment string) (model.Pin, error) {
	if err := s.RequireAdmin(); err != nil {
		return model.Pin{}, err
	}

	s.mu.Lock()
	handle := s.editing
	s.mu.Unlock()
	if handle == uuid.Nil {
		return model.Pin{}, model.NewValidationError("edit", "no pin open for editing")
	}

	if _, err := s.store.SetComment(handle, comment); err != nil {
		return model.Pin{}, err
	}
	p, err := s.store.Retype(handle, cat)
	if err != nil {
		return model.Pin{}, err
	}

	s.mu.Lock()
	if s.editing == handle {
		s.editing = uuid.Nil
	}
	s.mu.Unlock()
	return p, nil
}

// CloseEdit dismisses the open edit target without applying anything. The
// view layer calls this when its popup closes, replacing the original's
// settle-timer hack with an acknowledged event.
func (s *Session) CloseEdit() {
	s.mu.Lock()
	s.editing = uuid.Nil
	s.mu.Unlock()
}
