package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/config"
	"github.com/dragonsword-map/server/internal/model"
	"github.com/dragonsword-map/server/internal/pins"
)

const testPassphrase = "open-sesame"

func testSession(t *testing.T) (*Session, *pins.Store) {
	t.Helper()
	store := pins.NewStore(config.DeletePolicyAll)
	store.LoadAll([]pins.Record{
		{ID: 1, Type: string(category.Treasure), X: 10, Y: 20, Comment: "chest"},
	})
	return New(store, testPassphrase), store
}

func TestSwitchModeRequiresPassphrase(t *testing.T) {
	s, _ := testSession(t)
	assert.Equal(t, ModeUser, s.Mode())

	err := s.SwitchMode(ModeAdmin, "wrong")
	require.ErrorIs(t, err, model.ErrBadPassphrase)
	assert.Equal(t, ModeUser, s.Mode())

	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	assert.Equal(t, ModeAdmin, s.Mode())
}

func TestUnlockPersistsForProcess(t *testing.T) {
	s, _ := testSession(t)
	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	require.NoError(t, s.SwitchMode(ModeUser, ""))

	// Re-entering admin mode after one successful unlock needs no passphrase.
	require.NoError(t, s.SwitchMode(ModeAdmin, ""))
	assert.Equal(t, ModeAdmin, s.Mode())
}

func TestSwitchModeUnknown(t *testing.T) {
	s, _ := testSession(t)
	err := s.SwitchMode(Mode("root"), "")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestLeavingAdminClearsSelections(t *testing.T) {
	s, store := testSession(t)
	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))

	h := store.Snapshot()[0].Handle
	_, _, err := store.ToggleDeleteSelection(h)
	require.NoError(t, err)
	_, err = s.BeginEdit(h)
	require.NoError(t, err)

	require.NoError(t, s.SwitchMode(ModeUser, ""))
	assert.Empty(t, store.PendingDeletions())
	_, open := s.EditTarget()
	assert.False(t, open)
}

func TestRequireAdmin(t *testing.T) {
	s, _ := testSession(t)
	err := s.RequireAdmin()
	require.Error(t, err)
	assert.True(t, model.IsPreconditionError(err))

	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	assert.NoError(t, s.RequireAdmin())
}

func TestEditLifecycle(t *testing.T) {
	s, store := testSession(t)
	h := store.Snapshot()[0].Handle

	_, err := s.BeginEdit(h)
	require.Error(t, err, "editing requires admin mode")

	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	p, err := s.BeginEdit(h)
	require.NoError(t, err)
	assert.Equal(t, h, p.Handle)

	target, open := s.EditTarget()
	require.True(t, open)
	assert.Equal(t, h, target.Handle)

	p, err = s.CommitEdit(category.Quest, "moved chest")
	require.NoError(t, err)
	assert.Equal(t, category.Quest, p.Category)
	assert.Equal(t, "moved chest", p.Comment)
	_, open = s.EditTarget()
	assert.False(t, open, "commit closes the edit")
}

func TestCommitEditEmptyCommentLeavesTargetOpen(t *testing.T) {
	s, store := testSession(t)
	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	h := store.Snapshot()[0].Handle
	_, err := s.BeginEdit(h)
	require.NoError(t, err)

	_, err = s.CommitEdit(category.Quest, "   ")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))

	_, open := s.EditTarget()
	assert.True(t, open, "failed commit keeps the target open")

	s.CloseEdit()
	_, open = s.EditTarget()
	assert.False(t, open)
}

func TestCommitEditWithoutTarget(t *testing.T) {
	s, _ := testSession(t)
	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	_, err := s.CommitEdit(category.Quest, "comment")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestBeginEditUnknownHandle(t *testing.T) {
	s, _ := testSession(t)
	require.NoError(t, s.SwitchMode(ModeAdmin, testPassphrase))
	_, err := s.BeginEdit(uuid.New())
	require.Error(t, err)
	assert.True(t, model.IsNotFoundError(err))
}
