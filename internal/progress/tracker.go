// Package progress tracks per-pin completion, persisted by position+category
// fingerprint so a fresh load can re-associate state without stable ids.
package progress

import (
	"context"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dragonsword-map/server/internal/category"
	"github.com/dragonsword-map/server/internal/model"
	"github.com/dragonsword-map/server/internal/pins"
)

// KV is the persistent fingerprint set. localstate.Store implements it.
type KV interface {
	SetFingerprint(ctx context.Context, fp string) error
	DeleteFingerprint(ctx context.Context, fp string) error
	ListFingerprints(ctx context.Context) (map[string]bool, error)
	ClearFingerprints(ctx context.Context) error
}

// Tracker maps pins to a persisted done flag. Fingerprints are derived from
// the pin's current position and category, so moving a pin orphans its
// recorded progress; coordinates are the natural key here because new pins
// have no id until exported.
type Tracker struct {
	store *pins.Store
	kv    KV
}

// NewTracker creates a tracker over the given pin store and fingerprint store.
func NewTracker(store *pins.Store, kv KV) *Tracker {
	return &Tracker{store: store, kv: kv}
}

// Fingerprint derives the persistence key for a pin from its current position
// and category: "x_y_category" with minimal float formatting.
func Fingerprint(p model.Pin) string {
	return strconv.FormatFloat(p.Position.X, 'f', -1, 64) + "_" +
		strconv.FormatFloat(p.Position.Y, 'f', -1, 64) + "_" +
		string(p.Category)
}

// Toggle flips a pin's done flag and persists the change immediately.
func (t *Tracker) Toggle(ctx context.Context, handle uuid.UUID) (model.Pin, error) {
	p, err := t.store.Get(handle)
	if err != nil {
		return model.Pin{}, err
	}
	p, err = t.store.SetDone(handle, !p.Done)
	if err != nil {
		return model.Pin{}, err
	}
	fp := Fingerprint(p)
	if p.Done {
		err = t.kv.SetFingerprint(ctx, fp)
	} else {
		err = t.kv.DeleteFingerprint(ctx, fp)
	}
	if err != nil {
		log.Error().Err(err).Str("fingerprint", fp).Msg("failed to persist progress")
		return model.Pin{}, err
	}
	return p, nil
}

// Hydrate sets every pin's done flag from the persisted fingerprint set.
// Called once after load.
func (t *Tracker) Hydrate(ctx context.Context) error {
	saved, err := t.kv.ListFingerprints(ctx)
	if err != nil {
		return err
	}
	t.store.HydrateDone(func(p model.Pin) bool {
		return saved[Fingerprint(p)]
	})
	return nil
}

// Summarize returns per-category totals, done counts and percentage (one
// decimal place). Categories with no pins are omitted.
func (t *Tracker) Summarize() []model.ProgressStat {
	totals := make(map[category.Category]*model.ProgressStat)
	for _, p := range t.store.Snapshot() {
		st, ok := totals[p.Category]
		if !ok {
			st = &model.ProgressStat{Category: p.Category, Name: p.Category.Name()}
			totals[p.Category] = st
		}
		st.Total++
		if p.Done {
			st.Done++
		}
	}

	var out []model.ProgressStat
	for _, c := range category.All() {
		st, ok := totals[c]
		if !ok {
			continue
		}
		st.Percent = math.Round(float64(st.Done)/float64(st.Total)*1000) / 10
		out = append(out, *st)
	}
	return out
}

// ResetAll clears the persisted fingerprint set and every pin's done flag.
func (t *Tracker) ResetAll(ctx context.Context) error {
	if err := t.kv.ClearFingerprints(ctx); err != nil {
		return err
	}
	t.store.ClearDone()
	return nil
}
