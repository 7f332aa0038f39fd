// Package brainprint folds the skill signals emitted by game summaries
// into a player's multi-dimensional cognitive profile. Each dimension keeps
// a streaming mean and a sample count -- never the full history.
package brainprint

import (
	"sort"
	"sync"

	"github.com/corticalab/neuroplay/internal/core"
)

// Dimension is one cognitive dimension of the profile.
type Dimension struct {
	ID          string
	Score       float64 // running mean of observed signal values
	SampleCount int
}

// ProfileStore abstracts where profiles live. The aggregator depends only
// on this interface, not on a storage medium.
type ProfileStore interface {
	LoadProfile(userID string) (map[string]Dimension, error)
	SaveProfile(userID string, dims map[string]Dimension) error
}

// Aggregator maintains one player's brainprint. Observe is safe to call
// from parallel sessions; updates serialize on an internal mutex.
//
// Observe is a streaming update, not idempotent: the caller owns
// at-most-once delivery of each summary. Replaying an event log through
// Observe would double-count.
type Aggregator struct {
	mu     sync.Mutex
	userID string
	dims   map[string]*Dimension
}

// New creates an empty aggregator for a user.
func New(userID string) *Aggregator {
	return &Aggregator{
		userID: userID,
		dims:   make(map[string]*Dimension),
	}
}

// Restore creates an aggregator pre-seeded from a stored profile.
func Restore(userID string, stored map[string]Dimension) *Aggregator {
	a := New(userID)
	for id, d := range stored {
		copy := d
		a.dims[id] = &copy
	}
	return a
}

// UserID returns the profile owner.
func (a *Aggregator) UserID() string { return a.userID }

// Observe folds one game summary into the profile. For every dimension in
// the summary the running mean moves by (value - mean) / (n + 1); absent
// dimensions are untouched, with no decay.
func (a *Aggregator) Observe(summary core.Summary) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, value := range summary.SkillSignals {
		d, ok := a.dims[id]
		if !ok {
			d = &Dimension{ID: id}
			a.dims[id] = d
		}
		d.Score += (value - d.Score) / float64(d.SampleCount+1)
		d.SampleCount++
	}
}

// Snapshot returns a copy of the current profile keyed by dimension id.
func (a *Aggregator) Snapshot() map[string]Dimension {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]Dimension, len(a.dims))
	for id, d := range a.dims {
		out[id] = *d
	}
	return out
}

// Dimensions returns the profile as a slice sorted by dimension id, for
// stable display.
func (a *Aggregator) Dimensions() []Dimension {
	snap := a.Snapshot()

	out := make([]Dimension, 0, len(snap))
	for _, d := range snap {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Persist writes the current profile to the store.
func (a *Aggregator) Persist(store ProfileStore) error {
	return store.SaveProfile(a.userID, a.Snapshot())
}
