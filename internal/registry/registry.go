// Package registry maps game ids to their plugin implementations. Games
// register static metadata plus a loader in init() functions, allowing the
// platform to list the catalog without loading anything and to resolve a
// game on demand, caching it thereafter.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/corticalab/neuroplay/internal/core"
)

// Loader resolves a game's implementation, including any static content it
// needs (lexicons, indexes). Called at most once per id for the lifetime
// of a registry, and only when the game is first requested.
type Loader func() (core.Game, error)

type entry struct {
	meta   core.Metadata
	loader Loader

	mu      sync.Mutex
	loaded  core.Game
	pending chan struct{} // non-nil while a load is in flight
}

// Registry holds the game table. The zero value is not usable; call New.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Default is the process-wide registry games register into from init().
var Default = New()

// Register adds a game's metadata and loader. Panics if the id is already
// taken, since that is a wiring bug caught at startup.
func (r *Registry) Register(meta core.Metadata, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[meta.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", meta.ID))
	}
	r.entries[meta.ID] = &entry{meta: meta, loader: loader}
}

// Register adds a game to the default registry.
func Register(meta core.Metadata, loader Loader) {
	Default.Register(meta, loader)
}

// ListMetadata returns metadata for all registered games, sorted by id.
// Never triggers a load.
func (r *Registry) ListMetadata() []core.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Metadata, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Metadata returns the static metadata for one game without loading it.
func (r *Registry) Metadata(id string) (core.Metadata, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return core.Metadata{}, fmt.Errorf("registry: %q: %w", id, core.ErrUnknownGame)
	}
	return e.meta, nil
}

// Load returns the game for the given id, resolving it on first use.
// Concurrent calls for the same unloaded id share one in-flight load:
// later callers block on the same result instead of issuing a second
// resolution. A failed load is not cached, so a retry re-resolves.
func (r *Registry) Load(id string) (core.Game, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: %q: %w", id, core.ErrUnknownGame)
	}

	for {
		e.mu.Lock()
		if e.loaded != nil {
			g := e.loaded
			e.mu.Unlock()
			return g, nil
		}
		if e.pending == nil {
			// We own the load.
			e.pending = make(chan struct{})
			done := e.pending
			e.mu.Unlock()

			g, err := e.loader()

			e.mu.Lock()
			if err == nil {
				e.loaded = g
			}
			e.pending = nil
			e.mu.Unlock()
			close(done)

			if err != nil {
				return nil, &core.ContentLoadError{GameID: id, Err: err}
			}
			return g, nil
		}
		// Someone else is loading; wait for them and re-check.
		done := e.pending
		e.mu.Unlock()
		<-done
	}
}

// Exists reports whether a game id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}
