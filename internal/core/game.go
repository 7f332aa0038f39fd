// Package core defines the contract every NeuroPlay game plugin implements:
// the init/update/summarize triad, the session types flowing through it,
// and the error taxonomy shared by the registry and the mode runner.
// Game logic is pure: no I/O, no clocks, no global state. The platform
// handles mode sequencing, telemetry, and persistence.
package core

// Mode governs how many rounds of a game are played and how they are
// scored together.
type Mode string

const (
	ModeOneShot   Mode = "oneshot"   // exactly one round
	ModeJourney   Mode = "journey"   // fixed number of rounds, derived seeds
	ModeArena     Mode = "arena"     // time-boxed round loop
	ModeEndurance Mode = "endurance" // ordered sequence of distinct games
)

// Metadata is the static descriptor for a game. It is available from the
// registry without loading the game itself, so catalog UIs never trigger
// content loads.
type Metadata struct {
	ID          string
	Name        string
	Description string
	Category    string
	Modes       []Mode
	// UISchema is opaque to the engine; the UI layer reads it to know how
	// to present the game's State.Data.
	UISchema map[string]any
}

// Supports reports whether the game can be played in the given mode.
func (m Metadata) Supports(mode Mode) bool {
	for _, s := range m.Modes {
		if s == mode {
			return true
		}
	}
	return false
}

// Game is the uniform interface all plugins implement. Implementations
// must be safe for concurrent sessions: all per-session data lives in
// State, never in the Game value.
//
// Init constructs a deterministic initial puzzle from ctx.Seed. Same seed
// means same initial state, which is what makes replay and testing work.
// It may fail only when required static content is unavailable; that is a
// load-time defect, not a gameplay error.
//
// Update is a pure function of (state, action). Given a non-done state it
// returns the successor state; it never mutates its input. A semantically
// invalid action returns the unchanged state together with
// ErrInvalidAction.
//
// Summarize is a pure function of a done state. It must be total: any
// state with Done set produces a summary with an integer score in [0,100].
type Game interface {
	Meta() Metadata
	Init(ctx Context) (State, error)
	Update(ctx Context, state State, action Action) (State, error)
	Summarize(ctx Context, state State) (Summary, error)
}
