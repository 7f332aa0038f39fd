package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrUnknownGame is returned by the registry when a game id is not in
	// the static table. Fatal to that session; the caller should offer
	// another game.
	ErrUnknownGame = errors.New("unknown game")

	// ErrUnsupportedMode is returned before Init is ever called when the
	// requested mode is not in the game's supported set.
	ErrUnsupportedMode = errors.New("mode not supported by game")

	// ErrInvalidAction is returned by Update alongside the unchanged state
	// when an action does not fit the current puzzle (wrong type, index
	// out of range). Recovered locally; the UI may show a "try again".
	ErrInvalidAction = errors.New("invalid action for current state")

	// ErrPostCompletionAction is returned when an action arrives after the
	// state is done. The state is untouched.
	ErrPostCompletionAction = errors.New("action after completion")
)

// ContentLoadError reports that a plugin or its static content failed to
// load. Recoverable: the caller may retry, possibly with a new seed.
type ContentLoadError struct {
	GameID string
	Err    error
}

func (e *ContentLoadError) Error() string {
	return fmt.Sprintf("game %q: content load failed: %v", e.GameID, e.Err)
}

func (e *ContentLoadError) Unwrap() error { return e.Err }

// SummaryInvariantError reports a broken summarize contract: summarize was
// invoked on a non-done state, failed, or produced a score outside [0,100].
// This is a plugin defect, never retried.
type SummaryInvariantError struct {
	GameID string
	Reason string
}

func (e *SummaryInvariantError) Error() string {
	return fmt.Sprintf("game %q: summary invariant violated: %s", e.GameID, e.Reason)
}
