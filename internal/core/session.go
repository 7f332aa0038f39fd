package core

import "time"

// Context carries the per-session configuration handed to every plugin
// call. It is created once by the runner and never changes for the
// session's lifetime.
type Context struct {
	UserID   string
	Seed     int64
	Language string
	Mode     Mode
}

// State is the full per-round game state. Plugins replace it on every
// Update rather than mutating it in place; Step never decreases and Done
// never flips back to false.
type State struct {
	Step int
	Done bool
	// Data is the game-specific payload. Plugins keep it to value types
	// (structs, slices, maps) so two states built from the same seed
	// compare equal after serialization.
	Data any
}

// ActionType classifies a player action.
type ActionType string

const (
	ActionSelect ActionType = "select" // pick one option; one-shot in selection games
	ActionSubmit ActionType = "submit" // commit an answer or guess
	ActionTap    ActionType = "tap"    // tap a cell/tile; one-shot in tap games
	ActionCustom ActionType = "custom" // game-defined
	ActionQuit   ActionType = "quit"   // stop a multi-round mode early
)

// Action is a single player input, consumed exactly once by Update.
type Action struct {
	Type      ActionType
	Payload   any
	Timestamp time.Time
}

// SelectAction builds a select action for an option index.
func SelectAction(index int) Action {
	return Action{Type: ActionSelect, Payload: index, Timestamp: time.Now()}
}

// SubmitAction builds a submit action for an arbitrary payload.
func SubmitAction(payload any) Action {
	return Action{Type: ActionSubmit, Payload: payload, Timestamp: time.Now()}
}

// TapAction builds a tap action for a cell index.
func TapAction(index int) Action {
	return Action{Type: ActionTap, Payload: index, Timestamp: time.Now()}
}

// QuitAction builds a quit action.
func QuitAction() Action {
	return Action{Type: ActionQuit, Timestamp: time.Now()}
}

// IntPayload extracts an integer payload from an action. Games accept both
// int and float64 because actions that crossed a JSON boundary carry
// numbers as float64.
func (a Action) IntPayload() (int, bool) {
	switch v := a.Payload.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Summary is the result of one completed game round or session. Produced
// exactly once per completed round, immutable thereafter.
type Summary struct {
	// Score is an integer in [0,100]. Proximity games use
	// round(max(0, 100 - normalizedDistance*100)); exact-match games
	// score 100 or 0.
	Score      int
	DurationMs int64
	// SkillSignals maps cognitive dimension ids to values on roughly the
	// same 0-100 scale as Score, so the brainprint aggregator can average
	// across games without per-game calibration.
	SkillSignals map[string]float64
	Metadata     map[string]any
}

// ValidScore reports whether the summary honors the score bound.
func (s Summary) ValidScore() bool {
	return s.Score >= 0 && s.Score <= 100
}
