package runner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/rng"
	"github.com/corticalab/neuroplay/internal/telemetry"
)

// RoundResult is one completed round's summary with its position in the
// session.
type RoundResult struct {
	GameID  string
	Round   int
	Summary core.Summary
}

// Session is one play-through of a mode. It is owned by a single caller:
// actions are processed one at a time, never concurrently.
type Session struct {
	runner *Runner

	id      string
	ctx     core.Context
	gameIDs []string
	phase   Phase

	game      core.Game // current game, loaded per round group
	gameID    string
	state     core.State
	round     int // rounds begun so far (also the endurance cursor)
	roundSeed int64

	startedAt      time.Time
	roundStartedAt time.Time
	deadline       time.Time // arena only

	results []RoundResult
	mode    *core.Summary // aggregate for oneshot/journey/arena
	fatal   error
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current state-machine phase.
func (s *Session) Phase() Phase { return s.phase }

// State returns the current game state. The UI layer reads Data through
// the game's UISchema; the engine treats it as opaque.
func (s *Session) State() core.State { return s.state }

// CurrentGame returns the id of the game the session is currently playing.
func (s *Session) CurrentGame() string { return s.gameID }

// Results returns the per-round summaries recorded so far, in order.
// For endurance these are the product: one preserved summary per game.
func (s *Session) Results() []RoundResult {
	out := make([]RoundResult, len(s.results))
	copy(out, s.results)
	return out
}

// ModeSummary returns the aggregate session summary. Endurance sessions
// have no aggregate (per-game summaries stay individual), so ok is false.
func (s *Session) ModeSummary() (core.Summary, bool) {
	if s.mode == nil {
		return core.Summary{}, false
	}
	return *s.mode, true
}

// gameCtx is the context handed to the plugin for the current round: the
// session context with the round-derived seed.
func (s *Session) gameCtx() core.Context {
	ctx := s.ctx
	ctx.Seed = s.roundSeed
	return ctx
}

// beginRound loads the current game if needed and builds its initial
// puzzle. On init failure the session stays in Initializing and the error
// is recoverable.
func (s *Session) beginRound() error {
	s.phase = PhaseInitializing

	var id string
	if s.ctx.Mode == core.ModeEndurance {
		id = s.gameIDs[s.round]
	} else {
		id = s.gameIDs[0]
	}

	if s.game == nil || s.gameID != id {
		game, err := s.runner.registry.Load(id)
		if err != nil {
			return err
		}
		s.game = game
		s.gameID = id
	}

	s.roundSeed = rng.Derive(s.ctx.Seed, int64(s.round))
	state, err := s.game.Init(s.gameCtx())
	if err != nil {
		return &core.ContentLoadError{GameID: id, Err: err}
	}

	s.state = state
	s.roundStartedAt = s.runner.now()
	s.phase = PhaseAwaitingAction
	return nil
}

// Retry re-attempts initialization with a new seed. Only valid while the
// session is stuck in Initializing after a failed init.
func (s *Session) Retry(seed int64) error {
	if s.phase != PhaseInitializing {
		return fmt.Errorf("runner: retry in phase %s", s.phase)
	}
	s.ctx.Seed = seed
	return s.beginRound()
}

// Submit feeds one player action into the session and advances the state
// machine. Invalid actions leave the state unchanged and return
// core.ErrInvalidAction; actions after completion return
// core.ErrPostCompletionAction. A SummaryInvariantError is fatal: the
// session cannot make further progress.
func (s *Session) Submit(action core.Action) (core.State, error) {
	if s.fatal != nil {
		return s.state, s.fatal
	}
	if s.phase == PhaseCompleted {
		return s.state, core.ErrPostCompletionAction
	}
	if s.phase != PhaseAwaitingAction {
		return s.state, fmt.Errorf("runner: action in phase %s", s.phase)
	}

	// Quit is a mode-level action in the open-ended modes: it ends the
	// session without scoring the round in flight.
	if action.Type == core.ActionQuit &&
		(s.ctx.Mode == core.ModeArena || s.ctx.Mode == core.ModeEndurance) {
		s.complete()
		return s.state, nil
	}

	// A done state never receives further actions.
	if s.state.Done {
		return s.state, core.ErrPostCompletionAction
	}

	next, err := s.game.Update(s.gameCtx(), s.state, action)
	if err != nil {
		// State is unchanged by contract; surface the error for the UI.
		return s.state, err
	}
	s.state = next

	if !next.Done {
		return s.state, nil
	}

	s.phase = PhaseScoring
	if err := s.scoreRound(); err != nil {
		// A broken summarize contract is fatal; a failed init of the next
		// round is recoverable via Retry.
		var sie *core.SummaryInvariantError
		if errors.As(err, &sie) {
			s.fatal = err
		}
		return s.state, err
	}
	return s.state, nil
}

// scoreRound summarizes the just-finished round and applies mode
// sequencing: either the next round begins or the session completes.
func (s *Session) scoreRound() error {
	summary, err := s.game.Summarize(s.gameCtx(), s.state)
	if err != nil {
		return &core.SummaryInvariantError{GameID: s.gameID, Reason: err.Error()}
	}
	if !summary.ValidScore() {
		return &core.SummaryInvariantError{
			GameID: s.gameID,
			Reason: fmt.Sprintf("score %d outside [0,100]", summary.Score),
		}
	}

	finishedAt := s.runner.now()
	summary.DurationMs = finishedAt.Sub(s.roundStartedAt).Milliseconds()

	switch s.ctx.Mode {
	case core.ModeOneShot:
		s.record(summary)
		s.complete()

	case core.ModeJourney:
		s.record(summary)
		s.round++
		if s.round < s.runner.config.JourneyRounds {
			return s.beginRound()
		}
		s.complete()

	case core.ModeArena:
		// A round that finishes past the deadline is discarded, not
		// scored as zero.
		if !finishedAt.After(s.deadline) {
			s.record(summary)
		}
		s.round++
		if finishedAt.Before(s.deadline) {
			return s.beginRound()
		}
		s.complete()

	case core.ModeEndurance:
		s.record(summary)
		s.emit(s.gameID, summary)
		s.round++
		if s.round < len(s.gameIDs) {
			return s.beginRound()
		}
		s.complete()
	}
	return nil
}

func (s *Session) record(summary core.Summary) {
	s.results = append(s.results, RoundResult{
		GameID:  s.gameID,
		Round:   len(s.results),
		Summary: summary,
	})
}

// complete finalizes the session: computes the aggregate summary for the
// single-game modes, emits telemetry, and transitions to Completed.
func (s *Session) complete() {
	switch s.ctx.Mode {
	case core.ModeOneShot:
		if len(s.results) > 0 {
			sum := s.results[0].Summary
			s.mode = &sum
			s.emit(s.gameID, sum)
		}
	case core.ModeJourney, core.ModeArena:
		sum := s.aggregate()
		s.mode = &sum
		s.emit(s.gameID, sum)
	case core.ModeEndurance:
		// Per-game summaries were emitted as they completed.
	}

	s.phase = PhaseCompleted
	s.runner.logger.Debug("session completed",
		"session", s.id,
		"mode", s.ctx.Mode,
		"rounds", len(s.results),
	)
}

// aggregate folds the recorded round summaries into one mode-level
// summary: mean score (rounded), skill signals summed then divided by the
// round count, durations added up.
func (s *Session) aggregate() core.Summary {
	n := len(s.results)
	out := core.Summary{
		SkillSignals: make(map[string]float64),
		Metadata: map[string]any{
			"rounds_completed": n,
		},
	}
	if n == 0 {
		return out
	}

	var scoreTotal float64
	for _, r := range s.results {
		scoreTotal += float64(r.Summary.Score)
		out.DurationMs += r.Summary.DurationMs
		for id, v := range r.Summary.SkillSignals {
			out.SkillSignals[id] += v
		}
	}
	out.Score = int(math.Round(scoreTotal / float64(n)))
	for id := range out.SkillSignals {
		out.SkillSignals[id] /= float64(n)
	}
	return out
}

// emit sends the single game_session_end event for a completed game.
func (s *Session) emit(gameID string, summary core.Summary) {
	s.runner.sink.Emit(telemetry.Event{
		Type:      telemetry.EventTypeSessionEnd,
		Timestamp: s.runner.now(),
		UserID:    s.ctx.UserID,
		SessionID: s.id,
		Metadata: map[string]any{
			"game_id":       gameID,
			"mode":          string(s.ctx.Mode),
			"score":         summary.Score,
			"duration_ms":   summary.DurationMs,
			"skill_signals": summary.SkillSignals,
		},
	})
}
