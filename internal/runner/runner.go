// Package runner drives game sessions through the four play modes. It owns
// the session state machine: resolving the game from the registry, checking
// mode support before any state exists, sequencing rounds, scoring on
// terminal updates, and emitting exactly one telemetry event per game
// played.
package runner

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/telemetry"
)

// Phase is the runner's position in the session state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitializing
	PhaseAwaitingAction
	PhaseScoring
	PhaseCompleted
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInitializing:
		return "Initializing"
	case PhaseAwaitingAction:
		return "AwaitingAction"
	case PhaseScoring:
		return "Scoring"
	case PhaseCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Config holds mode parameters.
type Config struct {
	JourneyRounds int           // rounds per journey session
	ArenaDuration time.Duration // arena time box
	Clock         func() time.Time
}

// DefaultConfig returns the standard mode parameters.
func DefaultConfig() Config {
	return Config{
		JourneyRounds: 5,
		ArenaDuration: 60 * time.Second,
	}
}

// Runner creates and drives sessions. One Runner serves many sessions; all
// per-session state lives in Session.
type Runner struct {
	registry *registry.Registry
	sink     telemetry.Sink
	logger   *log.Logger
	config   Config
	now      func() time.Time
}

// New creates a runner over the given registry and telemetry sink. A nil
// sink discards events; a nil logger gets a default one.
func New(reg *registry.Registry, sink telemetry.Sink, logger *log.Logger, cfg Config) *Runner {
	if sink == nil {
		sink = telemetry.Discard{}
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "runner"})
	}
	if cfg.JourneyRounds <= 0 {
		cfg.JourneyRounds = DefaultConfig().JourneyRounds
	}
	if cfg.ArenaDuration <= 0 {
		cfg.ArenaDuration = DefaultConfig().ArenaDuration
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Runner{
		registry: reg,
		sink:     sink,
		logger:   logger,
		config:   cfg,
		now:      now,
	}
}

// Start creates a session for the given context and game ids. Endurance
// takes an ordered sequence of distinct ids; every other mode takes
// exactly one. Mode support is checked against static metadata before any
// game is loaded or any state is created.
//
// If a game's initial puzzle cannot be built (content load failure) the
// session is returned in the Initializing phase together with a
// recoverable error; call Retry with a fresh seed to try again.
func (r *Runner) Start(ctx core.Context, gameIDs ...string) (*Session, error) {
	if ctx.Mode == core.ModeEndurance {
		if len(gameIDs) == 0 {
			return nil, fmt.Errorf("runner: endurance needs at least one game id")
		}
		seen := make(map[string]bool, len(gameIDs))
		for _, id := range gameIDs {
			if seen[id] {
				return nil, fmt.Errorf("runner: duplicate game %q in endurance sequence", id)
			}
			seen[id] = true
		}
	} else if len(gameIDs) != 1 {
		return nil, fmt.Errorf("runner: mode %s takes exactly one game id, got %d", ctx.Mode, len(gameIDs))
	}

	for _, id := range gameIDs {
		meta, err := r.registry.Metadata(id)
		if err != nil {
			return nil, err
		}
		if !meta.Supports(ctx.Mode) {
			return nil, fmt.Errorf("runner: game %q, mode %s: %w", id, ctx.Mode, core.ErrUnsupportedMode)
		}
	}

	s := &Session{
		runner:    r,
		id:        uuid.NewString(),
		ctx:       ctx,
		gameIDs:   gameIDs,
		phase:     PhaseInitializing,
		startedAt: r.now(),
	}

	if ctx.Mode == core.ModeArena {
		s.deadline = s.startedAt.Add(r.config.ArenaDuration)
	}

	if err := s.beginRound(); err != nil {
		// Recoverable: session stays in Initializing, caller may Retry.
		return s, err
	}
	return s, nil
}
