package runner

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/telemetry"
)

// fakeClock is a manually advanced clock for deadline tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// oracleGame scores each round from a seed->score table. A select action
// completes the round; a submit action is invalid.
type oracleGame struct {
	meta   core.Metadata
	scores map[int64]int // round seed -> score
	signal string
}

type oracleData struct {
	Seed int64
}

func newOracle(id string, modes []core.Mode, scores map[int64]int) *oracleGame {
	return &oracleGame{
		meta:   core.Metadata{ID: id, Name: id, Modes: modes},
		scores: scores,
		signal: "focus",
	}
}

func (g *oracleGame) Meta() core.Metadata { return g.meta }

func (g *oracleGame) Init(ctx core.Context) (core.State, error) {
	return core.State{Step: 0, Done: false, Data: oracleData{Seed: ctx.Seed}}, nil
}

func (g *oracleGame) Update(ctx core.Context, st core.State, a core.Action) (core.State, error) {
	if a.Type != core.ActionSelect {
		return st, core.ErrInvalidAction
	}
	return core.State{Step: st.Step + 1, Done: true, Data: st.Data}, nil
}

func (g *oracleGame) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	data := st.Data.(oracleData)
	score, ok := g.scores[data.Seed]
	if !ok {
		score = 50
	}
	return core.Summary{
		Score:        score,
		SkillSignals: map[string]float64{g.signal: float64(score)},
	}, nil
}

func registerOracle(r *registry.Registry, g *oracleGame) {
	r.Register(g.meta, func() (core.Game, error) { return g, nil })
}

func allModes() []core.Mode {
	return []core.Mode{core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance}
}

func testRunner(t *testing.T, reg *registry.Registry, cfg Config) (*Runner, *telemetry.MemorySink) {
	t.Helper()
	sink := telemetry.NewMemorySink()
	return New(reg, sink, nil, cfg), sink
}

func TestOneShotCompletes(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), map[int64]int{7: 85}))
	r, sink := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{UserID: "u1", Seed: 7, Mode: core.ModeOneShot}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.Phase() != PhaseAwaitingAction {
		t.Fatalf("phase = %s, want AwaitingAction", s.Phase())
	}

	st, err := s.Submit(core.SelectAction(0))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !st.Done {
		t.Error("state not done after terminal update")
	}
	if s.Phase() != PhaseCompleted {
		t.Errorf("phase = %s, want Completed", s.Phase())
	}

	sum, ok := s.ModeSummary()
	if !ok {
		t.Fatal("no mode summary")
	}
	if sum.Score != 85 {
		t.Errorf("score = %d, want 85", sum.Score)
	}

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("got %d telemetry events, want 1", len(events))
	}
	if events[0].Type != telemetry.EventTypeSessionEnd {
		t.Errorf("event type = %q", events[0].Type)
	}
	if events[0].SessionID != s.ID() {
		t.Error("event session id mismatch")
	}
}

func TestPostCompletionActionRejected(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), nil))
	r, _ := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{Seed: 1, Mode: core.ModeOneShot}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done, err := s.Submit(core.SelectAction(0))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	after, err := s.Submit(core.SelectAction(1))
	if !errors.Is(err, core.ErrPostCompletionAction) {
		t.Errorf("expected ErrPostCompletionAction, got %v", err)
	}
	if after.Done != done.Done || after.Step != done.Step {
		t.Error("post-completion action changed the state")
	}
}

func TestInvalidActionLeavesStateUnchanged(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), nil))
	r, _ := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{Seed: 1, Mode: core.ModeOneShot}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	before := s.State()
	st, err := s.Submit(core.SubmitAction("nope"))
	if !errors.Is(err, core.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	if st.Step != before.Step || st.Done != before.Done {
		t.Error("invalid action changed the state")
	}
	if s.Phase() != PhaseAwaitingAction {
		t.Errorf("phase = %s, want AwaitingAction", s.Phase())
	}
}

func TestUnsupportedModeCheckedBeforeLoad(t *testing.T) {
	reg := registry.New()
	var loads int32
	meta := core.Metadata{ID: "grip", Modes: []core.Mode{core.ModeOneShot}}
	reg.Register(meta, func() (core.Game, error) {
		atomic.AddInt32(&loads, 1)
		return newOracle("grip", []core.Mode{core.ModeOneShot}, nil), nil
	})
	r, _ := testRunner(t, reg, DefaultConfig())

	_, err := r.Start(core.Context{Seed: 1, Mode: core.ModeJourney}, "grip")
	if !errors.Is(err, core.ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
	if atomic.LoadInt32(&loads) != 0 {
		t.Error("unsupported mode still triggered a load")
	}
}

func TestUnknownGame(t *testing.T) {
	r, _ := testRunner(t, registry.New(), DefaultConfig())

	_, err := r.Start(core.Context{Seed: 1, Mode: core.ModeOneShot}, "missing")
	if !errors.Is(err, core.ErrUnknownGame) {
		t.Errorf("expected ErrUnknownGame, got %v", err)
	}
}

func TestJourneyAggregation(t *testing.T) {
	// Round seeds are base+0..base+4; prescribe the round scores.
	scores := map[int64]int{100: 80, 101: 60, 102: 100, 103: 40, 104: 20}
	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), scores))
	r, sink := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{UserID: "u1", Seed: 100, Mode: core.ModeJourney}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for round := 0; round < 5; round++ {
		if s.Phase() != PhaseAwaitingAction {
			t.Fatalf("round %d: phase = %s", round, s.Phase())
		}
		if _, err := s.Submit(core.SelectAction(0)); err != nil {
			t.Fatalf("round %d: Submit failed: %v", round, err)
		}
	}

	if s.Phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want Completed", s.Phase())
	}

	results := s.Results()
	if len(results) != 5 {
		t.Fatalf("got %d round results, want 5", len(results))
	}
	wantRound := []int{80, 60, 100, 40, 20}
	for i, res := range results {
		if res.Summary.Score != wantRound[i] {
			t.Errorf("round %d score = %d, want %d", i, res.Summary.Score, wantRound[i])
		}
	}

	sum, ok := s.ModeSummary()
	if !ok {
		t.Fatal("no mode summary")
	}
	if sum.Score != 60 {
		t.Errorf("aggregate score = %d, want 60 (mean)", sum.Score)
	}
	if got := sum.SkillSignals["focus"]; got != 60 {
		t.Errorf("aggregate focus signal = %v, want 60", got)
	}

	// One game played, one event.
	if events := sink.Events(); len(events) != 1 {
		t.Errorf("got %d telemetry events, want 1", len(events))
	}
}

func TestArenaDeadlineDiscardsPartialRound(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.ArenaDuration = 25 * time.Second
	cfg.Clock = clock.Now

	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), map[int64]int{0: 90, 1: 70, 2: 50}))
	r, _ := testRunner(t, reg, cfg)

	s, err := r.Start(core.Context{Seed: 0, Mode: core.ModeArena}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Round 1 finishes at t+10s, inside the box: counted, next round starts.
	clock.Advance(10 * time.Second)
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("round 1: %v", err)
	}
	if s.Phase() != PhaseAwaitingAction {
		t.Fatalf("after round 1: phase = %s", s.Phase())
	}

	// Round 2 finishes at t+20s: counted, still time left.
	clock.Advance(10 * time.Second)
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("round 2: %v", err)
	}
	if s.Phase() != PhaseAwaitingAction {
		t.Fatalf("after round 2: phase = %s", s.Phase())
	}

	// Round 3 finishes at t+30s, past the 25s deadline: discarded.
	clock.Advance(10 * time.Second)
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("round 3: %v", err)
	}
	if s.Phase() != PhaseCompleted {
		t.Fatalf("after deadline: phase = %s, want Completed", s.Phase())
	}

	results := s.Results()
	if len(results) != 2 {
		t.Fatalf("got %d counted rounds, want 2 (partial discarded)", len(results))
	}

	sum, ok := s.ModeSummary()
	if !ok {
		t.Fatal("no mode summary")
	}
	if sum.Score != 80 {
		t.Errorf("aggregate score = %d, want 80 (mean of 90, 70)", sum.Score)
	}
	if got := sum.Metadata["rounds_completed"]; got != 2 {
		t.Errorf("rounds_completed = %v, want 2", got)
	}
}

func TestArenaQuitStopsEarly(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	cfg.Clock = clock.Now

	reg := registry.New()
	registerOracle(reg, newOracle("grip", allModes(), map[int64]int{0: 90}))
	r, _ := testRunner(t, reg, cfg)

	s, err := r.Start(core.Context{Seed: 0, Mode: core.ModeArena}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clock.Advance(5 * time.Second)
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("round 1: %v", err)
	}

	if _, err := s.Submit(core.QuitAction()); err != nil {
		t.Fatalf("quit: %v", err)
	}
	if s.Phase() != PhaseCompleted {
		t.Errorf("phase = %s, want Completed after quit", s.Phase())
	}
	if len(s.Results()) != 1 {
		t.Errorf("got %d rounds, want 1", len(s.Results()))
	}
}

func TestEnduranceSequencingAndQuit(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("gameA", allModes(), map[int64]int{0: 10}))
	registerOracle(reg, newOracle("gameB", allModes(), map[int64]int{1: 20}))
	registerOracle(reg, newOracle("gameC", allModes(), map[int64]int{2: 30}))
	r, sink := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{Seed: 0, Mode: core.ModeEndurance}, "gameA", "gameB", "gameC")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Complete gameA and gameB, then quit before touching gameC.
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("gameA: %v", err)
	}
	if s.CurrentGame() != "gameB" {
		t.Fatalf("current game = %q, want gameB", s.CurrentGame())
	}
	if _, err := s.Submit(core.SelectAction(0)); err != nil {
		t.Fatalf("gameB: %v", err)
	}
	if _, err := s.Submit(core.QuitAction()); err != nil {
		t.Fatalf("quit: %v", err)
	}

	if s.Phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want Completed", s.Phase())
	}

	results := s.Results()
	if len(results) != 2 {
		t.Fatalf("got %d summaries, want 2", len(results))
	}
	if results[0].GameID != "gameA" || results[1].GameID != "gameB" {
		t.Errorf("summaries out of order: %q then %q", results[0].GameID, results[1].GameID)
	}
	if results[0].Summary.Score != 10 || results[1].Summary.Score != 20 {
		t.Errorf("scores = %d, %d, want 10, 20", results[0].Summary.Score, results[1].Summary.Score)
	}

	// No aggregate for endurance; per-game events only.
	if _, ok := s.ModeSummary(); ok {
		t.Error("endurance produced an aggregate summary")
	}
	if events := sink.Events(); len(events) != 2 {
		t.Errorf("got %d telemetry events, want 2", len(events))
	}
}

func TestEnduranceRejectsDuplicates(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("gameA", allModes(), nil))
	r, _ := testRunner(t, reg, DefaultConfig())

	if _, err := r.Start(core.Context{Mode: core.ModeEndurance}, "gameA", "gameA"); err == nil {
		t.Error("duplicate endurance sequence accepted")
	}
}

// failingInitGame fails Init for every seed in bad.
type failingInitGame struct {
	oracleGame
	bad map[int64]bool
}

func (g *failingInitGame) Init(ctx core.Context) (core.State, error) {
	if g.bad[ctx.Seed] {
		return core.State{}, fmt.Errorf("embeddings unavailable for seed %d", ctx.Seed)
	}
	return g.oracleGame.Init(ctx)
}

func TestInitFailureIsRecoverable(t *testing.T) {
	reg := registry.New()
	game := &failingInitGame{
		oracleGame: *newOracle("grip", allModes(), nil),
		bad:        map[int64]bool{13: true},
	}
	reg.Register(game.meta, func() (core.Game, error) { return game, nil })
	r, _ := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{Seed: 13, Mode: core.ModeOneShot}, "grip")
	var cle *core.ContentLoadError
	if !errors.As(err, &cle) {
		t.Fatalf("expected ContentLoadError, got %v", err)
	}
	if s.Phase() != PhaseInitializing {
		t.Fatalf("phase = %s, want Initializing after failed init", s.Phase())
	}

	// Retry with a fresh seed succeeds.
	if err := s.Retry(14); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if s.Phase() != PhaseAwaitingAction {
		t.Errorf("phase = %s, want AwaitingAction after retry", s.Phase())
	}
}

// badSummaryGame returns an out-of-range score.
type badSummaryGame struct {
	oracleGame
}

func (g *badSummaryGame) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	return core.Summary{Score: 150}, nil
}

func TestSummaryInvariantViolationIsFatal(t *testing.T) {
	reg := registry.New()
	game := &badSummaryGame{oracleGame: *newOracle("grip", allModes(), nil)}
	reg.Register(game.meta, func() (core.Game, error) { return game, nil })
	r, _ := testRunner(t, reg, DefaultConfig())

	s, err := r.Start(core.Context{Seed: 1, Mode: core.ModeOneShot}, "grip")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = s.Submit(core.SelectAction(0))
	var sie *core.SummaryInvariantError
	if !errors.As(err, &sie) {
		t.Fatalf("expected SummaryInvariantError, got %v", err)
	}

	// The session is stuck: every further action reports the same defect.
	if _, err := s.Submit(core.SelectAction(0)); !errors.As(err, &sie) {
		t.Errorf("expected fatal error to persist, got %v", err)
	}
	if s.Phase() == PhaseCompleted {
		t.Error("session with broken summary reported Completed")
	}
}

func TestStartWrongGameCount(t *testing.T) {
	reg := registry.New()
	registerOracle(reg, newOracle("gameA", allModes(), nil))
	registerOracle(reg, newOracle("gameB", allModes(), nil))
	r, _ := testRunner(t, reg, DefaultConfig())

	if _, err := r.Start(core.Context{Mode: core.ModeOneShot}, "gameA", "gameB"); err == nil {
		t.Error("one-shot accepted two game ids")
	}
	if _, err := r.Start(core.Context{Mode: core.ModeEndurance}); err == nil {
		t.Error("endurance accepted an empty sequence")
	}
}
