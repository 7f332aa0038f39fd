package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/corticalab/neuroplay/internal/content"
	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/rng"
	"github.com/corticalab/neuroplay/internal/runner"
	"github.com/corticalab/neuroplay/internal/storage"
	"github.com/corticalab/neuroplay/internal/telemetry"
)

var (
	flagMode   string
	flagRounds int
)

// maxSubmits bounds the drive loop so a misbehaving policy cannot spin
// forever.
const maxSubmits = 100000

var playCmd = &cobra.Command{
	Use:   "play <game>...",
	Short: "Run a game session",
	Long: `Run a session of the given game in the chosen mode. The session is
played automatically by a seeded policy, so the same seed always
reproduces the same session.

Modes:
  oneshot    - One round, one score
  journey    - A fixed number of rounds, aggregated
  arena      - As many rounds as fit in the time box
  endurance  - One round of each listed game, scored separately

Examples:
  neuroplay play wordbridge
  neuroplay play heatseek --mode journey --seed 42
  neuroplay play wordbridge rareword flashgrid --mode endurance`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "oneshot", "Session mode: oneshot, journey, arena, endurance")
	playCmd.Flags().IntVar(&flagRounds, "rounds", 0, "Journey round count (0 = config default)")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	mode := core.Mode(flagMode)
	switch mode {
	case core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", flagMode)
		os.Exit(1)
	}

	for _, id := range args {
		if !registry.Default.Exists(id) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", id)
			fmt.Fprintln(os.Stderr, "Run 'neuroplay list' to see available games.")
			os.Exit(1)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open database, results will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	rounds := cfg.Modes.JourneyRounds
	if flagRounds > 0 {
		rounds = flagRounds
	}
	r := runner.New(registry.Default, telemetry.NewLogSink(logger), logger, runner.Config{
		JourneyRounds: rounds,
		ArenaDuration: time.Duration(cfg.Modes.ArenaDurationMs) * time.Millisecond,
	})

	ctx := core.Context{
		UserID:   flagUser,
		Seed:     seed,
		Language: cfg.Content.Language,
		Mode:     mode,
	}
	session, err := r.Start(ctx, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		os.Exit(1)
	}

	policy := newPolicy(cfg.Content.Language, seed)
	if err := drive(session, policy, seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error during session: %v\n", err)
		os.Exit(1)
	}

	printResults(session, mode, seed)

	if store != nil {
		if err := persist(store, session, ctx); err != nil {
			logger.Warn("could not save results", "error", err)
		}
	}
}

// drive pushes policy actions through the session until it completes.
func drive(session *runner.Session, policy *policy, seed int64) error {
	for i := 0; i < maxSubmits; i++ {
		switch session.Phase() {
		case runner.PhaseCompleted:
			return nil
		case runner.PhaseInitializing:
			if err := session.Retry(rng.Mix(seed, int64(i)+1)); err != nil {
				return err
			}
			continue
		}

		action, err := policy.next(session)
		if err != nil {
			return err
		}
		if _, err := session.Submit(action); err != nil && !errors.Is(err, core.ErrInvalidAction) {
			return err
		}
	}
	return fmt.Errorf("session did not complete after %d actions", maxSubmits)
}

// policy generates actions from its own RNG, independent of the puzzle
// seeds, so replaying a seed replays the whole session.
type policy struct {
	r      *rand.Rand
	bundle *content.Bundle // lazily loaded, only free-guess games need it
	lang   string
}

func newPolicy(language string, seed int64) *policy {
	return &policy{r: rng.New(rng.Mix(seed, 0x70616c79)), lang: language}
}

func (p *policy) next(session *runner.Session) (core.Action, error) {
	meta, err := registry.Default.Metadata(session.CurrentGame())
	if err != nil {
		return core.Action{}, err
	}

	kind, _ := meta.UISchema["type"].(string)
	switch kind {
	case "free-guess":
		if p.bundle == nil {
			b, err := content.LoadBundle(p.lang)
			if err != nil {
				return core.Action{}, err
			}
			p.bundle = b
		}
		word := p.bundle.Lexicon.Words[p.r.Intn(p.bundle.Lexicon.Len())].Word
		return core.SubmitAction(word), nil

	case "grid-recall":
		// A few taps, then submit.
		if p.r.Intn(6) == 0 {
			return core.SubmitAction(nil), nil
		}
		return core.TapAction(p.r.Intn(16)), nil

	default: // word-choice and anything select-driven
		return core.SelectAction(p.r.Intn(8)), nil
	}
}

func printResults(session *runner.Session, mode core.Mode, seed int64) {
	fmt.Printf("Session %s (%s, seed %d)\n", session.ID(), mode, seed)
	fmt.Println()

	results := session.Results()
	if len(results) == 0 {
		fmt.Println("No rounds completed.")
		return
	}

	fmt.Printf("  %-6s  %-12s  %s\n", "Round", "Game", "Score")
	fmt.Printf("  %-6s  %-12s  %s\n", "-----", "----", "-----")
	for _, res := range results {
		fmt.Printf("  %-6d  %-12s  %d\n", res.Round+1, res.GameID, res.Summary.Score)
	}

	if summary, ok := session.ModeSummary(); ok {
		fmt.Println()
		fmt.Printf("Session score: %d\n", summary.Score)
		for _, id := range sortedSignalIDs(summary.SkillSignals) {
			fmt.Printf("  %-20s  %.1f\n", id, summary.SkillSignals[id])
		}
	}
}

// persist saves round results and folds skill signals into the user's
// brainprint. Storage failures are reported, not fatal: the session
// already happened.
func persist(store *storage.Store, session *runner.Session, ctx core.Context) error {
	for _, res := range session.Results() {
		rec := storage.SessionRecord{
			SessionID:  session.ID(),
			GameID:     res.GameID,
			UserID:     ctx.UserID,
			Mode:       string(ctx.Mode),
			Score:      res.Summary.Score,
			DurationMs: res.Summary.DurationMs,
		}
		if _, err := store.SaveSession(rec); err != nil {
			return err
		}
	}

	return updateBrainprint(store, session, ctx)
}
