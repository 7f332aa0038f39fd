// Package wordbridge implements the Word Bridge game: given two anchor
// words, pick the option that sits semantically between them. Scoring uses
// the midpoint ranking from the scoring kernel; one select completes the
// round.
package wordbridge

import (
	"context"
	"fmt"
	"math"

	"github.com/corticalab/neuroplay/internal/content"
	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/rng"
	"github.com/corticalab/neuroplay/internal/semantic"
)

const (
	gameID      = "wordbridge"
	poolPerSide = 4
	maxOptions  = 6
)

// Data is the puzzle payload. Score fields are zero until the round is
// done; score is finalized at update time.
type Data struct {
	AnchorA string
	AnchorB string
	Options []string

	Chosen     int
	Score      int
	BestOption string
}

// Game holds the static content shared by all sessions.
type Game struct {
	bundle *content.Bundle
}

// Meta returns the static game descriptor.
func (g *Game) Meta() core.Metadata { return meta() }

func meta() core.Metadata {
	return core.Metadata{
		ID:          gameID,
		Name:        "Word Bridge",
		Description: "Find the word that bridges two anchors.",
		Category:    "semantic",
		Modes: []core.Mode{
			core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance,
		},
		UISchema: map[string]any{
			"type":    "word-choice",
			"anchors": []string{"AnchorA", "AnchorB"},
			"options": "Options",
		},
	}
}

func init() {
	registry.Register(meta(), func() (core.Game, error) {
		bundle, err := content.LoadBundle("en")
		if err != nil {
			return nil, err
		}
		return &Game{bundle: bundle}, nil
	})
}

// Init builds the puzzle: two anchors from distinct themes and an option
// pool drawn from each anchor's nearest neighbours. Pure function of the
// seed.
func (g *Game) Init(ctx core.Context) (core.State, error) {
	r := rng.New(ctx.Seed)
	lex := g.bundle.Lexicon

	anchorA := lex.Words[r.Intn(lex.Len())]
	anchorB := lex.Words[r.Intn(lex.Len())]
	for anchorB.Theme == anchorA.Theme {
		anchorB = lex.Words[r.Intn(lex.Len())]
	}

	neighborsA, err := g.bundle.Index.Neighbors(context.Background(), anchorA.Word, poolPerSide)
	if err != nil {
		return core.State{}, err
	}
	neighborsB, err := g.bundle.Index.Neighbors(context.Background(), anchorB.Word, poolPerSide)
	if err != nil {
		return core.State{}, err
	}

	seen := map[string]bool{anchorA.Word: true, anchorB.Word: true}
	var options []string
	for _, n := range append(neighborsA, neighborsB...) {
		if seen[n.Word] {
			continue
		}
		seen[n.Word] = true
		options = append(options, n.Word)
	}

	// Deterministic shuffle so the best option isn't always first.
	r.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	if len(options) > maxOptions {
		options = options[:maxOptions]
	}

	return core.State{
		Step: 0,
		Done: false,
		Data: Data{
			AnchorA: anchorA.Word,
			AnchorB: anchorB.Word,
			Options: options,
			Chosen:  -1,
		},
	}, nil
}

// Update handles the single select: scores the chosen option against the
// midpoint ranking and completes the round.
func (g *Game) Update(ctx core.Context, st core.State, action core.Action) (core.State, error) {
	if st.Done {
		return st, core.ErrPostCompletionAction
	}
	data := st.Data.(Data)

	if action.Type != core.ActionSelect {
		return st, core.ErrInvalidAction
	}
	idx, ok := action.IntPayload()
	if !ok || idx < 0 || idx >= len(data.Options) {
		return st, core.ErrInvalidAction
	}

	vecA, _ := g.bundle.Lexicon.Vector(data.AnchorA)
	vecB, _ := g.bundle.Lexicon.Vector(data.AnchorB)

	pool := make([]semantic.Candidate, len(data.Options))
	for i, w := range data.Options {
		v, _ := g.bundle.Lexicon.Vector(w)
		pool[i] = semantic.Candidate{ID: w, Vector: v}
	}

	best, scores, err := semantic.BestMidpoint(vecA, vecB, pool)
	if err != nil {
		return st, err
	}

	// Normalize the chosen option's rank distance against the pool spread.
	worst := scores[0].Final
	for _, s := range scores {
		if s.Final < worst {
			worst = s.Final
		}
	}
	spread := scores[best].Final - worst
	nd := 0.0
	if spread > 0 {
		nd = (scores[best].Final - scores[idx].Final) / spread
	}
	score := int(math.Round(math.Max(0, 100-nd*100)))

	data.Chosen = idx
	data.Score = score
	data.BestOption = pool[best].ID

	return core.State{Step: st.Step + 1, Done: true, Data: data}, nil
}

// Summarize reports the finalized score plus skill signals.
func (g *Game) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	if !st.Done {
		return core.Summary{}, fmt.Errorf("wordbridge: summarize on unfinished state")
	}
	data := st.Data.(Data)

	chosen := data.Options[data.Chosen]
	rarity := 0
	if e, ok := g.bundle.Lexicon.Lookup(chosen); ok {
		rarity = semantic.Rarity(e.Frequency)
	}

	return core.Summary{
		Score: data.Score,
		SkillSignals: map[string]float64{
			"semantic-precision": float64(data.Score),
			"lexical-range":      float64(rarity),
		},
		Metadata: map[string]any{
			"anchor_a":    data.AnchorA,
			"anchor_b":    data.AnchorB,
			"chosen":      chosen,
			"best_option": data.BestOption,
		},
	}, nil
}
