// Package rareword implements the Rare Word game: four words, one of them
// markedly less common than the rest -- pick it. Exact-match scoring, one
// select completes the round.
package rareword

import (
	"fmt"

	"github.com/corticalab/neuroplay/internal/content"
	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/rng"
	"github.com/corticalab/neuroplay/internal/semantic"
)

const (
	gameID      = "rareword"
	optionCount = 4
)

// Data is the puzzle payload.
type Data struct {
	Options []string
	Correct int

	Chosen int
	Score  int
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
		Name:        "Rare Word",
		Description: "Spot the least common word.",
		Category:    "lexical",
		Modes: []core.Mode{
			core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance,
		},
		UISchema: map[string]any{
			"type":    "word-choice",
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

// Init picks four distinct words; the rarest (by corpus frequency) is the
// answer. Ties keep the earliest pick so the answer is stable per seed.
func (g *Game) Init(ctx core.Context) (core.State, error) {
	r := rng.New(ctx.Seed)
	lex := g.bundle.Lexicon

	perm := r.Perm(lex.Len())
	options := make([]string, optionCount)
	correct := 0
	bestRarity := -1
	for i := 0; i < optionCount; i++ {
		e := lex.Words[perm[i]]
		options[i] = e.Word
		if rarity := semantic.Rarity(e.Frequency); rarity > bestRarity {
			bestRarity = rarity
			correct = i
		}
	}

	return core.State{
		Step: 0,
		Done: false,
		Data: Data{Options: options, Correct: correct, Chosen: -1},
	}, nil
}

// Update handles the single select: exact match against the rarest word.
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

	data.Chosen = idx
	if idx == data.Correct {
		data.Score = 100
	}

	return core.State{Step: st.Step + 1, Done: true, Data: data}, nil
}

// Summarize reports the exact-match score plus the rarity of whatever the
// player picked as a discernment signal.
func (g *Game) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	if !st.Done {
		return core.Summary{}, fmt.Errorf("rareword: summarize on unfinished state")
	}
	data := st.Data.(Data)

	chosen := data.Options[data.Chosen]
	discernment := 0
	if e, ok := g.bundle.Lexicon.Lookup(chosen); ok {
		discernment = semantic.Rarity(e.Frequency)
	}

	return core.Summary{
		Score: data.Score,
		SkillSignals: map[string]float64{
			"lexical-range": float64(data.Score),
			"discernment":   float64(discernment),
		},
		Metadata: map[string]any{
			"options": data.Options,
			"chosen":  chosen,
			"correct": data.Options[data.Correct],
		},
	}, nil
}
