// Package heatseek implements the Heat Seek game: a hidden theme cluster
// is chosen from the lexicon and the player homes in on it word by word,
// guided only by heat feedback from the scoring kernel.
package heatseek

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/corticalab/neuroplay/internal/content"
	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/rng"
	"github.com/corticalab/neuroplay/internal/semantic"
)

const (
	gameID      = "heatseek"
	clusterSize = 4
	guessLimit  = 5
	foundHeat   = 0.9
)

// Guess is one scored attempt.
type Guess struct {
	Word string
	Heat float64
}

// Data is the puzzle payload. Center stays hidden from the UI schema; the
// UI only renders guesses and their heat.
type Data struct {
	Cluster []string
	Center  []float64
	Guesses []Guess
	Best    float64
	Found   bool
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
		Name:        "Heat Seek",
		Description: "Chase a hidden theme using hot/cold feedback.",
		Category:    "semantic",
		Modes: []core.Mode{
			core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance,
		},
		UISchema: map[string]any{
			"type":    "free-guess",
			"guesses": "Guesses",
			"limit":   guessLimit,
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

// Init picks a cluster seed word and its nearest neighbours as the hidden
// theme, then precomputes the cluster center.
func (g *Game) Init(ctx core.Context) (core.State, error) {
	r := rng.New(ctx.Seed)
	lex := g.bundle.Lexicon

	seedWord := lex.Words[r.Intn(lex.Len())]
	neighbors, err := g.bundle.Index.Neighbors(context.Background(), seedWord.Word, clusterSize-1)
	if err != nil {
		return core.State{}, err
	}

	cluster := []string{seedWord.Word}
	vectors := [][]float64{seedWord.Vector}
	for _, n := range neighbors {
		cluster = append(cluster, n.Word)
		v, _ := lex.Vector(n.Word)
		vectors = append(vectors, v)
	}

	center, err := semantic.Center(vectors)
	if err != nil {
		return core.State{}, err
	}

	return core.State{
		Step: 0,
		Done: false,
		Data: Data{Cluster: cluster, Center: center},
	}, nil
}

// Update scores one guessed word against the hidden center. The round
// ends on a hot-enough guess or when the guess budget runs out.
func (g *Game) Update(ctx core.Context, st core.State, action core.Action) (core.State, error) {
	if st.Done {
		return st, core.ErrPostCompletionAction
	}
	data := st.Data.(Data)

	if action.Type != core.ActionSubmit {
		return st, core.ErrInvalidAction
	}
	word, ok := action.Payload.(string)
	if !ok {
		return st, core.ErrInvalidAction
	}
	word = strings.ToLower(strings.TrimSpace(word))

	vec, ok := g.bundle.Lexicon.Vector(word)
	if !ok {
		return st, core.ErrInvalidAction
	}
	for _, prev := range data.Guesses {
		if prev.Word == word {
			return st, core.ErrInvalidAction
		}
	}

	heat, err := semantic.Heat(vec, data.Center)
	if err != nil {
		return st, err
	}

	guesses := make([]Guess, len(data.Guesses), len(data.Guesses)+1)
	copy(guesses, data.Guesses)
	guesses = append(guesses, Guess{Word: word, Heat: heat})

	data.Guesses = guesses
	if heat > data.Best {
		data.Best = heat
	}
	if heat >= foundHeat {
		data.Found = true
	}

	done := data.Found || len(guesses) >= guessLimit
	return core.State{Step: st.Step + 1, Done: done, Data: data}, nil
}

// Summarize converts best heat into a proximity score and reports how
// efficiently the player searched.
func (g *Game) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	if !st.Done {
		return core.Summary{}, fmt.Errorf("heatseek: summarize on unfinished state")
	}
	data := st.Data.(Data)

	nd := 1 - data.Best
	score := int(math.Round(math.Max(0, 100-nd*100)))

	used := len(data.Guesses)
	efficiency := 0.0
	if used > 0 {
		efficiency = 100 * float64(guessLimit-used+1) / float64(guessLimit)
	}

	return core.Summary{
		Score: score,
		SkillSignals: map[string]float64{
			"semantic-precision": float64(score),
			"search-efficiency":  efficiency,
		},
		Metadata: map[string]any{
			"cluster":   data.Cluster,
			"found":     data.Found,
			"guesses":   used,
			"best_heat": data.Best,
		},
	}, nil
}

