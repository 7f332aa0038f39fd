// Package flashgrid implements the Flash Grid game: a pattern of cells
// lights up on a 4x4 grid, the player recalls it by tapping cells and
// submitting. Exact-match scoring with a partial-credit attention signal.
package flashgrid

import (
	"fmt"
	"math"
	"sort"

	"github.com/corticalab/neuroplay/internal/core"
	"github.com/corticalab/neuroplay/internal/registry"
	"github.com/corticalab/neuroplay/internal/rng"
)

const (
	gameID      = "flashgrid"
	gridSize    = 4
	cellCount   = gridSize * gridSize
	patternSize = 5
)

// Data is the puzzle payload. Taps toggle: tapping a selected cell
// deselects it.
type Data struct {
	Grid    int
	Pattern []int // sorted lit-cell indexes
	Taps    []int // current selection, insertion order

	Score int
}

// Game needs no static content; recall puzzles come straight from the
// seed.
type Game struct{}

// Meta returns the static game descriptor.
func (g *Game) Meta() core.Metadata { return meta() }

func meta() core.Metadata {
	return core.Metadata{
		ID:          gameID,
		Name:        "Flash Grid",
		Description: "Memorize the lit cells, then tap them back.",
		Category:    "memory",
		Modes: []core.Mode{
			core.ModeOneShot, core.ModeJourney, core.ModeArena, core.ModeEndurance,
		},
		UISchema: map[string]any{
			"type":    "grid-recall",
			"grid":    gridSize,
			"pattern": "Pattern",
			"taps":    "Taps",
		},
	}
}

func init() {
	registry.Register(meta(), func() (core.Game, error) {
		return &Game{}, nil
	})
}

// Init draws a deterministic lit-cell pattern from the seed.
func (g *Game) Init(ctx core.Context) (core.State, error) {
	r := rng.New(ctx.Seed)

	perm := r.Perm(cellCount)
	pattern := make([]int, patternSize)
	copy(pattern, perm[:patternSize])
	sort.Ints(pattern)

	return core.State{
		Step: 0,
		Done: false,
		Data: Data{Grid: gridSize, Pattern: pattern},
	}, nil
}

// Update accepts tap actions (toggling cells) until a submit ends the
// round with an exact-match comparison.
func (g *Game) Update(ctx core.Context, st core.State, action core.Action) (core.State, error) {
	if st.Done {
		return st, core.ErrPostCompletionAction
	}
	data := st.Data.(Data)

	switch action.Type {
	case core.ActionTap:
		idx, ok := action.IntPayload()
		if !ok || idx < 0 || idx >= cellCount {
			return st, core.ErrInvalidAction
		}

		taps := make([]int, 0, len(data.Taps)+1)
		removed := false
		for _, t := range data.Taps {
			if t == idx {
				removed = true
				continue
			}
			taps = append(taps, t)
		}
		if !removed {
			taps = append(taps, idx)
		}
		data.Taps = taps

		return core.State{Step: st.Step + 1, Done: false, Data: data}, nil

	case core.ActionSubmit:
		if exactMatch(data.Pattern, data.Taps) {
			data.Score = 100
		}
		return core.State{Step: st.Step + 1, Done: true, Data: data}, nil

	default:
		return st, core.ErrInvalidAction
	}
}

// Summarize reports the exact-match score and a partial-credit attention
// signal (correct taps over the larger of pattern and selection size).
func (g *Game) Summarize(ctx core.Context, st core.State) (core.Summary, error) {
	if !st.Done {
		return core.Summary{}, fmt.Errorf("flashgrid: summarize on unfinished state")
	}
	data := st.Data.(Data)

	lit := make(map[int]bool, len(data.Pattern))
	for _, c := range data.Pattern {
		lit[c] = true
	}
	correct := 0
	for _, t := range data.Taps {
		if lit[t] {
			correct++
		}
	}
	denom := len(data.Pattern)
	if len(data.Taps) > denom {
		denom = len(data.Taps)
	}
	attention := 0.0
	if denom > 0 {
		attention = math.Round(100 * float64(correct) / float64(denom))
	}

	return core.Summary{
		Score: data.Score,
		SkillSignals: map[string]float64{
			"working-memory": float64(data.Score),
			"attention":      attention,
		},
		Metadata: map[string]any{
			"pattern": data.Pattern,
			"taps":    data.Taps,
		},
	}, nil
}

func exactMatch(pattern, taps []int) bool {
	if len(pattern) != len(taps) {
		return false
	}
	sorted := make([]int, len(taps))
	copy(sorted, taps)
	sort.Ints(sorted)
	for i, c := range pattern {
		if sorted[i] != c {
			return false
		}
	}
	return true
}
