package semantic

import (
	"math"
	"strings"
)

// maxFrequency is the per-million occurrence count treated as maximally
// common. Anything at or above it scores 0 rarity.
const maxFrequency = 1e6

// Rarity maps a corpus frequency (occurrences per million tokens) to a
// 0-100 uncommonness score. Log-scaled and strictly decreasing in
// frequency: a word ten times rarer gains roughly a constant number of
// points. Zero or negative frequency means "never observed" and scores
// the full 100.
func Rarity(frequency float64) int {
	if frequency <= 0 {
		return 100
	}
	if frequency >= maxFrequency {
		return 0
	}

	scaled := 1 - math.Log1p(frequency)/math.Log1p(maxFrequency)
	return int(math.Round(100 * scaled))
}

// letterWeights scores letters by how uncommon they are in English text,
// on a 1-10 scale. Used only as a proxy when no corpus frequency exists.
var letterWeights = map[rune]float64{
	'e': 1, 't': 1, 'a': 1, 'o': 1, 'i': 1, 'n': 1, 's': 1, 'r': 1,
	'h': 2, 'l': 2, 'd': 2, 'u': 2, 'c': 2,
	'm': 3, 'f': 3, 'w': 3, 'g': 3, 'y': 3, 'p': 3, 'b': 3,
	'v': 5, 'k': 6,
	'x': 8, 'j': 9, 'q': 10, 'z': 10,
}

// SyntheticRarity estimates a 0-100 uncommonness score for a word from
// its letter pattern alone. Words heavy in rare letters (q, z, x, j)
// score high; words built from common letters score low. Deterministic
// and case-insensitive.
func SyntheticRarity(word string) int {
	word = strings.ToLower(word)

	var total float64
	var letters int
	for _, r := range word {
		w, ok := letterWeights[r]
		if !ok {
			continue
		}
		total += w
		letters++
	}
	if letters == 0 {
		return 0
	}

	// Average letter weight is in [1,10]; map to [0,100].
	avg := total / float64(letters)
	score := (avg - 1) / 9 * 100
	return int(math.Round(math.Min(100, math.Max(0, score))))
}
