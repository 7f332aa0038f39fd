// Package semantic is the scoring kernel used by games that reason over
// embedding vectors: cosine similarity, rarity, cluster heat, and midpoint
// ranking. Every function is pure and stateless; edge cases (zero vectors,
// dimension mismatches, empty pools) are explicit.
package semantic

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two vectors of different lengths
// are compared.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ErrEmptyInput is returned when an operation needs at least one vector or
// candidate and received none.
var ErrEmptyInput = errors.New("empty input")

// Cosine returns the cosine similarity of a and b. If either vector has
// zero magnitude the similarity is defined as 0 -- never a division by
// zero.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// Normalize returns a unit-length copy of v. A zero vector is returned as
// an unchanged copy, since it has no direction to preserve.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))

	var mag float64
	for _, x := range v {
		mag += x * x
	}
	if mag == 0 {
		copy(out, v)
		return out
	}

	mag = math.Sqrt(mag)
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}
