// Package rng provides the deterministic random streams behind every
// puzzle. All randomness in a session flows from one integer seed, so a
// session can be replayed bit-for-bit.
package rng

import "math/rand"

// New returns a deterministic pseudo-random stream for the given seed.
// Same seed, same stream.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Derive produces the seed for round n of a multi-round session. Rounds
// stay reproducible yet distinct.
func Derive(base, n int64) int64 {
	return base + n
}

// Mix folds a salt into a seed to obtain an independent sub-stream within
// one puzzle (e.g. decoy placement vs. target choice), so consuming one
// stream does not shift the other.
func Mix(seed, salt int64) int64 {
	return int64(xorshift64(uint64(seed) ^ uint64(salt)*0x9e3779b97f4a7c15))
}

// xorshift64 is a 64-bit xorshift step: fast, stateless, deterministic.
func xorshift64(state uint64) uint64 {
	if state == 0 {
		state = 1
	}
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}
