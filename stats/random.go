package stats

import "math/rand/v2"

// NewSource returns a deterministic random source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Derive returns a new random source seeded from r. Successive calls yield
// independent streams, and the sequence of derived streams is a pure
// function of r's state.
func Derive(r *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))
}

// OneOf returns a uniformly chosen element of options, or the zero value and
// false when options is empty.
func OneOf[T any](r *rand.Rand, options []T) (T, bool) {
	if len(options) == 0 {
		var zero T
		return zero, false
	}
	return options[r.IntN(len(options))], true
}
