package reaction

import "math/rand/v2"

// Random supplies the pre-reaction wait in ticks.
// The controller calls it once per Waiting entry with
// (MinReactionDuration, MaxReactionDuration).
type Random interface {
	GetRandom(from, to int) int
}

// RandomFunc adapts a plain function to the Random interface.
type RandomFunc func(from, to int) int

// GetRandom calls f(from, to).
func (f RandomFunc) GetRandom(from, to int) int {
	return f(from, to)
}

// UniformRandom samples uniformly from the inclusive range [from, to].
type UniformRandom struct {
	rng *rand.Rand
}

// NewUniformRandom creates a deterministic source for the given seed.
func NewUniformRandom(seed int64) *UniformRandom {
	return &UniformRandom{rng: newRand(seed)}
}

// GetRandom returns a value in [from, to]. Reversed bounds are swapped.
func (u *UniformRandom) GetRandom(from, to int) int {
	if to < from {
		from, to = to, from
	}
	return from + u.rng.IntN(to-from+1)
}

// LegacyRandom reproduces the reference cabinet's test source, which
// computes Next(from) + to. Results fall in [to, to+from), not [from, to].
type LegacyRandom struct {
	rng *rand.Rand
}

// NewLegacyRandom creates a deterministic legacy source for the given seed.
func NewLegacyRandom(seed int64) *LegacyRandom {
	return &LegacyRandom{rng: newRand(seed)}
}

// GetRandom returns Next(from) + to.
func (l *LegacyRandom) GetRandom(from, to int) int {
	if from <= 0 {
		return to
	}
	return l.rng.IntN(from) + to
}

// FixedRandom always returns the same wait.
type FixedRandom int

// GetRandom returns int(f) regardless of the bounds.
func (f FixedRandom) GetRandom(_, _ int) int {
	return int(f)
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
