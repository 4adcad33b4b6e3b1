package selector

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// #region source
// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Next() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

// Next calls f().
func (f SourceFunc) Next() float64 { return f() }

// #endregion source

// #region seeded
type randSource struct {
	r *rand.Rand
}

func (s randSource) Next() float64 { return s.r.Float64() }

// FromRand wraps an existing *rand.Rand.
func FromRand(r *rand.Rand) Source {
	return randSource{r: r}
}

// NewSeeded returns a deterministic source for seed.
func NewSeeded(seed int64) Source {
	return randSource{r: rand.New(rand.NewSource(seed))}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSource returns NewSeeded(seed), drawing a crypto seed when seed is 0.
// The seed actually used is returned so runs can be reproduced.
func NewSource(seed int64) (Source, int64, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, 0, err
		}
		seed = s
	}
	return NewSeeded(seed), seed, nil
}

// #endregion seeded

// #region helpers
// Intn maps src onto [0, n). n must be positive.
func Intn(src Source, n int) int {
	i := int(src.Next() * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Shuffle returns a Fisher-Yates shuffled copy of items.
func Shuffle[T any](src Source, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// #endregion helpers

// #region sequence
// Sequence replays values in order and then repeats the last one. An empty
// sequence always yields 0. Useful for scripting exact picks.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a Sequence over values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Next returns the next scripted value.
func (s *Sequence) Next() float64 {
	if len(s.values) == 0 {
		return 0
	}
	if s.pos >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

// #endregion sequence
