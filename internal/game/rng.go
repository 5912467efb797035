package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RNG is the single random source a session draws from.
// *rand.Rand satisfies it; tests inject fixed draws.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// NewRNG returns a seeded math/rand source.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeededRNG seeds from crypto/rand, falling back to a fixed seed if the
// system source is unavailable.
func NewSeededRNG() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return NewRNG(1)
	}
	return NewRNG(int64(binary.LittleEndian.Uint64(b[:])))
}

func randomBetween(rng RNG, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func chance(rng RNG, p float64) bool {
	return rng.Float64() < p
}

// sampleStrings picks n distinct entries preserving no particular order.
func sampleStrings(rng RNG, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	cp := append([]string(nil), pool...)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
		out = append(out, cp[i])
	}
	return out
}

func sampleInts(rng RNG, pool []int, n int) []int {
	if n > len(pool) {
		n = len(pool)
	}
	cp := append([]int(nil), pool...)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
		out = append(out, cp[i])
	}
	return out
}

func pickString(rng RNG, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}
