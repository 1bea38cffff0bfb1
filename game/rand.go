package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Rand is the only source of non-determinism in a match: tackle rolls, kick
// accuracy, pickup weather checks and scrum reversals all draw from it.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a generator seeded with seed. A zero seed is replaced by
// one read from crypto/rand; the seed in use is returned so a match can be
// replayed.
func NewRand(seed int64) (*rand.Rand, int64, error) {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			return nil, 0, fmt.Errorf("read random seed: %w", err)
		}
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return rand.New(rand.NewSource(seed)), seed, nil
}

// percent draws a uniform value in [0,100).
func (g *Game) percent() float64 {
	return g.rng.Float64() * 100
}
