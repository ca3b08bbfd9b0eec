package simulator

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// RNG is the sampling source injected into Simulate. It is deliberately
// narrow (a single Float64() in [0,1)) so callers can substitute any
// generator without the simulator caring about its internals.
//
// The pack offers cryptographically-secure generators (go.dedis.ch/kyber,
// cloudflare/circl) but neither supports the deterministic, reproducible
// seeding spec.md §4.2 requires for "identical (circuit, seed, shots)
// yields identical counts" — a cryptographic CSPRNG is intentionally
// unseekable to a chosen state for exactly the security properties that
// make it unsuitable here. math/rand's seeded source is the correct tool
// for weighted-sample shot counting, not a fallback from one.
type RNG interface {
	Float64() float64
}

type seededRNG struct {
	r *mrand.Rand
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// NewSeededRNG returns a deterministic sampler: identical seeds produce
// identical draw sequences, which is what makes simulate(circuit, shots,
// seed) reproducible across runs and across machines.
func NewSeededRNG(seed uint64) RNG {
	return &seededRNG{r: mrand.New(mrand.NewSource(int64(seed)))}
}

// NewEntropyRNG returns a sampler seeded once from the OS CSPRNG, for
// callers that want non-reproducible shot sampling (the spec's default
// when no seed is supplied). The draws themselves are still produced by
// the fast, non-cryptographic math/rand source.
func NewEntropyRNG() RNG {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		// crypto/rand failing indicates a broken OS entropy source; fall
		// back to a fixed seed rather than panic mid-simulation.
		return NewSeededRNG(1)
	}
	return NewSeededRNG(binary.LittleEndian.Uint64(seedBytes[:]))
}
