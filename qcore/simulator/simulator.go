// Package simulator implements the local state-vector backend described
// in spec.md §4.2: a complex128 amplitude vector of length 2^width,
// evolved gate-by-gate and sampled into shot-count histograms.
//
// The gate-application technique (stride over the amplitude vector,
// pairing indices that differ only in the target qubit's bit) is
// grounded in hydraresearch/qzkp's state_vector.go/hadamard.go, here
// generalized from a fixed Hadamard step to every tag in qcore/gate via
// bitmask pairing instead of qzkp's fixed-stride loop, since qcore gates
// are not guaranteed to act on adjacent qubits.
package simulator

import (
	"math"
	"sort"
	"time"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
)

// MaxQubits bounds local simulation (spec.md §4.2's MAX_SIM_QUBITS): at
// 20 qubits the amplitude vector is 2^20 * 16 bytes = 16 MiB, the largest
// size the reference dispatcher is willing to hold per in-flight job.
const MaxQubits = 20

// normTolerance is the maximum drift of sum(|amp|^2) from 1.0 that the
// simulator tolerates before reporting ErrNumericError (spec.md §4.2).
const normTolerance = 1e-9

// Mode selects how Measure gates are interpreted.
type Mode int

const (
	// Deferred evolves the full state vector ignoring Measure gates, then
	// samples the final joint distribution independently per shot. This
	// is correct whenever no gate acts on a qubit after it is measured,
	// which circuit.Builder already enforces.
	Deferred Mode = iota
	// Projective re-runs the circuit once per shot, collapsing and
	// renormalizing the state at each Measure as it is encountered, so
	// gates applied to qubits entangled with an already-measured qubit
	// see the post-measurement state.
	Projective
)

// Options configures a single Simulate call.
type Options struct {
	Mode Mode
}

// JobResult is the outcome of a completed simulation or provider job: a
// histogram of observed classical bitstrings plus execution metadata
// (spec.md §3's Job/JobResult data model). Bitstrings are big-endian over
// the classical register (classical bit 0 is the most significant
// character), matching how a human reads a printed register.
type JobResult struct {
	Counts          map[string]uint64
	ShotsExecuted   uint32
	ExecutionTimeMs uint64
	RawMetadata     map[string]any
}

// Simulate evolves c's state vector and samples shots outcomes from it.
// rng drives all randomness; identical (c, shots, rng-seed) triples
// yield identical Counts, which is what makes dispatcher job replay and
// kernel tests (spec.md §8) reproducible.
func Simulate(c *circuit.Circuit, shots int, rng RNG, opts Options) (JobResult, error) {
	start := time.Now()

	if c.Width() > MaxQubits {
		return JobResult{}, ErrCircuitTooLarge{Width: c.Width(), Max: MaxQubits}
	}
	if c.Width() == 0 {
		return JobResult{Counts: map[string]uint64{}, ShotsExecuted: 0}, nil
	}
	if shots < 0 {
		shots = 0
	}

	measureMap := measureMapping(c)

	var counts map[string]uint64
	var err error
	switch opts.Mode {
	case Projective:
		counts, err = simulateProjective(c, shots, rng, measureMap)
	default:
		counts, err = simulateDeferred(c, shots, rng, measureMap)
	}
	if err != nil {
		return JobResult{}, err
	}

	return JobResult{
		Counts:          counts,
		ShotsExecuted:   uint32(shots),
		ExecutionTimeMs: uint64(time.Since(start).Milliseconds()),
	}, nil
}

// measureMapping extracts qubit->classical-bit assignments from a
// circuit's Measure gates, in program order.
func measureMapping(c *circuit.Circuit) map[int]int {
	m := make(map[int]int)
	for _, g := range c.Gates() {
		if g.Tag == gate.Measure {
			m[g.Qubits[0]] = g.Cbit
		}
	}
	return m
}

func simulateDeferred(c *circuit.Circuit, shots int, rng RNG, measureMap map[int]int) (map[string]uint64, error) {
	n := c.Width()
	dim := 1 << n
	state := make([]complex128, dim)
	state[0] = 1

	for _, g := range c.Gates() {
		if g.Tag == gate.Measure || g.Tag == gate.Barrier {
			continue
		}
		if err := applyGate(state, g); err != nil {
			return nil, err
		}
		if err := checkFinite(state); err != nil {
			return nil, err
		}
	}
	if err := checkNorm(state); err != nil {
		return nil, err
	}

	cum := make([]float64, dim)
	var running float64
	for i, amp := range state {
		running += real(amp)*real(amp) + imag(amp)*imag(amp)
		cum[i] = running
	}
	// Normalize the tail to exactly 1 so sampling near the boundary never
	// falls past the end of the cumulative table due to float drift.
	if last := cum[dim-1]; last > 0 {
		for i := range cum {
			cum[i] /= last
		}
	}

	nClbits := c.NClbits()
	counts := make(map[string]uint64)
	for s := 0; s < shots; s++ {
		r := rng.Float64()
		idx := sort.SearchFloat64s(cum, r)
		if idx >= dim {
			idx = dim - 1
		}
		counts[bitstringFor(idx, nClbits, measureMap)]++
	}
	return counts, nil
}

func simulateProjective(c *circuit.Circuit, shots int, rng RNG, measureMap map[int]int) (map[string]uint64, error) {
	n := c.Width()
	dim := 1 << n
	nClbits := c.NClbits()
	counts := make(map[string]uint64)

	for s := 0; s < shots; s++ {
		state := make([]complex128, dim)
		state[0] = 1
		cbits := make([]int, nClbits)
		for i := range cbits {
			cbits[i] = -1
		}

		for _, g := range c.Gates() {
			switch g.Tag {
			case gate.Barrier:
				continue
			case gate.Measure:
				q, cb := g.Qubits[0], g.Cbit
				p1 := probabilityOne(state, q)
				outcome := 0
				if rng.Float64() < p1 {
					outcome = 1
				}
				collapse(state, q, outcome, p1)
				cbits[cb] = outcome
			default:
				if err := applyGate(state, g); err != nil {
					return nil, err
				}
			}
			if err := checkFinite(state); err != nil {
				return nil, err
			}
		}

		counts[bitstringFromCbits(cbits)]++
	}
	return counts, nil
}

func checkFinite(state []complex128) error {
	for _, a := range state {
		if math.IsNaN(real(a)) || math.IsInf(real(a), 0) || math.IsNaN(imag(a)) || math.IsInf(imag(a), 0) {
			return ErrNumericError{Detail: "non-finite amplitude after gate application"}
		}
	}
	return nil
}

func checkNorm(state []complex128) error {
	var sum float64
	for _, a := range state {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	if math.Abs(sum-1.0) > normTolerance {
		return ErrNumericError{Detail: "state vector norm drifted outside tolerance"}
	}
	return nil
}

func probabilityOne(state []complex128, q int) float64 {
	mask := 1 << q
	var p float64
	for i, a := range state {
		if i&mask != 0 {
			p += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	return p
}

func collapse(state []complex128, q, outcome int, p1 float64) {
	mask := 1 << q
	p := p1
	if outcome == 0 {
		p = 1 - p1
	}
	norm := math.Sqrt(p)
	if norm == 0 {
		norm = 1 // degenerate: measured a zero-amplitude branch; avoid /0
	}
	for i := range state {
		bit := 0
		if i&mask != 0 {
			bit = 1
		}
		if bit == outcome {
			state[i] = complex(real(state[i])/norm, imag(state[i])/norm)
		} else {
			state[i] = 0
		}
	}
}

// bitstringFor renders basis-state index idx through the circuit's
// qubit->clbit measurement mapping into a big-endian classical register
// string. Clbits with no assigned qubit default to '0'.
func bitstringFor(idx, nClbits int, measureMap map[int]int) string {
	cbits := make([]int, nClbits)
	for i := range cbits {
		cbits[i] = 0
	}
	for q, cb := range measureMap {
		if idx&(1<<q) != 0 {
			cbits[cb] = 1
		}
	}
	return bitstringFromCbits(cbits)
}

func bitstringFromCbits(cbits []int) string {
	out := make([]byte, len(cbits))
	for i, b := range cbits {
		if b <= 0 {
			out[i] = '0'
		} else {
			out[i] = '1'
		}
	}
	return string(out)
}

// applyGate dispatches a single gate onto the state vector in place.
func applyGate(state []complex128, g gate.Gate) error {
	switch g.Tag {
	case gate.H:
		apply1(state, g.Qubits[0], matH)
	case gate.X:
		apply1(state, g.Qubits[0], matX)
	case gate.Y:
		apply1(state, g.Qubits[0], matY)
	case gate.Z:
		apply1(state, g.Qubits[0], matZ)
	case gate.S:
		apply1(state, g.Qubits[0], matS)
	case gate.T:
		apply1(state, g.Qubits[0], matT)
	case gate.RX:
		apply1(state, g.Qubits[0], matRX(g.Params[0]))
	case gate.RY:
		apply1(state, g.Qubits[0], matRY(g.Params[0]))
	case gate.RZ:
		apply1(state, g.Qubits[0], matRZ(g.Params[0]))
	case gate.U3:
		apply1(state, g.Qubits[0], matU3(g.Params[0], g.Params[1], g.Params[2]))
	case gate.CX:
		applyControlled(state, g.Qubits[0], g.Qubits[1], matX)
	case gate.CZ:
		applyCZ(state, g.Qubits[0], g.Qubits[1])
	case gate.CCX:
		applyToffoli(state, g.Qubits[0], g.Qubits[1], g.Qubits[2])
	default:
		return ErrNumericError{Detail: "unreachable gate tag reached state-vector evolution: " + string(g.Tag)}
	}
	return nil
}

// apply1 applies a single-qubit matrix m to qubit tgt, pairing every pair
// of indices that differ only in tgt's bit.
func apply1(state []complex128, tgt int, m matrix2) {
	mask := 1 << tgt
	for i, n := 0, len(state); i < n; i++ {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a, b := state[i], state[j]
		state[i] = m[0][0]*a + m[0][1]*b
		state[j] = m[1][0]*a + m[1][1]*b
	}
}

// applyControlled applies single-qubit matrix m to tgt whenever ctrl's
// bit is 1, leaving the ctrl=0 subspace untouched.
func applyControlled(state []complex128, ctrl, tgt int, m matrix2) {
	cMask, tMask := 1<<ctrl, 1<<tgt
	for i, n := 0, len(state); i < n; i++ {
		if i&tMask != 0 || i&cMask == 0 {
			continue
		}
		j := i | tMask
		a, b := state[i], state[j]
		state[i] = m[0][0]*a + m[0][1]*b
		state[j] = m[1][0]*a + m[1][1]*b
	}
}

// applyCZ flips the sign of every basis amplitude where both a and b are 1.
func applyCZ(state []complex128, a, b int) {
	aMask, bMask := 1<<a, 1<<b
	for i := range state {
		if i&aMask != 0 && i&bMask != 0 {
			state[i] = -state[i]
		}
	}
}

// applyToffoli swaps the tgt=0/tgt=1 amplitudes whenever both c1 and c2
// are 1, implementing a doubly-controlled X.
func applyToffoli(state []complex128, c1, c2, tgt int) {
	c1Mask, c2Mask, tMask := 1<<c1, 1<<c2, 1<<tgt
	for i, n := 0, len(state); i < n; i++ {
		if i&tMask != 0 || i&c1Mask == 0 || i&c2Mask == 0 {
			continue
		}
		j := i | tMask
		state[i], state[j] = state[j], state[i]
	}
}
