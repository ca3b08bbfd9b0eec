package kernels

import (
	"math"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// GroverResult is the outcome of RunGroverSearch: the iteration count
// the optimal-iteration formula chose, plus the sampled outcome
// histogram (spec.md §4.3).
type GroverResult struct {
	Iterations int
	Counts     map[string]uint64
}

// GroverAncillaCount returns the number of scratch qubits the diffusion
// operator (and any oracle built with PhaseOracleForStates) needs to
// realize an (nBits-1)-controlled phase flip out of single- and
// doubly-controlled gates alone.
func GroverAncillaCount(nBits int) int {
	controls := nBits - 1
	if controls <= 2 {
		return 0
	}
	return controls - 1
}

// BuildGroverCircuit assembles the Grover search circuit: a uniform
// superposition over nBits qubits, the optimal number of (oracle,
// diffuser) iterations, then a measurement of every search qubit.
// oracle is a caller-supplied gate sequence implementing a phase flip
// over the marked basis states; it must act only on qubits
// [0,nBits) and any ancilla in [nBits, nBits+GroverAncillaCount(nBits)).
func BuildGroverCircuit(nBits int, oracle []gate.Gate, markedCount int) (*circuit.Circuit, int, error) {
	if markedCount <= 0 {
		return nil, 0, ErrInvalidArgument{Reason: "marked_count must be positive"}
	}
	n := 1 << nBits
	if markedCount > n {
		return nil, 0, ErrInvalidArgument{Reason: "marked_count exceeds search space size"}
	}

	iterations := 1
	if markedCount < n/2 {
		iterations = int(math.Floor((math.Pi / 4) * math.Sqrt(float64(n)/float64(markedCount))))
		if iterations < 1 {
			iterations = 1
		}
	}
	// markedCount >= 2^(n-1): single iteration is optimal; over-iterating
	// degrades the success probability (spec.md §4.3 edge case).

	ancillaCount := GroverAncillaCount(nBits)
	width := nBits + ancillaCount
	qubits := make([]int, nBits)
	for i := range qubits {
		qubits[i] = i
	}
	ancilla := make([]int, ancillaCount)
	for i := range ancilla {
		ancilla[i] = nBits + i
	}

	b := circuit.New(width, nBits)
	for _, q := range qubits {
		b.H(q)
	}
	for it := 0; it < iterations; it++ {
		for _, g := range oracle {
			b.Append(g)
		}
		diffusion(b, qubits, ancilla)
	}
	for i, q := range qubits {
		b.Measure(q, i)
	}

	c, err := b.Build()
	return c, iterations, err
}

// RunGroverSearch builds the circuit via BuildGroverCircuit and samples
// it directly on the local state-vector simulator. It does not go
// through a dispatcher or provider, so no device selection takes place.
func RunGroverSearch(nBits int, oracle []gate.Gate, markedCount, shots int, rng simulator.RNG) (GroverResult, error) {
	c, iterations, err := BuildGroverCircuit(nBits, oracle, markedCount)
	if err != nil {
		return GroverResult{}, err
	}
	res, err := simulator.Simulate(c, shots, rng, simulator.Options{})
	if err != nil {
		return GroverResult{}, err
	}
	return GroverResult{Iterations: iterations, Counts: res.Counts}, nil
}

// PhaseOracleForState returns a gate sequence that flips the sign of a
// single marked basis state (given as an nBits-wide integer), using the
// standard "flip-to-all-ones, multi-controlled-Z, flip back" construction.
func PhaseOracleForState(nBits, markedState int) []gate.Gate {
	qubits := make([]int, nBits)
	for i := range qubits {
		qubits[i] = i
	}
	ancilla := make([]int, GroverAncillaCount(nBits))
	for i := range ancilla {
		ancilla[i] = nBits + i
	}

	var gs []gate.Gate
	flip := func() {
		for q := 0; q < nBits; q++ {
			if markedState&(1<<q) == 0 {
				gs = append(gs, gate.NewX(q))
			}
		}
	}
	flip()
	gs = append(gs, collectMultiControlledZ(qubits, ancilla)...)
	flip()
	return gs
}

// diffusion applies Grover's "inversion about the mean": H on every
// search qubit, X on every search qubit, an (n-1)-controlled Z across
// them, then X and H again to undo the basis change.
func diffusion(b *circuit.Builder, qubits, ancilla []int) {
	for _, q := range qubits {
		b.H(q)
	}
	for _, q := range qubits {
		b.X(q)
	}
	for _, g := range collectMultiControlledZ(qubits, ancilla) {
		b.Append(g)
	}
	for _, q := range qubits {
		b.X(q)
	}
	for _, q := range qubits {
		b.H(q)
	}
}

// collectMultiControlledZ returns gates implementing a phase flip on
// |1...1> across qubits, via the standard Z = H·X·H identity applied to
// a multi-controlled-X built from the last qubit in qubits as target.
func collectMultiControlledZ(qubits, ancilla []int) []gate.Gate {
	target := qubits[len(qubits)-1]
	controls := qubits[:len(qubits)-1]
	var gs []gate.Gate
	gs = append(gs, gate.NewH(target))
	gs = append(gs, collectMultiControlledX(controls, target, ancilla)...)
	gs = append(gs, gate.NewH(target))
	return gs
}

// collectMultiControlledX realizes an n-controlled X from single-,
// doubly-, and a cascade of Toffoli gates and scratch ancilla qubits
// (Barenco-style AND-cascade), uncomputing the ancilla afterward so they
// are left in |0> for reuse by the next iteration.
func collectMultiControlledX(controls []int, target int, ancilla []int) []gate.Gate {
	switch len(controls) {
	case 0:
		return []gate.Gate{gate.NewX(target)}
	case 1:
		return []gate.Gate{gate.NewCX(controls[0], target)}
	case 2:
		return []gate.Gate{gate.NewCCX(controls[0], controls[1], target)}
	}

	var gs []gate.Gate
	gs = append(gs, gate.NewCCX(controls[0], controls[1], ancilla[0]))
	for i := 2; i < len(controls); i++ {
		prev := ancilla[i-2]
		out := ancilla[i-1]
		gs = append(gs, gate.NewCCX(prev, controls[i], out))
	}
	gs = append(gs, gate.NewCX(ancilla[len(ancilla)-1], target))
	for i := len(controls) - 1; i >= 2; i-- {
		prev := ancilla[i-2]
		out := ancilla[i-1]
		gs = append(gs, gate.NewCCX(prev, controls[i], out))
	}
	gs = append(gs, gate.NewCCX(controls[0], controls[1], ancilla[0]))
	return gs
}
