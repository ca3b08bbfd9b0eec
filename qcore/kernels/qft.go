// Package kernels provides the standard quantum primitives spec.md §4.3
// asks for (QFT, Shor period-finding, Grover search, amplitude
// amplification, quantum-advantage estimates) as pure circuit-building
// functions plus a "run it now" convenience over qcore/simulator.
//
// Grounded on the teacher's qc/benchmark/circuits.go, which assembles
// reference circuits purely from circuit.Builder calls rather than any
// bespoke kernel abstraction — the same style is used here.
package kernels

import (
	"math"

	"github.com/firebitsbr/houdinis/qcore/circuit"
)

// QFT returns the n-qubit quantum Fourier transform circuit: per-qubit
// Hadamard and controlled-phase rotations followed by a qubit-order
// reversal. It has no measurements, matching spec.md §4.3.
func QFT(n int) (*circuit.Circuit, error) {
	b := circuit.New(n, 0)
	qftForward(b, n)
	return b.Build()
}

// InverseQFT returns the adjoint of QFT(n): the same logical gates in
// reverse order with every phase rotation negated. QFT(n) composed with
// InverseQFT(n) is the identity within numeric tolerance (spec.md §8).
func InverseQFT(n int) (*circuit.Circuit, error) {
	b := circuit.New(n, 0)
	qftInverse(b, n)
	return b.Build()
}

func qftForward(b *circuit.Builder, n int) {
	for i := 0; i < n; i++ {
		b.H(i)
		for j := i + 1; j < n; j++ {
			angle := 2 * math.Pi / math.Pow(2, float64(j-i+1))
			controlledPhase(b, j, i, angle)
		}
	}
	reverseQubits(b, n)
}

func qftInverse(b *circuit.Builder, n int) {
	reverseQubits(b, n)
	for i := n - 1; i >= 0; i-- {
		for j := n - 1; j > i; j-- {
			angle := 2 * math.Pi / math.Pow(2, float64(j-i+1))
			controlledPhase(b, j, i, -angle)
		}
		b.H(i)
	}
}

func reverseQubits(b *circuit.Builder, n int) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swapQubits(b, i, j)
	}
}

// swapQubits exchanges two qubits' states via the standard three-CNOT
// decomposition. The sequence is a palindrome, so it is its own adjoint.
func swapQubits(b *circuit.Builder, a, c int) {
	b.CX(a, c)
	b.CX(c, a)
	b.CX(a, c)
}

// controlledPhase applies diag(1,1,1,e^{i*lambda}) to (ctrl, tgt), up to
// a global phase, using only RZ and CX: the CX-RZ(-lambda/2)-CX-RZ(lambda/2)
// sandwich realizes RZ(lambda) on tgt conditioned on ctrl=1 and identity
// on ctrl=0, and the leading RZ(lambda/2) on ctrl folds the remaining
// per-branch phase into a single uniform factor across all four basis
// states. Because CPhase is diagonal, its adjoint is simply CPhase with
// lambda negated, which is how qftInverse reuses this same helper.
func controlledPhase(b *circuit.Builder, ctrl, tgt int, lambda float64) {
	b.RZ(ctrl, lambda/2)
	b.CX(ctrl, tgt)
	b.RZ(tgt, -lambda/2)
	b.CX(ctrl, tgt)
	b.RZ(tgt, lambda/2)
}
