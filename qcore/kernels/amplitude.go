package kernels

import (
	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
)

// BuildAmplitudeAmplification generalises Grover search to an arbitrary
// state-preparation circuit: it reflects about statePrep's output
// instead of the uniform superposition (spec.md §4.3).
//
// statePrep may only use self-adjoint or angle-parameterised gates (H, X,
// Y, Z, RX, RY, RZ, U3, CX, CZ, CCX, Barrier); S and T have no
// representable inverse in this gate set and are rejected with
// ErrInvalidArgument, since the diffuser needs statePrep's adjoint. The
// oracle is appended as given and its gates are not checked this way.
func BuildAmplitudeAmplification(width int, statePrep, oracle []gate.Gate, iterations int) (*circuit.Circuit, error) {
	statePrepDagger, err := adjointGates(statePrep)
	if err != nil {
		return nil, err
	}

	ancillaCount := GroverAncillaCount(width)
	b := circuit.New(width+ancillaCount, width)
	for _, g := range statePrep {
		b.Append(g)
	}
	qubits := make([]int, width)
	for i := range qubits {
		qubits[i] = i
	}
	ancilla := make([]int, ancillaCount)
	for i := range ancilla {
		ancilla[i] = width + i
	}
	for it := 0; it < iterations; it++ {
		for _, g := range oracle {
			b.Append(g)
		}
		for _, g := range statePrepDagger {
			b.Append(g)
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
		for _, g := range statePrep {
			b.Append(g)
		}
	}
	for _, q := range qubits {
		b.Measure(q, q)
	}
	return b.Build()
}

// adjointGates reverses a gate sequence and daggers each gate: H, X, Y,
// Z, CX, CZ, and CCX are self-adjoint so only their order changes; RX,
// RY, and RZ invert by negating their angle; U3(theta,phi,lambda)
// inverts as U3(-theta,-lambda,-phi).
func adjointGates(gs []gate.Gate) ([]gate.Gate, error) {
	out := make([]gate.Gate, len(gs))
	for i, g := range gs {
		adj, err := adjointGate(g)
		if err != nil {
			return nil, err
		}
		out[len(gs)-1-i] = adj
	}
	return out, nil
}

func adjointGate(g gate.Gate) (gate.Gate, error) {
	switch g.Tag {
	case gate.H, gate.X, gate.Y, gate.Z, gate.CX, gate.CZ, gate.CCX, gate.Barrier:
		return g, nil
	case gate.RX, gate.RY, gate.RZ:
		adj := g
		adj.Params = []float64{-g.Params[0]}
		return adj, nil
	case gate.U3:
		adj := g
		adj.Params = []float64{-g.Params[0], -g.Params[2], -g.Params[1]}
		return adj, nil
	default:
		return gate.Gate{}, ErrInvalidArgument{Reason: "no representable adjoint for gate " + string(g.Tag)}
	}
}
