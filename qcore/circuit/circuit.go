// Package circuit implements the provider-agnostic circuit IR (spec.md
// §4.1): an immutable, ordered gate list over a fixed qubit register plus
// a measurement schedule. The shape follows the teacher's DAG-based
// circuit (github.com/kegliz/qplay/qc/dag, qc/circuit) but is simplified
// to the flat ordered-list model spec.md §3 calls for — the dispatcher
// and simulator only ever need gate order and per-qubit termination, not
// a full dependency DAG, so the extra machinery was dropped rather than
// adapted (see DESIGN.md).
package circuit

import (
	"fmt"

	"github.com/firebitsbr/houdinis/qcore/gate"
)

// MaxCircuitQubits bounds circuit width regardless of whether the circuit
// is ever simulated locally (spec.md §3). Providers may advertise fewer.
const MaxCircuitQubits = 30

// Circuit is an immutable, ordered sequence of gates over a fixed-width
// qubit and classical-bit register. The zero value is not valid; obtain
// one via New(...).Build().
type Circuit struct {
	width   int
	nClbits int
	gates   []gate.Gate
	name    string
}

// Width returns the number of qubits addressable by the circuit.
func (c *Circuit) Width() int { return c.width }

// NClbits returns the size of the classical register.
func (c *Circuit) NClbits() int { return c.nClbits }

// Name returns the circuit's (possibly empty) display name.
func (c *Circuit) Name() string { return c.name }

// Gates returns the ordered gate list. The returned slice is a copy; the
// Circuit itself never exposes a mutable view once built.
func (c *Circuit) Gates() []gate.Gate {
	out := make([]gate.Gate, len(c.gates))
	copy(out, c.gates)
	return out
}

// Len returns the number of gates in the circuit.
func (c *Circuit) Len() int { return len(c.gates) }

// ValidateAgainst checks that every gate tag the circuit uses is present
// in the supplied capability set (spec.md §4.1/§4.4). It never mutates
// the circuit and is safe to call repeatedly, e.g. once at auto-select
// time and once again at submit time.
func (c *Circuit) ValidateAgainst(capabilities map[gate.Tag]bool) error {
	for _, g := range c.gates {
		if !capabilities[g.Tag] {
			return ErrUnsupportedGate{Tag: string(g.Tag)}
		}
	}
	return nil
}

// Builder accumulates gates for a single Circuit. It is not safe for
// concurrent use. Every append method checks qubit range and the
// measurement-terminal invariant and records the first error encountered
// (the "bail-out" pattern from the teacher's qc/dag/builder.Builder) so
// call chains can be written fluently and checked once at Build().
type Builder struct {
	width   int
	nClbits int
	name    string
	gates   []gate.Gate

	measured    []bool // per-qubit: has a Measure already terminated it?
	cbitUsed    []bool // per-clbit: already targeted by a Measure?
	err         error
	built       bool
}

// New starts an empty circuit builder for the given qubit and classical
// register sizes.
func New(width, nClbits int) *Builder {
	b := &Builder{width: width, nClbits: nClbits}
	if width < 0 || width > MaxCircuitQubits {
		b.err = ErrInvalidCircuit{Reason: fmt.Sprintf("width %d out of range [0, %d]", width, MaxCircuitQubits)}
		return b
	}
	if nClbits < 0 {
		b.err = ErrInvalidCircuit{Reason: "negative classical register size"}
		return b
	}
	b.measured = make([]bool, width)
	b.cbitUsed = make([]bool, nClbits)
	return b
}

// Named sets the circuit's display name; purely cosmetic.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

func (b *Builder) bail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Append adds an arbitrary, already-constructed Gate, checking the
// invariants of spec.md §3: qubit indices in range, no gate follows a
// terminal Measure on the same qubit, classical-bit targets unique.
func (b *Builder) Append(g gate.Gate) *Builder {
	if b.err != nil {
		return b
	}
	if b.built {
		return b.bail(ErrInvalidCircuit{Reason: "append after Build"})
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= b.width {
			return b.bail(ErrInvalidCircuit{Reason: fmt.Sprintf("qubit %d out of range [0,%d)", q, b.width)})
		}
		if b.measured[q] {
			return b.bail(ErrInvalidCircuit{Reason: fmt.Sprintf("gate %s touches qubit %d after it was measured", g.Tag, q)})
		}
	}
	if g.Tag == gate.Measure {
		c := g.Cbit
		if c < 0 || c >= b.nClbits {
			return b.bail(ErrInvalidCircuit{Reason: fmt.Sprintf("classical bit %d out of range [0,%d)", c, b.nClbits)})
		}
		if b.cbitUsed[c] {
			return b.bail(ErrInvalidCircuit{Reason: fmt.Sprintf("classical bit %d targeted by more than one Measure", c)})
		}
		b.cbitUsed[c] = true
		b.measured[g.Qubits[0]] = true
	}
	b.gates = append(b.gates, g)
	return b
}

func (b *Builder) H(q int) *Builder   { return b.Append(gate.NewH(q)) }
func (b *Builder) X(q int) *Builder   { return b.Append(gate.NewX(q)) }
func (b *Builder) Y(q int) *Builder   { return b.Append(gate.NewY(q)) }
func (b *Builder) Z(q int) *Builder   { return b.Append(gate.NewZ(q)) }
func (b *Builder) S(q int) *Builder   { return b.Append(gate.NewS(q)) }
func (b *Builder) T(q int) *Builder   { return b.Append(gate.NewT(q)) }

func (b *Builder) RX(q int, theta float64) *Builder { return b.Append(gate.NewRX(q, theta)) }
func (b *Builder) RY(q int, theta float64) *Builder { return b.Append(gate.NewRY(q, theta)) }
func (b *Builder) RZ(q int, theta float64) *Builder { return b.Append(gate.NewRZ(q, theta)) }
func (b *Builder) U3(q int, theta, phi, lambda float64) *Builder {
	return b.Append(gate.NewU3(q, theta, phi, lambda))
}

func (b *Builder) CX(ctrl, tgt int) *Builder {
	if ctrl == tgt {
		return b.bail(ErrInvalidCircuit{Reason: "CX control and target must differ"})
	}
	return b.Append(gate.NewCX(ctrl, tgt))
}

func (b *Builder) CZ(ctrl, tgt int) *Builder {
	if ctrl == tgt {
		return b.bail(ErrInvalidCircuit{Reason: "CZ control and target must differ"})
	}
	return b.Append(gate.NewCZ(ctrl, tgt))
}

func (b *Builder) CCX(c1, c2, tgt int) *Builder {
	if c1 == c2 || c1 == tgt || c2 == tgt {
		return b.bail(ErrInvalidCircuit{Reason: "CCX control/target qubits must be distinct"})
	}
	return b.Append(gate.NewCCX(c1, c2, tgt))
}

func (b *Builder) Measure(q, c int) *Builder { return b.Append(gate.NewMeasure(q, c)) }

func (b *Builder) Barrier(qs ...int) *Builder { return b.Append(gate.NewBarrier(qs...)) }

// Build freezes the circuit. Any further Append on the same Builder
// fails, and a later Build then returns that error.
func (b *Builder) Build() (*Circuit, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.built = true
	gs := make([]gate.Gate, len(b.gates))
	copy(gs, b.gates)
	return &Circuit{width: b.width, nClbits: b.nClbits, gates: gs, name: b.name}, nil
}
