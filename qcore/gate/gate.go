// Package gate defines the closed set of quantum gate tags that make up
// the circuit IR (spec.md §3). The set is intentionally small and flat so
// simulators and providers can pattern-match it exhaustively instead of
// duck-typing against a dictionary shape.
package gate

import "strings"

// Tag names a gate kind. It is a closed enumeration; Factory and the
// simulator/provider packages switch over it exhaustively.
type Tag string

const (
	H   Tag = "H"
	X   Tag = "X"
	Y   Tag = "Y"
	Z   Tag = "Z"
	S   Tag = "S"
	T   Tag = "T"
	RX  Tag = "RX"
	RY  Tag = "RY"
	RZ  Tag = "RZ"
	U3  Tag = "U3"
	CX  Tag = "CX"
	CZ  Tag = "CZ"
	CCX Tag = "CCX"

	Measure Tag = "MEASURE"
	Barrier Tag = "BARRIER"
)

// Span returns how many qubits a gate of this tag acts on.
func (t Tag) Span() int {
	switch t {
	case H, X, Y, Z, S, T, RX, RY, RZ, U3, Measure:
		return 1
	case CX, CZ:
		return 2
	case CCX:
		return 3
	case Barrier:
		return 0 // variadic, handled specially
	default:
		return 0
	}
}

// IsParameterized reports whether the gate carries floating point angles.
func (t Tag) IsParameterized() bool {
	switch t {
	case RX, RY, RZ, U3:
		return true
	default:
		return false
	}
}

// Gate is one operation in a Circuit's ordered gate list. It is an
// immutable value: Qubits/Params are never mutated after construction.
type Gate struct {
	Tag    Tag
	Qubits []int     // absolute qubit indices, length == Tag.Span() (Barrier: variable)
	Params []float64 // RX/RY/RZ: [theta]; U3: [theta, phi, lambda]
	Cbit   int       // classical bit target, only meaningful for Measure; -1 otherwise
}

// Control returns the control qubit indices for a multi-qubit gate, by
// convention the leading Qubits entries except the final target.
func (g Gate) Control() []int {
	switch g.Tag {
	case CX, CZ:
		return g.Qubits[:1]
	case CCX:
		return g.Qubits[:2]
	default:
		return nil
	}
}

// Target returns the target qubit, by convention the last entry in Qubits.
func (g Gate) Target() int {
	if len(g.Qubits) == 0 {
		return -1
	}
	return g.Qubits[len(g.Qubits)-1]
}

// DrawSymbol returns a short human-readable label, used by CLI/debug output.
func (g Gate) DrawSymbol() string {
	switch g.Tag {
	case CX:
		return "⊕"
	case CZ:
		return "●"
	case CCX:
		return "⊕⊕"
	case Measure:
		return "M"
	case Barrier:
		return "‖"
	default:
		return string(g.Tag)
	}
}

// NewH/NewX/... style constructors keep call sites terse and typo-proof.

func NewH(q int) Gate   { return Gate{Tag: H, Qubits: []int{q}, Cbit: -1} }
func NewX(q int) Gate   { return Gate{Tag: X, Qubits: []int{q}, Cbit: -1} }
func NewY(q int) Gate   { return Gate{Tag: Y, Qubits: []int{q}, Cbit: -1} }
func NewZ(q int) Gate   { return Gate{Tag: Z, Qubits: []int{q}, Cbit: -1} }
func NewS(q int) Gate   { return Gate{Tag: S, Qubits: []int{q}, Cbit: -1} }
func NewT(q int) Gate   { return Gate{Tag: T, Qubits: []int{q}, Cbit: -1} }

func NewRX(q int, theta float64) Gate {
	return Gate{Tag: RX, Qubits: []int{q}, Params: []float64{theta}, Cbit: -1}
}
func NewRY(q int, theta float64) Gate {
	return Gate{Tag: RY, Qubits: []int{q}, Params: []float64{theta}, Cbit: -1}
}
func NewRZ(q int, theta float64) Gate {
	return Gate{Tag: RZ, Qubits: []int{q}, Params: []float64{theta}, Cbit: -1}
}
func NewU3(q int, theta, phi, lambda float64) Gate {
	return Gate{Tag: U3, Qubits: []int{q}, Params: []float64{theta, phi, lambda}, Cbit: -1}
}

func NewCX(ctrl, tgt int) Gate  { return Gate{Tag: CX, Qubits: []int{ctrl, tgt}, Cbit: -1} }
func NewCZ(ctrl, tgt int) Gate  { return Gate{Tag: CZ, Qubits: []int{ctrl, tgt}, Cbit: -1} }
func NewCCX(c1, c2, tgt int) Gate {
	return Gate{Tag: CCX, Qubits: []int{c1, c2, tgt}, Cbit: -1}
}

func NewMeasure(q, c int) Gate {
	return Gate{Tag: Measure, Qubits: []int{q}, Cbit: c}
}

func NewBarrier(qs ...int) Gate {
	return Gate{Tag: Barrier, Qubits: append([]int(nil), qs...), Cbit: -1}
}

// Factory builds a Gate from a canonical or aliased name plus qubits/params,
// the way the teacher's qc/gate.Factory resolves string aliases to gate
// singletons. Used by providers translating a generic description into the
// circuit IR and by the CLI when parsing user-supplied gate lists.
func Factory(name string, qubits []int, params []float64) (Gate, error) {
	switch norm(name) {
	case "h":
		return mustSpan(H, qubits, 1)
	case "x":
		return mustSpan(X, qubits, 1)
	case "y":
		return mustSpan(Y, qubits, 1)
	case "z":
		return mustSpan(Z, qubits, 1)
	case "s":
		return mustSpan(S, qubits, 1)
	case "t":
		return mustSpan(T, qubits, 1)
	case "rx":
		return mustParamSpan(RX, qubits, params, 1, 1)
	case "ry":
		return mustParamSpan(RY, qubits, params, 1, 1)
	case "rz":
		return mustParamSpan(RZ, qubits, params, 1, 1)
	case "u3":
		return mustParamSpan(U3, qubits, params, 1, 3)
	case "cx", "cnot":
		return mustSpan(CX, qubits, 2)
	case "cz":
		return mustSpan(CZ, qubits, 2)
	case "ccx", "toffoli":
		return mustSpan(CCX, qubits, 3)
	case "barrier":
		return Gate{Tag: Barrier, Qubits: append([]int(nil), qubits...), Cbit: -1}, nil
	}
	return Gate{}, ErrUnknownGate{Name: name}
}

func mustSpan(tag Tag, qubits []int, n int) (Gate, error) {
	if len(qubits) != n {
		return Gate{}, ErrWrongArity{Tag: tag, Want: n, Got: len(qubits)}
	}
	return Gate{Tag: tag, Qubits: append([]int(nil), qubits...), Cbit: -1}, nil
}

func mustParamSpan(tag Tag, qubits []int, params []float64, n, np int) (Gate, error) {
	if len(qubits) != n {
		return Gate{}, ErrWrongArity{Tag: tag, Want: n, Got: len(qubits)}
	}
	if len(params) != np {
		return Gate{}, ErrWrongParamCount{Tag: tag, Want: np, Got: len(params)}
	}
	return Gate{Tag: tag, Qubits: append([]int(nil), qubits...), Params: append([]float64(nil), params...), Cbit: -1}, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ErrUnknownGate is returned by Factory for an unrecognised name.
type ErrUnknownGate struct{ Name string }

func (e ErrUnknownGate) Error() string { return "gate: unknown gate " + e.Name }

// ErrWrongArity is returned by Factory when the qubit count mismatches the tag's span.
type ErrWrongArity struct {
	Tag      Tag
	Want, Got int
}

func (e ErrWrongArity) Error() string {
	return "gate: " + string(e.Tag) + " wants arity mismatch"
}

// ErrWrongParamCount is returned by Factory when a parameterized gate gets
// the wrong number of angles.
type ErrWrongParamCount struct {
	Tag      Tag
	Want, Got int
}

func (e ErrWrongParamCount) Error() string {
	return "gate: " + string(e.Tag) + " parameter count mismatch"
}
