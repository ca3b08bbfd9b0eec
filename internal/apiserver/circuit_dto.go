package apiserver

import (
	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
)

// GateDTO is the wire shape of one circuit.Gate, the JSON counterpart
// to the teacher's internal gate structs. Tag names are matched
// case-insensitively by gate.Factory.
type GateDTO struct {
	Tag    string    `json:"tag"`
	Qubits []int     `json:"qubits"`
	Params []float64 `json:"params,omitempty"`
	Cbit   int       `json:"cbit,omitempty"`
}

// CircuitDTO is the JSON request body for POST /v1/jobs: a flat
// description of a circuit.Circuit (spec.md §6's "Circuit builder API"
// exposed to HTTP callers instead of Go code).
type CircuitDTO struct {
	Width   int       `json:"width"`
	NClbits int       `json:"n_clbits"`
	Name    string    `json:"name,omitempty"`
	Gates   []GateDTO `json:"gates"`
}

// Build constructs a *circuit.Circuit from the DTO, surfacing the same
// ErrInvalidCircuit the Go builder API would for an out-of-range index
// or a gate appended after a terminal Measure.
func (dto CircuitDTO) Build() (*circuit.Circuit, error) {
	b := circuit.New(dto.Width, dto.NClbits).Named(dto.Name)
	for _, g := range dto.Gates {
		switch gate.Tag(normalizeTag(g.Tag)) {
		case gate.Measure:
			if len(g.Qubits) != 1 {
				return nil, gate.ErrWrongArity{Tag: gate.Measure, Want: 1, Got: len(g.Qubits)}
			}
			b = b.Measure(g.Qubits[0], g.Cbit)
		case gate.Barrier:
			b = b.Barrier(g.Qubits...)
		default:
			built, err := gate.Factory(g.Tag, g.Qubits, g.Params)
			if err != nil {
				return nil, err
			}
			b = b.Append(built)
		}
	}
	return b.Build()
}

func normalizeTag(name string) string {
	switch name {
	case "measure", "Measure", "MEASURE":
		return string(gate.Measure)
	case "barrier", "Barrier", "BARRIER":
		return string(gate.Barrier)
	default:
		return ""
	}
}
