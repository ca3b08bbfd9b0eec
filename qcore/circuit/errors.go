package circuit

import "fmt"

// ErrInvalidCircuit reports a construction-time violation of a circuit
// invariant (spec.md §3/§4.1): out-of-range qubit, gate after a terminal
// Measure, duplicate classical-bit target, or append after Build.
type ErrInvalidCircuit struct {
	Reason string
}

func (e ErrInvalidCircuit) Error() string {
	return fmt.Sprintf("circuit: invalid circuit: %s", e.Reason)
}

// ErrUnsupportedGate is returned by ValidateAgainst when a capability set
// does not contain a gate tag the circuit uses.
type ErrUnsupportedGate struct {
	Tag string
}

func (e ErrUnsupportedGate) Error() string {
	return fmt.Sprintf("circuit: unsupported gate %s for target device", e.Tag)
}
