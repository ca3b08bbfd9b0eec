package simulator

import "fmt"

// ErrCircuitTooLarge is returned when a circuit's width exceeds MaxQubits.
type ErrCircuitTooLarge struct {
	Width, Max int
}

func (e ErrCircuitTooLarge) Error() string {
	return fmt.Sprintf("simulator: circuit width %d exceeds capacity %d", e.Width, e.Max)
}

// ErrNumericError is returned when the state vector's squared-amplitude
// norm drifts outside tolerance, or a non-finite amplitude is produced.
type ErrNumericError struct {
	Detail string
}

func (e ErrNumericError) Error() string {
	return "simulator: numeric error: " + e.Detail
}
