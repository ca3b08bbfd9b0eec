package kernels

import "fmt"

// ErrInvalidArgument reports an algorithmic precondition failure (spec.md
// §7): a malformed Shor base, an empty Grover marked set, or a kernel
// convenience function asked to adjoint a gate it cannot invert.
type ErrInvalidArgument struct {
	Reason string
}

func (e ErrInvalidArgument) Error() string {
	return fmt.Sprintf("kernels: invalid argument: %s", e.Reason)
}
