package dispatcher

import "fmt"

// ErrNoSuitableDevice reports that AutoSelect found no device matching
// policy's ranked preference rule (spec.md §4.5).
type ErrNoSuitableDevice struct {
	Policy Policy
}

func (e ErrNoSuitableDevice) Error() string {
	return fmt.Sprintf("dispatcher: no suitable device for policy %s", e.Policy)
}

// ErrResourceExhausted reports that MaxInflightJobs has been reached
// (spec.md §5); the caller must wait for a job to reach a terminal state.
type ErrResourceExhausted struct{}

func (e ErrResourceExhausted) Error() string {
	return "dispatcher: resource exhausted: too many inflight jobs"
}

// ErrTimeout reports that AwaitResult's deadline elapsed before the job
// reached a terminal state.
type ErrTimeout struct {
	JobID string
}

func (e ErrTimeout) Error() string {
	return fmt.Sprintf("dispatcher: timeout waiting for job %s", e.JobID)
}

// ErrCancelled reports that the job was cancelled before completion.
type ErrCancelled struct {
	JobID string
}

func (e ErrCancelled) Error() string {
	return fmt.Sprintf("dispatcher: job %s was cancelled", e.JobID)
}

// ErrJobNotFound reports an unknown JobID passed to Poll/AwaitResult/Cancel.
type ErrJobNotFound struct {
	JobID string
}

func (e ErrJobNotFound) Error() string {
	return fmt.Sprintf("dispatcher: job %s not found", e.JobID)
}

// ErrProviderNotRegistered reports a provider tag with no matching
// registration, surfaced by internal lookups that should never observe it
// once RegisterProvider has validated its own inputs.
type ErrProviderNotRegistered struct {
	Tag string
}

func (e ErrProviderNotRegistered) Error() string {
	return fmt.Sprintf("dispatcher: provider %s not registered", e.Tag)
}
