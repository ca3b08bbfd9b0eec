// Package provider implements the uniform capability surface spec.md
// §4.4 demands of every quantum backend: initialize, list_devices,
// submit, poll, cancel, translate. It replaces the "duck-typed backend
// objects" the original source used with a single Go interface plus a
// closed DeviceKind variant,
// grounded on perclft-QubitEngine's backend/backends/backends.go
// QuantumBackend interface — the one repo in the pack that already
// abstracts "device" behind a uniform method set rather than a
// collection of ad-hoc structs.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// DeviceKind is the closed set of device shapes a Provider may expose.
type DeviceKind string

const (
	KindLocalSimulator  DeviceKind = "LocalSimulator"
	KindRemoteSimulator DeviceKind = "RemoteSimulator"
	KindHardware        DeviceKind = "Hardware"
)

// DeviceInfo describes one addressable device. Name is unique across
// every registered provider (spec.md §3).
type DeviceInfo struct {
	Name         string
	ProviderTag  string
	Kind         DeviceKind
	Qubits       int
	Operational  bool
	PendingJobs  int
	Description  string
	Capabilities map[gate.Tag]bool
}

// SupportsWidth reports whether the device can host a circuit of the
// given qubit width.
func (d DeviceInfo) SupportsWidth(width int) bool {
	return d.Qubits >= width
}

// JobHandle is the opaque identifier a Provider assigns to a submitted
// job; the dispatcher never interprets its contents.
type JobHandle string

// JobState is the lifecycle a submitted job passes through (spec.md
// §3): Pending -> Queued -> Running -> {Completed, Failed, Cancelled}.
type JobState string

const (
	Pending   JobState = "Pending"
	Queued    JobState = "Queued"
	Running   JobState = "Running"
	Completed JobState = "Completed"
	Failed    JobState = "Failed"
	Cancelled JobState = "Cancelled"
)

// IsTerminal reports whether a state has no further transitions.
func (s JobState) IsTerminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// NativeCircuit is a provider-specific translated circuit payload.
// Providers that do not need a distinct native form (e.g. LocalSimulator)
// may simply wrap the qcore Circuit unchanged.
type NativeCircuit struct {
	Format  string
	Payload any
}

// Provider is the capability set every backend adapter implements
// (spec.md §4.4). Implementations must be safe for concurrent use: the
// dispatcher invokes them without holding its own job-table lock.
type Provider interface {
	// Tag is this provider's short, stable registration identifier.
	Tag() string

	// Initialize is idempotent; calling it again with changed
	// credentials re-initialises the provider's connection state.
	Initialize(ctx context.Context, creds Credentials) error

	// ListDevices returns a point-in-time snapshot of this provider's
	// devices.
	ListDevices(ctx context.Context) ([]DeviceInfo, error)

	// Submit is non-blocking for remote providers: it returns as soon
	// as the job is acknowledged, not when it completes. LocalSimulator
	// and ItsuHardware are the variants where submission and completion
	// coincide.
	Submit(ctx context.Context, c *circuit.Circuit, device DeviceInfo, shots int) (JobHandle, error)

	// Poll is pure observation; it must never mutate server-side state.
	Poll(ctx context.Context, job JobHandle) (JobState, *simulator.JobResult, error)

	// Cancel is best-effort; it returns whether the cancellation took
	// effect before the job reached a terminal state.
	Cancel(ctx context.Context, job JobHandle) (bool, error)

	// Translate validates circuit c against device's capability set and
	// fails with ErrUnsupportedGate before any remote call is made.
	Translate(c *circuit.Circuit, device DeviceInfo) (NativeCircuit, error)
}

// Clock is an injectable monotonic time source (spec.md §6), used by
// the simulated remote providers to drive their queue/backoff timing
// deterministically under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default, real-time Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// TranslateCircuit is the shared capability check every Provider.Translate
// implementation in this package delegates to.
func TranslateCircuit(c *circuit.Circuit, device DeviceInfo) (NativeCircuit, error) {
	if err := c.ValidateAgainst(device.Capabilities); err != nil {
		var unsupported circuit.ErrUnsupportedGate
		if errors.As(err, &unsupported) {
			return NativeCircuit{}, ErrUnsupportedGate{Tag: unsupported.Tag}
		}
		return NativeCircuit{}, err
	}
	return NativeCircuit{Format: "qcore.Circuit", Payload: c}, nil
}
