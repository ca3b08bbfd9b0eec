package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// FailureInjection lets a test deterministically force a RemoteProvider
// call down one of spec.md §4.4's failure paths, standing in for the
// network/auth/rate-limit conditions a real transport would surface.
type FailureInjection struct {
	Unavailable *bool          // forces ErrProviderUnavailable on Submit
	Retryable   bool           // retryability of the forced Unavailable error
	Unauthorized bool          // forces ErrProviderUnauthorized on Submit
	ThrottledFor *time.Duration // forces ErrProviderThrottled on Submit
}

type remoteJob struct {
	circuit     *circuit.Circuit
	device      DeviceInfo
	shots       int
	submittedAt time.Time
	cancelled   bool

	mu     sync.Mutex
	cached *simulator.JobResult
}

// RemoteProvider simulates an async remote device (RemoteSimulator or
// RemoteHardware, per spec.md §4.4) without any real network transport:
// Submit enqueues and returns immediately; Poll derives the job's
// current state from elapsed clock time against configured queue/run
// latencies, so tests can drive the state machine deterministically via
// an injected Clock instead of sleeping on a real queue.
type RemoteProvider struct {
	tag          string
	kind         DeviceKind
	clock        Clock
	queueLatency time.Duration
	runLatency   time.Duration
	rngf         func() simulator.RNG
	failures     FailureInjection

	mu      sync.Mutex
	devices []DeviceInfo
	jobs    map[JobHandle]*remoteJob
	nextID  uint64
}

// NewRemoteSimulator constructs a cloud-hosted-simulator provider.
func NewRemoteSimulator(tag string, devices []DeviceInfo, clock Clock, queueLatency, runLatency time.Duration, rngf func() simulator.RNG) *RemoteProvider {
	return newRemoteProvider(tag, KindRemoteSimulator, devices, clock, queueLatency, runLatency, rngf)
}

// NewRemoteHardware constructs a real-QPU provider.
func NewRemoteHardware(tag string, devices []DeviceInfo, clock Clock, queueLatency, runLatency time.Duration, rngf func() simulator.RNG) *RemoteProvider {
	return newRemoteProvider(tag, KindHardware, devices, clock, queueLatency, runLatency, rngf)
}

func newRemoteProvider(tag string, kind DeviceKind, devices []DeviceInfo, clock Clock, queueLatency, runLatency time.Duration, rngf func() simulator.RNG) *RemoteProvider {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RemoteProvider{
		tag:          tag,
		kind:         kind,
		clock:        clock,
		queueLatency: queueLatency,
		runLatency:   runLatency,
		rngf:         rngf,
		devices:      devices,
		jobs:         make(map[JobHandle]*remoteJob),
	}
}

// WithFailureInjection configures deterministic failure simulation for
// tests; it is not part of the Provider interface and is never called
// from the dispatcher.
func (p *RemoteProvider) WithFailureInjection(f FailureInjection) *RemoteProvider {
	p.failures = f
	return p
}

func (p *RemoteProvider) Tag() string { return p.tag }

func (p *RemoteProvider) Initialize(ctx context.Context, creds Credentials) error {
	if p.failures.Unauthorized {
		return ErrProviderUnauthorized{Detail: "injected failure"}
	}
	return nil
}

func (p *RemoteProvider) ListDevices(ctx context.Context) ([]DeviceInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]DeviceInfo, len(p.devices))
	copy(out, p.devices)
	return out, nil
}

func (p *RemoteProvider) Translate(c *circuit.Circuit, device DeviceInfo) (NativeCircuit, error) {
	return TranslateCircuit(c, device)
}

func (p *RemoteProvider) Submit(ctx context.Context, c *circuit.Circuit, device DeviceInfo, shots int) (JobHandle, error) {
	if p.failures.Unavailable != nil && *p.failures.Unavailable {
		return "", ErrProviderUnavailable{Retryable: p.failures.Retryable, Detail: "injected failure"}
	}
	if p.failures.Unauthorized {
		return "", ErrProviderUnauthorized{Detail: "injected failure"}
	}
	if p.failures.ThrottledFor != nil {
		return "", ErrProviderThrottled{RetryAfter: *p.failures.ThrottledFor}
	}
	if _, err := p.Translate(c, device); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.nextID++
	handle := JobHandle(fmt.Sprintf("%s-%d", p.tag, p.nextID))
	p.jobs[handle] = &remoteJob{
		circuit:     c,
		device:      device,
		shots:       shots,
		submittedAt: p.clock.Now(),
	}
	p.mu.Unlock()
	return handle, nil
}

func (p *RemoteProvider) Poll(ctx context.Context, handle JobHandle) (JobState, *simulator.JobResult, error) {
	p.mu.Lock()
	job, ok := p.jobs[handle]
	p.mu.Unlock()
	if !ok {
		return Failed, nil, ErrDeviceNotFound{Name: string(handle)}
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	if job.cancelled {
		return Cancelled, nil, nil
	}
	if !job.device.Operational {
		return Failed, nil, ErrDeviceOffline{Device: job.device.Name}
	}

	elapsed := p.clock.Now().Sub(job.submittedAt)
	switch {
	case elapsed < p.queueLatency:
		return Queued, nil, nil
	case elapsed < p.queueLatency+p.runLatency:
		return Running, nil, nil
	default:
		if job.cached == nil {
			rng := simulator.NewEntropyRNG()
			if p.rngf != nil {
				rng = p.rngf()
			}
			res, err := simulator.Simulate(job.circuit, job.shots, rng, simulator.Options{})
			if err != nil {
				return Failed, nil, err
			}
			job.cached = &res
		}
		return Completed, job.cached, nil
	}
}

func (p *RemoteProvider) Cancel(ctx context.Context, handle JobHandle) (bool, error) {
	p.mu.Lock()
	job, ok := p.jobs[handle]
	p.mu.Unlock()
	if !ok {
		return false, ErrDeviceNotFound{Name: string(handle)}
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	if job.cancelled {
		return false, nil
	}
	elapsed := p.clock.Now().Sub(job.submittedAt)
	if elapsed >= p.queueLatency+p.runLatency {
		return false, nil // already completed
	}
	job.cancelled = true
	return true, nil
}
