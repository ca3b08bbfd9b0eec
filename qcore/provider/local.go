package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// LocalAllGates is the capability set a LocalSimulator device
// advertises: every gate qcore/simulator can evolve.
var LocalAllGates = map[gate.Tag]bool{
	gate.H: true, gate.X: true, gate.Y: true, gate.Z: true,
	gate.S: true, gate.T: true, gate.RX: true, gate.RY: true,
	gate.RZ: true, gate.U3: true, gate.CX: true, gate.CZ: true,
	gate.CCX: true, gate.Measure: true, gate.Barrier: true,
}

// LocalSimulator wraps qcore/simulator as a Provider (spec.md §4.4): its
// Submit is synchronous (as is ItsuHardware's) since there is no remote
// queue to wait on.
type LocalSimulator struct {
	tag    string
	qubits int
	rngf   func() simulator.RNG

	mu      sync.Mutex
	results map[JobHandle]simulator.JobResult
	nextID  uint64
}

// NewLocalSimulator constructs a LocalSimulator device provider capped
// at qubits qubits (<= simulator.MaxQubits). rngf supplies a fresh RNG
// per submitted job; pass a closure over simulator.NewSeededRNG for
// deterministic tests or simulator.NewEntropyRNG for production use.
func NewLocalSimulator(tag string, qubits int, rngf func() simulator.RNG) *LocalSimulator {
	if qubits > simulator.MaxQubits {
		qubits = simulator.MaxQubits
	}
	return &LocalSimulator{
		tag:     tag,
		qubits:  qubits,
		rngf:    rngf,
		results: make(map[JobHandle]simulator.JobResult),
	}
}

func (p *LocalSimulator) Tag() string { return p.tag }

func (p *LocalSimulator) Initialize(ctx context.Context, creds Credentials) error {
	// No remote handshake; initialize is a no-op beyond idempotency.
	return nil
}

func (p *LocalSimulator) ListDevices(ctx context.Context) ([]DeviceInfo, error) {
	return []DeviceInfo{{
		Name:         p.tag + "-local",
		ProviderTag:  p.tag,
		Kind:         KindLocalSimulator,
		Qubits:       p.qubits,
		Operational:  true,
		PendingJobs:  0,
		Description:  "in-process state-vector simulator",
		Capabilities: LocalAllGates,
	}}, nil
}

func (p *LocalSimulator) Translate(c *circuit.Circuit, device DeviceInfo) (NativeCircuit, error) {
	return TranslateCircuit(c, device)
}

func (p *LocalSimulator) Submit(ctx context.Context, c *circuit.Circuit, device DeviceInfo, shots int) (JobHandle, error) {
	if _, err := p.Translate(c, device); err != nil {
		return "", err
	}
	rng := simulator.NewEntropyRNG()
	if p.rngf != nil {
		rng = p.rngf()
	}
	res, err := simulator.Simulate(c, shots, rng, simulator.Options{})
	if err != nil {
		return "", err
	}

	id := atomic.AddUint64(&p.nextID, 1)
	handle := JobHandle(fmt.Sprintf("%s-%d", p.tag, id))

	p.mu.Lock()
	p.results[handle] = res
	p.mu.Unlock()
	return handle, nil
}

func (p *LocalSimulator) Poll(ctx context.Context, job JobHandle) (JobState, *simulator.JobResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.results[job]
	if !ok {
		return Failed, nil, ErrDeviceNotFound{Name: string(job)}
	}
	return Completed, &res, nil
}

func (p *LocalSimulator) Cancel(ctx context.Context, job JobHandle) (bool, error) {
	// Submit already ran to completion synchronously; there is nothing
	// left in flight to cancel.
	return false, nil
}
