package provider

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/itsubaki/q"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// ItsuGateset is the capability set the teacher's itsubaki/q-backed
// one-shot runner actually executes (qc/simulator/itsu/itsu.go's
// supportedGates, narrowed to the subset qcore/gate also names): no
// arbitrary-angle rotation, no T gate, no barrier. Modeling it as a
// second, more restricted device lets the dispatcher's auto-selection
// policies (qcore/dispatcher) choose between a fully general simulator
// and a hardware-shaped one the way a real deployment would.
var ItsuGateset = map[gate.Tag]bool{
	gate.H: true, gate.X: true, gate.Y: true, gate.Z: true,
	gate.S: true, gate.CX: true, gate.CZ: true, gate.CCX: true,
	gate.Measure: true,
}

// ItsuHardware is a Provider backed by github.com/itsubaki/q instead of
// qcore/simulator — a second, independent execution engine standing in
// for real hardware with a fixed discrete gate set. Submit runs
// synchronously like LocalSimulator: itsubaki/q's Q type has no queue
// of its own, so there is nothing to poll for beyond job bookkeeping.
type ItsuHardware struct {
	tag    string
	qubits int

	mu      sync.Mutex
	results map[JobHandle]simulator.JobResult
	nextID  uint64
}

// NewItsuHardware constructs an ItsuHardware device provider capped at
// qubits qubits.
func NewItsuHardware(tag string, qubits int) *ItsuHardware {
	return &ItsuHardware{
		tag:     tag,
		qubits:  qubits,
		results: make(map[JobHandle]simulator.JobResult),
	}
}

func (p *ItsuHardware) Tag() string { return p.tag }

func (p *ItsuHardware) Initialize(ctx context.Context, creds Credentials) error {
	return nil
}

func (p *ItsuHardware) ListDevices(ctx context.Context) ([]DeviceInfo, error) {
	return []DeviceInfo{{
		Name:         p.tag + "-itsu",
		ProviderTag:  p.tag,
		Kind:         KindHardware,
		Qubits:       p.qubits,
		Operational:  true,
		PendingJobs:  0,
		Description:  "fixed-gate hardware-shaped device (itsubaki/q engine)",
		Capabilities: ItsuGateset,
	}}, nil
}

func (p *ItsuHardware) Translate(c *circuit.Circuit, device DeviceInfo) (NativeCircuit, error) {
	return TranslateCircuit(c, device)
}

func (p *ItsuHardware) Submit(ctx context.Context, c *circuit.Circuit, device DeviceInfo, shots int) (JobHandle, error) {
	if _, err := p.Translate(c, device); err != nil {
		return "", err
	}
	if shots <= 0 {
		shots = 1
	}

	counts := make(map[string]uint64, shots)
	for i := 0; i < shots; i++ {
		bits, err := runOnItsu(c)
		if err != nil {
			return "", err
		}
		counts[bits]++
	}

	id := atomic.AddUint64(&p.nextID, 1)
	handle := JobHandle(fmt.Sprintf("%s-%d", p.tag, id))

	p.mu.Lock()
	p.results[handle] = simulator.JobResult{
		Counts:        counts,
		ShotsExecuted: uint32(shots),
	}
	p.mu.Unlock()
	return handle, nil
}

func (p *ItsuHardware) Poll(ctx context.Context, job JobHandle) (JobState, *simulator.JobResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	res, ok := p.results[job]
	if !ok {
		return Failed, nil, ErrDeviceNotFound{Name: string(job)}
	}
	return Completed, &res, nil
}

func (p *ItsuHardware) Cancel(ctx context.Context, job JobHandle) (bool, error) {
	return false, nil
}

// runOnItsu plays c exactly once on a fresh q.Q instance, mirroring the
// teacher's qc/simulator/itsu/itsu.go runOnce but reading qcore/gate's
// Gate values directly instead of the teacher's own circuit.Operations.
// itsubaki/q's own Measure draws from its internal (unseeded) RNG, so
// unlike LocalSimulator this device cannot be driven to a reproducible
// outcome — acceptable for a stand-in hardware device but why
// qcore/simulator, not this engine, backs the reproducibility
// guarantees spec.md's kernels rely on.
func runOnItsu(c *circuit.Circuit) (string, error) {
	sim := q.New()
	qs := sim.ZeroWith(c.Width())
	cbits := make([]byte, c.NClbits())
	for i := range cbits {
		cbits[i] = '0'
	}

	for _, g := range c.Gates() {
		switch g.Tag {
		case gate.H:
			sim.H(qs[g.Qubits[0]])
		case gate.X:
			sim.X(qs[g.Qubits[0]])
		case gate.Y:
			sim.Y(qs[g.Qubits[0]])
		case gate.Z:
			sim.Z(qs[g.Qubits[0]])
		case gate.S:
			sim.S(qs[g.Qubits[0]])
		case gate.CX:
			sim.CNOT(qs[g.Qubits[0]], qs[g.Qubits[1]])
		case gate.CZ:
			sim.CZ(qs[g.Qubits[0]], qs[g.Qubits[1]])
		case gate.CCX:
			sim.Toffoli(qs[g.Qubits[0]], qs[g.Qubits[1]], qs[g.Qubits[2]])
		case gate.Measure:
			m := sim.Measure(qs[g.Qubits[0]])
			if m.IsOne() {
				cbits[g.Cbit] = '1'
			} else {
				cbits[g.Cbit] = '0'
			}
		default:
			return "", ErrUnsupportedGate{Tag: string(g.Tag)}
		}
	}
	return string(cbits), nil
}
