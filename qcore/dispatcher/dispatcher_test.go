package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/provider"
	"github.com/firebitsbr/houdinis/qcore/simulator"
	"github.com/firebitsbr/houdinis/qcore/testkit"
)

func registerLocal(t *testing.T, d *Dispatcher, tag string, qubits int, seed uint64) {
	t.Helper()
	p := provider.NewLocalSimulator(tag, qubits, func() simulator.RNG { return simulator.NewSeededRNG(seed) })
	require.NoError(t, d.RegisterProvider(context.Background(), p, provider.Credentials{}))
}

// Scenario 1 (spec.md §8): Bell state, local simulator, 1024 shots.
func TestDispatcher_BellStateEndToEnd(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	registerLocal(t, d, "local", 10, 42)

	devices, err := d.ListAllDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	jobID, err := d.Submit(ctx, testkit.BellCircuit(t), devices[0].Name, testkit.DefaultShots)
	require.NoError(t, err)

	snap, err := d.AwaitResult(ctx, jobID, 2*time.Second)
	require.NoError(t, err)
	require.Equal(t, provider.Completed, snap.State)
	require.NotNil(t, snap.Result)

	testkit.AssertHistogramDistribution(t, snap.Result.Counts, map[string]float64{
		"00": 0.5, "01": 0, "10": 0, "11": 0.5,
	}, testkit.DefaultShots, testkit.DefaultTolerance)
	assert.EqualValues(t, testkit.DefaultShots, snap.Result.ShotsExecuted)
}

// Scenario 4 (spec.md §8): Development policy prefers Local over a
// lightly-loaded but non-local RemoteHardware device.
func TestDispatcher_AutoSelectDevelopmentPrefersLocal(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	registerLocal(t, d, "local", 10, 1)

	hw := provider.NewRemoteHardware("qpu", []provider.DeviceInfo{{
		Name: "qpu-5q", ProviderTag: "qpu", Kind: provider.KindHardware,
		Qubits: 5, Operational: true, PendingJobs: 3,
		Capabilities: provider.LocalAllGates,
	}}, nil, time.Millisecond, time.Millisecond, nil)
	require.NoError(t, d.RegisterProvider(ctx, hw, provider.Credentials{}))

	c, err := circuit.New(4, 4).H(0).Build()
	require.NoError(t, err)

	chosen, err := d.AutoSelect(ctx, c, Development)
	require.NoError(t, err)
	assert.Equal(t, provider.KindLocalSimulator, chosen.Kind)
}

// Scenario 5 (spec.md §8): submit to an offline hardware device fails
// within one poll cycle.
func TestDispatcher_SubmitToOfflineDeviceFails(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)

	hw := provider.NewRemoteHardware("qpu", []provider.DeviceInfo{{
		Name: "that-device", ProviderTag: "qpu", Kind: provider.KindHardware,
		Qubits: 5, Operational: false, PendingJobs: 0,
		Capabilities: provider.LocalAllGates,
	}}, nil, time.Millisecond, time.Millisecond, nil)
	require.NoError(t, d.RegisterProvider(ctx, hw, provider.Credentials{}))

	c, err := circuit.New(2, 2).H(0).Measure(0, 0).Build()
	require.NoError(t, err)

	jobID, err := d.Submit(ctx, c, "that-device", 100)
	require.NoError(t, err)

	snap, err := d.AwaitResult(ctx, jobID, time.Second)
	require.Error(t, err)
	assert.Equal(t, provider.Failed, snap.State)
	var offline provider.ErrDeviceOffline
	assert.ErrorAs(t, snap.Err, &offline)
}

// Scenario 6 (spec.md §8): benchmark excludes an incompatible device
// rather than marking it Failed, and sorts the rest by execution time.
func TestDispatcher_BenchmarkExcludesIncompatibleDevice(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	registerLocal(t, d, "localA", 8, 1)
	registerLocal(t, d, "localB", 8, 2)

	hw := provider.NewRemoteHardware("hard", []provider.DeviceInfo{{
		Name: "Hard", ProviderTag: "hard", Kind: provider.KindHardware,
		Qubits: 4, Operational: true, PendingJobs: 0,
		Capabilities: provider.LocalAllGates,
	}}, nil, time.Millisecond, time.Millisecond, nil)
	require.NoError(t, d.RegisterProvider(ctx, hw, provider.Credentials{}))

	c, err := circuit.New(6, 6).H(0).H(1).H(2).H(3).H(4).H(5).Build()
	require.NoError(t, err)

	devices, err := d.ListAllDevices(ctx)
	require.NoError(t, err)
	var names []string
	for _, dev := range devices {
		names = append(names, dev.Name)
	}

	runs, err := d.Benchmark(ctx, c, names)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.NotEqual(t, "Hard", r.Device)
		assert.True(t, r.Success)
	}
	assert.LessOrEqual(t, runs[0].ExecutionTimeMs, runs[1].ExecutionTimeMs)
}

// Boundary (spec.md §8): auto-select with no registered provider fails
// NoSuitableDevice.
func TestDispatcher_AutoSelectNoProvidersFails(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	c, err := circuit.New(2, 2).H(0).Build()
	require.NoError(t, err)

	_, err = d.AutoSelect(ctx, c, Production)
	var noSuitable ErrNoSuitableDevice
	require.ErrorAs(t, err, &noSuitable)
}

// Boundary (spec.md §8): await_result(j, 0) returns immediately with
// the job's current (non-terminal) state.
func TestDispatcher_AwaitResultZeroTimeoutReturnsImmediately(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	hw := provider.NewRemoteHardware("qpu", []provider.DeviceInfo{{
		Name: "slow", ProviderTag: "qpu", Kind: provider.KindHardware,
		Qubits: 5, Operational: true, PendingJobs: 0,
		Capabilities: provider.LocalAllGates,
	}}, nil, time.Hour, time.Hour, nil)
	require.NoError(t, d.RegisterProvider(ctx, hw, provider.Credentials{}))

	c, err := circuit.New(2, 2).H(0).Measure(0, 0).Build()
	require.NoError(t, err)

	jobID, err := d.Submit(ctx, c, "slow", 10)
	require.NoError(t, err)

	snap, err := d.AwaitResult(ctx, jobID, 0)
	require.NoError(t, err)
	assert.NotEqual(t, provider.Completed, snap.State)
}

// Cancel of a job that has already reached a terminal state is ignored
// and reports false (spec.md §4.5).
func TestDispatcher_CancelOfTerminalJobReturnsFalse(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	registerLocal(t, d, "local", 4, 7)

	c, err := circuit.New(1, 1).H(0).Measure(0, 0).Build()
	require.NoError(t, err)

	devices, err := d.ListAllDevices(ctx)
	require.NoError(t, err)
	jobID, err := d.Submit(ctx, c, devices[0].Name, 16)
	require.NoError(t, err)

	_, err = d.AwaitResult(ctx, jobID, time.Second)
	require.NoError(t, err)

	ok, err := d.Cancel(jobID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDispatcher_SubmitUnknownDeviceFails(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	registerLocal(t, d, "local", 4, 1)

	c, err := circuit.New(1, 1).H(0).Build()
	require.NoError(t, err)

	_, err = d.Submit(ctx, c, "does-not-exist", 10)
	var notFound provider.ErrDeviceNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestDispatcher_CloseCancelsNonTerminalJobs(t *testing.T) {
	ctx := context.Background()
	d := New(nil, nil)
	hw := provider.NewRemoteHardware("qpu", []provider.DeviceInfo{{
		Name: "slow", ProviderTag: "qpu", Kind: provider.KindHardware,
		Qubits: 5, Operational: true, PendingJobs: 0,
		Capabilities: provider.LocalAllGates,
	}}, nil, time.Hour, time.Hour, nil)
	require.NoError(t, d.RegisterProvider(ctx, hw, provider.Credentials{}))

	c, err := circuit.New(1, 1).H(0).Measure(0, 0).Build()
	require.NoError(t, err)
	jobID, err := d.Submit(ctx, c, "slow", 10)
	require.NoError(t, err)

	require.NoError(t, d.Close(ctx))

	d.mu.Lock()
	job := d.jobs[jobID]
	d.mu.Unlock()
	assert.True(t, job.cancelRequested)
}
