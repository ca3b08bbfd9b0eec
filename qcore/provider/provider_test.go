package provider

import (
	"context"
	"testing"
	"time"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/simulator"
	"github.com/firebitsbr/houdinis/qcore/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestLocalSimulator_SubmitIsSynchronous(t *testing.T) {
	ctx := context.Background()
	p := NewLocalSimulator("local", 10, func() simulator.RNG { return simulator.NewSeededRNG(1) })
	devices, err := p.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	handle, err := p.Submit(ctx, testkit.BellCircuit(t), devices[0], 256)
	require.NoError(t, err)

	state, res, err := p.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
	require.NotNil(t, res)
	assert.EqualValues(t, 256, res.ShotsExecuted)
}

func TestCredentials_SealAndOpenRoundTrip(t *testing.T) {
	salt := []byte("houdinis-test-salt")
	sealed, err := SealCredentials("correct horse battery staple", salt, []byte("api-token-xyz"))
	require.NoError(t, err)

	plaintext, err := sealed.Open("correct horse battery staple", salt)
	require.NoError(t, err)
	assert.Equal(t, "api-token-xyz", string(plaintext))

	_, err = sealed.Open("wrong passphrase", salt)
	require.Error(t, err)
}

func TestRemoteProvider_StateProgressesWithClock(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	device := DeviceInfo{Name: "remote-a", Kind: KindRemoteSimulator, Qubits: 10, Operational: true, Capabilities: LocalAllGates}
	p := NewRemoteSimulator("remote", []DeviceInfo{device}, clock, 100*time.Millisecond, 50*time.Millisecond,
		func() simulator.RNG { return simulator.NewSeededRNG(1) })

	handle, err := p.Submit(ctx, testkit.BellCircuit(t), device, 128)
	require.NoError(t, err)

	state, _, err := p.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, Queued, state)

	clock.advance(120 * time.Millisecond)
	state, _, err = p.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, Running, state)

	clock.advance(60 * time.Millisecond)
	state, res, err := p.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
	require.NotNil(t, res)
}

func TestRemoteProvider_OfflineDeviceFailsOnPoll(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	device := DeviceInfo{Name: "hw-offline", Kind: KindHardware, Qubits: 5, Operational: false, Capabilities: LocalAllGates}
	p := NewRemoteHardware("hw", []DeviceInfo{device}, clock, time.Millisecond, time.Millisecond, nil)

	handle, err := p.Submit(ctx, testkit.BellCircuit(t), device, 10)
	require.NoError(t, err)

	state, _, err := p.Poll(ctx, handle)
	assert.Equal(t, Failed, state)
	var offline ErrDeviceOffline
	require.ErrorAs(t, err, &offline)
}

func TestRemoteProvider_CancelBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	device := DeviceInfo{Name: "remote-b", Kind: KindRemoteSimulator, Qubits: 10, Operational: true, Capabilities: LocalAllGates}
	p := NewRemoteSimulator("remote", []DeviceInfo{device}, clock, time.Hour, time.Hour, nil)

	handle, err := p.Submit(ctx, testkit.BellCircuit(t), device, 10)
	require.NoError(t, err)

	ok, err := p.Cancel(ctx, handle)
	require.NoError(t, err)
	assert.True(t, ok)

	state, _, err := p.Poll(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, state)
}

func TestRemoteProvider_InjectedUnavailableFailsSubmit(t *testing.T) {
	ctx := context.Background()
	device := DeviceInfo{Name: "remote-c", Kind: KindRemoteSimulator, Qubits: 10, Operational: true, Capabilities: LocalAllGates}
	unavailable := true
	p := NewRemoteSimulator("remote", []DeviceInfo{device}, nil, time.Second, time.Second, nil).
		WithFailureInjection(FailureInjection{Unavailable: &unavailable, Retryable: true})

	_, err := p.Submit(ctx, testkit.BellCircuit(t), device, 10)
	require.Error(t, err)
	var unavail ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.True(t, unavail.Retryable)
}

func TestTranslateCircuit_RejectsUnsupportedGate(t *testing.T) {
	c, err := circuit.New(1, 1).T(0).Measure(0, 0).Build()
	require.NoError(t, err)

	device := DeviceInfo{Name: "limited", Capabilities: map[gate.Tag]bool{}}
	_, err = TranslateCircuit(c, device)
	require.Error(t, err)
}
