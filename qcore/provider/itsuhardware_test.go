package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/firebitsbr/houdinis/qcore/testkit"
)

func TestItsuHardware_BellStateStatistics(t *testing.T) {
	p := NewItsuHardware("itsu", 4)
	devices, err := p.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	device := devices[0]

	handle, err := p.Submit(context.Background(), testkit.BellCircuit(t), device, testkit.DefaultShots)
	require.NoError(t, err)

	state, res, err := p.Poll(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, Completed, state)
	testkit.AssertHistogramDistribution(t, res.Counts, map[string]float64{
		"00": 0.5, "01": 0, "10": 0, "11": 0.5,
	}, testkit.DefaultShots, testkit.DefaultTolerance)
}

func TestItsuHardware_RejectsArbitraryAngleGate(t *testing.T) {
	c, err := circuit.New(1, 1).RX(0, 0.37).Measure(0, 0).Build()
	require.NoError(t, err)

	p := NewItsuHardware("itsu", 4)
	devices, err := p.ListDevices(context.Background())
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), c, devices[0], 10)
	require.Error(t, err)
	var unsupported ErrUnsupportedGate
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, string(gate.RX), unsupported.Tag)
}
