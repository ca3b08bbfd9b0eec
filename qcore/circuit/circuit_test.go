package circuit

import (
	"testing"

	"github.com/firebitsbr/houdinis/qcore/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_PreservesOrderAndRange(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	b := New(3, 1)
	b.H(0).CX(0, 1).CCX(0, 1, 2).Measure(2, 0)

	c, err := b.Build()
	require.NoError(err)
	require.NotNil(c)

	assert.Equal(3, c.Width())
	assert.Equal(1, c.NClbits())

	gs := c.Gates()
	require.Len(gs, 4)
	assert.Equal(gate.H, gs[0].Tag)
	assert.Equal([]int{0}, gs[0].Qubits)
	assert.Equal(gate.CX, gs[1].Tag)
	assert.Equal(gate.CCX, gs[2].Tag)
	assert.Equal(gate.Measure, gs[3].Tag)
	assert.Equal(0, gs[3].Cbit)
}

func TestBuilder_RejectsOutOfRangeQubit(t *testing.T) {
	b := New(2, 2)
	b.H(5)
	_, err := b.Build()
	require.Error(t, err)
	var ic ErrInvalidCircuit
	require.ErrorAs(t, err, &ic)
}

func TestBuilder_RejectsGateAfterMeasureOnSameQubit(t *testing.T) {
	b := New(2, 2)
	b.H(0).Measure(0, 0).X(0)
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilder_RejectsDuplicateClassicalBitTarget(t *testing.T) {
	b := New(2, 1)
	b.Measure(0, 0).Measure(1, 0)
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuilder_RejectsAppendAfterBuild(t *testing.T) {
	b := New(1, 1)
	b.H(0)
	c, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, c)

	b.X(0)
	_, err = b.Build()
	require.Error(t, err)
}

func TestBuilder_EmptyCircuit(t *testing.T) {
	c, err := New(0, 0).Build()
	require.NoError(t, err)
	require.Equal(t, 0, c.Width())
	require.Equal(t, 0, c.Len())
}

func TestBuilder_WidthBoundary(t *testing.T) {
	_, err := New(MaxCircuitQubits, 0).Build()
	require.NoError(t, err)

	_, err = New(MaxCircuitQubits+1, 0).Build()
	require.Error(t, err)
}

func TestValidateAgainst(t *testing.T) {
	c, err := New(2, 2).H(0).CX(0, 1).Build()
	require.NoError(t, err)

	caps := map[gate.Tag]bool{gate.H: true, gate.CX: true}
	require.NoError(t, c.ValidateAgainst(caps))

	caps2 := map[gate.Tag]bool{gate.H: true}
	err = c.ValidateAgainst(caps2)
	require.Error(t, err)
	var unsupported ErrUnsupportedGate
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, string(gate.CX), unsupported.Tag)
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	c1, err := New(2, 2).H(0).CX(0, 1).Build()
	require.NoError(t, err)
	c2, err := New(2, 2).H(0).CX(0, 1).Build()
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(c1), Fingerprint(c2), "identical circuits must fingerprint identically")

	c3, err := New(2, 2).CX(0, 1).Build() // different gate list
	require.NoError(t, err)
	assert.NotEqual(t, Fingerprint(c1), Fingerprint(c3))
}

func TestFingerprint_ParamRounding(t *testing.T) {
	c1, err := New(1, 0).RX(0, 1.0000000000001).Build()
	require.NoError(t, err)
	c2, err := New(1, 0).RX(0, 1.0000000000002).Build()
	require.NoError(t, err)

	// both round to the same value at the 1e-12 scale
	assert.Equal(t, Fingerprint(c1), Fingerprint(c2))
}
