package simulator

import (
	"testing"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_EmptyCircuit(t *testing.T) {
	c, err := circuit.New(0, 0).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 100, NewSeededRNG(1), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), res.ShotsExecuted)
	assert.Empty(t, res.Counts)
}

func TestSimulate_WidthBoundary(t *testing.T) {
	b := circuit.New(MaxQubits+1, 0)
	b.H(0)
	c, err := b.Build()
	require.NoError(t, err)

	_, err = Simulate(c, 10, NewSeededRNG(1), Options{})
	require.Error(t, err)
	var tooLarge ErrCircuitTooLarge
	require.ErrorAs(t, err, &tooLarge)
}

func TestSimulate_Deterministic(t *testing.T) {
	c, err := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1).Build()
	require.NoError(t, err)

	res1, err := Simulate(c, 256, NewSeededRNG(42), Options{})
	require.NoError(t, err)
	res2, err := Simulate(c, 256, NewSeededRNG(42), Options{})
	require.NoError(t, err)

	assert.Equal(t, res1.Counts, res2.Counts)
}

func TestSimulate_BellStateOnlyCorrelatedOutcomes(t *testing.T) {
	c, err := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 1024, NewSeededRNG(7), Options{})
	require.NoError(t, err)
	require.Equal(t, uint32(1024), res.ShotsExecuted)

	var total uint64
	for outcome, n := range res.Counts {
		assert.Contains(t, []string{"00", "11"}, outcome, "Bell state must never yield a mismatched pair")
		total += n
	}
	assert.EqualValues(t, 1024, total)

	// Roughly balanced: with 1024 shots, each branch lands within a wide
	// statistical band of 512.
	assert.InDelta(t, 512, res.Counts["00"], 120)
	assert.InDelta(t, 512, res.Counts["11"], 120)
}

func TestSimulate_HadamardIsSelfInverse(t *testing.T) {
	c, err := circuit.New(1, 1).H(0).H(0).Measure(0, 0).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 200, NewSeededRNG(3), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), res.Counts["0"])
	assert.Zero(t, res.Counts["1"])
}

func TestSimulate_XFlipsDeterministically(t *testing.T) {
	c, err := circuit.New(1, 1).X(0).Measure(0, 0).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 50, NewSeededRNG(9), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), res.Counts["1"])
}

func TestSimulate_ProjectiveModeConservesCorrelation(t *testing.T) {
	c, err := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 300, NewSeededRNG(11), Options{Mode: Projective})
	require.NoError(t, err)

	for outcome := range res.Counts {
		assert.Contains(t, []string{"00", "11"}, outcome)
	}
}

func TestSimulate_ToffoliFlipsOnlyWhenBothControlsSet(t *testing.T) {
	c, err := circuit.New(3, 1).X(0).X(1).CCX(0, 1, 2).Measure(2, 0).Build()
	require.NoError(t, err)

	res, err := Simulate(c, 20, NewSeededRNG(5), Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), res.Counts["1"])
}
