package kernels

import (
	"strings"
	"testing"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQFT_InverseIsIdentity(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		qft, err := QFT(n)
		require.NoError(t, err)
		inv, err := InverseQFT(n)
		require.NoError(t, err)

		b := circuit.New(n, n)
		for _, g := range qft.Gates() {
			b.Append(g)
		}
		for _, g := range inv.Gates() {
			b.Append(g)
		}
		for q := 0; q < n; q++ {
			b.Measure(q, q)
		}
		c, err := b.Build()
		require.NoError(t, err)

		res, err := simulator.Simulate(c, 500, simulator.NewSeededRNG(1), simulator.Options{})
		require.NoError(t, err)
		zero := strings.Repeat("0", n)
		assert.InDelta(t, 500, res.Counts[zero], 1, "QFT followed by its inverse must return |0...0>")
	}
}

func TestShor_N15A7RecoversPeriodFour(t *testing.T) {
	res, err := ShorPeriodFinding(15, 7, simulator.NewSeededRNG(42), 2048)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.EqualValues(t, 4, res.Period)
	assert.Equal(t, 8, res.QubitsUsed)
}

func TestShor_BaseOneShortCircuits(t *testing.T) {
	res, err := ShorPeriodFinding(15, 1, simulator.NewSeededRNG(1), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Period)
}

func TestShor_RejectsNonCoprimeBase(t *testing.T) {
	_, err := ShorPeriodFinding(15, 3, simulator.NewSeededRNG(1), 10)
	require.Error(t, err)
	var invalid ErrInvalidArgument
	require.ErrorAs(t, err, &invalid)
}

func TestGrover_SingleMarkedStateThreeQubits(t *testing.T) {
	const nBits = 3
	const marked = 5 // binary 101
	oracle := PhaseOracleForState(nBits, marked)

	res, err := RunGroverSearch(nBits, oracle, 1, 1024, simulator.NewSeededRNG(7))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations, "floor((pi/4)*sqrt(8)) == 2")
	assert.GreaterOrEqual(t, res.Counts["101"], uint64(900))
}

func TestGrover_RejectsZeroMarkedCount(t *testing.T) {
	_, _, err := BuildGroverCircuit(3, nil, 0)
	require.Error(t, err)
	var invalid ErrInvalidArgument
	require.ErrorAs(t, err, &invalid)
}

func TestGrover_DoesNotOverIterateWhenMarkedIsHalf(t *testing.T) {
	_, iterations, err := BuildGroverCircuit(3, nil, 4) // 2^(n-1) == 4
	require.NoError(t, err)
	assert.Equal(t, 1, iterations)
}

func TestQuantumAdvantageEstimate_Search(t *testing.T) {
	est, err := QuantumAdvantageEstimate(AdvantageSearch, 10)
	require.NoError(t, err)
	assert.Equal(t, "O(N)", est.ClassicalBigO)
	assert.Equal(t, "O(sqrt(N))", est.QuantumBigO)
	assert.Greater(t, est.AdvantageFactor, 1.0)
}

func TestQuantumAdvantageEstimate_UnknownKind(t *testing.T) {
	_, err := QuantumAdvantageEstimate("bogus", 10)
	require.Error(t, err)
}
