// Package testkit centralizes shot/qubit/tolerance presets and common
// assertions for qcore's _test.go files, the way the teacher's
// qc/testutil package centralizes test configuration across qc/*. The
// named-constants-and-configs shape is carried over directly; the
// circuit helpers are rebuilt against qcore/circuit.Builder instead of
// the teacher's builder.New/BuildCircuit, and the histogram assertion
// takes a uint64 counts map (qcore/simulator.JobResult.Counts) instead
// of the teacher's map[string]int.
package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firebitsbr/houdinis/qcore/circuit"
)

// Test timeouts, mirroring the teacher's DefaultTestTimeout/LongTestTimeout/
// BenchmarkTimeout trio.
const (
	DefaultTestTimeout = 10 * time.Second
	LongTestTimeout    = 30 * time.Second
	BenchmarkTimeout   = 60 * time.Second
)

// Simulation parameters, mirroring the teacher's DefaultShots/SmallShots/
// LargeShots/BenchmarkShots/DefaultWorkers constants.
const (
	DefaultShots   = 1024
	SmallShots     = 100
	LargeShots     = 2048
	BenchmarkShots = 8192
)

// Circuit parameters, mirroring the teacher's DefaultQubits/SmallQubits/
// LargeQubits constants.
const (
	DefaultQubits = 3
	SmallQubits   = 2
	LargeQubits   = 7
)

// Statistical tolerances, mirroring the teacher's DefaultTolerance/
// StrictTolerance pair.
const (
	DefaultTolerance = 0.1  // 10% tolerance for statistical tests
	StrictTolerance  = 0.05 // 5% tolerance for precise tests
)

// Config holds one named test scenario's shot count, qubit width, and
// statistical tolerance, the way the teacher's TestConfig does.
type Config struct {
	Shots     int
	Qubits    int
	Timeout   time.Duration
	Tolerance float64
}

// Predefined scenarios, mirroring the teacher's QuickTestConfig/
// StandardTestConfig/BenchmarkTestConfig/ConservativeTestConfig.
var (
	QuickConfig = Config{
		Shots: SmallShots, Qubits: SmallQubits,
		Timeout: DefaultTestTimeout, Tolerance: DefaultTolerance,
	}
	StandardConfig = Config{
		Shots: DefaultShots, Qubits: DefaultQubits,
		Timeout: DefaultTestTimeout, Tolerance: DefaultTolerance,
	}
	BenchmarkConfig = Config{
		Shots: BenchmarkShots, Qubits: LargeQubits,
		Timeout: BenchmarkTimeout, Tolerance: StrictTolerance,
	}
	ConservativeConfig = Config{
		Shots: 50, Qubits: 2,
		Timeout: 5 * time.Second, Tolerance: DefaultTolerance,
	}
)

// WithTimeout creates a context bounded by timeout for test operations.
func WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// BellCircuit builds the standard two-qubit Bell-state circuit
// (H(0); CX(0,1); Measure(0,0); Measure(1,1)) spec.md §8 scenario 1
// names directly.
func BellCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c, err := circuit.New(2, 2).H(0).CX(0, 1).Measure(0, 0).Measure(1, 1).Build()
	require.NoError(t, err, "failed to build Bell state circuit")
	return c
}

// GroverCircuit builds a standard two-qubit Grover circuit marking the
// |11> state by phase flip, for kernel-adjacent dispatcher tests that
// just need a representative multi-gate circuit rather than the full
// qcore/kernels oracle-construction machinery.
func GroverCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	b := circuit.New(2, 2).H(0).H(1)
	b.CZ(0, 1)
	b.H(0).H(1).X(0).X(1)
	b.CZ(0, 1)
	b.X(0).X(1).H(0).H(1)
	b.Measure(0, 0).Measure(1, 1)
	c, err := b.Build()
	require.NoError(t, err, "failed to build Grover circuit")
	return c
}

// AssertHistogramDistribution validates a shot-count histogram against
// expected per-state probabilities within tolerance, the way the
// teacher's AssertHistogramDistribution does for its map[string]int
// results.
func AssertHistogramDistribution(t *testing.T, counts map[string]uint64, expected map[string]float64, totalShots int, tolerance float64) {
	t.Helper()
	for state, expectedProb := range expected {
		actualCount := counts[state]
		actualProb := float64(actualCount) / float64(totalShots)
		if expectedProb == 0 {
			require.Zero(t, actualCount, "state %s should have 0 count", state)
			continue
		}
		require.InDelta(t, expectedProb, actualProb, tolerance,
			"state %s probability mismatch: expected %.3f, got %.3f", state, expectedProb, actualProb)
	}
}

// RequireWithinTimeout runs fn in a goroutine and fails the test if it
// does not complete within timeout.
func RequireWithinTimeout(t *testing.T, timeout time.Duration, fn func() error, msgAndArgs ...interface{}) {
	t.Helper()
	ctx, cancel := WithTimeout(timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		require.NoError(t, err, msgAndArgs...)
	case <-ctx.Done():
		t.Fatalf("operation timed out after %v: %v", timeout, msgAndArgs)
	}
}

// SkipIfShort skips the test under -short, matching the teacher's helper.
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping test in short mode: %s", reason)
	}
}

// SkipIfCI skips the test when running under CI/GitHub Actions, matching
// the teacher's helper.
func SkipIfCI(t *testing.T, reason string) {
	t.Helper()
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		t.Skipf("skipping test in CI: %s", reason)
	}
}
