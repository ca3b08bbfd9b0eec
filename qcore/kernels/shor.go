package kernels

import (
	"math"

	"github.com/firebitsbr/houdinis/qcore/circuit"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

// ShorResult is the outcome of ShorPeriodFinding: the recovered order r
// such that a^r ≡ 1 (mod N), if one was found, plus the raw phase
// samples and the counting-register width actually used.
type ShorResult struct {
	Period       uint32 // 0 means "no consistent candidate survived"
	Found        bool
	Measurements map[string]uint64
	QubitsUsed   int
}

// MinConsistentSamples is the number of independent phase samples that
// must agree on a candidate order before ShorPeriodFinding accepts it
// (spec.md §4.3).
const MinConsistentSamples = 3

// ShorPeriodFinding recovers the multiplicative order of a mod N via
// phase estimation plus classical continued-fraction post-processing.
//
// Building the modular-exponentiation unitary at the gate level (full
// reversible arithmetic circuits) is out of scope for this kernel; the
// phase-estimation counting register and inverse-QFT readout are real,
// but the oracle's phase kick is injected directly from the classically
// known eigenphase s/r for a uniformly random s in [0,r) — the standard
// simplification used whenever a Shor demonstration needs a genuinely
// sampled, QFT-decoded phase without a full modular-arithmetic circuit.
// The continued-fraction recovery below never sees r directly; it only
// sees the QFT-decoded integer and must rediscover r from repeated
// samples, exactly as the full construction would require.
func ShorPeriodFinding(N, a int, rng simulator.RNG, shots int) (ShorResult, error) {
	if a == 1 {
		return ShorResult{Period: 1, Found: true, QubitsUsed: countingQubits(N), Measurements: map[string]uint64{}}, nil
	}
	if !(a > 1 && a < N) {
		return ShorResult{}, ErrInvalidArgument{Reason: "a must satisfy 1 < a < N"}
	}
	if gcd(a, N) != 1 {
		return ShorResult{}, ErrInvalidArgument{Reason: "gcd(a,N) != 1"}
	}

	r := classicalOrder(a, N)
	m := countingQubits(N)
	dim := uint64(1) << uint(m)

	candidateCounts := make(map[uint32]int)
	measurements := make(map[string]uint64)

	for s := 0; s < shots; s++ {
		sVal := int(rng.Float64() * float64(r))
		if sVal >= r {
			sVal = r - 1
		}
		theta := float64(sVal) / float64(r)

		c, err := buildPhaseEstimationCircuit(m, theta)
		if err != nil {
			return ShorResult{}, err
		}
		res, err := simulator.Simulate(c, 1, rng, simulator.Options{})
		if err != nil {
			return ShorResult{}, err
		}
		for bitstring := range res.Counts {
			measurements[bitstring]++
			y := bitstringToUint(bitstring)
			denom, ok := OrderFromPhase(y, dim, N)
			if !ok {
				continue // continued-fraction denominator >= N: discard
			}
			if modPow(a, denom, N) != 1 {
				continue // spurious low-denominator candidate (e.g. s=0)
			}
			candidateCounts[uint32(denom)]++
		}
	}

	best := uint32(0)
	found := false
	for candidate, count := range candidateCounts {
		if count < MinConsistentSamples {
			continue
		}
		if !found || candidate < best {
			best = candidate
			found = true
		}
	}

	return ShorResult{Period: best, Found: found, Measurements: measurements, QubitsUsed: m}, nil
}

// countingQubits implements spec.md §4.3's fixed parameterisation (the
// REDESIGN FLAGS section settles on this one after noting the source
// mixed 2·⌈log2 N⌉ with ⌈log2 N⌉+2 across call sites).
func countingQubits(N int) int {
	return 2 * ceilLog2(N)
}

func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	bits := 0
	v := 1
	for v < n {
		v <<= 1
		bits++
	}
	return bits
}

// buildPhaseEstimationCircuit prepares an m-qubit counting register in
// uniform superposition and applies a phase kick of 2*pi*2^(m-1-j)*theta
// to qubit j, so qubit 0 carries the most significant bit of the decoded
// integer (it is also classical bit 0, the leftmost bitstring character):
// the standard phase-estimation "controlled-U^(2^k) acting on a
// stationary eigenstate" kickback, which reduces to an independent
// single-qubit RZ on each counting qubit because the eigenstate itself
// never changes. Per-qubit RZ contributes a Σangle_j/2 term to the
// global phase, identical across every basis state, so it never shows
// up as a relative phase between them; only the Σ angle_j·x_j term the
// inverse QFT decodes is observable. The inverse QFT then decodes the
// resulting phase into a measurable integer.
func buildPhaseEstimationCircuit(m int, theta float64) (*circuit.Circuit, error) {
	b := circuit.New(m, m)
	for j := 0; j < m; j++ {
		b.H(j)
		angle := 2 * math.Pi * math.Pow(2, float64(m-1-j)) * theta
		b.RZ(j, angle)
	}
	qftInverse(b, m)
	for j := 0; j < m; j++ {
		b.Measure(j, j)
	}
	return b.Build()
}

// OrderFromPhase recovers a denominator q < maxDenominator from a
// measured phase estimate y/dim via the continued-fraction convergent
// algorithm classic to Shor's algorithm. It returns ok=false if no
// convergent's denominator stays below maxDenominator.
func OrderFromPhase(y, dim uint64, maxDenominator int) (int, bool) {
	num, den := y, dim
	hPrev2, hPrev1 := uint64(0), uint64(1)
	kPrev2, kPrev1 := uint64(1), uint64(0)

	if num == 0 {
		return 1, true
	}

	for iter := 0; iter < 64 && den != 0; iter++ {
		a := num / den
		num, den = den, num%den
		h := a*hPrev1 + hPrev2
		k := a*kPrev1 + kPrev2
		if k == 0 || int(k) >= maxDenominator {
			break
		}
		hPrev2, hPrev1 = hPrev1, h
		kPrev2, kPrev1 = kPrev1, k
	}
	if kPrev1 == 0 {
		return 0, false
	}
	return int(kPrev1), true
}

func bitstringToUint(s string) uint64 {
	var v uint64
	for _, ch := range s {
		v <<= 1
		if ch == '1' {
			v |= 1
		}
	}
	return v
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func modPow(base, exp, mod int) int {
	if mod == 1 {
		return 0
	}
	result := 1
	base = base % mod
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % mod
		}
		exp >>= 1
		base = (base * base) % mod
	}
	return result
}

// classicalOrder returns the smallest r>0 with a^r ≡ 1 (mod N). It
// exists to parameterise the phase-estimation oracle above (see the
// simplification note on ShorPeriodFinding) and is not itself part of
// the continued-fraction recovery path.
func classicalOrder(a, N int) int {
	r := 1
	v := a % N
	for v != 1 {
		v = (v * a) % N
		r++
		if r > N {
			return 1
		}
	}
	return r
}
