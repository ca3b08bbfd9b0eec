package circuit

import (
	"encoding/binary"
	"math"

	"lukechampine.com/blake3"
)

// roundingScale matches spec.md §4.1's 1e-12 parameter rounding: round to
// the nearest multiple of 1e-12 before hashing so numerically-equal gate
// parameters fingerprint identically regardless of how they were derived.
const roundingScale = 1e12

// Fingerprint returns a stable 32-byte content hash over the circuit's
// width, classical register size, and ordered gate list, with parameters
// rounded to 1e-12 before hashing. It is used by the dispatcher for
// benchmark-run identity and by callers who want to cache or memoize on
// circuit content rather than circuit identity. Two builders that emit
// the same gates in the same order fingerprint identically regardless of
// the order in which independent builder calls constructed them, since
// hashing only ever sees the already-ordered Gates() slice.
//
// Grounded on the keyed-hash pattern in hydraresearch/qzkp's
// entanglement.go (blake3.New(size, key)), here used unkeyed for a plain
// content digest instead of a keyed entangled-state commitment.
func Fingerprint(c *Circuit) [32]byte {
	h := blake3.New(32, nil)

	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(c.width))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(c.nClbits))
	h.Write(hdr[:])

	for _, g := range c.gates {
		h.Write([]byte(g.Tag))
		for _, q := range g.Qubits {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], uint32(int32(q)))
			h.Write(b[:])
		}
		var cb [4]byte
		binary.LittleEndian.PutUint32(cb[:], uint32(int32(g.Cbit)))
		h.Write(cb[:])
		for _, p := range g.Params {
			rounded := math.Round(p*roundingScale) / roundingScale
			var pb [8]byte
			binary.LittleEndian.PutUint64(pb[:], math.Float64bits(rounded))
			h.Write(pb[:])
		}
	}

	var out [32]byte
	sum := h.Sum(nil)
	copy(out[:], sum)
	return out
}
