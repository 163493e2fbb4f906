package adsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNLMonotonicity(t *testing.T) {
	prev := NL(0)
	assert.Equal(t, 59, prev)
	for lat := 1; lat <= 89; lat++ {
		n := NL(float64(lat))
		assert.LessOrEqual(t, n, prev, "NL must be non-increasing as |lat| grows")
		prev = n
	}
	assert.Equal(t, 1, NL(89))
}

func TestNLSymmetric(t *testing.T) {
	for _, lat := range []float64{0, 10.5, 45, 52.257, 87} {
		assert.Equal(t, NL(lat), NL(-lat))
	}
}

func TestDecodeGlobalCPRAmsterdam(t *testing.T) {
	// DF17 even/odd pair for ICAO 40621D (spec.md section 8, scenario 1):
	// 0x8D40621D58C382D690C8AC2863A7 (even) then 0x8D40621D58C386435CC412692AD6 (odd).
	even := CPRFrame{LatCPR: 93000, LonCPR: 51372}
	odd := CPRFrame{LatCPR: 74158, LonCPR: 50194}

	lat, lon, ok := DecodeGlobalCPR(even, odd, false, false, 0)
	assert.True(t, ok)
	assert.InDelta(t, 52.257, lat, 0.001)
	assert.InDelta(t, 3.919, lon, 0.001)
}

func TestDecodeGlobalCPRSumatra(t *testing.T) {
	// Raw frame pair (92095, 39846) even / (88385, 125818) odd, expected
	// (10.216, 123.889) per spec.md section 8, scenario 3.
	even := CPRFrame{LatCPR: 92095, LonCPR: 39846}
	odd := CPRFrame{LatCPR: 88385, LonCPR: 125818}

	lat, lon, ok := DecodeGlobalCPR(even, odd, false, false, 0)
	assert.True(t, ok)
	assert.InDelta(t, 10.216, lat, 0.001)
	assert.InDelta(t, 123.889, lon, 0.001)
}

func TestDecodeGlobalCPRNLMismatchRejected(t *testing.T) {
	// Frames whose resolved latitudes fall in different NL zones must be
	// rejected rather than producing a fabricated position.
	even := CPRFrame{LatCPR: 0, LonCPR: 0}
	odd := CPRFrame{LatCPR: 100000, LonCPR: 0}

	_, _, ok := DecodeGlobalCPR(even, odd, false, false, 0)
	assert.False(t, ok)
}

func TestDecodeLocalCPR(t *testing.T) {
	// Single even frame from the same squitter as above, resolved against a
	// nearby reference position (spec.md section 8, scenario 2).
	frame := CPRFrame{LatCPR: 93000, LonCPR: 51372}

	lat, lon, ok := DecodeLocalCPR(frame, 0, 52.258, 3.918, false)
	assert.True(t, ok)
	assert.InDelta(t, 52.25720, lat, 0.0001)
	assert.InDelta(t, 3.91937, lon, 0.0001)
}

func TestDecodeLocalCPROddFrame(t *testing.T) {
	frame := CPRFrame{LatCPR: 74158, LonCPR: 50194}

	lat, _, ok := DecodeLocalCPR(frame, 1, 52.258, 3.918, false)
	assert.True(t, ok)
	assert.InDelta(t, 52.266, lat, 0.001)
}

func TestDecodeGlobalCPRSwapConsistency(t *testing.T) {
	// Swapping which frame is "later" changes the resolved longitude basis
	// but must still land within a few hundredths of a degree of the
	// even-later answer for this close (same zone) pair.
	even := CPRFrame{LatCPR: 93000, LonCPR: 51372}
	odd := CPRFrame{LatCPR: 74158, LonCPR: 50194}

	latA, lonA, okA := DecodeGlobalCPR(even, odd, false, false, 0)
	latB, lonB, okB := DecodeGlobalCPR(even, odd, true, false, 0)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.InDelta(t, latA, latB, 0.02)
	assert.InDelta(t, lonA, lonB, 0.05)
}
