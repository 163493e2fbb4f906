package adsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAC13QBitLinear(t *testing.T) {
	// Q bit (0x0010) set, M bit (0x0040) clear: 25ft linear encoding.
	assert.Equal(t, 16075, DecodeAC13(0x0A9B))
}

func TestDecodeAC13MetricUnimplemented(t *testing.T) {
	assert.Equal(t, 0, DecodeAC13(0x0040))
}

func TestDecodeAC13GillhamPath(t *testing.T) {
	// Both Q and M bits clear: Gillham Mode C path via modeAToModeC.
	assert.Equal(t, -1200, DecodeAC13(0x0100))
}

func TestDecodeAC12QBitLinear(t *testing.T) {
	assert.Equal(t, 49800, DecodeAC12(0x0FF0|0x10))
}

func TestDecodeIdentityZeroField(t *testing.T) {
	assert.Equal(t, 0, DecodeIdentity(0))
}

func TestDecodeIdentityKnownField(t *testing.T) {
	assert.Equal(t, 526, DecodeIdentity(0x0467))
}

func TestModeAToModeCIllegalCodeRejected(t *testing.T) {
	// A field with no C-nibble bits set at all is illegal per the Gillham
	// encoding and must report -9999.
	assert.Equal(t, -9999, modeAToModeC(0))
}
