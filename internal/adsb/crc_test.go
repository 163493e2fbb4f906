package adsb

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hexToData(t *testing.T, hexStr string) []byte {
	t.Helper()
	data, err := hex.DecodeString(hexStr)
	assert.NoError(t, err)
	return data
}

func flipBit(data []byte, bitIndex int) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	out[bitIndex/8] ^= 1 << uint(7-(bitIndex%8))
	return out
}

func TestCRC24ValidMessage(t *testing.T) {
	// DF17 ADS-B squitter for ICAO 40621D, a real bit-exact capture.
	data := hexToData(t, "8D40621D58C382D690C8AC2863A7")
	assert.Equal(t, uint32(0), CRC24(data, LongMsgBits))
}

func TestCRC24TableMatchesSchoolbook(t *testing.T) {
	messages := []string{
		"8D40621D58C382D690C8AC2863A7",
		"8D40621D58C386435CC412692AD6",
	}
	for _, m := range messages {
		data := hexToData(t, m)
		assert.Equal(t, CRC24Schoolbook(data, LongMsgBits), CRC24(data, LongMsgBits))
	}
}

func TestCRC24DetectsCorruption(t *testing.T) {
	data := hexToData(t, "8D40621D58C382D690C8AC2863A7")
	corrupted := flipBit(data, 40)
	assert.NotEqual(t, uint32(0), CRC24(corrupted, LongMsgBits))
}

func TestCorrectSingleBitRecoversFlippedBit(t *testing.T) {
	data := hexToData(t, "8D40621D58C382D690C8AC2863A7")
	flipIndex := 30
	corrupted := flipBit(data, flipIndex)

	fixed, idx, ok := CorrectSingleBit(corrupted, LongMsgBits)
	assert.True(t, ok)
	assert.Equal(t, flipIndex, idx)
	assert.Equal(t, data, fixed)
	assert.Equal(t, uint32(0), CRC24(fixed, LongMsgBits))
}

func TestCorrectSingleBitFailsOnMultipleErrors(t *testing.T) {
	data := hexToData(t, "8D40621D58C382D690C8AC2863A7")
	corrupted := flipBit(flipBit(data, 40), 20)

	_, _, ok := CorrectSingleBit(corrupted, LongMsgBits)
	assert.False(t, ok)
}
