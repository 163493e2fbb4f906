package adsb

// Callsign alphabet: 6-bit groups index into this 64-entry table. '#' and '_'
// are placeholders stripped from the decoded string.
const CallsignAlphabet = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ#####_###############0123456789######"

// CPR encoding constants (17-bit fields).
const (
	CPRLatBits = 17
	CPRLonBits = 17
	CPRMax     = 131072.0 // 2^17
)

// Message framing constants.
const (
	PreambleSamples = 16
	ShortMsgBits    = 56
	LongMsgBits     = 112
	ShortMsgSamples = 2 * ShortMsgBits
	LongMsgSamples  = 2 * LongMsgBits
)

// Squawk (identity) bit-field constants. Each nibble of the 16-bit Gillham
// word produced by parseID13 is already a 0-7 octal digit (A4 A2 A1 weighted
// 4/2/1 within the nibble), so formatting is a plain nibble-to-decimal-digit
// expansion.
const (
	SquawkDigitAShift = 12
	SquawkDigitBShift = 8
	SquawkDigitCShift = 4
	SquawkDigitDShift = 0
	SquawkNibbleMask  = 0x0F

	SquawkAMultiplier = 1000
	SquawkBMultiplier = 100
	SquawkCMultiplier = 10
	SquawkDMultiplier = 1
)
