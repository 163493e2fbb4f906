package adsb

// parseID13 rearranges a 13-bit Mode S identity/altitude field into a 16-bit
// Gillham-coded word with nibbles (from MSB) A, B, C, D — each nibble already
// a 0-7 value weighted 4/2/1 for its *4/*2/*1 sub-bits. Bit numbers in the
// comments below count from 0 at the LSB of the 13-bit field (bit 12 = most
// significant).
func parseID13(field uint16) uint16 {
	var g uint16

	if field&0x1000 != 0 {
		g |= 0x0010 // bit 12 = C1
	}
	if field&0x0800 != 0 {
		g |= 0x1000 // bit 11 = A1
	}
	if field&0x0400 != 0 {
		g |= 0x0020 // bit 10 = C2
	}
	if field&0x0200 != 0 {
		g |= 0x2000 // bit 9 = A2
	}
	if field&0x0100 != 0 {
		g |= 0x0040 // bit 8 = C4
	}
	if field&0x0080 != 0 {
		g |= 0x4000 // bit 7 = A4
	}
	if field&0x0020 != 0 {
		g |= 0x0100 // bit 5 = B1
	}
	if field&0x0010 != 0 {
		g |= 0x0001 // bit 4 = D1 or Q
	}
	if field&0x0008 != 0 {
		g |= 0x0200 // bit 3 = B2
	}
	if field&0x0004 != 0 {
		g |= 0x0002 // bit 2 = D2
	}
	if field&0x0002 != 0 {
		g |= 0x0400 // bit 1 = B4
	}
	if field&0x0001 != 0 {
		g |= 0x0004 // bit 0 = D4
	}

	return g
}

// modeAToModeC converts a Gillham-coded word (as produced by parseID13,
// format 00:A4:A2:A1:00:B4:B2:B1:00:C4:C2:C1:00:D4:D2:D1) into Mode C hundreds
// of feet. Returns -9999 for illegal codes.
func modeAToModeC(modeA uint16) int {
	var fiveHundreds, oneHundreds int

	if modeA&0x888B != 0 || (modeA&0x000000F0) == 0 {
		return -9999
	}

	if modeA&0x0010 != 0 {
		oneHundreds ^= 0x007 // C1
	}
	if modeA&0x0020 != 0 {
		oneHundreds ^= 0x003 // C2
	}
	if modeA&0x0040 != 0 {
		oneHundreds ^= 0x001 // C4
	}

	// Correct the 5/7 ambiguity inherent in the Gillham encoding.
	if oneHundreds&5 == 5 {
		oneHundreds ^= 2
	}

	if oneHundreds > 5 {
		return -9999
	}

	if modeA&0x0002 != 0 {
		fiveHundreds ^= 0x0FF // D2
	}
	if modeA&0x0004 != 0 {
		fiveHundreds ^= 0x07F // D4
	}
	if modeA&0x1000 != 0 {
		fiveHundreds ^= 0x03F // A1
	}
	if modeA&0x2000 != 0 {
		fiveHundreds ^= 0x01F // A2
	}
	if modeA&0x4000 != 0 {
		fiveHundreds ^= 0x00F // A4
	}
	if modeA&0x0100 != 0 {
		fiveHundreds ^= 0x007 // B1
	}
	if modeA&0x0200 != 0 {
		fiveHundreds ^= 0x003 // B2
	}
	if modeA&0x0400 != 0 {
		fiveHundreds ^= 0x001 // B4
	}

	if fiveHundreds&1 != 0 {
		oneHundreds = 6 - oneHundreds
	}

	return fiveHundreds*5 + oneHundreds - 13
}

// DecodeAC13 decodes a 13-bit AC altitude field (DF 0/4/16/20) to feet.
// The M bit selects metric encoding, which is explicitly unimplemented and
// reported as 0. The Q bit selects 25-ft linear encoding versus Gillham
// Mode C.
func DecodeAC13(field uint16) int {
	mBit := field & 0x0040
	qBit := field & 0x0010

	if mBit != 0 {
		return 0 // metric altitude: unimplemented by design
	}

	if qBit != 0 {
		n := ((field & 0x1F80) >> 2) | ((field & 0x0020) >> 1) | (field & 0x000F)
		return int(n)*25 - 1000
	}

	n := modeAToModeC(parseID13(field))
	if n < -12 {
		return 0
	}
	return 100 * n
}

// DecodeAC12 decodes a 12-bit AC altitude field (DF17/18 airborne position).
func DecodeAC12(field uint16) int {
	qBit := field & 0x10

	if qBit != 0 {
		n := ((field & 0x0FE0) >> 1) | (field & 0x000F)
		return int(n)*25 - 1000
	}

	// Insert M=0 at bit 6 to form a 13-bit Gillham field and reuse the AC13 path.
	n13 := ((field & 0x0FC0) << 1) | (field & 0x003F)
	n := modeAToModeC(parseID13(n13))
	if n < -12 {
		return 0
	}
	return 100 * n
}

// DecodeIdentity rearranges a 13-bit identity field into a 4-digit octal
// squawk code.
func DecodeIdentity(field uint16) int {
	g := parseID13(field)

	digitA := int((g >> SquawkDigitAShift) & SquawkNibbleMask)
	digitB := int((g >> SquawkDigitBShift) & SquawkNibbleMask)
	digitC := int((g >> SquawkDigitCShift) & SquawkNibbleMask)
	digitD := int((g >> SquawkDigitDShift) & SquawkNibbleMask)

	return digitA*SquawkAMultiplier + digitB*SquawkBMultiplier + digitC*SquawkCMultiplier + digitD*SquawkDMultiplier
}
