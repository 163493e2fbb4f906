package adsb

// Mode S CRC-24 generator polynomial, 25-bit binary form:
// x^24+x^23+x^22+x^21+x^20+x^19+x^18+x^17+x^16+x^15+x^14+x^13+x^12+x^10+x^3+1
const crcGeneratorBits = "1111111111111010000001001"

// checksumTable is the literal 112-entry table-driven CRC contribution table.
// Entry i is the residue contributed by a single 1-bit at position i of a
// 112-bit message. The last 24 entries are all zero: those bit positions are
// the CRC's own trailing parity bits and never contribute to the residue.
// Preserved verbatim rather than "fixed" to match established Mode-S receivers.
var checksumTable = [112]uint32{
	0x3935ea, 0x1c9af5, 0xf1b77e, 0x78dbbf, 0xc397db, 0x9e31e9, 0xb0e2f0, 0x587178,
	0x2c38bc, 0x161c5e, 0x0b0e2f, 0xfa7d13, 0x82c48d, 0xbe9842, 0x5f4c21, 0xd05c14,
	0x682e0a, 0x341705, 0xe5f186, 0x72f8c3, 0xc68665, 0x9cb936, 0x4e5c9b, 0xd8d449,
	0x939020, 0x49c810, 0x24e408, 0x127204, 0x093902, 0x049c81, 0xfdb444, 0x7eda22,
	0x3f6d11, 0xe04c8c, 0x702646, 0x381323, 0xe3f395, 0x8e03ce, 0x4701e7, 0xdc7af7,
	0x91c77f, 0xb719bb, 0xa476d9, 0xadc168, 0x56e0b4, 0x2b705a, 0x15b82d, 0xf52612,
	0x7a9309, 0xc2b380, 0x6159c0, 0x30ace0, 0x185670, 0x0c2b38, 0x06159c, 0x030ace,
	0x018567, 0xff38b7, 0x80665f, 0xbfc92b, 0xa01e91, 0xaff54c, 0x57faa6, 0x2bfd53,
	0xea04ad, 0x8af852, 0x457c29, 0xdd4410, 0x6ea208, 0x375104, 0x1ba882, 0x0dd441,
	0xf91024, 0x7c8812, 0x3e4409, 0xe0d800, 0x706c00, 0x383600, 0x1c1b00, 0x0e0d80,
	0x0706c0, 0x038360, 0x01c1b0, 0x00e0d8, 0x00706c, 0x003836, 0x001c1b, 0xfff409,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
	0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000, 0x000000,
}

// bitAt returns bit i (0 = MSB) of a message packed MSB-first into data,
// which holds exactly nbits bits (56 or 112; both are whole byte counts).
func bitAt(data []byte, i int) uint64 {
	byteIdx := i / 8
	bitIdx := 7 - (i % 8)
	return uint64((data[byteIdx] >> uint(bitIdx)) & 1)
}

// trailingParity returns the message's own trailing 24-bit parity field.
func trailingParity(data []byte, nbits int) uint32 {
	n := len(data)
	return uint32(data[n-3])<<16 | uint32(data[n-2])<<8 | uint32(data[n-1])
}

// crcTableDriven implements the table-driven CRC from spec: for each 1-bit at
// position i of the message (excluding the trailing 24 parity bits), XOR
// checksumTable[i+offset] into an accumulator; offset is 56 for short (56-bit)
// messages and 0 for long (112-bit) messages. The final residue is the
// accumulator XORed with the trailing 24 parity bits.
func crcTableDriven(data []byte, nbits int) uint32 {
	offset := 0
	if nbits == ShortMsgBits {
		offset = 56
	}

	payloadBits := nbits - 24
	var acc uint32
	for i := 0; i < payloadBits; i++ {
		if bitAt(data, i) == 1 {
			acc ^= checksumTable[i+offset]
		}
	}

	return (acc ^ trailingParity(data, nbits)) & 0xFFFFFF
}

// crcSchoolbook implements the shift-XOR CRC directly against the generator
// polynomial bit string, over the message bits excluding the trailing 24
// parity bits, for cross-validation against the table-driven form.
func crcSchoolbook(data []byte, nbits int) uint32 {
	payloadBits := nbits - 24

	// Working register: payload bits followed by 24 zero bits, shifted
	// through the generator one bit at a time.
	reg := make([]byte, payloadBits+24)
	for i := 0; i < payloadBits; i++ {
		reg[i] = byte(bitAt(data, i))
	}

	gen := []byte(crcGeneratorBits)
	for i := 0; i < payloadBits; i++ {
		if reg[i] == 1 {
			for j := 0; j < len(gen); j++ {
				reg[i+j] ^= gen[j] - '0'
			}
		}
	}

	var residue uint32
	for i := 0; i < 24; i++ {
		residue = (residue << 1) | uint32(reg[payloadBits+i])
	}

	return (residue ^ trailingParity(data, nbits)) & 0xFFFFFF
}

// CRC24 computes the Mode S CRC residue for a message of nbits bits (56 or
// 112) packed MSB-first into data. The table-driven and schoolbook
// implementations agree bit-exactly; the table-driven form is used in the
// hot path.
func CRC24(data []byte, nbits int) uint32 {
	return crcTableDriven(data, nbits)
}

// CRC24Schoolbook is the shift-XOR reference implementation, exported for
// cross-validation in tests.
func CRC24Schoolbook(data []byte, nbits int) uint32 {
	return crcSchoolbook(data, nbits)
}

// CorrectSingleBit attempts to flip one bit, starting at bit index 5 through
// the last bit, that makes the CRC residue zero. It returns a corrected copy
// of data, the flipped bit index, and true on success. Two-bit correction is
// deliberately not attempted in the production path (the search space is
// prohibitive).
func CorrectSingleBit(data []byte, nbits int) (corrected []byte, bitIndex int, ok bool) {
	work := make([]byte, len(data))
	copy(work, data)

	for i := 5; i < nbits; i++ {
		byteIdx := i / 8
		mask := byte(1) << uint(7-(i%8))
		work[byteIdx] ^= mask
		if CRC24(work, nbits) == 0 {
			return work, i, true
		}
		work[byteIdx] ^= mask
	}
	return nil, -1, false
}
