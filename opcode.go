package qoi

// Opcode tag bytes and bit masks, MSB-first, per the QOI specification.
//
// INDEX, DIFF and LUMA are disambiguated by their top 2 bits; RUN
// shares the same 2-bit prefix as RGB/RGBA but the two literal tags
// 0xFE/0xFF shadow what would otherwise be run lengths 62 and 63,
// which are reserved rather than encodable.
const (
	opINDEX uint8 = 0x00 // 00______
	opDIFF  uint8 = 0x40 // 01______
	opLUMA  uint8 = 0x80 // 10______
	opRUN   uint8 = 0xC0 // 11______ (0..61)
	opRGB   uint8 = 0xFE // 11111110
	opRGBA  uint8 = 0xFF // 11111111

	tagMask2 uint8 = 0xC0 // top 2 bits
)

// Biases and masks for the narrow signed fields packed into DIFF, LUMA
// and RUN opcodes. Every field is tested with the "add bias, mask" idiom
// in fits, and reconstructed on decode with the matching wrapping add.
const (
	diffBias uint8 = 2
	diffMask uint8 = 0x03 // 2 bits: [-2, 1]

	lumaGreenBias uint8 = 32
	lumaGreenMask uint8 = 0x3F // 6 bits: [-32, 31]
	lumaRBBias    uint8 = 8
	lumaRBMask    uint8 = 0x0F // 4 bits: [-8, 7]

	runBias    uint8 = 1  // RUN payload encodes (length-1)
	runMaxLen  uint8 = 62 // longest single RUN opcode
	runPayload uint8 = 0x3F
)
