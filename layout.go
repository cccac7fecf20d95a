package qoi

// SourceLayout identifies the byte order (and padding) of a caller's
// raw pixel buffer, as accepted by the encoder facade's stride-aware
// entry points. Each layout reads exactly BytesPerPixel() bytes per
// source pixel and reorders them into canonical RGB or RGBA.
//
// The zero value, LayoutAuto, is not a real layout: it tells the
// encoder facade to pick LayoutRGB or LayoutRGBA based on the
// effective channel count, the way EncodeOptions{} with no Layout set
// behaves.
type SourceLayout int

const (
	// LayoutAuto picks LayoutRGB or LayoutRGBA from the effective
	// channel count. It is the zero value so an unset EncodeOptions
	// field behaves this way automatically.
	LayoutAuto SourceLayout = iota
	// LayoutRGB is 3 bytes/pixel, stored as a 3-channel image.
	LayoutRGB
	// LayoutBGR is 3 bytes/pixel, stored as a 3-channel image.
	LayoutBGR
	// LayoutRGBA is 4 bytes/pixel, stored as a 4-channel image.
	LayoutRGBA
	// LayoutARGB is 4 bytes/pixel, stored as a 4-channel image.
	LayoutARGB
	// LayoutBGRA is 4 bytes/pixel, stored as a 4-channel image.
	LayoutBGRA
	// LayoutABGR is 4 bytes/pixel, stored as a 4-channel image.
	LayoutABGR
	// LayoutRGBX is 4 bytes/pixel, stored as a 3-channel image; the X
	// byte is discarded.
	LayoutRGBX
	// LayoutXRGB is 4 bytes/pixel, stored as a 3-channel image; the X
	// byte is discarded.
	LayoutXRGB
	// LayoutBGRX is 4 bytes/pixel, stored as a 3-channel image; the X
	// byte is discarded.
	LayoutBGRX
	// LayoutXBGR is 4 bytes/pixel, stored as a 3-channel image; the X
	// byte is discarded.
	LayoutXBGR
)

// BytesPerPixel returns the number of source bytes one pixel occupies
// under this layout. LayoutAuto is not a concrete layout and panics.
func (l SourceLayout) BytesPerPixel() int {
	switch l {
	case LayoutRGB, LayoutBGR:
		return 3
	case LayoutRGBA, LayoutARGB, LayoutBGRA, LayoutABGR,
		LayoutRGBX, LayoutXRGB, LayoutBGRX, LayoutXBGR:
		return 4
	default:
		panic("qoi: BytesPerPixel called on a non-concrete SourceLayout")
	}
}

// Channels returns the QOI channel count (3 or 4) a buffer in this
// layout is stored as, once the optional X byte is discarded.
func (l SourceLayout) Channels() uint8 {
	switch l {
	case LayoutRGB, LayoutBGR, LayoutRGBX, LayoutXRGB, LayoutBGRX, LayoutXBGR:
		return 3
	case LayoutRGBA, LayoutARGB, LayoutBGRA, LayoutABGR:
		return 4
	default:
		panic("qoi: Channels called on a non-concrete SourceLayout")
	}
}

func (l SourceLayout) valid() bool {
	return l >= LayoutRGB && l <= LayoutXBGR
}

// readPixel reads one source pixel starting at src[0] (which must have
// at least l.BytesPerPixel() bytes) and returns it in canonical RGBA
// form. Alpha is synthesized as 0xFF for 3-channel and X-padded
// layouts.
func (l SourceLayout) readPixel(src []byte) pixel {
	switch l {
	case LayoutRGB:
		return pixel{R: src[0], G: src[1], B: src[2], A: 0xFF}
	case LayoutBGR:
		return pixel{R: src[2], G: src[1], B: src[0], A: 0xFF}
	case LayoutRGBA:
		return pixel{R: src[0], G: src[1], B: src[2], A: src[3]}
	case LayoutARGB:
		return pixel{R: src[1], G: src[2], B: src[3], A: src[0]}
	case LayoutBGRA:
		return pixel{R: src[2], G: src[1], B: src[0], A: src[3]}
	case LayoutABGR:
		return pixel{R: src[3], G: src[2], B: src[1], A: src[0]}
	case LayoutRGBX:
		return pixel{R: src[0], G: src[1], B: src[2], A: 0xFF}
	case LayoutXRGB:
		return pixel{R: src[1], G: src[2], B: src[3], A: 0xFF}
	case LayoutBGRX:
		return pixel{R: src[2], G: src[1], B: src[0], A: 0xFF}
	case LayoutXBGR:
		return pixel{R: src[3], G: src[2], B: src[1], A: 0xFF}
	default:
		panic("qoi: readPixel called on a non-concrete SourceLayout")
	}
}

// writePixel writes p into dst (which must have at least
// l.BytesPerPixel() bytes) in this layout's byte order. Any X byte is
// written as zero.
func (l SourceLayout) writePixel(dst []byte, p pixel) {
	switch l {
	case LayoutRGB:
		dst[0], dst[1], dst[2] = p.R, p.G, p.B
	case LayoutBGR:
		dst[0], dst[1], dst[2] = p.B, p.G, p.R
	case LayoutRGBA:
		dst[0], dst[1], dst[2], dst[3] = p.R, p.G, p.B, p.A
	case LayoutARGB:
		dst[0], dst[1], dst[2], dst[3] = p.A, p.R, p.G, p.B
	case LayoutBGRA:
		dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, p.A
	case LayoutABGR:
		dst[0], dst[1], dst[2], dst[3] = p.A, p.B, p.G, p.R
	case LayoutRGBX:
		dst[0], dst[1], dst[2], dst[3] = p.R, p.G, p.B, 0
	case LayoutXRGB:
		dst[0], dst[1], dst[2], dst[3] = 0, p.R, p.G, p.B
	case LayoutBGRX:
		dst[0], dst[1], dst[2], dst[3] = p.B, p.G, p.R, 0
	case LayoutXBGR:
		dst[0], dst[1], dst[2], dst[3] = 0, p.B, p.G, p.R
	default:
		panic("qoi: writePixel called on a non-concrete SourceLayout")
	}
}
