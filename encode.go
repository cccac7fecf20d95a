package qoi

import (
	"io"

	"github.com/pkg/errors"
)

// Mode selects between two legal, round-trippable encodings of the
// same pixel stream. ModeReference reproduces the upstream QOI
// reference C encoder byte-for-byte. ModeDefault additionally applies
// the RUN(1)->INDEX rewrite: when a
// pending run flushes at length 1 and the index slot for the repeated
// pixel already holds that pixel, an INDEX opcode is emitted instead
// of a RUN opcode. Both opcodes are one byte and decode to the same
// pixel, so both modes always round-trip; only ModeReference is
// guaranteed byte-identical to the reference implementation.
type Mode int

const (
	ModeDefault Mode = iota
	ModeReference
)

// EncodeOptions controls how the encoder facade interprets a caller's
// raw pixel buffer and serializes the result. The zero value is a
// usable default: channels and layout are inferred, colorspace is 0,
// and Mode is ModeDefault.
type EncodeOptions struct {
	// Channels is the QOI channel count to encode (3 or 4). Zero means
	// infer from Layout if set, else from len(pixels)/(width*height).
	Channels uint8

	// Colorspace is the informational colorspace byte (0 or 1).
	Colorspace uint8

	// Layout describes the byte order of the caller's pixel buffer.
	// LayoutAuto (the zero value) selects LayoutRGB or LayoutRGBA from
	// the effective channel count.
	Layout SourceLayout

	// Stride is the byte distance between the start of consecutive
	// source rows. Zero means tightly packed: width*BytesPerPixel().
	Stride int

	// Mode selects the RUN(1)->INDEX optimization; see Mode.
	Mode Mode
}

// EncodeMaxLen returns the largest number of bytes EncodeToBuf could
// ever write for an image of the given dimensions and channel count:
// the worst case of one literal RGB(A) opcode per pixel, plus the
// header and end-marker. Callers using the bounded-buffer API must
// size their buffer to at least this before calling EncodeToBuf.
func EncodeMaxLen(width, height uint32, channels uint8) int {
	return headerSize + int(width)*int(height)*(int(channels)+1) + endMarkerLen
}

// resolvedEncode holds the fully-inferred parameters for one encode
// call, after defaults and inference have been applied to
// EncodeOptions and validated against the pixel buffer.
type resolvedEncode struct {
	header Header
	src    stridedPixelSource
	mode   Mode
}

func resolveEncode(pixels []byte, width, height uint32, opts EncodeOptions) (resolvedEncode, error) {
	if width == 0 || height == 0 {
		return resolvedEncode{}, errors.Wrapf(ErrEmptyImage, "width=%d height=%d", width, height)
	}
	if uint64(width)*uint64(height) > maxPixels {
		return resolvedEncode{}, errors.Wrapf(ErrImageTooLarge, "width=%d height=%d", width, height)
	}

	layout := opts.Layout
	channels := opts.Channels

	if layout == LayoutAuto {
		switch channels {
		case 0:
			// Neither layout nor channels given: infer channels from
			// buffer size against a tightly-packed canonical layout.
			area := int(width) * int(height)
			switch {
			case opts.Stride == 0 && len(pixels) == area*3:
				channels, layout = 3, LayoutRGB
			case opts.Stride == 0 && len(pixels) == area*4:
				channels, layout = 4, LayoutRGBA
			default:
				return resolvedEncode{}, errors.Wrapf(ErrInvalidImageLength, "size=%d width=%d height=%d", len(pixels), width, height)
			}
		case 3:
			layout = LayoutRGB
		case 4:
			layout = LayoutRGBA
		default:
			return resolvedEncode{}, errors.Wrapf(ErrInvalidChannels, "channels=%d", channels)
		}
	} else {
		if !layout.valid() {
			return resolvedEncode{}, errors.Wrapf(ErrUnsupportedLayout, "layout=%d", layout)
		}
		layoutChannels := layout.Channels()
		if channels == 0 {
			channels = layoutChannels
		} else if channels != layoutChannels {
			return resolvedEncode{}, errors.Wrapf(ErrInvalidChannels, "channels=%d layout channels=%d", channels, layoutChannels)
		}
	}

	bpp := layout.BytesPerPixel()
	stride := opts.Stride
	rowBytes := int(width) * bpp
	if stride == 0 {
		stride = rowBytes
	}
	if stride < rowBytes {
		return resolvedEncode{}, errors.Wrapf(ErrInvalidImageStride, "stride=%d row=%d", stride, rowBytes)
	}
	required := stride*(int(height)-1) + rowBytes
	if len(pixels) < required {
		return resolvedEncode{}, errors.Wrapf(ErrInvalidImageStride, "size=%d required=%d stride=%d", len(pixels), required, stride)
	}

	header := Header{Width: width, Height: height, Channels: channels, Colorspace: opts.Colorspace}
	if err := header.Validate(); err != nil {
		return resolvedEncode{}, err
	}

	return resolvedEncode{
		header: header,
		src: stridedPixelSource{
			data:   pixels,
			layout: layout,
			width:  int(width),
			height: int(height),
			stride: stride,
		},
		mode: opts.Mode,
	}, nil
}

// EncodeToBytes encodes pixels into a freshly allocated QOI byte
// stream, inferring channels and layout from opts and the buffer size
// the way the library surface's encode_to_vec does.
func EncodeToBytes(pixels []byte, width, height uint32, opts EncodeOptions) ([]byte, error) {
	r, err := resolveEncode(pixels, width, height, opts)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, EncodeMaxLen(width, height, r.header.Channels))
	buf = r.header.encodeInto(buf)
	w := newBufWriter(buf[:cap(buf)])
	w.n = len(buf)
	if err := encodeCore(r.src, r.mode, w); err != nil {
		return nil, err
	}
	if err := w.write(endMarker[:]); err != nil {
		return nil, err
	}
	return w.buf[:w.n], nil
}

// EncodeToBuf encodes pixels into a caller-provided buffer and returns
// the number of bytes written. out must have at least
// EncodeMaxLen(width, height, channels) bytes; callers that don't know
// channels in advance should call EncodeMaxLen with the worst case of 4.
func EncodeToBuf(out []byte, pixels []byte, width, height uint32, opts EncodeOptions) (int, error) {
	r, err := resolveEncode(pixels, width, height, opts)
	if err != nil {
		return 0, err
	}
	w := newBufWriter(out)
	headerBuf := r.header.encodeInto(make([]byte, 0, headerSize))
	if err := w.write(headerBuf); err != nil {
		return 0, err
	}
	if err := encodeCore(r.src, r.mode, w); err != nil {
		return 0, err
	}
	if err := w.write(endMarker[:]); err != nil {
		return 0, err
	}
	return w.capacity(), nil
}

// EncodeToStream encodes pixels directly to dst, the streaming Writer
// variant, returning the number of bytes written before any error. I/O
// errors from dst propagate to the caller without being swallowed.
func EncodeToStream(dst io.Writer, pixels []byte, width, height uint32, opts EncodeOptions) (int, error) {
	r, err := resolveEncode(pixels, width, height, opts)
	if err != nil {
		return 0, err
	}
	sw := newStreamWriter(dst)
	headerBuf := r.header.encodeInto(make([]byte, 0, headerSize))
	if err := sw.write(headerBuf); err != nil {
		return sw.bytesWritten(), err
	}
	if err := encodeCore(r.src, r.mode, sw); err != nil {
		return sw.bytesWritten(), err
	}
	if err := sw.write(endMarker[:]); err != nil {
		return sw.bytesWritten(), err
	}
	return sw.bytesWritten(), nil
}

// encodeCore is the state machine at the heart of the codec: it walks
// src once, maintaining the index table, previous-pixel register and
// run counter, and writes exactly the opcodes the QOI spec's
// opcode-selection priority dictates. It never reads src[i] more than
// once; its only allocation is one small scratch array per call, reused
// for every multi-byte opcode.
func encodeCore(src pixelSource, mode Mode, w writer) error {
	var idx indexTable
	prev := startPixel
	var run uint8
	var scratch [5]byte

	n := src.Len()

	flushRun := func() error {
		if run == 0 {
			return nil
		}
		if mode == ModeDefault && run == 1 && idx.get(prev.hash()) == prev {
			if err := w.writeByte(opINDEX | prev.hash()); err != nil {
				return err
			}
		} else {
			if err := w.writeByte(opRUN | (run - runBias)); err != nil {
				return err
			}
		}
		run = 0
		return nil
	}

	for i := 0; i < n; i++ {
		cur := src.At(i)

		if cur == prev {
			run++
			if run == runMaxLen || i == n-1 {
				if err := flushRun(); err != nil {
					return err
				}
			}
			continue
		}

		if err := flushRun(); err != nil {
			return err
		}

		h := cur.hash()
		if idx.get(h) == cur {
			if err := w.writeByte(opINDEX | h); err != nil {
				return err
			}
			prev = cur
			continue
		}

		idx.put(cur)

		if cur.A == prev.A {
			dr := wrapSub(cur.R, prev.R)
			dg := wrapSub(cur.G, prev.G)
			db := wrapSub(cur.B, prev.B)

			if fits(dr, diffBias, diffMask) && fits(dg, diffBias, diffMask) && fits(db, diffBias, diffMask) {
				b := opDIFF | wrapAdd(dr, diffBias)<<4 | wrapAdd(dg, diffBias)<<2 | wrapAdd(db, diffBias)
				if err := w.writeByte(b); err != nil {
					return err
				}
			} else {
				vrg := wrapSub(dr, dg)
				vbg := wrapSub(db, dg)
				if fits(dg, lumaGreenBias, lumaGreenMask) && fits(vrg, lumaRBBias, lumaRBMask) && fits(vbg, lumaRBBias, lumaRBMask) {
					b1 := opLUMA | wrapAdd(dg, lumaGreenBias)
					b2 := wrapAdd(vrg, lumaRBBias)<<4 | wrapAdd(vbg, lumaRBBias)
					scratch[0], scratch[1] = b1, b2
					if err := w.write(scratch[:2]); err != nil {
						return err
					}
				} else {
					scratch[0], scratch[1], scratch[2], scratch[3] = opRGB, cur.R, cur.G, cur.B
					if err := w.write(scratch[:4]); err != nil {
						return err
					}
				}
			}
		} else {
			scratch[0], scratch[1], scratch[2], scratch[3], scratch[4] = opRGBA, cur.R, cur.G, cur.B, cur.A
			if err := w.write(scratch[:5]); err != nil {
				return err
			}
		}

		prev = cur
	}

	return nil
}
