package qoi

import (
	"io"

	"github.com/pkg/errors"
)

// DecodeOptions controls how the decoder facade lays out its output
// buffer. The zero value decodes every pixel at the header's own
// channel count into LayoutRGB/LayoutRGBA, tightly packed.
type DecodeOptions struct {
	// Channels is the requested output channel count (3 or 4). Zero
	// means use the header's own channel count.
	Channels uint8

	// Layout describes the byte order to write decoded pixels in.
	// LayoutAuto (the zero value) selects LayoutRGB or LayoutRGBA from
	// the effective channel count.
	Layout SourceLayout

	// Stride is the byte distance between the start of consecutive
	// destination rows. Zero means tightly packed.
	Stride int
}

func resolveDecodeLayout(header Header, opts DecodeOptions) (SourceLayout, uint8, error) {
	layout := opts.Layout
	channels := opts.Channels

	if channels == 0 {
		channels = header.Channels
	} else if channels != 3 && channels != 4 {
		return 0, 0, errors.Wrapf(ErrUnsupportedChannels, "channels=%d", channels)
	}

	if layout == LayoutAuto {
		if channels == 3 {
			layout = LayoutRGB
		} else {
			layout = LayoutRGBA
		}
	} else if !layout.valid() {
		return 0, 0, errors.Wrapf(ErrUnsupportedLayout, "layout=%d", layout)
	} else if layout.Channels() != channels {
		return 0, 0, errors.Wrapf(ErrInvalidChannels, "channels=%d layout channels=%d", channels, layout.Channels())
	}

	return layout, channels, nil
}

// DecodeHeader reads and validates the 14-byte header at the start of
// buf without decoding any pixel data.
func DecodeHeader(buf []byte) (Header, error) {
	return decodeHeader(buf)
}

// DecodeToBuf decodes the QOI stream in src into a caller-provided
// destination buffer and returns the header it decoded. dst must have
// room for height rows of width*layout.BytesPerPixel() bytes (plus any
// requested stride padding).
func DecodeToBuf(dst []byte, src []byte, opts DecodeOptions) (Header, error) {
	header, err := decodeHeader(src)
	if err != nil {
		return Header{}, err
	}

	layout, _, err := resolveDecodeLayout(header, opts)
	if err != nil {
		return Header{}, err
	}

	bpp := layout.BytesPerPixel()
	rowBytes := int(header.Width) * bpp
	stride := opts.Stride
	if stride == 0 {
		stride = rowBytes
	}
	if stride < rowBytes {
		return Header{}, errors.Wrapf(ErrInvalidImageStride, "stride=%d row=%d", stride, rowBytes)
	}
	required := stride*(int(header.Height)-1) + rowBytes
	if len(dst) < required {
		return Header{}, errors.Wrapf(ErrOutputBufferTooSmall, "size=%d required=%d", len(dst), required)
	}

	sink := stridedPixelSink{data: dst, layout: layout, width: int(header.Width), height: int(header.Height), stride: stride}
	body := src[headerSize:]
	consumed, err := decodeCore(body, int(header.Width)*int(header.Height), sink)
	if err != nil {
		return Header{}, err
	}
	if consumed+endMarkerLen > len(body) {
		return Header{}, errors.Wrapf(ErrUnexpectedEnd, "missing end marker: consumed=%d have=%d", consumed, len(body))
	}
	var trailer [endMarkerLen]byte
	copy(trailer[:], body[consumed:consumed+endMarkerLen])
	if trailer != endMarker {
		return Header{}, ErrInvalidPadding
	}
	return header, nil
}

// DecodeToBytes decodes src into a freshly allocated, tightly packed
// buffer using opts' channels and layout, returning the header
// alongside it. opts.Stride is ignored.
func DecodeToBytes(src []byte, opts DecodeOptions) (Header, []byte, error) {
	header, err := decodeHeader(src)
	if err != nil {
		return Header{}, nil, err
	}
	layout, _, err := resolveDecodeLayout(header, opts)
	if err != nil {
		return Header{}, nil, err
	}
	dst := make([]byte, int(header.Width)*int(header.Height)*layout.BytesPerPixel())
	opts.Stride = 0
	h, err := DecodeToBuf(dst, src, opts)
	if err != nil {
		return Header{}, nil, err
	}
	return h, dst, nil
}

// DecodeFromStream decodes a QOI stream read incrementally from r,
// returning the header and a tightly packed pixel buffer. Unlike the
// slice-based entry points it does not require the whole stream to be
// buffered up front.
func DecodeFromStream(r io.Reader, opts DecodeOptions) (Header, []byte, error) {
	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return Header{}, nil, errors.Wrap(err, "qoi: reading header")
	}
	header, err := decodeHeader(headerBuf)
	if err != nil {
		return Header{}, nil, err
	}
	layout, _, err := resolveDecodeLayout(header, opts)
	if err != nil {
		return Header{}, nil, err
	}

	n := int(header.Width) * int(header.Height)
	dst := make([]byte, n*layout.BytesPerPixel())
	sink := stridedPixelSink{data: dst, layout: layout, width: int(header.Width), height: int(header.Height), stride: int(header.Width) * layout.BytesPerPixel()}

	sr := newStreamReader(r)
	if err := decodeCoreStream(sr, n, sink); err != nil {
		return Header{}, nil, err
	}
	var trailer [endMarkerLen]byte
	if err := sr.readFull(trailer[:]); err != nil {
		return Header{}, nil, errors.Wrap(err, "qoi: reading end marker")
	}
	if trailer != endMarker {
		return Header{}, nil, ErrInvalidPadding
	}

	return header, dst, nil
}

// pixelSink is the write-side counterpart to pixelSource: the decoder
// core writes exactly one canonical pixel at a time, in stream order,
// and never reads back what it wrote.
type pixelSink interface {
	Set(i int, p pixel)
}

// stridedPixelSink adapts a caller's raw destination buffer, writing
// each decoded pixel at its row/col offset under layout.
type stridedPixelSink struct {
	data   []byte
	layout SourceLayout
	width  int
	height int
	stride int
}

func (s stridedPixelSink) Set(i int, p pixel) {
	row := i / s.width
	col := i % s.width
	bpp := s.layout.BytesPerPixel()
	off := row*s.stride + col*bpp
	s.layout.writePixel(s.data[off:off+bpp], p)
}

// decodeCore is the state machine inverse of encodeCore: it consumes
// opcodes from buf (the stream body, header already stripped) until it
// has produced exactly count pixels, maintaining the same index table
// and previous-pixel register the encoder does. It does not seed the
// index table from the start pixel under any circumstance, matching
// this package's encoder, which emits an INDEX opcode only for a slot
// that already holds the pixel in its own table (written via idx.put,
// or still zero-initialized for the pixel (0,0,0,0)).
func decodeCore(buf []byte, count int, dst pixelSink) (int, error) {
	var idx indexTable
	prev := startPixel

	pos := 0
	produced := 0

	for produced < count {
		if pos >= len(buf) {
			return pos, errors.Wrapf(ErrUnexpectedEnd, "produced=%d count=%d", produced, count)
		}
		tag := buf[pos]

		switch {
		case tag == opRGB:
			if pos+4 > len(buf) {
				return pos, errors.Wrapf(ErrUnexpectedEnd, "op=rgb pos=%d", pos)
			}
			p := pixel{R: buf[pos+1], G: buf[pos+2], B: buf[pos+3], A: prev.A}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			pos += 4
			produced++

		case tag == opRGBA:
			if pos+5 > len(buf) {
				return pos, errors.Wrapf(ErrUnexpectedEnd, "op=rgba pos=%d", pos)
			}
			p := pixel{R: buf[pos+1], G: buf[pos+2], B: buf[pos+3], A: buf[pos+4]}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			pos += 5
			produced++

		case tag&tagMask2 == opINDEX:
			p := idx.get(tag)
			dst.Set(produced, p)
			prev = p
			pos++
			produced++

		case tag&tagMask2 == opDIFF:
			dr := (tag >> 4) & 0x03
			dg := (tag >> 2) & 0x03
			db := tag & 0x03
			p := pixel{
				R: wrapAdd(prev.R, wrapSub(dr, diffBias)),
				G: wrapAdd(prev.G, wrapSub(dg, diffBias)),
				B: wrapAdd(prev.B, wrapSub(db, diffBias)),
				A: prev.A,
			}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			pos++
			produced++

		case tag&tagMask2 == opLUMA:
			if pos+2 > len(buf) {
				return pos, errors.Wrapf(ErrUnexpectedEnd, "op=luma pos=%d", pos)
			}
			dg := wrapSub(tag&lumaGreenMask, lumaGreenBias)
			rb := buf[pos+1]
			drg := wrapSub((rb>>4)&0x0F, lumaRBBias)
			dbg := wrapSub(rb&0x0F, lumaRBBias)
			g := wrapAdd(prev.G, dg)
			p := pixel{
				R: wrapAdd(wrapAdd(prev.R, dg), drg),
				G: g,
				B: wrapAdd(wrapAdd(prev.B, dg), dbg),
				A: prev.A,
			}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			pos += 2
			produced++

		case tag&tagMask2 == opRUN:
			runLen := int(tag&runPayload) + int(runBias)
			for j := 0; j < runLen; j++ {
				if produced >= count {
					return pos, errors.Wrapf(ErrUnexpectedEnd, "run overruns count=%d", count)
				}
				dst.Set(produced, prev)
				produced++
			}
			pos++

		default:
			return pos, errors.Wrapf(ErrUnexpectedEnd, "unrecognized tag=0x%02x", tag)
		}
	}

	return pos, nil
}

// streamReader pulls single opcode bytes out of an io.Reader, reading
// payload bytes into a small scratch buffer and never reading ahead,
// letting decodeCoreStream mirror decodeCore's
// logic without first materializing the whole body.
type streamReader struct {
	r   io.Reader
	buf [5]byte
}

func newStreamReader(r io.Reader) *streamReader { return &streamReader{r: r} }

func (s *streamReader) readByte() (byte, error) {
	if err := s.readFull(s.buf[:1]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

func (s *streamReader) readN(n int) ([]byte, error) {
	if err := s.readFull(s.buf[:n]); err != nil {
		return nil, err
	}
	return s.buf[:n], nil
}

func (s *streamReader) readFull(p []byte) error {
	_, err := io.ReadFull(s.r, p)
	return err
}

// decodeCoreStream is decodeCore's streaming twin: logically identical
// opcode handling, but bytes are pulled on demand through sr instead of
// indexed out of a fully-buffered slice.
func decodeCoreStream(sr *streamReader, count int, dst pixelSink) error {
	var idx indexTable
	prev := startPixel
	produced := 0

	for produced < count {
		tag, err := sr.readByte()
		if err != nil {
			return errors.Wrapf(err, "qoi: reading opcode tag at pixel %d", produced)
		}

		switch {
		case tag == opRGB:
			rest, err := sr.readN(3)
			if err != nil {
				return errors.Wrap(err, "qoi: reading rgb payload")
			}
			p := pixel{R: rest[0], G: rest[1], B: rest[2], A: prev.A}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			produced++

		case tag == opRGBA:
			rest, err := sr.readN(4)
			if err != nil {
				return errors.Wrap(err, "qoi: reading rgba payload")
			}
			p := pixel{R: rest[0], G: rest[1], B: rest[2], A: rest[3]}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			produced++

		case tag&tagMask2 == opINDEX:
			p := idx.get(tag)
			dst.Set(produced, p)
			prev = p
			produced++

		case tag&tagMask2 == opDIFF:
			dr := (tag >> 4) & 0x03
			dg := (tag >> 2) & 0x03
			db := tag & 0x03
			p := pixel{
				R: wrapAdd(prev.R, wrapSub(dr, diffBias)),
				G: wrapAdd(prev.G, wrapSub(dg, diffBias)),
				B: wrapAdd(prev.B, wrapSub(db, diffBias)),
				A: prev.A,
			}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			produced++

		case tag&tagMask2 == opLUMA:
			rest, err := sr.readN(1)
			if err != nil {
				return errors.Wrap(err, "qoi: reading luma payload")
			}
			dg := wrapSub(tag&lumaGreenMask, lumaGreenBias)
			drg := wrapSub((rest[0]>>4)&0x0F, lumaRBBias)
			dbg := wrapSub(rest[0]&0x0F, lumaRBBias)
			g := wrapAdd(prev.G, dg)
			p := pixel{
				R: wrapAdd(wrapAdd(prev.R, dg), drg),
				G: g,
				B: wrapAdd(wrapAdd(prev.B, dg), dbg),
				A: prev.A,
			}
			idx.put(p)
			dst.Set(produced, p)
			prev = p
			produced++

		case tag&tagMask2 == opRUN:
			runLen := int(tag&runPayload) + int(runBias)
			for j := 0; j < runLen; j++ {
				if produced >= count {
					return errors.Wrapf(ErrUnexpectedEnd, "run overruns count=%d", count)
				}
				dst.Set(produced, prev)
				produced++
			}

		default:
			return errors.Wrapf(ErrUnexpectedEnd, "unrecognized tag=0x%02x", tag)
		}
	}

	return nil
}
