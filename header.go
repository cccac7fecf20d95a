package qoi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	headerSize   = 14
	magic        = "qoif"
	endMarkerLen = 8
)

// endMarker is the fixed 8-byte trailer that closes every QOI stream.
var endMarker = [endMarkerLen]byte{0, 0, 0, 0, 0, 0, 0, 1}

// maxPixels is the largest image area (width*height) this codec will
// accept, per the QOI reference specification.
const maxPixels = 400_000_000

// Header is the 14-byte record at the start of every QOI stream.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8
	Colorspace uint8
}

// Validate checks h against the invariants in the QOI specification
// without touching any byte stream.
func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return errors.Wrapf(ErrEmptyImage, "width=%d height=%d", h.Width, h.Height)
	}
	area := uint64(h.Width) * uint64(h.Height)
	if area > maxPixels {
		return errors.Wrapf(ErrImageTooLarge, "width=%d height=%d area=%d max=%d", h.Width, h.Height, area, maxPixels)
	}
	if h.Channels != 3 && h.Channels != 4 {
		return errors.Wrapf(ErrInvalidChannels, "channels=%d", h.Channels)
	}
	if h.Colorspace != 0 && h.Colorspace != 1 {
		return errors.Wrapf(ErrInvalidColorSpace, "colorspace=%d", h.Colorspace)
	}
	return nil
}

// encodeInto appends the 14-byte wire form of h to buf and returns the
// result. h is assumed already validated.
func (h Header) encodeInto(buf []byte) []byte {
	buf = append(buf, magic...)
	buf = binary.BigEndian.AppendUint32(buf, h.Width)
	buf = binary.BigEndian.AppendUint32(buf, h.Height)
	buf = append(buf, h.Channels, h.Colorspace)
	return buf
}

// decodeHeader reads and validates the 14-byte header at the start of
// buf. It consumes no more than headerSize bytes regardless of len(buf).
func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, errors.Wrapf(ErrInputBufferTooSmall, "size=%d required=%d", len(buf), headerSize)
	}
	if string(buf[0:4]) != magic {
		return Header{}, errors.Wrapf(ErrInvalidMagic, "got=%q", buf[0:4])
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(buf[4:8]),
		Height:     binary.BigEndian.Uint32(buf[8:12]),
		Channels:   buf[12],
		Colorspace: buf[13],
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
