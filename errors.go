package qoi

import "errors"

// Sentinel errors for the taxonomy in the QOI codec specification.
// Each is returned wrapped (via github.com/pkg/errors) with context
// fields baked into the message; callers that need to branch on the
// kind of failure should compare with errors.Is against these values,
// and can recover the wrapped message with %+v for debugging.
var (
	// ErrInvalidMagic means a header's first four bytes are not "qoif".
	ErrInvalidMagic = errors.New("qoi: invalid magic bytes")

	// ErrInvalidChannels means a channels byte is outside {3,4}.
	ErrInvalidChannels = errors.New("qoi: invalid channels")

	// ErrInvalidColorSpace means a colorspace byte is outside {0,1}.
	ErrInvalidColorSpace = errors.New("qoi: invalid colorspace")

	// ErrEmptyImage means width or height is zero.
	ErrEmptyImage = errors.New("qoi: empty image")

	// ErrImageTooLarge means width*height exceeds maxPixels.
	ErrImageTooLarge = errors.New("qoi: image too large")

	// ErrInvalidImageLength means a caller-provided pixel buffer's size
	// doesn't match width*height*channels when stride is inferred.
	ErrInvalidImageLength = errors.New("qoi: invalid image length")

	// ErrInvalidImageStride means a stride is smaller than one row or
	// otherwise inconsistent with the provided buffer.
	ErrInvalidImageStride = errors.New("qoi: invalid image stride")

	// ErrInputBufferTooSmall means a decoder ran out of header bytes.
	ErrInputBufferTooSmall = errors.New("qoi: input buffer too small")

	// ErrOutputBufferTooSmall means a caller-provided output buffer
	// cannot hold the decoded or encoded result.
	ErrOutputBufferTooSmall = errors.New("qoi: output buffer too small")

	// ErrUnexpectedEnd means the decoder ran out of input before
	// producing width*height pixels or before consuming the end-marker.
	ErrUnexpectedEnd = errors.New("qoi: unexpected end of input")

	// ErrInvalidPadding means the trailing 8 bytes were not the
	// end-marker.
	ErrInvalidPadding = errors.New("qoi: invalid padding")

	// ErrUnsupportedLayout means a requested source/target pixel layout
	// is not one this codec recognizes.
	ErrUnsupportedLayout = errors.New("qoi: unsupported pixel layout")

	// ErrUnsupportedChannels means a caller requested a channel count
	// outside {3,4} for decoding.
	ErrUnsupportedChannels = errors.New("qoi: unsupported requested channels")
)
