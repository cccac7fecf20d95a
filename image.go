package qoi

import (
	"bufio"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

func init() {
	image.RegisterFormat("qoi", magic, Decode, DecodeConfig)
}

// Encode writes m to w as a QOI stream. The colorspace byte is always
// written as 0 (sRGB with linear alpha); callers that need to round-trip
// a colorspace tag should use EncodeToStream directly.
func Encode(w io.Writer, m image.Image) error {
	bounds := m.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return ErrEmptyImage
	}

	nrgba := toNRGBA(m)
	_, err := EncodeToStream(w, nrgba.Pix, uint32(width), uint32(height), EncodeOptions{
		Channels: 4,
		Layout:   LayoutRGBA,
		Stride:   nrgba.Stride,
	})
	return errors.Wrap(err, "qoi: encode")
}

// toNRGBA returns m itself if it is already *image.NRGBA with a
// zero-origin bounds rectangle, else copies it into one. QOI pixel data
// is always stored non-premultiplied, matching image.NRGBA.
func toNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	bounds := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x-bounds.Min.X, y-bounds.Min.Y, m.At(x, y))
		}
	}
	return dst
}

// Decode reads a QOI stream from r and returns it as an *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	header, pix, err := DecodeFromStream(br, DecodeOptions{Channels: 4, Layout: LayoutRGBA})
	if err != nil {
		return nil, errors.Wrap(err, "qoi: decode")
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: int(header.Width) * 4,
		Rect:   image.Rect(0, 0, int(header.Width), int(header.Height)),
	}, nil
}

// DecodeConfig reads just the 14-byte header from r and reports the
// image's dimensions and color model without decoding any pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return image.Config{}, errors.Wrap(err, "qoi: reading header")
	}
	header, err := decodeHeader(buf)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(header.Width),
		Height:     int(header.Height),
	}, nil
}
