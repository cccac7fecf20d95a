package qoi_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/oceanqoi/qoi"
)

func TestImageEncodeDecodeRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	colors := []color.NRGBA{
		{R: 10, G: 20, B: 30, A: 255},
		{R: 10, G: 20, B: 30, A: 255},
		{R: 40, G: 50, B: 60, A: 255},
		{R: 0, G: 0, B: 0, A: 0},
		{R: 255, G: 255, B: 255, A: 128},
		{R: 40, G: 50, B: 60, A: 255},
	}
	i := 0
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetNRGBA(x, y, colors[i])
			i++
		}
	}

	var buf bytes.Buffer
	if err := qoi.Encode(&buf, src); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := qoi.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if !decoded.Bounds().Eq(src.Bounds()) {
		t.Fatalf("decoded bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}

	got, ok := decoded.(*image.NRGBA)
	if !ok {
		t.Fatalf("Decode() returned %T, want *image.NRGBA", decoded)
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Fatal("decoded pixels do not match the source image")
	}
}

func TestDecodeConfigReadsHeaderOnly(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 5, 7))
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, src); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	cfg, err := qoi.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 5 || cfg.Height != 7 {
		t.Fatalf("DecodeConfig() = %dx%d, want 5x7", cfg.Width, cfg.Height)
	}
}

func TestImageFormatRegistered(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, src); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, format, err := image.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("image.Decode() error = %v", err)
	}
	if format != "qoi" {
		t.Fatalf("image.Decode() format = %q, want %q", format, "qoi")
	}
	if !decoded.Bounds().Eq(src.Bounds()) {
		t.Fatalf("decoded bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
}
