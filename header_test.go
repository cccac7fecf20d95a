package qoi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeaderValidate(t *testing.T) {
	cases := []struct {
		name    string
		h       Header
		wantErr error
	}{
		{"valid rgb", Header{Width: 1, Height: 1, Channels: 3, Colorspace: 0}, nil},
		{"valid rgba", Header{Width: 640, Height: 480, Channels: 4, Colorspace: 1}, nil},
		{"zero width", Header{Width: 0, Height: 1, Channels: 3}, ErrEmptyImage},
		{"zero height", Header{Width: 1, Height: 0, Channels: 3}, ErrEmptyImage},
		{"too large", Header{Width: 30000, Height: 30000, Channels: 3}, ErrImageTooLarge},
		{"bad channels", Header{Width: 1, Height: 1, Channels: 5}, ErrInvalidChannels},
		{"bad colorspace", Header{Width: 1, Height: 1, Channels: 3, Colorspace: 2}, ErrInvalidColorSpace},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.h.Validate()
			if c.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("Validate() = %v, want wrapping %v", err, c.wantErr)
			}
		})
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{Width: 123, Height: 456, Channels: 4, Colorspace: 1}
	buf := h.encodeInto(make([]byte, 0, headerSize))
	if len(buf) != headerSize {
		t.Fatalf("encodeInto produced %d bytes, want %d", len(buf), headerSize)
	}
	got, err := decodeHeader(buf)
	if err != nil {
		t.Fatalf("decodeHeader() error = %v", err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHeaderInvalidMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	copy(buf, "xxxx")
	_, err := decodeHeader(buf)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("decodeHeader() = %v, want wrapping ErrInvalidMagic", err)
	}
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := decodeHeader(make([]byte, 5))
	if !errors.Is(err, ErrInputBufferTooSmall) {
		t.Fatalf("decodeHeader() = %v, want wrapping ErrInputBufferTooSmall", err)
	}
}
