package qoi

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestEncodeScenarios covers the concrete worked examples in the
// codec specification, verified byte-for-byte against the opcode
// state machine's own priority rules rather than taken on faith.
func TestEncodeScenarios(t *testing.T) {
	header := func(w, h uint32, ch, cs uint8) []byte {
		return Header{Width: w, Height: h, Channels: ch, Colorspace: cs}.encodeInto(nil)
	}
	trailer := func(payload ...byte) []byte {
		out := append([]byte{}, payload...)
		return append(out, endMarker[:]...)
	}

	cases := []struct {
		name     string
		width    int
		height   int
		pixels   []byte
		opts     EncodeOptions
		wantBody []byte
	}{
		{
			// S1: a single pixel identical to the previous-pixel
			// register's initial value is a run of length one, not a
			// DIFF: the state machine always tries RUN first.
			name:     "S1 single opaque black pixel",
			width:    1,
			height:   1,
			pixels:   []byte{0, 0, 0, 255},
			opts:     EncodeOptions{Channels: 4},
			wantBody: []byte{opRUN | 0},
		},
		{
			// S2: a run of two followed by a literal.
			name:     "S2 run then literal",
			width:    3,
			height:   1,
			pixels:   []byte{0, 0, 0, 255, 0, 0, 0, 255, 10, 20, 30, 255},
			opts:     EncodeOptions{Channels: 4},
			wantBody: []byte{opRUN | 1, opRGB, 10, 20, 30},
		},
		{
			// S3: the index table is only written to on the literal
			// (DIFF/LUMA/RGB/RGBA) branch, so a zero-initialized slot
			// 53 does not match (0,0,0,255) and the fourth pixel falls
			// through to RGB, not INDEX.
			name:     "S3 fourth pixel misses a cold index slot",
			width:    4,
			height:   1,
			pixels:   []byte{0, 0, 0, 255, 0, 0, 0, 255, 10, 20, 30, 255, 0, 0, 0, 255},
			opts:     EncodeOptions{Channels: 4},
			wantBody: []byte{opRUN | 1, opRGB, 10, 20, 30, opRGB, 0, 0, 0},
		},
		{
			// S4: wrap-around deltas. (0,0,0)->(254,254,254) is -2 per
			// channel (mod 256), which fits DIFF; (254,254,254)->(1,1,1)
			// is +3 per channel, which overflows DIFF but fits LUMA.
			name:   "S4 wrap boundary",
			width:  2,
			height: 1,
			pixels: []byte{254, 254, 254, 1, 1, 1},
			opts:   EncodeOptions{Channels: 3},
			wantBody: []byte{
				opDIFF | 0<<4 | 0<<2 | 0,
				opLUMA | wrapAdd(3, lumaGreenBias),
				wrapAdd(0, lumaRBBias)<<4 | wrapAdd(0, lumaRBBias),
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EncodeToBytes(c.pixels, uint32(c.width), uint32(c.height), c.opts)
			if err != nil {
				t.Fatalf("EncodeToBytes() error = %v", err)
			}
			ch := c.opts.Channels
			want := append(header(uint32(c.width), uint32(c.height), ch, 0), trailer(c.wantBody...)...)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("encoded bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeToBufMatchesEncodeToBytes(t *testing.T) {
	pixels := []byte{0, 0, 0, 255, 0, 0, 0, 255, 10, 20, 30, 255, 0, 0, 0, 255}
	opts := EncodeOptions{Channels: 4}

	want, err := EncodeToBytes(pixels, 4, 1, opts)
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}

	buf := make([]byte, EncodeMaxLen(4, 1, 4))
	n, err := EncodeToBuf(buf, pixels, 4, 1, opts)
	if err != nil {
		t.Fatalf("EncodeToBuf() error = %v", err)
	}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("EncodeToBuf() = % x, want % x", buf[:n], want)
	}
}

func TestEncodeToStreamMatchesEncodeToBytes(t *testing.T) {
	pixels := []byte{254, 254, 254, 1, 1, 1}
	opts := EncodeOptions{Channels: 3}

	want, err := EncodeToBytes(pixels, 2, 1, opts)
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}

	var buf bytes.Buffer
	n, err := EncodeToStream(&buf, pixels, 2, 1, opts)
	if err != nil {
		t.Fatalf("EncodeToStream() error = %v", err)
	}
	if n != len(want) {
		t.Fatalf("EncodeToStream() wrote %d bytes, want %d", n, len(want))
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("EncodeToStream() = % x, want % x", buf.Bytes(), want)
	}
}

func TestEncodeRejectsEmptyImage(t *testing.T) {
	_, err := EncodeToBytes(nil, 0, 1, EncodeOptions{})
	if err == nil {
		t.Fatal("EncodeToBytes() with zero width succeeded, want error")
	}
}

func TestEncodeRejectsShortBuffer(t *testing.T) {
	_, err := EncodeToBytes([]byte{1, 2, 3}, 2, 1, EncodeOptions{Channels: 4})
	if err == nil {
		t.Fatal("EncodeToBytes() with undersized buffer succeeded, want error")
	}
}

func TestEncodeModeDefaultAppliesRunOneIndexRewrite(t *testing.T) {
	// Three distinct pixels, then a repeat of the first: with
	// ModeDefault, a length-1 run whose index slot still holds the
	// previous pixel is rewritten to an INDEX opcode instead of RUN.
	pixels := []byte{
		10, 20, 30, 255,
		40, 50, 60, 255,
		70, 80, 90, 255,
		70, 80, 90, 255, // repeats the previous pixel: run of length 1
		1, 2, 3, 255,
	}
	got, err := EncodeToBytes(pixels, 5, 1, EncodeOptions{Channels: 4, Mode: ModeDefault})
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}

	refGot, err := EncodeToBytes(pixels, 5, 1, EncodeOptions{Channels: 4, Mode: ModeReference})
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}

	if bytes.Equal(got, refGot) {
		t.Fatal("ModeDefault and ModeReference produced identical bytes, want the length-1 run rewritten to INDEX under ModeDefault")
	}

	// Both must still decode back to the same pixels.
	_, defaultPix, err := DecodeToBytes(got, DecodeOptions{Channels: 4})
	if err != nil {
		t.Fatalf("decode ModeDefault output: %v", err)
	}
	_, refPix, err := DecodeToBytes(refGot, DecodeOptions{Channels: 4})
	if err != nil {
		t.Fatalf("decode ModeReference output: %v", err)
	}
	if !bytes.Equal(defaultPix, pixels) || !bytes.Equal(refPix, pixels) {
		t.Fatal("mode-specific encodings did not round-trip to the original pixels")
	}
}
