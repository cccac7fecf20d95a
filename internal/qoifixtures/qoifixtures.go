// Package qoifixtures generates biased random pixel streams for
// round-trip testing of the QOI codec, exercising every opcode class
// with roughly the frequency real photographic and synthetic images
// do, plus long runs that exercise the RUN opcode's 62-pixel cap.
package qoifixtures

import "math/rand"

// Pixel mirrors the root package's internal pixel representation. It
// is duplicated here rather than imported because the codec's pixel
// type is unexported; qoifixtures only needs the four component bytes
// to build a stream, and callers convert to their own representation.
type Pixel struct {
	R, G, B, A uint8
}

// Mix names the six ways a generated pixel can relate to its
// predecessors, matching the encoder's own opcode-selection branches.
type Mix int

const (
	// MixNew always produces a pixel with a low probability of
	// matching any index slot or the previous pixel: forces RGB/RGBA.
	MixNew Mix = iota
	// MixIndex reuses a pixel already seen (and still resident in the
	// 64-slot index) to force an INDEX opcode.
	MixIndex
	// MixRepeat repeats the previous pixel, forcing a RUN opcode (or
	// the RUN(1)->INDEX rewrite, depending on run length and mode).
	MixRepeat
	// MixDiff nudges each channel by a small delta that fits the DIFF
	// opcode's [-2,1] field.
	MixDiff
	// MixLuma nudges green by -32..+30 and red/blue relative to green
	// by -7..+7, deltas within the LUMA opcode's ranges.
	MixLuma
	// MixFallback produces an alpha change, forcing an RGBA opcode.
	MixFallback
)

// Weights controls the relative frequency of each Mix when Stream
// builds a pixel sequence. The zero value is not usable; use
// DefaultWeights.
type Weights struct {
	New, Index, Repeat, Diff, Luma, Fallback float64
}

// DefaultWeights approximates a typical photographic+synthetic mix:
// mostly small deltas and repeats, a moderate share of fresh colors
// and index hits, with occasional alpha changes and long runs.
var DefaultWeights = Weights{
	New:      0.12,
	Index:    0.18,
	Repeat:   0.30,
	Diff:     0.20,
	Luma:     0.15,
	Fallback: 0.05,
}

// maxRunLen is the longest repeat burst Stream will generate for a
// single MixRepeat draw; it deliberately exceeds the 62-pixel RUN
// opcode cap so the generated stream exercises RUN-splitting.
const maxRunLen = 70

// Stream generates n pixels seeded deterministically by seed, mixing
// opcode classes per w. The first draw treats (0,0,0,255), the codec's
// initial previous pixel, as its predecessor, so any Mix may be chosen
// for it, including a repeat of that pixel.
func Stream(seed int64, n int, w Weights) []Pixel {
	if n <= 0 {
		return nil
	}
	rnd := rand.New(rand.NewSource(seed))
	out := make([]Pixel, 0, n)
	var seen []Pixel

	for len(out) < n {
		var prev Pixel
		if len(out) > 0 {
			prev = out[len(out)-1]
		} else {
			prev = Pixel{A: 0xFF}
		}

		mix := pickMix(rnd, w)
		switch mix {
		case MixRepeat:
			runLen := 1 + rnd.Intn(maxRunLen)
			for i := 0; i < runLen && len(out) < n; i++ {
				out = append(out, prev)
			}
			continue

		case MixIndex:
			if len(seen) == 0 {
				out = append(out, randPixel(rnd))
			} else {
				out = append(out, seen[rnd.Intn(len(seen))])
			}

		case MixDiff:
			out = append(out, Pixel{
				R: wrapAdd(prev.R, int8(rnd.Intn(4)-2)),
				G: wrapAdd(prev.G, int8(rnd.Intn(4)-2)),
				B: wrapAdd(prev.B, int8(rnd.Intn(4)-2)),
				A: prev.A,
			})

		case MixLuma:
			dg := rnd.Intn(63) - 32
			dr := dg + rnd.Intn(15) - 7
			db := dg + rnd.Intn(15) - 7
			out = append(out, Pixel{
				R: wrapAdd(prev.R, int8(dr)),
				G: wrapAdd(prev.G, int8(dg)),
				B: wrapAdd(prev.B, int8(db)),
				A: prev.A,
			})

		case MixFallback:
			p := randPixel(rnd)
			for p.A == prev.A {
				p.A = uint8(rnd.Intn(256))
			}
			out = append(out, p)

		default: // MixNew
			out = append(out, randPixel(rnd))
		}

		seen = append(seen, out[len(out)-1])
		if len(seen) > 64 {
			seen = seen[len(seen)-64:]
		}
	}

	return out[:n]
}

func pickMix(rnd *rand.Rand, w Weights) Mix {
	total := w.New + w.Index + w.Repeat + w.Diff + w.Luma + w.Fallback
	roll := rnd.Float64() * total
	switch {
	case roll < w.New:
		return MixNew
	case roll < w.New+w.Index:
		return MixIndex
	case roll < w.New+w.Index+w.Repeat:
		return MixRepeat
	case roll < w.New+w.Index+w.Repeat+w.Diff:
		return MixDiff
	case roll < w.New+w.Index+w.Repeat+w.Diff+w.Luma:
		return MixLuma
	default:
		return MixFallback
	}
}

func randPixel(rnd *rand.Rand) Pixel {
	return Pixel{
		R: uint8(rnd.Intn(256)),
		G: uint8(rnd.Intn(256)),
		B: uint8(rnd.Intn(256)),
		A: uint8(rnd.Intn(256)),
	}
}

func wrapAdd(a uint8, delta int8) uint8 {
	return a + uint8(delta)
}

// PixelsToRGBA flattens pixels into a tightly packed 4-bytes-per-pixel
// buffer in R,G,B,A order, the layout EncodeOptions{Layout: LayoutRGBA}
// expects.
func PixelsToRGBA(pixels []Pixel) []byte {
	out := make([]byte, 0, len(pixels)*4)
	for _, p := range pixels {
		out = append(out, p.R, p.G, p.B, p.A)
	}
	return out
}

// PixelsToRGB flattens pixels into a tightly packed 3-bytes-per-pixel
// buffer, dropping alpha, the layout EncodeOptions{Layout: LayoutRGB}
// expects.
func PixelsToRGB(pixels []Pixel) []byte {
	out := make([]byte, 0, len(pixels)*3)
	for _, p := range pixels {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}
