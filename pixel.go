package qoi

// pixel is a single RGBA sample. A 3-channel (RGB) source pixel is
// represented with A fixed at 0xFF: the wire format and the hash
// function never see a "3-channel pixel", only this canonical form.
type pixel struct {
	R, G, B, A uint8
}

// startPixel is the previous-pixel register's value before any pixel
// has been emitted or consumed. Its alpha (0xFF) is deliberately
// different from the index table's zero-value alpha; see indexTable.
var startPixel = pixel{R: 0, G: 0, B: 0, A: 0xFF}

// hash computes the 6-bit index-table slot for p, per the QOI spec:
// (R*3 + G*5 + B*7 + A*11) mod 64, with all arithmetic mod 256.
func (p pixel) hash() uint8 {
	return (p.R*3 + p.G*5 + p.B*7 + p.A*11) % 64
}

func (p pixel) equal(o pixel) bool {
	return p == o
}

// indexTable is the 64-slot pixel cache. The zero value is a valid,
// fully-initialized table: every slot holds {0,0,0,0}, including an
// alpha of zero, which is distinct from startPixel's alpha of 0xFF.
// Implementations must not unify these two initial states.
type indexTable [64]pixel

func (t *indexTable) get(i uint8) pixel { return t[i] }

func (t *indexTable) put(p pixel) { t[p.hash()] = p }

// wrapAdd and wrapSub perform 8-bit wraparound arithmetic. Go's
// unsigned-integer overflow is already defined modulo 2^8, so these
// exist to name the operation at call sites rather than to change its
// semantics.
func wrapAdd(a, b uint8) uint8 { return a + b }
func wrapSub(a, b uint8) uint8 { return a - b }

// fits reports whether the wrapped delta d, once biased, has no bits
// set outside mask — the "add bias, OR together, compare to mask"
// idiom used throughout the encoder to test whether a signed delta in
// [-bias, mask-bias] fits a narrow field. mask must be 2^n-1 and all
// arithmetic is mod 256, matching the wrapping subtraction that
// produced d in the first place.
func fits(d uint8, bias uint8, mask uint8) bool {
	biased := wrapAdd(d, bias)
	return biased|mask == mask
}
