package qoi

import "testing"

func TestPixelHash(t *testing.T) {
	cases := []struct {
		name string
		p    pixel
		want uint8
	}{
		{"zero pixel", pixel{R: 0, G: 0, B: 0, A: 0}, 0},
		{"start pixel", startPixel, (0*3 + 0*5 + 0*7 + 0xFF*11) % 64},
		{"white opaque", pixel{R: 255, G: 255, B: 255, A: 255}, (255*3 + 255*5 + 255*7 + 255*11) % 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.hash(); got != c.want {
				t.Errorf("hash() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestIndexTableZeroValue(t *testing.T) {
	var idx indexTable
	for i := 0; i < 64; i++ {
		got := idx.get(uint8(i))
		if got != (pixel{}) {
			t.Fatalf("slot %d not zero-initialized: %+v", i, got)
		}
	}
}

func TestIndexTablePutGet(t *testing.T) {
	var idx indexTable
	p := pixel{R: 10, G: 20, B: 30, A: 40}
	idx.put(p)
	if got := idx.get(p.hash()); got != p {
		t.Fatalf("get(hash) = %+v, want %+v", got, p)
	}
}

func TestFits(t *testing.T) {
	cases := []struct {
		name       string
		delta      uint8
		bias, mask uint8
		want       bool
	}{
		{"zero delta fits diff", 0, diffBias, diffMask, true},
		{"+1 fits diff", 1, diffBias, diffMask, true},
		{"-2 fits diff", wrapSub(0, 2), diffBias, diffMask, true},
		{"+2 does not fit diff", 2, diffBias, diffMask, false},
		{"-3 does not fit diff", wrapSub(0, 3), diffBias, diffMask, false},
		{"+31 fits luma green", 31, lumaGreenBias, lumaGreenMask, true},
		{"-32 fits luma green", wrapSub(0, 32), lumaGreenBias, lumaGreenMask, true},
		{"+32 does not fit luma green", 32, lumaGreenBias, lumaGreenMask, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := fits(c.delta, c.bias, c.mask); got != c.want {
				t.Errorf("fits(%d, %d, %d) = %v, want %v", c.delta, c.bias, c.mask, got, c.want)
			}
		})
	}
}

func TestWrapArithmetic(t *testing.T) {
	if got := wrapAdd(255, 1); got != 0 {
		t.Errorf("wrapAdd(255,1) = %d, want 0", got)
	}
	if got := wrapSub(0, 1); got != 255 {
		t.Errorf("wrapSub(0,1) = %d, want 255", got)
	}
}
