package qoi

import "testing"

func TestLayoutReadWriteRoundTrip(t *testing.T) {
	layouts := []SourceLayout{
		LayoutRGB, LayoutBGR,
		LayoutRGBA, LayoutARGB, LayoutBGRA, LayoutABGR,
		LayoutRGBX, LayoutXRGB, LayoutBGRX, LayoutXBGR,
	}
	p := pixel{R: 11, G: 22, B: 33, A: 44}

	for _, l := range layouts {
		buf := make([]byte, l.BytesPerPixel())
		l.writePixel(buf, p)
		got := l.readPixel(buf)

		wantA := p.A
		if l.Channels() == 3 {
			wantA = 0xFF
		}
		want := pixel{R: p.R, G: p.G, B: p.B, A: wantA}
		if got != want {
			t.Errorf("layout %d: readPixel(writePixel(p)) = %+v, want %+v", l, got, want)
		}
	}
}

func TestLayoutAutoIsZeroValue(t *testing.T) {
	if LayoutAuto != 0 {
		t.Fatalf("LayoutAuto = %d, want 0", LayoutAuto)
	}
	var zero SourceLayout
	if zero != LayoutAuto {
		t.Fatalf("zero value of SourceLayout = %d, want LayoutAuto", zero)
	}
}

func TestLayoutValid(t *testing.T) {
	if LayoutAuto.valid() {
		t.Error("LayoutAuto.valid() = true, want false")
	}
	if !LayoutRGB.valid() {
		t.Error("LayoutRGB.valid() = false, want true")
	}
	if !LayoutXBGR.valid() {
		t.Error("LayoutXBGR.valid() = false, want true")
	}
	if SourceLayout(99).valid() {
		t.Error("SourceLayout(99).valid() = true, want false")
	}
}

func TestLayoutChannels(t *testing.T) {
	threeChan := []SourceLayout{LayoutRGB, LayoutBGR, LayoutRGBX, LayoutXRGB, LayoutBGRX, LayoutXBGR}
	for _, l := range threeChan {
		if got := l.Channels(); got != 3 {
			t.Errorf("layout %d: Channels() = %d, want 3", l, got)
		}
	}
	fourChan := []SourceLayout{LayoutRGBA, LayoutARGB, LayoutBGRA, LayoutABGR}
	for _, l := range fourChan {
		if got := l.Channels(); got != 4 {
			t.Errorf("layout %d: Channels() = %d, want 4", l, got)
		}
	}
}
