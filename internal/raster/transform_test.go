package raster

import "testing"

func TestAdjustmentIsIdentityForZeroValue(t *testing.T) {
	var adj Adjustment
	if !adj.IsIdentity() {
		t.Fatal("expected the zero-value Adjustment to be identity")
	}
}

func TestApplyIsNoOpForIdentityAdjustment(t *testing.T) {
	g := solidGray(4, 4, 100)
	Apply(g, Adjustment{})
	for _, v := range g.Pix {
		if v != 100 {
			t.Fatalf("identity Apply changed a pixel to %d", v)
		}
	}
}

func TestApplyBrightnessShiftsPixelsUp(t *testing.T) {
	g := solidGray(2, 2, 100)
	Apply(g, Adjustment{Brightness: 50})
	if g.At(0, 0) != 150 {
		t.Fatalf("got %d, want 150", g.At(0, 0))
	}
}

func TestApplyClampsAtWhiteAndBlackBounds(t *testing.T) {
	g := solidGray(2, 2, 250)
	Apply(g, Adjustment{Brightness: 100})
	if g.At(0, 0) != 255 {
		t.Fatalf("got %d, want clamped to 255", g.At(0, 0))
	}
	w := solidGray(2, 2, 5)
	Apply(w, Adjustment{Brightness: -100})
	if w.At(0, 0) != 0 {
		t.Fatalf("got %d, want clamped to 0", w.At(0, 0))
	}
}

func TestResizeSameWidthReturnsSourceUnchanged(t *testing.T) {
	g := solidGray(10, 10, 42)
	out := Resize(g, 10)
	if out != g {
		t.Fatal("expected Resize to return the same buffer when width is unchanged")
	}
}

func TestResizeDownscalePreservesAspectRatio(t *testing.T) {
	g := solidGray(100, 50, 10)
	out := Resize(g, 50)
	if out.Width != 50 || out.Height != 25 {
		t.Fatalf("got %dx%d, want 50x25", out.Width, out.Height)
	}
}

func TestResizeUpscalePreservesAspectRatio(t *testing.T) {
	g := solidGray(10, 5, 10)
	out := Resize(g, 20)
	if out.Width != 20 || out.Height != 10 {
		t.Fatalf("got %dx%d, want 20x10", out.Width, out.Height)
	}
}

func TestResizeDownscaleOfFlatImageStaysFlat(t *testing.T) {
	g := solidGray(100, 100, 77)
	out := Resize(g, 25)
	for _, v := range out.Pix {
		if v != 77 {
			t.Fatalf("expected a flat downscaled image to stay flat, got %d", v)
		}
	}
}
