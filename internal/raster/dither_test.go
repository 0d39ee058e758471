package raster

import "testing"

func solidGray(w, h int, v uint8) *Gray {
	g := NewGray(w, h)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestDitherThresholdPureWhiteStaysWhite(t *testing.T) {
	g := solidGray(8, 8, 0)
	bits := Dither(g, DitherNone)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if bits.GetBit(x, y) != 0 {
				t.Fatalf("pure white pixel (%d,%d) dithered to ink", x, y)
			}
		}
	}
}

func TestDitherThresholdPureBlackStaysBlack(t *testing.T) {
	g := solidGray(8, 8, 255)
	bits := Dither(g, DitherNone)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if bits.GetBit(x, y) != 1 {
				t.Fatalf("pure black pixel (%d,%d) dithered to white", x, y)
			}
		}
	}
}

func TestDitherAtkinsonPreservesDiscardedError(t *testing.T) {
	// A uniform mid-gray field run through Atkinson should not converge to
	// solid black or solid white; the 2/8 loss keeps some pixels off.
	g := solidGray(16, 16, 96)
	bits := Dither(g, DitherAtkinson)
	inkCount := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if bits.GetBit(x, y) == 1 {
				inkCount++
			}
		}
	}
	if inkCount == 0 || inkCount == 256 {
		t.Fatalf("expected a mixed ink pattern from Atkinson on mid-gray, got %d/256 ink", inkCount)
	}
}

func TestDitherAutoSelectsThresholdForFlatImages(t *testing.T) {
	g := solidGray(4, 4, 200)
	bits := Dither(g, DitherAuto)
	want := Dither(g, DitherNone)
	for i := range bits.Data {
		if bits.Data[i] != want.Data[i] {
			t.Fatalf("Auto on a flat image should match None, byte %d: got %x want %x", i, bits.Data[i], want.Data[i])
		}
	}
}

func TestDitherBayerIsDeterministic(t *testing.T) {
	g := solidGray(8, 8, 128)
	a := Dither(g, DitherBayer)
	b := Dither(g, DitherBayer)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("Bayer dithering is not deterministic at byte %d", i)
		}
	}
}
