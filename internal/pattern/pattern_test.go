package pattern

import "testing"

func TestNewRegistryPopulatesNamesInRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	if len(names) == 0 {
		t.Fatal("expected at least one built-in generator")
	}
	if names[0] != "ripple" {
		t.Fatalf("expected the first registered generator to be ripple, got %q", names[0])
	}
}

func TestGetUnknownNameErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("does-not-exist"); err == nil {
		t.Fatal("expected an error for an unregistered generator name")
	}
}

func TestRenderWithNilParamsUsesGoldenDefaults(t *testing.T) {
	r := NewRegistry()
	g, err := r.Render("ripple", 64, 64, 1, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if g.Width != 64 || g.Height != 64 {
		t.Fatalf("got %dx%d, want 64x64", g.Width, g.Height)
	}
}

func TestRenderIsDeterministicForAGivenSeed(t *testing.T) {
	r := NewRegistry()
	a, err := r.Render("waves", 32, 32, 42, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := r.Render("waves", 32, 32, 42, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("expected identical output for identical seed, differed at pixel %d", i)
		}
	}
}

func TestWeaveRequiresAtLeastTwoPatterns(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Weave([]string{"ripple"}, 64, 100, 10, CurveLinear, 1); err == nil {
		t.Fatal("expected an error for fewer than 2 pattern names")
	}
}

func TestWeaveProducesRequestedDimensions(t *testing.T) {
	r := NewRegistry()
	g, err := r.Weave([]string{"ripple", "waves"}, 64, 100, 10, CurveLinear, 1)
	if err != nil {
		t.Fatalf("Weave: %v", err)
	}
	if g.Width != 64 || g.Height != 100 {
		t.Fatalf("got %dx%d, want 64x100", g.Width, g.Height)
	}
}

func TestWeaveWithZeroCrossfadeHasHardBandBoundary(t *testing.T) {
	r := NewRegistry()
	g, err := r.Weave([]string{"ripple", "waves"}, 64, 100, 0, CurveLinear, 1)
	if err != nil {
		t.Fatalf("Weave: %v", err)
	}
	solo, err := r.Render("ripple", 64, 100, 1, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if g.At(0, 0) != solo.At(0, 0) {
		t.Fatalf("expected the first band to match the first pattern's solo render at y=0")
	}
}

func TestApplyCurveEndpointsAreStableAcrossAllCurves(t *testing.T) {
	for _, c := range []CrossfadeCurve{CurveLinear, CurveSmooth, CurveEaseIn, CurveEaseOut} {
		if got := applyCurve(c, 0); got != 0 {
			t.Fatalf("curve %v: applyCurve(0) = %v, want 0", c, got)
		}
		if got := applyCurve(c, 1); got != 1 {
			t.Fatalf("curve %v: applyCurve(1) = %v, want 1", c, got)
		}
	}
}
