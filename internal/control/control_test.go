package control

import (
	"bytes"
	"context"
	"testing"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/lower"
	"github.com/thereceipt/printcore/internal/pattern"
	"github.com/thereceipt/printcore/internal/profileconfig"
	"github.com/thereceipt/printcore/internal/raster"
	"github.com/thereceipt/printcore/internal/transport"
)

// stubGlyphs is a deterministic stand-in for glyph.Rasterizer, which needs
// a real TTF loaded from disk. Text-as-raster canvas children need some
// GlyphRasterizer wired to avoid erroring, per lower.Options's injected-
// trait design (mirrors ImageSource's same test-stub rationale).
type stubGlyphs struct{}

func (stubGlyphs) RasterizeText(text string, widthDots int, bold, italic bool) (*raster.Gray, error) {
	h := len(text) + 1
	return raster.NewGray(widthDots, h), nil
}

func newTestSurface(t *testing.T, sink *bytes.Buffer) *Surface {
	t.Helper()
	profiles := profileconfig.NewStore()
	patterns := pattern.NewRegistry()
	opts := lower.Options{DitherAlg: raster.DitherAuto, Glyphs: stubGlyphs{}}
	var tp *transport.Transport
	if sink != nil {
		tp = transport.New(sink, 0, nil)
	}
	return New(profiles, patterns, opts, tp, 0)
}

func simpleDoc() *document.Document {
	return &document.Document{
		Components: []document.Component{
			{Type: document.TypeText, Content: "hello", Bold: true},
		},
	}
}

func TestPrintFailsWithoutTransport(t *testing.T) {
	s := newTestSurface(t, nil)
	result := s.Print(context.Background(), simpleDoc())
	if result.Success {
		t.Fatal("expected Print to fail when no transport is configured")
	}
	if result.Error == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestPrintSucceedsAndWritesToSink(t *testing.T) {
	sink := &bytes.Buffer{}
	s := newTestSurface(t, sink)
	result := s.Print(context.Background(), simpleDoc())
	if !result.Success {
		t.Fatalf("expected Print to succeed, got error %q", result.Error)
	}
	if sink.Len() == 0 {
		t.Fatal("expected bytes to be written to the sink")
	}
}

func TestPrintNeverPanicsOnInvalidComponent(t *testing.T) {
	s := newTestSurface(t, &bytes.Buffer{})
	d := &document.Document{Components: []document.Component{{Type: document.ComponentType("bogus")}}}
	result := s.Print(context.Background(), d)
	if result.Success {
		t.Fatal("expected an unhandled component type to fail, not succeed")
	}
}

func TestRenderPreviewProducesPNGBytes(t *testing.T) {
	s := newTestSurface(t, nil)
	data, err := s.RenderPreview(context.Background(), simpleDoc())
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	if len(data) < 8 || !bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}) {
		t.Fatal("expected a PNG file signature")
	}
}

func TestPatternsListsRegisteredNames(t *testing.T) {
	s := newTestSurface(t, nil)
	names := s.Patterns()
	if len(names) == 0 {
		t.Fatal("expected at least one pattern name")
	}
}

func TestPatternParamsUnknownNameErrors(t *testing.T) {
	s := newTestSurface(t, nil)
	if _, err := s.PatternParams("not-a-pattern"); err == nil {
		t.Fatal("expected an error for an unregistered pattern name")
	}
}

func TestSetActiveProfileChangesGetActiveProfile(t *testing.T) {
	s := newTestSurface(t, nil)
	p, err := s.SetActiveProfile("printer-58mm")
	if err != nil {
		t.Fatalf("SetActiveProfile: %v", err)
	}
	if s.GetActiveProfile().Name != p.Name {
		t.Fatalf("expected GetActiveProfile to reflect the newly set profile")
	}
	if s.GetActiveProfile().WidthDots != 384 {
		t.Fatalf("expected printer-58mm width 384, got %d", s.GetActiveProfile().WidthDots)
	}
}

func TestWeaveFailsWithoutTransport(t *testing.T) {
	s := newTestSurface(t, nil)
	result := s.Weave(context.Background(), []string{"ripple", "waves"}, 100, 10, pattern.CurveLinear, 1)
	if result.Success {
		t.Fatal("expected Weave to fail when no transport is configured")
	}
}

func TestWeaveSucceedsAndWritesToSink(t *testing.T) {
	sink := &bytes.Buffer{}
	s := newTestSurface(t, sink)
	result := s.Weave(context.Background(), []string{"ripple", "waves"}, 100, 10, pattern.CurveLinear, 1)
	if !result.Success {
		t.Fatalf("expected Weave to succeed, got error %q", result.Error)
	}
	if sink.Len() == 0 {
		t.Fatal("expected bytes written for a successful weave")
	}
}

func TestWeavePreviewProducesPNGBytes(t *testing.T) {
	s := newTestSurface(t, nil)
	data, err := s.WeavePreview([]string{"ripple", "waves"}, 100, 10, pattern.CurveLinear, 1)
	if err != nil {
		t.Fatalf("WeavePreview: %v", err)
	}
	if len(data) < 8 || !bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}) {
		t.Fatal("expected a PNG file signature")
	}
}

func TestStoreLogoFailsWithoutTransport(t *testing.T) {
	s := newTestSurface(t, nil)
	img := raster.NewGray(16, 16)
	if err := s.StoreLogo(context.Background(), img, "A1"); err == nil {
		t.Fatal("expected StoreLogo to fail when no transport is configured")
	}
}

func TestStoreLogoWritesNVCommand(t *testing.T) {
	sink := &bytes.Buffer{}
	s := newTestSurface(t, sink)
	img := raster.NewGray(16, 16)
	if err := s.StoreLogo(context.Background(), img, "A1"); err != nil {
		t.Fatalf("StoreLogo: %v", err)
	}
	if sink.Len() == 0 {
		t.Fatal("expected bytes written to the sink")
	}
}

func TestDeleteAllLogosFailsWithoutTransport(t *testing.T) {
	s := newTestSurface(t, nil)
	if err := s.DeleteAllLogos(context.Background()); err == nil {
		t.Fatal("expected DeleteAllLogos to fail when no transport is configured")
	}
}

func TestCanvasLayoutRejectsNonCanvasIndex(t *testing.T) {
	s := newTestSurface(t, nil)
	d := simpleDoc()
	if _, err := s.CanvasLayout(context.Background(), d, 0); err == nil {
		t.Fatal("expected an error: index 0 is a text component, not a canvas")
	}
}

func TestCanvasLayoutMeasuresRealChildRasterHeight(t *testing.T) {
	s := newTestSurface(t, nil)
	d := &document.Document{
		Components: []document.Component{
			{Type: document.TypeCanvas, Children: []document.Component{
				{Type: document.TypeText, Content: "hello"},
			}},
		},
	}
	layout, err := s.CanvasLayout(context.Background(), d, 0)
	if err != nil {
		t.Fatalf("CanvasLayout: %v", err)
	}
	if len(layout.Elements) != 1 {
		t.Fatalf("expected 1 child box, got %d", len(layout.Elements))
	}
	if layout.Elements[0].Height <= 0 {
		t.Fatalf("expected the child's box height to come from actually rasterizing it, got %d", layout.Elements[0].Height)
	}
	if layout.Height < layout.Elements[0].Height {
		t.Fatalf("canvas height %d should cover its one child's height %d", layout.Height, layout.Elements[0].Height)
	}
}

func TestCanvasLayoutDocumentHeightReflectsRealSiblingGeometry(t *testing.T) {
	s := newTestSurface(t, nil)
	d := &document.Document{
		Components: []document.Component{
			{Type: document.TypeText, Content: "hello"},
			{Type: document.TypeCanvas, Children: []document.Component{
				{Type: document.TypeText, Content: "child"},
			}},
			{Type: document.TypeSpacer, Lines: 2},
		},
	}
	layout, err := s.CanvasLayout(context.Background(), d, 1)
	if err != nil {
		t.Fatalf("CanvasLayout: %v", err)
	}
	if layout.YOffset <= 0 {
		t.Fatalf("expected a non-flat y_offset from the leading text component, got %d", layout.YOffset)
	}
	if layout.DocumentHeight <= layout.YOffset+layout.Height {
		t.Fatalf("expected document_height %d to exceed y_offset %d + canvas height %d (trailing spacer contributes too)",
			layout.DocumentHeight, layout.YOffset, layout.Height)
	}
}

func TestListProfilesIncludesAllBuiltins(t *testing.T) {
	s := newTestSurface(t, nil)
	profiles := s.ListProfiles()
	if len(profiles) != len(profileconfig.BuiltinNames()) {
		t.Fatalf("got %d profiles, want %d", len(profiles), len(profileconfig.BuiltinNames()))
	}
}
