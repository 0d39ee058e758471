package imagesource

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func pngServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, color.Black)
			}
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, img)
	}))
}

func TestFetchDecodesAndConvertsToInkDensityGray(t *testing.T) {
	srv := pngServer(t, http.StatusOK)
	defer srv.Close()

	src := New()
	g, err := src.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if g.Width != 4 || g.Height != 4 {
		t.Fatalf("got %dx%d, want 4x4", g.Width, g.Height)
	}
	if g.At(0, 0) < 200 {
		t.Fatalf("expected a black source pixel to map to high ink density, got %d", g.At(0, 0))
	}
}

func TestFetchNonOKStatusFails(t *testing.T) {
	srv := pngServer(t, http.StatusNotFound)
	defer srv.Close()

	src := New()
	if _, err := src.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestFetchInvalidBodyFailsToDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	src := New()
	if _, err := src.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error decoding a non-image body")
	}
}

func TestFetchRejectsMalformedURL(t *testing.T) {
	src := New()
	if _, err := src.Fetch(context.Background(), "://bad-url"); err == nil {
		t.Fatal("expected an error building a request for a malformed URL")
	}
}
