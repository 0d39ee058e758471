// Package imagesource implements lower.ImageSource by fetching an image
// over HTTP, following the plain http.Get + io.ReadAll idiom the teacher's
// API layer used for loading a receipt body from a URL.
package imagesource

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/raster"
)

// HTTPSource fetches and decodes an image over HTTP(S).
type HTTPSource struct {
	Client *http.Client
}

// New constructs an HTTPSource with a bounded request timeout.
func New() *HTTPSource {
	return &HTTPSource{Client: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch downloads url, decodes it, and converts it into the ink-density
// Gray convention the raster pipeline expects.
func (s *HTTPSource) Fetch(ctx context.Context, url string) (*raster.Gray, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ImageFetchFailed, err, "building request for %s", url)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ImageFetchFailed, err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.ImageFetchFailed, "%s: HTTP %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ImageFetchFailed, err, "reading body of %s", url)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.ImageFetchFailed, err, "decoding %s", url)
	}
	return raster.FromImage(img, img.Bounds().Dx()), nil
}
