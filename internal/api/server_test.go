package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thereceipt/printcore/internal/control"
	"github.com/thereceipt/printcore/internal/jobqueue"
	"github.com/thereceipt/printcore/internal/lower"
	"github.com/thereceipt/printcore/internal/pattern"
	"github.com/thereceipt/printcore/internal/profileconfig"
	"github.com/thereceipt/printcore/internal/raster"
)

func newTestServer() *Server {
	profiles := profileconfig.NewStore()
	patterns := pattern.NewRegistry()
	opts := lower.Options{DitherAlg: raster.DitherAuto}
	surface := control.New(profiles, patterns, opts, nil, 0)
	return NewServer(surface, jobqueue.New())
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthReturnsOK(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/health", nil)
	if w.Code != 200 {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestPatternsListsRegisteredGenerators(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/patterns", nil)
	if w.Code != 200 {
		t.Fatalf("got status %d", w.Code)
	}
	var resp struct {
		Patterns []string `json:"patterns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Patterns) == 0 {
		t.Fatal("expected at least one pattern")
	}
}

func TestRenderPreviewReturnsPNGForValidDocument(t *testing.T) {
	s := newTestServer()
	body := []byte(`{"document":[{"type":"text","content":"hi"}]}`)
	w := doRequest(s, http.MethodPost, "/render_preview", body)
	if w.Code != 200 {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("got content-type %q", w.Header().Get("Content-Type"))
	}
}

func TestRenderPreviewRejectsMalformedJSON(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodPost, "/render_preview", []byte(`not json`))
	if w.Code != 400 {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestPrintWithoutTransportReportsFailureNotHTTPError(t *testing.T) {
	s := newTestServer()
	body := []byte(`{"document":[{"type":"text","content":"hi"}]}`)
	w := doRequest(s, http.MethodPost, "/print", body)
	if w.Code != 200 {
		t.Fatalf("got status %d, want 200 (the surface never throws)", w.Code)
	}
	var resp struct {
		JobID  string `json:"job_id"`
		Result struct {
			Success bool `json:"success"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.JobID == "" {
		t.Fatal("expected a job ID even on failure")
	}
}

func TestGetProfileReturnsActiveProfile(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/profile", nil)
	if w.Code != 200 {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestSetProfileSwitchesActiveProfile(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodPost, "/profile", []byte(`{"name":"printer-58mm"}`))
	if w.Code != 200 {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}
	w2 := doRequest(s, http.MethodGet, "/profile", nil)
	var p struct {
		WidthDots int `json:"WidthDots"`
	}
	json.Unmarshal(w2.Body.Bytes(), &p)
	if p.WidthDots != 384 {
		t.Fatalf("got width %d, want 384 after switching to printer-58mm", p.WidthDots)
	}
}

func TestSetProfileMissingNameReturns400(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodPost, "/profile", []byte(`{}`))
	if w.Code != 400 {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}

func TestGetJobUnknownIDReturns404(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/job/nonexistent", nil)
	if w.Code != 404 {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestPatternParamsUnknownNameReturns404(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/patterns/not-a-pattern/params", nil)
	if w.Code != 404 {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestCorsHeaderPresentOnEveryResponse(t *testing.T) {
	s := newTestServer()
	w := doRequest(s, http.MethodGet, "/health", nil)
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected the CORS header to be set")
	}
}
