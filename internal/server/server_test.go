package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/carousel/internal/pipeline"
	"github.com/ByLCY/carousel/renderer"
)

type stubRenderer struct {
	res *pipeline.Result
	err error
	got *pipeline.Request
}

func (s *stubRenderer) Render(ctx context.Context, req *pipeline.Request) (*pipeline.Result, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.res, nil
}

func newTestServer(r Renderer) *Server {
	gin.SetMode(gin.TestMode)
	return New(r, Options{MaxBodyBytes: 4 << 10, Logger: log.New(io.Discard)})
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("响应不是 JSON: %v (%s)", err, w.Body.String())
		}
	}
	return w, out
}

const validBody = `{
  "slide_number": 1,
  "total_slides": 3,
  "slide_type": "cover",
  "title": "Hello",
  "brand": {"name": "Acme", "color_primary": "#336699", "color_secondary": "#FFCC00"}
}`

func TestRenderSlideSuccess(t *testing.T) {
	stub := &stubRenderer{res: &pipeline.Result{
		Data:     []byte("PNGDATA"),
		Format:   renderer.FormatPNG,
		Width:    1080,
		Height:   1350,
		Duration: 42 * time.Millisecond,
	}}
	w, out := do(t, newTestServer(stub), http.MethodPost, "/api/render-slide", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if out["success"] != true {
		t.Fatalf("success flag missing: %v", out)
	}
	if out["image_base64"] != base64.StdEncoding.EncodeToString([]byte("PNGDATA")) {
		t.Fatalf("unexpected image payload %v", out["image_base64"])
	}
	dims, _ := out["dimensions"].(map[string]any)
	if dims["width"] != float64(1080) || dims["height"] != float64(1350) {
		t.Fatalf("unexpected dimensions %v", dims)
	}
	if out["render_time_ms"] != float64(42) || out["cached"] != false {
		t.Fatalf("unexpected timing/cache fields %v", out)
	}
	if stub.got == nil || stub.got.Brand == nil || stub.got.Brand.Name != "Acme" {
		t.Fatalf("request not decoded: %+v", stub.got)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("响应缺少 request id")
	}
}

func TestRenderSlideRaw(t *testing.T) {
	stub := &stubRenderer{res: &pipeline.Result{Data: []byte("<svg/>"), Format: renderer.FormatSVG, Width: 1080, Height: 1350}}
	req := httptest.NewRequest(http.MethodPost, "/api/render-slide?raw=true", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newTestServer(stub).Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("raw 响应类型错误: %q", ct)
	}
	if w.Body.String() != "<svg/>" {
		t.Fatalf("raw body should be the image bytes, got %q", w.Body.String())
	}
}

func TestRenderSlideErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"invalid json", `{"slide_number":`, nil, http.StatusBadRequest, "Invalid JSON"},
		{"missing brand", `{"slide_number":1,"slide_type":"cover","title":"x"}`, nil, http.StatusBadRequest, "Missing required fields"},
		{"bad type", strings.Replace(validBody, `"cover"`, `"poster"`, 1), nil, http.StatusBadRequest, "Invalid slide type"},
		{"render failure", validBody, errors.New("boom"), http.StatusInternalServerError, "Render failed"},
		{"wrapped output error", validBody, fmt.Errorf("x: %w", pipeline.ErrInvalidOutput), http.StatusBadRequest, "Invalid output options"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubRenderer{err: tc.err, res: &pipeline.Result{}}
			w, out := do(t, newTestServer(stub), http.MethodPost, "/api/render-slide", tc.body)
			if w.Code != tc.status {
				t.Fatalf("status: got %d want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if out["success"] != false || out["error"] != tc.msg {
				t.Fatalf("unexpected body %v", out)
			}
		})
	}
}

func TestMissingFieldsDetails(t *testing.T) {
	_, out := do(t, newTestServer(&stubRenderer{}), http.MethodPost, "/api/render-slide", `{}`)
	if out["details"] != "Required: slide_number, slide_type, title, brand" {
		t.Fatalf("unexpected details %v", out["details"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w, out := do(t, s, method, "/api/render-slide", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", method, w.Code)
		}
		if out["error"] != "Method not allowed" || out["success"] != false {
			t.Fatalf("%s: unexpected body %v", method, out)
		}
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	req := httptest.NewRequest(http.MethodOptions, "/api/render-slide", nil)
	req.Header.Set("Origin", "https://studio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("preflight status: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}

	// 无 Origin 的 OPTIONS 也应返回 200
	w, _ = do(t, s, http.MethodOptions, "/api/render-slide", "")
	if w.Code != http.StatusOK {
		t.Fatalf("bare OPTIONS status: %d", w.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(&stubRenderer{res: &pipeline.Result{}})
	big := `{"title":"` + strings.Repeat("x", 8<<10) + `"}`
	w, out := do(t, s, http.MethodPost, "/api/render-slide", big)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d (%v)", w.Code, out)
	}
}

func TestHealthAndTemplates(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	w, out := do(t, s, http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("healthcheck: %d %v", w.Code, out)
	}

	w, out = do(t, s, http.MethodGet, "/api/templates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("templates: %d", w.Code)
	}
	names, _ := out["templates"].([]any)
	if len(names) != 5 || names[0] != "default" || names[1] != "modern_gradient" {
		t.Fatalf("unexpected templates %v", names)
	}
	families, _ := out["fonts"].([]any)
	if len(families) != 5 || families[0] != "Inter" {
		t.Fatalf("unexpected fonts %v", families)
	}

	w, out = do(t, s, http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound || out["success"] != false {
		t.Fatalf("not found: %d %v", w.Code, out)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id not echoed: %q", got)
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/fail", "/ok"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	out := buf.String()
	if !strings.Contains(out, "ERRO") || !strings.Contains(out, "INFO") {
		t.Fatalf("expected error and info lines, got:\n%s", out)
	}
	if !strings.Contains(out, "path=/fail") || !strings.Contains(out, "status=502") {
		t.Fatalf("missing fields:\n%s", out)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := newTestServer(&stubRenderer{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
