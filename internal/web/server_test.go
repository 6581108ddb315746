package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledcycle/internal/ledcontrol"
)

func testHandler() http.Handler {
	svc := ledcontrol.New(ledcontrol.Config{}, nil)
	return Handler(svc)
}

func TestStatusEndpoint(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type=%q want application/json", ct)
	}

	var snap map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if running, ok := snap["running"].(bool); !ok || running {
		t.Fatalf("running=%v want false before Start", snap["running"])
	}
}

func TestStatusEndpoint_MethodNotAllowed(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/status", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("allow=%q want GET", allow)
	}
}

func TestAboutEndpoint(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/about", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}

	var about AboutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &about); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if about.Service != "ledcycle" {
		t.Fatalf("service=%q want ledcycle", about.Service)
	}
	if about.GoVersion == "" {
		t.Fatalf("go_version missing")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/status") {
		t.Fatalf("index page missing status link")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonsense", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404 for unknown path", rec.Code)
	}
}
