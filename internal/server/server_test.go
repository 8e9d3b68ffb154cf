package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"GeoWatch/internal/config"
	"GeoWatch/internal/dependencies"
	"GeoWatch/pkg/uuidutil"
)

func testServer() *Server {
	return New(&Config{Port: 8080, Mode: "release"}, &dependencies.Container{
		Config: &config.Config{
			App: config.AppConfig{Name: "geowatch", Version: "test"},
		},
	})
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(rec, req)

	requestID := rec.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("response must carry X-Request-ID")
	}
	if !uuidutil.IsValid(requestID) {
		t.Errorf("generated request id must be a uuid, got %q", requestID)
	}
}

func TestRequestIDEchoedWhenValid(t *testing.T) {
	srv := testServer()
	supplied := uuidutil.New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", supplied)
	rec := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != supplied {
		t.Errorf("valid request id must be echoed back, want %q, got %q", supplied, got)
	}
}

func TestRequestIDReplacedWhenMalformed(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	if got == "not-a-uuid" {
		t.Error("malformed request id must not be echoed back")
	}
	if !uuidutil.IsValid(got) {
		t.Errorf("replacement request id must be a uuid, got %q", got)
	}
}
