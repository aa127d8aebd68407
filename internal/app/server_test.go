package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/handler"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sessionHandler := handler.NewSessionHandler(nil)
	chatHandler := handler.NewChatHandler(nil, nil)
	return NewServer(sessionHandler, chatHandler, http.NotFoundHandler(), nil, t.TempDir())
}

func TestCORSPreflightRequest(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/send", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}

	// For OPTIONS requests, gorilla/handlers sets the Allow-Headers based on request
	if rr.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Access-Control-Allow-Headers should not be empty for OPTIONS request")
	}
}

func TestCORSWithActualRequest(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %v, want *", got)
	}
}

func TestStaticShellFallthrough(t *testing.T) {
	server := newTestServer(t)

	// The catch-all serves the web directory; a missing asset is a plain 404.
	req := httptest.NewRequest("GET", "/missing.css", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
