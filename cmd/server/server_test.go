package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/leaguedesk/internal/config"
)

func TestServerRoutes(t *testing.T) {
	a, err := newApp(config.Defaults())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(func() { _ = a.close() })
	handler := a.httpServer().Handler

	tests := []struct {
		name         string
		method, path string
		hx           bool
		wantStatus   int
		wantLocation string
		wantRedirect string
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "login page is public", method: http.MethodGet, path: "/login", wantStatus: http.StatusOK},
		{name: "dashboard needs a session", method: http.MethodGet, path: "/", wantStatus: http.StatusSeeOther, wantLocation: "/login"},
		{name: "fragments redirect with htmx", method: http.MethodGet, path: "/teams", hx: true, wantStatus: http.StatusOK, wantRedirect: "/login"},
		{name: "sponsors need a session", method: http.MethodGet, path: "/sponsors", wantStatus: http.StatusSeeOther, wantLocation: "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.hx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Fatalf("Location = %q, want %q", got, tt.wantLocation)
			}
			if got := rec.Header().Get("HX-Redirect"); got != tt.wantRedirect {
				t.Fatalf("HX-Redirect = %q, want %q", got, tt.wantRedirect)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("missing request id")
			}
		})
	}
}
