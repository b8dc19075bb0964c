package sidebar

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/codr1/leaguedesk/internal/testutil"
)

func setup(t *testing.T) (*testutil.Backend, *http.ServeMux) {
	t.Helper()
	backend := testutil.NewBackend(t)
	mux := http.NewServeMux()
	New(backend.Client().Sidebar).Register(mux)
	return backend, mux
}

func hxPut(mux *http.ServeMux, target, content string) *httptest.ResponseRecorder {
	values := url.Values{"content": {content}}
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestTermsPageLoadsConditionSection(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodGet, "/sidebar/condition", http.StatusOK, map[string]any{
		"sidebar": map[string]string{"content": "Play fair & respect referees."},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terms", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Terms of use", "Play fair &amp; respect referees.", `hx-put="/terms"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestAboutPageMissingSectionIsEmpty(t *testing.T) {
	_, mux := setup(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Could not load") {
		t.Fatalf("missing section should not show an error")
	}
}

func TestSave(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		upstream   int
		wantStatus int
		wantCalls  int
		wantText   string
	}{
		{name: "saved", content: "Founded in 1921.", upstream: http.StatusOK, wantStatus: http.StatusOK, wantCalls: 1, wantText: "Founded in 1921."},
		{name: "blank", content: "   ", upstream: http.StatusOK, wantStatus: http.StatusUnprocessableEntity, wantCalls: 0, wantText: "Content is required."},
		{name: "rejected", content: "x", upstream: http.StatusBadRequest, wantStatus: http.StatusUnprocessableEntity, wantCalls: 1, wantText: "Content too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, mux := setup(t)
			backend.Handle(http.MethodPut, "/sidebar/about", tt.upstream, map[string]string{"message": "Content too short"})

			rec := hxPut(mux, "/about", tt.content)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := backend.CallCount(http.MethodPut, "/sidebar/about"); got != tt.wantCalls {
				t.Fatalf("upstream calls = %d, want %d", got, tt.wantCalls)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Fatalf("body missing %q: %s", tt.wantText, rec.Body.String())
			}
		})
	}
}

func TestSaveSendsContent(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodPut, "/sidebar/about", http.StatusOK, map[string]string{"message": "ok"})

	rec := hxPut(mux, "/about", "Founded in 1921.")

	call, _ := backend.LastCall(http.MethodPut, "/sidebar/about")
	if string(call.Body) != `{"content":"Founded in 1921."}` {
		t.Fatalf("body = %s", call.Body)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "About saved.") {
		t.Fatalf("trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}
