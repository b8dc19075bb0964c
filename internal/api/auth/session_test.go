package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/models"
)

func TestSessionsExpire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewSessions(clock, time.Hour, true)

	var ended []string
	store.OnEnd(func(id string) { ended = append(ended, id) })

	rec := httptest.NewRecorder()
	session, err := store.Create(rec, models.Session{Token: "tok", User: models.User{ID: "u1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookie := rec.Result().Cookies()[0]
	if !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie flags %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if _, ok := store.FromRequest(req); !ok {
		t.Fatal("expected live session")
	}

	clock.Advance(time.Hour)
	if _, ok := store.Get(session.ID); ok {
		t.Fatal("session should expire at its deadline")
	}
	if len(ended) != 1 || ended[0] != session.ID {
		t.Fatalf("OnEnd calls = %v", ended)
	}
}

func TestSessionsPrune(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewSessions(clock, time.Minute, false)

	for i := 0; i < 3; i++ {
		if _, err := store.Create(httptest.NewRecorder(), models.Session{Token: "tok"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	clock.Advance(30 * time.Second)
	if _, err := store.Create(httptest.NewRecorder(), models.Session{Token: "tok"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	clock.Advance(45 * time.Second)
	if removed := store.Prune(); removed != 3 {
		t.Fatalf("Prune = %d, want 3", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
}

func TestSessionsCreateRequiresToken(t *testing.T) {
	store := NewSessions(nil, 0, false)
	if _, err := store.Create(httptest.NewRecorder(), models.Session{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestSessionsClear(t *testing.T) {
	store := NewSessions(clockwork.NewFakeClock(), 0, false)
	rec := httptest.NewRecorder()
	if _, err := store.Create(rec, models.Session{Token: "tok"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	out := httptest.NewRecorder()
	store.Clear(out, req)

	if store.Len() != 0 {
		t.Fatal("Clear should end the session")
	}
	cleared := out.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cleared)
	}
}
