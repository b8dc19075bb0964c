package auth

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/models"
)

const (
	sessionCookieName = "leaguedesk_session"
	DefaultSessionTTL = 12 * time.Hour
)

// Session is the server-side record behind the session cookie. The upstream
// bearer token never leaves the server.
type Session struct {
	ID        string
	Token     string
	User      models.User
	ExpiresAt time.Time
}

// Sessions is the in-memory session store.
type Sessions struct {
	clock  clockwork.Clock
	ttl    time.Duration
	secure bool

	mu       sync.RWMutex
	sessions map[string]Session
	onEnd    []func(sessionID string)
}

func NewSessions(clock clockwork.Clock, ttl time.Duration, secure bool) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		clock:    clock,
		ttl:      ttl,
		secure:   secure,
		sessions: make(map[string]Session),
	}
}

// OnEnd registers fn to run whenever a session is cleared or expires.
func (s *Sessions) OnEnd(fn func(sessionID string)) {
	s.mu.Lock()
	s.onEnd = append(s.onEnd, fn)
	s.mu.Unlock()
}

// Create stores login and sets the session cookie.
func (s *Sessions) Create(w http.ResponseWriter, login models.Session) (Session, error) {
	if w == nil {
		return Session{}, errors.New("session requires response writer")
	}
	if login.Token == "" {
		return Session{}, errors.New("session requires a token")
	}

	session := Session{
		ID:        uuid.NewString(),
		Token:     login.Token,
		User:      login.User,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return session, nil
}

// FromRequest returns the live session referenced by the request cookie.
func (s *Sessions) FromRequest(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	return s.Get(cookie.Value)
}

func (s *Sessions) Get(id string) (Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if !session.ExpiresAt.After(s.clock.Now()) {
		s.End(id)
		return Session{}, false
	}
	return session, true
}

// End deletes the session and notifies OnEnd listeners.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	listeners := append([]func(string){}, s.onEnd...)
	s.mu.Unlock()

	if ok {
		for _, fn := range listeners {
			fn(id)
		}
	}
}

// Clear ends the request's session and expires its cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	if r != nil {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			s.End(cookie.Value)
		}
	}
	s.ClearCookie(w)
}

func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// Prune drops expired sessions and returns how many were removed. It runs
// from the scheduler.
func (s *Sessions) Prune() int {
	now := s.clock.Now()
	s.mu.RLock()
	var expired []string
	for id, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range expired {
		s.End(id)
	}
	return len(expired)
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
