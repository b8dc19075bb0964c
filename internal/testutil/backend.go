package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/codr1/leaguedesk/internal/gateway"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Call is one request received by the fake backend.
type Call struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Auth        string
	Body        []byte
}

// Backend is a fake upstream API that records every call it receives.
type Backend struct {
	t      *testing.T
	server *httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

// NewBackend starts a fake upstream API that is closed with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{t: t, routes: make(map[string]http.HandlerFunc)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns a gateway client pointed at the backend.
func (b *Backend) Client() *gateway.Client {
	return gateway.New(gateway.Config{BaseURL: b.server.URL})
}

// Handle answers method+path with status and body encoded as JSON.
func (b *Backend) Handle(method, path string, status int, body any) {
	b.HandleFunc(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

func (b *Backend) HandleFunc(method, path string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = handler
}

func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount counts calls to method+path. An empty method matches any.
func (b *Backend) CallCount(method, path string) int {
	count := 0
	for _, call := range b.Calls() {
		if (method == "" || call.Method == method) && call.Path == path {
			count++
		}
	}
	return count
}

// LastCall returns the most recent call to method+path.
func (b *Backend) LastCall(method, path string) (Call, bool) {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
		Body:        body,
	})
	handler, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	handler(w, r)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
