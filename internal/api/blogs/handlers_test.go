package blogs

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/testutil"
)

const blogID = "64b0000000000000000000c1"

func setup(t *testing.T) (*testutil.Backend, *http.ServeMux) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client := backend.Client()
	mux := http.NewServeMux()
	New(client, NewRegistry(nil, client, 10), crud.Settings{MaxUploadBytes: 1 << 16}).Register(mux)
	return backend, mux
}

func hxPost(mux *http.ServeMux, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func blogResponse(views int, comments ...map[string]string) map[string]any {
	return map[string]any{"blog": map[string]any{
		"_id":        blogID,
		"title":      "Derby day",
		"type":       models.BlogTypes[1],
		"author":     "Desk",
		"content":    "Report",
		"viewsCount": views,
		"comments":   comments,
	}}
}

func TestCreateBlogRejectsUnknownType(t *testing.T) {
	backend, mux := setup(t)
	values := url.Values{"type": {"Gossip"}, "title": {"T"}, "author": {"A"}, "content": {"C"}}

	rec := hxPost(mux, "/blogs", values)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid blog type.") {
		t.Fatalf("missing error: %s", rec.Body.String())
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("backend calls = %d, want 0", len(backend.Calls()))
	}
}

func TestCreateBlog(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodPost, "/blogs", http.StatusCreated, blogResponse(0))
	backend.Handle(http.MethodGet, "/blogs", http.StatusOK, map[string]any{"blogs": []any{blogResponse(0)["blog"]}})
	values := url.Values{"type": {models.BlogTypes[0]}, "title": {"Derby day"}, "author": {"Desk"}, "content": {"Report"}}

	rec := hxPost(mux, "/blogs", values)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	call, _ := backend.LastCall(http.MethodPost, "/blogs")
	var body map[string]string
	if err := jsoniter.Unmarshal(call.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["title"] != "Derby day" || body["type"] != models.BlogTypes[0] {
		t.Fatalf("unexpected body %v", body)
	}
	if !strings.Contains(rec.Body.String(), `id="blogs-list" hx-swap-oob="true"`) {
		t.Fatalf("expected refreshed list: %s", rec.Body.String())
	}
}

func TestBlogDetailCountsView(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodGet, "/blogs/"+blogID, http.StatusOK, blogResponse(4, map[string]string{"author": "Sam", "comment": "Great match"}))
	backend.Handle(http.MethodPost, "/blogs/"+blogID+"/views", http.StatusOK, map[string]string{"message": "ok"})

	req := httptest.NewRequest(http.MethodGet, "/blogs/"+blogID, nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{"Great match", `hx-post="/blogs/` + blogID + `/views"`, "Comments (1)"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	if backend.CallCount(http.MethodPost, "/blogs/"+blogID+"/views") != 0 {
		t.Fatal("opening the modal must not count a view by itself")
	}

	views := hxPost(mux, "/blogs/"+blogID+"/views", url.Values{})
	if !strings.Contains(views.Body.String(), "4 views") {
		t.Fatalf("view count = %s", views.Body.String())
	}
	if backend.CallCount(http.MethodPost, "/blogs/"+blogID+"/views") != 1 {
		t.Fatal("expected one increment")
	}
}

func TestAddComment(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		status int
		posts  int
		want   string
	}{
		{name: "valid", values: url.Values{"author": {"Sam"}, "comment": {"Great match"}}, status: http.StatusCreated, posts: 1, want: "Great match"},
		{name: "missing comment", values: url.Values{"author": {"Sam"}}, status: http.StatusUnprocessableEntity, posts: 0, want: "Comment is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, mux := setup(t)
			backend.Handle(http.MethodPost, "/blogs/"+blogID+"/comments", http.StatusCreated, map[string]string{"message": "ok"})
			backend.Handle(http.MethodGet, "/blogs/"+blogID, http.StatusOK, blogResponse(0, map[string]string{"author": "Sam", "comment": "Great match"}))

			rec := hxPost(mux, "/blogs/"+blogID+"/comments", tt.values)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("missing %q in %s", tt.want, rec.Body.String())
			}
			if got := backend.CallCount(http.MethodPost, "/blogs/"+blogID+"/comments"); got != tt.posts {
				t.Fatalf("comment posts = %d, want %d", got, tt.posts)
			}
		})
	}
}
