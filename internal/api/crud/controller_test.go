package crud

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

type club struct {
	ID   string
	Name string
	Logo string
}

type clubDraft struct {
	Name string
	Logo *forms.Upload
}

func (d clubDraft) Validate() forms.Errors {
	var errs forms.Errors
	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", "Name is required.")
	}
	return errs
}

func (d clubDraft) Payload() *gateway.Payload {
	payload := gateway.JSONPayload(map[string]string{"name": d.Name})
	if d.Logo != nil {
		payload.Attach(d.Logo.File())
	}
	return payload
}

const (
	firstID  = "64b000000000000000000001"
	secondID = "64b000000000000000000002"
)

type clubBackend struct {
	mu        sync.Mutex
	clubs     []club
	fetches   int
	sent      []*gateway.Payload
	createErr error
	deleteErr error
	mutated   int
}

func (b *clubBackend) list(_ context.Context, params gateway.ListParams) (gateway.Page[club], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	var matched []club
	for _, c := range b.clubs {
		if params.Search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(params.Search)) {
			matched = append(matched, c)
		}
	}
	start := (params.Page - 1) * params.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return gateway.Page[club]{Items: matched[start:end], Page: params.Page, Limit: params.Limit, Total: len(matched)}, nil
}

func newClubController(t *testing.T, backend *clubBackend) *http.ServeMux {
	t.Helper()
	registry := listing.NewRegistry(nil, func() *listing.Store[club] {
		return listing.NewStore(backend.list, listing.Options{Name: "clubs", Limit: 2})
	})
	entity := Entity[club, clubDraft]{
		Name:     "clubs",
		Title:    "Clubs",
		Singular: "club",
		Registry: registry,
		ID:       func(c club) string { return c.ID },
		Get: func(_ context.Context, id string) (*club, error) {
			backend.mu.Lock()
			defer backend.mu.Unlock()
			for _, c := range backend.clubs {
				if c.ID == id {
					found := c
					return &found, nil
				}
			}
			return nil, nil
		},
		Create: func(_ context.Context, payload *gateway.Payload) error {
			backend.mu.Lock()
			defer backend.mu.Unlock()
			if backend.createErr != nil {
				return backend.createErr
			}
			backend.sent = append(backend.sent, payload)
			name := payload.Body.(map[string]string)["name"]
			backend.clubs = append(backend.clubs, club{ID: "64b0000000000000000000ff", Name: name})
			return nil
		},
		Update: func(_ context.Context, id string, payload *gateway.Payload) error {
			backend.mu.Lock()
			defer backend.mu.Unlock()
			backend.sent = append(backend.sent, payload)
			for i := range backend.clubs {
				if backend.clubs[i].ID == id {
					backend.clubs[i].Name = payload.Body.(map[string]string)["name"]
				}
			}
			return nil
		},
		Delete: func(_ context.Context, id string) error {
			backend.mu.Lock()
			defer backend.mu.Unlock()
			if backend.deleteErr != nil {
				return backend.deleteErr
			}
			for i := range backend.clubs {
				if backend.clubs[i].ID == id {
					backend.clubs = append(backend.clubs[:i], backend.clubs[i+1:]...)
					return nil
				}
			}
			return gateway.ErrNotFound
		},
		Blank:       func(*http.Request) clubDraft { return clubDraft{} },
		From:        func(c club) clubDraft { return clubDraft{Name: c.Name} },
		Decode:      func(values url.Values) clubDraft { return clubDraft{Name: values.Get("name")} },
		UploadField: "logo",
		Attach:      func(d *clubDraft, upload *forms.Upload) { d.Logo = upload },
		AfterMutation: func(context.Context) {
			backend.mutated++
		},
		Views: Views[club, clubDraft]{
			Table: func(_ ui.ListNav, state listing.State[club]) templ.Component {
				return ui.Component(func(_ context.Context, w *ui.Writer) {
					for _, c := range state.Items {
						w.Raw(`<tr>`)
						w.Tag("td", c.Name)
						w.Raw(`</tr>`)
					}
				})
			},
			Form: func(_ context.Context, view FormView[clubDraft]) templ.Component {
				return ui.FormBody(view.Form,
					ui.TextInput(ui.Input{Name: "name", Label: "Name", Value: view.Draft.Name, Error: view.Errors.Get("name")}),
					ui.FileInput(ui.Input{Name: forms.ImageInput, Label: "Logo", Error: view.Errors.Get(forms.ImageInput)}, ""),
				)
			},
			Detail: func(_ context.Context, c club) templ.Component {
				return ui.Component(func(_ context.Context, w *ui.Writer) { w.Tag("p", c.Name) })
			},
		},
	}

	mux := http.NewServeMux()
	New(entity, Settings{MaxUploadBytes: 1 << 10, LimitOptions: []int{2, 5}}).Register(mux)
	return mux
}

func seededBackend() *clubBackend {
	return &clubBackend{clubs: []club{
		{ID: firstID, Name: "Alpha FC"},
		{ID: secondID, Name: "Beta United"},
		{ID: "64b000000000000000000003", Name: "Gamma Town"},
	}}
}

func serve(mux *http.ServeMux, req *http.Request, hx bool) *httptest.ResponseRecorder {
	if hx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandlePageRendersFirstPage(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs", nil), false)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>Clubs</h1>", "Alpha FC", "Beta United", `id="clubs-list"`, "Showing 1–2 of 3"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Gamma Town") {
		t.Error("second page row rendered on the first page")
	}
}

func TestHandleListActions(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	tests := []struct {
		name    string
		query   string
		want    string
		notWant string
	}{
		{name: "next page", query: "page=2", want: "Gamma Town", notWant: "Alpha FC"},
		{name: "search resets to page 1", query: "q=beta", want: "Beta United", notWant: "Gamma Town"},
		{name: "no matches", query: "q=zzz", want: "No clubs match your search."},
		{name: "clear search", query: "q=", want: "Alpha FC"},
		{name: "limit", query: "limit=5", want: "Gamma Town"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/list?"+tt.query, nil), true)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("fragment missing %q: %s", tt.want, body)
			}
			if tt.notWant != "" && strings.Contains(body, tt.notWant) {
				t.Errorf("fragment should not contain %q", tt.notWant)
			}
			if strings.Contains(body, "<!DOCTYPE html>") {
				t.Error("fragment rendered the full layout")
			}
		})
	}
}

func TestHandleListJSON(t *testing.T) {
	mux := newClubController(t, seededBackend())

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/list", nil), false)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"total":3`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestHandleCreateValidation(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	rec := serve(mux, formRequest(http.MethodPost, "/clubs", url.Values{"name": {"  "}}), true)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Name is required.") {
		t.Fatalf("missing field error: %s", rec.Body.String())
	}
	if len(backend.sent) != 0 {
		t.Fatal("invalid draft reached the backend")
	}
}

func TestHandleCreateSuccess(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)
	serve(mux, httptest.NewRequest(http.MethodGet, "/clubs", nil), false)
	before := backend.fetches

	rec := serve(mux, formRequest(http.MethodPost, "/clubs", url.Values{"name": {"Delta"}}), true)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "closeModal") || !strings.Contains(trigger, "Club created.") {
		t.Fatalf("HX-Trigger = %s", trigger)
	}
	if !strings.Contains(rec.Body.String(), `hx-swap-oob="true"`) {
		t.Fatal("list should be refreshed out of band")
	}
	if backend.fetches != before+1 {
		t.Fatalf("fetches = %d, want one refresh after create", backend.fetches-before)
	}
	if backend.mutated != 1 {
		t.Fatalf("AfterMutation calls = %d", backend.mutated)
	}
}

func TestHandleCreateUpstreamRejection(t *testing.T) {
	backend := seededBackend()
	backend.createErr = &gateway.APIError{Status: http.StatusBadRequest, Message: "Code already used"}
	mux := newClubController(t, backend)

	rec := serve(mux, formRequest(http.MethodPost, "/clubs", url.Values{"name": {"Delta"}}), true)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Code already used") {
		t.Fatalf("upstream message missing: %s", rec.Body.String())
	}
	if backend.mutated != 0 {
		t.Fatal("AfterMutation ran for a failed create")
	}
}

func TestHandleCreateUnauthorized(t *testing.T) {
	backend := seededBackend()
	backend.createErr = &gateway.APIError{Status: http.StatusUnauthorized, Message: "expired"}
	mux := newClubController(t, backend)

	rec := serve(mux, formRequest(http.MethodPost, "/clubs", url.Values{"name": {"Delta"}}), true)

	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Fatalf("HX-Redirect = %q, want /login", got)
	}
}

func TestHandleCreateRejectsNonImage(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "Delta")
	part, _ := mw.CreateFormFile(forms.ImageInput, "notes.txt")
	part.Write([]byte("plain text"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/clubs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := serve(mux, req, true)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "must be an image") {
		t.Fatalf("missing file error: %s", rec.Body.String())
	}
	if len(backend.sent) != 0 {
		t.Fatal("rejected upload reached the backend")
	}
}

func TestHandleEditAndUpdate(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/"+firstID+"/edit", nil), true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="Alpha FC"`) {
		t.Fatalf("edit form: status %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `hx-put="/clubs/`+firstID+`"`) {
		t.Fatal("edit form should PUT to the item")
	}

	rec = serve(mux, formRequest(http.MethodPut, "/clubs/"+firstID, url.Values{"name": {"Alpha Renamed"}}), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Alpha Renamed") {
		t.Fatal("refreshed list should show the new name")
	}
}

func TestHandleEditMissing(t *testing.T) {
	mux := newClubController(t, seededBackend())

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/64b0000000000000000000aa/edit", nil), true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/not-an-id/edit", nil), true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteLastRowStepsBack(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)
	serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/list?page=2", nil), true)

	rec := serve(mux, httptest.NewRequest(http.MethodDelete, "/clubs/64b000000000000000000003", nil), true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Alpha FC") || !strings.Contains(body, "Beta United") {
		t.Fatalf("expected page 1 after removing the only row of page 2: %s", body)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "Club deleted.") {
		t.Fatalf("HX-Trigger = %s", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleDeleteAlreadyGone(t *testing.T) {
	backend := seededBackend()
	mux := newClubController(t, backend)

	rec := serve(mux, httptest.NewRequest(http.MethodDelete, "/clubs/64b0000000000000000000aa", nil), true)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "no longer exists") {
		t.Fatalf("HX-Trigger = %s", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleDeleteFailure(t *testing.T) {
	backend := seededBackend()
	backend.deleteErr = errors.Join(gateway.ErrUnavailable, errors.New("dial tcp"))
	mux := newClubController(t, backend)

	rec := serve(mux, httptest.NewRequest(http.MethodDelete, "/clubs/"+firstID, nil), true)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if len(backend.clubs) != 3 {
		t.Fatal("failed delete must leave the rows")
	}
}

func TestHandleDetail(t *testing.T) {
	mux := newClubController(t, seededBackend())

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/"+secondID, nil), true)
	if !strings.Contains(rec.Body.String(), "<p>Beta United</p>") {
		t.Fatalf("detail modal: %s", rec.Body.String())
	}

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/clubs/"+secondID, nil), false)
	if !strings.Contains(rec.Body.String(), `"Name":"Beta United"`) {
		t.Fatalf("detail JSON: %s", rec.Body.String())
	}
}
