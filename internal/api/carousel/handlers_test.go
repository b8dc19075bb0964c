package carousel

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/leaguedesk/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func setup(t *testing.T) (*testutil.Backend, *http.ServeMux) {
	t.Helper()
	backend := testutil.NewBackend(t)
	mux := http.NewServeMux()
	New(backend.Client().Carousels, 1<<16).Register(mux)
	backend.Handle(http.MethodGet, "/carousel/home", http.StatusOK, map[string]any{
		"carousel": map[string]any{
			"type":     "home",
			"isActive": true,
			"images": []map[string]any{
				{"url": "https://cdn.example.com/b.png", "title": "Second", "order": 2},
				{"url": "https://cdn.example.com/a.png", "title": "First", "order": 1},
			},
		},
	})
	return backend, mux
}

func multipartRequest(t *testing.T, target string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(FileInput, "slide.png")
		if err != nil {
			t.Fatal(err)
		}
		part.Write(file)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return req
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestGalleryPageOrdersSlides(t *testing.T) {
	_, mux := setup(t)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/gallery", nil))

	body := rec.Body.String()
	first, second := strings.Index(body, "First"), strings.Index(body, "Second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("slides not in order: %s", body)
	}
}

func TestAddImageRequiresFile(t *testing.T) {
	backend, mux := setup(t)

	rec := serve(mux, multipartRequest(t, "/gallery/images", map[string]string{"title": "Kickoff"}, nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Image is required.") {
		t.Fatalf("missing file error: %s", rec.Body.String())
	}
	if backend.CallCount(http.MethodPost, "/carousel/home/image") != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestAddImageRejectsNonImage(t *testing.T) {
	_, mux := setup(t)

	rec := serve(mux, multipartRequest(t, "/sponsors/images", map[string]string{"title": "Kit"}, []byte("plain text")))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "The file must be an image.") {
		t.Fatalf("missing error: %s", rec.Body.String())
	}
}

func TestAddImage(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodPost, "/carousel/home/image", http.StatusCreated, map[string]string{"message": "ok"})

	rec := serve(mux, multipartRequest(t, "/gallery/images", map[string]string{"title": "Kickoff", "link": "https://example.com"}, pngHeader))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	call, _ := backend.LastCall(http.MethodPost, "/carousel/home/image")
	if !strings.HasPrefix(call.ContentType, "multipart/form-data") {
		t.Fatalf("upload content type = %q", call.ContentType)
	}
	if !strings.Contains(string(call.Body), `name="file"; filename="slide.png"`) {
		t.Fatalf("file part missing from upload")
	}
	if !strings.Contains(rec.Body.String(), `id="carousel-images" hx-swap-oob="true"`) {
		t.Fatalf("expected refreshed grid: %s", rec.Body.String())
	}
}

func TestReplaceImageRemovesThenUploads(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodDelete, "/carousel/home/image", http.StatusOK, map[string]string{"message": "ok"})
	backend.Handle(http.MethodPost, "/carousel/home/image", http.StatusInternalServerError, map[string]string{"message": "Storage full"})
	fields := map[string]string{"title": "First", "replace": "https://cdn.example.com/a.png"}

	rec := serve(mux, multipartRequest(t, "/gallery/images", fields, pngHeader))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if backend.CallCount(http.MethodDelete, "/carousel/home/image") != 1 {
		t.Fatal("expected the old slide to be removed")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Add image") || strings.Contains(body, `name="replace"`) {
		t.Fatalf("failed replace should offer a fresh add: %s", body)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "Storage full") {
		t.Fatalf("trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestRemoveImage(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodDelete, "/carousel/home/image", http.StatusOK, map[string]string{"message": "ok"})

	req := httptest.NewRequest(http.MethodDelete, "/gallery/images?url=https%3A%2F%2Fcdn.example.com%2Fa.png", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(mux, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	call, _ := backend.LastCall(http.MethodDelete, "/carousel/home/image")
	if !strings.Contains(string(call.Body), `"imageUrl":"https://cdn.example.com/a.png"`) {
		t.Fatalf("remove body = %s", call.Body)
	}
}
