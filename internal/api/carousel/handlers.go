// Package carousel serves the home gallery and sponsor image carousels.
package carousel

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

// FileInput is the name of the image input of the carousel forms.
const FileInput = "file"

// Screen is one carousel page of the console.
type Screen struct {
	Path  string
	Title string
	Kind  models.CarouselKind
}

// Screens are the carousels the console manages.
var Screens = []Screen{
	{Path: "/gallery", Title: "Gallery", Kind: models.CarouselHome},
	{Path: "/sponsors", Title: "Sponsors", Kind: models.CarouselSponsors},
}

// Store is the slice of the gateway the carousel screens use.
type Store interface {
	Get(ctx context.Context, kind models.CarouselKind) (models.Carousel, error)
	AddImage(ctx context.Context, kind models.CarouselKind, upload gateway.ImageUpload) error
	ReplaceImage(ctx context.Context, kind models.CarouselKind, oldURL string, upload gateway.ImageUpload) error
	RemoveImage(ctx context.Context, kind models.CarouselKind, imageURL string) error
}

type Handler struct {
	store          Store
	maxUploadBytes int64
}

func New(store Store, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = forms.DefaultMaxUploadBytes
	}
	return &Handler{store: store, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) Register(mux *http.ServeMux) {
	for _, s := range Screens {
		mux.HandleFunc("GET "+s.Path, func(w http.ResponseWriter, r *http.Request) { h.HandlePage(w, r, s) })
		mux.HandleFunc("GET "+s.Path+"/images/new", func(w http.ResponseWriter, r *http.Request) { h.HandleForm(w, r, s) })
		mux.HandleFunc("POST "+s.Path+"/images", func(w http.ResponseWriter, r *http.Request) { h.HandleSave(w, r, s) })
		mux.HandleFunc("GET "+s.Path+"/images/delete", func(w http.ResponseWriter, r *http.Request) { h.HandleConfirmRemove(w, r, s) })
		mux.HandleFunc("DELETE "+s.Path+"/images", func(w http.ResponseWriter, r *http.Request) { h.HandleRemove(w, r, s) })
	}
}

// HandlePage handles GET /{screen}.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request, s Screen) {
	ctx := r.Context()
	carousel, err := h.store.Get(ctx, s.Kind)
	if apiutil.Unauthorized(w, r, err) {
		return
	}
	if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		log.Ctx(ctx).Error().Err(err).Str("carousel", string(s.Kind)).Msg("Failed to load carousel")
	} else {
		err = nil
	}
	if !htmx.IsRequest(r) && strings.Contains(r.Header.Get("Accept"), "application/json") {
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		_ = apiutil.WriteJSON(w, http.StatusOK, carousel)
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, s.Title, strings.TrimPrefix(s.Path, "/"), page(s, carousel, err))
}

// HandleForm handles GET /{screen}/images/new, with ?replace= for replacing
// an existing slide.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request, s Screen) {
	view := imageView{Screen: s, Draft: forms.CarouselImageDraft{
		Kind:       s.Kind,
		Title:      r.URL.Query().Get("title"),
		Link:       r.URL.Query().Get("link"),
		ReplaceURL: r.URL.Query().Get("replace"),
	}}
	h.renderForm(w, r, http.StatusOK, view)
}

// HandleSave handles POST /{screen}/images: adds a slide, or replaces the
// slide named by the replace field. A replacement whose upload fails leaves
// the old slide removed, so the screen reloads from upstream either way.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request, s Screen) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	values, multipartForm, err := apiutil.ParseForm(w, r, h.maxUploadBytes)
	defer apiutil.CleanupForm(multipartForm)
	if err != nil && !errors.Is(err, forms.ErrFileTooLarge) {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	view := imageView{Screen: s, Draft: forms.DecodeCarouselImageDraft(s.Kind, values)}
	if errors.Is(err, forms.ErrFileTooLarge) {
		view.Errors.Add(FileInput, "The file is too large.")
		h.renderForm(w, r, http.StatusRequestEntityTooLarge, view)
		return
	}
	upload, err := forms.ReadUpload(multipartForm, FileInput, FileInput, h.maxUploadBytes)
	if err != nil {
		status, message := http.StatusUnprocessableEntity, "The file must be an image."
		if errors.Is(err, forms.ErrFileTooLarge) {
			status, message = http.StatusRequestEntityTooLarge, "The file is too large."
		}
		view.Errors.Add(FileInput, message)
		h.renderForm(w, r, status, view)
		return
	}
	view.Draft.File = upload

	if errs := view.Draft.Validate(); !errs.OK() {
		view.Errors = errs
		h.renderForm(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	replacing := view.Draft.ReplaceURL != ""
	if replacing {
		err = h.store.ReplaceImage(ctx, s.Kind, view.Draft.ReplaceURL, view.Draft.Upload())
	} else {
		err = h.store.AddImage(ctx, s.Kind, view.Draft.Upload())
	}
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case err != nil:
		status := apiutil.UpstreamStatus(err)
		logger.Error().Err(err).Str("carousel", string(s.Kind)).Bool("replace", replacing).Int("status", status).Msg("Failed to save carousel image")
		view.Error = apiutil.UpstreamMessage(err, "Could not save the image.")
		if status == http.StatusRequestEntityTooLarge {
			view.Errors.Add(FileInput, "The file is too large.")
		}
		if replacing {
			// The old slide may already be gone: show the grid as upstream
			// has it and offer the upload again as a new slide.
			htmx.Failure(w, view.Error)
			view.Draft.ReplaceURL = ""
			if htmx.IsRequest(r) {
				status = http.StatusOK
			}
			h.respondImages(w, r, status, s, &view)
			return
		}
		if status >= 500 {
			htmx.Failure(w, view.Error)
		}
		h.renderForm(w, r, status, view)
		return
	}

	message := "Image added."
	if replacing {
		message = "Image replaced."
	}
	logger.Info().Str("carousel", string(s.Kind)).Bool("replace", replacing).Msg(message)
	htmx.Success(w, message)
	status := http.StatusCreated
	if replacing {
		status = http.StatusOK
	}
	h.respondImages(w, r, status, s, nil)
}

// HandleConfirmRemove handles GET /{screen}/images/delete?url=.
func (h *Handler) HandleConfirmRemove(w http.ResponseWriter, r *http.Request, s Screen) {
	imageURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if imageURL == "" {
		http.Error(w, "missing image url", http.StatusBadRequest)
		return
	}
	body := ui.Confirm("Remove this image from the carousel?", removeURL(s, imageURL))
	apiutil.RenderHTMLComponent(r.Context(), w, ui.Modal("Remove image", body), nil,
		"Failed to render remove confirmation", "Failed to render confirmation")
}

// HandleRemove handles DELETE /{screen}/images?url=.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request, s Screen) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	imageURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if imageURL == "" {
		http.Error(w, "missing image url", http.StatusBadRequest)
		return
	}
	err := h.store.RemoveImage(ctx, s.Kind, imageURL)
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case errors.Is(err, gateway.ErrNotFound):
		logger.Warn().Str("carousel", string(s.Kind)).Msg("Carousel image already gone")
		htmx.Trigger(w, map[string]any{
			htmx.EventCloseModal: true,
			htmx.EventShowToast:  htmx.Toast{Message: "This image no longer exists.", Level: "error"},
		})
	case err != nil:
		logger.Error().Err(err).Str("carousel", string(s.Kind)).Msg("Failed to remove carousel image")
		message := apiutil.UpstreamMessage(err, "Could not remove the image.")
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
			w.WriteHeader(apiutil.UpstreamStatus(err))
			return
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: apiutil.UpstreamStatus(err), Message: message, Err: err})
		return
	default:
		logger.Info().Str("carousel", string(s.Kind)).Msg("Carousel image removed")
		htmx.Success(w, "Image removed.")
	}
	h.respondImages(w, r, http.StatusOK, s, nil)
}

// respondImages answers with the reloaded image grid, swapped out of band.
// A non-nil form is rendered in the modal alongside it.
func (h *Handler) respondImages(w http.ResponseWriter, r *http.Request, status int, s Screen, form *imageView) {
	ctx := r.Context()
	carousel, err := h.store.Get(ctx, s.Kind)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("carousel", string(s.Kind)).Msg("Failed to reload carousel")
	}
	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, status, carousel); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write carousel response")
		}
		return
	}
	body := images(s, carousel, err, true)
	if form != nil {
		body = ui.Component(func(ctx context.Context, w *ui.Writer) {
			w.Render(ctx, ui.Modal(formTitle(*form), imageForm(*form)))
			w.Render(ctx, images(s, carousel, err, true))
		})
	}
	apiutil.RenderHTML(ctx, w, status, body, nil, "Failed to render carousel", "Failed to render carousel")
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, view imageView) {
	ctx := r.Context()
	if !htmx.IsRequest(r) && status >= 400 {
		payload := map[string]any{"error": view.Error}
		if !view.Errors.OK() {
			payload["fields"] = view.Errors.Map()
		}
		if err := apiutil.WriteJSON(w, status, payload); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write carousel form errors")
		}
		return
	}
	apiutil.RenderHTML(ctx, w, status, ui.Modal(formTitle(view), imageForm(view)), nil,
		"Failed to render carousel form", "Failed to render form")
}
