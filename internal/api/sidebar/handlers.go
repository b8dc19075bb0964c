// Package sidebar edits the about and terms of use documents shown in the
// public site's sidebar.
package sidebar

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
)

// Document is one editable sidebar page of the console.
type Document struct {
	Path    string
	Title   string
	Section models.SidebarSection
}

var Documents = []Document{
	{Path: "/about", Title: "About", Section: models.SidebarAbout},
	{Path: "/terms", Title: "Terms of use", Section: models.SidebarCondition},
}

type Store interface {
	Get(ctx context.Context, section models.SidebarSection) (models.SidebarPage, error)
	Update(ctx context.Context, section models.SidebarSection, content string) error
}

type Handler struct {
	store Store
}

func New(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(mux *http.ServeMux) {
	for _, doc := range Documents {
		mux.HandleFunc("GET "+doc.Path, func(w http.ResponseWriter, r *http.Request) { h.HandlePage(w, r, doc) })
		mux.HandleFunc("PUT "+doc.Path, func(w http.ResponseWriter, r *http.Request) { h.HandleSave(w, r, doc) })
	}
}

// HandlePage handles GET /about and GET /terms. A section upstream has
// never stored opens as an empty editor.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request, doc Document) {
	ctx := r.Context()
	page, err := h.store.Get(ctx, doc.Section)
	if apiutil.Unauthorized(w, r, err) {
		return
	}
	view := editorView{Document: doc, Draft: forms.SidebarDraft{Section: doc.Section, Content: page.Content}}
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			err = nil
		} else {
			log.Ctx(ctx).Error().Err(err).Str("section", string(doc.Section)).Msg("Failed to load sidebar document")
			view.Error = apiutil.UpstreamMessage(err, "Could not load the document.")
		}
	}
	if !htmx.IsRequest(r) && strings.Contains(r.Header.Get("Accept"), "application/json") {
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		_ = apiutil.WriteJSON(w, http.StatusOK, page)
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, doc.Title, strings.TrimPrefix(doc.Path, "/"), editorPage(view))
}

// HandleSave handles PUT /about and PUT /terms.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request, doc Document) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	values, multipartForm, err := apiutil.ParseForm(w, r, 0)
	defer apiutil.CleanupForm(multipartForm)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	draft := forms.SidebarDraft{Section: doc.Section, Content: values.Get("content")}
	view := editorView{Document: doc, Draft: draft}

	errs, err := forms.Submit(ctx, draft, func(ctx context.Context, _ *gateway.Payload) error {
		return h.store.Update(ctx, draft.Section, draft.Content)
	})
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case err != nil:
		status := apiutil.UpstreamStatus(err)
		logger.Error().Err(err).Str("section", string(doc.Section)).Int("status", status).Msg("Failed to save sidebar document")
		view.Error = apiutil.UpstreamMessage(err, "Could not save the document.")
		if status >= 500 {
			htmx.Failure(w, view.Error)
		}
		h.renderEditor(w, r, status, view)
		return
	case !errs.OK():
		view.Errors = errs
		h.renderEditor(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	logger.Info().Str("section", string(doc.Section)).Msg("Sidebar document saved")
	htmx.Trigger(w, map[string]any{htmx.EventShowToast: htmx.Toast{Message: doc.Title + " saved.", Level: "success"}})
	h.renderEditor(w, r, http.StatusOK, view)
}

func (h *Handler) renderEditor(w http.ResponseWriter, r *http.Request, status int, view editorView) {
	ctx := r.Context()
	if !htmx.IsRequest(r) {
		payload := map[string]any{"section": view.Draft.Section, "content": view.Draft.Content}
		if status >= 400 {
			payload = map[string]any{"error": view.Error}
			if !view.Errors.OK() {
				payload["fields"] = view.Errors.Map()
			}
		}
		if err := apiutil.WriteJSON(w, status, payload); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write sidebar response")
		}
		return
	}
	apiutil.RenderHTML(ctx, w, status, editor(view), nil, "Failed to render sidebar editor", "Failed to render editor")
}
