// Package blogs serves the blog screen, its comments and view counter.
package blogs

import (
	"context"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

const LogoField = "logo"

type Handler struct {
	list     *crud.Controller[models.Blog, forms.BlogDraft]
	client   *gateway.Client
	settings crud.Settings
}

func NewRegistry(clock clockwork.Clock, client *gateway.Client, limit int) *listing.Registry[models.Blog] {
	return listing.NewRegistry(clock, func() *listing.Store[models.Blog] {
		return listing.NewStore(client.Blogs.List, listing.Options{
			Name:      "blogs",
			Limit:     limit,
			SortBy:    "date",
			SortOrder: gateway.SortDesc,
		})
	})
}

func New(client *gateway.Client, registry *listing.Registry[models.Blog], settings crud.Settings) *Handler {
	list := crud.New(crud.Entity[models.Blog, forms.BlogDraft]{
		Name:     "blogs",
		Title:    "Blogs",
		Singular: "blog",
		Registry: registry,
		ID:       func(b models.Blog) string { return b.ID },
		Get:      client.Blogs.Get,
		Create: func(ctx context.Context, payload *gateway.Payload) error {
			_, err := client.Blogs.Create(ctx, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload *gateway.Payload) error {
			_, err := client.Blogs.Update(ctx, id, payload)
			return err
		},
		Delete:      client.Blogs.Delete,
		Blank:       func(*http.Request) forms.BlogDraft { return forms.BlankBlogDraft() },
		From:        forms.BlogDraftFrom,
		Decode:      forms.DecodeBlogDraft,
		UploadField: LogoField,
		Attach:      func(d *forms.BlogDraft, upload *forms.Upload) { d.LogoFile = upload },
		Views: crud.Views[models.Blog, forms.BlogDraft]{
			Table:  table,
			Form:   form,
			Detail: detail,
		},
	}, settings)
	return &Handler{list: list, client: client, settings: settings}
}

func (h *Handler) Register(mux *http.ServeMux) {
	h.list.Register(mux)
	mux.HandleFunc("POST /blogs/{id}/views", h.HandleView)
	mux.HandleFunc("POST /blogs/{id}/comments", h.HandleComment)
}

// HandleView handles POST /blogs/{id}/views: it counts one view and answers
// with the new count.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = h.client.Blogs.IncrementViews(ctx, id)
	if apiutil.Unauthorized(w, r, err) {
		return
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("blog_id", id).Msg("Failed to count blog view")
		apiutil.WriteError(w, r, err)
		return
	}
	blog, err := h.client.Blogs.Get(ctx, id)
	if err != nil || blog == nil {
		log.Ctx(ctx).Warn().Err(err).Str("blog_id", id).Msg("Failed to reload blog views")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !htmx.IsRequest(r) {
		_ = apiutil.WriteJSON(w, http.StatusOK, map[string]int{"viewsCount": blog.ViewsCount})
		return
	}
	apiutil.RenderHTMLComponent(ctx, w, viewCount(*blog), nil, "Failed to render view count", "Failed to render")
}

// HandleComment handles POST /blogs/{id}/comments.
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	values, multipartForm, err := apiutil.ParseForm(w, r, h.settings.MaxUploadBytes)
	defer apiutil.CleanupForm(multipartForm)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	draft := forms.DecodeCommentDraft(values)
	errs, err := forms.Submit(ctx, draft, func(ctx context.Context, _ *gateway.Payload) error {
		return h.client.Blogs.AddComment(ctx, id, draft.BlogComment())
	})

	view := commentView{BlogID: id, Draft: draft, Errors: errs}
	status := http.StatusCreated
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case err != nil:
		status = apiutil.UpstreamStatus(err)
		logger.Error().Err(err).Str("blog_id", id).Int("status", status).Msg("Failed to add comment")
		view.Error = apiutil.UpstreamMessage(err, "Could not add the comment.")
		if status >= 500 {
			htmx.Failure(w, view.Error)
		}
	case !errs.OK():
		status = http.StatusUnprocessableEntity
	default:
		logger.Info().Str("blog_id", id).Msg("Comment added")
		htmx.Trigger(w, map[string]any{htmx.EventShowToast: htmx.Toast{Message: "Comment added.", Level: "success"}})
		view.Draft = forms.CommentDraft{Author: draft.Author}
	}

	blog, loadErr := h.client.Blogs.Get(ctx, id)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("blog_id", id).Msg("Failed to reload blog comments")
	}
	if blog != nil {
		view.Comments = blog.Comments
	}
	if !htmx.IsRequest(r) {
		payload := map[string]any{"comments": view.Comments}
		if status >= 400 {
			payload = map[string]any{"error": view.Error, "fields": errs.Map()}
		}
		_ = apiutil.WriteJSON(w, status, payload)
		return
	}
	apiutil.RenderHTML(ctx, w, status, comments(view), nil, "Failed to render comments", "Failed to render comments")
}
