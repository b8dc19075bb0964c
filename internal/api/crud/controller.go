package crud

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/authz"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

// Controller serves the routes of one Entity.
type Controller[T any, D forms.Draft] struct {
	entity   Entity[T, D]
	settings Settings
}

// ListResponse is the JSON form of a list for non-htmx clients.
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination listing.Pagination `json:"pagination"`
	Query      listing.Query      `json:"query"`
}

func New[T any, D forms.Draft](entity Entity[T, D], settings Settings) *Controller[T, D] {
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = forms.DefaultMaxUploadBytes
	}
	return &Controller[T, D]{entity: entity, settings: settings}
}

// Register mounts the entity routes on mux.
func (c *Controller[T, D]) Register(mux *http.ServeMux) {
	base := c.entity.base()
	mux.HandleFunc("GET "+base, c.HandlePage)
	mux.HandleFunc("GET "+base+"/list", c.HandleList)
	if c.entity.Create != nil {
		mux.HandleFunc("GET "+base+"/new", c.HandleNew)
		mux.HandleFunc("POST "+base, c.HandleCreate)
	}
	if c.entity.Views.Detail != nil {
		mux.HandleFunc("GET "+base+"/{id}", c.HandleDetail)
	}
	if c.entity.Update != nil {
		mux.HandleFunc("GET "+base+"/{id}/edit", c.HandleEdit)
		mux.HandleFunc("PUT "+base+"/{id}", c.HandleUpdate)
	}
	if c.entity.Delete != nil {
		mux.HandleFunc("GET "+base+"/{id}/delete", c.HandleConfirmDelete)
		mux.HandleFunc("DELETE "+base+"/{id}", c.HandleDelete)
	}
}

func (c *Controller[T, D]) store(ctx context.Context) *listing.Store[T] {
	return c.entity.Registry.For(authz.SessionID(ctx))
}

// apply performs the list change described by values, or reloads the
// current query when there is none.
func (c *Controller[T, D]) apply(ctx context.Context, store *listing.Store[T], values url.Values) (listing.State[T], error) {
	action := apiutil.ParseListAction(values)
	switch {
	case action.Search != nil:
		return store.Search(ctx, *action.Search)
	case action.Limit > 0:
		return store.SetLimit(ctx, action.Limit)
	case action.SortBy != "":
		return store.SetSort(ctx, action.SortBy, action.SortOrder)
	case action.Page != 0:
		return store.GoTo(ctx, action.Page)
	default:
		return store.Reload(ctx)
	}
}

// HandlePage handles GET /{name}.
func (c *Controller[T, D]) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := c.apply(ctx, c.store(ctx), r.URL.Query())
	if apiutil.Unauthorized(w, r, err) {
		return
	}
	if err != nil && !errors.Is(err, listing.ErrStale) {
		log.Ctx(ctx).Error().Err(err).Str("list", c.entity.Name).Msg("Failed to load list")
	}
	apiutil.RenderPage(w, r, http.StatusOK, c.entity.Title, c.entity.Name, c.pageBody(state))
}

// HandleList handles GET /{name}/list: the list fragment for htmx, JSON
// otherwise.
func (c *Controller[T, D]) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	state, err := c.apply(ctx, c.store(ctx), r.URL.Query())

	switch {
	case errors.Is(err, listing.ErrStale):
		// A newer request for this list is in flight; it will render.
		w.WriteHeader(http.StatusNoContent)
		return
	case apiutil.Unauthorized(w, r, err):
		return
	case err != nil:
		logger.Error().Err(err).Str("list", c.entity.Name).Msg("Failed to load list")
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(ctx, w, c.listFragment(state, false), nil,
			"Failed to render "+c.entity.Name+" list", "Failed to render list")
		return
	}

	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  apiutil.UpstreamStatus(err),
			Message: apiutil.UpstreamMessage(err, "Could not load "+c.entity.plural()),
			Err:     err,
		})
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, ListResponse[T]{Items: state.Items, Pagination: state.Pagination, Query: state.Query}); err != nil {
		logger.Error().Err(err).Msg("Failed to write list response")
	}
}

// HandleNew handles GET /{name}/new.
func (c *Controller[T, D]) HandleNew(w http.ResponseWriter, r *http.Request) {
	view := FormView[D]{
		Draft: c.entity.Blank(r),
		Form:  c.FormFor(""),
	}
	c.renderForm(w, r, http.StatusOK, view)
}

// HandleEdit handles GET /{name}/{id}/edit.
func (c *Controller[T, D]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, item, ok := c.load(w, r)
	if !ok {
		return
	}
	view := FormView[D]{
		ID:    id,
		Draft: c.entity.From(*item),
		Form:  c.FormFor(id),
	}
	c.renderForm(w, r, http.StatusOK, view)
}

// HandleDetail handles GET /{name}/{id}.
func (c *Controller[T, D]) HandleDetail(w http.ResponseWriter, r *http.Request) {
	_, item, ok := c.load(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusOK, item); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write detail response")
		}
		return
	}
	apiutil.RenderHTMLComponent(ctx, w, ui.Modal(c.entity.capitalized(), c.entity.Views.Detail(ctx, *item)), nil,
		"Failed to render "+c.entity.Singular+" detail", "Failed to render detail")
}

// HandleConfirmDelete handles GET /{name}/{id}/delete.
func (c *Controller[T, D]) HandleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body := ui.Confirm("Delete this "+c.entity.Singular+"? This cannot be undone.", c.entity.itemPath(id))
	apiutil.RenderHTMLComponent(r.Context(), w, ui.Modal("Delete "+c.entity.Singular, body), nil,
		"Failed to render delete confirmation", "Failed to render confirmation")
}

// HandleCreate handles POST /{name}.
func (c *Controller[T, D]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view := FormView[D]{Form: c.FormFor("")}
	c.submit(w, r, view, func(ctx context.Context, store *listing.Store[T], mutation listing.Mutation) error {
		return store.Create(ctx, mutation)
	}, c.entity.Create, c.entity.capitalized()+" created.")
}

// HandleUpdate handles PUT /{name}/{id}.
func (c *Controller[T, D]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view := FormView[D]{ID: id, Form: c.FormFor(id)}
	update := func(ctx context.Context, payload *gateway.Payload) error {
		return c.entity.Update(ctx, id, payload)
	}
	c.submit(w, r, view, func(ctx context.Context, store *listing.Store[T], mutation listing.Mutation) error {
		return store.Update(ctx, mutation)
	}, update, c.entity.capitalized()+" updated.")
}

// HandleDelete handles DELETE /{name}/{id}.
func (c *Controller[T, D]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	store := c.store(ctx)
	err = store.Delete(ctx, func(ctx context.Context) error {
		return c.entity.Delete(ctx, id)
	})
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case errors.Is(err, gateway.ErrNotFound):
		logger.Warn().Str(c.entity.Singular+"_id", id).Msg("Delete target already gone")
		state, _ := store.Reload(ctx)
		htmx.Trigger(w, map[string]any{
			htmx.EventCloseModal: true,
			htmx.EventShowToast:  htmx.Toast{Message: "This " + c.entity.Singular + " no longer exists.", Level: "error"},
		})
		c.respondMutation(w, r, http.StatusOK, state)
		return
	case err != nil:
		logger.Error().Err(err).Str(c.entity.Singular+"_id", id).Msg("Failed to delete")
		message := apiutil.UpstreamMessage(err, "Could not delete "+c.entity.Singular+".")
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
			w.WriteHeader(apiutil.UpstreamStatus(err))
			return
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: apiutil.UpstreamStatus(err), Message: message, Err: err})
		return
	}

	logger.Info().Str(c.entity.Singular+"_id", id).Msg("Deleted")
	c.afterMutation(ctx)
	htmx.Success(w, c.entity.capitalized()+" deleted.")
	c.respondMutation(w, r, http.StatusOK, store.Snapshot())
}

type runMutation[T any] func(ctx context.Context, store *listing.Store[T], mutation listing.Mutation) error

// submit decodes the form into a draft, validates it and runs the create or
// update through the list store. Invalid drafts are never sent upstream.
func (c *Controller[T, D]) submit(w http.ResponseWriter, r *http.Request, view FormView[D], run runMutation[T], send func(context.Context, *gateway.Payload) error, success string) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	values, multipartForm, err := apiutil.ParseForm(w, r, c.settings.MaxUploadBytes)
	defer apiutil.CleanupForm(multipartForm)
	if err != nil && !errors.Is(err, forms.ErrFileTooLarge) {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	view.Draft = c.entity.Decode(values)
	if errors.Is(err, forms.ErrFileTooLarge) {
		view.Errors.Add(forms.ImageInput, "The file is too large.")
		c.renderForm(w, r, http.StatusRequestEntityTooLarge, view)
		return
	}

	if c.entity.UploadField != "" && c.entity.Attach != nil {
		upload, err := forms.ReadUpload(multipartForm, forms.ImageInput, c.entity.UploadField, c.settings.MaxUploadBytes)
		if err != nil {
			status := http.StatusUnprocessableEntity
			message := "The file must be an image."
			if errors.Is(err, forms.ErrFileTooLarge) {
				status = http.StatusRequestEntityTooLarge
				message = "The file is too large."
			}
			view.Errors.Add(forms.ImageInput, message)
			c.renderForm(w, r, status, view)
			return
		}
		c.entity.Attach(&view.Draft, upload)
	}

	if errs := view.Draft.Validate(); !errs.OK() {
		view.Errors = errs
		c.renderForm(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	store := c.store(ctx)
	err = run(ctx, store, func(ctx context.Context) error {
		errs, err := forms.Submit(ctx, view.Draft, send)
		if err != nil {
			return err
		}
		return errs.Err()
	})

	var invalid forms.Errors
	switch {
	case err == nil:
	case apiutil.Unauthorized(w, r, err):
		return
	case errors.As(err, &invalid):
		view.Errors = invalid
		c.renderForm(w, r, http.StatusUnprocessableEntity, view)
		return
	default:
		status := apiutil.UpstreamStatus(err)
		logger.Error().Err(err).Str("entity", c.entity.Singular).Int("status", status).Msg("Upstream rejected form")
		view.Form.Error = apiutil.UpstreamMessage(err, "Could not save "+c.entity.Singular+".")
		if status == http.StatusRequestEntityTooLarge {
			view.Errors.Add(forms.ImageInput, "The file is too large.")
		}
		if status >= 500 {
			htmx.Failure(w, view.Form.Error)
		}
		c.renderForm(w, r, status, view)
		return
	}

	logger.Info().Str("entity", c.entity.Singular).Str("id", view.ID).Msg(success)
	c.afterMutation(ctx)
	htmx.Success(w, success)
	status := http.StatusOK
	if view.ID == "" {
		status = http.StatusCreated
	}
	c.respondMutation(w, r, status, store.Snapshot())
}

func (c *Controller[T, D]) afterMutation(ctx context.Context) {
	if c.entity.AfterMutation != nil {
		c.entity.AfterMutation(ctx)
	}
}

func (c *Controller[T, D]) respondMutation(w http.ResponseWriter, r *http.Request, status int, state listing.State[T]) {
	ctx := r.Context()
	if htmx.IsRequest(r) {
		apiutil.RenderHTML(ctx, w, status, c.mutationResponse(state), nil,
			"Failed to render "+c.entity.Name+" list", "Failed to render list")
		return
	}
	if err := apiutil.WriteJSON(w, status, ListResponse[T]{Items: state.Items, Pagination: state.Pagination, Query: state.Query}); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to write mutation response")
	}
}

// load reads {id} and fetches the entity, answering the request itself when
// either step fails.
func (c *Controller[T, D]) load(w http.ResponseWriter, r *http.Request) (string, *T, bool) {
	ctx := r.Context()
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	item, err := c.entity.Get(ctx, id)
	if apiutil.Unauthorized(w, r, err) {
		return "", nil, false
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(c.entity.Singular+"_id", id).Msg("Failed to load")
		message := apiutil.UpstreamMessage(err, "Could not load "+c.entity.Singular+".")
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
		}
		http.Error(w, message, apiutil.UpstreamStatus(err))
		return "", nil, false
	}
	if item == nil {
		message := "This " + c.entity.Singular + " no longer exists."
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
		}
		http.Error(w, message, http.StatusNotFound)
		return "", nil, false
	}
	return id, item, true
}

// FormFor returns the settings of the create form, or of the edit form
// when id is set.
func (c *Controller[T, D]) FormFor(id string) ui.Form {
	multipart := c.entity.UploadField != ""
	if id == "" {
		return ui.Form{Method: "post", Action: c.entity.base(), Multipart: multipart, Submit: "Create"}
	}
	return ui.Form{Method: "put", Action: c.entity.itemPath(id), Multipart: multipart, Submit: "Save"}
}

// RenderForm shows view in the entity modal. Non-htmx callers get the
// errors as JSON.
func (c *Controller[T, D]) RenderForm(w http.ResponseWriter, r *http.Request, status int, view FormView[D]) {
	c.renderForm(w, r, status, view)
}

func (c *Controller[T, D]) renderForm(w http.ResponseWriter, r *http.Request, status int, view FormView[D]) {
	ctx := r.Context()
	if !htmx.IsRequest(r) && status >= 400 {
		payload := map[string]any{"error": view.Form.Error}
		if !view.Errors.OK() {
			payload["fields"] = view.Errors.Map()
		}
		if err := apiutil.WriteJSON(w, status, payload); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write form errors")
		}
		return
	}
	apiutil.RenderHTML(ctx, w, status, c.formModal(ctx, view), nil,
		"Failed to render "+c.entity.Singular+" form", "Failed to render form")
}
