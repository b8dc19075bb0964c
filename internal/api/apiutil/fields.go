package apiutil

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	idParam = "id"
	// Room for the non-file fields of a multipart form.
	formOverheadBytes = 1 << 20
)

var ErrInvalidID = errors.New("invalid identifier")

// ListAction is the list change a request asks for. At most one of the
// fields is acted on, in the order Search, Limit, Sort, Page.
type ListAction struct {
	Search    *string
	Limit     int
	SortBy    string
	SortOrder gateway.SortOrder
	Page      int
}

// ParseListAction reads q, limit, sort, order and page from the query string.
// Invalid numbers are ignored.
func ParseListAction(values url.Values) ListAction {
	var action ListAction
	if values.Has("q") {
		term := strings.TrimSpace(values.Get("q"))
		action.Search = &term
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		action.Limit = limit
	}
	action.SortBy = strings.TrimSpace(values.Get("sort"))
	if strings.EqualFold(values.Get("order"), string(gateway.SortDesc)) {
		action.SortOrder = gateway.SortDesc
	} else if action.SortBy != "" {
		action.SortOrder = gateway.SortAsc
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		action.Page = page
	}
	return action
}

// PathID returns the {id} path value when it is a valid object id.
func PathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue(idParam))
	if !models.IsObjectID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return id, nil
}

// ParseForm parses an urlencoded or multipart body, rejecting bodies larger
// than maxUpload plus the form overhead with forms.ErrFileTooLarge. The
// multipart form is nil for urlencoded bodies; callers remove its temporary
// files with CleanupForm.
func ParseForm(w http.ResponseWriter, r *http.Request, maxUpload int64) (url.Values, *multipart.Form, error) {
	if maxUpload <= 0 {
		maxUpload = forms.DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+formOverheadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return nil, nil, formError(err)
		}
		return r.MultipartForm.Value, r.MultipartForm, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, nil, formError(err)
	}
	return r.PostForm, nil, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("parse form: %w", forms.ErrFileTooLarge)
	}
	return fmt.Errorf("parse form: %w", err)
}

func CleanupForm(form *multipart.Form) {
	if form != nil {
		_ = form.RemoveAll()
	}
}
