// Package crud serves the list, modal form and mutation routes shared by
// every console screen backed by a paginated upstream collection.
package crud

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

// FormView is what a modal form needs to render.
type FormView[D any] struct {
	// ID is empty when creating.
	ID     string
	Draft  D
	Errors forms.Errors
	Form   ui.Form
}

// Editing reports whether the form updates an existing entity.
func (f FormView[D]) Editing() bool {
	return f.ID != ""
}

// Views are the entity-specific pieces of a screen. Table and Form are
// required; Detail enables GET /{name}/{id}.
type Views[T any, D any] struct {
	Table  func(nav ui.ListNav, state listing.State[T]) templ.Component
	Form   func(ctx context.Context, view FormView[D]) templ.Component
	Detail func(ctx context.Context, item T) templ.Component
	// Toolbar replaces the default search box.
	Toolbar func(nav ui.ListNav, query listing.Query) templ.Component
}

// Entity describes one upstream collection and how its forms map onto it.
type Entity[T any, D forms.Draft] struct {
	// Name is the route segment, e.g. "teams".
	Name string
	// Title heads the page, e.g. "Teams".
	Title string
	// Singular names one row in messages, e.g. "team".
	Singular string

	Registry *listing.Registry[T]
	ID       func(T) string

	Get    func(ctx context.Context, id string) (*T, error)
	Create func(ctx context.Context, payload *gateway.Payload) error
	Update func(ctx context.Context, id string, payload *gateway.Payload) error
	Delete func(ctx context.Context, id string) error

	Blank  func(r *http.Request) D
	From   func(T) D
	Decode func(url.Values) D

	// UploadField names the upstream multipart field of the image input.
	// Empty means the form has no file input.
	UploadField string
	Attach      func(*D, *forms.Upload)

	// AfterMutation runs after every successful create, update or delete.
	AfterMutation func(ctx context.Context)

	Views Views[T, D]
}

// Settings are the console-wide list and upload settings.
type Settings struct {
	MaxUploadBytes int64
	LimitOptions   []int
	SearchDelay    time.Duration
	MaxPageButtons int
}

func (e Entity[T, D]) base() string {
	return "/" + e.Name
}

func (e Entity[T, D]) listID() string {
	return e.Name + "-list"
}

func (e Entity[T, D]) itemPath(id string) string {
	return e.base() + "/" + url.PathEscape(id)
}

func (e Entity[T, D]) capitalized() string {
	if e.Singular == "" {
		return ""
	}
	return strings.ToUpper(e.Singular[:1]) + e.Singular[1:]
}

func (e Entity[T, D]) plural() string {
	return strings.ToLower(e.Title)
}
