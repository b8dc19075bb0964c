// Package fixtures serves the fixture list and the match detail screen with
// its events.
package fixtures

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

// TeamPicker supplies the home and away choices of the fixture form.
type TeamPicker interface {
	Teams(ctx context.Context) ([]models.Team, error)
}

// Handler serves /fixtures: the list screen through crud and the match
// screen at /fixtures/{id}.
type Handler struct {
	list     *crud.Controller[models.Fixture, forms.FixtureDraft]
	client   *gateway.Client
	settings crud.Settings
}

func NewRegistry(clock clockwork.Clock, client *gateway.Client, limit int) *listing.Registry[models.Fixture] {
	return listing.NewRegistry(clock, func() *listing.Store[models.Fixture] {
		return listing.NewStore(client.Fixtures.List, listing.Options{
			Name:      "fixtures",
			Limit:     limit,
			SortBy:    "date",
			SortOrder: gateway.SortDesc,
		})
	})
}

func New(client *gateway.Client, registry *listing.Registry[models.Fixture], teams TeamPicker, settings crud.Settings) *Handler {
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = forms.DefaultMaxUploadBytes
	}
	list := crud.New(crud.Entity[models.Fixture, forms.FixtureDraft]{
		Name:     "fixtures",
		Title:    "Fixtures",
		Singular: "fixture",
		Registry: registry,
		ID:       func(f models.Fixture) string { return f.ID },
		Get:      client.Fixtures.Get,
		Create: func(ctx context.Context, payload *gateway.Payload) error {
			_, err := client.Fixtures.Create(ctx, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload *gateway.Payload) error {
			_, err := client.Fixtures.Update(ctx, id, payload)
			return err
		},
		Delete: client.Fixtures.Delete,
		Blank:  func(*http.Request) forms.FixtureDraft { return forms.BlankFixtureDraft() },
		From:   forms.FixtureDraftFrom,
		Decode: forms.DecodeFixtureDraft,
		Views: crud.Views[models.Fixture, forms.FixtureDraft]{
			Table: table,
			Form: func(ctx context.Context, view crud.FormView[forms.FixtureDraft]) templ.Component {
				return form(ctx, teams, view)
			},
		},
	}, settings)
	return &Handler{list: list, client: client, settings: settings}
}

// Register mounts the list routes, the match screen and the event routes.
func (h *Handler) Register(mux *http.ServeMux) {
	h.list.Register(mux)
	mux.HandleFunc("GET /fixtures/{id}", h.HandleMatch)
	mux.HandleFunc("GET /fixtures/{id}/events", h.HandleTimeline)
	mux.HandleFunc("GET /fixtures/{id}/roster", h.HandleRoster)
	mux.HandleFunc("GET /fixtures/{id}/events/{kind}/new", h.HandleEventForm)
	mux.HandleFunc("POST /fixtures/{id}/events/{kind}", h.HandleCreateEvent)
	mux.HandleFunc("GET /fixtures/{id}/events/{event}/delete", h.HandleConfirmDeleteEvent)
	mux.HandleFunc("DELETE /fixtures/{id}/events/{event}", h.HandleDeleteEvent)
}
