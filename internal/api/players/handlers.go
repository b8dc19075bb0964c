// Package players serves the player screen.
package players

import (
	"context"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

const PhotoField = "logo"

// TeamPicker supplies the team choices of the player form.
type TeamPicker interface {
	Teams(ctx context.Context) ([]models.Team, error)
	Lookup(id string) (models.TeamRef, bool)
}

func NewRegistry(clock clockwork.Clock, client *gateway.Client, limit int) *listing.Registry[models.Player] {
	return listing.NewRegistry(clock, func() *listing.Store[models.Player] {
		return listing.NewStore(client.Players.List, listing.Options{
			Name:      "players",
			Limit:     limit,
			SortBy:    "name",
			SortOrder: gateway.SortAsc,
		})
	})
}

func New(client *gateway.Client, registry *listing.Registry[models.Player], teams TeamPicker, settings crud.Settings) *crud.Controller[models.Player, forms.PlayerDraft] {
	return crud.New(crud.Entity[models.Player, forms.PlayerDraft]{
		Name:     "players",
		Title:    "Players",
		Singular: "player",
		Registry: registry,
		ID:       func(p models.Player) string { return p.ID },
		Get:      client.Players.Get,
		Create: func(ctx context.Context, payload *gateway.Payload) error {
			_, err := client.Players.Create(ctx, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload *gateway.Payload) error {
			_, err := client.Players.Update(ctx, id, payload)
			return err
		},
		Delete: client.Players.Delete,
		Blank: func(r *http.Request) forms.PlayerDraft {
			draft := forms.BlankPlayerDraft()
			if id := r.URL.Query().Get("team"); models.IsObjectID(id) {
				draft.Team.ID = id
				draft = withTeam(teams, draft)
			}
			return draft
		},
		From: forms.PlayerDraftFrom,
		Decode: func(values url.Values) forms.PlayerDraft {
			return withTeam(teams, forms.DecodePlayerDraft(values))
		},
		UploadField: PhotoField,
		Attach:      func(d *forms.PlayerDraft, upload *forms.Upload) { d.Photo = upload },
		Views: crud.Views[models.Player, forms.PlayerDraft]{
			Table: table,
			Form: func(ctx context.Context, view crud.FormView[forms.PlayerDraft]) templ.Component {
				return form(ctx, teams, view)
			},
			Detail: detail,
		},
	}, settings)
}

// withTeam denormalizes the selected team's name, code and logo into the
// draft so the upstream stores a populated reference.
func withTeam(teams TeamPicker, draft forms.PlayerDraft) forms.PlayerDraft {
	if teams == nil || draft.Team.ID == "" {
		return draft
	}
	if ref, ok := teams.Lookup(draft.Team.ID); ok {
		return draft.WithTeam(ref)
	}
	return draft
}
