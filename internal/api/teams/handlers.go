// Package teams serves the team screen.
package teams

import (
	"context"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/directory"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

// LogoField is the multipart field the upstream reads the logo file from.
const LogoField = "logo"

func NewRegistry(clock clockwork.Clock, client *gateway.Client, limit int) *listing.Registry[models.Team] {
	return listing.NewRegistry(clock, func() *listing.Store[models.Team] {
		return listing.NewStore(client.Teams.List, listing.Options{
			Name:      "teams",
			Limit:     limit,
			SortBy:    "name",
			SortOrder: gateway.SortAsc,
		})
	})
}

// New builds the team controller. Every mutation invalidates the team
// directory so pickers see the change.
func New(client *gateway.Client, registry *listing.Registry[models.Team], teams *directory.Directory, settings crud.Settings) *crud.Controller[models.Team, forms.TeamDraft] {
	entity := crud.Entity[models.Team, forms.TeamDraft]{
		Name:     "teams",
		Title:    "Teams",
		Singular: "team",
		Registry: registry,
		ID:       func(t models.Team) string { return t.ID },
		Get:      client.Teams.Get,
		Create: func(ctx context.Context, payload *gateway.Payload) error {
			_, err := client.Teams.Create(ctx, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload *gateway.Payload) error {
			_, err := client.Teams.Update(ctx, id, payload)
			return err
		},
		Delete:      client.Teams.Delete,
		Blank:       func(*http.Request) forms.TeamDraft { return forms.BlankTeamDraft() },
		From:        forms.TeamDraftFrom,
		Decode:      forms.DecodeTeamDraft,
		UploadField: LogoField,
		Attach:      func(d *forms.TeamDraft, upload *forms.Upload) { d.LogoFile = upload },
		Views: crud.Views[models.Team, forms.TeamDraft]{
			Table:  table,
			Form:   form,
			Detail: detail,
		},
	}
	if teams != nil {
		entity.AfterMutation = teams.Invalidate
	}
	return crud.New(entity, settings)
}
