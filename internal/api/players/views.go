package players

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

func table(nav ui.ListNav, state listing.State[models.Player]) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<table><thead><tr>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "name", "Name"))
		w.Raw(`<th>Team</th>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "number", "No."))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "position", "Position"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "age", "Age"))
		w.Raw(`<th>Status</th><th></th></tr></thead><tbody>`)
		for _, player := range state.Items {
			w.Raw(`<tr>`)
			w.Tag("td", player.Name)
			w.Tag("td", player.Team.Label())
			w.Tag("td", strconv.Itoa(player.Number))
			w.Tag("td", player.Position)
			w.Tag("td", strconv.Itoa(player.Age))
			w.Raw(`<td>`)
			w.Text(availability(player))
			if player.IsInjured {
				w.Raw(` <span class="badge">Injured</span>`)
			}
			if player.RedCard {
				w.Raw(` <span class="badge">Suspended</span>`)
			}
			if player.MVP {
				w.Raw(` <span class="badge">MVP</span>`)
			}
			w.Raw(`</td><td class="actions">`)
			w.Render(ctx, ui.ModalButton("View", "/players/"+player.ID, "link"))
			w.Render(ctx, ui.ModalButton("Edit", "/players/"+player.ID+"/edit", "link"))
			w.Render(ctx, ui.ModalButton("Delete", "/players/"+player.ID+"/delete", "link danger"))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
	})
}

func availability(player models.Player) string {
	status := player.AvailabilityStatus
	if status == "" {
		status = models.AvailabilityAvailable
	}
	return status.Label()
}

// teamOptions lists the directory teams. The current team is kept even when
// the directory does not know it.
func teamOptions(ctx context.Context, teams TeamPicker, current models.TeamRef) []ui.Option {
	var options []ui.Option
	known := false
	if teams != nil {
		list, err := teams.Teams(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Team directory unavailable for player form")
		}
		for _, team := range list {
			options = append(options, ui.Option{Value: team.ID, Label: team.Name})
			known = known || team.ID == current.ID
		}
	}
	if current.ID != "" && !known {
		options = append(options, ui.Option{Value: current.ID, Label: current.Label()})
	}
	return options
}

func form(ctx context.Context, teams TeamPicker, view crud.FormView[forms.PlayerDraft]) templ.Component {
	draft := view.Draft
	errs := view.Errors
	input := func(name, label, kind string, value string, required bool) templ.Component {
		return ui.TextInput(ui.Input{Name: name, Label: label, Type: kind, Value: value, Error: errs.Get(name), Required: required})
	}

	statuses := make([]ui.Option, 0, 3)
	for _, status := range models.AvailabilityStatuses() {
		statuses = append(statuses, ui.Option{Value: string(status), Label: status.Label()})
	}
	positions := make([]ui.Option, 0, len(models.Positions))
	for _, position := range models.Positions {
		positions = append(positions, ui.Option{Value: position, Label: position})
	}

	preview := draft.Logo
	if draft.Photo != nil {
		preview = draft.Photo.PreviewURL()
	}

	options := teamOptions(ctx, teams, draft.Team)
	teamError := errs.Get("team_id")
	if teamError == "" && len(options) == 0 {
		teamError = "No teams available. Create a team first."
	}

	return ui.FormBody(view.Form,
		ui.Select(ui.Input{Name: "team_id", Label: "Team", Value: draft.Team.ID, Error: teamError, Placeholder: "Select a team", Required: true}, options),
		input("name", "Name", "text", draft.Name, true),
		input("age", "Age", "number", draft.Age, true),
		input("number", "Number", "number", draft.Number, true),
		ui.Select(ui.Input{Name: "position", Label: "Position", Value: draft.Position, Error: errs.Get("position"), Placeholder: "Select a position", Required: true}, positions),
		input("height", "Height", "text", draft.Height, false),
		input("value", "Value", "text", draft.Value, false),
		input("value_passionne", "Fan value", "number", draft.ValuePassionne, false),
		ui.Select(ui.Input{Name: "availabilityStatus", Label: "Availability status", Value: draft.AvailabilityStatus, Error: errs.Get("availabilityStatus"), Required: true}, statuses),
		input("availabilityReason", "Availability reason", "text", draft.AvailabilityReason, false),
		ui.Checkbox("mvp", "MVP", draft.MVP),
		ui.Checkbox("isInjured", "Injured", draft.IsInjured),
		ui.Checkbox("redCard", "Suspended", draft.RedCard),
		input("logo", "Photo URL", "url", draft.Logo, false),
		ui.FileInput(ui.Input{Name: forms.ImageInput, Label: "Or upload a photo", Error: errs.Get(forms.ImageInput)}, preview),
	)
}

func detail(_ context.Context, player models.Player) templ.Component {
	return ui.Component(func(_ context.Context, w *ui.Writer) {
		if player.Logo != "" {
			w.Raw(`<img class="image-preview" alt=""`)
			w.Attr("src", player.Logo)
			w.Raw(`>`)
		}
		w.Tag("h3", player.Name)
		w.Raw(`<dl>`)
		row := func(label, value string) {
			w.Tag("dt", label)
			w.Tag("dd", value)
		}
		row("Team", player.Team.Label())
		row("Number", strconv.Itoa(player.Number))
		row("Position", player.Position)
		row("Age", strconv.Itoa(player.Age))
		if player.Height != "" {
			row("Height", player.Height)
		}
		if player.Value != "" {
			row("Value", player.Value)
		}
		if player.ValuePassionne != nil {
			row("Fan value", strconv.Itoa(*player.ValuePassionne))
		}
		row("Availability", availability(player))
		if player.AvailabilityReason != "" {
			row("Reason", player.AvailabilityReason)
		}
		total := 0
		for _, point := range player.Points {
			total += point.Total
		}
		row("Points", strconv.Itoa(total))
		w.Raw(`</dl>`)
	})
}
