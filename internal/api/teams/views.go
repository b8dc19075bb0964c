package teams

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

func table(nav ui.ListNav, state listing.State[models.Team]) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<table><thead><tr><th></th>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "name", "Name"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "code", "Code"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "city", "City"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "group", "Group"))
		w.Raw(`<th>Head coach</th><th></th></tr></thead><tbody>`)
		for _, team := range state.Items {
			w.Raw(`<tr><td>`)
			if team.Logo != "" {
				w.Raw(`<img class="logo" width="32" height="32" alt=""`)
				w.Attr("src", team.Logo)
				w.Raw(`>`)
			}
			w.Raw(`</td>`)
			w.Tag("td", team.Name)
			w.Tag("td", team.Code)
			w.Tag("td", team.City)
			w.Tag("td", team.Group)
			w.Tag("td", team.Staff.HeadCoach)
			w.Raw(`<td class="actions">`)
			w.Render(ctx, ui.ModalButton("View", "/teams/"+team.ID, "link"))
			w.Render(ctx, ui.ModalButton("Edit", "/teams/"+team.ID+"/edit", "link"))
			w.Render(ctx, ui.ModalButton("Delete", "/teams/"+team.ID+"/delete", "link danger"))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
	})
}

func form(_ context.Context, view crud.FormView[forms.TeamDraft]) templ.Component {
	var club, staff []templ.Component
	draft := view.Draft
	for _, field := range forms.TeamFields() {
		if field.Path == "logo" {
			continue
		}
		input := ui.TextInput(ui.Input{
			Name:     field.Path,
			Label:    field.Label,
			Value:    field.Get(&draft),
			Error:    view.Errors.Get(field.Path),
			Required: field.Required,
		})
		if strings.HasPrefix(field.Path, "staf.") {
			staff = append(staff, input)
		} else {
			club = append(club, input)
		}
	}

	preview := draft.Logo
	if draft.LogoFile != nil {
		preview = draft.LogoFile.PreviewURL()
	}
	logo := []templ.Component{
		ui.TextInput(ui.Input{Name: "logo", Label: "Logo URL", Type: "url", Value: draft.Logo, Error: view.Errors.Get("logo")}),
		ui.FileInput(ui.Input{Name: forms.ImageInput, Label: "Or upload a logo", Error: view.Errors.Get(forms.ImageInput)}, preview),
	}

	return ui.FormBody(view.Form,
		ui.Group("Club", club...),
		ui.Group("Logo", logo...),
		ui.Group("Staff", staff...),
	)
}

func detail(_ context.Context, team models.Team) templ.Component {
	return ui.Component(func(_ context.Context, w *ui.Writer) {
		w.Raw(`<div class="team-detail">`)
		if team.Logo != "" {
			w.Raw(`<img class="image-preview" alt=""`)
			w.Attr("src", team.Logo)
			w.Raw(`>`)
		}
		w.Tag("h3", team.Name+" ("+team.Code+")")
		w.Raw(`<dl>`)
		row := func(label, value string) {
			if value == "" {
				return
			}
			w.Tag("dt", label)
			w.Tag("dd", value)
		}
		row("Country", team.Country)
		row("City", team.City)
		row("Founded", team.Founded)
		row("Group", team.Group)
		staff := team.Staff
		row("Head coach", staff.HeadCoach)
		row("Assistant coaches", joinNonEmpty(staff.AssistantCoaches.First, staff.AssistantCoaches.Second))
		row("Manager", staff.Manager)
		row("Goalkeeper coach", staff.GoalkeeperCoach)
		row("Fitness coach", staff.FitnessCoach)
		row("Data analyst", staff.DataAnalyst)
		row("Physiotherapists", joinNonEmpty(staff.Physio, staff.AssistantPhysio))
		row("Doctors", joinNonEmpty(staff.Doctors.First, staff.Doctors.Second))
		row("President", staff.Administration.President)
		row("Vice-president", staff.Administration.VicePresident)
		row("Recruiters", joinNonEmpty(staff.Recruiters.First, staff.Recruiters.Second))
		w.Raw(`</dl></div>`)
	})
}

func joinNonEmpty(values ...string) string {
	var kept []string
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}
