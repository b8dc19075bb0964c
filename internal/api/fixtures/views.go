package fixtures

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

const dateDisplay = "02 Jan 2006 15:04"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func table(nav ui.ListNav, state listing.State[models.Fixture]) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<table><thead><tr>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "date", "Date"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "round", "Round"))
		w.Raw(`<th>Match</th><th>Score</th>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "statuslong", "Status"))
		w.Raw(`<th>Stadium</th><th></th></tr></thead><tbody>`)
		for _, fixture := range state.Items {
			w.Raw(`<tr>`)
			w.Tag("td", fixture.Date.UTC().Format(dateDisplay))
			w.Tag("td", fixture.Round)
			w.Raw(`<td><a`)
			w.Attr("href", "/fixtures/"+fixture.ID)
			w.Raw(`>`)
			w.Text(fixture.Title())
			w.Raw(`</a></td>`)
			w.Tag("td", fixture.Goals.Scoreline())
			w.Tag("td", string(fixture.StatusLong))
			w.Tag("td", fixture.StadiumName)
			w.Raw(`<td class="actions">`)
			w.Render(ctx, ui.ModalButton("Edit", "/fixtures/"+fixture.ID+"/edit", "link"))
			w.Render(ctx, ui.ModalButton("Delete", "/fixtures/"+fixture.ID+"/delete", "link danger"))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
	})
}

// teamOptions lists the directory teams plus any team the fixture already
// references that the directory does not know.
func teamOptions(ctx context.Context, teams TeamPicker, current ...models.TeamRef) []ui.Option {
	var options []ui.Option
	seen := map[string]bool{}
	if teams != nil {
		list, err := teams.Teams(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Team directory unavailable for fixture form")
		}
		for _, team := range list {
			options = append(options, ui.Option{Value: team.ID, Label: team.Name})
			seen[team.ID] = true
		}
	}
	for _, ref := range current {
		if ref.ID != "" && !seen[ref.ID] {
			options = append(options, ui.Option{Value: ref.ID, Label: ref.Label()})
			seen[ref.ID] = true
		}
	}
	return options
}

func form(ctx context.Context, teams TeamPicker, view crud.FormView[forms.FixtureDraft]) templ.Component {
	draft := view.Draft
	errs := view.Errors
	input := func(name, label, kind, value string, required bool) templ.Component {
		return ui.TextInput(ui.Input{Name: name, Label: label, Type: kind, Value: value, Error: errs.Get(name), Required: required})
	}
	score := func(name, label, value string) templ.Component {
		return ui.TextInput(ui.Input{Name: name, Label: label, Type: "number", Value: value, Error: errs.Get(name), Min: "0", Max: "99"})
	}

	options := teamOptions(ctx, teams, models.TeamRef{ID: draft.HomeID}, models.TeamRef{ID: draft.AwayID})
	homeError := errs.Get("teamshome")
	if homeError == "" && len(options) < 2 {
		homeError = "At least two teams are needed. Create teams first."
	}
	statuses := make([]ui.Option, 0, 5)
	for _, status := range models.FixtureStatuses() {
		statuses = append(statuses, ui.Option{Value: string(status), Label: string(status)})
	}

	return ui.FormBody(view.Form,
		ui.Group("Match",
			ui.Select(ui.Input{Name: "teamshome", Label: "Home Team", Value: draft.HomeID, Error: homeError, Placeholder: "Select a team", Required: true}, options),
			ui.Select(ui.Input{Name: "teamsaway", Label: "Away Team", Value: draft.AwayID, Error: errs.Get("teamsaway"), Placeholder: "Select a team", Required: true}, options),
			input("round", "Round", "text", draft.Round, true),
			input("date", "Date", "datetime-local", draft.Date, true),
			input("stadename", "Stadium Name", "text", draft.StadiumName, true),
			input("stadecity", "Stadium City", "text", draft.StadiumCity, true),
			input("referee", "Referee", "text", draft.Referee, false),
			ui.Select(ui.Input{Name: "statuslong", Label: "Match Status", Value: draft.Status, Error: errs.Get("statuslong"), Required: true}, statuses),
		),
		ui.Group("Score",
			score("goals.home", "Home goals", draft.HomeGoals),
			score("goals.away", "Away goals", draft.AwayGoals),
			score("score.halftime.home", "Half-time home", draft.HalftimeHome),
			score("score.halftime.away", "Half-time away", draft.HalftimeAway),
			score("score.fulltime.home", "Full-time home", draft.FulltimeHome),
			score("score.fulltime.away", "Full-time away", draft.FulltimeAway),
		),
	)
}

func matchPage(m match) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		f := m.Fixture
		w.Raw(`<p><a href="/fixtures">&larr; Fixtures</a></p>`)
		w.Tag("h1", f.Title())
		w.Raw(`<section class="match-summary"><p class="scoreline">`)
		w.Text(f.Goals.Scoreline())
		w.Raw(`</p><dl>`)
		row := func(label, value string) {
			if value == "" {
				return
			}
			w.Tag("dt", label)
			w.Tag("dd", value)
		}
		row("Round", f.Round)
		row("Date", f.Date.UTC().Format(dateDisplay))
		row("Stadium", f.StadiumName+", "+f.StadiumCity)
		row("Referee", f.Referee)
		row("Status", string(f.StatusLong))
		row("Half-time", f.Score.Halftime.Scoreline())
		row("Full-time", f.Score.Fulltime.Scoreline())
		w.Raw(`</dl></section>`)

		w.Raw(`<section class="toolbar">`)
		for _, kind := range eventKinds {
			w.Render(ctx, ui.ModalButton("Add "+kind.Title, "/fixtures/"+f.ID+"/events/"+kind.Slug+"/new", "secondary"))
		}
		w.Raw(`</section>`)

		w.Tag("h2", "Timeline")
		w.Render(ctx, timeline(f.ID, m.Events, nil, false))

		w.Tag("h2", "Squads")
		w.Raw(`<input type="search" name="q" class="search-box" placeholder="Filter players"`)
		w.Attr("hx-get", "/fixtures/"+f.ID+"/roster")
		w.Attr("hx-trigger", "input changed delay:300ms, search")
		w.Attr("hx-target", "#rosters")
		w.Attr("hx-swap", "outerHTML")
		w.Raw(`>`)
		w.Render(ctx, rosters(m, ""))
	})
}

// timeline lists the events of a match. When oob is set the list replaces
// the one on the page out of band.
func timeline(fixtureID string, events []models.MatchEvent, loadErr error, oob bool) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<div id="match-events"`)
		if oob {
			w.Attr("hx-swap-oob", "true")
		}
		w.Raw(`>`)
		if loadErr != nil {
			w.Render(ctx, ui.Alert(apiutil.UpstreamMessage(loadErr, "Could not load the match events.")))
		}
		if len(events) == 0 && loadErr == nil {
			w.Raw(`<p class="empty-state">No events yet.</p>`)
		}
		if len(events) > 0 {
			w.Raw(`<ol class="timeline">`)
			for _, event := range events {
				w.Raw(`<li><span class="minute">`)
				w.Int(event.Time)
				w.Raw(`&#39;</span> `)
				w.Text(event.Summary())
				if event.Team != nil {
					w.Raw(` <span class="badge">`)
					w.Text(event.Team.Label())
					w.Raw(`</span>`)
				}
				if event.ID != "" {
					w.Raw(` `)
					w.Render(ctx, ui.ModalButton("Delete", eventURL(fixtureID, event.ID)+"/delete", "link danger"))
				}
				w.Raw(`</li>`)
			}
			w.Raw(`</ol>`)
		}
		w.Raw(`</div>`)
	})
}

func rosters(m match, term string) templ.Component {
	return ui.Component(func(_ context.Context, w *ui.Writer) {
		w.Raw(`<div id="rosters" class="rosters">`)
		squad := func(team models.TeamRef, players []models.Player) {
			w.Raw(`<div class="roster">`)
			w.Tag("h3", team.Label())
			players = filterRoster(players, term)
			if len(players) == 0 {
				w.Raw(`<p class="empty-state">No players.</p>`)
			} else {
				w.Raw(`<ul>`)
				for _, player := range players {
					w.Raw(`<li>`)
					w.Text("#" + itoa(player.Number) + " " + player.Name + " (" + player.Position + ")")
					w.Raw(`</li>`)
				}
				w.Raw(`</ul>`)
			}
			w.Raw(`</div>`)
		}
		squad(m.Fixture.Home, m.Home)
		squad(m.Fixture.Away, m.Away)
		w.Raw(`</div>`)
	})
}

// eventView is one render of an event form.
type eventView struct {
	Kind   eventKind
	Match  match
	Draft  forms.Draft
	Errors forms.Errors
	Error  string
}

func eventForm(view eventView) templ.Component {
	fixture := view.Match.Fixture
	errs := view.Errors
	action := "/fixtures/" + fixture.ID + "/events/" + view.Kind.Slug

	teamSelect := func(teamID string) templ.Component {
		options := []ui.Option{
			{Value: fixture.Home.ID, Label: fixture.Home.Label() + " (home)"},
			{Value: fixture.Away.ID, Label: fixture.Away.Label() + " (away)"},
		}
		sel := ui.Select(ui.Input{Name: "team", Label: "Team", Value: teamID, Error: errs.Get("team"), Placeholder: "Select a team", Required: true}, options)
		return refreshOnChange(action+"/new", sel)
	}
	playerSelect := func(name, label, teamID, value string, required bool) templ.Component {
		roster := view.Match.Roster(teamID)
		msg := errs.Get(name)
		if msg == "" && teamID != "" && len(roster) == 0 {
			msg = "No players registered for this team."
		}
		options := make([]ui.Option, 0, len(roster))
		for _, player := range roster {
			options = append(options, ui.Option{Value: player.ID, Label: "#" + itoa(player.Number) + " " + player.Name})
		}
		placeholder := "Select a player"
		if teamID == "" {
			placeholder = "Select a team first"
		}
		return ui.Select(ui.Input{Name: name, Label: label, Value: value, Error: msg, Placeholder: placeholder, Required: required}, options)
	}
	minute := func(value string) templ.Component {
		return ui.TextInput(ui.Input{
			Name: "time", Label: "Minute", Type: "number", Value: value, Error: errs.Get("time"), Required: true,
			Min: itoa(forms.MinEventMinute), Max: itoa(forms.MaxEventMinute),
		})
	}
	base := func(b forms.EventBase) []templ.Component {
		return []templ.Component{
			ui.Alert(errs.Get("match")),
			ui.Hidden("match", fixture.ID),
			ui.Hidden("round", b.Round),
			teamSelect(b.Team),
			minute(b.Minute),
		}
	}

	var fields []templ.Component
	switch d := view.Draft.(type) {
	case forms.GoalDraft:
		goalTypes := make([]ui.Option, 0, 3)
		for _, goalType := range models.GoalTypes() {
			goalTypes = append(goalTypes, ui.Option{Value: string(goalType), Label: goalTypeLabel(goalType)})
		}
		fields = append(base(d.EventBase),
			playerSelect("player", "Scorer", d.Team, d.Player, true),
			playerSelect("assist", "Assist", d.Team, d.Assist, false),
			ui.Select(ui.Input{Name: "goalType", Label: "Goal type", Value: d.GoalType, Error: errs.Get("goalType"), Required: true}, goalTypes),
		)
	case forms.SubstitutionDraft:
		fields = append(base(d.EventBase),
			playerSelect("playerOut", "Player out", d.Team, d.PlayerOut, true),
			playerSelect("playerIn", "Player in", d.Team, d.PlayerIn, true),
		)
	case forms.RedCardDraft:
		cards := []ui.Option{
			{Value: string(models.CardDirect), Label: "Direct red"},
			{Value: string(models.CardTwoYellows), Label: "Second yellow"},
		}
		fields = append(base(d.EventBase),
			playerSelect("player", "Player", d.Team, d.Player, true),
			ui.Select(ui.Input{Name: "cardType", Label: "Card type", Value: d.CardType, Error: errs.Get("cardType"), Required: true}, cards),
		)
	case forms.PenaltySaveDraft:
		fields = append(base(d.EventBase),
			playerSelect("goalkeeper", "Goalkeeper", d.Team, d.Goalkeeper, true),
		)
	case forms.BonusPointDraft:
		fields = []templ.Component{
			ui.Alert(errs.Get("match")),
			ui.Hidden("match", fixture.ID),
			ui.Hidden("round", d.Round),
			teamSelect(d.Team),
			playerSelect("player", "Player", d.Team, d.Player, true),
			ui.TextInput(ui.Input{Name: "points", Label: "Points", Type: "number", Value: d.Points, Error: errs.Get("points"), Required: true, Min: "-20", Max: "20"}),
			ui.TextInput(ui.Input{Name: "reason", Label: "Reason", Value: d.Reason, Error: errs.Get("reason"), Required: true}),
		}
	}

	return ui.FormBody(ui.Form{Method: "post", Action: action, Error: view.Error, Submit: "Add"}, fields...)
}

// refreshOnChange reloads the enclosing form from href with its current
// values whenever child changes.
func refreshOnChange(href string, child templ.Component) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<div`)
		w.Attr("hx-get", href)
		w.Attr("hx-trigger", "change")
		w.Attr("hx-include", "closest form")
		w.Attr("hx-target", ui.ModalTarget)
		w.Attr("hx-swap", "innerHTML")
		w.Raw(`>`)
		w.Render(ctx, child)
		w.Raw(`</div>`)
	})
}

func goalTypeLabel(g models.GoalType) string {
	switch g {
	case models.GoalPenalty:
		return "Penalty"
	case models.GoalOwnGoal:
		return "Own goal"
	default:
		return "Regular"
	}
}
