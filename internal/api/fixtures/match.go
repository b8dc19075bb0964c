package fixtures

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

var errFixtureNotFound = errors.New("fixture not found")

// match is everything the match screen and the event forms show.
type match struct {
	Fixture models.Fixture
	Home    []models.Player
	Away    []models.Player
	Events  []models.MatchEvent
}

// Roster returns the players of teamID, or nil for a team outside the match.
func (m match) Roster(teamID string) []models.Player {
	switch teamID {
	case "":
		return nil
	case m.Fixture.Home.ID:
		return m.Home
	case m.Fixture.Away.ID:
		return m.Away
	}
	return nil
}

// eventKind binds an event route segment to its draft and upstream action.
type eventKind struct {
	Slug   string
	Title  string
	blank  func(forms.EventBase) forms.Draft
	decode func(url.Values) forms.Draft
	create func(*gateway.MatchEvents, context.Context, *gateway.Payload) error
}

var eventKinds = []eventKind{
	{
		Slug:   "goal",
		Title:  "Goal",
		blank:  func(b forms.EventBase) forms.Draft { return forms.BlankGoalDraft(b) },
		decode: func(v url.Values) forms.Draft { return forms.DecodeGoalDraft(v) },
		create: (*gateway.MatchEvents).CreateGoal,
	},
	{
		Slug:   "substitution",
		Title:  "Substitution",
		blank:  func(b forms.EventBase) forms.Draft { return forms.BlankSubstitutionDraft(b) },
		decode: func(v url.Values) forms.Draft { return forms.DecodeSubstitutionDraft(v) },
		create: (*gateway.MatchEvents).CreateSubstitution,
	},
	{
		Slug:   "red-card",
		Title:  "Red card",
		blank:  func(b forms.EventBase) forms.Draft { return forms.BlankRedCardDraft(b) },
		decode: func(v url.Values) forms.Draft { return forms.DecodeRedCardDraft(v) },
		create: (*gateway.MatchEvents).CreateRedCard,
	},
	{
		Slug:   "penalty-save",
		Title:  "Penalty save",
		blank:  func(b forms.EventBase) forms.Draft { return forms.BlankPenaltySaveDraft(b) },
		decode: func(v url.Values) forms.Draft { return forms.DecodePenaltySaveDraft(v) },
		create: (*gateway.MatchEvents).CreatePenaltySave,
	},
	{
		Slug:   "bonus",
		Title:  "Bonus points",
		blank:  func(b forms.EventBase) forms.Draft { return forms.BlankBonusPointDraft(b) },
		decode: func(v url.Values) forms.Draft { return forms.DecodeBonusPointDraft(v) },
		create: (*gateway.MatchEvents).CreateBonusPoint,
	},
}

func lookupKind(slug string) (eventKind, bool) {
	for _, kind := range eventKinds {
		if kind.Slug == slug {
			return kind, true
		}
	}
	return eventKind{}, false
}

// loadMatch fetches the fixture, its events and both rosters. The fixture
// and events are requested together; the rosters follow once the team ids
// are known. The first failure cancels the remaining calls.
func (h *Handler) loadMatch(ctx context.Context, id string) (match, error) {
	var m match
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := h.events(gctx, id)
		m.Events = events
		return err
	})
	g.Go(func() error {
		fixture, err := h.client.Fixtures.Get(gctx, id)
		if err != nil {
			return err
		}
		if fixture == nil {
			return errFixtureNotFound
		}
		m.Fixture = *fixture

		rosters, rctx := errgroup.WithContext(gctx)
		rosters.Go(func() error {
			players, err := h.roster(rctx, fixture.Home.ID)
			m.Home = players
			return err
		})
		rosters.Go(func() error {
			players, err := h.roster(rctx, fixture.Away.ID)
			m.Away = players
			return err
		})
		return rosters.Wait()
	})
	if err := g.Wait(); err != nil {
		return match{}, err
	}
	return m, nil
}

// events lists the match events by minute. A match without events is a 404
// on some upstream versions.
func (h *Handler) events(ctx context.Context, id string) ([]models.MatchEvent, error) {
	events, err := h.client.MatchEvents.ListByMatch(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return events, nil
}

func (h *Handler) roster(ctx context.Context, teamID string) ([]models.Player, error) {
	if teamID == "" {
		return nil, nil
	}
	players, err := h.client.Players.ListByTeam(ctx, teamID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	return players, err
}

// matchFor loads the match of the {id} path value, answering the request on
// failure.
func (h *Handler) matchFor(w http.ResponseWriter, r *http.Request) (match, bool) {
	ctx := r.Context()
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return match{}, false
	}
	m, err := h.loadMatch(ctx, id)
	switch {
	case err == nil:
		return m, true
	case apiutil.Unauthorized(w, r, err):
	case errors.Is(err, errFixtureNotFound):
		if htmx.IsRequest(r) {
			htmx.Failure(w, "This fixture no longer exists.")
		}
		http.Error(w, "This fixture no longer exists.", http.StatusNotFound)
	default:
		log.Ctx(ctx).Error().Err(err).Str("fixture_id", id).Msg("Failed to load match")
		message := apiutil.UpstreamMessage(err, "Could not load the match.")
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
		}
		http.Error(w, message, apiutil.UpstreamStatus(err))
	}
	return match{}, false
}

// HandleMatch handles GET /fixtures/{id}: the match screen, or the match as
// JSON for non-htmx clients asking for it.
func (h *Handler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	m, ok := h.matchFor(w, r)
	if !ok {
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		if err := apiutil.WriteJSON(w, http.StatusOK, m); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write match response")
		}
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, m.Fixture.Title(), "fixtures", matchPage(m))
}

// HandleTimeline handles GET /fixtures/{id}/events.
func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	events, err := h.events(ctx, id)
	if apiutil.Unauthorized(w, r, err) {
		return
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("fixture_id", id).Msg("Failed to load match events")
	}
	if !htmx.IsRequest(r) {
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, events); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write events response")
		}
		return
	}
	apiutil.RenderHTMLComponent(ctx, w, timeline(id, events, err, false), nil,
		"Failed to render match timeline", "Failed to render timeline")
}

// HandleRoster handles GET /fixtures/{id}/roster?q=, filtering the loaded
// squads by player name, number or position.
func (h *Handler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	m, ok := h.matchFor(w, r)
	if !ok {
		return
	}
	term := r.URL.Query().Get("q")
	apiutil.RenderHTMLComponent(r.Context(), w, rosters(m, term), nil,
		"Failed to render rosters", "Failed to render rosters")
}

// filterRoster keeps the players matching term.
func filterRoster(players []models.Player, term string) []models.Player {
	return listing.FilterLocal(players, term, func(p models.Player) string {
		return p.Name + " " + p.Position + " #" + itoa(p.Number)
	})
}

// HandleEventForm handles GET /fixtures/{id}/events/{kind}/new. A request
// carrying the form values (a team change) re-renders the form with them so
// the player pickers follow the selected team.
func (h *Handler) HandleEventForm(w http.ResponseWriter, r *http.Request) {
	kind, ok := lookupKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	m, ok := h.matchFor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	var draft forms.Draft
	if query.Has("match") {
		query.Set("match", m.Fixture.ID)
		draft = kind.decode(query)
	} else {
		draft = kind.blank(forms.NewEventBase(m.Fixture))
	}
	h.renderEventForm(w, r, http.StatusOK, eventView{Kind: kind, Match: m, Draft: draft})
}

// HandleCreateEvent handles POST /fixtures/{id}/events/{kind}.
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	kind, ok := lookupKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}
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
	values.Set("match", id)
	draft := kind.decode(values)

	errs, err := forms.Submit(ctx, draft, func(ctx context.Context, payload *gateway.Payload) error {
		return kind.create(h.client.MatchEvents, ctx, payload)
	})
	view := eventView{Kind: kind, Draft: draft, Errors: errs}
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case err != nil:
		status := apiutil.UpstreamStatus(err)
		logger.Error().Err(err).Str("fixture_id", id).Str("event", kind.Slug).Int("status", status).Msg("Upstream rejected match event")
		view.Error = apiutil.UpstreamMessage(err, "Could not save the "+strings.ToLower(kind.Title)+".")
		if status >= 500 {
			htmx.Failure(w, view.Error)
		}
		h.rerenderEventForm(w, r, status, view)
		return
	case !errs.OK():
		h.rerenderEventForm(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	logger.Info().Str("fixture_id", id).Str("event", kind.Slug).Msg("Match event created")
	htmx.Success(w, kind.Title+" added.")
	h.respondTimeline(w, r, http.StatusCreated, id)
}

// rerenderEventForm reloads the match for the pickers before showing the
// form again.
func (h *Handler) rerenderEventForm(w http.ResponseWriter, r *http.Request, status int, view eventView) {
	m, ok := h.matchFor(w, r)
	if !ok {
		return
	}
	view.Match = m
	h.renderEventForm(w, r, status, view)
}

func (h *Handler) renderEventForm(w http.ResponseWriter, r *http.Request, status int, view eventView) {
	ctx := r.Context()
	if !htmx.IsRequest(r) && status >= 400 {
		payload := map[string]any{"error": view.Error}
		if !view.Errors.OK() {
			payload["fields"] = view.Errors.Map()
		}
		if err := apiutil.WriteJSON(w, status, payload); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write event form errors")
		}
		return
	}
	apiutil.RenderHTML(ctx, w, status, ui.Modal(view.Kind.Title, eventForm(view)), nil,
		"Failed to render event form", "Failed to render form")
}

// HandleConfirmDeleteEvent handles GET /fixtures/{id}/events/{event}/delete.
func (h *Handler) HandleConfirmDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, eventID, ok := eventPath(w, r)
	if !ok {
		return
	}
	body := ui.Confirm("Delete this event? This cannot be undone.", eventURL(id, eventID))
	apiutil.RenderHTMLComponent(r.Context(), w, ui.Modal("Delete event", body), nil,
		"Failed to render delete confirmation", "Failed to render confirmation")
}

// HandleDeleteEvent handles DELETE /fixtures/{id}/events/{event}.
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)
	id, eventID, ok := eventPath(w, r)
	if !ok {
		return
	}
	err := h.client.MatchEvents.Delete(ctx, eventID)
	switch {
	case apiutil.Unauthorized(w, r, err):
		return
	case errors.Is(err, gateway.ErrNotFound):
		logger.Warn().Str("event_id", eventID).Msg("Match event already gone")
		htmx.Trigger(w, map[string]any{
			htmx.EventCloseModal: true,
			htmx.EventShowToast:  htmx.Toast{Message: "This event no longer exists.", Level: "error"},
		})
	case err != nil:
		logger.Error().Err(err).Str("event_id", eventID).Msg("Failed to delete match event")
		message := apiutil.UpstreamMessage(err, "Could not delete the event.")
		if htmx.IsRequest(r) {
			htmx.Failure(w, message)
			w.WriteHeader(apiutil.UpstreamStatus(err))
			return
		}
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: apiutil.UpstreamStatus(err), Message: message, Err: err})
		return
	default:
		logger.Info().Str("fixture_id", id).Str("event_id", eventID).Msg("Match event deleted")
		htmx.Success(w, "Event deleted.")
	}
	h.respondTimeline(w, r, http.StatusOK, id)
}

// respondTimeline answers a successful event mutation with the refreshed
// timeline, swapped out of band so the modal empties.
func (h *Handler) respondTimeline(w http.ResponseWriter, r *http.Request, status int, id string) {
	ctx := r.Context()
	events, err := h.events(ctx, id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("fixture_id", id).Msg("Failed to reload match events")
	}
	if !htmx.IsRequest(r) {
		if err := apiutil.WriteJSON(w, status, events); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to write events response")
		}
		return
	}
	apiutil.RenderHTML(ctx, w, status, timeline(id, events, err, true), nil,
		"Failed to render match timeline", "Failed to render timeline")
}

func eventPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	id, err := apiutil.PathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	eventID := strings.TrimSpace(r.PathValue("event"))
	if !models.IsObjectID(eventID) {
		http.Error(w, "invalid event identifier", http.StatusBadRequest)
		return "", "", false
	}
	return id, eventID, true
}

func eventURL(fixtureID, eventID string) string {
	return "/fixtures/" + fixtureID + "/events/" + eventID
}
