package fixtures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/testutil"
)

const (
	fixtureID = "64b0000000000000000000f1"
	homeID    = "64b0000000000000000000a1"
	awayID    = "64b0000000000000000000a2"
	scorerID  = "64b0000000000000000000b1"
	assistID  = "64b0000000000000000000b2"
	eventID   = "64b0000000000000000000e1"
)

type fakeTeams []models.Team

func (f fakeTeams) Teams(context.Context) ([]models.Team, error) {
	return f, nil
}

func setup(t *testing.T) (*testutil.Backend, *http.ServeMux) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client := backend.Client()
	teams := fakeTeams{{ID: homeID, Name: "Raja Club"}, {ID: awayID, Name: "Wydad AC"}}
	mux := http.NewServeMux()
	New(client, NewRegistry(nil, client, 10), teams, crud.Settings{}).Register(mux)
	return backend, mux
}

// seedMatch answers the calls of the match screen.
func seedMatch(backend *testutil.Backend) {
	backend.Handle(http.MethodGet, "/fixture/"+fixtureID, http.StatusOK, map[string]any{
		"fixture": map[string]any{
			"_id":        fixtureID,
			"teamshome":  map[string]string{"_id": homeID, "name": "Raja Club"},
			"teamsaway":  map[string]string{"_id": awayID, "name": "Wydad AC"},
			"round":      "J12",
			"date":       "2024-03-02T18:00:00Z",
			"stadename":  "Stade Mohammed V",
			"stadecity":  "Casablanca",
			"statuslong": "In Progress",
			"goals":      map[string]int{"home": 1, "away": 0},
		},
	})
	backend.Handle(http.MethodGet, "/match-events/match/"+fixtureID, http.StatusOK, map[string]any{
		"events": []map[string]any{
			{"_id": eventID, "eventType": "goal", "time": 34, "player": map[string]string{"_id": scorerID, "name": "Youssef"}},
			{"eventType": "substitution", "time": 12, "substitutionPlayerOut": "x", "substitutionPlayerIn": map[string]string{"_id": assistID, "name": "Karim"}},
		},
	})
	backend.Handle(http.MethodGet, "/player/team/"+homeID, http.StatusOK, map[string]any{
		"players": []map[string]any{
			{"_id": scorerID, "name": "Youssef", "number": 9, "position": "Attacker"},
			{"_id": assistID, "name": "Karim", "number": 10, "position": "Midfielder"},
		},
	})
	backend.Handle(http.MethodGet, "/player/team/"+awayID, http.StatusOK, map[string]any{"players": []any{}})
}

func hxRequest(method, target string, values url.Values) *http.Request {
	var req *http.Request
	if values != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	return req
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestFixturesPageSortsByDateDesc(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodGet, "/fixture", http.StatusOK, map[string]any{"fixtures": []any{}})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/fixtures", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No fixtures yet.") {
		t.Fatalf("expected empty state: %s", rec.Body.String())
	}
	call, _ := backend.LastCall(http.MethodGet, "/fixture")
	if call.Query.Get("sortBy") != "date" || call.Query.Get("sortOrder") != "desc" {
		t.Fatalf("unexpected query %v", call.Query)
	}
}

func TestCreateFixtureRejectsSameTeams(t *testing.T) {
	backend, mux := setup(t)
	values := url.Values{
		"teamshome":  {homeID},
		"teamsaway":  {homeID},
		"round":      {"J1"},
		"date":       {"2024-03-02T18:00"},
		"stadename":  {"Stade"},
		"stadecity":  {"Rabat"},
		"statuslong": {"Not Started"},
	}

	rec := serve(mux, hxRequest(http.MethodPost, "/fixtures", values))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Home and away teams must be different.") {
		t.Fatalf("missing error: %s", rec.Body.String())
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("backend calls = %d, want 0", len(backend.Calls()))
	}
}

func TestCreateFixtureSendsShortStatus(t *testing.T) {
	backend, mux := setup(t)
	backend.Handle(http.MethodPost, "/fixture", http.StatusCreated, map[string]any{"fixture": map[string]string{"_id": fixtureID}})
	backend.Handle(http.MethodGet, "/fixture", http.StatusOK, []any{})
	values := url.Values{
		"teamshome":  {homeID},
		"teamsaway":  {awayID},
		"round":      {"J1"},
		"date":       {"2024-03-02T18:00"},
		"stadename":  {"Stade"},
		"stadecity":  {"Rabat"},
		"statuslong": {"Finished"},
		"goals.home": {"2"},
		"goals.away": {"1"},
	}

	rec := serve(mux, hxRequest(http.MethodPost, "/fixtures", values))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	call, _ := backend.LastCall(http.MethodPost, "/fixture")
	var body forms.FixtureBody
	if err := jsoniter.Unmarshal(call.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.StatusShort != "FT" || body.Goals.Home == nil || *body.Goals.Home != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Date.Hour() != 18 {
		t.Fatalf("date = %v", body.Date)
	}
}

func TestNewFixtureFormOffersDirectoryTeams(t *testing.T) {
	_, mux := setup(t)

	rec := serve(mux, hxRequest(http.MethodGet, "/fixtures/new", nil))

	for _, want := range []string{`<option value="` + homeID + `">Raja Club</option>`, `<option value="Not Started" selected>`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("form missing %q", want)
		}
	}
}
