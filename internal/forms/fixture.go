// internal/forms/fixture.go
package forms

import (
	"net/url"
	"strings"
	"time"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

// Date inputs use the datetime-local format, interpreted as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

type FixtureDraft struct {
	ID          string
	HomeID      string
	AwayID      string
	Round       string
	Date        string
	StadiumName string
	StadiumCity string
	Referee     string
	Status      string

	HomeGoals    string
	AwayGoals    string
	HalftimeHome string
	HalftimeAway string
	FulltimeHome string
	FulltimeAway string
}

type FixtureBody struct {
	Home        string               `json:"teamshome"`
	Away        string               `json:"teamsaway"`
	Round       string               `json:"round"`
	Date        time.Time            `json:"date"`
	StadiumName string               `json:"stadename"`
	StadiumCity string               `json:"stadecity"`
	Referee     string               `json:"referee,omitempty"`
	StatusLong  models.FixtureStatus `json:"statuslong"`
	StatusShort string               `json:"statusshort"`
	Goals       models.Goals         `json:"goals"`
	Score       models.Score         `json:"score"`
}

var fixtureFields = []Field[FixtureDraft]{
	text("teamshome", "Home Team", true, func(d *FixtureDraft) *string { return &d.HomeID }),
	text("teamsaway", "Away Team", true, func(d *FixtureDraft) *string { return &d.AwayID }),
	text("round", "Round", true, func(d *FixtureDraft) *string { return &d.Round }),
	text("date", "Date", true, func(d *FixtureDraft) *string { return &d.Date }),
	text("stadename", "Stadium Name", true, func(d *FixtureDraft) *string { return &d.StadiumName }),
	text("stadecity", "Stadium City", true, func(d *FixtureDraft) *string { return &d.StadiumCity }),
	text("referee", "Referee", false, func(d *FixtureDraft) *string { return &d.Referee }),
	text("statuslong", "Match Status", true, func(d *FixtureDraft) *string { return &d.Status }),
	text("goals.home", "Home goals", false, func(d *FixtureDraft) *string { return &d.HomeGoals }),
	text("goals.away", "Away goals", false, func(d *FixtureDraft) *string { return &d.AwayGoals }),
	text("score.halftime.home", "Half-time home", false, func(d *FixtureDraft) *string { return &d.HalftimeHome }),
	text("score.halftime.away", "Half-time away", false, func(d *FixtureDraft) *string { return &d.HalftimeAway }),
	text("score.fulltime.home", "Full-time home", false, func(d *FixtureDraft) *string { return &d.FulltimeHome }),
	text("score.fulltime.away", "Full-time away", false, func(d *FixtureDraft) *string { return &d.FulltimeAway }),
}

func FixtureFields() []Field[FixtureDraft] {
	return fixtureFields
}

func BlankFixtureDraft() FixtureDraft {
	return FixtureDraft{Status: string(models.StatusNotStarted)}
}

func FixtureDraftFrom(fixture models.Fixture) FixtureDraft {
	return FixtureDraft{
		ID:           fixture.ID,
		HomeID:       fixture.Home.ID,
		AwayID:       fixture.Away.ID,
		Round:        fixture.Round,
		Date:         FormatDateInput(fixture.Date),
		StadiumName:  fixture.StadiumName,
		StadiumCity:  fixture.StadiumCity,
		Referee:      fixture.Referee,
		Status:       string(fixture.StatusLong),
		HomeGoals:    optionalIntString(fixture.Goals.Home),
		AwayGoals:    optionalIntString(fixture.Goals.Away),
		HalftimeHome: optionalIntString(fixture.Score.Halftime.Home),
		HalftimeAway: optionalIntString(fixture.Score.Halftime.Away),
		FulltimeHome: optionalIntString(fixture.Score.Fulltime.Home),
		FulltimeAway: optionalIntString(fixture.Score.Fulltime.Away),
	}
}

func DecodeFixtureDraft(values url.Values) FixtureDraft {
	var draft FixtureDraft
	decodeFields(values, fixtureFields, &draft)
	draft.ID = strings.TrimSpace(values.Get("id"))
	return draft
}

// FormatDateInput renders t for a datetime-local input.
func FormatDateInput(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Second() != 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04")
}

func ParseDateInput(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (d FixtureDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, fixtureFields, &errs, requiredMessage[FixtureDraft])

	for _, side := range []struct{ path, id string }{{"teamshome", d.HomeID}, {"teamsaway", d.AwayID}} {
		if side.id != "" && !models.IsObjectID(side.id) {
			errs.Add(side.path, MsgInvalidTeamID)
		}
	}
	if d.HomeID != "" && d.HomeID == d.AwayID {
		errs.Add("teamsaway", "Home and away teams must be different.")
	}
	if d.Date != "" {
		if _, ok := ParseDateInput(d.Date); !ok {
			errs.Add("date", "Invalid date format.")
		}
	}
	if d.Status != "" && !models.FixtureStatus(d.Status).Valid() {
		errs.Add("statuslong", "Invalid match status.")
	}
	for _, field := range fixtureFields[8:] {
		checkRange(&errs, field.Path, field.Label, field.Get(&d), 0, 99)
	}
	return errs
}

func (d FixtureDraft) Body() FixtureBody {
	date, _ := ParseDateInput(d.Date)
	status := models.FixtureStatus(d.Status)
	return FixtureBody{
		Home:        d.HomeID,
		Away:        d.AwayID,
		Round:       d.Round,
		Date:        date,
		StadiumName: d.StadiumName,
		StadiumCity: d.StadiumCity,
		Referee:     d.Referee,
		StatusLong:  status,
		StatusShort: status.ShortCode(),
		Goals:       models.Goals{Home: optionalInt(d.HomeGoals), Away: optionalInt(d.AwayGoals)},
		Score: models.Score{
			Halftime: models.Goals{Home: optionalInt(d.HalftimeHome), Away: optionalInt(d.HalftimeAway)},
			Fulltime: models.Goals{Home: optionalInt(d.FulltimeHome), Away: optionalInt(d.FulltimeAway)},
		},
	}
}

func (d FixtureDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(d.Body())
}
