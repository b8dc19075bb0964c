// internal/models/fixture.go
package models

import (
	"strconv"
	"time"
)

type FixtureStatus string

const (
	StatusNotStarted FixtureStatus = "Not Started"
	StatusInProgress FixtureStatus = "In Progress"
	StatusFinished   FixtureStatus = "Finished"
	StatusPostponed  FixtureStatus = "Postponed"
	StatusCancelled  FixtureStatus = "Cancelled"
)

var statusShortCodes = map[FixtureStatus]string{
	StatusNotStarted: "NS",
	StatusInProgress: "IP",
	StatusFinished:   "FT",
	StatusPostponed:  "PST",
	StatusCancelled:  "CANC",
}

// FixtureStatuses lists the statuses in display order.
func FixtureStatuses() []FixtureStatus {
	return []FixtureStatus{StatusNotStarted, StatusInProgress, StatusFinished, StatusPostponed, StatusCancelled}
}

func (s FixtureStatus) Valid() bool {
	_, ok := statusShortCodes[s]
	return ok
}

// ShortCode maps the long status to its short code. Unknown statuses map to NS.
func (s FixtureStatus) ShortCode() string {
	if code, ok := statusShortCodes[s]; ok {
		return code
	}
	return statusShortCodes[StatusNotStarted]
}

type Fixture struct {
	ID          string        `json:"_id,omitempty"`
	Home        TeamRef       `json:"teamshome"`
	Away        TeamRef       `json:"teamsaway"`
	Round       string        `json:"round"`
	Date        time.Time     `json:"date"`
	StadiumName string        `json:"stadename"`
	StadiumCity string        `json:"stadecity"`
	Referee     string        `json:"referee,omitempty"`
	StatusLong  FixtureStatus `json:"statuslong"`
	StatusShort string        `json:"statusshort"`
	Goals       Goals         `json:"goals"`
	Score       Score         `json:"score"`
}

// Goals is the running or final goal count per side.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Halftime Goals `json:"halftime"`
	Fulltime Goals `json:"fulltime"`
}

// Scoreline formats a goal pair as "H - A", or "-" when unknown.
func (g Goals) Scoreline() string {
	if g.Home == nil || g.Away == nil {
		return "-"
	}
	return strconv.Itoa(*g.Home) + " - " + strconv.Itoa(*g.Away)
}

// Title is "Home vs Away".
func (f Fixture) Title() string {
	return f.Home.Label() + " vs " + f.Away.Label()
}
