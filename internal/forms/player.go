// internal/forms/player.go
package forms

import (
	"net/url"
	"slices"
	"strings"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	MsgInvalidTeamID  = "Team ID has an invalid format."
	MsgReasonRequired = "Reason is required when status is not 'Available'."
)

type PlayerDraft struct {
	ID                 string
	Team               models.TeamRef
	Name               string
	Age                string
	Number             string
	Position           string
	Height             string
	Value              string
	ValuePassionne     string
	AvailabilityStatus string
	AvailabilityReason string
	MVP                bool
	IsInjured          bool
	RedCard            bool
	Logo               string

	Photo *Upload
}

// PlayerBody is the editable part of a player as sent upstream.
type PlayerBody struct {
	Team               models.TeamRef            `json:"team"`
	Name               string                    `json:"name"`
	Age                int                       `json:"age"`
	Number             int                       `json:"number"`
	Position           string                    `json:"position"`
	Height             string                    `json:"height,omitempty"`
	Value              string                    `json:"value,omitempty"`
	ValuePassionne     *int                      `json:"value_passionne,omitempty"`
	Logo               string                    `json:"logo,omitempty"`
	AvailabilityStatus models.AvailabilityStatus `json:"availabilityStatus"`
	AvailabilityReason string                    `json:"availabilityReason,omitempty"`
	MVP                bool                      `json:"mvp"`
	IsInjured          bool                      `json:"isInjured"`
	RedCard            bool                      `json:"redCard"`
}

var playerFields = []Field[PlayerDraft]{
	text("team_id", "Team ID", true, func(d *PlayerDraft) *string { return &d.Team.ID }),
	text("name", "Name", true, func(d *PlayerDraft) *string { return &d.Name }),
	text("age", "Age", true, func(d *PlayerDraft) *string { return &d.Age }),
	text("number", "Number", true, func(d *PlayerDraft) *string { return &d.Number }),
	text("position", "Position", true, func(d *PlayerDraft) *string { return &d.Position }),
	text("height", "Height", false, func(d *PlayerDraft) *string { return &d.Height }),
	text("value", "Value", false, func(d *PlayerDraft) *string { return &d.Value }),
	text("value_passionne", "Fan value", false, func(d *PlayerDraft) *string { return &d.ValuePassionne }),
	text("availabilityStatus", "Availability Status", true, func(d *PlayerDraft) *string { return &d.AvailabilityStatus }),
	text("availabilityReason", "Availability reason", false, func(d *PlayerDraft) *string { return &d.AvailabilityReason }),
	flag("mvp", "MVP", func(d *PlayerDraft) *bool { return &d.MVP }),
	flag("isInjured", "Injured", func(d *PlayerDraft) *bool { return &d.IsInjured }),
	flag("redCard", "Suspended", func(d *PlayerDraft) *bool { return &d.RedCard }),
}

func PlayerFields() []Field[PlayerDraft] {
	return playerFields
}

func BlankPlayerDraft() PlayerDraft {
	return PlayerDraft{AvailabilityStatus: string(models.AvailabilityAvailable)}
}

func PlayerDraftFrom(player models.Player) PlayerDraft {
	status := player.AvailabilityStatus
	if status == "" {
		status = models.AvailabilityAvailable
	}
	return PlayerDraft{
		ID:                 player.ID,
		Team:               player.Team,
		Name:               player.Name,
		Age:                intString(player.Age),
		Number:             intString(player.Number),
		Position:           player.Position,
		Height:             player.Height,
		Value:              player.Value,
		ValuePassionne:     optionalIntString(player.ValuePassionne),
		AvailabilityStatus: string(status),
		AvailabilityReason: player.AvailabilityReason,
		MVP:                player.MVP,
		IsInjured:          player.IsInjured,
		RedCard:            player.RedCard,
		Logo:               player.Logo,
	}
}

func DecodePlayerDraft(values url.Values) PlayerDraft {
	draft := BlankPlayerDraft()
	decodeFields(values, playerFields, &draft)
	if draft.AvailabilityStatus == "" {
		draft.AvailabilityStatus = string(models.AvailabilityAvailable)
	}
	draft.ID = strings.TrimSpace(values.Get("id"))
	draft.Logo = strings.TrimSpace(values.Get("logo"))
	return draft
}

// WithTeam fills the denormalized team fields from the directory entry.
func (d PlayerDraft) WithTeam(team models.TeamRef) PlayerDraft {
	if team.ID == d.Team.ID {
		d.Team = team
	}
	return d
}

func (d PlayerDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, playerFields, &errs, requiredMessage[PlayerDraft])

	if !errs.Has("team_id") && !models.IsObjectID(d.Team.ID) {
		errs.Add("team_id", MsgInvalidTeamID)
	}
	checkRange(&errs, "age", "Age", d.Age, 15, 50)
	checkRange(&errs, "number", "Number", d.Number, 1, 99)
	if d.Position != "" && !slices.Contains(models.Positions, d.Position) {
		errs.Add("position", "Invalid position selected.")
	}
	checkRange(&errs, "value_passionne", "Fan value", d.ValuePassionne, 0, 1000)

	status := models.AvailabilityStatus(d.AvailabilityStatus)
	if d.AvailabilityStatus != "" && !status.Valid() {
		errs.Add("availabilityStatus", "Invalid availability status selected.")
	}
	if status.Valid() && status.RequiresReason() && strings.TrimSpace(d.AvailabilityReason) == "" {
		errs.Add("availabilityReason", MsgReasonRequired)
	}
	return errs
}

func (d PlayerDraft) Body() PlayerBody {
	logo := d.Logo
	if d.Photo != nil {
		logo = ""
	}
	return PlayerBody{
		Team:               d.Team,
		Name:               d.Name,
		Age:                atoi(d.Age),
		Number:             atoi(d.Number),
		Position:           d.Position,
		Height:             d.Height,
		Value:              d.Value,
		ValuePassionne:     optionalInt(d.ValuePassionne),
		Logo:               logo,
		AvailabilityStatus: models.AvailabilityStatus(d.AvailabilityStatus),
		AvailabilityReason: d.AvailabilityReason,
		MVP:                d.MVP,
		IsInjured:          d.IsInjured,
		RedCard:            d.RedCard,
	}
}

func (d PlayerDraft) Payload() *gateway.Payload {
	return attach(gateway.JSONPayload(d.Body()), d.Photo)
}
