// internal/forms/events.go
package forms

import (
	"net/url"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	MinEventMinute = 0
	MaxEventMinute = 130
)

// EventBase holds the fields every match event carries.
type EventBase struct {
	Match  string
	Team   string
	Round  string
	Minute string
}

func (b EventBase) validate(errs *Errors) {
	for _, id := range []struct{ path, value string }{{"match", b.Match}, {"team", b.Team}} {
		if id.value != "" && !errs.Has(id.path) && !models.IsObjectID(id.value) {
			errs.Add(id.path, "Invalid identifier format.")
		}
	}
	checkRange(errs, "time", "Minute", b.Minute, MinEventMinute, MaxEventMinute)
}

func (b EventBase) startingAtKickoff() EventBase {
	if b.Minute == "" {
		b.Minute = "0"
	}
	return b
}

func eventBaseFields[D any](base func(*D) *EventBase) []Field[D] {
	return []Field[D]{
		text("match", "Match", true, func(d *D) *string { return &base(d).Match }),
		text("team", "Team", true, func(d *D) *string { return &base(d).Team }),
		text("round", "Round", false, func(d *D) *string { return &base(d).Round }),
		text("time", "Minute", true, func(d *D) *string { return &base(d).Minute }),
	}
}

func requirePlayer(errs *Errors, path, label, id string) {
	if id == "" {
		errs.Add(path, label+" is required.")
		return
	}
	if !models.IsObjectID(id) {
		errs.Add(path, "Invalid identifier format.")
	}
}

// NewEventBase starts an event draft for fixture.
func NewEventBase(fixture models.Fixture) EventBase {
	return EventBase{Match: fixture.ID, Round: fixture.Round}
}

type GoalDraft struct {
	EventBase
	Player   string
	Assist   string
	GoalType string
}

type GoalBody struct {
	Match    string          `json:"match"`
	Team     string          `json:"team"`
	Round    string          `json:"round"`
	Player   string          `json:"player"`
	Assist   string          `json:"assist,omitempty"`
	Time     int             `json:"time"`
	GoalType models.GoalType `json:"goalType"`
}

var goalFields = append(eventBaseFields(func(d *GoalDraft) *EventBase { return &d.EventBase }),
	text("player", "Scorer", true, func(d *GoalDraft) *string { return &d.Player }),
	text("assist", "Assist", false, func(d *GoalDraft) *string { return &d.Assist }),
	text("goalType", "Goal type", true, func(d *GoalDraft) *string { return &d.GoalType }),
)

func BlankGoalDraft(base EventBase) GoalDraft {
	return GoalDraft{EventBase: base.startingAtKickoff(), GoalType: string(models.GoalRegular)}
}

func DecodeGoalDraft(values url.Values) GoalDraft {
	draft := GoalDraft{}
	decodeFields(values, goalFields, &draft)
	return draft
}

func (d GoalDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, goalFields, &errs, requiredMessage[GoalDraft])
	d.EventBase.validate(&errs)
	requirePlayer(&errs, "player", "Scorer", d.Player)
	if d.Assist != "" {
		if !models.IsObjectID(d.Assist) {
			errs.Add("assist", "Invalid identifier format.")
		} else if d.Assist == d.Player {
			errs.Add("assist", "The assist must come from another player.")
		}
	}
	if !models.GoalType(d.GoalType).Valid() {
		errs.Add("goalType", "Invalid goal type.")
	}
	return errs
}

func (d GoalDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(GoalBody{
		Match:    d.Match,
		Team:     d.Team,
		Round:    d.Round,
		Player:   d.Player,
		Assist:   d.Assist,
		Time:     atoi(d.Minute),
		GoalType: models.GoalType(d.GoalType),
	})
}

type SubstitutionDraft struct {
	EventBase
	PlayerOut string
	PlayerIn  string
}

type SubstitutionBody struct {
	Match     string `json:"match"`
	Team      string `json:"team"`
	Round     string `json:"round"`
	PlayerOut string `json:"playerOut"`
	PlayerIn  string `json:"playerIn"`
	Time      int    `json:"time"`
}

var substitutionFields = append(eventBaseFields(func(d *SubstitutionDraft) *EventBase { return &d.EventBase }),
	text("playerOut", "Player out", true, func(d *SubstitutionDraft) *string { return &d.PlayerOut }),
	text("playerIn", "Player in", true, func(d *SubstitutionDraft) *string { return &d.PlayerIn }),
)

func BlankSubstitutionDraft(base EventBase) SubstitutionDraft {
	return SubstitutionDraft{EventBase: base.startingAtKickoff()}
}

func DecodeSubstitutionDraft(values url.Values) SubstitutionDraft {
	draft := SubstitutionDraft{}
	decodeFields(values, substitutionFields, &draft)
	return draft
}

func (d SubstitutionDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, substitutionFields, &errs, requiredMessage[SubstitutionDraft])
	d.EventBase.validate(&errs)
	requirePlayer(&errs, "playerOut", "Player out", d.PlayerOut)
	requirePlayer(&errs, "playerIn", "Player in", d.PlayerIn)
	if d.PlayerIn != "" && d.PlayerIn == d.PlayerOut {
		errs.Add("playerIn", "The incoming player must differ from the outgoing player.")
	}
	return errs
}

func (d SubstitutionDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(SubstitutionBody{
		Match:     d.Match,
		Team:      d.Team,
		Round:     d.Round,
		PlayerOut: d.PlayerOut,
		PlayerIn:  d.PlayerIn,
		Time:      atoi(d.Minute),
	})
}

type RedCardDraft struct {
	EventBase
	Player   string
	CardType string
}

type RedCardBody struct {
	Match    string          `json:"match"`
	Team     string          `json:"team"`
	Round    string          `json:"round"`
	Player   string          `json:"player"`
	Time     int             `json:"time"`
	CardType models.CardType `json:"cardType"`
}

var redCardFields = append(eventBaseFields(func(d *RedCardDraft) *EventBase { return &d.EventBase }),
	text("player", "Player", true, func(d *RedCardDraft) *string { return &d.Player }),
	text("cardType", "Card type", true, func(d *RedCardDraft) *string { return &d.CardType }),
)

func BlankRedCardDraft(base EventBase) RedCardDraft {
	return RedCardDraft{EventBase: base.startingAtKickoff(), CardType: string(models.CardDirect)}
}

func DecodeRedCardDraft(values url.Values) RedCardDraft {
	draft := RedCardDraft{}
	decodeFields(values, redCardFields, &draft)
	return draft
}

func (d RedCardDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, redCardFields, &errs, requiredMessage[RedCardDraft])
	d.EventBase.validate(&errs)
	requirePlayer(&errs, "player", "Player", d.Player)
	if !models.CardType(d.CardType).Valid() {
		errs.Add("cardType", "Invalid card type.")
	}
	return errs
}

func (d RedCardDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(RedCardBody{
		Match:    d.Match,
		Team:     d.Team,
		Round:    d.Round,
		Player:   d.Player,
		Time:     atoi(d.Minute),
		CardType: models.CardType(d.CardType),
	})
}

type PenaltySaveDraft struct {
	EventBase
	Goalkeeper string
}

type PenaltySaveBody struct {
	Match      string `json:"match"`
	Team       string `json:"team"`
	Round      string `json:"round"`
	Goalkeeper string `json:"goalkeeper"`
	Time       int    `json:"time"`
}

var penaltySaveFields = append(eventBaseFields(func(d *PenaltySaveDraft) *EventBase { return &d.EventBase }),
	text("goalkeeper", "Goalkeeper", true, func(d *PenaltySaveDraft) *string { return &d.Goalkeeper }),
)

func BlankPenaltySaveDraft(base EventBase) PenaltySaveDraft {
	return PenaltySaveDraft{EventBase: base.startingAtKickoff()}
}

func DecodePenaltySaveDraft(values url.Values) PenaltySaveDraft {
	draft := PenaltySaveDraft{}
	decodeFields(values, penaltySaveFields, &draft)
	return draft
}

func (d PenaltySaveDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, penaltySaveFields, &errs, requiredMessage[PenaltySaveDraft])
	d.EventBase.validate(&errs)
	requirePlayer(&errs, "goalkeeper", "Goalkeeper", d.Goalkeeper)
	return errs
}

func (d PenaltySaveDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(PenaltySaveBody{
		Match:      d.Match,
		Team:       d.Team,
		Round:      d.Round,
		Goalkeeper: d.Goalkeeper,
		Time:       atoi(d.Minute),
	})
}

type BonusPointDraft struct {
	Match  string
	Team   string
	Round  string
	Player string
	Points string
	Reason string
}

var bonusPointFields = []Field[BonusPointDraft]{
	text("match", "Match", true, func(d *BonusPointDraft) *string { return &d.Match }),
	text("team", "Team", true, func(d *BonusPointDraft) *string { return &d.Team }),
	text("round", "Round", false, func(d *BonusPointDraft) *string { return &d.Round }),
	text("player", "Player", true, func(d *BonusPointDraft) *string { return &d.Player }),
	text("points", "Points", true, func(d *BonusPointDraft) *string { return &d.Points }),
	text("reason", "Reason", true, func(d *BonusPointDraft) *string { return &d.Reason }),
}

func BlankBonusPointDraft(base EventBase) BonusPointDraft {
	return BonusPointDraft{Match: base.Match, Team: base.Team, Round: base.Round}
}

func DecodeBonusPointDraft(values url.Values) BonusPointDraft {
	draft := BonusPointDraft{}
	decodeFields(values, bonusPointFields, &draft)
	return draft
}

func (d BonusPointDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, bonusPointFields, &errs, requiredMessage[BonusPointDraft])
	EventBase{Match: d.Match, Team: d.Team}.validate(&errs)
	if d.Player != "" && !models.IsObjectID(d.Player) {
		errs.Add("player", "Invalid identifier format.")
	}
	checkRange(&errs, "points", "Points", d.Points, -20, 20)
	return errs
}

func (d BonusPointDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(models.BonusPoint{
		Match:  d.Match,
		Team:   d.Team,
		Round:  d.Round,
		Player: d.Player,
		Points: atoi(d.Points),
		Reason: d.Reason,
	})
}
