// internal/models/event.go
package models

type EventType string

const (
	EventGoal         EventType = "goal"
	EventSanction     EventType = "sanction"
	EventSubstitution EventType = "substitution"
	EventPenaltySave  EventType = "penalty_save"
)

type GoalType string

const (
	GoalRegular GoalType = "regular"
	GoalPenalty GoalType = "penalty"
	GoalOwnGoal GoalType = "own_goal"
)

func GoalTypes() []GoalType {
	return []GoalType{GoalRegular, GoalPenalty, GoalOwnGoal}
}

func (g GoalType) Valid() bool {
	switch g {
	case GoalRegular, GoalPenalty, GoalOwnGoal:
		return true
	}
	return false
}

type CardType string

const (
	CardDirect     CardType = "direct"
	CardTwoYellows CardType = "2yellow"
)

func CardTypes() []CardType {
	return []CardType{CardDirect, CardTwoYellows}
}

func (c CardType) Valid() bool {
	return c == CardDirect || c == CardTwoYellows
}

// PlayerRef is a populated or bare player reference inside an event.
type PlayerRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *PlayerRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = PlayerRef{ID: id}
		return nil
	}
	type refAlias PlayerRef
	var alias refAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*r = PlayerRef(alias)
	return nil
}

func (r *PlayerRef) Label() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// MatchEvent is the tagged union returned by the match events endpoint. The
// variant-specific fields are set according to EventType.
type MatchEvent struct {
	ID        string     `json:"_id,omitempty"`
	EventType EventType  `json:"eventType"`
	Match     string     `json:"match,omitempty"`
	Team      *TeamRef   `json:"team,omitempty"`
	Round     string     `json:"round,omitempty"`
	Time      int        `json:"time"`
	Player    *PlayerRef `json:"player,omitempty"`
	Assist    *PlayerRef `json:"assist,omitempty"`
	GoalType  GoalType   `json:"goalType,omitempty"`
	Card      CardType   `json:"card,omitempty"`
	PlayerOut *PlayerRef `json:"substitutionPlayerOut,omitempty"`
	PlayerIn  *PlayerRef `json:"substitutionPlayerIn,omitempty"`
	Keeper    *PlayerRef `json:"goalkeeper,omitempty"`
}

// Summary renders one line of the match timeline.
func (e MatchEvent) Summary() string {
	switch e.EventType {
	case EventGoal:
		summary := "Goal: " + e.Player.Label()
		if e.GoalType != "" && e.GoalType != GoalRegular {
			summary += " (" + string(e.GoalType) + ")"
		}
		if e.Assist != nil && e.Assist.Label() != "" {
			summary += ", assist " + e.Assist.Label()
		}
		return summary
	case EventSanction:
		card := "red card"
		if e.Card == CardTwoYellows {
			card = "second yellow"
		}
		return "Sanction: " + e.Player.Label() + " (" + card + ")"
	case EventSubstitution:
		return "Substitution: " + e.PlayerOut.Label() + " → " + e.PlayerIn.Label()
	case EventPenaltySave:
		keeper := e.Keeper
		if keeper == nil {
			keeper = e.Player
		}
		return "Penalty saved by " + keeper.Label()
	default:
		return string(e.EventType)
	}
}

// BonusPoint awards fantasy points to a player for one match.
type BonusPoint struct {
	Match  string `json:"match"`
	Team   string `json:"team"`
	Round  string `json:"round"`
	Player string `json:"player"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}
