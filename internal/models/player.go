// internal/models/player.go
package models

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityWillNotPlay AvailabilityStatus = "willNotPlay"
	AvailabilityUncertain   AvailabilityStatus = "uncertain"
)

var availabilityLabels = map[AvailabilityStatus]string{
	AvailabilityAvailable:   "Available",
	AvailabilityWillNotPlay: "Will Not Play",
	AvailabilityUncertain:   "Uncertain",
}

// AvailabilityStatuses lists the statuses in display order.
func AvailabilityStatuses() []AvailabilityStatus {
	return []AvailabilityStatus{AvailabilityAvailable, AvailabilityWillNotPlay, AvailabilityUncertain}
}

func (s AvailabilityStatus) Valid() bool {
	_, ok := availabilityLabels[s]
	return ok
}

func (s AvailabilityStatus) Label() string {
	if label, ok := availabilityLabels[s]; ok {
		return label
	}
	return string(s)
}

// RequiresReason is true for every status other than available.
func (s AvailabilityStatus) RequiresReason() bool {
	return s != AvailabilityAvailable
}

type Player struct {
	ID                 string             `json:"_id,omitempty"`
	Team               TeamRef            `json:"team"`
	Name               string             `json:"name"`
	Age                int                `json:"age"`
	Number             int                `json:"number"`
	Position           string             `json:"position"`
	Logo               string             `json:"logo,omitempty"`
	Value              string             `json:"value,omitempty"`
	ValuePassionne     *int               `json:"value_passionne,omitempty"`
	Height             string             `json:"height,omitempty"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus,omitempty"`
	AvailabilityReason string             `json:"availabilityReason,omitempty"`
	MVP                bool               `json:"mvp"`
	IsInjured          bool               `json:"isInjured"`
	RedCard            bool               `json:"redCard"`
	Points             []PlayerPoint      `json:"points,omitempty"`
}

type PlayerPoint struct {
	Round string `json:"round,omitempty"`
	Total int    `json:"total,omitempty"`
}

// Positions offered by the player and event forms.
var Positions = []string{"Goalkeeper", "Defender", "Midfielder", "Attacker"}
