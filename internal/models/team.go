// internal/models/team.go
package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

type Team struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Founded   string    `json:"founded"`
	Logo      string    `json:"logo"`
	Group     string    `json:"group"`
	CreatedAt time.Time `json:"createdAt"`
	Staff     Staff     `json:"staf"`
}

// UnmarshalJSON accepts both `_id` and the older `id` key for the identifier.
func (t *Team) UnmarshalJSON(data []byte) error {
	type teamAlias Team
	aux := struct {
		*teamAlias
		LegacyID jsoniter.RawMessage `json:"id"`
	}{teamAlias: (*teamAlias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = rawIDString(aux.LegacyID)
	}
	return nil
}

// Ref returns the denormalized reference embedded in players and fixtures.
func (t Team) Ref() TeamRef {
	return TeamRef{ID: t.ID, Name: t.Name, Code: t.Code, Logo: t.Logo}
}

// Staff mirrors the upstream `staf` document.
type Staff struct {
	HeadCoach        string           `json:"entprincipal"`
	AssistantCoaches AssistantCoaches `json:"entadjoints"`
	Manager          string           `json:"manager"`
	GoalkeeperCoach  string           `json:"entgardien"`
	FitnessCoach     string           `json:"prepphysique"`
	DataAnalyst      string           `json:"analystedonnes"`
	Physio           string           `json:"kine"`
	AssistantPhysio  string           `json:"kineadjoint"`
	Doctors          Doctors          `json:"medecins"`
	Administration   Administration   `json:"administration"`
	Recruiters       Recruiters       `json:"recruteurs"`
}

type AssistantCoaches struct {
	First  string `json:"entadj1"`
	Second string `json:"entadj2"`
}

type Doctors struct {
	First  string `json:"medc1"`
	Second string `json:"medc2"`
}

type Administration struct {
	President     string `json:"president"`
	VicePresident string `json:"vicepresident"`
}

type Recruiters struct {
	First  string `json:"recr1"`
	Second string `json:"recr2"`
}

// TeamRef is the team reference denormalized into players and fixtures.
type TeamRef struct {
	ID     string `json:"_id"`
	Number *int   `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Logo   string `json:"logo,omitempty"`
}

// UnmarshalJSON accepts an unpopulated reference (a bare id string) as well
// as the populated object.
func (r *TeamRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = TeamRef{ID: id}
		return nil
	}
	type refAlias TeamRef
	var alias refAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*r = TeamRef(alias)
	return nil
}

// Label is the display name of the reference, falling back to its code or id.
func (r TeamRef) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Code != "":
		return r.Code
	default:
		return r.ID
	}
}
