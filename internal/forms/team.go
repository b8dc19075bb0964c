// internal/forms/team.go
package forms

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

// StaffDraft is edited in place: every staff field is free text.
type StaffDraft = models.Staff

type TeamDraft struct {
	ID      string
	Name    string
	Code    string
	Country string
	City    string
	Founded string
	Logo    string
	Group   string
	Staff   StaffDraft

	LogoFile *Upload
}

// TeamBody is the editable part of a team as sent upstream.
type TeamBody struct {
	Name    string       `json:"name"`
	Code    string       `json:"code"`
	Country string       `json:"country"`
	City    string       `json:"city"`
	Founded string       `json:"founded"`
	Logo    string       `json:"logo,omitempty"`
	Group   string       `json:"group"`
	Staff   models.Staff `json:"staf"`
}

func teamStaff(ref func(*models.Staff) *string) func(*TeamDraft) *string {
	return func(d *TeamDraft) *string { return ref(&d.Staff) }
}

var teamFields = []Field[TeamDraft]{
	text("name", "Name", true, func(d *TeamDraft) *string { return &d.Name }),
	text("code", "Code", true, func(d *TeamDraft) *string { return &d.Code }),
	text("country", "Country", true, func(d *TeamDraft) *string { return &d.Country }),
	text("city", "City", true, func(d *TeamDraft) *string { return &d.City }),
	text("founded", "Founded", true, func(d *TeamDraft) *string { return &d.Founded }),
	text("logo", "Logo", true, func(d *TeamDraft) *string { return &d.Logo }),
	text("group", "Group", true, func(d *TeamDraft) *string { return &d.Group }),
	text("staf.entprincipal", "Head coach", true, teamStaff(func(s *models.Staff) *string { return &s.HeadCoach })),
	text("staf.entadjoints.entadj1", "Assistant coach 1", true, teamStaff(func(s *models.Staff) *string { return &s.AssistantCoaches.First })),
	text("staf.entadjoints.entadj2", "Assistant coach 2", true, teamStaff(func(s *models.Staff) *string { return &s.AssistantCoaches.Second })),
	text("staf.manager", "Manager", true, teamStaff(func(s *models.Staff) *string { return &s.Manager })),
	text("staf.entgardien", "Goalkeeper coach", true, teamStaff(func(s *models.Staff) *string { return &s.GoalkeeperCoach })),
	text("staf.prepphysique", "Fitness coach", true, teamStaff(func(s *models.Staff) *string { return &s.FitnessCoach })),
	text("staf.analystedonnes", "Data analyst", true, teamStaff(func(s *models.Staff) *string { return &s.DataAnalyst })),
	text("staf.kine", "Physiotherapist", true, teamStaff(func(s *models.Staff) *string { return &s.Physio })),
	text("staf.kineadjoint", "Assistant physiotherapist", true, teamStaff(func(s *models.Staff) *string { return &s.AssistantPhysio })),
	text("staf.medecins.medc1", "Doctor 1", true, teamStaff(func(s *models.Staff) *string { return &s.Doctors.First })),
	text("staf.medecins.medc2", "Doctor 2", true, teamStaff(func(s *models.Staff) *string { return &s.Doctors.Second })),
	text("staf.administration.president", "President", true, teamStaff(func(s *models.Staff) *string { return &s.Administration.President })),
	text("staf.administration.vicepresident", "Vice-president", true, teamStaff(func(s *models.Staff) *string { return &s.Administration.VicePresident })),
	text("staf.recruteurs.recr1", "Recruiter 1", true, teamStaff(func(s *models.Staff) *string { return &s.Recruiters.First })),
	text("staf.recruteurs.recr2", "Recruiter 2", true, teamStaff(func(s *models.Staff) *string { return &s.Recruiters.Second })),
}

// TeamFields lists the inputs of the team form in display order.
func TeamFields() []Field[TeamDraft] {
	return teamFields
}

func BlankTeamDraft() TeamDraft {
	return TeamDraft{}
}

func TeamDraftFrom(team models.Team) TeamDraft {
	return TeamDraft{
		ID:      team.ID,
		Name:    team.Name,
		Code:    team.Code,
		Country: team.Country,
		City:    team.City,
		Founded: team.Founded,
		Logo:    team.Logo,
		Group:   team.Group,
		Staff:   team.Staff,
	}
}

func DecodeTeamDraft(values url.Values) TeamDraft {
	var draft TeamDraft
	decodeFields(values, teamFields, &draft)
	draft.ID = strings.TrimSpace(values.Get("id"))
	return draft
}

func (d TeamDraft) Validate() Errors {
	var errs Errors
	// An attached file stands in for the logo URL.
	check := d
	if check.LogoFile != nil && check.Logo == "" {
		check.Logo = check.LogoFile.Name
	}
	requireFields(&check, teamFields, &errs, requiredMessage[TeamDraft])
	if founded := strings.TrimSpace(d.Founded); founded != "" {
		if _, err := strconv.Atoi(founded); err != nil {
			errs.Add("founded", "Founded year must be a number.")
		}
	}
	return errs
}

func (d TeamDraft) Body() TeamBody {
	logo := d.Logo
	if d.LogoFile != nil {
		logo = ""
	}
	return TeamBody{
		Name:    d.Name,
		Code:    d.Code,
		Country: d.Country,
		City:    d.City,
		Founded: d.Founded,
		Logo:    logo,
		Group:   d.Group,
		Staff:   d.Staff,
	}
}

// Payload is multipart when a logo file is attached, with the staff fields
// flattened in the client's key style.
func (d TeamDraft) Payload() *gateway.Payload {
	return attach(gateway.JSONPayload(d.Body()), d.LogoFile)
}
