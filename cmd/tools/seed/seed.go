package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
)

// seedFile lists teams with their squads. Keys are the console form field
// names, so "staf.manager" fills the team manager.
type seedFile struct {
	Teams []seedTeam `yaml:"teams"`
}

type seedTeam struct {
	Fields  map[string]string   `yaml:",inline"`
	Players []map[string]string `yaml:"players"`
}

type summary struct {
	Teams   int
	Players int
	Skipped int
}

func parseSeed(data []byte) (seedFile, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Teams) == 0 {
		return seedFile{}, fmt.Errorf("seed file has no teams")
	}
	return file, nil
}

func values(fields map[string]string) url.Values {
	v := url.Values{}
	for key, value := range fields {
		v.Set(key, value)
	}
	return v
}

// seed creates every team, then its players against the new team id. Invalid
// entries are logged and skipped; upstream failures stop the run.
func seed(ctx context.Context, client *gateway.Client, file seedFile) (summary, error) {
	var result summary
	for i, entry := range file.Teams {
		draft := forms.DecodeTeamDraft(values(entry.Fields))
		if errs := draft.Validate(); !errs.OK() {
			log.Warn().Int("team", i).Str("name", draft.Name).Err(errs).Msg("Skipping invalid team")
			result.Skipped += 1 + len(entry.Players)
			continue
		}
		team, err := client.Teams.Create(ctx, draft.Payload())
		if err != nil {
			return result, fmt.Errorf("create team %q: %w", draft.Name, err)
		}
		if team.ID == "" {
			return result, fmt.Errorf("create team %q: upstream returned no id", draft.Name)
		}
		result.Teams++
		log.Info().Str("id", team.ID).Str("name", team.Name).Msg("Team created")

		ref := team.Ref()
		for j, fields := range entry.Players {
			player := forms.DecodePlayerDraft(values(fields))
			player.Team = ref
			if errs := player.Validate(); !errs.OK() {
				log.Warn().Str("team", ref.Name).Int("player", j).Str("name", player.Name).Err(errs).Msg("Skipping invalid player")
				result.Skipped++
				continue
			}
			if _, err := client.Players.Create(ctx, player.Payload()); err != nil {
				return result, fmt.Errorf("create player %q of %q: %w", player.Name, ref.Name, err)
			}
			result.Players++
		}
	}
	return result, nil
}
