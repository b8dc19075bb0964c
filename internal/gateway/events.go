// internal/gateway/events.go
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/codr1/leaguedesk/internal/models"
)

const matchEventsPath = "/match-events"

type MatchEvents struct {
	c *Client
}

func (m *MatchEvents) ListByMatch(ctx context.Context, fixtureID string) ([]models.MatchEvent, error) {
	path := matchEventsPath + "/match/" + url.PathEscape(fixtureID)
	body, err := m.c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	page, err := decodeList[models.MatchEvent](body, ListParams{}, "events")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (m *MatchEvents) CreateGoal(ctx context.Context, payload *Payload) error {
	return m.create(ctx, "createGoal", payload)
}

func (m *MatchEvents) CreateSubstitution(ctx context.Context, payload *Payload) error {
	return m.create(ctx, "createSubstitution", payload)
}

func (m *MatchEvents) CreateRedCard(ctx context.Context, payload *Payload) error {
	return m.create(ctx, "createRedCard", payload)
}

func (m *MatchEvents) CreatePenaltySave(ctx context.Context, payload *Payload) error {
	return m.create(ctx, "createPenaltySave", payload)
}

func (m *MatchEvents) CreateBonusPoint(ctx context.Context, payload *Payload) error {
	return m.create(ctx, "createBonusPoint", payload)
}

func (m *MatchEvents) Delete(ctx context.Context, id string) error {
	path := matchEventsPath + "/" + url.PathEscape(id)
	if _, err := m.c.send(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (m *MatchEvents) create(ctx context.Context, action string, payload *Payload) error {
	path := matchEventsPath + "/" + action
	if _, err := m.c.send(ctx, http.MethodPost, path, payload); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}
