// internal/gateway/resources.go
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/codr1/leaguedesk/internal/models"
)

type Teams struct {
	resource[models.Team]
}

type Players struct {
	resource[models.Player]
}

// ListByTeam returns every player of one team, unpaginated.
func (p *Players) ListByTeam(ctx context.Context, teamID string) ([]models.Player, error) {
	path := p.path + "/team/" + url.PathEscape(teamID)
	body, err := p.c.get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	page, err := decodeList[models.Player](body, ListParams{}, "players")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

type Fixtures struct {
	resource[models.Fixture]
}

// List sorts by date, most recent first, unless the caller picks a sort.
func (f *Fixtures) List(ctx context.Context, params ListParams) (Page[models.Fixture], error) {
	if params.SortBy == "" {
		params.SortBy = "date"
		params.SortOrder = SortDesc
	}
	return f.resource.List(ctx, params)
}

type Blogs struct {
	resource[models.Blog]
}

func (b *Blogs) IncrementViews(ctx context.Context, id string) error {
	path := b.itemPath(id) + "/views"
	if _, err := b.c.send(ctx, http.MethodPost, path, nil); err != nil {
		return fmt.Errorf("increment views %s: %w", id, err)
	}
	return nil
}

func (b *Blogs) AddComment(ctx context.Context, id string, comment models.BlogComment) error {
	path := b.itemPath(id) + "/comments"
	body := map[string]string{"author": comment.Author, "comment": comment.Comment}
	if _, err := b.c.send(ctx, http.MethodPost, path, JSONPayload(body)); err != nil {
		return fmt.Errorf("add comment %s: %w", id, err)
	}
	return nil
}

type Quizzes struct {
	resource[models.Quiz]
}

type Sidebar struct {
	c *Client
}

func (s *Sidebar) Get(ctx context.Context, section models.SidebarSection) (models.SidebarPage, error) {
	path := "/sidebar/" + url.PathEscape(string(section))
	body, err := s.c.get(ctx, path, nil)
	if err != nil {
		return models.SidebarPage{}, fmt.Errorf("get %s: %w", path, err)
	}
	page, err := decodeItem[models.SidebarPage](body, "sidebar")
	if err != nil {
		return models.SidebarPage{}, err
	}
	page.Section = section
	return page, nil
}

func (s *Sidebar) Update(ctx context.Context, section models.SidebarSection, content string) error {
	path := "/sidebar/" + url.PathEscape(string(section))
	if _, err := s.c.send(ctx, http.MethodPut, path, JSONPayload(map[string]string{"content": content})); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

type Auth struct {
	c *Client
}

func (a *Auth) Login(ctx context.Context, username, password string) (models.Session, error) {
	credentials := map[string]string{"username": username, "password": password}
	body, err := a.c.send(ctx, http.MethodPost, "/auth/login", JSONPayload(credentials))
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode login: %w", err)
	}
	if session.Token == "" {
		return models.Session{}, fmt.Errorf("login: empty token")
	}
	return session, nil
}
