// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	dashboardTimeout = 10 * time.Second
	recentFixtures   = 5
)

// Counter returns the number of records of one collection.
type Counter func(ctx context.Context) (int, error)

// CountOf counts through a paginated list call by asking for a single row
// and reading the reported total. Endpoints that report no total are listed
// in full and their rows counted.
func CountOf[T any](list func(context.Context, gateway.ListParams) (gateway.Page[T], error)) Counter {
	return func(ctx context.Context) (int, error) {
		page, err := list(ctx, gateway.ListParams{Page: 1, Limit: 1})
		if err != nil {
			return 0, err
		}
		if page.Counted {
			return page.Total, nil
		}
		all, err := list(ctx, gateway.ListParams{})
		if err != nil {
			return 0, err
		}
		return len(all.Items), nil
	}
}

// Tile is one headline count of the dashboard.
type Tile struct {
	Key   string
	Label string
	Href  string
	Count Counter
}

type FixtureLister interface {
	List(ctx context.Context, params gateway.ListParams) (gateway.Page[models.Fixture], error)
}

type Handler struct {
	tiles    []Tile
	fixtures FixtureLister
}

// New builds the dashboard over the teams, players, fixtures, blogs and
// quizzes collections of client.
func New(client *gateway.Client) *Handler {
	return NewWithTiles([]Tile{
		{Key: "teams", Label: "Teams", Href: "/teams", Count: CountOf(client.Teams.List)},
		{Key: "players", Label: "Players", Href: "/players", Count: CountOf(client.Players.List)},
		{Key: "fixtures", Label: "Fixtures", Href: "/fixtures", Count: CountOf(client.Fixtures.List)},
		{Key: "blogs", Label: "Blogs", Href: "/blogs", Count: CountOf(client.Blogs.List)},
		{Key: "quizzes", Label: "Quizzes", Href: "/quizzes", Count: CountOf(client.Quizzes.List)},
	}, client.Fixtures)
}

func NewWithTiles(tiles []Tile, fixtures FixtureLister) *Handler {
	return &Handler{tiles: tiles, fixtures: fixtures}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleDashboardPage)
}

type tileResult struct {
	Tile  Tile
	Count int
	Err   error
}

type dashboardData struct {
	Tiles       []tileResult
	Fixtures    []models.Fixture
	FixturesErr error
}

// HandleDashboardPage handles GET /. Tiles load concurrently and fail
// independently so one unavailable collection leaves the others visible.
func (h *Handler) HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()
	logger := log.Ctx(ctx)

	data := h.load(ctx)
	for _, tile := range data.Tiles {
		if apiutil.Unauthorized(w, r, tile.Err) {
			return
		}
		if tile.Err != nil {
			logger.Error().Err(tile.Err).Str("entity", tile.Tile.Key).Msg("Failed to count dashboard tile")
		}
	}
	if apiutil.Unauthorized(w, r, data.FixturesErr) {
		return
	}
	if data.FixturesErr != nil {
		logger.Error().Err(data.FixturesErr).Msg("Failed to load recent fixtures")
	}

	if !htmx.IsRequest(r) && strings.Contains(r.Header.Get("Accept"), "application/json") {
		counts := make(map[string]any, len(data.Tiles))
		for _, tile := range data.Tiles {
			if tile.Err != nil {
				counts[tile.Tile.Key] = nil
				continue
			}
			counts[tile.Tile.Key] = tile.Count
		}
		_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"counts": counts, "recentFixtures": data.Fixtures})
		return
	}
	apiutil.RenderPage(w, r, http.StatusOK, "Dashboard", "dashboard", dashboardPage(data))
}

func (h *Handler) load(ctx context.Context) dashboardData {
	data := dashboardData{Tiles: make([]tileResult, len(h.tiles))}
	var g errgroup.Group
	for i, tile := range h.tiles {
		g.Go(func() error {
			count, err := tile.Count(ctx)
			data.Tiles[i] = tileResult{Tile: tile, Count: count, Err: err}
			return nil
		})
	}
	if h.fixtures != nil {
		g.Go(func() error {
			page, err := h.fixtures.List(ctx, gateway.ListParams{Page: 1, Limit: recentFixtures})
			if err != nil && errors.Is(err, gateway.ErrNotFound) {
				err = nil
			}
			data.Fixtures, data.FixturesErr = page.Items, err
			return nil
		})
	}
	_ = g.Wait()
	return data
}
