// Package directory caches the team list shared by the player and fixture
// forms for their team pickers.
package directory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	pageSize       = 100
	refreshTimeout = 30 * time.Second
)

// TeamSource lists teams page by page.
type TeamSource interface {
	List(ctx context.Context, params gateway.ListParams) (gateway.Page[models.Team], error)
}

// Directory is the in-memory team list. It loads lazily with the caller's
// context, so the upstream call carries that caller's token.
type Directory struct {
	source   TeamSource
	clock    clockwork.Clock
	debounce *listing.Debouncer

	mu       sync.RWMutex
	teams    []models.Team
	byID     map[string]models.Team
	loadedAt time.Time
	stale    bool
	loaded   bool
	// generation increments on every load and MarkStale; a load applies
	// its result only if no increment happened after it started.
	generation uint64
}

// New builds an empty directory. Invalidations within delay of each other
// cause a single reload.
func New(source TeamSource, clock clockwork.Clock, delay time.Duration) *Directory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Directory{
		source:   source,
		clock:    clock,
		debounce: listing.NewDebouncer(clock, delay),
		byID:     make(map[string]models.Team),
	}
}

// Teams returns a copy of the cached teams sorted by name, loading them
// first when the cache is empty or stale.
func (d *Directory) Teams(ctx context.Context) ([]models.Team, error) {
	d.mu.RLock()
	fresh := d.loaded && !d.stale
	teams := slices.Clone(d.teams)
	d.mu.RUnlock()
	if fresh {
		return teams, nil
	}

	teams, err := d.load(ctx)
	if err != nil {
		// A stale list beats an empty picker.
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.loaded {
			log.Ctx(ctx).Warn().Err(err).Msg("Team directory refresh failed, serving stale list")
			return slices.Clone(d.teams), nil
		}
		return nil, err
	}
	return teams, nil
}

// Lookup returns the reference for id from the cache without loading.
func (d *Directory) Lookup(id string) (models.TeamRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	team, ok := d.byID[id]
	if !ok {
		return models.TeamRef{ID: id}, false
	}
	return team.Ref(), true
}

// Refresh reloads every page of teams.
func (d *Directory) Refresh(ctx context.Context) error {
	_, err := d.load(ctx)
	return err
}

// load fetches every page and installs the result unless a newer refresh or
// a MarkStale happened meanwhile. It returns what it fetched either way.
func (d *Directory) load(ctx context.Context) ([]models.Team, error) {
	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.mu.Unlock()

	var all []models.Team
	for page := 1; ; page++ {
		result, err := d.source.List(ctx, gateway.ListParams{Page: page, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("refresh team directory: %w", err)
		}
		all = append(all, result.Items...)
		if page >= result.Pages || len(result.Items) == 0 {
			break
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	byID := make(map[string]models.Team, len(all))
	for _, team := range all {
		byID[team.ID] = team
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if generation != d.generation {
		log.Ctx(ctx).Debug().Int("teams", len(all)).Msg("Discarded superseded team directory refresh")
		return slices.Clone(all), nil
	}
	d.teams = all
	d.byID = byID
	d.loadedAt = d.clock.Now()
	d.loaded = true
	d.stale = false

	log.Ctx(ctx).Debug().Int("teams", len(all)).Msg("Team directory refreshed")
	return slices.Clone(all), nil
}

// MarkStale forces the next Teams call to reload. The scheduler calls it on
// the refresh interval.
func (d *Directory) MarkStale() {
	d.mu.Lock()
	d.stale = true
	d.generation++
	d.mu.Unlock()
}

// Invalidate marks the cache stale after a team mutation and schedules a
// reload. The reload keeps the values of ctx, including the bearer token,
// but not its cancellation.
func (d *Directory) Invalidate(ctx context.Context) {
	d.MarkStale()
	base := context.WithoutCancel(ctx)
	d.debounce.Trigger(func() {
		refreshCtx, cancel := context.WithTimeout(base, refreshTimeout)
		defer cancel()
		if err := d.Refresh(refreshCtx); err != nil {
			log.Ctx(refreshCtx).Warn().Err(err).Msg("Team directory reload failed")
		}
	})
}

// LoadedAt reports when the cache was last filled.
func (d *Directory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

// Stop cancels any pending reload.
func (d *Directory) Stop() {
	d.debounce.Stop()
}
