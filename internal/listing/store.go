// internal/listing/store.go
package listing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/gateway"
)

// ErrStale is returned by Fetch when a newer fetch was issued on the same
// store before this one completed. Its result is discarded.
var ErrStale = errors.New("stale list response")

// Fetcher loads one page for a query.
type Fetcher[T any] func(ctx context.Context, params gateway.ListParams) (gateway.Page[T], error)

// Mutation is a create, update or delete call against the upstream API.
type Mutation func(ctx context.Context) error

type Options struct {
	Name      string
	Limit     int
	SortBy    string
	SortOrder gateway.SortOrder
}

// State is a snapshot of a store.
type State[T any] struct {
	Items      []T
	Pagination Pagination
	Query      Query
	Loading    bool
	Loaded     bool
	Err        error
}

// Store holds the list state of one screen. The server is the source of
// truth: every mutation is followed by a re-fetch of the current query.
type Store[T any] struct {
	name  string
	fetch Fetcher[T]

	mu    sync.Mutex
	state State[T]
	token uint64
}

func NewStore[T any](fetch Fetcher[T], opts Options) *Store[T] {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := Query{Page: 1, Limit: limit, SortBy: opts.SortBy, SortOrder: opts.SortOrder}
	return &Store[T]{
		name:  opts.Name,
		fetch: fetch,
		state: State[T]{
			Items:      []T{},
			Pagination: FirstPage(limit),
			Query:      query,
		},
	}
}

func (s *Store[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Items = append([]T(nil), s.state.Items...)
	return state
}

func (s *Store[T]) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Query
}

// Fetch loads query. Only the most recently issued fetch may update the
// state; older ones return ErrStale.
func (s *Store[T]) Fetch(ctx context.Context, query Query) (State[T], error) {
	state, err := s.fetchOnce(ctx, query)
	if err != nil {
		return state, err
	}
	// The page asked for no longer exists (rows were removed elsewhere).
	if state.Pagination.Total > 0 && query.Page > state.Pagination.lastPage() {
		query.Page = state.Pagination.lastPage()
		return s.fetchOnce(ctx, query)
	}
	return state, nil
}

func (s *Store[T]) fetchOnce(ctx context.Context, query Query) (State[T], error) {
	if query.Limit <= 0 {
		query.Limit = DefaultLimit
	}
	if query.Page < 1 {
		query.Page = 1
	}

	s.mu.Lock()
	s.token++
	token := s.token
	s.state.Loading = true
	s.state.Query = query
	s.mu.Unlock()

	page, err := s.fetch(ctx, query.Params())

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		log.Ctx(ctx).Debug().
			Str("list", s.name).
			Int("page", query.Page).
			Msg("Discarded stale list response")
		return s.snapshotLocked(), ErrStale
	}

	s.state.Loading = false
	s.state.Loaded = true
	if err != nil {
		s.state.Err = err
		s.state.Items = []T{}
		s.state.Pagination = FirstPage(query.Limit)
		return s.snapshotLocked(), err
	}

	s.state.Err = nil
	s.state.Items = page.Items
	if s.state.Items == nil {
		s.state.Items = []T{}
	}
	limit := page.Limit
	if limit <= 0 {
		limit = query.Limit
	}
	pages := page.Pages
	if pages <= 0 {
		pages = PagesFor(page.Total, limit)
	}
	if pages < 1 {
		pages = 1
	}
	current := page.Page
	if current <= 0 {
		current = query.Page
	}
	// With rows, Fetch refetches the last page instead.
	if current > pages && page.Total == 0 {
		current = pages
		s.state.Query.Page = pages
	}
	s.state.Pagination = Pagination{Page: current, Limit: limit, Total: page.Total, Pages: pages}
	return s.snapshotLocked(), nil
}

func (s *Store[T]) snapshotLocked() State[T] {
	state := s.state
	state.Items = append([]T(nil), s.state.Items...)
	return state
}

// Reload re-fetches the current query.
func (s *Store[T]) Reload(ctx context.Context) (State[T], error) {
	return s.Fetch(ctx, s.Query())
}

// Search sets the search term and returns to page 1.
func (s *Store[T]) Search(ctx context.Context, term string) (State[T], error) {
	query := s.Query()
	query.Search = strings.TrimSpace(term)
	query.Page = 1
	return s.Fetch(ctx, query)
}

// SetLimit changes the page size and returns to page 1.
func (s *Store[T]) SetLimit(ctx context.Context, limit int) (State[T], error) {
	query := s.Query()
	if limit > 0 {
		query.Limit = limit
	}
	query.Page = 1
	return s.Fetch(ctx, query)
}

// GoTo loads page, clamped to the known page range.
func (s *Store[T]) GoTo(ctx context.Context, page int) (State[T], error) {
	s.mu.Lock()
	query := s.state.Query
	pagination := s.state.Pagination
	loaded := s.state.Loaded
	s.mu.Unlock()

	if loaded {
		page = pagination.Clamp(page)
	} else if page < 1 {
		page = 1
	}
	query.Page = page
	return s.Fetch(ctx, query)
}

func (s *Store[T]) SetSort(ctx context.Context, field string, order gateway.SortOrder) (State[T], error) {
	query := s.Query()
	query.SortBy = field
	query.SortOrder = order
	query.Page = 1
	return s.Fetch(ctx, query)
}

// Create runs mutation and re-fetches the current page. The mutation error
// is returned; a failed re-fetch is recorded in the state.
func (s *Store[T]) Create(ctx context.Context, mutation Mutation) error {
	return s.mutate(ctx, mutation, false)
}

func (s *Store[T]) Update(ctx context.Context, mutation Mutation) error {
	return s.mutate(ctx, mutation, false)
}

// Delete runs mutation and re-fetches. When the removed row was the last one
// of the current page, the previous page is loaded instead.
func (s *Store[T]) Delete(ctx context.Context, mutation Mutation) error {
	return s.mutate(ctx, mutation, true)
}

func (s *Store[T]) mutate(ctx context.Context, mutation Mutation, removing bool) error {
	if err := mutation(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	query := s.state.Query
	if removing {
		pagination := s.state.Pagination
		remaining := pagination.Total - 1
		last := PagesFor(remaining, pagination.Limit)
		if last < 1 {
			last = 1
		}
		if query.Page > last {
			query.Page = last
		}
	}
	s.mu.Unlock()

	if _, err := s.Fetch(ctx, query); err != nil && !errors.Is(err, ErrStale) {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("list", s.name).
			Msg("Failed to refresh list after mutation")
	}
	return nil
}
