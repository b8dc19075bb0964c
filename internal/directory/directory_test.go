package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

type fakeSource struct {
	mu     sync.Mutex
	teams  []models.Team
	calls  int
	err    error
	tokens []string
	listed chan struct{}
}

func newFakeSource(n int) *fakeSource {
	src := &fakeSource{listed: make(chan struct{}, 16)}
	for i := n; i >= 1; i-- {
		src.teams = append(src.teams, models.Team{
			ID:   fmt.Sprintf("%024d", i),
			Name: fmt.Sprintf("Team %03d", i),
		})
	}
	return src
}

func (f *fakeSource) List(ctx context.Context, params gateway.ListParams) (gateway.Page[models.Team], error) {
	f.mu.Lock()
	defer func() {
		f.mu.Unlock()
		f.listed <- struct{}{}
	}()
	f.calls++
	token := gateway.TokenFromContext(ctx)
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return gateway.Page[models.Team]{}, f.err
	}
	start := (params.Page - 1) * params.Limit
	end := min(start+params.Limit, len(f.teams))
	pages := (len(f.teams) + params.Limit - 1) / params.Limit
	return gateway.Page[models.Team]{
		Items: f.teams[start:end],
		Page:  params.Page,
		Limit: params.Limit,
		Total: len(f.teams),
		Pages: pages,
	}, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestTeamsLoadsAllPagesSorted(t *testing.T) {
	src := newFakeSource(230)
	dir := New(src, clockwork.NewFakeClock(), time.Second)

	teams, err := dir.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if len(teams) != 230 {
		t.Fatalf("got %d teams, want 230", len(teams))
	}
	if src.callCount() != 3 {
		t.Fatalf("list calls = %d, want 3", src.callCount())
	}
	if teams[0].Name != "Team 001" || teams[229].Name != "Team 230" {
		t.Fatalf("teams not sorted: first %q last %q", teams[0].Name, teams[229].Name)
	}

	// Cached on the second call.
	if _, err := dir.Teams(context.Background()); err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if src.callCount() != 3 {
		t.Fatalf("cached Teams made extra calls: %d", src.callCount())
	}
}

func TestLookup(t *testing.T) {
	src := newFakeSource(2)
	dir := New(src, clockwork.NewFakeClock(), time.Second)

	if ref, ok := dir.Lookup(src.teams[0].ID); ok || ref.ID != src.teams[0].ID {
		t.Fatalf("Lookup before load = %+v, %v", ref, ok)
	}
	if err := dir.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	ref, ok := dir.Lookup(src.teams[0].ID)
	if !ok || ref.Name != src.teams[0].Name {
		t.Fatalf("Lookup = %+v, %v", ref, ok)
	}
}

func TestMarkStaleReloads(t *testing.T) {
	src := newFakeSource(3)
	dir := New(src, clockwork.NewFakeClock(), time.Second)

	if _, err := dir.Teams(context.Background()); err != nil {
		t.Fatalf("Teams: %v", err)
	}
	dir.MarkStale()
	if _, err := dir.Teams(context.Background()); err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if src.callCount() != 2 {
		t.Fatalf("list calls = %d, want 2", src.callCount())
	}
}

func TestStaleListServedOnFailure(t *testing.T) {
	src := newFakeSource(3)
	dir := New(src, clockwork.NewFakeClock(), time.Second)
	if _, err := dir.Teams(context.Background()); err != nil {
		t.Fatalf("Teams: %v", err)
	}

	src.mu.Lock()
	src.err = gateway.ErrUnavailable
	src.mu.Unlock()
	dir.MarkStale()

	teams, err := dir.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams with a loaded cache should not fail: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("got %d teams", len(teams))
	}
}

func TestFirstLoadFailure(t *testing.T) {
	src := newFakeSource(1)
	src.err = gateway.ErrUnavailable
	dir := New(src, clockwork.NewFakeClock(), time.Second)

	if _, err := dir.Teams(context.Background()); !errors.Is(err, gateway.ErrUnavailable) {
		t.Fatalf("Teams err = %v, want ErrUnavailable", err)
	}
}

func TestInvalidateCoalescesAndKeepsToken(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := newFakeSource(1)
	dir := New(src, clock, time.Second)
	t.Cleanup(dir.Stop)

	ctx, cancel := context.WithCancel(gateway.WithToken(context.Background(), "tok-1"))
	dir.Invalidate(ctx)
	dir.Invalidate(ctx)
	dir.Invalidate(ctx)
	// The request that triggered the reload has finished by the time it runs.
	cancel()
	clock.Advance(time.Second)

	select {
	case <-src.listed:
	case <-time.After(2 * time.Second):
		t.Fatal("reload never ran")
	}
	select {
	case <-src.listed:
		t.Fatal("invalidations were not coalesced")
	case <-time.After(50 * time.Millisecond):
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.tokens) != 1 || src.tokens[0] != "tok-1" {
		t.Fatalf("tokens = %v", src.tokens)
	}
}

// gatedSource blocks its first List call until release is closed and
// serves the roster as it was when that call started.
type gatedSource struct {
	mu      sync.Mutex
	calls   int
	teams   []models.Team
	started chan struct{}
	release chan struct{}
	listed  chan struct{}
}

func (g *gatedSource) List(context.Context, gateway.ListParams) (gateway.Page[models.Team], error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	teams := append([]models.Team(nil), g.teams...)
	g.mu.Unlock()

	if first {
		close(g.started)
		<-g.release
	} else {
		defer func() { g.listed <- struct{}{} }()
	}
	return gateway.Page[models.Team]{Items: teams, Page: 1, Limit: pageSize, Total: len(teams), Pages: 1}, nil
}

func TestSlowRefreshDoesNotOverwriteNewerReload(t *testing.T) {
	clock := clockwork.NewFakeClock()
	src := &gatedSource{
		teams:   []models.Team{{ID: "64b0000000000000000000a1", Name: "Esperance"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
		listed:  make(chan struct{}, 1),
	}
	dir := New(src, clock, time.Second)
	t.Cleanup(dir.Stop)

	slow := make(chan error, 1)
	go func() { slow <- dir.Refresh(context.Background()) }()
	<-src.started

	src.mu.Lock()
	src.teams = append(src.teams, models.Team{ID: "64b0000000000000000000a2", Name: "Stade Tunisien"})
	src.mu.Unlock()
	dir.Invalidate(context.Background())
	clock.Advance(time.Second)
	select {
	case <-src.listed:
	case <-time.After(2 * time.Second):
		t.Fatal("invalidation reload never ran")
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := dir.Lookup("64b0000000000000000000a2"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("invalidation reload was not installed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(src.release)
	if err := <-slow; err != nil {
		t.Fatalf("slow Refresh: %v", err)
	}

	if _, ok := dir.Lookup("64b0000000000000000000a2"); !ok {
		t.Fatal("older refresh replaced the reloaded list")
	}
	teams, err := dir.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("got %d teams, want 2", len(teams))
	}
}

func TestTeamsReturnsCopy(t *testing.T) {
	dir := New(newFakeSource(2), clockwork.NewFakeClock(), time.Second)
	teams, err := dir.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	teams[0].Name = "Edited"

	again, err := dir.Teams(context.Background())
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if again[0].Name == "Edited" {
		t.Fatal("editing the returned slice changed the cache")
	}
}
