// cmd/server/server.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api"
	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/auth"
	"github.com/codr1/leaguedesk/internal/api/blogs"
	"github.com/codr1/leaguedesk/internal/api/carousel"
	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/api/dashboard"
	"github.com/codr1/leaguedesk/internal/api/fixtures"
	"github.com/codr1/leaguedesk/internal/api/players"
	"github.com/codr1/leaguedesk/internal/api/quizzes"
	"github.com/codr1/leaguedesk/internal/api/sidebar"
	"github.com/codr1/leaguedesk/internal/api/teams"
	"github.com/codr1/leaguedesk/internal/config"
	"github.com/codr1/leaguedesk/internal/directory"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/ratelimit"
	"github.com/codr1/leaguedesk/internal/scheduler"
	"github.com/codr1/leaguedesk/internal/templates/layouts"
)

const (
	// List stores idle this long are dropped even if the session lives on.
	storeIdleTimeout  = time.Hour
	sweepInterval     = 10 * time.Minute
	// Team mutations within this window reload the directory once.
	directoryDebounce = 2 * time.Second
)

// sessionScoped is state held per operator session.
type sessionScoped interface {
	Drop(sessionID string)
	Sweep(idle time.Duration) int
}

type app struct {
	cfg       *config.Config
	client    *gateway.Client
	teams     *directory.Directory
	sessions  *auth.Sessions
	limiter   *ratelimit.Limiter
	scheduler *scheduler.Service
	mux       *http.ServeMux
}

func newApp(cfg *config.Config) (*app, error) {
	clock := clockwork.NewRealClock()

	gatewayCfg, err := cfg.GatewayConfig()
	if err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	client := gateway.New(gatewayCfg)
	apiutil.SetTheme(layouts.Theme(cfg.Theme))

	a := &app{
		cfg:      cfg,
		client:   client,
		teams:    directory.New(client.Teams, clock, directoryDebounce),
		sessions: auth.NewSessions(clock, cfg.Auth.SessionTTL, cfg.Auth.SecureCookie),
		limiter: ratelimit.New(&ratelimit.Config{
			MaxAttempts:  cfg.Auth.MaxAttempts,
			Lockout:      cfg.Auth.Lockout,
			MaxIPPerHour: cfg.Auth.MaxIPPerHour,
			Clock:        clock,
		}),
		mux: http.NewServeMux(),
	}
	auth.InitHandlers(client.Auth, a.sessions, a.limiter, cfg.Auth.TrustProxy)

	a.scheduler, err = scheduler.New(clock)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	scoped := a.registerRoutes(clock)
	a.sessions.OnEnd(func(sessionID string) {
		for _, registry := range scoped {
			registry.Drop(sessionID)
		}
	})
	if err := a.scheduleJobs(scoped); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) registerRoutes(clock clockwork.Clock) []sessionScoped {
	mux := a.mux
	client := a.client
	limit := a.cfg.Lists.DefaultLimit
	settings := crud.Settings{
		MaxUploadBytes: a.cfg.Backend.MaxUploadBytes,
		LimitOptions:   a.cfg.Lists.LimitOptions,
		SearchDelay:    a.cfg.Lists.SearchDelay,
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("POST /login", auth.HandleLogin)
	mux.HandleFunc("POST /logout", auth.HandleLogout)

	teamStores := teams.NewRegistry(clock, client, limit)
	playerStores := players.NewRegistry(clock, client, limit)
	fixtureStores := fixtures.NewRegistry(clock, client, limit)
	blogStores := blogs.NewRegistry(clock, client, limit)
	quizStores := quizzes.NewRegistry(clock, client, limit)

	dashboard.New(client).Register(mux)
	teams.New(client, teamStores, a.teams, settings).Register(mux)
	players.New(client, playerStores, a.teams, settings).Register(mux)
	fixtures.New(client, fixtureStores, a.teams, settings).Register(mux)
	blogs.New(client, blogStores, settings).Register(mux)
	quizzes.New(client, quizStores, settings).Register(mux)
	carousel.New(client.Carousels, a.cfg.Backend.MaxUploadBytes).Register(mux)
	sidebar.New(client.Sidebar).Register(mux)

	// Static file handling with logging and environment awareness
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "web/static"
	}
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))

	return []sessionScoped{teamStores, playerStores, fixtureStores, blogStores, quizStores}
}

func (a *app) scheduleJobs(scoped []sessionScoped) error {
	jobs := []scheduler.Job{
		{Name: "team_directory_refresh", Interval: a.cfg.Directory.RefreshInterval, Run: func(context.Context) (int, error) {
			a.teams.MarkStale()
			return 0, nil
		}},
		{Name: "session_prune", Interval: sweepInterval, Run: func(context.Context) (int, error) {
			return a.sessions.Prune(), nil
		}},
		{Name: "login_limiter_sweep", Interval: sweepInterval, Run: func(context.Context) (int, error) {
			return a.limiter.Sweep(), nil
		}},
		{Name: "list_store_sweep", Interval: sweepInterval, Run: func(context.Context) (int, error) {
			removed := 0
			for _, registry := range scoped {
				removed += registry.Sweep(storeIdleTimeout)
			}
			return removed, nil
		}},
	}
	for _, job := range jobs {
		if err := a.scheduler.Add(job); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) httpServer() *http.Server {
	// ChainMiddleware runs the last listed first: request ids exist before
	// logging, and recovery sees panics from auth and handlers.
	handler := api.ChainMiddleware(
		a.mux,
		api.WithContentType,
		api.WithAuth(a.sessions),
		api.WithRecovery,
		api.WithLogging,
		api.WithRequestID,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(a.cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.Backend.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (a *app) close() error {
	a.teams.Stop()
	return a.scheduler.Stop()
}
