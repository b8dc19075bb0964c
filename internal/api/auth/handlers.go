package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/ratelimit"
)

// Authenticator exchanges operator credentials for an upstream session.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (models.Session, error)
}

const invalidCredentials = "Invalid username or password."

var (
	mu         sync.RWMutex
	upstream   Authenticator
	sessions   *Sessions
	limiter    *ratelimit.Limiter
	trustProxy bool
)

// InitHandlers sets the package dependencies. Tests cannot use t.Parallel()
// because of this shared state.
func InitHandlers(a Authenticator, s *Sessions, l *ratelimit.Limiter, trustProxyHeaders bool) {
	mu.Lock()
	defer mu.Unlock()
	upstream = a
	sessions = s
	limiter = l
	trustProxy = trustProxyHeaders
}

func deps() (Authenticator, *Sessions, *ratelimit.Limiter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return upstream, sessions, limiter, trustProxy
}

// HandleLoginPage handles GET /login.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	_, store, _, _ := deps()
	if store != nil {
		if _, ok := store.FromRequest(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	renderLogin(w, r, http.StatusOK, loginView{})
}

// HandleLogin handles POST /login.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	auth, store, limit, trust := deps()
	if auth == nil || store == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	draft := forms.DecodeLoginDraft(r.PostForm)
	view := loginView{Username: draft.Username}

	if errs := draft.Validate(); !errs.OK() {
		view.Errors = errs
		renderLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	ip := ratelimit.ClientIP(r, trust)
	if limit != nil {
		if result := limit.Allow(draft.Username, ip); !result.Allowed {
			ratelimit.LogThrottled(draft.Username, ip, result)
			seconds := int(result.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			view.Message = "Too many failed attempts. Try again in " + strconv.Itoa(seconds) + " seconds."
			renderLogin(w, r, http.StatusTooManyRequests, view)
			return
		}
	}

	login, err := auth.Login(r.Context(), draft.Username, draft.Password)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.Is(err, gateway.ErrUnauthorized) || (errors.As(err, &apiErr) && apiErr.Status < 500) {
			lockedOut := false
			if limit != nil {
				lockedOut = limit.Fail(draft.Username, ip)
			}
			logger.Warn().
				Str("username", ratelimit.MaskUsername(draft.Username)).
				Bool("locked_out", lockedOut).
				Msg("Login rejected")
			view.Message = invalidCredentials
			renderLogin(w, r, http.StatusUnauthorized, view)
			return
		}
		logger.Error().Err(err).Msg("Login request failed")
		view.Message = apiutil.UpstreamMessage(err, "Sign in failed. Try again.")
		renderLogin(w, r, apiutil.UpstreamStatus(err), view)
		return
	}

	if limit != nil {
		limit.Succeed(draft.Username)
	}
	if _, err := store.Create(w, login); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		view.Message = "Sign in failed. Try again."
		renderLogin(w, r, http.StatusBadGateway, view)
		return
	}

	logger.Info().Str("user_id", login.User.ID).Msg("Operator signed in")
	htmx.Redirect(w, r, "/")
}

// HandleLogout handles POST /logout.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, store, _, _ := deps()
	if store != nil {
		store.Clear(w, r)
	}
	log.Ctx(r.Context()).Info().Msg("Operator signed out")
	htmx.Redirect(w, r, apiutil.LoginPath)
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, view loginView) {
	if htmx.IsRequest(r) {
		apiutil.RenderHTML(r.Context(), w, status, loginForm(view), nil, "Failed to render login form", "Failed to render page")
		return
	}
	apiutil.RenderPage(w, r, status, "Sign in", "login", loginScreen(view))
}
