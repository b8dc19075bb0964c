package apiutil

import (
	"net/http"
	"sync"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/authz"
	"github.com/codr1/leaguedesk/internal/templates/layouts"
)

var (
	themeMu sync.RWMutex
	theme   = layouts.DefaultTheme()
)

// SetTheme sets the palette used by every full page.
func SetTheme(t layouts.Theme) {
	themeMu.Lock()
	theme = t
	themeMu.Unlock()
}

// Page describes a full page for the current operator.
func Page(r *http.Request, title, active string) layouts.Page {
	themeMu.RLock()
	defer themeMu.RUnlock()
	page := layouts.Page{Title: title, Active: active, Theme: theme}
	if user := authz.UserFromContext(r.Context()); user != nil {
		page.User = user.DisplayName()
	}
	return page
}

// RenderPage renders content inside the console layout.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, title, active string, content templ.Component) bool {
	return RenderHTML(r.Context(), w, status, layouts.Base(Page(r, title, active), content), nil,
		"Failed to render "+active+" page", "Failed to render page")
}
