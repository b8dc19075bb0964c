package auth

import (
	"context"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

type loginView struct {
	Username string
	Message  string
	Errors   forms.Errors
}

func loginScreen(view loginView) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<section class="login"><h1>League Desk</h1><p>Sign in with your administrator account.</p>`)
		w.Render(ctx, loginForm(view))
		w.Raw(`</section>`)
	})
}

func loginForm(view loginView) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<form id="login-form" method="post" action="/login" hx-post="/login" hx-target="this" hx-swap="outerHTML">`)
		w.Render(ctx, ui.Alert(view.Message))
		w.Render(ctx, ui.TextInput(ui.Input{
			Name:     "username",
			Label:    "Username",
			Value:    view.Username,
			Error:    view.Errors.Get("username"),
			Required: true,
		}))
		w.Render(ctx, ui.TextInput(ui.Input{
			Name:     "password",
			Label:    "Password",
			Type:     "password",
			Error:    view.Errors.Get("password"),
			Required: true,
		}))
		w.Raw(`<button type="submit" class="primary">Sign in</button></form>`)
	})
}
