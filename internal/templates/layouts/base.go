// Package layouts renders the console page shell.
package layouts

import (
	"context"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

// NavItem is one entry of the side navigation.
type NavItem struct {
	Key   string
	Label string
	Href  string
}

// Navigation lists the console sections in menu order.
var Navigation = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Href: "/"},
	{Key: "teams", Label: "Teams", Href: "/teams"},
	{Key: "players", Label: "Players", Href: "/players"},
	{Key: "fixtures", Label: "Fixtures", Href: "/fixtures"},
	{Key: "blogs", Label: "Blogs", Href: "/blogs"},
	{Key: "quizzes", Label: "Quizzes", Href: "/quizzes"},
	{Key: "gallery", Label: "Gallery", Href: "/gallery"},
	{Key: "sponsors", Label: "Sponsors", Href: "/sponsors"},
	{Key: "about", Label: "About", Href: "/about"},
	{Key: "terms", Label: "Terms of use", Href: "/terms"},
}

type Page struct {
	Title string
	// Active is the Key of the highlighted navigation entry.
	Active string
	// User is the operator display name. Empty renders the bare shell used
	// by the login screen.
	User  string
	Theme Theme
}

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// consoleScript wires the HX-Trigger events sent by mutation handlers and
// lets htmx swap the validation responses it would otherwise discard.
const consoleScript = `
document.body.addEventListener("htmx:beforeSwap", function (e) {
  var status = e.detail.xhr.status;
  if (status === 409 || status === 413 || status === 422 || status === 429) {
    e.detail.shouldSwap = true;
    e.detail.isError = false;
  }
});
document.body.addEventListener("closeModal", function () {
  document.getElementById("modal").innerHTML = "";
});
document.body.addEventListener("showToast", function (e) {
  var toast = document.createElement("div");
  toast.className = "toast toast-" + (e.detail.level || "info");
  toast.setAttribute("role", "status");
  toast.textContent = e.detail.message;
  document.getElementById("toasts").appendChild(toast);
  setTimeout(function () { toast.remove(); }, 4000);
});
`

// Base renders the full document around content.
func Base(page Page, content templ.Component) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		title := "League Desk"
		if page.Title != "" {
			title = page.Title + " · League Desk"
		}
		w.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.Tag("title", title)
		w.Raw(`<link rel="stylesheet" href="/static/css/console.css"><style>`, themeCSSVars(page.Theme), `</style>`)
		w.Raw(`<script`)
		w.Attr("src", htmxSrc)
		w.Raw(`></script></head><body>`)

		if page.User != "" {
			w.Raw(`<aside class="sidebar"><div class="brand">League Desk</div><nav><ul>`)
			for _, item := range Navigation {
				w.Raw(`<li><a`)
				w.Attr("href", item.Href)
				if item.Key == page.Active {
					w.Attr("class", "active")
					w.Attr("aria-current", "page")
				}
				w.Raw(`>`)
				w.Text(item.Label)
				w.Raw(`</a></li>`)
			}
			w.Raw(`</ul></nav><div class="operator">`)
			w.Tag("span", page.User)
			w.Raw(`<form method="post" action="/logout"><button type="submit" class="link">Sign out</button></form></div></aside>`)
		}

		w.Raw(`<main class="content">`)
		w.Render(ctx, content)
		w.Raw(`</main><div id="modal"></div><div id="toasts" class="toasts" aria-live="polite"></div><script>`, consoleScript, `</script></body></html>`)
	})
}
