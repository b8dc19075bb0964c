package ui

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/listing"
)

// ModalTarget is the container every modal fragment is swapped into.
const ModalTarget = "#modal"

// Alert is a dismissible error banner.
func Alert(message string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		if message == "" {
			return
		}
		w.Raw(`<div class="alert alert-error" role="alert">`)
		w.Tag("span", message)
		w.Raw(`<button type="button" class="alert-dismiss" aria-label="Dismiss" onclick="this.parentElement.remove()">&times;</button></div>`)
	})
}

// EmptyState explains an empty table: nothing exists yet, or nothing
// matches the search.
func EmptyState(kind listing.Empty, noun string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		switch kind {
		case listing.EmptyNoData:
			w.Raw(`<p class="empty-state">`)
			w.Text("No " + noun + " yet.")
			w.Raw(`</p>`)
		case listing.EmptyNoMatches:
			w.Raw(`<p class="empty-state">`)
			w.Text("No " + noun + " match your search.")
			w.Raw(`</p>`)
		}
	})
}

// ListNav describes where list controls send their requests.
type ListNav struct {
	// Base is the list fragment URL, e.g. /teams/list.
	Base string
	// Target is the element the list fragment replaces.
	Target       string
	LimitOptions []int
	SearchDelay  time.Duration
	MaxButtons   int
}

func (n ListNav) href(params url.Values) string {
	if len(params) == 0 {
		return n.Base
	}
	return n.Base + "?" + params.Encode()
}

func (n ListNav) hxGet(w *Writer, params url.Values) {
	w.Attr("hx-get", n.href(params))
	w.Attr("hx-target", n.Target)
	w.Attr("hx-swap", "outerHTML")
}

// SearchBox issues a debounced search as the operator types.
func SearchBox(nav ListNav, query listing.Query, placeholder string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		delay := nav.SearchDelay
		if delay <= 0 {
			delay = 300 * time.Millisecond
		}
		w.Raw(`<input type="search" name="q" class="search-box"`)
		w.Attr("value", query.Search)
		w.Attr("placeholder", placeholder)
		w.Attr("hx-get", nav.Base)
		w.Attr("hx-trigger", "input changed delay:"+strconv.FormatInt(delay.Milliseconds(), 10)+"ms, search")
		w.Attr("hx-target", nav.Target)
		w.Attr("hx-swap", "outerHTML")
		w.Raw(`>`)
	})
}

// Pagination renders the row range, page buttons and the page size picker.
func Pagination(nav ListNav, p listing.Pagination) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		first, last := p.Range()
		w.Raw(`<nav class="pagination" aria-label="Pagination"><span class="pagination-range">`)
		if p.Total > 0 {
			w.Text("Showing " + strconv.Itoa(first) + "–" + strconv.Itoa(last) + " of " + strconv.Itoa(p.Total))
		}
		w.Raw(`</span><div class="pagination-buttons">`)

		pageButton := func(label string, page int, disabled, current bool) {
			w.Raw(`<button type="button"`)
			if !disabled && !current {
				nav.hxGet(w, url.Values{"page": {strconv.Itoa(page)}})
			}
			w.AttrIf(disabled, "disabled")
			if current {
				w.Attr("aria-current", "page")
				w.Attr("class", "current")
			}
			w.Raw(`>`)
			w.Text(label)
			w.Raw(`</button>`)
		}

		pageButton("Previous", p.Page-1, !p.HasPrev(), false)
		for _, button := range listing.PageWindow(p.Page, p.Pages, nav.MaxButtons) {
			if button.Ellipsis {
				w.Raw(`<span class="ellipsis">…</span>`)
				continue
			}
			pageButton(strconv.Itoa(button.Page), button.Page, false, button.Current)
		}
		pageButton("Next", p.Page+1, !p.HasNext(), false)
		w.Raw(`</div>`)

		if len(nav.LimitOptions) > 0 {
			w.Raw(`<label class="page-size">Rows <select name="limit"`)
			w.Attr("hx-get", nav.Base)
			w.Attr("hx-target", nav.Target)
			w.Attr("hx-swap", "outerHTML")
			w.Raw(`>`)
			for _, option := range nav.LimitOptions {
				w.Raw(`<option`)
				w.Attr("value", strconv.Itoa(option))
				w.AttrIf(option == p.Limit, "selected")
				w.Raw(`>`)
				w.Int(option)
				w.Raw(`</option>`)
			}
			w.Raw(`</select></label>`)
		}
		w.Raw(`</nav>`)
	})
}

// SortHeader is a table header cell that toggles the sort order of field.
func SortHeader(nav ListNav, query listing.Query, field, label string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		order := "asc"
		indicator := ""
		if query.SortBy == field {
			if query.SortOrder == "desc" {
				indicator = " ▼"
			} else {
				order = "desc"
				indicator = " ▲"
			}
		}
		w.Raw(`<th><button type="button" class="sort"`)
		nav.hxGet(w, url.Values{"sort": {field}, "order": {order}})
		w.Raw(`>`)
		w.Text(label + indicator)
		w.Raw(`</button></th>`)
	})
}

// Modal wraps body in the modal chrome. Closing it empties the container.
func Modal(title string, body templ.Component) templ.Component {
	return Component(func(ctx context.Context, w *Writer) {
		w.Raw(`<div class="modal-backdrop"><div class="modal" role="dialog" aria-modal="true"><header class="modal-header">`)
		w.Tag("h2", title)
		w.Raw(`<button type="button" class="modal-close" aria-label="Close" onclick="document.querySelector('` + ModalTarget + `').innerHTML=''">&times;</button></header><div class="modal-body">`)
		w.Render(ctx, body)
		w.Raw(`</div></div></div>`)
	})
}

// ModalButton opens a modal fragment from href.
func ModalButton(label, href, class string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		w.Raw(`<button type="button"`)
		w.Attr("class", class)
		w.Attr("hx-get", href)
		w.Attr("hx-target", ModalTarget)
		w.Raw(`>`)
		w.Text(label)
		w.Raw(`</button>`)
	})
}

// Confirm asks before deleting the resource at action. The response replaces
// the modal contents.
func Confirm(message, action string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		w.Raw(`<div class="confirm">`)
		w.Tag("p", message)
		w.Raw(`<div class="modal-actions"><button type="button" class="secondary" onclick="document.querySelector('` + ModalTarget + `').innerHTML=''">Cancel</button>`)
		w.Raw(`<button type="button" class="danger"`)
		w.Attr("hx-delete", action)
		w.Attr("hx-target", ModalTarget)
		w.Raw(`>Delete</button></div></div>`)
	})
}
