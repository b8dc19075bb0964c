package crud

import (
	"context"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

func (c *Controller[T, D]) nav() ui.ListNav {
	return ui.ListNav{
		Base:         c.entity.base() + "/list",
		Target:       "#" + c.entity.listID(),
		LimitOptions: c.settings.LimitOptions,
		SearchDelay:  c.settings.SearchDelay,
		MaxButtons:   c.settings.MaxPageButtons,
	}
}

// listFragment is the swappable list container. With oob set it is sent
// alongside another response and replaces the container by id.
func (c *Controller[T, D]) listFragment(state listing.State[T], oob bool) templ.Component {
	nav := c.nav()
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<div class="list"`)
		w.Attr("id", c.entity.listID())
		if oob {
			w.Attr("hx-swap-oob", "true")
		}
		w.Raw(`>`)
		if state.Err != nil {
			w.Render(ctx, ui.Alert(apiutil.UpstreamMessage(state.Err, "Could not load "+c.entity.plural()+".")))
		}
		if empty := listing.EmptyState(state.Query, len(state.Items)); empty != listing.EmptyNone && state.Err == nil {
			w.Render(ctx, ui.EmptyState(empty, c.entity.plural()))
		} else if len(state.Items) > 0 {
			w.Render(ctx, c.entity.Views.Table(nav, state))
		}
		w.Render(ctx, ui.Pagination(nav, state.Pagination))
		w.Raw(`</div>`)
	})
}

func (c *Controller[T, D]) pageBody(state listing.State[T]) templ.Component {
	nav := c.nav()
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<header class="page-header">`)
		w.Tag("h1", c.entity.Title)
		if c.entity.Create != nil {
			w.Render(ctx, ui.ModalButton("New "+c.entity.Singular, c.entity.base()+"/new", "primary"))
		}
		w.Raw(`</header><div class="toolbar">`)
		if c.entity.Views.Toolbar != nil {
			w.Render(ctx, c.entity.Views.Toolbar(nav, state.Query))
		} else {
			w.Render(ctx, ui.SearchBox(nav, state.Query, "Search "+c.entity.plural()))
		}
		w.Raw(`</div>`)
		w.Render(ctx, c.listFragment(state, false))
	})
}

func (c *Controller[T, D]) formModal(ctx context.Context, view FormView[D]) templ.Component {
	title := "New " + c.entity.Singular
	if view.Editing() {
		title = "Edit " + c.entity.Singular
	}
	return ui.Modal(title, c.entity.Views.Form(ctx, view))
}

// mutationResponse clears the modal and refreshes the list out of band.
func (c *Controller[T, D]) mutationResponse(state listing.State[T]) templ.Component {
	return c.listFragment(state, true)
}
