package dashboard

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

func dashboardPage(data dashboardData) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<header class="page-header"><h1>Dashboard</h1></header><div class="cards">`)
		for _, result := range data.Tiles {
			w.Raw(`<a class="card"`)
			w.Attr("href", result.Tile.Href)
			w.Attr("data-tile", result.Tile.Key)
			w.Raw(`><strong>`)
			if result.Err != nil {
				w.Raw(`&ndash;`)
			} else {
				w.Text(strconv.Itoa(result.Count))
			}
			w.Raw(`</strong><span>`)
			w.Text(result.Tile.Label)
			w.Raw(`</span></a>`)
		}
		w.Raw(`</div><section class="recent"><h2>Latest fixtures</h2>`)
		switch {
		case data.FixturesErr != nil:
			w.Render(ctx, ui.Alert(apiutil.UpstreamMessage(data.FixturesErr, "Could not load fixtures.")))
		case len(data.Fixtures) == 0:
			w.Raw(`<p class="empty-state">No fixtures yet.</p>`)
		default:
			w.Raw(`<ul>`)
			for _, fixture := range data.Fixtures {
				w.Raw(`<li><a`)
				w.Attr("href", "/fixtures/"+fixture.ID)
				w.Raw(`>`)
				w.Text(fixture.Title())
				w.Raw(`</a> <span class="muted">`)
				w.Text(fixture.Date.UTC().Format("02 Jan 2006") + " · " + fixture.Goals.Scoreline())
				w.Raw(`</span></li>`)
			}
			w.Raw(`</ul>`)
		}
		w.Raw(`</section>`)
	})
}
