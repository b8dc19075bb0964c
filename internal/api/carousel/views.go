package carousel

import (
	"context"
	"net/url"
	"sort"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

const gridID = "carousel-images"

type imageView struct {
	Screen Screen
	Draft  forms.CarouselImageDraft
	Errors forms.Errors
	Error  string
}

func removeURL(s Screen, imageURL string) string {
	return s.Path + "/images?" + url.Values{"url": {imageURL}}.Encode()
}

func formTitle(view imageView) string {
	if view.Draft.ReplaceURL != "" {
		return "Replace image"
	}
	return "Add image"
}

func page(s Screen, carousel models.Carousel, loadErr error) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<header class="page-header">`)
		w.Tag("h1", s.Title)
		w.Render(ctx, ui.ModalButton("Add image", s.Path+"/images/new", "primary"))
		w.Raw(`</header>`)
		if !carousel.IsActive && len(carousel.Images) > 0 {
			w.Raw(`<p class="muted">This carousel is inactive on the site.</p>`)
		}
		w.Render(ctx, images(s, carousel, loadErr, false))
	})
}

// images is the slide grid in display order.
func images(s Screen, carousel models.Carousel, loadErr error, oob bool) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<div class="gallery"`)
		w.Attr("id", gridID)
		if oob {
			w.Attr("hx-swap-oob", "true")
		}
		w.Raw(`>`)
		if loadErr != nil {
			w.Render(ctx, ui.Alert(apiutil.UpstreamMessage(loadErr, "Could not load the carousel.")))
		} else if len(carousel.Images) == 0 {
			w.Raw(`<p class="empty-state">No images yet.</p>`)
		}
		slides := append([]models.CarouselImage(nil), carousel.Images...)
		sort.SliceStable(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })
		for _, image := range slides {
			w.Raw(`<figure class="slide"><img alt=""`)
			w.Attr("src", image.URL)
			w.Raw(`><figcaption>`)
			w.Text(image.Title)
			if image.Link != "" {
				w.Raw(` <a target="_blank" rel="noopener"`)
				w.Attr("href", image.Link)
				w.Raw(`>link</a>`)
			}
			w.Raw(`</figcaption><div class="actions">`)
			replace := url.Values{"replace": {image.URL}, "title": {image.Title}, "link": {image.Link}}
			w.Render(ctx, ui.ModalButton("Replace", s.Path+"/images/new?"+replace.Encode(), "link"))
			w.Render(ctx, ui.ModalButton("Remove", s.Path+"/images/delete?"+url.Values{"url": {image.URL}}.Encode(), "link danger"))
			w.Raw(`</div></figure>`)
		}
		w.Raw(`</div>`)
	})
}

func imageForm(view imageView) templ.Component {
	draft := view.Draft
	errs := view.Errors
	fields := []templ.Component{
		ui.TextInput(ui.Input{Name: "title", Label: "Title", Value: draft.Title, Error: errs.Get("title"), Required: true}),
		ui.TextInput(ui.Input{Name: "link", Label: "Link", Type: "url", Value: draft.Link, Error: errs.Get("link"), Placeholder: "https://"}),
	}
	preview := draft.ReplaceURL
	if draft.File != nil {
		preview = draft.File.PreviewURL()
	}
	if draft.ReplaceURL != "" {
		fields = append(fields, ui.Hidden("replace", draft.ReplaceURL))
	}
	fields = append(fields, ui.FileInput(ui.Input{Name: FileInput, Label: "Image", Error: errs.Get(FileInput), Required: true}, preview))

	submit := "Add"
	if draft.ReplaceURL != "" {
		submit = "Replace"
	}
	form := ui.Form{Method: "post", Action: view.Screen.Path + "/images", Multipart: true, Error: view.Error, Submit: submit}
	return ui.FormBody(form, fields...)
}
