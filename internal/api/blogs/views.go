package blogs

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

const dateDisplay = "02 Jan 2006"

func table(nav ui.ListNav, state listing.State[models.Blog]) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<table><thead><tr>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "title", "Title"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "type", "Type"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "author", "Author"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "date", "Date"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "viewsCount", "Views"))
		w.Raw(`<th>Comments</th><th></th></tr></thead><tbody>`)
		for _, blog := range state.Items {
			w.Raw(`<tr>`)
			w.Tag("td", blog.Title)
			w.Tag("td", blog.Type)
			w.Tag("td", blog.Author)
			w.Tag("td", formatDate(blog))
			w.Tag("td", strconv.Itoa(blog.ViewsCount))
			w.Tag("td", strconv.Itoa(len(blog.Comments)))
			w.Raw(`<td class="actions">`)
			w.Render(ctx, ui.ModalButton("View", "/blogs/"+blog.ID, "link"))
			w.Render(ctx, ui.ModalButton("Edit", "/blogs/"+blog.ID+"/edit", "link"))
			w.Render(ctx, ui.ModalButton("Delete", "/blogs/"+blog.ID+"/delete", "link danger"))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
	})
}

func formatDate(blog models.Blog) string {
	if blog.Date.IsZero() {
		return ""
	}
	return blog.Date.UTC().Format(dateDisplay)
}

func form(_ context.Context, view crud.FormView[forms.BlogDraft]) templ.Component {
	draft := view.Draft
	errs := view.Errors
	types := make([]ui.Option, 0, len(models.BlogTypes))
	for _, kind := range models.BlogTypes {
		types = append(types, ui.Option{Value: kind, Label: kind})
	}
	preview := draft.Logo
	if draft.LogoFile != nil {
		preview = draft.LogoFile.PreviewURL()
	}
	return ui.FormBody(view.Form,
		ui.Select(ui.Input{Name: "type", Label: "Type", Value: draft.Type, Error: errs.Get("type"), Required: true}, types),
		ui.TextInput(ui.Input{Name: "title", Label: "Title", Value: draft.Title, Error: errs.Get("title"), Required: true}),
		ui.TextInput(ui.Input{Name: "author", Label: "Author", Value: draft.Author, Error: errs.Get("author"), Required: true}),
		ui.TextArea(ui.Input{Name: "content", Label: "Content", Value: draft.Content, Error: errs.Get("content"), Required: true}),
		ui.TextInput(ui.Input{Name: "logo", Label: "Cover image URL", Type: "url", Value: draft.Logo, Error: errs.Get("logo")}),
		ui.FileInput(ui.Input{Name: forms.ImageInput, Label: "Or upload a cover image", Error: errs.Get(forms.ImageInput)}, preview),
	)
}

func detail(_ context.Context, blog models.Blog) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		if blog.Logo != "" {
			w.Raw(`<img class="image-preview" alt=""`)
			w.Attr("src", blog.Logo)
			w.Raw(`>`)
		}
		w.Tag("h3", blog.Title)
		w.Raw(`<p class="muted">`)
		w.Text(blog.Type + " · " + blog.Author + " · " + formatDate(blog) + " · ")
		w.Raw(`<span`)
		w.Attr("hx-post", "/blogs/"+blog.ID+"/views")
		w.Attr("hx-trigger", "load")
		w.Attr("hx-swap", "outerHTML")
		w.Raw(`>`)
		w.Render(ctx, viewCount(blog))
		w.Raw(`</span></p><div class="blog-content">`)
		w.Text(blog.Content)
		w.Raw(`</div>`)
		w.Render(ctx, comments(commentView{BlogID: blog.ID, Comments: blog.Comments}))
	})
}

func viewCount(blog models.Blog) templ.Component {
	return ui.Component(func(_ context.Context, w *ui.Writer) {
		w.Raw(`<span class="views">`)
		w.Text(strconv.Itoa(blog.ViewsCount) + " views")
		w.Raw(`</span>`)
	})
}

type commentView struct {
	BlogID   string
	Comments []models.BlogComment
	Draft    forms.CommentDraft
	Errors   forms.Errors
	Error    string
}

// comments is the thread plus its form. The form replaces the whole section
// with the server's answer.
func comments(view commentView) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<section id="blog-comments" class="comments">`)
		w.Tag("h4", "Comments ("+strconv.Itoa(len(view.Comments))+")")
		if len(view.Comments) == 0 {
			w.Raw(`<p class="empty-state">No comments yet.</p>`)
		}
		for _, comment := range view.Comments {
			w.Raw(`<article class="comment"><header>`)
			w.Tag("strong", comment.Author)
			if !comment.Date.IsZero() {
				w.Raw(` <time>`)
				w.Text(comment.Date.UTC().Format(dateDisplay))
				w.Raw(`</time>`)
			}
			w.Raw(`</header>`)
			w.Tag("p", comment.Comment)
			w.Raw(`</article>`)
		}
		w.Raw(`<form class="comment-form"`)
		w.Attr("hx-post", "/blogs/"+view.BlogID+"/comments")
		w.Attr("hx-target", "#blog-comments")
		w.Attr("hx-swap", "outerHTML")
		w.Raw(`>`)
		w.Render(ctx, ui.Alert(view.Error))
		w.Render(ctx, ui.TextInput(ui.Input{Name: "author", Label: "Author", Value: view.Draft.Author, Error: view.Errors.Get("author"), Required: true}))
		w.Render(ctx, ui.TextArea(ui.Input{Name: "comment", Label: "Comment", Value: view.Draft.Comment, Error: view.Errors.Get("comment"), Required: true}))
		w.Raw(`<div class="modal-actions"><button type="submit" class="primary">Add comment</button></div></form></section>`)
	})
}
