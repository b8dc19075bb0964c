package sidebar

import (
	"context"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/templates/components/ui"
)

const editorID = "sidebar-editor"

type editorView struct {
	Document Document
	Draft    forms.SidebarDraft
	Errors   forms.Errors
	Error    string
}

func editorPage(view editorView) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<header class="page-header">`)
		w.Tag("h1", view.Document.Title)
		w.Raw(`</header>`)
		w.Render(ctx, editor(view))
	})
}

// editor is the inline document form. Saving swaps the whole editor.
func editor(view editorView) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<form class="document-editor"`)
		w.Attr("id", editorID)
		w.Attr("hx-put", view.Document.Path)
		w.Attr("hx-target", "#"+editorID)
		w.Attr("hx-swap", "outerHTML")
		w.Raw(`>`)
		w.Render(ctx, ui.Alert(view.Error))
		w.Render(ctx, ui.TextArea(ui.Input{
			Name:     "content",
			Label:    "Content",
			Value:    view.Draft.Content,
			Error:    view.Errors.Get("content"),
			Required: true,
		}))
		w.Raw(`<div class="form-actions"><button type="submit" class="primary">Save</button></div></form>`)
	})
}
