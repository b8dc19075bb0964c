package quizzes

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

func table(nav ui.ListNav, state listing.State[models.Quiz]) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		w.Raw(`<table><thead><tr>`)
		w.Render(ctx, ui.SortHeader(nav, state.Query, "title", "Title"))
		w.Render(ctx, ui.SortHeader(nav, state.Query, "category", "Category"))
		w.Raw(`<th>Questions</th><th></th></tr></thead><tbody>`)
		for _, quiz := range state.Items {
			w.Raw(`<tr>`)
			w.Tag("td", quiz.Title)
			w.Tag("td", quiz.Category)
			w.Tag("td", strconv.Itoa(len(quiz.Questions)))
			w.Raw(`<td class="actions">`)
			w.Render(ctx, ui.ModalButton("View", "/quizzes/"+quiz.ID, "link"))
			w.Render(ctx, ui.ModalButton("Edit", "/quizzes/"+quiz.ID+"/edit", "link"))
			w.Render(ctx, ui.ModalButton("Delete", "/quizzes/"+quiz.ID+"/delete", "link danger"))
			w.Raw(`</td></tr>`)
		}
		w.Raw(`</tbody></table>`)
	})
}

// builderButton posts the enclosing form to the builder with op applied.
func builderButton(w *ui.Writer, label, class string, params ...string) {
	href := "/quizzes/builder?op=" + params[0]
	if len(params) > 1 {
		href += "&q=" + params[1]
	}
	if len(params) > 2 {
		href += "&o=" + params[2]
	}
	w.Raw(`<button type="button"`)
	w.Attr("class", class)
	w.Attr("hx-post", href)
	w.Attr("hx-include", "closest form")
	w.Attr("hx-target", ui.ModalTarget)
	w.Attr("hx-swap", "innerHTML")
	w.Raw(`>`)
	w.Text(label)
	w.Raw(`</button>`)
}

func form(_ context.Context, view crud.FormView[forms.QuizDraft]) templ.Component {
	draft := view.Draft
	errs := view.Errors
	fields := []templ.Component{
		ui.Hidden("id", view.ID),
		ui.TextInput(ui.Input{Name: "title", Label: "Title", Value: draft.Title, Error: errs.Get("title"), Required: true}),
		ui.TextInput(ui.Input{Name: "category", Label: "Category", Value: draft.Category, Error: errs.Get("category")}),
		ui.Alert(errs.Get("questions")),
	}
	for i, question := range draft.Questions {
		fields = append(fields, questionFieldset(i, question, errs))
	}
	fields = append(fields, ui.Component(func(_ context.Context, w *ui.Writer) {
		w.Raw(`<div class="toolbar">`)
		builderButton(w, "Add question", "secondary", "add-question")
		w.Raw(`</div>`)
	}))
	return ui.FormBody(view.Form, fields...)
}

func questionFieldset(i int, question forms.QuestionDraft, errs forms.Errors) templ.Component {
	return ui.Component(func(ctx context.Context, w *ui.Writer) {
		q := strconv.Itoa(i)
		w.Raw(`<fieldset class="quiz-question">`)
		w.Tag("legend", "Question "+strconv.Itoa(i+1))
		w.Render(ctx, ui.TextInput(ui.Input{
			Name:     forms.QuestionPath(i, "question"),
			Label:    "Question",
			Value:    question.Text,
			Error:    errs.Get(forms.QuestionPath(i, "question")),
			Required: true,
		}))
		w.Raw(`<div class="quiz-options">`)
		for j, option := range question.Options {
			o := strconv.Itoa(j)
			w.Raw(`<div class="quiz-option"><input type="radio"`)
			w.Attr("name", forms.QuestionPath(i, "correct"))
			w.Attr("value", o)
			w.Attr("aria-label", "Correct answer")
			w.AttrIf(question.Correct == j, "checked")
			w.Raw(`><input type="text"`)
			w.Attr("name", forms.OptionPath(i, j))
			w.Attr("value", option)
			w.Attr("placeholder", "Option "+strconv.Itoa(j+1))
			w.Raw(`>`)
			if len(question.Options) > 2 {
				builderButton(w, "Remove", "link danger", "remove-option", q, o)
			}
			w.Raw(`</div>`)
		}
		w.Raw(`</div>`)
		for _, path := range []string{forms.QuestionPath(i, "options"), forms.QuestionPath(i, "correct")} {
			if msg := errs.Get(path); msg != "" {
				w.Raw(`<p class="field-error">`)
				w.Text(msg)
				w.Raw(`</p>`)
			}
		}
		w.Raw(`<div class="toolbar">`)
		builderButton(w, "Add option", "link", "add-option", q)
		builderButton(w, "Remove question", "link danger", "remove-question", q)
		w.Raw(`</div></fieldset>`)
	})
}

func detail(_ context.Context, quiz models.Quiz) templ.Component {
	return ui.Component(func(_ context.Context, w *ui.Writer) {
		w.Tag("h3", quiz.Title)
		if quiz.Category != "" {
			w.Raw(`<p class="muted">`)
			w.Text(quiz.Category)
			w.Raw(`</p>`)
		}
		w.Raw(`<ol>`)
		for _, question := range quiz.Questions {
			w.Raw(`<li>`)
			w.Text(question.Question)
			w.Raw(`<ul>`)
			for _, option := range question.Options {
				if option.IsCorrect {
					w.Raw(`<li class="correct"><strong>`)
					w.Text(option.Text)
					w.Raw(`</strong> ✓</li>`)
					continue
				}
				w.Tag("li", option.Text)
			}
			w.Raw(`</ul></li>`)
		}
		w.Raw(`</ol>`)
	})
}
