// Package quizzes serves the quiz screen and its question builder.
package quizzes

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/leaguedesk/internal/api/apiutil"
	"github.com/codr1/leaguedesk/internal/api/crud"
	"github.com/codr1/leaguedesk/internal/forms"
	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/listing"
	"github.com/codr1/leaguedesk/internal/models"
)

const (
	maxQuestions = 50
	maxOptions   = 8
)

type Handler struct {
	list     *crud.Controller[models.Quiz, forms.QuizDraft]
	settings crud.Settings
}

func NewRegistry(clock clockwork.Clock, client *gateway.Client, limit int) *listing.Registry[models.Quiz] {
	return listing.NewRegistry(clock, func() *listing.Store[models.Quiz] {
		return listing.NewStore(client.Quizzes.List, listing.Options{
			Name:      "quizzes",
			Limit:     limit,
			SortBy:    "title",
			SortOrder: gateway.SortAsc,
		})
	})
}

func New(client *gateway.Client, registry *listing.Registry[models.Quiz], settings crud.Settings) *Handler {
	list := crud.New(crud.Entity[models.Quiz, forms.QuizDraft]{
		Name:     "quizzes",
		Title:    "Quizzes",
		Singular: "quiz",
		Registry: registry,
		ID:       func(q models.Quiz) string { return q.ID },
		Get:      client.Quizzes.Get,
		Create: func(ctx context.Context, payload *gateway.Payload) error {
			_, err := client.Quizzes.Create(ctx, payload)
			return err
		},
		Update: func(ctx context.Context, id string, payload *gateway.Payload) error {
			_, err := client.Quizzes.Update(ctx, id, payload)
			return err
		},
		Delete: client.Quizzes.Delete,
		Blank:  func(*http.Request) forms.QuizDraft { return forms.BlankQuizDraft() },
		From:   forms.QuizDraftFrom,
		Decode: forms.DecodeQuizDraft,
		Views: crud.Views[models.Quiz, forms.QuizDraft]{
			Table:  table,
			Form:   form,
			Detail: detail,
		},
	}, settings)
	return &Handler{list: list, settings: settings}
}

func (h *Handler) Register(mux *http.ServeMux) {
	h.list.Register(mux)
	mux.HandleFunc("POST /quizzes/builder", h.HandleBuilder)
}

// HandleBuilder handles POST /quizzes/builder?op=...: it applies one edit to
// the posted draft and re-renders the form. Nothing is sent upstream.
func (h *Handler) HandleBuilder(w http.ResponseWriter, r *http.Request) {
	values, multipartForm, err := apiutil.ParseForm(w, r, h.settings.MaxUploadBytes)
	defer apiutil.CleanupForm(multipartForm)
	if err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	query := r.URL.Query()
	draft := forms.DecodeQuizDraft(values)
	draft = edit(draft, query.Get("op"), index(query.Get("q")), index(query.Get("o")))

	id := ""
	if models.IsObjectID(draft.ID) {
		id = draft.ID
	}
	h.list.RenderForm(w, r, http.StatusOK, crud.FormView[forms.QuizDraft]{
		ID:    id,
		Draft: draft,
		Form:  h.list.FormFor(id),
	})
}

func index(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

// edit applies a builder operation. Out of range indexes leave the draft
// unchanged.
func edit(draft forms.QuizDraft, op string, q, o int) forms.QuizDraft {
	questions := draft.Questions
	inQuestions := q >= 0 && q < len(questions)
	switch op {
	case "add-question":
		if len(questions) < maxQuestions {
			questions = append(questions, forms.BlankQuestion())
		}
	case "remove-question":
		if inQuestions {
			questions = append(questions[:q:q], questions[q+1:]...)
		}
	case "add-option":
		if inQuestions && len(questions[q].Options) < maxOptions {
			questions[q].Options = append(questions[q].Options, "")
		}
	case "remove-option":
		if inQuestions && o >= 0 && o < len(questions[q].Options) {
			question := &questions[q]
			question.Options = append(question.Options[:o:o], question.Options[o+1:]...)
			switch {
			case question.Correct == o:
				question.Correct = -1
			case question.Correct > o:
				question.Correct--
			}
		}
	}
	draft.Questions = questions
	return draft
}
