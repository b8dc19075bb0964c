// internal/forms/content.go
package forms

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/codr1/leaguedesk/internal/gateway"
	"github.com/codr1/leaguedesk/internal/models"
)

type BlogDraft struct {
	ID      string
	Type    string
	Title   string
	Author  string
	Content string
	Logo    string

	LogoFile *Upload
}

type BlogBody struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Logo    string `json:"logo,omitempty"`
}

var blogFields = []Field[BlogDraft]{
	text("type", "Type", true, func(d *BlogDraft) *string { return &d.Type }),
	text("title", "Title", true, func(d *BlogDraft) *string { return &d.Title }),
	text("author", "Author", true, func(d *BlogDraft) *string { return &d.Author }),
	text("content", "Content", true, func(d *BlogDraft) *string { return &d.Content }),
}

func BlogFields() []Field[BlogDraft] {
	return blogFields
}

func BlankBlogDraft() BlogDraft {
	return BlogDraft{Type: models.BlogTypes[0]}
}

func BlogDraftFrom(blog models.Blog) BlogDraft {
	return BlogDraft{
		ID:      blog.ID,
		Type:    blog.Type,
		Title:   blog.Title,
		Author:  blog.Author,
		Content: blog.Content,
		Logo:    blog.Logo,
	}
}

func DecodeBlogDraft(values url.Values) BlogDraft {
	var draft BlogDraft
	decodeFields(values, blogFields, &draft)
	draft.ID = strings.TrimSpace(values.Get("id"))
	draft.Logo = strings.TrimSpace(values.Get("logo"))
	return draft
}

func (d BlogDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, blogFields, &errs, requiredMessage[BlogDraft])
	if d.Type != "" && !slices.Contains(models.BlogTypes, d.Type) {
		errs.Add("type", "Invalid blog type.")
	}
	return errs
}

func (d BlogDraft) Body() BlogBody {
	logo := d.Logo
	if d.LogoFile != nil {
		logo = ""
	}
	return BlogBody{Type: d.Type, Title: d.Title, Author: d.Author, Content: d.Content, Logo: logo}
}

func (d BlogDraft) Payload() *gateway.Payload {
	return attach(gateway.JSONPayload(d.Body()), d.LogoFile)
}

type CommentDraft struct {
	Author  string
	Comment string
}

var commentFields = []Field[CommentDraft]{
	text("author", "Author", true, func(d *CommentDraft) *string { return &d.Author }),
	text("comment", "Comment", true, func(d *CommentDraft) *string { return &d.Comment }),
}

func DecodeCommentDraft(values url.Values) CommentDraft {
	var draft CommentDraft
	decodeFields(values, commentFields, &draft)
	return draft
}

func (d CommentDraft) Validate() Errors {
	var errs Errors
	requireFields(&d, commentFields, &errs, requiredMessage[CommentDraft])
	return errs
}

func (d CommentDraft) BlogComment() models.BlogComment {
	return models.BlogComment{Author: d.Author, Comment: d.Comment}
}

func (d CommentDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(map[string]string{"author": d.Author, "comment": d.Comment})
}

const maxQuizQuestions = 50

type QuizDraft struct {
	ID        string
	Title     string
	Category  string
	Questions []QuestionDraft
}

type QuestionDraft struct {
	Text    string
	Options []string
	// Correct is the index of the correct option, or -1.
	Correct int
}

type QuizBody struct {
	Title     string                `json:"title"`
	Category  string                `json:"category"`
	Questions []models.QuizQuestion `json:"questions"`
}

func BlankQuizDraft() QuizDraft {
	return QuizDraft{Questions: []QuestionDraft{BlankQuestion()}}
}

func BlankQuestion() QuestionDraft {
	return QuestionDraft{Options: []string{"", ""}, Correct: -1}
}

func QuizDraftFrom(quiz models.Quiz) QuizDraft {
	draft := QuizDraft{ID: quiz.ID, Title: quiz.Title, Category: quiz.Category}
	for _, question := range quiz.Questions {
		q := QuestionDraft{Text: question.Question, Correct: -1}
		for i, option := range question.Options {
			q.Options = append(q.Options, option.Text)
			if option.IsCorrect && q.Correct < 0 {
				q.Correct = i
			}
		}
		draft.Questions = append(draft.Questions, q)
	}
	return draft
}

// QuestionPath names the inputs of question i: questions.i.question,
// questions.i.options.j and questions.i.correct.
func QuestionPath(i int, suffix string) string {
	return "questions." + strconv.Itoa(i) + "." + suffix
}

func OptionPath(i, j int) string {
	return QuestionPath(i, "options."+strconv.Itoa(j))
}

func DecodeQuizDraft(values url.Values) QuizDraft {
	draft := QuizDraft{
		ID:       strings.TrimSpace(values.Get("id")),
		Title:    strings.TrimSpace(values.Get("title")),
		Category: strings.TrimSpace(values.Get("category")),
	}
	for i := 0; i < maxQuizQuestions; i++ {
		if _, ok := values[QuestionPath(i, "question")]; !ok {
			break
		}
		question := QuestionDraft{Text: strings.TrimSpace(values.Get(QuestionPath(i, "question"))), Correct: -1}
		for j := 0; ; j++ {
			option, ok := values[OptionPath(i, j)]
			if !ok {
				break
			}
			question.Options = append(question.Options, strings.TrimSpace(firstValue(option)))
		}
		if correct, err := strconv.Atoi(values.Get(QuestionPath(i, "correct"))); err == nil {
			question.Correct = correct
		}
		draft.Questions = append(draft.Questions, question)
	}
	return draft
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (d QuizDraft) Validate() Errors {
	var errs Errors
	if strings.TrimSpace(d.Title) == "" {
		errs.Add("title", "Title is required.")
	}
	if len(d.Questions) == 0 {
		errs.Add("questions", "Add at least one question.")
	}
	for i, question := range d.Questions {
		if strings.TrimSpace(question.Text) == "" {
			errs.Add(QuestionPath(i, "question"), "Question text is required.")
		}
		filled := 0
		for _, option := range question.Options {
			if strings.TrimSpace(option) != "" {
				filled++
			}
		}
		if filled < 2 {
			errs.Add(QuestionPath(i, "options"), "Each question needs at least two options.")
		}
		if question.Correct < 0 || question.Correct >= len(question.Options) || strings.TrimSpace(question.Options[question.Correct]) == "" {
			errs.Add(QuestionPath(i, "correct"), "Mark exactly one option as correct.")
		}
	}
	return errs
}

func (d QuizDraft) Body() QuizBody {
	body := QuizBody{Title: d.Title, Category: d.Category, Questions: []models.QuizQuestion{}}
	for _, question := range d.Questions {
		q := models.QuizQuestion{Question: question.Text, Options: []models.QuizOption{}}
		for j, option := range question.Options {
			if strings.TrimSpace(option) == "" {
				continue
			}
			q.Options = append(q.Options, models.QuizOption{Text: option, IsCorrect: j == question.Correct})
		}
		body.Questions = append(body.Questions, q)
	}
	return body
}

func (d QuizDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(d.Body())
}

type CarouselImageDraft struct {
	Kind       models.CarouselKind
	Title      string
	Link       string
	ReplaceURL string

	File *Upload
}

func DecodeCarouselImageDraft(kind models.CarouselKind, values url.Values) CarouselImageDraft {
	return CarouselImageDraft{
		Kind:       kind,
		Title:      strings.TrimSpace(values.Get("title")),
		Link:       strings.TrimSpace(values.Get("link")),
		ReplaceURL: strings.TrimSpace(values.Get("replace")),
	}
}

func (d CarouselImageDraft) Validate() Errors {
	var errs Errors
	if !d.Kind.Valid() {
		errs.Add("kind", "Unknown carousel.")
	}
	if d.Title == "" {
		errs.Add("title", "Title is required.")
	}
	if d.File == nil || len(d.File.Data) == 0 {
		errs.Add("file", "Image is required.")
	}
	if d.Link != "" {
		parsed, err := url.ParseRequestURI(d.Link)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs.Add("link", "Link must be an http(s) URL.")
		}
	}
	return errs
}

func (d CarouselImageDraft) Upload() gateway.ImageUpload {
	upload := gateway.ImageUpload{Title: d.Title, Link: d.Link}
	if d.File != nil {
		upload.File = d.File.File()
		upload.File.Field = "file"
	}
	return upload
}

func (d CarouselImageDraft) Payload() *gateway.Payload {
	upload := d.Upload()
	return gateway.JSONPayload(map[string]string{"title": upload.Title, "link": upload.Link}).Attach(upload.File)
}

type SidebarDraft struct {
	Section models.SidebarSection
	Content string
}

func (d SidebarDraft) Validate() Errors {
	var errs Errors
	if !d.Section.Valid() {
		errs.Add("section", "Unknown section.")
	}
	if strings.TrimSpace(d.Content) == "" {
		errs.Add("content", "Content is required.")
	}
	return errs
}

func (d SidebarDraft) Payload() *gateway.Payload {
	return gateway.JSONPayload(map[string]string{"content": d.Content})
}

type LoginDraft struct {
	Username string
	Password string
}

func DecodeLoginDraft(values url.Values) LoginDraft {
	return LoginDraft{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
}

func (d LoginDraft) Validate() Errors {
	var errs Errors
	if d.Username == "" {
		errs.Add("username", "Username is required.")
	}
	if d.Password == "" {
		errs.Add("password", "Password is required.")
	}
	return errs
}
