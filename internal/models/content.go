// internal/models/content.go
package models

import "time"

// BlogTypes are the categories offered by the blog form.
var BlogTypes = []string{
	"Actualités liées aux Passioné",
	"Evénements sportifs",
	"Mon compte",
}

type Blog struct {
	ID         string        `json:"_id,omitempty"`
	Type       string        `json:"type"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Content    string        `json:"content"`
	Logo       string        `json:"logo,omitempty"`
	ViewsCount int           `json:"viewsCount"`
	Date       time.Time     `json:"date"`
	Tags       []string      `json:"tags,omitempty"`
	Comments   []BlogComment `json:"comments,omitempty"`
}

type BlogComment struct {
	Author  string    `json:"author"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type Quiz struct {
	ID        string         `json:"_id,omitempty"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
}

type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type CarouselKind string

const (
	CarouselHome     CarouselKind = "home"
	CarouselSponsors CarouselKind = "sponsors"
)

func (k CarouselKind) Valid() bool {
	return k == CarouselHome || k == CarouselSponsors
}

type Carousel struct {
	Type     CarouselKind    `json:"type"`
	IsActive bool            `json:"isActive"`
	Images   []CarouselImage `json:"images"`
}

type CarouselImage struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
	Order int    `json:"order"`
}

type SidebarSection string

const (
	SidebarAbout     SidebarSection = "about"
	SidebarCondition SidebarSection = "condition"
)

func (s SidebarSection) Valid() bool {
	return s == SidebarAbout || s == SidebarCondition
}

type SidebarPage struct {
	Section SidebarSection `json:"-"`
	Content string         `json:"content"`
}

type User struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Telephone string `json:"telephone"`
}

// Session is the result of a successful login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
