// internal/listing/pagination.go
package listing

import (
	"strings"

	"github.com/codr1/leaguedesk/internal/gateway"
)

const DefaultLimit = 10

// Query is the server-side list request of one screen.
type Query struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder gateway.SortOrder
}

func (q Query) Params() gateway.ListParams {
	return gateway.ListParams{
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    strings.TrimSpace(q.Search),
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

func (q Query) Searching() bool {
	return strings.TrimSpace(q.Search) != ""
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// FirstPage is the pagination shown before anything is loaded.
func FirstPage(limit int) Pagination {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Pagination{Page: 1, Limit: limit, Total: 0, Pages: 1}
}

// PagesFor is ceil(total/limit), and 0 when there is nothing to show.
func PagesFor(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (p Pagination) lastPage() int {
	pages := p.Pages
	if pages <= 0 {
		pages = PagesFor(p.Total, p.Limit)
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp bounds page to [1, pages].
func (p Pagination) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if last := p.lastPage(); page > last {
		return last
	}
	return page
}

// ItemsOnPage is the number of rows a page holds: a full page, except the
// last page which holds the remainder.
func (p Pagination) ItemsOnPage(page int) int {
	if p.Total <= 0 || p.Limit <= 0 {
		return 0
	}
	pages := PagesFor(p.Total, p.Limit)
	if page < 1 || page > pages {
		return 0
	}
	if page < pages {
		return p.Limit
	}
	if rem := p.Total % p.Limit; rem != 0 {
		return rem
	}
	return p.Limit
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p Pagination) HasNext() bool {
	return p.Page < p.lastPage()
}

func (p Pagination) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Range returns the 1-based first and last row numbers shown on the page.
func (p Pagination) Range() (int, int) {
	count := p.ItemsOnPage(p.Page)
	if count == 0 {
		return 0, 0
	}
	return p.Offset() + 1, p.Offset() + count
}

type PageButton struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// PageWindow returns at most maxButtons page buttons centered on current,
// with an ellipsis marker on each side that hides pages.
func PageWindow(current, pages, maxButtons int) []PageButton {
	if pages < 1 {
		pages = 1
	}
	if maxButtons < 1 {
		maxButtons = 5
	}
	if current < 1 {
		current = 1
	}
	if current > pages {
		current = pages
	}

	start, end := 1, pages
	if pages > maxButtons {
		half := maxButtons / 2
		start = current - half
		end = start + maxButtons - 1
		if start < 1 {
			start, end = 1, maxButtons
		}
		if end > pages {
			start, end = pages-maxButtons+1, pages
		}
	}

	buttons := make([]PageButton, 0, end-start+3)
	if start > 1 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	for page := start; page <= end; page++ {
		buttons = append(buttons, PageButton{Page: page, Current: page == current})
	}
	if end < pages {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	return buttons
}

type Empty int

const (
	EmptyNone Empty = iota
	EmptyNoData
	EmptyNoMatches
)

// EmptyState tells an empty collection apart from a search with no hits.
func EmptyState(query Query, itemCount int) Empty {
	if itemCount > 0 {
		return EmptyNone
	}
	if query.Searching() {
		return EmptyNoMatches
	}
	return EmptyNoData
}

// FilterLocal keeps the items whose text contains term, case-insensitively.
// It serves pickers over rows already loaded, never list screens.
func FilterLocal[T any](items []T, term string, text func(T) string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(text(item)), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
