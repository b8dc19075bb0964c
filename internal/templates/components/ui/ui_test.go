package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/codr1/leaguedesk/internal/listing"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestTextInputEscapesAndShowsError(t *testing.T) {
	html := render(t, TextInput(Input{
		Name:     "name",
		Label:    "Name",
		Value:    `"><script>`,
		Error:    "Name is required.",
		Required: true,
	}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("value was not escaped: %s", html)
	}
	for _, want := range []string{`aria-invalid="true"`, "Name is required.", "field-invalid", " required"} {
		if !strings.Contains(html, want) {
			t.Errorf("input missing %q: %s", want, html)
		}
	}
}

func TestSelectMarksCurrentValue(t *testing.T) {
	html := render(t, Select(Input{Name: "team", Label: "Team", Value: "b", Placeholder: "Choose"}, []Option{
		{Value: "a", Label: "Alpha"},
		{Value: "b", Label: "Beta"},
	}))
	if !strings.Contains(html, `<option value="b" selected>Beta</option>`) {
		t.Errorf("selected option not marked: %s", html)
	}
	if !strings.Contains(html, `<option value="">Choose</option>`) {
		t.Errorf("placeholder missing: %s", html)
	}
}

func TestPaginationButtons(t *testing.T) {
	nav := ListNav{Base: "/teams/list", Target: "#teams-list", LimitOptions: []int{5, 10}, MaxButtons: 5}
	p := listing.Pagination{Page: 1, Limit: 10, Total: 25, Pages: 3}

	html := render(t, Pagination(nav, p))

	if !strings.Contains(html, "Showing 1–10 of 25") {
		t.Errorf("range missing: %s", html)
	}
	if !strings.Contains(html, `<button type="button" disabled>Previous</button>`) {
		t.Errorf("previous should be disabled on the first page: %s", html)
	}
	if !strings.Contains(html, `hx-get="/teams/list?page=2"`) {
		t.Errorf("next page link missing: %s", html)
	}
	if !strings.Contains(html, `<option value="10" selected>10</option>`) {
		t.Errorf("current limit not selected: %s", html)
	}
}

func TestSortHeaderTogglesOrder(t *testing.T) {
	nav := ListNav{Base: "/teams/list", Target: "#teams-list"}
	html := render(t, SortHeader(nav, listing.Query{SortBy: "name", SortOrder: "asc"}, "name", "Name"))
	if !strings.Contains(html, "order=desc") {
		t.Errorf("ascending column should offer descending: %s", html)
	}

	html = render(t, SortHeader(nav, listing.Query{SortBy: "city"}, "name", "Name"))
	if !strings.Contains(html, "order=asc") {
		t.Errorf("unsorted column should offer ascending: %s", html)
	}
}

func TestEmptyState(t *testing.T) {
	if html := render(t, EmptyState(listing.EmptyNoData, "teams")); !strings.Contains(html, "No teams yet.") {
		t.Errorf("no-data message missing: %s", html)
	}
	if html := render(t, EmptyState(listing.EmptyNoMatches, "teams")); !strings.Contains(html, "match your search") {
		t.Errorf("no-match message missing: %s", html)
	}
	if html := render(t, EmptyState(listing.EmptyNone, "teams")); html != "" {
		t.Errorf("EmptyNone rendered %q", html)
	}
}

func TestFormBodyTargetsModal(t *testing.T) {
	html := render(t, FormBody(Form{Method: "put", Action: "/teams/1", Multipart: true, Error: "Upstream said no"}))
	for _, want := range []string{`hx-put="/teams/1"`, `hx-target="#modal"`, `hx-encoding="multipart/form-data"`, "Upstream said no"} {
		if !strings.Contains(html, want) {
			t.Errorf("form missing %q: %s", want, html)
		}
	}
}
