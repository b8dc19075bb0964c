// Package ui holds the shared console components. Components write escaped
// HTML through Writer and are exposed as templ components.
package ui

import (
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Writer accumulates the first write error so components can be written
// without checking every call.
type Writer struct {
	w   io.Writer
	err error
}

// Component adapts fn into a templ component.
func Component(fn func(ctx context.Context, w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &Writer{w: out}
		fn(ctx, w)
		return w.err
	})
}

// Raw writes trusted markup.
func (w *Writer) Raw(parts ...string) {
	for _, part := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, part)
	}
}

// Text writes escaped text.
func (w *Writer) Text(s string) {
	w.Raw(html.EscapeString(s))
}

// Int writes n.
func (w *Writer) Int(n int) {
	w.Raw(strconv.Itoa(n))
}

// Attr writes ` name="value"` with value escaped.
func (w *Writer) Attr(name, value string) {
	w.Raw(" ", name, `="`, html.EscapeString(value), `"`)
}

// AttrIf writes a boolean attribute when on is true.
func (w *Writer) AttrIf(on bool, name string) {
	if on {
		w.Raw(" ", name)
	}
}

// Render writes a child component.
func (w *Writer) Render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// Tag writes <tag>text</tag> with text escaped.
func (w *Writer) Tag(tag, text string) {
	w.Raw("<", tag, ">")
	w.Text(text)
	w.Raw("</", tag, ">")
}

// Empty renders nothing.
func Empty() templ.Component {
	return templ.ComponentFunc(func(context.Context, io.Writer) error { return nil })
}
