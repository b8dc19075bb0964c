package ui

import (
	"context"

	"github.com/a-h/templ"
)

// Input is a labelled form control with its validation message.
type Input struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Error       string
	Placeholder string
	Required    bool
	Min, Max    string
}

// Option is one choice of a Select.
type Option struct {
	Value string
	Label string
}

func fieldStart(w *Writer, name, label, errMsg string, required bool) {
	class := "field"
	if errMsg != "" {
		class += " field-invalid"
	}
	w.Raw(`<div`)
	w.Attr("class", class)
	w.Raw(`><label`)
	w.Attr("for", name)
	w.Raw(`>`)
	w.Text(label)
	if required {
		w.Raw(` <span class="required">*</span>`)
	}
	w.Raw(`</label>`)
}

func fieldEnd(w *Writer, errMsg string) {
	if errMsg != "" {
		w.Raw(`<p class="field-error">`)
		w.Text(errMsg)
		w.Raw(`</p>`)
	}
	w.Raw(`</div>`)
}

func controlAttrs(w *Writer, name, errMsg string, required bool) {
	w.Attr("id", name)
	w.Attr("name", name)
	w.AttrIf(required, "required")
	if errMsg != "" {
		w.Attr("aria-invalid", "true")
	}
}

func TextInput(in Input) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		kind := in.Type
		if kind == "" {
			kind = "text"
		}
		fieldStart(w, in.Name, in.Label, in.Error, in.Required)
		w.Raw(`<input`)
		w.Attr("type", kind)
		controlAttrs(w, in.Name, in.Error, in.Required)
		w.Attr("value", in.Value)
		if in.Placeholder != "" {
			w.Attr("placeholder", in.Placeholder)
		}
		if in.Min != "" {
			w.Attr("min", in.Min)
		}
		if in.Max != "" {
			w.Attr("max", in.Max)
		}
		w.Raw(`>`)
		fieldEnd(w, in.Error)
	})
}

func TextArea(in Input) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		fieldStart(w, in.Name, in.Label, in.Error, in.Required)
		w.Raw(`<textarea rows="6"`)
		controlAttrs(w, in.Name, in.Error, in.Required)
		w.Raw(`>`)
		w.Text(in.Value)
		w.Raw(`</textarea>`)
		fieldEnd(w, in.Error)
	})
}

// Select renders a drop-down. An empty Placeholder omits the blank choice.
func Select(in Input, options []Option) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		fieldStart(w, in.Name, in.Label, in.Error, in.Required)
		w.Raw(`<select`)
		controlAttrs(w, in.Name, in.Error, in.Required)
		w.Raw(`>`)
		if in.Placeholder != "" {
			w.Raw(`<option value="">`)
			w.Text(in.Placeholder)
			w.Raw(`</option>`)
		}
		for _, option := range options {
			w.Raw(`<option`)
			w.Attr("value", option.Value)
			w.AttrIf(option.Value == in.Value, "selected")
			w.Raw(`>`)
			w.Text(option.Label)
			w.Raw(`</option>`)
		}
		w.Raw(`</select>`)
		fieldEnd(w, in.Error)
	})
}

// Checkbox posts "true" when checked. The hidden input keeps an unchecked
// box from being dropped from the form.
func Checkbox(name, label string, checked bool) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		w.Raw(`<div class="field field-checkbox"><input type="hidden" value="false"`)
		w.Attr("name", name)
		w.Raw(`><label><input type="checkbox" value="true"`)
		w.Attr("name", name)
		w.AttrIf(checked, "checked")
		w.Raw(`> `)
		w.Text(label)
		w.Raw(`</label></div>`)
	})
}

// FileInput is an image picker with a preview of the chosen or current image.
func FileInput(in Input, previewURL string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		fieldStart(w, in.Name, in.Label, in.Error, in.Required)
		if previewURL != "" {
			w.Raw(`<img class="image-preview" alt=""`)
			w.Attr("src", previewURL)
			w.Raw(`>`)
		}
		w.Raw(`<input type="file" accept="image/*"`)
		controlAttrs(w, in.Name, in.Error, in.Required)
		w.Raw(`>`)
		fieldEnd(w, in.Error)
	})
}

// Form is a modal form that posts to action with hx-post or hx-put. The
// response replaces the modal contents unless Target says otherwise.
type Form struct {
	Method    string
	Action    string
	Target    string
	Multipart bool
	Error     string
	Submit    string
}

// FormBody wraps fields in a form with an error banner and the action row.
func FormBody(form Form, fields ...templ.Component) templ.Component {
	return Component(func(ctx context.Context, w *Writer) {
		method := form.Method
		if method == "" {
			method = "post"
		}
		target := form.Target
		if target == "" {
			target = ModalTarget
		}
		w.Raw(`<form class="modal-form"`)
		w.Attr("hx-"+method, form.Action)
		w.Attr("hx-target", target)
		w.Attr("hx-swap", "innerHTML")
		if form.Multipart {
			w.Attr("hx-encoding", "multipart/form-data")
		}
		w.Raw(`>`)
		w.Render(ctx, Alert(form.Error))
		for _, field := range fields {
			w.Render(ctx, field)
		}
		submit := form.Submit
		if submit == "" {
			submit = "Save"
		}
		w.Raw(`<div class="modal-actions"><button type="button" class="secondary" onclick="document.querySelector('` + ModalTarget + `').innerHTML=''">Cancel</button><button type="submit" class="primary">`)
		w.Text(submit)
		w.Raw(`</button></div></form>`)
	})
}

// Group renders children under a fieldset legend.
func Group(legend string, children ...templ.Component) templ.Component {
	return Component(func(ctx context.Context, w *Writer) {
		w.Raw(`<fieldset>`)
		w.Tag("legend", legend)
		for _, child := range children {
			w.Render(ctx, child)
		}
		w.Raw(`</fieldset>`)
	})
}

func Hidden(name, value string) templ.Component {
	return Component(func(_ context.Context, w *Writer) {
		w.Raw(`<input type="hidden"`)
		w.Attr("name", name)
		w.Attr("value", value)
		w.Raw(`>`)
	})
}
