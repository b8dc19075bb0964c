// internal/forms/field.go
package forms

import (
	"net/url"
	"strconv"
	"strings"
)

// Field binds a form input name to a typed accessor on draft D.
type Field[D any] struct {
	Path     string
	Label    string
	Required bool
	Get      func(*D) string
	Set      func(*D, string)
}

// decodeFields reads the last value posted for each field, so a checked
// checkbox overrides the hidden "false" input rendered before it.
func decodeFields[D any](values url.Values, fields []Field[D], draft *D) {
	for _, field := range fields {
		if field.Set != nil {
			field.Set(draft, strings.TrimSpace(lastValue(values[field.Path])))
		}
	}
}

func lastValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func requireFields[D any](draft *D, fields []Field[D], errs *Errors, message func(Field[D]) string) {
	for _, field := range fields {
		if field.Required && strings.TrimSpace(field.Get(draft)) == "" {
			errs.Add(field.Path, message(field))
		}
	}
}

func requiredMessage[D any](field Field[D]) string {
	return field.Label + " is required."
}

// checkRange validates an optional or required integer in [min, max].
// Blank values are left to the required check.
func checkRange(errs *Errors, path, label, value string, lo, hi int) {
	value = strings.TrimSpace(value)
	if value == "" || errs.Has(path) {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		errs.Add(path, label+" must be a number.")
		return
	}
	if n < lo || n > hi {
		errs.Add(path, label+" must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)+".")
	}
}

func atoi(value string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(value))
	return n
}

func optionalInt(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func intString(n int) string {
	return strconv.Itoa(n)
}

func optionalIntString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// parseBool accepts checkbox values.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func text[D any](path, label string, required bool, ref func(*D) *string) Field[D] {
	return Field[D]{
		Path:     path,
		Label:    label,
		Required: required,
		Get:      func(d *D) string { return *ref(d) },
		Set:      func(d *D, v string) { *ref(d) = v },
	}
}

func flag[D any](path, label string, ref func(*D) *bool) Field[D] {
	return Field[D]{
		Path:  path,
		Label: label,
		Get:   func(d *D) string { return boolString(*ref(d)) },
		Set:   func(d *D, v string) { *ref(d) = parseBool(v) },
	}
}
