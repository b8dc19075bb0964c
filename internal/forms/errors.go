// internal/forms/errors.go
package forms

import "strings"

// Errors maps field paths to messages in the order they were found.
type Errors struct {
	order    []string
	messages map[string]string
}

// Add records msg for path. The first message for a path wins.
func (e *Errors) Add(path, msg string) {
	if e.messages == nil {
		e.messages = make(map[string]string)
	}
	if _, exists := e.messages[path]; exists {
		return
	}
	e.order = append(e.order, path)
	e.messages[path] = msg
}

func (e Errors) Get(path string) string {
	return e.messages[path]
}

func (e Errors) Has(path string) bool {
	_, ok := e.messages[path]
	return ok
}

func (e Errors) Len() int {
	return len(e.order)
}

func (e Errors) OK() bool {
	return len(e.order) == 0
}

func (e Errors) Paths() []string {
	return append([]string(nil), e.order...)
}

// Map returns the errors keyed by path, for JSON responses.
func (e Errors) Map() map[string]string {
	out := make(map[string]string, len(e.messages))
	for path, msg := range e.messages {
		out[path] = msg
	}
	return out
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, path := range e.order {
		parts = append(parts, path+": "+e.messages[path])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Err returns nil when there are no errors.
func (e Errors) Err() error {
	if e.OK() {
		return nil
	}
	return e
}
