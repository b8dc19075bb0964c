package htmx

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	EventShowToast  = "showToast"
	EventCloseModal = "closeModal"
)

type Toast struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger sets HX-Trigger to the given events. Events without detail use true.
func Trigger(w http.ResponseWriter, events map[string]any) {
	if len(events) == 0 {
		return
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}

// Success closes the open modal and shows a success toast.
func Success(w http.ResponseWriter, message string) {
	Trigger(w, map[string]any{
		EventCloseModal: true,
		EventShowToast:  Toast{Message: message, Level: "success"},
	})
}

// Failure shows an error toast and leaves any modal open.
func Failure(w http.ResponseWriter, message string) {
	Trigger(w, map[string]any{EventShowToast: Toast{Message: message, Level: "error"}})
}

// Redirect sends the browser to target, with HX-Redirect for fragment
// requests so htmx performs a full navigation.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsRequest(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
