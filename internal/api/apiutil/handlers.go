package apiutil

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/api/authz"
	"github.com/codr1/leaguedesk/internal/api/htmx"
	"github.com/codr1/leaguedesk/internal/gateway"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoginPath is where expired or missing sessions are sent.
const LoginPath = "/login"

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderHTMLComponent renders component with status 200. See RenderHTML.
func RenderHTMLComponent(ctx context.Context, w http.ResponseWriter, component templ.Component, headers map[string]string, logMsg, errMsg string) bool {
	return RenderHTML(ctx, w, http.StatusOK, component, headers, logMsg, errMsg)
}

// RenderHTML renders component into a buffer first so a render failure can
// still produce a clean 500. It reports whether the response was written
// successfully.
func RenderHTML(ctx context.Context, w http.ResponseWriter, status int, component templ.Component, headers map[string]string, logMsg, errMsg string) bool {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		http.Error(w, errMsg, http.StatusInternalServerError)
		return false
	}
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg(logMsg)
		return false
	}
	return true
}

// WriteError answers with err's status and message, as JSON or plain text.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var handlerErr HandlerError
	if !errors.As(err, &handlerErr) {
		handlerErr = HandlerError{Status: UpstreamStatus(err), Message: UpstreamMessage(err, "Request failed"), Err: err}
	}
	if !htmx.IsRequest(r) {
		_ = WriteJSON(w, handlerErr.Status, map[string]string{"error": handlerErr.Message})
		return
	}
	http.Error(w, handlerErr.Message, handlerErr.Status)
}

// Unauthorized handles a rejected upstream token: it ends the session and
// redirects to the login page. It reports whether err was such a rejection.
func Unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, gateway.ErrUnauthorized) {
		return false
	}
	log.Ctx(r.Context()).Warn().Msg("Upstream rejected session token")
	authz.Expire(r.Context())
	htmx.Redirect(w, r, LoginPath)
	return true
}

// UpstreamStatus maps a gateway error to the console response status.
func UpstreamStatus(err error) int {
	var apiErr *gateway.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gateway.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, gateway.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, gateway.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrUnavailable):
		return http.StatusBadGateway
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		// Rejected by upstream validation.
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UpstreamMessage is the operator-facing text for err.
func UpstreamMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, gateway.ErrUnavailable):
		return "The league API is unreachable. Try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The league API took too long to answer."
	case errors.Is(err, gateway.ErrPayloadTooLarge):
		return "The file is too large."
	}
	return gateway.Message(err, fallback)
}
