// internal/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 15 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	KeyStyle   KeyStyle
	HTTPClient *http.Client
}

// Client is the single entry point to the upstream league API. The bearer
// token and request id are read from the context of each call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keyStyle   KeyStyle

	Teams       *Teams
	Players     *Players
	Fixtures    *Fixtures
	MatchEvents *MatchEvents
	Blogs       *Blogs
	Quizzes     *Quizzes
	Carousels   *Carousels
	Sidebar     *Sidebar
	Auth        *Auth
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		keyStyle:   cfg.KeyStyle,
	}
	c.Teams = &Teams{resource[models.Team]{c: c, path: "/team", listKeys: []string{"teams"}, itemKeys: []string{"team"}}}
	c.Players = &Players{resource[models.Player]{c: c, path: "/player", listKeys: []string{"players"}, itemKeys: []string{"player"}}}
	c.Fixtures = &Fixtures{resource[models.Fixture]{c: c, path: "/fixture", listKeys: []string{"fixtures"}, itemKeys: []string{"fixture"}}}
	c.MatchEvents = &MatchEvents{c: c}
	c.Blogs = &Blogs{resource[models.Blog]{c: c, path: "/blogs", listKeys: []string{"blogs"}, itemKeys: []string{"blog"}}}
	c.Quizzes = &Quizzes{resource[models.Quiz]{c: c, path: "/quiz", listKeys: []string{"quizzes"}, itemKeys: []string{"quiz"}}}
	c.Carousels = &Carousels{c: c}
	c.Sidebar = &Sidebar{c: c}
	c.Auth = &Auth{c: c}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type contextKey string

const (
	tokenKey     contextKey = "gateway_token"
	requestIDKey contextKey = "gateway_request_id"
)

// WithToken returns a context whose upstream calls carry the bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithRequestID propagates the console request id as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) send(ctx context.Context, method, path string, payload *Payload) ([]byte, error) {
	return c.do(ctx, method, path, nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload *Payload) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if payload != nil {
		encoded, ct, err := payload.encode(c.keyStyle)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(encoded)
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		log.Ctx(ctx).Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("Upstream request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, path, err)
	}

	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}
