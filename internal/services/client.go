// Request pipeline shared by every passport API module
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/desertthunder/passport/internal/session"
	"github.com/desertthunder/passport/internal/shared"
)

// InvalidSessionMessage is the backend's error for an expired or unknown session token.
const InvalidSessionMessage = "Invalid session token"

// LoginPath is the view the pipeline forces when the session is rejected.
const LoginPath = "/login"

// sessionField is the reserved body field carrying the session token.
const sessionField = "session"

// Payload is a JSON request body.
type Payload map[string]any

// Poster sends one action to the backend and decodes the response into out.
type Poster interface {
	Post(ctx context.Context, path string, payload Payload, out any) error
}

// Navigator switches the active view.
type Navigator interface {
	Navigate(path string) string
}

// InvalidSessionHandler purges local session state after the backend rejects the token.
type InvalidSessionHandler func(ctx context.Context) error

// APIError is a failed backend call: a non-2xx status or an error payload in a 2xx body.
type APIError struct {
	Status  int
	Path    string
	Message string
	err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: %s returned status %d", e.err, e.Path, e.Status)
	}
	return fmt.Sprintf("%v: %s returned status %d: %s", e.err, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

// ErrorMessage returns the backend's message carried by err, or "".
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Option configures a [Client].
type Option func(*Client)

// WithNavigator sets the navigator used to force the login view.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithInvalidSessionHandler sets the handler run when the backend rejects the session.
func WithInvalidSessionHandler(h InvalidSessionHandler) Option {
	return func(c *Client) { c.onInvalidSession = h }
}

// Client is the session-aware request pipeline.
//
// Every request carries the stored session token under "session" unless the token is absent
// or the placeholder. Responses are checked for both failure conventions: non-2xx status and
// an "error" string inside a 2xx body.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	session          *session.Context
	logger           *log.Logger
	navigator        Navigator
	onInvalidSession InvalidSessionHandler
}

// NewClient creates a pipeline targeting baseURL.
func NewClient(baseURL string, httpClient *http.Client, sc *session.Context, logger *log.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		session:    sc,
		logger:     shared.WithLogger(logger, "component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetNavigator replaces the navigator after construction.
func (c *Client) SetNavigator(n Navigator) { c.navigator = n }

// SetInvalidSessionHandler replaces the invalid-session handler after construction.
func (c *Client) SetInvalidSessionHandler(h InvalidSessionHandler) { c.onInvalidSession = h }

// BaseURL returns the resolved backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends payload to path and decodes a successful response into out when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, payload Payload, out any) error {
	body := make(Payload, len(payload)+1)
	maps.Copy(body, payload)

	if c.session != nil {
		token, err := c.session.Token(ctx)
		if err != nil {
			c.logger.Warn("session unavailable", "error", err)
		} else if token != "" {
			body[sessionField] = token
		}
	}

	logger := c.logger.With("request_id", shared.GenerateID(), "method", http.MethodPost, "path", path)

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %w", shared.ErrInvalidInput, err)
	}
	logger.Debug("api request", "payload", redactPayload(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("api error", "error", err)
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("api error", "status", resp.StatusCode, "error", err)
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	msg := errorField(raw)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	switch {
	case msg == InvalidSessionMessage:
		logger.Warn("api error", "status", resp.StatusCode, "error", msg)
		c.invalidateSession(ctx, logger)
		return &APIError{Status: resp.StatusCode, Path: path, Message: msg, err: shared.ErrInvalidSession}
	case !ok:
		logger.Error("api error", "status", resp.StatusCode, "error", msg)
		return &APIError{Status: resp.StatusCode, Path: path, Message: msg, err: shared.ErrAPIRequest}
	case msg != "":
		logger.Warn("api error", "status", resp.StatusCode, "error", msg)
		return &APIError{Status: resp.StatusCode, Path: path, Message: msg, err: shared.ErrBackend}
	}

	logger.Debug("api response", "status", resp.StatusCode, "data", responseData(raw))

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrUnexpectedResponse, path, err)
	}
	return nil
}

// invalidateSession purges the session and forces the login view.
func (c *Client) invalidateSession(ctx context.Context, logger *log.Logger) {
	if c.onInvalidSession != nil {
		if err := c.onInvalidSession(ctx); err != nil {
			logger.Error("failed to clear invalid session", "error", err)
		}
	} else if c.session != nil {
		if err := c.session.Clear(ctx); err != nil {
			logger.Error("failed to clear invalid session", "error", err)
		}
	}

	if c.navigator != nil {
		c.navigator.Navigate(LoginPath)
	}
}

// errorField extracts a string "error" field from a JSON object body.
func errorField(raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	msg, _ := obj["error"].(string)
	return msg
}

// responseData decodes raw for logging, masking credentials in object bodies.
func responseData(raw []byte) any {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	if obj, ok := data.(map[string]any); ok {
		return redactPayload(obj)
	}
	return data
}

func redactPayload(p Payload) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		switch k {
		case sessionField, "password":
			if s, ok := v.(string); ok {
				v = shared.Redact(s)
			}
		}
		out[k] = v
	}
	return out
}
