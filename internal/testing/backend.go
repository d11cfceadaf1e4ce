package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// Call is one request received by a [Backend].
type Call struct {
	Path string
	Body map[string]any
}

// HandlerFunc answers one backend action. The returned value is JSON encoded.
type HandlerFunc func(body map[string]any) (status int, resp any)

// Backend is a fake passport API that records every request it receives.
//
// Unknown paths answer 404 with {"error":"not found"}.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Call
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{handlers: make(map[string]HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL clients should target.
func (b *Backend) URL() string { return b.Server.URL }

// Handle registers h for path, replacing any previous handler.
func (b *Backend) Handle(path string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = h
}

// Reply registers a handler that always answers 200 with resp.
func (b *Backend) Reply(path string, resp any) {
	b.Handle(path, func(map[string]any) (int, any) { return http.StatusOK, resp })
}

// Calls returns a copy of every recorded request, in arrival order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Count returns how many requests hit path.
func (b *Backend) Count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request body sent to path, or nil.
func (b *Backend) Last(path string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].Path == path {
			return b.calls[i].Body
		}
	}
	return nil
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, Call{Path: r.URL.Path, Body: body})
	h, ok := b.handlers[r.URL.Path]
	b.mu.Unlock()

	status, resp := http.StatusNotFound, any(map[string]string{"error": "not found"})
	if ok {
		status, resp = h(body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
