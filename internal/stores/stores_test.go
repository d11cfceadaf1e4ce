package stores

import (
	"context"
	"testing"

	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/session"
	tu "github.com/desertthunder/passport/internal/testing"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) string {
	n.paths = append(n.paths, path)
	return path
}

// harness wires stores to a fake backend through the real request pipeline.
type harness struct {
	backend *tu.Backend
	storage *session.MemoryStorage
	session *session.Context
	client  *services.Client
	nav     *recordingNavigator
	auth    *AuthStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		backend: tu.NewBackend(t),
		storage: session.NewMemoryStorage(),
		nav:     &recordingNavigator{},
	}
	h.session = session.NewContext(h.storage)
	h.client = services.NewClient(h.backend.URL(), nil, h.session, nil, services.WithNavigator(h.nav))
	h.auth = NewAuthStore(services.NewAuthService(h.client), h.session, nil)
	h.client.SetInvalidSessionHandler(h.auth.Invalidate)
	return h
}

// login authenticates as alice (u1) with session s1.
func (h *harness) login(t *testing.T) {
	t.Helper()
	h.backend.Reply("/UserAuthentication/login", map[string]string{"user": "u1", "session": "s1"})
	if err := h.auth.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
}

// countWhere counts calls to path whose body field equals value.
func countWhere(b *tu.Backend, path, field, value string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Path == path && c.Body[field] == value {
			n++
		}
	}
	return n
}
