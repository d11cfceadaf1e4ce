package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/session"
	"github.com/desertthunder/passport/internal/shared"
	tu "github.com/desertthunder/passport/internal/testing"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) string {
	n.paths = append(n.paths, path)
	return path
}

func newSessionContext(t *testing.T, st *session.State) (*session.Context, *session.MemoryStorage) {
	t.Helper()
	storage := session.NewMemoryStorage()
	sc := session.NewContext(storage)
	if st != nil {
		if err := sc.Save(context.Background(), *st); err != nil {
			t.Fatalf("failed to seed session: %v", err)
		}
	}
	return sc, storage
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Session Injection", func(t *testing.T) {
		t.Run("Attaches Stored Token Verbatim", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Reply("/Playlist/createPlaylist", map[string]string{"playlist": "p1"})
			sc, _ := newSessionContext(t, &session.State{UserID: "u1", Username: "alice", Token: "s1"})
			client := NewClient(backend.URL(), nil, sc, nil)

			if err := client.Post(ctx, "/Playlist/createPlaylist", Payload{"name": "Road"}, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			body := backend.Last("/Playlist/createPlaylist")
			if body["session"] != "s1" {
				t.Errorf("expected session 's1', got %v", body["session"])
			}
			if body["name"] != "Road" {
				t.Errorf("expected name 'Road', got %v", body["name"])
			}
		})

		for _, tc := range []struct {
			name  string
			state *session.State
		}{
			{name: "Omitted When Absent", state: nil},
			{name: "Omitted When Placeholder", state: &session.State{UserID: "u1", Token: session.Placeholder}},
			{name: "Omitted When Empty", state: &session.State{UserID: "u1", Token: ""}},
		} {
			t.Run(tc.name, func(t *testing.T) {
				backend := tu.NewBackend(t)
				backend.Reply("/UserAuthentication/login", map[string]string{"user": "u1", "session": "s1"})
				sc, _ := newSessionContext(t, tc.state)
				client := NewClient(backend.URL(), nil, sc, nil)

				if err := client.Post(ctx, "/UserAuthentication/login", Payload{"username": "alice"}, nil); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if _, ok := backend.Last("/UserAuthentication/login")["session"]; ok {
					t.Error("expected session to be omitted")
				}
			})
		}

		t.Run("Does Not Mutate Caller Payload", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Reply("/Playlist/addSong", map[string]any{})
			sc, _ := newSessionContext(t, &session.State{UserID: "u1", Token: "s1"})
			client := NewClient(backend.URL(), nil, sc, nil)

			payload := Payload{"playlist": "p1"}
			_ = client.Post(ctx, "/Playlist/addSong", payload, nil)

			if _, ok := payload["session"]; ok {
				t.Error("expected caller payload to be left untouched")
			}
		})
	})

	t.Run("Decodes Response", func(t *testing.T) {
		backend := tu.NewBackend(t)
		backend.Reply("/UserAuthentication/login", map[string]string{"user": "u1", "session": "s1"})
		client := NewClient(backend.URL(), nil, nil, nil)

		var out LoginResult
		if err := client.Post(ctx, "/UserAuthentication/login", Payload{}, &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.User != "u1" || out.Session != "s1" {
			t.Errorf("unexpected result %+v", out)
		}
	})

	t.Run("Logs Response Data", func(t *testing.T) {
		backend := tu.NewBackend(t)
		backend.Reply("/UserAuthentication/login", map[string]string{"user": "u-logged", "session": "secret-token-1234"})
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		client := NewClient(backend.URL(), nil, nil, logger)

		if err := client.Post(ctx, "/UserAuthentication/login", Payload{"username": "alice"}, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		logs := buf.String()
		if !strings.Contains(logs, "api response") || !strings.Contains(logs, "u-logged") {
			t.Errorf("expected response data in logs, got %s", logs)
		}
		if strings.Contains(logs, "secret-token-1234") {
			t.Errorf("expected session token to be masked, got %s", logs)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		t.Run("Non-2xx Status", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Handle("/Playlist/deletePlaylist", func(map[string]any) (int, any) {
				return http.StatusBadRequest, map[string]string{"error": "no such playlist"}
			})
			client := NewClient(backend.URL(), nil, nil, nil)

			err := client.Post(ctx, "/Playlist/deletePlaylist", Payload{}, nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Status != http.StatusBadRequest || apiErr.Message != "no such playlist" {
				t.Errorf("unexpected api error %+v", apiErr)
			}
		})

		t.Run("Error Payload In 2xx", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Reply("/Playlist/addSong", map[string]string{"error": "Song already in playlist"})
			client := NewClient(backend.URL(), nil, nil, nil)

			err := client.Post(ctx, "/Playlist/addSong", Payload{}, nil)
			if !errors.Is(err, shared.ErrBackend) {
				t.Fatalf("expected ErrBackend, got %v", err)
			}
			if ErrorMessage(err) != "Song already in playlist" {
				t.Errorf("expected backend message, got %q", ErrorMessage(err))
			}
		})

		t.Run("Array Body Is Not An Error", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Reply("/Reporting/_getReportCount", []map[string]int{{"count": 2}})
			client := NewClient(backend.URL(), nil, nil, nil)

			if err := client.Post(ctx, "/Reporting/_getReportCount", Payload{}, nil); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			httpClient := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			client := NewClient("http://backend.invalid", httpClient, nil, nil)

			err := client.Post(ctx, "/Playlist/addSong", Payload{}, nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			client := NewClient("http://backend.invalid", httpClient, nil, nil)

			err := client.Post(ctx, "/Playlist/addSong", Payload{}, nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Undecodable Body", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("not json")), Header: http.Header{}}
			httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			client := NewClient("http://backend.invalid", httpClient, nil, nil)

			var out LoginResult
			err := client.Post(ctx, "/UserAuthentication/login", Payload{}, &out)
			if !errors.Is(err, shared.ErrUnexpectedResponse) {
				t.Errorf("expected ErrUnexpectedResponse, got %v", err)
			}
		})
	})

	t.Run("Invalid Session", func(t *testing.T) {
		for _, status := range []int{http.StatusOK, http.StatusUnauthorized} {
			t.Run(http.StatusText(status), func(t *testing.T) {
				backend := tu.NewBackend(t)
				backend.Handle("/Playlist/_getPlaylistsForUser", func(map[string]any) (int, any) {
					return status, map[string]string{"error": InvalidSessionMessage}
				})
				sc, storage := newSessionContext(t, &session.State{UserID: "u1", Username: "alice", Token: "stale"})
				nav := &recordingNavigator{}
				client := NewClient(backend.URL(), nil, sc, nil, WithNavigator(nav))

				err := client.Post(ctx, "/Playlist/_getPlaylistsForUser", Payload{"user": "u1"}, nil)
				if !errors.Is(err, shared.ErrInvalidSession) {
					t.Fatalf("expected ErrInvalidSession, got %v", err)
				}
				if storage.Len() != 0 {
					t.Errorf("expected durable session cleared, %d entries remain", storage.Len())
				}
				if len(nav.paths) != 1 || nav.paths[0] != LoginPath {
					t.Errorf("expected navigation to %s, got %v", LoginPath, nav.paths)
				}
			})
		}

		t.Run("Runs Registered Handler", func(t *testing.T) {
			backend := tu.NewBackend(t)
			backend.Reply("/Playlist/addSong", map[string]string{"error": InvalidSessionMessage})
			sc, storage := newSessionContext(t, &session.State{UserID: "u1", Token: "stale"})

			called := 0
			handler := func(ctx context.Context) error {
				called++
				return sc.Clear(ctx)
			}
			client := NewClient(backend.URL(), nil, sc, nil, WithInvalidSessionHandler(handler))

			_ = client.Post(ctx, "/Playlist/addSong", Payload{}, nil)
			if called != 1 {
				t.Errorf("expected handler to run once, ran %d times", called)
			}
			if storage.Len() != 0 {
				t.Error("expected durable session cleared")
			}
		})
	})
}

func TestRedactPayload(t *testing.T) {
	p := Payload{"session": "abcdefgh", "password": "hunter22", "name": "Road"}
	got := redactPayload(p)

	if got["session"] != "****efgh" {
		t.Errorf("expected redacted session, got %v", got["session"])
	}
	if got["password"] != "****er22" {
		t.Errorf("expected redacted password, got %v", got["password"])
	}
	if got["name"] != "Road" {
		t.Errorf("expected name untouched, got %v", got["name"])
	}
	if p["session"] != "abcdefgh" {
		t.Error("expected original payload untouched")
	}
}
