package ui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/passport/internal/router"
	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/session"
	"github.com/desertthunder/passport/internal/stores"
	"github.com/desertthunder/passport/internal/tasks"
	tu "github.com/desertthunder/passport/internal/testing"
)

type fixture struct {
	backend *tu.Backend
	auth    *stores.AuthStore
	router  *router.Router
	model   *Model
}

// newFixture wires a Model to a fake backend through the real pipeline, stores and router.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := tu.NewBackend(t)
	sc := session.NewContext(session.NewMemoryStorage())
	client := services.NewClient(backend.URL(), nil, sc, nil)

	auth := stores.NewAuthStore(services.NewAuthService(client), sc, nil)
	nav := router.New(auth)
	client.SetInvalidSessionHandler(auth.Invalidate)
	client.SetNavigator(nav)

	passportAPI := services.NewPassportService(client)
	model := NewModel(context.Background(), Config{
		Auth:            auth,
		Playlists:       stores.NewPlaylistStore(services.NewPlaylistService(client), auth, nil),
		Passport:        stores.NewPassportStore(passportAPI, auth, nil),
		Recommendations: stores.NewRecommendationStore(services.NewRecommendationService(client), auth, nil),
		Router:          nav,
		Exporter:        tasks.NewExportEngine(passportAPI, nil, nil),
		ExportDir:       t.TempDir(),
	})

	backend.Reply("/UserAuthentication/login", map[string]string{"user": "u1", "session": "s1"})
	backend.Reply("/Passport/_getExploredCountries", []map[string]string{{"country": "Japan"}, {"country": "Brazil"}})
	backend.Reply("/Passport/_getHistoryForCountry", []any{
		map[string]any{"song": map[string]any{"_id": "s1", "songTitle": "Lemon", "artist": "Kenshi Yonezu"}, "date": "2024-03-01"},
	})
	backend.Reply("/Playlist/_getPlaylistsForUser", []map[string]string{{"playlist": "p1", "name": "Road"}})
	backend.Reply("/Playlist/_getPlaylist", []map[string]any{{"_id": "p1", "name": "Road", "owner": "u1", "songs": []string{"a", "b"}}})
	backend.Reply("/CountryRecommendation/getSystemRecs", map[string]any{
		"recommendations": []map[string]string{{
			"_id": "r1", "songTitle": "Plastic Love", "artist": "Mariya Takeuchi",
			"youtubeURL": "https://youtu.be/x", "recType": "System", "countryName": "Japan",
		}},
	})
	backend.Reply("/CountryRecommendation/getCommunityRecs", map[string]any{})

	f := &fixture{backend: backend, auth: auth, router: nav, model: model}
	f.pump(t, model.Init())
	return f
}

// run executes cmd, failing the test if it blocks.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("command did not complete")
		return nil
	}
}

// pump feeds the results of cmd back into the model until no commands remain.
func (f *fixture) pump(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		switch msg := run(t, cmd).(type) {
		case Msg:
			_, cmd = f.model.Update(msg)
		case tea.BatchMsg:
			for _, c := range msg {
				f.pump(t, c)
			}
			cmd = nil
		default:
			cmd = nil
		}
	}
}

func (f *fixture) press(t *testing.T, keys ...tea.KeyMsg) {
	t.Helper()
	for _, k := range keys {
		_, cmd := f.model.Update(k)
		f.pump(t, cmd)
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	if err := f.auth.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
}

func (f *fixture) view() string { return f.model.route.Route.Name }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	t.Run("Starts At Home", func(t *testing.T) {
		f := newFixture(t)

		if f.view() != router.ViewHome {
			t.Fatalf("expected home view, got %s", f.view())
		}
		if got := len(f.model.menu.Items()); got != 3 {
			t.Errorf("expected 3 menu items, got %d", got)
		}
		if !strings.Contains(f.model.View(), "not signed in") {
			t.Error("expected signed out header")
		}
	})

	t.Run("Guard Redirects To Login", func(t *testing.T) {
		f := newFixture(t)

		f.press(t, down, down, enter)

		if f.view() != router.ViewLogin {
			t.Errorf("expected login view, got %s", f.view())
		}
		if f.backend.Count("/Playlist/_getPlaylistsForUser") != 0 {
			t.Error("expected no playlist request while signed out")
		}
	})

	t.Run("Login Form", func(t *testing.T) {
		f := newFixture(t)

		f.press(t, enter, runes("alice"), enter, runes("pw"), enter)

		if !f.auth.IsAuthenticated() {
			t.Fatal("expected to be authenticated")
		}
		if body := f.backend.Last("/UserAuthentication/login"); body["username"] != "alice" || body["password"] != "pw" {
			t.Errorf("unexpected login body %v", body)
		}
		if f.view() != router.ViewHome {
			t.Errorf("expected home view after login, got %s", f.view())
		}
		if !strings.Contains(f.model.View(), "signed in as alice") {
			t.Error("expected signed in header")
		}
	})

	t.Run("Login Requires Both Fields", func(t *testing.T) {
		f := newFixture(t)

		f.press(t, enter, runes("alice"), tab, enter)

		if f.model.err == "" {
			t.Error("expected validation error")
		}
		if f.backend.Count("/UserAuthentication/login") != 0 {
			t.Error("expected no login request")
		}
	})

	t.Run("Login Failure Shows Backend Message", func(t *testing.T) {
		f := newFixture(t)
		f.backend.Reply("/UserAuthentication/login", map[string]string{"error": "Invalid credentials"})

		f.press(t, enter, runes("alice"), enter, runes("bad"), enter)

		if f.view() != router.ViewLogin {
			t.Errorf("expected to stay on login, got %s", f.view())
		}
		if f.model.err != "Invalid credentials" {
			t.Errorf("unexpected error %q", f.model.err)
		}
	})

	t.Run("Profile History And Recommendations", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.pump(t, f.model.navigate("/profile"))

		if got := len(f.model.countries.Items()); got != 2 {
			t.Fatalf("expected 2 countries, got %d", got)
		}

		f.press(t, enter)
		if f.model.country != "Japan" {
			t.Fatalf("expected Japan history, got %q", f.model.country)
		}
		if got := len(f.model.history.Items()); got != 1 {
			t.Errorf("expected 1 history entry, got %d", got)
		}

		f.press(t, runes("r"))
		if f.view() != router.ViewRecommendations || f.model.route.Param("country") != "Japan" {
			t.Fatalf("expected Japan recommendations, got %s %v", f.view(), f.model.route.Params)
		}
		if got := len(f.model.recs.Items()); got != 1 {
			t.Errorf("expected 1 recommendation, got %d", got)
		}
	})

	t.Run("Log Exploration", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.backend.Reply("/Passport/logExploration", map[string]string{"entry": "e1"})
		f.pump(t, f.model.navigate(router.RecommendationsPath("Japan")))

		f.press(t, runes("a"))

		body := f.backend.Last("/Passport/logExploration")
		if body == nil || body["country"] != "Japan" {
			t.Fatalf("unexpected log body %v", body)
		}
		if !strings.Contains(f.model.status, "Plastic Love") {
			t.Errorf("unexpected status %q", f.model.status)
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.backend.Reply("/Playlist/deletePlaylist", map[string]any{})
		f.pump(t, f.model.navigate("/playlists"))

		if got := len(f.model.playlists.Items()); got != 1 {
			t.Fatalf("expected 1 playlist, got %d", got)
		}

		f.press(t, enter)
		if f.model.playlist == nil || len(f.model.songs.Items()) != 2 {
			t.Fatalf("expected open playlist with 2 songs, got %+v", f.model.playlist)
		}

		f.press(t, esc, runes("x"))
		if f.backend.Last("/Playlist/deletePlaylist")["playlist"] != "p1" {
			t.Error("expected delete request for p1")
		}
		if got := len(f.model.playlists.Items()); got != 0 {
			t.Errorf("expected empty list after delete, got %d", got)
		}
	})

	t.Run("Invalid Session Forces Login", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.backend.Handle("/Playlist/_getPlaylistsForUser", func(map[string]any) (int, any) {
			return http.StatusUnauthorized, map[string]string{"error": services.InvalidSessionMessage}
		})

		f.pump(t, f.model.navigate("/playlists"))

		if f.auth.IsAuthenticated() {
			t.Error("expected session to be cleared")
		}
		if f.view() != router.ViewLogin {
			t.Errorf("expected login view, got %s", f.view())
		}
	})

	t.Run("Export", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.pump(t, f.model.navigate("/profile"))

		f.press(t, runes("e"))

		if f.model.exporting {
			t.Fatal("expected export to finish")
		}
		if f.model.exportErr != nil {
			t.Fatalf("unexpected export error: %v", f.model.exportErr)
		}
		if f.model.export == nil || f.model.export.SuccessfulExports != 2 {
			t.Fatalf("unexpected export result %+v", f.model.export)
		}
		if !strings.Contains(f.model.View(), "Export Complete") {
			t.Error("expected export summary")
		}

		f.press(t, esc)
		if f.model.export != nil {
			t.Error("expected summary to be dismissed")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.pump(t, f.model.navigate(router.HomePath))

		f.press(t, down, down, enter)

		if f.auth.IsAuthenticated() {
			t.Error("expected to be signed out")
		}
		if f.view() != router.ViewHome || len(f.model.menu.Items()) != 3 {
			t.Errorf("expected signed out home menu, got %s", f.view())
		}
	})

	t.Run("Quit", func(t *testing.T) {
		f := newFixture(t)

		_, cmd := f.model.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Window Resize", func(t *testing.T) {
		f := newFixture(t)

		f.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

		if f.model.menu.Width() != 116 {
			t.Errorf("expected list width 116, got %d", f.model.menu.Width())
		}
	})
}
