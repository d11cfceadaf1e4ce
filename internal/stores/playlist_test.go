package stores

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/services"
	"github.com/desertthunder/passport/internal/shared"
)

func newPlaylistStore(t *testing.T, h *harness) *PlaylistStore {
	t.Helper()
	h.backend.Reply("/Playlist/_getPlaylistsForUser", []map[string]string{{"playlist": "p1", "name": "Road"}})
	h.backend.Reply("/Playlist/_getPlaylist", []map[string]any{
		{"_id": "p1", "name": "Road", "owner": "u1", "songs": []string{"a", "b", "c"}},
	})
	return NewPlaylistStore(services.NewPlaylistService(h.client), h.auth, nil)
}

func TestPlaylistStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires Authentication", func(t *testing.T) {
		h := newHarness(t)
		store := newPlaylistStore(t, h)

		if _, err := store.CreatePlaylist(ctx, "Road"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if store.Err() != "Not authenticated" {
			t.Errorf("unexpected error message %q", store.Err())
		}
		if len(h.backend.Calls()) != 0 {
			t.Error("expected no request")
		}
	})

	t.Run("Fetch", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)

		if err := store.FetchPlaylists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p, ok := store.PlaylistByID("p1"); !ok || p.Name != "Road" {
			t.Errorf("expected p1 in list, got %v", store.Playlists())
		}
		if h.backend.Last("/Playlist/_getPlaylistsForUser")["user"] != "u1" {
			t.Error("expected user in request")
		}

		p, err := store.FetchPlaylistDetails(ctx, "p1")
		if err != nil || p.ID != "p1" {
			t.Fatalf("unexpected details %+v (err=%v)", p, err)
		}
		if !store.HasCurrentSongs() {
			t.Error("expected current songs")
		}
		if store.Loading() {
			t.Error("expected loading cleared")
		}
	})

	t.Run("FetchPlaylistDetails Empty Result", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		h.backend.Reply("/Playlist/_getPlaylist", []any{})

		if _, err := store.FetchPlaylistDetails(ctx, "missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
		if store.Current() != nil {
			t.Error("expected no current playlist")
		}
	})

	t.Run("Reorder", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		h.backend.Reply("/Playlist/reorderSongs", map[string]any{})
		_, _ = store.FetchPlaylistDetails(ctx, "p1")

		if err := store.ReorderSongs(ctx, "p1", []any{"c", "a", "b"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.Current().Songs; !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
			t.Errorf("expected [c a b], got %v", got)
		}
	})

	t.Run("Reorder Rejects Empty Identifier", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		_, _ = store.FetchPlaylistDetails(ctx, "p1")

		err := store.ReorderSongs(ctx, "p1", []any{"c", map[string]any{}, "b"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if h.backend.Count("/Playlist/reorderSongs") != 0 {
			t.Error("expected no reorder request")
		}
		if got := store.Current().Songs; !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("expected state unchanged, got %v", got)
		}
	})

	t.Run("AddSong Normalizes Identifier", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		h.backend.Reply("/Playlist/addSong", map[string]any{})
		_, _ = store.FetchPlaylistDetails(ctx, "p1")

		if err := store.AddSong(ctx, "p1", models.SongRef{ID: "d"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if h.backend.Last("/Playlist/addSong")["song"] != "d" {
			t.Error("expected normalized id in request")
		}
		if got := store.Current().Songs; !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
			t.Errorf("unexpected songs %v", got)
		}
	})

	t.Run("AddSong Error Payload Leaves State", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		h.backend.Reply("/Playlist/addSong", map[string]string{"error": "Song already in playlist"})
		_, _ = store.FetchPlaylistDetails(ctx, "p1")

		if err := store.AddSong(ctx, "p1", "a"); !errors.Is(err, shared.ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
		if store.Err() != "Song already in playlist" {
			t.Errorf("unexpected error message %q", store.Err())
		}
		if len(store.Current().Songs) != 3 {
			t.Error("expected state unchanged")
		}
	})

	t.Run("AddSong Rejects Empty Identifier", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)

		if err := store.AddSong(ctx, "p1", map[string]any{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if h.backend.Count("/Playlist/addSong") != 0 {
			t.Error("expected no request")
		}
	})

	t.Run("Create Rename Delete", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)
		h.backend.Reply("/Playlist/createPlaylist", map[string]string{"playlist": "p2"})
		h.backend.Reply("/Playlist/renamePlaylist", map[string]any{})
		h.backend.Reply("/Playlist/deletePlaylist", map[string]any{})
		h.backend.Reply("/Playlist/removeSong", map[string]any{})
		_ = store.FetchPlaylists(ctx)

		id, err := store.CreatePlaylist(ctx, "  Gym ")
		if err != nil || id != "p2" {
			t.Fatalf("unexpected create %q (err=%v)", id, err)
		}
		if p, _ := store.PlaylistByID("p2"); p.Name != "Gym" {
			t.Errorf("expected trimmed name, got %q", p.Name)
		}

		if err := store.RenamePlaylist(ctx, "p2", "Lift"); err != nil {
			t.Fatal(err)
		}
		if p, _ := store.PlaylistByID("p2"); p.Name != "Lift" {
			t.Errorf("expected renamed, got %q", p.Name)
		}

		_, _ = store.FetchPlaylistDetails(ctx, "p1")
		if err := store.RemoveSong(ctx, "p1", "b"); err != nil {
			t.Fatal(err)
		}
		if got := store.Current().Songs; !reflect.DeepEqual(got, []string{"a", "c"}) {
			t.Errorf("unexpected songs %v", got)
		}

		if err := store.DeletePlaylist(ctx, "p1"); err != nil {
			t.Fatal(err)
		}
		if _, ok := store.PlaylistByID("p1"); ok || store.Current() != nil {
			t.Error("expected p1 removed and current cleared")
		}
	})

	t.Run("Create Rejects Blank Name", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		store := newPlaylistStore(t, h)

		if _, err := store.CreatePlaylist(ctx, "  "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if h.backend.Count("/Playlist/createPlaylist") != 0 {
			t.Error("expected no request")
		}
	})
}
