package stores

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// PlaylistAPI is the subset of [services.PlaylistService] used by [PlaylistStore].
type PlaylistAPI interface {
	PlaylistsForUser(ctx context.Context, user string) ([]models.PlaylistSummary, error)
	Playlist(ctx context.Context, id string) (*models.Playlist, error)
	CreatePlaylist(ctx context.Context, name string) (string, error)
	DeletePlaylist(ctx context.Context, id string) error
	RenamePlaylist(ctx context.Context, id, newName string) error
	AddSong(ctx context.Context, id, song string) error
	RemoveSong(ctx context.Context, id, song string) error
	ReorderSongs(ctx context.Context, id string, songs []string) error
}

// PlaylistStore caches the user's playlists and the selected playlist.
type PlaylistStore struct {
	api    PlaylistAPI
	auth   UserSource
	logger *log.Logger

	mu              sync.RWMutex
	state           PlaylistState
	loading         bool
	loadingPlaylist bool
	err             string
}

// NewPlaylistStore creates an empty PlaylistStore.
func NewPlaylistStore(api PlaylistAPI, auth UserSource, logger *log.Logger) *PlaylistStore {
	return &PlaylistStore{api: api, auth: auth, logger: storeLogger(logger, "playlist")}
}

// FetchPlaylists replaces the playlist list with the backend's.
func (s *PlaylistStore) FetchPlaylists(ctx context.Context) error {
	return s.run(&s.loading, "Failed to fetch playlists", func(user string) (PlaylistMutation, error) {
		rows, err := s.api.PlaylistsForUser(ctx, user)
		if err != nil {
			return nil, err
		}
		return replaced{Playlists: rows}, nil
	})
}

// FetchPlaylistDetails loads id as the current playlist.
func (s *PlaylistStore) FetchPlaylistDetails(ctx context.Context, id string) (*models.Playlist, error) {
	var p *models.Playlist
	err := s.run(&s.loadingPlaylist, "Failed to fetch playlist details", func(string) (PlaylistMutation, error) {
		if id == "" {
			return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
		}
		var err error
		if p, err = s.api.Playlist(ctx, id); err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
		}
		return selected{Playlist: p}, nil
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// CreatePlaylist creates a playlist and appends it to the list.
func (s *PlaylistStore) CreatePlaylist(ctx context.Context, name string) (string, error) {
	var id string
	err := s.run(&s.loading, "Failed to create playlist", func(string) (PlaylistMutation, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
		}
		var err error
		if id, err = s.api.CreatePlaylist(ctx, name); err != nil {
			return nil, err
		}
		return Created{ID: id, Name: name}, nil
	})
	return id, err
}

func (s *PlaylistStore) DeletePlaylist(ctx context.Context, id string) error {
	return s.run(&s.loading, "Failed to delete playlist", func(string) (PlaylistMutation, error) {
		if id == "" {
			return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
		}
		if err := s.api.DeletePlaylist(ctx, id); err != nil {
			return nil, err
		}
		return Deleted{ID: id}, nil
	})
}

func (s *PlaylistStore) RenamePlaylist(ctx context.Context, id, newName string) error {
	return s.run(&s.loading, "Failed to rename playlist", func(string) (PlaylistMutation, error) {
		newName = strings.TrimSpace(newName)
		if id == "" || newName == "" {
			return nil, fmt.Errorf("%w: playlist id and name are required", shared.ErrInvalidInput)
		}
		if err := s.api.RenamePlaylist(ctx, id, newName); err != nil {
			return nil, err
		}
		return Renamed{ID: id, Name: newName}, nil
	})
}

// AddSong adds song to playlist id. song is any value accepted by [models.NormalizeSongID].
func (s *PlaylistStore) AddSong(ctx context.Context, id string, song any) error {
	return s.run(&s.loading, "Failed to add song", func(string) (PlaylistMutation, error) {
		songID := models.NormalizeSongID(song)
		if songID == "" {
			return nil, fmt.Errorf("%w: invalid song id", shared.ErrInvalidInput)
		}
		if err := s.api.AddSong(ctx, id, songID); err != nil {
			return nil, err
		}
		return SongAdded{ID: id, Song: songID}, nil
	})
}

func (s *PlaylistStore) RemoveSong(ctx context.Context, id string, song any) error {
	return s.run(&s.loading, "Failed to remove song", func(string) (PlaylistMutation, error) {
		songID := models.NormalizeSongID(song)
		if songID == "" {
			return nil, fmt.Errorf("%w: invalid song id", shared.ErrInvalidInput)
		}
		if err := s.api.RemoveSong(ctx, id, songID); err != nil {
			return nil, err
		}
		return SongRemoved{ID: id, Song: songID}, nil
	})
}

// ReorderSongs sets the song order of playlist id. Any song that normalizes to ""
// rejects the whole call.
func (s *PlaylistStore) ReorderSongs(ctx context.Context, id string, songs []any) error {
	return s.run(&s.loading, "Failed to reorder songs", func(string) (PlaylistMutation, error) {
		ids, ok := models.NormalizeSongIDs(songs)
		if !ok {
			return nil, fmt.Errorf("%w: invalid song ids in reorder", shared.ErrInvalidInput)
		}
		if err := s.api.ReorderSongs(ctx, id, ids); err != nil {
			return nil, err
		}
		return Reordered{ID: id, Songs: ids}, nil
	})
}

func (s *PlaylistStore) ClearCurrentPlaylist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Current = nil
}

func (s *PlaylistStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Playlists returns a copy of the playlist list.
func (s *PlaylistStore) Playlists() []models.PlaylistSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Playlists)
}

// Current returns a copy of the selected playlist, or nil.
func (s *PlaylistStore) Current() *models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Current.Clone()
}

// PlaylistByID finds id in the playlist list.
func (s *PlaylistStore) PlaylistByID(id string) (models.PlaylistSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Playlists {
		if p.Playlist == id {
			return p, true
		}
	}
	return models.PlaylistSummary{}, false
}

func (s *PlaylistStore) HasCurrentSongs() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Current != nil && len(s.state.Current.Songs) > 0
}

// Loading reports whether any playlist action is in flight.
func (s *PlaylistStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading || s.loadingPlaylist
}

func (s *PlaylistStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// run executes one action: it requires a user, calls action without holding the lock,
// then applies the confirmed mutation or records the failure.
func (s *PlaylistStore) run(flag *bool, fallback string, action func(user string) (PlaylistMutation, error)) error {
	s.mu.Lock()
	*flag = true
	s.err = ""
	s.mu.Unlock()

	var m PlaylistMutation
	user := s.auth.User()
	err := shared.ErrNotAuthenticated
	if user != "" {
		m, err = action(user)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	*flag = false
	if err != nil {
		s.err = errorText(err, fallback)
		s.logger.Error(fallback, "error", err)
		return err
	}
	s.state = ApplyPlaylist(s.state, m)
	return nil
}

// replaced swaps in a freshly fetched list.
type replaced struct{ Playlists []models.PlaylistSummary }

func (m replaced) apply(s PlaylistState) PlaylistState {
	s.Playlists = slices.Clone(m.Playlists)
	return s
}

// selected makes p the current playlist.
type selected struct{ Playlist *models.Playlist }

func (m selected) apply(s PlaylistState) PlaylistState {
	s.Current = m.Playlist.Clone()
	return s
}
