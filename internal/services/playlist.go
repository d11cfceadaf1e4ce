package services

import (
	"context"

	"github.com/desertthunder/passport/internal/models"
)

// PlaylistService wraps the Playlist actions. All of them require a session.
type PlaylistService struct {
	client Poster
}

// NewPlaylistService creates a PlaylistService over client.
func NewPlaylistService(client Poster) *PlaylistService {
	return &PlaylistService{client: client}
}

// PlaylistsForUser lists the user's playlists.
func (s *PlaylistService) PlaylistsForUser(ctx context.Context, user string) ([]models.PlaylistSummary, error) {
	var rows []models.PlaylistSummary
	if err := s.client.Post(ctx, "/Playlist/_getPlaylistsForUser", Payload{"user": user}, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.PlaylistSummary{}
	}
	return rows, nil
}

// Playlist fetches one playlist. The query answers with a one-element array;
// an empty array yields (nil, nil) and callers must guard it.
func (s *PlaylistService) Playlist(ctx context.Context, id string) (*models.Playlist, error) {
	var rows []models.Playlist
	if err := s.client.Post(ctx, "/Playlist/_getPlaylist", Payload{"playlist": id}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0]
	if p.Songs == nil {
		p.Songs = []string{}
	}
	return &p, nil
}

// CreatePlaylist creates a playlist and returns its id.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, name string) (string, error) {
	var resp struct {
		Playlist string `json:"playlist"`
	}
	if err := s.client.Post(ctx, "/Playlist/createPlaylist", Payload{"name": name}, &resp); err != nil {
		return "", err
	}
	return resp.Playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, id string) error {
	return s.client.Post(ctx, "/Playlist/deletePlaylist", Payload{"playlist": id}, nil)
}

func (s *PlaylistService) RenamePlaylist(ctx context.Context, id, newName string) error {
	return s.client.Post(ctx, "/Playlist/renamePlaylist", Payload{"playlist": id, "newName": newName}, nil)
}

func (s *PlaylistService) AddSong(ctx context.Context, id, song string) error {
	return s.client.Post(ctx, "/Playlist/addSong", Payload{"playlist": id, "song": song}, nil)
}

func (s *PlaylistService) RemoveSong(ctx context.Context, id, song string) error {
	return s.client.Post(ctx, "/Playlist/removeSong", Payload{"playlist": id, "song": song}, nil)
}

// ReorderSongs replaces the playlist's song order with songs.
func (s *PlaylistService) ReorderSongs(ctx context.Context, id string, songs []string) error {
	return s.client.Post(ctx, "/Playlist/reorderSongs", Payload{"playlist": id, "songs": songs}, nil)
}
