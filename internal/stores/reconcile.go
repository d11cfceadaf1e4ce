package stores

import (
	"slices"

	"github.com/desertthunder/passport/internal/models"
)

// PlaylistState is the playlist store's snapshot.
type PlaylistState struct {
	Playlists []models.PlaylistSummary
	Current   *models.Playlist
}

// Clone returns a deep copy of s.
func (s PlaylistState) Clone() PlaylistState {
	return PlaylistState{
		Playlists: slices.Clone(s.Playlists),
		Current:   s.Current.Clone(),
	}
}

func (s PlaylistState) isCurrent(id string) bool {
	return s.Current != nil && s.Current.ID == id
}

// PlaylistMutation is a backend-confirmed playlist change.
type PlaylistMutation interface {
	apply(s PlaylistState) PlaylistState
}

type (
	Created     struct{ ID, Name string }
	Deleted     struct{ ID string }
	Renamed     struct{ ID, Name string }
	SongAdded   struct{ ID, Song string }
	SongRemoved struct{ ID, Song string }
	Reordered   struct {
		ID    string
		Songs []string
	}
)

// ApplyPlaylist returns the state after m. s is never modified.
func ApplyPlaylist(s PlaylistState, m PlaylistMutation) PlaylistState {
	return m.apply(s.Clone())
}

func (m Created) apply(s PlaylistState) PlaylistState {
	s.Playlists = append(s.Playlists, models.PlaylistSummary{Playlist: m.ID, Name: m.Name})
	return s
}

func (m Deleted) apply(s PlaylistState) PlaylistState {
	s.Playlists = slices.DeleteFunc(s.Playlists, func(p models.PlaylistSummary) bool { return p.Playlist == m.ID })
	if s.isCurrent(m.ID) {
		s.Current = nil
	}
	return s
}

func (m Renamed) apply(s PlaylistState) PlaylistState {
	for i := range s.Playlists {
		if s.Playlists[i].Playlist == m.ID {
			s.Playlists[i].Name = m.Name
		}
	}
	if s.isCurrent(m.ID) {
		s.Current.Name = m.Name
	}
	return s
}

func (m SongAdded) apply(s PlaylistState) PlaylistState {
	if s.isCurrent(m.ID) {
		s.Current.Songs = append(s.Current.Songs, m.Song)
	}
	return s
}

func (m SongRemoved) apply(s PlaylistState) PlaylistState {
	if s.isCurrent(m.ID) {
		s.Current.Songs = slices.DeleteFunc(s.Current.Songs, func(id string) bool { return id == m.Song })
	}
	return s
}

func (m Reordered) apply(s PlaylistState) PlaylistState {
	if s.isCurrent(m.ID) {
		s.Current.Songs = slices.Clone(m.Songs)
		if s.Current.Songs == nil {
			s.Current.Songs = []string{}
		}
	}
	return s
}
