package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/passport/internal/models"
)

var (
	_ list.Item = menuItem{}
	_ list.Item = countryItem{}
	_ list.Item = historyItem{}
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
	_ list.Item = recItem{}
)

// menuItem is a home view entry that navigates to path.
type menuItem struct {
	title string
	desc  string
	path  string
}

func (i menuItem) FilterValue() string { return i.title }
func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }

// countryItem wraps [models.ExploredCountry] to implement [list.Item].
type countryItem struct {
	country models.ExploredCountry
}

func (i countryItem) FilterValue() string { return i.country.Country }
func (i countryItem) Title() string       { return i.country.Country }
func (i countryItem) Description() string { return "enter: history • r: recommendations" }

// historyItem wraps [models.HistoryEntry] to implement [list.Item].
type historyItem struct {
	entry models.HistoryEntry
}

func (i historyItem) FilterValue() string { return i.entry.SongTitle }
func (i historyItem) Title() string       { return i.entry.SongTitle }
func (i historyItem) Description() string {
	if i.entry.Date == nil {
		return i.entry.Artist
	}
	return fmt.Sprintf("%s • %s", i.entry.Artist, i.entry.Date.Format("Jan 2, 2006"))
}

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.Playlist }

// songItem is one song id of an open playlist.
type songItem struct {
	pos int
	id  string
}

func (i songItem) FilterValue() string { return i.id }
func (i songItem) Title() string       { return fmt.Sprintf("%d. %s", i.pos, i.id) }
func (i songItem) Description() string { return "" }

// recItem wraps [models.Recommendation] to implement [list.Item].
type recItem struct {
	rec models.Recommendation
}

func (i recItem) FilterValue() string { return i.rec.Title }
func (i recItem) Title() string       { return i.rec.Title }
func (i recItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.rec.Artist, i.rec.RecType)
	if i.rec.Genre != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.rec.Genre)
	}
	return desc
}
