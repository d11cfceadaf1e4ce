package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/passport/internal/formatter"
	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionLoaded MsgKind = iota
	MsgLoggedIn
	MsgLoggedOut
	MsgCountriesFetched
	MsgHistoryFetched
	MsgPlaylistsFetched
	MsgPlaylistFetched
	MsgPlaylistDeleted
	MsgRecsFetched
	MsgExplorationLogged
	MsgProgressUpdate
	MsgExportComplete
)

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(err error) Msg {
	return Msg{kind: MsgSessionLoaded, err: err}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(err error) Msg {
	return Msg{kind: MsgLoggedIn, err: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, err: err}
}

// countriesFetchedMsg is the constructor for [MsgCountriesFetched]
func countriesFetchedMsg(err error) Msg {
	return Msg{kind: MsgCountriesFetched, err: err}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]; data is the country.
func historyFetchedMsg(country string, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: country, err: err}
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, err: err}
}

// playlistFetchedMsg is the constructor for [MsgPlaylistFetched]
func playlistFetchedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistFetched, data: playlist, err: err}
}

// playlistDeletedMsg is the constructor for [MsgPlaylistDeleted]
func playlistDeletedMsg(err error) Msg {
	return Msg{kind: MsgPlaylistDeleted, err: err}
}

// recsFetchedMsg is the constructor for [MsgRecsFetched]; data is the country.
func recsFetchedMsg(country string, err error) Msg {
	return Msg{kind: MsgRecsFetched, data: country, err: err}
}

// explorationLoggedMsg is the constructor for [MsgExplorationLogged]; data is the song title.
func explorationLoggedMsg(title string, err error) Msg {
	return Msg{kind: MsgExplorationLogged, data: title, err: err}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *formatter.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: result, err: err}
}
