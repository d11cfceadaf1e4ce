package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/formatter"
	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/router"
	"github.com/desertthunder/passport/internal/shared"
	"github.com/desertthunder/passport/internal/stores"
	"github.com/desertthunder/passport/internal/tasks"
)

// logoutAction is the home menu entry that ends the session instead of navigating.
const logoutAction = "logout"

// Config holds the dependencies of the TUI.
type Config struct {
	Auth            *stores.AuthStore
	Playlists       *stores.PlaylistStore
	Passport        *stores.PassportStore
	Recommendations *stores.RecommendationStore
	Router          *router.Router
	Exporter        *tasks.ExportEngine
	ExportDir       string // Bulk export target; empty uses the engine default
	StartPath       string // View shown once the session is loaded
	Logger          *log.Logger
}

// Model represents the TUI application state.
//
// The current view is always the router's current match. Store commands may move the
// router (an invalid session forces the login view), so every async result re-syncs.
type Model struct {
	ctx    context.Context
	cfg    Config
	logger *log.Logger

	route  router.Match
	width  int
	height int

	menu      list.Model
	countries list.Model
	history   list.Model
	playlists list.Model
	songs     list.Model
	recs      list.Model

	country  string           // open history, "" when browsing countries
	playlist *models.Playlist // open playlist, nil when browsing the list

	username textinput.Model
	password textinput.Model
	focus    int

	exporting    bool
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	export       *formatter.BulkExportResult
	exportErr    error

	status string
	err    string
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		logger: shared.WithLogger(logger, "component", "ui"),
		route:  cfg.Router.Current(),
		width:  80,
		height: 24,
		help:   help.New(),
		keys:   newKeyMap(),
	}
	m.username, m.password = newLoginInputs()
	m.menu = m.newList("Passport", nil)
	m.countries = m.newList("Explored Countries", nil)
	m.history = m.newList("History", nil)
	m.playlists = m.newList("Playlists", nil)
	m.songs = m.newList("Songs", nil)
	m.recs = m.newList("Recommendations", nil)
	return m
}

// Init restores the persisted session.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return sessionLoadedMsg(m.cfg.Auth.Init(m.ctx))
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.menu, &m.countries, &m.history, &m.playlists, &m.songs, &m.recs} {
			l.SetSize(m.listWidth(), m.listHeight())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		cmd := m.handleMsg(msg)
		if follow := m.syncRoute(); follow != nil {
			cmd = tea.Batch(cmd, follow)
		}
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view.
func (m *Model) View() string {
	var body string
	switch m.route.Route.Name {
	case router.ViewLogin:
		body = m.renderLogin()
	case router.ViewProfile:
		body = m.renderProfile()
	case router.ViewPlaylists:
		body = m.renderPlaylists()
	case router.ViewRecommendations:
		body = m.recs.View()
	default:
		body = m.menu.View()
	}

	parts := []string{m.renderHeader(), body}
	if m.err != "" {
		parts = append(parts, styles.err.Render("Error: "+m.err))
	}
	if m.status != "" {
		parts = append(parts, styles.ok.Render(m.status))
	}
	parts = append(parts, m.help.ShortHelpView(m.helpKeys()))

	return styles.frame.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// navigate asks the router for path and enters whatever view the guard allows.
func (m *Model) navigate(path string) tea.Cmd {
	m.err = ""
	m.status = ""
	m.cfg.Router.Navigate(path)
	return m.enter(m.cfg.Router.Current())
}

// syncRoute enters the router's current view when something other than the UI moved it.
func (m *Model) syncRoute() tea.Cmd {
	current := m.cfg.Router.Current()
	if current.Path == m.route.Path {
		return nil
	}
	m.logger.Debug("route changed outside the UI", "from", m.route.Path, "to", current.Path)
	return m.enter(current)
}

func (m *Model) enter(match router.Match) tea.Cmd {
	m.route = match

	switch match.Route.Name {
	case router.ViewLogin:
		return m.resetLogin()
	case router.ViewProfile:
		m.country = ""
		m.export = nil
		m.exportErr = nil
		return m.fetchCountries()
	case router.ViewPlaylists:
		m.playlist = nil
		m.cfg.Playlists.ClearCurrentPlaylist()
		return m.fetchPlaylists()
	case router.ViewRecommendations:
		country := match.Param("country")
		m.recs = m.newList("Recommendations for "+country, nil)
		return m.fetchRecs(country)
	default:
		m.menu = m.newList("Passport", m.menuItems())
		return nil
	}
}

func (m *Model) menuItems() []list.Item {
	if m.cfg.Auth.IsAuthenticated() {
		return []list.Item{
			menuItem{title: "Passport", desc: "Countries you have explored", path: "/profile"},
			menuItem{title: "Playlists", desc: "Your playlists", path: "/playlists"},
			menuItem{title: "Log out", desc: "End this session", path: logoutAction},
		}
	}
	return []list.Item{
		menuItem{title: "Log in", desc: "Sign in or register", path: router.LoginPath},
		menuItem{title: "Passport", desc: "Countries you have explored", path: "/profile"},
		menuItem{title: "Playlists", desc: "Your playlists", path: "/playlists"},
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.route.Route.Name == router.ViewLogin {
		return m.handleLoginKeys(msg)
	}

	active := m.activeList()
	if active != nil && active.FilterState() == list.Filtering {
		return m, m.updateList(active, msg)
	}
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.exporting {
		return m, nil
	}

	switch m.route.Route.Name {
	case router.ViewProfile:
		return m.handleProfileKeys(msg)
	case router.ViewPlaylists:
		return m.handlePlaylistKeys(msg)
	case router.ViewRecommendations:
		return m.handleRecKeys(msg)
	default:
		return m.handleMenuKeys(msg)
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) {
		item, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		if item.path == logoutAction {
			return m, m.logout()
		}
		return m, m.navigate(item.path)
	}
	if key.Matches(msg, m.keys.back) {
		return m, nil
	}
	return m, m.updateList(&m.menu, msg)
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.export != nil || m.exportErr != nil {
		if key.Matches(msg, m.keys.back, m.keys.enter) {
			m.export = nil
			m.exportErr = nil
		}
		return m, nil
	}

	if m.country != "" {
		switch {
		case key.Matches(msg, m.keys.back):
			m.country = ""
			return m, nil
		case key.Matches(msg, m.keys.recs):
			return m, m.navigate(router.RecommendationsPath(m.country))
		}
		return m, m.updateList(&m.history, msg)
	}

	item, selected := m.countries.SelectedItem().(countryItem)
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.enter) && selected:
		m.country = item.country.Country
		m.history = m.newList("History: "+m.country, nil)
		return m, m.fetchHistory(m.country)
	case key.Matches(msg, m.keys.recs) && selected:
		return m, m.navigate(router.RecommendationsPath(item.country.Country))
	case key.Matches(msg, m.keys.export):
		return m, m.startExport()
	}
	return m, m.updateList(&m.countries, msg)
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlist != nil {
		if key.Matches(msg, m.keys.back) {
			m.playlist = nil
			m.cfg.Playlists.ClearCurrentPlaylist()
			return m, nil
		}
		return m, m.updateList(&m.songs, msg)
	}

	item, selected := m.playlists.SelectedItem().(playlistItem)
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.enter) && selected:
		return m, m.fetchPlaylist(item.playlist.Playlist)
	case key.Matches(msg, m.keys.remove) && selected:
		return m, m.deletePlaylist(item.playlist.Playlist)
	}
	return m, m.updateList(&m.playlists, msg)
}

func (m *Model) handleRecKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, selected := m.recs.SelectedItem().(recItem)
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate("/profile")
	case key.Matches(msg, m.keys.open, m.keys.enter) && selected:
		if item.rec.YouTubeURL == "" {
			m.err = "No link for this recommendation"
			return m, nil
		}
		if err := shared.OpenBrowser(item.rec.YouTubeURL); err != nil {
			m.err = err.Error()
		}
		return m, nil
	case key.Matches(msg, m.keys.explore) && selected:
		return m, m.logExploration(item.rec, m.route.Param("country"))
	}
	return m, m.updateList(&m.recs, msg)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgSessionLoaded:
		start := m.cfg.StartPath
		if start == "" {
			start = router.HomePath
		}
		cmd := m.navigate(start)
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Auth.Err())
		}
		return cmd

	case MsgLoggedIn:
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Auth.Err())
			return nil
		}
		cmd := m.navigate(router.HomePath)
		m.status = "Signed in as " + m.cfg.Auth.Username()
		return cmd

	case MsgLoggedOut:
		cmd := m.navigate(router.HomePath)
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Auth.Err())
		} else {
			m.status = "Signed out"
		}
		return cmd

	case MsgCountriesFetched:
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Passport.Err())
		}
		countries := m.cfg.Passport.Countries()
		items := make([]list.Item, len(countries))
		for i, c := range countries {
			items[i] = countryItem{country: c}
		}
		m.countries = m.newList(fmt.Sprintf("Explored Countries (%d)", len(countries)), items)

	case MsgHistoryFetched:
		country, _ := msg.data.(string)
		if country != m.country {
			return nil
		}
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Passport.Err())
			return nil
		}
		entries, _ := m.cfg.Passport.History(country)
		items := make([]list.Item, len(entries))
		for i, e := range entries {
			items[i] = historyItem{entry: e}
		}
		m.history = m.newList(fmt.Sprintf("History: %s (%d songs)", country, len(entries)), items)

	case MsgPlaylistsFetched, MsgPlaylistDeleted:
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Playlists.Err())
		} else if msg.kind == MsgPlaylistDeleted {
			m.status = "Playlist deleted"
		}
		summaries := m.cfg.Playlists.Playlists()
		items := make([]list.Item, len(summaries))
		for i, p := range summaries {
			items[i] = playlistItem{playlist: p}
		}
		m.playlists = m.newList(fmt.Sprintf("Playlists (%d)", len(summaries)), items)

	case MsgPlaylistFetched:
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Playlists.Err())
			return nil
		}
		m.playlist, _ = msg.data.(*models.Playlist)
		if m.playlist == nil {
			return nil
		}
		items := make([]list.Item, len(m.playlist.Songs))
		for i, id := range m.playlist.Songs {
			items[i] = songItem{pos: i + 1, id: id}
		}
		m.songs = m.newList(fmt.Sprintf("%s (%d songs)", m.playlist.Name, len(m.playlist.Songs)), items)

	case MsgRecsFetched:
		country, _ := msg.data.(string)
		if m.route.Route.Name != router.ViewRecommendations || country != m.route.Param("country") {
			return nil
		}
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Recommendations.Err())
			return nil
		}
		recs := m.cfg.Recommendations.All(country)
		items := make([]list.Item, len(recs))
		for i, r := range recs {
			items[i] = recItem{rec: r}
		}
		m.recs = m.newList(fmt.Sprintf("Recommendations for %s (%d)", country, len(recs)), items)

	case MsgExplorationLogged:
		if msg.err != nil {
			m.fail(msg.err, m.cfg.Passport.Err())
			return nil
		}
		title, _ := msg.data.(string)
		m.status = fmt.Sprintf("Added %q to your passport", title)

	case MsgProgressUpdate:
		m.progress, _ = msg.data.(tasks.ProgressUpdate)
		return m.waitForProgress()

	case MsgExportComplete:
		m.exporting = false
		m.progressChan = nil
		m.doneChan = nil
		m.export, _ = msg.data.(*formatter.BulkExportResult)
		m.exportErr = msg.err
		if msg.err != nil {
			m.logger.Error("export failed", "error", msg.err)
		}
	}

	return nil
}

// fail records an error for display, preferring the store's user-facing message.
func (m *Model) fail(err error, display string) {
	m.logger.Error("operation failed", "view", m.route.Route.Name, "error", err)
	if display == "" {
		display = err.Error()
	}
	m.err = display
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.cfg.Auth.Logout(m.ctx))
	}
}

func (m *Model) fetchCountries() tea.Cmd {
	return func() tea.Msg {
		return countriesFetchedMsg(m.cfg.Passport.FetchExploredCountries(m.ctx))
	}
}

func (m *Model) fetchHistory(country string) tea.Cmd {
	return func() tea.Msg {
		return historyFetchedMsg(country, m.cfg.Passport.FetchHistoryForCountry(m.ctx, country))
	}
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsFetchedMsg(m.cfg.Playlists.FetchPlaylists(m.ctx))
	}
}

func (m *Model) fetchPlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.cfg.Playlists.FetchPlaylistDetails(m.ctx, id)
		return playlistFetchedMsg(playlist, err)
	}
}

func (m *Model) deletePlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		return playlistDeletedMsg(m.cfg.Playlists.DeletePlaylist(m.ctx, id))
	}
}

func (m *Model) fetchRecs(country string) tea.Cmd {
	return func() tea.Msg {
		return recsFetchedMsg(country, m.cfg.Recommendations.Fetch(m.ctx, country))
	}
}

func (m *Model) logExploration(rec models.Recommendation, country string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.cfg.Passport.LogExploration(m.ctx, models.SongFromRecommendation(rec), country)
		return explorationLoggedMsg(rec.Title, err)
	}
}

func (m *Model) startExport() tea.Cmd {
	if m.cfg.Exporter == nil {
		m.err = "Export is not available"
		return nil
	}

	m.exporting = true
	m.progress = tasks.ProgressUpdate{Message: "Starting export..."}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)

	prog, done := m.progressChan, m.doneChan
	user, username := m.cfg.Auth.User(), m.cfg.Auth.Username()
	opts := tasks.BulkExportOpts{Format: formatter.FormatJSON, OutputDir: m.cfg.ExportDir}

	go func() {
		result, err := m.cfg.Exporter.BulkExport(m.ctx, prog, user, username, opts)
		close(prog)
		done <- exportCompleteMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	prog, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if prog == nil {
			return exportCompleteMsg(nil, nil)
		}

		update, ok := <-prog
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) activeList() *list.Model {
	switch m.route.Route.Name {
	case router.ViewHome:
		return &m.menu
	case router.ViewProfile:
		if m.country != "" {
			return &m.history
		}
		return &m.countries
	case router.ViewPlaylists:
		if m.playlist != nil {
			return &m.songs
		}
		return &m.playlists
	case router.ViewRecommendations:
		return &m.recs
	}
	return nil
}

func (m *Model) updateList(l *list.Model, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return cmd
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), m.listWidth(), m.listHeight())
	l.Title = title
	l.SetShowHelp(false)
	return l
}

func (m *Model) listWidth() int  { return max(m.width-4, 20) }
func (m *Model) listHeight() int { return max(m.height-10, 6) }

func (m *Model) renderHeader() string {
	who := "not signed in"
	if m.cfg.Auth.IsAuthenticated() {
		who = "signed in as " + m.cfg.Auth.Username()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, styles.title.Render("Passport"), "  ", styles.help.Render(who))
}

func (m *Model) renderProfile() string {
	switch {
	case m.exporting:
		return m.renderExport()
	case m.export != nil || m.exportErr != nil:
		return m.renderExportResult()
	case m.country != "":
		return m.history.View()
	default:
		return m.countries.View()
	}
}

func (m *Model) renderPlaylists() string {
	if m.playlist != nil {
		return m.songs.View()
	}
	return m.playlists.View()
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Passport")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchCountries:
		phase = "Fetching explored countries..."
	case tasks.FetchHistory:
		phase = fmt.Sprintf("Fetching history (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ExportCountry:
		phase = fmt.Sprintf("Writing files (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteManifest:
		phase = "Writing manifest..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderExportResult() string {
	if m.exportErr != nil && m.export == nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v", m.exportErr))
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf(
		"\nDirectory: %s\nCountries: %d/%d exported",
		m.export.OutputDirectory,
		m.export.SuccessfulExports,
		m.export.TotalCountries,
	)

	var failed strings.Builder
	if m.export.FailedExports > 0 {
		failed.WriteString("\n\n" + styles.warn.Render(fmt.Sprintf("Failed to export %d countries:", m.export.FailedExports)))
		for _, r := range m.export.Results {
			if !r.Success {
				fmt.Fprintf(&failed, "\n  • %s: %v", r.Country, r.Error)
			}
		}
	}
	if m.exportErr != nil {
		failed.WriteString("\n\n" + styles.warn.Render(m.exportErr.Error()))
	}

	return fmt.Sprintf("%s\n%s%s", title, info, failed.String())
}

func (m *Model) helpKeys() []key.Binding {
	switch m.route.Route.Name {
	case router.ViewLogin:
		return []key.Binding{m.keys.tab, m.keys.enter, m.keys.register, m.keys.back}
	case router.ViewProfile:
		if m.exporting {
			return []key.Binding{m.keys.quit}
		}
		if m.country != "" {
			return []key.Binding{m.keys.recs, m.keys.back, m.keys.quit}
		}
		return []key.Binding{m.keys.enter, m.keys.recs, m.keys.export, m.keys.back, m.keys.quit}
	case router.ViewPlaylists:
		if m.playlist != nil {
			return []key.Binding{m.keys.back, m.keys.quit}
		}
		return []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	case router.ViewRecommendations:
		return []key.Binding{m.keys.open, m.keys.explore, m.keys.back, m.keys.quit}
	default:
		return []key.Binding{m.keys.enter, m.keys.quit}
	}
}
