package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/catalog"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/playback"
	"github.com/tessro/convoy/internal/tail"
	"github.com/tessro/convoy/internal/tui/components"
	"github.com/tessro/convoy/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelPlaylist
	PanelNavigation
	PanelEvents
	panelCount
)

const (
	volumeStep  = 0.05
	seekStep    = 5.0 // percent
	maxEvents   = 50
	errorExpiry = 5 * time.Second
)

// App holds the components the dashboard drives.
type App struct {
	Playback    *playback.Controller
	Navigation  *navigation.Manager
	Overlay     *navigation.Overlay
	Catalog     *catalog.Catalog
	RefreshRate time.Duration
	Logger      zerolog.Logger
}

// Model is the main TUI model
type Model struct {
	app          *App
	ctx          context.Context
	width        int
	height       int
	focusedPanel Panel

	// State
	playback *playback.Snapshot
	nav      *navigation.Snapshot
	overlay  navigation.OverlayState
	events   []components.EventEntry

	// Components
	nowPlaying   *components.NowPlaying
	playlistView *components.Playlist
	navView      *components.Navigation
	eventsView   *components.Events
	spinner      spinner.Model
	help         help.Model

	watcher   *tail.Watcher
	formatter *tail.Formatter

	showHelp bool

	// Error handling
	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model. The watcher feeds the events panel and
// stops when ctx is done.
func NewModel(ctx context.Context, app *App) Model {
	refresh := app.RefreshRate
	if refresh <= 0 {
		refresh = time.Second
	}
	app.RefreshRate = refresh

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Accent)),
	)

	return Model{
		app:          app,
		ctx:          ctx,
		focusedPanel: PanelNowPlaying,
		nowPlaying:   components.NewNowPlaying(),
		playlistView: components.NewPlaylist(),
		navView:      components.NewNavigation(),
		eventsView:   components.NewEvents(),
		spinner:      sp,
		help:         help.New(),
		watcher:      tail.NewWatcher(app.Playback, app.Navigation, refresh/2),
		formatter:    tail.NewFormatter(tail.WithEmoji(true)),
		events:       make([]components.EventEntry, 0, maxEvents),
	}
}

// Messages
type tickMsg time.Time
type snapshotMsg struct {
	playback   playback.Snapshot
	navigation navigation.Snapshot
	overlay    navigation.OverlayState
}
type eventMsg tail.Event
type errMsg error

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchSnapshots() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{
			playback:   m.app.Playback.Snapshot(),
			navigation: m.app.Navigation.Snapshot(),
			overlay:    m.app.Overlay.State(),
		}
	}
}

func (m Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		if err := m.watcher.Start(m.ctx); err != nil && !errors.Is(err, context.Canceled) {
			return errMsg(err)
		}
		return nil
	}
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case e, ok := <-m.watcher.Events():
			if !ok {
				return nil
			}
			return eventMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// intent applies a local playback intent and refreshes the view.
func (m Model) intent(i playback.Intent) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Playback.ApplyLocalIntent(m.ctx, i); err != nil {
			return errMsg(err)
		}
		return m.fetchSnapshots()()
	}
}

func (m Model) setVolume(delta float64) tea.Cmd {
	return func() tea.Msg {
		v := m.app.Playback.Volume() + delta
		if err := m.app.Playback.SetVolume(m.ctx, v); err != nil {
			return errMsg(err)
		}
		return m.fetchSnapshots()()
	}
}

func (m Model) seek(delta float64) tea.Cmd {
	return func() tea.Msg {
		pct := m.app.Playback.Progress().Percentage + delta
		if err := m.app.Playback.SeekPercent(m.ctx, pct); err != nil {
			return errMsg(err)
		}
		return m.fetchSnapshots()()
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchSnapshots(),
		m.startWatcher(),
		m.waitForEvent(),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchSnapshots())

	case snapshotMsg:
		if time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		pb, nav := msg.playback, msg.navigation
		m.playback = &pb
		m.nav = &nav
		m.overlay = msg.overlay
		return m, nil

	case eventMsg:
		m.addEvent(tail.Event(msg))
		return m, m.waitForEvent()

	case errMsg:
		m.lastError = msg
		m.errorExpiry = time.Now().Add(errorExpiry)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, keys.NextPanel):
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil
	case key.Matches(msg, keys.PrevPanel):
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil
	}

	// Playback controls
	switch {
	case key.Matches(msg, keys.Toggle):
		return m, m.intent(playback.Intent{Kind: playback.TogglePlay})
	case key.Matches(msg, keys.Next):
		return m, m.intent(playback.Intent{Kind: playback.Advance})
	case key.Matches(msg, keys.Prev):
		return m, m.intent(playback.Intent{Kind: playback.Retreat})
	case key.Matches(msg, keys.VolumeUp):
		return m, m.setVolume(volumeStep)
	case key.Matches(msg, keys.VolumeDown):
		return m, m.setVolume(-volumeStep)
	case key.Matches(msg, keys.SeekBack):
		return m, m.seek(-seekStep)
	case key.Matches(msg, keys.SeekFwd):
		return m, m.seek(seekStep)
	case key.Matches(msg, keys.Select):
		i := int(msg.Runes[0] - '1')
		return m, m.intent(playback.Select(i))
	case key.Matches(msg, keys.Cancel):
		if m.app.Navigation.Cancel() {
			return m, m.fetchSnapshots()
		}
		return m, nil
	case key.Matches(msg, keys.Retry):
		if m.app.Navigation.Retry() {
			return m, m.fetchSnapshots()
		}
		return m, nil
	}

	// Panel-specific controls
	switch m.focusedPanel {
	case PanelPlaylist:
		switch {
		case key.Matches(msg, keys.Down):
			m.playlistView.CursorDown(m.app.Catalog.Tracks.Len())
		case key.Matches(msg, keys.Up):
			m.playlistView.CursorUp()
		case key.Matches(msg, keys.Enter):
			return m, m.intent(playback.Select(m.playlistView.Cursor()))
		}

	case PanelNavigation:
		switch {
		case key.Matches(msg, keys.Down):
			m.navView.SelectNext(len(m.app.Catalog.Destinations))
		case key.Matches(msg, keys.Up):
			m.navView.SelectPrev()
		case key.Matches(msg, keys.Enter):
			return m, m.selectDestination()
		}
	}

	return m, nil
}

func (m Model) selectDestination() tea.Cmd {
	dests := m.app.Catalog.Destinations
	i := m.navView.Selected()
	if i < 0 || i >= len(dests) {
		return nil
	}
	if !m.app.Navigation.SelectDestination(dests[i]) {
		return func() tea.Msg {
			return errMsg(errors.New("a route is already being requested"))
		}
	}
	return m.fetchSnapshots()
}

func (m *Model) addEvent(e tail.Event) {
	entry := components.EventEntry{
		Text: m.formatter.Format(e),
		At:   e.Timestamp,
	}

	// Newest first
	m.events = append([]components.EventEntry{entry}, m.events...)
	if len(m.events) > maxEvents {
		m.events = m.events[:maxEvents]
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Now Playing (top), Playlist (bottom)
	// Right: Navigation (top), Events (bottom)
	leftWidth := m.width * 55 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 45 / 100
	bottomHeight := m.height - topHeight - 2

	current := -1
	if m.playback != nil {
		current = m.playback.State.TrackIndex
	}

	tracks := m.app.Catalog.Tracks
	nowPlaying := m.nowPlaying.Render(m.playback, tracks.Len(), leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	playlist := m.playlistView.Render(tracks, current, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelPlaylist)
	nav := m.navView.Render(m.nav, m.overlay, m.app.Catalog.Destinations, m.spinner.View(), rightWidth-2, topHeight-2, m.focusedPanel == PanelNavigation)
	events := m.eventsView.Render(m.events, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelEvents)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, playlist)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, nav, events)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(keys.ShortHelp())

	if m.lastError != nil {
		status = styles.Banner.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := styles.Title.Render("Convoy - Keyboard Shortcuts")
	body := m.help.FullHelpView(keys.FullHelp())
	footer := styles.Dim.Render("Press ? or Esc to close")

	content := lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(content))
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, app)
	defer model.watcher.Stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
