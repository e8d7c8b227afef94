package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statusbox/internal/prefs"
	"github.com/five82/statusbox/internal/state"
)

// Widget is the status source the UI renders.
type Widget interface {
	Snapshot() state.Snapshot
	Refresh(ctx context.Context) state.Snapshot
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Widget       Widget
	PollTick     time.Duration // how often the UI re-reads the widget; zero uses 1s
	RefreshEvery time.Duration // widget cadence, shown in help
	ThemeName    string
	DisplayMode  DisplayMode
	PrefsPath    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx          context.Context
	widget       Widget
	prefsPath    string
	pollTick     time.Duration
	refreshEvery time.Duration

	theme   Theme
	mode    DisplayMode
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	snapshot   state.Snapshot
	refreshing int
	width      int
	height     int
	showHelp   bool
	showDebug  bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	theme := GetTheme(opts.ThemeName)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:          ctx,
		widget:       opts.Widget,
		prefsPath:    opts.PrefsPath,
		pollTick:     pollTick,
		refreshEvery: opts.RefreshEvery,
		theme:        theme,
		mode:         opts.DisplayMode,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
	}
	if m.widget != nil {
		m.snapshot = m.widget.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tickCmd(m.pollTick),
	}
	if m.widget != nil {
		cmds = append(cmds, snapshotCmd(m.widget))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft && !m.snapshot.Loading() {
			return m.startRefresh()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.widget != nil {
			cmds = append(cmds, snapshotCmd(m.widget))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case refreshedMsg:
		if m.refreshing > 0 {
			m.refreshing--
		}
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applySnapshot keeps the newest state. Snapshots read before a later fetch
// completed can arrive out of order; the fetch counter only grows.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Fetches < m.snapshot.Fetches {
		return
	}
	m.snapshot = snap
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Nothing is interactive until the first fetch lands.
	if m.snapshot.Loading() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.startRefresh()

	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		m.savePrefs()

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleDebug):
		m.showDebug = !m.showDebug

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.widget == nil {
		return m, nil
	}
	m.refreshing++
	return m, refreshCmd(m.ctx, m.widget)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, DisplayMode: m.mode.String()})
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.snapshot.Loading() {
		return m.renderLoading()
	}
	return m.renderMain()
}

func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	return m.place(m.spinner.View() + " " + styles.MutedText.Render("Loading status..."))
}

func (m Model) renderMain() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	lines := []string{
		styles.Title.Render("System Status"),
		"",
		renderStatusBox(snap.Status, m.mode, m.theme),
		"",
		styles.MutedText.Render("Updated: " + snap.LastUpdatedLabel()),
	}

	refresh := styles.Link.Render("r or click to refresh")
	if m.refreshing > 0 {
		refresh = styles.WarningText.Render("Refreshing...")
	}
	lines = append(lines, refresh)

	if m.showDebug {
		debug := "Status: " + snap.Status.StateName()
		if snap.LastError != nil {
			debug += " (" + truncate(snap.LastError.Error(), 60) + ")"
		}
		lines = append(lines, "", styles.FaintText.Render(debug))
	}

	lines = append(lines, "", m.help.View(m.keys))
	return m.place(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// place centers content when the terminal size is known.
func (m Model) place(content string) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshedMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(w Widget) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(w.Snapshot())
	}
}

// refreshCmd runs a manual fetch. Quitting does not cancel it.
func refreshCmd(ctx context.Context, w Widget) tea.Cmd {
	fetchCtx := context.WithoutCancel(ctx)
	return func() tea.Msg {
		return refreshedMsg(w.Refresh(fetchCtx))
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Widget == nil {
		return errors.New("ui requires a status widget")
	}
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
