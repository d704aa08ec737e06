package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/books"
	"github.com/five82/folio/internal/logger"
	"github.com/five82/folio/internal/metrics"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/router"
	"github.com/five82/folio/internal/search"
)

// focus identifies which list-view widget receives keys.
type focus int

const (
	focusInput focus = iota
	focusList
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Searcher     books.Searcher
	Logger       *logger.Logger
	ThemeName    string
	PrefsPath    string
	Debounce     time.Duration
	InitialQuery string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	searcher  books.Searcher
	log       *logger.Logger
	prefsPath string
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	focus    focus
	showHelp bool

	// Components
	input   textinput.Model
	spinner spinner.Model
	detail  viewport.Model

	// Search and navigation
	search       search.State
	router       router.Router
	cursor       int
	cancel       context.CancelFunc
	submitOnInit bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "Search by title, author or ISBN"
	input.Prompt = "/ "
	input.Focus()

	m := Model{
		ctx:       ctx,
		searcher:  opts.Searcher,
		log:       log.WithComponent("ui"),
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		width:     LayoutDefaultWidth,
		height:    LayoutDefaultHeight,
		focus:     focusInput,
		input:     input,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		detail:    viewport.New(LayoutDefaultWidth, LayoutDefaultHeight-headerHeight-commandBarHeight),
		search:    search.New(opts.Debounce),
	}
	m.detail.KeyMap.PageDown = m.keys.PageDown
	m.detail.KeyMap.PageUp = m.keys.PageUp
	m.detail.KeyMap.HalfPageDown = m.keys.HalfPageDown
	m.detail.KeyMap.HalfPageUp = m.keys.HalfPageUp
	m.detail.KeyMap.Down = m.keys.Down
	m.detail.KeyMap.Up = m.keys.Up
	m.applyTheme(GetTheme(themeName))

	if q := strings.TrimSpace(opts.InitialQuery); q != "" {
		m.input.SetValue(q)
		// Submit in Init supersedes the debounce window opened here.
		m.search, _ = m.search.SetQuery(q)
		m.submitOnInit = true
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.submitOnInit {
		cmds = append(cmds, func() tea.Msg { return search.SubmitMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.search.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case search.DebounceMsg:
		if msg.Generation != m.search.Generation() {
			metrics.DebouncedEditsTotal.Inc()
		}
		return m.dispatch(msg)

	case search.SubmitMsg:
		return m.dispatch(msg)

	case search.ResolvedMsg:
		return m.handleResolved(msg)
	}

	// Cursor blink and other component messages belong to the input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	if m.router.View() == router.ViewDetail {
		b.WriteString(m.detail.View())
	} else {
		b.WriteString(m.renderSearchInput())
		b.WriteString("\n")
		b.WriteString(m.renderResults())
	}
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// dispatch feeds msg to the search reducer and runs the resulting effect.
func (m Model) dispatch(msg any) (Model, tea.Cmd) {
	var eff search.Effect
	wasLoading := m.search.Loading()
	m.search, eff = search.Update(m.search, msg)
	cmd := m.perform(eff)
	// One tick chain per loading run; the TickMsg handler keeps it going.
	if m.search.Loading() && !wasLoading {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// perform turns a reducer effect into a command.
func (m *Model) perform(eff search.Effect) tea.Cmd {
	switch eff := eff.(type) {
	case search.ScheduleDebounce:
		return debounceCmd(eff)
	case search.StartSearch:
		m.stopInFlight()
		ctx, cancel := context.WithCancel(m.ctx)
		m.cancel = cancel
		return searchCmd(ctx, m.searcher, m.log, eff)
	case search.CancelSearch:
		m.log.Debug().Uint64("request", eff.Request).Msg("search cancelled")
		m.stopInFlight()
	}
	return nil
}

func (m Model) handleResolved(msg search.ResolvedMsg) (tea.Model, tea.Cmd) {
	if !m.search.IsCurrent(msg.Request) {
		metrics.StaleResponsesTotal.Inc()
		m.log.Debug().
			Uint64("request", msg.Request).
			Str("query", msg.Query).
			Msg("dropped stale search response")
		return m, nil
	}

	m.stopInFlight()
	m.search = m.search.Resolve(msg.Request, msg.Books, msg.Err)

	switch m.search.Status {
	case search.StatusFailed:
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		m.log.Warn().Err(msg.Err).Str("query", msg.Query).Msg("search failed")
	case search.StatusEmpty:
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		m.log.Info().Str("query", msg.Query).Msg("search returned no books")
	default:
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		m.log.Info().Str("query", msg.Query).Int("count", len(m.search.Results)).Msg("search succeeded")
	}

	m.cursor = 0
	m.syncSelection()
	if len(m.search.Results) == 0 && m.focus == focusList {
		return m, m.focusInput()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.stopInFlight()
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.CycleTheme) {
		m.cycleTheme()
		return m, nil
	}

	if m.router.View() == router.ViewDetail {
		return m.handleDetailKey(msg)
	}
	if m.focus == focusList {
		return m.handleListKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.dispatch(search.SubmitMsg{})
	case key.Matches(msg, m.keys.FocusList):
		if len(m.search.Results) > 0 {
			m.focusList()
		}
		return m, nil
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if m.input.Value() == m.search.Query {
		return m, inputCmd
	}

	next, effCmd := m.dispatch(search.QueryChangedMsg{Text: m.input.Value()})
	return next, tea.Batch(inputCmd, effCmd)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.search.Results)

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.FocusInput):
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Open):
		if m.cursor < n {
			m.openDetail(m.search.Results[m.cursor])
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor == 0 {
			return m, m.focusInput()
		}
		m.cursor--
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		if n > 0 {
			m.cursor = n - 1
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.router = m.router.Clear()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) openDetail(b books.Book) {
	m.router = m.router.Select(b)
	m.detail.SetContent(m.renderDetailContent(b))
	m.detail.GotoTop()
}

// syncSelection leaves the detail view when its book is no longer part of
// the current results.
func (m *Model) syncSelection() {
	selected, ok := m.router.Selection()
	if !ok {
		return
	}
	for _, b := range m.search.Results {
		if b.ID == selected.ID {
			return
		}
	}
	m.router = m.router.Clear()
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *Model) focusList() {
	m.focus = focusList
	m.input.Blur()
	if m.cursor >= len(m.search.Results) {
		m.cursor = 0
	}
}

func (m *Model) cycleTheme() {
	m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
		}
	}
	if b, ok := m.router.Selection(); ok {
		m.detail.SetContent(m.renderDetailContent(b))
	}
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	m.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
}

func (m *Model) resize() {
	m.input.Width = max(10, m.width-8)
	m.detail.Width = m.width
	m.detail.Height = max(1, m.height-headerHeight-commandBarHeight)
	if b, ok := m.router.Selection(); ok {
		m.detail.SetContent(m.renderDetailContent(b))
	}
}

// contentHeight is the number of lines available to the result list.
func (m Model) contentHeight() int {
	return max(1, m.height-headerHeight-inputHeight-commandBarHeight)
}

func (m *Model) stopInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
