package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/folio/internal/books"
	"github.com/five82/folio/internal/logger"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/router"
	"github.com/five82/folio/internal/search"
)

type fakeSearcher struct {
	mu         sync.Mutex
	results    map[string][]books.Book
	err        error
	queries    []string
	requestIDs []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]books.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.requestIDs = append(f.requestIDs, logger.RequestID(ctx))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func duneBooks() []books.Book {
	return []books.Book{
		{ID: "1", Title: "Dune", Authors: []string{"Frank Herbert"}},
		{ID: "2"},
	}
}

func newTestModel(t *testing.T, s books.Searcher) Model {
	t.Helper()
	m := New(Options{
		Searcher:  s,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := updateCmd(t, m, msg)
	return next
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = update(t, m, keyRunes(string(r)))
	}
	return m
}

// runSearch executes the command produced by a StartSearch effect and
// returns the ResolvedMsg it yields.
func runSearch(t *testing.T, cmd tea.Cmd) search.ResolvedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a search command, got nil")
	}
	msg := cmd()
	if res, ok := msg.(search.ResolvedMsg); ok {
		return res
	}
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("command produced %T, want BatchMsg or ResolvedMsg", msg)
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(search.ResolvedMsg); ok {
			return res
		}
	}
	t.Fatalf("batch did not contain a search command")
	return search.ResolvedMsg{}
}

// searchFor types query, submits it and applies the response.
func searchFor(t *testing.T, m Model, query string) Model {
	t.Helper()
	m = typeText(t, m, query)
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return update(t, m, runSearch(t, cmd))
}

func TestView_NotReadyUntilSized(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before size = %q, want Loading...", got)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(m.View(), idleHint) {
		t.Fatalf("idle view should show the hint, got:\n%s", m.View())
	}
}

func TestTyping_DebouncesThenSearches(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := newTestModel(t, fake)

	m = typeText(t, m, "dune")
	if m.search.Query != "dune" {
		t.Fatalf("Query = %q, want dune", m.search.Query)
	}
	if m.search.Status != search.StatusIdle {
		t.Fatalf("Status = %v before the window closes, want idle", m.search.Status)
	}

	// A window opened by an earlier keystroke closes: nothing happens.
	m, cmd := updateCmd(t, m, search.DebounceMsg{Generation: 1})
	if cmd != nil || m.search.Loading() {
		t.Fatalf("stale debounce started a search")
	}

	m, cmd = updateCmd(t, m, search.DebounceMsg{Generation: m.search.Generation()})
	if !m.search.Loading() {
		t.Fatalf("Status = %v, want loading", m.search.Status)
	}
	if !strings.Contains(m.View(), "Searching...") {
		t.Fatalf("loading view should show the spinner line")
	}

	m = update(t, m, runSearch(t, cmd))
	if len(fake.queries) != 1 || fake.queries[0] != "dune" {
		t.Fatalf("queries = %v, want [dune]", fake.queries)
	}
	if fake.requestIDs[0] == "" {
		t.Fatalf("search context carried no request id")
	}
	if m.search.Status != search.StatusSuccess {
		t.Fatalf("Status = %v, want success", m.search.Status)
	}

	view := m.View()
	for _, want := range []string{"Dune", "Frank Herbert", books.FallbackTitle, books.FallbackAuthors, "2 results"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEnter_SubmitsImmediately(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := newTestModel(t, fake)
	m = typeText(t, m, "dune")

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.search.Loading() {
		t.Fatalf("Enter did not start a search")
	}
	m = update(t, m, runSearch(t, cmd))
	if len(m.search.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(m.search.Results))
	}

	// The debounce window opened by the last keystroke is now stale.
	_, cmd = updateCmd(t, m, search.DebounceMsg{Generation: m.search.Generation() - 1})
	if cmd != nil {
		t.Fatalf("pending debounce searched again after submit")
	}
}

func countSpinnerTicks(cmd tea.Cmd) int {
	if cmd == nil {
		return 0
	}
	switch msg := cmd().(type) {
	case spinner.TickMsg:
		return 1
	case tea.BatchMsg:
		n := 0
		for _, c := range msg {
			n += countSpinnerTicks(c)
		}
		return n
	}
	return 0
}

func TestSpinner_OneTickChainPerLoadingRun(t *testing.T) {
	m := newTestModel(t, &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}})

	m = typeText(t, m, "dune")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := countSpinnerTicks(cmd); got != 1 {
		t.Fatalf("first search started %d spinner ticks, want 1", got)
	}

	m = typeText(t, m, "!")
	m, cmd = updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.search.Loading() {
		t.Fatalf("Status = %v, want loading", m.search.Status)
	}
	if got := countSpinnerTicks(cmd); got != 0 {
		t.Fatalf("search while loading started %d spinner ticks, want 0", got)
	}
}

func TestSearch_FailureAndEmptyMessages(t *testing.T) {
	failing := newTestModel(t, &fakeSearcher{err: errors.New("status 503")})
	failing = searchFor(t, failing, "dune")
	if failing.search.Status != search.StatusFailed {
		t.Fatalf("Status = %v, want failed", failing.search.Status)
	}
	if !strings.Contains(failing.View(), search.MessageNetworkFailure) {
		t.Fatalf("failure view missing network message:\n%s", failing.View())
	}

	empty := newTestModel(t, &fakeSearcher{})
	empty = searchFor(t, empty, "zzzz")
	if empty.search.Status != search.StatusEmpty {
		t.Fatalf("Status = %v, want empty", empty.search.Status)
	}
	if !strings.Contains(empty.View(), search.MessageNoResults) {
		t.Fatalf("empty view missing no-results message:\n%s", empty.View())
	}
}

func TestSearch_SupersededResponseIsDropped(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := newTestModel(t, fake)

	m = typeText(t, m, "dun")
	m, first := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(t, m, "e")
	m, second := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	newer := runSearch(t, second)
	older := runSearch(t, first)
	if !errors.Is(older.Err, context.Canceled) {
		t.Fatalf("older request err = %v, want context.Canceled", older.Err)
	}

	m = update(t, m, newer)
	m = update(t, m, older)
	if m.search.Status != search.StatusSuccess {
		t.Fatalf("Status = %v, want success from the newer search", m.search.Status)
	}
	if len(m.search.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(m.search.Results))
	}
}

func TestBlankQuery_ClearsResults(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := searchFor(t, newTestModel(t, fake), "dune")

	for range "dune" {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	if m.search.Query != "" {
		t.Fatalf("Query = %q, want empty", m.search.Query)
	}
	m, cmd := updateCmd(t, m, search.DebounceMsg{Generation: m.search.Generation()})
	if cmd != nil {
		t.Fatalf("blank query produced a command")
	}
	if m.search.Status != search.StatusIdle || len(m.search.Results) != 0 {
		t.Fatalf("state = %v with %d results, want idle and empty", m.search.Status, len(m.search.Results))
	}
	if len(fake.queries) != 1 {
		t.Fatalf("queries = %v, want only the first search", fake.queries)
	}
}

func TestList_NavigateAndOpenDetail(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := searchFor(t, newTestModel(t, fake), "dune")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.focus != focusList {
		t.Fatalf("down did not move focus to the list")
	}

	m = update(t, m, keyRunes("G"))
	if m.cursor != 1 {
		t.Fatalf("cursor after G = %d, want 1", m.cursor)
	}
	m = update(t, m, keyRunes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor moved past the end: %d", m.cursor)
	}
	m = update(t, m, keyRunes("g"))
	if m.cursor != 0 {
		t.Fatalf("cursor after g = %d, want 0", m.cursor)
	}
	m = update(t, m, keyRunes("j"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.router.View() != router.ViewDetail {
		t.Fatalf("enter did not open the detail view")
	}
	selected, _ := m.router.Selection()
	if selected.ID != "2" {
		t.Fatalf("selected %q, want 2", selected.ID)
	}

	view := m.View()
	for _, want := range []string{
		books.FallbackTitle,
		"Published:", books.FallbackPublishedDate,
		"Publisher:", books.FallbackPublisher,
		"Synopsis:", books.FallbackDescription,
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("detail view missing %q:\n%s", want, view)
		}
	}
	if len(fake.queries) != 1 {
		t.Fatalf("opening details must not search, queries = %v", fake.queries)
	}
}

func TestDetail_BackKeysReturnToList(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	base := searchFor(t, newTestModel(t, fake), "dune")
	base = update(t, base, tea.KeyMsg{Type: tea.KeyTab})
	base = update(t, base, tea.KeyMsg{Type: tea.KeyEnter})

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyBackspace},
		keyRunes("b"),
	} {
		m := update(t, base, msg)
		if m.router.View() != router.ViewList {
			t.Fatalf("%q did not return to the list", msg.String())
		}
		if len(m.search.Results) != 2 {
			t.Fatalf("results changed on back")
		}
	}
}

func TestList_UpAtTopAndSlashFocusInput(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := searchFor(t, newTestModel(t, fake), "dune")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, keyRunes("k"))
	if m.focus != focusInput {
		t.Fatalf("k at the top should return focus to the input")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, keyRunes("/"))
	if m.focus != focusInput {
		t.Fatalf("/ should return focus to the input")
	}
	if m.search.Query != "dune" {
		t.Fatalf("/ must not edit the query, got %q", m.search.Query)
	}
}

func TestFocusList_RequiresResults(t *testing.T) {
	m := newTestModel(t, &fakeSearcher{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.focus != focusInput {
		t.Fatalf("focus moved to an empty list")
	}
}

func TestHelp_OnlyFromListAndClosesOnAnyKey(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := newTestModel(t, fake)

	m = typeText(t, m, "?")
	if m.showHelp {
		t.Fatalf("? in the input should be typed, not open help")
	}
	if m.search.Query != "?" {
		t.Fatalf("Query = %q, want ?", m.search.Query)
	}

	m = searchFor(t, newTestModel(t, fake), "dune")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, keyRunes("?"))
	if !m.showHelp {
		t.Fatalf("? in the list should open help")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}
	m = update(t, m, keyRunes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestCycleTheme_SavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{PrefsPath: path})
	if m.theme.Name != DefaultThemeName {
		t.Fatalf("theme = %q, want %q", m.theme.Name, DefaultThemeName)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	p, err := prefs.Load(path, ThemeNames())
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestCycleTheme_RestoredOnNextStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{PrefsPath: path})
	for range ThemeNames() {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	want := NextTheme(DefaultThemeName)

	p, err := prefs.Load(path, ThemeNames())
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	restarted := New(Options{PrefsPath: path, ThemeName: p.Theme})
	if restarted.theme.Name != want || m.theme.Name != want {
		t.Fatalf("restored theme = %q (live %q), want %q", restarted.theme.Name, m.theme.Name, want)
	}
}

func TestPrefs_UnknownStoredThemeStartsNightfox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := prefs.Save(path, prefs.Prefs{Theme: "Dracula"}); err != nil {
		t.Fatalf("prefs.Save: %v", err)
	}
	p, err := prefs.Load(path, ThemeNames())
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	m := New(Options{PrefsPath: path, ThemeName: p.Theme})
	if m.theme.Name != DefaultThemeName {
		t.Fatalf("theme = %q, want %q", m.theme.Name, DefaultThemeName)
	}
}

func TestQuit_CancelsInFlightSearch(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := newTestModel(t, fake)
	m = typeText(t, m, "dune")
	m, pending := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
	if res := runSearch(t, pending); !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("in-flight search err = %v, want context.Canceled", res.Err)
	}
}

func TestInitialQuery_SubmitsOnInit(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{"dune": duneBooks()}}
	m := New(Options{Searcher: fake, InitialQuery: "  dune ", PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	if m.input.Value() != "dune" {
		t.Fatalf("input = %q, want dune", m.input.Value())
	}

	batch, ok := m.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatalf("Init did not return a batch")
	}
	var submitted bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		if _, ok := c().(search.SubmitMsg); ok {
			submitted = true
		}
	}
	if !submitted {
		t.Fatalf("Init did not submit the initial query")
	}

	m = update(t, m, search.SubmitMsg{})
	if !m.search.Loading() {
		t.Fatalf("submit of initial query did not start a search")
	}
}

func TestResults_ReplacedLeaveStaleDetail(t *testing.T) {
	fake := &fakeSearcher{results: map[string][]books.Book{
		"dune": duneBooks(),
		"emma": {{ID: "3", Title: "Emma"}},
	}}
	m := searchFor(t, newTestModel(t, fake), "dune")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// A search still running when details were opened replaces the results.
	m, cmd := m.dispatch(search.SubmitMsg{})
	res := runSearch(t, cmd)
	res.Books = fake.results["emma"]
	m = update(t, m, res)

	if m.router.View() != router.ViewList {
		t.Fatalf("detail view kept a book that is no longer in the results")
	}
}

func TestSearchCmd_NilSearcher(t *testing.T) {
	msg := searchCmd(context.Background(), nil, logger.Nop(), search.StartSearch{Request: 3, Query: "dune"})()
	res, ok := msg.(search.ResolvedMsg)
	if !ok {
		t.Fatalf("searchCmd returned %T", msg)
	}
	if res.Request != 3 || !errors.Is(res.Err, errNoSearcher) {
		t.Fatalf("res = %+v, want request 3 with errNoSearcher", res)
	}
}

func TestDebounceCmd_DeliversGeneration(t *testing.T) {
	msg := debounceCmd(search.ScheduleDebounce{Generation: 7, After: time.Millisecond})()
	if got, ok := msg.(search.DebounceMsg); !ok || got.Generation != 7 {
		t.Fatalf("debounceCmd = %#v, want DebounceMsg{7}", msg)
	}
}
