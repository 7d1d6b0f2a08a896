package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bookscout/internal/browse"
	"bookscout/internal/core"
	"bookscout/internal/notify"
)

type stubCatalog struct {
	mu          sync.Mutex
	records     []core.Record
	fetchCalls  int
	searchCalls int
}

func (s *stubCatalog) FetchAll(context.Context) ([]core.Record, error) {
	s.mu.Lock()
	s.fetchCalls++
	s.mu.Unlock()
	return s.records, nil
}

func (s *stubCatalog) Search(_ context.Context, term string) ([]core.Record, error) {
	s.mu.Lock()
	s.searchCalls++
	s.mu.Unlock()
	if term == "" {
		return s.records, nil
	}
	var out []core.Record
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(term)) {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubSessions struct{}

func (stubSessions) Init(context.Context) (core.SessionInfo, error) {
	return core.SessionInfo{AccessToken: "tok", SessionID: "sess"}, nil
}

type stubAgent struct{}

func (stubAgent) Invoke(context.Context, string, core.SessionInfo, string) (string, error) {
	return "Try Foundation", nil
}

func price(v float64) *float64 { return &v }

func newTestModel(t *testing.T) (Model, *browse.Controller) {
	t.Helper()
	center := notify.NewCenter(notify.DefaultTTL)
	ctrl := browse.NewController(browse.Options{
		Catalog: &stubCatalog{records: []core.Record{
			{ID: "1", Name: "Dune", Price: price(12), Language: "English", Genre: "Sci-Fi"},
			{ID: "2", Name: "Solaris", Price: price(9.5), Language: "Polish", Genre: "Sci-Fi"},
			{ID: "3", Name: "Baudolino", Price: price(14), Language: "Italian", Genre: "Historical"},
		}},
		Sessions: stubSessions{},
		Agent:    stubAgent{},
		Notifier: center,
	})
	t.Cleanup(ctrl.Close)

	m := New(Options{Controller: ctrl, Center: center})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), ctrl
}

// pull copies the controller's current state into the model.
func pull(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(stateChangedMsg{})
	return updated.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestView_BeforeFirstWindowSize(t *testing.T) {
	center := notify.NewCenter(notify.DefaultTTL)
	ctrl := browse.NewController(browse.Options{
		Catalog:  &stubCatalog{},
		Sessions: stubSessions{},
		Agent:    stubAgent{},
		Notifier: center,
	})
	t.Cleanup(ctrl.Close)

	m := New(Options{Controller: ctrl, Center: center})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q before sizing", got)
	}
}

func TestView_ShowsLoadedBooks(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	m = pull(t, m)

	view := m.View()
	for _, want := range []string{"Dune", "Solaris", "$12.00", "3 books"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestKeys_CursorStaysInBounds(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	m = pull(t, m)

	updated, _ := m.Update(key("k"))
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k at top, want 0", m.cursor)
	}

	for i := 0; i < 10; i++ {
		updated, _ = m.Update(key("j"))
		m = updated.(Model)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d after overshooting down, want 2", m.cursor)
	}
}

func TestKeys_SlashFocusesSearchAndTypingReachesController(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	m = pull(t, m)

	updated, _ := m.Update(key("/"))
	m = updated.(Model)
	if !m.searchFocused {
		t.Fatal("search should be focused after /")
	}

	for _, r := range "dune" {
		updated, _ = m.Update(key(string(r)))
		m = updated.(Model)
	}
	if got := m.search.Value(); got != "dune" {
		t.Errorf("search value = %q, want dune", got)
	}
	if got := ctrl.State().Query; got != "dune" {
		t.Errorf("controller query = %q, want dune", got)
	}

	updated, _ = m.Update(key("esc"))
	m = updated.(Model)
	if m.searchFocused {
		t.Error("esc should blur search")
	}
}

func TestKeys_ToggleFavorite(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	ctrl.InitSession(context.Background())
	m = pull(t, m)

	updated, cmd := m.Update(key("f"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("f should return a command")
	}
	cmd() // runs ToggleFavorite synchronously against stubs
	m = pull(t, m)

	if m.state.FavoriteCount != 1 {
		t.Errorf("FavoriteCount = %d, want 1", m.state.FavoriteCount)
	}

	// Favoriting opens the recommendation panel; the starred list is
	// visible again after closing it.
	ctrl.CloseRecommendationView()
	m = pull(t, m)
	if !strings.Contains(m.View(), iconFavorite) {
		t.Error("view should mark the favorited book")
	}
}

func TestPanel_OpensAndCloses(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	ctrl.InitSession(context.Background())
	ctrl.GetRecommendations(context.Background(), ctrl.State().Books[0])
	m = pull(t, m)

	if !m.state.Recommendation.Visible {
		t.Fatal("recommendation panel should be visible")
	}
	view := m.View()
	if !strings.Contains(view, "Dune") || !strings.Contains(view, "Try Foundation") {
		t.Errorf("panel should show book name and recommendation:\n%s", view)
	}

	updated, _ := m.Update(key("esc"))
	m = updated.(Model)
	m = pull(t, m)
	if m.state.Recommendation.Visible {
		t.Error("esc should close the panel")
	}
}

func TestToasts_AppearAndExpire(t *testing.T) {
	m, _ := newTestModel(t)

	n := notify.Notification{Title: "Books", Message: "Failed to load books", Severity: notify.SeverityError}
	updated, _ := m.Update(toastMsg{n: n})
	m = updated.(Model)

	if !strings.Contains(m.View(), "Failed to load books") {
		t.Error("toast should be rendered")
	}

	updated, _ = m.Update(toastTickMsg(time.Now().Add(m.toastTTL + time.Second)))
	m = updated.(Model)
	if strings.Contains(m.View(), "Failed to load books") {
		t.Error("expired toast should be pruned")
	}
}

func TestVisibleBooks_FuzzyNarrowsWhileSearchPending(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	m = pull(t, m)

	m.state.Query = "sol"
	m.state.Searching = true

	books := m.visibleBooks()
	if len(books) != 1 || books[0].Name != "Solaris" {
		t.Errorf("visibleBooks = %v, want just Solaris", books)
	}
}

func TestVisibleBooks_KeepsListWhenNothingMatchesLocally(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.LoadAllBooks(context.Background())
	m = pull(t, m)

	m.state.Query = "zzzz"
	m.state.Searching = true

	if got := len(m.visibleBooks()); got != 3 {
		t.Errorf("visibleBooks len = %d, want full list kept", got)
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h05m"},
	}
	for _, tc := range tests {
		if got := formatUptime(tc.d); got != tc.want {
			t.Errorf("formatUptime(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

type stubWatch struct {
	ch chan struct{}
}

func (w *stubWatch) Changes() <-chan struct{} { return w.ch }
func (w *stubWatch) Close() error             { return nil }

// runCmds executes a command tree synchronously, flattening batches.
func runCmds(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			runCmds(c)
		}
	}
}

func TestCatalogChange_RefiresLoaderAndDropsFavoriteFlags(t *testing.T) {
	cat := &stubCatalog{records: []core.Record{
		{ID: "1", Name: "Dune", Price: price(12), Language: "English", Genre: "Sci-Fi"},
	}}
	center := notify.NewCenter(notify.DefaultTTL)
	ctrl := browse.NewController(browse.Options{
		Catalog:  cat,
		Sessions: stubSessions{},
		Agent:    stubAgent{},
		Notifier: center,
	})
	t.Cleanup(ctrl.Close)

	// A closed channel makes the re-listen command return immediately.
	watch := &stubWatch{ch: make(chan struct{})}
	close(watch.ch)

	m := New(Options{Controller: ctrl, Center: center, Watch: watch})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	ctrl.LoadAllBooks(context.Background())
	ctrl.InitSession(context.Background())
	ctrl.ToggleFavorite(context.Background(), "1")
	m = pull(t, m)
	if !m.state.Books[0].IsFavorite {
		t.Fatal("book should be favorited before the file change")
	}

	cat.mu.Lock()
	fetchBefore, searchBefore := cat.fetchCalls, cat.searchCalls
	cat.mu.Unlock()

	updated, cmd := m.Update(catalogChangedMsg{})
	m = updated.(Model)
	runCmds(cmd)
	m = pull(t, m)

	cat.mu.Lock()
	fetchDelta := cat.fetchCalls - fetchBefore
	searchDelta := cat.searchCalls - searchBefore
	cat.mu.Unlock()

	if fetchDelta != 1 {
		t.Errorf("FetchAll delta = %d, want 1 (file change must re-fire the loader)", fetchDelta)
	}
	if searchDelta != 0 {
		t.Errorf("Search delta = %d, want 0", searchDelta)
	}
	// The loader always maps books unfavorited, even for ids in the
	// favorite set; only a later search resyncs the flags.
	if m.state.Books[0].IsFavorite {
		t.Error("reloaded book should come back unfavorited")
	}
	if m.state.FavoriteCount != 1 {
		t.Errorf("FavoriteCount = %d, want 1 (the set itself is untouched)", m.state.FavoriteCount)
	}
}
