package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"bookscout/internal/browse"
	"bookscout/internal/catalog"
	"bookscout/internal/clip"
	"bookscout/internal/core"
	"bookscout/internal/logging"
	"bookscout/internal/notify"
)

// Options wires a Model.
type Options struct {
	Controller *browse.Controller
	Center     *notify.Center
	Watch      catalog.Watchable // optional, re-syncs on catalog file changes
	Logger     *logging.Logger
	ToastTTL   time.Duration
	ShowStats  bool
}

// toast is a notification plus its on-screen deadline.
type toast struct {
	n       notify.Notification
	expires time.Time
}

// Model is the book browser.
type Model struct {
	ctrl   *browse.Controller
	center *notify.Center
	logger *logging.Logger

	changes <-chan struct{}
	toastCh <-chan notify.Notification
	watchCh <-chan struct{}

	state browse.State

	search   textinput.Model
	spin     spinner.Model
	panel    viewport.Model
	renderer *glamour.TermRenderer
	stats    *statsWidget

	cursor        int
	width, height int
	ready         bool
	searchFocused bool

	toasts   []toast
	toastTTL time.Duration
}

// New builds the model around an already-wired controller.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	search := textinput.New()
	search.Placeholder = "Search by name, language or genre"
	search.Prompt = iconSearch + " "
	search.CharLimit = 128

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	ttl := opts.ToastTTL
	if ttl <= 0 {
		ttl = notify.DefaultTTL
	}

	// Collapse change callbacks into a capacity-1 signal channel so a
	// burst of updates never blocks the controller.
	changes := make(chan struct{}, 1)
	opts.Controller.OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	var watchCh <-chan struct{}
	if opts.Watch != nil {
		watchCh = opts.Watch.Changes()
	}

	stats := newStatsWidget()
	stats.visible = opts.ShowStats

	return Model{
		ctrl:     opts.Controller,
		center:   opts.Center,
		logger:   logger,
		changes:  changes,
		toastCh:  opts.Center.Subscribe(),
		watchCh:  watchCh,
		search:   search,
		spin:     spin,
		stats:    stats,
		toastTTL: ttl,
	}
}

// Init kicks off the initial catalog load and the session handshake.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		listenForChange(m.changes),
		listenForToast(m.toastCh),
		statsTick(),
		func() tea.Msg {
			m.ctrl.LoadAllBooks(context.Background())
			return nil
		},
		func() tea.Msg {
			m.ctrl.InitSession(context.Background())
			return nil
		},
	}
	if m.watchCh != nil {
		cmds = append(cmds, listenForCatalogChange(m.watchCh))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.Width = max(20, m.width-10)
		m.panel = viewport.New(max(20, m.width-8), max(5, m.height/2))
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(20, m.width-12)),
		); err == nil {
			m.renderer = r
		}
		m.refreshPanel()
		return m, nil

	case stateChangedMsg:
		prevVisible := m.state.Recommendation.Visible
		m.state = m.ctrl.State()
		m.clampCursor()
		if m.state.Recommendation.Visible && !prevVisible {
			m.panel.GotoTop()
		}
		m.refreshPanel()
		return m, listenForChange(m.changes)

	case toastMsg:
		m.toasts = append(m.toasts, toast{n: msg.n, expires: time.Now().Add(m.toastTTL)})
		return m, tea.Batch(listenForToast(m.toastCh), toastTick())

	case toastTickMsg:
		m.pruneToasts(time.Time(msg))
		if len(m.toasts) > 0 {
			return m, toastTick()
		}
		return m, nil

	case catalogChangedMsg:
		// A watched source re-fires the loader, exactly like the
		// initial mount: the reloaded list comes back unfavorited
		// until the next search resyncs the flags.
		cmds := []tea.Cmd{
			func() tea.Msg {
				m.ctrl.LoadAllBooks(context.Background())
				return nil
			},
		}
		if m.watchCh != nil {
			cmds = append(cmds, listenForCatalogChange(m.watchCh))
		}
		return m, tea.Batch(cmds...)

	case statsTickMsg:
		m.stats.sample()
		return m, statsTick()

	case copiedMsg:
		if msg.err != nil {
			m.center.Notify("Clipboard", "Copy failed: "+msg.err.Error(), notify.SeverityError)
		} else {
			m.center.Notify("Clipboard", msg.where, notify.SeveritySuccess)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C quits regardless of focus.
	if msg.String() == "ctrl+c" {
		m.ctrl.Close()
		return m, tea.Quit
	}

	if m.searchFocused {
		return m.handleSearchKey(msg)
	}

	if m.state.Recommendation.Visible {
		if handled, model, cmd := m.handlePanelKey(msg); handled {
			return model, cmd
		}
	}

	switch msg.String() {
	case "q":
		m.ctrl.Close()
		return m, tea.Quit

	case "/":
		m.searchFocused = true
		m.search.Focus()
		return m, textinput.Blink

	case "esc":
		if m.state.Query != "" {
			m.search.SetValue("")
			return m, func() tea.Msg {
				m.ctrl.ClearSearch(context.Background())
				return nil
			}
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visibleBooks())-1 {
			m.cursor++
		}
		return m, nil

	case "f", " ":
		books := m.visibleBooks()
		if m.cursor < len(books) {
			id := books[m.cursor].ID
			return m, func() tea.Msg {
				m.ctrl.ToggleFavorite(context.Background(), id)
				return nil
			}
		}
		return m, nil

	case "s":
		m.stats.toggle()
		return m, nil
	}

	return m, nil
}

// handleSearchKey handles input while the search box is focused.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		// Debounced inside the controller; safe to call per keystroke.
		m.ctrl.OnSearchInput(v)
	}
	return m, cmd
}

// handlePanelKey handles keys scoped to the open recommendation panel.
func (m Model) handlePanelKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CloseRecommendationView()
		return true, m, nil

	case "up", "k", "down", "j", "pgup", "pgdown":
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return true, m, cmd

	case "y":
		text := m.state.Recommendation.Recommendations
		return true, m, func() tea.Msg {
			res, err := clip.Copy(text)
			if err != nil {
				return copiedMsg{err: err}
			}
			return copiedMsg{where: res.Describe()}
		}
	}
	return false, m, nil
}

// visibleBooks narrows the shown list with a local fuzzy match while a
// remote search is still in flight, so typing feels instant.
func (m Model) visibleBooks() []core.Book {
	books := m.state.Books
	if !m.state.Searching || m.state.Query == "" {
		return books
	}
	matches := fuzzy.FindFrom(m.state.Query, bookTitles(books))
	narrowed := make([]core.Book, 0, len(matches))
	for _, match := range matches {
		narrowed = append(narrowed, books[match.Index])
	}
	if len(narrowed) == 0 {
		// Nothing matches locally; keep the stale list rather than
		// flashing an empty screen before the remote answer lands.
		return books
	}
	return narrowed
}

// bookTitles adapts a book slice to fuzzy.Source.
type bookTitles []core.Book

func (b bookTitles) String(i int) string { return b[i].Name }
func (b bookTitles) Len() int            { return len(b) }

func (m *Model) clampCursor() {
	if n := len(m.visibleBooks()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// refreshPanel re-renders the recommendation markdown into the viewport.
func (m *Model) refreshPanel() {
	if !m.state.Recommendation.Visible {
		return
	}
	text := m.state.Recommendation.Recommendations
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			m.panel.SetContent(out)
			return
		}
	}
	m.panel.SetContent(text)
}

func (m *Model) pruneToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// View renders the browser.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")

	if m.state.Recommendation.Visible {
		b.WriteString(m.renderPanel())
	} else {
		b.WriteString(m.renderBooks())
	}

	if ts := m.renderToasts(); ts != "" {
		b.WriteString("\n")
		b.WriteString(ts)
	}

	if sv := m.stats.view(); sv != "" {
		b.WriteString("\n")
		b.WriteString(sv)
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("Bookscout · %d books · %d favorites", len(m.state.Books), m.state.FavoriteCount)
	if m.state.Searching || m.state.Recommending {
		title += " " + m.spin.View()
	}
	if !m.state.SessionReady {
		title += metaStyle.Render("  (recommendations offline)")
	}
	return headerStyle.Render(title)
}

func (m Model) renderSearch() string {
	style := searchBoxStyle
	if m.searchFocused {
		style = searchActiveStyle
	}
	return style.Render(m.search.View())
}

func (m Model) renderBooks() string {
	books := m.visibleBooks()
	if len(books) == 0 {
		if m.state.Query != "" {
			return emptyStyle.Render(fmt.Sprintf("No books match %q", m.state.Query))
		}
		return emptyStyle.Render("No books loaded")
	}

	// Leave room for header, search box, footer and a toast line.
	visible := max(3, m.height-10)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(books), start+visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		book := books[i]

		icon := metaStyle.Render(iconPlain)
		if book.IsFavorite {
			icon = favoriteStyle.Render(iconFavorite)
		}

		line := fmt.Sprintf("%s %s %s %s",
			icon,
			book.Name,
			priceStyle.Render(book.PriceFormatted),
			metaStyle.Render(fmt.Sprintf("· %s · %s", book.Genre, book.Language)),
		)

		style := bookStyle
		if i == m.cursor {
			style = selectedBookStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPanel() string {
	title := panelTitleStyle.Render("Because you liked " + m.state.Recommendation.SelectedBookName)
	body := m.panel.View()
	if m.state.Recommending {
		body = m.spin.View() + " Fetching recommendations..."
	}
	hint := metaStyle.Render("y copy · j/k scroll · esc close")
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := toastInfoStyle
		switch t.n.Severity {
		case notify.SeveritySuccess:
			style = toastSuccessStyle
		case notify.SeverityWarning:
			style = toastWarningStyle
		case notify.SeverityError:
			style = toastErrorStyle
		}
		lines = append(lines, style.Render(t.n.Title+": "+t.n.Message))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	keys := "/ search · j/k move · f favorite · esc clear · s stats · q quit"
	if m.state.Recommendation.Visible {
		keys = "y copy · j/k scroll · esc close · q quit"
	}
	return footerStyle.Render(keys)
}
