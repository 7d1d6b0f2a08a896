// Package browse implements the view-model for the book browser: it
// owns all mutable UI state, orchestrates the catalog, session and
// agent services, and emits user notifications. The TUI renders
// snapshots of this state and translates input into the named
// operations below; nothing mutates the state from outside them.
package browse

import (
	"context"
	"sync"
	"time"

	"bookscout/internal/agent"
	"bookscout/internal/core"
	"bookscout/internal/debounce"
	"bookscout/internal/logging"
	"bookscout/internal/notify"
)

// SearchDebounce is the quiet window after the last keystroke before a
// remote search fires.
const SearchDebounce = 300 * time.Millisecond

// NoRecommendations is shown when the agent answers with empty text.
const NoRecommendations = "No recommendations available at the moment."

// Fixed user-facing messages for the recoverable failure kinds.
const (
	msgLoadFailed      = "Failed to load books"
	msgSearchFailed    = "Failed to search books"
	msgSessionFailed   = "Failed to initialize recommendation service"
	msgNoSession       = "Recommendation service not initialized"
	msgRecommendFailed = "Failed to get book recommendations"
)

// CatalogService is the catalog collaborator (fetch all, search).
type CatalogService interface {
	FetchAll(ctx context.Context) ([]core.Record, error)
	Search(ctx context.Context, term string) ([]core.Record, error)
}

// SessionService issues the credential bundle for the agent.
type SessionService interface {
	Init(ctx context.Context) (core.SessionInfo, error)
}

// AgentService invokes the conversational agent. key identifies the
// subject (the book id) so implementations can collapse duplicate
// in-flight requests.
type AgentService interface {
	Invoke(ctx context.Context, key string, info core.SessionInfo, message string) (string, error)
}

// State is an immutable snapshot of the controller state, safe to
// render from any goroutine.
type State struct {
	Books          []core.Book
	Query          string
	Searching      bool
	Recommending   bool
	Recommendation core.RecommendationView
	SessionReady   bool
	FavoriteCount  int
}

// Options wires a Controller.
type Options struct {
	Catalog  CatalogService
	Sessions SessionService
	Agent    AgentService
	Notifier notify.Notifier
	Logger   *logging.Logger

	// Debouncer overrides the default 300ms search debouncer,
	// mainly for tests that simulate time.
	Debouncer *debounce.Debouncer
}

// Controller owns the component-lifetime state. All operations are
// safe for concurrent use; asynchronous completions are discarded when
// they are stale (superseded by a newer request of the same kind) or
// arrive after Close.
type Controller struct {
	catalog   CatalogService
	sessions  SessionService
	agent     AgentService
	notifier  notify.Notifier
	logger    *logging.Logger
	debouncer *debounce.Debouncer

	mu        sync.Mutex
	books     []core.Book
	favorites *core.FavoriteSet
	session   *core.SessionInfo
	query     string

	searching    bool
	recommending bool
	rec          core.RecommendationView

	searchSeq uint64 // latest issued search token
	recSeq    uint64 // latest issued recommendation token
	closed    bool

	onChange func()
}

// NewController creates a controller. All state starts empty; call
// InitSession and LoadAllBooks at mount.
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	deb := opts.Debouncer
	if deb == nil {
		deb = debounce.New(SearchDebounce)
	}
	return &Controller{
		catalog:   opts.Catalog,
		sessions:  opts.Sessions,
		agent:     opts.Agent,
		notifier:  opts.Notifier,
		logger:    logger,
		debouncer: deb,
		favorites: core.NewFavoriteSet(),
	}
}

// OnChange registers a callback fired after every state mutation. The
// callback runs outside the controller lock and must not block.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	books := make([]core.Book, len(c.books))
	copy(books, c.books)
	return State{
		Books:          books,
		Query:          c.query,
		Searching:      c.searching,
		Recommending:   c.recommending,
		Recommendation: c.rec,
		SessionReady:   c.session != nil,
		FavoriteCount:  c.favorites.Len(),
	}
}

// LoadAllBooks populates the book list from the catalog without a
// search term. It runs at mount and again when a watchable catalog
// source signals a change. Loader results always start unfavorited,
// even for ids already in the favorite set; a later search resyncs
// the flags.
func (c *Controller) LoadAllBooks(ctx context.Context) {
	if c.isClosed() {
		return
	}

	recs, err := c.catalog.FetchAll(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("catalog load failed", "error", err)
		c.notify("Books", msgLoadFailed, notify.SeverityError)
		return
	}
	c.books = core.MapRecords(recs, nil)
	c.mu.Unlock()

	c.logger.Info("catalog loaded", "books", len(recs))
	c.changed()
}

// OnSearchInput records the current search text and schedules a
// debounced search. Rapid input within the quiet window supersedes
// earlier schedules; only the last keystroke's search fires.
func (c *Controller) OnSearchInput(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = text
	c.mu.Unlock()

	c.changed()
	c.debouncer.Schedule(func() {
		c.PerformSearch(context.Background())
	})
}

// PerformSearch runs a remote search with the current query. The
// previous list is kept on failure. A completion superseded by a newer
// search is discarded, so a slow stale response never overwrites
// fresher results.
func (c *Controller) PerformSearch(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.searchSeq++
	seq := c.searchSeq
	term := c.query
	c.searching = true
	c.mu.Unlock()
	c.changed()

	recs, err := c.catalog.Search(ctx, term)

	c.mu.Lock()
	if c.closed || seq != c.searchSeq {
		c.mu.Unlock()
		return
	}
	c.searching = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("search failed", "term", term, "error", err)
		c.notify("Books", msgSearchFailed, notify.SeverityError)
		c.changed()
		return
	}
	c.books = core.MapRecords(recs, c.favorites)
	c.mu.Unlock()

	c.logger.Info("search completed", "term", term, "results", len(recs))
	c.changed()
}

// ClearSearch resets the query and immediately refreshes the full
// list: the empty term still produces a search call, which the
// backend answers with the unfiltered catalog.
func (c *Controller) ClearSearch(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = ""
	c.mu.Unlock()

	c.debouncer.Cancel()
	c.changed()
	c.PerformSearch(ctx)
}

// ToggleFavorite flips the favorite flag of the book with the given
// id. An unknown id is silently ignored. The favorite state commits
// immediately; favoriting then requests recommendations, and that
// call's outcome never rolls the flag back.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	book, ok := core.FindBook(c.books, id)
	if !ok {
		c.mu.Unlock()
		return
	}
	favored := !book.IsFavorite
	c.books = core.SetFavorite(c.books, id, favored)
	if favored {
		c.favorites.Add(id)
	} else {
		c.favorites.Remove(id)
	}
	c.mu.Unlock()
	c.changed()

	if favored {
		c.notify("Favorites", book.Name+" added to favorites", notify.SeveritySuccess)
		c.GetRecommendations(ctx, book)
	} else {
		c.notify("Favorites", book.Name+" removed from favorites", notify.SeveritySuccess)
	}
}

// InitSession obtains the agent credentials. It runs once at mount;
// on failure the recommendation feature stays disabled for the rest
// of the component lifetime.
func (c *Controller) InitSession(ctx context.Context) {
	if c.isClosed() {
		return
	}

	info, err := c.sessions.Init(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Warn("session init failed", "error", err)
		c.notify("Session", msgSessionFailed, notify.SeverityWarning)
		return
	}
	c.session = &info
	c.mu.Unlock()

	c.logger.Info("recommendation session established", "session_id", info.SessionID)
	c.changed()
}

// GetRecommendations asks the agent about the given book and opens
// the recommendation view with its answer. Requires a session. A
// completion superseded by a newer request is discarded.
func (c *Controller) GetRecommendations(ctx context.Context, book core.Book) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.session == nil {
		c.mu.Unlock()
		c.logger.Warn("recommendations requested without session", "book", book.Name)
		c.notify("Recommendations", msgNoSession, notify.SeverityError)
		return
	}
	info := *c.session
	c.recSeq++
	seq := c.recSeq
	c.recommending = true
	// Opening a new view replaces any prior one; the selection is
	// recorded before the agent answers.
	c.rec = core.RecommendationView{SelectedBookName: book.Name}
	c.mu.Unlock()
	c.changed()

	prompt := agent.RecommendationPrompt(book)
	text, err := c.agent.Invoke(ctx, book.ID, info, prompt)

	c.mu.Lock()
	if c.closed || seq != c.recSeq {
		c.mu.Unlock()
		return
	}
	c.recommending = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("agent invocation failed", "book", book.Name, "error", err)
		c.notify("Recommendations", msgRecommendFailed, notify.SeverityError)
		c.changed()
		return
	}
	if text == "" {
		text = NoRecommendations
	}
	c.rec.Recommendations = text
	c.rec.Visible = true
	c.mu.Unlock()

	c.logger.Info("recommendations received", "book", book.Name, "chars", len(text))
	c.changed()
}

// CloseRecommendationView fully resets the recommendation view: text,
// selection and visibility. No history is retained.
func (c *Controller) CloseRecommendationView() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rec = core.RecommendationView{}
	c.mu.Unlock()
	c.changed()
}

// Close tears the controller down. In-flight completions resolving
// after Close are discarded rather than applied to dead state.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.debouncer.Cancel()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) notify(title, message string, severity notify.Severity) {
	if c.notifier != nil {
		c.notifier.Notify(title, message, severity)
	}
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
