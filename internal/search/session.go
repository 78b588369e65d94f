package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/resource"
	"github.com/desertthunder/hymns/internal/shared"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before a search is issued.
	DefaultDebounce = 300 * time.Millisecond

	// RecentLabel is shown above the recent hymns list.
	RecentLabel = "Recent hymns"

	defaultRecentLimit = 50
	loadMoreThreshold  = 4
)

// Display is what the results area should show.
type Display int

const (
	DisplayResults Display = iota
	DisplayLoading
	DisplayEmpty
)

func (d Display) String() string {
	switch d {
	case DisplayResults:
		return "results"
	case DisplayLoading:
		return "loading"
	case DisplayEmpty:
		return "empty"
	default:
		return fmt.Sprintf("display(%d)", int(d))
	}
}

// State is a snapshot of a [Session].
type State struct {
	Active       bool
	Query        string
	Page         int
	HasMorePages bool
	IsLoading    bool
	Display      Display
	Label        string
	Results      []models.UiSongResult
}

// Searcher runs paged searches. Implemented by [repositories.SongResultsRepository].
type Searcher interface {
	Search(ctx context.Context, query string, page int) <-chan resource.Resource[models.UiSongResultsPage]
}

// RecentSource lists recently viewed hymns. Implemented by [store.HistoryStore].
type RecentSource interface {
	RecentSongs(ctx context.Context, limit int) ([]models.RecentSong, error)
}

// Option configures a [Session].
type Option func(*Session)

// WithClock replaces the clock used for debounce timers.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithDebounce sets the quiet period. Non-positive values keep [DefaultDebounce].
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithMaxHymnNumber sets the highest number considered by number lookup.
func WithMaxHymnNumber(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxNumber = n
		}
	}
}

// WithRecentLimit caps the number of recent hymns listed.
func WithRecentLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// OnChange registers a callback invoked on the session goroutine with every new snapshot.
func OnChange(f func(State)) Option {
	return func(s *Session) { s.onChange = f }
}

// Session is the search state machine. Create it with [NewSession] and drive it with [Session.Run].
type Session struct {
	searcher    Searcher
	recents     RecentSource
	clock       Clock
	debounce    time.Duration
	maxNumber   int
	recentLimit int
	logger      *log.Logger
	onChange    func(State)
	onComplete  func(applied bool)

	events chan func()
	done   chan struct{}

	// Owned by the Run goroutine.
	ctx          context.Context
	state        State
	suppressNext bool
	timer        Timer
	generation   uint64
	epoch        uint64

	mu       sync.RWMutex
	snapshot State
}

// NewSession creates an inactive session.
func NewSession(searcher Searcher, recents RecentSource, opts ...Option) *Session {
	s := &Session{
		searcher:    searcher,
		recents:     recents,
		clock:       realClock{},
		debounce:    DefaultDebounce,
		maxNumber:   DefaultMaxHymnNumber,
		recentLimit: defaultRecentLimit,
		events:      make(chan func(), 64),
		done:        make(chan struct{}),
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = shared.NewLogger(nil)
	}
	s.logger = shared.WithLogger(s.logger, "component", "search", "session", shared.GenerateID())
	s.state = State{Page: 1, Display: DisplayResults}
	s.snapshot = s.state
	return s
}

// Run processes events until ctx is done. It must be called exactly once.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	s.ctx = ctx

	for {
		select {
		case <-ctx.Done():
			if s.timer != nil {
				s.timer.Stop()
			}
			return
		case event := <-s.events:
			event()
		}
	}
}

// Done is closed once [Session.Run] has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the latest published snapshot.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot
	snap.Results = slices.Clone(snap.Results)
	return snap
}

// Activate starts a fresh search and lists the recent hymns.
func (s *Session) Activate() {
	s.post(s.activate)
}

// Deactivate ends the search. Results still in flight are dropped when they arrive.
func (s *Session) Deactivate() {
	s.post(s.deactivate)
}

// QueryChanged records new query text and schedules a debounced search.
func (s *Session) QueryChanged(text string) {
	s.post(func() { s.queryChanged(text) })
}

// LoadMore requests the next page when anchor is one of the last displayed results.
func (s *Session) LoadMore(anchor models.UiSongResult) {
	s.post(func() { s.loadMore(anchor) })
}

func (s *Session) post(event func()) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}

func (s *Session) publish() {
	snap := s.state
	snap.Results = slices.Clone(s.state.Results)

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snap)
	}
}

func (s *Session) cancelTimer() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// reset starts a new epoch: anything issued before it is stale.
func (s *Session) reset() {
	s.epoch++
	s.state.Page = 1
	s.state.HasMorePages = false
	s.state.IsLoading = false
	s.state.Results = nil
	s.state.Display = DisplayLoading
}

func (s *Session) activate() {
	s.cancelTimer()
	s.state.Active = true
	s.state.Query = ""
	s.suppressNext = true
	s.reset()
	s.fetchRecent()
	s.publish()
}

func (s *Session) deactivate() {
	s.cancelTimer()
	s.epoch++
	s.suppressNext = false
	s.state = State{Page: 1, Display: DisplayResults}
	s.publish()
}

func (s *Session) queryChanged(text string) {
	if !s.state.Active {
		return
	}

	s.state.Query = text
	if s.suppressNext {
		s.suppressNext = false
		s.publish()
		return
	}

	s.cancelTimer()
	generation := s.generation
	s.timer = s.clock.AfterFunc(s.debounce, func() {
		s.post(func() {
			if generation == s.generation {
				s.timer = nil
				s.refresh()
			}
		})
	})
	s.publish()
}

// refresh runs when the debounce timer fires.
func (s *Session) refresh() {
	if !s.state.Active {
		return
	}

	s.reset()
	input := strings.TrimSpace(s.state.Query)

	switch {
	case input == "":
		s.fetchRecent()
	case IsPositiveInteger(input):
		s.fetchByNumber(input)
	default:
		s.performSearch()
	}
	s.publish()
}

func (s *Session) loadMore(anchor models.UiSongResult) {
	if !s.state.Active || !s.state.HasMorePages || s.state.IsLoading {
		return
	}

	idx := slices.IndexFunc(s.state.Results, anchor.Equal)
	if idx < 0 || idx < len(s.state.Results)-loadMoreThreshold {
		return
	}

	s.state.Page++
	s.performSearch()
	s.publish()
}

func (s *Session) fetchByNumber(input string) {
	s.state.Label = ""

	numbers := MatchNumbers(input, s.maxNumber)
	results := make([]models.UiSongResult, len(numbers))
	for i, n := range numbers {
		results[i] = models.UiSongResult{
			Name:       "Hymn " + n,
			Identifier: models.NewIdentifier(models.Classic, n, nil),
		}
	}

	s.state.Results = results
	s.state.Display = deriveEmpty(results)
}

// fetch captures what a completion must still match to be applied.
type fetch struct {
	query string
	epoch uint64
}

func (s *Session) capture() fetch {
	return fetch{query: s.state.Query, epoch: s.epoch}
}

func (s *Session) stale(f fetch) bool {
	return !s.state.Active || s.state.Query != f.query || s.epoch != f.epoch
}

func (s *Session) completed(applied bool) {
	if s.onComplete != nil {
		s.onComplete(applied)
	}
}

func (s *Session) fetchRecent() {
	s.state.Label = RecentLabel
	s.state.Display = DisplayLoading

	f := s.capture()
	ctx, limit := s.ctx, s.recentLimit

	go func() {
		songs, err := s.recents.RecentSongs(ctx, limit)
		s.post(func() { s.applyRecent(f, songs, err) })
	}()
}

func (s *Session) applyRecent(f fetch, songs []models.RecentSong, err error) {
	if s.stale(f) {
		s.completed(false)
		return
	}

	if err != nil {
		s.logger.Warn("failed to load recent hymns", "error", err)
	}

	results := make([]models.UiSongResult, len(songs))
	for i, song := range songs {
		results[i] = models.UiSongResult{Name: song.Title, Identifier: song.Identifier}
	}

	s.state.Results = results
	s.state.Display = deriveEmpty(results)
	s.publish()
	s.completed(true)
}

func (s *Session) performSearch() {
	s.state.Label = ""
	s.state.IsLoading = true

	f := s.capture()
	ctx, query, page := s.ctx, strings.TrimSpace(s.state.Query), s.state.Page

	go func() {
		var last resource.Resource[models.UiSongResultsPage]
		for res := range s.searcher.Search(ctx, query, page) {
			if res.IsTerminal() {
				last = res
			}
		}
		s.post(func() { s.applySearch(f, page, last) })
	}()
}

func (s *Session) applySearch(f fetch, page int, res resource.Resource[models.UiSongResultsPage]) {
	if s.stale(f) {
		s.logger.Debug("dropping stale search results", "query", f.query, "page", page)
		s.completed(false)
		return
	}

	s.state.IsLoading = false

	switch res.Status {
	case resource.StatusSuccess:
		s.state.Results = append(s.state.Results, res.Data.Results...)
		s.state.HasMorePages = res.Data.HasMorePages
		switch {
		case len(s.state.Results) > 0:
			s.state.Display = DisplayResults
		case !s.state.HasMorePages:
			s.state.Display = DisplayEmpty
		}
	default:
		s.logger.Warn("search failed", "query", f.query, "page", page, "error", res.Err)
		s.state.HasMorePages = false
		s.state.Display = deriveEmpty(s.state.Results)
	}

	s.publish()
	s.completed(true)
}

func deriveEmpty(results []models.UiSongResult) Display {
	if len(results) == 0 {
		return DisplayEmpty
	}
	return DisplayResults
}
