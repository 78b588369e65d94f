package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/formatter"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/search"
	"github.com/desertthunder/hymns/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	HymnView
)

// HymnLoader resolves a single hymn. Implemented by [repositories.HymnsRepository].
type HymnLoader interface {
	GetHymn(ctx context.Context, id models.Identifier) <-chan *models.UiHymn
}

// HistoryRecorder records viewed hymns. Implemented by [store.HistoryStore].
type HistoryRecorder interface {
	StoreRecentSong(ctx context.Context, id models.Identifier, title string) error
}

// Deps bundles the collaborators of the TUI.
type Deps struct {
	Searcher search.Searcher
	Recents  search.RecentSource
	Hymns    HymnLoader
	History  HistoryRecorder
	Logger   *log.Logger
	Options  []search.Option // Extra session options (debounce, max hymn number, recent limit)
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	view    ViewState
	session *search.Session
	started bool
	changed chan struct{}
	hymns   HymnLoader
	history HistoryRecorder
	logger  *log.Logger
	width   int
	height  int
	input   textinput.Model
	results list.Model
	lyrics  viewport.Model
	state   search.State
	hymn    *models.UiHymn
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model and the search session it drives.
//
// The session starts in [Model.Init] and stops when ctx is canceled or the program quits.
func NewModel(ctx context.Context, deps Deps) *Model {
	ctx, cancel := context.WithCancel(ctx)
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		view:    SearchView,
		changed: make(chan struct{}, 1),
		hymns:   deps.Hymns,
		history: deps.History,
		logger:  shared.WithLogger(logger, "component", "ui"),
		input:   textinput.New(),
		results: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		lyrics:  viewport.New(0, 0),
		help:    help.New(),
		keys:    newKeyMap(),
	}

	m.input.Placeholder = "Search by title, lyrics or number"
	m.input.Prompt = "> "
	m.input.Focus()

	m.results.SetShowFilter(false)
	m.results.SetFilteringEnabled(false)
	m.results.SetShowHelp(false)
	m.results.DisableQuitKeybindings()

	opts := append([]search.Option{
		search.WithLogger(logger),
		search.OnChange(m.notify),
	}, deps.Options...)
	m.session = search.NewSession(deps.Searcher, deps.Recents, opts...)
	return m
}

// notify runs on the session goroutine. A pending notification already covers this change.
func (m *Model) notify(search.State) {
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// Init starts the search session and lists recent hymns.
func (m *Model) Init() tea.Cmd {
	m.started = true
	go m.session.Run(m.ctx)
	m.activate()
	return tea.Batch(textinput.Blink, m.waitForState())
}

// activate starts a fresh search. The empty query consumes the change event the cleared input would emit.
func (m *Model) activate() {
	m.input.SetValue("")
	m.session.Activate()
	m.session.QueryChanged("")
}

// Close stops the session and waits for it to exit.
func (m *Model) Close() {
	m.cancel()
	if m.started {
		<-m.session.Done()
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.results.SetSize(msg.Width-4, msg.Height-8)
		m.lyrics.Width = msg.Width - 4
		m.lyrics.Height = msg.Height - 6
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.cancel()
			return m, tea.Quit
		}
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case HymnView:
			return m.handleHymnKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgStateChanged:
			return m, tea.Batch(m.applyState(msg.data.(search.State)), m.waitForState())
		case MsgHymnLoaded:
			return m.applyHymn(msg.data.(hymnLoaded))
		}
	}

	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.open):
		if item, ok := m.results.SelectedItem().(resultItem); ok {
			m.err = nil
			return m, m.openHymn(item.result.Identifier)
		}
		return m, nil

	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		if item, ok := m.results.SelectedItem().(resultItem); ok {
			m.session.LoadMore(item.result)
		}
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.QueryChanged(after)
	}
	return m, cmd
}

func (m *Model) handleHymnKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = SearchView
		m.hymn = nil
		if m.input.Value() == "" {
			m.activate()
		}
		return m, nil
	case msg.String() == "q":
		m.cancel()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.lyrics, cmd = m.lyrics.Update(msg)
	return m, cmd
}

func (m *Model) applyState(state search.State) tea.Cmd {
	m.state = state
	return m.results.SetItems(toItems(state.Results))
}

func (m *Model) applyHymn(loaded hymnLoaded) (tea.Model, tea.Cmd) {
	if loaded.hymn == nil {
		m.err = fmt.Errorf("%s is not available offline", loaded.id)
		return m, nil
	}

	text, err := formatter.HymnToText(loaded.hymn)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.hymn = loaded.hymn
	m.lyrics.SetContent(string(text))
	m.lyrics.GotoTop()
	m.view = HymnView
	return m, nil
}

// waitForState blocks until the session publishes, then reads the latest snapshot.
func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			return stateChangedMsg(m.session.State())
		case <-m.ctx.Done():
			return nil
		}
	}
}

// openHymn resolves id and records it in history once it resolves.
func (m *Model) openHymn(id models.Identifier) tea.Cmd {
	return func() tea.Msg {
		hymn := <-m.hymns.GetHymn(m.ctx, id)
		if hymn != nil && m.history != nil {
			if err := m.history.StoreRecentSong(m.ctx, id, hymn.Title); err != nil {
				m.logger.Warn("failed to record history", "id", id.Key(), "error", err)
			}
		}
		return hymnLoadedMsg(id, hymn)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case HymnView:
		return m.renderHymn()
	default:
		return ""
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Hymnal")
	body := m.renderResults()
	if m.err != nil {
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + body
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.open, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.input.View(), body, helpView)
}

func (m *Model) renderResults() string {
	switch m.state.Display {
	case search.DisplayLoading:
		return styles.help.Render("Searching...")
	case search.DisplayEmpty:
		return styles.warn.Render("No results")
	}

	var label string
	if m.state.Label != "" {
		label = styles.label.Render(m.state.Label) + "\n"
	}
	more := ""
	if m.state.IsLoading {
		more = "\n" + styles.help.Render("Loading more...")
	}
	return label + m.results.View() + more
}

func (m *Model) renderHymn() string {
	if m.hymn == nil {
		return ""
	}
	title := styles.title.Render(m.hymn.Title)
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.lyrics.View(), helpView)
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	m := NewModel(ctx, deps)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
