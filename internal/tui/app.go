package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/browse"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StatePrompt
	StateConfirmDelete
)

// Screen is the view the bookmark list currently shows
type Screen int

const (
	ScreenBrowse Screen = iota
	ScreenDashboard
)

// promptKind identifies what the input modal is asking for
type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptEditPath
	promptAddURL
	promptAddName
	promptNewFolder
	promptRename
)

// Backend is the bookmark service as seen by the TUI
type Backend interface {
	browse.Bookmarks
	GetAllPaths(ctx context.Context) (domain.BookmarkPaths, error)
	GetAppInfo(ctx context.Context) (domain.AppInfo, error)
	SaveLocation(location string)
}

// Cache serves data from the local cache before the network answers
type Cache interface {
	browse.Cache
	CachedPaths() ([]string, bool)
}

// URLOpener opens bookmark URLs
type URLOpener interface {
	Launch(url string) error
}

// Options wires the model to its collaborators
type Options struct {
	Backend          Backend
	Cache            Cache // optional
	State            *appstate.State
	Opener           URLOpener
	Logger           *slog.Logger
	StartLocation    string // initial location, empty redirects to the root folder
	DashboardEntries int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State  ApplicationState
	Screen Screen
	Ready  bool

	// Services
	backend  Backend
	opener   URLOpener
	appState *appstate.State
	observer *StateObserver
	logger   *slog.Logger

	// Controllers
	Nav       *browse.Navigator
	Reorder   *browse.Reorderer
	Dashboard *browse.Dashboard

	// UI Components
	List      *components.BookmarkList
	Input     components.InputModal
	Status    *StatusLine
	History   *History
	Completer *PathCompleter

	// Navigation
	location      string
	startLocation string
	shownGen      uint64
	pendingCursor int // cursor to restore once the next listing arrives, -1 for none
	restoreCursor bool
	lastSeq       int

	// Prompt state
	prompt      promptKind
	pendingAdd  domain.Bookmark
	pendingEdit domain.Bookmark
	pendingDel  domain.Bookmark
	lastSearch  string

	// Session
	AppInfo domain.AppInfo
	Admin   bool

	// Dimensions
	Width  int
	Height int

	// UI state
	Loading      bool
	SpinnerFrame int
}

// NewModel creates a new application model. The state subscriptions live
// until ctx is cancelled.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	state := opts.State
	if state == nil {
		state = appstate.New()
	}

	status := NewStatusLine(logger)
	nav := browse.NewNavigator(opts.Backend, state, status, logger)
	completer := &PathCompleter{}
	if opts.Cache != nil {
		nav.UseCache(opts.Cache)
		if paths, ok := opts.Cache.CachedPaths(); ok {
			completer.SetPaths(paths)
		}
	}

	return Model{
		State:         StateBrowsing,
		Screen:        ScreenBrowse,
		backend:       opts.Backend,
		opener:        opts.Opener,
		appState:      state,
		observer:      NewStateObserver(ctx, state),
		logger:        logger,
		Nav:           nav,
		Reorder:       browse.NewReorderer(nav, opts.Backend, state, status, logger),
		Dashboard:     browse.NewDashboard(opts.Backend, state, status, opts.DashboardEntries, logger),
		List:          components.NewBookmarkList(),
		Input:         components.NewInputModal(),
		Status:        status,
		History:       NewHistory(),
		Completer:     completer,
		startLocation: opts.StartLocation,
		pendingCursor: -1,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	start := m.startLocation
	return tea.Batch(
		func() tea.Msg { return browse.RouteRequestMsg{Location: start} },
		BootstrapCmd(m.backend, m.logger),
		m.observer.Listen(),
		TickCmd(tickInterval),
	)
}

// Update handles all messages. The displayed list is re-synced from the
// active controller after every message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)

	m.syncList()
	if m.restoreCursor {
		m.restoreCursor = false
		if m.pendingCursor >= 0 {
			m.List.SetCursor(m.pendingCursor)
			m.pendingCursor = -1
		}
	}

	if seq := m.Status.Seq(); seq != m.lastSeq {
		m.lastSeq = seq
		cmd = tea.Batch(cmd, ClearStatusCmd(seq, statusTimeout))
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.List.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case ClearStatusMsg:
		m.Status.Clear(msg.Seq)
		return m, nil

	case browse.RouteRequestMsg:
		return m, m.navigate(msg.Location, true)

	case browse.PathLoadedMsg:
		cmd := m.Nav.Update(msg)
		m.restoreCursor = msg.Generation == m.Nav.Generation()
		return m, cmd

	case browse.ListingLoadedMsg:
		cmd := m.Nav.Update(msg)
		m.restoreCursor = msg.Generation == m.Nav.Generation()
		return m, cmd

	case browse.SearchResultMsg:
		return m, m.Nav.Update(msg)

	case browse.MutationResultMsg:
		cursor := m.List.Cursor()
		cmd := m.Nav.Update(msg)
		if cmd == nil {
			return m, nil
		}
		// the follow-up refresh lands on the same entry
		m.pendingCursor = cursor
		return m, tea.Batch(cmd, LoadPathsCmd(m.backend, m.logger))

	case browse.BookmarkFetchedMsg:
		cmd := m.Nav.Update(msg)
		if msg.Err == nil && m.State == StateBrowsing && m.Screen == ScreenBrowse {
			b := msg.Bookmark
			m.pendingEdit = b
			m.openPrompt(promptRename, "Rename "+b.DisplayName, "name", b.DisplayName)
		}
		return m, cmd

	case browse.ReorderResultMsg:
		return m, m.Reorder.Update(msg)

	case browse.DashboardLoadedMsg:
		cmd := m.Dashboard.Update(msg)
		m.restoreCursor = m.Screen == ScreenDashboard
		return m, cmd

	case BootstrapMsg:
		if msg.Err != nil {
			m.logger.Error("failed to bootstrap session", "error", msg.Err)
			m.Status.Error(domain.Detail(msg.Err))
		} else {
			m.appState.SetAppInfo(msg.AppInfo)
			m.appState.SetAdmin(msg.AppInfo.HasRole(domain.RoleAdmin))
		}
		if len(msg.Paths) > 0 {
			m.Completer.SetPaths(msg.Paths)
		}
		return m, nil

	case PathsLoadedMsg:
		m.Completer.SetPaths(msg.Paths)
		return m, nil

	case ProgressMsg:
		m.Loading = msg.Active
		return m, m.observer.ListenProgress()

	case AppInfoMsg:
		m.AppInfo = msg.Info
		return m, m.observer.ListenAppInfo()

	case AdminMsg:
		m.Admin = msg.Admin
		return m, m.observer.ListenAdmin()

	case URLOpenedMsg:
		m.Status.Success("opened " + msg.URL)
		return m, nil

	case URLCopiedMsg:
		m.Status.Success("copied " + msg.URL)
		return m, nil

	case ErrMsg:
		m.logger.Error("command failed", "error", msg.Err, "context", msg.Context)
		m.Status.Error(msg.Error())
		return m, nil
	}

	return m, nil
}

// Location returns the shown location
func (m Model) Location() string {
	return m.location
}
