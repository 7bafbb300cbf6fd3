package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/browse"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/folderpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cmdTimeout bounds how long the harness waits for a command. Timers and
// state listeners do not finish in time and are abandoned.
const cmdTimeout = 50 * time.Millisecond

type fakeBackend struct {
	mu sync.Mutex

	folders   map[string][]domain.Bookmark
	paths     []string
	visited   []domain.Bookmark
	info      domain.AppInfo
	failSort  bool
	nextID    int
	sorted    []domain.SortOrderUpdate
	deleted   []string
	created   []domain.Bookmark
	updated   []domain.Bookmark
	fetched   []string
	locations []string
}

func folderEntry(id, parent, name string) domain.Bookmark {
	return domain.Bookmark{ID: id, Path: parent, DisplayName: name, Type: domain.ItemTypeFolder}
}

func linkEntry(id, parent, name, url string) domain.Bookmark {
	return domain.Bookmark{ID: id, Path: parent, DisplayName: name, URL: url, Type: domain.ItemTypeNode}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		folders: map[string][]domain.Bookmark{
			"/": {
				linkEntry("a", "/", "Alpha", "https://alpha.example"),
				folderEntry("w", "/", "Work"),
				linkEntry("b", "/", "Beta", "https://beta.example"),
				linkEntry("c", "/", "Gamma", "https://gamma.example"),
			},
			"/Work": {
				folderEntry("p", "/Work", "Projects"),
				linkEntry("g", "/Work", "GitHub", "https://github.com"),
			},
			"/Work/Projects": {},
		},
		paths:   []string{"/", "/Work", "/Work/Projects"},
		visited: []domain.Bookmark{linkEntry("g", "/Work", "GitHub", "https://github.com")},
		info:    domain.AppInfo{Version: "1.0", DisplayName: "Ada", Email: "ada@example.com", Roles: []string{"Admin"}},
	}
}

func (f *fakeBackend) GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == folderpath.Root {
		return domain.Result[domain.Bookmark]{Success: true, Value: folderEntry("root", "/", domain.RootFolderName)}, nil
	}
	if _, ok := f.folders[path]; !ok {
		return domain.Result[domain.Bookmark]{Success: false, Message: "folder not found"}, nil
	}
	parent, name := folderpath.Split(path)
	return domain.Result[domain.Bookmark]{Success: true, Value: folderEntry("f"+path, parent, name)}, nil
}

func (f *fakeBackend) GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := slices.Clone(f.folders[path])
	return domain.ListResult[domain.Bookmark]{Success: true, Count: len(items), Value: items}, nil
}

func (f *fakeBackend) GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []domain.Bookmark
	for _, items := range f.folders {
		for _, b := range items {
			if strings.Contains(strings.ToLower(b.DisplayName), strings.ToLower(name)) {
				found = append(found, b)
			}
		}
	}
	return domain.ListResult[domain.Bookmark]{Success: true, Count: len(found), Value: found}, nil
}

func (f *fakeBackend) GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.ListResult[domain.Bookmark]{Success: true, Count: len(f.visited), Value: slices.Clone(f.visited)}, nil
}

func (f *fakeBackend) GetByID(ctx context.Context, id string) (domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, id)
	for _, items := range f.folders {
		for _, b := range items {
			if b.ID == id {
				return b, nil
			}
		}
	}
	return domain.Bookmark{}, domain.ErrNotFound
}

func (f *fakeBackend) Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = "new" + string(rune('0'+f.nextID))
	f.created = append(f.created, b)
	f.folders[b.Path] = append(f.folders[b.Path], b)
	if b.IsFolder() {
		f.folders[b.FullPath()] = []domain.Bookmark{}
	}
	return domain.Result[string]{Success: true, Message: "bookmark created", Value: b.ID}, nil
}

func (f *fakeBackend) Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, b)
	items := f.folders[b.Path]
	if i := slices.IndexFunc(items, func(x domain.Bookmark) bool { return x.ID == b.ID }); i >= 0 {
		items[i] = b
	}
	return domain.Result[string]{Success: true, Message: "bookmark updated", Value: b.ID}, nil
}

func (f *fakeBackend) Delete(ctx context.Context, id string) (domain.Result[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for path, items := range f.folders {
		f.folders[path] = slices.DeleteFunc(items, func(b domain.Bookmark) bool { return b.ID == id })
	}
	return domain.Result[string]{Success: true, Message: "bookmark deleted", Value: id}, nil
}

func (f *fakeBackend) UpdateSortOrder(ctx context.Context, u domain.SortOrderUpdate) (domain.Result[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sorted = append(f.sorted, u)
	if f.failSort {
		return domain.Result[string]{Success: false}, nil
	}
	return domain.Result[string]{Success: true}, nil
}

func (f *fakeBackend) GetAllPaths(ctx context.Context) (domain.BookmarkPaths, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.BookmarkPaths{Paths: slices.Clone(f.paths), Count: len(f.paths)}, nil
}

func (f *fakeBackend) GetAppInfo(ctx context.Context) (domain.AppInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.info.Version == "" {
		return domain.AppInfo{}, errors.New("app info unavailable")
	}
	return f.info, nil
}

func (f *fakeBackend) SaveLocation(location string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations = append(f.locations, location)
}

type fakeOpener struct {
	mu       sync.Mutex
	launched []string
}

func (o *fakeOpener) Launch(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.launched = append(o.launched, url)
	return nil
}

// harness pumps messages through the model the way the bubbletea loop does
type harness struct {
	t       *testing.T
	m       Model
	backend *fakeBackend
	opener  *fakeOpener
	state   *appstate.State
}

func newHarness(t *testing.T, backend *fakeBackend, start string) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{t: t, backend: backend, opener: &fakeOpener{}, state: appstate.New()}
	h.m = NewModel(ctx, Options{
		Backend:       backend,
		State:         h.state,
		Opener:        h.opener,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		StartLocation: start,
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(h.m.Init())
	return h
}

func (h *harness) send(msg tea.Msg) {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.run(cmd)
}

func (h *harness) run(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case TickMsg, ClearStatusMsg, ProgressMsg, AppInfoMsg, AdminMsg:
			continue
		}
		h.send(msg)
	}
}

// key sends a key press: "enter", "esc", "tab" or literal runes
func (h *harness) key(k string) {
	switch k {
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (h *harness) names() []string {
	var names []string
	for _, b := range h.m.List.Items() {
		names = append(names, b.DisplayName)
	}
	return names
}

// collect runs cmd and flattens batches
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(cmdTimeout):
		return nil
	}
}

func TestStartShowsRootFolder(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	assert.Equal(t, "/start/", h.m.Location())
	assert.Equal(t, browse.RootTitle, h.m.List.Title())
	assert.Equal(t, []string{"Alpha", "Work", "Beta", "Gamma"}, h.names())
	assert.Contains(t, h.backend.locations, "/start/")
}

func TestStartLocationIsRestored(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "/start/Work")

	assert.Equal(t, "/start/Work", h.m.Location())
	assert.Equal(t, "Work", h.m.List.Title())
	assert.Equal(t, []string{"/", "Work"}, h.m.Nav.PathElements())
}

func TestOpenFolderAndGoBack(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("j")
	h.key("enter")
	assert.Equal(t, "/start/Work", h.m.Location())
	assert.Equal(t, []string{"Projects", "GitHub"}, h.names())
	assert.Equal(t, 1, h.m.History.Len())

	h.key("b")
	assert.Equal(t, "/start/", h.m.Location())
	assert.Equal(t, 1, h.m.List.Cursor(), "cursor restored onto the folder that was opened")
	assert.Equal(t, 0, h.m.History.Len())
}

func TestParentAndBreadcrumbs(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "/start/Work/Projects")
	require.Equal(t, []string{"/", "/Work", "/Work/Projects"}, h.m.Nav.AbsolutePaths())

	h.key("2")
	assert.Equal(t, "/start/Work", h.m.Location())

	h.key("h")
	assert.Equal(t, "/start/", h.m.Location())

	// the parent of the root is not a navigation
	h.key("h")
	assert.Equal(t, "/start/", h.m.Location())
}

func TestOpenLinkLaunchesBrowser(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("enter")
	assert.Equal(t, []string{"https://alpha.example"}, h.opener.launched)
	assert.Equal(t, "opened https://alpha.example", h.m.Status.Text())
	assert.Equal(t, "/start/", h.m.Location())
}

func TestReorderMovesSelectedEntry(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("J")
	require.Len(t, h.backend.sorted, 1)
	assert.Equal(t, []string{"w", "a", "b", "c"}, h.backend.sorted[0].IDs)
	assert.Equal(t, []int{0, 1, 2, 3}, h.backend.sorted[0].SortOrder)
	assert.Equal(t, 1, h.m.List.Cursor(), "cursor follows the moved entry")
	assert.Equal(t, []string{"Work", "Alpha", "Beta", "Gamma"}, h.names())
}

func TestRejectedReorderRollsBack(t *testing.T) {
	backend := newFakeBackend()
	backend.failSort = true
	h := newHarness(t, backend, "")

	h.key("G")
	h.key("K")
	assert.Equal(t, []string{"Alpha", "Work", "Beta", "Gamma"}, h.names())
	assert.Equal(t, browse.ReorderFailedMessage, h.m.Status.Text())
	assert.True(t, h.m.Status.IsError())
}

func TestReorderIsBlockedWhileFiltering(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("/")
	h.key("a")
	h.key("enter")
	h.key("J")
	assert.Empty(t, h.backend.sorted)
	assert.True(t, h.m.Status.IsError())
}

func TestReorderIsBlockedOnSearchResults(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("s")
	h.key("a")
	h.key("enter")
	require.True(t, h.m.Nav.SearchMode())
	before := h.names()

	h.key("J")
	assert.Empty(t, h.backend.sorted)
	assert.Equal(t, before, h.names())
	assert.Equal(t, browse.SearchReorderMessage, h.m.Status.Text())
	assert.True(t, h.m.Status.IsError())
}

func TestFilterNarrowsList(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("/")
	h.key("gam")
	require.Equal(t, 1, h.m.List.ItemCount())
	b, ok := h.m.List.Selected()
	require.True(t, ok)
	assert.Equal(t, "Gamma", b.DisplayName)

	h.key("esc")
	assert.False(t, h.m.List.IsFiltering())
	assert.Equal(t, 4, h.m.List.ItemCount())
	assert.Equal(t, "/start/", h.m.Location(), "esc only cleared the filter")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("j")
	h.key("j")
	h.key("x")
	assert.Equal(t, StateConfirmDelete, h.m.State)
	assert.Contains(t, h.m.View(), "Beta")

	h.key("n")
	assert.Equal(t, StateBrowsing, h.m.State)
	assert.Empty(t, h.backend.deleted)

	h.key("x")
	h.key("y")
	assert.Equal(t, []string{"b"}, h.backend.deleted)
	assert.Equal(t, []string{"Alpha", "Work", "Gamma"}, h.names())
	assert.Equal(t, "bookmark deleted", h.m.Status.Text())
}

func TestAddBookmarkPromptsForURLAndName(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("a")
	require.Equal(t, StatePrompt, h.m.State)
	h.key("https://www.example.org/page")
	h.key("enter")
	assert.Equal(t, "example.org", h.m.Input.Value(), "name suggested from the host")
	h.key("enter")

	require.Len(t, h.backend.created, 1)
	created := h.backend.created[0]
	assert.Equal(t, "https://www.example.org/page", created.URL)
	assert.Equal(t, "example.org", created.DisplayName)
	assert.Equal(t, "/", created.Path)
	assert.Equal(t, StateBrowsing, h.m.State)
	assert.Equal(t, 5, h.m.List.ItemCount())
}

func TestNewFolderRejectsSeparator(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("n")
	h.key("a/b")
	h.key("enter")
	assert.Equal(t, StatePrompt, h.m.State)
	assert.Empty(t, h.backend.created)

	h.key("esc")
	assert.Equal(t, StateBrowsing, h.m.State)
}

func TestRenameUpdatesBookmark(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("e")
	assert.Equal(t, []string{"a"}, h.backend.fetched)
	require.Equal(t, StatePrompt, h.m.State)
	require.Equal(t, "Alpha", h.m.Input.Value())
	h.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	h.key("First")
	h.key("enter")

	require.Len(t, h.backend.updated, 1)
	assert.Equal(t, "a", h.backend.updated[0].ID)
	assert.Equal(t, "First", h.backend.updated[0].DisplayName)
	assert.Equal(t, []string{"First", "Work", "Beta", "Gamma"}, h.names())
}

func TestRenameStartsFromServiceVersion(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend, "")

	backend.mu.Lock()
	backend.folders["/"][0].DisplayName = "Alpha (edited elsewhere)"
	backend.mu.Unlock()

	h.key("e")
	assert.Equal(t, "Alpha (edited elsewhere)", h.m.Input.Value())
}

func TestRenameOfVanishedBookmarkNotifies(t *testing.T) {
	backend := newFakeBackend()
	h := newHarness(t, backend, "")

	backend.mu.Lock()
	backend.folders["/"] = backend.folders["/"][1:]
	backend.mu.Unlock()

	h.key("e")
	assert.Equal(t, StateBrowsing, h.m.State)
	assert.True(t, h.m.Status.IsError())
	assert.Equal(t, domain.ErrNotFound.Error(), h.m.Status.Text())
}

func TestSearchShowsResultsAndBackLeavesThem(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("s")
	h.key("git")
	h.key("enter")
	require.True(t, h.m.Nav.SearchMode())
	assert.Equal(t, []string{"GitHub"}, h.names())
	assert.Equal(t, "Search: git", h.m.List.Title())

	h.key("b")
	assert.False(t, h.m.Nav.SearchMode())
	assert.Equal(t, 4, h.m.List.ItemCount())
}

func TestEditPathCompletesAndNavigates(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("p")
	require.True(t, h.m.Nav.EditMode())
	assert.Equal(t, "/", h.m.Input.Value())

	h.key("tab")
	assert.Equal(t, "/Work", h.m.Input.Value())
	h.key("tab")
	assert.Equal(t, "/Work/Projects", h.m.Input.Value())

	h.key("enter")
	assert.False(t, h.m.Nav.EditMode())
	assert.Equal(t, "/start/Work/Projects", h.m.Location())
}

func TestEditPathCancelLeavesEditMode(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("p")
	h.key("esc")
	assert.False(t, h.m.Nav.EditMode())
	assert.Equal(t, "", h.m.Nav.PathInput())
	assert.Equal(t, "/start/", h.m.Location())
}

func TestDashboardToggle(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("D")
	assert.Equal(t, ScreenDashboard, h.m.Screen)
	assert.Equal(t, "/dashboard", h.m.Location())
	assert.Equal(t, browse.DashboardTitle, h.m.List.Title())
	assert.Equal(t, []string{"GitHub"}, h.names())

	h.key("D")
	assert.Equal(t, ScreenBrowse, h.m.Screen)
	assert.Equal(t, "/start/", h.m.Location())
}

func TestUnknownLocationRedirectsToRoot(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "/nowhere")

	assert.Equal(t, "/start/", h.m.Location())
	assert.Equal(t, 4, h.m.List.ItemCount())
}

func TestMissingFolderNotifies(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "/start/Gone")

	assert.True(t, h.m.Status.IsError())
	assert.Contains(t, h.m.Status.Text(), "folder not found")
}

func TestBootstrapPublishesSession(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	info, ok := h.state.AppInfo().Latest()
	require.True(t, ok)
	assert.Equal(t, "Ada", info.DisplayName)

	admin, ok := h.state.Admin().Latest()
	require.True(t, ok)
	assert.True(t, admin)

	assert.Equal(t, []string{"/", "/Work", "/Work/Projects"}, h.m.Completer.Paths())
}

func TestBootstrapFailureNotifies(t *testing.T) {
	backend := newFakeBackend()
	backend.info = domain.AppInfo{}
	h := newHarness(t, backend, "")

	_, ok := h.state.AppInfo().Latest()
	assert.False(t, ok)
	assert.True(t, h.m.Status.IsError())
}

func TestViewShowsHeader(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "/start/Work")
	h.send(AppInfoMsg{Info: domain.AppInfo{DisplayName: "Ada"}})
	h.send(AdminMsg{Admin: true})

	view := h.m.View()
	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "admin")
	assert.Contains(t, view, "GitHub")
}

func TestHelpClosesOnAnyKey(t *testing.T) {
	h := newHarness(t, newFakeBackend(), "")

	h.key("?")
	assert.Equal(t, StateHelp, h.m.State)
	h.key("z")
	assert.Equal(t, StateBrowsing, h.m.State)
}
