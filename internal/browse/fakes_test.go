package browse

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeBookmarks struct {
	folders   map[string]domain.Result[domain.Bookmark]
	folderErr error

	listings map[string]domain.ListResult[domain.Bookmark]
	listErr  error

	byName    domain.ListResult[domain.Bookmark]
	byNameErr error

	mostVisited    domain.ListResult[domain.Bookmark]
	mostVisitedErr error
	mostVisitedNum int

	byID    map[string]domain.Bookmark
	byIDErr error

	mutation    domain.Result[string]
	mutationErr error

	sortOrder    domain.Result[string]
	sortOrderErr error
	sentOrders   []domain.SortOrderUpdate

	calls []string
}

func (f *fakeBookmarks) GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error) {
	f.calls = append(f.calls, "folder "+path)
	if f.folderErr != nil {
		return domain.Result[domain.Bookmark]{}, f.folderErr
	}
	return f.folders[path], nil
}

func (f *fakeBookmarks) GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error) {
	f.calls = append(f.calls, "bypath "+path)
	if f.listErr != nil {
		return domain.ListResult[domain.Bookmark]{}, f.listErr
	}
	return f.listings[path], nil
}

func (f *fakeBookmarks) GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error) {
	f.calls = append(f.calls, "byname "+name)
	return f.byName, f.byNameErr
}

func (f *fakeBookmarks) GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error) {
	f.calls = append(f.calls, "mostvisited")
	f.mostVisitedNum = num
	return f.mostVisited, f.mostVisitedErr
}

func (f *fakeBookmarks) GetByID(ctx context.Context, id string) (domain.Bookmark, error) {
	f.calls = append(f.calls, "byid "+id)
	if f.byIDErr != nil {
		return domain.Bookmark{}, f.byIDErr
	}
	return f.byID[id], nil
}

func (f *fakeBookmarks) Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	f.calls = append(f.calls, "create "+b.Path+" "+b.DisplayName)
	return f.mutation, f.mutationErr
}

func (f *fakeBookmarks) Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	f.calls = append(f.calls, "update "+b.ID)
	return f.mutation, f.mutationErr
}

func (f *fakeBookmarks) Delete(ctx context.Context, id string) (domain.Result[string], error) {
	f.calls = append(f.calls, "delete "+id)
	return f.mutation, f.mutationErr
}

func (f *fakeBookmarks) UpdateSortOrder(ctx context.Context, u domain.SortOrderUpdate) (domain.Result[string], error) {
	f.calls = append(f.calls, "sortorder")
	f.sentOrders = append(f.sentOrders, u)
	return f.sortOrder, f.sortOrderErr
}

func listOf(items ...domain.Bookmark) domain.ListResult[domain.Bookmark] {
	return domain.ListResult[domain.Bookmark]{Success: true, Count: len(items), Value: items}
}

func folder(path, name string) domain.Result[domain.Bookmark] {
	return domain.Result[domain.Bookmark]{
		Success: true,
		Value:   domain.Bookmark{ID: "f-" + name, Path: path, DisplayName: name, Type: domain.ItemTypeFolder},
	}
}

type recordingNotifier struct {
	errors    []string
	successes []string
}

func (r *recordingNotifier) Error(detail string)    { r.errors = append(r.errors, detail) }
func (r *recordingNotifier) Success(message string) { r.successes = append(r.successes, message) }

type staticCache map[string][]domain.Bookmark

func (c staticCache) CachedListing(path string) ([]domain.Bookmark, bool) {
	items, ok := c[path]
	return items, ok
}

// progressLog records every value published on the progress channel
type progressLog struct {
	*appstate.State
	ch <-chan bool
}

func newProgressLog(t *testing.T) *progressLog {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	st := appstate.New()
	return &progressLog{State: st, ch: st.Progress().Subscribe(ctx)}
}

// next returns the next n published values
func (p *progressLog) next(t *testing.T, n int) []bool {
	t.Helper()
	var got []bool
	for i := 0; i < n; i++ {
		select {
		case v := <-p.ch:
			got = append(got, v)
		case <-time.After(time.Second):
			require.FailNow(t, "timed out waiting for progress", "got %v", got)
		}
	}
	return got
}

// quiet asserts nothing else was published
func (p *progressLog) quiet(t *testing.T) {
	t.Helper()
	select {
	case v := <-p.ch:
		require.FailNow(t, "unexpected progress value", "%v", v)
	case <-time.After(20 * time.Millisecond):
	}
}

type harness struct {
	bookmarks *fakeBookmarks
	notify    *recordingNotifier
	progress  *progressLog
	nav       *Navigator
	reorder   *Reorderer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		bookmarks: &fakeBookmarks{
			folders:  map[string]domain.Result[domain.Bookmark]{},
			listings: map[string]domain.ListResult[domain.Bookmark]{},
		},
		notify:   &recordingNotifier{},
		progress: newProgressLog(t),
	}
	h.nav = NewNavigator(h.bookmarks, h.progress, h.notify, nil)
	h.reorder = NewReorderer(h.nav, h.bookmarks, h.progress, h.notify, nil)
	return h
}

// run executes cmd and feeds its message back through the controllers.
// It returns the message and any follow-up command.
func (h *harness) run(t *testing.T, cmd tea.Cmd) (tea.Msg, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	next := h.nav.Update(msg)
	if c := h.reorder.Update(msg); c != nil {
		next = c
	}
	return msg, next
}

// show loads a listing at path through Refresh
func (h *harness) show(t *testing.T, path string, items ...domain.Bookmark) {
	t.Helper()
	h.bookmarks.listings[path] = listOf(items...)
	h.run(t, h.nav.Refresh(path))
	h.progress.next(t, 2)
}
