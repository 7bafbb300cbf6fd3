package bookmarks

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	listings map[string][]domain.Bookmark
	paths    []string
	result   domain.Result[string]
	err      error
	calls    []string
}

func (f *fakeClient) GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error) {
	f.calls = append(f.calls, "folder "+path)
	return domain.Result[domain.Bookmark]{Success: true}, f.err
}

func (f *fakeClient) GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error) {
	f.calls = append(f.calls, "bypath "+path)
	if f.err != nil {
		return domain.ListResult[domain.Bookmark]{}, f.err
	}
	items := f.listings[path]
	return domain.ListResult[domain.Bookmark]{Success: true, Count: len(items), Value: items}, nil
}

func (f *fakeClient) GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error) {
	return domain.ListResult[domain.Bookmark]{Success: true}, f.err
}

func (f *fakeClient) GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error) {
	return domain.ListResult[domain.Bookmark]{Success: true}, f.err
}

func (f *fakeClient) GetByID(ctx context.Context, id string) (domain.Bookmark, error) {
	return domain.Bookmark{ID: id}, f.err
}

func (f *fakeClient) GetAllPaths(ctx context.Context) (domain.BookmarkPaths, error) {
	return domain.BookmarkPaths{Paths: f.paths, Count: len(f.paths)}, f.err
}

func (f *fakeClient) Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	return f.result, f.err
}

func (f *fakeClient) Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	return f.result, f.err
}

func (f *fakeClient) Delete(ctx context.Context, id string) (domain.Result[string], error) {
	return f.result, f.err
}

func (f *fakeClient) UpdateSortOrder(ctx context.Context, u domain.SortOrderUpdate) (domain.Result[string], error) {
	return f.result, f.err
}

func (f *fakeClient) GetAppInfo(ctx context.Context) (domain.AppInfo, error) {
	return domain.AppInfo{Version: "1"}, f.err
}

func newService(t *testing.T, client *fakeClient) (*Service, *Queries) {
	t.Helper()
	st, err := store.NewBookmarkStore("", "")
	require.NoError(t, err)
	return NewService(client, st, nil), NewQueries(st)
}

func TestGetByPathWritesThrough(t *testing.T) {
	client := &fakeClient{listings: map[string][]domain.Bookmark{
		"/a": {{ID: "1", Path: "/a", DisplayName: "one"}},
	}}
	svc, q := newService(t, client)

	_, ok := q.CachedListing("/a")
	assert.False(t, ok)

	res, err := svc.GetByPath(context.Background(), "/a")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	cached, ok := q.CachedListing("/a")
	require.True(t, ok)
	assert.Equal(t, "one", cached[0].DisplayName)
}

func TestEmptyListingIsCachedAsEmpty(t *testing.T) {
	svc, q := newService(t, &fakeClient{})

	_, err := svc.GetByPath(context.Background(), "/empty")
	require.NoError(t, err)

	cached, ok := q.CachedListing("/empty")
	require.True(t, ok)
	assert.Empty(t, cached)
}

func TestFailedFetchLeavesCache(t *testing.T) {
	client := &fakeClient{listings: map[string][]domain.Bookmark{"/a": {{ID: "1"}}}}
	svc, q := newService(t, client)

	_, err := svc.GetByPath(context.Background(), "/a")
	require.NoError(t, err)

	client.err = domain.ErrServerOffline
	_, err = svc.GetByPath(context.Background(), "/a")
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	_, ok := q.CachedListing("/a")
	assert.True(t, ok)
}

func TestMutationsInvalidate(t *testing.T) {
	client := &fakeClient{
		listings: map[string][]domain.Bookmark{"/a": {{ID: "1"}}, "/b": {{ID: "2"}}},
		paths:    []string{"/a", "/b"},
		result:   domain.Result[string]{Success: true},
	}
	svc, q := newService(t, client)
	ctx := context.Background()

	prime := func() {
		_, _ = svc.GetByPath(ctx, "/a")
		_, _ = svc.GetByPath(ctx, "/b")
		_, _ = svc.GetAllPaths(ctx)
	}

	prime()
	_, err := svc.Create(ctx, domain.Bookmark{Path: "/a", DisplayName: "x", Type: domain.ItemTypeNode})
	require.NoError(t, err)
	_, ok := q.CachedListing("/a")
	assert.False(t, ok)
	_, ok = q.CachedListing("/b")
	assert.True(t, ok, "create only touches the owning folder")
	_, ok = q.CachedPaths()
	assert.True(t, ok, "creating a node keeps paths")

	prime()
	_, err = svc.Delete(ctx, "2")
	require.NoError(t, err)
	_, ok = q.CachedListing("/b")
	assert.False(t, ok)
	_, ok = q.CachedPaths()
	assert.False(t, ok)

	prime()
	_, err = svc.UpdateSortOrder(ctx, domain.SortOrderUpdate{IDs: []string{"1"}, SortOrder: []int{0}})
	require.NoError(t, err)
	_, ok = q.CachedListing("/a")
	assert.False(t, ok)
}

func TestRejectedMutationKeepsCache(t *testing.T) {
	client := &fakeClient{
		listings: map[string][]domain.Bookmark{"/a": {{ID: "1"}}},
		result:   domain.Result[string]{Success: false, Message: "denied"},
	}
	svc, q := newService(t, client)
	ctx := context.Background()

	_, _ = svc.GetByPath(ctx, "/a")
	res, err := svc.UpdateSortOrder(ctx, domain.SortOrderUpdate{})
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, ok := q.CachedListing("/a")
	assert.True(t, ok)
}

func TestLocationRoundTrip(t *testing.T) {
	svc, q := newService(t, &fakeClient{})

	_, ok := q.LastLocation()
	assert.False(t, ok)

	svc.SaveLocation("/start/a/b")
	loc, ok := q.LastLocation()
	require.True(t, ok)
	assert.Equal(t, "/start/a/b", loc)

	svc.InvalidateAll()
	_, ok = q.LastLocation()
	assert.False(t, ok)
}

func TestErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	svc, _ := newService(t, &fakeClient{err: boom})

	_, err := svc.GetAppInfo(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = svc.GetAllPaths(context.Background())
	assert.ErrorIs(t, err, boom)
}
