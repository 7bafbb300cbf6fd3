package store

import (
	"testing"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]*BookmarkStore {
	t.Helper()

	mem, err := NewBookmarkStore("", "")
	require.NoError(t, err)

	disk, err := NewBookmarkStore(t.TempDir(), "https://bookmarks.example.com/")
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })

	return map[string]*BookmarkStore{"memory": mem, "bolt": disk}
}

func TestListingRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.GetListing("/a")
			assert.False(t, ok)

			items := []domain.Bookmark{
				{ID: "1", Path: "/a", DisplayName: "one", URL: "https://one", SortOrder: 0, Type: domain.ItemTypeNode},
				{ID: "2", Path: "/a", DisplayName: "sub", SortOrder: 1, Type: domain.ItemTypeFolder},
			}
			require.NoError(t, s.SaveListing("/a", items))

			got, ok := s.GetListing("/a")
			require.True(t, ok)
			assert.Equal(t, items, got)
		})
	}
}

func TestInvalidateListings(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveListing("/", []domain.Bookmark{{ID: "r"}}))
			require.NoError(t, s.SaveListing("/a", []domain.Bookmark{{ID: "a"}}))
			require.NoError(t, s.SaveListing("/a/b", []domain.Bookmark{{ID: "b"}}))
			require.NoError(t, s.SavePaths([]string{"/a", "/a/b"}))

			s.InvalidateListing("/a")
			_, ok := s.GetListing("/a")
			assert.False(t, ok)
			_, ok = s.GetListing("/a/b")
			assert.True(t, ok)

			s.InvalidateListings()
			_, ok = s.GetListing("/")
			assert.False(t, ok)
			_, ok = s.GetListing("/a/b")
			assert.False(t, ok)

			paths, ok := s.GetPaths()
			assert.True(t, ok, "paths survive listing invalidation")
			assert.Equal(t, []string{"/a", "/a/b"}, paths)
		})
	}
}

func TestLocationAndInvalidateAll(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.GetLocation()
			assert.False(t, ok)

			require.NoError(t, s.SaveLocation("/start/a"))
			loc, ok := s.GetLocation()
			require.True(t, ok)
			assert.Equal(t, "/start/a", loc)

			s.InvalidateAll()
			_, ok = s.GetLocation()
			assert.False(t, ok)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	url := "https://bookmarks.example.com"

	s, err := NewBookmarkStore(dir, url)
	require.NoError(t, err)
	require.NoError(t, s.SaveListing("/x", []domain.Bookmark{{ID: "x", DisplayName: "X"}}))
	require.NoError(t, s.Close())

	s, err = NewBookmarkStore(dir, url+"/")
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetListing("/x")
	require.True(t, ok)
	assert.Equal(t, "X", got[0].DisplayName)
}
