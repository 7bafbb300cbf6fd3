package bookmarks

import "github.com/mmcdole/folio/internal/domain"

// Queries provides synchronous, cache-only reads.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) CachedListing(path string) ([]domain.Bookmark, bool) {
	return q.store.GetListing(path)
}

func (q *Queries) CachedPaths() ([]string, bool) {
	return q.store.GetPaths()
}

func (q *Queries) LastLocation() (string, bool) {
	return q.store.GetLocation()
}
