// Package browse holds the folder browsing controllers: path navigation,
// search, bookmark mutations, manual reordering and the most-visited
// dashboard. Controllers mutate their state only inside Update, which the
// bubbletea loop calls one message at a time; network work runs in the
// returned tea.Cmd.
package browse

import (
	"context"
	"time"

	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/domain"
)

const (
	// RootTitle replaces the literal "Root" folder name in titles
	RootTitle = "Bookmarks"

	// DashboardTitle is the title of the most-visited view
	DashboardTitle = "bookmarks.Dashboard"

	// DashboardEntries is how many most-visited bookmarks are requested
	DashboardEntries = 45

	// ReorderFailedMessage is shown when the service rejects a new order
	ReorderFailedMessage = "could not update the bookmarks sort-order!"

	// SearchReorderMessage is shown when a move is attempted on search results
	SearchReorderMessage = "search results cannot be reordered"

	requestTimeout = 30 * time.Second
)

// Bookmarks is the subset of the bookmark service the controllers call
type Bookmarks interface {
	GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error)
	GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error)
	GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error)
	GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error)
	GetByID(ctx context.Context, id string) (domain.Bookmark, error)
	Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error)
	Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error)
	Delete(ctx context.Context, id string) (domain.Result[string], error)
	UpdateSortOrder(ctx context.Context, update domain.SortOrderUpdate) (domain.Result[string], error)
}

// Cache serves listings synchronously while a fetch is in flight
type Cache interface {
	CachedListing(path string) ([]domain.Bookmark, bool)
}

// Notifier surfaces outcomes to the user
type Notifier interface {
	Error(detail string)
	Success(message string)
}

// Progress starts operations that own the global progress flag
type Progress interface {
	BeginProgress() *appstate.Operation
}

// rejection builds the notification text for a success=false response
func rejection(message string) string {
	if message != "" {
		return message
	}
	return domain.ErrRejected.Error()
}
