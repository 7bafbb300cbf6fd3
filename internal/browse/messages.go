package browse

import (
	"github.com/mmcdole/folio/internal/appstate"
	"github.com/mmcdole/folio/internal/domain"
)

// RouteRequestMsg asks the application to navigate to a location
type RouteRequestMsg struct {
	Location string
}

// PathLoadedMsg is the result of LoadPath: the folder lookup followed by
// the listing of the resolved folder.
type PathLoadedMsg struct {
	Generation uint64
	Requested  string
	Path       string // Resolved folder path, empty if the lookup failed
	Title      string
	Items      []domain.Bookmark
	Err        error

	op *appstate.Operation
}

// ListingLoadedMsg is the result of Refresh
type ListingLoadedMsg struct {
	Generation uint64
	Path       string
	Items      []domain.Bookmark
	Err        error

	op *appstate.Operation
}

// SearchResultMsg is the result of Search
type SearchResultMsg struct {
	Generation uint64
	Term       string
	Result     domain.ListResult[domain.Bookmark]
	Err        error

	op *appstate.Operation
}

// MutationKind names a bookmark mutation
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	default:
		return "delete"
	}
}

// MutationResultMsg is the result of a create, update or delete
type MutationResultMsg struct {
	Kind   MutationKind
	ID     string
	Result domain.Result[string]
	Err    error

	rollback func()
	op       *appstate.Operation
}

// ReorderResultMsg is the service's answer to a move
type ReorderResultMsg struct {
	Result domain.Result[string]
	Err    error

	move *moveCommand
	op   *appstate.Operation
}

// BookmarkFetchedMsg is the result of FetchBookmark
type BookmarkFetchedMsg struct {
	ID       string
	Bookmark domain.Bookmark
	Err      error

	op *appstate.Operation
}

// DashboardLoadedMsg is the result of Dashboard.Load
type DashboardLoadedMsg struct {
	Generation uint64
	Result     domain.ListResult[domain.Bookmark]
	Err        error

	op *appstate.Operation
}
