package domain

import "context"

// BookmarkClient: Network operations against the bookmark service
// (implemented by the api source client)
type BookmarkClient interface {
	// Browsing
	GetFolder(ctx context.Context, path string) (Result[Bookmark], error)
	GetByPath(ctx context.Context, path string) (ListResult[Bookmark], error)
	GetByName(ctx context.Context, name string) (ListResult[Bookmark], error)
	GetMostVisited(ctx context.Context, num int) (ListResult[Bookmark], error)
	GetByID(ctx context.Context, id string) (Bookmark, error)
	GetAllPaths(ctx context.Context) (BookmarkPaths, error)

	// Mutations
	Create(ctx context.Context, b Bookmark) (Result[string], error)
	Update(ctx context.Context, b Bookmark) (Result[string], error)
	Delete(ctx context.Context, id string) (Result[string], error)
	UpdateSortOrder(ctx context.Context, update SortOrderUpdate) (Result[string], error)

	// Application metadata
	GetAppInfo(ctx context.Context) (AppInfo, error)
}
