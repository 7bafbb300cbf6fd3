// Package bookmarks orchestrates the bookmark API client and the local
// cache. Successful reads are written through to the store and successful
// mutations invalidate what they made stale.
package bookmarks

import (
	"context"
	"log/slog"

	"github.com/mmcdole/folio/internal/domain"
)

// Service orchestrates bookmark client + store operations.
type Service struct {
	client domain.BookmarkClient
	store  domain.Store
	logger *slog.Logger
}

// NewService creates a new bookmark service.
func NewService(client domain.BookmarkClient, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, store: store, logger: logger}
}

func (s *Service) GetFolder(ctx context.Context, path string) (domain.Result[domain.Bookmark], error) {
	res, err := s.client.GetFolder(ctx, path)
	if err != nil {
		s.logger.Error("failed to fetch folder", "error", err, "path", path)
		return res, err
	}
	if !res.Success {
		s.logger.Warn("folder lookup rejected", "path", path, "message", res.Message)
	}
	return res, nil
}

// GetByPath fetches a folder listing and caches it under path
func (s *Service) GetByPath(ctx context.Context, path string) (domain.ListResult[domain.Bookmark], error) {
	res, err := s.client.GetByPath(ctx, path)
	if err != nil {
		s.logger.Error("failed to fetch listing", "error", err, "path", path)
		return res, err
	}
	if res.Success {
		if err := s.store.SaveListing(path, res.Items()); err != nil {
			s.logger.Error("failed to save listing", "error", err, "path", path)
		}
	}
	s.logger.Debug("fetched listing", "count", res.Count, "path", path)
	return res, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.ListResult[domain.Bookmark], error) {
	res, err := s.client.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to search bookmarks", "error", err, "name", name)
		return res, err
	}
	s.logger.Debug("searched bookmarks", "count", res.Count, "name", name)
	return res, nil
}

func (s *Service) GetMostVisited(ctx context.Context, num int) (domain.ListResult[domain.Bookmark], error) {
	res, err := s.client.GetMostVisited(ctx, num)
	if err != nil {
		s.logger.Error("failed to fetch most visited", "error", err, "num", num)
		return res, err
	}
	s.logger.Debug("fetched most visited", "count", res.Count)
	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Bookmark, error) {
	b, err := s.client.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch bookmark", "error", err, "id", id)
		return b, err
	}
	return b, nil
}

// GetAllPaths fetches every folder path and caches the list for completion
func (s *Service) GetAllPaths(ctx context.Context) (domain.BookmarkPaths, error) {
	paths, err := s.client.GetAllPaths(ctx)
	if err != nil {
		s.logger.Error("failed to fetch paths", "error", err)
		return paths, err
	}
	if err := s.store.SavePaths(paths.Paths); err != nil {
		s.logger.Error("failed to save paths", "error", err)
	}
	s.logger.Debug("fetched paths", "count", paths.Count)
	return paths, nil
}

func (s *Service) GetAppInfo(ctx context.Context) (domain.AppInfo, error) {
	info, err := s.client.GetAppInfo(ctx)
	if err != nil {
		s.logger.Error("failed to fetch app info", "error", err)
		return info, err
	}
	s.logger.Info("connected", "version", info.Version, "user", info.Email)
	return info, nil
}

func (s *Service) Create(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	res, err := s.client.Create(ctx, b)
	if err != nil {
		s.logger.Error("failed to create bookmark", "error", err, "path", b.Path, "name", b.DisplayName)
		return res, err
	}
	if res.Success {
		s.store.InvalidateListing(b.Path)
		if b.IsFolder() {
			s.store.InvalidatePaths()
		}
	}
	return res, nil
}

func (s *Service) Update(ctx context.Context, b domain.Bookmark) (domain.Result[string], error) {
	res, err := s.client.Update(ctx, b)
	if err != nil {
		s.logger.Error("failed to update bookmark", "error", err, "id", b.ID)
		return res, err
	}
	if res.Success {
		// a renamed folder moves every listing below it
		s.invalidateTree()
	}
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) (domain.Result[string], error) {
	res, err := s.client.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete bookmark", "error", err, "id", id)
		return res, err
	}
	if res.Success {
		s.invalidateTree()
	}
	return res, nil
}

func (s *Service) UpdateSortOrder(ctx context.Context, update domain.SortOrderUpdate) (domain.Result[string], error) {
	res, err := s.client.UpdateSortOrder(ctx, update)
	if err != nil {
		s.logger.Error("failed to update sort order", "error", err, "count", len(update.IDs))
		return res, err
	}
	if res.Success {
		s.store.InvalidateListings()
	} else {
		s.logger.Warn("sort order rejected", "message", res.Message)
	}
	return res, nil
}

func (s *Service) invalidateTree() {
	s.store.InvalidateListings()
	s.store.InvalidatePaths()
	s.logger.Debug("invalidated listing cache")
}

// SaveLocation remembers the last visited location
func (s *Service) SaveLocation(location string) {
	if err := s.store.SaveLocation(location); err != nil {
		s.logger.Error("failed to save location", "error", err, "location", location)
	}
}

func (s *Service) InvalidateAll() {
	s.store.InvalidateAll()
	s.logger.Info("invalidated all cache")
}

var _ domain.BookmarkClient = (*Service)(nil)
