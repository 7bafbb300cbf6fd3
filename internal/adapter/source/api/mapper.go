package api

import "github.com/mmcdole/folio/internal/domain"

const (
	typeNode   = "Node"
	typeFolder = "Folder"
)

// MapBookmark converts a wire bookmark to the domain entry
func MapBookmark(d BookmarkDTO) domain.Bookmark {
	b := domain.Bookmark{
		ID:          d.ID,
		Path:        d.Path,
		DisplayName: d.DisplayName,
		URL:         d.URL,
		SortOrder:   d.SortOrder,
		Type:        mapType(d.Type),
		ChildCount:  d.ChildCount,
		AccessCount: d.AccessCount,
	}
	if d.CustomFavicon != nil {
		b.Favicon = *d.CustomFavicon
	}
	if d.Created != nil {
		b.Created = *d.Created
	}
	if d.Modified != nil {
		b.Modified = *d.Modified
	}
	return b
}

// MapBookmarks converts a list of wire bookmarks, never returning nil
func MapBookmarks(dtos []BookmarkDTO) []domain.Bookmark {
	items := make([]domain.Bookmark, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, MapBookmark(d))
	}
	return items
}

// ToDTO converts a domain entry to its wire form for create and update
func ToDTO(b domain.Bookmark) BookmarkDTO {
	d := BookmarkDTO{
		ID:          b.ID,
		Path:        b.Path,
		DisplayName: b.DisplayName,
		URL:         b.URL,
		SortOrder:   b.SortOrder,
		Type:        b.Type.String(),
	}
	if b.Favicon != "" {
		fav := b.Favicon
		d.CustomFavicon = &fav
	}
	if !b.Created.IsZero() {
		created := b.Created
		d.Created = &created
	}
	if !b.Modified.IsZero() {
		modified := b.Modified
		d.Modified = &modified
	}
	return d
}

func mapType(t string) domain.ItemType {
	if t == typeFolder {
		return domain.ItemTypeFolder
	}
	return domain.ItemTypeNode
}

func mapListResult(r ListResultDTO[BookmarkDTO]) domain.ListResult[domain.Bookmark] {
	return domain.ListResult[domain.Bookmark]{
		Success: r.Success,
		Message: r.Message,
		Count:   r.Count,
		Value:   MapBookmarks(r.Value),
	}
}

func mapProblem(p ProblemDTO) *domain.ProblemDetail {
	return &domain.ProblemDetail{
		Type:     p.Type,
		Title:    p.Title,
		Status:   p.Status,
		Detail:   p.Detail,
		Instance: p.Instance,
	}
}

func mapAppInfo(a AppInfoDTO) domain.AppInfo {
	return domain.AppInfo{
		Version:     a.Version,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Roles:       a.Roles,
	}
}
