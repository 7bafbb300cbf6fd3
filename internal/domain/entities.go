package domain

import (
	"strings"
	"time"
)

// ItemType distinguishes folders from bookmark nodes
type ItemType int

const (
	ItemTypeNode ItemType = iota
	ItemTypeFolder
)

// String returns the wire name of the item type
func (t ItemType) String() string {
	if t == ItemTypeFolder {
		return "Folder"
	}
	return "Node"
}

// RootFolderName is the display name the server uses for the folder at "/"
const RootFolderName = "Root"

// Bookmark is a single entry of the bookmark tree (a folder or a link)
type Bookmark struct {
	ID          string    // Opaque server identifier
	Path        string    // Owning folder path, e.g. "/A/B"
	DisplayName string    // Display name (folder name for folders)
	URL         string    // Target URL, empty for folders
	SortOrder   int       // Presentation order within the folder, not contiguous
	Type        ItemType  // Node or Folder
	Favicon     string    // Custom favicon reference, empty when none
	ChildCount  int       // Number of children (folders only)
	AccessCount int       // How often the bookmark was opened
	Created     time.Time // Creation timestamp
	Modified    time.Time // Last modification, zero if never modified
}

// IsFolder returns true for folder entries
func (b Bookmark) IsFolder() bool {
	return b.Type == ItemTypeFolder
}

// IsRoot returns true if the entry is the root folder descriptor
func (b Bookmark) IsRoot() bool {
	return b.DisplayName == RootFolderName
}

// FullPath returns the absolute path addressed by a folder entry:
// its owning path joined with its display name. The root folder addresses "/".
func (b Bookmark) FullPath() string {
	path := b.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if b.IsRoot() {
		return path
	}
	return path + b.DisplayName
}

// Result is the envelope the bookmark service returns for single values
type Result[T any] struct {
	Success bool
	Message string
	Value   T
}

// ListResult is the envelope the bookmark service returns for lists
type ListResult[T any] struct {
	Success bool
	Message string
	Count   int
	Value   []T
}

// Items returns the values of a list result, or an empty slice when the
// result reports no entries.
func (r ListResult[T]) Items() []T {
	if r.Count > 0 && r.Value != nil {
		return r.Value
	}
	return []T{}
}

// SortOrderUpdate describes the new order of a folder as parallel sequences
type SortOrderUpdate struct {
	IDs       []string
	SortOrder []int
}

// RoleAdmin is the role that marks an administrator
const RoleAdmin = "admin"

// AppInfo describes the application and the authenticated user
type AppInfo struct {
	Version     string
	Email       string
	DisplayName string
	Roles       []string
}

// HasRole reports whether the user carries the given role (case-insensitive)
func (a AppInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// BookmarkPaths lists every folder path known to the service
type BookmarkPaths struct {
	Paths []string
	Count int
}
