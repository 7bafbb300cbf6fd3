package api

import "time"

// BookmarkDTO is a bookmark entry as the service serializes it
type BookmarkDTO struct {
	ID            string     `json:"id,omitempty"`
	Path          string     `json:"path"`
	DisplayName   string     `json:"displayName"`
	URL           string     `json:"url"`
	SortOrder     int        `json:"sortOrder"`
	Type          string     `json:"type"` // "Node" or "Folder"
	CustomFavicon *string    `json:"customFavicon,omitempty"`
	ChildCount    int        `json:"childCount,omitempty"`
	AccessCount   int        `json:"accessCount,omitempty"`
	Created       *time.Time `json:"created,omitempty"`
	Modified      *time.Time `json:"modified,omitempty"`
}

// ResultDTO is the {success, message, value} envelope
type ResultDTO[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Value   T      `json:"value"`
}

// ListResultDTO is the {success, message, count, value} envelope
type ListResultDTO[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Value   []T    `json:"value"`
}

// SortOrderDTO is the request body of PUT /bookmarks/sortorder
type SortOrderDTO struct {
	IDs       []string `json:"ids"`
	SortOrder []int    `json:"sortOrder"`
}

// PathsDTO is the response of GET /bookmarks/allpaths
type PathsDTO struct {
	Paths []string `json:"paths"`
	Count int      `json:"count"`
}

// AppInfoDTO is the response of GET /appinfo
type AppInfoDTO struct {
	Version     string   `json:"version"`
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

// ProblemDTO is an RFC 7807 problem body
type ProblemDTO struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
