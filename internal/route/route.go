// Package route maps application locations to views.
//
// Every location below "start" browses a folder:
//
//	/start          => path: /
//	/start/A/B      => path: /A/B
//	/start/a/b/c/d  => path: /a/b/c/d
//
// "dashboard" shows the most visited bookmarks and anything else redirects
// to "start".
package route

import (
	"strings"

	"github.com/mmcdole/folio/internal/folderpath"
)

// Reserved location keywords
const (
	StartKeyword     = "start"
	DashboardKeyword = "dashboard"
)

// Kind identifies the view a location resolves to
type Kind int

const (
	KindRedirect Kind = iota
	KindBrowse
	KindDashboard
)

// Match is the outcome of a successful start match
type Match struct {
	Consumed []string // Segments consumed by the match (all of them)
	Path     string   // Folder path synthesized from the remaining segments
}

// Route is a resolved location
type Route struct {
	Kind     Kind
	Location string // Canonical location, the redirect target for KindRedirect
	Path     string // Folder path (KindBrowse only)
}

// MatchStart activates when the first segment is the start keyword and
// consumes the whole list, joining every segment after the first into a
// folder path. An empty list or another first segment does not match.
// The input slice is never modified.
func MatchStart(segments []string) (Match, bool) {
	if len(segments) == 0 || segments[0] != StartKeyword {
		return Match{}, false
	}

	path := folderpath.Root
	for _, s := range segments[1:] {
		if !strings.HasSuffix(path, folderpath.Separator) {
			path += folderpath.Separator
		}
		path += s
	}

	consumed := make([]string, len(segments))
	copy(consumed, segments)
	return Match{Consumed: consumed, Path: path}, true
}

// Segments splits a location into its non-empty segments
func Segments(location string) []string {
	parts := strings.Split(location, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// StartLocation returns the browse location for a folder path
func StartLocation(path string) string {
	return "/" + StartKeyword + folderpath.Normalize(path)
}

// DashboardLocation returns the dashboard location
func DashboardLocation() string {
	return "/" + DashboardKeyword
}

// Resolve maps a location to its route. Unknown locations and the empty
// location redirect to the start page.
func Resolve(location string) Route {
	segments := Segments(location)
	if len(segments) == 0 {
		return Route{Kind: KindRedirect, Location: StartLocation(folderpath.Root)}
	}

	if m, ok := MatchStart(segments); ok {
		return Route{Kind: KindBrowse, Location: StartLocation(m.Path), Path: m.Path}
	}

	if len(segments) == 1 && segments[0] == DashboardKeyword {
		return Route{Kind: KindDashboard, Location: DashboardLocation()}
	}

	return Route{Kind: KindRedirect, Location: StartLocation(folderpath.Root)}
}
