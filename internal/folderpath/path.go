// Package folderpath converts between folder path strings, their segments and
// the cumulative breadcrumb prefixes used for navigation.
//
// Paths are rooted at "/". The first segment of a decomposed path is always
// the root marker "/", so "/A/B" decomposes into ["/", "A", "B"] with the
// breadcrumbs ["/", "/A", "/A/B"]. Consecutive separators are kept as empty
// segments rather than collapsed.
package folderpath

import "strings"

// Separator delimits path segments
const Separator = "/"

// Root is the canonical root path
const Root = Separator

// Decompose splits a path into its segments and the absolute path of every
// segment. An empty leading segment becomes the root marker, a trailing
// separator is dropped.
func Decompose(path string) (segments []string, breadcrumbs []string) {
	segments = strings.Split(path, Separator)
	if len(segments) > 0 && segments[0] == "" {
		segments[0] = Root
	}
	if len(segments) > 1 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 || (len(segments) == 1 && segments[0] == "") {
		segments = []string{Root}
	}

	breadcrumbs = make([]string, 0, len(segments))
	acc := ""
	for _, s := range segments {
		if acc != "" && !strings.HasSuffix(acc, Separator) {
			acc += Separator
		}
		acc += s
		breadcrumbs = append(breadcrumbs, acc)
	}
	return segments, breadcrumbs
}

// Join folds segments back into an absolute path. It is the inverse of
// Decompose for canonical paths.
func Join(segments []string) string {
	if len(segments) == 0 {
		return Root
	}
	acc := ""
	for _, s := range segments {
		if acc != "" && !strings.HasSuffix(acc, Separator) {
			acc += Separator
		}
		acc += s
	}
	return Normalize(acc)
}

// Normalize ensures a leading separator. Interior structure is untouched.
func Normalize(path string) string {
	if !strings.HasPrefix(path, Separator) {
		return Separator + path
	}
	return path
}

// FixRoot replaces a leading double separator with a single one.
// Interior "//" is preserved verbatim.
func FixRoot(path string) string {
	if strings.HasPrefix(path, "//") {
		return strings.Replace(path, "//", Separator, 1)
	}
	return path
}

// Split separates a path into its parent path and the last segment name:
// "/a/b" -> ("/a", "b"), "/a" -> ("/", "a"), "/" -> ("/", "").
func Split(path string) (parent, name string) {
	path = Normalize(path)
	if path == Root {
		return Root, ""
	}
	i := strings.LastIndex(path, Separator)
	if i == 0 {
		return Root, path[1:]
	}
	return path[:i], path[i+1:]
}

// Parent returns the parent of a path; the parent of the root is the root.
func Parent(path string) string {
	parent, _ := Split(path)
	return parent
}

// IsRoot reports whether path addresses the root folder
func IsRoot(path string) bool {
	return path == "" || path == Root
}
