package tui

import (
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// PathCompleter completes folder paths typed in edit-path mode. Paths that
// start with the input come first (shortest first), followed by fuzzy
// matches ranked by distance. Completing again with the last suggestion
// cycles through the candidates.
type PathCompleter struct {
	paths []string

	candidates []string
	index      int
}

// SetPaths replaces the known folder paths
func (c *PathCompleter) SetPaths(paths []string) {
	c.paths = slices.Clone(paths)
	c.Reset()
}

// Paths returns the known folder paths
func (c *PathCompleter) Paths() []string {
	return c.paths
}

// Reset forgets the current candidates
func (c *PathCompleter) Reset() {
	c.candidates = nil
	c.index = 0
}

// Candidates returns the candidates of the last completion
func (c *PathCompleter) Candidates() []string {
	return c.candidates
}

// Complete returns the next suggestion for input, if any
func (c *PathCompleter) Complete(input string) (string, bool) {
	if len(c.candidates) > 0 && input == c.candidates[c.index] {
		c.index = (c.index + 1) % len(c.candidates)
		return c.candidates[c.index], true
	}

	c.candidates = c.rank(input)
	c.index = 0
	if len(c.candidates) == 0 {
		return "", false
	}
	return c.candidates[0], true
}

func (c *PathCompleter) rank(input string) []string {
	var prefixed []string
	lower := strings.ToLower(input)
	for _, p := range c.paths {
		if p != input && strings.HasPrefix(strings.ToLower(p), lower) {
			prefixed = append(prefixed, p)
		}
	}
	sort.Slice(prefixed, func(i, j int) bool {
		if len(prefixed[i]) != len(prefixed[j]) {
			return len(prefixed[i]) < len(prefixed[j])
		}
		return prefixed[i] < prefixed[j]
	})

	matches := fuzzy.RankFindFold(input, c.paths)
	sort.Stable(matches)

	out := prefixed
	for _, m := range matches {
		if m.Target == input || slices.Contains(out, m.Target) {
			continue
		}
		out = append(out, m.Target)
	}
	return out
}
