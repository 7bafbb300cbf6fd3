package domain

// Store handles the local cache (BoltDB + memory).
// Reads never block on network.
type Store interface {
	// === Folder listings (keyed by canonical path) ===
	GetListing(path string) ([]Bookmark, bool)
	SaveListing(path string, items []Bookmark) error
	InvalidateListing(path string)
	InvalidateListings()

	// === All paths ===
	GetPaths() ([]string, bool)
	SavePaths(paths []string) error
	InvalidatePaths()

	// === Location ===
	GetLocation() (string, bool)
	SaveLocation(location string) error

	InvalidateAll()

	Close() error
}
