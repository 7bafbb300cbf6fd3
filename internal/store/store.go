package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/folio/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketListings = []byte("listings")
	bucketPaths    = []byte("paths")
	bucketMeta     = []byte("meta")

	allBuckets = [][]byte{bucketListings, bucketPaths, bucketMeta}
)

const (
	listingPrefix = "path:"
	keyPaths      = "all"
	keyLocation   = "location"
)

// BookmarkStore implements domain.Store using BoltDB.
type BookmarkStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewBookmarkStore opens the cache for serverURL below baseCacheDir.
// An empty baseCacheDir keeps everything in memory.
func NewBookmarkStore(baseCacheDir, serverURL string) (*BookmarkStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &BookmarkStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "folio.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BookmarkStore{db: db, cache: make(map[string][]byte)}, nil
}

// each server gets its own database so switching servers never mixes trees
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *BookmarkStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *BookmarkStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *BookmarkStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *BookmarkStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *BookmarkStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// collect first: deleting while iterating skips keys
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Listings (keyed by canonical folder path) ===

func (s *BookmarkStore) GetListing(path string) ([]domain.Bookmark, bool) {
	var items []domain.Bookmark
	ok := s.get(bucketListings, listingPrefix+path, &items)
	return items, ok
}

func (s *BookmarkStore) SaveListing(path string, items []domain.Bookmark) error {
	if items == nil {
		items = []domain.Bookmark{}
	}
	return s.set(bucketListings, listingPrefix+path, items)
}

func (s *BookmarkStore) InvalidateListing(path string) {
	s.delete(bucketListings, listingPrefix+path)
}

// InvalidateListings drops every cached folder listing
func (s *BookmarkStore) InvalidateListings() {
	s.deletePrefix(bucketListings, listingPrefix)
}

// === All paths ===

func (s *BookmarkStore) GetPaths() ([]string, bool) {
	var paths []string
	ok := s.get(bucketPaths, keyPaths, &paths)
	return paths, ok
}

func (s *BookmarkStore) SavePaths(paths []string) error {
	return s.set(bucketPaths, keyPaths, paths)
}

func (s *BookmarkStore) InvalidatePaths() {
	s.delete(bucketPaths, keyPaths)
}

// === Location ===

func (s *BookmarkStore) GetLocation() (string, bool) {
	var location string
	ok := s.get(bucketMeta, keyLocation, &location)
	return location, ok && location != ""
}

func (s *BookmarkStore) SaveLocation(location string) error {
	return s.set(bucketMeta, keyLocation, location)
}

func (s *BookmarkStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.Store = (*BookmarkStore)(nil)
