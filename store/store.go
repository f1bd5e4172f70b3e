package store

import (
	"time"

	"github.com/screenplot/screenplot/internal/profile"
	"github.com/screenplot/screenplot/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Node lookups are the hot path of graph traversal, so resolved nodes
	// are kept behind a short TTL.
	nodeCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        5000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		nodeCache:   cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Profile() *profile.Profile {
	return s.profile
}

func (s *Store) Close() error {
	// Stop the cache cleanup goroutine before closing the driver.
	s.nodeCache.Close()

	return s.driver.Close()
}
