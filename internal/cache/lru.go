// Package cache provides the drug-profile cache backends. The LRU
// backend keeps profiles in process; the Redis backend shares them
// across instances behind a circuit breaker. Both implement
// domain.ProfileCache and are interchangeable: a cache miss only costs
// a store round trip, so failures degrade to misses.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/medguard-server/internal/domain"
)

// LRUCache is an in-process bounded profile cache.
type LRUCache struct {
	entries *lru.Cache[string, *domain.DrugProfile]
}

// NewLRUCache creates an LRU profile cache holding up to size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, *domain.DrugProfile](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get returns the cached profile for a drug, if present.
func (c *LRUCache) Get(_ context.Context, drugID string) (*domain.DrugProfile, bool) {
	return c.entries.Get(drugID)
}

// Set stores a profile, evicting the least recently used entry if full.
func (c *LRUCache) Set(_ context.Context, drugID string, profile *domain.DrugProfile) {
	c.entries.Add(drugID, profile)
}

// Len returns the number of cached profiles.
func (c *LRUCache) Len() int {
	return c.entries.Len()
}

// NopCache is a ProfileCache that caches nothing. Used when caching is
// disabled by configuration.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) (*domain.DrugProfile, bool) { return nil, false }

// Set discards the profile.
func (NopCache) Set(context.Context, string, *domain.DrugProfile) {}
