package achievement

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheSchemaVersion invalidates entries written by an older layout
const CacheSchemaVersion = "1.0"

type cachedEarned struct {
	Version  string
	EarnedAt time.Time
}

// earnedCache remembers (character, achievement) pairs already in the store.
// A miss only means the store must be consulted.
type earnedCache struct {
	lru *expirable.LRU[string, cachedEarned]
}

func newEarnedCache(size int, ttl time.Duration) *earnedCache {
	return &earnedCache{
		lru: expirable.NewLRU[string, cachedEarned](size, nil, ttl),
	}
}

func cacheKey(characterID uuid.UUID, achievementID string) string {
	return characterID.String() + ":" + achievementID
}

// Has reports whether the pair is known to be earned
func (c *earnedCache) Has(characterID uuid.UUID, achievementID string) bool {
	key := cacheKey(characterID, achievementID)
	entry, ok := c.lru.Get(key)
	if !ok {
		return false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return false
	}
	return true
}

// Add records an earned pair
func (c *earnedCache) Add(characterID uuid.UUID, achievementID string, earnedAt time.Time) {
	c.lru.Add(cacheKey(characterID, achievementID), cachedEarned{Version: CacheSchemaVersion, EarnedAt: earnedAt})
}

// Len returns the number of cached pairs
func (c *earnedCache) Len() int {
	return c.lru.Len()
}
