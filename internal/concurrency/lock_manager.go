package concurrency

import (
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Lock key prefixes
const (
	KeyPrefixCharacter = "character:"
	KeyPrefixStock     = "stock:"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// LockCharacters locks every distinct character in ascending id order and
// returns the matching unlock function. Two callers locking overlapping sets
// therefore never deadlock.
func (lm *LockManager) LockCharacters(ids ...uuid.UUID) (unlock func()) {
	keys := make([]string, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, id.String())
	}
	sort.Strings(keys)

	held := make([]*sync.Mutex, 0, len(keys))
	for _, k := range keys {
		mu := lm.GetLock(KeyPrefixCharacter + k)
		mu.Lock()
		held = append(held, mu)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// LockInstrument locks one stock symbol for the duration of a trade
func (lm *LockManager) LockInstrument(symbol string) (unlock func()) {
	mu := lm.GetLock(KeyPrefixStock + symbol)
	mu.Lock()
	return mu.Unlock
}

// LockInstruments locks every distinct symbol in sorted order. Callers that
// also need character locks take those first.
func (lm *LockManager) LockInstruments(symbols ...string) (unlock func()) {
	sorted := slices.Clone(symbols)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, sym := range sorted {
		mu := lm.GetLock(KeyPrefixStock + sym)
		mu.Lock()
		held = append(held, mu)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
