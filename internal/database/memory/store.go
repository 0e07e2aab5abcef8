// Package memory is the in-process storage engine.
//
// One transaction runs at a time; every write records an undo step so a
// rollback restores the exact prior state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/repository"
)

type cooldownKey struct {
	characterID uuid.UUID
	action      string
}

type positionKey struct {
	characterID uuid.UUID
	symbol      string
}

type inventoryKey struct {
	characterID uuid.UUID
	itemID      string
}

type achievementKey struct {
	characterID   uuid.UUID
	achievementID string
}

type state struct {
	characters   map[uuid.UUID]domain.Character
	cooldowns    map[cooldownKey]domain.Cooldown
	crimes       []domain.CommittedCrime
	missions     []domain.CompletedMission
	gymSessions  []domain.GymSession
	battles      []domain.Battle
	bounties     map[uuid.UUID]domain.Bounty
	instruments  map[string]domain.StockInstrument
	positions    map[positionKey]domain.StockPosition
	inventory    map[inventoryKey]domain.InventoryItem
	properties   map[uuid.UUID]domain.OwnedProperty
	achievements map[achievementKey]domain.EarnedAchievement
}

var _ repository.Store = (*Store)(nil)

// Store is the in-memory implementation of repository.Store
type Store struct {
	mu sync.Mutex
	s  *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{s: &state{
		characters:   make(map[uuid.UUID]domain.Character),
		cooldowns:    make(map[cooldownKey]domain.Cooldown),
		bounties:     make(map[uuid.UUID]domain.Bounty),
		instruments:  make(map[string]domain.StockInstrument),
		positions:    make(map[positionKey]domain.StockPosition),
		inventory:    make(map[inventoryKey]domain.InventoryItem),
		properties:   make(map[uuid.UUID]domain.OwnedProperty),
		achievements: make(map[achievementKey]domain.EarnedAchievement),
	}}
}

// BeginTx blocks until no other transaction is open
func (st *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	locked := make(chan struct{})
	go func() {
		st.mu.Lock()
		close(locked)
	}()

	select {
	case <-locked:
		return &tx{store: st, s: st.s}, nil
	case <-ctx.Done():
		// Release the lock once the pending acquisition completes
		go func() {
			<-locked
			st.mu.Unlock()
		}()
		return nil, ctx.Err()
	}
}

// Ping always succeeds
func (st *Store) Ping(ctx context.Context) error {
	return nil
}

// tx is a single open transaction holding the store lock
type tx struct {
	store *Store
	s     *state
	undo  []func()
	done  bool
}

func (t *tx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *tx) finish() {
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
}

// Commit keeps every write and releases the store
func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return repository.ErrTxClosed
	}
	t.finish()
	return nil
}

// Rollback replays the undo log in reverse and releases the store
func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return repository.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.finish()
	return nil
}

func (t *tx) check() error {
	if t.done {
		return repository.ErrTxClosed
	}
	return nil
}

// restoreMapEntry returns an undo step putting m[k] back to its current state
func restoreMapEntry[K comparable, V any](m map[K]V, k K) func() {
	prev, existed := m[k]
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

// newestFirst keeps at most limit items from an append-ordered slice, newest first
func newestFirst[T any](rows []T, keep func(T) bool, limit int) []T {
	out := make([]T, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
