package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Check for common "closed" errors to avoid noise
		if !errors.Is(err, ErrTxClosed) && err.Error() != domain.ErrMsgTxClosed {
			logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
		}
	}
}

// WithTx runs fn inside a transaction and commits when fn succeeds
func WithTx(ctx context.Context, store Store, fn func(tx Tx) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgCommitTx, err)
	}
	return nil
}

// ReadTx runs fn inside a transaction that is always rolled back
func ReadTx(ctx context.Context, store Store, fn func(tx Tx) error) error {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgBeginTx, err)
	}
	defer SafeRollback(ctx, tx)
	return fn(tx)
}

// ApplyDelta loads the character, applies d and writes the result when the
// stored version still equals expectedVersion. The written record carries
// version expectedVersion+1.
func ApplyDelta(ctx context.Context, tx CharacterTx, id uuid.UUID, d domain.Delta, expectedVersion int64, now time.Time) (*domain.Character, error) {
	current, err := tx.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Version != expectedVersion {
		return nil, fmt.Errorf("%w: character %s at version %d, expected %d", domain.ErrConflict, id, current.Version, expectedVersion)
	}

	next, err := current.Apply(d, now)
	if err != nil {
		return nil, err
	}
	next.Version = expectedVersion + 1
	next.UpdatedAt = now

	if err := tx.SaveCharacter(ctx, next, expectedVersion); err != nil {
		return nil, err
	}
	return next, nil
}

// SortedIDs returns the distinct ids in ascending byte order, the order
// PostgreSQL compares uuid values in
func SortedIDs(ids ...uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return out
}

// GetCharacters reads every distinct id in ascending order. Engines that lock
// on read take their row locks in that order, so transactions touching an
// overlapping pair of characters queue instead of deadlocking.
func GetCharacters(ctx context.Context, tx CharacterTx, ids ...uuid.UUID) (map[uuid.UUID]*domain.Character, error) {
	out := make(map[uuid.UUID]*domain.Character, len(ids))
	for _, id := range SortedIDs(ids...) {
		c, err := tx.GetCharacter(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}

// Counters combines the row-derived counters with the character's own progress
func Counters(ctx context.Context, tx Tx, c *domain.Character) (domain.ActivityCounters, error) {
	counters, err := tx.CountActivity(ctx, c.ID)
	if err != nil {
		return domain.ActivityCounters{}, fmt.Errorf("%s: %w", ErrMsgCountActivity, err)
	}
	counters.Level = c.Level
	counters.LifetimeEarned = c.LifetimeEarned
	return counters, nil
}

// FindInventoryItem returns the character's stack of itemID, empty when not owned
func FindInventoryItem(ctx context.Context, tx InventoryTx, characterID uuid.UUID, itemID string) (domain.InventoryItem, error) {
	items, err := tx.GetInventory(ctx, characterID)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	for _, it := range items {
		if it.ItemID == itemID {
			return it, nil
		}
	}
	return domain.InventoryItem{CharacterID: characterID, ItemID: itemID}, nil
}

// AddInventory adds quantity to a stack and returns the new total
func AddInventory(ctx context.Context, tx InventoryTx, characterID uuid.UUID, itemID string, quantity int) (int, error) {
	stack, err := FindInventoryItem(ctx, tx, characterID, itemID)
	if err != nil {
		return 0, err
	}
	stack.Quantity += quantity
	if err := tx.SaveInventoryItem(ctx, stack); err != nil {
		return 0, err
	}
	return stack.Quantity, nil
}
