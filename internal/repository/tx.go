package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// Store is implemented by every storage engine
type Store interface {
	BeginTx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
}

// Tx defines the interface for transactional operations.
// Reads inside a Tx observe the Tx's own writes. Nothing is visible to other
// transactions until Commit.
type Tx interface {
	CharacterTx
	CooldownTx
	HistoryTx
	BountyTx
	MarketTx
	InventoryTx
	PropertyTx
	AchievementTx

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// CharacterTx holds character record operations
type CharacterTx interface {
	// GetCharacter returns domain.ErrCharacterNotFound for unknown ids.
	// The PostgreSQL engine locks the row for the rest of the transaction.
	GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error)
	InsertCharacter(ctx context.Context, c *domain.Character) error
	// SaveCharacter writes c when the stored version equals expectedVersion,
	// otherwise it returns domain.ErrConflict.
	SaveCharacter(ctx context.Context, c *domain.Character, expectedVersion int64) error
	// DeleteCharacter removes the character and every row referencing it
	DeleteCharacter(ctx context.Context, id uuid.UUID) error
	ListCharacterIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CooldownTx holds per-action cooldown operations
type CooldownTx interface {
	// GetCooldown returns nil when no cooldown was ever recorded
	GetCooldown(ctx context.Context, characterID uuid.UUID, action string) (*domain.Cooldown, error)
	SetCooldown(ctx context.Context, cd domain.Cooldown) error
}

// HistoryTx holds the append-only activity rows
type HistoryTx interface {
	InsertCommittedCrime(ctx context.Context, c *domain.CommittedCrime) error
	InsertCompletedMission(ctx context.Context, m *domain.CompletedMission) error
	InsertGymSession(ctx context.Context, s *domain.GymSession) error
	InsertBattle(ctx context.Context, b *domain.Battle) error
	// GetHistory returns the newest rows first, at most limit of each kind
	GetHistory(ctx context.Context, characterID uuid.UUID, limit int) (*domain.History, error)
	// CountActivity fills the row-derived counters (crimes, battles won,
	// missions, properties). Level and lifetime earnings come from the character.
	CountActivity(ctx context.Context, characterID uuid.UUID) (domain.ActivityCounters, error)
}

// BountyTx holds bounty operations
type BountyTx interface {
	InsertBounty(ctx context.Context, b *domain.Bounty) error
	GetBounty(ctx context.Context, id uuid.UUID) (*domain.Bounty, error)
	UpdateBounty(ctx context.Context, b *domain.Bounty) error
	// ListActiveBounties returns the target's active bounties, oldest first
	ListActiveBounties(ctx context.Context, targetID uuid.UUID) ([]domain.Bounty, error)
}

// MarketTx holds stock instrument and position operations
type MarketTx interface {
	// GetInstrument returns domain.ErrInstrumentNotFound for unknown symbols.
	// The PostgreSQL engine locks the row for the rest of the transaction.
	GetInstrument(ctx context.Context, symbol string) (*domain.StockInstrument, error)
	// InsertInstrument is a no-op when the symbol already exists
	InsertInstrument(ctx context.Context, inst *domain.StockInstrument) error
	SaveInstrument(ctx context.Context, inst *domain.StockInstrument, expectedVersion int64) error
	ListInstruments(ctx context.Context) ([]domain.StockInstrument, error)
	// GetPosition returns nil when the character holds no shares
	GetPosition(ctx context.Context, characterID uuid.UUID, symbol string) (*domain.StockPosition, error)
	// SavePosition upserts; a position with zero shares is removed
	SavePosition(ctx context.Context, pos domain.StockPosition) error
	ListPositions(ctx context.Context, symbol string) ([]domain.StockPosition, error)
}

// InventoryTx holds inventory operations
type InventoryTx interface {
	GetInventory(ctx context.Context, characterID uuid.UUID) ([]domain.InventoryItem, error)
	// SaveInventoryItem upserts; an item with zero quantity is removed
	SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error
}

// PropertyTx holds owned property operations
type PropertyTx interface {
	InsertOwnedProperty(ctx context.Context, p *domain.OwnedProperty) error
	ListOwnedProperties(ctx context.Context, characterID uuid.UUID) ([]domain.OwnedProperty, error)
	ListAllOwnedProperties(ctx context.Context) ([]domain.OwnedProperty, error)
	MarkPropertyIncome(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AchievementTx holds earned achievement operations
type AchievementTx interface {
	// InsertEarnedAchievement reports false when the pair already exists
	InsertEarnedAchievement(ctx context.Context, e domain.EarnedAchievement) (bool, error)
	ListEarnedAchievements(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error)
}
