package economy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

const tracerName = "github.com/osse101/Underworld_Go/internal/economy"

// Service defines the interface for money, market, shop, property, bounty and travel operations
type Service interface {
	// Ledger
	Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal, reason string) (*domain.Character, error)
	Debit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal, reason string) (*domain.Character, error)
	Deposit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal) (*domain.Character, error)
	Withdraw(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal) (*domain.Character, error)

	// Stock market
	SeedInstruments(ctx context.Context) error
	Instruments(ctx context.Context) ([]domain.StockInstrument, error)
	Portfolio(ctx context.Context, characterID uuid.UUID) ([]domain.StockPosition, error)
	TradeStock(ctx context.Context, characterID uuid.UUID, symbol string, shares int64, side Side) (*TradeResult, error)
	PayDividends(ctx context.Context) (int, error)

	// Shop and inventory
	BuyItem(ctx context.Context, characterID uuid.UUID, itemID string, quantity int) (*PurchaseResult, error)
	UseItem(ctx context.Context, characterID uuid.UUID, itemID string) (*domain.Character, error)
	EquipItem(ctx context.Context, characterID uuid.UUID, itemID string) ([]domain.InventoryItem, error)
	Inventory(ctx context.Context, characterID uuid.UUID) ([]domain.InventoryItem, error)

	// Property
	BuyProperty(ctx context.Context, characterID uuid.UUID, propertyID string) (*domain.OwnedProperty, error)
	Properties(ctx context.Context, characterID uuid.UUID) ([]domain.OwnedProperty, error)
	CollectPropertyIncome(ctx context.Context) (int, error)

	// Bounties
	PlaceBounty(ctx context.Context, placerID, targetID uuid.UUID, amount decimal.Decimal, description string) (*domain.Bounty, error)
	CancelBounty(ctx context.Context, placerID, bountyID uuid.UUID) (*domain.Bounty, error)
	ActiveBounties(ctx context.Context, targetID uuid.UUID) ([]domain.Bounty, error)

	// Travel
	Travel(ctx context.Context, characterID uuid.UUID, locationID string) (*domain.Character, error)
}

// AchievementEvaluator re-checks achievements after money or property changes
type AchievementEvaluator interface {
	Reevaluate(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error)
}

// Config holds economy tunables
type Config struct {
	RetryAttempts int
	PriceImpact   float64
	DevMode       bool
}

type service struct {
	store        repository.Store
	catalog      catalog.Catalog
	locks        *concurrency.LockManager
	clock        clock.Clock
	bus          event.Bus
	achievements AchievementEvaluator
	tracer       trace.Tracer
	config       Config
}

// NewService creates a new economy service. achievements may be nil.
func NewService(store repository.Store, cat catalog.Catalog, locks *concurrency.LockManager, clk clock.Clock, bus event.Bus, achievements AchievementEvaluator, config Config) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	if config.PriceImpact <= 0 {
		config.PriceImpact = DefaultPriceImpact
	}
	return &service{
		store:        store,
		catalog:      cat,
		locks:        locks,
		clock:        clk,
		bus:          bus,
		achievements: achievements,
		tracer:       otel.Tracer(tracerName),
		config:       config,
	}
}

// transact runs fn in one transaction while holding the character locks,
// retrying the whole read-compute-write on version conflicts
func (s *service) transact(ctx context.Context, ids []uuid.UUID, fn func(tx repository.Tx, now time.Time) error) error {
	unlock := s.locks.LockCharacters(ids...)
	defer unlock()
	return s.retryTx(ctx, fn)
}

// retryTx expects the caller to hold whatever locks the operation needs
func (s *service) retryTx(ctx context.Context, fn func(tx repository.Tx, now time.Time) error) error {
	_, err := concurrency.RetryOnConflict(ctx, s.config.RetryAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			return fn(tx, s.clock.Now())
		})
	})
	return err
}

// reevaluate runs after commit, never while the character lock is held
func (s *service) reevaluate(ctx context.Context, ids ...uuid.UUID) {
	if s.achievements == nil {
		return
	}
	for _, id := range ids {
		if _, err := s.achievements.Reevaluate(ctx, id); err != nil {
			logger.ForCharacter(ctx, id).Warn(LogMsgReevaluateFailed, "error", err)
		}
	}
}

func (s *service) publish(ctx context.Context, t event.Type, payload interface{}) {
	_ = s.bus.Publish(ctx, event.New(t, payload, s.clock.Now()))
}

// endSpan records err on the span before ending it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
