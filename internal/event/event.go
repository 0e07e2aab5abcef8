package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// Type represents the type of event
type Type string

// Metadata carries optional out-of-band information about an event
type Metadata map[string]interface{}

// Event represents a domain event
type Event struct {
	Version   string      `json:"version"` // Event schema version (e.g., "1.0")
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Metadata  Metadata    `json:"metadata,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// GetMetadataValue safely retrieves a value from metadata
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Event types
const (
	CharacterCreated  Type = domain.EventTypeCharacterCreated
	CharacterReleased Type = domain.EventTypeCharacterReleased
	CharacterTravel   Type = domain.EventTypeTravelled

	CrimeCommitted   Type = domain.EventTypeCrimeCommitted
	MissionCompleted Type = domain.EventTypeMissionCompleted
	GymTrained       Type = domain.EventTypeGymTrained
	BattleResolved   Type = domain.EventTypeBattleResolved

	BountyPlaced    Type = domain.EventTypeBountyPlaced
	BountyClaimed   Type = domain.EventTypeBountyClaimed
	BountyCancelled Type = domain.EventTypeBountyCancelled

	MoneyCredited     Type = domain.EventTypeMoneyCredited
	MoneyDebited      Type = domain.EventTypeMoneyDebited
	MoneyTransferred  Type = domain.EventTypeMoneyTransfer
	StockTraded       Type = domain.EventTypeStockTraded
	DividendPaid      Type = domain.EventTypeDividendPaid
	ItemBought        Type = domain.EventTypeItemBought
	ItemUsed          Type = domain.EventTypeItemUsed
	PropertyBought    Type = domain.EventTypePropertyBought
	PropertyIncome    Type = domain.EventTypeIncomePaid
	AchievementEarned Type = domain.EventTypeAchievementEarned
)

// AllTypes lists every event type published by the core
var AllTypes = []Type{
	CharacterCreated, CharacterReleased, CharacterTravel,
	CrimeCommitted, MissionCompleted, GymTrained, BattleResolved,
	BountyPlaced, BountyClaimed, BountyCancelled,
	MoneyCredited, MoneyDebited, MoneyTransferred,
	StockTraded, DividendPaid, ItemBought, ItemUsed,
	PropertyBought, PropertyIncome, AchievementEarned,
}

// CharacterPayloadV1 is the typed payload for character lifecycle events
type CharacterPayloadV1 struct {
	CharacterID string     `json:"character_id"`
	Name        string     `json:"name,omitempty"`
	Status      string     `json:"status,omitempty"`
	Location    string     `json:"location,omitempty"`
	ReleaseAt   *time.Time `json:"release_at,omitempty"`
}

// EncounterPayloadV1 is the typed payload for crime, mission and gym events
type EncounterPayloadV1 struct {
	CharacterID string          `json:"character_id"`
	ActivityID  string          `json:"activity_id"`
	Success     bool            `json:"success"`
	Caught      bool            `json:"caught,omitempty"`
	Money       decimal.Decimal `json:"money"`
	Experience  int64           `json:"experience"`
	StatGain    int             `json:"stat_gain,omitempty"`
	ReleaseAt   *time.Time      `json:"release_at,omitempty"`
}

// BattlePayloadV1 is the typed payload for battle events
type BattlePayloadV1 struct {
	BattleID     string          `json:"battle_id"`
	AttackerID   string          `json:"attacker_id"`
	DefenderID   string          `json:"defender_id"`
	WinnerID     string          `json:"winner_id"`
	MoneyStolen  decimal.Decimal `json:"money_stolen"`
	BountyPaid   decimal.Decimal `json:"bounty_paid"`
	Hospitalized bool            `json:"hospitalized"`
	ReleaseAt    *time.Time      `json:"release_at,omitempty"`
}

// LoserID returns the id of the character that lost the battle
func (p BattlePayloadV1) LoserID() string {
	if p.WinnerID == p.AttackerID {
		return p.DefenderID
	}
	return p.AttackerID
}

// MoneyPayloadV1 is the typed payload for ledger movements
type MoneyPayloadV1 struct {
	CharacterID    string          `json:"character_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
}

// BountyPayloadV1 is the typed payload for bounty events
type BountyPayloadV1 struct {
	BountyID  string          `json:"bounty_id"`
	PlacerID  string          `json:"placer_id"`
	TargetID  string          `json:"target_id"`
	ClaimedBy string          `json:"claimed_by,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// TradePayloadV1 is the typed payload for stock trades and dividends
type TradePayloadV1 struct {
	CharacterID string          `json:"character_id,omitempty"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side,omitempty"`
	Shares      int64           `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchasePayloadV1 is the typed payload for item and property events
type PurchasePayloadV1 struct {
	CharacterID string          `json:"character_id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// AchievementPayloadV1 is the typed payload for achievement events
type AchievementPayloadV1 struct {
	CharacterID     string `json:"character_id"`
	AchievementID   string `json:"achievement_id"`
	KnowledgePoints int    `json:"knowledge_points"`
}

// New builds a versioned event stamped at now
func New(eventType Type, payload interface{}, now time.Time) Event {
	return Event{
		Version:   EventSchemaVersion,
		Type:      eventType,
		Payload:   payload,
		Timestamp: now,
	}
}

// WithMetadata returns a copy of the event carrying key=value
func (e Event) WithMetadata(key string, value interface{}) Event {
	md := make(Metadata, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	// Handlers run synchronously on the publisher's goroutine
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to every event type the core publishes
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}

// Discard is a Bus that drops every event
type Discard struct{}

// Publish does nothing
func (Discard) Publish(ctx context.Context, event Event) error { return nil }

// Subscribe does nothing
func (Discard) Subscribe(eventType Type, handler Handler) {}

// DecodePayload returns the payload as T. Payloads published in-process are
// already typed; payloads read back from the journal arrive as maps and are
// converted through JSON.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
