package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CharacterType is the faction a character belongs to
type CharacterType string

const (
	CharacterCriminal CharacterType = "criminal"
	CharacterPolice   CharacterType = "police"
)

// Status is the availability state of a character
type Status string

const (
	StatusFree         Status = "free"
	StatusJailed       Status = "jailed"
	StatusHospitalized Status = "hospitalized"
)

// StatName identifies one trainable stat
type StatName string

const (
	StatStrength  StatName = "strength"
	StatSpeed     StatName = "speed"
	StatDexterity StatName = "dexterity"
	StatDefense   StatName = "defense"
)

// Valid reports whether s is one of the four trainable stats
func (s StatName) Valid() bool {
	switch s {
	case StatStrength, StatSpeed, StatDexterity, StatDefense:
		return true
	}
	return false
}

// Stats is the trainable stat block
type Stats struct {
	Strength  int `json:"strength"`
	Speed     int `json:"speed"`
	Dexterity int `json:"dexterity"`
	Defense   int `json:"defense"`
}

// Get returns the value of the named stat
func (s Stats) Get(name StatName) int {
	switch name {
	case StatStrength:
		return s.Strength
	case StatSpeed:
		return s.Speed
	case StatDexterity:
		return s.Dexterity
	case StatDefense:
		return s.Defense
	}
	return 0
}

// Pool is a capped vital resource
type Pool struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Valid reports whether the pool respects 0 <= current <= max
func (p Pool) Valid() bool {
	return p.Current >= 0 && p.Current <= p.Max && p.Max >= 0
}

// StatusWindow is a time-bounded unavailability period
type StatusWindow struct {
	Status    Status    `json:"status"`
	ReleaseAt time.Time `json:"release_at,omitempty"`
}

// ActiveAt returns the effective status at now, applying lazy expiry
func (w StatusWindow) ActiveAt(now time.Time) Status {
	if w.Status == "" || w.Status == StatusFree {
		return StatusFree
	}
	if !now.Before(w.ReleaseAt) {
		return StatusFree
	}
	return w.Status
}

// Expired reports whether a stored non-free window has passed its release time
func (w StatusWindow) Expired(now time.Time) bool {
	return w.Status != "" && w.Status != StatusFree && !now.Before(w.ReleaseAt)
}

// Character is the durable record of one player's character
type Character struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Type            CharacterType   `json:"character_type"`
	Stats           Stats           `json:"stats"`
	Level           int             `json:"level"`
	Experience      int64           `json:"experience"`
	KnowledgePoints int             `json:"knowledge_points"`
	Life            Pool            `json:"life"`
	Energy          Pool            `json:"energy"`
	Endurance       Pool            `json:"endurance"`
	Mood            Pool            `json:"mood"`
	Money           decimal.Decimal `json:"money"`
	BankMoney       decimal.Decimal `json:"bank_money"`
	LifetimeEarned  decimal.Decimal `json:"lifetime_earned"`
	Status          StatusWindow    `json:"status"`
	Location        string          `json:"location"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Clone returns a copy safe to mutate
func (c Character) Clone() *Character {
	cp := c
	return &cp
}

// AvailabilityAt returns the effective status at now
func (c *Character) AvailabilityAt(now time.Time) Status {
	return c.Status.ActiveAt(now)
}

// CheckInvariants validates the record-level invariants
func (c *Character) CheckInvariants() error {
	for _, p := range []Pool{c.Life, c.Energy, c.Endurance, c.Mood} {
		if !p.Valid() {
			return ErrInvariantViolation
		}
	}
	if c.Money.IsNegative() || c.BankMoney.IsNegative() {
		return ErrInvariantViolation
	}
	if c.Level < 1 || c.Experience < 0 || c.KnowledgePoints < 0 {
		return ErrInvariantViolation
	}
	return nil
}

// NewCharacter returns a character with starting attributes
func NewCharacter(name string, charType CharacterType, now time.Time) *Character {
	if charType == "" {
		charType = CharacterCriminal
	}
	return &Character{
		ID:   uuid.New(),
		Name: name,
		Type: charType,
		Stats: Stats{
			Strength:  DefaultStat,
			Speed:     DefaultStat,
			Dexterity: DefaultStat,
			Defense:   DefaultStat,
		},
		Level:     1,
		Life:      Pool{Current: DefaultPool, Max: DefaultPool},
		Energy:    Pool{Current: DefaultPool, Max: DefaultPool},
		Endurance: Pool{Current: DefaultPool, Max: DefaultPool},
		Mood:      Pool{Current: DefaultPool, Max: DefaultPool},
		Money:     Money(DefaultStartingMoney),
		BankMoney: decimal.Zero,
		Status:    StatusWindow{Status: StatusFree},
		Location:  DefaultLocation,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Character defaults
const (
	DefaultStat          = 10
	DefaultPool          = 100
	DefaultStartingMoney = "1000.00"
	DefaultLocation      = "Home City"
)
