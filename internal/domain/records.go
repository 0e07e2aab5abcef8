package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cooldown action key prefixes
const (
	ActionPrefixCrime   = "crime:"
	ActionPrefixMission = "mission:"
	ActionTravel        = "travel"
)

// CrimeAction returns the cooldown key for a crime
func CrimeAction(crimeID string) string { return ActionPrefixCrime + crimeID }

// MissionAction returns the cooldown key for a mission
func MissionAction(missionID string) string { return ActionPrefixMission + missionID }

// Cooldown records when a gated action becomes available again
type Cooldown struct {
	CharacterID     uuid.UUID `json:"character_id"`
	Action          string    `json:"action"`
	NextAvailableAt time.Time `json:"next_available_at"`
}

// CommittedCrime is an immutable crime attempt
type CommittedCrime struct {
	ID               uuid.UUID       `json:"id"`
	CharacterID      uuid.UUID       `json:"character_id"`
	CrimeID          string          `json:"crime_id"`
	Success          bool            `json:"success"`
	Caught           bool            `json:"caught"`
	MoneyEarned      decimal.Decimal `json:"money_earned"`
	ExperienceEarned int64           `json:"experience_earned"`
	CommittedAt      time.Time       `json:"committed_at"`
	NextAvailableAt  time.Time       `json:"next_available_at"`
}

// CompletedMission is an immutable mission completion
type CompletedMission struct {
	ID               uuid.UUID       `json:"id"`
	CharacterID      uuid.UUID       `json:"character_id"`
	MissionID        string          `json:"mission_id"`
	MoneyEarned      decimal.Decimal `json:"money_earned"`
	ExperienceEarned int64           `json:"experience_earned"`
	ItemsGranted     []string        `json:"items_granted,omitempty"`
	CompletedAt      time.Time       `json:"completed_at"`
	NextAvailableAt  time.Time       `json:"next_available_at"`
}

// GymSession is an immutable training session
type GymSession struct {
	ID          uuid.UUID       `json:"id"`
	CharacterID uuid.UUID       `json:"character_id"`
	GymID       string          `json:"gym_id"`
	Stat        StatName        `json:"stat_trained"`
	EnergyUsed  int             `json:"energy_used"`
	StatGain    int             `json:"stat_gain"`
	MoneySpent  decimal.Decimal `json:"money_spent"`
	TrainedAt   time.Time       `json:"trained_at"`
}

// Battle is an immutable player-vs-player result
type Battle struct {
	ID                uuid.UUID       `json:"id"`
	AttackerID        uuid.UUID       `json:"attacker_id"`
	DefenderID        uuid.UUID       `json:"defender_id"`
	AttackerWon       bool            `json:"attacker_won"`
	AttackerDamage    int             `json:"attacker_damage_dealt"`
	DefenderDamage    int             `json:"defender_damage_dealt"`
	MoneyStolen       decimal.Decimal `json:"money_stolen"`
	ExperienceGained  int64           `json:"experience_gained"`
	LoserHospitalized bool            `json:"loser_hospitalized"`
	BountyID          *uuid.UUID      `json:"bounty_id,omitempty"`
	BountyPaid        decimal.Decimal `json:"bounty_paid"`
	FoughtAt          time.Time       `json:"fought_at"`
}

// WinnerID returns the id of the winning side
func (b Battle) WinnerID() uuid.UUID {
	if b.AttackerWon {
		return b.AttackerID
	}
	return b.DefenderID
}

// LoserID returns the id of the losing side
func (b Battle) LoserID() uuid.UUID {
	if b.AttackerWon {
		return b.DefenderID
	}
	return b.AttackerID
}

// Bounty is an escrowed conditional payout on a target
type Bounty struct {
	ID          uuid.UUID       `json:"id"`
	PlacerID    uuid.UUID       `json:"placer_id"`
	TargetID    uuid.UUID       `json:"target_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Active      bool            `json:"is_active"`
	PlacedAt    time.Time       `json:"placed_at"`
	ClaimedBy   *uuid.UUID      `json:"claimed_by,omitempty"`
	ClaimedAt   *time.Time      `json:"claimed_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// StockInstrument is the shared mutable market state of one symbol
type StockInstrument struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PreviousPrice    decimal.Decimal `json:"previous_price"`
	TotalShares      int64           `json:"total_shares"`
	AvailableShares  int64           `json:"available_shares"`
	DividendPercent  float64         `json:"dividend_percentage"`
	DividendInterval time.Duration   `json:"dividend_interval"`
	NextDividendAt   time.Time       `json:"next_dividend_at"`
	Version          int64           `json:"version"`
}

// StockPosition is a character's holding in one instrument
type StockPosition struct {
	CharacterID  uuid.UUID       `json:"character_id"`
	Symbol       string          `json:"symbol"`
	Shares       int64           `json:"shares"`
	AveragePrice decimal.Decimal `json:"purchase_price"`
	PurchasedAt  time.Time       `json:"purchase_date"`
}

// InventoryItem is a stack of one item owned by a character
type InventoryItem struct {
	CharacterID uuid.UUID `json:"character_id"`
	ItemID      string    `json:"item_id"`
	Quantity    int       `json:"quantity"`
	Equipped    bool      `json:"equipped"`
}

// OwnedProperty is one property held by a character
type OwnedProperty struct {
	ID           uuid.UUID `json:"id"`
	CharacterID  uuid.UUID `json:"character_id"`
	PropertyID   string    `json:"property_id"`
	PurchasedAt  time.Time `json:"purchase_date"`
	LastIncomeAt time.Time `json:"last_income_at"`
}

// EarnedAchievement is unique per (character, achievement)
type EarnedAchievement struct {
	CharacterID   uuid.UUID `json:"character_id"`
	AchievementID string    `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// ActivityCounters are the cumulative statistics achievements are evaluated against
type ActivityCounters struct {
	CrimesCommitted   int64           `json:"crimes_committed"`
	BattlesWon        int64           `json:"battles_won"`
	MissionsCompleted int64           `json:"missions_completed"`
	Level             int             `json:"level"`
	LifetimeEarned    decimal.Decimal `json:"lifetime_earned"`
	PropertiesOwned   int64           `json:"properties_owned"`
}

// History is the recent activity of a character
type History struct {
	Crimes   []CommittedCrime   `json:"recent_crimes"`
	Missions []CompletedMission `json:"recent_missions"`
	Battles  []Battle           `json:"recent_battles"`
}
