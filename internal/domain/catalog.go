package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Requirements are the level and stat gates shared by crimes and missions
type Requirements struct {
	Level     int `yaml:"required_level" json:"required_level" validate:"gte=0"`
	Strength  int `yaml:"required_strength" json:"required_strength" validate:"gte=0"`
	Speed     int `yaml:"required_speed" json:"required_speed" validate:"gte=0"`
	Dexterity int `yaml:"required_dexterity" json:"required_dexterity" validate:"gte=0"`
	Defense   int `yaml:"required_defense" json:"required_defense" validate:"gte=0"`
}

// Check returns an IneligibleError naming the first gate c fails
func (r Requirements) Check(c *Character) error {
	if c.Level < r.Level {
		return IneligibleError{Gate: GateLevel, Detail: fmt.Sprintf("requires level %d", r.Level)}
	}
	gates := []struct {
		stat StatName
		min  int
	}{
		{StatStrength, r.Strength},
		{StatSpeed, r.Speed},
		{StatDexterity, r.Dexterity},
		{StatDefense, r.Defense},
	}
	for _, g := range gates {
		if c.Stats.Get(g.stat) < g.min {
			return IneligibleError{Gate: string(g.stat), Detail: fmt.Sprintf("requires %d", g.min)}
		}
	}
	return nil
}

// Eligibility gate names
const (
	GateLevel    = "level"
	GateLocation = "location"
	GateSelf     = "self"
	GateOwner    = "owner"
	GateItemKind = "item_kind"
)

// Crime is a catalog definition of a risky action
type Crime struct {
	ID               string `yaml:"id" json:"id" validate:"required"`
	Name             string `yaml:"name" json:"name" validate:"required"`
	Description      string `yaml:"description" json:"description"`
	Requirements     `yaml:",inline" json:"requirements"`
	EnergyCost       int             `yaml:"energy_cost" json:"energy_cost" validate:"gte=0"`
	ExperienceReward int64           `yaml:"experience_reward" json:"experience_reward" validate:"gte=0"`
	MoneyRewardMin   decimal.Decimal `yaml:"money_reward_min" json:"money_reward_min"`
	MoneyRewardMax   decimal.Decimal `yaml:"money_reward_max" json:"money_reward_max"`
	// SuccessChance is the percent chance the crime pays out
	SuccessChance int `yaml:"success_chance" json:"success_chance" validate:"gte=0,lte=100"`
	// JailRisk is the percent chance of being caught, rolled independently
	JailRisk        int `yaml:"jail_risk" json:"jail_risk" validate:"gte=0,lte=100"`
	JailTimeMinutes int `yaml:"jail_time" json:"jail_time" validate:"gte=0"`
	CooldownMinutes int `yaml:"cooldown" json:"cooldown" validate:"gte=0"`
}

// JailTime returns the jail duration when caught
func (c Crime) JailTime() time.Duration { return time.Duration(c.JailTimeMinutes) * time.Minute }

// Cooldown returns the crime cooldown
func (c Crime) Cooldown() time.Duration { return time.Duration(c.CooldownMinutes) * time.Minute }

// MissionType classifies missions
type MissionType string

const (
	MissionCombat   MissionType = "combat"
	MissionDelivery MissionType = "delivery"
	MissionCrime    MissionType = "crime"
	MissionPolice   MissionType = "police"
)

// Mission is a deterministic-reward catalog action bound to a location
type Mission struct {
	ID               string      `yaml:"id" json:"id" validate:"required"`
	Name             string      `yaml:"name" json:"name" validate:"required"`
	Description      string      `yaml:"description" json:"description"`
	LocationID       string      `yaml:"location" json:"location" validate:"required"`
	Type             MissionType `yaml:"mission_type" json:"mission_type" validate:"omitempty,oneof=combat delivery crime police"`
	Difficulty       string      `yaml:"difficulty" json:"difficulty" validate:"omitempty,oneof=easy medium hard extreme"`
	Requirements     `yaml:",inline" json:"requirements"`
	EnergyCost       int             `yaml:"energy_cost" json:"energy_cost" validate:"gte=0"`
	ExperienceReward int64           `yaml:"experience_reward" json:"experience_reward" validate:"gte=0"`
	MoneyReward      decimal.Decimal `yaml:"money_reward" json:"money_reward"`
	ItemRewards      []string        `yaml:"item_rewards" json:"item_rewards"`
	CooldownMinutes  int             `yaml:"cooldown" json:"cooldown" validate:"gte=0"`
}

// Cooldown returns the mission cooldown
func (m Mission) Cooldown() time.Duration { return time.Duration(m.CooldownMinutes) * time.Minute }

// Gym is a training venue
type Gym struct {
	ID             string          `yaml:"id" json:"id" validate:"required"`
	Name           string          `yaml:"name" json:"name" validate:"required"`
	Description    string          `yaml:"description" json:"description"`
	RequiredLevel  int             `yaml:"required_level" json:"required_level" validate:"gte=0"`
	Effectiveness  float64         `yaml:"effectiveness" json:"effectiveness" validate:"gt=0"`
	CostPerSession decimal.Decimal `yaml:"cost_per_session" json:"cost_per_session"`
	// MaxGainPerSession caps the stat gain of one session; 0 means uncapped
	MaxGainPerSession int `yaml:"max_gain_per_session" json:"max_gain_per_session" validate:"gte=0"`
}

// ItemKind classifies shop items
type ItemKind string

const (
	ItemWeapon  ItemKind = "weapon"
	ItemArmor   ItemKind = "armor"
	ItemMedical ItemKind = "medical"
	ItemBooster ItemKind = "booster"
)

// BoosterType is the pool a booster restores
type BoosterType string

const (
	BoostEnergy BoosterType = "energy"
	BoostMood   BoosterType = "mood"
)

// Item is a purchasable good
type Item struct {
	ID            string          `yaml:"id" json:"id" validate:"required"`
	Name          string          `yaml:"name" json:"name" validate:"required"`
	Description   string          `yaml:"description" json:"description"`
	Kind          ItemKind        `yaml:"item_type" json:"item_type" validate:"required,oneof=weapon armor medical booster"`
	Price         decimal.Decimal `yaml:"price" json:"price"`
	Available     bool            `yaml:"is_available" json:"is_available"`
	AttackPower   int             `yaml:"attack_power" json:"attack_power,omitempty" validate:"gte=0"`
	DefensePower  int             `yaml:"defense_power" json:"defense_power,omitempty" validate:"gte=0"`
	HealingAmount int             `yaml:"healing_amount" json:"healing_amount,omitempty" validate:"gte=0"`
	BoosterType   BoosterType     `yaml:"booster_type" json:"booster_type,omitempty" validate:"omitempty,oneof=energy mood"`
	BoostAmount   int             `yaml:"boost_amount" json:"boost_amount,omitempty" validate:"gte=0"`
}

// Equippable reports whether the item occupies an equipment slot
func (i Item) Equippable() bool {
	return i.Kind == ItemWeapon || i.Kind == ItemArmor
}

// Consumable reports whether the item is used up on use
func (i Item) Consumable() bool {
	return i.Kind == ItemMedical || i.Kind == ItemBooster
}

// Property is real estate a character can own
type Property struct {
	ID             string          `yaml:"id" json:"id" validate:"required"`
	Name           string          `yaml:"name" json:"name" validate:"required"`
	Description    string          `yaml:"description" json:"description"`
	Type           string          `yaml:"property_type" json:"property_type" validate:"required,oneof=home business vault"`
	Price          decimal.Decimal `yaml:"price" json:"price"`
	HappinessBonus int             `yaml:"happiness_bonus" json:"happiness_bonus" validate:"gte=0"`
	IncomePerDay   decimal.Decimal `yaml:"income_per_day" json:"income_per_day"`
}

// Location is a place in the game world
type Location struct {
	ID                string          `yaml:"id" json:"id" validate:"required"`
	Name              string          `yaml:"name" json:"name" validate:"required"`
	Description       string          `yaml:"description" json:"description"`
	TravelCost        decimal.Decimal `yaml:"travel_cost" json:"travel_cost"`
	TravelTimeMinutes int             `yaml:"travel_time" json:"travel_time" validate:"gte=0"`
}

// TravelTime returns how long the travel cooldown lasts
func (l Location) TravelTime() time.Duration { return time.Duration(l.TravelTimeMinutes) * time.Minute }

// StockListing seeds a market instrument
type StockListing struct {
	Symbol           string          `yaml:"symbol" json:"symbol" validate:"required,max=10"`
	Name             string          `yaml:"name" json:"name" validate:"required"`
	Description      string          `yaml:"description" json:"description"`
	InitialPrice     decimal.Decimal `yaml:"initial_price" json:"initial_price"`
	TotalShares      int64           `yaml:"total_shares" json:"total_shares" validate:"gt=0"`
	DividendPercent  float64         `yaml:"dividend_percentage" json:"dividend_percentage" validate:"gte=0"`
	DividendInterval int             `yaml:"dividend_interval_hours" json:"dividend_interval_hours" validate:"gte=0"`
}

// RequirementType names the counter an achievement watches
type RequirementType string

const (
	RequirementCrimes     RequirementType = "crimes"
	RequirementBattles    RequirementType = "battles"
	RequirementMissions   RequirementType = "missions"
	RequirementLevel      RequirementType = "level"
	RequirementMoney      RequirementType = "money"
	RequirementProperties RequirementType = "properties"
)

// Achievement is a threshold on a cumulative counter
type Achievement struct {
	ID                    string          `yaml:"id" json:"id" validate:"required"`
	Name                  string          `yaml:"name" json:"name" validate:"required"`
	Description           string          `yaml:"description" json:"description"`
	RequirementType       RequirementType `yaml:"requirement_type" json:"requirement_type" validate:"required,oneof=crimes battles missions level money properties"`
	RequirementValue      int64           `yaml:"requirement_value" json:"requirement_value" validate:"gt=0"`
	KnowledgePointsReward int             `yaml:"knowledge_points_reward" json:"knowledge_points_reward" validate:"gte=0"`
}

// Met reports whether counters satisfy the achievement
func (a Achievement) Met(c ActivityCounters) bool {
	switch a.RequirementType {
	case RequirementCrimes:
		return c.CrimesCommitted >= a.RequirementValue
	case RequirementBattles:
		return c.BattlesWon >= a.RequirementValue
	case RequirementMissions:
		return c.MissionsCompleted >= a.RequirementValue
	case RequirementLevel:
		return int64(c.Level) >= a.RequirementValue
	case RequirementMoney:
		return c.LifetimeEarned.GreaterThanOrEqual(decimal.NewFromInt(a.RequirementValue))
	case RequirementProperties:
		return c.PropertiesOwned >= a.RequirementValue
	}
	return false
}
