package domain

// Event type names published on the event bus
const (
	// EventTypeCharacterCreated is published when a new character record is stored
	EventTypeCharacterCreated = "character.created"
	// EventTypeCharacterReleased is published when lazy expiry frees a character
	EventTypeCharacterReleased = "character.released"

	EventTypeCrimeCommitted   = "crime.committed"
	EventTypeMissionCompleted = "mission.completed"
	EventTypeGymTrained       = "gym.trained"
	EventTypeBattleResolved   = "battle.resolved"

	EventTypeBountyPlaced    = "bounty.placed"
	EventTypeBountyClaimed   = "bounty.claimed"
	EventTypeBountyCancelled = "bounty.cancelled"

	EventTypeMoneyCredited  = "money.credited"
	EventTypeMoneyDebited   = "money.debited"
	EventTypeMoneyTransfer  = "money.transferred"
	EventTypeStockTraded    = "stock.traded"
	EventTypeDividendPaid   = "stock.dividend_paid"
	EventTypeItemBought     = "item.bought"
	EventTypeItemUsed       = "item.used"
	EventTypePropertyBought = "property.bought"
	EventTypeIncomePaid     = "property.income_paid"
	EventTypeTravelled      = "character.travelled"

	EventTypeAchievementEarned = "achievement.earned"
)
