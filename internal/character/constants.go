package character

// Name rules
const (
	NameMinLength = 3
	NameMaxLength = 30
	nameRules     = "required,min=3,max=30,printascii"
)

// Error message constants
const (
	ErrMsgInvalidName   = "%w: character name must be %d-%d printable characters"
	ErrMsgInvalidType   = "%w: unknown character type %q"
	ErrMsgCreateFailed  = "failed to create character: %w"
	ErrMsgGetFailed     = "failed to get character: %w"
	ErrMsgMutateFailed  = "failed to update character: %w"
	ErrMsgDeleteFailed  = "failed to delete character: %w"
	ErrMsgHistoryFailed = "failed to load history: %w"
	ErrMsgListFailed    = "failed to list characters: %w"

	ErrMsgRemovalChanged = "bounties or holdings changed while locking"
)

// Log messages
const (
	LogMsgCharacterCreated = "Character created"
	LogMsgCharacterDeleted = "Character deleted"
	LogMsgRegenerated      = "Regeneration tick complete"
	LogMsgRegenerateFailed = "Regeneration failed for character"
	LogMsgBountyRefunded   = "Bounty refunded to placer"
	LogMsgSharesReleased   = "Shares returned to market"
)
