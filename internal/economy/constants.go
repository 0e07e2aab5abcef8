package economy

import "github.com/osse101/Underworld_Go/internal/domain"

// ==================== Limits ====================

// MaxTransactionQuantity caps items bought in one request
const MaxTransactionQuantity = 1000

// MaxTradeShares caps shares traded in one request
const MaxTradeShares = 1_000_000

// DefaultPriceImpact is used when the config leaves it unset
const DefaultPriceImpact = 0.5

// MinSharePrice is the floor an instrument price can fall to
var MinSharePrice = domain.Money("0.01")

// ==================== Ledger reasons ====================

const (
	ReasonTransfer       = "transfer"
	ReasonDeposit        = "deposit"
	ReasonWithdraw       = "withdraw"
	ReasonItemPurchase   = "item_purchase"
	ReasonProperty       = "property_purchase"
	ReasonPropertyIncome = "property_income"
	ReasonDividend       = "dividend"
	ReasonBountyEscrow   = "bounty_escrow"
	ReasonBountyRefund   = "bounty_refund"
	ReasonTravel         = "travel"
)

// ==================== Error Messages ====================

// Formatted error messages for validation
const (
	ErrMsgInvalidAmountFmt      = "invalid amount %s: %w"
	ErrMsgInvalidQuantityFmt    = "invalid quantity: %d: %w"
	ErrMsgQuantityExceedsMaxFmt = "quantity %d exceeds maximum allowed (%d): %w"
	ErrMsgInvalidSideFmt        = "invalid trade side %q: %w"
	ErrMsgSameCharacter         = "cannot target yourself"
)

// Operation error messages
const (
	ErrMsgTransferFailed      = "failed to transfer money: %w"
	ErrMsgCreditFailed        = "failed to credit money: %w"
	ErrMsgDebitFailed         = "failed to debit money: %w"
	ErrMsgBankFailed          = "failed to move bank money: %w"
	ErrMsgTradeFailed         = "failed to trade %s: %w"
	ErrMsgSeedFailed          = "failed to seed instruments: %w"
	ErrMsgDividendFailed      = "failed to pay dividends for %s: %w"
	ErrMsgBuyItemFailed       = "failed to buy item: %w"
	ErrMsgUseItemFailed       = "failed to use item: %w"
	ErrMsgEquipItemFailed     = "failed to equip item: %w"
	ErrMsgInventoryFailed     = "failed to get inventory: %w"
	ErrMsgBuyPropertyFailed   = "failed to buy property: %w"
	ErrMsgIncomeFailed        = "failed to collect property income: %w"
	ErrMsgPlaceBountyFailed   = "failed to place bounty: %w"
	ErrMsgCancelBountyFailed  = "failed to cancel bounty: %w"
	ErrMsgListBountiesFailed  = "failed to list bounties: %w"
	ErrMsgTravelFailed        = "failed to travel: %w"
	ErrMsgListInstrumentsFail = "failed to list instruments: %w"
	ErrMsgPortfolioFailed     = "failed to load portfolio: %w"
	ErrMsgPropertiesFailed    = "failed to list properties: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgTransfer          = "Money transferred"
	LogMsgCredited          = "Money credited"
	LogMsgDebited           = "Money debited"
	LogMsgStockTraded       = "Stock traded"
	LogMsgInstrumentSeeded  = "Instrument seeded"
	LogMsgDividendsPaid     = "Dividends paid"
	LogMsgItemPurchased     = "Item purchased"
	LogMsgItemUsed          = "Item used"
	LogMsgItemEquipped      = "Item equipped"
	LogMsgPropertyPurchased = "Property purchased"
	LogMsgIncomePaid        = "Property income paid"
	LogMsgIncomeFailed      = "Property income failed for character"
	LogMsgBountyPlaced      = "Bounty placed"
	LogMsgBountyCancelled   = "Bounty cancelled"
	LogMsgTravelled         = "Character travelled"
	LogMsgReevaluateFailed  = "Achievement evaluation failed"
)
