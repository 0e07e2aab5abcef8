package economy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// validateQuantity validates the transaction quantity
func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf(ErrMsgInvalidQuantityFmt, quantity, domain.ErrInvalidInput)
	}
	if quantity > MaxTransactionQuantity {
		return fmt.Errorf(ErrMsgQuantityExceedsMaxFmt, quantity, MaxTransactionQuantity, domain.ErrInvalidInput)
	}
	return nil
}

// validateShares validates the number of shares in a trade
func validateShares(shares int64) error {
	if shares <= 0 {
		return fmt.Errorf(ErrMsgInvalidQuantityFmt, shares, domain.ErrInvalidInput)
	}
	if shares > MaxTradeShares {
		return fmt.Errorf(ErrMsgQuantityExceedsMaxFmt, shares, MaxTradeShares, domain.ErrInvalidInput)
	}
	return nil
}

// validateAmount requires a positive amount with at most two fractional digits
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(domain.MoneyScale)) {
		return fmt.Errorf(ErrMsgInvalidAmountFmt, amount.String(), domain.ErrInvalidInput)
	}
	return nil
}

// validateSide accepts buy or sell
func validateSide(side Side) error {
	if side != SideBuy && side != SideSell {
		return fmt.Errorf(ErrMsgInvalidSideFmt, side, domain.ErrInvalidInput)
	}
	return nil
}
