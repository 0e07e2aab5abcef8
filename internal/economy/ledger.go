package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Transfer moves amount from one character to another. Both records are
// written in one transaction, so the sum of their money never changes.
func (s *service) Transfer(ctx context.Context, from, to uuid.UUID, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if from == to {
		return fmt.Errorf(ErrMsgTransferFailed, domain.IneligibleError{Gate: domain.GateSelf, Detail: ErrMsgSameCharacter})
	}

	err := s.transact(ctx, []uuid.UUID{from, to}, func(tx repository.Tx, now time.Time) error {
		return moveMoney(ctx, tx, from, to, amount, decimal.Zero, now)
	})
	if err != nil {
		return fmt.Errorf(ErrMsgTransferFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgTransfer, "from", from, "to", to, "amount", amount.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.MoneyTransferred, event.MoneyPayloadV1{
		CharacterID:    from.String(),
		CounterpartyID: to.String(),
		Amount:         amount,
		Reason:         ReasonTransfer,
	})
	return nil
}

// moveMoney debits from and credits to inside tx. earned is added to the
// recipient's lifetime earnings.
func moveMoney(ctx context.Context, tx repository.Tx, from, to uuid.UUID, amount, earned decimal.Decimal, now time.Time) error {
	chars, err := repository.GetCharacters(ctx, tx, from, to)
	if err != nil {
		return err
	}
	if _, err := repository.ApplyDelta(ctx, tx, from, domain.Delta{Money: amount.Neg()}, chars[from].Version, now); err != nil {
		return err
	}
	_, err = repository.ApplyDelta(ctx, tx, to, domain.Delta{Money: amount, Earned: earned}, chars[to].Version, now)
	return err
}

// Credit adds earned money to a character and re-evaluates achievements
func (s *service) Credit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal, reason string) (*domain.Character, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	c, err := s.applyOne(ctx, characterID, domain.Delta{Money: amount, Earned: amount})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreditFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgCredited, "amount", amount.StringFixed(domain.MoneyScale), "reason", reason)
	s.publish(ctx, event.MoneyCredited, event.MoneyPayloadV1{CharacterID: characterID.String(), Amount: amount, Reason: reason})
	s.reevaluate(ctx, characterID)
	return c, nil
}

// Debit removes money; an uncovered debit fails with domain.ErrInsufficientResource
func (s *service) Debit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal, reason string) (*domain.Character, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	c, err := s.applyOne(ctx, characterID, domain.Delta{Money: amount.Neg()})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDebitFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgDebited, "amount", amount.StringFixed(domain.MoneyScale), "reason", reason)
	s.publish(ctx, event.MoneyDebited, event.MoneyPayloadV1{CharacterID: characterID.String(), Amount: amount, Reason: reason})
	return c, nil
}

// Deposit moves on-hand money into the bank
func (s *service) Deposit(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal) (*domain.Character, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	c, err := s.applyOne(ctx, characterID, domain.Delta{Money: amount.Neg(), BankMoney: amount})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBankFailed, err)
	}
	s.publish(ctx, event.MoneyDebited, event.MoneyPayloadV1{CharacterID: characterID.String(), Amount: amount, Reason: ReasonDeposit})
	return c, nil
}

// Withdraw moves bank money back on hand
func (s *service) Withdraw(ctx context.Context, characterID uuid.UUID, amount decimal.Decimal) (*domain.Character, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	c, err := s.applyOne(ctx, characterID, domain.Delta{Money: amount, BankMoney: amount.Neg()})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBankFailed, err)
	}
	s.publish(ctx, event.MoneyCredited, event.MoneyPayloadV1{CharacterID: characterID.String(), Amount: amount, Reason: ReasonWithdraw})
	return c, nil
}

// applyOne applies a fixed delta to one character
func (s *service) applyOne(ctx context.Context, characterID uuid.UUID, d domain.Delta) (*domain.Character, error) {
	var out *domain.Character
	err := s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		out, err = repository.ApplyDelta(ctx, tx, characterID, d, c.Version, now)
		return err
	})
	return out, err
}
