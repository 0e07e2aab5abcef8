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

const incomePeriod = 24 * time.Hour

// BuyProperty debits the price and raises the mood cap by the happiness bonus.
// A character may own the same property more than once.
func (s *service) BuyProperty(ctx context.Context, characterID uuid.UUID, propertyID string) (*domain.OwnedProperty, error) {
	prop, err := s.catalog.Property(propertyID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuyPropertyFailed, err)
	}

	var owned *domain.OwnedProperty
	err = s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		_, err = repository.ApplyDelta(ctx, tx, characterID, domain.Delta{
			Money:   prop.Price.Neg(),
			MaxMood: prop.HappinessBonus,
			Mood:    prop.HappinessBonus,
		}, c.Version, now)
		if err != nil {
			return err
		}
		owned = &domain.OwnedProperty{
			ID:           uuid.New(),
			CharacterID:  characterID,
			PropertyID:   propertyID,
			PurchasedAt:  now,
			LastIncomeAt: now,
		}
		return tx.InsertOwnedProperty(ctx, owned)
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuyPropertyFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgPropertyPurchased, "property", propertyID, "price", prop.Price.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.PropertyBought, event.PurchasePayloadV1{
		CharacterID: characterID.String(),
		ProductID:   propertyID,
		Quantity:    1,
		Amount:      prop.Price,
	})
	s.reevaluate(ctx, characterID)
	return owned, nil
}

func (s *service) Properties(ctx context.Context, characterID uuid.UUID) ([]domain.OwnedProperty, error) {
	var out []domain.OwnedProperty
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListOwnedProperties(ctx, characterID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPropertiesFailed, err)
	}
	return out, nil
}

// incomeDue returns the whole days of income owed since last and the
// timestamp income has been paid up to
func incomeDue(last, now time.Time) (int64, time.Time) {
	if !now.After(last) {
		return 0, last
	}
	days := int64(now.Sub(last) / incomePeriod)
	return days, last.Add(time.Duration(days) * incomePeriod)
}

// CollectPropertyIncome pays every owner the whole days of income accrued
// since the last payout. It returns the number of characters paid. A failure
// for one character is logged and does not stop the others.
func (s *service) CollectPropertyIncome(ctx context.Context) (int, error) {
	var all []domain.OwnedProperty
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		var err error
		all, err = tx.ListAllOwnedProperties(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf(ErrMsgIncomeFailed, err)
	}

	var order []uuid.UUID
	byOwner := make(map[uuid.UUID][]uuid.UUID)
	for _, p := range all {
		if _, ok := byOwner[p.CharacterID]; !ok {
			order = append(order, p.CharacterID)
		}
		byOwner[p.CharacterID] = append(byOwner[p.CharacterID], p.ID)
	}

	paid := 0
	for _, characterID := range order {
		amount, err := s.payOwner(ctx, characterID)
		if err != nil {
			logger.ForCharacter(ctx, characterID).Warn(LogMsgIncomeFailed, "error", err)
			continue
		}
		if !amount.IsPositive() {
			continue
		}
		paid++
		logger.ForCharacter(ctx, characterID).Info(LogMsgIncomePaid, "amount", amount.StringFixed(domain.MoneyScale), "properties", len(byOwner[characterID]))
		s.publish(ctx, event.PropertyIncome, event.MoneyPayloadV1{
			CharacterID: characterID.String(),
			Amount:      amount,
			Reason:      ReasonPropertyIncome,
		})
		s.reevaluate(ctx, characterID)
	}
	return paid, nil
}

// payOwner credits one character's accrued income and advances each property's payout mark
func (s *service) payOwner(ctx context.Context, characterID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		total = decimal.Zero
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		props, err := tx.ListOwnedProperties(ctx, characterID)
		if err != nil {
			return err
		}
		for _, p := range props {
			def, err := s.catalog.Property(p.PropertyID)
			if err != nil || !def.IncomePerDay.IsPositive() {
				continue
			}
			days, paidUpTo := incomeDue(p.LastIncomeAt, now)
			if days == 0 {
				continue
			}
			total = total.Add(def.IncomePerDay.Mul(decimal.NewFromInt(days)))
			if err := tx.MarkPropertyIncome(ctx, p.ID, paidUpTo); err != nil {
				return err
			}
		}
		if !total.IsPositive() {
			return nil
		}
		_, err = repository.ApplyDelta(ctx, tx, characterID, domain.Delta{Money: total, Earned: total}, c.Version, now)
		return err
	})
	return total, err
}
