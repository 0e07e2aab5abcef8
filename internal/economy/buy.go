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

// PurchaseResult contains the result of a buy operation
type PurchaseResult struct {
	ItemID   string          `json:"item_id"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Owned    int             `json:"owned"`
	Money    decimal.Decimal `json:"money"`
}

// BuyItem buys quantity of an item. Without enough money nothing changes.
func (s *service) BuyItem(ctx context.Context, characterID uuid.UUID, itemID string, quantity int) (*PurchaseResult, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuyItemFailed, err)
	}
	if !item.Available {
		return nil, fmt.Errorf(ErrMsgBuyItemFailed, domain.IneligibleError{Gate: "item_available", Detail: item.ID})
	}

	cost := item.Price.Mul(decimal.NewFromInt(int64(quantity)))
	var result *PurchaseResult
	err = s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		updated, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{Money: cost.Neg()}, c.Version, now)
		if err != nil {
			return err
		}
		owned, err := repository.AddInventory(ctx, tx, characterID, itemID, quantity)
		if err != nil {
			return err
		}
		result = &PurchaseResult{ItemID: itemID, Quantity: quantity, Cost: cost, Owned: owned, Money: updated.Money}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuyItemFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgItemPurchased, "item", itemID, "quantity", quantity, "cost", cost.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.ItemBought, event.PurchasePayloadV1{
		CharacterID: characterID.String(),
		ProductID:   itemID,
		Quantity:    quantity,
		Amount:      cost,
	})
	return result, nil
}
