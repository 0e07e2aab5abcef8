package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

func (s *service) Inventory(ctx context.Context, characterID uuid.UUID) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		var err error
		out, err = tx.GetInventory(ctx, characterID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInventoryFailed, err)
	}
	return out, nil
}

// itemEffect returns the delta one unit of a consumable applies
func itemEffect(item domain.Item) (domain.Delta, error) {
	switch {
	case item.Kind == domain.ItemMedical:
		return domain.Delta{Life: item.HealingAmount}, nil
	case item.Kind == domain.ItemBooster && item.BoosterType == domain.BoostEnergy:
		return domain.Delta{Energy: item.BoostAmount}, nil
	case item.Kind == domain.ItemBooster && item.BoosterType == domain.BoostMood:
		return domain.Delta{Mood: item.BoostAmount}, nil
	}
	return domain.Delta{}, domain.IneligibleError{Gate: domain.GateItemKind, Detail: fmt.Sprintf("%s cannot be used", item.Kind)}
}

// UseItem consumes one medical or booster item and applies its effect
func (s *service) UseItem(ctx context.Context, characterID uuid.UUID, itemID string) (*domain.Character, error) {
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUseItemFailed, err)
	}
	effect, err := itemEffect(item)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUseItemFailed, err)
	}

	var out *domain.Character
	err = s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		stack, err := repository.FindInventoryItem(ctx, tx, characterID, itemID)
		if err != nil {
			return err
		}
		if stack.Quantity < 1 {
			return domain.InsufficientInt(domain.ResourceItem, 1, stack.Quantity)
		}
		stack.Quantity--
		if err := tx.SaveInventoryItem(ctx, stack); err != nil {
			return err
		}
		out, err = repository.ApplyDelta(ctx, tx, characterID, effect, c.Version, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgUseItemFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgItemUsed, "item", itemID)
	s.publish(ctx, event.ItemUsed, event.PurchasePayloadV1{CharacterID: characterID.String(), ProductID: itemID, Quantity: 1})
	return out, nil
}

// EquipItem equips an owned weapon or armor, unequipping any other item of the same kind
func (s *service) EquipItem(ctx context.Context, characterID uuid.UUID, itemID string) ([]domain.InventoryItem, error) {
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEquipItemFailed, err)
	}
	if !item.Equippable() {
		return nil, fmt.Errorf(ErrMsgEquipItemFailed, domain.IneligibleError{Gate: domain.GateItemKind, Detail: fmt.Sprintf("%s cannot be equipped", item.Kind)})
	}

	var out []domain.InventoryItem
	err = s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		items, err := tx.GetInventory(ctx, characterID)
		if err != nil {
			return err
		}

		owned := false
		for _, it := range items {
			if it.ItemID == itemID && it.Quantity > 0 {
				owned = true
			}
		}
		if !owned {
			return domain.InsufficientInt(domain.ResourceItem, 1, 0)
		}

		for _, it := range items {
			def, err := s.catalog.Item(it.ItemID)
			if err != nil || def.Kind != item.Kind {
				continue
			}
			want := it.ItemID == itemID
			if it.Equipped == want {
				continue
			}
			it.Equipped = want
			if err := tx.SaveInventoryItem(ctx, it); err != nil {
				return err
			}
		}

		out, err = tx.GetInventory(ctx, characterID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgEquipItemFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgItemEquipped, "item", itemID)
	return out, nil
}
