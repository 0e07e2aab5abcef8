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

// PlaceBounty escrows amount from the placer against target. The money
// leaves the placer now and is paid to whoever defeats the target.
func (s *service) PlaceBounty(ctx context.Context, placerID, targetID uuid.UUID, amount decimal.Decimal, description string) (*domain.Bounty, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if placerID == targetID {
		return nil, fmt.Errorf(ErrMsgPlaceBountyFailed, domain.IneligibleError{Gate: domain.GateSelf, Detail: ErrMsgSameCharacter})
	}

	var bounty *domain.Bounty
	err := s.transact(ctx, []uuid.UUID{placerID, targetID}, func(tx repository.Tx, now time.Time) error {
		chars, err := repository.GetCharacters(ctx, tx, placerID, targetID)
		if err != nil {
			return err
		}
		if _, err := repository.ApplyDelta(ctx, tx, placerID, domain.Delta{Money: amount.Neg()}, chars[placerID].Version, now); err != nil {
			return err
		}
		bounty = &domain.Bounty{
			ID:          uuid.New(),
			PlacerID:    placerID,
			TargetID:    targetID,
			Amount:      amount,
			Description: description,
			Active:      true,
			PlacedAt:    now,
		}
		return tx.InsertBounty(ctx, bounty)
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgPlaceBountyFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgBountyPlaced, "bounty_id", bounty.ID, "placer_id", placerID, "target_id", targetID, "amount", amount.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.BountyPlaced, event.BountyPayloadV1{
		BountyID: bounty.ID.String(),
		PlacerID: placerID.String(),
		TargetID: targetID.String(),
		Amount:   amount,
	})
	return bounty, nil
}

// CancelBounty refunds an active bounty to its placer
func (s *service) CancelBounty(ctx context.Context, placerID, bountyID uuid.UUID) (*domain.Bounty, error) {
	var bounty *domain.Bounty
	err := s.transact(ctx, []uuid.UUID{placerID}, func(tx repository.Tx, now time.Time) error {
		b, err := tx.GetBounty(ctx, bountyID)
		if err != nil {
			return err
		}
		if b.PlacerID != placerID {
			return domain.IneligibleError{Gate: domain.GateOwner, Detail: "only the placer can cancel a bounty"}
		}
		if !b.Active {
			return domain.IneligibleError{Gate: "bounty_active", Detail: "bounty is no longer active"}
		}
		placer, err := tx.GetCharacter(ctx, placerID)
		if err != nil {
			return err
		}
		if _, err := repository.ApplyDelta(ctx, tx, placerID, domain.Delta{Money: b.Amount}, placer.Version, now); err != nil {
			return err
		}
		cancelledAt := now
		b.Active = false
		b.CancelledAt = &cancelledAt
		if err := tx.UpdateBounty(ctx, b); err != nil {
			return err
		}
		bounty = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCancelBountyFailed, err)
	}

	logger.FromContext(ctx).Info(LogMsgBountyCancelled, "bounty_id", bountyID, "placer_id", placerID, "refund", bounty.Amount.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.BountyCancelled, event.BountyPayloadV1{
		BountyID: bounty.ID.String(),
		PlacerID: placerID.String(),
		TargetID: bounty.TargetID.String(),
		Amount:   bounty.Amount,
	})
	return bounty, nil
}

func (s *service) ActiveBounties(ctx context.Context, targetID uuid.UUID) ([]domain.Bounty, error) {
	var out []domain.Bounty
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, targetID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListActiveBounties(ctx, targetID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListBountiesFailed, err)
	}
	return out, nil
}
