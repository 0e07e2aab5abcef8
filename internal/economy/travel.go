package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Travel moves a free character to another location, charging the
// destination's travel cost and starting the travel cooldown
func (s *service) Travel(ctx context.Context, characterID uuid.UUID, locationID string) (*domain.Character, error) {
	dest, err := s.catalog.Location(locationID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTravelFailed, err)
	}

	var out *domain.Character
	err = s.transact(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		if err := cooldown.Evaluate(c, now).Err(); err != nil {
			return err
		}
		if c.Location == dest.ID {
			return domain.IneligibleError{Gate: domain.GateLocation, Detail: "already at " + dest.Name}
		}
		cd, err := tx.GetCooldown(ctx, characterID, domain.ActionTravel)
		if err != nil {
			return err
		}
		if err := cooldown.Check(cd, domain.ActionTravel, now, s.config.DevMode); err != nil {
			return err
		}

		location := dest.ID
		out, err = repository.ApplyDelta(ctx, tx, characterID, domain.Delta{
			Money:              dest.TravelCost.Neg(),
			SetLocation:        &location,
			ClearExpiredStatus: true,
		}, c.Version, now)
		if err != nil {
			return err
		}

		wait := dest.TravelTime()
		if wait <= 0 {
			wait = cooldown.DefaultTravelCooldown
		}
		return tx.SetCooldown(ctx, domain.Cooldown{
			CharacterID:     characterID,
			Action:          domain.ActionTravel,
			NextAvailableAt: now.Add(wait),
		})
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTravelFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgTravelled, "location", dest.ID, "cost", dest.TravelCost.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.CharacterTravel, event.CharacterPayloadV1{
		CharacterID: characterID.String(),
		Name:        out.Name,
		Location:    dest.ID,
	})
	return out, nil
}
