package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// MissionResult is the outcome of a completed mission
type MissionResult struct {
	Mission   domain.CompletedMission `json:"mission"`
	Character *domain.Character       `json:"character"`
}

// CompleteMission grants the mission's fixed rewards. The character must be
// standing at the mission's location.
func (s *service) CompleteMission(ctx context.Context, characterID uuid.UUID, missionID string) (result *MissionResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanMission, trace.WithAttributes(
		attribute.String("character.id", characterID.String()),
		attribute.String("mission.id", missionID),
	))
	defer func() { endSpan(span, err) }()

	mission, err := s.catalog.Mission(missionID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgMissionFailed, missionID, err)
	}
	action := domain.MissionAction(missionID)

	err = s.resolve(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		if err := mission.Requirements.Check(c); err != nil {
			return err
		}
		if c.Location != mission.LocationID {
			return domain.IneligibleError{Gate: domain.GateLocation, Detail: fmt.Sprintf(ErrMsgWrongLocation, mission.LocationID)}
		}
		if err := s.gate(ctx, tx, c, action, now); err != nil {
			return err
		}

		updated, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{
			Energy:             -mission.EnergyCost,
			Money:              mission.MoneyReward,
			Earned:             mission.MoneyReward,
			Experience:         mission.ExperienceReward,
			ClearExpiredStatus: true,
		}, c.Version, now)
		if err != nil {
			return err
		}
		for _, itemID := range mission.ItemRewards {
			if _, err := repository.AddInventory(ctx, tx, characterID, itemID, 1); err != nil {
				return err
			}
		}

		record := domain.CompletedMission{
			ID:               uuid.New(),
			CharacterID:      characterID,
			MissionID:        missionID,
			MoneyEarned:      mission.MoneyReward,
			ExperienceEarned: mission.ExperienceReward,
			ItemsGranted:     append([]string(nil), mission.ItemRewards...),
			CompletedAt:      now,
			NextAvailableAt:  now.Add(mission.Cooldown()),
		}
		if err := tx.InsertCompletedMission(ctx, &record); err != nil {
			return err
		}
		if err := tx.SetCooldown(ctx, domain.Cooldown{CharacterID: characterID, Action: action, NextAvailableAt: record.NextAvailableAt}); err != nil {
			return err
		}
		result = &MissionResult{Mission: record, Character: updated}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgMissionFailed, missionID, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgMissionCompleted, "mission", missionID,
		"money", mission.MoneyReward.StringFixed(domain.MoneyScale), "items", len(mission.ItemRewards))
	s.publish(ctx, event.MissionCompleted, event.EncounterPayloadV1{
		CharacterID: characterID.String(),
		ActivityID:  missionID,
		Success:     true,
		Money:       mission.MoneyReward,
		Experience:  mission.ExperienceReward,
	})
	s.reevaluate(ctx, characterID)
	return result, nil
}
