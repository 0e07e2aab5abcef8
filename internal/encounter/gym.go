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
	"github.com/osse101/Underworld_Go/internal/utils"
)

// GymResult is the outcome of one training session
type GymResult struct {
	Session   domain.GymSession `json:"session"`
	Character *domain.Character `json:"character"`
}

// StatGain is floor(energy * effectiveness), capped at maxGain when maxGain > 0
func StatGain(energy int, effectiveness float64, maxGain int) int {
	gain := utils.FloorInt(float64(energy) * effectiveness)
	if maxGain > 0 && gain > maxGain {
		return maxGain
	}
	return gain
}

func statDelta(stat domain.StatName, gain int) domain.Stats {
	var s domain.Stats
	switch stat {
	case domain.StatStrength:
		s.Strength = gain
	case domain.StatSpeed:
		s.Speed = gain
	case domain.StatDexterity:
		s.Dexterity = gain
	case domain.StatDefense:
		s.Defense = gain
	}
	return s
}

// Train spends energy at a gym to raise one stat. There is no cooldown;
// energy is the only limit.
func (s *service) Train(ctx context.Context, characterID uuid.UUID, gymID string, stat domain.StatName, energy int) (result *GymResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanGym, trace.WithAttributes(
		attribute.String("character.id", characterID.String()),
		attribute.String("gym.id", gymID),
		attribute.String("gym.stat", string(stat)),
		attribute.Int("gym.energy", energy),
	))
	defer func() { endSpan(span, err) }()

	if !stat.Valid() {
		return nil, fmt.Errorf(ErrMsgInvalidStatFmt, domain.ErrInvalidInput, stat)
	}
	if energy < 1 {
		return nil, fmt.Errorf(ErrMsgInvalidEnergy, domain.ErrInvalidInput)
	}
	gym, err := s.catalog.Gym(gymID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTrainFailed, gymID, err)
	}
	gain := StatGain(energy, gym.Effectiveness, gym.MaxGainPerSession)

	err = s.resolve(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		if err := (domain.Requirements{Level: gym.RequiredLevel}).Check(c); err != nil {
			return err
		}
		if err := s.gate(ctx, tx, c, "", now); err != nil {
			return err
		}

		updated, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{
			Energy:             -energy,
			Money:              gym.CostPerSession.Neg(),
			Stats:              statDelta(stat, gain),
			ClearExpiredStatus: true,
		}, c.Version, now)
		if err != nil {
			return err
		}

		session := domain.GymSession{
			ID:          uuid.New(),
			CharacterID: characterID,
			GymID:       gymID,
			Stat:        stat,
			EnergyUsed:  energy,
			StatGain:    gain,
			MoneySpent:  gym.CostPerSession,
			TrainedAt:   now,
		}
		if err := tx.InsertGymSession(ctx, &session); err != nil {
			return err
		}
		result = &GymResult{Session: session, Character: updated}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTrainFailed, gymID, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgGymTrained, "gym", gymID, "stat", stat, "gain", gain)
	s.publish(ctx, event.GymTrained, event.EncounterPayloadV1{
		CharacterID: characterID.String(),
		ActivityID:  gymID,
		Success:     true,
		Money:       gym.CostPerSession.Neg(),
		StatGain:    gain,
	})
	s.reevaluate(ctx, characterID)
	return result, nil
}
