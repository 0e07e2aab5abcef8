package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/utils"
)

// CrimeResult is the outcome of one crime attempt
type CrimeResult struct {
	Crime     domain.CommittedCrime `json:"crime"`
	Character *domain.Character     `json:"character"`
	// JailedUntil is set when the character was caught
	JailedUntil *time.Time `json:"jailed_until,omitempty"`
}

// gate checks that c is free and that action is off cooldown, both at now
func (s *service) gate(ctx context.Context, tx repository.Tx, c *domain.Character, action string, now time.Time) error {
	if err := cooldown.Evaluate(c, now).Err(); err != nil {
		return err
	}
	if action == "" {
		return nil
	}
	cd, err := tx.GetCooldown(ctx, c.ID, action)
	if err != nil {
		return err
	}
	return cooldown.Check(cd, action, now, s.config.DevMode)
}

// CommitCrime rolls success and capture independently. Success pays a
// uniform amount in the reward range; capture jails the character whether
// or not the crime paid. The cooldown starts regardless of outcome.
func (s *service) CommitCrime(ctx context.Context, characterID uuid.UUID, crimeID string) (result *CrimeResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanCrime, trace.WithAttributes(
		attribute.String("character.id", characterID.String()),
		attribute.String("crime.id", crimeID),
	))
	defer func() { endSpan(span, err) }()

	crime, err := s.catalog.Crime(crimeID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCrimeFailed, crimeID, err)
	}
	action := domain.CrimeAction(crimeID)

	err = s.resolve(ctx, []uuid.UUID{characterID}, func(tx repository.Tx, now time.Time) error {
		c, err := tx.GetCharacter(ctx, characterID)
		if err != nil {
			return err
		}
		if err := crime.Requirements.Check(c); err != nil {
			return err
		}
		if err := s.gate(ctx, tx, c, action, now); err != nil {
			return err
		}

		success := utils.RollPercent(s.roller, crime.SuccessChance)
		caught := utils.RollPercent(s.roller, crime.JailRisk)

		record := domain.CommittedCrime{
			ID:              uuid.New(),
			CharacterID:     characterID,
			CrimeID:         crimeID,
			Success:         success,
			Caught:          caught,
			CommittedAt:     now,
			NextAvailableAt: now.Add(crime.Cooldown()),
		}
		d := domain.Delta{Energy: -crime.EnergyCost, ClearExpiredStatus: true}
		if success {
			record.MoneyEarned = utils.UniformCents(s.roller, crime.MoneyRewardMin, crime.MoneyRewardMax)
			record.ExperienceEarned = crime.ExperienceReward
			d.Money = record.MoneyEarned
			d.Earned = record.MoneyEarned
			d.Experience = crime.ExperienceReward
		}
		var jailedUntil *time.Time
		if caught && crime.JailTime() > 0 {
			d.SetStatus = cooldown.Window(domain.StatusJailed, now, crime.JailTime())
			release := d.SetStatus.ReleaseAt
			jailedUntil = &release
		}

		updated, err := repository.ApplyDelta(ctx, tx, characterID, d, c.Version, now)
		if err != nil {
			return err
		}
		if err := tx.InsertCommittedCrime(ctx, &record); err != nil {
			return err
		}
		if err := tx.SetCooldown(ctx, domain.Cooldown{CharacterID: characterID, Action: action, NextAvailableAt: record.NextAvailableAt}); err != nil {
			return err
		}
		result = &CrimeResult{Crime: record, Character: updated, JailedUntil: jailedUntil}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCrimeFailed, crimeID, err)
	}

	span.SetAttributes(attribute.Bool("crime.success", result.Crime.Success), attribute.Bool("crime.caught", result.Crime.Caught))
	logger.ForCharacter(ctx, characterID).Info(LogMsgCrimeCommitted,
		"crime", crimeID, "success", result.Crime.Success, "caught", result.Crime.Caught,
		"money", result.Crime.MoneyEarned.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.CrimeCommitted, event.EncounterPayloadV1{
		CharacterID: characterID.String(),
		ActivityID:  crimeID,
		Success:     result.Crime.Success,
		Caught:      result.Crime.Caught,
		Money:       result.Crime.MoneyEarned,
		Experience:  result.Crime.ExperienceEarned,
		ReleaseAt:   result.JailedUntil,
	})
	s.reevaluate(ctx, characterID)
	return result, nil
}
