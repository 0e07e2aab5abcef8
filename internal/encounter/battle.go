package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// BattleResult is the outcome of one attack
type BattleResult struct {
	Battle   domain.Battle     `json:"battle"`
	Attacker *domain.Character `json:"attacker"`
	Defender *domain.Character `json:"defender"`
	// Bounty is the bounty claimed by the winner, if any
	Bounty *domain.Bounty `json:"bounty,omitempty"`
	// HospitalizedUntil is set when the loser dropped to zero life
	HospitalizedUntil *time.Time `json:"hospitalized_until,omitempty"`
}

// Attack resolves a battle between two free characters. Both records, the
// battle row and any bounty claim commit together.
func (s *service) Attack(ctx context.Context, attackerID, defenderID uuid.UUID) (result *BattleResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanBattle, trace.WithAttributes(
		attribute.String("battle.attacker_id", attackerID.String()),
		attribute.String("battle.defender_id", defenderID.String()),
	))
	defer func() { endSpan(span, err) }()

	if attackerID == defenderID {
		return nil, fmt.Errorf(ErrMsgAttackFailed, domain.IneligibleError{Gate: domain.GateSelf, Detail: ErrMsgSelfAttack})
	}

	err = s.resolve(ctx, []uuid.UUID{attackerID, defenderID}, func(tx repository.Tx, now time.Time) error {
		var err error
		result, err = s.battle(ctx, tx, attackerID, defenderID, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgAttackFailed, err)
	}

	b := result.Battle
	span.SetAttributes(attribute.Bool("battle.attacker_won", b.AttackerWon), attribute.Bool("battle.hospitalized", b.LoserHospitalized))
	logger.FromContext(ctx).Info(LogMsgBattleResolved,
		"battle_id", b.ID, "attacker_id", attackerID, "defender_id", defenderID,
		"attacker_won", b.AttackerWon, "attacker_damage", b.AttackerDamage, "defender_damage", b.DefenderDamage,
		"money_stolen", b.MoneyStolen.StringFixed(domain.MoneyScale))
	s.publish(ctx, event.BattleResolved, event.BattlePayloadV1{
		BattleID:     b.ID.String(),
		AttackerID:   attackerID.String(),
		DefenderID:   defenderID.String(),
		WinnerID:     b.WinnerID().String(),
		MoneyStolen:  b.MoneyStolen,
		BountyPaid:   b.BountyPaid,
		Hospitalized: b.LoserHospitalized,
		ReleaseAt:    result.HospitalizedUntil,
	})
	if result.Bounty != nil {
		logger.FromContext(ctx).Info(LogMsgBountyClaimed, "bounty_id", result.Bounty.ID, "claimed_by", b.WinnerID(),
			"amount", result.Bounty.Amount.StringFixed(domain.MoneyScale))
		s.publish(ctx, event.BountyClaimed, event.BountyPayloadV1{
			BountyID:  result.Bounty.ID.String(),
			PlacerID:  result.Bounty.PlacerID.String(),
			TargetID:  result.Bounty.TargetID.String(),
			ClaimedBy: b.WinnerID().String(),
			Amount:    result.Bounty.Amount,
		})
	}
	s.reevaluate(ctx, attackerID, defenderID)
	return result, nil
}

func (s *service) battle(ctx context.Context, tx repository.Tx, attackerID, defenderID uuid.UUID, now time.Time) (*BattleResult, error) {
	chars, err := repository.GetCharacters(ctx, tx, attackerID, defenderID)
	if err != nil {
		return nil, err
	}
	attacker, defender := chars[attackerID], chars[defenderID]
	if err := cooldown.Evaluate(attacker, now).Err(); err != nil {
		return nil, err
	}
	if err := cooldown.Evaluate(defender, now).Err(); err != nil {
		return nil, err
	}
	if attacker.Energy.Current < s.config.Battle.AttackEnergyCost {
		return nil, domain.InsufficientInt(domain.ResourceEnergy, s.config.Battle.AttackEnergyCost, attacker.Energy.Current)
	}

	atkEq, err := loadEquipment(ctx, tx, s.catalog, attackerID)
	if err != nil {
		return nil, err
	}
	defEq, err := loadEquipment(ctx, tx, s.catalog, defenderID)
	if err != nil {
		return nil, err
	}

	f := s.exchange(attacker, defender, atkEq, defEq)
	winner, loser := defender, attacker
	damage := f.defenderDamage
	if f.attackerWon() {
		winner, loser = attacker, defender
		damage = f.attackerDamage
	}

	stolen := StealAmount(loser.Money, s.config.Battle.StealFraction)
	xp := s.config.Battle.BaseExperience + ExperiencePerLoserLevel*int64(loser.Level)
	winnerDelta := domain.Delta{Money: stolen, Earned: stolen, Experience: xp, ClearExpiredStatus: true}
	loserDelta := domain.Delta{Life: -damage, Money: stolen.Neg(), ClearExpiredStatus: true}

	record := domain.Battle{
		ID:               uuid.New(),
		AttackerID:       attackerID,
		DefenderID:       defenderID,
		AttackerWon:      f.attackerWon(),
		AttackerDamage:   f.attackerDamage,
		DefenderDamage:   f.defenderDamage,
		MoneyStolen:      stolen,
		ExperienceGained: xp,
		BountyPaid:       decimal.Zero,
		FoughtAt:         now,
	}

	result := &BattleResult{}
	if loser.Life.Current-damage <= 0 {
		stay := HospitalStay(damage, s.config.Battle.HospitalBase, s.config.Battle.HospitalPerPoint, s.config.Battle.HospitalMax)
		loserDelta.SetStatus = cooldown.Window(domain.StatusHospitalized, now, stay)
		release := loserDelta.SetStatus.ReleaseAt
		result.HospitalizedUntil = &release
		record.LoserHospitalized = true
	}

	bounty, err := claimBounty(ctx, tx, loser.ID, winner.ID, now)
	if err != nil {
		return nil, err
	}
	if bounty != nil {
		winnerDelta = winnerDelta.Merge(domain.Delta{Money: bounty.Amount, Earned: bounty.Amount})
		record.BountyID = &bounty.ID
		record.BountyPaid = bounty.Amount
		result.Bounty = bounty
	}

	energyCost := domain.Delta{Energy: -s.config.Battle.AttackEnergyCost}
	attackerDelta, defenderDelta := loserDelta.Merge(energyCost), winnerDelta
	if f.attackerWon() {
		attackerDelta, defenderDelta = winnerDelta.Merge(energyCost), loserDelta
	}

	result.Attacker, err = repository.ApplyDelta(ctx, tx, attackerID, attackerDelta, attacker.Version, now)
	if err != nil {
		return nil, err
	}
	result.Defender, err = repository.ApplyDelta(ctx, tx, defenderID, defenderDelta, defender.Version, now)
	if err != nil {
		return nil, err
	}
	if err := tx.InsertBattle(ctx, &record); err != nil {
		return nil, err
	}
	result.Battle = record
	return result, nil
}

// claimBounty claims the loser's oldest active bounty that the winner did not
// place. At most one bounty is claimed per battle.
func claimBounty(ctx context.Context, tx repository.BountyTx, loserID, winnerID uuid.UUID, now time.Time) (*domain.Bounty, error) {
	active, err := tx.ListActiveBounties(ctx, loserID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		b := active[i]
		if b.PlacerID == winnerID {
			continue
		}
		claimedBy, claimedAt := winnerID, now
		b.Active = false
		b.ClaimedBy = &claimedBy
		b.ClaimedAt = &claimedAt
		if err := tx.UpdateBounty(ctx, &b); err != nil {
			return nil, err
		}
		return &b, nil
	}
	return nil, nil
}
