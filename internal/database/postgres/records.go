package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// ---- Cooldowns ----

func (t *tx) GetCooldown(ctx context.Context, characterID uuid.UUID, action string) (*domain.Cooldown, error) {
	cd := domain.Cooldown{CharacterID: characterID, Action: action}
	err := t.tx.QueryRow(ctx, `
		SELECT next_available_at FROM cooldowns
		WHERE character_id = $1 AND action = $2
	`, characterID, action).Scan(&cd.NextAvailableAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetCooldown, err)
	}
	cd.NextAvailableAt = cd.NextAvailableAt.UTC()
	return &cd, nil
}

func (t *tx) SetCooldown(ctx context.Context, cd domain.Cooldown) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cooldowns (character_id, action, next_available_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id, action) DO UPDATE
		SET next_available_at = EXCLUDED.next_available_at
	`, cd.CharacterID, cd.Action, cd.NextAvailableAt)
	if err != nil {
		return wrap(ErrMsgFailedToSetCooldown, err)
	}
	return nil
}

// ---- History ----

func (t *tx) InsertCommittedCrime(ctx context.Context, c *domain.CommittedCrime) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO committed_crimes (id, character_id, crime_id, success, caught,
			money_earned, experience_earned, committed_at, next_available_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.CharacterID, c.CrimeID, c.Success, c.Caught,
		c.MoneyEarned, c.ExperienceEarned, c.CommittedAt, c.NextAvailableAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertHistory, err)
	}
	return nil
}

func (t *tx) InsertCompletedMission(ctx context.Context, m *domain.CompletedMission) error {
	items := m.ItemsGranted
	if items == nil {
		items = []string{}
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO completed_missions (id, character_id, mission_id, money_earned,
			experience_earned, items_granted, completed_at, next_available_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.CharacterID, m.MissionID, m.MoneyEarned,
		m.ExperienceEarned, items, m.CompletedAt, m.NextAvailableAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertHistory, err)
	}
	return nil
}

func (t *tx) InsertGymSession(ctx context.Context, s *domain.GymSession) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO gym_sessions (id, character_id, gym_id, stat_trained,
			energy_used, stat_gain, money_spent, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.CharacterID, s.GymID, string(s.Stat),
		s.EnergyUsed, s.StatGain, s.MoneySpent, s.TrainedAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertHistory, err)
	}
	return nil
}

func (t *tx) InsertBattle(ctx context.Context, b *domain.Battle) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO battles (id, attacker_id, defender_id, attacker_won,
			attacker_damage_dealt, defender_damage_dealt, money_stolen,
			experience_gained, loser_hospitalized, bounty_id, bounty_paid, fought_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, b.ID, b.AttackerID, b.DefenderID, b.AttackerWon,
		b.AttackerDamage, b.DefenderDamage, b.MoneyStolen,
		b.ExperienceGained, b.LoserHospitalized, b.BountyID, b.BountyPaid, b.FoughtAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertHistory, err)
	}
	return nil
}

func (t *tx) GetHistory(ctx context.Context, characterID uuid.UUID, limit int) (*domain.History, error) {
	if limit <= 0 {
		limit = repository.DefaultHistoryLimit
	}
	h := &domain.History{}

	rows, err := t.tx.Query(ctx, `
		SELECT id, character_id, crime_id, success, caught, money_earned,
			experience_earned, committed_at, next_available_at
		FROM committed_crimes WHERE character_id = $1
		ORDER BY committed_at DESC LIMIT $2
	`, characterID, limit)
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}
	h.Crimes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CommittedCrime, error) {
		var c domain.CommittedCrime
		err := row.Scan(&c.ID, &c.CharacterID, &c.CrimeID, &c.Success, &c.Caught, &c.MoneyEarned,
			&c.ExperienceEarned, &c.CommittedAt, &c.NextAvailableAt)
		c.CommittedAt, c.NextAvailableAt = c.CommittedAt.UTC(), c.NextAvailableAt.UTC()
		return c, err
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}

	rows, err = t.tx.Query(ctx, `
		SELECT id, character_id, mission_id, money_earned, experience_earned,
			items_granted, completed_at, next_available_at
		FROM completed_missions WHERE character_id = $1
		ORDER BY completed_at DESC LIMIT $2
	`, characterID, limit)
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}
	h.Missions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CompletedMission, error) {
		var m domain.CompletedMission
		err := row.Scan(&m.ID, &m.CharacterID, &m.MissionID, &m.MoneyEarned, &m.ExperienceEarned,
			&m.ItemsGranted, &m.CompletedAt, &m.NextAvailableAt)
		if len(m.ItemsGranted) == 0 {
			m.ItemsGranted = nil
		}
		m.CompletedAt, m.NextAvailableAt = m.CompletedAt.UTC(), m.NextAvailableAt.UTC()
		return m, err
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}

	rows, err = t.tx.Query(ctx, `
		SELECT `+battleColumns+`
		FROM battles WHERE attacker_id = $1 OR defender_id = $1
		ORDER BY fought_at DESC LIMIT $2
	`, characterID, limit)
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}
	h.Battles, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Battle, error) {
		return scanBattle(row)
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetHistory, err)
	}
	return h, nil
}

const battleColumns = `id, attacker_id, defender_id, attacker_won,
	attacker_damage_dealt, defender_damage_dealt, money_stolen,
	experience_gained, loser_hospitalized, bounty_id, bounty_paid, fought_at`

func scanBattle(row scanner) (domain.Battle, error) {
	var b domain.Battle
	err := row.Scan(&b.ID, &b.AttackerID, &b.DefenderID, &b.AttackerWon,
		&b.AttackerDamage, &b.DefenderDamage, &b.MoneyStolen,
		&b.ExperienceGained, &b.LoserHospitalized, &b.BountyID, &b.BountyPaid, &b.FoughtAt)
	b.FoughtAt = b.FoughtAt.UTC()
	return b, err
}

func (t *tx) CountActivity(ctx context.Context, characterID uuid.UUID) (domain.ActivityCounters, error) {
	var c domain.ActivityCounters
	err := t.tx.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM committed_crimes WHERE character_id = $1),
			(SELECT count(*) FROM battles
				WHERE (attacker_won AND attacker_id = $1) OR (NOT attacker_won AND defender_id = $1)),
			(SELECT count(*) FROM completed_missions WHERE character_id = $1),
			(SELECT count(*) FROM owned_properties WHERE character_id = $1)
	`, characterID).Scan(&c.CrimesCommitted, &c.BattlesWon, &c.MissionsCompleted, &c.PropertiesOwned)
	if err != nil {
		return domain.ActivityCounters{}, wrap(ErrMsgFailedToCountActivity, err)
	}
	return c, nil
}

// ---- Bounties ----

const bountyColumns = `id, placer_id, target_id, amount, description, is_active,
	placed_at, claimed_by, claimed_at, cancelled_at`

func scanBounty(row scanner) (domain.Bounty, error) {
	var b domain.Bounty
	err := row.Scan(&b.ID, &b.PlacerID, &b.TargetID, &b.Amount, &b.Description, &b.Active,
		&b.PlacedAt, &b.ClaimedBy, &b.ClaimedAt, &b.CancelledAt)
	b.PlacedAt = b.PlacedAt.UTC()
	return b, err
}

func (t *tx) InsertBounty(ctx context.Context, b *domain.Bounty) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO bounties (`+bountyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, b.ID, b.PlacerID, b.TargetID, b.Amount, b.Description, b.Active,
		b.PlacedAt, b.ClaimedBy, b.ClaimedAt, b.CancelledAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertBounty, err)
	}
	return nil
}

func (t *tx) GetBounty(ctx context.Context, id uuid.UUID) (*domain.Bounty, error) {
	b, err := scanBounty(t.tx.QueryRow(ctx, `SELECT `+bountyColumns+` FROM bounties WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBountyNotFound
	}
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetBounty, err)
	}
	return &b, nil
}

func (t *tx) UpdateBounty(ctx context.Context, b *domain.Bounty) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE bounties
		SET amount = $2, description = $3, is_active = $4,
			claimed_by = $5, claimed_at = $6, cancelled_at = $7
		WHERE id = $1
	`, b.ID, b.Amount, b.Description, b.Active, b.ClaimedBy, b.ClaimedAt, b.CancelledAt)
	if err != nil {
		return wrap(ErrMsgFailedToUpdateBounty, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBountyNotFound
	}
	return nil
}

func (t *tx) ListActiveBounties(ctx context.Context, targetID uuid.UUID) ([]domain.Bounty, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+bountyColumns+` FROM bounties
		WHERE target_id = $1 AND is_active
		ORDER BY placed_at, id::text
		FOR UPDATE
	`, targetID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListBounties, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bounty, error) {
		return scanBounty(row)
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToListBounties, err)
	}
	return out, nil
}

// errVersion builds the conflict error shared by versioned rows
func errVersion(kind string, id any, current, expected int64) error {
	return fmt.Errorf("%w: "+ErrMsgVersionMismatch, domain.ErrConflict, kind, id, current, expected)
}
