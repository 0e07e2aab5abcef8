package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/Underworld_Go/internal/domain"
)

const characterColumns = `id, name, character_type,
	strength, speed, dexterity, defense,
	level, experience, knowledge_points,
	life_current, life_max, energy_current, energy_max,
	endurance_current, endurance_max, mood_current, mood_max,
	money, bank_money, lifetime_earned,
	status, status_release_at, location,
	version, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*domain.Character, error) {
	var (
		c         domain.Character
		releaseAt *time.Time
	)
	err := row.Scan(&c.ID, &c.Name, &c.Type,
		&c.Stats.Strength, &c.Stats.Speed, &c.Stats.Dexterity, &c.Stats.Defense,
		&c.Level, &c.Experience, &c.KnowledgePoints,
		&c.Life.Current, &c.Life.Max, &c.Energy.Current, &c.Energy.Max,
		&c.Endurance.Current, &c.Endurance.Max, &c.Mood.Current, &c.Mood.Max,
		&c.Money, &c.BankMoney, &c.LifetimeEarned,
		&c.Status.Status, &releaseAt, &c.Location,
		&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if releaseAt != nil {
		c.Status.ReleaseAt = releaseAt.UTC()
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// characterArgs lists c's columns in characterColumns order
func characterArgs(c *domain.Character) []any {
	var releaseAt *time.Time
	if !c.Status.ReleaseAt.IsZero() {
		at := c.Status.ReleaseAt
		releaseAt = &at
	}
	return []any{c.ID, c.Name, string(c.Type),
		c.Stats.Strength, c.Stats.Speed, c.Stats.Dexterity, c.Stats.Defense,
		c.Level, c.Experience, c.KnowledgePoints,
		c.Life.Current, c.Life.Max, c.Energy.Current, c.Energy.Max,
		c.Endurance.Current, c.Endurance.Max, c.Mood.Current, c.Mood.Max,
		c.Money, c.BankMoney, c.LifetimeEarned,
		string(c.Status.Status), releaseAt, c.Location,
		c.Version, c.CreatedAt, c.UpdatedAt}
}

// GetCharacter locks the row until the transaction ends
func (t *tx) GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, wrap(ErrMsgFailedToGetCharacter, err)
	}
	return c, nil
}

func (t *tx) InsertCharacter(ctx context.Context, c *domain.Character) error {
	query := `
		INSERT INTO characters (` + characterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`
	if _, err := t.tx.Exec(ctx, query, characterArgs(c)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: "+ErrMsgNameTaken, domain.ErrInvalidInput, c.Name)
		}
		return wrap(ErrMsgFailedToInsertCharacter, err)
	}
	return nil
}

func (t *tx) SaveCharacter(ctx context.Context, c *domain.Character, expectedVersion int64) error {
	query := `
		UPDATE characters SET
			name = $2, character_type = $3,
			strength = $4, speed = $5, dexterity = $6, defense = $7,
			level = $8, experience = $9, knowledge_points = $10,
			life_current = $11, life_max = $12, energy_current = $13, energy_max = $14,
			endurance_current = $15, endurance_max = $16, mood_current = $17, mood_max = $18,
			money = $19, bank_money = $20, lifetime_earned = $21,
			status = $22, status_release_at = $23, location = $24,
			version = $25, created_at = $26, updated_at = $27
		WHERE id = $1 AND version = $28
	`
	args := append(characterArgs(c), expectedVersion)
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: "+ErrMsgNameTaken, domain.ErrInvalidInput, c.Name)
		}
		return wrap(ErrMsgFailedToSaveCharacter, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current int64
	err = t.tx.QueryRow(ctx, `SELECT version FROM characters WHERE id = $1`, c.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCharacterNotFound
	}
	if err != nil {
		return wrap(ErrMsgFailedToSaveCharacter, err)
	}
	return errVersion("character", c.ID, current, expectedVersion)
}

// DeleteCharacter relies on ON DELETE CASCADE for dependent rows
func (t *tx) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return wrap(ErrMsgFailedToDeleteCharacter, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

func (t *tx) ListCharacterIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := t.tx.Query(ctx, `SELECT id FROM characters ORDER BY id::text`)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListCharacters, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, wrap(ErrMsgFailedToListCharacters, err)
	}
	return ids, nil
}
