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

// ---- Instruments & positions ----

const instrumentColumns = `symbol, name, current_price, previous_price, total_shares,
	available_shares, dividend_percentage, dividend_interval_seconds, next_dividend_at, version`

func scanInstrument(row scanner) (domain.StockInstrument, error) {
	var (
		inst     domain.StockInstrument
		interval int64
	)
	err := row.Scan(&inst.Symbol, &inst.Name, &inst.CurrentPrice, &inst.PreviousPrice, &inst.TotalShares,
		&inst.AvailableShares, &inst.DividendPercent, &interval, &inst.NextDividendAt, &inst.Version)
	inst.DividendInterval = time.Duration(interval) * time.Second
	inst.NextDividendAt = inst.NextDividendAt.UTC()
	return inst, err
}

// GetInstrument locks the row until the transaction ends
func (t *tx) GetInstrument(ctx context.Context, symbol string) (*domain.StockInstrument, error) {
	inst, err := scanInstrument(t.tx.QueryRow(ctx,
		`SELECT `+instrumentColumns+` FROM stock_instruments WHERE symbol = $1 FOR UPDATE`, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInstrumentNotFound
	}
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetInstrument, err)
	}
	return &inst, nil
}

func (t *tx) InsertInstrument(ctx context.Context, inst *domain.StockInstrument) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO stock_instruments (`+instrumentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol) DO NOTHING
	`, inst.Symbol, inst.Name, inst.CurrentPrice, inst.PreviousPrice, inst.TotalShares,
		inst.AvailableShares, inst.DividendPercent, int64(inst.DividendInterval/time.Second),
		inst.NextDividendAt, inst.Version)
	if err != nil {
		return wrap(ErrMsgFailedToSaveInstrument, err)
	}
	return nil
}

func (t *tx) SaveInstrument(ctx context.Context, inst *domain.StockInstrument, expectedVersion int64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE stock_instruments SET
			name = $2, current_price = $3, previous_price = $4, total_shares = $5,
			available_shares = $6, dividend_percentage = $7, dividend_interval_seconds = $8,
			next_dividend_at = $9, version = $10
		WHERE symbol = $1 AND version = $11
	`, inst.Symbol, inst.Name, inst.CurrentPrice, inst.PreviousPrice, inst.TotalShares,
		inst.AvailableShares, inst.DividendPercent, int64(inst.DividendInterval/time.Second),
		inst.NextDividendAt, inst.Version, expectedVersion)
	if err != nil {
		return wrap(ErrMsgFailedToSaveInstrument, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current int64
	err = t.tx.QueryRow(ctx, `SELECT version FROM stock_instruments WHERE symbol = $1`, inst.Symbol).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrInstrumentNotFound
	}
	if err != nil {
		return wrap(ErrMsgFailedToSaveInstrument, err)
	}
	return errVersion("instrument", inst.Symbol, current, expectedVersion)
}

func (t *tx) ListInstruments(ctx context.Context) ([]domain.StockInstrument, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+instrumentColumns+` FROM stock_instruments ORDER BY symbol`)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListInstruments, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StockInstrument, error) {
		return scanInstrument(row)
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToListInstruments, err)
	}
	return out, nil
}

func scanPosition(row scanner) (domain.StockPosition, error) {
	var p domain.StockPosition
	err := row.Scan(&p.CharacterID, &p.Symbol, &p.Shares, &p.AveragePrice, &p.PurchasedAt)
	p.PurchasedAt = p.PurchasedAt.UTC()
	return p, err
}

func (t *tx) GetPosition(ctx context.Context, characterID uuid.UUID, symbol string) (*domain.StockPosition, error) {
	p, err := scanPosition(t.tx.QueryRow(ctx, `
		SELECT character_id, symbol, shares, purchase_price, purchase_date
		FROM stock_positions WHERE character_id = $1 AND symbol = $2
	`, characterID, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetPosition, err)
	}
	return &p, nil
}

func (t *tx) SavePosition(ctx context.Context, pos domain.StockPosition) error {
	if pos.Shares <= 0 {
		if _, err := t.tx.Exec(ctx, `DELETE FROM stock_positions WHERE character_id = $1 AND symbol = $2`,
			pos.CharacterID, pos.Symbol); err != nil {
			return wrap(ErrMsgFailedToSavePosition, err)
		}
		return nil
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO stock_positions (character_id, symbol, shares, purchase_price, purchase_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (character_id, symbol) DO UPDATE
		SET shares = EXCLUDED.shares, purchase_price = EXCLUDED.purchase_price,
			purchase_date = EXCLUDED.purchase_date
	`, pos.CharacterID, pos.Symbol, pos.Shares, pos.AveragePrice, pos.PurchasedAt)
	if err != nil {
		return wrap(ErrMsgFailedToSavePosition, err)
	}
	return nil
}

func (t *tx) ListPositions(ctx context.Context, symbol string) ([]domain.StockPosition, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT character_id, symbol, shares, purchase_price, purchase_date
		FROM stock_positions WHERE symbol = $1
		ORDER BY character_id::text
	`, symbol)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListPositions, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StockPosition, error) {
		return scanPosition(row)
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToListPositions, err)
	}
	return out, nil
}

// ---- Inventory ----

func (t *tx) GetInventory(ctx context.Context, characterID uuid.UUID) ([]domain.InventoryItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT character_id, item_id, quantity, equipped
		FROM inventory_items WHERE character_id = $1
		ORDER BY item_id
	`, characterID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetInventory, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InventoryItem, error) {
		var it domain.InventoryItem
		err := row.Scan(&it.CharacterID, &it.ItemID, &it.Quantity, &it.Equipped)
		return it, err
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToGetInventory, err)
	}
	return out, nil
}

func (t *tx) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	if item.Quantity <= 0 {
		if _, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE character_id = $1 AND item_id = $2`,
			item.CharacterID, item.ItemID); err != nil {
			return wrap(ErrMsgFailedToSaveInventory, err)
		}
		return nil
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO inventory_items (character_id, item_id, quantity, equipped)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (character_id, item_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, equipped = EXCLUDED.equipped
	`, item.CharacterID, item.ItemID, item.Quantity, item.Equipped)
	if err != nil {
		return wrap(ErrMsgFailedToSaveInventory, err)
	}
	return nil
}

// ---- Properties ----

func scanProperty(row scanner) (domain.OwnedProperty, error) {
	var p domain.OwnedProperty
	err := row.Scan(&p.ID, &p.CharacterID, &p.PropertyID, &p.PurchasedAt, &p.LastIncomeAt)
	p.PurchasedAt, p.LastIncomeAt = p.PurchasedAt.UTC(), p.LastIncomeAt.UTC()
	return p, err
}

func (t *tx) InsertOwnedProperty(ctx context.Context, p *domain.OwnedProperty) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO owned_properties (id, character_id, property_id, purchase_date, last_income_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.CharacterID, p.PropertyID, p.PurchasedAt, p.LastIncomeAt)
	if err != nil {
		return wrap(ErrMsgFailedToInsertProperty, err)
	}
	return nil
}

func (t *tx) listProperties(ctx context.Context, query string, args ...any) ([]domain.OwnedProperty, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListProperties, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OwnedProperty, error) {
		return scanProperty(row)
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToListProperties, err)
	}
	return out, nil
}

func (t *tx) ListOwnedProperties(ctx context.Context, characterID uuid.UUID) ([]domain.OwnedProperty, error) {
	return t.listProperties(ctx, `
		SELECT id, character_id, property_id, purchase_date, last_income_at
		FROM owned_properties WHERE character_id = $1
		ORDER BY purchase_date, id::text
	`, characterID)
}

func (t *tx) ListAllOwnedProperties(ctx context.Context) ([]domain.OwnedProperty, error) {
	return t.listProperties(ctx, `
		SELECT id, character_id, property_id, purchase_date, last_income_at
		FROM owned_properties
		ORDER BY purchase_date, id::text
	`)
}

func (t *tx) MarkPropertyIncome(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `UPDATE owned_properties SET last_income_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return wrap(ErrMsgFailedToMarkIncome, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: owned property %s", domain.ErrNotFound, id)
	}
	return nil
}

// ---- Achievements ----

func (t *tx) InsertEarnedAchievement(ctx context.Context, e domain.EarnedAchievement) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		INSERT INTO earned_achievements (character_id, achievement_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (character_id, achievement_id) DO NOTHING
	`, e.CharacterID, e.AchievementID, e.EarnedAt)
	if err != nil {
		return false, wrap(ErrMsgFailedToSaveAchievement, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *tx) ListEarnedAchievements(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT character_id, achievement_id, earned_at
		FROM earned_achievements WHERE character_id = $1
		ORDER BY achievement_id
	`, characterID)
	if err != nil {
		return nil, wrap(ErrMsgFailedToListAchievement, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EarnedAchievement, error) {
		var e domain.EarnedAchievement
		err := row.Scan(&e.CharacterID, &e.AchievementID, &e.EarnedAt)
		e.EarnedAt = e.EarnedAt.UTC()
		return e, err
	})
	if err != nil {
		return nil, wrap(ErrMsgFailedToListAchievement, err)
	}
	return out, nil
}
