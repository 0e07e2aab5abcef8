package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
)

// ---- Instruments & positions ----

func (t *tx) GetInstrument(ctx context.Context, symbol string) (*domain.StockInstrument, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	inst, ok := t.s.instruments[symbol]
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	return &inst, nil
}

func (t *tx) InsertInstrument(ctx context.Context, inst *domain.StockInstrument) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.instruments[inst.Symbol]; ok {
		return nil
	}
	t.record(restoreMapEntry(t.s.instruments, inst.Symbol))
	t.s.instruments[inst.Symbol] = *inst
	return nil
}

func (t *tx) SaveInstrument(ctx context.Context, inst *domain.StockInstrument, expectedVersion int64) error {
	if err := t.check(); err != nil {
		return err
	}
	current, ok := t.s.instruments[inst.Symbol]
	if !ok {
		return domain.ErrInstrumentNotFound
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: instrument %s at version %d, expected %d", domain.ErrConflict, inst.Symbol, current.Version, expectedVersion)
	}
	t.record(restoreMapEntry(t.s.instruments, inst.Symbol))
	t.s.instruments[inst.Symbol] = *inst
	return nil
}

func (t *tx) ListInstruments(ctx context.Context) ([]domain.StockInstrument, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	out := make([]domain.StockInstrument, 0, len(t.s.instruments))
	for _, inst := range t.s.instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (t *tx) GetPosition(ctx context.Context, characterID uuid.UUID, symbol string) (*domain.StockPosition, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	pos, ok := t.s.positions[positionKey{characterID, symbol}]
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

func (t *tx) SavePosition(ctx context.Context, pos domain.StockPosition) error {
	if err := t.check(); err != nil {
		return err
	}
	key := positionKey{pos.CharacterID, pos.Symbol}
	t.record(restoreMapEntry(t.s.positions, key))
	if pos.Shares <= 0 {
		delete(t.s.positions, key)
		return nil
	}
	t.s.positions[key] = pos
	return nil
}

func (t *tx) ListPositions(ctx context.Context, symbol string) ([]domain.StockPosition, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.StockPosition
	for k, pos := range t.s.positions {
		if k.symbol == symbol {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CharacterID.String() < out[j].CharacterID.String() })
	return out, nil
}

// ---- Inventory ----

func (t *tx) GetInventory(ctx context.Context, characterID uuid.UUID) ([]domain.InventoryItem, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.InventoryItem
	for k, item := range t.s.inventory {
		if k.characterID == characterID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (t *tx) SaveInventoryItem(ctx context.Context, item domain.InventoryItem) error {
	if err := t.check(); err != nil {
		return err
	}
	key := inventoryKey{item.CharacterID, item.ItemID}
	t.record(restoreMapEntry(t.s.inventory, key))
	if item.Quantity <= 0 {
		delete(t.s.inventory, key)
		return nil
	}
	t.s.inventory[key] = item
	return nil
}

// ---- Properties ----

func (t *tx) InsertOwnedProperty(ctx context.Context, p *domain.OwnedProperty) error {
	if err := t.check(); err != nil {
		return err
	}
	t.record(restoreMapEntry(t.s.properties, p.ID))
	t.s.properties[p.ID] = *p
	return nil
}

func (t *tx) ListOwnedProperties(ctx context.Context, characterID uuid.UUID) ([]domain.OwnedProperty, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.OwnedProperty
	for _, p := range t.s.properties {
		if p.CharacterID == characterID {
			out = append(out, p)
		}
	}
	sortProperties(out)
	return out, nil
}

func (t *tx) ListAllOwnedProperties(ctx context.Context) ([]domain.OwnedProperty, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	out := make([]domain.OwnedProperty, 0, len(t.s.properties))
	for _, p := range t.s.properties {
		out = append(out, p)
	}
	sortProperties(out)
	return out, nil
}

func (t *tx) MarkPropertyIncome(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := t.check(); err != nil {
		return err
	}
	p, ok := t.s.properties[id]
	if !ok {
		return fmt.Errorf("%w: owned property %s", domain.ErrNotFound, id)
	}
	t.record(restoreMapEntry(t.s.properties, id))
	p.LastIncomeAt = at
	t.s.properties[id] = p
	return nil
}

func sortProperties(ps []domain.OwnedProperty) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].PurchasedAt.Equal(ps[j].PurchasedAt) {
			return ps[i].ID.String() < ps[j].ID.String()
		}
		return ps[i].PurchasedAt.Before(ps[j].PurchasedAt)
	})
}

// ---- Achievements ----

func (t *tx) InsertEarnedAchievement(ctx context.Context, e domain.EarnedAchievement) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	key := achievementKey{e.CharacterID, e.AchievementID}
	if _, ok := t.s.achievements[key]; ok {
		return false, nil
	}
	t.record(restoreMapEntry(t.s.achievements, key))
	t.s.achievements[key] = e
	return true, nil
}

func (t *tx) ListEarnedAchievements(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.EarnedAchievement
	for k, e := range t.s.achievements {
		if k.characterID == characterID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementID < out[j].AchievementID })
	return out, nil
}
