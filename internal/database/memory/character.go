package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
)

func (t *tx) GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	c, ok := t.s.characters[id]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

func (t *tx) InsertCharacter(ctx context.Context, c *domain.Character) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.characters[c.ID]; ok {
		return fmt.Errorf("%w: character %s already exists", domain.ErrInvalidInput, c.ID)
	}
	for _, other := range t.s.characters {
		if other.Name == c.Name {
			return fmt.Errorf("%w: name %q is taken", domain.ErrInvalidInput, c.Name)
		}
	}
	t.record(restoreMapEntry(t.s.characters, c.ID))
	t.s.characters[c.ID] = *c
	return nil
}

func (t *tx) SaveCharacter(ctx context.Context, c *domain.Character, expectedVersion int64) error {
	if err := t.check(); err != nil {
		return err
	}
	current, ok := t.s.characters[c.ID]
	if !ok {
		return domain.ErrCharacterNotFound
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: character %s at version %d, expected %d", domain.ErrConflict, c.ID, current.Version, expectedVersion)
	}
	t.record(restoreMapEntry(t.s.characters, c.ID))
	t.s.characters[c.ID] = *c
	return nil
}

// DeleteCharacter removes the character and cascades to every row that references it
func (t *tx) DeleteCharacter(ctx context.Context, id uuid.UUID) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.characters[id]; !ok {
		return domain.ErrCharacterNotFound
	}

	t.record(restoreMapEntry(t.s.characters, id))
	delete(t.s.characters, id)

	for k := range t.s.cooldowns {
		if k.characterID == id {
			t.record(restoreMapEntry(t.s.cooldowns, k))
			delete(t.s.cooldowns, k)
		}
	}
	for k, b := range t.s.bounties {
		if b.PlacerID == id || b.TargetID == id {
			t.record(restoreMapEntry(t.s.bounties, k))
			delete(t.s.bounties, k)
		}
	}
	for k := range t.s.positions {
		if k.characterID == id {
			t.record(restoreMapEntry(t.s.positions, k))
			delete(t.s.positions, k)
		}
	}
	for k := range t.s.inventory {
		if k.characterID == id {
			t.record(restoreMapEntry(t.s.inventory, k))
			delete(t.s.inventory, k)
		}
	}
	for k, p := range t.s.properties {
		if p.CharacterID == id {
			t.record(restoreMapEntry(t.s.properties, k))
			delete(t.s.properties, k)
		}
	}
	for k := range t.s.achievements {
		if k.characterID == id {
			t.record(restoreMapEntry(t.s.achievements, k))
			delete(t.s.achievements, k)
		}
	}

	crimes, missions, gym, battles := t.s.crimes, t.s.missions, t.s.gymSessions, t.s.battles
	t.record(func() {
		t.s.crimes, t.s.missions, t.s.gymSessions, t.s.battles = crimes, missions, gym, battles
	})
	t.s.crimes = without(crimes, func(r domain.CommittedCrime) bool { return r.CharacterID == id })
	t.s.missions = without(missions, func(r domain.CompletedMission) bool { return r.CharacterID == id })
	t.s.gymSessions = without(gym, func(r domain.GymSession) bool { return r.CharacterID == id })
	t.s.battles = without(battles, func(r domain.Battle) bool { return r.AttackerID == id || r.DefenderID == id })
	return nil
}

func (t *tx) ListCharacterIDs(ctx context.Context) ([]uuid.UUID, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(t.s.characters))
	for id := range t.s.characters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// without returns a fresh slice so the undo step keeps the original intact
func without[T any](rows []T, drop func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}
