package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// ---- Cooldowns ----

func (t *tx) GetCooldown(ctx context.Context, characterID uuid.UUID, action string) (*domain.Cooldown, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	cd, ok := t.s.cooldowns[cooldownKey{characterID, action}]
	if !ok {
		return nil, nil
	}
	return &cd, nil
}

func (t *tx) SetCooldown(ctx context.Context, cd domain.Cooldown) error {
	if err := t.check(); err != nil {
		return err
	}
	key := cooldownKey{cd.CharacterID, cd.Action}
	t.record(restoreMapEntry(t.s.cooldowns, key))
	t.s.cooldowns[key] = cd
	return nil
}

// ---- History ----

func (t *tx) InsertCommittedCrime(ctx context.Context, c *domain.CommittedCrime) error {
	if err := t.check(); err != nil {
		return err
	}
	n := len(t.s.crimes)
	t.record(func() { t.s.crimes = t.s.crimes[:n] })
	t.s.crimes = append(t.s.crimes, *c)
	return nil
}

func (t *tx) InsertCompletedMission(ctx context.Context, m *domain.CompletedMission) error {
	if err := t.check(); err != nil {
		return err
	}
	n := len(t.s.missions)
	t.record(func() { t.s.missions = t.s.missions[:n] })
	t.s.missions = append(t.s.missions, *m)
	return nil
}

func (t *tx) InsertGymSession(ctx context.Context, s *domain.GymSession) error {
	if err := t.check(); err != nil {
		return err
	}
	n := len(t.s.gymSessions)
	t.record(func() { t.s.gymSessions = t.s.gymSessions[:n] })
	t.s.gymSessions = append(t.s.gymSessions, *s)
	return nil
}

func (t *tx) InsertBattle(ctx context.Context, b *domain.Battle) error {
	if err := t.check(); err != nil {
		return err
	}
	n := len(t.s.battles)
	t.record(func() { t.s.battles = t.s.battles[:n] })
	t.s.battles = append(t.s.battles, *b)
	return nil
}

func (t *tx) GetHistory(ctx context.Context, characterID uuid.UUID, limit int) (*domain.History, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = repository.DefaultHistoryLimit
	}
	return &domain.History{
		Crimes: newestFirst(t.s.crimes, func(r domain.CommittedCrime) bool {
			return r.CharacterID == characterID
		}, limit),
		Missions: newestFirst(t.s.missions, func(r domain.CompletedMission) bool {
			return r.CharacterID == characterID
		}, limit),
		Battles: newestFirst(t.s.battles, func(r domain.Battle) bool {
			return r.AttackerID == characterID || r.DefenderID == characterID
		}, limit),
	}, nil
}

func (t *tx) CountActivity(ctx context.Context, characterID uuid.UUID) (domain.ActivityCounters, error) {
	if err := t.check(); err != nil {
		return domain.ActivityCounters{}, err
	}
	var c domain.ActivityCounters
	for _, r := range t.s.crimes {
		if r.CharacterID == characterID {
			c.CrimesCommitted++
		}
	}
	for _, r := range t.s.missions {
		if r.CharacterID == characterID {
			c.MissionsCompleted++
		}
	}
	for _, r := range t.s.battles {
		if r.WinnerID() == characterID {
			c.BattlesWon++
		}
	}
	for _, p := range t.s.properties {
		if p.CharacterID == characterID {
			c.PropertiesOwned++
		}
	}
	return c, nil
}

// ---- Bounties ----

func cloneBounty(b domain.Bounty) domain.Bounty {
	if b.ClaimedBy != nil {
		id := *b.ClaimedBy
		b.ClaimedBy = &id
	}
	b.ClaimedAt = cloneTime(b.ClaimedAt)
	b.CancelledAt = cloneTime(b.CancelledAt)
	return b
}

func (t *tx) InsertBounty(ctx context.Context, b *domain.Bounty) error {
	if err := t.check(); err != nil {
		return err
	}
	t.record(restoreMapEntry(t.s.bounties, b.ID))
	t.s.bounties[b.ID] = cloneBounty(*b)
	return nil
}

func (t *tx) GetBounty(ctx context.Context, id uuid.UUID) (*domain.Bounty, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	b, ok := t.s.bounties[id]
	if !ok {
		return nil, domain.ErrBountyNotFound
	}
	out := cloneBounty(b)
	return &out, nil
}

func (t *tx) UpdateBounty(ctx context.Context, b *domain.Bounty) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.bounties[b.ID]; !ok {
		return domain.ErrBountyNotFound
	}
	t.record(restoreMapEntry(t.s.bounties, b.ID))
	t.s.bounties[b.ID] = cloneBounty(*b)
	return nil
}

func (t *tx) ListActiveBounties(ctx context.Context, targetID uuid.UUID) ([]domain.Bounty, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	var out []domain.Bounty
	for _, b := range t.s.bounties {
		if b.Active && b.TargetID == targetID {
			out = append(out, cloneBounty(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].PlacedAt.Before(out[j].PlacedAt)
	})
	return out, nil
}
