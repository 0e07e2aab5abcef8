package character_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/character"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/testing/gametest"
)

func newService(h *gametest.Harness) character.Service {
	return character.NewService(h.Store, h.Locks, h.Clock, h.Bus, character.Config{
		RetryAttempts: 3,
		Regen:         character.Regen{Life: 5, Energy: 5, Endurance: 5, Mood: 2},
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)

	c, err := svc.Create(ctx, "  Tony  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Tony", c.Name)
	assert.Equal(t, domain.CharacterCriminal, c.Type)
	assert.Equal(t, 10, c.Stats.Strength)
	assert.Equal(t, domain.Pool{Current: 100, Max: 100}, c.Energy)
	assert.True(t, c.Money.Equal(domain.Money("1000.00")))
	assert.Equal(t, domain.DefaultLocation, c.Location)
	assert.Equal(t, int64(1), c.Version)
	assert.Len(t, h.Events.OfType(event.CharacterCreated), 1)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Create(ctx, "Tony", domain.CharacterPolice)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			charName string
			charType domain.CharacterType
		}{
			{"too short", "ab", domain.CharacterCriminal},
			{"too long", "abcdefghijklmnopqrstuvwxyz01234", domain.CharacterCriminal},
			{"control characters", "bad\tname", domain.CharacterCriminal},
			{"unknown type", "Valid Name", "pirate"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.charName, tt.charType)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)

	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c := h.Seed(t, nil)
	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), domain.ErrNotFound)
}

func TestDelete_SettlesBountiesAndShares(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)
	econ := economy.NewService(h.Store, h.Catalog, h.Locks, h.Clock, h.Bus, nil, economy.Config{RetryAttempts: 3})
	require.NoError(t, econ.SeedInstruments(ctx))

	rich := func(c *domain.Character) { c.Money = domain.Money("10000.00") }
	target := h.Seed(t, rich)
	placer := h.Seed(t, func(c *domain.Character) { c.Money = domain.Money("100.00") })
	other := h.Seed(t, func(c *domain.Character) { c.Money = domain.Money("100.00") })

	_, err := econ.PlaceBounty(ctx, placer.ID, target.ID, domain.Money("60.00"), "")
	require.NoError(t, err)
	_, err = econ.PlaceBounty(ctx, placer.ID, target.ID, domain.Money("15.00"), "")
	require.NoError(t, err)
	_, err = econ.PlaceBounty(ctx, other.ID, target.ID, domain.Money("25.00"), "")
	require.NoError(t, err)
	_, err = econ.TradeStock(ctx, target.ID, "SHDW", 100, economy.SideBuy)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, target.ID))

	assert.True(t, h.Load(t, placer.ID).Money.Equal(domain.Money("100.00")), "escrow goes back to the placer")
	assert.True(t, h.Load(t, other.ID).Money.Equal(domain.Money("100.00")))
	assert.Len(t, h.Events.OfType(event.BountyCancelled), 3)

	h.Read(t, func(tx repository.Tx) error {
		inst, err := tx.GetInstrument(ctx, "SHDW")
		require.NoError(t, err)
		assert.Equal(t, inst.TotalShares, inst.AvailableShares, "held shares return to the market")

		active, err := tx.ListActiveBounties(ctx, target.ID)
		require.NoError(t, err)
		assert.Empty(t, active)
		return nil
	})
}

func TestDelete_WithoutBountiesOrShares(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)

	c := h.Seed(t, nil)
	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Empty(t, h.Events.OfType(event.BountyCancelled))
}

func TestApplyDelta_Versioning(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)
	c := h.Seed(t, nil)

	next, err := svc.ApplyDelta(ctx, c.ID, domain.Delta{Energy: -20}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Version)
	assert.Equal(t, 80, next.Energy.Current)

	_, err = svc.ApplyDelta(ctx, c.ID, domain.Delta{Energy: -20}, 1)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 80, h.Load(t, c.ID).Energy.Current, "stale write leaves the record untouched")
}

func TestApplyDelta_PoolBounds(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)

	tests := []struct {
		name    string
		delta   domain.Delta
		check   func(t *testing.T, c *domain.Character)
		wantErr error
	}{
		{
			name:  "increase clamps at max",
			delta: domain.Delta{Energy: 500, Mood: 1},
			check: func(t *testing.T, c *domain.Character) {
				assert.Equal(t, c.Energy.Max, c.Energy.Current)
				assert.Equal(t, c.Mood.Max, c.Mood.Current)
			},
		},
		{
			name:  "damage clamps life at zero",
			delta: domain.Delta{Life: -1000},
			check: func(t *testing.T, c *domain.Character) {
				assert.Equal(t, 0, c.Life.Current)
			},
		},
		{
			name:    "uncovered energy spend",
			delta:   domain.Delta{Energy: -101},
			wantErr: domain.ErrInsufficientResource,
		},
		{
			name:    "uncovered endurance spend",
			delta:   domain.Delta{Endurance: -101},
			wantErr: domain.ErrInsufficientResource,
		},
		{
			name:    "uncovered money spend",
			delta:   domain.Delta{Money: domain.Money("-1000.01")},
			wantErr: domain.ErrInsufficientResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := h.Seed(t, nil)
			next, err := svc.ApplyDelta(ctx, c.ID, tt.delta, c.Version)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, c.Version, h.Load(t, c.ID).Version)
				return
			}
			require.NoError(t, err)
			tt.check(t, next)
			for _, p := range []domain.Pool{next.Life, next.Energy, next.Endurance, next.Mood} {
				assert.True(t, p.Valid())
			}
		})
	}
}

func TestMutate_ConcurrentWritersAllLand(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)
	c := h.Seed(t, nil)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mutate(ctx, c.ID, func(c *domain.Character) (domain.Delta, error) {
				return domain.Delta{Money: domain.Money("1.00"), Earned: domain.Money("1.00")}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got := h.Load(t, c.ID)
	assert.True(t, got.Money.Equal(domain.Money("1020.00")))
	assert.Equal(t, int64(1+writers), got.Version)
}

func TestMutate_PropagatesBuilderError(t *testing.T) {
	h := gametest.NewHarness(t)
	svc := newService(h)
	c := h.Seed(t, nil)

	_, err := svc.Mutate(context.Background(), c.ID, func(c *domain.Character) (domain.Delta, error) {
		return domain.Delta{}, domain.IneligibleError{Gate: domain.GateLevel}
	})
	assert.ErrorIs(t, err, domain.ErrIneligible)
}

func TestMutate_ZeroDeltaWritesNothing(t *testing.T) {
	h := gametest.NewHarness(t)
	svc := newService(h)
	c := h.Seed(t, nil)

	got, err := svc.Mutate(context.Background(), c.ID, func(c *domain.Character) (domain.Delta, error) {
		return domain.Delta{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}

func TestRegenerate(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)

	tired := h.Seed(t, func(c *domain.Character) {
		c.Energy.Current = 98
		c.Life.Current = 50
	})
	rested := h.Seed(t, nil)

	changed, err := svc.Regenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got := h.Load(t, tired.ID)
	assert.Equal(t, 100, got.Energy.Current, "regeneration caps at max")
	assert.Equal(t, 55, got.Life.Current)
	assert.Equal(t, int64(1), h.Load(t, rested.ID).Version, "full pools are not rewritten")
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h)
	c := h.Seed(t, nil)

	for i := 0; i < 3; i++ {
		at := gametest.Start.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repository.WithTx(ctx, h.Store, func(tx repository.Tx) error {
			return tx.InsertCommittedCrime(ctx, &domain.CommittedCrime{
				ID: uuid.New(), CharacterID: c.ID, CrimeID: "shoplift", CommittedAt: at,
			})
		}))
	}

	hist, err := svc.History(ctx, c.ID, 2)
	require.NoError(t, err)
	require.Len(t, hist.Crimes, 2)
	assert.True(t, hist.Crimes[0].CommittedAt.After(hist.Crimes[1].CommittedAt), "newest first")

	_, err = svc.History(ctx, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
