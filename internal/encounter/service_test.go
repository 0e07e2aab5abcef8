package encounter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/achievement"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/encounter"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/testing/gametest"
	"github.com/osse101/Underworld_Go/internal/utils"
)

func newService(h *gametest.Harness, roller utils.Roller) encounter.Service {
	achievements := achievement.NewService(h.Store, h.Catalog, h.Locks, h.Clock, h.Bus, achievement.Config{RetryAttempts: 3})
	return encounter.NewService(h.Store, h.Catalog, h.Locks, h.Clock, roller, h.Bus, achievements, encounter.Config{RetryAttempts: 3})
}

func levelFive(c *domain.Character) {
	c.Level = 5
	c.Energy.Current = 50
}

func TestCommitCrime_LevelFiveExample(t *testing.T) {
	ctx := context.Background()

	t.Run("success and not caught", func(t *testing.T) {
		h := gametest.NewHarness(t)
		// success draw 10 < 60, capture draw 50 >= 30, reward 10000+5000 cents
		svc := newService(h, utils.NewScriptedRoller(0.10, 0.50).WithInts(5000))
		c := h.Seed(t, levelFive)

		res, err := svc.CommitCrime(ctx, c.ID, "car_theft")
		require.NoError(t, err)
		assert.True(t, res.Crime.Success)
		assert.False(t, res.Crime.Caught)
		assert.Nil(t, res.JailedUntil)

		after := h.Load(t, c.ID)
		assert.Equal(t, 30, after.Energy.Current)
		assert.True(t, after.Money.Equal(domain.Money("1150.00")), "got %s", after.Money)
		assert.True(t, after.LifetimeEarned.Equal(domain.Money("150.00")))
		assert.Equal(t, int64(40), after.Experience)
		assert.Equal(t, domain.StatusFree, after.AvailabilityAt(h.Clock.Now()))

		h.Read(t, func(tx repository.Tx) error {
			hist, err := tx.GetHistory(ctx, c.ID, 10)
			require.NoError(t, err)
			require.Len(t, hist.Crimes, 1)
			assert.True(t, hist.Crimes[0].MoneyEarned.Equal(domain.Money("150.00")))
			return nil
		})
	})

	t.Run("failure and caught", func(t *testing.T) {
		h := gametest.NewHarness(t)
		// success draw 90 >= 60, capture draw 10 < 30
		svc := newService(h, utils.NewScriptedRoller(0.90, 0.10))
		c := h.Seed(t, levelFive)

		res, err := svc.CommitCrime(ctx, c.ID, "car_theft")
		require.NoError(t, err)
		assert.False(t, res.Crime.Success)
		assert.True(t, res.Crime.Caught)
		assert.True(t, res.Crime.MoneyEarned.IsZero())
		require.NotNil(t, res.JailedUntil)
		assert.Equal(t, h.Clock.Now().Add(30*time.Minute), *res.JailedUntil)

		after := h.Load(t, c.ID)
		assert.Equal(t, 30, after.Energy.Current)
		assert.True(t, after.Money.Equal(domain.Money("1000.00")))
		assert.Equal(t, domain.StatusJailed, after.AvailabilityAt(h.Clock.Now()))
	})

	t.Run("success and caught", func(t *testing.T) {
		h := gametest.NewHarness(t)
		svc := newService(h, utils.NewScriptedRoller(0.10, 0.10).WithInts(0))
		c := h.Seed(t, levelFive)

		res, err := svc.CommitCrime(ctx, c.ID, "car_theft")
		require.NoError(t, err)
		assert.True(t, res.Crime.Success)
		assert.True(t, res.Crime.Caught)
		assert.True(t, res.Crime.MoneyEarned.Equal(domain.Money("100.00")))
		assert.Equal(t, domain.StatusJailed, h.Load(t, c.ID).AvailabilityAt(h.Clock.Now()))
	})
}

func TestCommitCrime_Gates(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, utils.NewScriptedRoller(0.0, 0.99))

	t.Run("level gate", func(t *testing.T) {
		c := h.Seed(t, nil)
		_, err := svc.CommitCrime(ctx, c.ID, "car_theft")
		var inel domain.IneligibleError
		require.ErrorAs(t, err, &inel)
		assert.Equal(t, domain.GateLevel, inel.Gate)
	})

	t.Run("stat gate", func(t *testing.T) {
		c := h.Seed(t, nil)
		_, err := svc.CommitCrime(ctx, c.ID, "safecracking")
		var inel domain.IneligibleError
		require.ErrorAs(t, err, &inel)
		assert.Equal(t, string(domain.StatDexterity), inel.Gate)
	})

	t.Run("insufficient energy changes nothing", func(t *testing.T) {
		c := h.Seed(t, func(c *domain.Character) {
			c.Level = 5
			c.Energy.Current = 19
		})
		_, err := svc.CommitCrime(ctx, c.ID, "car_theft")
		assert.ErrorIs(t, err, domain.ErrInsufficientResource)

		after := h.Load(t, c.ID)
		assert.Equal(t, 19, after.Energy.Current)
		assert.Equal(t, c.Version, after.Version)
		h.Read(t, func(tx repository.Tx) error {
			hist, err := tx.GetHistory(ctx, c.ID, 10)
			require.NoError(t, err)
			assert.Empty(t, hist.Crimes)
			return nil
		})
	})

	t.Run("cooldown regardless of outcome", func(t *testing.T) {
		c := h.Seed(t, nil)
		_, err := svc.CommitCrime(ctx, c.ID, "shoplift")
		require.NoError(t, err)

		_, err = svc.CommitCrime(ctx, c.ID, "shoplift")
		var cd cooldown.ErrOnCooldown
		require.ErrorAs(t, err, &cd)
		assert.Equal(t, 2*time.Minute, cd.Remaining)

		h.Clock.Advance(2 * time.Minute)
		_, err = svc.CommitCrime(ctx, c.ID, "shoplift")
		assert.NoError(t, err)
	})

	t.Run("jailed characters cannot act", func(t *testing.T) {
		c := h.Seed(t, func(c *domain.Character) {
			c.Status = *cooldown.Window(domain.StatusJailed, h.Clock.Now(), time.Hour)
		})
		_, err := svc.CommitCrime(ctx, c.ID, "shoplift")
		var unavailable domain.UnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, domain.StatusJailed, unavailable.Status)
	})

	t.Run("unknown crime", func(t *testing.T) {
		c := h.Seed(t, nil)
		_, err := svc.CommitCrime(ctx, c.ID, "arson")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCommitCrime_EarnsAchievement(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, utils.NewScriptedRoller(0.99, 0.99))
	c := h.Seed(t, nil)

	_, err := svc.CommitCrime(ctx, c.ID, "shoplift")
	require.NoError(t, err)

	earned := h.Events.OfType(event.AchievementEarned)
	require.Len(t, earned, 1, "a failed crime still counts as committed")
	assert.Equal(t, 1, h.Load(t, c.ID).KnowledgePoints)
}

func TestCompleteMission(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	c := h.Seed(t, nil)
	res, err := svc.CompleteMission(ctx, c.ID, "courier")
	require.NoError(t, err)
	assert.True(t, res.Mission.MoneyEarned.Equal(domain.Money("75.00")))
	assert.Equal(t, 90, res.Character.Energy.Current)
	assert.Equal(t, int64(20), res.Character.Experience)
	assert.Equal(t, h.Clock.Now().Add(30*time.Minute), res.Mission.NextAvailableAt)
	assert.Len(t, h.Events.OfType(event.MissionCompleted), 1)

	_, err = svc.CompleteMission(ctx, c.ID, "courier")
	assert.ErrorIs(t, err, domain.ErrOnCooldown)

	t.Run("location gate", func(t *testing.T) {
		_, err := svc.CompleteMission(ctx, c.ID, "dock_job")
		var inel domain.IneligibleError
		require.ErrorAs(t, err, &inel)
		assert.Equal(t, domain.GateLocation, inel.Gate)
	})

	t.Run("item rewards", func(t *testing.T) {
		docker := h.Seed(t, func(c *domain.Character) { c.Location = "Docks" })
		res, err := svc.CompleteMission(ctx, docker.ID, "dock_job")
		require.NoError(t, err)
		assert.Equal(t, []string{"medkit"}, res.Mission.ItemsGranted)
		assert.Equal(t, 100, res.Character.Energy.Current, "no energy cost")

		h.Read(t, func(tx repository.Tx) error {
			stack, err := repository.FindInventoryItem(ctx, tx, docker.ID, "medkit")
			assert.Equal(t, 1, stack.Quantity)
			return err
		})
	})
}

func TestTrain(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	c := h.Seed(t, nil)
	res, err := svc.Train(ctx, c.ID, "street", domain.StatStrength, 25)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Session.StatGain, "floor(25 * 0.5)")
	assert.Equal(t, 22, res.Character.Stats.Strength)
	assert.Equal(t, 75, res.Character.Energy.Current)
	assert.True(t, res.Character.Money.Equal(domain.Money("990.00")))

	res, err = svc.Train(ctx, c.ID, "capped", domain.StatDefense, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Session.StatGain, "capped at the per-session maximum")

	tests := []struct {
		name   string
		gym    string
		stat   domain.StatName
		energy int
		want   error
	}{
		{"level gate", "elite", domain.StatSpeed, 10, domain.ErrIneligible},
		{"zero energy", "street", domain.StatSpeed, 0, domain.ErrInvalidInput},
		{"more than current energy", "street", domain.StatSpeed, 56, domain.ErrInsufficientResource},
		{"unknown stat", "street", domain.StatName("luck"), 10, domain.ErrInvalidInput},
		{"unknown gym", "moon", domain.StatSpeed, 10, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Train(ctx, c.ID, tt.gym, tt.stat, tt.energy)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 55, h.Load(t, c.ID).Energy.Current, "rejected sessions spend nothing")
}

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Reevaluate(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error) {
	args := m.Called(ctx, characterID)
	return args.Get(0).([]domain.EarnedAchievement), args.Error(1)
}

func TestTrain_ReevaluatesAchievements(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	evaluator := new(mockEvaluator)
	svc := encounter.NewService(h.Store, h.Catalog, h.Locks, h.Clock, nil, h.Bus, evaluator, encounter.Config{RetryAttempts: 3})

	c := h.Seed(t, nil)
	evaluator.On("Reevaluate", mock.Anything, c.ID).Return([]domain.EarnedAchievement(nil), nil).Once()

	_, err := svc.Train(ctx, c.ID, "street", domain.StatStrength, 10)
	require.NoError(t, err)
	evaluator.AssertExpectations(t)

	// a rejected session evaluates nothing
	_, err = svc.Train(ctx, c.ID, "street", domain.StatStrength, 500)
	require.ErrorIs(t, err, domain.ErrInsufficientResource)
	evaluator.AssertNumberOfCalls(t, "Reevaluate", 1)
}

func TestStatGain(t *testing.T) {
	assert.Equal(t, 12, encounter.StatGain(25, 0.5, 0))
	assert.Equal(t, 40, encounter.StatGain(20, 2.0, 0))
	assert.Equal(t, 10, encounter.StatGain(20, 2.0, 10))
	assert.Equal(t, 0, encounter.StatGain(1, 0.5, 0))
}

func TestAttack_EqualStatsDefenderAlwaysWins(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	for i := 0; i < 5; i++ {
		attacker := h.Seed(t, nil)
		defender := h.Seed(t, nil)

		res, err := svc.Attack(ctx, attacker.ID, defender.ID)
		require.NoError(t, err)
		b := res.Battle
		assert.Equal(t, b.AttackerDamage, b.DefenderDamage)
		assert.False(t, b.AttackerWon, "ties go to the defender")
		assert.Equal(t, defender.ID, b.WinnerID())

		// power 2*10+10+10 = 40, damage floor(40*100/110) = 36
		assert.Equal(t, 36, b.DefenderDamage)
		assert.Equal(t, 64, res.Attacker.Life.Current)
		assert.Equal(t, 75, res.Attacker.Energy.Current, "attacker pays the attack cost even when losing")
		assert.True(t, b.MoneyStolen.Equal(domain.Money("100.00")))
		assert.True(t, res.Attacker.Money.Equal(domain.Money("900.00")))
		assert.True(t, res.Defender.Money.Equal(domain.Money("1100.00")))
		assert.Equal(t, int64(encounter.DefaultBaseExperience+encounter.ExperiencePerLoserLevel), res.Defender.Experience)
	}
}

func TestAttack_ZeroLifeLoserIsHospitalized(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)
	status := cooldown.NewService(h.Store, h.Locks, h.Clock, h.Bus, cooldown.Config{})

	attacker := h.Seed(t, func(c *domain.Character) { c.Stats.Strength = 50 })
	defender := h.Seed(t, func(c *domain.Character) { c.Life.Current = 10 })

	res, err := svc.Attack(ctx, attacker.ID, defender.ID)
	require.NoError(t, err)
	b := res.Battle
	assert.True(t, b.AttackerWon)
	assert.True(t, b.LoserHospitalized)
	assert.Equal(t, 0, res.Defender.Life.Current, "life never goes below zero")
	require.NotNil(t, res.HospitalizedUntil)
	assert.True(t, res.HospitalizedUntil.After(b.FoughtAt))
	// 30m base + 1m per damage point
	assert.Equal(t, b.FoughtAt.Add(30*time.Minute+time.Duration(b.AttackerDamage)*time.Minute), *res.HospitalizedUntil)

	h.Clock.Advance(time.Minute)
	avail, err := status.CheckAvailable(ctx, defender.ID)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, domain.StatusHospitalized, avail.Status)

	_, err = svc.Attack(ctx, attacker.ID, defender.ID)
	assert.ErrorIs(t, err, domain.ErrUnavailable, "cannot attack a hospitalized character")

	h.Clock.Set(*res.HospitalizedUntil)
	for i := 0; i < 2; i++ {
		avail, err = status.CheckAvailable(ctx, defender.ID)
		require.NoError(t, err)
		assert.True(t, avail.Available)
	}
	assert.Len(t, h.Events.OfType(event.CharacterReleased), 1, "released exactly once")
}

func TestAttack_ClaimsOldestBounty(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	attacker := h.Seed(t, func(c *domain.Character) { c.Stats.Strength = 50 })
	defender := h.Seed(t, nil)
	placer := h.Seed(t, nil)

	place := func(by uuid.UUID, amount string, at time.Time) domain.Bounty {
		b := domain.Bounty{ID: uuid.New(), PlacerID: by, TargetID: defender.ID, Amount: domain.Money(amount), Active: true, PlacedAt: at}
		require.NoError(t, repository.WithTx(ctx, h.Store, func(tx repository.Tx) error {
			return tx.InsertBounty(ctx, &b)
		}))
		return b
	}
	own := place(attacker.ID, "500.00", h.Clock.Now().Add(-2*time.Hour))
	oldest := place(placer.ID, "200.00", h.Clock.Now().Add(-time.Hour))
	newer := place(placer.ID, "300.00", h.Clock.Now())

	res, err := svc.Attack(ctx, attacker.ID, defender.ID)
	require.NoError(t, err)
	require.True(t, res.Battle.AttackerWon)
	require.NotNil(t, res.Bounty)
	assert.Equal(t, oldest.ID, res.Bounty.ID, "skips the winner's own bounty, then oldest first")
	assert.True(t, res.Battle.BountyPaid.Equal(domain.Money("200.00")))

	// 1000 + 100 stolen + 200 bounty
	assert.True(t, res.Attacker.Money.Equal(domain.Money("1300.00")), "got %s", res.Attacker.Money)
	assert.True(t, res.Attacker.LifetimeEarned.Equal(domain.Money("300.00")))
	assert.True(t, h.Load(t, placer.ID).Money.Equal(domain.Money("1000.00")), "escrow is not taken from the placer again")

	h.Read(t, func(tx repository.Tx) error {
		active, err := tx.ListActiveBounties(ctx, defender.ID)
		require.NoError(t, err)
		ids := []uuid.UUID{}
		for _, b := range active {
			ids = append(ids, b.ID)
		}
		assert.ElementsMatch(t, []uuid.UUID{own.ID, newer.ID}, ids, "one bounty per battle")

		claimed, err := tx.GetBounty(ctx, oldest.ID)
		require.NoError(t, err)
		require.NotNil(t, claimed.ClaimedBy)
		assert.Equal(t, attacker.ID, *claimed.ClaimedBy)
		return nil
	})
	assert.Len(t, h.Events.OfType(event.BountyClaimed), 1)
}

func TestAttack_Rejects(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	a := h.Seed(t, nil)
	b := h.Seed(t, nil)
	tired := h.Seed(t, func(c *domain.Character) { c.Energy.Current = 24 })

	_, err := svc.Attack(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrIneligible)

	_, err = svc.Attack(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Attack(ctx, tired.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientResource)
	assert.Equal(t, b.Version, h.Load(t, b.ID).Version)
}

func TestAttack_EquipmentAndVariance(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := encounter.NewService(h.Store, h.Catalog, h.Locks, h.Clock, utils.NewScriptedRoller(0.0, 0.99), h.Bus, nil,
		encounter.Config{RetryAttempts: 3, Battle: encounter.BattleConfig{DamageVariance: 0.5}})

	attacker := h.Seed(t, nil)
	defender := h.Seed(t, nil)
	require.NoError(t, repository.WithTx(ctx, h.Store, func(tx repository.Tx) error {
		return tx.SaveInventoryItem(ctx, domain.InventoryItem{CharacterID: defender.ID, ItemID: "vest", Quantity: 1, Equipped: true})
	}))

	res, err := svc.Attack(ctx, attacker.ID, defender.ID)
	require.NoError(t, err)
	// attacker: floor(40*100/120 * 0.5) = 16; defender: floor(36.36 * 1.49) = 54
	assert.Equal(t, 16, res.Battle.AttackerDamage)
	assert.Equal(t, 54, res.Battle.DefenderDamage)
	assert.False(t, res.Battle.AttackerWon)
}

func TestAttack_OppositeBattlesDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	h := gametest.NewHarness(t)
	svc := newService(h, nil)

	a := h.Seed(t, nil)
	b := h.Seed(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Attack(ctx, a.ID, b.ID)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Attack(ctx, b.ID, a.ID)
		}()
	}
	wg.Wait()

	total := h.Load(t, a.ID).Money.Add(h.Load(t, b.ID).Money)
	assert.True(t, total.Equal(domain.Money("2000.00")), "battles move money without creating it")
	h.Read(t, func(tx repository.Tx) error {
		hist, err := tx.GetHistory(ctx, a.ID, 10)
		require.NoError(t, err)
		assert.Len(t, hist.Battles, 4)
		return nil
	})
}

func TestCombatFormulas(t *testing.T) {
	stats := domain.Stats{Strength: 10, Speed: 10, Dexterity: 10, Defense: 10}
	assert.Equal(t, 40, encounter.AttackPower(stats, encounter.Equipment{}))
	assert.Equal(t, 45, encounter.AttackPower(stats, encounter.Equipment{Attack: 5}))
	assert.Equal(t, 36, encounter.Damage(40, stats, encounter.Equipment{}, 1))
	assert.Equal(t, 1, encounter.Damage(0, stats, encounter.Equipment{}, 1), "minimum damage")
	assert.Equal(t, 2*time.Hour, encounter.HospitalStay(500, 30*time.Minute, time.Minute, 2*time.Hour))
	assert.True(t, encounter.StealAmount(domain.Money("123.45"), 0.1).Equal(domain.Money("12.34")))
	assert.True(t, encounter.StealAmount(domain.Money("0"), 0.1).IsZero())
}
