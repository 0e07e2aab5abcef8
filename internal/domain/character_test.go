package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewCharacter_Defaults(t *testing.T) {
	c := NewCharacter("vito", "", testNow)

	assert.Equal(t, CharacterCriminal, c.Type)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, Stats{10, 10, 10, 10}, c.Stats)
	assert.Equal(t, Pool{Current: 100, Max: 100}, c.Life)
	assert.True(t, c.Money.Equal(Money("1000.00")))
	assert.True(t, c.BankMoney.IsZero())
	assert.Equal(t, DefaultLocation, c.Location)
	assert.Equal(t, StatusFree, c.AvailabilityAt(testNow))
	assert.Equal(t, int64(1), c.Version)
	require.NoError(t, c.CheckInvariants())
}

func TestApply_PoolBounds(t *testing.T) {
	tests := []struct {
		name       string
		start      Pool
		delta      Delta
		wantLife   int
		wantEnergy int
		wantErr    error
	}{
		{"heal clamps at max", Pool{90, 100}, Delta{Life: 50}, 100, 100, nil},
		{"damage clamps at zero", Pool{30, 100}, Delta{Life: -80}, 0, 100, nil},
		{"energy spend covered", Pool{100, 100}, Delta{Energy: -40}, 100, 60, nil},
		{"energy spend exactly to zero", Pool{100, 100}, Delta{Energy: -100}, 100, 0, nil},
		{"energy overspend rejected", Pool{100, 100}, Delta{Energy: -101}, 0, 0, ErrInsufficientResource},
		{"energy refill clamps", Pool{100, 100}, Delta{Energy: 10}, 100, 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCharacter("a", CharacterCriminal, testNow)
			c.Life = tt.start

			next, err := c.Apply(tt.delta, testNow)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLife, next.Life.Current)
			assert.Equal(t, tt.wantEnergy, next.Energy.Current)
			assert.True(t, next.Life.Valid())
			assert.True(t, next.Energy.Valid())
		})
	}
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	c := NewCharacter("a", CharacterCriminal, testNow)
	_, err := c.Apply(Delta{Energy: -10, Money: Money("-5.00")}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 100, c.Energy.Current)
	assert.True(t, c.Money.Equal(Money("1000.00")))
}

func TestApply_Money(t *testing.T) {
	c := NewCharacter("a", CharacterCriminal, testNow)
	c.Money = Money("50.00")

	_, err := c.Apply(Delta{Money: Money("-75.00")}, testNow)
	var insufficient InsufficientError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, ResourceMoney, insufficient.Resource)
	assert.True(t, insufficient.Need.Equal(Money("75")))
	assert.True(t, insufficient.Have.Equal(Money("50")))

	next, err := c.Apply(Delta{Money: Money("-50.00"), BankMoney: Money("50.00")}, testNow)
	require.NoError(t, err)
	assert.True(t, next.Money.IsZero())
	assert.True(t, next.BankMoney.Equal(Money("50")))
}

func TestApply_ExperienceRaisesLevel(t *testing.T) {
	c := NewCharacter("a", CharacterCriminal, testNow)

	next, err := c.Apply(Delta{Experience: ExperienceForLevel(5)}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 5, next.Level)

	// Levels never go down
	next.Level = 7
	again, err := next.Apply(Delta{Experience: 1}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 7, again.Level)
}

func TestApply_StatusRules(t *testing.T) {
	release := testNow.Add(time.Hour)

	t.Run("free character enters status", func(t *testing.T) {
		c := NewCharacter("a", CharacterCriminal, testNow)
		next, err := c.Apply(Delta{SetStatus: &StatusWindow{Status: StatusJailed, ReleaseAt: release}}, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusJailed, next.AvailabilityAt(testNow))
	})

	t.Run("same status extends to the later release", func(t *testing.T) {
		c := NewCharacter("a", CharacterCriminal, testNow)
		c.Status = StatusWindow{Status: StatusJailed, ReleaseAt: release}

		later := release.Add(30 * time.Minute)
		next, err := c.Apply(Delta{SetStatus: &StatusWindow{Status: StatusJailed, ReleaseAt: later}}, testNow)
		require.NoError(t, err)
		assert.Equal(t, later, next.Status.ReleaseAt)

		earlier, err := next.Apply(Delta{SetStatus: &StatusWindow{Status: StatusJailed, ReleaseAt: release}}, testNow)
		require.NoError(t, err)
		assert.Equal(t, later, earlier.Status.ReleaseAt)
	})

	t.Run("different status is rejected", func(t *testing.T) {
		c := NewCharacter("a", CharacterCriminal, testNow)
		c.Status = StatusWindow{Status: StatusJailed, ReleaseAt: release}

		_, err := c.Apply(Delta{SetStatus: &StatusWindow{Status: StatusHospitalized, ReleaseAt: release}}, testNow)
		var unavailable UnavailableError
		require.True(t, errors.As(err, &unavailable))
		assert.Equal(t, StatusJailed, unavailable.Status)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("expired status does not block a new one", func(t *testing.T) {
		c := NewCharacter("a", CharacterCriminal, testNow)
		c.Status = StatusWindow{Status: StatusJailed, ReleaseAt: testNow.Add(-time.Minute)}

		next, err := c.Apply(Delta{SetStatus: &StatusWindow{Status: StatusHospitalized, ReleaseAt: release}}, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusHospitalized, next.AvailabilityAt(testNow))
	})

	t.Run("clear expired status", func(t *testing.T) {
		c := NewCharacter("a", CharacterCriminal, testNow)
		c.Status = StatusWindow{Status: StatusJailed, ReleaseAt: testNow}

		next, err := c.Apply(Delta{ClearExpiredStatus: true}, testNow)
		require.NoError(t, err)
		assert.Equal(t, StatusFree, next.Status.Status)
	})
}

func TestStatusWindow_ActiveAt(t *testing.T) {
	w := StatusWindow{Status: StatusHospitalized, ReleaseAt: testNow}

	assert.Equal(t, StatusHospitalized, w.ActiveAt(testNow.Add(-time.Nanosecond)))
	assert.Equal(t, StatusFree, w.ActiveAt(testNow))
	assert.Equal(t, StatusFree, w.ActiveAt(testNow.Add(time.Second)))
	assert.Equal(t, StatusFree, StatusWindow{}.ActiveAt(testNow))
}

func TestDelta_Merge(t *testing.T) {
	loc := "Docks"
	d := Delta{Energy: -10, Money: Money("5")}.Merge(Delta{Energy: -5, Money: Money("2.50"), SetLocation: &loc})

	assert.Equal(t, -15, d.Energy)
	assert.True(t, d.Money.Equal(Money("7.50")))
	require.NotNil(t, d.SetLocation)
	assert.Equal(t, "Docks", *d.SetLocation)
	assert.False(t, d.IsZero())
	assert.True(t, Delta{}.IsZero())
}

func TestLevelCurve(t *testing.T) {
	assert.Equal(t, int64(0), ExperienceForLevel(1))
	assert.Equal(t, int64(100), ExperienceForLevel(2))
	assert.Equal(t, int64(800), ExperienceForLevel(5))

	assert.Equal(t, 1, LevelForExperience(0))
	assert.Equal(t, 1, LevelForExperience(99))
	assert.Equal(t, 2, LevelForExperience(100))
	assert.Equal(t, 5, LevelForExperience(800))
	assert.Equal(t, MaxLevel, LevelForExperience(1<<40))
	assert.Equal(t, int64(1), ExperienceToNextLevel(1, 99))
}

func TestMoney(t *testing.T) {
	d, err := ParseMoney("12.34")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("12.34")))

	_, err = ParseMoney("1.234")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseMoney("abc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.True(t, TruncateCents(decimal.RequireFromString("10.999")).Equal(Money("10.99")))
	assert.Equal(t, "$1,250.50", FormatMoney(Money("1250.5")))
}

func TestRequirements_Check(t *testing.T) {
	c := NewCharacter("a", CharacterCriminal, testNow)
	c.Level = 5

	require.NoError(t, Requirements{Level: 5, Strength: 10}.Check(c))

	err := Requirements{Level: 6}.Check(c)
	var ineligible IneligibleError
	require.True(t, errors.As(err, &ineligible))
	assert.Equal(t, GateLevel, ineligible.Gate)

	err = Requirements{Dexterity: 11}.Check(c)
	require.ErrorIs(t, err, ErrIneligible)
	assert.Contains(t, err.Error(), string(StatDexterity))
}

func TestAchievement_Met(t *testing.T) {
	counters := ActivityCounters{CrimesCommitted: 10, Level: 3, LifetimeEarned: Money("999.99")}

	assert.True(t, Achievement{RequirementType: RequirementCrimes, RequirementValue: 10}.Met(counters))
	assert.False(t, Achievement{RequirementType: RequirementBattles, RequirementValue: 1}.Met(counters))
	assert.True(t, Achievement{RequirementType: RequirementLevel, RequirementValue: 3}.Met(counters))
	assert.False(t, Achievement{RequirementType: RequirementMoney, RequirementValue: 1000}.Met(counters))
}
