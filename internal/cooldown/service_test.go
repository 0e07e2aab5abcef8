package cooldown_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/database/memory"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/repository"
)

var start = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type fixture struct {
	svc   cooldown.Service
	store *memory.Store
	clock *clock.Manual
	bus   *event.MemoryBus
	char  *domain.Character
}

func newFixture(t *testing.T, cfg cooldown.Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewManual(start)
	bus := event.NewMemoryBus()

	c := domain.NewCharacter("marlo", domain.CharacterCriminal, start)
	require.NoError(t, repository.WithTx(context.Background(), store, func(tx repository.Tx) error {
		return tx.InsertCharacter(context.Background(), c)
	}))

	return &fixture{
		svc:   cooldown.NewService(store, concurrency.NewLockManager(), clk, bus, cfg),
		store: store,
		clock: clk,
		bus:   bus,
		char:  c,
	}
}

func (f *fixture) load(t *testing.T) *domain.Character {
	t.Helper()
	var c *domain.Character
	require.NoError(t, repository.ReadTx(context.Background(), f.store, func(tx repository.Tx) error {
		var err error
		c, err = tx.GetCharacter(context.Background(), f.char.ID)
		return err
	}))
	return c
}

func TestCheckAvailable_FreeCharacter(t *testing.T) {
	f := newFixture(t, cooldown.Config{})

	avail, err := f.svc.CheckAvailable(context.Background(), f.char.ID)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.NoError(t, avail.Err())
	assert.Equal(t, int64(1), f.load(t).Version, "reading a free character writes nothing")
}

func TestCheckAvailable_FlipsOnceAtRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, cooldown.Config{})

	released := 0
	f.bus.Subscribe(event.CharacterReleased, func(ctx context.Context, e event.Event) error {
		released++
		return nil
	})

	_, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusJailed, 10*time.Minute)
	require.NoError(t, err)

	f.clock.Advance(10*time.Minute - time.Second)
	avail, err := f.svc.CheckAvailable(ctx, f.char.ID)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, domain.StatusJailed, avail.Status)
	assert.ErrorIs(t, avail.Err(), domain.ErrUnavailable)

	f.clock.Advance(time.Second)
	for i := 0; i < 3; i++ {
		avail, err = f.svc.CheckAvailable(ctx, f.char.ID)
		require.NoError(t, err)
		assert.True(t, avail.Available)
	}

	stored := f.load(t)
	assert.Equal(t, domain.StatusFree, stored.Status.Status)
	assert.Equal(t, int64(3), stored.Version, "one write to jail, one write to release")
	assert.Equal(t, 1, released)
}

func TestSetUnavailable_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("same status extends to the later release", func(t *testing.T) {
		f := newFixture(t, cooldown.Config{})
		_, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusHospitalized, 30*time.Minute)
		require.NoError(t, err)

		avail, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusHospitalized, 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, start.Add(30*time.Minute), *avail.ReleaseAt)

		avail, err = f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusHospitalized, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, start.Add(time.Hour), *avail.ReleaseAt)
	})

	t.Run("different status is rejected", func(t *testing.T) {
		f := newFixture(t, cooldown.Config{})
		_, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusJailed, time.Hour)
		require.NoError(t, err)

		_, err = f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusHospitalized, time.Hour)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		assert.Equal(t, domain.StatusJailed, f.load(t).Status.Status)
	})

	t.Run("expired window does not block a new status", func(t *testing.T) {
		f := newFixture(t, cooldown.Config{})
		_, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusJailed, time.Minute)
		require.NoError(t, err)
		f.clock.Advance(2 * time.Minute)

		avail, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusHospitalized, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusHospitalized, avail.Status)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		f := newFixture(t, cooldown.Config{})
		_, err := f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusFree, time.Minute)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusJailed, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = f.svc.SetUnavailable(ctx, uuid.New(), domain.StatusJailed, time.Minute)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCooldowns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, cooldown.Config{})
	action := domain.CrimeAction("shoplift")

	r, err := f.svc.CheckCooldown(ctx, f.char.ID, action)
	require.NoError(t, err)
	assert.True(t, r.Ready, "absent record means ready")

	require.NoError(t, f.svc.SetCooldown(ctx, f.char.ID, action, 5*time.Minute))

	f.clock.Advance(2 * time.Minute)
	r, err = f.svc.CheckCooldown(ctx, f.char.ID, action)
	require.NoError(t, err)
	assert.False(t, r.Ready)
	assert.Equal(t, 3*time.Minute, r.Remaining)

	other, err := f.svc.CheckCooldown(ctx, f.char.ID, domain.CrimeAction("pickpocket"))
	require.NoError(t, err)
	assert.True(t, other.Ready, "cooldowns are per action")

	// Status windows and cooldowns are independent
	_, err = f.svc.SetUnavailable(ctx, f.char.ID, domain.StatusJailed, time.Hour)
	require.NoError(t, err)
	f.clock.Advance(3 * time.Minute)
	r, err = f.svc.CheckCooldown(ctx, f.char.ID, action)
	require.NoError(t, err)
	assert.True(t, r.Ready)

	require.NoError(t, f.svc.SetCooldown(ctx, f.char.ID, action, time.Hour))
	require.NoError(t, f.svc.ResetCooldown(ctx, f.char.ID, action))
	r, err = f.svc.CheckCooldown(ctx, f.char.ID, action)
	require.NoError(t, err)
	assert.True(t, r.Ready)
}

func TestCooldowns_DevModeBypass(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, cooldown.Config{DevMode: true})
	action := domain.MissionAction("docks")

	require.NoError(t, f.svc.SetCooldown(ctx, f.char.ID, action, time.Hour))
	r, err := f.svc.CheckCooldown(ctx, f.char.ID, action)
	require.NoError(t, err)
	assert.True(t, r.Ready)
}

func TestCheck(t *testing.T) {
	cd := &domain.Cooldown{Action: "travel", NextAvailableAt: start.Add(90 * time.Second)}

	err := cooldown.Check(cd, "travel", start, false)
	var onCooldown cooldown.ErrOnCooldown
	require.True(t, errors.As(err, &onCooldown))
	assert.Equal(t, 90*time.Second, onCooldown.Remaining)
	assert.ErrorIs(t, err, domain.ErrOnCooldown)

	assert.NoError(t, cooldown.Check(cd, "travel", start.Add(90*time.Second), false), "ready exactly at the boundary")
	assert.NoError(t, cooldown.Check(cd, "travel", start, true))
	assert.NoError(t, cooldown.Check(nil, "travel", start, false))
}

func TestErrOnCooldown_Error(t *testing.T) {
	tests := []struct {
		name string
		err  cooldown.ErrOnCooldown
		want string
	}{
		{"minutes and seconds", cooldown.ErrOnCooldown{Action: "crime:mug", Remaining: 2*time.Minute + 30*time.Second}, fmt.Sprintf(cooldown.ErrFmtCooldownWithMinutes, "crime:mug", 2, 30)},
		{"seconds only", cooldown.ErrOnCooldown{Action: "travel", Remaining: 45 * time.Second}, fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, "travel", 45)},
		{"zero", cooldown.ErrOnCooldown{Action: "travel"}, fmt.Sprintf(cooldown.ErrFmtCooldownSecondsOnly, "travel", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	assert.True(t, errors.Is(cooldown.ErrOnCooldown{Action: "x"}, cooldown.ErrOnCooldown{}))
	assert.False(t, errors.Is(cooldown.ErrOnCooldown{Action: "x"}, errors.New("other error")))
}
