package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Releaser clears expired status windows
type Releaser interface {
	CheckAvailable(ctx context.Context, characterID uuid.UUID) (cooldown.Availability, error)
}

// ReleaseWorker frees jailed and hospitalized characters when their window
// ends, so CharacterReleased is published on time instead of on the
// character's next action.
type ReleaseWorker struct {
	BaseWorker
	releaser Releaser
	store    repository.Store
	clock    clock.Clock
}

// NewReleaseWorker creates a new ReleaseWorker
func NewReleaseWorker(releaser Releaser, store repository.Store, clk clock.Clock) *ReleaseWorker {
	w := &ReleaseWorker{releaser: releaser, store: store, clock: clk}
	w.init()
	return w
}

// Start schedules a release for every character already held on startup
func (w *ReleaseWorker) Start(ctx context.Context) {
	log := logger.FromContext(ctx)

	var held []*domain.Character
	err := repository.ReadTx(ctx, w.store, func(tx repository.Tx) error {
		ids, err := tx.ListCharacterIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			c, err := tx.GetCharacter(ctx, id)
			if err != nil {
				return err
			}
			if c.Status.Status != domain.StatusFree {
				held = append(held, c)
			}
		}
		return nil
	})
	if err != nil {
		log.Error(LogMsgFailedToResumeReleases, "error", err)
		return
	}
	for _, c := range held {
		w.Schedule(c.ID, c.Status.ReleaseAt)
	}
}

// Subscribe subscribes the worker to events that put characters on hold
func (w *ReleaseWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.CrimeCommitted, w.handleCrime)
	bus.Subscribe(event.BattleResolved, w.handleBattle)
}

func (w *ReleaseWorker) handleCrime(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.EncounterPayloadV1](e.Payload)
	if err != nil || p.ReleaseAt == nil {
		return nil
	}
	w.scheduleString(ctx, p.CharacterID, *p.ReleaseAt)
	return nil
}

func (w *ReleaseWorker) handleBattle(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.BattlePayloadV1](e.Payload)
	if err != nil || p.ReleaseAt == nil {
		return nil
	}
	w.scheduleString(ctx, p.LoserID(), *p.ReleaseAt)
	return nil
}

func (w *ReleaseWorker) scheduleString(ctx context.Context, characterID string, at time.Time) {
	id, err := uuid.Parse(characterID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidCharacterID, "value", characterID)
		return
	}
	w.Schedule(id, at)
}

// Schedule releases the character at releaseAt. A later schedule for the same
// character replaces the earlier one.
func (w *ReleaseWorker) Schedule(characterID uuid.UUID, releaseAt time.Time) {
	d := releaseAt.Sub(w.clock.Now())
	if d < 0 {
		d = 0
	}
	logger.ForCharacter(context.Background(), characterID).Debug(LogMsgSchedulingRelease, "in", d)
	w.schedule(characterID, d, func() { w.release(characterID) })
}

func (w *ReleaseWorker) release(characterID uuid.UUID) {
	ctx := logger.WithCharacterID(context.Background(), characterID.String())
	log := logger.FromContext(ctx)
	log.Debug(LogMsgReleasingCharacter)

	avail, err := w.releaser.CheckAvailable(ctx, characterID)
	if err != nil {
		log.Error(LogMsgFailedToRelease, "error", err)
		return
	}
	// the window was extended after this timer was set
	if !avail.Available && avail.ReleaseAt != nil {
		w.Schedule(characterID, *avail.ReleaseAt)
	}
}

// Shutdown cancels pending releases and waits for running ones
func (w *ReleaseWorker) Shutdown(ctx context.Context) error {
	return w.shutdownInternal(ctx, releaseWorkerName)
}
