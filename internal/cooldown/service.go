package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Service manages character status windows and per-action cooldowns
type Service interface {
	// CheckAvailable returns the effective status. A window whose release time
	// has passed is cleared as a side effect, exactly once.
	CheckAvailable(ctx context.Context, characterID uuid.UUID) (Availability, error)

	// SetUnavailable places the character in status for d. The same status
	// extends to the later release time; a different active status fails with
	// domain.ErrUnavailable.
	SetUnavailable(ctx context.Context, characterID uuid.UUID, status domain.Status, d time.Duration) (Availability, error)

	// CheckCooldown reports whether action may run now
	CheckCooldown(ctx context.Context, characterID uuid.UUID, action string) (Readiness, error)

	// SetCooldown makes action unavailable for d from now
	SetCooldown(ctx context.Context, characterID uuid.UUID, action string, d time.Duration) error

	// ResetCooldown manually clears a cooldown (admin/testing)
	ResetCooldown(ctx context.Context, characterID uuid.UUID, action string) error
}

type service struct {
	store  repository.Store
	locks  *concurrency.LockManager
	clock  clock.Clock
	bus    event.Bus
	config Config
}

// NewService creates a new cooldown service
func NewService(store repository.Store, locks *concurrency.LockManager, clk clock.Clock, bus event.Bus, config Config) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	return &service{
		store:  store,
		locks:  locks,
		clock:  clk,
		bus:    bus,
		config: config,
	}
}

func (s *service) CheckAvailable(ctx context.Context, characterID uuid.UUID) (Availability, error) {
	unlock := s.locks.LockCharacters(characterID)
	defer unlock()

	released := false
	avail, err := concurrency.RetryOnConflict(ctx, s.config.attempts(), func(ctx context.Context) (Availability, error) {
		released = false
		var out Availability
		err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			now := s.clock.Now()
			c, err := tx.GetCharacter(ctx, characterID)
			if err != nil {
				return err
			}
			if NeedsRelease(c, now) {
				if _, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{ClearExpiredStatus: true}, c.Version, now); err != nil {
					return err
				}
				released = true
			}
			out = Evaluate(c, now)
			return nil
		})
		return out, err
	})
	if err != nil {
		return Availability{}, fmt.Errorf(ErrMsgCheckAvailableFailed, err)
	}

	if released {
		logger.ForCharacter(ctx, characterID).Info(LogMsgCharacterReleased)
		_ = s.bus.Publish(ctx, event.New(event.CharacterReleased, event.CharacterPayloadV1{
			CharacterID: characterID.String(),
			Status:      string(domain.StatusFree),
		}, s.clock.Now()))
	}
	return avail, nil
}

func (s *service) SetUnavailable(ctx context.Context, characterID uuid.UUID, status domain.Status, d time.Duration) (Availability, error) {
	if status != domain.StatusJailed && status != domain.StatusHospitalized {
		return Availability{}, fmt.Errorf(ErrMsgInvalidStatus, domain.ErrInvalidInput, status)
	}
	if d <= 0 {
		return Availability{}, fmt.Errorf(ErrMsgInvalidDuration, domain.ErrInvalidInput)
	}

	unlock := s.locks.LockCharacters(characterID)
	defer unlock()

	avail, err := concurrency.RetryOnConflict(ctx, s.config.attempts(), func(ctx context.Context) (Availability, error) {
		var out Availability
		err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			now := s.clock.Now()
			c, err := tx.GetCharacter(ctx, characterID)
			if err != nil {
				return err
			}
			next, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{
				ClearExpiredStatus: true,
				SetStatus:          Window(status, now, d),
			}, c.Version, now)
			if err != nil {
				return err
			}
			out = Evaluate(next, now)
			return nil
		})
		return out, err
	})
	if err != nil {
		return Availability{}, fmt.Errorf(ErrMsgSetUnavailableFailed, err)
	}

	logger.ForCharacter(ctx, characterID).Info(LogMsgStatusApplied,
		"status", status, "release_at", avail.ReleaseAt)
	return avail, nil
}

func (s *service) CheckCooldown(ctx context.Context, characterID uuid.UUID, action string) (Readiness, error) {
	if s.config.DevMode {
		logger.ForCharacter(ctx, characterID).Debug(LogMsgDevModeBypass, "action", action)
		return Readiness{Ready: true}, nil
	}

	var out Readiness
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		cd, err := tx.GetCooldown(ctx, characterID, action)
		if err != nil {
			return err
		}
		out = Ready(cd, s.clock.Now())
		return nil
	})
	if err != nil {
		return Readiness{}, fmt.Errorf(ErrMsgCheckCooldownFailed, err)
	}
	return out, nil
}

func (s *service) SetCooldown(ctx context.Context, characterID uuid.UUID, action string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf(ErrMsgInvalidDuration, domain.ErrInvalidInput)
	}
	err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		return tx.SetCooldown(ctx, domain.Cooldown{
			CharacterID:     characterID,
			Action:          action,
			NextAvailableAt: s.clock.Now().Add(d),
		})
	})
	if err != nil {
		return fmt.Errorf(ErrMsgUpdateCooldownFailed, err)
	}
	logger.ForCharacter(ctx, characterID).Debug(LogMsgCooldownSet, "action", action, "duration", d)
	return nil
}

func (s *service) ResetCooldown(ctx context.Context, characterID uuid.UUID, action string) error {
	err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
		return tx.SetCooldown(ctx, domain.Cooldown{
			CharacterID:     characterID,
			Action:          action,
			NextAvailableAt: s.clock.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf(ErrMsgResetCooldownFailed, err)
	}
	return nil
}
