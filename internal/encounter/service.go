// Package encounter resolves crimes, missions, gym sessions and battles.
// Every encounter reads, decides and writes inside one store transaction
// while holding the locks of every character it touches.
package encounter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/utils"
)

const tracerName = "github.com/osse101/Underworld_Go/internal/encounter"

// Service defines the interface for encounter resolution
type Service interface {
	CommitCrime(ctx context.Context, characterID uuid.UUID, crimeID string) (*CrimeResult, error)
	CompleteMission(ctx context.Context, characterID uuid.UUID, missionID string) (*MissionResult, error)
	Train(ctx context.Context, characterID uuid.UUID, gymID string, stat domain.StatName, energy int) (*GymResult, error)
	Attack(ctx context.Context, attackerID, defenderID uuid.UUID) (*BattleResult, error)
}

// AchievementEvaluator re-checks achievements once an encounter has committed
type AchievementEvaluator interface {
	Reevaluate(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error)
}

// BattleConfig holds the battle tunables
type BattleConfig struct {
	AttackEnergyCost int
	StealFraction    float64
	// DamageVariance scales each side's damage by a draw in [1-v, 1+v); 0 disables the draw
	DamageVariance   float64
	BaseExperience   int64
	HospitalBase     time.Duration
	HospitalPerPoint time.Duration
	HospitalMax      time.Duration
}

// Config holds encounter service configuration
type Config struct {
	RetryAttempts int
	// DevMode skips crime and mission cooldowns. Status windows still apply.
	DevMode bool
	Battle  BattleConfig
}

func (c Config) withDefaults() Config {
	if c.Battle.AttackEnergyCost <= 0 {
		c.Battle.AttackEnergyCost = DefaultAttackEnergyCost
	}
	if c.Battle.StealFraction <= 0 {
		c.Battle.StealFraction = DefaultStealFraction
	}
	if c.Battle.BaseExperience <= 0 {
		c.Battle.BaseExperience = DefaultBaseExperience
	}
	if c.Battle.HospitalBase <= 0 {
		c.Battle.HospitalBase = DefaultHospitalBase
	}
	if c.Battle.HospitalPerPoint <= 0 {
		c.Battle.HospitalPerPoint = DefaultHospitalPerPoint
	}
	if c.Battle.HospitalMax <= 0 {
		c.Battle.HospitalMax = DefaultHospitalMax
	}
	return c
}

type service struct {
	store        repository.Store
	catalog      catalog.Catalog
	locks        *concurrency.LockManager
	clock        clock.Clock
	roller       utils.Roller
	bus          event.Bus
	achievements AchievementEvaluator
	tracer       trace.Tracer
	config       Config
}

// NewService creates a new encounter service. achievements may be nil.
func NewService(store repository.Store, cat catalog.Catalog, locks *concurrency.LockManager, clk clock.Clock, roller utils.Roller, bus event.Bus, achievements AchievementEvaluator, config Config) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	if roller == nil {
		roller = utils.NewRoller()
	}
	return &service{
		store:        store,
		catalog:      cat,
		locks:        locks,
		clock:        clk,
		roller:       roller,
		bus:          bus,
		achievements: achievements,
		tracer:       otel.Tracer(tracerName),
		config:       config.withDefaults(),
	}
}

// resolve locks ids and runs fn in one transaction, retrying the whole
// encounter (fresh reads, fresh rolls) on version conflicts
func (s *service) resolve(ctx context.Context, ids []uuid.UUID, fn func(tx repository.Tx, now time.Time) error) error {
	unlock := s.locks.LockCharacters(ids...)
	defer unlock()

	_, err := concurrency.RetryOnConflict(ctx, s.config.RetryAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			return fn(tx, s.clock.Now())
		})
	})
	return err
}

func (s *service) reevaluate(ctx context.Context, ids ...uuid.UUID) {
	if s.achievements == nil {
		return
	}
	for _, id := range ids {
		if _, err := s.achievements.Reevaluate(ctx, id); err != nil {
			logger.ForCharacter(ctx, id).Warn(LogMsgReevaluateFailed, "error", err)
		}
	}
}

func (s *service) publish(ctx context.Context, t event.Type, payload interface{}) {
	_ = s.bus.Publish(ctx, event.New(t, payload, s.clock.Now()))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
