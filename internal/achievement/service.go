package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/logger"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Service awards achievements whose thresholds a character has reached
type Service interface {
	// Reevaluate inserts every newly satisfied achievement once and credits
	// its knowledge points in the same transaction. Calling it again without
	// new activity returns nothing and changes nothing.
	Reevaluate(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error)
	List(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error)
}

// Config holds evaluator settings
type Config struct {
	RetryAttempts int
	CacheSize     int
	CacheTTL      time.Duration
}

type service struct {
	store   repository.Store
	catalog catalog.Catalog
	locks   *concurrency.LockManager
	clock   clock.Clock
	bus     event.Bus
	cache   *earnedCache
	config  Config
}

// NewService creates a new achievement evaluator
func NewService(store repository.Store, cat catalog.Catalog, locks *concurrency.LockManager, clk clock.Clock, bus event.Bus, config Config) Service {
	if bus == nil {
		bus = event.Discard{}
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	return &service{
		store:   store,
		catalog: cat,
		locks:   locks,
		clock:   clk,
		bus:     bus,
		cache:   newEarnedCache(config.CacheSize, config.CacheTTL),
		config:  config,
	}
}

type evaluation struct {
	earned []domain.EarnedAchievement
	known  []domain.EarnedAchievement
	points map[string]int
}

func (s *service) Reevaluate(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error) {
	defs := s.catalog.Achievements()
	if len(defs) == 0 {
		return nil, nil
	}

	unlock := s.locks.LockCharacters(characterID)
	defer unlock()

	result, err := concurrency.RetryOnConflict(ctx, s.config.RetryAttempts, func(ctx context.Context) (evaluation, error) {
		var ev evaluation
		err := repository.WithTx(ctx, s.store, func(tx repository.Tx) error {
			ev = evaluation{points: make(map[string]int)}
			now := s.clock.Now()

			c, err := tx.GetCharacter(ctx, characterID)
			if err != nil {
				return err
			}
			counters, err := repository.Counters(ctx, tx, c)
			if err != nil {
				return err
			}

			total := 0
			for _, def := range defs {
				if s.cache.Has(characterID, def.ID) || !def.Met(counters) {
					continue
				}
				row := domain.EarnedAchievement{CharacterID: characterID, AchievementID: def.ID, EarnedAt: now}
				inserted, err := tx.InsertEarnedAchievement(ctx, row)
				if err != nil {
					return err
				}
				if !inserted {
					ev.known = append(ev.known, row)
					continue
				}
				ev.earned = append(ev.earned, row)
				ev.points[def.ID] = def.KnowledgePointsReward
				total += def.KnowledgePointsReward
			}

			if total > 0 {
				if _, err := repository.ApplyDelta(ctx, tx, characterID, domain.Delta{KnowledgePoints: total}, c.Version, now); err != nil {
					return err
				}
			}
			return nil
		})
		return ev, err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReevaluateFailed, err)
	}

	// Only committed pairs enter the cache
	for _, e := range append(result.known, result.earned...) {
		s.cache.Add(e.CharacterID, e.AchievementID, e.EarnedAt)
	}

	log := logger.ForCharacter(ctx, characterID)
	for _, e := range result.earned {
		log.Info(LogMsgAchievementEarned, "achievement_id", e.AchievementID)
		_ = s.bus.Publish(ctx, event.New(event.AchievementEarned, event.AchievementPayloadV1{
			CharacterID:     characterID.String(),
			AchievementID:   e.AchievementID,
			KnowledgePoints: result.points[e.AchievementID],
		}, e.EarnedAt))
	}
	return result.earned, nil
}

func (s *service) List(ctx context.Context, characterID uuid.UUID) ([]domain.EarnedAchievement, error) {
	var out []domain.EarnedAchievement
	err := repository.ReadTx(ctx, s.store, func(tx repository.Tx) error {
		if _, err := tx.GetCharacter(ctx, characterID); err != nil {
			return err
		}
		var err error
		out, err = tx.ListEarnedAchievements(ctx, characterID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	return out, nil
}
