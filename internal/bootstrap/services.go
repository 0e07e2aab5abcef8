package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Underworld_Go/internal/achievement"
	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/character"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/config"
	"github.com/osse101/Underworld_Go/internal/cooldown"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/encounter"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/repository"
	"github.com/osse101/Underworld_Go/internal/utils"
)

// Services is the set of game services sharing one store, lock manager and bus
type Services struct {
	Characters   character.Service
	Status       cooldown.Service
	Achievements achievement.Service
	Encounters   encounter.Service
	Economy      economy.Service
}

// NewServices builds every game service from cfg. roller may be nil for the real dice.
func NewServices(cfg *config.Config, store repository.Store, cat catalog.Catalog, clk clock.Clock, roller utils.Roller, bus event.Bus) *Services {
	if roller == nil {
		roller = utils.NewRoller()
	}
	locks := concurrency.NewLockManager()

	achievements := achievement.NewService(store, cat, locks, clk, bus, achievement.Config{
		RetryAttempts: cfg.RetryAttempts,
		CacheSize:     cfg.AchievementCacheSize,
		CacheTTL:      cfg.AchievementCacheTTL,
	})

	return &Services{
		Characters: character.NewService(store, locks, clk, bus, character.Config{
			RetryAttempts: cfg.RetryAttempts,
			Regen: character.Regen{
				Life:      cfg.Regen.Life,
				Energy:    cfg.Regen.Energy,
				Endurance: cfg.Regen.Endurance,
				Mood:      cfg.Regen.Mood,
			},
		}),
		Status: cooldown.NewService(store, locks, clk, bus, cooldown.Config{
			DevMode:       cfg.CooldownDevMode,
			RetryAttempts: cfg.RetryAttempts,
		}),
		Achievements: achievements,
		Encounters: encounter.NewService(store, cat, locks, clk, roller, bus, achievements, encounter.Config{
			RetryAttempts: cfg.RetryAttempts,
			DevMode:       cfg.CooldownDevMode,
			Battle: encounter.BattleConfig{
				AttackEnergyCost: cfg.Battle.AttackEnergyCost,
				StealFraction:    cfg.Battle.StealFraction,
				DamageVariance:   cfg.Battle.DamageVariance,
				BaseExperience:   cfg.Battle.BaseExperience,
				HospitalBase:     cfg.Battle.HospitalBase,
				HospitalPerPoint: cfg.Battle.HospitalPerDamage,
				HospitalMax:      cfg.Battle.HospitalMaxDuration,
			},
		}),
		Economy: economy.NewService(store, cat, locks, clk, bus, achievements, economy.Config{
			RetryAttempts: cfg.RetryAttempts,
			PriceImpact:   cfg.Market.PriceImpact,
			DevMode:       cfg.CooldownDevMode,
		}),
	}
}

// SeedInstruments creates the market row for every listed stock that lacks one
func (s *Services) SeedInstruments(ctx context.Context) error {
	if err := s.Economy.SeedInstruments(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSeedInstruments, err)
	}
	slog.Info(LogMsgInstrumentsSeeded)
	return nil
}
