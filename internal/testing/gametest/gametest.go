// Package gametest provides shared fixtures for service tests: a small
// catalog, a memory store, a manual clock and a recording bus.
package gametest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/catalog"
	"github.com/osse101/Underworld_Go/internal/clock"
	"github.com/osse101/Underworld_Go/internal/concurrency"
	"github.com/osse101/Underworld_Go/internal/database/memory"
	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/repository"
)

// Start is the fixed time every harness clock begins at
var Start = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

// Catalog returns a small catalog covering every definition kind
func Catalog(t testing.TB) *catalog.Static {
	t.Helper()
	c, err := catalog.New(catalog.File{
		Locations: []domain.Location{
			{ID: domain.DefaultLocation, Name: domain.DefaultLocation, TravelTimeMinutes: 5},
			{ID: "Docks", Name: "Docks", TravelCost: domain.Money("25.00"), TravelTimeMinutes: 10},
		},
		Crimes: []domain.Crime{
			{
				ID: "shoplift", Name: "Shoplift",
				EnergyCost: 5, ExperienceReward: 5,
				MoneyRewardMin: domain.Money("10.00"), MoneyRewardMax: domain.Money("40.00"),
				SuccessChance: 80, JailRisk: 10, JailTimeMinutes: 5, CooldownMinutes: 2,
			},
			{
				ID: "car_theft", Name: "Car Theft",
				Requirements: domain.Requirements{Level: 5},
				EnergyCost:   20, ExperienceReward: 40,
				MoneyRewardMin: domain.Money("100.00"), MoneyRewardMax: domain.Money("200.00"),
				SuccessChance: 60, JailRisk: 30, JailTimeMinutes: 30, CooldownMinutes: 15,
			},
			{
				ID: "safecracking", Name: "Safecracking",
				Requirements: domain.Requirements{Level: 1, Dexterity: 50},
				EnergyCost:   10, SuccessChance: 50, JailRisk: 50, JailTimeMinutes: 60, CooldownMinutes: 30,
				MoneyRewardMin: domain.Money("500.00"), MoneyRewardMax: domain.Money("500.00"),
			},
		},
		Missions: []domain.Mission{
			{
				ID: "courier", Name: "Courier", LocationID: domain.DefaultLocation,
				EnergyCost: 10, ExperienceReward: 20, MoneyReward: domain.Money("75.00"), CooldownMinutes: 30,
			},
			{
				ID: "dock_job", Name: "Dock Job", LocationID: "Docks",
				ExperienceReward: 60, MoneyReward: domain.Money("300.00"),
				ItemRewards: []string{"medkit"}, CooldownMinutes: 60,
			},
		},
		Gyms: []domain.Gym{
			{ID: "street", Name: "Street Gym", Effectiveness: 0.5, CostPerSession: domain.Money("10.00")},
			{ID: "elite", Name: "Elite Gym", RequiredLevel: 10, Effectiveness: 2.0, MaxGainPerSession: 10},
			{ID: "capped", Name: "Capped Gym", Effectiveness: 2.0, MaxGainPerSession: 10},
		},
		Items: []domain.Item{
			{ID: "knuckles", Name: "Brass Knuckles", Kind: domain.ItemWeapon, Price: domain.Money("75.00"), Available: true, AttackPower: 5},
			{ID: "bat", Name: "Bat", Kind: domain.ItemWeapon, Price: domain.Money("150.00"), Available: true, AttackPower: 10},
			{ID: "vest", Name: "Vest", Kind: domain.ItemArmor, Price: domain.Money("100.00"), Available: true, DefensePower: 10},
			{ID: "medkit", Name: "Medkit", Kind: domain.ItemMedical, Price: domain.Money("40.00"), Available: true, HealingAmount: 30},
			{ID: "energy_drink", Name: "Energy Drink", Kind: domain.ItemBooster, Price: domain.Money("25.00"), Available: true, BoosterType: domain.BoostEnergy, BoostAmount: 25},
			{ID: "retired", Name: "Retired", Kind: domain.ItemMedical, Price: domain.Money("1.00"), Available: false},
		},
		Properties: []domain.Property{
			{ID: "flat", Name: "Flat", Type: "home", Price: domain.Money("500.00"), HappinessBonus: 10},
			{ID: "laundromat", Name: "Laundromat", Type: "business", Price: domain.Money("800.00"), IncomePerDay: domain.Money("150.00")},
		},
		Stocks: []domain.StockListing{
			{Symbol: "SHDW", Name: "Shadow Holdings", InitialPrice: domain.Money("50.00"), TotalShares: 1000, DividendPercent: 2, DividendInterval: 24},
		},
		Achievements: []domain.Achievement{
			{ID: "first_crime", Name: "First Offence", RequirementType: domain.RequirementCrimes, RequirementValue: 1, KnowledgePointsReward: 1},
			{ID: "first_blood", Name: "First Blood", RequirementType: domain.RequirementBattles, RequirementValue: 1, KnowledgePointsReward: 2},
			{ID: "errand", Name: "Errand Runner", RequirementType: domain.RequirementMissions, RequirementValue: 1, KnowledgePointsReward: 1},
			{ID: "level_five", Name: "Level Five", RequirementType: domain.RequirementLevel, RequirementValue: 5, KnowledgePointsReward: 3},
			{ID: "grand", Name: "First Grand", RequirementType: domain.RequirementMoney, RequirementValue: 1000, KnowledgePointsReward: 2},
			{ID: "landlord", Name: "Landlord", RequirementType: domain.RequirementProperties, RequirementValue: 1, KnowledgePointsReward: 2},
		},
	})
	require.NoError(t, err)
	return c
}

// Harness bundles the collaborators every service needs
type Harness struct {
	Store   *memory.Store
	Clock   *clock.Manual
	Bus     *event.MemoryBus
	Locks   *concurrency.LockManager
	Catalog *catalog.Static
	Events  *Recorder
}

// NewHarness returns a harness whose bus records every published event
func NewHarness(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{
		Store:   memory.NewStore(),
		Clock:   clock.NewManual(Start),
		Bus:     event.NewMemoryBus(),
		Locks:   concurrency.NewLockManager(),
		Catalog: Catalog(t),
		Events:  &Recorder{},
	}
	event.SubscribeAll(h.Bus, h.Events.Handle)
	return h
}

// Seed stores a fresh character after letting edit adjust it
func (h *Harness) Seed(t testing.TB, edit func(c *domain.Character)) *domain.Character {
	t.Helper()
	c := domain.NewCharacter("char-"+uuid.NewString()[:8], domain.CharacterCriminal, h.Clock.Now())
	if edit != nil {
		edit(c)
	}
	require.NoError(t, repository.WithTx(context.Background(), h.Store, func(tx repository.Tx) error {
		return tx.InsertCharacter(context.Background(), c)
	}))
	return c
}

// Load reads the stored character
func (h *Harness) Load(t testing.TB, id uuid.UUID) *domain.Character {
	t.Helper()
	var c *domain.Character
	require.NoError(t, repository.ReadTx(context.Background(), h.Store, func(tx repository.Tx) error {
		var err error
		c, err = tx.GetCharacter(context.Background(), id)
		return err
	}))
	return c
}

// Read runs fn in a read-only transaction
func (h *Harness) Read(t testing.TB, fn func(tx repository.Tx) error) {
	t.Helper()
	require.NoError(t, repository.ReadTx(context.Background(), h.Store, fn))
}

// Recorder captures published events
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

// Handle is an event.Handler
func (r *Recorder) Handle(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// OfType returns the recorded events of type t
func (r *Recorder) OfType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
