package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/domain"
)

const minimal = `
locations:
  - id: Home City
    name: Home City
  - id: Docks
    name: Docks
    travel_cost: 25.00
    travel_time: 10
crimes:
  - id: car_theft
    name: Car Theft
    required_level: 5
    energy_cost: 20
    money_reward_min: 100.00
    money_reward_max: 200.00
    success_chance: 60
    jail_risk: 30
    jail_time: 30
    cooldown: 15
missions:
  - id: unload
    name: Unload
    location: Docks
    money_reward: 50.00
    item_rewards: [medkit]
items:
  - id: medkit
    name: Medkit
    item_type: medical
    price: 40.00
    healing_amount: 30
stocks:
  - symbol: ZZZ
    name: Zed
    initial_price: 5.00
    total_shares: 1000
  - symbol: AAA
    name: Aye
    initial_price: 10.00
    total_shares: 1000
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	crime, err := c.Crime("car_theft")
	require.NoError(t, err)
	assert.Equal(t, 5, crime.Requirements.Level)
	assert.True(t, crime.MoneyRewardMin.Equal(domain.Money("100.00")))
	assert.True(t, crime.MoneyRewardMax.Equal(domain.Money("200.00")))
	assert.Equal(t, 30, crime.JailRisk)

	loc, err := c.Location("Docks")
	require.NoError(t, err)
	assert.True(t, loc.TravelCost.Equal(domain.Money("25")))

	stocks := c.Stocks()
	require.Len(t, stocks, 2)
	assert.Equal(t, "AAA", stocks[0].Symbol, "stocks are sorted by symbol")

	_, err = c.Crime("arson")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.Item("nothing")
	assert.ErrorIs(t, err, domain.ErrCatalogNotFound)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		errorMsg string
	}{
		{
			name:     "schema: chance above 100",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: [{id: x, name: X, success_chance: 101, jail_risk: 0}]\n",
			errorMsg: "schema",
		},
		{
			name:     "schema: unknown field",
			yaml:     "locations: [{id: Home City, name: Home City, weather: rain}]\ncrimes: []\n",
			errorMsg: "schema",
		},
		{
			name:     "reward min above max",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: [{id: x, name: X, success_chance: 1, jail_risk: 0, money_reward_min: 5, money_reward_max: 1}]\n",
			errorMsg: "money_reward_min exceeds",
		},
		{
			name:     "duplicate crime",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: [{id: x, name: X, success_chance: 1, jail_risk: 0}, {id: x, name: Y, success_chance: 1, jail_risk: 0}]\n",
			errorMsg: "duplicate crime",
		},
		{
			name:     "mission at unknown location",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: []\nmissions: [{id: m, name: M, location: Nowhere}]\n",
			errorMsg: "unknown location",
		},
		{
			name:     "mission rewards unknown item",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: []\nmissions: [{id: m, name: M, location: Home City, item_rewards: [ghost]}]\n",
			errorMsg: "unknown item",
		},
		{
			name:     "default location missing",
			yaml:     "locations: [{id: Docks, name: Docks}]\ncrimes: []\n",
			errorMsg: "default location",
		},
		{
			name:     "booster without type",
			yaml:     "locations: [{id: Home City, name: Home City}]\ncrimes: []\nitems: [{id: pill, name: Pill, item_type: booster, price: 1}]\n",
			errorMsg: "booster_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestNew_StructValidation(t *testing.T) {
	_, err := New(File{
		Locations: []domain.Location{{ID: domain.DefaultLocation, Name: domain.DefaultLocation}},
		Items:     []domain.Item{{ID: "x", Name: "X", Kind: "gadget"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "catalog.yaml"))
	require.NoError(t, err)

	_, err = c.Location(domain.DefaultLocation)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Crimes())
	assert.NotEmpty(t, c.Achievements())

	for _, m := range c.Missions() {
		_, err := c.Location(m.LocationID)
		assert.NoError(t, err, "mission %s", m.ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
