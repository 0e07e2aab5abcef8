package economy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/economy"
	"github.com/osse101/Underworld_Go/internal/event"
	"github.com/osse101/Underworld_Go/internal/testing/gametest"
)

func seededMarket(t *testing.T) (*gametest.Harness, economy.Service) {
	t.Helper()
	h := gametest.NewHarness(t)
	svc := newService(h)
	require.NoError(t, svc.SeedInstruments(context.Background()))
	return h, svc
}

func TestSeedInstruments_Idempotent(t *testing.T) {
	ctx := context.Background()
	h, svc := seededMarket(t)

	c := h.Seed(t, nil)
	_, err := svc.TradeStock(ctx, c.ID, "SHDW", 10, economy.SideBuy)
	require.NoError(t, err)

	require.NoError(t, svc.SeedInstruments(ctx))
	insts, err := svc.Instruments(ctx)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, int64(990), insts[0].AvailableShares, "reseeding keeps market state")
	assert.Equal(t, gametest.Start.Add(24*time.Hour), insts[0].NextDividendAt)
}

func TestTradeStock_UncoveredBuyChangesNothing(t *testing.T) {
	ctx := context.Background()
	h, svc := seededMarket(t)

	c := h.Seed(t, withMoney("1000.00"))
	_, err := svc.TradeStock(ctx, c.ID, "SHDW", 100, economy.SideBuy)
	assert.ErrorIs(t, err, domain.ErrInsufficientResource)

	assert.True(t, h.Load(t, c.ID).Money.Equal(domain.Money("1000.00")))
	positions, err := svc.Portfolio(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, positions)

	insts, err := svc.Instruments(ctx)
	require.NoError(t, err)
	assert.True(t, insts[0].CurrentPrice.Equal(domain.Money("50.00")), "price untouched")
	assert.Equal(t, int64(1000), insts[0].AvailableShares)
}

func TestTradeStock_BuyAndSell(t *testing.T) {
	ctx := context.Background()
	h, svc := seededMarket(t)

	c := h.Seed(t, withMoney("5000.00"))

	buy, err := svc.TradeStock(ctx, c.ID, "SHDW", 20, economy.SideBuy)
	require.NoError(t, err)
	assert.True(t, buy.Price.Equal(domain.Money("50.00")))
	assert.True(t, buy.Total.Equal(domain.Money("1000.00")))
	// 50 * (1 + 0.5 * 20/1000)
	assert.True(t, buy.NewPrice.Equal(domain.Money("50.50")), "got %s", buy.NewPrice)
	require.NotNil(t, buy.Position)
	assert.Equal(t, int64(20), buy.Position.Shares)
	assert.True(t, buy.Money.Equal(domain.Money("4000.00")))

	sell, err := svc.TradeStock(ctx, c.ID, "SHDW", 20, economy.SideSell)
	require.NoError(t, err)
	assert.True(t, sell.Price.Equal(domain.Money("50.50")))
	assert.True(t, sell.Total.Equal(domain.Money("1010.00")))
	assert.Nil(t, sell.Position, "position closed")
	assert.True(t, h.Load(t, c.ID).LifetimeEarned.IsZero(), "sale proceeds are not earnings")

	insts, err := svc.Instruments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), insts[0].AvailableShares)
	assert.True(t, insts[0].PreviousPrice.Equal(domain.Money("50.50")))
	assert.Len(t, h.Events.OfType(event.StockTraded), 2)

	t.Run("rejects", func(t *testing.T) {
		tests := []struct {
			name   string
			symbol string
			shares int64
			side   economy.Side
			want   error
		}{
			{"sell without position", "SHDW", 1, economy.SideSell, domain.ErrInsufficientResource},
			{"more than available", "SHDW", 1001, economy.SideBuy, domain.ErrInsufficientResource},
			{"zero shares", "SHDW", 0, economy.SideBuy, domain.ErrInvalidInput},
			{"bad side", "SHDW", 1, economy.Side("short"), domain.ErrInvalidInput},
			{"unknown symbol", "NOPE", 1, economy.SideBuy, domain.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.TradeStock(ctx, c.ID, tt.symbol, tt.shares, tt.side)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})
}

func TestTradeStock_ConcurrentBuyersShareOnePriceSequence(t *testing.T) {
	ctx := context.Background()
	h, svc := seededMarket(t)

	const buyers = 10
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		c := h.Seed(t, withMoney("10000.00"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.TradeStock(ctx, c.ID, "SHDW", 10, economy.SideBuy)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	insts, err := svc.Instruments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900), insts[0].AvailableShares)
	assert.Equal(t, int64(1+buyers), insts[0].Version)

	expected := domain.Money("50.00")
	for i := 0; i < buyers; i++ {
		expected = economy.ImpactPrice(expected, 10, 1000, economy.DefaultPriceImpact, economy.SideBuy)
	}
	assert.True(t, insts[0].CurrentPrice.Equal(expected), "got %s want %s", insts[0].CurrentPrice, expected)
}

func TestPayDividends(t *testing.T) {
	ctx := context.Background()
	h, svc := seededMarket(t)

	holder := h.Seed(t, withMoney("1000.00"))
	_, err := svc.TradeStock(ctx, holder.ID, "SHDW", 10, economy.SideBuy)
	require.NoError(t, err)
	before := h.Load(t, holder.ID).Money

	paid, err := svc.PayDividends(ctx)
	require.NoError(t, err)
	assert.Zero(t, paid, "not due yet")

	h.Clock.Advance(50 * time.Hour)
	paid, err = svc.PayDividends(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, paid)

	insts, err := svc.Instruments(ctx)
	require.NoError(t, err)
	want := economy.DividendAmount(10, insts[0].CurrentPrice, 2)
	after := h.Load(t, holder.ID)
	assert.True(t, after.Money.Equal(before.Add(want)))
	assert.True(t, after.LifetimeEarned.Equal(want))
	assert.Equal(t, gametest.Start.Add(72*time.Hour), insts[0].NextDividendAt, "missed intervals are skipped")
	assert.Len(t, h.Events.OfType(event.DividendPaid), 1)

	paid, err = svc.PayDividends(ctx)
	require.NoError(t, err)
	assert.Zero(t, paid, "paid once per due date")
}
