package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/session"
)

func newTestGame(t *testing.T, store session.Store) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.BaseTick = time.Hour // only Step advances
	g := New(cfg, store)
	t.Cleanup(g.Close)
	return g
}

func steps(t *testing.T, g *Game, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, g.Step(ctx))
	}
}

func logContains(v View, sub string) bool {
	for _, e := range v.Log {
		if strings.Contains(e.Text, sub) {
			return true
		}
	}
	return false
}

func TestClockAdvancesOnPriceTicks(t *testing.T) {
	g := newTestGame(t, nil)

	steps(t, g, 1)
	assert.Equal(t, int64(0), g.Clock())
	steps(t, g, 1)
	assert.Equal(t, int64(2), g.Clock())
	steps(t, g, 8)
	assert.Equal(t, int64(10), g.Clock())

	for _, inst := range g.View().Instruments {
		pts := g.History().Points(inst.Symbol)
		require.Len(t, pts, 5)
		assert.GreaterOrEqual(t, inst.Price, market.MinPrice)
		for i, pt := range pts {
			assert.Equal(t, int64(2*(i+1)), pt.Time)
		}
	}
	assert.Len(t, g.View().Values, 6)
}

func TestViewValuationMatchesLedger(t *testing.T) {
	g := newTestGame(t, nil)
	ctx := context.Background()

	require.NoError(t, g.Trade(ctx, orders.ActionBuyLong, "MEGA", 10))
	_, err := g.BuyBond(ctx, "GOV-2Y", 1)
	require.NoError(t, err)
	steps(t, g, 2)

	v := g.View()
	assert.True(t, v.Valuation.Cash.Equal(v.Ledger.Cash))
	var mega float64
	for _, inst := range v.Instruments {
		if inst.Symbol == "MEGA" {
			mega = inst.Price
		}
	}
	require.NotZero(t, mega)
	assert.True(t, v.Valuation.Long.Equal(decimal.NewFromFloat(mega).Mul(decimal.NewFromInt(10))))
	assert.True(t, v.Valuation.Bonds.Equal(v.BondPrices["GOV-2Y"]))
}

func TestTextGlowDefaultsOn(t *testing.T) {
	g := newTestGame(t, nil)
	assert.True(t, g.View().TextGlow)
}

func TestPendingEventClearedOnNextPriceTick(t *testing.T) {
	g := newTestGame(t, nil)

	for i := 0; i < 60 && g.events.Pending() == nil; i++ {
		steps(t, g, int(g.cfg.EventEvery))
	}
	pending := g.events.Pending()
	require.NotNil(t, pending, "no event generated")

	// run up to and including the next price tick
	for {
		steps(t, g, 1)
		if g.elapsed%g.cfg.PriceEvery == 0 {
			break
		}
	}
	assert.Nil(t, g.events.Pending())
}

func TestHeadlineAppearsWhenEventApplies(t *testing.T) {
	g := newTestGame(t, nil)

	for i := 0; i < 60 && g.events.Pending() == nil; i++ {
		steps(t, g, int(g.cfg.EventEvery))
	}
	pending := g.events.Pending()
	require.NotNil(t, pending, "no event generated")
	assert.Empty(t, g.View().News, "headline published before the event applied")

	for {
		steps(t, g, 1)
		if g.elapsed%g.cfg.PriceEvery == 0 {
			break
		}
		assert.Empty(t, g.View().News)
	}

	v := g.View()
	require.Len(t, v.News, 1)
	assert.Equal(t, pending.Title, v.News[0].Title)
	assert.Equal(t, pending.Kind, v.News[0].Kind)
	assert.Equal(t, v.Clock, v.News[0].Time)
}

func TestPausedSchedulerDoesNotTick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.BaseTick = 2 * time.Millisecond
	g := New(cfg, nil)
	defer g.Close()

	g.Pause()
	assert.True(t, g.Paused())
	time.Sleep(10 * time.Millisecond) // let an in-flight tick drain
	before := g.Clock()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, g.Clock())

	g.Resume()
	assert.Eventually(t, func() bool { return g.Clock() > before }, time.Second, 5*time.Millisecond)
}

func TestTradeThroughCommands(t *testing.T) {
	g := newTestGame(t, nil)
	ctx := context.Background()

	price, ok := g.Market().Price("MEGA")
	require.True(t, ok)

	require.NoError(t, g.Trade(ctx, orders.ActionBuyLong, "MEGA", 10))
	want := decimal.NewFromInt(100_000).Sub(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(10)))
	assert.True(t, g.Ledger().Cash().Equal(want))
	assert.Equal(t, int64(10), g.Ledger().Item("MEGA").Quantity)

	err := g.Trade(ctx, orders.ActionSellLong, "MEGA", 11)
	assert.Error(t, err)
	assert.True(t, logContains(g.View(), "insufficient shares"))

	assert.ErrorIs(t, g.Trade(ctx, orders.ActionBuyLong, "ZZZZ", 1), market.ErrUnknownSymbol)
}

func TestConditionalOrderFiresOnPriceTick(t *testing.T) {
	g := newTestGame(t, nil)
	ctx := context.Background()

	o, err := g.PlaceOrder(ctx, orders.ActionBuyLong, "NANO", 1, 1_000_000)
	require.NoError(t, err)
	_, err = g.PlaceOrder(ctx, orders.ActionSellLong, "NANO", 1, 1_000_000)
	require.NoError(t, err)

	steps(t, g, 2)

	v := g.View()
	require.Len(t, v.Orders, 2)
	assert.Equal(t, o.ID, v.Orders[0].ID)
	assert.Equal(t, orders.StatusExecuted, v.Orders[0].Status)
	assert.Equal(t, orders.StatusPending, v.Orders[1].Status)
	assert.Equal(t, int64(1), v.Ledger.Portfolio["NANO"].Quantity)
	assert.True(t, logContains(v, "Order executed"))

	cancelled, err := g.CancelOrder(ctx, v.Orders[1].ID[:8])
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, cancelled.Status)
}

func TestBondMaturesThroughScheduler(t *testing.T) {
	g := newTestGame(t, nil)
	ctx := context.Background()

	lot, err := g.BuyBond(ctx, "GOV-2Y", 1)
	require.NoError(t, err)
	require.Len(t, g.View().Ledger.Bonds, 1)

	// GOV-2Y matures after 120 simulated seconds
	steps(t, g, 118)
	assert.Len(t, g.View().Ledger.Bonds, 1)
	steps(t, g, 2)
	assert.Empty(t, g.View().Ledger.Bonds)

	interest := lot.PurchasePrice.Mul(decimal.RequireFromString("0.06"))
	assert.True(t, g.Ledger().Cash().Equal(decimal.NewFromInt(100_000).Add(interest)))
}

func TestSessionRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	g := newTestGame(t, store)
	require.NoError(t, g.Trade(ctx, orders.ActionBuyLong, "AI", 5))
	require.NoError(t, g.Trade(ctx, orders.ActionSellShort, "BYTE", 3))
	_, err := g.BuyBond(ctx, "GOV-10Y", 2)
	require.NoError(t, err)
	_, err = g.PlaceOrder(ctx, orders.ActionBuyCover, "BYTE", 3, 0.02)
	require.NoError(t, err)
	glow, err := g.ToggleGlow(ctx)
	require.NoError(t, err)
	require.False(t, glow)
	steps(t, g, 4)

	want := g.View()
	g.Close()

	h := newTestGame(t, store)
	got := h.View()

	assert.True(t, want.Ledger.Cash.Equal(got.Ledger.Cash))
	assert.Equal(t, len(want.Ledger.Portfolio), len(got.Ledger.Portfolio))
	for sym, it := range want.Ledger.Portfolio {
		assert.Equal(t, it.Quantity, got.Ledger.Portfolio[sym].Quantity)
		assert.Equal(t, it.ShortQuantity, got.Ledger.Portfolio[sym].ShortQuantity)
		assert.True(t, it.AveragePrice.Equal(got.Ledger.Portfolio[sym].AveragePrice))
	}
	require.Len(t, got.Ledger.Bonds, 1)
	assert.Equal(t, want.Ledger.Bonds[0].InstanceID, got.Ledger.Bonds[0].InstanceID)
	assert.Equal(t, want.Orders, got.Orders)
	assert.Equal(t, want.Agents, got.Agents)
	assert.Equal(t, want.Clock, got.Clock)
	assert.False(t, got.TextGlow)
}

func TestMalformedSnapshotStartsFresh(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(p, []byte("garbage"), 0o644))

	g := newTestGame(t, session.NewJSONStore(p))
	v := g.View()
	assert.True(t, v.Ledger.Cash.Equal(decimal.NewFromInt(100_000)))
	assert.True(t, logContains(v, "starting fresh"))
}

func TestReset(t *testing.T) {
	store := session.NewMemoryStore()
	g := newTestGame(t, store)
	ctx := context.Background()

	require.NoError(t, g.Trade(ctx, orders.ActionBuyLong, "CORE", 5))
	_, err := g.ToggleGlow(ctx)
	require.NoError(t, err)
	steps(t, g, 10)
	require.NoError(t, g.Reset(ctx))

	v := g.View()
	assert.Equal(t, int64(0), v.Clock)
	assert.True(t, v.TextGlow)
	assert.Empty(t, v.Ledger.Portfolio)
	assert.Empty(t, v.Orders)
	assert.True(t, v.Ledger.Cash.Equal(decimal.NewFromInt(100_000)))
	for _, inst := range v.Instruments {
		assert.Empty(t, g.History().Points(inst.Symbol))
	}

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNotExists)
}

func TestClosedGameRejectsCommands(t *testing.T) {
	g := New(DefaultConfig(), nil)
	g.Close()
	g.Close()

	assert.ErrorIs(t, g.Step(context.Background()), ErrClosed)
}
