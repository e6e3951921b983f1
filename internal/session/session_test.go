package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/trader"
)

func sampleSnapshot() Snapshot {
	agents := trader.DefaultAgents()
	agents[0].Cash = 1234.5
	agents[0].Cooldown = 4
	agents[0].Portfolio["MEGA"] = trader.Holding{Quantity: 10, AveragePrice: 101.25}

	return Snapshot{
		Cash: decimal.RequireFromString("98765.4321"),
		Portfolio: map[market.Symbol]portfolio.Item{
			"MEGA": {Quantity: 3, AveragePrice: decimal.RequireFromString("12.34")},
			"CYBR": {ShortQuantity: 7, AverageShortPrice: decimal.RequireFromString("55.5")},
		},
		Orders: []orders.Order{
			{ID: "a", Symbol: "NANO", Action: orders.ActionBuyLong, Quantity: 5, TriggerPrice: 100, Status: orders.StatusPending, CreatedAt: 14},
		},
		Bonds: []portfolio.Lot{
			{InstanceID: "l1", BondID: "GOV-2Y", Quantity: 2, PurchasePrice: decimal.RequireFromString("1000"), PurchaseTime: 6},
		},
		AITraders: agents,
		TextGlow:  true,
		Clock:     42,
	}
}

// Decimals do not round-trip to identical internal representations, so
// compare them by value.
func assertSnapshotEqual(t *testing.T, want, got Snapshot) {
	t.Helper()

	assert.True(t, want.Cash.Equal(got.Cash), "cash %s != %s", want.Cash, got.Cash)
	require.Len(t, got.Portfolio, len(want.Portfolio))
	for sym, w := range want.Portfolio {
		g := got.Portfolio[sym]
		assert.Equal(t, w.Quantity, g.Quantity)
		assert.Equal(t, w.ShortQuantity, g.ShortQuantity)
		assert.True(t, w.AveragePrice.Equal(g.AveragePrice))
		assert.True(t, w.AverageShortPrice.Equal(g.AverageShortPrice))
	}
	require.Len(t, got.Bonds, len(want.Bonds))
	for i := range want.Bonds {
		w, g := want.Bonds[i], got.Bonds[i]
		assert.True(t, w.PurchasePrice.Equal(g.PurchasePrice))
		w.PurchasePrice, g.PurchasePrice = decimal.Zero, decimal.Zero
		assert.Equal(t, w, g)
	}
	assert.Equal(t, want.Orders, got.Orders)
	assert.Equal(t, want.AITraders, got.AITraders)
	assert.Equal(t, want.TextGlow, got.TextGlow)
	assert.Equal(t, want.Clock, got.Clock)
}

func testStoreRoundTrip(t *testing.T, store Store) {
	ctx := context.Background()
	require.NoError(t, store.Reset(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotExists)

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assertSnapshotEqual(t, want, got)

	require.NoError(t, store.Reset(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotExists)
}

func TestJSONStore(t *testing.T) {
	testStoreRoundTrip(t, NewJSONStore(filepath.Join(t.TempDir(), "nested", "session.json")))
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemoryStore())
}

func TestJSONStoreMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))

	_, err := NewJSONStore(p).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExists)
}

func TestRedisStore(t *testing.T) {
	host, ok := os.LookupEnv("REDIS_HOST")
	if !ok {
		t.Skip("REDIS_HOST not set")
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	store := NewRedisStore(RedisConfig{Host: host, Port: port, Namespace: "test"})
	defer store.Close()
	testStoreRoundTrip(t, store)
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Path, s.(*JSONStore).Path)

	_, err = Open(Config{Driver: "sqlite"})
	assert.Error(t, err)
}
