package portfolio

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestLedger(cash string) *Ledger {
	l := NewLedger(d(cash), DefaultCatalog())
	n := 0
	l.newID = func() string {
		n++
		return fmt.Sprintf("lot-%d", n)
	}
	return l
}

func TestBuySellStockCash(t *testing.T) {
	l := newTestLedger("1000")

	require.NoError(t, l.BuyStock("MEGA", 3, d("12.34")))
	assert.True(t, l.Cash().Equal(d("962.98")))
	assert.Equal(t, int64(3), l.Item("MEGA").Quantity)
	assert.True(t, l.Item("MEGA").AveragePrice.Equal(d("12.34")))

	require.NoError(t, l.SellStock("MEGA", 1, d("20")))
	assert.True(t, l.Cash().Equal(d("982.98")))
	assert.True(t, l.Item("MEGA").AveragePrice.Equal(d("12.34")), "average kept while quantity > 0")

	require.NoError(t, l.SellStock("MEGA", 2, d("10")))
	assert.True(t, l.Cash().Equal(d("1002.98")))
	assert.Equal(t, Item{}, l.Item("MEGA"))
}

func TestWeightedAverageAssociative(t *testing.T) {
	a := newTestLedger("100000")
	require.NoError(t, a.BuyStock("BYTE", 10, d("20")))
	require.NoError(t, a.BuyStock("BYTE", 30, d("40")))

	// (10*20 + 30*40) / 40 = 35
	b := newTestLedger("100000")
	require.NoError(t, b.BuyStock("BYTE", 40, d("35")))

	assert.True(t, a.Item("BYTE").AveragePrice.Equal(b.Item("BYTE").AveragePrice))
	assert.True(t, a.Cash().Equal(b.Cash()))
}

func TestRejectionsLeaveStateUntouched(t *testing.T) {
	l := newTestLedger("100")
	require.NoError(t, l.BuyStock("NANO", 2, d("10")))
	require.NoError(t, l.ShortStock("CYBR", 1, d("5")))
	before := l.Snapshot()

	cases := []struct {
		name string
		fn   func() error
		want error
	}{
		{"buy zero", func() error { return l.BuyStock("NANO", 0, d("1")) }, ErrInvalidQuantity},
		{"buy too expensive", func() error { return l.BuyStock("NANO", 100, d("10")) }, ErrInsufficientCash},
		{"sell more than held", func() error { return l.SellStock("NANO", 3, d("10")) }, ErrInsufficientShares},
		{"sell negative", func() error { return l.SellStock("NANO", -1, d("10")) }, ErrInvalidQuantity},
		{"short zero", func() error { return l.ShortStock("NANO", 0, d("10")) }, ErrInvalidQuantity},
		{"cover more than short", func() error { return l.CoverStock("CYBR", 2, d("1")) }, ErrInsufficientShares},
		{"cover too expensive", func() error { return l.CoverStock("CYBR", 1, d("1000")) }, ErrInsufficientCash},
		{"sell bond not held", func() error { return l.SellBond("GOV-2Y", 1, d("1000")) }, ErrInsufficientBonds},
		{"buy bond unknown", func() error { _, err := l.BuyBond("NOPE", 1, d("1"), 0); return err }, ErrUnknownBond},
		{"buy bond too expensive", func() error { _, err := l.BuyBond("GOV-2Y", 1, d("1000"), 0); return err }, ErrInsufficientCash},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.fn(), tc.want)
			assert.Equal(t, before, l.Snapshot())
		})
	}
}

func TestShortAndCover(t *testing.T) {
	l := newTestLedger("0")

	// no cash needed to short
	require.NoError(t, l.ShortStock("TRON", 10, d("5")))
	require.NoError(t, l.ShortStock("TRON", 10, d("7")))
	it := l.Item("TRON")
	assert.Equal(t, int64(20), it.ShortQuantity)
	assert.True(t, it.AverageShortPrice.Equal(d("6")))
	assert.True(t, l.Cash().Equal(d("120")))

	require.NoError(t, l.CoverStock("TRON", 20, d("4")))
	assert.True(t, l.Cash().Equal(d("40")))
	assert.Equal(t, Item{}, l.Item("TRON"))
}

func TestSellBondFIFO(t *testing.T) {
	l := newTestLedger("10000")

	_, err := l.BuyBond("GOV-2Y", 5, d("100"), 10)
	require.NoError(t, err)
	_, err = l.BuyBond("GOV-2Y", 5, d("110"), 20)
	require.NoError(t, err)
	cash := l.Cash()

	require.NoError(t, l.SellBond("GOV-2Y", 7, d("120")))

	lots := l.Lots()
	require.Len(t, lots, 1)
	assert.Equal(t, "lot-2", lots[0].InstanceID)
	assert.Equal(t, int64(3), lots[0].Quantity)
	assert.True(t, lots[0].PurchasePrice.Equal(d("110")))
	assert.True(t, l.Cash().Equal(cash.Add(d("840"))))
}

func TestSellBondFIFOByPurchaseTime(t *testing.T) {
	l := newTestLedger("10000")
	l.Restore(State{
		Cash: d("0"),
		Bonds: []Lot{
			{InstanceID: "new", BondID: "GOV-10Y", Quantity: 2, PurchasePrice: d("900"), PurchaseTime: 50},
			{InstanceID: "old", BondID: "GOV-10Y", Quantity: 2, PurchasePrice: d("800"), PurchaseTime: 5},
			{InstanceID: "other", BondID: "GOV-2Y", Quantity: 1, PurchasePrice: d("1000"), PurchaseTime: 1},
		},
	})

	require.NoError(t, l.SellBond("GOV-10Y", 3, d("1")))
	lots := l.Lots()
	require.Len(t, lots, 2)
	assert.Equal(t, "new", lots[0].InstanceID)
	assert.Equal(t, int64(1), lots[0].Quantity)
	assert.Equal(t, "other", lots[1].InstanceID)
	assert.Equal(t, int64(1), l.BondQuantity("GOV-10Y"))
}

func TestRedeemAndAddCash(t *testing.T) {
	l := newTestLedger("5000")
	_, err := l.BuyBond("GOV-2Y", 1, d("1000"), 0)
	require.NoError(t, err)
	_, err = l.BuyBond("GOV-10Y", 1, d("1000"), 0)
	require.NoError(t, err)

	l.RedeemMaturedBonds([]string{"lot-1", "missing"}, d("1060"))
	assert.True(t, l.Cash().Equal(d("4060")))
	require.Len(t, l.Lots(), 1)
	assert.Equal(t, "lot-2", l.Lots()[0].InstanceID)

	assert.False(t, l.AddCash(d("0")))
	assert.False(t, l.AddCash(d("-5")))
	assert.True(t, l.AddCash(d("0.5")))
	assert.True(t, l.Cash().Equal(d("4060.5")))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	l := newTestLedger("1000")
	require.NoError(t, l.BuyStock("AI", 1, d("10")))
	_, err := l.BuyBond("GOV-2Y", 0, d("1"), 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	s := l.Snapshot()
	s.Portfolio["AI"] = Item{Quantity: 99}
	s.Cash = d("0")
	assert.Equal(t, int64(1), l.Item("AI").Quantity)
	assert.True(t, l.Cash().Equal(d("990")))

	l2 := newTestLedger("0")
	l2.Restore(l.Snapshot())
	assert.Equal(t, l.Snapshot(), l2.Snapshot())
}
