package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/rng"
)

func testState(t *testing.T, insts []Instrument, params map[Symbol]StockParams) *State {
	t.Helper()
	return NewStateFrom(rng.New(1), insts, params, DefaultIndicators(), nil)
}

func TestNewStateGeneratesCatalog(t *testing.T) {
	s := NewState(rng.New(3))
	insts := s.Instruments()
	require.Len(t, insts, len(Symbols))

	for _, inst := range insts {
		assert.Greater(t, inst.Price, 0.0)
		assert.Equal(t, inst.Price, inst.PreviousPrice)
		assert.InDelta(t, inst.Price/inst.Financials.EarningsPerShare, inst.PER, 1e-9)
		assert.GreaterOrEqual(t, inst.PER, 15.0)
		assert.Less(t, inst.PER, 30.0)

		p, ok := s.Params(inst.Symbol)
		require.True(t, ok)
		assert.GreaterOrEqual(t, p.Sigma, 0.15)
	}

	mega, err := s.Instrument("MEGA")
	require.NoError(t, err)
	assert.Equal(t, 0.50, mega.DividendPerShare)
	assert.Equal(t, SectorTech, mega.Sector)

	_, err = s.Instrument("NOPE")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestStepPriceFloor(t *testing.T) {
	s := testState(t, []Instrument{
		{Symbol: "MEGA", Sector: SectorTech, Price: 0.02, PreviousPrice: 0.02, Financials: Financials{EarningsPerShare: 1, TotalShares: 10}},
	}, map[Symbol]StockParams{"MEGA": {Mu: 0, Sigma: 0.3}})

	crash := &Event{Kind: EventStock, Scope: ScopeSymbol, Symbol: "MEGA", Impact: 0.0001}
	updates := s.Step(map[Symbol]float64{"MEGA": -5}, crash, nil)

	require.Len(t, updates, 1)
	assert.Equal(t, MinPrice, updates[0].Price)
	inst, _ := s.Instrument("MEGA")
	assert.Equal(t, MinPrice, inst.Price)
	assert.Equal(t, 0.02, inst.PreviousPrice)
}

func TestStepGBMWithoutShock(t *testing.T) {
	s := testState(t, []Instrument{
		{Symbol: "BYTE", Sector: SectorTech, Price: 100, PreviousPrice: 100, Financials: Financials{EarningsPerShare: 4, TotalShares: 1000}},
	}, map[Symbol]StockParams{"BYTE": {Mu: 0.1, Sigma: 0.2}})

	s.Step(map[Symbol]float64{"BYTE": 0}, nil, nil)

	// PER 25 equals the market average so only mu and sigma drive the step.
	want := 100 * math.Exp((0.1-0.02)*TradingDay)
	inst, _ := s.Instrument("BYTE")
	assert.InDelta(t, want, inst.Price, 1e-9)
	assert.InDelta(t, want-100, inst.Change, 1e-9)
	assert.InDelta(t, (want-100), inst.ChangePercent, 1e-9)
	assert.InDelta(t, want*1000, inst.MarketCap, 1e-6)
}

func TestStepAppliesSectorEventAndFinancials(t *testing.T) {
	s := testState(t, []Instrument{
		{Symbol: "CORE", Sector: SectorInfra, Price: 50, Financials: Financials{EarningsPerShare: 2, Revenue: 100, TotalShares: 1}},
		{Symbol: "GRID", Sector: SectorInfra, Price: 50, Financials: Financials{EarningsPerShare: 2, Revenue: 100, TotalShares: 1}},
		{Symbol: "XENO", Sector: SectorBio, Price: 50, Financials: Financials{EarningsPerShare: 2, Revenue: 100, TotalShares: 1}},
	}, map[Symbol]StockParams{})

	ev := &Event{Kind: EventSector, Scope: ScopeSector, Sector: SectorInfra, Impact: 1.1, EPSFactor: 1.5, RevenueFactor: 2}
	s.Step(map[Symbol]float64{}, ev, nil)

	core, _ := s.Instrument("CORE")
	xeno, _ := s.Instrument("XENO")
	assert.InDelta(t, 55, core.Price, 1e-9)
	assert.InDelta(t, 3, core.Financials.EarningsPerShare, 1e-9)
	assert.InDelta(t, 200, core.Financials.Revenue, 1e-9)
	assert.InDelta(t, 55.0/3, core.PER, 1e-9)
	assert.InDelta(t, 50, xeno.Price, 1e-9)
	assert.InDelta(t, 2, xeno.Financials.EarningsPerShare, 1e-9)
}

func TestStepFoldsAIFlows(t *testing.T) {
	s := testState(t, []Instrument{
		{Symbol: "AI", Sector: SectorAI, Price: 10, Volume: 100, Financials: Financials{EarningsPerShare: 0}},
	}, map[Symbol]StockParams{})

	updates := s.Step(map[Symbol]float64{}, nil, []Flow{{Symbol: "AI", Quantity: 500, Buy: true}})

	inst, _ := s.Instrument("AI")
	assert.InDelta(t, 10*1.0002, inst.Price, 1e-12)
	assert.GreaterOrEqual(t, updates[0].TickVolume, int64(500))
	assert.Less(t, updates[0].TickVolume, int64(500+maxTickVolume))
	assert.Equal(t, 100+updates[0].TickVolume, inst.Volume)
	assert.Equal(t, 0.0, inst.PER)
}

func TestApplyIndicatorsClamps(t *testing.T) {
	s := testState(t, nil, nil)
	rate, infl := 0.5, 0.001
	s.ApplyIndicators(&Event{Kind: EventRateChange, InterestRate: &rate, InflationRate: &infl})

	ind := s.Indicators()
	assert.InDelta(t, MaxInterestRate, ind.InterestRate, 1e-12)
	assert.InDelta(t, MinInflationRate, ind.InflationRate, 1e-12)
	assert.InDelta(t, InitialGDPGrowth, ind.GDPGrowth, 1e-12)
}

func TestDriftAdjustmentAtBaseline(t *testing.T) {
	assert.InDelta(t, 0, DefaultIndicators().DriftAdjustment(), 1e-12)

	in := DefaultIndicators()
	in.InterestRate += 0.01
	assert.InDelta(t, -0.005, in.DriftAdjustment(), 1e-12)
}
