package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/trader"
)

type fixedCooldown int

func (f fixedCooldown) IntBetween(lo, hi int) int { return int(f) }

func TestApplyBuyWeightedAverage(t *testing.T) {
	a := trader.Agent{Name: "T", Cash: 1000, RiskFactor: 0.5, Portfolio: map[market.Symbol]trader.Holding{
		"MEGA": {Quantity: 10, AveragePrice: 20},
	}}

	fill, ok := Apply(&a, trader.Decision{Action: trader.ActionBuy, Symbol: "MEGA"}, market.Instrument{Symbol: "MEGA", Price: 30})
	require.True(t, ok)

	// floor(500/30) = 16
	assert.Equal(t, int64(16), fill.Quantity)
	assert.InDelta(t, 1000-16*30, a.Cash, 1e-9)
	h := a.Portfolio["MEGA"]
	assert.Equal(t, int64(26), h.Quantity)
	assert.InDelta(t, (10*20.0+16*30.0)/26, h.AveragePrice, 1e-9)
}

func TestApplyBuyTooExpensive(t *testing.T) {
	a := trader.Agent{Cash: 100, RiskFactor: 0.1, Portfolio: map[market.Symbol]trader.Holding{}}
	_, ok := Apply(&a, trader.Decision{Action: trader.ActionBuy, Symbol: "MEGA"}, market.Instrument{Symbol: "MEGA", Price: 50})
	assert.False(t, ok)
	assert.Equal(t, 100.0, a.Cash)
	assert.Empty(t, a.Portfolio)
}

func TestApplySellAggressive(t *testing.T) {
	a := trader.Agent{Cash: 0, RiskFactor: 0.25, Portfolio: map[market.Symbol]trader.Holding{
		"BYTE": {Quantity: 10, AveragePrice: 5},
	}}

	fill, ok := Apply(&a, trader.Decision{Action: trader.ActionSell, Symbol: "BYTE"}, market.Instrument{Symbol: "BYTE", Price: 8})
	require.True(t, ok)
	assert.Equal(t, int64(5), fill.Quantity)
	assert.InDelta(t, 40, a.Cash, 1e-9)
	assert.Equal(t, trader.Holding{Quantity: 5, AveragePrice: 5}, a.Portfolio["BYTE"])

	a.RiskFactor = 0.6 // 2x risk exceeds the holding
	fill, ok = Apply(&a, trader.Decision{Action: trader.ActionSell, Symbol: "BYTE"}, market.Instrument{Symbol: "BYTE", Price: 8})
	require.True(t, ok)
	assert.Equal(t, int64(5), fill.Quantity)
	assert.Equal(t, trader.Holding{}, a.Portfolio["BYTE"])
}

func TestStepCooldown(t *testing.T) {
	agents := []trader.Agent{
		{ID: "ai-1", Name: "WOLF-1", Strategy: trader.StrategyMomentum, Cash: 10_000, RiskFactor: 0.25, Portfolio: map[market.Symbol]trader.Holding{}},
	}
	r := NewRunner(fixedCooldown(3), agents)
	quotes := []market.Instrument{{Symbol: "MEGA", Price: 10, ChangePercent: 5}}

	fills := r.Step(quotes)
	require.Len(t, fills, 1)
	assert.Equal(t, 3, r.Agents()[0].Cooldown)

	for want := 2; want >= 0; want-- {
		assert.Empty(t, r.Step(quotes))
		assert.Equal(t, want, r.Agents()[0].Cooldown)
	}

	fills = r.Step(quotes)
	assert.Len(t, fills, 1)
}

func TestStepNoDecisionKeepsCooldownZero(t *testing.T) {
	r := NewRunner(fixedCooldown(5), trader.DefaultAgents())
	quotes := []market.Instrument{{Symbol: "MEGA", Price: 10, ChangePercent: 0, PER: 20}}

	assert.Empty(t, r.Step(quotes))
	for _, a := range r.Agents() {
		assert.Equal(t, 0, a.Cooldown)
	}
}

func TestAgentsAreCopies(t *testing.T) {
	r := NewRunner(fixedCooldown(3), trader.DefaultAgents())
	agents := r.Agents()
	agents[0].Portfolio["MEGA"] = trader.Holding{Quantity: 99}
	assert.Empty(t, r.Agents()[0].Portfolio)
}

func TestFlows(t *testing.T) {
	flows := Flows([]trader.Fill{
		{Symbol: "MEGA", Quantity: 3, Action: trader.ActionBuy},
		{Symbol: "BYTE", Quantity: 2, Action: trader.ActionSell},
	})
	assert.Equal(t, []market.Flow{
		{Symbol: "MEGA", Quantity: 3, Buy: true},
		{Symbol: "BYTE", Quantity: 2, Buy: false},
	}, flows)
}
