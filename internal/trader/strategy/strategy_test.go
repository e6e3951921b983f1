package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/trader"
)

func quotes() []market.Instrument {
	return []market.Instrument{
		{Symbol: "MEGA", Price: 100, ChangePercent: 0.5, PER: 20},
		{Symbol: "BYTE", Price: 40, ChangePercent: 2.5, PER: 12},
		{Symbol: "NANO", Price: 30, ChangePercent: -2.0, PER: 10},
		{Symbol: "CYBR", Price: 500, ChangePercent: -0.2, PER: 45},
	}
}

func agent(s trader.Strategy, holdings map[market.Symbol]trader.Holding) trader.Agent {
	if holdings == nil {
		holdings = map[market.Symbol]trader.Holding{}
	}
	return trader.Agent{Strategy: s, Cash: 10_000, RiskFactor: 0.2, Portfolio: holdings}
}

func TestMomentumBuysTopPerformer(t *testing.T) {
	d, ok := Decide(agent(trader.StrategyMomentum, nil), quotes())
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionBuy, Symbol: "BYTE"}, d)
}

func TestMomentumSellsWorstHeld(t *testing.T) {
	q := quotes()
	q[1].ChangePercent = 0.9 // nobody above +1%

	a := agent(trader.StrategyMomentum, map[market.Symbol]trader.Holding{
		"NANO": {Quantity: 10, AveragePrice: 31},
		"MEGA": {Quantity: 5, AveragePrice: 90},
	})
	d, ok := Decide(a, q)
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionSell, Symbol: "NANO"}, d)

	// held loser not bad enough
	a.Portfolio = map[market.Symbol]trader.Holding{"CYBR": {Quantity: 1}}
	_, ok = Decide(a, q)
	assert.False(t, ok)
}

func TestValueBuysLowestPER(t *testing.T) {
	d, ok := Decide(agent(trader.StrategyValue, nil), quotes())
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionBuy, Symbol: "NANO"}, d)
}

func TestValueRespectsBudget(t *testing.T) {
	a := agent(trader.StrategyValue, nil)
	a.Cash = 100 // budget 20 excludes every candidate

	_, ok := Decide(a, quotes())
	assert.False(t, ok)

	a.Portfolio["CYBR"] = trader.Holding{Quantity: 3}
	d, ok := Decide(a, quotes())
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionSell, Symbol: "CYBR"}, d)
}

func TestContrarianBuysWorstPerformer(t *testing.T) {
	d, ok := Decide(agent(trader.StrategyContrarian, nil), quotes())
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionBuy, Symbol: "NANO"}, d)
}

func TestContrarianSellsBestHeld(t *testing.T) {
	q := quotes()
	q[2].ChangePercent = -1.0

	a := agent(trader.StrategyContrarian, map[market.Symbol]trader.Holding{
		"BYTE": {Quantity: 10},
		"MEGA": {Quantity: 10},
	})
	d, ok := Decide(a, q)
	assert.True(t, ok)
	assert.Equal(t, trader.Decision{Action: trader.ActionSell, Symbol: "BYTE"}, d)
}

func TestDecideDoesNotMutate(t *testing.T) {
	a := agent(trader.StrategyMomentum, map[market.Symbol]trader.Holding{"NANO": {Quantity: 10}})
	before := a.Clone()
	Decide(a, quotes())
	assert.Equal(t, before, a)
}
