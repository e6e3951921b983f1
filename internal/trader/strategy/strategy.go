// Package strategy holds the pure decision functions of the AI traders.
package strategy

import (
	"sort"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/trader"
)

const (
	momentumThreshold   = 1.0
	contrarianThreshold = 1.5
	valueMaxPER         = 15
	valueSellPER        = 40
)

// Decide returns the agent's decision against the given quotes, or false
// when the agent has nothing to do this tick. It never mutates the agent.
func Decide(agent trader.Agent, instruments []market.Instrument) (trader.Decision, bool) {
	if len(instruments) == 0 {
		return trader.Decision{}, false
	}

	switch agent.Strategy {
	case trader.StrategyMomentum:
		return momentum(agent, instruments)
	case trader.StrategyValue:
		return value(agent, instruments)
	case trader.StrategyContrarian:
		return contrarian(agent, instruments)
	default:
		return trader.Decision{}, false
	}
}

// byChangeDesc sorts instruments by change percent, best first.
func byChangeDesc(instruments []market.Instrument) []market.Instrument {
	sorted := make([]market.Instrument, len(instruments))
	copy(sorted, instruments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePercent > sorted[j].ChangePercent
	})
	return sorted
}

func owned(agent trader.Agent, sorted []market.Instrument) []market.Instrument {
	var out []market.Instrument
	for _, inst := range sorted {
		if agent.Held(inst.Symbol) > 0 {
			out = append(out, inst)
		}
	}
	return out
}

func momentum(agent trader.Agent, instruments []market.Instrument) (trader.Decision, bool) {
	sorted := byChangeDesc(instruments)

	if best := sorted[0]; best.ChangePercent > momentumThreshold {
		return trader.Decision{Action: trader.ActionBuy, Symbol: best.Symbol}, true
	}

	held := owned(agent, sorted)
	if len(held) > 0 {
		if worst := held[len(held)-1]; worst.ChangePercent < -momentumThreshold {
			return trader.Decision{Action: trader.ActionSell, Symbol: worst.Symbol}, true
		}
	}
	return trader.Decision{}, false
}

func value(agent trader.Agent, instruments []market.Instrument) (trader.Decision, bool) {
	budget := agent.Cash * agent.RiskFactor

	var candidates []market.Instrument
	for _, inst := range instruments {
		if inst.PER > 0 && inst.PER < valueMaxPER && inst.Price < budget {
			candidates = append(candidates, inst)
		}
	}
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].PER < candidates[j].PER
		})
		return trader.Decision{Action: trader.ActionBuy, Symbol: candidates[0].Symbol}, true
	}

	for _, inst := range instruments {
		if agent.Held(inst.Symbol) > 0 && inst.PER > valueSellPER {
			return trader.Decision{Action: trader.ActionSell, Symbol: inst.Symbol}, true
		}
	}
	return trader.Decision{}, false
}

func contrarian(agent trader.Agent, instruments []market.Instrument) (trader.Decision, bool) {
	sorted := byChangeDesc(instruments)

	if worst := sorted[len(sorted)-1]; worst.ChangePercent < -contrarianThreshold {
		return trader.Decision{Action: trader.ActionBuy, Symbol: worst.Symbol}, true
	}

	held := owned(agent, sorted)
	if len(held) > 0 {
		if best := held[0]; best.ChangePercent > contrarianThreshold {
			return trader.Decision{Action: trader.ActionSell, Symbol: best.Symbol}, true
		}
	}
	return trader.Decision{}, false
}
