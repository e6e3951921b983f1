// Package runner is the AI trader engine: it evaluates every agent's
// strategy each price tick and applies the resulting trades.
package runner

import (
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/trader"
	"github.com/zappabad/stonks9800/internal/trader/strategy"
)

const (
	minCooldown = 3
	maxCooldown = 7

	// sells liquidate twice the buy fraction of the holding
	sellAggression = 2
)

var logger = log.WithField("component", "ai")

// Rand draws the post-trade cooldown.
type Rand interface {
	IntBetween(lo, hi int) int
}

// Runner owns the AI agents. Agent state is only mutated inside Step.
type Runner struct {
	mu     sync.RWMutex
	src    Rand
	agents []trader.Agent
}

// NewRunner creates a Runner for the given agents.
func NewRunner(src Rand, agents []trader.Agent) *Runner {
	r := &Runner{src: src}
	r.SetAgents(agents)
	return r
}

// SetAgents replaces the roster with copies of agents.
func (r *Runner) SetAgents(agents []trader.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents = make([]trader.Agent, len(agents))
	for i, a := range agents {
		r.agents[i] = a.Clone()
		if r.agents[i].Cooldown < 0 {
			r.agents[i].Cooldown = 0
		}
	}
}

// Agents returns deep copies of every agent.
func (r *Runner) Agents() []trader.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]trader.Agent, len(r.agents))
	for i, a := range r.agents {
		out[i] = a.Clone()
	}
	return out
}

// Step runs one decision round against instruments, which must be the
// quotes before this tick's price update.
func (r *Runner) Step(instruments []market.Instrument) []trader.Fill {
	r.mu.Lock()
	defer r.mu.Unlock()

	quotes := make(map[market.Symbol]market.Instrument, len(instruments))
	for _, inst := range instruments {
		quotes[inst.Symbol] = inst
	}

	var fills []trader.Fill
	for i := range r.agents {
		agent := &r.agents[i]
		if agent.Cooldown > 0 {
			agent.Cooldown--
			continue
		}

		decision, ok := strategy.Decide(*agent, instruments)
		if !ok {
			continue
		}

		inst, ok := quotes[decision.Symbol]
		if !ok {
			continue
		}

		fill, ok := Apply(agent, decision, inst)
		if !ok {
			continue
		}
		agent.Cooldown = r.src.IntBetween(minCooldown, maxCooldown)

		logger.WithField("agent", agent.Name).Info(fill.String())
		fills = append(fills, fill)
	}
	return fills
}

// Apply executes decision for agent at the instrument's price. It reports
// false, leaving the agent untouched, when the sized quantity is zero.
func Apply(agent *trader.Agent, decision trader.Decision, inst market.Instrument) (trader.Fill, bool) {
	if inst.Price <= 0 {
		return trader.Fill{}, false
	}
	if agent.Portfolio == nil {
		agent.Portfolio = make(map[market.Symbol]trader.Holding)
	}

	fill := trader.Fill{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Action:    decision.Action,
		Symbol:    inst.Symbol,
		Price:     inst.Price,
	}

	switch decision.Action {
	case trader.ActionBuy:
		qty := int64(math.Floor(agent.Cash * agent.RiskFactor / inst.Price))
		if qty <= 0 {
			return trader.Fill{}, false
		}

		h := agent.Portfolio[inst.Symbol]
		newQty := h.Quantity + qty
		h.AveragePrice = (h.AveragePrice*float64(h.Quantity) + inst.Price*float64(qty)) / float64(newQty)
		h.Quantity = newQty

		agent.Cash -= float64(qty) * inst.Price
		agent.Portfolio[inst.Symbol] = h
		fill.Quantity = qty

	case trader.ActionSell:
		h := agent.Portfolio[inst.Symbol]
		if h.Quantity <= 0 {
			return trader.Fill{}, false
		}
		qty := int64(math.Floor(float64(h.Quantity) * agent.RiskFactor * sellAggression))
		if qty > h.Quantity {
			qty = h.Quantity
		}
		if qty <= 0 {
			return trader.Fill{}, false
		}

		h.Quantity -= qty
		if h.Quantity == 0 {
			h.AveragePrice = 0
		}

		agent.Cash += float64(qty) * inst.Price
		agent.Portfolio[inst.Symbol] = h
		fill.Quantity = qty

	default:
		return trader.Fill{}, false
	}

	return fill, true
}

// Flows converts fills into the market-impact flows of the price update.
func Flows(fills []trader.Fill) []market.Flow {
	flows := make([]market.Flow, 0, len(fills))
	for _, f := range fills {
		flows = append(flows, market.Flow{
			Symbol:   f.Symbol,
			Quantity: f.Quantity,
			Buy:      f.Action == trader.ActionBuy,
		})
	}
	return flows
}
