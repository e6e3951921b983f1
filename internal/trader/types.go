package trader

import (
	"fmt"

	"github.com/zappabad/stonks9800/internal/market"
)

// Strategy is the closed set of AI trading strategies.
type Strategy uint8

const (
	StrategyMomentum Strategy = iota
	StrategyValue
	StrategyContrarian
)

func (s Strategy) String() string {
	switch s {
	case StrategyMomentum:
		return "MOMENTUM"
	case StrategyValue:
		return "VALUE"
	case StrategyContrarian:
		return "CONTRARIAN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "MOMENTUM":
		*s = StrategyMomentum
	case "VALUE":
		*s = StrategyValue
	case "CONTRARIAN":
		*s = StrategyContrarian
	default:
		return fmt.Errorf("unknown strategy %q", string(b))
	}
	return nil
}

// Holding is a long-only AI position.
type Holding struct {
	Quantity     int64   `json:"quantity"`
	AveragePrice float64 `json:"averagePrice"`
}

// Agent is an autonomous AI trader with its own cash and portfolio.
type Agent struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Strategy   Strategy                  `json:"strategy"`
	Cash       float64                   `json:"cash"`
	Portfolio  map[market.Symbol]Holding `json:"portfolio"`
	RiskFactor float64                   `json:"riskFactor"` // fraction of cash committed per buy
	Cooldown   int                       `json:"cooldown"`   // ticks before the next decision
}

// Clone returns a deep copy of the agent.
func (a Agent) Clone() Agent {
	out := a
	out.Portfolio = make(map[market.Symbol]Holding, len(a.Portfolio))
	for sym, h := range a.Portfolio {
		out.Portfolio[sym] = h
	}
	return out
}

// Held returns the quantity held of sym.
func (a Agent) Held(sym market.Symbol) int64 {
	return a.Portfolio[sym].Quantity
}

// DefaultAgents returns the starting roster.
func DefaultAgents() []Agent {
	return []Agent{
		{ID: "ai-1", Name: "WOLF-1", Strategy: StrategyMomentum, Cash: 2_000_000, Portfolio: map[market.Symbol]Holding{}, RiskFactor: 0.25},
		{ID: "ai-2", Name: "OWL-2", Strategy: StrategyValue, Cash: 5_000_000, Portfolio: map[market.Symbol]Holding{}, RiskFactor: 0.15},
		{ID: "ai-3", Name: "BEAR-3", Strategy: StrategyContrarian, Cash: 3_000_000, Portfolio: map[market.Symbol]Holding{}, RiskFactor: 0.20},
	}
}

// Action is what an agent decided to do.
type Action uint8

const (
	ActionBuy Action = iota
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Decision is the output of a strategy for one tick.
type Decision struct {
	Action Action
	Symbol market.Symbol
}

// Fill is an executed AI trade.
type Fill struct {
	AgentID   string
	AgentName string
	Action    Action
	Symbol    market.Symbol
	Quantity  int64
	Price     float64
}

func (f Fill) String() string {
	verb := "bought"
	if f.Action == ActionSell {
		verb = "sold"
	}
	return fmt.Sprintf("[AI: %s] %s %d %s @ $%.2f", f.AgentName, verb, f.Quantity, f.Symbol, f.Price)
}
