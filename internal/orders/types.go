package orders

import (
	"fmt"
	"strings"

	"github.com/zappabad/stonks9800/internal/market"
)

// Action is the closed set of conditional order kinds.
type Action uint8

const (
	ActionBuyLong Action = iota
	ActionSellLong
	ActionSellShort
	ActionBuyCover
)

var actionNames = map[Action]string{
	ActionBuyLong:   "BUY_LONG",
	ActionSellLong:  "SELL_LONG",
	ActionSellShort: "SELL_SHORT",
	ActionBuyCover:  "BUY_COVER",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, fmt.Errorf("unknown action %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAction accepts the canonical names case-insensitively.
func ParseAction(s string) (Action, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Triggered reports whether price has crossed trigger for a. Buys fire on
// a fall to the trigger, sells on a rise.
func (a Action) Triggered(price, trigger float64) bool {
	switch a {
	case ActionBuyLong, ActionBuyCover:
		return price <= trigger
	case ActionSellLong, ActionSellShort:
		return price >= trigger
	default:
		return false
	}
}

// IsBuy reports whether a buys shares, either to open a long or to close a
// short.
func (a Action) IsBuy() bool {
	return a == ActionBuyLong || a == ActionBuyCover
}

// Status is an order's lifecycle state.
type Status uint8

const (
	StatusPending Status = iota
	StatusExecuted
	StatusCancelled
	StatusFailed
)

var statusNames = map[Status]string{
	StatusPending:   "PENDING",
	StatusExecuted:  "EXECUTED",
	StatusCancelled: "CANCELLED",
	StatusFailed:    "FAILED",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	for st, name := range statusNames {
		if name == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(b))
}

// Order is a conditional order waiting for its trigger price.
type Order struct {
	ID            string        `json:"id"`
	Symbol        market.Symbol `json:"symbol"`
	Action        Action        `json:"action"`
	Quantity      int64         `json:"quantity"`
	TriggerPrice  float64       `json:"triggerPrice"`
	Status        Status        `json:"status"`
	CreatedAt     int64         `json:"createdAt"`
	ExecutedPrice float64       `json:"executedPrice,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

func (o Order) String() string {
	return fmt.Sprintf("%s %d %s @ %.2f", o.Action, o.Quantity, o.Symbol, o.TriggerPrice)
}
