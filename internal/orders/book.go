// Package orders holds the player's conditional orders and fires them when
// the market crosses their trigger prices.
package orders

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/portfolio"
)

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = errors.New("order not found")
)

// Executor is the subset of the ledger an order fill needs.
type Executor interface {
	BuyStock(sym market.Symbol, qty int64, price decimal.Decimal) error
	SellStock(sym market.Symbol, qty int64, price decimal.Decimal) error
	ShortStock(sym market.Symbol, qty int64, price decimal.Decimal) error
	CoverStock(sym market.Symbol, qty int64, price decimal.Decimal) error
}

// Quotes resolves a symbol's current price.
type Quotes interface {
	Price(sym market.Symbol) (float64, bool)
}

// Book holds every order placed this session.
type Book struct {
	mu     sync.RWMutex
	orders []Order
	newID  func() string
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{newID: uuid.NewString}
}

// Place records a new pending order.
func (b *Book) Place(sym market.Symbol, action Action, qty int64, trigger float64, now int64) (Order, error) {
	if qty <= 0 || trigger <= 0 {
		return Order{}, ErrInvalidOrder
	}
	if _, ok := actionNames[action]; !ok {
		return Order{}, ErrInvalidOrder
	}

	o := Order{
		ID:           b.newID(),
		Symbol:       sym,
		Action:       action,
		Quantity:     qty,
		TriggerPrice: trigger,
		Status:       StatusPending,
		CreatedAt:    now,
	}

	b.mu.Lock()
	b.orders = append(b.orders, o)
	b.mu.Unlock()
	return o, nil
}

// Cancel moves a pending order to CANCELLED. Orders in any other state are
// returned unchanged.
func (b *Book) Cancel(id string) (Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.orders {
		if b.orders[i].ID != id {
			continue
		}
		if b.orders[i].Status == StatusPending {
			b.orders[i].Status = StatusCancelled
		}
		return b.orders[i], nil
	}
	return Order{}, ErrOrderNotFound
}

// Find looks an order up by ID or unique ID prefix.
func (b *Book) Find(ref string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		found Order
		n     int
	)
	for _, o := range b.orders {
		if o.ID == ref {
			return o, true
		}
		if len(ref) > 0 && len(o.ID) >= len(ref) && o.ID[:len(ref)] == ref {
			found = o
			n++
		}
	}
	return found, n == 1
}

// Orders returns a copy of every order.
func (b *Book) Orders() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Pending returns a copy of the pending orders.
func (b *Book) Pending() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Order
	for _, o := range b.orders {
		if o.Status == StatusPending {
			out = append(out, o)
		}
	}
	return out
}

// Restore replaces the book's contents.
func (b *Book) Restore(orders []Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = make([]Order, len(orders))
	copy(b.orders, orders)
}

// Evaluate fires every pending order whose trigger has been crossed, filling
// at the current price. Orders on unknown symbols stay pending. It returns
// the orders that changed state this pass.
func (b *Book) Evaluate(quotes Quotes, exec Executor) []Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changed []Order
	for i := range b.orders {
		o := &b.orders[i]
		if o.Status != StatusPending {
			continue
		}
		price, ok := quotes.Price(o.Symbol)
		if !ok || !o.Action.Triggered(price, o.TriggerPrice) {
			continue
		}

		if err := Execute(exec, o.Action, o.Symbol, o.Quantity, decimal.NewFromFloat(price)); err != nil {
			o.Status = StatusFailed
			o.Reason = failureReason(o.Action, err)
		} else {
			o.Status = StatusExecuted
			o.ExecutedPrice = price
		}
		changed = append(changed, *o)
	}
	return changed
}

// Execute routes a to the matching ledger operation.
func Execute(exec Executor, a Action, sym market.Symbol, qty int64, price decimal.Decimal) error {
	switch a {
	case ActionBuyLong:
		return exec.BuyStock(sym, qty, price)
	case ActionSellLong:
		return exec.SellStock(sym, qty, price)
	case ActionSellShort:
		return exec.ShortStock(sym, qty, price)
	case ActionBuyCover:
		return exec.CoverStock(sym, qty, price)
	default:
		return fmt.Errorf("%w: action %d", ErrInvalidOrder, a)
	}
}

func failureReason(a Action, err error) string {
	switch {
	case errors.Is(err, portfolio.ErrInsufficientCash):
		if a == ActionBuyCover {
			return "insufficient cash or shares"
		}
		return "insufficient cash"
	case errors.Is(err, portfolio.ErrInsufficientShares):
		if a == ActionBuyCover {
			return "insufficient cash or shares"
		}
		return "insufficient shares"
	case a == ActionSellShort:
		return "short failed"
	default:
		return err.Error()
	}
}
