// Package portfolio is the player's ledger: cash, long and short equity
// positions and bond lots.
package portfolio

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
)

// Ledger is safe for concurrent use. Every operation validates first and
// mutates only on success, so a rejected call leaves no trace.
type Ledger struct {
	mu      sync.RWMutex
	cash    decimal.Decimal
	items   map[market.Symbol]Item
	lots    []Lot
	catalog Catalog
	newID   func() string
}

// NewLedger creates a ledger holding only cash.
func NewLedger(cash decimal.Decimal, catalog Catalog) *Ledger {
	return &Ledger{
		cash:    cash,
		items:   make(map[market.Symbol]Item),
		catalog: catalog,
		newID:   uuid.NewString,
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Item returns the position in sym.
func (l *Ledger) Item(sym market.Symbol) Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.items[sym]
}

// Lots returns a copy of the bond lots in purchase order.
func (l *Ledger) Lots() []Lot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Lot, len(l.lots))
	copy(out, l.lots)
	return out
}

// Snapshot returns a deep copy of the whole ledger.
func (l *Ledger) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return State{Cash: l.cash, Portfolio: l.items, Bonds: l.lots}.Clone()
}

// Restore replaces the ledger contents with s.
func (l *Ledger) Restore(s State) {
	s = s.Clone()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash = s.Cash
	l.items = s.Portfolio
	l.lots = s.Bonds
}

func cost(qty int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}

func weightedAverage(oldAvg decimal.Decimal, oldQty int64, price decimal.Decimal, qty int64) decimal.Decimal {
	total := cost(oldQty, oldAvg).Add(cost(qty, price))
	return total.Div(decimal.NewFromInt(oldQty + qty))
}

// BuyStock opens or adds to a long position.
func (l *Ledger) BuyStock(sym market.Symbol, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := cost(qty, price)
	if l.cash.LessThan(c) {
		return ErrInsufficientCash
	}

	it := l.items[sym]
	it.AveragePrice = weightedAverage(it.AveragePrice, it.Quantity, price, qty)
	it.Quantity += qty

	l.cash = l.cash.Sub(c)
	l.items[sym] = it
	return nil
}

// SellStock reduces a long position.
func (l *Ledger) SellStock(sym market.Symbol, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	it := l.items[sym]
	if it.Quantity < qty {
		return ErrInsufficientShares
	}

	it.Quantity -= qty
	if it.Quantity == 0 {
		it.AveragePrice = decimal.Zero
	}

	l.cash = l.cash.Add(cost(qty, price))
	l.store(sym, it)
	return nil
}

// ShortStock opens or adds to a short position. Proceeds are credited
// immediately and no collateral is required.
func (l *Ledger) ShortStock(sym market.Symbol, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	it := l.items[sym]
	it.AverageShortPrice = weightedAverage(it.AverageShortPrice, it.ShortQuantity, price, qty)
	it.ShortQuantity += qty

	l.cash = l.cash.Add(cost(qty, price))
	l.items[sym] = it
	return nil
}

// CoverStock buys back part of a short position.
func (l *Ledger) CoverStock(sym market.Symbol, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := cost(qty, price)
	if l.cash.LessThan(c) {
		return ErrInsufficientCash
	}
	it := l.items[sym]
	if it.ShortQuantity < qty {
		return ErrInsufficientShares
	}

	it.ShortQuantity -= qty
	if it.ShortQuantity == 0 {
		it.AverageShortPrice = decimal.Zero
	}

	l.cash = l.cash.Sub(c)
	l.store(sym, it)
	return nil
}

func (l *Ledger) store(sym market.Symbol, it Item) {
	if it.Empty() {
		delete(l.items, sym)
		return
	}
	l.items[sym] = it
}

// BuyBond records a new lot bought at price at simulation time now.
func (l *Ledger) BuyBond(bondID string, qty int64, price decimal.Decimal, now int64) (Lot, error) {
	if qty <= 0 {
		return Lot{}, ErrInvalidQuantity
	}
	if _, ok := l.catalog.Lookup(bondID); !ok {
		return Lot{}, ErrUnknownBond
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c := cost(qty, price)
	if l.cash.LessThan(c) {
		return Lot{}, ErrInsufficientCash
	}

	lot := Lot{
		InstanceID:    l.newID(),
		BondID:        bondID,
		Quantity:      qty,
		PurchasePrice: price,
		PurchaseTime:  now,
	}
	l.cash = l.cash.Sub(c)
	l.lots = append(l.lots, lot)
	return lot, nil
}

// BondQuantity is the total held of bondID across lots.
func (l *Ledger) BondQuantity(bondID string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bondQuantity(bondID)
}

func (l *Ledger) bondQuantity(bondID string) int64 {
	var n int64
	for _, lot := range l.lots {
		if lot.BondID == bondID {
			n += lot.Quantity
		}
	}
	return n
}

// SellBond sells qty of bondID at price, consuming the oldest lots first.
func (l *Ledger) SellBond(bondID string, qty int64, price decimal.Decimal) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.bondQuantity(bondID) < qty {
		return ErrInsufficientBonds
	}

	order := make([]int, 0, len(l.lots))
	for i, lot := range l.lots {
		if lot.BondID == bondID {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return l.lots[order[a]].PurchaseTime < l.lots[order[b]].PurchaseTime
	})

	remaining := qty
	for _, i := range order {
		if remaining == 0 {
			break
		}
		take := min(remaining, l.lots[i].Quantity)
		l.lots[i].Quantity -= take
		remaining -= take
	}

	kept := l.lots[:0]
	for _, lot := range l.lots {
		if lot.Quantity > 0 {
			kept = append(kept, lot)
		}
	}
	l.lots = kept
	l.cash = l.cash.Add(cost(qty, price))
	return nil
}

// RedeemMaturedBonds removes the given lots and credits payout. Unknown
// instance IDs are ignored.
func (l *Ledger) RedeemMaturedBonds(instanceIDs []string, payout decimal.Decimal) {
	drop := make(map[string]struct{}, len(instanceIDs))
	for _, id := range instanceIDs {
		drop[id] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.lots[:0]
	for _, lot := range l.lots {
		if _, ok := drop[lot.InstanceID]; !ok {
			kept = append(kept, lot)
		}
	}
	l.lots = kept
	l.cash = l.cash.Add(payout)
}

// AddCash credits amount when it is positive.
func (l *Ledger) AddCash(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cash = l.cash.Add(amount)
	return true
}
