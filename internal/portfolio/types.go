package portfolio

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
)

var (
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInsufficientCash   = errors.New("insufficient cash")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInsufficientBonds  = errors.New("insufficient bonds")
	ErrUnknownBond        = errors.New("unknown bond")
)

// Item is the player's position in one symbol. Long and short sides are
// tracked independently.
type Item struct {
	Quantity          int64           `json:"quantity"`
	AveragePrice      decimal.Decimal `json:"averagePrice"`
	ShortQuantity     int64           `json:"shortQuantity"`
	AverageShortPrice decimal.Decimal `json:"averageShortPrice"`
}

// Empty reports whether the item holds nothing on either side.
func (it Item) Empty() bool {
	return it.Quantity == 0 && it.ShortQuantity == 0
}

// Lot is one bond purchase. PurchaseTime is in simulation seconds.
type Lot struct {
	InstanceID    string          `json:"instanceId"`
	BondID        string          `json:"bondId"`
	Quantity      int64           `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseTime  int64           `json:"purchaseTime"`
}

// Principal is quantity times purchase price.
func (l Lot) Principal() decimal.Decimal {
	return l.PurchasePrice.Mul(decimal.NewFromInt(l.Quantity))
}

// State is a deep copy of the ledger contents.
type State struct {
	Cash      decimal.Decimal        `json:"cash"`
	Portfolio map[market.Symbol]Item `json:"portfolio"`
	Bonds     []Lot                  `json:"bonds"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Cash:      s.Cash,
		Portfolio: make(map[market.Symbol]Item, len(s.Portfolio)),
		Bonds:     make([]Lot, len(s.Bonds)),
	}
	for sym, it := range s.Portfolio {
		out.Portfolio[sym] = it
	}
	copy(out.Bonds, s.Bonds)
	return out
}
