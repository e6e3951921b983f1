// Package session persists the player's and AI traders' financial state
// between runs. Market state is regenerated every session and never saved.
package session

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/trader"
)

var ErrNotExists = errors.New("snapshot does not exist")

// Snapshot is the persisted session.
type Snapshot struct {
	Cash      decimal.Decimal                  `json:"cash"`
	Portfolio map[market.Symbol]portfolio.Item `json:"portfolio"`
	Orders    []orders.Order                   `json:"orders"`
	Bonds     []portfolio.Lot                  `json:"bonds"`
	AITraders []trader.Agent                   `json:"aiTraders"`
	TextGlow  bool                             `json:"textGlow"`
	Clock     int64                            `json:"clock"`
}

// Ledger returns the ledger part of the snapshot.
func (s Snapshot) Ledger() portfolio.State {
	return portfolio.State{Cash: s.Cash, Portfolio: s.Portfolio, Bonds: s.Bonds}.Clone()
}

// Store loads and saves a single snapshot. Load returns ErrNotExists when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Reset(ctx context.Context) error
}
