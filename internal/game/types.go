package game

import (
	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/trader"
)

// Level grades a system log entry for display.
type Level uint8

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

// LogEntry is one line of the in-game system log.
type LogEntry struct {
	Time  int64
	Level Level
	Text  string
}

// NewsItem is one headline on the news feed.
type NewsItem struct {
	Time  int64
	Kind  market.EventKind
	Title string
}

// ValuePoint is one sample of the player's total assets.
type ValuePoint struct {
	Time  int64
	Total float64
}

// View is a read-only copy of everything the terminal renders.
type View struct {
	Clock    int64
	Paused   bool
	TextGlow bool

	Instruments []market.Instrument
	Indicators  market.Indicators

	Ledger     portfolio.State
	Valuation  portfolio.Valuation
	Bonds      portfolio.Catalog
	BondPrices map[string]decimal.Decimal
	Orders     []orders.Order
	Agents     []trader.Agent

	News   []NewsItem
	Log    []LogEntry
	Values []ValuePoint
}
