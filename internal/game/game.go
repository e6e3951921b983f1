// Package game owns the simulation context and the single scheduler that
// advances it.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/zappabad/stonks9800/internal/market"
	marketview "github.com/zappabad/stonks9800/internal/market/view"
	"github.com/zappabad/stonks9800/internal/news"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/rng"
	"github.com/zappabad/stonks9800/internal/session"
	"github.com/zappabad/stonks9800/internal/tape"
	"github.com/zappabad/stonks9800/internal/trader"
	"github.com/zappabad/stonks9800/internal/trader/runner"
)

var logger = log.WithField("component", "game")

// Game owns all simulation state. One goroutine runs every phase and every
// player command, so no two mutations ever interleave.
type Game struct {
	cfg     Config
	src     *rng.Source
	store   session.Store
	catalog portfolio.Catalog

	// mu guards the pointer swaps done by Reset.
	mu      sync.RWMutex
	market  *market.State
	history *marketview.History

	events *news.Generator
	ai     *runner.Runner
	ledger *portfolio.Ledger
	book   *orders.Book

	newsTape  *tape.Tape[NewsItem]
	logTape   *tape.Tape[LogEntry]
	valueTape *tape.Tape[ValuePoint]

	// elapsed counts base ticks; clock is simulation seconds and only
	// advances on price ticks.
	elapsed  int64
	clock    atomic.Int64
	textGlow atomic.Bool
	paused   atomic.Bool

	cmdCh     chan command
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a Game, restores the saved session from store when one
// exists, and starts the scheduler.
func New(cfg Config, store session.Store) *Game {
	cfg = cfg.withDefaults()
	if store == nil {
		store = session.NewMemoryStore()
	}

	src := rng.New(cfg.Seed)
	g := &Game{
		cfg:       cfg,
		src:       src,
		store:     store,
		catalog:   portfolio.DefaultCatalog(),
		market:    market.NewState(src),
		history:   marketview.NewHistory(cfg.PriceHistorySize),
		events:    news.NewGenerator(src),
		ai:        runner.NewRunner(src, trader.DefaultAgents()),
		ledger:    portfolio.NewLedger(decimal.NewFromFloat(cfg.InitialCash), portfolio.DefaultCatalog()),
		book:      orders.NewBook(),
		newsTape:  tape.New[NewsItem](cfg.NewsSize),
		logTape:   tape.New[LogEntry](cfg.LogSize),
		valueTape: tape.New[ValuePoint](cfg.ValueHistorySize),
		cmdCh:     make(chan command, cfg.CommandBuffer),
		closed:    make(chan struct{}),
	}

	g.textGlow.Store(true)
	g.restore()
	g.sampleValue()

	g.wg.Add(1)
	go g.run()

	return g
}

func (g *Game) restore() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := g.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotExists):
		logger.Info("no saved session, starting fresh")
		g.logf(LevelInfo, "New session started with $%s", g.ledger.Cash().StringFixed(2))
		return
	default:
		logger.WithError(err).Warn("could not load saved session, starting fresh")
		g.logf(LevelWarn, "Saved session unreadable, starting fresh")
		return
	}

	if snap.Portfolio == nil {
		snap.Portfolio = map[market.Symbol]portfolio.Item{}
	}
	g.ledger.Restore(snap.Ledger())
	g.book.Restore(pendingOnly(snap.Orders))
	if len(snap.AITraders) > 0 {
		g.ai.SetAgents(snap.AITraders)
	}
	g.textGlow.Store(snap.TextGlow)
	g.clock.Store(snap.Clock)

	logger.WithField("clock", snap.Clock).Info("session restored")
	g.logf(LevelInfo, "Session restored: cash $%s", snap.Cash.StringFixed(2))
}

func pendingOnly(in []orders.Order) []orders.Order {
	var out []orders.Order
	for _, o := range in {
		if o.Status == orders.StatusPending {
			out = append(out, o)
		}
	}
	return out
}

func (g *Game) run() {
	defer g.wg.Done()

	ticker := time.NewTicker(g.cfg.BaseTick)
	defer ticker.Stop()

	for {
		select {
		case <-g.closed:
			return
		case <-ticker.C:
			// paused ticks are dropped, so resuming never bursts
			if !g.paused.Load() {
				g.tick()
			}
		case cmd := <-g.cmdCh:
			g.processCommand(cmd)
		}
	}
}

// Pause suspends every phase.
func (g *Game) Pause() {
	if !g.paused.Swap(true) {
		logger.Debug("paused")
	}
}

// Resume restarts the phases after Pause.
func (g *Game) Resume() {
	if g.paused.Swap(false) {
		logger.Debug("resumed")
	}
}

// Paused reports whether the scheduler is paused.
func (g *Game) Paused() bool {
	return g.paused.Load()
}

// Clock returns the simulation time in seconds.
func (g *Game) Clock() int64 {
	return g.clock.Load()
}

// Market returns the current market state.
func (g *Game) Market() *market.State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.market
}

// History returns the per-symbol price history.
func (g *Game) History() *marketview.History {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.history
}

// Ledger returns the player's ledger.
func (g *Game) Ledger() *portfolio.Ledger {
	return g.ledger
}

// Close stops the scheduler and writes a final snapshot.
func (g *Game) Close() {
	first := false
	g.closeOnce.Do(func() {
		first = true
		close(g.closed)
	})
	g.wg.Wait()

	if first {
		g.save()
	}
}

func (g *Game) logf(level Level, format string, args ...any) {
	g.logTape.Push(LogEntry{Time: g.clock.Load(), Level: level, Text: fmt.Sprintf(format, args...)})
}
