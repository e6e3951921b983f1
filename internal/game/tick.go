package game

import (
	"context"
	"time"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/metrics"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/session"
	"github.com/zappabad/stonks9800/internal/trader/runner"
)

// tick runs one simulated second. Phases due in the same second run in a
// fixed order: prices, event check, dividends, save.
func (g *Game) tick() {
	g.elapsed++

	if g.elapsed%g.cfg.PriceEvery == 0 {
		g.priceTick()
	}
	if g.elapsed%g.cfg.EventEvery == 0 {
		g.checkEvent()
	}
	if g.elapsed%g.cfg.DividendEvery == 0 {
		g.payDividends()
	}
	if g.elapsed%g.cfg.SaveEvery == 0 {
		g.save()
	}
}

func (g *Game) priceTick() {
	mkt := g.market
	now := g.clock.Load() + g.cfg.PriceEvery

	ev := g.events.Take()
	if ev != nil {
		g.newsTape.Push(NewsItem{Time: now, Kind: ev.Kind, Title: ev.Title})
		mkt.ApplyIndicators(ev)
		metrics.ObserveEvent(ev)
		logger.WithField("kind", ev.Kind.String()).Infof("event applied: %s", ev.Title)
	}

	shocks := mkt.Shocks()

	fills := g.ai.Step(mkt.Instruments())
	for _, f := range fills {
		g.logf(LevelInfo, "%s", f.String())
	}

	updates := mkt.Step(shocks, ev, runner.Flows(fills))
	g.history.Record(now, updates)

	for _, o := range g.book.Evaluate(mkt, g.ledger) {
		g.logOrder(o)
		metrics.ObserveOrders([]orders.Order{o})
	}

	g.clock.Store(now)
	if red, ok := portfolio.ResolveMaturities(g.ledger, g.catalog, now); ok {
		logger.WithField("lots", len(red.Lots)).Infof("bonds matured, payout %s", red.Payout.StringFixed(2))
		for _, lot := range red.Lots {
			g.logf(LevelSuccess, "Bond matured: %d %s", lot.Quantity, lot.BondID)
		}
		g.logf(LevelSuccess, "Received $%s from matured bonds", red.Payout.StringFixed(2))
	}

	instruments := mkt.Instruments()
	metrics.ObserveMarket(instruments, mkt.Indicators())
	metrics.ObserveAgents(g.ai.Agents(), fills)
	g.sampleValue()

	logger.WithField("clock", now).Debugf("price tick: %d updates, %d ai fills", len(updates), len(fills))
}

func (g *Game) logOrder(o orders.Order) {
	switch o.Status {
	case orders.StatusExecuted:
		logger.WithField("order", o.ID).Infof("conditional order executed at %.2f", o.ExecutedPrice)
		g.logf(LevelSuccess, "Order executed: %s (filled @ $%.2f)", o, o.ExecutedPrice)
	case orders.StatusFailed:
		logger.WithField("order", o.ID).Warnf("conditional order failed: %s", o.Reason)
		g.logf(LevelError, "Order failed: %s (%s)", o, o.Reason)
	}
}

func (g *Game) checkEvent() {
	if ev := g.events.Check(g.market); ev != nil {
		logger.WithField("kind", ev.Kind.String()).Debugf("event queued: %s", ev.Title)
	}
}

func (g *Game) payDividends() {
	for _, d := range portfolio.PayDividends(g.ledger, g.market.Instruments()) {
		logger.WithField("symbol", d.Symbol).Infof("dividend paid %s", d.Amount.StringFixed(2))
		g.logf(LevelSuccess, "Dividend: $%s from %d %s", d.Amount.StringFixed(2), d.Quantity, d.Symbol)
	}
}

func quotes(mkt *market.State) map[market.Symbol]float64 {
	instruments := mkt.Instruments()
	out := make(map[market.Symbol]float64, len(instruments))
	for _, inst := range instruments {
		out[inst.Symbol] = inst.Price
	}
	return out
}

func (g *Game) valuationOf(mkt *market.State) portfolio.Valuation {
	prices := g.catalog.Prices(mkt.Indicators().InterestRate)
	return portfolio.Value(g.ledger.Snapshot(), quotes(mkt), prices)
}

func (g *Game) sampleValue() {
	v := g.valuationOf(g.market)
	total := v.Total().InexactFloat64()
	g.valueTape.Push(ValuePoint{Time: g.clock.Load(), Total: total})
	metrics.ObservePlayer(v.Cash.InexactFloat64(), total)
}

func (g *Game) snapshot() session.Snapshot {
	st := g.ledger.Snapshot()
	return session.Snapshot{
		Cash:      st.Cash,
		Portfolio: st.Portfolio,
		Orders:    g.book.Pending(),
		Bonds:     st.Bonds,
		AITraders: g.ai.Agents(),
		TextGlow:  g.textGlow.Load(),
		Clock:     g.clock.Load(),
	}
}

func (g *Game) save() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := g.store.Save(ctx, g.snapshot()); err != nil {
		logger.WithError(err).Error("save session")
		return
	}
	logger.Debug("session saved")
}
