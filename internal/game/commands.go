package game

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
	marketview "github.com/zappabad/stonks9800/internal/market/view"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
	"github.com/zappabad/stonks9800/internal/trader"
)

var ErrClosed = errors.New("game closed")

type cmdType int

const (
	cmdTrade cmdType = iota
	cmdBuyBond
	cmdSellBond
	cmdPlaceOrder
	cmdCancelOrder
	cmdToggleGlow
	cmdReset
	cmdStep
)

type command struct {
	typ     cmdType
	action  orders.Action
	symbol  market.Symbol
	bondID  string
	qty     int64
	trigger float64
	ref     string
	respCh  chan<- response
}

type response struct {
	order orders.Order
	lot   portfolio.Lot
	glow  bool
	err   error
}

func (g *Game) processCommand(cmd command) {
	var resp response

	switch cmd.typ {
	case cmdTrade:
		resp.err = g.trade(cmd.action, cmd.symbol, cmd.qty)
	case cmdBuyBond:
		resp.lot, resp.err = g.buyBond(cmd.bondID, cmd.qty)
	case cmdSellBond:
		resp.err = g.sellBond(cmd.bondID, cmd.qty)
	case cmdPlaceOrder:
		resp.order, resp.err = g.placeOrder(cmd.action, cmd.symbol, cmd.qty, cmd.trigger)
	case cmdCancelOrder:
		resp.order, resp.err = g.cancelOrder(cmd.ref)
	case cmdToggleGlow:
		resp.glow = !g.textGlow.Load()
		g.textGlow.Store(resp.glow)
	case cmdReset:
		resp.err = g.reset()
	case cmdStep:
		g.tick()
	}

	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

func (g *Game) send(ctx context.Context, cmd command) (response, error) {
	respCh := make(chan response, 1)
	cmd.respCh = respCh

	select {
	case <-g.closed:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	case g.cmdCh <- cmd:
	}

	select {
	case <-g.closed:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	case resp := <-respCh:
		return resp, resp.err
	}
}

// Trade executes an immediate trade at the current market price.
func (g *Game) Trade(ctx context.Context, action orders.Action, sym market.Symbol, qty int64) error {
	_, err := g.send(ctx, command{typ: cmdTrade, action: action, symbol: sym, qty: qty})
	return err
}

// BuyBond buys qty of bondID at its current market price.
func (g *Game) BuyBond(ctx context.Context, bondID string, qty int64) (portfolio.Lot, error) {
	resp, err := g.send(ctx, command{typ: cmdBuyBond, bondID: bondID, qty: qty})
	return resp.lot, err
}

// SellBond sells qty of bondID at its current market price, oldest lots
// first.
func (g *Game) SellBond(ctx context.Context, bondID string, qty int64) error {
	_, err := g.send(ctx, command{typ: cmdSellBond, bondID: bondID, qty: qty})
	return err
}

// PlaceOrder registers a conditional order.
func (g *Game) PlaceOrder(ctx context.Context, action orders.Action, sym market.Symbol, qty int64, trigger float64) (orders.Order, error) {
	resp, err := g.send(ctx, command{typ: cmdPlaceOrder, action: action, symbol: sym, qty: qty, trigger: trigger})
	return resp.order, err
}

// CancelOrder cancels a pending order by ID or unique ID prefix.
func (g *Game) CancelOrder(ctx context.Context, ref string) (orders.Order, error) {
	resp, err := g.send(ctx, command{typ: cmdCancelOrder, ref: ref})
	return resp.order, err
}

// ToggleGlow flips the text glow display preference and returns the new
// value.
func (g *Game) ToggleGlow(ctx context.Context) (bool, error) {
	resp, err := g.send(ctx, command{typ: cmdToggleGlow})
	return resp.glow, err
}

// Reset wipes the saved session and starts over with a fresh market.
func (g *Game) Reset(ctx context.Context) error {
	_, err := g.send(ctx, command{typ: cmdReset})
	return err
}

// Step runs one simulated second immediately, paused or not.
func (g *Game) Step(ctx context.Context) error {
	_, err := g.send(ctx, command{typ: cmdStep})
	return err
}

func verb(a orders.Action) string {
	switch a {
	case orders.ActionBuyLong:
		return "Bought"
	case orders.ActionSellLong:
		return "Sold"
	case orders.ActionSellShort:
		return "Shorted"
	case orders.ActionBuyCover:
		return "Covered"
	default:
		return a.String()
	}
}

func (g *Game) trade(action orders.Action, sym market.Symbol, qty int64) error {
	price, ok := g.market.Price(sym)
	if !ok {
		g.logf(LevelError, "Unknown symbol %s", sym)
		return market.ErrUnknownSymbol
	}

	if err := orders.Execute(g.ledger, action, sym, qty, decimal.NewFromFloat(price)); err != nil {
		logger.WithError(err).WithField("symbol", sym).Warnf("%s rejected", action)
		g.logf(LevelError, "%s %d %s failed: %s", action, qty, sym, err)
		return err
	}

	logger.WithField("symbol", sym).Infof("%s %d @ %.2f", action, qty, price)
	g.logf(LevelSuccess, "%s %d %s @ $%.2f", verb(action), qty, sym, price)
	return nil
}

func (g *Game) bondPrice(bondID string) (decimal.Decimal, error) {
	bond, ok := g.catalog.Lookup(bondID)
	if !ok {
		return decimal.Zero, portfolio.ErrUnknownBond
	}
	return bond.MarketPrice(g.market.Indicators().InterestRate), nil
}

func (g *Game) buyBond(bondID string, qty int64) (portfolio.Lot, error) {
	price, err := g.bondPrice(bondID)
	if err != nil {
		g.logf(LevelError, "Unknown bond %s", bondID)
		return portfolio.Lot{}, err
	}

	lot, err := g.ledger.BuyBond(bondID, qty, price, g.clock.Load())
	if err != nil {
		g.logf(LevelError, "Buy %d %s failed: %s", qty, bondID, err)
		return portfolio.Lot{}, err
	}

	logger.WithField("bond", bondID).Infof("bought %d @ %s", qty, price.StringFixed(2))
	g.logf(LevelSuccess, "Bought %d %s @ $%s", qty, bondID, price.StringFixed(2))
	return lot, nil
}

func (g *Game) sellBond(bondID string, qty int64) error {
	price, err := g.bondPrice(bondID)
	if err != nil {
		g.logf(LevelError, "Unknown bond %s", bondID)
		return err
	}

	if err := g.ledger.SellBond(bondID, qty, price); err != nil {
		g.logf(LevelError, "Sell %d %s failed: %s", qty, bondID, err)
		return err
	}

	logger.WithField("bond", bondID).Infof("sold %d @ %s", qty, price.StringFixed(2))
	g.logf(LevelSuccess, "Sold %d %s @ $%s", qty, bondID, price.StringFixed(2))
	return nil
}

func (g *Game) placeOrder(action orders.Action, sym market.Symbol, qty int64, trigger float64) (orders.Order, error) {
	if _, ok := g.market.Price(sym); !ok {
		g.logf(LevelError, "Unknown symbol %s", sym)
		return orders.Order{}, market.ErrUnknownSymbol
	}

	o, err := g.book.Place(sym, action, qty, trigger, g.clock.Load())
	if err != nil {
		g.logf(LevelError, "Order rejected: %s", err)
		return orders.Order{}, err
	}

	logger.WithField("order", o.ID).Infof("conditional order placed: %s", o)
	g.logf(LevelInfo, "Order placed: %s", o)
	return o, nil
}

func (g *Game) cancelOrder(ref string) (orders.Order, error) {
	found, ok := g.book.Find(ref)
	if !ok {
		g.logf(LevelError, "No order matches %q", ref)
		return orders.Order{}, orders.ErrOrderNotFound
	}

	o, err := g.book.Cancel(found.ID)
	if err != nil {
		return orders.Order{}, err
	}
	if o.Status == orders.StatusCancelled && found.Status == orders.StatusPending {
		g.logf(LevelInfo, "Order cancelled: %s", o)
	}
	return o, nil
}

func (g *Game) reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.store.Reset(ctx); err != nil {
		logger.WithError(err).Error("reset session store")
		g.logf(LevelError, "Could not clear saved session")
		return err
	}

	g.mu.Lock()
	g.market = market.NewState(g.src)
	g.history = marketview.NewHistory(g.cfg.PriceHistorySize)
	g.mu.Unlock()

	g.events.Reset()
	g.ai.SetAgents(trader.DefaultAgents())
	g.ledger.Restore(portfolio.State{Cash: decimal.NewFromFloat(g.cfg.InitialCash)})
	g.book.Restore(nil)
	g.newsTape.Clear()
	g.logTape.Clear()
	g.valueTape.Clear()
	g.elapsed = 0
	g.clock.Store(0)
	g.textGlow.Store(true)

	logger.Info("session reset")
	g.logf(LevelInfo, "Session reset with $%s", g.ledger.Cash().StringFixed(2))
	g.sampleValue()
	return nil
}
