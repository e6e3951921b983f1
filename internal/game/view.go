package game

import "github.com/zappabad/stonks9800/internal/portfolio"

// View copies the state the terminal needs. The ledger is read once so the
// holdings and their valuation always agree.
func (g *Game) View() View {
	mkt := g.Market()
	ind := mkt.Indicators()
	st := g.ledger.Snapshot()
	prices := g.catalog.Prices(ind.InterestRate)

	return View{
		Clock:       g.clock.Load(),
		Paused:      g.paused.Load(),
		TextGlow:    g.textGlow.Load(),
		Instruments: mkt.Instruments(),
		Indicators:  ind,
		Ledger:      st,
		Valuation:   portfolio.Value(st, quotes(mkt), prices),
		Bonds:       g.catalog,
		BondPrices:  prices,
		Orders:      g.book.Orders(),
		Agents:      g.ai.Agents(),
		News:        g.newsTape.All(),
		Log:         g.logTape.All(),
		Values:      g.valueTape.All(),
	}
}
