package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/market"
)

// Dividend is one payment credited to the player.
type Dividend struct {
	Symbol   market.Symbol
	Quantity int64
	Amount   decimal.Decimal
}

// PayDividends credits quantity × dividend per share for every long
// holding in a dividend-paying instrument. The total lands in one ledger
// call; the per-symbol breakdown is returned for logging.
func PayDividends(l *Ledger, instruments []market.Instrument) []Dividend {
	var (
		paid  []Dividend
		total decimal.Decimal
	)
	for _, inst := range instruments {
		if !inst.PaysDividend() {
			continue
		}
		it := l.Item(inst.Symbol)
		if it.Quantity <= 0 {
			continue
		}
		amount := decimal.NewFromFloat(inst.DividendPerShare).Mul(decimal.NewFromInt(it.Quantity))
		if !amount.IsPositive() {
			continue
		}
		total = total.Add(amount)
		paid = append(paid, Dividend{Symbol: inst.Symbol, Quantity: it.Quantity, Amount: amount})
	}
	if !l.AddCash(total) {
		return nil
	}
	return paid
}

// Valuation breaks down total assets.
type Valuation struct {
	Cash  decimal.Decimal
	Long  decimal.Decimal
	Short decimal.Decimal
	Bonds decimal.Decimal
}

// Total is cash + long − short + bonds.
func (v Valuation) Total() decimal.Decimal {
	return v.Cash.Add(v.Long).Sub(v.Short).Add(v.Bonds)
}

// Value marks s to market. Positions in unknown symbols count as zero and
// lots of unpriced bonds are held at their purchase price.
func Value(s State, quotes map[market.Symbol]float64, bondPrices map[string]decimal.Decimal) Valuation {
	v := Valuation{Cash: s.Cash}
	for sym, it := range s.Portfolio {
		px, ok := quotes[sym]
		if !ok {
			continue
		}
		p := decimal.NewFromFloat(px)
		v.Long = v.Long.Add(cost(it.Quantity, p))
		v.Short = v.Short.Add(cost(it.ShortQuantity, p))
	}
	for _, lot := range s.Bonds {
		p, ok := bondPrices[lot.BondID]
		if !ok {
			p = lot.PurchasePrice
		}
		v.Bonds = v.Bonds.Add(cost(lot.Quantity, p))
	}
	return v
}
