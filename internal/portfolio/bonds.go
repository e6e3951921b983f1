package portfolio

import (
	"github.com/shopspring/decimal"
)

// secondsPerYear is the game-time compression used for coupon accrual.
const secondsPerYear = 60

// Bond is a catalog entry. Price is the par purchase price.
type Bond struct {
	ID              string
	Name            string
	CouponRate      decimal.Decimal
	MaturitySeconds int64
	Price           decimal.Decimal
}

// Catalog is the fixed list of tradeable bonds.
type Catalog []Bond

// DefaultCatalog returns the bonds available in every session.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "GOV-2Y", Name: "Government 2Y", CouponRate: decimal.RequireFromString("0.03"), MaturitySeconds: 120, Price: decimal.NewFromInt(1000)},
		{ID: "GOV-10Y", Name: "Government 10Y", CouponRate: decimal.RequireFromString("0.045"), MaturitySeconds: 600, Price: decimal.NewFromInt(1000)},
		{ID: "MEGA-CORP-5Y", Name: "MegaCorp 5Y", CouponRate: decimal.RequireFromString("0.055"), MaturitySeconds: 300, Price: decimal.NewFromInt(1000)},
		{ID: "CYBR-JUNK-3Y", Name: "CyberSec Junk 3Y", CouponRate: decimal.RequireFromString("0.08"), MaturitySeconds: 180, Price: decimal.NewFromInt(950)},
	}
}

// Lookup finds a bond by ID.
func (c Catalog) Lookup(id string) (Bond, bool) {
	for _, b := range c {
		if b.ID == id {
			return b, true
		}
	}
	return Bond{}, false
}

var (
	minBondPrice   = decimal.NewFromInt(1)
	rateMultiplier = decimal.NewFromInt(10)
)

// MarketPrice is the bond's current price given the policy rate:
// par × (1 + (coupon − rate) × 10), never below 1.
func (b Bond) MarketPrice(rate float64) decimal.Decimal {
	spread := b.CouponRate.Sub(decimal.NewFromFloat(rate)).Mul(rateMultiplier)
	p := b.Price.Mul(decimal.NewFromInt(1).Add(spread)).Round(2)
	if p.LessThan(minBondPrice) {
		return minBondPrice
	}
	return p
}

// Prices returns the market price of every bond in the catalog.
func (c Catalog) Prices(rate float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c))
	for _, b := range c {
		out[b.ID] = b.MarketPrice(rate)
	}
	return out
}

// MaturesAt returns the simulation second at which lot matures.
func (b Bond) MaturesAt(l Lot) int64 {
	return l.PurchaseTime + b.MaturitySeconds
}

// Payout is principal plus coupon accrued over the bond's life, treating
// every 60 simulated seconds as one year.
func (b Bond) Payout(l Lot) decimal.Decimal {
	principal := l.Principal()
	years := decimal.NewFromInt(b.MaturitySeconds).Div(decimal.NewFromInt(secondsPerYear))
	return principal.Add(principal.Mul(b.CouponRate).Mul(years))
}

// Redemption summarizes one maturity pass.
type Redemption struct {
	Lots   []Lot
	Payout decimal.Decimal
}

// ResolveMaturities redeems every lot whose maturity is at or before now
// with a single ledger call. Lots of bonds missing from the catalog are
// left alone.
func ResolveMaturities(l *Ledger, catalog Catalog, now int64) (Redemption, bool) {
	var (
		red Redemption
		ids []string
	)
	for _, lot := range l.Lots() {
		bond, ok := catalog.Lookup(lot.BondID)
		if !ok || now < bond.MaturesAt(lot) {
			continue
		}
		red.Lots = append(red.Lots, lot)
		red.Payout = red.Payout.Add(bond.Payout(lot))
		ids = append(ids, lot.InstanceID)
	}
	if len(ids) == 0 {
		return Redemption{}, false
	}

	l.RedeemMaturedBonds(ids, red.Payout)
	return red, true
}
