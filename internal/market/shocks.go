package market

import "math"

// NormalSource draws standard normal values.
type NormalSource interface {
	Normal() float64
}

// CorrelatedShocks draws exactly one standard normal shock per symbol.
// Paired symbols share a draw weighted by the pair's rho; the rest are
// independent.
func CorrelatedShocks(src NormalSource, symbols []Symbol, pairs []Correlation) map[Symbol]float64 {
	shocks := make(map[Symbol]float64, len(symbols))

	for _, c := range pairs {
		z1 := src.Normal()
		z2 := src.Normal()
		shocks[c.A] = z1
		shocks[c.B] = c.Rho*z1 + math.Sqrt(1-c.Rho*c.Rho)*z2
	}

	for _, sym := range symbols {
		if _, ok := shocks[sym]; !ok {
			shocks[sym] = src.Normal()
		}
	}
	return shocks
}
