package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zappabad/stonks9800/internal/rng"
)

func TestCorrelatedShocksOnePerSymbol(t *testing.T) {
	shocks := CorrelatedShocks(rng.New(5), Symbols, DefaultCorrelations)
	assert.Len(t, shocks, len(Symbols))
	for _, sym := range Symbols {
		_, ok := shocks[sym]
		assert.True(t, ok, "missing shock for %s", sym)
	}
}

func TestCorrelatedShocksMatchRho(t *testing.T) {
	src := rng.New(11)
	const n = 20000

	for _, pair := range DefaultCorrelations {
		var sa, sb, saa, sbb, sab float64
		for i := 0; i < n; i++ {
			shocks := CorrelatedShocks(src, []Symbol{pair.A, pair.B}, []Correlation{pair})
			a, b := shocks[pair.A], shocks[pair.B]
			sa += a
			sb += b
			saa += a * a
			sbb += b * b
			sab += a * b
		}
		cov := sab/n - (sa/n)*(sb/n)
		va := saa/n - (sa/n)*(sa/n)
		vb := sbb/n - (sb/n)*(sb/n)
		corr := cov / math.Sqrt(va*vb)

		assert.InDelta(t, pair.Rho, corr, 0.03, "%s/%s", pair.A, pair.B)
	}
}
