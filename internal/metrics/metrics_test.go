package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/trader"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Counter != nil:
		return out.Counter.GetValue()
	}
	t.Fatalf("unexpected metric type")
	return 0
}

func TestObserve(t *testing.T) {
	ObserveMarket([]market.Instrument{{Symbol: "MEGA", Sector: market.SectorTech, Price: 12.5, Volume: 7}}, market.DefaultIndicators())
	assert.Equal(t, 12.5, value(t, InstrumentPrice.WithLabelValues("MEGA", market.SectorTech.String())))
	assert.Equal(t, market.InitialInterestRate, value(t, Indicator.WithLabelValues("interest_rate")))

	before := value(t, ConditionalOrders.WithLabelValues("FAILED"))
	ObserveOrders([]orders.Order{{Status: orders.StatusFailed}, {Status: orders.StatusFailed}})
	assert.Equal(t, before+2, value(t, ConditionalOrders.WithLabelValues("FAILED")))

	ObserveAgents([]trader.Agent{{Name: "WOLF-1", Strategy: trader.StrategyMomentum, Cash: 99}}, []trader.Fill{{AgentName: "WOLF-1", Action: trader.ActionBuy}})
	assert.Equal(t, 99.0, value(t, AgentCash.WithLabelValues("WOLF-1", "MOMENTUM")))
	assert.Equal(t, 1.0, value(t, AITrades.WithLabelValues("WOLF-1", trader.ActionBuy.String())))

	ObservePlayer(10, 20)
	assert.Equal(t, 20.0, value(t, PlayerTotalAssets))

	ObserveEvent(nil)
}
