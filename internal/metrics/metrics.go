// Package metrics exports simulation state to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/trader"
)

var InstrumentPrice = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "stonks_instrument_price",
		Help: "last simulated price",
	}, []string{"symbol", "sector"})

var InstrumentVolume = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "stonks_instrument_volume",
		Help: "cumulative simulated volume",
	}, []string{"symbol"})

var Indicator = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "stonks_macro_indicator",
		Help: "macro indicator value as a fraction",
	}, []string{"indicator"})

var PlayerCash = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "stonks_player_cash",
		Help: "player cash balance",
	})

var PlayerTotalAssets = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "stonks_player_total_assets",
		Help: "player cash plus marked-to-market positions",
	})

var AgentCash = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "stonks_ai_cash",
		Help: "AI trader cash balance",
	}, []string{"agent", "strategy"})

var Ticks = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "stonks_price_ticks_total",
		Help: "price ticks processed",
	})

var EventsApplied = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stonks_events_applied_total",
		Help: "market events applied",
	}, []string{"kind"})

var AITrades = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stonks_ai_trades_total",
		Help: "AI trader fills",
	}, []string{"agent", "action"})

var ConditionalOrders = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stonks_conditional_orders_total",
		Help: "conditional orders that left the pending state",
	}, []string{"status"})

func init() {
	prometheus.MustRegister(
		InstrumentPrice,
		InstrumentVolume,
		Indicator,
		PlayerCash,
		PlayerTotalAssets,
		AgentCash,
		Ticks,
		EventsApplied,
		AITrades,
		ConditionalOrders,
	)
}

// ObserveMarket records instrument and macro gauges.
func ObserveMarket(instruments []market.Instrument, ind market.Indicators) {
	for _, inst := range instruments {
		InstrumentPrice.WithLabelValues(string(inst.Symbol), inst.Sector.String()).Set(inst.Price)
		InstrumentVolume.WithLabelValues(string(inst.Symbol)).Set(float64(inst.Volume))
	}
	Indicator.WithLabelValues("interest_rate").Set(ind.InterestRate)
	Indicator.WithLabelValues("inflation_rate").Set(ind.InflationRate)
	Indicator.WithLabelValues("gdp_growth").Set(ind.GDPGrowth)
	Indicator.WithLabelValues("unemployment_rate").Set(ind.UnemploymentRate)
	Ticks.Inc()
}

// ObserveEvent counts an applied event.
func ObserveEvent(ev *market.Event) {
	if ev == nil {
		return
	}
	EventsApplied.WithLabelValues(ev.Kind.String()).Inc()
}

// ObserveAgents records AI fills and balances.
func ObserveAgents(agents []trader.Agent, fills []trader.Fill) {
	for _, f := range fills {
		AITrades.WithLabelValues(f.AgentName, f.Action.String()).Inc()
	}
	for _, a := range agents {
		AgentCash.WithLabelValues(a.Name, a.Strategy.String()).Set(a.Cash)
	}
}

// ObserveOrders counts orders that executed or failed.
func ObserveOrders(changed []orders.Order) {
	for _, o := range changed {
		ConditionalOrders.WithLabelValues(o.Status.String()).Inc()
	}
}

// ObservePlayer records the player's balances.
func ObservePlayer(cash, total float64) {
	PlayerCash.Set(cash)
	PlayerTotalAssets.Set(total)
}
