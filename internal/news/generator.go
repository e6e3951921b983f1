// Package news generates the market events that move prices and macro
// indicators.
package news

import (
	"fmt"
	"math"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zappabad/stonks9800/internal/market"
)

const (
	rateChangeBand     = 0.04
	economicReportBand = 0.10
	earningsBand       = 0.30
	generalBand        = 0.60

	financialSubBand = 0.2
	sectorSubBand    = 0.5

	earningsImpactWeight  = 0.6
	earningsRevenueWeight = 0.8
	earningsHeadlineBand  = 0.07
)

var logger = log.WithField("component", "news")

// Rand is the random source used by the generator.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// MarketReader is the read-only market view the generator needs.
type MarketReader interface {
	Instruments() []market.Instrument
	Indicators() market.Indicators
}

type band uint8

const (
	bandNone band = iota
	bandRateChange
	bandEconomicReport
	bandEarnings
	bandGeneral
)

func classify(u float64) band {
	switch {
	case u < rateChangeBand:
		return bandRateChange
	case u < economicReportBand:
		return bandEconomicReport
	case u < earningsBand:
		return bandEarnings
	case u < generalBand:
		return bandGeneral
	default:
		return bandNone
	}
}

// Generator holds at most one pending event at a time.
type Generator struct {
	mu      sync.Mutex
	src     Rand
	pending *market.Event
}

// NewGenerator creates a Generator drawing from src.
func NewGenerator(src Rand) *Generator {
	return &Generator{src: src}
}

// Check possibly creates a new pending event. It does nothing while an
// event is still pending. It returns the event it created, if any.
func (g *Generator) Check(mr MarketReader) *market.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		return nil
	}

	var ev *market.Event
	switch classify(g.src.Float64()) {
	case bandRateChange:
		ev = g.rateChange(mr.Indicators())
	case bandEconomicReport:
		ev = g.economicReport(mr.Indicators())
	case bandEarnings:
		ev = g.earnings(mr.Instruments())
	case bandGeneral:
		ev = g.general(mr.Instruments())
	}

	if ev != nil {
		logger.WithField("kind", ev.Kind.String()).Debugf("pending event: %s", ev.Title)
		g.pending = ev
	}
	return ev
}

// Pending returns the outstanding event without consuming it.
func (g *Generator) Pending() *market.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Take consumes the outstanding event. Each event is returned exactly once.
func (g *Generator) Take() *market.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	ev := g.pending
	g.pending = nil
	return ev
}

// Reset drops any outstanding event.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

func (g *Generator) rateChange(ind market.Indicators) *market.Event {
	hike := g.src.Float64() > 0.5

	newRate := ind.InterestRate - market.RateStep
	title := rateCutTitle
	if hike {
		newRate = ind.InterestRate + market.RateStep
		title = rateHikeTitle
	}
	newRate = market.ClampRate(newRate)

	if math.Abs(newRate-ind.InterestRate) < 1e-9 {
		return nil
	}

	return &market.Event{
		Kind:         market.EventRateChange,
		Scope:        market.ScopeGlobal,
		Title:        strings.ReplaceAll(title, "{bps}", fmt.Sprintf("%.0f", market.RateStep*10000)),
		Impact:       1,
		InterestRate: &newRate,
	}
}

func (g *Generator) economicReport(ind market.Indicators) *market.Event {
	next := market.Indicators{
		InterestRate:     ind.InterestRate,
		InflationRate:    ind.InflationRate + (g.src.Float64()-0.5)*0.005,
		GDPGrowth:        ind.GDPGrowth + (g.src.Float64()-0.5)*0.008,
		UnemploymentRate: ind.UnemploymentRate + (g.src.Float64()-0.5)*0.006,
	}.Clamp()

	title := strings.NewReplacer(
		"{inflation}", fmt.Sprintf("%.2f", next.InflationRate*100),
		"{gdp}", fmt.Sprintf("%.2f", next.GDPGrowth*100),
		"{unemployment}", fmt.Sprintf("%.2f", next.UnemploymentRate*100),
	).Replace(economicReportText)

	return &market.Event{
		Kind:             market.EventEconomicReport,
		Scope:            market.ScopeGlobal,
		Title:            title,
		Impact:           1,
		InflationRate:    &next.InflationRate,
		GDPGrowth:        &next.GDPGrowth,
		UnemploymentRate: &next.UnemploymentRate,
	}
}

func (g *Generator) earnings(instruments []market.Instrument) *market.Event {
	if len(instruments) == 0 {
		return nil
	}
	inst := instruments[g.src.Intn(len(instruments))]

	expected := inst.Financials.EarningsPerShare
	surprise := g.src.Float64()*0.30 - 0.15
	reported := expected * (1 + surprise)

	var title string
	switch {
	case surprise > earningsHeadlineBand:
		title = fmt.Sprintf("%s earnings surprise! EPS %.2f (expected %.2f)", inst.Symbol, reported, expected)
	case surprise < -earningsHeadlineBand:
		title = fmt.Sprintf("%s earnings shock. EPS %.2f (expected %.2f)", inst.Symbol, reported, expected)
	default:
		title = fmt.Sprintf("%s quarterly results in line. EPS %.2f", inst.Symbol, reported)
	}

	return &market.Event{
		Kind:          market.EventEarnings,
		Scope:         market.ScopeSymbol,
		Symbol:        inst.Symbol,
		Title:         title,
		Impact:        1 + surprise*earningsImpactWeight,
		EPSFactor:     math.Max(0.1, 1+surprise),
		RevenueFactor: math.Max(0.1, 1+surprise*earningsRevenueWeight),
	}
}

func (g *Generator) general(instruments []market.Instrument) *market.Event {
	if len(instruments) == 0 {
		return nil
	}

	sub := g.src.Float64()
	switch {
	case sub < financialSubBand:
		t := financialTemplates[g.src.Intn(len(financialTemplates))]
		sym := instruments[g.src.Intn(len(instruments))].Symbol
		return &market.Event{
			Kind:          market.EventFinancial,
			Scope:         market.ScopeSymbol,
			Symbol:        sym,
			Title:         strings.ReplaceAll(t.title, "{symbol}", string(sym)),
			Impact:        t.impact,
			EPSFactor:     t.epsFactor,
			RevenueFactor: t.revenueFactor,
		}

	case sub < sectorSubBand:
		sector := market.Sectors[g.src.Intn(len(market.Sectors))]
		t := sectorTemplates[g.src.Intn(len(sectorTemplates))]
		return &market.Event{
			Kind:   market.EventSector,
			Scope:  market.ScopeSector,
			Sector: sector,
			Title:  strings.ReplaceAll(t.title, "{sector}", sector.Label()),
			Impact: t.base + g.src.Float64()*t.spread,
		}

	default:
		t := stockTemplates[g.src.Intn(len(stockTemplates))]
		sym := instruments[g.src.Intn(len(instruments))].Symbol
		title := strings.ReplaceAll(t.title, "{symbol}", string(sym))

		if strings.Contains(title, "{competitor}") && len(instruments) > 1 {
			competitors := make([]market.Symbol, 0, len(instruments)-1)
			for _, inst := range instruments {
				if inst.Symbol != sym {
					competitors = append(competitors, inst.Symbol)
				}
			}
			title = strings.ReplaceAll(title, "{competitor}", string(competitors[g.src.Intn(len(competitors))]))
		}

		return &market.Event{
			Kind:   market.EventStock,
			Scope:  market.ScopeSymbol,
			Symbol: sym,
			Title:  title,
			Impact: t.base + g.src.Float64()*t.spread,
		}
	}
}
