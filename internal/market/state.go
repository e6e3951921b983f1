package market

import (
	"errors"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zappabad/stonks9800/internal/rng"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

const (
	// TradingDay is the time step of one price tick, in years.
	TradingDay = 1.0 / 252

	// MinPrice is the floor every price is clamped to.
	MinPrice = 0.01

	maxTickVolume = 10000

	buyImpact  = 1.0002
	sellImpact = 0.9998
)

var stateLogger = log.WithField("component", "market")

// Flow is an AI trade folded into the next price update.
type Flow struct {
	Symbol   Symbol
	Quantity int64
	Buy      bool
}

// Update reports one instrument's result of a price tick.
type Update struct {
	Symbol     Symbol
	Price      float64
	TickVolume int64
}

// State is the process-wide market: instruments, their stochastic
// parameters and the macro indicators. Only the scheduler writes to it.
type State struct {
	mu          sync.RWMutex
	src         *rng.Source
	instruments []Instrument
	index       map[Symbol]int
	params      map[Symbol]StockParams
	indicators  Indicators
	pairs       []Correlation
}

// NewState generates a fresh market for a new session.
func NewState(src *rng.Source) *State {
	instruments := make([]Instrument, 0, len(Symbols))
	params := make(map[Symbol]StockParams, len(Symbols))

	for _, sym := range Symbols {
		instruments = append(instruments, generateInstrument(src, sym))
		params[sym] = StockParams{
			Mu:    src.Between(-0.05, 0.15),
			Sigma: src.Between(0.15, 0.50),
		}
	}
	return NewStateFrom(src, instruments, params, DefaultIndicators(), DefaultCorrelations)
}

// NewStateFrom builds a State from explicit values.
func NewStateFrom(src *rng.Source, instruments []Instrument, params map[Symbol]StockParams, ind Indicators, pairs []Correlation) *State {
	s := &State{
		src:         src,
		instruments: make([]Instrument, len(instruments)),
		index:       make(map[Symbol]int, len(instruments)),
		params:      make(map[Symbol]StockParams, len(params)),
		indicators:  ind,
		pairs:       pairs,
	}
	copy(s.instruments, instruments)
	for i := range s.instruments {
		s.instruments[i].refresh()
		s.index[s.instruments[i].Symbol] = i
	}
	for sym, p := range params {
		s.params[sym] = p
	}
	return s
}

func generateInstrument(src *rng.Source, sym Symbol) Instrument {
	totalShares := src.Between(100, 600) * 1_000_000
	eps := src.Between(1, 9)
	revenue := eps * totalShares * src.Between(1, 6)
	price := eps * src.Between(15, 30)
	sector, _ := SectorOf(sym)

	inst := Instrument{
		Symbol:        sym,
		Sector:        sector,
		Price:         price,
		PreviousPrice: price,
		Volume:        int64(src.Intn(2_000_000)) + 500_000,
		Financials: Financials{
			Revenue:          revenue,
			EarningsPerShare: eps,
			TotalShares:      totalShares,
		},
		DividendPerShare: dividends[sym],
	}
	inst.refresh()
	return inst
}

// Symbols returns the symbols of the market in display order.
func (s *State) Symbols() []Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Symbol, len(s.instruments))
	for i, inst := range s.instruments {
		out[i] = inst.Symbol
	}
	return out
}

// Instruments returns a copy of every instrument.
func (s *State) Instruments() []Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Instrument, len(s.instruments))
	copy(out, s.instruments)
	return out
}

// Instrument returns a copy of one instrument.
func (s *State) Instrument(sym Symbol) (Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[sym]
	if !ok {
		return Instrument{}, ErrUnknownSymbol
	}
	return s.instruments[i], nil
}

// Price returns the current price of sym.
func (s *State) Price(sym Symbol) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[sym]
	if !ok {
		return 0, false
	}
	return s.instruments[i].Price, true
}

// Params returns the stochastic parameters of sym.
func (s *State) Params(sym Symbol) (StockParams, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.params[sym]
	return p, ok
}

// Indicators returns the current macro indicators.
func (s *State) Indicators() Indicators {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indicators
}

// ApplyIndicators installs the indicator overrides carried by ev.
func (s *State) ApplyIndicators(ev *Event) {
	if ev == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators = ev.ApplyTo(s.indicators)
}

// Shocks draws this tick's correlated shocks.
func (s *State) Shocks() map[Symbol]float64 {
	s.mu.RLock()
	pairs := s.pairs
	s.mu.RUnlock()
	return CorrelatedShocks(s.src, s.Symbols(), pairs)
}

// Step advances every instrument by one trading day. ev may be nil; its
// indicator overrides must already have been applied with ApplyIndicators.
func (s *State) Step(shocks map[Symbol]float64, ev *Event, flows []Flow) []Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	drift := s.indicators.DriftAdjustment()
	updates := make([]Update, 0, len(s.instruments))

	for i := range s.instruments {
		inst := &s.instruments[i]
		p := s.params[inst.Symbol]

		perAdjustment := 0.0
		if inst.PER > 0 {
			perAdjustment = (MarketAveragePER - inst.PER) * PERSensitivity
		}
		adjMu := p.Mu + drift + perAdjustment

		z := shocks[inst.Symbol]
		price := inst.Price * math.Exp((adjMu-p.Sigma*p.Sigma/2)*TradingDay+p.Sigma*math.Sqrt(TradingDay)*z)

		if ev.AppliesTo(*inst) {
			if ev.Impact > 0 {
				price *= ev.Impact
			}
			if ev.EPSFactor > 0 {
				inst.Financials.EarningsPerShare *= ev.EPSFactor
			}
			if ev.RevenueFactor > 0 {
				inst.Financials.Revenue *= ev.RevenueFactor
			}
		}

		tickVolume := int64(s.src.Intn(maxTickVolume))
		for _, f := range flows {
			if f.Symbol != inst.Symbol {
				continue
			}
			tickVolume += f.Quantity
			if f.Buy {
				price *= buyImpact
			} else {
				price *= sellImpact
			}
		}

		if math.IsNaN(price) || price < MinPrice {
			price = MinPrice
		}

		inst.PreviousPrice = inst.Price
		inst.Price = price
		inst.Change = price - inst.PreviousPrice
		if inst.PreviousPrice > 0 {
			inst.ChangePercent = inst.Change / inst.PreviousPrice * 100
		} else {
			inst.ChangePercent = 0
		}
		inst.Volume += tickVolume
		inst.refresh()

		updates = append(updates, Update{Symbol: inst.Symbol, Price: price, TickVolume: tickVolume})
	}

	if ev != nil {
		stateLogger.WithField("event", ev.Kind.String()).Debugf("applied event %q", ev.Title)
	}
	return updates
}
