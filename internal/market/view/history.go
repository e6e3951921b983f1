package view

import (
	"sync"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/tape"
)

// HistorySize is the number of points kept per symbol.
const HistorySize = 100

// History keeps the most recent price points of every symbol.
type History struct {
	mu       sync.RWMutex
	capacity int
	bySymbol map[market.Symbol]*tape.Tape[market.PricePoint]
}

// NewHistory creates a History retaining capacity points per symbol.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistorySize
	}
	return &History{
		capacity: capacity,
		bySymbol: make(map[market.Symbol]*tape.Tape[market.PricePoint]),
	}
}

// Record appends one point per update at simulation time now.
func (h *History) Record(now int64, updates []market.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, u := range updates {
		t, ok := h.bySymbol[u.Symbol]
		if !ok {
			t = tape.New[market.PricePoint](h.capacity)
			h.bySymbol[u.Symbol] = t
		}
		t.Push(market.PricePoint{Time: now, Price: u.Price, Volume: u.TickVolume})
	}
}

// Points returns the retained points of sym, oldest first.
func (h *History) Points(sym market.Symbol) []market.PricePoint {
	h.mu.RLock()
	t, ok := h.bySymbol[sym]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	return t.All()
}

// Reset drops all history.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bySymbol = make(map[market.Symbol]*tape.Tape[market.PricePoint])
}
