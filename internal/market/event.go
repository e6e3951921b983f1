package market

// EventKind classifies a market event.
type EventKind uint8

const (
	EventRateChange EventKind = iota
	EventEconomicReport
	EventEarnings
	EventFinancial
	EventSector
	EventStock
)

func (k EventKind) String() string {
	switch k {
	case EventRateChange:
		return "RATE"
	case EventEconomicReport:
		return "ECONOMY"
	case EventEarnings:
		return "EARNINGS"
	case EventFinancial:
		return "FINANCIAL"
	case EventSector:
		return "SECTOR"
	case EventStock:
		return "STOCK"
	default:
		return "UNKNOWN"
	}
}

// Scope selects which instruments an event moves.
type Scope uint8

const (
	ScopeGlobal Scope = iota
	ScopeSymbol
	ScopeSector
)

// Event is a pending market-moving occurrence. It is applied once, on the
// price tick following its creation.
type Event struct {
	Kind   EventKind
	Scope  Scope
	Symbol Symbol
	Sector Sector
	Title  string

	// Impact multiplies the price of every targeted instrument.
	Impact float64

	// Zero factors leave the fundamental unchanged.
	EPSFactor     float64
	RevenueFactor float64

	// Indicator overrides, nil when untouched.
	InterestRate     *float64
	InflationRate    *float64
	GDPGrowth        *float64
	UnemploymentRate *float64
}

// AppliesTo reports whether the event targets inst.
func (e *Event) AppliesTo(inst Instrument) bool {
	if e == nil {
		return false
	}
	switch e.Scope {
	case ScopeGlobal:
		return true
	case ScopeSymbol:
		return inst.Symbol == e.Symbol
	case ScopeSector:
		return inst.Sector == e.Sector
	default:
		return false
	}
}

// ApplyTo returns indicators with the event's overrides applied and clamped.
func (e *Event) ApplyTo(in Indicators) Indicators {
	if e == nil {
		return in
	}
	if e.InterestRate != nil {
		in.InterestRate = *e.InterestRate
	}
	if e.InflationRate != nil {
		in.InflationRate = *e.InflationRate
	}
	if e.GDPGrowth != nil {
		in.GDPGrowth = *e.GDPGrowth
	}
	if e.UnemploymentRate != nil {
		in.UnemploymentRate = *e.UnemploymentRate
	}
	return in.Clamp()
}
