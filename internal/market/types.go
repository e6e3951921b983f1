package market

// Symbol identifies an instrument.
type Symbol string

// Sector groups instruments for sector-wide events.
type Sector uint8

const (
	SectorTech Sector = iota
	SectorHardware
	SectorSoftware
	SectorSecurity
	SectorInfra
	SectorAI
	SectorBio
)

// Sectors lists every sector in display order.
var Sectors = []Sector{
	SectorTech,
	SectorHardware,
	SectorSoftware,
	SectorSecurity,
	SectorInfra,
	SectorAI,
	SectorBio,
}

func (s Sector) String() string {
	switch s {
	case SectorTech:
		return "TECH"
	case SectorHardware:
		return "HARDWARE"
	case SectorSoftware:
		return "SOFTWARE"
	case SectorSecurity:
		return "SECURITY"
	case SectorInfra:
		return "INFRA"
	case SectorAI:
		return "AI"
	case SectorBio:
		return "BIO"
	default:
		return "UNKNOWN"
	}
}

// Label returns a human readable sector name used in headlines.
func (s Sector) Label() string {
	switch s {
	case SectorTech:
		return "Technology"
	case SectorHardware:
		return "Hardware"
	case SectorSoftware:
		return "Software"
	case SectorSecurity:
		return "Security"
	case SectorInfra:
		return "Infrastructure"
	case SectorAI:
		return "Artificial Intelligence"
	case SectorBio:
		return "Biotech"
	default:
		return "Unknown"
	}
}

// Financials holds the fundamentals of an instrument.
type Financials struct {
	Revenue          float64
	EarningsPerShare float64
	TotalShares      float64
}

// Instrument is a tradeable equity and its current quote.
type Instrument struct {
	Symbol           Symbol
	Sector           Sector
	Price            float64
	PreviousPrice    float64
	Change           float64
	ChangePercent    float64
	Volume           int64
	Financials       Financials
	DividendPerShare float64 // 0 means no dividend

	// derived
	MarketCap float64
	PER       float64
}

// PaysDividend reports whether the instrument pays a dividend.
func (i Instrument) PaysDividend() bool {
	return i.DividendPerShare > 0
}

func (i *Instrument) refresh() {
	i.MarketCap = i.Price * i.Financials.TotalShares
	if i.Financials.EarningsPerShare > 0 {
		i.PER = i.Price / i.Financials.EarningsPerShare
	} else {
		i.PER = 0
	}
}

// StockParams are the annualized drift and volatility of an instrument.
// They are generated once per session and never change.
type StockParams struct {
	Mu    float64
	Sigma float64
}

// PricePoint is one entry of an instrument's price history.
type PricePoint struct {
	Time   int64 // simulation seconds
	Price  float64
	Volume int64 // volume traded during the tick
}
