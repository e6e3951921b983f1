package market

// Symbols is the fixed instrument universe in display order.
var Symbols = []Symbol{
	"MEGA", "BYTE", "NANO", "CYBR", "FLUX", "TRON", "XENO", "PXL",
	"ATOM", "HOLV", "QBIT", "VRTX", "CORE", "GRID", "DATA", "AI",
}

var symbolSectors = map[Symbol]Sector{
	"MEGA": SectorTech,
	"BYTE": SectorTech,
	"NANO": SectorHardware,
	"CYBR": SectorSecurity,
	"FLUX": SectorSoftware,
	"TRON": SectorSoftware,
	"XENO": SectorBio,
	"PXL":  SectorHardware,
	"ATOM": SectorHardware,
	"HOLV": SectorHardware,
	"QBIT": SectorTech,
	"VRTX": SectorSoftware,
	"CORE": SectorInfra,
	"GRID": SectorInfra,
	"DATA": SectorAI,
	"AI":   SectorAI,
}

// blue chips paying a quarterly dividend per share
var dividends = map[Symbol]float64{
	"MEGA": 0.50,
	"CORE": 0.25,
	"GRID": 0.30,
	"DATA": 0.75,
	"AI":   0.40,
	"VRTX": 0.20,
}

// SectorOf returns the sector of a catalog symbol.
func SectorOf(sym Symbol) (Sector, bool) {
	s, ok := symbolSectors[sym]
	return s, ok
}

// IsListed reports whether sym belongs to the catalog.
func IsListed(sym Symbol) bool {
	_, ok := symbolSectors[sym]
	return ok
}

// Correlation links two symbols whose shocks are drawn jointly.
type Correlation struct {
	A, B Symbol
	Rho  float64
}

// DefaultCorrelations is the fixed correlation graph.
var DefaultCorrelations = []Correlation{
	{A: "MEGA", B: "BYTE", Rho: -0.65}, // competitors
	{A: "AI", B: "DATA", Rho: 0.75},
	{A: "CORE", B: "GRID", Rho: 0.6},
	{A: "NANO", B: "PXL", Rho: 0.5},
	{A: "FLUX", B: "VRTX", Rho: 0.55},
	{A: "CYBR", B: "TRON", Rho: -0.4}, // competitors
}
