package news

// template is a headline with an impact drawn uniformly from
// [base, base+spread) (spread is negative for falling prices).
type template struct {
	title  string
	base   float64
	spread float64
}

type financialTemplate struct {
	title         string
	impact        float64
	epsFactor     float64
	revenueFactor float64
}

var stockTemplates = []template{
	{title: "{symbol} unveils breakthrough technology, shares soar", base: 1.15, spread: 0.10},
	{title: "{symbol} posts quarter far ahead of its rivals", base: 1.10, spread: 0.08},
	{title: "Government announces support plan for {symbol}'s industry", base: 1.12, spread: 0.05},
	{title: "Critical security flaw found in {symbol} products", base: 0.85, spread: -0.10},
	{title: "{symbol} CEO resigns unexpectedly", base: 0.92, spread: -0.07},
	{title: "{symbol} hit by massive data breach", base: 0.88, spread: -0.10},
	{title: "{symbol} launches product beyond market expectations", base: 1.20, spread: 0.10},
	{title: "Merger rumors spread around {symbol}", base: 1.08, spread: 0.05},
	{title: "{symbol} expected to gain as competitor {competitor} stumbles", base: 1.05, spread: 0.05},
	{title: "{symbol} loses key patent lawsuit", base: 0.80, spread: -0.10},
}

var financialTemplates = []financialTemplate{
	{title: "{symbol} improves margins with aggressive cost cuts", impact: 1.05, epsFactor: 1.15, revenueFactor: 1.02},
	{title: "{symbol} signs major contract, revenue outlook raised", impact: 1.08, epsFactor: 1.10, revenueFactor: 1.20},
	{title: "{symbol} warns rising input costs will hurt profits", impact: 0.95, epsFactor: 0.85},
	{title: "{symbol} cuts sales guidance after product line flops", impact: 0.92, epsFactor: 0.75, revenueFactor: 0.80},
}

var sectorTemplates = []template{
	{title: "{sector} sector rallies on deregulation news", base: 1.08, spread: 0.05},
	{title: "{sector} technology adopted as next-generation standard", base: 1.12, spread: 0.08},
	{title: "Government unveils large investment plan for {sector}", base: 1.15, spread: 0.10},
	{title: "Analysts publish bleak outlook for {sector}", base: 0.93, spread: -0.06},
	{title: "Supply chain crunch hits the {sector} sector", base: 0.90, spread: -0.08},
}

const (
	rateHikeTitle      = "Central bank raises policy rate by {bps}bp, tightening fears grow"
	rateCutTitle       = "Central bank cuts policy rate by {bps}bp to support growth"
	economicReportText = "Economic data: inflation {inflation}%, GDP growth {gdp}%, unemployment {unemployment}%"
)
