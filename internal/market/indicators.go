package market

import "math"

const (
	InitialInterestRate     = 0.025
	InitialInflationRate    = 0.02
	InitialGDPGrowth        = 0.015
	InitialUnemploymentRate = 0.045

	MinInterestRate     = 0.0025
	MaxInterestRate     = 0.08
	RateStep            = 0.0025
	MinInflationRate    = 0.005
	MaxInflationRate    = 0.08
	MinGDPGrowth        = -0.02
	MaxGDPGrowth        = 0.05
	MinUnemploymentRate = 0.02
	MaxUnemploymentRate = 0.10

	InterestRateSensitivity = 0.5
	InflationSensitivity    = 0.4
	GDPSensitivity          = 0.3
	UnemploymentSensitivity = 0.2

	MarketAveragePER = 25
	PERSensitivity   = 0.001
)

// Indicators are the macro-economic scalars that shift every drift.
type Indicators struct {
	InterestRate     float64
	InflationRate    float64
	GDPGrowth        float64
	UnemploymentRate float64
}

// DefaultIndicators returns the session starting values.
func DefaultIndicators() Indicators {
	return Indicators{
		InterestRate:     InitialInterestRate,
		InflationRate:    InitialInflationRate,
		GDPGrowth:        InitialGDPGrowth,
		UnemploymentRate: InitialUnemploymentRate,
	}
}

// Clamp bounds every indicator to its range.
func (in Indicators) Clamp() Indicators {
	return Indicators{
		InterestRate:     ClampRate(in.InterestRate),
		InflationRate:    clamp(in.InflationRate, MinInflationRate, MaxInflationRate),
		GDPGrowth:        clamp(in.GDPGrowth, MinGDPGrowth, MaxGDPGrowth),
		UnemploymentRate: clamp(in.UnemploymentRate, MinUnemploymentRate, MaxUnemploymentRate),
	}
}

// ClampRate bounds a policy rate and snaps it to the 25bp grid.
func ClampRate(r float64) float64 {
	r = clamp(r, MinInterestRate, MaxInterestRate)
	return math.Round(r/RateStep) * RateStep
}

// DriftAdjustment is the macro component added to every instrument's mu.
func (in Indicators) DriftAdjustment() float64 {
	rateEffect := (in.InterestRate - InitialInterestRate) * InterestRateSensitivity
	inflationEffect := (in.InflationRate - InitialInflationRate) * InflationSensitivity
	gdpEffect := (in.GDPGrowth - InitialGDPGrowth) * GDPSensitivity
	unemploymentEffect := (in.UnemploymentRate - InitialUnemploymentRate) * UnemploymentSensitivity
	return -rateEffect - inflationEffect + gdpEffect - unemploymentEffect
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
