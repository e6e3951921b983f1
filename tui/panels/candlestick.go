package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/tui/styles"
)

// Candle aggregates consecutive price points.
type Candle struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Time   int64
}

// CandlestickPanel charts the price history of one symbol.
type CandlestickPanel struct {
	symbol  market.Symbol
	candles []Candle

	// pointsPerCandle price ticks are folded into each candle
	pointsPerCandle int

	focused bool
	glow    bool
	width   int
	height  int
}

// NewCandlestickPanel creates a new candlestick chart panel.
func NewCandlestickPanel() *CandlestickPanel {
	return &CandlestickPanel{
		pointsPerCandle: 3,
	}
}

// Init initializes the panel.
func (p *CandlestickPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *CandlestickPanel) Update(msg tea.Msg) (*CandlestickPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *CandlestickPanel) View() string {
	name := "No symbol"
	if p.symbol != "" {
		name = string(p.symbol)
	}

	var content strings.Builder

	chartWidth := p.width - 12 // price axis
	chartHeight := p.height - 6
	if chartHeight < 5 {
		chartHeight = 5
	}

	if len(p.candles) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No price data yet..."))
	} else {
		content.WriteString(p.renderChart(chartWidth, chartHeight, p.candles))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle(fmt.Sprintf("📉 Chart - %s", name), p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *CandlestickPanel) renderChart(width, height int, candles []Candle) string {
	if len(candles) == 0 {
		return ""
	}

	// Reserve space: 9 chars for price axis, 1 for separator
	chartWidth := width - 10
	if chartWidth < 10 {
		chartWidth = 10
	}

	// Each candle needs 3 chars: space, candle, space
	candleWidth := 3
	candlesToShow := chartWidth / candleWidth
	if candlesToShow < 1 {
		candlesToShow = 1
	}
	if candlesToShow > len(candles) {
		candlesToShow = len(candles)
	}

	// Get the most recent candles
	displayCandles := candles
	if len(candles) > candlesToShow {
		displayCandles = candles[len(candles)-candlesToShow:]
	}

	// Find price range
	minPrice := displayCandles[0].Low
	maxPrice := displayCandles[0].High
	for _, c := range displayCandles {
		if c.Low < minPrice {
			minPrice = c.Low
		}
		if c.High > maxPrice {
			maxPrice = c.High
		}
	}

	// Add padding to price range (10%)
	priceRange := maxPrice - minPrice
	if priceRange == 0 {
		priceRange = maxPrice * 0.01
	}
	padding := priceRange * 0.1
	if padding < 0.01 {
		padding = 0.01
	}
	minPrice -= padding
	maxPrice += padding

	// Reserve 2 rows for time axis
	chartHeight := height - 3
	if chartHeight < 5 {
		chartHeight = 5
	}

	var result strings.Builder

	// Render chart rows (top to bottom = high to low price)
	for row := 0; row < chartHeight; row++ {
		// Price label
		price := p.yToPrice(row, minPrice, maxPrice, chartHeight)
		result.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8.2f │", price)))

		// Render each candle column
		for _, candle := range displayCandles {
			char := p.getCandleChar(candle, row, minPrice, maxPrice, chartHeight)

			// Apply color based on bullish/bearish
			var style lipgloss.Style
			if candle.Close >= candle.Open {
				style = styles.CandleUpStyle
			} else {
				style = styles.CandleDownStyle
			}

			result.WriteString(style.Render(string(char)))
			result.WriteString(" ") // Space between candles
		}
		result.WriteString("\n")
	}

	// Bottom border
	result.WriteString(styles.ChartAxisStyle.Render("─────────┴"))
	for range displayCandles {
		result.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	result.WriteString("\n")

	// Time axis - show relative time labels
	result.WriteString(styles.ChartAxisStyle.Render("          "))
	for i, candle := range displayCandles {
		// Show time every few candles or for first/last
		if i == 0 || i == len(displayCandles)-1 || i%5 == 0 {
			result.WriteString(styles.ChartLabelStyle.Render(fmt.Sprintf("%02d", candle.Time/60%100)))
		} else {
			result.WriteString("  ")
		}
	}

	return result.String()
}

// getCandleChar returns the character to draw for a candle at a given row
func (p *CandlestickPanel) getCandleChar(candle Candle, row int, minPrice, maxPrice float64, height int) rune {
	// Convert row to price level
	rowPrice := p.yToPrice(row, minPrice, maxPrice, height)

	// Get candle price positions
	highPrice := candle.High
	lowPrice := candle.Low

	bodyTop := candle.Open
	bodyBottom := candle.Close
	if candle.Close > candle.Open {
		bodyTop = candle.Close
		bodyBottom = candle.Open
	}

	// Check if this row intersects with the candle
	// We need some tolerance since we're mapping continuous prices to discrete rows
	tolerance := (maxPrice - minPrice) / float64(height*2)

	// Check body first (body overwrites wick)
	if rowPrice <= bodyTop+tolerance && rowPrice >= bodyBottom-tolerance {
		return '┃' // colour distinguishes bullish from bearish
	}

	// Check upper wick (above body)
	if rowPrice <= highPrice+tolerance && rowPrice > bodyTop {
		return '│' // Thin wick
	}

	// Check lower wick (below body)
	if rowPrice >= lowPrice-tolerance && rowPrice < bodyBottom {
		return '│' // Thin wick
	}

	return ' ' // Empty space
}

func (p *CandlestickPanel) yToPrice(y int, minPrice, maxPrice float64, height int) float64 {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(y) / float64(height-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *CandlestickPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetGlow toggles the glowing title.
func (p *CandlestickPanel) SetGlow(glow bool) {
	p.glow = glow
}

// SetSize sets the panel dimensions.
func (p *CandlestickPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetHistory rebuilds the candles of sym from its price points.
func (p *CandlestickPanel) SetHistory(sym market.Symbol, points []market.PricePoint) {
	p.symbol = sym
	p.candles = BuildCandles(points, p.pointsPerCandle)
}

// Symbol returns the charted symbol.
func (p *CandlestickPanel) Symbol() market.Symbol {
	return p.symbol
}

// BuildCandles folds every n consecutive points into one candle. The last
// candle may hold fewer points.
func BuildCandles(points []market.PricePoint, n int) []Candle {
	if n <= 0 {
		n = 1
	}

	var candles []Candle
	for i := 0; i < len(points); i += n {
		end := min(i+n, len(points))
		first := points[i]
		c := Candle{
			Open:  first.Price,
			High:  first.Price,
			Low:   first.Price,
			Close: points[end-1].Price,
			Time:  first.Time,
		}
		for _, pt := range points[i:end] {
			c.High = max(c.High, pt.Price)
			c.Low = min(c.Low, pt.Price)
			c.Volume += pt.Volume
		}
		candles = append(candles, c)
	}
	return candles
}
