package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/trader"
)

func TestBuildCandles(t *testing.T) {
	points := []market.PricePoint{
		{Time: 2, Price: 10, Volume: 1},
		{Time: 4, Price: 12, Volume: 2},
		{Time: 6, Price: 9, Volume: 3},
		{Time: 8, Price: 11, Volume: 4},
	}

	candles := BuildCandles(points, 3)
	require.Len(t, candles, 2)

	assert.Equal(t, Candle{Open: 10, High: 12, Low: 9, Close: 9, Volume: 6, Time: 2}, candles[0])
	assert.Equal(t, Candle{Open: 11, High: 11, Low: 11, Close: 11, Volume: 4, Time: 8}, candles[1])

	assert.Len(t, BuildCandles(points, 0), 4)
	assert.Empty(t, BuildCandles(nil, 3))
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil, 10))

	points := []game.ValuePoint{{Total: 1}, {Total: 2}, {Total: 3}, {Total: 4}}
	line := Sparkline(points, 2)
	assert.Contains(t, line, "▁")
	assert.Contains(t, line, "█")
	assert.NotContains(t, line, "▄")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "abcdefghij", truncate("abcdefghij", 3))
}

func TestEquity(t *testing.T) {
	a := trader.Agent{
		Cash: 1000,
		Portfolio: map[market.Symbol]trader.Holding{
			"MEGA": {Quantity: 10, AveragePrice: 50},
		},
	}
	assert.InDelta(t, 1600, Equity(a, map[market.Symbol]float64{"MEGA": 60}), 1e-9)
}

func TestTradeEntryValidate(t *testing.T) {
	p := NewOrderInputPanel([]market.Symbol{"MEGA", "BANK"})

	_, err := p.Validate()
	assert.Error(t, err)

	p.SetSymbol("MEGA")
	p.quantityInput.SetValue("abc")
	_, err = p.Validate()
	assert.Error(t, err)

	p.quantityInput.SetValue("25")
	msg, err := p.Validate()
	require.NoError(t, err)
	assert.Equal(t, TradeSubmitMsg{Symbol: "MEGA", Action: orders.ActionBuyLong, Quantity: 25}, msg)

	p.actionIndex = 2
	p.typeIndex = TypeConditional
	p.triggerInput.SetValue("-1")
	_, err = p.Validate()
	assert.Error(t, err)

	p.triggerInput.SetValue("101.5")
	msg, err = p.Validate()
	require.NoError(t, err)
	assert.Equal(t, orders.ActionSellShort, msg.Action)
	assert.True(t, msg.Conditional)
	assert.Equal(t, 101.5, msg.TriggerPrice)
}

func TestTradeEntryAutocomplete(t *testing.T) {
	p := NewOrderInputPanel([]market.Symbol{"MEGA", "BANK", "MEDI"})
	p.SetFocus(true)
	boxes := strings.Count(p.renderSymbolField(), "┌")

	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("me")})
	assert.Equal(t, []string{"MEGA", "MEDI"}, p.dropdownFiltered)
	// suggestions sit in their own bordered box
	assert.Equal(t, boxes+1, strings.Count(p.renderSymbolField(), "┌"))

	p.Update(tea.KeyMsg{Type: tea.KeyRight})
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, market.Symbol("MEDI"), p.selectedSymbol)
	assert.Equal(t, FieldAction, p.currentField)

	p.Reset()
	assert.Equal(t, FieldSymbol, p.currentField)
	assert.Empty(t, p.selectedSymbol)
}

func TestNewsPanelNewestFirst(t *testing.T) {
	p := NewNewsPanel()
	p.SetSize(80, 12)
	p.SetNews([]game.NewsItem{
		{Time: 30, Kind: market.EventEarnings, Title: "MEGA beats estimates"},
		{Time: 62, Kind: market.EventRateChange, Title: "Central bank hikes rates"},
	})

	require.Len(t, p.news, 2)
	assert.Equal(t, "Central bank hikes rates", p.news[0].Title)

	out := p.View()
	assert.Less(t, strings.Index(out, "Central bank"), strings.Index(out, "MEGA beats"))
	assert.NotContains(t, out, "breaking")
}
