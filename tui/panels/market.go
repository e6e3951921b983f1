package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/tui/styles"
)

// MarketOverviewPanel lists every instrument with its latest quote.
type MarketOverviewPanel struct {
	instruments   []market.Instrument
	indicators    market.Indicators
	selectedIndex int
	scrollOffset  int
	focused       bool
	glow          bool
	width         int
	height        int
}

// NewMarketOverviewPanel creates a new market overview panel.
func NewMarketOverviewPanel() *MarketOverviewPanel {
	return &MarketOverviewPanel{}
}

// Init initializes the panel.
func (p *MarketOverviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketOverviewPanel) Update(msg tea.Msg) (*MarketOverviewPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.instruments)-1 {
				p.selectedIndex++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if sym := p.SelectedSymbol(); sym != "" {
				return p, func() tea.Msg { return SymbolSelectedMsg{Symbol: sym} }
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *MarketOverviewPanel) View() string {
	var content strings.Builder

	ind := p.indicators
	content.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Rate %s  Infl %s  GDP %s  Unemp %s",
		styles.FormatPercent(ind.InterestRate),
		styles.FormatPercent(ind.InflationRate),
		styles.FormatPercent(ind.GDPGrowth),
		styles.FormatPercent(ind.UnemploymentRate))))
	content.WriteString("\n")

	header := fmt.Sprintf("%-5s %-9s %10s %8s %12s %6s %5s",
		"Sym", "Sector", "Price", "Chg%", "Volume", "P/E", "Div")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	visible := p.height - 6
	if visible < 1 {
		visible = 1
	}
	if p.selectedIndex < p.scrollOffset {
		p.scrollOffset = p.selectedIndex
	}
	if p.selectedIndex >= p.scrollOffset+visible {
		p.scrollOffset = p.selectedIndex - visible + 1
	}
	end := p.scrollOffset + visible
	if end > len(p.instruments) {
		end = len(p.instruments)
	}

	for i := p.scrollOffset; i < end; i++ {
		inst := p.instruments[i]

		div := "-"
		if inst.PaysDividend() {
			div = fmt.Sprintf("%.2f", inst.DividendPerShare)
		}
		pe := "-"
		if inst.PER > 0 {
			pe = fmt.Sprintf("%.1f", inst.PER)
		}

		change := styles.ChangeStyle(inst.Change).Render(fmt.Sprintf("%+7.2f%%", inst.ChangePercent))
		row := fmt.Sprintf("%-5s %-9s %10.2f %s %12d %6s %5s",
			inst.Symbol, inst.Sector.String(), inst.Price, change, inst.Volume, pe, div)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle("📈 Market", p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *MarketOverviewPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetGlow toggles the glowing title.
func (p *MarketOverviewPanel) SetGlow(glow bool) {
	p.glow = glow
}

// SetSize sets the panel dimensions.
func (p *MarketOverviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetMarket replaces the displayed quotes.
func (p *MarketOverviewPanel) SetMarket(instruments []market.Instrument, ind market.Indicators) {
	p.instruments = instruments
	p.indicators = ind
	if p.selectedIndex >= len(instruments) {
		p.selectedIndex = 0
	}
}

// SelectedSymbol returns the currently highlighted symbol.
func (p *MarketOverviewPanel) SelectedSymbol() market.Symbol {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.instruments) {
		return p.instruments[p.selectedIndex].Symbol
	}
	return ""
}

// SymbolSelectedMsg is sent when a symbol is picked with enter.
type SymbolSelectedMsg struct {
	Symbol market.Symbol
}
