package panels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/trader"
	"github.com/zappabad/stonks9800/tui/styles"
)

// TradersPanel lists the AI traders. The selected one is expanded to show
// its holdings.
type TradersPanel struct {
	agents        []trader.Agent
	quotes        map[market.Symbol]float64
	selectedIndex int
	focused       bool
	glow          bool
	width         int
	height        int
}

// NewTradersPanel creates a new AI traders panel.
func NewTradersPanel() *TradersPanel {
	return &TradersPanel{}
}

// Init initializes the panel.
func (p *TradersPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *TradersPanel) Update(msg tea.Msg) (*TradersPanel, tea.Cmd) {
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
			if p.selectedIndex < len(p.agents)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// Equity is an agent's cash plus holdings at the given quotes.
func Equity(a trader.Agent, quotes map[market.Symbol]float64) float64 {
	total := a.Cash
	for sym, h := range a.Portfolio {
		total += float64(h.Quantity) * quotes[sym]
	}
	return total
}

// View renders the panel.
func (p *TradersPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-7s %-10s %14s %14s %4s", "Agent", "Strategy", "Cash", "Equity", "CD")
	content.WriteString(styles.HeaderStyle.Render(header))

	for i, a := range p.agents {
		row := fmt.Sprintf("%-7s %-10s %14s %14s %4d",
			a.Name, a.Strategy, styles.FormatMoney(a.Cash), styles.FormatMoney(Equity(a, p.quotes)), a.Cooldown)

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString("\n")
		content.WriteString(style.Render(row))

		if i != p.selectedIndex {
			continue
		}
		syms := make([]market.Symbol, 0, len(a.Portfolio))
		for sym, h := range a.Portfolio {
			if h.Quantity > 0 {
				syms = append(syms, sym)
			}
		}
		sort.Slice(syms, func(x, y int) bool { return syms[x] < syms[y] })
		for _, sym := range syms {
			h := a.Portfolio[sym]
			content.WriteString("\n")
			content.WriteString(styles.SizeStyle.Render(fmt.Sprintf("   %-5s %8d @ %8.2f", sym, h.Quantity, h.AveragePrice)))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle("🤖 AI Traders", p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *TradersPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetGlow toggles the glowing title.
func (p *TradersPanel) SetGlow(glow bool) {
	p.glow = glow
}

// SetSize sets the panel dimensions.
func (p *TradersPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetAgents replaces the displayed agents and the quotes used to value
// their holdings.
func (p *TradersPanel) SetAgents(agents []trader.Agent, instruments []market.Instrument) {
	p.agents = agents
	p.quotes = make(map[market.Symbol]float64, len(instruments))
	for _, inst := range instruments {
		p.quotes[inst.Symbol] = inst.Price
	}
	if p.selectedIndex >= len(agents) {
		p.selectedIndex = 0
	}
}
