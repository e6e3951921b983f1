package panels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/tui/styles"
)

// PortfolioPanel shows the player's cash, positions, bonds and pending
// conditional orders, with a sparkline of total assets.
type PortfolioPanel struct {
	view         game.View
	scrollOffset int
	focused      bool
	glow         bool
	width        int
	height       int
}

// NewPortfolioPanel creates a new portfolio panel.
func NewPortfolioPanel() *PortfolioPanel {
	return &PortfolioPanel{}
}

// Init initializes the panel.
func (p *PortfolioPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *PortfolioPanel) Update(msg tea.Msg) (*PortfolioPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.scrollOffset > 0 {
				p.scrollOffset--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			p.scrollOffset++
		}
	}
	return p, nil
}

// View renders the panel.
func (p *PortfolioPanel) View() string {
	lines := p.lines()

	visible := max(p.height-4, 1)
	if p.scrollOffset > len(lines)-visible {
		p.scrollOffset = max(len(lines)-visible, 0)
	}
	end := min(p.scrollOffset+visible, len(lines))

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle("💼 Portfolio", p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines[p.scrollOffset:end], "\n"))

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *PortfolioPanel) lines() []string {
	v := p.view
	quotes := make(map[market.Symbol]float64, len(v.Instruments))
	for _, inst := range v.Instruments {
		quotes[inst.Symbol] = inst.Price
	}

	total := v.Valuation.Total().InexactFloat64()
	lines := []string{
		styles.LabelStyle.Render("Cash   ") + styles.PriceStyle.Render(styles.FormatMoney(v.Ledger.Cash.InexactFloat64())),
		styles.LabelStyle.Render("Total  ") + styles.PriceStyle.Render(styles.FormatMoney(total)) + "  " + Sparkline(v.Values, 20),
		"",
		styles.HeaderStyle.Render(fmt.Sprintf("%-5s %7s %10s %7s %10s %10s", "Sym", "Long", "Avg", "Short", "AvgShort", "P/L")),
	}

	syms := make([]market.Symbol, 0, len(v.Ledger.Portfolio))
	for sym := range v.Ledger.Portfolio {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	for _, sym := range syms {
		it := v.Ledger.Portfolio[sym]
		px := quotes[sym]
		avg := it.AveragePrice.InexactFloat64()
		avgShort := it.AverageShortPrice.InexactFloat64()
		pl := float64(it.Quantity)*(px-avg) + float64(it.ShortQuantity)*(avgShort-px)

		row := fmt.Sprintf("%-5s %7d %10.2f %7d %10.2f ", sym, it.Quantity, avg, it.ShortQuantity, avgShort)
		lines = append(lines, styles.RowStyle.Render(row)+styles.ChangeStyle(pl).Render(fmt.Sprintf("%10.2f", pl)))
	}
	if len(syms) == 0 {
		lines = append(lines, styles.PlaceholderStyle.Render("no positions"))
	}

	lines = append(lines, "", styles.HeaderStyle.Render(fmt.Sprintf("%-13s %5s %10s %7s", "Bond", "Qty", "Paid", "Matures")))
	for _, lot := range v.Ledger.Bonds {
		matures := "-"
		if b, ok := v.Bonds.Lookup(lot.BondID); ok {
			matures = styles.FormatClock(b.MaturesAt(lot))
		}
		lines = append(lines, styles.RowStyle.Render(fmt.Sprintf("%-13s %5d %10s %7s",
			lot.BondID, lot.Quantity, lot.PurchasePrice.StringFixed(2), matures)))
	}
	if len(v.Ledger.Bonds) == 0 {
		lines = append(lines, styles.PlaceholderStyle.Render("no bonds"))
	}

	lines = append(lines, "", styles.HeaderStyle.Render("Bond market"))
	for _, b := range v.Bonds {
		price := v.BondPrices[b.ID]
		lines = append(lines, styles.SizeStyle.Render(fmt.Sprintf("%-13s %5s%% %4ds %10s",
			b.ID, b.CouponRate.Mul(hundred).StringFixed(1), b.MaturitySeconds, price.StringFixed(2))))
	}

	lines = append(lines, "", styles.HeaderStyle.Render("Conditional orders"))
	n := 0
	for _, o := range v.Orders {
		if o.Status != orders.StatusPending {
			continue
		}
		n++
		style := styles.SellStyle
		if o.Action.IsBuy() {
			style = styles.BuyStyle
		}
		lines = append(lines, styles.TimeStyle.Render(shortID(o.ID))+" "+style.Render(o.String()))
	}
	if n == 0 {
		lines = append(lines, styles.PlaceholderStyle.Render("none pending"))
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetFocus sets the focus state of the panel.
func (p *PortfolioPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetGlow toggles the glowing title.
func (p *PortfolioPanel) SetGlow(glow bool) {
	p.glow = glow
}

// SetSize sets the panel dimensions.
func (p *PortfolioPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetView replaces the displayed state.
func (p *PortfolioPanel) SetView(v game.View) {
	p.view = v
}

var (
	hundred    = decimal.NewFromInt(100)
	sparkRunes = []rune("▁▂▃▄▅▆▇█")
)

// Sparkline renders the last width samples as a one-line chart.
func Sparkline(points []game.ValuePoint, width int) string {
	if len(points) > width {
		points = points[len(points)-width:]
	}
	if len(points) == 0 {
		return ""
	}

	lo, hi := points[0].Total, points[0].Total
	for _, pt := range points {
		lo = min(lo, pt.Total)
		hi = max(hi, pt.Total)
	}

	var b strings.Builder
	for _, pt := range points {
		idx := 0
		if hi > lo {
			idx = int((pt.Total - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}

	style := styles.PriceUpStyle
	if points[len(points)-1].Total < points[0].Total {
		style = styles.PriceDownStyle
	}
	return style.Render(b.String())
}
