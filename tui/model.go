package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/tui/panels"
	"github.com/zappabad/stonks9800/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket PanelFocus = iota
	FocusChart
	FocusPortfolio
	FocusTraders
	FocusNews
	FocusLog

	panelCount
)

// Mode is what currently owns the keyboard.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeCommand
	ModeTrade
)

const refreshInterval = 250 * time.Millisecond

// Model is the main TUI application model.
type Model struct {
	ctx  context.Context
	game *game.Game

	marketPanel    *panels.MarketOverviewPanel
	chartPanel     *panels.CandlestickPanel
	portfolioPanel *panels.PortfolioPanel
	tradersPanel   *panels.TradersPanel
	newsPanel      *panels.NewsPanel
	logPanel       *panels.LogPanel
	tradePanel     *panels.OrderInputPanel
	commandLine    textinput.Model

	focusedPanel PanelFocus
	mode         Mode
	view         game.View

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model over a running game.
func NewModel(ctx context.Context, g *game.Game) *Model {
	commandLine := textinput.New()
	commandLine.Prompt = ":"
	commandLine.Placeholder = "help"
	commandLine.CharLimit = 80

	m := &Model{
		ctx:            ctx,
		game:           g,
		marketPanel:    panels.NewMarketOverviewPanel(),
		chartPanel:     panels.NewCandlestickPanel(),
		portfolioPanel: panels.NewPortfolioPanel(),
		tradersPanel:   panels.NewTradersPanel(),
		newsPanel:      panels.NewNewsPanel(),
		logPanel:       panels.NewLogPanel(),
		tradePanel:     panels.NewOrderInputPanel(market.Symbols),
		commandLine:    commandLine,
		focusedPanel:   FocusMarket,
	}
	if len(market.Symbols) > 0 {
		m.chartPanel.SetHistory(market.Symbols[0], nil)
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.chartPanel.Init(),
		m.portfolioPanel.Init(),
		m.tradersPanel.Init(),
		m.newsPanel.Init(),
		m.logPanel.Init(),
		m.tradePanel.Init(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeCommand:
			return m, m.updateCommandLine(msg)
		case ModeTrade:
			if msg.String() == "esc" {
				m.closeModal()
				return m, nil
			}
			var cmd tea.Cmd
			m.tradePanel, cmd = m.tradePanel.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.cycleFocus(1)
			return m, nil
		case "shift+tab":
			m.cycleFocus(-1)
			return m, nil
		case "f1":
			m.setFocus(FocusMarket)
		case "f2":
			m.setFocus(FocusChart)
		case "f3":
			m.setFocus(FocusPortfolio)
		case "f4":
			m.setFocus(FocusTraders)
		case "f5":
			m.setFocus(FocusNews)
		case "f6":
			m.setFocus(FocusLog)
		case ":":
			m.openCommandLine()
			return m, textinput.Blink
		case "t":
			m.openTradeEntry()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case panels.SymbolSelectedMsg:
		m.chartPanel.SetHistory(msg.Symbol, m.game.History().Points(msg.Symbol))

	case panels.TradeSubmitMsg:
		m.closeModal()
		cmds = append(cmds, m.submitTrade(msg))

	case commandDoneMsg:
		m.statusMsg = msg.message
		m.refresh()

	case tickMsg:
		m.refresh()
		cmds = append(cmds, m.tickRefresh())
	}

	if m.mode == ModeBrowse {
		m.updateFocusedPanel(msg, &cmds)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
		if sym := m.marketPanel.SelectedSymbol(); sym != "" && sym != m.chartPanel.Symbol() {
			m.chartPanel.SetHistory(sym, m.game.History().Points(sym))
		}
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusPortfolio:
		m.portfolioPanel, cmd = m.portfolioPanel.Update(msg)
	case FocusTraders:
		m.tradersPanel, cmd = m.tradersPanel.Update(msg)
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusLog:
		m.logPanel, cmd = m.logPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) updateCommandLine(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return nil
	case "enter":
		line := m.commandLine.Value()
		m.closeModal()
		c, err := ParseCommand(line)
		if err != nil {
			m.statusMsg = "❌ " + err.Error()
			return nil
		}
		if c.Kind == CmdHelp {
			m.statusMsg = helpText
			return nil
		}
		return m.runCommand(c)
	}
	var cmd tea.Cmd
	m.commandLine, cmd = m.commandLine.Update(msg)
	return cmd
}

// openCommandLine and openTradeEntry pause the simulation until the modal
// closes.
func (m *Model) openCommandLine() {
	m.mode = ModeCommand
	m.commandLine.SetValue("")
	m.commandLine.Focus()
	m.game.Pause()
}

func (m *Model) openTradeEntry() {
	m.mode = ModeTrade
	m.tradePanel.Reset()
	if sym := m.marketPanel.SelectedSymbol(); sym != "" {
		m.tradePanel.SetSymbol(sym)
	}
	m.tradePanel.SetFocus(true)
	m.game.Pause()
}

func (m *Model) closeModal() {
	m.mode = ModeBrowse
	m.commandLine.Blur()
	m.tradePanel.SetFocus(false)
	m.game.Resume()
}

func (m *Model) submitTrade(t panels.TradeSubmitMsg) tea.Cmd {
	c := Command{Kind: CmdTrade, Action: t.Action, Symbol: t.Symbol, Quantity: t.Quantity}
	if t.Conditional {
		c.Kind = CmdOrder
		c.Trigger = t.TriggerPrice
	}
	return m.runCommand(c)
}

func (m *Model) runCommand(c Command) tea.Cmd {
	return func() tea.Msg {
		if err := c.Run(m.ctx, m.game); err != nil {
			return commandDoneMsg{message: "❌ " + err.Error()}
		}
		return commandDoneMsg{message: "✓ done"}
	}
}

// refresh pulls a fresh view from the game into every panel.
func (m *Model) refresh() {
	v := m.game.View()
	m.view = v

	m.marketPanel.SetMarket(v.Instruments, v.Indicators)
	if sym := m.chartPanel.Symbol(); sym != "" {
		m.chartPanel.SetHistory(sym, m.game.History().Points(sym))
	}
	m.portfolioPanel.SetView(v)
	m.tradersPanel.SetAgents(v.Agents, v.Instruments)
	m.newsPanel.SetNews(v.News)
	m.logPanel.SetEntries(v.Log)

	m.marketPanel.SetGlow(v.TextGlow)
	m.chartPanel.SetGlow(v.TextGlow)
	m.portfolioPanel.SetGlow(v.TextGlow)
	m.tradersPanel.SetGlow(v.TextGlow)
	m.newsPanel.SetGlow(v.TextGlow)
	m.logPanel.SetGlow(v.TextGlow)
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	browsing := m.mode == ModeBrowse
	m.marketPanel.SetFocus(browsing && m.focusedPanel == FocusMarket)
	m.chartPanel.SetFocus(browsing && m.focusedPanel == FocusChart)
	m.portfolioPanel.SetFocus(browsing && m.focusedPanel == FocusPortfolio)
	m.tradersPanel.SetFocus(browsing && m.focusedPanel == FocusTraders)
	m.newsPanel.SetFocus(browsing && m.focusedPanel == FocusNews)
	m.logPanel.SetFocus(browsing && m.focusedPanel == FocusLog)

	// Layout:
	// ┌────────────────────────────────────────────┐
	// │  Market          │  Chart     │ Portfolio  │
	// ├──────────────────┼────────────┼────────────┤
	// │  AI Traders      │  News      │ System     │
	// └──────────────────┴────────────┴────────────┘
	leftWidth := m.width * 2 / 5
	middleWidth := (m.width - leftWidth) / 2
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(middleWidth, topHeight)
	m.portfolioPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.marketPanel.View(),
		m.chartPanel.View(),
		m.portfolioPanel.View(),
	)

	var bottomRow string
	if m.mode == ModeTrade {
		m.tradePanel.SetSize(m.width, bottomHeight)
		bottomRow = m.tradePanel.View()
	} else {
		m.tradersPanel.SetSize(leftWidth, bottomHeight)
		m.newsPanel.SetSize(middleWidth, bottomHeight)
		m.logPanel.SetSize(rightWidth, bottomHeight)
		bottomRow = lipgloss.JoinHorizontal(lipgloss.Top,
			m.tradersPanel.View(),
			m.newsPanel.View(),
			m.logPanel.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	if m.mode == ModeCommand {
		return styles.StatusBarStyle.Width(m.width).Render(m.commandLine.View())
	}

	clock := styles.StatusBarKeyStyle.Render("T+" + styles.FormatClock(m.view.Clock))
	if m.view.Paused {
		clock += styles.LogWarnStyle.Render(" PAUSED")
	}

	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F6") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("t") + styles.StatusBarDescStyle.Render(" trade"),
		styles.StatusBarKeyStyle.Render(":") + styles.StatusBarDescStyle.Render(" command"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, clock, " │ ", help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func (m *Model) setFocus(panel PanelFocus) {
	m.focusedPanel = panel
}

func (m *Model) cycleFocus(step int) {
	m.focusedPanel = (m.focusedPanel + PanelFocus(step) + panelCount) % panelCount
}

// tickMsg is sent periodically to refresh data.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// commandDoneMsg is sent after a command has gone through the game.
type commandDoneMsg struct {
	message string
}
