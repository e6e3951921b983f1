package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/tui/styles"
)

// NewsPanel displays the headline feed, newest first.
type NewsPanel struct {
	news          []game.NewsItem
	selectedIndex int
	scrollOffset  int
	focused       bool
	glow          bool
	width         int
	height        int
}

// NewNewsPanel creates a new news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// Init initializes the panel.
func (p *NewsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				// Adjust scroll to keep selection in view
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.news)-1 {
				p.selectedIndex++
				// Adjust scroll to keep selection in view
				visibleItems := p.height - 4
				if p.selectedIndex >= p.scrollOffset+visibleItems {
					p.scrollOffset = p.selectedIndex - visibleItems + 1
				}
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.news) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No news available"))
	} else {
		// Calculate visible items
		visibleItems := p.height - 4
		if visibleItems < 1 {
			visibleItems = 1
		}

		start := p.scrollOffset
		end := start + visibleItems
		if end > len(p.news) {
			end = len(p.news)
		}

		for i := start; i < end; i++ {
			item := p.news[i]

			timeStr := styles.FormatClock(item.Time)
			headline := truncate(item.Title, p.width-15)

			// macro news stands out
			headlineStyle := styles.NewsNormalStyle
			if item.Kind == market.EventRateChange || item.Kind == market.EventEconomicReport {
				headlineStyle = styles.NewsImportantStyle
			}

			// Select styling
			timeStyled := styles.TimeStyle.Render(timeStr)
			headlineStyled := headlineStyle.Render(headline)

			line := fmt.Sprintf("%s %s", timeStyled, headlineStyled)

			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}

			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		// Scroll indicator
		if len(p.news) > visibleItems {
			scrollInfo := fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.news))
			content.WriteString("\n")
			content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(scrollInfo))
		}
	}

	// Apply panel styling
	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle("📰 News", p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *NewsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetGlow toggles the glowing title.
func (p *NewsPanel) SetGlow(glow bool) {
	p.glow = glow
}

// SetNews sets the news items, given oldest first.
func (p *NewsPanel) SetNews(items []game.NewsItem) {
	p.news = make([]game.NewsItem, len(items))
	for i, it := range items {
		p.news[len(items)-1-i] = it
	}
	if p.selectedIndex >= len(p.news) {
		p.selectedIndex = max(len(p.news)-1, 0)
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
