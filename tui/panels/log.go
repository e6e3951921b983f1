package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/tui/styles"
)

// LogPanel shows the system log, newest last.
type LogPanel struct {
	entries []game.LogEntry
	focused bool
	glow    bool
	width   int
	height  int
}

func NewLogPanel() *LogPanel {
	return &LogPanel{}
}

func (p *LogPanel) Init() tea.Cmd {
	return nil
}

func (p *LogPanel) Update(msg tea.Msg) (*LogPanel, tea.Cmd) {
	return p, nil
}

func (p *LogPanel) View() string {
	visible := max(p.height-4, 1)
	entries := p.entries
	if len(entries) > visible {
		entries = entries[len(entries)-visible:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := truncate(e.Text, p.width-12)
		lines = append(lines, styles.TimeStyle.Render(styles.FormatClock(e.Time))+" "+levelStyle(e.Level).Render(text))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.PlaceholderStyle.Render("nothing yet"))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderGlowTitle("🖥  System", p.focused, p.glow)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func levelStyle(l game.Level) lipgloss.Style {
	switch l {
	case game.LevelSuccess:
		return styles.LogSuccessStyle
	case game.LevelWarn:
		return styles.LogWarnStyle
	case game.LevelError:
		return styles.LogErrorStyle
	default:
		return styles.LogInfoStyle
	}
}

func (p *LogPanel) SetFocus(focused bool) {
	p.focused = focused
}

func (p *LogPanel) SetGlow(glow bool) {
	p.glow = glow
}

func (p *LogPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetEntries replaces the log, oldest first.
func (p *LogPanel) SetEntries(entries []game.LogEntry) {
	p.entries = entries
}
