package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/tui/styles"
)

// OrderInputField represents the currently focused input field.
type OrderInputField int

const (
	FieldSymbol OrderInputField = iota
	FieldAction
	FieldType
	FieldTrigger
	FieldQuantity
	FieldSubmit
)

// Trade entry order types.
const (
	TypeMarket = iota
	TypeConditional
)

var entryActions = []orders.Action{
	orders.ActionBuyLong,
	orders.ActionSellLong,
	orders.ActionSellShort,
	orders.ActionBuyCover,
}

// OrderInputPanel is the trade entry form: symbol with autocomplete, one of
// the four trade actions, and either an immediate trade or a conditional
// order at a trigger price.
type OrderInputPanel struct {
	symbols       []market.Symbol
	tickerInput   textinput.Model
	triggerInput  textinput.Model
	quantityInput textinput.Model

	// Dropdown state
	showDropdown     bool
	dropdownItems    []string
	dropdownFiltered []string
	dropdownIndex    int

	actionIndex int

	// Order type dropdown
	typeOptions []string
	typeIndex   int

	// Current field
	currentField OrderInputField

	selectedSymbol market.Symbol
	errMsg         string

	focused bool
	width   int
	height  int
}

// NewOrderInputPanel creates a trade entry panel over the tradable symbols.
func NewOrderInputPanel(symbols []market.Symbol) *OrderInputPanel {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = string(s)
	}

	// Create text inputs
	tickerInput := textinput.New()
	tickerInput.Placeholder = "Search symbol..."
	tickerInput.Width = 15
	tickerInput.CharLimit = 10

	triggerInput := textinput.New()
	triggerInput.Placeholder = "Trigger"
	triggerInput.Width = 10
	triggerInput.CharLimit = 15

	quantityInput := textinput.New()
	quantityInput.Placeholder = "Quantity"
	quantityInput.Width = 10
	quantityInput.CharLimit = 15

	return &OrderInputPanel{
		symbols:          symbols,
		tickerInput:      tickerInput,
		triggerInput:     triggerInput,
		quantityInput:    quantityInput,
		dropdownItems:    names,
		dropdownFiltered: names,
		typeOptions:      []string{"MARKET", "CONDITIONAL"},
		currentField:     FieldSymbol,
	}
}

// Init initializes the panel.
func (p *OrderInputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *OrderInputPanel) Update(msg tea.Msg) (*OrderInputPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "tab"))):
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "shift+tab"))):
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submitOrder()
			}
			if p.showDropdown && p.currentField == FieldSymbol {
				p.selectDropdownItem()
				p.showDropdown = false
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			if p.showDropdown {
				if p.dropdownIndex > 0 {
					p.dropdownIndex--
				}
				return p, nil
			}
			switch p.currentField {
			case FieldAction:
				if p.actionIndex > 0 {
					p.actionIndex--
				}
				return p, nil
			case FieldType:
				if p.typeIndex > 0 {
					p.typeIndex--
				}
				return p, nil
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			if p.showDropdown {
				if p.dropdownIndex < len(p.dropdownFiltered)-1 {
					p.dropdownIndex++
				}
				return p, nil
			}
			switch p.currentField {
			case FieldAction:
				if p.actionIndex < len(entryActions)-1 {
					p.actionIndex++
				}
				return p, nil
			case FieldType:
				if p.typeIndex < len(p.typeOptions)-1 {
					p.typeIndex++
				}
				return p, nil
			}
		}
	}

	switch p.currentField {
	case FieldSymbol:
		p.tickerInput, cmd = p.tickerInput.Update(msg)
		p.filterDropdown(p.tickerInput.Value())
		p.showDropdown = len(p.tickerInput.Value()) > 0

	case FieldTrigger:
		p.triggerInput, cmd = p.triggerInput.Update(msg)

	case FieldQuantity:
		p.quantityInput, cmd = p.quantityInput.Update(msg)
	}

	return p, cmd
}

// View renders the panel.
func (p *OrderInputPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderField("Symbol\n", FieldSymbol, p.renderSymbolField()))
	content.WriteString("\n")

	content.WriteString(p.renderField("Action", FieldAction, p.renderActionField()))
	content.WriteString("\n")

	content.WriteString(p.renderField("Type", FieldType, p.renderTypeField()))
	content.WriteString("\n")

	if p.typeIndex == TypeConditional {
		content.WriteString(p.renderField("Trigger", FieldTrigger, p.triggerInput.View()))
		content.WriteString("\n")
	}

	content.WriteString(p.renderField("Qty", FieldQuantity, p.quantityInput.View()))
	content.WriteString("\n\n")

	submitStyle := styles.InputStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	content.WriteString(submitStyle.Render("  [Submit]  "))

	content.WriteString("\n\n")
	content.WriteString(p.renderOrderSummary())
	if p.errMsg != "" {
		content.WriteString("\n")
		content.WriteString(styles.LogErrorStyle.Render(p.errMsg))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📝 Trade Entry", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderInputPanel) renderField(label string, field OrderInputField, inputView string) string {
	labelStyle := styles.LabelStyle
	if p.currentField == field && p.focused {
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	labelStr := labelStyle.Render(fmt.Sprintf("%-8s", label))
	return labelStr + inputView
}

func (p *OrderInputPanel) renderSymbolField() string {
	var result strings.Builder

	inputStyle := styles.InputStyle
	if p.currentField == FieldSymbol && p.focused {
		inputStyle = styles.FocusedInputStyle
		p.tickerInput.Focus()
	} else {
		p.tickerInput.Blur()
	}

	result.WriteString(inputStyle.Render(p.tickerInput.View()))

	if p.showDropdown && len(p.dropdownFiltered) > 0 {
		maxShow := min(len(p.dropdownFiltered), 5)
		rows := make([]string, 0, maxShow)
		for i := 0; i < maxShow; i++ {
			item := p.dropdownFiltered[i]
			style := styles.DropdownItemStyle
			if i == p.dropdownIndex {
				style = styles.DropdownSelectedStyle
			}
			rows = append(rows, style.Render(p.highlightMatch(item, p.tickerInput.Value())))
		}

		result.WriteString("\n")
		result.WriteString(styles.DropdownStyle.MarginLeft(9).Render(strings.Join(rows, "\n")))
	}

	return result.String()
}

func (p *OrderInputPanel) renderActionField() string {
	var items []string
	for i, a := range entryActions {
		style := styles.DropdownItemStyle
		if i == p.actionIndex {
			if p.currentField == FieldAction && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
			if a.IsBuy() {
				style = style.Foreground(styles.BuyColor)
			} else {
				style = style.Foreground(styles.SellColor)
			}
		}
		items = append(items, style.Render(a.String()))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderTypeField() string {
	var items []string
	for i, opt := range p.typeOptions {
		style := styles.DropdownItemStyle
		if i == p.typeIndex {
			if p.currentField == FieldType && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
		}
		items = append(items, style.Render(opt))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderOrderSummary() string {
	var parts []string

	sym := p.tickerInput.Value()
	if p.selectedSymbol != "" {
		sym = string(p.selectedSymbol)
	}
	if sym == "" {
		sym = "---"
	}
	parts = append(parts, sym)

	action := entryActions[p.actionIndex]
	actionStyle := styles.SellStyle
	if action.IsBuy() {
		actionStyle = styles.BuyStyle
	}
	parts = append(parts, actionStyle.Render(action.String()))

	parts = append(parts, p.typeOptions[p.typeIndex])

	if p.typeIndex == TypeConditional {
		trigger := p.triggerInput.Value()
		if trigger == "" {
			trigger = "0"
		}
		parts = append(parts, "@"+trigger)
	}

	qty := p.quantityInput.Value()
	if qty == "" {
		qty = "0"
	}
	parts = append(parts, "x"+qty)

	return styles.HeaderStyle.Render("Trade: ") + strings.Join(parts, " ")
}

func (p *OrderInputPanel) filterDropdown(query string) {
	query = strings.ToUpper(query)
	p.dropdownFiltered = nil
	p.dropdownIndex = 0

	for _, item := range p.dropdownItems {
		if strings.Contains(strings.ToUpper(item), query) {
			p.dropdownFiltered = append(p.dropdownFiltered, item)
		}
	}
}

func (p *OrderInputPanel) highlightMatch(item, query string) string {
	if query == "" {
		return item
	}

	idx := strings.Index(strings.ToUpper(item), strings.ToUpper(query))
	if idx == -1 {
		return item
	}

	before := item[:idx]
	match := item[idx : idx+len(query)]
	after := item[idx+len(query):]

	return before + styles.DropdownMatchStyle.Render(match) + after
}

func (p *OrderInputPanel) selectDropdownItem() {
	if p.dropdownIndex < len(p.dropdownFiltered) {
		selected := p.dropdownFiltered[p.dropdownIndex]
		p.tickerInput.SetValue(selected)
		p.selectedSymbol = market.Symbol(selected)
		return
	}
	typed := market.Symbol(strings.ToUpper(strings.TrimSpace(p.tickerInput.Value())))
	for _, s := range p.symbols {
		if s == typed {
			p.selectedSymbol = s
			return
		}
	}
}

func (p *OrderInputPanel) nextField() {
	p.showDropdown = false
	switch p.currentField {
	case FieldSymbol:
		p.selectDropdownItem()
		p.currentField = FieldAction
		p.tickerInput.Blur()
	case FieldAction:
		p.currentField = FieldType
	case FieldType:
		if p.typeIndex == TypeConditional {
			p.currentField = FieldTrigger
			p.triggerInput.Focus()
		} else {
			p.currentField = FieldQuantity
			p.quantityInput.Focus()
		}
	case FieldTrigger:
		p.currentField = FieldQuantity
		p.triggerInput.Blur()
		p.quantityInput.Focus()
	case FieldQuantity:
		p.currentField = FieldSubmit
		p.quantityInput.Blur()
	case FieldSubmit:
		p.currentField = FieldSymbol
		p.tickerInput.Focus()
	}
}

func (p *OrderInputPanel) prevField() {
	p.showDropdown = false
	switch p.currentField {
	case FieldSymbol:
		p.currentField = FieldSubmit
		p.tickerInput.Blur()
	case FieldAction:
		p.currentField = FieldSymbol
		p.tickerInput.Focus()
	case FieldType:
		p.currentField = FieldAction
	case FieldTrigger:
		p.currentField = FieldType
		p.triggerInput.Blur()
	case FieldQuantity:
		if p.typeIndex == TypeConditional {
			p.currentField = FieldTrigger
			p.triggerInput.Focus()
		} else {
			p.currentField = FieldType
		}
		p.quantityInput.Blur()
	case FieldSubmit:
		p.currentField = FieldQuantity
		p.quantityInput.Focus()
	}
}

// Validate checks the form and builds the submit message.
func (p *OrderInputPanel) Validate() (TradeSubmitMsg, error) {
	if p.selectedSymbol == "" {
		return TradeSubmitMsg{}, errors.New("pick a symbol")
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(p.quantityInput.Value()), 10, 64)
	if err != nil || qty <= 0 {
		return TradeSubmitMsg{}, errors.New("quantity must be a positive integer")
	}

	out := TradeSubmitMsg{
		Symbol:   p.selectedSymbol,
		Action:   entryActions[p.actionIndex],
		Quantity: qty,
	}
	if p.typeIndex == TypeConditional {
		trigger, err := strconv.ParseFloat(strings.TrimSpace(p.triggerInput.Value()), 64)
		if err != nil || trigger <= 0 {
			return TradeSubmitMsg{}, errors.New("trigger must be a positive price")
		}
		out.Conditional = true
		out.TriggerPrice = trigger
	}
	return out, nil
}

func (p *OrderInputPanel) submitOrder() tea.Cmd {
	msg, err := p.Validate()
	if err != nil {
		p.errMsg = err.Error()
		return nil
	}
	p.errMsg = ""
	return func() tea.Msg {
		return msg
	}
}

// SetFocus sets the focus state of the panel.
func (p *OrderInputPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		switch p.currentField {
		case FieldSymbol:
			p.tickerInput.Focus()
		case FieldTrigger:
			p.triggerInput.Focus()
		case FieldQuantity:
			p.quantityInput.Focus()
		}
	} else {
		p.tickerInput.Blur()
		p.triggerInput.Blur()
		p.quantityInput.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *OrderInputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSymbol pre-fills the symbol field.
func (p *OrderInputPanel) SetSymbol(sym market.Symbol) {
	p.tickerInput.SetValue(string(sym))
	p.selectedSymbol = sym
}

// Reset clears the input fields.
func (p *OrderInputPanel) Reset() {
	p.tickerInput.SetValue("")
	p.triggerInput.SetValue("")
	p.quantityInput.SetValue("")
	p.selectedSymbol = ""
	p.errMsg = ""
	p.currentField = FieldSymbol
	p.actionIndex = 0
	p.typeIndex = TypeMarket
	p.showDropdown = false
}

// TradeSubmitMsg is sent when the trade entry form is submitted.
type TradeSubmitMsg struct {
	Symbol       market.Symbol
	Action       orders.Action
	Quantity     int64
	Conditional  bool
	TriggerPrice float64
}
