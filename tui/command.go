package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zappabad/stonks9800/internal/market"
	"github.com/zappabad/stonks9800/internal/orders"
	"github.com/zappabad/stonks9800/internal/portfolio"
)

// ErrUnknownCommand is returned for a verb the command line does not know.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind names what a parsed command line does.
type CommandKind int

const (
	CmdTrade CommandKind = iota
	CmdBondBuy
	CmdBondSell
	CmdOrder
	CmdCancel
	CmdGlow
	CmdReset
	CmdStep
	CmdHelp
)

const helpText = "buy|sell|short|cover SYM QTY · bond buy|sell ID QTY · order ACTION SYM QTY TRIGGER · cancel ID · glow · step · reset · help"

// Command is one parsed command line.
type Command struct {
	Kind     CommandKind
	Action   orders.Action
	Symbol   market.Symbol
	BondID   string
	Quantity int64
	Trigger  float64
	Ref      string
}

// Commander is the part of the game the command line drives.
type Commander interface {
	Trade(ctx context.Context, action orders.Action, sym market.Symbol, qty int64) error
	BuyBond(ctx context.Context, bondID string, qty int64) (portfolio.Lot, error)
	SellBond(ctx context.Context, bondID string, qty int64) error
	PlaceOrder(ctx context.Context, action orders.Action, sym market.Symbol, qty int64, trigger float64) (orders.Order, error)
	CancelOrder(ctx context.Context, ref string) (orders.Order, error)
	ToggleGlow(ctx context.Context) (bool, error)
	Step(ctx context.Context) error
	Reset(ctx context.Context) error
}

var tradeVerbs = map[string]orders.Action{
	"buy":   orders.ActionBuyLong,
	"sell":  orders.ActionSellLong,
	"short": orders.ActionSellShort,
	"cover": orders.ActionBuyCover,
}

// ParseCommand parses one command line. Verbs are case-insensitive and
// symbols are upper-cased.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.New("empty command")
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	if action, ok := tradeVerbs[verb]; ok {
		if len(args) != 2 {
			return Command{}, errors.Errorf("usage: %s SYM QTY", verb)
		}
		qty, err := parseQuantity(args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdTrade, Action: action, Symbol: parseSymbol(args[0]), Quantity: qty}, nil
	}

	switch verb {
	case "bond":
		if len(args) != 3 {
			return Command{}, errors.New("usage: bond buy|sell ID QTY")
		}
		qty, err := parseQuantity(args[2])
		if err != nil {
			return Command{}, err
		}
		c := Command{BondID: strings.ToUpper(args[1]), Quantity: qty}
		switch strings.ToLower(args[0]) {
		case "buy":
			c.Kind = CmdBondBuy
		case "sell":
			c.Kind = CmdBondSell
		default:
			return Command{}, errors.Errorf("bond: unknown side %q", args[0])
		}
		return c, nil

	case "order":
		if len(args) != 4 {
			return Command{}, errors.New("usage: order ACTION SYM QTY TRIGGER")
		}
		action, ok := tradeVerbs[strings.ToLower(args[0])]
		if !ok {
			var err error
			if action, err = orders.ParseAction(args[0]); err != nil {
				return Command{}, err
			}
		}
		qty, err := parseQuantity(args[2])
		if err != nil {
			return Command{}, err
		}
		trigger, err := strconv.ParseFloat(args[3], 64)
		if err != nil || trigger <= 0 {
			return Command{}, errors.Errorf("invalid trigger price %q", args[3])
		}
		return Command{Kind: CmdOrder, Action: action, Symbol: parseSymbol(args[1]), Quantity: qty, Trigger: trigger}, nil

	case "cancel":
		if len(args) != 1 {
			return Command{}, errors.New("usage: cancel ID")
		}
		return Command{Kind: CmdCancel, Ref: args[0]}, nil

	case "glow":
		return Command{Kind: CmdGlow}, nil
	case "reset":
		return Command{Kind: CmdReset}, nil
	case "step":
		return Command{Kind: CmdStep}, nil
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	}

	return Command{}, errors.Wrap(ErrUnknownCommand, verb)
}

func parseSymbol(s string) market.Symbol {
	return market.Symbol(strings.ToUpper(s))
}

func parseQuantity(s string) (int64, error) {
	qty, err := strconv.ParseInt(s, 10, 64)
	if err != nil || qty <= 0 {
		return 0, errors.Errorf("invalid quantity %q", s)
	}
	return qty, nil
}

// Run executes the command against g. Outcomes are reported through the
// game's system log; the returned error only tells the caller it failed.
func (c Command) Run(ctx context.Context, g Commander) error {
	switch c.Kind {
	case CmdTrade:
		return g.Trade(ctx, c.Action, c.Symbol, c.Quantity)
	case CmdBondBuy:
		_, err := g.BuyBond(ctx, c.BondID, c.Quantity)
		return err
	case CmdBondSell:
		return g.SellBond(ctx, c.BondID, c.Quantity)
	case CmdOrder:
		_, err := g.PlaceOrder(ctx, c.Action, c.Symbol, c.Quantity, c.Trigger)
		return err
	case CmdCancel:
		_, err := g.CancelOrder(ctx, c.Ref)
		return err
	case CmdGlow:
		_, err := g.ToggleGlow(ctx)
		return err
	case CmdReset:
		return g.Reset(ctx)
	case CmdStep:
		return g.Step(ctx)
	case CmdHelp:
		return nil
	default:
		return ErrUnknownCommand
	}
}
