package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/internal/metrics"
	"github.com/zappabad/stonks9800/internal/session"
	"github.com/zappabad/stonks9800/tui"
)

func init() {
	RootCmd.AddCommand(RunCmd)
}

var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "start the trading terminal",
	RunE:  runTerminal,
}

func runTerminal(cmd *cobra.Command, args []string) error {
	closer, err := setupLogging(nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := startGame()
	if err != nil {
		return err
	}
	defer g.Close()

	eg, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveMetrics(ctx, eg)

	program := tea.NewProgram(tui.NewModel(ctx, g), tea.WithAltScreen(), tea.WithContext(ctx))
	eg.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return errors.Wrap(err, "terminal")
		}
		return nil
	})

	return eg.Wait()
}

// startGame opens the configured session store and starts the simulation.
func startGame() (*game.Game, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := session.Open(cfg.Session)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"component": "cmd",
		"seed":      cfg.Seed,
		"session":   cfg.Session.Driver,
	}).Info("starting simulation")
	return game.New(cfg, store), nil
}

func serveMetrics(ctx context.Context, eg *errgroup.Group) {
	addr := viper.GetString("metrics-addr")
	if addr == "" {
		return
	}
	eg.Go(func() error {
		return metrics.Serve(ctx, addr)
	})
}
