package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zappabad/stonks9800/internal/game"
	"github.com/zappabad/stonks9800/tui/styles"
)

func init() {
	HeadlessCmd.Flags().Int64("steps", 0, "run this many simulated seconds as fast as possible, then exit. 0 runs in real time until interrupted")
	RootCmd.AddCommand(HeadlessCmd)
}

var HeadlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "run the simulation without the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := cmd.Flags().GetInt64("steps")
		if err != nil {
			return err
		}

		if _, err := setupLogging(os.Stderr); err != nil {
			return err
		}

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

		eg.Go(func() error {
			defer cancel()
			if steps <= 0 {
				<-ctx.Done()
				return nil
			}
			// the scheduler is driven by hand
			g.Pause()
			for i := int64(0); i < steps; i++ {
				if err := g.Step(ctx); err != nil {
					return err
				}
			}
			return nil
		})

		if err := eg.Wait(); err != nil {
			return err
		}
		report(g.View())
		return nil
	},
}

func report(v game.View) {
	logger := log.WithField("component", "cmd")
	for _, e := range v.Log {
		logger.Infof("[%s] %s", styles.FormatClock(e.Time), e.Text)
	}
	logger.WithFields(log.Fields{
		"clock": styles.FormatClock(v.Clock),
		"cash":  styles.FormatMoney(v.Valuation.Cash.InexactFloat64()),
		"total": styles.FormatMoney(v.Valuation.Total().InexactFloat64()),
	}).Info("session summary")
}
