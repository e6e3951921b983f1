package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zappabad/stonks9800/internal/session"
)

func init() {
	RootCmd.AddCommand(ResetCmd)
}

var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "delete the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := session.Open(cfg.Session)
		if err != nil {
			return err
		}

		if err := store.Reset(context.Background()); err != nil {
			return err
		}
		log.WithField("component", "cmd").Infof("session cleared (%s)", cfg.Session.Driver)
		return nil
	},
}
