// Package cmd holds the stonks9800 command line.
package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zappabad/stonks9800/internal/game"
)

var RootCmd = &cobra.Command{
	Use:   "stonks9800",
	Short: "stonks9800 trading terminal",
	Long:  "a simulated stock and bond market played from the terminal",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,
}

// flagKeys maps persistent flags to their game.Config keys.
var flagKeys = map[string]string{
	"seed":           "seed",
	"initial-cash":   "initial_cash",
	"base-tick":      "base_tick",
	"session-driver": "session.driver",
	"session-path":   "session.path",
	"redis-host":     "session.redis.host",
	"redis-port":     "session.redis.port",
	"redis-password": "session.redis.password",
	"redis-db":       "session.redis.db",
}

func init() {
	def := game.DefaultConfig()

	// the bare command starts the terminal
	RootCmd.RunE = runTerminal

	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "", "config file")
	RootCmd.PersistentFlags().String("log-file", "stonks9800.log", "log file, used while the terminal owns the screen")
	RootCmd.PersistentFlags().String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9800")

	RootCmd.PersistentFlags().Int64("seed", def.Seed, "simulation seed, 0 seeds from the clock")
	RootCmd.PersistentFlags().Float64("initial-cash", def.InitialCash, "player starting cash")
	RootCmd.PersistentFlags().Duration("base-tick", def.BaseTick, "wall-clock length of one simulated second")

	RootCmd.PersistentFlags().String("session-driver", string(def.Session.Driver), "session store: json, redis or memory")
	RootCmd.PersistentFlags().String("session-path", def.Session.Path, "json session file")
	RootCmd.PersistentFlags().String("redis-host", def.Session.Redis.Host, "redis host")
	RootCmd.PersistentFlags().String("redis-port", def.Session.Redis.Port, "redis port")
	RootCmd.PersistentFlags().String("redis-password", "", "redis password")
	RootCmd.PersistentFlags().Int("redis-db", 0, "redis db")
}

// Execute runs the root command.
func Execute() {
	viper.SetEnvPrefix("STONKS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}
	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, RootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.WithError(err).Errorf("failed to bind flag %s", flag)
		}
	}

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}

// loadConfig merges the optional config file, STONKS_* env vars and flags
// over the defaults.
func loadConfig() (game.Config, error) {
	cfg := game.DefaultConfig()

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// setupLogging points logrus at w, or at the --log-file when w is nil. The
// returned closer releases the file.
func setupLogging(w io.Writer) (io.Closer, error) {
	logger := log.StandardLogger()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if viper.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}

	if w != nil {
		logger.SetOutput(w)
		return nopCloser{}, nil
	}

	path := viper.GetString("log-file")
	if path == "" {
		logger.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	logger.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
