package game

import (
	"time"

	"github.com/zappabad/stonks9800/internal/market/view"
	"github.com/zappabad/stonks9800/internal/session"
)

// Config holds configuration for the game.
type Config struct {
	// Seed for the simulation RNG. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
	// InitialCash is the player's starting balance.
	InitialCash float64 `mapstructure:"initial_cash"`
	// BaseTick is the wall-clock length of one simulated second.
	BaseTick time.Duration `mapstructure:"base_tick"`

	// Phase periods in simulated seconds.
	PriceEvery    int64 `mapstructure:"price_every"`
	EventEvery    int64 `mapstructure:"event_every"`
	SaveEvery     int64 `mapstructure:"save_every"`
	DividendEvery int64 `mapstructure:"dividend_every"`

	// Ring buffer sizes.
	NewsSize         int `mapstructure:"news_size"`
	LogSize          int `mapstructure:"log_size"`
	ValueHistorySize int `mapstructure:"value_history_size"`
	PriceHistorySize int `mapstructure:"price_history_size"`

	// CommandBuffer is the size of the inbound command channel.
	CommandBuffer int `mapstructure:"command_buffer"`

	Session session.Config `mapstructure:"session"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		InitialCash:      100_000,
		BaseTick:         time.Second,
		PriceEvery:       2,
		EventEvery:       15,
		SaveEvery:        5,
		DividendEvery:    90,
		NewsSize:         21,
		LogSize:          21,
		ValueHistorySize: 30,
		PriceHistorySize: view.HistorySize,
		CommandBuffer:    64,
		Session:          session.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InitialCash <= 0 {
		c.InitialCash = def.InitialCash
	}
	if c.BaseTick <= 0 {
		c.BaseTick = def.BaseTick
	}
	if c.PriceEvery <= 0 {
		c.PriceEvery = def.PriceEvery
	}
	if c.EventEvery <= 0 {
		c.EventEvery = def.EventEvery
	}
	if c.SaveEvery <= 0 {
		c.SaveEvery = def.SaveEvery
	}
	if c.DividendEvery <= 0 {
		c.DividendEvery = def.DividendEvery
	}
	if c.NewsSize <= 0 {
		c.NewsSize = def.NewsSize
	}
	if c.LogSize <= 0 {
		c.LogSize = def.LogSize
	}
	if c.ValueHistorySize <= 0 {
		c.ValueHistorySize = def.ValueHistorySize
	}
	if c.PriceHistorySize <= 0 {
		c.PriceHistorySize = def.PriceHistorySize
	}
	if c.CommandBuffer <= 0 {
		c.CommandBuffer = def.CommandBuffer
	}
	return c
}
