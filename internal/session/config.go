package session

import (
	"github.com/pkg/errors"
)

type Driver string

const (
	DriverJSON   Driver = "json"
	DriverRedis  Driver = "redis"
	DriverMemory Driver = "memory"
)

type Config struct {
	Driver Driver      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

func DefaultConfig() Config {
	return Config{
		Driver: DriverJSON,
		Path:   "stonks9800-session.json",
		Redis: RedisConfig{
			Host: "127.0.0.1",
			Port: "6379",
		},
	}
}

// Open returns the store selected by cfg.Driver.
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverJSON, "":
		if cfg.Path == "" {
			cfg.Path = DefaultConfig().Path
		}
		return NewJSONStore(cfg.Path), nil
	case DriverRedis:
		return NewRedisStore(cfg.Redis), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown session driver %q", cfg.Driver)
	}
}
