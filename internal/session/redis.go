package session

import (
	"context"
	"encoding/json"
	"net"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var redisLogger = log.WithFields(log.Fields{
	"component":   "session",
	"persistence": "redis",
})

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Namespace string `mapstructure:"namespace"`
}

// RedisStore keeps the snapshot under a single key.
type RedisStore struct {
	redis *redis.Client
	Key   string
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	key := "stonks9800:session"
	if cfg.Namespace != "" {
		key = cfg.Namespace + ":" + key
	}
	return &RedisStore{redis: client, Key: key}
}

func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.redis.Get(ctx, s.Key).Bytes()
	if err == redis.Nil {
		return Snapshot{}, ErrNotExists
	}
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "redis get %s", s.Key)
	}

	redisLogger.Debugf("get key %q, %d bytes", s.Key, len(data))

	if len(data) == 0 || string(data) == "null" {
		return Snapshot{}, ErrNotExists
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrapf(err, "decode snapshot %s", s.Key)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	if err := s.redis.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", s.Key)
	}

	redisLogger.Debugf("set key %q, %d bytes", s.Key, len(data))
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return errors.Wrapf(s.redis.Del(ctx, s.Key).Err(), "redis del %s", s.Key)
}

func (s *RedisStore) Close() error {
	return s.redis.Close()
}
