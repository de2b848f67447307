package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures RedisSink.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
	Channel string `yaml:"channel"`
}

// RedisSink publishes events via Redis Pub/Sub.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink returns a RedisSink based on config, or nil when disabled.
func NewRedisSink(c RedisConfig) (*RedisSink, error) {
	if !c.Enabled || c.DSN == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(c.DSN)
	if err != nil {
		return nil, err
	}
	channel := c.Channel
	if channel == "" {
		channel = "crud-events"
	}
	return &RedisSink{client: redis.NewClient(opt), channel: channel}, nil
}

// Emit publishes the event to the configured channel.
func (s *RedisSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.client == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, data).Err()
}
