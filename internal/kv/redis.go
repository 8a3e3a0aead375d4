package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"log-power-tracker/internal/config"
)

const redisChangeChannel = "kv:changes"

// Redis stores the key-value namespace in Redis and propagates writes
// over pub/sub.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis using runtime settings.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("storage.redis.addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, prefix: "kv:"}, nil
}

func (s *Redis) getClient() (*redis.Client, error) {
	if s == nil || s.client == nil {
		return nil, ErrNotConfigured
	}
	return s.client, nil
}

// Get reads the value stored under key.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, false, err
	}

	value, getErr := client.Get(ctx, s.prefix+key).Bytes()
	if getErr != nil {
		if errors.Is(getErr, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", getErr)
	}
	return value, true, nil
}

// Set stores the value and publishes the key on the change channel.
func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}
	if setErr := client.Set(ctx, s.prefix+key, value, 0).Err(); setErr != nil {
		return fmt.Errorf("redis set: %w", setErr)
	}
	if pubErr := client.Publish(ctx, redisChangeChannel, key).Err(); pubErr != nil {
		return fmt.Errorf("redis publish: %w", pubErr)
	}
	return nil
}

// Delete removes the key.
func (s *Redis) Delete(ctx context.Context, key string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}
	if delErr := client.Del(ctx, s.prefix+key).Err(); delErr != nil {
		return fmt.Errorf("redis del: %w", delErr)
	}
	return nil
}

// Watch subscribes to the change channel and forwards key names until
// ctx is cancelled.
func (s *Redis) Watch(ctx context.Context) (<-chan string, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	sub := client.Subscribe(ctx, redisChangeChannel)
	if _, recvErr := sub.Receive(ctx); recvErr != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", redisChangeChannel, recvErr)
	}

	ch := make(chan string, 16)
	go func() {
		defer close(ch)
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case ch <- msg.Payload:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Close shuts down the Redis client.
func (s *Redis) Close() {
	if s == nil || s.client == nil {
		return
	}
	_ = s.client.Close()
}
