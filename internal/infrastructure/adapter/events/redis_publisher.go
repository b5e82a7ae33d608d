package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
)

// DefaultEventsKey is the list domain events are pushed onto
const DefaultEventsKey = "coaching-wallet:events"

var _ gateway.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher appends JSON encoded events to a Redis list
type RedisPublisher struct {
	client *redis.Client
	key    string
	logger coreport.Logger
}

// NewRedisClient parses url and falls back to treating it as a plain address.
// A failed ping is logged; the client still retries on every command.
func NewRedisClient(url, password string, logger coreport.Logger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("Failed to parse Redis url, using it as an address", map[string]any{
			"error": err.Error(),
			"url":   url,
		})
		opt = &redis.Options{Addr: url}
	}
	if password != "" {
		opt.Password = password
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", map[string]any{
			"error": err.Error(),
			"addr":  opt.Addr,
		})
	} else {
		logger.Info("Connected to Redis", map[string]any{"addr": opt.Addr})
	}

	return client
}

// NewRedisPublisher creates a publisher pushing onto key
func NewRedisPublisher(client *redis.Client, key string, logger coreport.Logger) *RedisPublisher {
	if key == "" {
		key = DefaultEventsKey
	}
	return &RedisPublisher{client: client, key: key, logger: logger}
}

// Encode renders an event the way it is stored on the list
func Encode(event gateway.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// Publish implements gateway.EventPublisher
func (p *RedisPublisher) Publish(ctx context.Context, event gateway.Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	if err := p.client.RPush(ctx, p.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to redis: %w", err)
	}

	p.logger.Debug("Event published", map[string]any{
		"type":       string(event.Type),
		"session_id": event.SessionID,
		"key":        p.key,
	})
	return nil
}

// Close releases the underlying client
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
