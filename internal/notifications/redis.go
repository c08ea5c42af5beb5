package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"glowup/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// RedisChannelPrefix prefixes every event channel.
const RedisChannelPrefix = "events:"

// RedisChannel returns the pub/sub channel for an event type.
func RedisChannel(eventType string) string {
	return RedisChannelPrefix + eventType
}

// RedisPublisher publishes events over Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher on an existing client. The client is
// shared with the cache and is not closed by the publisher.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish sends the event to events:<type>.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if p.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, RedisChannel(event.Type), payload).Err()
}

// Backend implements Publisher.
func (p *RedisPublisher) Backend() string { return "redis" }

// Close implements Publisher.
func (p *RedisPublisher) Close() error { return nil }

// StartSubscriber subscribes to every event channel and calls onMessage for
// each incoming event until ctx is cancelled.
func (p *RedisPublisher) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if p.rdb == nil {
		return nil
	}
	sub := p.rdb.PSubscribe(ctx, RedisChannelPrefix+"*")
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in event subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
