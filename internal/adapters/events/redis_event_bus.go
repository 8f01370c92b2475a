package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/appointly/appointly-api/internal/domain/entities"
	"github.com/appointly/appointly-api/internal/domain/providers"
	redisclient "github.com/appointly/appointly-api/internal/infrastructure/clients/redis"
)

// channelPrefix namespaces booking channels in a shared Redis.
const channelPrefix = "appointly:events:"

// RedisEventBus implements the EventBus interface using Redis Pub/Sub.
// Events are routed by type; each event type is one Redis channel.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event on the channel named after its type.
func (b *RedisEventBus) Publish(ctx context.Context, event *entities.BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := channelPrefix + event.Type
	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe registers a handler for one event type. The handler runs on a
// background goroutine until the bus is closed; handler errors are logged
// and the subscription continues.
func (b *RedisEventBus) Subscribe(ctx context.Context, eventType string, handler func(ctx context.Context, event *entities.BookingEvent) error) error {
	channel := channelPrefix + eventType

	b.mu.Lock()
	pubsub, exists := b.subscriptions[channel]
	if !exists {
		pubsub = b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
	}
	b.mu.Unlock()

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-b.ctx.Done():
				return
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event entities.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Failed to unmarshal event from channel %s: %v", channel, err)
					continue
				}
				if err := handler(b.ctx, &event); err != nil {
					log.Printf("Handler for %s failed on event %s: %v", eventType, event.ID, err)
				}
			}
		}
	}()

	return nil
}

// Close shuts down all subscriptions.
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			log.Printf("Failed to close subscription %s: %v", channel, err)
		}
		delete(b.subscriptions, channel)
	}
	return nil
}
