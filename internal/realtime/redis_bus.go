package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"wallboard/config"

	"go.uber.org/zap"
)

// Event : wire format on the Redis channel
type Event struct {
	Topics []string `json:"topics"`
}

// RedisBus : publishes changes through Redis pub/sub so every instance's hub hears them
type RedisBus struct {
	client  *config.RedisClient
	channel string
	hub     *Hub
	log     *zap.Logger
}

func NewRedisBus(client *config.RedisClient, channel string, hub *Hub) *RedisBus {
	return &RedisBus{
		client:  client,
		channel: channel,
		hub:     hub,
		log:     zap.L().With(zap.String("component", "RedisBus")),
	}
}

func (b *RedisBus) Subscribe(topic string) *Subscription {
	return b.hub.Subscribe(topic)
}

// Publish : falls back to local delivery when Redis is unreachable
func (b *RedisBus) Publish(ctx context.Context, topics ...string) {
	if len(topics) == 0 {
		return
	}
	raw, err := json.Marshal(Event{Topics: topics})
	if err == nil {
		err = b.client.Client.Publish(ctx, b.channel, raw).Err()
	}
	if err != nil {
		b.log.Warn("redis publish failed, delivering locally", zap.Strings("topics", topics), zap.Error(err))
		b.hub.Publish(ctx, topics...)
	}
}

// StartForwarder : relays events from Redis into the local hub until ctx is done
func (b *RedisBus) StartForwarder(ctx context.Context) error {
	sub := b.client.Client.Subscribe(ctx, b.channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					b.log.Warn("bad change payload", zap.Error(err))
					continue
				}
				for _, topic := range event.Topics {
					b.hub.Notify(topic)
				}
			}
		}
	}()

	return nil
}
