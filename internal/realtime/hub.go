package realtime

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Subscriber : anything that can hand out topic subscriptions
type Subscriber interface {
	Subscribe(topic string) *Subscription
}

// Subscription : C receives a signal whenever the topic changed since the last receive.
// Signals coalesce, so a reader re-queries once per receive no matter how many writes happened.
type Subscription struct {
	Topic string
	C     <-chan struct{}

	ch   chan struct{}
	hub  *Hub
	once sync.Once
}

// Close : stops delivery and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Hub : in-process topic fan-out
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]map[*Subscription]struct{}
	log           *zap.Logger
}

func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]map[*Subscription]struct{}),
		log:           zap.L().With(zap.String("component", "Hub")),
	}
}

func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan struct{}, 1)
	sub := &Subscription{Topic: strings.TrimSpace(topic), C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscriptions[sub.Topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.subscriptions[sub.Topic] = subs
	}
	subs[sub] = struct{}{}

	h.log.Debug("subscribed", zap.String("topic", sub.Topic))
	return sub
}

// Notify : signals every local subscriber of topic without blocking
func (h *Hub) Notify(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscriptions[topic] {
		select {
		case sub.ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

// Publish : local delivery, used when no Redis bus is configured
func (h *Hub) Publish(_ context.Context, topics ...string) {
	for _, topic := range topics {
		h.Notify(topic)
	}
}

// Subscribers : number of live subscriptions on topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[topic])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.subscriptions[sub.Topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscriptions, sub.Topic)
		}
	}
	h.log.Debug("unsubscribed", zap.String("topic", sub.Topic))
}
