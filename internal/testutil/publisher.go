package testutil

import (
	"context"
	"sync"
)

// RecordingPublisher remembers every published topic in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *RecordingPublisher) Publish(_ context.Context, topics ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topics...)
}

func (p *RecordingPublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
