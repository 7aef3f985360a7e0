package eventbus

import (
	"ReferralHub/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InMemoryEventBus delivers events to subscribers in their own goroutines.
// Handlers get a context detached from the publisher's, bounded by
// handlerTimeout.
type InMemoryEventBus struct {
	log            zerolog.Logger
	subscribers    map[string][]ports.EventHandler
	mu             sync.RWMutex
	inflight       sync.WaitGroup
	handlerTimeout time.Duration
}

var _ ports.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(handlerTimeout time.Duration, baseLogger *zerolog.Logger) *InMemoryEventBus {
	if handlerTimeout <= 0 {
		handlerTimeout = 30 * time.Second
	}
	return &InMemoryEventBus{
		log:            baseLogger.With().Str("component", "in_memory_bus").Logger(),
		subscribers:    make(map[string][]ports.EventHandler),
		handlerTimeout: handlerTimeout,
	}
}

// Publish sends an event to all subscribers of a topic
func (b *InMemoryEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	b.mu.RLock()
	handlers := b.subscribers[topic]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}
	for _, handler := range handlers {
		b.inflight.Add(1)
		go b.dispatch(handler, event)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

func (b *InMemoryEventBus) dispatch(h ports.EventHandler, event ports.Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("topic", event.Topic).Str("panic", fmt.Sprint(r)).Msg("Event handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), b.handlerTimeout)
	defer cancel()

	if err := h(ctx, event); err != nil {
		b.log.Error().Err(err).Str("topic", event.Topic).Msg("Event handler failed")
	}
}

// Subscribe registers a handler for a specific topic
func (b *InMemoryEventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Debug().Str("topic", topic).Msg("New handler subscribed to topic")
}

// Wait blocks until in-flight handlers finish or ctx is done.
func (b *InMemoryEventBus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
