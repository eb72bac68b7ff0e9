package runtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackroad/roadplugin/plugin"
)

// Lifecycle event topics.
const (
	TopicLoaded     = "plugin.loaded"
	TopicEnabled    = "plugin.enabled"
	TopicDisabled   = "plugin.disabled"
	TopicUnloaded   = "plugin.unloaded"
	TopicLoadFailed = "plugin.load_failed"
	TopicError      = "plugin.error"
)

var (
	// ErrBusClosed is returned by Publish after Close.
	ErrBusClosed = errors.New("runtime: event bus closed")
	// ErrBusFull is returned when an event is dropped because the buffer
	// is full.
	ErrBusFull = errors.New("runtime: event bus full")
)

// Event is one lifecycle notification.
type Event struct {
	Name   string         `json:"name"`
	Plugin string         `json:"plugin"`
	State  plugin.State   `json:"state"`
	Err    string         `json:"error,omitempty"`
	Time   time.Time      `json:"time"`
	Data   map[string]any `json:"data,omitempty"`
}

// EventHandler consumes one event. Errors are logged, not propagated.
type EventHandler func(ctx context.Context, event Event) error

// Bus fans lifecycle events out to subscribers without stalling the
// lifecycle path: events queue on a buffered channel and a dispatcher
// goroutine delivers them. A full buffer drops the event and counts the
// drop instead of blocking a load or unload.
type Bus struct {
	subscribers map[string][]subscriberEntry
	mu          sync.RWMutex
	ch          chan eventEnvelope
	wg          sync.WaitGroup
	closed      atomic.Bool
	dropped     atomic.Uint64
	logger      *zap.Logger
	done        chan struct{} // signals dispatcher goroutine to stop
	drained     chan struct{} // closed once the dispatcher has drained and exited
}

type eventEnvelope struct {
	ctx   context.Context
	event Event
}

type subscriberEntry struct {
	id      string
	handler EventHandler
}

// Subscription identifies one subscriber for removal.
type Subscription struct {
	bus   *Bus
	topic string
	id    string
}

// Unsubscribe removes the subscriber. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subscribers[s.topic]
	for i, entry := range subs {
		if entry.id == s.id {
			s.bus.subscribers[s.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// NewBus creates a bus with the given buffer size.
func NewBus(bufferSize int, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := &Bus{
		subscribers: make(map[string][]subscriberEntry),
		ch:          make(chan eventEnvelope, bufferSize),
		logger:      logger,
		done:        make(chan struct{}),
		drained:     make(chan struct{}),
	}

	go bus.dispatch()
	return bus
}

func (b *Bus) dispatch() {
	defer close(b.drained)
	for {
		select {
		case env, ok := <-b.ch:
			if !ok {
				return
			}
			b.fanOut(env)
		case <-b.done:
			// Drain whatever is already queued
			for {
				select {
				case env, ok := <-b.ch:
					if !ok {
						return
					}
					b.fanOut(env)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) fanOut(env eventEnvelope) {
	b.mu.RLock()
	subs := append([]subscriberEntry{}, b.subscribers[env.event.Name]...)
	b.mu.RUnlock()

	for _, entry := range subs {
		b.wg.Add(1)
		go func(h EventHandler) {
			defer b.wg.Done()
			if err := h(env.ctx, env.event); err != nil {
				b.logger.Warn("event handler error",
					zap.String("event", env.event.Name),
					zap.Error(err))
			}
		}(entry.handler)
	}
}

// Publish queues an event for delivery. It never blocks: a full buffer
// drops the event and returns ErrBusFull.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if b.closed.Load() {
		return ErrBusClosed
	}

	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	select {
	case b.ch <- eventEnvelope{ctx: ctx, event: event}:
		return nil
	default:
		b.dropped.Add(1)
		b.logger.Warn("event dropped, bus buffer full",
			zap.String("event", event.Name),
			zap.String("plugin", event.Plugin))
		return ErrBusFull
	}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic string, handler EventHandler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.subscribers[topic] = append(b.subscribers[topic], subscriberEntry{
		id:      id,
		handler: handler,
	})

	return &Subscription{bus: b, topic: topic, id: id}
}

// Topics lists every lifecycle topic the manager publishes.
func Topics() []string {
	return []string{
		TopicLoaded,
		TopicEnabled,
		TopicDisabled,
		TopicUnloaded,
		TopicLoadFailed,
		TopicError,
	}
}

// SubscribeAll registers one handler for every lifecycle topic and returns
// the subscriptions for removal.
func (b *Bus) SubscribeAll(handler EventHandler) []*Subscription {
	subs := make([]*Subscription, 0, len(Topics()))
	for _, topic := range Topics() {
		subs = append(subs, b.Subscribe(topic, handler))
	}
	return subs
}

// Dropped reports how many events were discarded on a full buffer.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close stops accepting events, drains the queue, and waits for in-flight
// handlers.
func (b *Bus) Close() error {
	if b.closed.Swap(true) {
		return nil // already closed
	}

	close(b.done) // signal dispatcher to drain and stop
	<-b.drained   // every queued event has been handed to its handlers
	b.wg.Wait()   // wait for in-flight handlers
	return nil
}
