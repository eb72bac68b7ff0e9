package runtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blackroad/roadplugin/plugin"
)

func TestBus_PublishAndSubscribe(t *testing.T) {
	bus := NewBus(1024, nil)
	defer bus.Close()

	var called atomic.Int32
	bus.Subscribe(TopicLoaded, func(ctx context.Context, e Event) error {
		called.Add(1)
		if e.Plugin != "hello" {
			t.Errorf("event plugin = %q", e.Plugin)
		}
		if e.Time.IsZero() {
			t.Error("event timestamp not filled")
		}
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Name:   TopicLoaded,
		Plugin: "hello",
		State:  plugin.StateLoaded,
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := called.Load(); got != 1 {
		t.Fatalf("expected handler called 1 time, got %d", got)
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus(1024, nil)
	defer bus.Close()

	var count atomic.Int32
	bus.Subscribe(TopicEnabled, func(ctx context.Context, e Event) error {
		count.Add(1)
		return nil
	})
	bus.Subscribe(TopicEnabled, func(ctx context.Context, e Event) error {
		count.Add(1)
		return nil
	})

	bus.Publish(context.Background(), Event{Name: TopicEnabled})
	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 2 {
		t.Fatalf("expected 2 handler calls, got %d", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(1024, nil)
	defer bus.Close()

	var count atomic.Int32
	sub := bus.Subscribe(TopicUnloaded, func(ctx context.Context, e Event) error {
		count.Add(1)
		return nil
	})

	bus.Publish(context.Background(), Event{Name: TopicUnloaded})
	time.Sleep(100 * time.Millisecond)

	sub.Unsubscribe()

	bus.Publish(context.Background(), Event{Name: TopicUnloaded})
	time.Sleep(100 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Fatalf("expected 1 call (unsubscribed before second), got %d", got)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(1024, nil)
	bus.Close()

	if err := bus.Publish(context.Background(), Event{Name: TopicLoaded}); err != ErrBusClosed {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBus_CloseWaitsForInFlight(t *testing.T) {
	bus := NewBus(1024, nil)

	done := make(chan struct{})
	bus.Subscribe("slow", func(ctx context.Context, e Event) error {
		time.Sleep(200 * time.Millisecond)
		close(done)
		return nil
	})

	bus.Publish(context.Background(), Event{Name: "slow"})
	time.Sleep(50 * time.Millisecond) // let dispatcher pick it up

	bus.Close() // should block until handler finishes

	select {
	case <-done:
	default:
		t.Fatal("Close returned before in-flight handler completed")
	}
}

func TestBus_CloseDrainsQueuedEvents(t *testing.T) {
	bus := NewBus(256, nil)

	var delivered atomic.Int32
	bus.Subscribe(TopicLoaded, func(ctx context.Context, e Event) error {
		delivered.Add(1)
		return nil
	})

	const n = 100
	for i := 0; i < n; i++ {
		if err := bus.Publish(context.Background(), Event{Name: TopicLoaded}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}

	// Close must not return until everything queued has been delivered.
	bus.Close()
	if got := delivered.Load(); got != n {
		t.Fatalf("delivered %d of %d queued events after Close", got, n)
	}
}

func TestBus_SubscribeAllSeesEveryTopic(t *testing.T) {
	bus := NewBus(64, nil)

	var count atomic.Int32
	subs := bus.SubscribeAll(func(ctx context.Context, e Event) error {
		count.Add(1)
		return nil
	})
	if len(subs) != len(Topics()) {
		t.Fatalf("got %d subscriptions, want %d", len(subs), len(Topics()))
	}

	for _, topic := range Topics() {
		bus.Publish(context.Background(), Event{Name: topic})
	}
	bus.Close()

	if got := count.Load(); got != int32(len(Topics())) {
		t.Fatalf("handler saw %d events, want %d", got, len(Topics()))
	}
}

func TestBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus(1, nil)
	defer bus.Close()

	release := make(chan struct{})
	bus.Subscribe("jam", func(ctx context.Context, e Event) error {
		<-release
		return nil
	})

	// First event occupies the dispatcher, second fills the buffer.
	bus.Publish(context.Background(), Event{Name: "jam"})
	time.Sleep(50 * time.Millisecond)
	bus.Publish(context.Background(), Event{Name: "jam"})

	start := time.Now()
	err := bus.Publish(context.Background(), Event{Name: "jam"})
	if err != ErrBusFull {
		t.Fatalf("expected ErrBusFull, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("Publish blocked for %v on a full buffer", elapsed)
	}
	if got := bus.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}

	close(release)
}

func TestBus_NoMatchingSubscriber(t *testing.T) {
	bus := NewBus(1024, nil)
	defer bus.Close()

	if err := bus.Publish(context.Background(), Event{Name: "no.listeners"}); err != nil {
		t.Fatalf("Publish with no subscribers should not error: %v", err)
	}
}

func TestManager_PublishesLifecycleEvents(t *testing.T) {
	bus := NewBus(64, nil)
	defer bus.Close()

	var seen []string
	collected := make(chan string, 16)
	for _, topic := range []string{TopicLoaded, TopicEnabled, TopicDisabled, TopicUnloaded, TopicLoadFailed} {
		topic := topic
		bus.Subscribe(topic, func(ctx context.Context, e Event) error {
			collected <- topic
			return nil
		})
	}

	p := newFakePlugin("observed")
	src := newFakeSource(p)
	m := NewManager(WithSource(src), WithEvents(bus))

	ctx := context.Background()
	mustLoad(t, m, "observed")
	m.Enable(ctx, "observed")
	m.Disable(ctx, "observed")
	m.Unload(ctx, "observed")
	m.Load(ctx, "ghost")

	deadline := time.After(2 * time.Second)
	for len(seen) < 5 {
		select {
		case topic := <-collected:
			seen = append(seen, topic)
		case <-deadline:
			t.Fatalf("timed out, events delivered so far: %v", seen)
		}
	}

	counts := make(map[string]int)
	for _, topic := range seen {
		counts[topic]++
	}
	for _, topic := range []string{TopicLoaded, TopicEnabled, TopicDisabled, TopicUnloaded, TopicLoadFailed} {
		if counts[topic] != 1 {
			t.Errorf("topic %s delivered %d times, want 1", topic, counts[topic])
		}
	}
}
