package event

import (
	"errors"
	"sync"
	"testing"

	"github.com/Iron-Ham/spikeview/internal/probe"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("test.event", func(e Event) {
		called = true
	})

	if id == "" {
		t.Error("Subscribe should return a non-empty ID")
	}
	if called {
		t.Error("Handler should not be called until an event is published")
	}
}

func TestBus_Publish(t *testing.T) {
	bus := NewBus()

	var received Event
	bus.Subscribe("probe.attached", func(e Event) {
		received = e
	})

	bus.Publish(NewProbeAttachedEvent("hidden1[3]", probe.Probe{NodeID: "hidden1", Index: 3}))

	if received == nil {
		t.Fatal("Handler should have received the event")
	}
	attached, ok := received.(ProbeAttachedEvent)
	if !ok {
		t.Fatalf("received %T, want ProbeAttachedEvent", received)
	}
	if attached.ID != "hidden1[3]" {
		t.Errorf("ID = %q, want %q", attached.ID, "hidden1[3]")
	}
	if attached.Timestamp().IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewBus()

	callCount := 0
	bus.Subscribe("traces.cleared", func(e Event) { callCount++ })
	bus.Subscribe("traces.cleared", func(e Event) { callCount++ })

	bus.Publish(NewTracesClearedEvent())

	if callCount != 2 {
		t.Errorf("callCount = %d, want 2", callCount)
	}
}

func TestBus_WildcardSubscription(t *testing.T) {
	bus := NewBus()

	var types []string
	bus.SubscribeAll(func(e Event) {
		types = append(types, e.EventType())
	})

	bus.Publish(NewSnapshotPublishedEvent(10))
	bus.Publish(NewShutdownObservedEvent(11))

	if len(types) != 2 || types[0] != "snapshot.published" || types[1] != "run.shutdown" {
		t.Errorf("types = %v", types)
	}
}

func TestBus_NoHandlerForType(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe("probe.detached", func(e Event) { called = true })

	bus.Publish(NewRunCompletedEvent(100))

	if called {
		t.Error("handler for a different type should not be called")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	called := false
	id := bus.Subscribe("probe.rejected", func(e Event) { called = true })

	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe returned false for a live subscription")
	}
	if bus.Unsubscribe(id) {
		t.Error("Unsubscribe returned true for an already-removed subscription")
	}

	bus.Publish(NewProbeRejectedEvent(probe.Probe{NodeID: "ghost"}, errors.New("no such node")))
	if called {
		t.Error("handler called after unsubscribe")
	}
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe("run.completed", func(e Event) { panic("boom") })
	bus.Subscribe("run.completed", func(e Event) { called = true })

	bus.Publish(NewRunCompletedEvent(1))

	if !called {
		t.Error("second handler not called after first panicked")
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe("snapshot.published", func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(iter uint64) {
			defer wg.Done()
			bus.Publish(NewSnapshotPublishedEvent(iter))
		}(uint64(i))
	}
	wg.Wait()

	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}
