package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"creditsvc/models"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	done := make(chan struct{})

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		close(done)
	})

	event := BalanceChangeEvent{
		AnonID:     "anon-1",
		OldBalance: 100,
		NewBalance: 70,
		EntryType:  models.EntryTypeSpend,
		Amount:     -30,
	}
	bus.Emit(context.Background(), event)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Event{event}, received)
}

func TestBus_EmitIgnoresOtherTypes(t *testing.T) {
	bus := NewBus()

	called := make(chan struct{}, 1)
	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
		called <- struct{}{}
	})

	bus.Emit(context.Background(), BonusClaimedEvent{AnonID: "anon-1", Amount: 50})

	select {
	case <-called:
		t.Fatal("handler for a different event type was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
		defer close(done)
		panic("handler bug")
	})

	// Emit must not panic the caller even though the handler does
	bus.Emit(context.Background(), UserCreatedEvent{AnonID: "anon-1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestTransactionalBus_FlushAfterCommit(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	received := make(chan Event, 2)
	bus.Subscribe(EventTypeBonusClaimed, func(ctx context.Context, event Event) {
		received <- event
	})

	txBus.Publish(BonusClaimedEvent{AnonID: "anon-1", Amount: 50})

	// Nothing reaches the bus before the flush
	select {
	case <-received:
		t.Fatal("event emitted before flush")
	case <-time.After(50 * time.Millisecond):
	}

	txBus.Flush(context.Background())

	select {
	case event := <-received:
		assert.Equal(t, "anon-1", event.(BonusClaimedEvent).AnonID)
	case <-time.After(time.Second):
		t.Fatal("event was not flushed")
	}

	// Flush drains the pending list; a second flush emits nothing
	txBus.Flush(context.Background())
	select {
	case <-received:
		t.Fatal("event emitted twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)

	received := make(chan Event, 1)
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		received <- event
	})

	txBus.Publish(BalanceChangeEvent{AnonID: "anon-1", Amount: 10})
	txBus.Discard()
	txBus.Flush(context.Background())

	select {
	case <-received:
		t.Fatal("discarded event was emitted")
	case <-time.After(50 * time.Millisecond):
	}
}
