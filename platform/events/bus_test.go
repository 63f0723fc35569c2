package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"tradesmarket/platform/logger"
)

type pinged struct {
	BaseEvent
}

func (pinged) EventName() string { return "test.pinged" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	var order []int
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected handlers in registration order, got %v", order)
	}
}

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	boom := errors.New("boom")
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { panic("bad handler") }))

	err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
}

func TestPublishRunsAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pinged{NewBaseEvent()})
	cancel()
	bus.Wait()

	if calls.Load() != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls.Load())
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.NewNop())
	if err := bus.PublishSync(context.Background(), pinged{NewBaseEvent()}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
