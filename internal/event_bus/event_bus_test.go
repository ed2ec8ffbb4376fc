package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishCallsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		bus.Subscribe(BudgetChangedEvent, func(e Event) error {
			calls = append(calls, name)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), BudgetChangedEvent, BudgetChanged{UserId: 1}))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestEventBus_SubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []TransactionChanged
	SubscribeTyped(bus, TransactionChangedEvent, func(e EventT[TransactionChanged]) error {
		received = append(received, e.Data)
		return nil
	})

	// a payload of another type is skipped, not failed
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionChangedEvent, "not a payload")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionChangedEvent,
		TransactionChanged{UserId: 7, TransactionId: 3, Change: Created})))

	require.Len(t, received, 1)
	assert.Equal(t, 7, received[0].UserId)
	assert.Equal(t, Created, received[0].Change)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := bus.Subscribe(CategoryChangedEvent, func(e Event) error {
		calls++
		return nil
	})

	unsubscribe()
	err := bus.Publish(NewEvent(context.Background(), CategoryChangedEvent, CategoryChanged{}))

	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestEventBus_CollectsHandlerErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	secondCalled := false
	bus.Subscribe(BudgetChangedEvent, func(e Event) error { return boom })
	bus.Subscribe(BudgetChangedEvent, func(e Event) error { panic("unexpected") })
	bus.Subscribe(BudgetChangedEvent, func(e Event) error {
		secondCalled = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), BudgetChangedEvent, BudgetChanged{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.True(t, secondCalled)
}

func TestEventBus_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(BudgetChangedEvent, func(e Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, BudgetChangedEvent, BudgetChanged{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
