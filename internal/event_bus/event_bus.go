// Package event_bus lets services announce changes to records without knowing who caches
// or derives data from them.
package event_bus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

// Event carries the payload of one change and the context of the request that made it.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{ctx: ctx, Type: eventType, Timestamp: time.Now(), Data: data}
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is an Event whose payload has already been asserted to T.
type EventT[T any] struct {
	Event
	Data T
}

type subscription struct {
	id      uint64
	handler func(Event) error
}

// EventBus delivers events synchronously, so every subscriber has seen a change before the
// request that published it returns.
type EventBus struct {
	mu     sync.RWMutex
	topics map[EventType][]subscription
	nextId uint64
}

func NewEventBus() *EventBus {
	return &EventBus{topics: make(map[EventType][]subscription)}
}

// Subscribe adds h to the handlers of eventType, after the ones already there.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextId++
	id := eb.nextId
	eb.topics[eventType] = append(eb.topics[eventType], subscription{id: id, handler: h})

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		remaining := slices.DeleteFunc(eb.topics[eventType], func(s subscription) bool { return s.id == id })
		if len(remaining) == 0 {
			delete(eb.topics, eventType)
			return
		}
		eb.topics[eventType] = remaining
	}
}

// SubscribeTyped subscribes a handler of payload T. Events carrying another payload type are
// skipped.
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("Skipping %s event with payload %T", eventType, e.Data)
			return nil
		}
		return h(EventT[T]{Event: e, Data: payload})
	})
}

// Publish runs the handlers of e.Type in subscription order. A failing or panicking handler
// does not stop the others; their errors are joined. A cancelled context stops delivery.
func (eb *EventBus) Publish(e Event) error {
	ctx := e.Context()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("event %s not published: %w", e.Type, err)
	}

	eb.mu.RLock()
	subscriptions := slices.Clone(eb.topics[e.Type])
	eb.mu.RUnlock()

	var errs []error
	for _, s := range subscriptions {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("delivery interrupted: %w", err))
			break
		}
		if err := deliver(s, e); err != nil {
			log.Errorf("Handler %d failed on %s event: %v", s.id, e.Type, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func deliver(s subscription, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked: %v", s.id, r)
		}
	}()
	return s.handler(e)
}
