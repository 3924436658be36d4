package watcher

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rag-assistant/backend/internal/domain/events"
)

func sessionEvent(t events.EventType) *events.SessionEvent {
	return &events.SessionEvent{EventType: t, SessionID: "s1", EventTime: time.Now()}
}

func TestEventBus_SubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
			count.Add(1)
			return nil
		}))
	}

	bus.Publish(sessionEvent(events.SessionUpdated))
	bus.Publish(sessionEvent(events.SessionDeleted))
	bus.Close()

	assert.Equal(t, int32(3), count.Load())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	var kept, removed atomic.Int32
	bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		kept.Add(1)
		return nil
	}))
	unsub := bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		removed.Add(1)
		return nil
	}))
	unsub()
	unsub()

	bus.Publish(sessionEvent(events.SessionUpdated))
	bus.Close()

	assert.Equal(t, int32(1), kept.Load())
	assert.Equal(t, int32(0), removed.Load())
}

func TestEventBus_SubscribeMultiple(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	var seen []events.EventType
	unsub := bus.SubscribeMultiple(
		[]events.EventType{events.SessionUpdated, events.SessionDeleted},
		events.HandlerFunc(func(e events.Event) error {
			mu.Lock()
			seen = append(seen, e.Type())
			mu.Unlock()
			return nil
		}),
	)

	bus.Publish(sessionEvent(events.SessionUpdated))
	bus.Publish(sessionEvent(events.SessionDeleted))
	bus.Close()
	unsub()

	assert.ElementsMatch(t, []events.EventType{events.SessionUpdated, events.SessionDeleted}, seen)
}

func TestEventBus_HandlerFailuresIsolated(t *testing.T) {
	bus := NewEventBus()

	var ok atomic.Bool
	bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		panic("boom")
	}))
	bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		return errors.New("failed")
	}))
	bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		ok.Store(true)
		return nil
	}))

	bus.Publish(sessionEvent(events.SessionUpdated))
	bus.Close()

	assert.True(t, ok.Load())
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus()
	var called atomic.Bool
	bus.Subscribe(events.SessionUpdated, events.HandlerFunc(func(events.Event) error {
		called.Store(true)
		return nil
	}))
	bus.Close()

	bus.Publish(sessionEvent(events.SessionUpdated))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, called.Load())
}
