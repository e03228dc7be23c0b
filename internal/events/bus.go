package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Bus fans events out to subscribers and, when an EventLog is set,
// persists them. Delivery never blocks: a full subscriber misses the event.
type Bus struct {
	mu       sync.RWMutex
	byType   map[string][]chan Event
	allSubs  []chan Event
	eventLog *EventLog // may be nil
	logger   *slog.Logger
	closed   bool
}

// NewBus creates a new event bus. Pass a nil log to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		byType:   make(map[string][]chan Event),
		eventLog: log,
		logger:   logger,
	}
}

// Publish persists e and delivers it to matching subscribers.
// Persistence failures are logged, not returned.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return nil
	}

	if b.eventLog != nil {
		if _, err := b.eventLog.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	// Sends never block, so holding the read lock keeps Close from closing a
	// channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, ch := range slices.Concat(b.byType[e.EventType()], b.allSubs) {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}

	return nil
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.byType[eventType] = append(b.byType[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// SubscribeEntity returns events for one entity, such as a catalog entry.
// The channel closes when cancel is called or the bus closes.
func (b *Bus) SubscribeEntity(entityType string, entityID int64, bufferSize int) (<-chan Event, func()) {
	allCh := b.SubscribeAll(bufferSize * 10)
	filtered := make(chan Event, bufferSize)

	go func() {
		defer close(filtered)
		for e := range allCh {
			if e.EntityType() != entityType || e.EntityID() != entityID {
				continue
			}
			select {
			case filtered <- e:
			default:
			}
		}
	}()

	return filtered, func() { b.Unsubscribe(allCh) }
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	match := func(sub chan Event) bool { return sub == ch }

	for eventType, subs := range b.byType {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			close(subs[i])
			b.byType[eventType] = slices.Delete(subs, i, i+1)
			return
		}
	}
	if i := slices.IndexFunc(b.allSubs, match); i >= 0 {
		close(b.allSubs[i])
		b.allSubs = slices.Delete(b.allSubs, i, i+1)
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.byType {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.byType = nil

	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil

	return nil
}
