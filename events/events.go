package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSelectionUpserted EventType = "selection_upserted"
	EventTypeEntryLocked       EventType = "entry_locked"
	EventTypeEntryUnlocked     EventType = "entry_unlocked"
	EventTypeEntrySettled      EventType = "entry_settled"
	EventTypeRoundSettled      EventType = "round_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SelectionUpsertedEvent fires after a selection write commits
type SelectionUpsertedEvent struct {
	EntryID    int64
	PickID     int64
	OptionID   int64
	Stake      int64
	TotalStake int64
}

func (e SelectionUpsertedEvent) Type() EventType {
	return EventTypeSelectionUpserted
}

// EntryLockedEvent fires when an entry locks in
type EntryLockedEvent struct {
	EntryID    int64
	RoundID    int64
	UserID     int64
	TotalStake int64
	LockedAt   time.Time
}

func (e EntryLockedEvent) Type() EventType {
	return EventTypeEntryLocked
}

// EntryUnlockedEvent fires when a locked entry goes back to building
type EntryUnlockedEvent struct {
	EntryID int64
	RoundID int64
	UserID  int64
}

func (e EntryUnlockedEvent) Type() EventType {
	return EventTypeEntryUnlocked
}

// EntrySettledEvent fires per entry during round settlement
type EntrySettledEvent struct {
	EntryID      int64
	RoundID      int64
	UserID       int64
	CreditsStart int64
	CreditsEnd   int64
}

func (e EntrySettledEvent) Type() EventType {
	return EventTypeEntrySettled
}

// RoundSettledEvent fires once after every entry in a round settled
type RoundSettledEvent struct {
	RoundID        int64
	EntriesSettled int
	SettledAt      time.Time
}

func (e RoundSettledEvent) Type() EventType {
	return EventTypeRoundSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Handlers run asynchronously to avoid blocking the emitter.
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events raised inside a unit of work and
// flushes them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps the real bus for one transaction
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush or Discard
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit;
// events outlive the transaction context, so emission uses a fresh one.
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
