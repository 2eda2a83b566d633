package session

import (
	"sync"

	"go.uber.org/zap"
)

// Event kinds pushed through a Notifier.
const (
	EventPhase    = "phase"    // phase transition
	EventOrder    = "order"    // order accepted during the orders phase
	EventAttack   = "attack"   // single attack resolved
	EventVolley   = "volley"   // per-target volley summary
	EventDamage   = "damage"   // deferred damage drained at consolidation
	EventWithdraw = "withdraw" // withdraw morale test on entering tactical
	EventMorale   = "morale"   // consolidation morale state change
	EventAssault  = "assault"  // assault resolution outcome
)

// Event is one fire-and-forget notification from the session to its host.
// Data carries the kind-specific result object (an attack outcome, a volley
// summary, a morale event) and is JSON-marshalable for the wire.
type Event struct {
	Kind    string `json:"kind"`
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	UnitID  string `json:"unitId,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Notifier receives session events. Implementations must not block: the
// session never awaits a notification.
type Notifier interface {
	Notify(e Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

// LogNotifier writes events to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
//
// Precondition: logger must be non-nil.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) Notify(e Event) {
	n.log.Info("session event",
		zap.String("kind", e.Kind),
		zap.Int("round", e.Round),
		zap.String("phase", e.Phase),
		zap.String("unit", e.UnitID),
		zap.String("message", e.Message),
		zap.Any("data", e.Data),
	)
}

// Feed routes events to a Go channel, bridging the session to a streaming
// consumer such as a websocket client. A full buffer drops the event rather
// than blocking the session.
type Feed struct {
	id     string
	events chan Event
	mu     sync.Mutex
	closed bool
}

// NewFeed creates a Feed with the given buffer size.
//
// Precondition: id must be non-empty.
// Postcondition: Returns a Feed with an open events channel.
func NewFeed(id string, bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Feed{
		id:     id,
		events: make(chan Event, bufferSize),
	}
}

// ID returns the feed's identifier.
func (f *Feed) ID() string {
	return f.id
}

// Notify enqueues the event. Events pushed to a closed or full feed are
// dropped.
func (f *Feed) Notify(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	select {
	case f.events <- e:
	default:
	}
}

// Events returns the read-only events channel. The consumer goroutine reads
// from this channel until Close.
func (f *Feed) Events() <-chan Event {
	return f.events
}

// Close marks the feed as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Notify calls are
// dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.events)
	}
}

// IsClosed reports whether the feed has been closed.
func (f *Feed) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
