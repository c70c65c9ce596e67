package hub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// eventBuffer is the per-subscriber channel buffer size. One pending
// refresh is enough: a client that has not yet consumed a refresh will
// reload to the latest state anyway, so further events coalesce.
const eventBuffer = 1

// Subscriber is one connected event-stream client's handle.
//
// A Subscriber is created by [Hub.Register] and owned by the connection
// handler that registered it. Refresh events arrive on the channel
// returned by [Subscriber.Events]; each event carries the hub's refresh
// sequence number at broadcast time.
//
// The event channel is never closed. The handler's receive loop is
// expected to terminate on its request context, not on channel closure.
type Subscriber struct {
	id     string
	events chan uint64
	live   atomic.Bool
}

// ID returns the subscriber's unique identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Events returns the channel on which refresh events are delivered.
func (s *Subscriber) Events() <-chan uint64 {
	return s.events
}

// Hub is the registry of currently connected subscribers.
//
// Hub is safe for concurrent use: connection handlers call
// [Hub.Register] and [Hub.Unregister] from their own goroutines while
// the signal path calls [Hub.Broadcast]. The subscriber map is the only
// shared mutable state and is guarded by a single mutex.
//
// The zero value is not usable; create a Hub with [New].
type Hub struct {
	mu          sync.Mutex
	seq         uint64
	subscribers map[string]*Subscriber
}

// New creates an empty [Hub].
//
// The hub is immediately ready for use. No cleanup is required when done;
// its lifetime is the lifetime of the process.
func New() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

// Register creates a new [Subscriber], adds it to the registry, and
// returns it.
//
// The caller must call [Hub.Unregister] with the subscriber's ID when the
// connection closes, to prevent the registry from retaining dead entries.
func (h *Hub) Register() *Subscriber {
	sub := &Subscriber{
		id:     uuid.NewString(),
		events: make(chan uint64, eventBuffer),
	}
	sub.live.Store(true)

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	return sub
}

// Unregister removes the subscriber with the given ID from the registry.
//
// Unregister is idempotent: removing an unknown or already-removed ID is
// a no-op. The subscriber's event channel is left open; any broadcast
// racing with removal sends into the buffer harmlessly.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		sub.live.Store(false)
		delete(h.subscribers, id)
	}
}

// Broadcast delivers one refresh event to every currently registered
// subscriber.
//
// The subscriber set is snapshotted under the lock and the sends happen
// outside it, so a slow or stalled client cannot block registration or
// broadcast to others. Sends are non-blocking: a subscriber with a full
// buffer already has a refresh pending and is skipped. Delivery order
// across subscribers is unspecified.
//
// Broadcast with no subscribers is a no-op (beyond advancing the
// sequence number).
func (h *Hub) Broadcast() {
	h.mu.Lock()
	h.seq++
	seq := h.seq
	snapshot := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		snapshot = append(snapshot, sub)
	}
	h.mu.Unlock()

	for _, sub := range snapshot {
		if !sub.live.Load() {
			continue
		}
		select {
		case sub.events <- seq:
		default:
			// buffer full, a refresh is already pending
		}
	}
}

// Len returns the number of currently registered subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Seq returns the current refresh sequence number, i.e. the number of
// broadcasts performed so far.
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}
