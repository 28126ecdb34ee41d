package realtime

import (
	"sync"
)

// Table and operation names carried by change events
const (
	TableTickets = "tickets"

	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Event is one change notification. A single write produces a single
// event regardless of how many fields changed.
type Event struct {
	Table string `json:"table"`
	Op    string `json:"op"`
}

// Subscription is a cancellable change-notification handle. Consumers
// read events from C and must call Close when the view unmounts.
type Subscription struct {
	C chan Event

	hub   *Hub
	table string
	id    int
	once  sync.Once
}

// Close releases the subscription and closes C
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.table, s.id)
		close(s.C)
	})
}

// Hub fans change events out to per-table subscribers. Publishes never
// block: a subscriber whose buffer is full misses the event, which is
// acceptable because consumers re-fetch the full state on any event.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]*Subscription
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*Subscription)}
}

// Subscribe registers for change events on one table
func (h *Hub) Subscribe(table string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		C:     make(chan Event, 16),
		hub:   h,
		table: table,
		id:    h.nextID,
	}
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]*Subscription)
	}
	h.subs[table][sub.id] = sub
	return sub
}

// Publish delivers one event to every subscriber of the table
func (h *Hub) Publish(table, op string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[table] {
		select {
		case sub.C <- Event{Table: table, Op: op}:
		default:
		}
	}
}

// SubscriberCount reports how many subscriptions a table has
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

func (h *Hub) remove(table string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[table], id)
}
