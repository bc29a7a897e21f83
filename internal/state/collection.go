// Package state holds the in-memory entity collections mirrored from the
// remote store and consumed by UI surfaces. Every mutation goes through a
// Collection operation; nothing outside this package assigns record fields
// in place. That discipline is what makes optimistic rollback possible.
package state

import "sync"

// Record is anything a Collection can hold.
type Record interface {
	RecordID() string
}

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes one completed mutation. OldID is set only when a replace
// changed the record's id (optimistic id swapped for the authoritative one).
type Event struct {
	Entity string
	Action Action
	ID     string
	OldID  string
}

// Observer receives events synchronously after each mutation completes.
type Observer func(Event)

// Collection is an ordered in-memory set of records of one entity type.
// Mutations are atomic with respect to each other; observers are notified
// after the mutation has been applied, never during.
type Collection[T Record] struct {
	mu        sync.Mutex
	entity    string
	records   []T
	observers []Observer
}

func NewCollection[T Record](entity string) *Collection[T] {
	return &Collection[T]{entity: entity}
}

// Entity returns the entity name this collection holds.
func (c *Collection[T]) Entity() string { return c.entity }

// Subscribe registers an observer for all future mutations.
func (c *Collection[T]) Subscribe(fn Observer) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Insert appends a record.
func (c *Collection[T]) Insert(rec T) {
	c.mu.Lock()
	c.records = append(c.records, rec)
	obs := c.observerSnapshot()
	c.mu.Unlock()

	notify(obs, Event{Entity: c.entity, Action: ActionCreated, ID: rec.RecordID()})
}

// Replace swaps the record with the given id for rec, keeping its position.
// The replacement may carry a different id (optimistic reconciliation).
// Returns false if no record with id exists.
func (c *Collection[T]) Replace(id string, rec T) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.records[idx] = rec
	obs := c.observerSnapshot()
	c.mu.Unlock()

	ev := Event{Entity: c.entity, Action: ActionUpdated, ID: rec.RecordID()}
	if rec.RecordID() != id {
		ev.OldID = id
	}
	notify(obs, ev)
	return true
}

// RemoveByID removes the record with the given id. Returns false if absent.
func (c *Collection[T]) RemoveByID(id string) bool {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.records = append(c.records[:idx], c.records[idx+1:]...)
	obs := c.observerSnapshot()
	c.mu.Unlock()

	notify(obs, Event{Entity: c.entity, Action: ActionDeleted, ID: id})
	return true
}

// RemoveWhere removes every record matching pred and returns how many were
// removed. One event is emitted per removed record.
func (c *Collection[T]) RemoveWhere(pred func(T) bool) int {
	c.mu.Lock()
	var kept []T
	var removed []string
	for _, rec := range c.records {
		if pred(rec) {
			removed = append(removed, rec.RecordID())
		} else {
			kept = append(kept, rec)
		}
	}
	c.records = kept
	obs := c.observerSnapshot()
	c.mu.Unlock()

	for _, id := range removed {
		notify(obs, Event{Entity: c.entity, Action: ActionDeleted, ID: id})
	}
	return len(removed)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.records[idx], true
	}
	var zero T
	return zero, false
}

// All returns a copy of the collection in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Collection[T]) indexOf(id string) int {
	for i, rec := range c.records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// observerSnapshot must be called with the lock held. Observers run outside
// the lock so they may read the collection without deadlocking.
func (c *Collection[T]) observerSnapshot() []Observer {
	obs := make([]Observer, len(c.observers))
	copy(obs, c.observers)
	return obs
}

func notify(obs []Observer, ev Event) {
	for _, fn := range obs {
		fn(ev)
	}
}
