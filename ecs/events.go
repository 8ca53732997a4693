package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// BodyEventKind identifies simulation body lifecycle events.
type BodyEventKind string

const (
	BodyEventCreated BodyEventKind = "body_created"
	BodyEventRemoved BodyEventKind = "body_removed"
)

// BodyEvent is emitted when a simulation body is attached to or detached from
// an entity.
type BodyEvent struct {
	Entity Entity
	Kind   BodyEventKind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
