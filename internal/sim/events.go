package sim

import "sync"

// EventKind identifies an input delivered to the loop.
type EventKind int

const (
	EventToggle EventKind = iota
	EventPress
	EventRelease
	EventResize
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventToggle:
		return "toggle"
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a discrete input. Cursor positions are not carried; the loop queries the
// cursor when it processes press and release events.
type Event struct {
	Kind EventKind
}

// Queue collects events from X11 and IPC goroutines until the next tick drains them.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event. Safe for concurrent use.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain removes and returns all pending events in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
