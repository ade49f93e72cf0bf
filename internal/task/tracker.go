package task

import "github.com/google/uuid"

// Tracker holds the live tasks of the coordinator. It is not synchronized and must
// only be used from the goroutine that drains the Dispatcher.
type Tracker struct {
	live map[uuid.UUID]Handle
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		live: make(map[uuid.UUID]Handle),
	}
}

// Add registers a live task.
func (t *Tracker) Add(h Handle) {
	t.live[h.ID()] = h
}

// Remove forgets a task. It returns false if the task was not tracked.
func (t *Tracker) Remove(id uuid.UUID) bool {
	if _, ok := t.live[id]; !ok {
		return false
	}

	delete(t.live, id)

	return true
}

// Len returns the number of live tasks.
func (t *Tracker) Len() int {
	return len(t.live)
}

// Prune forgets tasks that already reached a terminal state and returns how many.
func (t *Tracker) Prune() int {
	removed := 0

	for id, h := range t.live {
		if h.State().IsTerminal() {
			delete(t.live, id)

			removed++
		}
	}

	return removed
}

// CancelAll requests cancellation of every live task and forgets them.
// It returns the number of tasks that acknowledged the request.
func (t *Tracker) CancelAll() int {
	acknowledged := 0

	for id, h := range t.live {
		if h.Cancel() {
			acknowledged++
		}

		delete(t.live, id)
	}

	return acknowledged
}
