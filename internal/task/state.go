package task

import "fmt"

// State is the lifecycle state of a Task.
type State int32

const (
	// StateCreated is the initial state.
	StateCreated State = iota
	// StateRunning means the operation has been started.
	StateRunning
	// StateSucceeded is terminal: the success callback fired.
	StateSucceeded
	// StateFailed is terminal: the failure callback fired.
	StateFailed
	// StateCancelled is terminal: no callback fired or will fire.
	StateCancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}
