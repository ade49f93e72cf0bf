// Package task provides the asynchronous unit of work used by the grabber.
//
// A Task runs its operation on its own goroutine and delivers exactly one outcome,
// success or failure, through a Poster. The CLI posts to a Dispatcher drained by the
// coordinating goroutine, so callbacks never race with each other. Cancellation is
// cooperative: the operation observes its context at checkpoints, and a cancelled task
// never fires a callback.
package task
