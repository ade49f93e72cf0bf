package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/oshokin/media-grabber/internal/logger"
)

// Static error definitions for better error handling.
var (
	// ErrAlreadyStarted is returned by Start on a task that left the created state.
	ErrAlreadyStarted = errors.New("task already started")
	// ErrCancelled is the context cause seen by an operation whose task was cancelled.
	ErrCancelled = errors.New("task cancelled")
	// ErrPanic wraps a panic recovered from an operation.
	ErrPanic = errors.New("task panicked")
)

// Func is the operation wrapped by a Task. It must check ctx at its checkpoints.
type Func[T any] func(ctx context.Context) (T, error)

// Handle is the type-erased view of a Task used by collections of live tasks.
type Handle interface {
	// ID returns the unique task identifier.
	ID() uuid.UUID
	// Name returns the human-readable task name.
	Name() string
	// State returns the current state.
	State() State
	// Cancel requests cooperative cancellation. It returns true when acknowledged.
	Cancel() bool
	// Done is closed once the task reaches a terminal state.
	Done() <-chan struct{}
}

// Task is a cancellable, single-delivery asynchronous unit of work.
type Task[T any] struct {
	id        uuid.UUID
	name      string
	fn        Func[T]
	poster    Poster
	state     atomic.Int32
	onSuccess func(T)
	onFailure func(error)

	// mu guards cancel, which only exists once Start created the run context.
	mu     sync.Mutex
	cancel context.CancelCauseFunc

	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Task.
type Option func(*options)

type options struct {
	poster Poster
}

// WithPoster sets where callbacks are delivered. The default is Inline.
func WithPoster(p Poster) Option {
	return func(o *options) {
		if p != nil {
			o.poster = p
		}
	}
}

// New creates a task in the created state.
func New[T any](name string, fn Func[T], opts ...Option) *Task[T] {
	o := options{poster: Inline{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Task[T]{
		id:     uuid.New(),
		name:   name,
		fn:     fn,
		poster: o.poster,
		done:   make(chan struct{}),
	}
}

// OnSuccess registers the success callback. It must be called before Start.
func (t *Task[T]) OnSuccess(cb func(T)) *Task[T] {
	t.onSuccess = cb

	return t
}

// OnFailure registers the failure callback. It must be called before Start.
func (t *Task[T]) OnFailure(cb func(error)) *Task[T] {
	t.onFailure = cb

	return t
}

// ID returns the unique task identifier.
func (t *Task[T]) ID() uuid.UUID {
	return t.id
}

// Name returns the human-readable task name.
func (t *Task[T]) Name() string {
	return t.name
}

// State returns the current state.
func (t *Task[T]) State() State {
	return State(t.state.Load())
}

// Done is closed once the task is terminal and its callback, if any, has returned.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is terminal or ctx ends.
func (t *Task[T]) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start moves the task to running and executes the operation on a new goroutine.
// The caller is never blocked by the operation.
func (t *Task[T]) Start(ctx context.Context) error {
	t.mu.Lock()

	if !t.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		t.mu.Unlock()

		return fmt.Errorf("%w: %s is %s", ErrAlreadyStarted, t.name, t.State())
	}

	runCtx, cancel := context.WithCancelCause(logger.WithKV(ctx, "task", t.name, "task_id", t.id.String()))
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(runCtx)

	return nil
}

// Cancel requests cooperative cancellation of a created or running task.
// Once it returns true, no callback fires for this task. A task cancelled before
// Start never runs.
func (t *Task[T]) Cancel() bool {
	for {
		current := t.State()
		if current != StateCreated && current != StateRunning {
			return false
		}

		if t.state.CompareAndSwap(int32(current), int32(StateCancelled)) {
			break
		}
	}

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel(ErrCancelled)
	}
	t.mu.Unlock()

	t.closeDone()

	return true
}

func (t *Task[T]) run(ctx context.Context) {
	result, err := t.invoke(ctx)

	delivered := t.poster.Post(func() {
		t.deliver(ctx, result, err)
	})
	if !delivered {
		t.abandon(ctx)
	}
}

// abandon ends a task whose delivery was refused by the poster.
func (t *Task[T]) abandon(ctx context.Context) {
	if !t.state.CompareAndSwap(int32(StateRunning), int32(StateCancelled)) {
		return
	}

	logger.Debugf(ctx, "Outcome of %s task was not delivered, the coordinator is closed", t.name)

	t.release()
}

// invoke runs the operation and turns a panic into a failure.
func (t *Task[T]) invoke(ctx context.Context) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	return t.fn(ctx)
}

// deliver runs on the poster. The state transition decides the race with Cancel:
// whichever moves the task out of running first wins.
func (t *Task[T]) deliver(ctx context.Context, result T, err error) {
	target := StateSucceeded
	if err != nil {
		target = StateFailed
	}

	if !t.state.CompareAndSwap(int32(StateRunning), int32(target)) {
		logger.Debugf(ctx, "Dropping %s outcome of %s task", target, t.State())

		return
	}

	defer t.release()

	if err != nil {
		if t.onFailure != nil {
			t.onFailure(err)
		}

		return
	}

	if t.onSuccess != nil {
		t.onSuccess(result)
	}
}

func (t *Task[T]) release() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel(nil)
	}
	t.mu.Unlock()

	t.closeDone()
}

func (t *Task[T]) closeDone() {
	t.doneOnce.Do(func() {
		close(t.done)
	})
}

// Checkpoint returns the reason the operation should stop, or nil to continue.
// Operations call it before acting on a network response or starting the next step.
func Checkpoint(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}

	if cause := context.Cause(ctx); cause != nil {
		return cause
	}

	return ctx.Err()
}

// IsCancelled reports whether err comes from a cancelled task or context.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
