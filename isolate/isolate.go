package isolate

import (
	"context"
	"errors"
)

// ErrTerminated is returned by Send once the execution context has been
// torn down.
var ErrTerminated = errors.New("execution context terminated")

// ErrPanic wraps the recovered value of a unit of work that panicked inside
// an execution context.
var ErrPanic = errors.New("task panicked")

// Request carries a single unit of work into an execution context together
// with the channel its outcome has to be delivered on.
type Request struct {
	// Invoke is the unit of work. The supplied context is cancelled when
	// the execution context is terminated.
	Invoke func(ctx context.Context) (interface{}, error)
	// ReplyTo receives exactly one Result once Invoke returns.
	ReplyTo chan<- Result
}

// Result is the outcome of a single request.
type Result struct {
	Value interface{}
	Err   error
}

// EntryPoint runs inside a freshly spawned execution context and consumes
// requests until the context is terminated.
type EntryPoint func(ctx context.Context, requests <-chan Request)

// Readiness delivers the context handle once the spawned execution context
// is able to accept work.
type Readiness <-chan Context

// Context is the handle to a spawned execution context.
type Context interface {
	// Send hands a request to the execution context, waiting until the
	// context picks it up. It returns ErrTerminated once the context has
	// been torn down.
	Send(request Request) error

	// Terminate tears the execution context down without waiting for an
	// in-flight request to finish. The context passed to Invoke is
	// cancelled so a cooperative unit of work can stop early.
	Terminate()

	// Done is closed once the execution context has been terminated.
	Done() <-chan struct{}
}

// Spawner starts execution contexts.
type Spawner interface {
	// Spawn starts entry in a new execution context. The returned
	// Readiness channel delivers the Context handle once the entry loop
	// is running; ctx is the parent of the context's lifetime.
	Spawn(ctx context.Context, entry EntryPoint) (Readiness, error)
}
