package isolate

import (
	"context"
	"fmt"
)

// GoSpawner starts each execution context as a goroutine exchanging
// messages over unbuffered channels.
type GoSpawner struct{}

// New returns the default goroutine backed spawner.
func New() *GoSpawner {
	return &GoSpawner{}
}

// Spawn starts entry in a new goroutine and returns a readiness channel
// that delivers the context handle before the entry loop starts consuming
// requests.
func (s *GoSpawner) Spawn(ctx context.Context, entry EntryPoint) (Readiness, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry point was nil")
	}
	runCtx, cancel := context.WithCancel(ctx)
	handle := &goContext{
		requests: make(chan Request),
		cancel:   cancel,
		done:     runCtx.Done(),
	}
	ready := make(chan Context, 1)
	go func() {
		ready <- handle
		entry(runCtx, handle.requests)
	}()
	return ready, nil
}

// Serve is the default entry point. It processes requests serially, one at
// a time, and converts a panicking unit of work into a failed result so the
// execution context survives it.
func Serve(ctx context.Context, requests <-chan Request) {
	for {
		select {
		case <-ctx.Done():
			return
		case request := <-requests:
			result := invoke(ctx, request.Invoke)
			select {
			case request.ReplyTo <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func invoke(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	value, err := fn(ctx)
	return Result{Value: value, Err: err}
}

type goContext struct {
	requests chan Request
	cancel   context.CancelFunc
	done     <-chan struct{}
}

// Send hands a request to the entry loop, failing once the context has
// been terminated.
func (c *goContext) Send(request Request) error {
	select {
	case <-c.done:
		return ErrTerminated
	default:
	}
	select {
	case c.requests <- request:
		return nil
	case <-c.done:
		return ErrTerminated
	}
}

// Terminate cancels the context's lifetime.
func (c *goContext) Terminate() {
	c.cancel()
}

// Done exposes the termination signal.
func (c *goContext) Done() <-chan struct{} {
	return c.done
}

var _ Spawner = (*GoSpawner)(nil)
var _ Context = (*goContext)(nil)
