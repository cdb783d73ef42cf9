package jobqueue

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPanic wraps the value recovered from a panicking operation.
	ErrPanic = errors.New("jobqueue: operation panicked")

	// ErrResultType is returned by Await when an operation's result does
	// not have the requested type.
	ErrResultType = errors.New("jobqueue: unexpected result type")
)

// Operation is a unit of work run by a bucket's loop.
type Operation func(ctx context.Context) (any, error)

// Completion delivers the outcome of one submitted Operation. It is settled
// exactly once by the bucket loop.
type Completion struct {
	done  chan struct{}
	value any
	err   error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// settle records the outcome and releases waiters. Only the loop that owns
// the job calls it, once.
func (c *Completion) settle(v any, err error) {
	c.value, c.err = v, err
	close(c.done)
}

// Done is closed once the outcome is available.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Result returns the outcome. It must only be called after Done is closed.
func (c *Completion) Result() (any, error) {
	select {
	case <-c.done:
		return c.value, c.err
	default:
		return nil, errors.New("jobqueue: completion not settled")
	}
}

// Wait blocks until the operation has run or ctx is done. Giving up on the
// wait does not cancel the job; it still runs in order.
func (c *Completion) Wait(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do submits fn under key and waits for its result.
func Do[K comparable, T any](ctx context.Context, s *Scheduler[K], key K, fn func(ctx context.Context) (T, error)) (T, error) {
	return Await[T](ctx, s.Submit(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}))
}

// Await waits on c and asserts its value to T. A nil value yields the zero T.
func Await[T any](ctx context.Context, c *Completion) (T, error) {
	var zero T
	v, err := c.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrResultType, v)
	}
	return out, nil
}
