package bus

import (
	"context"
	"fmt"
	"time"
)

// Decorator wraps a handler function to add cross-cutting functionality
// before it is subscribed. Decorators compose with ApplyDecorators.
type Decorator[M any] func(HandlerFunc[M]) HandlerFunc[M]

// ApplyDecorators applies decorators to a handler in sequence. The first
// decorator in the list becomes the outermost wrapper (executes first).
//
// Example:
//
//	bus.Subscribe(b, bus.ApplyDecorators(
//	    onUserCreated,
//	    bus.Recover[UserCreated](),
//	    bus.Retry[UserCreated](3),
//	))
func ApplyDecorators[M any](fn HandlerFunc[M], decorators ...Decorator[M]) HandlerFunc[M] {
	for i := len(decorators) - 1; i >= 0; i-- {
		fn = decorators[i](fn)
	}
	return fn
}

// Recover returns a decorator that converts a handler panic into an error.
// The bus itself never intercepts panics: a panicking inline recipient
// propagates out of Post. Wrap handlers that must not take down the caller.
func Recover[M any]() Decorator[M] {
	return func(next HandlerFunc[M]) HandlerFunc[M] {
		return func(ctx context.Context, msg M) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("handler panicked: %v", r)
				}
			}()
			return next(ctx, msg)
		}
	}
}

// Retry returns a decorator that retries a failing handler up to maxRetries
// times, returning the last error if all attempts fail.
func Retry[M any](maxRetries int) Decorator[M] {
	return func(next HandlerFunc[M]) HandlerFunc[M] {
		return func(ctx context.Context, msg M) error {
			var lastErr error

			for attempt := 0; attempt <= maxRetries; attempt++ {
				if attempt > 0 && ctx.Err() != nil {
					return ctx.Err()
				}

				err := next(ctx, msg)
				if err == nil {
					return nil
				}
				lastErr = err
			}

			return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
		}
	}
}

// Timeout returns a decorator that enforces a maximum execution time,
// cancelling the handler's context if it exceeds the timeout.
func Timeout[M any](timeout time.Duration) Decorator[M] {
	return func(next HandlerFunc[M]) HandlerFunc[M] {
		return func(ctx context.Context, msg M) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- next(ctx, msg)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return fmt.Errorf("handler timeout after %s: %w", timeout, ctx.Err())
			}
		}
	}
}
