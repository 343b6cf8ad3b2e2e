package bus

import "log/slog"

// Option configures a Bus.
type Option func(*Bus)

// WithLogger configures structured logging for the bus.
// If not set, logging is discarded.
//
// Example:
//
//	b := bus.New(bus.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// subscribeConfig collects the optional parts of a registration.
type subscribeConfig struct {
	sender any
	queue  Queue
}

// SubscribeOption configures a single registration.
type SubscribeOption func(*subscribeConfig)

// FromSender restricts the subscription to posts carrying exactly this
// sender identity. Comparison is by identity (Go == on the interface value),
// so senders should be pointer values. Posts from any other sender,
// including the nil sender, are skipped silently. A sender of a
// non-comparable dynamic type (slice, map, func) never matches any filter;
// such posts are skipped, not a panic.
//
// Example:
//
//	id := bus.Subscribe(b, onUserCreated, bus.FromSender(accountService))
func FromSender(sender any) SubscribeOption {
	return func(c *subscribeConfig) {
		c.sender = sender
	}
}

// OnQueue routes deliveries for the subscription onto q instead of invoking
// inline. Post returns once the invocation is scheduled, not executed.
//
// Example:
//
//	q := queue.New()
//	id := bus.Subscribe(b, onUserCreated, bus.OnQueue(q))
func OnQueue(q Queue) SubscribeOption {
	return func(c *subscribeConfig) {
		c.queue = q
	}
}
