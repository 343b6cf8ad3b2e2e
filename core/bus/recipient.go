package bus

import (
	"context"
	"weak"
)

// HandlerFunc is the closure shape accepted by Subscribe: a type-safe
// function invoked with the posted message.
type HandlerFunc[M any] func(context.Context, M) error

// SenderHandlerFunc is the closure shape accepted by SubscribeWithSender;
// it additionally receives the sender identity attached to the post.
type SenderHandlerFunc[M any] func(ctx context.Context, msg M, sender any) error

// Receiver is the capability an object implements to be registered with
// SubscribeReceiver. The registry holds the object weakly: implementing
// Receiver never keeps the object alive.
type Receiver[M any] interface {
	ReceiveMessage(ctx context.Context, msg M, sender any) error
}

// recipient is the polymorphic invoker stored inside a subscription.
// Variants differ in how they own the underlying callable: an owned closure
// never expires, weakly bound variants expire once their target is collected.
// Expiry is monotonic; an expired recipient never becomes live again.
type recipient interface {
	// invoke fires the underlying callable. A message that does not match
	// the recipient's expected type, or a target that was collected between
	// snapshot and delivery, is a silent skip, never a panic.
	invoke(ctx context.Context, msg, sender any) error

	// expired reports whether the owning object is gone.
	expired() bool
}

// ownedFunc strongly owns a callable. It is used for both closure shapes;
// the sender-less shape is adapted at construction time.
type ownedFunc[M any] struct {
	fn SenderHandlerFunc[M]
}

func (r ownedFunc[M]) invoke(ctx context.Context, msg, sender any) error {
	m, ok := msg.(M)
	if !ok {
		return nil
	}
	return r.fn(ctx, m, sender)
}

func (r ownedFunc[M]) expired() bool { return false }

// weakMethod binds a method to a weakly referenced target. The target
// pointer is re-resolved on every invocation, so a target collected after
// the snapshot phase is skipped rather than dereferenced.
type weakMethod[T any, M any] struct {
	target weak.Pointer[T]
	fn     func(target *T, ctx context.Context, msg M, sender any) error
}

func (r weakMethod[T, M]) invoke(ctx context.Context, msg, sender any) error {
	t := r.target.Value()
	if t == nil {
		return nil
	}
	m, ok := msg.(M)
	if !ok {
		return nil
	}
	return r.fn(t, ctx, m, sender)
}

func (r weakMethod[T, M]) expired() bool { return r.target.Value() == nil }

// weakReceiver holds a weakly referenced object implementing Receiver[M].
// The strong-typed view is rebuilt from the resolved pointer on each call.
type weakReceiver[T any, M any] struct {
	target weak.Pointer[T]
	as     func(*T) Receiver[M]
}

func (r weakReceiver[T, M]) invoke(ctx context.Context, msg, sender any) error {
	t := r.target.Value()
	if t == nil {
		return nil
	}
	m, ok := msg.(M)
	if !ok {
		return nil
	}
	return r.as(t).ReceiveMessage(ctx, m, sender)
}

func (r weakReceiver[T, M]) expired() bool { return r.target.Value() == nil }
