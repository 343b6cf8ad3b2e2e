package bus

import "context"

// Branch is a compile-time-narrowed view of a Bus pinned to one message
// type M and one sender type S. It adds no behavior of its own; every call
// forwards to the underlying bus. Use it at package boundaries where only
// one message type is exchanged and the loosely typed core API is too wide.
//
// Example:
//
//	var userEvents = bus.NewBranch[UserCreated, *AccountService](b)
//	userEvents.Subscribe(onUserCreated)
//	userEvents.PostFrom(ctx, UserCreated{...}, svc)
type Branch[M any, S any] struct {
	bus *Bus
}

// NewBranch creates a Branch over b.
func NewBranch[M any, S any](b *Bus) Branch[M, S] {
	if b == nil {
		panic("bus: nil bus")
	}
	return Branch[M, S]{bus: b}
}

// Subscribe registers a closure for messages of type M.
func (br Branch[M, S]) Subscribe(fn HandlerFunc[M], opts ...SubscribeOption) SubscriptionID {
	return Subscribe(br.bus, fn, opts...)
}

// SubscribeFrom registers a closure that only receives posts from sender.
func (br Branch[M, S]) SubscribeFrom(sender S, fn HandlerFunc[M], opts ...SubscribeOption) SubscriptionID {
	return Subscribe(br.bus, fn, append(opts, FromSender(sender))...)
}

// Post delivers msg with no sender identity attached.
func (br Branch[M, S]) Post(ctx context.Context, msg M) error {
	return br.bus.Post(ctx, msg)
}

// PostFrom delivers msg tagged with sender.
func (br Branch[M, S]) PostFrom(ctx context.Context, msg M, sender S) error {
	return br.bus.PostFrom(ctx, msg, sender)
}

// Unsubscribe removes the subscription with the given id; unknown ids are
// a no-op.
func (br Branch[M, S]) Unsubscribe(id SubscriptionID) {
	br.bus.Unsubscribe(id)
}
