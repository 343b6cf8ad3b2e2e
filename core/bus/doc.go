// Package bus provides a typed in-process publish/subscribe dispatcher.
// Publishers post a message value, optionally tagged with a sender identity;
// subscribers registered for the message's type receive it, filtered by an
// optional sender match, delivered inline or on a designated queue. Producers
// and consumers never hold references to each other, and subscriptions bound
// to an object through weak references clean themselves up when the object is
// collected, with no explicit unsubscription required.
//
// # Core Components
//
// Bus is the registration and dispatch engine: a type-keyed subscription
// registry guarded by a single mutex. Post snapshots the matching bucket
// under the lock, purges expired registrations in the same pass, and invokes
// recipients only after the lock is released, so recipients may re-enter the
// bus freely.
//
// Key identifies the registry bucket for one concrete message type. Keys
// built anywhere for the same type are equal; a posted value targets exactly
// the bucket of its own dynamic type.
//
// The Subscribe family covers three recipient shapes: owned closures
// (Subscribe, SubscribeWithSender), weakly bound methods (SubscribeMethod,
// SubscribeMethodWithSender), and weakly held objects implementing
// Receiver[M] (SubscribeReceiver).
//
// Branch is a compile-time-narrowed view over a Bus pinned to one message
// type and one sender type.
//
// # Basic Usage
//
//	import (
//		"context"
//
//		"github.com/dmitrymomot/broadcast/core/bus"
//	)
//
//	type UserCreated struct {
//		UserID string
//		Email  string
//	}
//
//	func main() {
//		b := bus.New()
//
//		id := bus.Subscribe(b, func(ctx context.Context, evt UserCreated) error {
//			return sendWelcomeEmail(ctx, evt.Email)
//		})
//		defer b.Unsubscribe(id)
//
//		if err := b.Post(context.Background(), UserCreated{UserID: "123"}); err != nil {
//			// inline recipient errors, aggregated with errors.Join
//		}
//	}
//
// # Sender Filtering
//
// A subscription may require posts to carry a specific sender identity.
// Senders are compared by identity, so they should be pointer values:
//
//	svc := NewAccountService()
//	bus.Subscribe(b, onUserCreated, bus.FromSender(svc))
//
//	b.PostFrom(ctx, UserCreated{...}, svc)   // delivered
//	b.PostFrom(ctx, UserCreated{...}, other) // skipped
//	b.Post(ctx, UserCreated{...})            // skipped (no sender)
//
// # Weak Subscriptions
//
// SubscribeMethod and SubscribeReceiver hold their target weakly: the bus
// never keeps a subscriber alive. Once the target becomes unreachable and is
// collected, the subscription reports expired and is purged by the next post
// to its bucket. A missed unsubscribe therefore degrades to a silent drop
// instead of a leak:
//
//	view := NewView()
//	bus.SubscribeMethod(b, view, (*View).OnUserCreated)
//	// ... view goes out of scope, GC runs ...
//	b.Post(ctx, UserCreated{...}) // nothing delivered, registration purged
//
// # Queued Delivery
//
// A subscription may route its deliveries onto a Queue: any executor that
// runs zero-argument tasks later, preserving submission order. Post returns
// once the invocation is scheduled; errors from queued recipients are logged
// through the bus logger rather than returned:
//
//	q := queue.New()
//	defer q.Close()
//	bus.Subscribe(b, onUserCreated, bus.OnQueue(q))
//
// # Delivery Semantics
//
// One post delivers at most once per registered subscription, in
// registration order. Two concurrent posts interleave their delivery phases
// arbitrarily; deliveries routed to the same queue keep that queue's
// submission order, while deliveries to different queues (or inline vs.
// queued) are unordered relative to each other. Unsubscribe only prevents a
// subscription from entering future snapshots; it does not cancel an
// already-scheduled queued delivery.
package bus
