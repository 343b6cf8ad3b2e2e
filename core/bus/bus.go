package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"weak"

	"github.com/google/uuid"

	"github.com/dmitrymomot/broadcast/core/logger"
)

// Bus is a typed in-process publish/subscribe dispatcher. Publishers post a
// message value, optionally tagged with a sender identity; every subscriber
// registered for the message's type receives it, filtered by an optional
// sender match, delivered inline or on a designated queue.
//
// A Bus is safe for concurrent use. The registry is guarded by a single
// mutex held only for registry mutation and the snapshot phase of Post,
// never while recipient code runs, so recipients may re-enter the bus freely.
type Bus struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	index   map[SubscriptionID]string // id -> bucket name
	logger  *slog.Logger
}

// bucket holds the registrations for one message type, in registration
// order. Delivery never reorders a bucket; only insertion and removal do.
type bucket struct {
	key  Key
	subs []*subscription
}

// New creates an empty bus.
//
// Example:
//
//	b := bus.New(bus.WithLogger(slog.Default()))
func New(opts ...Option) *Bus {
	b := &Bus{
		buckets: make(map[string]*bucket),
		index:   make(map[SubscriptionID]string),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers a closure for messages of type M. The bus owns the
// closure strongly; the subscription lives until Unsubscribe.
//
// Example:
//
//	id := bus.Subscribe(b, func(ctx context.Context, evt UserCreated) error {
//	    return sendWelcomeEmail(ctx, evt.Email)
//	})
func Subscribe[M any](b *Bus, fn HandlerFunc[M], opts ...SubscribeOption) SubscriptionID {
	if fn == nil {
		panic("bus: nil handler")
	}
	rec := ownedFunc[M]{fn: func(ctx context.Context, msg M, _ any) error {
		return fn(ctx, msg)
	}}
	return b.register(KeyOf[M](), rec, opts)
}

// SubscribeWithSender registers a closure that also receives the sender
// identity attached to each post (nil when the post carried none).
func SubscribeWithSender[M any](b *Bus, fn SenderHandlerFunc[M], opts ...SubscribeOption) SubscriptionID {
	if fn == nil {
		panic("bus: nil handler")
	}
	return b.register(KeyOf[M](), ownedFunc[M]{fn: fn}, opts)
}

// SubscribeMethod registers a method bound to target for messages of type M.
// The target is held weakly: the registration never keeps it alive, and once
// the target is collected the subscription is purged on the next post to its
// bucket. Forgetting to unsubscribe therefore degrades to a silent drop, not
// a leak or a dangling invocation.
//
// Weak lifetime tracks the runtime's view of reachability. Tiny pointer-free
// targets (16 bytes or less) may share an allocation block with unrelated
// live objects and so outlive their last reference; realistic subscriber
// objects, which carry pointers, are collected individually.
//
// Example:
//
//	v := NewView()
//	bus.SubscribeMethod(b, v, (*View).OnUserCreated)
func SubscribeMethod[T any, M any](b *Bus, target *T, method func(*T, context.Context, M) error, opts ...SubscribeOption) SubscriptionID {
	if target == nil {
		panic("bus: nil target")
	}
	if method == nil {
		panic("bus: nil method")
	}
	rec := weakMethod[T, M]{
		target: weak.Make(target),
		fn: func(t *T, ctx context.Context, msg M, _ any) error {
			return method(t, ctx, msg)
		},
	}
	return b.register(KeyOf[M](), rec, opts)
}

// SubscribeMethodWithSender is SubscribeMethod for methods that take the
// sender identity as their last argument.
func SubscribeMethodWithSender[T any, M any](b *Bus, target *T, method func(*T, context.Context, M, any) error, opts ...SubscribeOption) SubscriptionID {
	if target == nil {
		panic("bus: nil target")
	}
	if method == nil {
		panic("bus: nil method")
	}
	rec := weakMethod[T, M]{target: weak.Make(target), fn: method}
	return b.register(KeyOf[M](), rec, opts)
}

// SubscribeReceiver registers an object implementing Receiver[M]. Like
// SubscribeMethod, the object is held weakly, with the same tiny-object
// caveat. The message type usually has to be named explicitly; the target
// type is inferred:
//
//	bus.SubscribeReceiver[UserCreated](b, view)
func SubscribeReceiver[M any, T any, P interface {
	*T
	Receiver[M]
}](b *Bus, target P, opts ...SubscribeOption) SubscriptionID {
	if target == nil {
		panic("bus: nil target")
	}
	rec := weakReceiver[T, M]{
		target: weak.Make((*T)(target)),
		as:     func(t *T) Receiver[M] { return P(t) },
	}
	return b.register(KeyOf[M](), rec, opts)
}

// register is the single primitive all Subscribe shapes reduce to.
// Relative ordering of concurrent registrations is decided solely by
// lock-acquisition order.
func (b *Bus) register(key Key, rec recipient, opts []SubscribeOption) SubscriptionID {
	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sub := &subscription{
		id:     SubscriptionID(uuid.NewString()),
		rec:    rec,
		sender: cfg.sender,
		queue:  cfg.queue,
	}

	b.mu.Lock()
	bk, ok := b.buckets[key.name]
	if !ok {
		bk = &bucket{key: key}
		b.buckets[key.name] = bk
	}
	bk.subs = append(bk.subs, sub)
	b.index[sub.id] = key.name
	b.mu.Unlock()

	b.logger.Debug("subscription registered",
		slog.String("type", key.name),
		logger.ID("subscription_id", string(sub.id)))

	return sub.id
}

// Unsubscribe removes the subscription with the given id. Unsubscribing an
// unknown or already-removed id is a no-op, never an error. Removal only
// prevents inclusion in future post snapshots; a delivery already scheduled
// on a queue is not cancelled.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name, ok := b.index[id]
	if !ok {
		return
	}
	delete(b.index, id)

	bk, ok := b.buckets[name]
	if !ok {
		return
	}
	for i, sub := range bk.subs {
		if sub.id == id {
			bk.subs = append(bk.subs[:i], bk.subs[i+1:]...)
			break
		}
	}
	if len(bk.subs) == 0 {
		delete(b.buckets, name)
	}
}

// Post delivers msg to every live subscription registered for its dynamic
// type, in registration order, with no sender identity attached.
func (b *Bus) Post(ctx context.Context, msg any) error {
	return b.PostFrom(ctx, msg, nil)
}

// PostFrom delivers msg tagged with the given sender identity.
//
// The registry lock is held only while the matching bucket is snapshotted;
// expired registrations are purged from the bucket in the same pass. The
// lock is released before any recipient runs, so recipients may subscribe,
// unsubscribe, or post without deadlocking: they observe either the pre-
// or post-purge registry, never a partial state.
//
// Subscriptions whose sender filter does not match are skipped silently.
// Queue-bound subscriptions are scheduled fire-and-forget; their errors are
// logged, not returned. Inline subscriptions run synchronously on the
// caller's goroutine; their errors are collected per recipient and
// aggregated with errors.Join, so one failing recipient does not stop the
// rest of the snapshot. PostFrom returns once every inline invocation has
// completed and every queued one has been scheduled.
func (b *Bus) PostFrom(ctx context.Context, msg any, sender any) error {
	if msg == nil {
		return ErrNilMessage
	}

	key := KeyFor(msg)

	b.mu.Lock()
	var snapshot []*subscription
	if bk, ok := b.buckets[key.name]; ok && bk.key.Matches(msg) {
		snapshot = make([]*subscription, 0, len(bk.subs))
		live := bk.subs[:0]
		for _, sub := range bk.subs {
			if sub.rec.expired() {
				delete(b.index, sub.id)
				continue
			}
			live = append(live, sub)
			snapshot = append(snapshot, sub)
		}
		bk.subs = live
		if len(bk.subs) == 0 {
			delete(b.buckets, key.name)
		}
	}
	b.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}

	// A sender whose dynamic type is not comparable can never equal a filter
	// identity, and comparing it with == would panic. Filtered subscriptions
	// skip such posts.
	filterable := sender != nil && reflect.TypeOf(sender).Comparable()

	var errs []error
	for _, sub := range snapshot {
		if sub.sender != nil && (!filterable || sub.sender != sender) {
			continue
		}

		if sub.queue != nil {
			rec, id := sub.rec, sub.id
			sub.queue.Enqueue(func() {
				if err := rec.invoke(ctx, msg, sender); err != nil {
					b.logger.ErrorContext(ctx, "queued recipient failed",
						slog.String("type", key.name),
						logger.ID("subscription_id", string(id)),
						logger.Error(err))
				}
			})
			continue
		}

		if err := sub.rec.invoke(ctx, msg, sender); err != nil {
			errs = append(errs, fmt.Errorf("recipient %s: %w", sub.id, err))
		}
	}

	return errors.Join(errs...)
}

// Size returns the total number of registered subscriptions, including
// expired ones that have not been purged by a post yet.
func (b *Bus) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.index)
}

// Count returns the number of subscriptions currently registered for the
// message type M. Expired subscriptions are counted until the next post to
// the bucket purges them.
func Count[M any](b *Bus) int {
	key := KeyOf[M]()

	b.mu.Lock()
	defer b.mu.Unlock()

	bk, ok := b.buckets[key.name]
	if !ok {
		return 0
	}
	return len(bk.subs)
}
