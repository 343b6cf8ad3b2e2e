package bus

// SubscriptionID is the opaque identifier returned by the Subscribe family
// and accepted by Unsubscribe. IDs are unique per process.
type SubscriptionID string

// subscription is one registration record. It is immutable after creation;
// the bucket list owns it exclusively, the id index holds a non-owning
// cross-reference to its bucket name for O(1) removal.
type subscription struct {
	id     SubscriptionID
	rec    recipient
	sender any   // required sender identity; nil means no filter
	queue  Queue // delivery queue; nil means inline synchronous delivery
}

// Queue is the executor contract for asynchronous delivery: accept a
// zero-argument unit of work and run it later, preserving submission order
// for work submitted to the same queue instance. Delivery to a queue is
// fire-and-forget; the bus never waits for a queued invocation to run.
type Queue interface {
	Enqueue(fn func())
}
