package bus_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/broadcast/core/bus"
)

// observer counts deliveries through a bound method. The seen slice keeps
// the struct pointer-bearing: tiny pointer-free objects share allocator
// blocks with unrelated live allocations and can outlive their last
// reference, which would defeat the collection tests below.
type observer struct {
	calls atomic.Int64
	seen  []ping
}

func newObserver() *observer {
	return &observer{seen: make([]ping, 0, 1)}
}

func (o *observer) OnPing(ctx context.Context, msg ping) error {
	o.calls.Add(1)
	o.seen = append(o.seen, msg)
	return nil
}

func (o *observer) OnPingFrom(ctx context.Context, msg ping, sender any) error {
	o.calls.Add(1)
	o.seen = append(o.seen, msg)
	return nil
}

// receiver implements bus.Receiver[ping] for the interface variant.
// Pointer-bearing for the same reason as observer.
type receiver struct {
	calls atomic.Int64
	seen  []ping
}

func newReceiver() *receiver {
	return &receiver{seen: make([]ping, 0, 1)}
}

func (r *receiver) ReceiveMessage(ctx context.Context, msg ping, sender any) error {
	r.calls.Add(1)
	r.seen = append(r.seen, msg)
	return nil
}

// collect runs the garbage collector enough times for unreachable weak
// targets to be reclaimed.
func collect() {
	runtime.GC()
	runtime.GC()
}

func TestSubscribeMethod_WeakLifetime(t *testing.T) {
	t.Run("delivers while target is alive", func(t *testing.T) {
		b := bus.New()
		obs := newObserver()

		bus.SubscribeMethod(b, obs, (*observer).OnPing)

		require.NoError(t, b.Post(context.Background(), ping{}))
		assert.Equal(t, int64(1), obs.calls.Load())
	})

	t.Run("sender-aware method receives the sender", func(t *testing.T) {
		b := bus.New()
		obs := newObserver()
		sender := &struct{}{}

		bus.SubscribeMethodWithSender(b, obs, (*observer).OnPingFrom)

		require.NoError(t, b.PostFrom(context.Background(), ping{}, sender))
		assert.Equal(t, int64(1), obs.calls.Load())
	})

	t.Run("collected target stops receiving and is purged", func(t *testing.T) {
		b := bus.New()

		// Register from a helper so no local strong reference survives.
		func() {
			obs := newObserver()
			bus.SubscribeMethod(b, obs, (*observer).OnPing)
		}()
		require.Equal(t, 1, bus.Count[ping](b))

		collect()

		// The next post observes the expired wrapper: zero deliveries,
		// and the registration is purged from the bucket.
		require.NoError(t, b.Post(context.Background(), ping{}))
		assert.Equal(t, 0, bus.Count[ping](b))
		assert.Equal(t, 0, b.Size())
	})

	t.Run("registration does not keep the target alive", func(t *testing.T) {
		b := bus.New()

		obs := newObserver()
		bus.SubscribeMethod(b, obs, (*observer).OnPing)

		require.NoError(t, b.Post(context.Background(), ping{}))
		require.Equal(t, int64(1), obs.calls.Load())

		obs = nil
		_ = obs
		collect()

		require.NoError(t, b.Post(context.Background(), ping{}))
		assert.Equal(t, 0, bus.Count[ping](b))
	})

	t.Run("nil target panics", func(t *testing.T) {
		b := bus.New()
		assert.Panics(t, func() {
			bus.SubscribeMethod(b, (*observer)(nil), (*observer).OnPing)
		})
	})
}

func TestSubscribeReceiver_WeakLifetime(t *testing.T) {
	t.Run("delivers while target is alive", func(t *testing.T) {
		b := bus.New()
		r := newReceiver()
		sender := &struct{}{}

		bus.SubscribeReceiver[ping](b, r)

		require.NoError(t, b.PostFrom(context.Background(), ping{}, sender))
		assert.Equal(t, int64(1), r.calls.Load())
	})

	t.Run("collected target stops receiving and is purged", func(t *testing.T) {
		b := bus.New()

		func() {
			r := newReceiver()
			bus.SubscribeReceiver[ping](b, r)
		}()
		require.Equal(t, 1, bus.Count[ping](b))

		collect()

		require.NoError(t, b.Post(context.Background(), ping{}))
		assert.Equal(t, 0, bus.Count[ping](b))
		assert.Equal(t, 0, b.Size())
	})

	t.Run("explicit unsubscribe still works", func(t *testing.T) {
		b := bus.New()
		r := newReceiver()

		id := bus.SubscribeReceiver[ping](b, r)
		b.Unsubscribe(id)

		require.NoError(t, b.Post(context.Background(), ping{}))
		assert.Equal(t, int64(0), r.calls.Load())
	})
}
