package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/broadcast/core/bus"
)

func TestKey(t *testing.T) {
	t.Parallel()

	t.Run("keys for the same type are equal", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, bus.KeyOf[ping](), bus.KeyOf[ping]())
		assert.Equal(t, bus.KeyOf[ping](), bus.KeyFor(ping{}))
		assert.Equal(t, bus.KeyFor(ping{Seq: 1}), bus.KeyFor(ping{Seq: 2}))
	})

	t.Run("keys for different types differ", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, bus.KeyOf[ping](), bus.KeyOf[pong]())
		assert.NotEqual(t, bus.KeyOf[ping](), bus.KeyOf[*ping]())
	})

	t.Run("name is package qualified", func(t *testing.T) {
		t.Parallel()

		key := bus.KeyOf[ping]()
		assert.Contains(t, key.Name(), "bus_test.ping")
		assert.NotEqual(t, key.Name(), bus.KeyOf[pong]().Name())
	})

	t.Run("matches only the exact dynamic type", func(t *testing.T) {
		t.Parallel()

		key := bus.KeyOf[ping]()
		assert.True(t, key.Matches(ping{}))
		assert.False(t, key.Matches(&ping{}))
		assert.False(t, key.Matches(pong{}))
		assert.False(t, key.Matches(nil))
	})

	t.Run("nil message yields a key matching nothing", func(t *testing.T) {
		t.Parallel()

		key := bus.KeyFor(nil)
		assert.False(t, key.Matches(ping{}))
		assert.False(t, key.Matches(nil))
	})

	t.Run("unnamed types get their type string", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "string", bus.KeyFor("hello").Name())
		assert.Equal(t, "int", bus.KeyOf[int]().Name())
	})
}
