package logger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/broadcast/core/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("nil error yields empty attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.Error(nil)
		assert.Empty(t, attr.Key)
	})

	t.Run("non-nil error is keyed as error", func(t *testing.T) {
		t.Parallel()

		err := errors.New("boom")
		attr := logger.Error(err)
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, err, attr.Value.Any())
	})
}

func TestElapsed(t *testing.T) {
	t.Parallel()

	t.Run("elapsed is non-negative", func(t *testing.T) {
		t.Parallel()

		attr := logger.Elapsed(time.Now())
		assert.Equal(t, "elapsed", attr.Key)
		assert.GreaterOrEqual(t, attr.Value.Duration(), time.Duration(0))
	})
}

func TestID(t *testing.T) {
	t.Parallel()

	t.Run("nil value yields empty attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.ID("subscription_id", nil)
		assert.Empty(t, attr.Key)
	})

	t.Run("custom key is preserved", func(t *testing.T) {
		t.Parallel()

		attr := logger.ID("subscription_id", "sub-1")
		assert.Equal(t, "subscription_id", attr.Key)
	})
}
