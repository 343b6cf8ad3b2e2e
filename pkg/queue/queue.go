package queue

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/broadcast/core/config"
	"github.com/dmitrymomot/broadcast/core/logger"
)

// DefaultBufferSize is the task buffer size used when none is configured.
const DefaultBufferSize = 64

// Serial executes submitted tasks one at a time, in submission order, on a
// single worker goroutine. It satisfies the bus.Queue executor contract and
// is the standard delivery queue for asynchronous subscriptions.
//
// Enqueue is non-blocking while the buffer has room and blocks when it is
// full; tasks are never dropped silently while the queue is open. Size the
// buffer for peak fan-out: a task that re-enqueues onto its own full queue
// deadlocks.
type Serial struct {
	tasks   chan func()
	done    chan struct{}
	pending sync.WaitGroup
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// Config holds environment-driven queue settings for NewFromEnv.
type Config struct {
	BufferSize int `env:"QUEUE_BUFFER_SIZE" envDefault:"64"`
}

// Option configures a Serial queue.
type Option func(*Serial)

// WithBufferSize sets the task buffer size. Default is DefaultBufferSize.
// Non-positive sizes are ignored.
func WithBufferSize(size int) Option {
	return func(s *Serial) {
		if size > 0 {
			s.tasks = make(chan func(), size)
		}
	}
}

// WithLogger configures structured logging for the queue.
// If not set, logging is discarded.
func WithLogger(log *slog.Logger) Option {
	return func(s *Serial) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a serial queue and starts its worker goroutine.
// Close must be called to release the worker.
//
// Example:
//
//	q := queue.New(queue.WithBufferSize(128))
//	defer q.Close()
func New(opts ...Option) *Serial {
	s := &Serial{
		tasks:  make(chan func(), DefaultBufferSize),
		done:   make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.run()

	return s
}

// NewFromEnv creates a serial queue configured from environment variables
// (see Config for the recognized settings).
func NewFromEnv(opts ...Option) (*Serial, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(append([]Option{WithBufferSize(cfg.BufferSize)}, opts...)...), nil
}

// Enqueue submits fn for execution after all previously submitted tasks.
// Nil tasks are ignored. Submitting to a closed queue is a logged no-op.
func (s *Serial) Enqueue(fn func()) {
	if fn == nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Warn("task enqueued on closed queue, dropped")
		return
	}

	s.pending.Add(1)
	s.tasks <- fn
}

// Flush blocks until every task submitted before the call has finished
// executing, or the context is cancelled.
func (s *Serial) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake, waits for the worker to drain every outstanding task,
// and releases the worker goroutine. Calling Close on an already-closed
// queue returns ErrClosed.
func (s *Serial) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	close(s.tasks)
	s.mu.Unlock()

	<-s.done
	s.logger.Debug("queue closed")
	return nil
}

// run is the single worker loop; one consumer preserves submission order.
func (s *Serial) run() {
	defer close(s.done)

	for task := range s.tasks {
		s.execute(task)
	}
}

// execute runs one task, recovering panics so a failing task cannot kill
// the worker and stall every task behind it.
func (s *Serial) execute(task func()) {
	defer s.pending.Done()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("queued task panicked",
				slog.Any("panic", r),
				logger.Elapsed(start))
		}
	}()

	task()
}
