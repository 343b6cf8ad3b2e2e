package bus

import "sync"

// defaultBus lazily creates the process-wide shared bus. Created once,
// never torn down.
var defaultBus = sync.OnceValue(func() *Bus {
	return New()
})

// Default returns the process-wide shared bus, creating it on first use.
// Prefer an explicitly constructed Bus wherever ownership is clear; Default
// exists for components with no common composition root.
func Default() *Bus {
	return defaultBus()
}
