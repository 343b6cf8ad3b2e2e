// Package queue provides a serial FIFO task executor.
//
// Serial runs submitted zero-argument tasks one at a time on a single
// worker goroutine, preserving submission order. It is the standard
// executor for queue-routed bus subscriptions, but has no dependency on
// the bus and can run any deferred work that needs strict ordering.
//
//	q := queue.New()
//	defer q.Close()
//
//	q.Enqueue(func() { refreshCache() })
//	q.Enqueue(func() { notifyObservers() }) // runs after refreshCache
//
// Task panics are recovered and logged so one failing task cannot stall
// the tasks behind it. Flush waits for already-submitted work; Close stops
// intake and drains what remains.
package queue
