package event

import (
	"sync"
	"time"
)

// DispatchMode selects where host callbacks run (spec.md §4.2, §5).
type DispatchMode uint8

const (
	// InCaller runs every callback synchronously on the thread invoking the
	// engine (spec.md's synchronous start).
	InCaller DispatchMode = iota
	// MainThread queues every callback onto the host-designated main thread
	// via Pump; the worker blocks only for request/reply events.
	MainThread
)

// DefaultNotifyInterval is the §3 default for notify_interval (100_000us).
const DefaultNotifyInterval = 100_000 * time.Microsecond

// Bus delivers events from an engine to the host (spec.md §4.2).
type Bus struct {
	handlers Handlers
	mode     DispatchMode
	interval time.Duration

	queue chan func()

	mu         sync.Mutex
	lastNotify time.Time
	terminated bool
}

// New creates a Bus. notifyInterval <= 0 falls back to DefaultNotifyInterval.
func New(handlers Handlers, mode DispatchMode, notifyInterval time.Duration) *Bus {
	if notifyInterval <= 0 {
		notifyInterval = DefaultNotifyInterval
	}

	b := &Bus{
		handlers: handlers,
		mode:     mode,
		interval: notifyInterval,
	}

	if mode == MainThread {
		b.queue = make(chan func(), 64)
	}

	return b
}

// dispatch runs fn according to the bus's mode: inline for InCaller, or
// queued for the host's Pump loop for MainThread. It blocks until fn has
// run either way, which is what request/reply events need; notify-only
// events use dispatchAsync instead to avoid stalling the worker.
func (b *Bus) dispatch(fn func()) {
	if b.mode == InCaller {
		fn()
		return
	}

	done := make(chan struct{})
	b.queue <- func() {
		fn()
		close(done)
	}
	<-done
}

// dispatchAsync runs fn without waiting for MainThread delivery; the worker
// continues immediately. Order is preserved because the queue is a single
// FIFO channel with one producer (the engine's driver goroutine).
func (b *Bus) dispatchAsync(fn func()) {
	if b.mode == InCaller {
		fn()
		return
	}
	b.queue <- fn
}

// Pump runs on the host's designated main thread, executing queued
// callbacks in order until Close is called. It is a no-op for InCaller
// buses (there is nothing to pump).
func (b *Bus) Pump() {
	if b.mode != MainThread {
		return
	}
	for fn := range b.queue {
		fn()
	}
}

// Close signals Pump to return once the queue drains. Call this exactly
// once, after the engine's terminal event has been emitted.
func (b *Bus) Close() {
	if b.mode == MainThread {
		close(b.queue)
	}
}

func (b *Bus) EmitScanned(totalFiles uint64) {
	b.dispatchAsync(func() { b.handlers.scanned(totalFiles) })
}

// EmitDecideDestinationExtract is synchronous: the engine waits for the
// host's reply before proceeding (spec.md §4.2).
func (b *Bus) EmitDecideDestinationExtract(proposed string, entries []string) (replacement string, ok bool) {
	b.dispatch(func() {
		replacement, ok = b.handlers.decideDestinationExtract(proposed, entries)
	})
	return
}

func (b *Bus) EmitDecideDestinationCompress(chosen string) {
	b.dispatchAsync(func() { b.handlers.decideDestinationCompress(chosen) })
}

// EmitProgress enforces the notify_interval throttle (spec.md §3), except
// when force is true (the final cleanup emission, spec.md §4.6.6).
func (b *Bus) EmitProgress(completedSize, completedFiles, totalSize, totalFiles uint64, force bool) {
	b.mu.Lock()
	now := time.Now()
	if !force && !b.lastNotify.IsZero() && now.Sub(b.lastNotify) < b.interval {
		b.mu.Unlock()
		return
	}
	b.lastNotify = now
	b.mu.Unlock()

	b.dispatchAsync(func() {
		b.handlers.progress(completedSize, completedFiles, totalSize, totalFiles)
	})
}

// EmitConflict is synchronous and returns the host's decision.
func (b *Bus) EmitConflict(path string) (decision ConflictDecision) {
	b.dispatch(func() {
		decision = b.handlers.conflict(path)
	})
	return
}

// EmitRequestPassphrase is synchronous and returns the host's reply.
func (b *Bus) EmitRequestPassphrase() (passphrase string, ok bool) {
	b.dispatch(func() {
		passphrase, ok = b.handlers.requestPassphrase()
	})
	return
}

// terminal* emit exactly one of {Cancelled, Completed, Error} (spec.md §4.2)
// and mark the bus terminated; subsequent terminal calls are no-ops so a
// caller cannot accidentally violate the "exactly one" invariant.

func (b *Bus) EmitCancelled() {
	if !b.markTerminated() {
		return
	}
	b.dispatchAsync(func() { b.handlers.cancelled() })
}

func (b *Bus) EmitCompleted() {
	if !b.markTerminated() {
		return
	}
	b.dispatchAsync(func() { b.handlers.completed() })
}

func (b *Bus) EmitError(err error) {
	if !b.markTerminated() {
		return
	}
	b.dispatchAsync(func() { b.handlers.errored(err) })
}

func (b *Bus) markTerminated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.terminated {
		return false
	}
	b.terminated = true
	return true
}
