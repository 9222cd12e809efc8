// Package condqueue provides the shared lock-plus-two-condition queue
// protocol every queue discipline in this module is built from — one
// mutex, a "notFull" condition signaled when space frees (or the queue
// terminates), and a "notEmpty" condition signaled when an item arrives
// (or the queue terminates). It generalizes the single fixed-FIFO
// mutex+sync.Cond queue the teacher hand-rolls in pkg/pool/queue.go into
// a base that any pluggable Discipline can sit behind.
package condqueue

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/condwait"
)

// Discipline determines the ordering, capacity, and eviction behavior of
// a condqueue.Base. Implementations are never called concurrently by
// Base — every method below runs with Base's lock held.
type Discipline[T any] interface {
	// IsEmpty reports whether the discipline currently holds no item
	// available for a consumer. For disciplines with internal
	// constraints (e.g. bucket-locking), this may be true even if items
	// are physically queued.
	IsEmpty() bool

	// Poll removes and returns the next available item, or reports
	// ok == false if none is available.
	Poll() (item T, ok bool)

	// DrainTo appends every remaining item, in discipline-defined order,
	// to out, then clears the discipline's storage.
	DrainTo(out *[]T)
}

// AfterCallbackHook is implemented by disciplines that need to react
// once an item taken from the queue has finished running (e.g.
// splitting's bucket unlock). AfterCallback returns true if the
// discipline's state may have changed in a way that could unblock
// waiting producers or consumers.
type AfterCallbackHook[T any] interface {
	AfterCallback(item T) bool
}

// Base is the shared synchronization core. It owns the mutex and the two
// conditions; a Discipline owns only the storage and ordering decisions.
type Base[T any] struct {
	mu         sync.Mutex
	notFull    *sync.Cond
	notEmpty   *sync.Cond
	running    atomic.Bool
	discipline Discipline[T]
	afterHook  AfterCallbackHook[T] // nil if discipline doesn't implement it
}

// NewBase wraps a Discipline with the shared lock/condition protocol. The
// queue starts in the running state.
func NewBase[T any](discipline Discipline[T]) *Base[T] {
	b := &Base[T]{discipline: discipline}
	b.notFull = sync.NewCond(&b.mu)
	b.notEmpty = sync.NewCond(&b.mu)
	b.running.Store(true)
	if hook, ok := discipline.(AfterCallbackHook[T]); ok {
		b.afterHook = hook
	}
	return b
}

// Running reports whether Terminate has not yet been called.
func (b *Base[T]) Running() bool {
	return b.running.Load()
}

// TakeIfNotTerminated blocks until an item is available or the queue is
// terminated, then removes and returns it. It returns ok == false if the
// queue terminated while empty, or a non-nil error if ctx was canceled
// first.
func (b *Base[T]) TakeIfNotTerminated(ctx context.Context) (item T, ok bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	err = condwait.Until(ctx, &b.mu, b.notEmpty, func() bool {
		return !b.discipline.IsEmpty() || !b.running.Load()
	})
	if err != nil {
		return item, false, err
	}

	item, ok = b.discipline.Poll()
	if ok {
		b.notFull.Signal()
	}
	return item, ok, nil
}

// AfterCallback notifies the discipline that item, previously taken from
// this queue, has finished running. If the discipline reports that its
// state may have changed, both conditions are broadcast so blocked
// producers and consumers re-check.
func (b *Base[T]) AfterCallback(item T) {
	if b.afterHook == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.afterHook.AfterCallback(item) {
		b.notEmpty.Broadcast()
		b.notFull.Broadcast()
	}
}

// DrainTo empties the discipline's storage into out.
func (b *Base[T]) DrainTo(out *[]T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.discipline.DrainTo(out)
}

// Terminate marks the queue as no longer running and wakes every blocked
// producer and consumer.
func (b *Base[T]) Terminate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running.Store(false)
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
}

// Offer attempts a single non-blocking enqueue under the queue's lock.
// enqueue is called only if the queue is still running; its return value
// is the success/failure of the attempt. Offer reports (accepted, still
// running) so callers can distinguish "queue full" from "queue
// terminated".
func (b *Base[T]) Offer(enqueue func() bool) (accepted, running bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running.Load() {
		return false, false
	}
	if enqueue() {
		b.notEmpty.Signal()
		return true, true
	}
	return false, true
}

// Put blocks, retrying enqueue under the queue's lock, until enqueue
// succeeds or the queue terminates. It reports (accepted, err); err is
// non-nil only if ctx was canceled while blocked waiting for space, in
// which case accepted is always false and enqueue was never attempted
// again after the cancellation.
func (b *Base[T]) Put(ctx context.Context, enqueue func() bool) (accepted bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.running.Load() {
		if enqueue() {
			b.notEmpty.Signal()
			return true, nil
		}
		if err := condwait.Once(ctx, &b.mu, b.notFull); err != nil {
			return false, err
		}
	}
	return false, nil
}
