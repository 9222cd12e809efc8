package asyncservice

import (
	"context"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"
)

// Sink is the producer-facing side of a task queue: Unbounded, Bounded and
// TwoLevel queues each expose one or more Sinks (TwoLevel exposes two,
// External and Internal, sharing one lock). SplittingQueue has no Sink of
// its own; it is submitted to through SplittingOffer/SplittingPut instead,
// since every submission needs a bucket key.
type Sink struct {
	base    *condqueue.Base[*Task]
	enqueue func(*Task) bool
}

// Offer submits a computation and its callback without blocking. It
// returns false only when the sink's physical storage is full, in which
// case the callback is never invoked. If the queue has already
// terminated, Offer still returns true, but delivers OnTermination
// immediately instead of queuing the task: true means the system is
// handling the callback contract, false means the caller must retry or
// abandon.
func Offer[R any](sink *Sink, computation func() (R, error), callback Callback[R]) bool {
	return offerTask(sink.base, sink.enqueue, newTask(computation, callback))
}

func offerTask(base *condqueue.Base[*Task], enqueue func(*Task) bool, task *Task) bool {
	accepted, running := base.Offer(func() bool { return enqueue(task) })
	if !running {
		task.terminate()
		return true
	}
	return accepted
}

// Put submits a computation and its callback, blocking until space is
// available or the queue terminates. If the queue terminates while
// blocked (or has already terminated), OnTermination is delivered
// directly to callback and Put returns nil. Put returns a non-nil error
// only when ctx is canceled before the task can be enqueued; in that
// case the queue is left unchanged and the callback is never invoked,
// since the caller did not successfully submit.
func Put[R any](ctx context.Context, sink *Sink, computation func() (R, error), callback Callback[R]) error {
	return putTask(ctx, sink.base, sink.enqueue, newTask(computation, callback))
}

func putTask(ctx context.Context, base *condqueue.Base[*Task], enqueue func(*Task) bool, task *Task) error {
	accepted, err := base.Put(ctx, func() bool { return enqueue(task) })
	if err != nil {
		return err
	}
	if !accepted {
		task.terminate()
	}
	return nil
}
