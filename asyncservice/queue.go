package asyncservice

import (
	"context"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"
)

// Queue is the consumer- and lifecycle-facing side of a task queue, common
// to every discipline. Producers use a Sink (or, for SplittingQueue, its
// own keyed Offer/Put functions) instead.
type Queue interface {
	// Take blocks until a task is available or the queue terminates. It
	// returns ok == false once the queue has terminated and drained, or
	// a non-nil error if ctx is canceled first.
	Take(ctx context.Context) (task *Task, ok bool, err error)

	// Terminate stops the queue from accepting new work and wakes every
	// blocked producer and consumer. Already-queued tasks remain
	// available to Take until drained.
	Terminate()

	// DrainTo appends every task still queued, in discipline-defined
	// order, to out.
	DrainTo(out *[]*Task)

	// AfterRun notifies the queue that task, previously returned by
	// Take, has finished running. Disciplines that don't need this
	// (everything except SplittingQueue) treat it as a no-op.
	AfterRun(task *Task)
}

// queueCore implements the consumer-facing half of Queue by delegating to
// a condqueue.Base; every concrete queue type embeds it.
type queueCore struct {
	base *condqueue.Base[*Task]
}

func (c *queueCore) Take(ctx context.Context) (*Task, bool, error) {
	return c.base.TakeIfNotTerminated(ctx)
}

func (c *queueCore) Terminate() {
	c.base.Terminate()
}

func (c *queueCore) DrainTo(out *[]*Task) {
	c.base.DrainTo(out)
}

func (c *queueCore) AfterRun(task *Task) {
	c.base.AfterCallback(task)
}
