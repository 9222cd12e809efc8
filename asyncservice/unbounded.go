package asyncservice

import "github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"

// unboundedDiscipline is a plain FIFO with no capacity limit, the Go
// counterpart of the Java original's UnboundedTaskQueue.
type unboundedDiscipline struct {
	items []*Task
}

func (d *unboundedDiscipline) IsEmpty() bool {
	return len(d.items) == 0
}

func (d *unboundedDiscipline) Poll() (*Task, bool) {
	if len(d.items) == 0 {
		return nil, false
	}
	task := d.items[0]
	d.items[0] = nil
	d.items = d.items[1:]
	return task, true
}

func (d *unboundedDiscipline) DrainTo(out *[]*Task) {
	*out = append(*out, d.items...)
	d.items = nil
}

func (d *unboundedDiscipline) offer(task *Task) bool {
	d.items = append(d.items, task)
	return true
}

// UnboundedQueue is a task queue with no capacity limit: Put never blocks
// and Offer never fails for lack of space.
type UnboundedQueue struct {
	queueCore
	discipline *unboundedDiscipline
	sink       *Sink
}

// NewUnboundedQueue creates an empty, running UnboundedQueue.
func NewUnboundedQueue() *UnboundedQueue {
	d := &unboundedDiscipline{}
	base := condqueue.NewBase[*Task](d)
	return &UnboundedQueue{
		queueCore:  queueCore{base: base},
		discipline: d,
		sink:       &Sink{base: base, enqueue: d.offer},
	}
}

// Sink returns the queue's single producer-facing sink.
func (q *UnboundedQueue) Sink() *Sink {
	return q.sink
}
