package asyncservice

import "github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"

// boundedDiscipline is a fixed-capacity FIFO backed by a ring buffer, the
// Go counterpart of the Java original's BoundedTaskQueue.
type boundedDiscipline struct {
	buf *ringBuffer[*Task]
}

func (d *boundedDiscipline) IsEmpty() bool {
	return d.buf.isEmpty()
}

func (d *boundedDiscipline) Poll() (*Task, bool) {
	return d.buf.poll()
}

func (d *boundedDiscipline) DrainTo(out *[]*Task) {
	d.buf.drainTo(out)
}

func (d *boundedDiscipline) offer(task *Task) bool {
	return d.buf.offer(task)
}

// BoundedQueue is a task queue with a fixed, power-of-two capacity: Offer
// reports false once full, and Put blocks until a consumer frees space.
type BoundedQueue struct {
	queueCore
	discipline *boundedDiscipline
	sink       *Sink
}

// NewBoundedQueue creates an empty, running BoundedQueue able to hold up
// to 2^capacityLog2 tasks. capacityLog2 must be in [0, 30].
func NewBoundedQueue(capacityLog2 int) *BoundedQueue {
	d := &boundedDiscipline{buf: newRingBuffer[*Task](capacityLog2)}
	base := condqueue.NewBase[*Task](d)
	return &BoundedQueue{
		queueCore:  queueCore{base: base},
		discipline: d,
		sink:       &Sink{base: base, enqueue: d.offer},
	}
}

// Sink returns the queue's single producer-facing sink.
func (q *BoundedQueue) Sink() *Sink {
	return q.sink
}

// Capacity returns the maximum number of tasks the queue can hold.
func (q *BoundedQueue) Capacity() int {
	return q.discipline.buf.capacity()
}
