package asyncservice

import "github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"

// twoLevelDiscipline combines a fixed-capacity external sink with an
// unbounded internal one, giving internal submissions strict priority
// over external ones — the Go counterpart of the Java original's
// TwoLevelTaskQueue, which exists so a service's own follow-up work
// (internal) is never starved by external callers (external).
type twoLevelDiscipline struct {
	external *ringBuffer[*Task]
	internal []*Task
}

func (d *twoLevelDiscipline) IsEmpty() bool {
	return len(d.internal) == 0 && d.external.isEmpty()
}

func (d *twoLevelDiscipline) Poll() (*Task, bool) {
	if len(d.internal) > 0 {
		task := d.internal[0]
		d.internal[0] = nil
		d.internal = d.internal[1:]
		return task, true
	}
	return d.external.poll()
}

func (d *twoLevelDiscipline) DrainTo(out *[]*Task) {
	*out = append(*out, d.internal...)
	d.internal = nil
	d.external.drainTo(out)
}

func (d *twoLevelDiscipline) offerExternal(task *Task) bool {
	return d.external.offer(task)
}

func (d *twoLevelDiscipline) offerInternal(task *Task) bool {
	d.internal = append(d.internal, task)
	return true
}

// TwoLevelQueue exposes two sinks sharing one lock and one consumer side:
// External, bounded and subject to backpressure, and Internal, unbounded
// and always polled first.
type TwoLevelQueue struct {
	queueCore
	discipline   *twoLevelDiscipline
	externalSink *Sink
	internalSink *Sink
}

// NewTwoLevelQueue creates an empty, running TwoLevelQueue whose external
// sink can hold up to 2^externalCapacityLog2 tasks. externalCapacityLog2
// must be in [0, 30].
func NewTwoLevelQueue(externalCapacityLog2 int) *TwoLevelQueue {
	d := &twoLevelDiscipline{external: newRingBuffer[*Task](externalCapacityLog2)}
	base := condqueue.NewBase[*Task](d)
	return &TwoLevelQueue{
		queueCore:    queueCore{base: base},
		discipline:   d,
		externalSink: &Sink{base: base, enqueue: d.offerExternal},
		internalSink: &Sink{base: base, enqueue: d.offerInternal},
	}
}

// ExternalSink is the bounded, backpressured sink meant for callers
// outside the service.
func (q *TwoLevelQueue) ExternalSink() *Sink {
	return q.externalSink
}

// InternalSink is the unbounded, priority sink meant for the service's own
// follow-up submissions.
func (q *TwoLevelQueue) InternalSink() *Sink {
	return q.internalSink
}

// ExternalCapacity returns the maximum number of tasks the external sink
// can hold.
func (q *TwoLevelQueue) ExternalCapacity() int {
	return q.discipline.external.capacity()
}
