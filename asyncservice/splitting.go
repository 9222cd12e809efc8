package asyncservice

import (
	"context"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/condqueue"
)

// splittingDiscipline buckets tasks by a caller-supplied key and never
// lets two tasks of the same key run concurrently: once a task is taken
// for a key, that key's bucket is locked until AfterCallback reports the
// task finished. Polling walks keys in first-submission order, skipping
// locked buckets — the Go counterpart of the Java original's
// SplittingTaskQueue, used when tasks must be serialized per-entity but
// unrelated entities should still run in parallel.
type splittingDiscipline struct {
	buckets map[any][]*Task
	order   []any
	locked  map[any]struct{}
}

func newSplittingDiscipline() *splittingDiscipline {
	return &splittingDiscipline{
		buckets: make(map[any][]*Task),
		locked:  make(map[any]struct{}),
	}
}

func (d *splittingDiscipline) IsEmpty() bool {
	for _, key := range d.order {
		if _, locked := d.locked[key]; locked {
			continue
		}
		if len(d.buckets[key]) > 0 {
			return false
		}
	}
	return true
}

func (d *splittingDiscipline) Poll() (*Task, bool) {
	for _, key := range d.order {
		if _, locked := d.locked[key]; locked {
			continue
		}
		bucket := d.buckets[key]
		if len(bucket) == 0 {
			continue
		}
		task := bucket[0]
		bucket[0] = nil
		d.buckets[key] = bucket[1:]
		d.locked[key] = struct{}{}
		return task, true
	}
	return nil, false
}

func (d *splittingDiscipline) DrainTo(out *[]*Task) {
	for _, key := range d.order {
		*out = append(*out, d.buckets[key]...)
	}
	d.buckets = make(map[any][]*Task)
	d.order = nil
	d.locked = make(map[any]struct{})
}

func (d *splittingDiscipline) offer(key any, task *Task) bool {
	if _, exists := d.buckets[key]; !exists {
		d.order = append(d.order, key)
	}
	d.buckets[key] = append(d.buckets[key], task)
	return true
}

// AfterCallback unlocks task's bucket, letting its next queued task (if
// any) become pollable again.
func (d *splittingDiscipline) AfterCallback(task *Task) bool {
	delete(d.locked, task.splitKey)
	return true
}

// SplittingQueue is an unbounded task queue that serializes tasks sharing
// a bucket key while letting tasks with different keys run concurrently
// across the worker pool. Unlike the other disciplines it has no Sink:
// every submission needs a key, so use SplittingOffer/SplittingPut
// directly.
type SplittingQueue struct {
	queueCore
	discipline *splittingDiscipline
}

// NewSplittingQueue creates an empty, running SplittingQueue.
func NewSplittingQueue() *SplittingQueue {
	d := newSplittingDiscipline()
	base := condqueue.NewBase[*Task](d)
	return &SplittingQueue{
		queueCore:  queueCore{base: base},
		discipline: d,
	}
}

// SplittingOffer submits a computation and its callback under the given
// bucket key without blocking; SplittingQueue is unbounded, so this never
// fails on capacity. If the queue has already terminated, OnTermination
// is delivered immediately and SplittingOffer still returns true.
func SplittingOffer[R any](q *SplittingQueue, key any, computation func() (R, error), callback Callback[R]) bool {
	task := newTask(computation, callback)
	task.splitKey = key
	return offerTask(q.base, func(t *Task) bool { return q.discipline.offer(key, t) }, task)
}

// SplittingPut submits a computation and its callback under the given
// bucket key, blocking until the queue accepts it or terminates.
// SplittingQueue is unbounded, so this never waits for space. If the
// queue has already terminated, OnTermination is delivered immediately
// and SplittingPut returns nil.
func SplittingPut[R any](ctx context.Context, q *SplittingQueue, key any, computation func() (R, error), callback Callback[R]) error {
	task := newTask(computation, callback)
	task.splitKey = key
	return putTask(ctx, q.base, func(t *Task) bool { return q.discipline.offer(key, t) }, task)
}
