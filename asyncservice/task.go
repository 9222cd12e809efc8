package asyncservice

import (
	"fmt"
	"sync/atomic"
)

// Task pairs a computation with the callback that should receive its
// outcome. It is type-erased internally (computation returns any) so that
// queues and worker pools can handle a heterogeneous mix of Task[R] for
// different R, the same role Java's Task<?> plays via wildcard generics.
//
// A Task delivers its callback exactly once, whether by running to
// completion, failing, or being terminated unrun.
type Task struct {
	computation func() (any, error)
	callback    callbackSink
	completed   atomic.Bool

	// splitKey is set only for tasks submitted through a SplittingQueue;
	// it is how the discipline finds its way back to the bucket a
	// completed task belongs to, without requiring every Discipline to
	// know about keys.
	splitKey any
}

func newTask[R any](computation func() (R, error), callback Callback[R]) *Task {
	return &Task{
		computation: func() (any, error) {
			return computation()
		},
		callback: eraseCallback(callback),
	}
}

// run executes the computation, capturing its result or error (a panic
// counts as an error), then CASes completed from false to true. If the
// task was already completed — terminate() beat run() to it — the
// outcome is discarded; otherwise it is delivered to the callback.
func (t *Task) run() {
	result, err := t.invoke()
	if !t.completed.CompareAndSwap(false, true) {
		return
	}
	if err != nil {
		t.callback.onFailure(err)
		return
	}
	t.callback.onSuccess(result)
}

func (t *Task) invoke() (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("asyncservice: task computation panicked: %v", r)
		}
	}()
	return t.computation()
}

// terminate delivers OnTermination if no outcome has been delivered yet.
// Used when a queue is closed while the task is still pending.
func (t *Task) terminate() {
	if !t.completed.CompareAndSwap(false, true) {
		return
	}
	t.callback.onTermination()
}
