// Package condwait makes sync.Cond waits cancellation-aware, the
// substitute this module uses throughout for Java's
// InterruptedException-on-Condition.await() pattern: a context.Context
// plays the role of the interrupt flag.
package condwait

import (
	"context"
	"sync"
)

// Until blocks on cond.Wait() until done reports true, ctx is canceled, or
// (if ctx is nil) forever. mu is the mutex backing cond and must already
// be held by the caller.
func Until(ctx context.Context, mu *sync.Mutex, cond *sync.Cond, done func() bool) error {
	if ctx == nil || ctx.Done() == nil {
		for !done() {
			cond.Wait()
		}
		return nil
	}
	// context.AfterFunc fires (possibly on another goroutine) once ctx is
	// done; broadcasting wakes this waiter so it can observe ctx.Err().
	stop := context.AfterFunc(ctx, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	defer stop()
	for !done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cond.Wait()
	}
	return nil
}

// Once blocks for a single cond.Wait(), returning early with ctx's error
// if ctx is already done or becomes done while waiting. Use this (rather
// than Until) when the caller's own loop re-evaluates its retry condition
// after every wakeup, e.g. a producer retrying an enqueue attempt after
// each "not full" notification.
func Once(ctx context.Context, mu *sync.Mutex, cond *sync.Cond) error {
	if ctx == nil || ctx.Done() == nil {
		cond.Wait()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() {
		mu.Lock()
		cond.Broadcast()
		mu.Unlock()
	})
	defer stop()
	cond.Wait()
	return ctx.Err()
}
