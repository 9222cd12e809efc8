package asyncservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoushitsu/go-asyncservice/asyncservice/internal/phaser"
)

// WorkerPool runs a fixed number of goroutines, each repeatedly calling a
// loop function until the pool is closed. It is the Go counterpart of the
// Java original's FixedLoopingRunnablePool: a Phaser makes Start block
// until every worker has actually begun looping, and another makes Close
// block until every worker has actually exited its loop, or a deadline
// passes, in which case any still-running workers are abandoned rather
// than waited on forever.
type WorkerPool struct {
	threading Threading
	loop      func(ctx context.Context, workerName string)

	startPhaser *phaser.Phaser
	closePhaser *phaser.Phaser

	closeOnce sync.Once
	cancel    context.CancelFunc
}

// NewWorkerPool creates a WorkerPool of threading.Count goroutines, each
// running loop until the pool is closed. threading.Count must be >= 1.
func NewWorkerPool(threading Threading, loop func(ctx context.Context, workerName string)) *WorkerPool {
	if threading.Count < 1 {
		panic(fmt.Sprintf("asyncservice: worker pool thread count must be >= 1, got %d", threading.Count))
	}
	return &WorkerPool{
		threading:   threading,
		loop:        loop,
		startPhaser: phaser.New(threading.Count),
		closePhaser: phaser.New(threading.Count),
	}
}

// Start launches every worker goroutine and blocks until all of them have
// begun running, or ctx is done first.
func (p *WorkerPool) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(p.threading.context())
	p.cancel = cancel

	for i := 0; i < p.threading.Count; i++ {
		go p.runWorker(runCtx, i)
	}

	_, err := p.startPhaser.AwaitAdvance(ctx, 0)
	return err
}

func (p *WorkerPool) runWorker(ctx context.Context, index int) {
	name := p.threading.threadName(index)
	p.startPhaser.Arrive()

	for ctx.Err() == nil {
		p.loop(ctx, name)
	}

	p.closePhaser.Arrive()
}

// Close signals every worker to stop and blocks until they have all
// exited, or timeout elapses first. A timeout of zero or less waits
// forever. Workers still running when the timeout elapses are abandoned:
// Close returns false but their goroutines are left running, mirroring
// the Java original's best-effort graceful shutdown. Close is safe to
// call more than once: the first call signals cancellation immediately,
// and every call waits for the close barrier under its own timeout.
func (p *WorkerPool) Close(timeout time.Duration) (clean bool) {
	p.closeOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	_, err := p.closePhaser.AwaitAdvance(ctx, 0)
	return err == nil
}
