package asyncservice

import "context"

// AsyncChain builds a sequence of computations submitted one after
// another: each step only reaches the queue once the previous one has
// succeeded, and receives the previous step's result as input. It is the
// Go counterpart of the Java original's AsyncChain builder.
//
// AsyncChain itself is not generic — Go forbids a method from introducing
// type parameters beyond its receiver's, so each step is added through a
// free generic function (Call, CallWithOverrides, CallAndDiscard) rather
// than a generic method, with the value threaded between steps stored
// internally as any and recovered through a type assertion chosen by the
// caller's own type parameters.
//
// A quirk preserved from the Java original: submitting a step happens
// synchronously inside the PREVIOUS step's own success callback, so if
// that submission itself fails synchronously — ctx is canceled before
// Put can hand the task to the queue — there is no "current step"
// handler registered yet to call, and the failure is reported to the
// previous step's failure handler instead. A queue that has already
// terminated is not this case: Put resolves it by delivering
// OnTermination to the new step's own handler directly, exactly as any
// other termination would.
type AsyncChain struct {
	sink                 *Sink
	defaultOnFailure     func(error)
	defaultOnTermination func()
	steps                []chainStep
}

type chainStep struct {
	build         func(prev any) func() (any, error)
	discard       bool
	onFailure     func(error) // nil means "use the chain's default"
	onTermination func()      // nil means "use the chain's default"
}

// WithDefaults starts a chain that submits each step to sink, falling
// back to onFailure/onTermination for any step that doesn't override
// them. A nil onFailure or onTermination is treated as a no-op.
func WithDefaults(sink *Sink, onFailure func(error), onTermination func()) *AsyncChain {
	if onFailure == nil {
		onFailure = func(error) {}
	}
	if onTermination == nil {
		onTermination = func() {}
	}
	return &AsyncChain{sink: sink, defaultOnFailure: onFailure, defaultOnTermination: onTermination}
}

func appendStep[Prev, Next any](chain *AsyncChain, step func(Prev) (Next, error), discard bool, onFailure func(error), onTermination func()) *AsyncChain {
	build := func(prev any) func() (any, error) {
		var typedPrev Prev
		if prev != nil {
			typedPrev = prev.(Prev)
		}
		return func() (any, error) {
			return step(typedPrev)
		}
	}
	chain.steps = append(chain.steps, chainStep{
		build:         build,
		discard:       discard,
		onFailure:     onFailure,
		onTermination: onTermination,
	})
	return chain
}

// Call appends a step that runs once the previous step succeeds, using
// the chain's default failure and termination handling.
func Call[Prev, Next any](chain *AsyncChain, step func(Prev) (Next, error)) *AsyncChain {
	return appendStep[Prev, Next](chain, step, false, nil, nil)
}

// CallWithOverrides is Call, but with a failure and/or termination
// handler specific to this step. Pass nil for either to keep the chain's
// default for that outcome.
func CallWithOverrides[Prev, Next any](chain *AsyncChain, step func(Prev) (Next, error), onFailure func(error), onTermination func()) *AsyncChain {
	return appendStep[Prev, Next](chain, step, false, onFailure, onTermination)
}

// CallAndDiscard is Call, but the step's own result is not passed to the
// next step — the value flowing through the chain is left unchanged, as
// if this step had never run (aside from its side effects and its own
// failure/termination handling).
func CallAndDiscard[Prev, Next any](chain *AsyncChain, step func(Prev) (Next, error)) *AsyncChain {
	return appendStep[Prev, Next](chain, step, true, nil, nil)
}

// Execute submits the chain's first step, blocking until it is accepted
// by the sink or ctx is done. Later steps are submitted asynchronously,
// one per worker callback, as earlier steps complete; Execute does not
// wait for the whole chain to finish. Once the chain runs out of steps —
// immediately and synchronously for a zero-step chain, or asynchronously
// from the last step's own success callback — onSuccess is invoked with
// the final value (nil for a zero-step chain). A nil onSuccess is treated
// as a no-op.
func (c *AsyncChain) Execute(ctx context.Context, onSuccess func(any)) error {
	if onSuccess == nil {
		onSuccess = func(any) {}
	}
	return c.runStep(ctx, 0, nil, c.defaultOnFailure, onSuccess)
}

func (c *AsyncChain) runStep(ctx context.Context, index int, carry any, prevOnFailure func(error), onSuccess func(any)) error {
	if index >= len(c.steps) {
		onSuccess(carry)
		return nil
	}
	step := c.steps[index]

	onFailure := step.onFailure
	if onFailure == nil {
		onFailure = c.defaultOnFailure
	}
	onTermination := step.onTermination
	if onTermination == nil {
		onTermination = c.defaultOnTermination
	}

	task := &Task{computation: step.build(carry)}
	task.callback = chainCallback{
		chain:          c,
		ctx:            ctx,
		index:          index,
		discard:        step.discard,
		carry:          carry,
		failure:        onFailure,
		termination:    onTermination,
		chainOnSuccess: onSuccess,
	}

	// putTask itself invokes task.terminate() — and so this step's own
	// onTermination, via chainCallback — when the queue has already
	// terminated; only a synchronous failure to even submit (ctx
	// canceled) is reported here, and it goes to the previous step's
	// handler, per the chain's execution semantics.
	if err := putTask(ctx, c.sink.base, c.sink.enqueue, task); err != nil {
		prevOnFailure(err)
		return err
	}
	return nil
}

// chainCallback is the type-erased callback a chain step's Task carries;
// on success it submits the next step, carrying the result forward (or
// not, for CallAndDiscard steps).
type chainCallback struct {
	chain          *AsyncChain
	ctx            context.Context
	index          int
	discard        bool
	carry          any
	failure        func(error)
	termination    func()
	chainOnSuccess func(any)
}

func (c chainCallback) onSuccess(result any) {
	next := result
	if c.discard {
		next = c.carry
	}
	c.chain.runStep(c.ctx, c.index+1, next, c.failure, c.chainOnSuccess)
}

func (c chainCallback) onFailure(err error) {
	c.failure(err)
}

func (c chainCallback) onTermination() {
	c.termination()
}
