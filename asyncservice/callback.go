package asyncservice

// Callback receives the outcome of a computation submitted to a Queue: the
// result on success, the error on failure, or notice of termination if the
// task never ran (the queue was closed with the task still pending).
//
// Implementations must not block: they run on a worker goroutine, inline
// with the next task's dequeue.
type Callback[R any] interface {
	OnSuccess(result R)
	OnFailure(err error)
	OnTermination()
}

// callbackSink is the type-erased form of Callback[R] that Task stores
// internally, mirroring the way the Java original lets ATaskQueue hold
// Task<?> without knowing each task's result type.
type callbackSink interface {
	onSuccess(result any)
	onFailure(err error)
	onTermination()
}

type callbackAdapter[R any] struct {
	callback Callback[R]
}

func (a callbackAdapter[R]) onSuccess(result any) {
	if a.callback == nil {
		return
	}
	a.callback.OnSuccess(result.(R))
}

func (a callbackAdapter[R]) onFailure(err error) {
	if a.callback == nil {
		return
	}
	a.callback.OnFailure(err)
}

func (a callbackAdapter[R]) onTermination() {
	if a.callback == nil {
		return
	}
	a.callback.OnTermination()
}

func eraseCallback[R any](callback Callback[R]) callbackSink {
	return callbackAdapter[R]{callback: callback}
}

// funcCallback adapts three plain functions into a Callback[R], the
// equivalent of the Java original's Callback.madeOf factory. A nil handler
// for any of the three outcomes is treated as a no-op, exactly as the
// Java original tolerates null handlers.
type funcCallback[R any] struct {
	onSuccess     func(R)
	onFailure     func(error)
	onTermination func()
}

func (f funcCallback[R]) OnSuccess(result R) {
	if f.onSuccess != nil {
		f.onSuccess(result)
	}
}

func (f funcCallback[R]) OnFailure(err error) {
	if f.onFailure != nil {
		f.onFailure(err)
	}
}

func (f funcCallback[R]) OnTermination() {
	if f.onTermination != nil {
		f.onTermination()
	}
}

// CallbackFunc builds a Callback[R] from up to three plain functions. Any
// of the three may be nil, in which case that outcome is silently ignored.
func CallbackFunc[R any](onSuccess func(R), onFailure func(error), onTermination func()) Callback[R] {
	return funcCallback[R]{onSuccess: onSuccess, onFailure: onFailure, onTermination: onTermination}
}

// overrideSuccessCallback decorates a Callback[R], routing OnSuccess to fn
// while forwarding OnFailure/OnTermination to the wrapped callback.
type overrideSuccessCallback[R any] struct {
	onSuccess func(R)
	delegate  Callback[R]
}

func (o overrideSuccessCallback[R]) OnSuccess(result R) {
	if o.onSuccess != nil {
		o.onSuccess(result)
	}
}

func (o overrideSuccessCallback[R]) OnFailure(err error) {
	if o.delegate != nil {
		o.delegate.OnFailure(err)
	}
}

func (o overrideSuccessCallback[R]) OnTermination() {
	if o.delegate != nil {
		o.delegate.OnTermination()
	}
}

// OverrideSuccess returns a new Callback[R] that routes success to fn while
// delegating failure and termination to callback unchanged. callback may be
// nil, in which case failure/termination are silently ignored.
func OverrideSuccess[R any](callback Callback[R], fn func(R)) Callback[R] {
	return overrideSuccessCallback[R]{onSuccess: fn, delegate: callback}
}
