package repeater

type futureState uint8

const (
	futurePending futureState = iota
	futureResolved
	futureRejected
)

// Awaitable is a value a coroutine can suspend on. *Future[T] implements it.
type Awaitable interface {
	Done() bool
	Err() error
	whenSettled(fn func())
	cancel()
}

// Future is a single-assignment result. Callbacks run synchronously inside
// the resolve or reject call that settles it, which is what lets a
// coroutine resume inside the emission that satisfied its wait.
type Future[T any] struct {
	state    futureState
	value    T
	err      error
	waiters  []func()
	onCancel func()
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// Resolved returns a future already resolved with v.
func Resolved[T any](v T) *Future[T] {
	return &Future[T]{state: futureResolved, value: v}
}

// Rejected returns a future already rejected with err.
func Rejected[T any](err error) *Future[T] {
	return &Future[T]{state: futureRejected, err: err}
}

// Pending reports whether the future has not settled yet.
func (f *Future[T]) Pending() bool {
	return f.state == futurePending
}

// Done reports whether the future has settled, either way.
func (f *Future[T]) Done() bool {
	return f.state != futurePending
}

// Resolved reports whether the future settled with a value.
func (f *Future[T]) Resolved() bool {
	return f.state == futureResolved
}

// Value returns the resolved value, or the zero value.
func (f *Future[T]) Value() T {
	return f.value
}

// Err returns the rejection reason, or nil.
func (f *Future[T]) Err() error {
	return f.err
}

// Then calls fn when the future settles, or immediately if it has.
func (f *Future[T]) Then(fn func(v T, err error)) {
	f.whenSettled(func() { fn(f.value, f.err) })
}

func (f *Future[T]) whenSettled(fn func()) {
	if f.state != futurePending {
		fn()
		return
	}
	f.waiters = append(f.waiters, fn)
}

// cancel releases whatever a pending future is waiting on and rejects it
// with ErrAborted. Futures without a cancel hook are left alone.
func (f *Future[T]) cancel() {
	if f.state != futurePending || f.onCancel == nil {
		return
	}
	f.onCancel()
	f.reject(ErrAborted)
}

func (f *Future[T]) resolve(v T) {
	if f.state != futurePending {
		return
	}
	f.state = futureResolved
	f.value = v
	f.settle()
}

func (f *Future[T]) reject(err error) {
	if f.state != futurePending {
		return
	}
	f.state = futureRejected
	f.err = err
	f.settle()
}

func (f *Future[T]) settle() {
	waiters := f.waiters
	f.waiters = nil
	f.onCancel = nil
	for _, fn := range waiters {
		fn()
	}
}
