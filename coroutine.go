package repeater

import (
	"fmt"
	"iter"
)

// CoroutineFunc is the body of a coroutine. It suspends by passing an
// Awaitable to yield; the scheduler resumes it once the awaitable resolves.
// Yielding nil waits for the node's next update. When yield returns false
// the coroutine has been aborted and the body must return; deferred calls
// run as its cleanup.
//
//	var blink = repeater.NewCoroutine("blink", func(n *repeater.Node, yield func(repeater.Awaitable) bool) {
//		for {
//			if !yield(n.Wait(repeater.EventFixedUpdate, 120)) {
//				return
//			}
//			n.SetLocalScale(mgl64.Vec3{0, 0, 0})
//			if !yield(nil) {
//				return
//			}
//			n.SetLocalScale(mgl64.Vec3{1, 1, 1})
//		}
//	})
type CoroutineFunc func(n *Node, yield func(Awaitable) bool)

// Coroutine is a coroutine definition. Its pointer identity is the key of a
// node's coroutine table: a node runs at most one instance of a given
// definition at a time.
type Coroutine struct {
	name string
	body CoroutineFunc
}

// NewCoroutine defines a coroutine. Define coroutines once (typically at
// package level) and start them on as many nodes as needed.
func NewCoroutine(name string, body CoroutineFunc) *Coroutine {
	return &Coroutine{name: name, body: body}
}

// Name returns the coroutine's name.
func (c *Coroutine) Name() string {
	return c.name
}

func (c *Coroutine) String() string {
	return fmt.Sprintf("coroutine %q", c.name)
}

// coroutineRun is a node's table entry for one running coroutine.
type coroutineRun struct {
	node    *Node
	co      *Coroutine
	abort   *Signal
	started bool

	next func() (Awaitable, bool)
	stop func()

	pending     Awaitable
	destroySlot *Slot
	running     bool
	ended       bool
	done        *Future[struct{}]
}

// Wait returns a future that resolves with the times-th next emission of
// name on n, or rejects with ErrDestroyed if n is destroyed first.
// times below 1 is treated as 1.
func (n *Node) Wait(name string, times int) *Future[Event] {
	if times < 1 {
		times = 1
	}
	f := newFuture[Event]()
	if n.Destroyed() {
		f.reject(ErrDestroyed)
		return f
	}

	abort := NewOnceSignal()
	abort.Once(func() { f.reject(ErrDestroyed) })
	destroySlot := n.destroySignal.Once(abort.Call)

	l := n.Handle(name, func(e Event) PostListener {
		return func(l *Listener) {
			times--
			if times == 0 {
				l.Off()
				destroySlot.Off()
				f.resolve(e)
			}
		}
	}).Until(abort)

	f.onCancel = func() {
		l.Off()
		destroySlot.Off()
	}
	return f
}

// WaitFor is Wait with the payload asserted to E. A payload of another
// type rejects the future.
func WaitFor[E Event](n *Node, name string, times int) *Future[E] {
	raw := n.Wait(name, times)
	f := newFuture[E]()
	f.onCancel = raw.cancel
	raw.Then(func(e Event, err error) {
		if err != nil {
			f.reject(err)
			return
		}
		typed, ok := e.(E)
		if !ok {
			f.reject(fmt.Errorf("repeater: %q payload is %T", name, e))
			return
		}
		f.resolve(typed)
	})
	return f
}

// StartCoroutine runs co on n. If co is already running on n, that run is
// aborted first. The body runs synchronously up to its first suspension
// before StartCoroutine returns.
//
// The returned future resolves when the body returns and rejects with
// ErrAborted or ErrDestroyed when the run is cut short. Yielding it from
// another coroutine delegates to this one: aborting the delegating
// coroutine aborts the delegate as well.
func (n *Node) StartCoroutine(co *Coroutine) *Future[struct{}] {
	if prev, ok := n.coroutines[co]; ok && prev.started {
		prev.abort.Call()
	}
	if n.Destroyed() {
		return Rejected[struct{}](ErrDestroyed)
	}

	r := &coroutineRun{
		node:    n,
		co:      co,
		abort:   NewSignal(),
		started: true,
		done:    newFuture[struct{}](),
	}
	seq := iter.Seq[Awaitable](func(yield func(Awaitable) bool) {
		co.body(n, yield)
	})
	r.next, r.stop = iter.Pull(seq)
	r.done.onCancel = r.abort.Call
	n.coroutines[co] = r

	r.abort.Once(func() { r.terminate(ErrAborted) })
	r.destroySlot = n.destroySignal.Once(func() { r.terminate(ErrDestroyed) })

	r.resume()
	return r.done
}

// Go starts an anonymous coroutine. Each call is a distinct definition, so
// Go never aborts another run.
func (n *Node) Go(body CoroutineFunc) *Future[struct{}] {
	return n.StartCoroutine(NewCoroutine("", body))
}

// StopCoroutine aborts co's run on n. No-op if co is not running.
func (n *Node) StopCoroutine(co *Coroutine) {
	if r, ok := n.coroutines[co]; ok {
		r.abort.Call()
	}
}

// CoroutineStarted reports whether n has a live run of co.
func (n *Node) CoroutineStarted(co *Coroutine) bool {
	_, ok := n.coroutines[co]
	return ok
}

// resume drives the body until it suspends on an unsettled awaitable,
// returns, or is aborted.
func (r *coroutineRun) resume() {
	for !r.ended {
		aw, ok := r.step()

		if r.ended {
			// Aborted from inside the body; it is parked in yield now.
			r.stop()
			return
		}
		if !ok {
			r.finish()
			return
		}
		if aw == nil {
			aw = r.node.Wait(EventUpdate, 1)
		}
		r.pending = aw
		if !aw.Done() {
			aw.whenSettled(func() { r.settled(aw) })
			return
		}
		if aw.Err() != nil {
			r.terminate(aw.Err())
			return
		}
	}
}

// step resumes the body once. A panic in the body ends the run and is
// re-raised to whoever triggered the resumption.
func (r *coroutineRun) step() (aw Awaitable, ok bool) {
	r.running = true
	defer func() {
		r.running = false
		if p := recover(); p != nil {
			if !r.ended {
				r.ended = true
				r.detach()
				r.done.reject(fmt.Errorf("repeater: %s panicked: %v", r.co, p))
			}
			panic(p)
		}
	}()
	return r.next()
}

func (r *coroutineRun) settled(aw Awaitable) {
	if r.ended || r.pending != aw {
		return
	}
	if err := aw.Err(); err != nil {
		r.terminate(err)
		return
	}
	r.resume()
}

// finish handles a body that returned on its own.
func (r *coroutineRun) finish() {
	r.ended = true
	r.detach()
	r.done.resolve(struct{}{})
}

// terminate ends the run early. Only the first trigger has an effect.
func (r *coroutineRun) terminate(reason error) {
	if r.ended {
		return
	}
	r.ended = true
	r.detach()
	if r.pending != nil {
		r.pending.cancel()
	}
	if !r.running {
		r.stop()
	}
	r.done.reject(reason)
}

// detach removes the table entry and the destroy hook.
func (r *coroutineRun) detach() {
	r.started = false
	r.abort.Clear()
	r.destroySlot.Off()
	if cur, ok := r.node.coroutines[r.co]; ok && cur == r {
		delete(r.node.coroutines, r.co)
	}
}
