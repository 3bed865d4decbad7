package repeater

// lifecyclePhase tracks which of the deferred lifecycle events have fired.
type lifecyclePhase uint8

const (
	phaseConstructed lifecyclePhase = iota
	phaseAwake
	phaseStarted
)

// microtasks is the deferred-callback queue that separates construction
// from awake and awake from start. A plain slice (no locking): the runtime
// is single-threaded.
var microtasks []func()

func queueMicrotask(fn func()) {
	microtasks = append(microtasks, fn)
}

// FlushMicrotasks runs queued callbacks in FIFO order, including callbacks
// queued while flushing, until the queue is empty. It returns the number of
// callbacks run. The Engine flushes before and after every tick; code that
// drives nodes without an Engine (tests, tools) calls it directly.
func FlushMicrotasks() int {
	ran := 0
	for len(microtasks) > 0 {
		fn := microtasks[0]
		microtasks[0] = nil
		microtasks = microtasks[1:]
		fn()
		ran++
	}
	return ran
}

// PendingMicrotasks returns the number of queued callbacks.
func PendingMicrotasks() int {
	return len(microtasks)
}

// scheduleLifecycle queues awake, which in turn queues start. Both are
// skipped if the node is destroyed first.
func (n *Node) scheduleLifecycle() {
	queueMicrotask(func() {
		if n.Destroyed() {
			return
		}
		n.phase = phaseAwake
		n.Emit(EventAwake, NewEvent())
		queueMicrotask(func() {
			if n.Destroyed() {
				return
			}
			n.phase = phaseStarted
			n.Emit(EventStart, NewEvent())
		})
	})
}

// Awake reports whether the awake event has fired.
func (n *Node) Awake() bool {
	return n.phase >= phaseAwake
}

// Started reports whether the start event has fired.
func (n *Node) Started() bool {
	return n.phase >= phaseStarted
}
