package repeater

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Node is the unit of composition: a tree entity with a transform, an event
// registry, components and coroutines.
//
// Nodes are not safe for concurrent use. The runtime is single-threaded and
// cooperative; all mutation happens on the goroutine driving the Engine.
type Node struct {
	id uuid.UUID

	// Name is used by Find. It may be changed at any time.
	Name string

	// TimeScale multiplies the delta reported by Delta.
	TimeScale float64

	class *Class
	self  any
	props Props

	// Hierarchy
	parent   *Node
	children []*Node

	// Transform (local)
	localPosition mgl64.Vec3
	localRotation mgl64.Quat
	localScale    mgl64.Vec3

	// Computed, invalidated by markSubtreeDirty.
	localMatrix mgl64.Mat4
	worldMatrix mgl64.Mat4
	localDirty  bool
	worldDirty  bool

	delta float64
	phase lifecyclePhase

	events        eventRegistry
	destroySignal *Signal
	destroying    bool
	components    []Component
	coroutines    map[*Coroutine]*coroutineRun
}

// NewNode creates a node and applies props. The awake and start events are
// queued on the microtask queue and fire on the next FlushMicrotasks, after
// all synchronous construction work is done.
func NewNode(props Props) *Node {
	n := &Node{
		id:            uuid.New(),
		Name:          "Node",
		TimeScale:     1,
		localRotation: mgl64.QuatIdent(),
		localScale:    mgl64.Vec3{1, 1, 1},
		localDirty:    true,
		worldDirty:    true,
		destroySignal: NewOnceSignal(),
		coroutines:    make(map[*Coroutine]*coroutineRun),
	}
	n.On(EventUpdate, func(e Event) {
		if u, ok := e.(*UpdateEvent); ok {
			n.delta = u.Delta
		}
	})
	n.construct(props)
	n.scheduleLifecycle()
	return n
}

// ID returns the node's unique identifier. IDs are never reused.
func (n *Node) ID() uuid.UUID {
	return n.id
}

// Class returns the class the node was constructed with, or nil.
func (n *Node) Class() *Class {
	return n.class
}

// Self returns the value the node was constructed for (Props.Self), or the
// node itself when none was given. Wrapper types that embed *Node use it to
// recover the outer value from a bare *Node.
func (n *Node) Self() any {
	if n.self != nil {
		return n.self
	}
	return n
}

// Props returns the props the node was constructed with.
func (n *Node) Props() Props {
	return n.props
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, n.id.String()[:8])
}

// Delta returns the most recent update delta scaled by this node's and its
// parent's TimeScale.
func (n *Node) Delta() float64 {
	d := n.delta * n.TimeScale
	if n.parent != nil {
		d *= n.parent.TimeScale
	}
	return d
}

// --- Tree manipulation ---

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetParent moves the node under parent, or detaches it when parent is nil.
// It is the single mutation point of the tree: the old parent's child list,
// the new parent's child list and the back-reference change together.
//
// After the move the node emits "parentChanged" on itself and, when it has
// a new parent, emits "add" upward from itself.
// Panics if the move would create a cycle.
func (n *Node) SetParent(parent *Node) {
	if n.parent == parent {
		return
	}
	if globalDebug {
		debugCheckDestroyed(n, "SetParent (child)")
		if parent != nil {
			debugCheckDestroyed(parent, "SetParent (parent)")
		}
	}
	if parent != nil && isAncestor(n, parent) {
		panic("repeater: adding child would create a cycle")
	}
	previous := n.parent
	if previous != nil {
		previous.removeChildByPtr(n)
	}
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	markSubtreeDirty(n)

	n.Emit(EventParentChanged, &ParentChangedEvent{Parent: parent, Previous: previous})

	if parent != nil {
		if globalDebug {
			debugCheckTreeDepth(n)
			debugCheckChildCount(parent)
		}
		n.EmitUp(EventAdd, &AddEvent{Child: n, Parent: parent})
	}
}

// Add appends children in order. A child that already has a parent is
// moved. Panics if a child is nil or an ancestor of n.
func (n *Node) Add(children ...*Node) {
	for _, child := range children {
		if child == nil {
			panic("repeater: cannot add nil child")
		}
		child.SetParent(n)
	}
}

// RemoveChild detaches child from n.
// Panics if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n {
		panic("repeater: child's parent is not this node")
	}
	child.SetParent(nil)
}

// RemoveFromParent detaches n from its parent. No-op without a parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.SetParent(nil)
}

// Children returns a snapshot of the child list in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Root returns the topmost ancestor, or n itself.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children() {
		child.Walk(fn)
	}
}

// --- Lookup ---

// Find returns the first node named name among the direct children, then
// searches each child's subtree in order. Returns nil if nothing matches.
func (n *Node) Find(name string) *Node {
	return n.findFunc(func(c *Node) bool { return c.Name == name })
}

// FindClass is Find matching on class (or a class extending it).
func (n *Node) FindClass(class *Class) *Node {
	return n.findFunc(func(c *Node) bool { return c.class.Is(class) })
}

// FindType is Find matching nodes whose Self value has type T.
func FindType[T any](n *Node) (T, bool) {
	var zero T
	found := n.findFunc(func(c *Node) bool {
		_, ok := c.Self().(T)
		return ok
	})
	if found == nil {
		return zero, false
	}
	return found.Self().(T), true
}

func (n *Node) findFunc(match func(*Node) bool) *Node {
	for _, c := range n.children {
		if match(c) {
			return c
		}
	}
	for _, c := range n.children {
		if found := c.findFunc(match); found != nil {
			return found
		}
	}
	return nil
}

// --- Events ---

// On registers fn for every emission of name.
func (n *Node) On(name string, fn func(Event)) *Listener {
	return n.Handle(name, func(e Event) PostListener {
		fn(e)
		return nil
	})
}

// Once registers fn for the next emission of name only.
func (n *Node) Once(name string, fn func(Event)) *Listener {
	return n.HandleOnce(name, func(e Event) PostListener {
		fn(e)
		return nil
	})
}

// Handle registers a persistent Handler for name.
func (n *Node) Handle(name string, h Handler) *Listener {
	return n.register(name, h, false)
}

// HandleOnce registers a one-shot Handler for name.
func (n *Node) HandleOnce(name string, h Handler) *Listener {
	return n.register(name, h, true)
}

func (n *Node) register(name string, h Handler, once bool) *Listener {
	if globalDebug {
		debugCheckDestroyed(n, "listen "+name)
	}
	l := &Listener{node: n, name: name, once: once, h: h}
	n.events.add(l)
	return l
}

// Off unregisters l. Equivalent to l.Off().
func (n *Node) Off(l *Listener) {
	if l != nil && l.node == n {
		l.Off()
	}
}

// ListenerCount returns the number of listeners registered for name.
func (n *Node) ListenerCount(name string) int {
	return n.events.count(name)
}

// Listen registers a handler that only sees payloads of type E.
// Payloads of other types are ignored.
func Listen[E Event](n *Node, name string, fn func(E)) *Listener {
	return n.On(name, func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}

// ListenOnce is the one-shot variant of Listen.
func ListenOnce[E Event](n *Node, name string, fn func(E)) *Listener {
	return n.Once(name, func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}

// Emit invokes n's own listeners for name: persistent ones in registration
// order, then one-shot ones, which are discarded afterwards. The event's
// Target and Type are set on first emission only.
//
// A panicking listener aborts the rest of the pass; the panic reaches the
// caller of Emit.
func (n *Node) Emit(name string, e Event) {
	ne := e.nodeEvent()
	if ne.Target == nil {
		ne.Target = n
	}
	if ne.Type == "" {
		ne.Type = name
	}
	n.events.dispatch(name, e)
}

// EmitDown emits on n, then, unless propagation was stopped, on every child
// subtree in order. All nodes receive the same event value.
func (n *Node) EmitDown(name string, e Event) {
	n.Emit(name, e)
	if e.nodeEvent().StoppedPropagation {
		return
	}
	for _, child := range n.Children() {
		child.EmitDown(name, e)
	}
}

// EmitUp emits on n, then, unless propagation was stopped, on its parent.
func (n *Node) EmitUp(name string, e Event) {
	n.Emit(name, e)
	if e.nodeEvent().StoppedPropagation {
		return
	}
	if n.parent != nil {
		n.parent.EmitUp(name, e)
	}
}

// TryEmit is Emit with a panic barrier: a panicking listener still aborts
// the pass, but the panic is returned as an error.
func (n *Node) TryEmit(name string, e Event) (err error) {
	defer recoverListener(name, &err)
	n.Emit(name, e)
	return nil
}

// TryEmitDown is EmitDown with a panic barrier. See TryEmit.
func (n *Node) TryEmitDown(name string, e Event) (err error) {
	defer recoverListener(name, &err)
	n.EmitDown(name, e)
	return nil
}

// TryEmitUp is EmitUp with a panic barrier. See TryEmit.
func (n *Node) TryEmitUp(name string, e Event) (err error) {
	defer recoverListener(name, &err)
	n.EmitUp(name, e)
	return nil
}

// ListenerPanicError wraps a value recovered from a panicking listener.
type ListenerPanicError struct {
	Event string
	Value any
}

func (e *ListenerPanicError) Error() string {
	return fmt.Sprintf("repeater: listener for %q panicked: %v", e.Event, e.Value)
}

// Unwrap returns the recovered value when it is an error.
func (e *ListenerPanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func recoverListener(name string, err *error) {
	if r := recover(); r != nil {
		*err = &ListenerPanicError{Event: name, Value: r}
	}
}

// --- Destruction ---

// DestroySignal returns the once-signal fired by Destroy.
func (n *Node) DestroySignal() *Signal {
	return n.destroySignal
}

// Destroyed reports whether Destroy has been called.
func (n *Node) Destroyed() bool {
	return n.destroySignal.Fired()
}

// Destroy tears the node down. Only the first call has an effect, including
// calls made by destroy listeners while the teardown is running:
//
//  1. "destroy" is emitted on the node;
//  2. the destroy signal fires, which unregisters bound listeners, aborts
//     coroutines, rejects pending waits and runs component teardown;
//  3. a snapshot of the children is destroyed recursively;
//  4. the node's registries are cleared and it leaves its parent.
//
// A destroyed node must not be reused.
func (n *Node) Destroy() {
	if n.destroying {
		return
	}
	n.destroying = true
	n.Emit(EventDestroy, NewEvent())
	n.destroySignal.Call()
	for _, child := range n.Children() {
		child.Destroy()
	}
	n.events.clear()
	if n.parent != nil {
		n.parent.removeChildByPtr(n)
		n.parent = nil
	}
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
