package repeater

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Method is a handler bound to the node it was declared for.
type Method func(n *Node, e Event) PostListener

// Props is the construction bag interpreted by NewNode.
type Props struct {
	Name string

	// Position and Scale are local; Rotation is XYZ Euler angles in degrees.
	Position *mgl64.Vec3
	Rotation *mgl64.Vec3
	Scale    *mgl64.Vec3

	Children []*Node

	// On and Once bind handlers by event name ("on:<event>", "once:<event>").
	On   map[string]Method
	Once map[string]Method

	// Components run against the node during construction, in order.
	Components []func(n *Node)

	// Class attaches declarative bindings and the class template.
	Class *Class
	// Self is the value Node.Self reports, typically a struct embedding the node.
	Self any
}

// construct applies class bindings, then props, then the class template.
func (n *Node) construct(p Props) {
	n.props = p
	n.class = p.Class
	n.self = p.Self

	if p.Class != nil {
		p.Class.bind(n)
	}

	if p.Name != "" {
		n.Name = p.Name
	} else if p.Class != nil {
		n.Name = p.Class.name
	}
	if p.Position != nil {
		n.localPosition = *p.Position
	}
	if p.Rotation != nil {
		n.localRotation = eulerDegToQuat(*p.Rotation)
	}
	if p.Scale != nil {
		n.localScale = *p.Scale
	}
	n.localDirty = true

	n.Add(p.Children...)

	for _, name := range slices.Sorted(maps.Keys(p.On)) {
		m := p.On[name]
		n.Handle(name, func(e Event) PostListener { return m(n, e) })
	}
	for _, name := range slices.Sorted(maps.Keys(p.Once)) {
		m := p.Once[name]
		n.HandleOnce(name, func(e Event) PostListener { return m(n, e) })
	}

	for _, fn := range p.Components {
		fn(n)
	}

	if tmpl := p.Class.templateFunc(); tmpl != nil {
		n.Add(tmpl(n)...)
	}
}

// ChildRef resolves a descendant lazily with Find semantics and keeps the
// first hit for the rest of the owner's life. Re-parenting after the first
// successful Get is not reflected.
type ChildRef struct {
	owner  *Node
	match  func(*Node) bool
	cached *Node
}

// ChildNamed returns a reference to the first descendant named name.
func ChildNamed(owner *Node, name string) *ChildRef {
	return &ChildRef{owner: owner, match: func(c *Node) bool { return c.Name == name }}
}

// ChildOfClass returns a reference to the first descendant of class.
func ChildOfClass(owner *Node, class *Class) *ChildRef {
	return &ChildRef{owner: owner, match: func(c *Node) bool { return c.class.Is(class) }}
}

// Get returns the referenced node, or nil while nothing matches. A miss is
// not cached.
func (r *ChildRef) Get() *Node {
	if r.cached != nil {
		return r.cached
	}
	r.cached = r.owner.findFunc(r.match)
	return r.cached
}

// ParentRef captures the parent an owner receives at its first
// parentChanged event and keeps it from then on.
type ParentRef struct {
	parent *Node
	set    bool
}

// CaptureParent must be called before owner is attached.
func CaptureParent(owner *Node) *ParentRef {
	r := &ParentRef{}
	ListenOnce(owner, EventParentChanged, func(e *ParentChangedEvent) {
		r.parent = e.Parent
		r.set = true
	})
	return r
}

// Get returns the captured parent, or nil before the first attach.
func (r *ParentRef) Get() *Node {
	return r.parent
}

// Captured reports whether a parent change has been observed.
func (r *ParentRef) Captured() bool {
	return r.set
}

// Watched is a field whose writes are announced on its owner as
// "set(<field>)" events carrying the new and previous values.
type Watched[T any] struct {
	owner *Node
	field string
	value T
}

// Watch creates a watched field owned by owner.
func Watch[T any](owner *Node, field string, initial T) *Watched[T] {
	return &Watched[T]{owner: owner, field: field, value: initial}
}

// Get returns the current value.
func (w *Watched[T]) Get() T {
	return w.value
}

// Set emits the change event, then stores v.
func (w *Watched[T]) Set(v T) {
	w.owner.Emit(SetEventName(w.field), &SetEvent{Field: w.field, Value: v, Previous: w.value})
	w.value = v
}
