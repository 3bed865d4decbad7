package repeater

// Class is a set of declarative bindings applied to every node constructed
// with it: event handlers, components created on awake, and a template
// producing default children. Classes may extend another class; the base
// class's bindings are applied first and its template is used when the
// class has none of its own.
//
//	var Turret = repeater.DefineClass("Turret",
//		repeater.OnEvent(repeater.EventFixedUpdate, aim),
//		repeater.WithComponent(func(n *repeater.Node) repeater.Component {
//			return NewGun(GunProps{Rate: 4})
//		}),
//	)
//
//	t := Turret.New(repeater.Props{Name: "left"})
type Class struct {
	name       string
	base       *Class
	bindings   []classBinding
	components []ComponentFactory
	template   func(n *Node) []*Node
}

type classBinding struct {
	event  string
	method Method
	once   bool
	until  []func(n *Node) func(l *Listener)
}

// ClassOption configures a Class.
type ClassOption func(c *Class)

// BindOption adds a stop condition to a class event binding. Every binding
// already stops when the node is destroyed.
type BindOption func(b *classBinding)

// DefineClass creates a class. Define classes once, at package level.
func DefineClass(name string, opts ...ClassOption) *Class {
	c := &Class{name: name}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the class name, used as the default node name.
func (c *Class) Name() string {
	return c.name
}

// Base returns the extended class, or nil.
func (c *Class) Base() *Class {
	return c.base
}

// Is reports whether c is other or extends it. A nil class is nothing.
func (c *Class) Is(other *Class) bool {
	for k := c; k != nil; k = k.base {
		if k == other {
			return true
		}
	}
	return false
}

// New constructs a node of this class.
func (c *Class) New(p Props) *Node {
	p.Class = c
	return NewNode(p)
}

// Extends makes the class inherit base's bindings and template.
func Extends(base *Class) ClassOption {
	return func(c *Class) { c.base = base }
}

// OnEvent binds m to every emission of event on nodes of the class.
func OnEvent(event string, m Method, opts ...BindOption) ClassOption {
	return func(c *Class) {
		b := classBinding{event: event, method: m}
		for _, opt := range opts {
			opt(&b)
		}
		c.bindings = append(c.bindings, b)
	}
}

// OnceEvent binds m to the next emission of event only.
func OnceEvent(event string, m Method, opts ...BindOption) ClassOption {
	return func(c *Class) {
		b := classBinding{event: event, method: m, once: true}
		for _, opt := range opts {
			opt(&b)
		}
		c.bindings = append(c.bindings, b)
	}
}

// WithComponent creates a component when the node fires awake. The
// factory runs at that time, so props it computes see the node after
// construction.
func WithComponent(f ComponentFactory) ClassOption {
	return func(c *Class) { c.components = append(c.components, f) }
}

// WithTemplate sets the function that produces the node's default children.
// It runs once per node, at the end of construction.
func WithTemplate(fn func(n *Node) []*Node) ClassOption {
	return func(c *Class) { c.template = fn }
}

// UntilSignal stops the binding when the signal returned by fn fires.
func UntilSignal(fn func(n *Node) *Signal) BindOption {
	return func(b *classBinding) {
		b.until = append(b.until, func(n *Node) func(*Listener) {
			sig := fn(n)
			return func(l *Listener) { l.Until(sig) }
		})
	}
}

// UntilEmitter stops the binding the first time the emitter returned by fn
// emits the returned event name.
func UntilEmitter(fn func(n *Node) (Emitter, string)) BindOption {
	return func(b *classBinding) {
		b.until = append(b.until, func(n *Node) func(*Listener) {
			em, name := fn(n)
			return func(l *Listener) { l.UntilEvent(em, name) }
		})
	}
}

// bind applies the class chain's bindings to n, base classes first.
func (c *Class) bind(n *Node) {
	if c.base != nil {
		c.base.bind(n)
	}
	for _, b := range c.bindings {
		m := b.method
		h := func(e Event) PostListener { return m(n, e) }
		var l *Listener
		if b.once {
			l = n.HandleOnce(b.event, h)
		} else {
			l = n.Handle(b.event, h)
		}
		l.Until(n.destroySignal)
		for _, until := range b.until {
			until(n)(l)
		}
	}
	for _, f := range c.components {
		factory := f
		n.Once(EventAwake, func(Event) {
			n.AddComponent(factory(n))
		})
	}
}

// templateFunc returns the nearest template in the class chain.
func (c *Class) templateFunc() func(n *Node) []*Node {
	for k := c; k != nil; k = k.base {
		if k.template != nil {
			return k.template
		}
	}
	return nil
}
